/*
Package pacman builds tool records from the BlackArch package repository.

It parses `pacman -Sgg` group listings and `pacman -Si` package info, and
the Scraper drives both through a runner to produce a fresh corpus.
*/
package pacman

import (
	"bufio"
	"bytes"
	"sort"
	"strings"

	"github.com/bapanel/bapanel/internal/catalog"
)

// GroupPrefix marks BlackArch groups.
const GroupPrefix = "blackarch"

// Info is one package block of `pacman -Si` output.
type Info struct {
	Name        string
	Version     string
	Description string
	URL         string
	Groups      []string
	Depends     []string
	OptDepends  []string
}

// Record converts the package into a tool record. The first blackarch-*
// group is the category; remaining blackarch-* groups are kept as Groups.
func (i Info) Record() catalog.ToolRecord {
	record := catalog.ToolRecord{
		Name:                 i.Name,
		Description:          i.Description,
		Dependencies:         append([]string{}, i.Depends...),
		Version:              i.Version,
		URL:                  i.URL,
		HelpCommand:          catalog.DefaultHelpCommand(i.Name),
		OptionalDependencies: cloneOrNil(i.OptDepends),
	}

	for _, group := range i.Groups {
		if !strings.HasPrefix(group, GroupPrefix+"-") {
			continue
		}
		if record.Category == "" {
			record.Category = group
			continue
		}
		record.Groups = append(record.Groups, group)
	}
	if record.Category == "" {
		record.Category = catalog.UncategorizedCategory
	}
	return record
}

// ParseInfos parses `pacman -Si` output holding one or more packages
// separated by blank lines. Blocks without a Name are dropped.
func ParseInfos(data []byte) []Info {
	var (
		infos   []Info
		current Info
		field   string
		started bool
	)

	flush := func() {
		if started && current.Name != "" {
			infos = append(infos, current)
		}
		current = Info{}
		field = ""
		started = false
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		started = true

		// Indented lines continue the previous list field.
		if line[0] == ' ' || line[0] == '\t' {
			current.appendTo(field, strings.TrimSpace(line))
			continue
		}

		key, value, ok := strings.Cut(line, ":")
		if !ok {
			field = ""
			continue
		}
		field = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)

		switch field {
		case "name":
			current.Name = value
		case "version":
			current.Version = value
		case "description":
			current.Description = noneToEmpty(value)
		case "url":
			current.URL = noneToEmpty(value)
		default:
			current.appendTo(field, value)
		}
	}
	flush()

	return infos
}

// ParseInfo parses output for a single package.
func ParseInfo(data []byte) (Info, bool) {
	infos := ParseInfos(data)
	if len(infos) == 0 {
		return Info{}, false
	}
	return infos[0], true
}

func (i *Info) appendTo(field, value string) {
	if value == "" || value == "None" {
		return
	}
	switch field {
	case "groups":
		i.Groups = append(i.Groups, strings.Fields(value)...)
	case "depends on":
		for _, dep := range strings.Fields(value) {
			i.Depends = append(i.Depends, stripConstraint(dep))
		}
	case "optional deps":
		// One entry per line: "name: reason [installed]".
		name, _, _ := strings.Cut(value, ":")
		name = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(name), "[installed]"))
		if name != "" {
			i.OptDepends = append(i.OptDepends, stripConstraint(name))
		}
	}
}

// ParseGroupList extracts the unique, sorted package names of every
// blackarch group from `pacman -Sgg` output ("group package" per line).
func ParseGroupList(data []byte) []string {
	seen := make(map[string]bool)
	var names []string
	for _, line := range strings.Split(string(data), "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 || !strings.HasPrefix(fields[0], GroupPrefix) {
			continue
		}
		if !seen[fields[1]] {
			seen[fields[1]] = true
			names = append(names, fields[1])
		}
	}
	sort.Strings(names)
	return names
}

func stripConstraint(dep string) string {
	if i := strings.IndexAny(dep, "<>="); i > 0 {
		return dep[:i]
	}
	return dep
}

func noneToEmpty(s string) string {
	if s == "None" {
		return ""
	}
	return s
}

func cloneOrNil(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	return append([]string(nil), in...)
}
