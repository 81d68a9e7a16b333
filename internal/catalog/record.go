/*
Package catalog holds the in-memory tool database: tool records, the
derived category index, and the error taxonomy shared by every package
that reads or writes the database.

A Corpus is built once (normally by the database package) and is
read-only afterwards. Every accessor hands out copies, so search,
relatedness and wrapper generation can never mutate it.
*/
package catalog

import "strings"

// UncategorizedCategory is assigned by the scraper when a package carries
// no blackarch-* group.
const UncategorizedCategory = "blackarch-uncategorized"

// ToolRecord is one tool's metadata.
type ToolRecord struct {
	// Name is the unique identifier. Lookups ignore case.
	Name string `json:"name"`

	// Category is the primary category. Never empty.
	Category string `json:"category"`

	// Description is the short, one-line description.
	Description string `json:"description"`

	// Dependencies lists other tool or system package names. Names that do
	// not exist in the corpus are allowed.
	Dependencies []string `json:"dependencies"`

	// Path is the command a wrapper invokes. Empty means Name.
	Path string `json:"path,omitempty"`

	Version              string   `json:"version,omitempty"`
	LongDescription      string   `json:"long_description,omitempty"`
	URL                  string   `json:"url,omitempty"`
	HelpCommand          string   `json:"help_command,omitempty"`
	OptionalDependencies []string `json:"optional_dependencies,omitempty"`

	// Groups lists secondary blackarch-* groups besides Category.
	Groups []string `json:"groups,omitempty"`
}

// Command returns the executable a wrapper should run.
func (t ToolRecord) Command() string {
	if t.Path != "" {
		return t.Path
	}
	return t.Name
}

// HelpCmd returns the shell command that prints the tool's usage.
func (t ToolRecord) HelpCmd() string {
	if t.HelpCommand != "" {
		return t.HelpCommand
	}
	return DefaultHelpCommand(t.Name)
}

// DefaultHelpCommand is the help command the scraper records for a tool.
func DefaultHelpCommand(name string) string {
	return name + " --help || man " + name
}

// Summary returns the long description when present, else the short one.
func (t ToolRecord) Summary() string {
	if strings.TrimSpace(t.LongDescription) != "" {
		return t.LongDescription
	}
	return t.Description
}

// Clone returns a deep copy of the record.
func (t ToolRecord) Clone() ToolRecord {
	out := t
	out.Dependencies = cloneStrings(t.Dependencies)
	if t.OptionalDependencies != nil {
		out.OptionalDependencies = cloneStrings(t.OptionalDependencies)
	}
	if t.Groups != nil {
		out.Groups = cloneStrings(t.Groups)
	}
	return out
}

func cloneStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}

// normalizeKey is the case-folded form used for every name lookup.
func normalizeKey(s string) string {
	return strings.ToLower(s)
}
