package catalog

import (
	"fmt"
	"iter"
	"strings"
)

// Corpus is the full set of tools loaded for one session.
type Corpus struct {
	tools      []ToolRecord
	byName     map[string]int
	categories *CategoryIndex
}

// New builds a corpus from records in load order.
//
// Every record needs a non-empty name and category, and names must be
// unique ignoring case. The first violation is reported as a SchemaError
// carrying the record's position. Records are copied; nil dependency
// lists become empty ones.
func New(records []ToolRecord) (*Corpus, error) {
	c := &Corpus{
		tools:  make([]ToolRecord, 0, len(records)),
		byName: make(map[string]int, len(records)),
	}

	for i, rec := range records {
		if strings.TrimSpace(rec.Name) == "" {
			return nil, &SchemaError{Index: i, Field: "name", Reason: "must be a non-empty string"}
		}
		if strings.TrimSpace(rec.Category) == "" {
			return nil, &SchemaError{Index: i, Field: "category", Reason: "must be a non-empty string"}
		}

		key := normalizeKey(rec.Name)
		if first, exists := c.byName[key]; exists {
			return nil, &SchemaError{
				Index:  i,
				Field:  "name",
				Reason: fmt.Sprintf("duplicate name %q (case-insensitive match with record %d)", rec.Name, first),
			}
		}

		rec = rec.Clone()
		if rec.Dependencies == nil {
			rec.Dependencies = []string{}
		}
		// Empty optional lists are omitted on dump; keep them nil so a
		// reloaded corpus compares equal.
		if len(rec.OptionalDependencies) == 0 {
			rec.OptionalDependencies = nil
		}
		if len(rec.Groups) == 0 {
			rec.Groups = nil
		}

		c.byName[key] = len(c.tools)
		c.tools = append(c.tools, rec)
	}

	c.categories = buildCategoryIndex(c.tools)
	return c, nil
}

// Len returns the number of tools.
func (c *Corpus) Len() int {
	return len(c.tools)
}

// At returns a copy of the i-th tool in load order.
func (c *Corpus) At(i int) ToolRecord {
	return c.tools[i].Clone()
}

// Tools returns copies of all tools in load order.
func (c *Corpus) Tools() []ToolRecord {
	out := make([]ToolRecord, len(c.tools))
	for i, t := range c.tools {
		out[i] = t.Clone()
	}
	return out
}

// All iterates over the tools in load order, yielding position and copy.
func (c *Corpus) All() iter.Seq2[int, ToolRecord] {
	return func(yield func(int, ToolRecord) bool) {
		for i, t := range c.tools {
			if !yield(i, t.Clone()) {
				return
			}
		}
	}
}

// Names returns tool names in load order.
func (c *Corpus) Names() []string {
	names := make([]string, len(c.tools))
	for i, t := range c.tools {
		names[i] = t.Name
	}
	return names
}

// Index returns the load position of the named tool.
func (c *Corpus) Index(name string) (int, bool) {
	i, ok := c.byName[normalizeKey(name)]
	return i, ok
}

// Has reports whether a tool with this name exists, ignoring case.
func (c *Corpus) Has(name string) bool {
	_, ok := c.byName[normalizeKey(name)]
	return ok
}

// Lookup returns the named tool, ignoring case.
func (c *Corpus) Lookup(name string) (ToolRecord, error) {
	i, ok := c.Index(name)
	if !ok {
		return ToolRecord{}, &NotFoundError{Kind: "tool", Name: name}
	}
	return c.tools[i].Clone(), nil
}

// Categories returns the category grouping derived at construction.
func (c *Corpus) Categories() *CategoryIndex {
	return c.categories
}

// InCategory returns the tools of a category in load order.
func (c *Corpus) InCategory(category string) ([]ToolRecord, error) {
	names, err := c.categories.Tools(category)
	if err != nil {
		return nil, err
	}
	out := make([]ToolRecord, 0, len(names))
	for _, name := range names {
		out = append(out, c.tools[c.byName[normalizeKey(name)]].Clone())
	}
	return out, nil
}
