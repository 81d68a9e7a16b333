package database

import (
	"strings"

	"github.com/bapanel/bapanel/internal/catalog"
)

// Subset builds a corpus holding only the named tools, in the source
// corpus's load order. Unknown names fail with catalog.NotFoundError;
// repeated names are kept once.
func Subset(c *catalog.Corpus, names []string) (*catalog.Corpus, error) {
	keep := make(map[int]bool, len(names))
	for _, name := range names {
		i, ok := c.Index(name)
		if !ok {
			return nil, &catalog.NotFoundError{Kind: "tool", Name: strings.TrimSpace(name)}
		}
		keep[i] = true
	}

	records := make([]catalog.ToolRecord, 0, len(keep))
	for i, tool := range c.All() {
		if keep[i] {
			records = append(records, tool)
		}
	}
	return catalog.New(records)
}
