package search

import (
	"iter"
	"strings"

	"github.com/bapanel/bapanel/internal/catalog"
)

// Options tunes Search.
type Options struct {
	// Fuzzy adds a final tier of fzf-style matches against tool names.
	Fuzzy bool
}

// Search returns the tools matching query, best tier first.
//
// Matching ignores case. The returned sequence is lazy and can be ranged
// over any number of times; each pass re-reads the corpus and never
// modifies it.
func Search(c *catalog.Corpus, query string, opts Options) (iter.Seq[catalog.ToolRecord], error) {
	matches, err := matchSeq(c, query, opts)
	if err != nil {
		return nil, err
	}
	return func(yield func(catalog.ToolRecord) bool) {
		for m := range matches {
			if !yield(m.Tool) {
				return
			}
		}
	}, nil
}

// Matches is Search with the tier of every hit, materialized.
func Matches(c *catalog.Corpus, query string, opts Options) ([]Match, error) {
	matches, err := matchSeq(c, query, opts)
	if err != nil {
		return nil, err
	}
	var out []Match
	for m := range matches {
		out = append(out, m)
	}
	return out, nil
}

// Collect drains a search sequence into a slice.
func Collect(seq iter.Seq[catalog.ToolRecord]) []catalog.ToolRecord {
	var out []catalog.ToolRecord
	for tool := range seq {
		out = append(out, tool)
	}
	return out
}

func matchSeq(c *catalog.Corpus, query string, opts Options) (iter.Seq[Match], error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil, catalog.ErrEmptyQuery
	}

	return func(yield func(Match) bool) {
		for _, tier := range []Tier{TierExactName, TierNameSubstring, TierDescription} {
			for _, tool := range c.All() {
				if classify(tool, q) != tier {
					continue
				}
				if !yield(Match{Tool: tool, Tier: tier}) {
					return
				}
			}
		}

		if !opts.Fuzzy {
			return
		}
		for _, m := range fuzzyMatches(c, q) {
			if !yield(m) {
				return
			}
		}
	}, nil
}

// classify returns the substring tier of tool for a lower-cased query,
// or zero when none applies.
func classify(tool catalog.ToolRecord, q string) Tier {
	name := strings.ToLower(tool.Name)
	switch {
	case name == q:
		return TierExactName
	case strings.Contains(name, q):
		return TierNameSubstring
	case strings.Contains(strings.ToLower(tool.Description), q),
		strings.Contains(strings.ToLower(tool.LongDescription), q):
		return TierDescription
	}
	return 0
}
