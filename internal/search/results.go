/*
Package search finds tools in a corpus.

Search ranks tools in strict tiers: an exact name match, then a name
substring match, then a description substring match, and optionally an
fzf-style fuzzy match on the name. Within a substring tier tools keep
their corpus order. Index adds BM25 keyword ranking over name, category
and description for multi-word queries.
*/
package search

import "github.com/bapanel/bapanel/internal/catalog"

// Tier is the strength of a search match. Lower tiers rank first.
type Tier int

const (
	TierExactName Tier = iota + 1
	TierNameSubstring
	TierDescription
	TierFuzzy
)

func (t Tier) String() string {
	switch t {
	case TierExactName:
		return "exact"
	case TierNameSubstring:
		return "name"
	case TierDescription:
		return "description"
	case TierFuzzy:
		return "fuzzy"
	default:
		return "none"
	}
}

// Match is one tiered search hit. Score is the fzf score for fuzzy
// matches and zero otherwise.
type Match struct {
	Tool  catalog.ToolRecord
	Tier  Tier
	Score int
}

// Result is one BM25 hit.
type Result struct {
	Tool  catalog.ToolRecord `json:"tool"`
	Score float64            `json:"score"`
}
