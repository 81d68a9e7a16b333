/*
Package related scores how similar tools are to each other.

The score of a candidate U against a target T is

	w.Category    * [T and U share a category]
	+ w.Description * Jaccard(tokens(T), tokens(U))
	+ w.Dependency  * |shared dependencies that are tools in the corpus|

Description tokens are lower-cased words with surrounding punctuation
trimmed and common English stop words removed.
*/
package related

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bapanel/bapanel/internal/catalog"
)

// Weights scales the three components of a relatedness score.
type Weights struct {
	Category    float64 `json:"category" mapstructure:"category"`
	Description float64 `json:"description" mapstructure:"description"`
	Dependency  float64 `json:"dependency" mapstructure:"dependency"`
}

// DefaultWeights favour description overlap, then category, then each
// shared dependency.
func DefaultWeights() Weights {
	return Weights{Category: 1.0, Description: 2.0, Dependency: 0.5}
}

// Validate rejects negative weights and an all-zero set.
func (w Weights) Validate() error {
	if w.Category < 0 || w.Description < 0 || w.Dependency < 0 {
		return fmt.Errorf("relatedness weights must not be negative: %+v", w)
	}
	if w.Category == 0 && w.Description == 0 && w.Dependency == 0 {
		return fmt.Errorf("at least one relatedness weight must be positive")
	}
	return nil
}

// Scored is one related tool with its score breakdown. The component
// fields hold weighted values and sum to Score.
type Scored struct {
	Tool             catalog.ToolRecord
	Score            float64
	CategoryScore    float64
	DescriptionScore float64
	DependencyScore  float64
}

// Related returns up to limit tools most similar to the named tool,
// highest score first with ties in corpus order. The tool itself and
// tools scoring zero are never returned.
func Related(c *catalog.Corpus, name string, limit int, w Weights) ([]Scored, error) {
	if limit <= 0 {
		return nil, catalog.ErrInvalidLimit
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}

	targetPos, ok := c.Index(name)
	if !ok {
		return nil, &catalog.NotFoundError{Kind: "tool", Name: name}
	}
	target := c.At(targetPos)
	targetTokens := tokenSet(target.Description)
	targetDeps := toolDependencies(c, target)

	var out []Scored
	for pos, tool := range c.All() {
		if pos == targetPos {
			continue
		}

		s := Scored{Tool: tool}
		if strings.EqualFold(tool.Category, target.Category) {
			s.CategoryScore = w.Category
		}
		s.DescriptionScore = w.Description * jaccard(targetTokens, tokenSet(tool.Description))
		s.DependencyScore = w.Dependency * float64(intersect(targetDeps, toolDependencies(c, tool)))
		s.Score = s.CategoryScore + s.DescriptionScore + s.DependencyScore

		if s.Score > 0 {
			out = append(out, s)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})

	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// toolDependencies returns the case-folded dependency names of tool that
// are themselves tools in c. Dangling names never contribute to a score.
func toolDependencies(c *catalog.Corpus, tool catalog.ToolRecord) map[string]bool {
	deps := make(map[string]bool, len(tool.Dependencies))
	for _, dep := range tool.Dependencies {
		if c.Has(dep) {
			deps[strings.ToLower(strings.TrimSpace(dep))] = true
		}
	}
	return deps
}

func intersect(a, b map[string]bool) int {
	if len(b) < len(a) {
		a, b = b, a
	}
	n := 0
	for k := range a {
		if b[k] {
			n++
		}
	}
	return n
}
