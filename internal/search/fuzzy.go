package search

import (
	"sort"
	"strings"

	"github.com/junegunn/fzf/src/algo"
	"github.com/junegunn/fzf/src/util"

	"github.com/bapanel/bapanel/internal/catalog"
)

// fuzzyScore scores pattern against text the way fzf does. Both sides are
// compared lower-cased; zero means no match.
func fuzzyScore(text string, pattern []rune, slab *util.Slab) int {
	if len(pattern) == 0 {
		return 0
	}
	chars := util.ToChars([]byte(strings.ToLower(text)))
	result, _ := algo.FuzzyMatchV2(false, true, true, &chars, pattern, false, slab)
	if result.Start < 0 {
		return 0
	}
	return result.Score
}

// fuzzyMatches returns the tools that only match q fuzzily, best score
// first with ties in corpus order.
func fuzzyMatches(c *catalog.Corpus, q string) []Match {
	pattern := []rune(q)
	slab := util.MakeSlab(100*1024, 2048)

	var out []Match
	for _, tool := range c.All() {
		if classify(tool, q) != 0 {
			continue
		}
		if score := fuzzyScore(tool.Name, pattern, slab); score > 0 {
			out = append(out, Match{Tool: tool, Tier: TierFuzzy, Score: score})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}
