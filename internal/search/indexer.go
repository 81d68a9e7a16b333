package search

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/bapanel/bapanel/internal/catalog"
)

// Index is an in-memory BM25 index over a corpus.
type Index struct {
	bleveIndex bleve.Index
	corpus     *catalog.Corpus
	mu         sync.RWMutex
}

// NewIndex indexes every tool of c.
func NewIndex(c *catalog.Corpus) (*Index, error) {
	index, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create bleve index: %w", err)
	}

	batch := index.NewBatch()
	for _, tool := range c.All() {
		doc := map[string]interface{}{
			"name":             tool.Name,
			"category":         tool.Category,
			"category_key":     strings.ToLower(tool.Category),
			"description":      tool.Description,
			"long_description": tool.LongDescription,
		}
		if err := batch.Index(tool.Name, doc); err != nil {
			index.Close()
			return nil, fmt.Errorf("failed to index tool %s: %w", tool.Name, err)
		}
	}

	if err := index.Batch(batch); err != nil {
		index.Close()
		return nil, fmt.Errorf("failed to batch index tools: %w", err)
	}

	return &Index{bleveIndex: index, corpus: c}, nil
}

// buildIndexMapping creates the Bleve index mapping.
func buildIndexMapping() mapping.IndexMapping {
	toolMapping := bleve.NewDocumentMapping()

	for _, field := range []string{"name", "category", "description", "long_description"} {
		toolMapping.AddFieldMappingsAt(field, bleve.NewTextFieldMapping())
	}

	// Exact, case-folded category for filtering; kept out of _all.
	categoryKey := bleve.NewTextFieldMapping()
	categoryKey.Analyzer = keyword.Name
	categoryKey.IncludeInAll = false
	toolMapping.AddFieldMappingsAt("category_key", categoryKey)

	indexMapping := bleve.NewIndexMapping()
	indexMapping.AddDocumentMapping("_default", toolMapping)

	return indexMapping
}

// SearchBM25 ranks tools against a free-text query. Equal scores keep
// corpus order. A non-positive limit defaults to 10.
func (i *Index) SearchBM25(text string, limit int) ([]Result, error) {
	if strings.TrimSpace(text) == "" {
		return nil, catalog.ErrEmptyQuery
	}
	return i.run(bleve.NewMatchQuery(text), limit)
}

// SearchInCategory is SearchBM25 restricted to one category.
func (i *Index) SearchInCategory(text, category string, limit int) ([]Result, error) {
	if strings.TrimSpace(text) == "" {
		return nil, catalog.ErrEmptyQuery
	}
	if !i.corpus.Categories().Has(category) {
		return nil, &catalog.NotFoundError{Kind: "category", Name: category}
	}

	categoryQuery := bleve.NewTermQuery(strings.ToLower(strings.TrimSpace(category)))
	categoryQuery.SetField("category_key")

	return i.run(bleve.NewConjunctionQuery(bleve.NewMatchQuery(text), categoryQuery), limit)
}

func (i *Index) run(q query.Query, limit int) ([]Result, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	if limit <= 0 {
		limit = 10
	}

	// Fetch every hit so ties at the limit are cut deterministically.
	searchRequest := bleve.NewSearchRequestOptions(q, i.corpus.Len(), 0, false)
	results, err := i.bleveIndex.Search(searchRequest)
	if err != nil {
		return nil, fmt.Errorf("bleve search failed: %w", err)
	}

	type ranked struct {
		pos   int
		score float64
	}
	hits := make([]ranked, 0, len(results.Hits))
	for _, hit := range results.Hits {
		pos, ok := i.corpus.Index(hit.ID)
		if !ok {
			continue
		}
		hits = append(hits, ranked{pos: pos, score: hit.Score})
	}

	sort.Slice(hits, func(a, b int) bool {
		if hits[a].score != hits[b].score {
			return hits[a].score > hits[b].score
		}
		return hits[a].pos < hits[b].pos
	})

	if len(hits) > limit {
		hits = hits[:limit]
	}

	out := make([]Result, len(hits))
	for n, h := range hits {
		out[n] = Result{Tool: i.corpus.At(h.pos), Score: h.score}
	}
	return out, nil
}

// Count returns the number of indexed tools.
func (i *Index) Count() (uint64, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	docCount, err := i.bleveIndex.DocCount()
	if err != nil {
		return 0, fmt.Errorf("failed to get doc count: %w", err)
	}

	return docCount, nil
}

// Close releases the index.
func (i *Index) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.bleveIndex != nil {
		return i.bleveIndex.Close()
	}

	return nil
}
