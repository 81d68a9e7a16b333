package catalog

// Stats summarizes a corpus for the stats and validate commands.
type Stats struct {
	Tools      int
	Categories []CategoryCount

	// DependencyRefs counts every dependency entry across all tools.
	DependencyRefs int

	// Dangling lists dependency names that are not tools in the corpus,
	// each with the number of tools referencing it, in first-seen order.
	Dangling []DanglingDependency
}

// DanglingDependency is a dependency name missing from the corpus.
type DanglingDependency struct {
	Name       string
	References int
}

// ComputeStats walks the corpus once and returns its summary.
func ComputeStats(c *Corpus) Stats {
	s := Stats{
		Tools:      c.Len(),
		Categories: c.Categories().Counts(),
	}

	pos := make(map[string]int)
	for _, t := range c.tools {
		for _, dep := range t.Dependencies {
			s.DependencyRefs++
			if c.Has(dep) {
				continue
			}
			key := normalizeKey(dep)
			if i, seen := pos[key]; seen {
				s.Dangling[i].References++
				continue
			}
			pos[key] = len(s.Dangling)
			s.Dangling = append(s.Dangling, DanglingDependency{Name: dep, References: 1})
		}
	}

	return s
}
