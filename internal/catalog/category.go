package catalog

// CategoryIndex groups tool names by category. Categories are matched
// ignoring case; the spelling of the first tool seen in a category is
// the one reported by Names.
type CategoryIndex struct {
	order   []string
	display map[string]string
	members map[string][]string
}

// CategoryCount pairs a category with its number of tools.
type CategoryCount struct {
	Name  string
	Count int
}

func buildCategoryIndex(tools []ToolRecord) *CategoryIndex {
	idx := &CategoryIndex{
		display: make(map[string]string),
		members: make(map[string][]string),
	}
	for _, t := range tools {
		key := normalizeKey(t.Category)
		if _, seen := idx.display[key]; !seen {
			idx.display[key] = t.Category
			idx.order = append(idx.order, key)
		}
		idx.members[key] = append(idx.members[key], t.Name)
	}
	return idx
}

// Len returns the number of distinct categories.
func (idx *CategoryIndex) Len() int {
	return len(idx.order)
}

// Names returns category names in first-seen order.
func (idx *CategoryIndex) Names() []string {
	names := make([]string, len(idx.order))
	for i, key := range idx.order {
		names[i] = idx.display[key]
	}
	return names
}

// Counts returns every category with its size, in first-seen order.
func (idx *CategoryIndex) Counts() []CategoryCount {
	counts := make([]CategoryCount, len(idx.order))
	for i, key := range idx.order {
		counts[i] = CategoryCount{Name: idx.display[key], Count: len(idx.members[key])}
	}
	return counts
}

// Has reports whether the category exists.
func (idx *CategoryIndex) Has(category string) bool {
	_, ok := idx.members[normalizeKey(category)]
	return ok
}

// Tools returns the tool names of a category in load order.
func (idx *CategoryIndex) Tools(category string) ([]string, error) {
	members, ok := idx.members[normalizeKey(category)]
	if !ok {
		return nil, &NotFoundError{Kind: "category", Name: category}
	}
	return cloneStrings(members), nil
}
