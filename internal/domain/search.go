package domain

// CategoryCount number of active providers in a category
type CategoryCount struct {
	Category string
	Count    int
}

// SearchFacets describes the whole active catalog, independent of the applied filters
type SearchFacets struct {
	Categories []CategoryCount
	MinPrice   float64
	MaxPrice   float64
}

// Pagination of a search result
type Pagination struct {
	Page       int
	PageSize   int
	Total      int
	TotalPages int
}

// SearchResult one page of filtered providers
type SearchResult struct {
	Providers  []Provider
	Pagination Pagination
	Facets     SearchFacets
}
