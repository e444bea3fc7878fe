package domain

// SortBy ordering of search results
type SortBy string

const (
	SortBestMatch SortBy = "best_match"
	SortPriceAsc  SortBy = "price_asc"
	SortPriceDesc SortBy = "price_desc"
	SortRating    SortBy = "rating"
)

// IsValid reports whether s is a known ordering
func (s SortBy) IsValid() bool {
	switch s {
	case SortBestMatch, SortPriceAsc, SortPriceDesc, SortRating:
		return true
	}
	return false
}

// PriceRange inclusive bounds on a provider's starting price.
// A nil bound is open.
type PriceRange struct {
	Min *float64
	Max *float64
}

// Contains reports whether price lies within the range
func (r PriceRange) Contains(price float64) bool {
	if r.Min != nil && price < *r.Min {
		return false
	}
	if r.Max != nil && price > *r.Max {
		return false
	}
	return true
}

// FilterCriteria describes one provider search
type FilterCriteria struct {
	SearchQuery  string
	Categories   []string
	Location     string
	PriceRange   PriceRange
	Availability []string
	SortBy       SortBy
}
