package search_providers

import (
	"sort"
	"strings"

	"github.com/m04kA/SMC-MarketplaceService/internal/domain"
)

// Apply фильтрует и сортирует провайдеров по критериям.
// Каждый вызов пересчитывает результат полностью, входной срез не изменяется
func Apply(providers []domain.Provider, criteria domain.FilterCriteria) []domain.Provider {
	query := strings.ToLower(strings.TrimSpace(criteria.SearchQuery))
	location := strings.ToLower(strings.TrimSpace(criteria.Location))
	categories := nonBlank(criteria.Categories)
	availability := nonBlank(criteria.Availability)

	result := make([]domain.Provider, 0, len(providers))
	for i := range providers {
		p := &providers[i]
		if !p.IsActive {
			continue
		}
		if query != "" && !matchesQuery(p, query) {
			continue
		}
		if len(categories) > 0 && !containsFold(categories, p.Category) {
			continue
		}
		if location != "" && !strings.Contains(strings.ToLower(p.Location), location) {
			continue
		}
		if !criteria.PriceRange.Contains(p.StartingPrice) {
			continue
		}
		if len(availability) > 0 && !hasAnyAvailability(p, availability) {
			continue
		}
		result = append(result, *p)
	}

	sortProviders(result, criteria.SortBy)
	return result
}

// Facets считает категории и диапазон цен по всем активным провайдерам
func Facets(providers []domain.Provider) domain.SearchFacets {
	counts := make(map[string]int)
	facets := domain.SearchFacets{Categories: make([]domain.CategoryCount, 0)}

	first := true
	for _, p := range providers {
		if !p.IsActive {
			continue
		}
		counts[p.Category]++
		if first || p.StartingPrice < facets.MinPrice {
			facets.MinPrice = p.StartingPrice
		}
		if first || p.StartingPrice > facets.MaxPrice {
			facets.MaxPrice = p.StartingPrice
		}
		first = false
	}

	for category, count := range counts {
		facets.Categories = append(facets.Categories, domain.CategoryCount{Category: category, Count: count})
	}
	sort.Slice(facets.Categories, func(i, j int) bool {
		return facets.Categories[i].Category < facets.Categories[j].Category
	})

	return facets
}

// Paginate возвращает страницу page (с 1). Страница за пределами списка пустая
func Paginate(providers []domain.Provider, page, pageSize int) ([]domain.Provider, domain.Pagination) {
	total := len(providers)
	pagination := domain.Pagination{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: (total + pageSize - 1) / pageSize,
	}

	start := (page - 1) * pageSize
	if start >= total {
		return []domain.Provider{}, pagination
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	return providers[start:end], pagination
}

func sortProviders(providers []domain.Provider, sortBy domain.SortBy) {
	switch sortBy {
	case domain.SortPriceAsc:
		sort.SliceStable(providers, func(i, j int) bool {
			return providers[i].StartingPrice < providers[j].StartingPrice
		})
	case domain.SortPriceDesc:
		sort.SliceStable(providers, func(i, j int) bool {
			return providers[i].StartingPrice > providers[j].StartingPrice
		})
	case domain.SortRating:
		sort.SliceStable(providers, func(i, j int) bool {
			return providers[i].Rating > providers[j].Rating
		})
	}
	// best_match сохраняет порядок каталога
}

func matchesQuery(p *domain.Provider, query string) bool {
	return strings.Contains(strings.ToLower(p.Name), query) ||
		strings.Contains(strings.ToLower(p.BusinessName), query) ||
		strings.Contains(strings.ToLower(p.Description), query)
}

func hasAnyAvailability(p *domain.Provider, flags []string) bool {
	for _, flag := range flags {
		if p.HasAvailability(flag) {
			return true
		}
	}
	return false
}

func containsFold(values []string, target string) bool {
	for _, v := range values {
		if strings.EqualFold(v, target) {
			return true
		}
	}
	return false
}

func nonBlank(values []string) []string {
	result := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			result = append(result, v)
		}
	}
	return result
}
