package search_providers

import (
	"net/http"

	"github.com/m04kA/SMC-MarketplaceService/internal/api/handlers"
	"github.com/m04kA/SMC-MarketplaceService/internal/domain"
	searchProviders "github.com/m04kA/SMC-MarketplaceService/internal/usecase/search_providers"
)

// ProviderResponse карточка провайдера в выдаче
type ProviderResponse struct {
	ID            int64    `json:"id"`
	Name          string   `json:"name"`
	BusinessName  string   `json:"businessName"`
	Description   string   `json:"description"`
	Category      string   `json:"category"`
	Location      string   `json:"location"`
	StartingPrice float64  `json:"startingPrice"`
	Rating        float64  `json:"rating"`
	ReviewCount   int      `json:"reviewCount"`
	Availability  []string `json:"availability"`
}

// PaginationResponse параметры страницы
type PaginationResponse struct {
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// CategoryCountResponse категория и число провайдеров в ней
type CategoryCountResponse struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// PriceRangeResponse диапазон стартовых цен каталога
type PriceRangeResponse struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// FiltersResponse фасеты для панели фильтров
type FiltersResponse struct {
	Categories []CategoryCountResponse `json:"categories"`
	PriceRange PriceRangeResponse      `json:"priceRange"`
}

// SearchResponse HTTP response model
type SearchResponse struct {
	Providers  []ProviderResponse `json:"providers"`
	Pagination PaginationResponse `json:"pagination"`
	Filters    FiltersResponse    `json:"filters"`
}

// ToUseCaseRequest собирает критерии поиска из query параметров
func ToUseCaseRequest(r *http.Request) (*searchProviders.Request, error) {
	minPrice, err := handlers.QueryFloat(r, "minPrice")
	if err != nil {
		return nil, err
	}
	maxPrice, err := handlers.QueryFloat(r, "maxPrice")
	if err != nil {
		return nil, err
	}
	page, err := handlers.QueryInt(r, "page", 0)
	if err != nil {
		return nil, err
	}
	pageSize, err := handlers.QueryInt(r, "pageSize", 0)
	if err != nil {
		return nil, err
	}

	criteria := domain.FilterCriteria{
		SearchQuery:  r.URL.Query().Get("q"),
		Categories:   handlers.QueryList(r, "category"),
		Location:     r.URL.Query().Get("location"),
		PriceRange:   domain.PriceRange{Min: minPrice, Max: maxPrice},
		Availability: handlers.QueryList(r, "availability"),
		SortBy:       domain.SortBy(r.URL.Query().Get("sortBy")),
	}

	return &searchProviders.Request{
		Criteria: criteria,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// FromDomainResult конвертирует результат поиска в HTTP response
func FromDomainResult(result *domain.SearchResult) *SearchResponse {
	resp := &SearchResponse{
		Providers: make([]ProviderResponse, 0, len(result.Providers)),
		Pagination: PaginationResponse{
			Page:       result.Pagination.Page,
			PageSize:   result.Pagination.PageSize,
			Total:      result.Pagination.Total,
			TotalPages: result.Pagination.TotalPages,
		},
		Filters: FiltersResponse{
			Categories: make([]CategoryCountResponse, 0, len(result.Facets.Categories)),
			PriceRange: PriceRangeResponse{Min: result.Facets.MinPrice, Max: result.Facets.MaxPrice},
		},
	}

	for _, p := range result.Providers {
		availability := p.Availability
		if availability == nil {
			availability = []string{}
		}
		resp.Providers = append(resp.Providers, ProviderResponse{
			ID:            p.ID,
			Name:          p.Name,
			BusinessName:  p.BusinessName,
			Description:   p.Description,
			Category:      p.Category,
			Location:      p.Location,
			StartingPrice: p.StartingPrice,
			Rating:        p.Rating,
			ReviewCount:   p.ReviewCount,
			Availability:  availability,
		})
	}
	for _, c := range result.Facets.Categories {
		resp.Filters.Categories = append(resp.Filters.Categories, CategoryCountResponse{Category: c.Category, Count: c.Count})
	}

	return resp
}
