package search_providers

import "github.com/m04kA/SMC-MarketplaceService/internal/domain"

// Request модель запроса поиска
type Request struct {
	Criteria domain.FilterCriteria
	Page     int // с 1, 0 = первая страница
	PageSize int // 0 = размер по умолчанию
}
