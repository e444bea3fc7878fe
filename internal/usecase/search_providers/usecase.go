package search_providers

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-MarketplaceService/internal/domain"
	"github.com/m04kA/SMC-MarketplaceService/internal/infra/storage/searchcache"
)

// UseCase use case поиска провайдеров
type UseCase struct {
	providerRepo    ProviderRepository
	cache           ResultCache
	metrics         MetricsRecorder
	logger          Logger
	defaultPageSize int
	maxPageSize     int
}

// NewUseCase создает новый экземпляр use case. cache может быть nil, тогда результат всегда пересчитывается
func NewUseCase(
	providerRepo ProviderRepository,
	cache ResultCache,
	metrics MetricsRecorder,
	logger Logger,
	defaultPageSize int,
	maxPageSize int,
) *UseCase {
	return &UseCase{
		providerRepo:    providerRepo,
		cache:           cache,
		metrics:         metrics,
		logger:          logger,
		defaultPageSize: defaultPageSize,
		maxPageSize:     maxPageSize,
	}
}

// Execute возвращает страницу провайдеров, подходящих под критерии, и фасеты каталога
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*domain.SearchResult, error) {
	page, pageSize := uc.normalizePage(req.Page, req.PageSize)

	if err := validateCriteria(req.Criteria); err != nil {
		uc.logger.Warn("SearchProviders: validation failed: %v", err)
		return nil, err
	}

	key := searchcache.Key(req.Criteria, page, pageSize)

	// 1. Пробуем кэш, ошибки кэша не прерывают поиск
	if uc.cache != nil {
		cached, err := uc.cache.Get(ctx, key)
		switch {
		case err == nil:
			uc.metrics.RecordSearch(true)
			return cached, nil
		case !errors.Is(err, searchcache.ErrCacheMiss):
			uc.logger.Warn("SearchProviders: cache unavailable, recomputing: %v", err)
		}
	}
	uc.metrics.RecordSearch(false)

	// 2. Пересчитываем по активному каталогу
	providers, err := uc.providerRepo.ListProviders(ctx, true)
	if err != nil {
		uc.logger.Error("SearchProviders: failed to list providers: %v", err)
		return nil, fmt.Errorf("%w: failed to list providers: %v", ErrInternal, err)
	}

	matched := Apply(providers, req.Criteria)
	items, pagination := Paginate(matched, page, pageSize)

	result := &domain.SearchResult{
		Providers:  items,
		Pagination: pagination,
		Facets:     Facets(providers),
	}

	uc.logger.Info("SearchProviders: %d of %d providers matched, page=%d/%d",
		len(matched), len(providers), page, pagination.TotalPages)

	// 3. Сохраняем в кэш
	if uc.cache != nil {
		if err := uc.cache.Set(ctx, key, result); err != nil {
			uc.logger.Warn("SearchProviders: failed to cache result: %v", err)
		}
	}

	return result, nil
}

func (uc *UseCase) normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = uc.defaultPageSize
	}
	if uc.maxPageSize > 0 && pageSize > uc.maxPageSize {
		pageSize = uc.maxPageSize
	}
	if pageSize < 1 {
		pageSize = 1
	}
	return page, pageSize
}

// validateCriteria проверяет сортировку и диапазон цен
func validateCriteria(c domain.FilterCriteria) error {
	if c.SortBy != "" && !c.SortBy.IsValid() {
		return fmt.Errorf("%w: unknown sortBy %q", ErrInvalidInput, c.SortBy)
	}

	minPrice, maxPrice := c.PriceRange.Min, c.PriceRange.Max
	if (minPrice != nil && *minPrice < 0) || (maxPrice != nil && *maxPrice < 0) {
		return fmt.Errorf("%w: price bounds must not be negative", ErrInvalidInput)
	}
	if minPrice != nil && maxPrice != nil && *minPrice > *maxPrice {
		return fmt.Errorf("%w: minPrice is greater than maxPrice", ErrInvalidInput)
	}

	return nil
}
