package searchcache

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-MarketplaceService/internal/domain"
	"github.com/m04kA/SMC-MarketplaceService/pkg/ptr"
)

func TestKey_NormalizesCriteria(t *testing.T) {
	a := domain.FilterCriteria{
		SearchQuery: "  Auto ",
		Categories:  []string{"Fitness", "automotive"},
		PriceRange:  domain.PriceRange{Max: ptr.Ptr(100.0)},
		SortBy:      domain.SortPriceAsc,
	}
	b := domain.FilterCriteria{
		SearchQuery: "auto",
		Categories:  []string{"Automotive", "fitness", " "},
		PriceRange:  domain.PriceRange{Max: ptr.Ptr(100.0)},
		SortBy:      domain.SortPriceAsc,
	}

	assert.Equal(t, Key(a, 1, 12), Key(b, 1, 12))
	assert.NotEqual(t, Key(a, 1, 12), Key(a, 2, 12))

	b.PriceRange.Max = ptr.Ptr(99.0)
	assert.NotEqual(t, Key(a, 1, 12), Key(b, 1, 12))
}

func TestCache_GetSet(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	cache := NewCache(client, 30*time.Second)
	ctx := context.Background()

	_, err := cache.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)

	result := &domain.SearchResult{
		Providers:  []domain.Provider{{ID: 1, Name: "Elite Auto Care", StartingPrice: 75, Availability: []string{"today"}}},
		Pagination: domain.Pagination{Page: 1, PageSize: 12, Total: 1, TotalPages: 1},
		Facets:     domain.SearchFacets{Categories: []domain.CategoryCount{{Category: "Automotive", Count: 1}}, MinPrice: 75, MaxPrice: 75},
	}
	require.NoError(t, cache.Set(ctx, "k", result))

	got, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, result, got)

	mr.FastForward(time.Minute)
	_, err = cache.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestCache_Invalidate(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	cache := NewCache(client, time.Minute)
	ctx := context.Background()

	// Больше одной пачки SCAN
	for i := 0; i < scanBatch+5; i++ {
		require.NoError(t, cache.Set(ctx, "k"+strconv.Itoa(i), &domain.SearchResult{}))
	}
	require.NoError(t, mr.Set("wizard:session:abc", "{}"))

	require.NoError(t, cache.Invalidate(ctx))

	_, err := cache.Get(ctx, "k0")
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.Equal(t, []string{"wizard:session:abc"}, mr.Keys())
}
