// Package searchcache caches provider search results in redis, keyed by normalized criteria.
package searchcache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/m04kA/SMC-MarketplaceService/internal/domain"
)

const (
	keyPrefix = "search:providers:"
	scanBatch = 100
)

// Cache кэш результатов поиска
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache создает кэш поверх redis
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// Get возвращает сохраненный результат или ErrCacheMiss
func (c *Cache) Get(ctx context.Context, key string) (*domain.SearchResult, error) {
	data, err := c.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Get - get: %w", ErrCache, err)
	}

	var result domain.SearchResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("%w: Get - unmarshal: %w", ErrCache, err)
	}

	return &result, nil
}

// Set сохраняет результат с TTL
func (c *Cache) Set(ctx context.Context, key string, result *domain.SearchResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("%w: Set - marshal: %w", ErrCache, err)
	}

	if err := c.client.Set(ctx, keyPrefix+key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("%w: Set - set: %w", ErrCache, err)
	}

	return nil
}

// Invalidate удаляет все сохраненные результаты поиска
func (c *Cache) Invalidate(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, keyPrefix+"*", scanBatch).Iterator()

	keys := make([]string, 0, scanBatch)
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
		if len(keys) == scanBatch {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("%w: Invalidate - del: %w", ErrCache, err)
			}
			keys = keys[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("%w: Invalidate - scan: %w", ErrCache, err)
	}

	if len(keys) > 0 {
		if err := c.client.Del(ctx, keys...).Err(); err != nil {
			return fmt.Errorf("%w: Invalidate - del: %w", ErrCache, err)
		}
	}

	return nil
}

// Key строит ключ кэша из критериев и страницы.
// Критерии нормализуются: регистр и пробелы не влияют на ключ, порядок категорий и флагов тоже
func Key(criteria domain.FilterCriteria, page, pageSize int) string {
	parts := []string{
		"q=" + normalize(criteria.SearchQuery),
		"c=" + normalizeList(criteria.Categories),
		"l=" + normalize(criteria.Location),
		"min=" + formatBound(criteria.PriceRange.Min),
		"max=" + formatBound(criteria.PriceRange.Max),
		"a=" + normalizeList(criteria.Availability),
		"s=" + string(criteria.SortBy),
		"p=" + strconv.Itoa(page),
		"ps=" + strconv.Itoa(pageSize),
	}

	sum := sha1.Sum([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func normalizeList(values []string) string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if n := normalize(v); n != "" {
			out = append(out, n)
		}
	}
	sort.Strings(out)
	return strings.Join(out, ",")
}

func formatBound(v *float64) string {
	if v == nil {
		return "*"
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}
