package searchcache

import "errors"

var (
	// ErrCacheMiss возвращается, когда результата нет в кэше
	ErrCacheMiss = errors.New("searchcache: cache miss")

	// ErrCache возвращается при ошибке обращения к redis или сериализации
	ErrCache = errors.New("searchcache: cache error")
)
