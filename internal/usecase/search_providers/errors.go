package search_providers

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных критериях поиска
	ErrInvalidInput = errors.New("invalid search criteria")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("search_providers: internal error")
)
