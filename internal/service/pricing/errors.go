package pricing

import "errors"

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена или неактивна
	ErrServiceNotFound = errors.New("service not found")

	// ErrAddOnNotFound возвращается, когда дополнение не принадлежит услуге
	ErrAddOnNotFound = errors.New("add-on not found for service")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("pricing: internal error")
)
