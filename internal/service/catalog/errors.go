package catalog

import "errors"

var (
	// ErrProviderNotFound возвращается, когда провайдер не найден или неактивен
	ErrProviderNotFound = errors.New("provider not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена у провайдера
	ErrServiceNotFound = errors.New("service not found")

	// ErrAddOnNotFound возвращается, когда дополнение не найдено у услуги
	ErrAddOnNotFound = errors.New("add-on not found")

	// ErrStaffNotFound возвращается, когда сотрудник не найден у провайдера
	ErrStaffNotFound = errors.New("staff member not found")

	// ErrAccessDenied возвращается, когда пользователь не владелец провайдера
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
