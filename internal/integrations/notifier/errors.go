package notifier

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("notifier client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса уведомлений
	ErrInvalidResponse = errors.New("notifier client: invalid response")

	// ErrServiceDegraded возвращается при применении graceful degradation
	// Бронирование уже сохранено, уведомление просто не доставлено
	ErrServiceDegraded = errors.New("notification service unavailable: graceful degradation applied")
)
