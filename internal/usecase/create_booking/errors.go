package create_booking

import "errors"

var (
	// ErrProviderNotFound возвращается, когда провайдер не найден или неактивен
	ErrProviderNotFound = errors.New("provider not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена или неактивна
	ErrServiceNotFound = errors.New("service not found")

	// ErrAddOnNotFound возвращается, когда дополнение не относится к услуге
	ErrAddOnNotFound = errors.New("add-on is not offered with this service")

	// ErrStaffNotFound возвращается, когда сотрудник не найден или не работает у провайдера
	ErrStaffNotFound = errors.New("staff member not found")

	// ErrSlotNotFound возвращается, когда слот не найден
	ErrSlotNotFound = errors.New("time slot not found")

	// ErrSlotMismatch возвращается, когда слот не относится к выбранной услуге
	ErrSlotMismatch = errors.New("time slot is not offered for this service")

	// ErrInvalidDate возвращается при бронировании на прошедшую дату
	ErrInvalidDate = errors.New("booking date is in the past")

	// ErrDateTooFarInFuture возвращается, когда дата превышает ограничение advanceBookingDays
	ErrDateTooFarInFuture = errors.New("date is too far in the future")

	// ErrTooLateToBook возвращается, когда бронирование нарушает minBookingNoticeMinutes
	ErrTooLateToBook = errors.New("too late to book this slot")

	// ErrSlotNotAvailable возвращается, когда все места в слоте заняты
	ErrSlotNotAvailable = errors.New("time slot is fully booked")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
