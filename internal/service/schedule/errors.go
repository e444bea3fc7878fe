package schedule

import "errors"

var (
	// ErrProviderNotFound возвращается, когда провайдер не найден
	ErrProviderNotFound = errors.New("provider not found")

	// ErrServiceNotFound возвращается, когда услуга не принадлежит провайдеру
	ErrServiceNotFound = errors.New("service not found")

	// ErrSettingsNotFound возвращается, когда для области нет собственных настроек
	ErrSettingsNotFound = errors.New("schedule settings not found")

	// ErrSlotNotFound возвращается, когда слот не найден у провайдера
	ErrSlotNotFound = errors.New("time slot not found")

	// ErrSlotExists возвращается, когда слот с тем же временем начала уже есть
	ErrSlotExists = errors.New("time slot already exists")

	// ErrSlotHasBookings возвращается при удалении слота с бронированиями
	ErrSlotHasBookings = errors.New("time slot has bookings")

	// ErrAccessDenied возвращается, когда пользователь не владелец провайдера
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidSlotDuration возвращается при некорректной длительности слота
	ErrInvalidSlotDuration = errors.New("slot duration must be between 5 and 480 minutes")

	// ErrInvalidCapacity возвращается при некорректной вместимости слота
	ErrInvalidCapacity = errors.New("capacity must be between 1 and 100")

	// ErrInvalidAdvanceDays возвращается при некорректном горизонте бронирования
	ErrInvalidAdvanceDays = errors.New("advance booking days must be between 0 and 365")

	// ErrInvalidNoticeMinutes возвращается при некорректном минимальном времени до бронирования
	ErrInvalidNoticeMinutes = errors.New("min booking notice must be between 0 and 10080 minutes")

	// ErrInvalidWorkingHours возвращается, когда время открытия не раньше закрытия
	ErrInvalidWorkingHours = errors.New("open time must be before close time")

	// ErrInvalidWorkingDays возвращается при некорректном списке рабочих дней
	ErrInvalidWorkingDays = errors.New("working days must be distinct weekdays 0..6")

	// ErrInvalidDateRange возвращается при некорректном диапазоне генерации
	ErrInvalidDateRange = errors.New("invalid date range")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
