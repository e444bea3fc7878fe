package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-MarketplaceService/pkg/types"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	ProviderID int64     // ID провайдера
	ServiceID  int64     // ID услуги
	Date       time.Time // Дата для получения слотов (без времени)
}

// Response модель ответа со списком доступных слотов
type Response struct {
	Date       time.Time // Дата, на которую запрашивались слоты
	ProviderID int64     // ID провайдера
	ServiceID  int64     // ID услуги
	Slots      []Slot    // Список доступных слотов
}

// Slot модель временного слота
type Slot struct {
	ID              int64            // ID слота для выбора в мастере
	StartTime       types.TimeString // Время начала слота (например, "10:00")
	DurationMinutes int              // Длительность слота в минутах
	AvailableSpots  int              // Количество свободных мест
	TotalSpots      int              // Общее количество мест
}
