package create_booking

import (
	"github.com/m04kA/SMC-MarketplaceService/internal/domain"
)

// Request модель запроса на создание бронирования
type Request struct {
	UserID        int64               // ID пользователя
	ServiceID     int64               // ID услуги
	TimeSlotID    int64               // ID слота
	StaffID       *int64              // Сотрудник (опционально)
	AddOnIDs      []int64             // Выбранные дополнения
	Notes         *string             // Пожелания клиента (опционально)
	Customer      domain.CustomerInfo // Контактные данные
	PaymentMethod domain.PaymentMethod
	PromoCode     string
}

// RequestFromDraft собирает запрос из черновика мастера
func RequestFromDraft(userID int64, draft *domain.BookingDraft) (*Request, error) {
	if draft.Service == nil || draft.TimeSlot == nil {
		return nil, ErrInvalidInput
	}

	req := &Request{
		UserID:        userID,
		ServiceID:     draft.Service.ID,
		TimeSlotID:    draft.TimeSlot.ID,
		AddOnIDs:      make([]int64, 0, len(draft.SelectedAddOns)),
		Customer:      draft.CustomerInfo,
		PaymentMethod: draft.PaymentMethod,
		PromoCode:     draft.PromoCode,
	}
	if draft.StaffMember != nil {
		staffID := draft.StaffMember.ID
		req.StaffID = &staffID
	}
	for _, a := range draft.SelectedAddOns {
		req.AddOnIDs = append(req.AddOnIDs, a.ID)
	}
	if draft.SpecialRequests != "" {
		notes := draft.SpecialRequests
		req.Notes = &notes
	}

	return req, nil
}
