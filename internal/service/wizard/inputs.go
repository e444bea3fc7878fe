package wizard

import (
	"time"

	"github.com/m04kA/SMC-MarketplaceService/internal/domain"
)

// StepInput данные, вводимые на одном шаге. Реализации перечислены ниже, других нет
type StepInput interface {
	step() StepID
}

// ServiceSelection выбранная услуга
type ServiceSelection struct {
	Service *domain.Service
}

// DateTimeSelection дата и слот
type DateTimeSelection struct {
	Date time.Time
	Slot *domain.TimeSlot
}

// StaffSelection выбранный сотрудник, nil означает любой
type StaffSelection struct {
	Staff *domain.StaffMember
}

// AddOnSelection полный список выбранных дополнений
type AddOnSelection struct {
	AddOns []domain.AddOn
}

// SpecialRequests пожелания клиента
type SpecialRequests struct {
	Text string
}

// CustomerInfoInput контактные данные
type CustomerInfoInput struct {
	Info domain.CustomerInfo
}

// PaymentSelection способ оплаты
type PaymentSelection struct {
	Method domain.PaymentMethod
}

// PromoCodeInput промокод, вводится на шаге оплаты
type PromoCodeInput struct {
	Code string
}

func (ServiceSelection) step() StepID  { return StepService }
func (DateTimeSelection) step() StepID { return StepDateTime }
func (StaffSelection) step() StepID    { return StepStaff }
func (AddOnSelection) step() StepID    { return StepAddOns }
func (SpecialRequests) step() StepID   { return StepRequests }
func (CustomerInfoInput) step() StepID { return StepInfo }
func (PaymentSelection) step() StepID  { return StepPayment }
func (PromoCodeInput) step() StepID    { return StepPayment }
