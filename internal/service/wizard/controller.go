package wizard

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-MarketplaceService/internal/domain"
)

// Controller линейный движок шагов над черновиком бронирования.
// Не выполняет ввода-вывода, состояние хранится в переданной сессии.
//
// Инвариант: все шаги до текущего заполнены. Если изменение на раннем шаге
// делает его незаполненным, индекс возвращается на этот шаг.
type Controller struct {
	session *domain.WizardSession
	pricer  TotalsCalculator
}

// NewController создает контроллер поверх сессии
func NewController(session *domain.WizardSession, pricer TotalsCalculator) *Controller {
	return &Controller{
		session: session,
		pricer:  pricer,
	}
}

// State возвращает сессию
func (c *Controller) State() *domain.WizardSession {
	return c.session
}

// Steps возвращает шаги с вычисленными флагами
func (c *Controller) Steps() []Step {
	submitted := c.session.Status == domain.WizardSubmitted
	steps := make([]Step, len(stepDefinitions))
	for i, def := range stepDefinitions {
		steps[i] = Step{
			ID:          def.id,
			Title:       def.title,
			Description: def.description,
			Completed:   submitted || i < c.session.StepIndex,
			Current:     !submitted && i == c.session.StepIndex,
		}
	}
	return steps
}

// Current возвращает текущий шаг
func (c *Controller) Current() Step {
	return c.Steps()[c.session.StepIndex]
}

// CanAdvance проверяет заполненность текущего шага
func (c *Controller) CanAdvance() bool {
	return len(missingFields(stepDefinitions[c.session.StepIndex].id, &c.session.Draft)) == 0
}

// Next переходит на следующий шаг. На последнем шаге ничего не делает
func (c *Controller) Next() error {
	if err := c.checkMutable(); err != nil {
		return err
	}
	if c.session.StepIndex >= LastStepIndex {
		return nil
	}

	id := stepDefinitions[c.session.StepIndex].id
	if fields := missingFields(id, &c.session.Draft); len(fields) > 0 {
		return &ValidationError{Step: id, Fields: fields}
	}

	c.session.StepIndex++
	return nil
}

// Previous возвращается на шаг назад, не ниже первого
func (c *Controller) Previous() error {
	if err := c.checkMutable(); err != nil {
		return err
	}
	if c.session.StepIndex > 0 {
		c.session.StepIndex--
	}
	return nil
}

// GoTo переходит на шаг index, только назад или на текущий
func (c *Controller) GoTo(index int) error {
	if err := c.checkMutable(); err != nil {
		return err
	}
	if index < 0 || index > LastStepIndex {
		return fmt.Errorf("%w: index %d", ErrInvalidStep, index)
	}
	if index > c.session.StepIndex {
		return ErrForwardJump
	}
	c.session.StepIndex = index
	return nil
}

// Apply применяет данные шага к черновику и пересчитывает стоимость.
// Изменять можно текущий шаг и пройденные
func (c *Controller) Apply(input StepInput) error {
	if err := c.checkMutable(); err != nil {
		return err
	}
	if input == nil {
		return ErrInvalidStep
	}
	if StepIndex(input.step()) > c.session.StepIndex {
		return ErrForwardJump
	}

	d := &c.session.Draft
	switch in := input.(type) {
	case ServiceSelection:
		if in.Service == nil {
			return &ValidationError{Step: StepService, Fields: []string{"service"}}
		}
		c.selectService(in.Service)

	case DateTimeSelection:
		if d.Service == nil {
			return &ValidationError{Step: StepService, Fields: []string{"service"}}
		}
		fields := make([]string, 0, 2)
		if in.Date.IsZero() {
			fields = append(fields, "date")
		}
		if in.Slot == nil {
			fields = append(fields, "timeSlot")
		}
		if len(fields) > 0 {
			return &ValidationError{Step: StepDateTime, Fields: fields}
		}
		if in.Slot.ProviderID != d.Service.ProviderID || !in.Slot.AppliesTo(d.Service.ID) {
			return fmt.Errorf("%w: time slot id=%d is not offered for service id=%d", ErrInvalidInput, in.Slot.ID, d.Service.ID)
		}
		if !sameDay(in.Date, in.Slot.Date) {
			return fmt.Errorf("%w: time slot id=%d is not on %s", ErrInvalidInput, in.Slot.ID, in.Date.Format(domain.DateFormat))
		}
		date := truncateDay(in.Date)
		slot := *in.Slot
		d.Date = &date
		d.TimeSlot = &slot

	case StaffSelection:
		if in.Staff == nil {
			d.StaffMember = nil
			break
		}
		if d.Service == nil || in.Staff.ProviderID != d.Service.ProviderID {
			return fmt.Errorf("%w: staff member id=%d does not work for this provider", ErrInvalidInput, in.Staff.ID)
		}
		staff := *in.Staff
		d.StaffMember = &staff

	case AddOnSelection:
		addOns := make([]domain.AddOn, 0, len(in.AddOns))
		for _, a := range in.AddOns {
			if d.Service == nil || a.ServiceID != d.Service.ID {
				return fmt.Errorf("%w: add-on id=%d is not offered with the selected service", ErrInvalidInput, a.ID)
			}
			addOns = append(addOns, a)
		}
		d.SelectedAddOns = addOns

	case SpecialRequests:
		text := strings.TrimSpace(in.Text)
		if len(text) > domain.MaxNotesLength {
			return fmt.Errorf("%w: special requests exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
		}
		d.SpecialRequests = text

	case CustomerInfoInput:
		d.CustomerInfo = domain.CustomerInfo{
			Name:  strings.TrimSpace(in.Info.Name),
			Email: strings.TrimSpace(in.Info.Email),
			Phone: strings.TrimSpace(in.Info.Phone),
		}

	case PaymentSelection:
		if !in.Method.IsValid() {
			return fmt.Errorf("%w: unsupported payment method %q", ErrInvalidInput, in.Method)
		}
		d.PaymentMethod = in.Method

	case PromoCodeInput:
		d.PromoCode = strings.TrimSpace(in.Code)

	default:
		return ErrInvalidStep
	}

	c.recalculate()
	c.rewindToFirstIncomplete()
	c.session.LastError = ""
	return nil
}

// BeginSubmit переводит сессию в состояние отправки
func (c *Controller) BeginSubmit() error {
	if err := c.checkMutable(); err != nil {
		return err
	}
	if c.session.StepIndex != LastStepIndex {
		return ErrNotOnReview
	}
	for _, def := range stepDefinitions {
		if fields := missingFields(def.id, &c.session.Draft); len(fields) > 0 {
			return &ValidationError{Step: def.id, Fields: fields}
		}
	}

	c.session.Status = domain.WizardSubmitting
	return nil
}

// MarkSubmitted фиксирует созданное бронирование, после этого сессия неизменяема
func (c *Controller) MarkSubmitted(bookingID int64, referenceCode string) {
	c.session.Status = domain.WizardSubmitted
	c.session.BookingID = bookingID
	c.session.ReferenceCode = referenceCode
	c.session.LastError = ""
}

// MarkFailed возвращает сессию на шаг подтверждения с сообщением об ошибке
func (c *Controller) MarkFailed(message string) {
	c.session.Status = domain.WizardInProgress
	c.session.StepIndex = LastStepIndex
	c.session.LastError = message
}

func (c *Controller) checkMutable() error {
	switch c.session.Status {
	case domain.WizardSubmitted:
		return ErrAlreadySubmitted
	case domain.WizardSubmitting:
		return ErrSubmitInProgress
	}
	return nil
}

// selectService меняет услугу и сбрасывает выбор, который к ней не подходит
func (c *Controller) selectService(service *domain.Service) {
	d := &c.session.Draft
	selected := *service
	d.Service = &selected

	if d.TimeSlot != nil && (d.TimeSlot.ProviderID != selected.ProviderID || !d.TimeSlot.AppliesTo(selected.ID)) {
		d.TimeSlot = nil
		d.Date = nil
	}
	if d.StaffMember != nil && d.StaffMember.ProviderID != selected.ProviderID {
		d.StaffMember = nil
	}

	kept := make([]domain.AddOn, 0, len(d.SelectedAddOns))
	for _, a := range d.SelectedAddOns {
		if a.ServiceID == selected.ID {
			kept = append(kept, a)
		}
	}
	d.SelectedAddOns = kept
}

func (c *Controller) recalculate() {
	d := &c.session.Draft
	if d.Service == nil {
		d.Subtotal, d.Discount, d.Total = 0, 0, 0
		return
	}
	totals := c.pricer.Totals(d.Service.Price, d.SelectedAddOns, d.PromoCode)
	d.Subtotal = totals.Subtotal
	d.Discount = totals.Discount
	d.Total = totals.Total
}

func (c *Controller) rewindToFirstIncomplete() {
	for i := 0; i < c.session.StepIndex; i++ {
		if len(missingFields(stepDefinitions[i].id, &c.session.Draft)) > 0 {
			c.session.StepIndex = i
			return
		}
	}
}

// missingFields условия перехода с шага. Шаги без условий всегда проходимы
func missingFields(id StepID, d *domain.BookingDraft) []string {
	switch id {
	case StepService:
		if d.Service == nil {
			return []string{"service"}
		}
	case StepDateTime:
		fields := make([]string, 0, 2)
		if d.Date == nil {
			fields = append(fields, "date")
		}
		if d.TimeSlot == nil {
			fields = append(fields, "timeSlot")
		}
		return fields
	case StepInfo:
		return d.CustomerInfo.MissingFields()
	case StepPayment:
		if !d.PaymentMethod.IsValid() {
			return []string{"paymentMethod"}
		}
	}
	return nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
