package wizard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-MarketplaceService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-MarketplaceService/internal/infra/storage/catalog"
	sessionStore "github.com/m04kA/SMC-MarketplaceService/internal/infra/storage/session"
	slotRepo "github.com/m04kA/SMC-MarketplaceService/internal/infra/storage/timeslot"
	"github.com/m04kA/SMC-MarketplaceService/internal/service/pricing"
	"github.com/m04kA/SMC-MarketplaceService/internal/service/wizard/models"
)

// submitLockTTL время жизни блокировки отправки. Сессия в статусе submitting
// старше этого времени считается прерванной и может быть отправлена повторно
const submitLockTTL = 30 * time.Second

const msgInterruptedSubmit = "previous submission was interrupted, please confirm again"

// skippableSteps шаги без обязательных полей
var skippableSteps = map[StepID]bool{
	StepStaff:    true,
	StepAddOns:   true,
	StepRequests: true,
}

// Результаты переходов для метрик
const (
	resultOK       = "ok"
	resultRejected = "rejected"
	resultFailed   = "failed"
)

// Service сервис мастера бронирования. Состояние сессий хранится в SessionStore
type Service struct {
	store   SessionStore
	catalog CatalogReader
	slots   SlotReader
	pricer  TotalsCalculator
	creator BookingCreator
	metrics MetricsRecorder
	logger  Logger
	now     func() time.Time
	newID   func() string
}

// NewService создает новый экземпляр сервиса мастера
func NewService(
	store SessionStore,
	catalog CatalogReader,
	slots SlotReader,
	pricer TotalsCalculator,
	creator BookingCreator,
	metrics MetricsRecorder,
	logger Logger,
) *Service {
	return &Service{
		store:   store,
		catalog: catalog,
		slots:   slots,
		pricer:  pricer,
		creator: creator,
		metrics: metrics,
		logger:  logger,
		now:     time.Now,
		newID:   func() string { return uuid.New().String() },
	}
}

// Start создает новую сессию мастера для пользователя
func (s *Service) Start(ctx context.Context, userID int64) (*models.SessionResponse, error) {
	now := s.now().UTC()
	session := &domain.WizardSession{
		ID:        s.newID(),
		UserID:    userID,
		StepIndex: 0,
		Status:    domain.WizardInProgress,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.Save(ctx, session); err != nil {
		s.logger.Error("Start: failed to save session for user=%d: %v", userID, err)
		return nil, fmt.Errorf("%w: Start - save session: %v", ErrInternal, err)
	}

	s.metrics.RecordWizardTransition("start", string(StepService), resultOK)
	s.logger.Info("Start: created wizard session id=%s for user=%d", session.ID, userID)
	return s.toResponse(NewController(session, s.pricer)), nil
}

// Get возвращает состояние сессии
func (s *Service) Get(ctx context.Context, userID int64, sessionID string) (*models.SessionResponse, error) {
	session, err := s.load(ctx, "Get", userID, sessionID)
	if err != nil {
		return nil, err
	}
	return s.toResponse(NewController(session, s.pricer)), nil
}

// Apply декодирует данные шага stepID, разрешает ссылки на каталог и применяет их к черновику
func (s *Service) Apply(ctx context.Context, userID int64, sessionID string, stepID string, raw json.RawMessage) (*models.SessionResponse, error) {
	s.logger.Info("Apply: session=%s step=%s by user=%d", sessionID, stepID, userID)

	session, err := s.load(ctx, "Apply", userID, sessionID)
	if err != nil {
		return nil, err
	}

	id := StepID(stepID)
	if StepIndex(id) < 0 {
		s.logger.Warn("Apply: unknown step=%s", stepID)
		return nil, fmt.Errorf("%w: %s", ErrInvalidStep, stepID)
	}

	inputs, err := s.resolveInputs(ctx, session, id, raw)
	if err != nil {
		s.metrics.RecordWizardTransition("apply", stepID, resultRejected)
		s.logger.Warn("Apply: cannot resolve step=%s for session=%s: %v", stepID, sessionID, err)
		return nil, err
	}

	ctrl := NewController(session, s.pricer)
	for _, input := range inputs {
		if err := ctrl.Apply(input); err != nil {
			s.metrics.RecordWizardTransition("apply", stepID, resultRejected)
			s.logger.Warn("Apply: step=%s rejected for session=%s: %v", stepID, sessionID, err)
			return nil, err
		}
	}

	if err := s.save(ctx, "Apply", session); err != nil {
		return nil, err
	}

	s.metrics.RecordWizardTransition("apply", stepID, resultOK)
	return s.toResponse(ctrl), nil
}

// Next переходит на следующий шаг
func (s *Service) Next(ctx context.Context, userID int64, sessionID string) (*models.SessionResponse, error) {
	return s.transition(ctx, "next", userID, sessionID, func(c *Controller) error { return c.Next() })
}

// Previous возвращается на предыдущий шаг
func (s *Service) Previous(ctx context.Context, userID int64, sessionID string) (*models.SessionResponse, error) {
	return s.transition(ctx, "previous", userID, sessionID, func(c *Controller) error { return c.Previous() })
}

// GoTo переходит на пройденный шаг index
func (s *Service) GoTo(ctx context.Context, userID int64, sessionID string, index int) (*models.SessionResponse, error) {
	return s.transition(ctx, "goto", userID, sessionID, func(c *Controller) error { return c.GoTo(index) })
}

// Submit передает черновик на создание бронирования.
// Одновременно по сессии выполняется не более одной отправки.
// При ошибке сессия остается на шаге подтверждения, повтор разрешен
func (s *Service) Submit(ctx context.Context, userID int64, sessionID string) (*models.SessionResponse, error) {
	s.logger.Info("Submit: session=%s by user=%d", sessionID, userID)

	acquired, err := s.store.AcquireSubmit(ctx, sessionID, submitLockTTL)
	if err != nil {
		s.logger.Error("Submit: failed to lock session=%s: %v", sessionID, err)
		return nil, fmt.Errorf("%w: Submit - lock session: %v", ErrInternal, err)
	}
	if !acquired {
		s.metrics.RecordWizardTransition("submit", string(StepReview), resultRejected)
		s.logger.Warn("Submit: session=%s is already being submitted", sessionID)
		return nil, ErrSubmitInProgress
	}

	// Состояние после создания бронирования сохраняется даже при отмене запроса
	persistCtx := context.WithoutCancel(ctx)
	defer func() {
		if err := s.store.ReleaseSubmit(persistCtx, sessionID); err != nil {
			s.logger.Error("Submit: failed to unlock session=%s: %v", sessionID, err)
		}
	}()

	session, err := s.load(ctx, "Submit", userID, sessionID)
	if err != nil {
		return nil, err
	}

	ctrl := NewController(session, s.pricer)
	if s.isStaleSubmit(session) {
		s.logger.Warn("Submit: session=%s was left in submitting since %s, resetting", sessionID, session.UpdatedAt.Format(time.RFC3339))
		ctrl.MarkFailed(msgInterruptedSubmit)
	}
	if err := ctrl.BeginSubmit(); err != nil {
		s.metrics.RecordWizardTransition("submit", string(StepReview), resultRejected)
		s.logger.Warn("Submit: session=%s cannot be submitted: %v", sessionID, err)
		return nil, err
	}
	if err := s.save(ctx, "Submit", session); err != nil {
		return nil, err
	}

	booking, createErr := s.creator.CreateFromDraft(ctx, userID, &session.Draft)
	if createErr != nil {
		ctrl.MarkFailed(failureMessage(createErr))
		s.metrics.RecordWizardTransition("submit", string(StepReview), resultFailed)
		s.logger.Warn("Submit: booking creation failed for session=%s: %v", sessionID, createErr)
		if err := s.save(persistCtx, "Submit", session); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s", ErrSubmitFailed, session.LastError)
	}

	ctrl.MarkSubmitted(booking.ID, booking.ReferenceCode)
	s.metrics.RecordWizardTransition("submit", string(StepReview), resultOK)
	s.logger.Info("Submit: session=%s created booking id=%d ref=%s", sessionID, booking.ID, booking.ReferenceCode)

	// Бронирование уже создано: ошибка сохранения сессии не скрывает его от клиента
	if err := s.save(persistCtx, "Submit", session); err != nil {
		s.logger.Error("Submit: booking id=%d created but session=%s was not updated: %v", booking.ID, sessionID, err)
	}

	return s.toResponse(ctrl), nil
}

// Cancel удаляет сессию
func (s *Service) Cancel(ctx context.Context, userID int64, sessionID string) error {
	if _, err := s.load(ctx, "Cancel", userID, sessionID); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, sessionID); err != nil {
		s.logger.Error("Cancel: failed to delete session=%s: %v", sessionID, err)
		return fmt.Errorf("%w: Cancel - delete session: %v", ErrInternal, err)
	}
	s.metrics.RecordWizardTransition("cancel", "", resultOK)
	return nil
}

// Вспомогательные методы

func (s *Service) transition(ctx context.Context, action string, userID int64, sessionID string, fn func(c *Controller) error) (*models.SessionResponse, error) {
	session, err := s.load(ctx, action, userID, sessionID)
	if err != nil {
		return nil, err
	}

	ctrl := NewController(session, s.pricer)
	from := string(ctrl.Current().ID)
	if err := fn(ctrl); err != nil {
		s.metrics.RecordWizardTransition(action, from, resultRejected)
		s.logger.Warn("%s: session=%s rejected at step=%s: %v", action, sessionID, from, err)
		return nil, err
	}

	if err := s.save(ctx, action, session); err != nil {
		return nil, err
	}

	s.metrics.RecordWizardTransition(action, from, resultOK)
	return s.toResponse(ctrl), nil
}

// isStaleSubmit сессия осталась в submitting после прерванной отправки.
// Вызывается под блокировкой отправки
func (s *Service) isStaleSubmit(session *domain.WizardSession) bool {
	return session.Status == domain.WizardSubmitting &&
		s.now().UTC().Sub(session.UpdatedAt) >= submitLockTTL
}

func (s *Service) load(ctx context.Context, op string, userID int64, sessionID string) (*domain.WizardSession, error) {
	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, sessionStore.ErrSessionNotFound) {
			s.logger.Warn("%s: session=%s not found", op, sessionID)
			return nil, ErrSessionNotFound
		}
		s.logger.Error("%s: failed to load session=%s: %v", op, sessionID, err)
		return nil, fmt.Errorf("%w: %s - load session: %v", ErrInternal, op, err)
	}

	// Чужая сессия выглядит как несуществующая
	if session.UserID != userID {
		s.logger.Warn("%s: session=%s does not belong to user=%d", op, sessionID, userID)
		return nil, ErrSessionNotFound
	}

	return session, nil
}

func (s *Service) save(ctx context.Context, op string, session *domain.WizardSession) error {
	session.UpdatedAt = s.now().UTC()
	if err := s.store.Save(ctx, session); err != nil {
		s.logger.Error("%s: failed to save session=%s: %v", op, session.ID, err)
		return fmt.Errorf("%w: %s - save session: %v", ErrInternal, op, err)
	}
	return nil
}

// resolveInputs превращает JSON шага в типизированные данные с объектами каталога
func (s *Service) resolveInputs(ctx context.Context, session *domain.WizardSession, id StepID, raw json.RawMessage) ([]StepInput, error) {
	// Необязательные шаги принимают пустое тело как пустой выбор
	if len(raw) == 0 && skippableSteps[id] {
		raw = json.RawMessage(`{}`)
	}

	switch id {
	case StepService:
		var req models.ServiceStepRequest
		if err := decode(raw, &req); err != nil {
			return nil, err
		}
		service, err := s.catalog.GetService(ctx, req.ServiceID)
		if err != nil {
			return nil, s.catalogError("service", req.ServiceID, err)
		}
		if !service.IsActive {
			return nil, fmt.Errorf("%w: service id=%d is not available", ErrInvalidInput, req.ServiceID)
		}
		return []StepInput{ServiceSelection{Service: service}}, nil

	case StepDateTime:
		var req models.DateTimeStepRequest
		if err := decode(raw, &req); err != nil {
			return nil, err
		}
		if req.TimeSlotID == 0 {
			return nil, &ValidationError{Step: StepDateTime, Fields: []string{"timeSlot"}}
		}
		slot, err := s.slots.GetByID(ctx, req.TimeSlotID)
		if err != nil {
			if errors.Is(err, slotRepo.ErrSlotNotFound) {
				return nil, fmt.Errorf("%w: time slot id=%d not found", ErrInvalidInput, req.TimeSlotID)
			}
			return nil, fmt.Errorf("%w: get time slot: %v", ErrInternal, err)
		}
		if !slot.IsAvailable() {
			return nil, fmt.Errorf("%w: time slot id=%d is fully booked", ErrInvalidInput, req.TimeSlotID)
		}
		date := slot.Date
		if req.Date != "" {
			date, err = time.Parse(domain.DateFormat, req.Date)
			if err != nil {
				return nil, fmt.Errorf("%w: invalid date format, expected YYYY-MM-DD", ErrInvalidInput)
			}
		}
		return []StepInput{DateTimeSelection{Date: date, Slot: slot}}, nil

	case StepStaff:
		var req models.StaffStepRequest
		if err := decode(raw, &req); err != nil {
			return nil, err
		}
		if req.StaffID == nil {
			return []StepInput{StaffSelection{}}, nil
		}
		staff, err := s.catalog.GetStaff(ctx, *req.StaffID)
		if err != nil {
			return nil, s.catalogError("staff member", *req.StaffID, err)
		}
		if !staff.IsActive {
			return nil, fmt.Errorf("%w: staff member id=%d is not available", ErrInvalidInput, staff.ID)
		}
		return []StepInput{StaffSelection{Staff: staff}}, nil

	case StepAddOns:
		var req models.AddOnsStepRequest
		if err := decode(raw, &req); err != nil {
			return nil, err
		}
		if session.Draft.Service == nil {
			return nil, &ValidationError{Step: StepService, Fields: []string{"service"}}
		}
		addOns, err := pricing.ResolveAddOns(session.Draft.Service, req.AddOnIDs)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return []StepInput{AddOnSelection{AddOns: addOns}}, nil

	case StepRequests:
		var req models.RequestsStepRequest
		if err := decode(raw, &req); err != nil {
			return nil, err
		}
		return []StepInput{SpecialRequests{Text: req.SpecialRequests}}, nil

	case StepInfo:
		var req models.InfoStepRequest
		if err := decode(raw, &req); err != nil {
			return nil, err
		}
		return []StepInput{CustomerInfoInput{Info: domain.CustomerInfo{Name: req.Name, Email: req.Email, Phone: req.Phone}}}, nil

	case StepPayment:
		var req models.PaymentStepRequest
		if err := decode(raw, &req); err != nil {
			return nil, err
		}
		inputs := []StepInput{PaymentSelection{Method: domain.PaymentMethod(req.PaymentMethod)}}
		if req.PromoCode != nil {
			inputs = append(inputs, PromoCodeInput{Code: *req.PromoCode})
		}
		return inputs, nil

	case StepReview:
		var req models.ReviewStepRequest
		if err := decode(raw, &req); err != nil {
			return nil, err
		}
		return []StepInput{PromoCodeInput{Code: req.PromoCode}}, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrInvalidStep, id)
}

func (s *Service) catalogError(what string, id int64, err error) error {
	if errors.Is(err, catalogRepo.ErrServiceNotFound) || errors.Is(err, catalogRepo.ErrStaffNotFound) {
		return fmt.Errorf("%w: %s id=%d not found", ErrInvalidInput, what, id)
	}
	return fmt.Errorf("%w: get %s: %v", ErrInternal, what, err)
}

func (s *Service) toResponse(ctrl *Controller) *models.SessionResponse {
	session := ctrl.State()
	steps := ctrl.Steps()

	resp := &models.SessionResponse{
		ID:          session.ID,
		Status:      string(session.Status),
		StepIndex:   session.StepIndex,
		CurrentStep: string(steps[session.StepIndex].ID),
		CanAdvance:  ctrl.CanAdvance(),
		Steps:       make([]models.StepResponse, len(steps)),
		Draft:       models.FromDomainDraft(&session.Draft),
		LastError:   session.LastError,
		CreatedAt:   session.CreatedAt,
		UpdatedAt:   session.UpdatedAt,
	}
	for i, step := range steps {
		resp.Steps[i] = models.StepResponse{
			ID:          string(step.ID),
			Title:       step.Title,
			Description: step.Description,
			Completed:   step.Completed,
			Current:     step.Current,
		}
	}
	if session.Status == domain.WizardSubmitted {
		resp.Confirmation = &models.ConfirmationResponse{
			BookingID:     session.BookingID,
			ReferenceCode: session.ReferenceCode,
		}
	}
	return resp
}

func decode(raw json.RawMessage, dst interface{}) error {
	if len(raw) == 0 {
		return fmt.Errorf("%w: empty step payload", ErrInvalidInput)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%w: invalid JSON: %v", ErrInvalidInput, err)
	}
	return nil
}

// failureMessage сообщение для пользователя: текст самой внутренней ошибки цепочки
func failureMessage(err error) string {
	for {
		inner := errors.Unwrap(err)
		if inner == nil {
			return err.Error()
		}
		err = inner
	}
}
