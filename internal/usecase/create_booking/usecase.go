package create_booking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-MarketplaceService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-MarketplaceService/internal/infra/storage/catalog"
	scheduleRepo "github.com/m04kA/SMC-MarketplaceService/internal/infra/storage/schedule"
	slotRepo "github.com/m04kA/SMC-MarketplaceService/internal/infra/storage/timeslot"
	"github.com/m04kA/SMC-MarketplaceService/internal/integrations/notifier"
	"github.com/m04kA/SMC-MarketplaceService/internal/service/pricing"
)

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	catalogRepo  CatalogRepository
	slotRepo     SlotRepository
	scheduleRepo ScheduleRepository
	calculator   PriceCalculator
	notifier     Notifier
	metrics      MetricsRecorder
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
	newReference func() string
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	catalogRepo CatalogRepository,
	slotRepo SlotRepository,
	scheduleRepo ScheduleRepository,
	calculator PriceCalculator,
	notifier Notifier,
	metrics MetricsRecorder,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		catalogRepo:  catalogRepo,
		slotRepo:     slotRepo,
		scheduleRepo: scheduleRepo,
		calculator:   calculator,
		notifier:     notifier,
		metrics:      metrics,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
		newReference: newReferenceCode,
	}
}

// CreateFromDraft создает бронирование из черновика мастера
func (uc *UseCase) CreateFromDraft(ctx context.Context, userID int64, draft *domain.BookingDraft) (*domain.Booking, error) {
	req, err := RequestFromDraft(userID, draft)
	if err != nil {
		uc.logger.Warn("CreateFromDraft: incomplete draft for user=%d", userID)
		return nil, fmt.Errorf("%w: service and time slot are required", err)
	}
	return uc.Execute(ctx, req)
}

// Execute выполняет use case создания бронирования.
// Слот блокируется в сериализуемой транзакции, вместе с бронированием увеличивается его заполненность
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*domain.Booking, error) {
	uc.logger.Info("CreateBooking: user=%d, service=%d, slot=%d, staff=%v, addOns=%v",
		req.UserID, req.ServiceID, req.TimeSlotID, req.StaffID, req.AddOnIDs)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем услугу и провайдера
	service, err := uc.catalogRepo.GetService(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateBooking: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateBooking: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %w", ErrInternal, err)
	}
	if !service.IsActive {
		uc.logger.Warn("CreateBooking: service id=%d is inactive", req.ServiceID)
		return nil, ErrServiceNotFound
	}

	provider, err := uc.catalogRepo.GetProvider(ctx, service.ProviderID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrProviderNotFound) {
			uc.logger.Warn("CreateBooking: provider id=%d not found", service.ProviderID)
			return nil, ErrProviderNotFound
		}
		uc.logger.Error("CreateBooking: failed to get provider id=%d: %v", service.ProviderID, err)
		return nil, fmt.Errorf("%w: failed to get provider: %w", ErrInternal, err)
	}
	if !provider.IsActive {
		uc.logger.Warn("CreateBooking: provider id=%d is inactive", provider.ID)
		return nil, ErrProviderNotFound
	}

	// 4. Проверяем дополнения
	addOns, err := pricing.ResolveAddOns(service, req.AddOnIDs)
	if err != nil {
		uc.logger.Warn("CreateBooking: %v", err)
		return nil, fmt.Errorf("%w: %w", ErrAddOnNotFound, err)
	}

	// 5. Проверяем сотрудника
	if req.StaffID != nil {
		if err := uc.checkStaff(ctx, *req.StaffID, provider.ID); err != nil {
			return nil, err
		}
	}

	// 6. Считаем стоимость заново по актуальным ценам
	totals := uc.calculator.Totals(service.Price, addOns, req.PromoCode)

	// Переменная для хранения результата
	var result *domain.Booking

	// 7. Выполняем операции с БД в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 7.1. Блокируем слот (FOR UPDATE)
		slot, err := uc.slotRepo.GetByID(txCtx, req.TimeSlotID)
		if err != nil {
			if errors.Is(err, slotRepo.ErrSlotNotFound) {
				uc.logger.Warn("CreateBooking: slot id=%d not found", req.TimeSlotID)
				return ErrSlotNotFound
			}
			uc.logger.Error("CreateBooking: failed to get slot id=%d: %v", req.TimeSlotID, err)
			return fmt.Errorf("%w: failed to get slot: %w", ErrInternal, err)
		}

		if slot.ProviderID != service.ProviderID || !slot.AppliesTo(service.ID) {
			uc.logger.Warn("CreateBooking: slot id=%d does not belong to service id=%d", slot.ID, service.ID)
			return ErrSlotMismatch
		}

		// 7.2. Получаем настройки расписания с учетом иерархии
		settings, err := uc.scheduleRepo.GetWithHierarchy(txCtx, provider.ID, &service.ID)
		if err != nil && !errors.Is(err, scheduleRepo.ErrSettingsNotFound) {
			uc.logger.Error("CreateBooking: failed to get schedule settings: %v", err)
			return fmt.Errorf("%w: failed to get schedule settings: %w", ErrInternal, err)
		}

		// Если настройки не найдены, используем дефолтные значения
		if settings == nil {
			settings = domain.DefaultScheduleSettings(provider.ID)
			uc.logger.Info("CreateBooking: using default schedule settings for provider=%d", provider.ID)
		} else {
			uc.logger.Info("CreateBooking: using schedule settings id=%d", settings.ID)
		}

		// 7.3. Валидация даты и времени
		if err := validateDate(slot.Date, now, settings.AdvanceBookingDays); err != nil {
			uc.logger.Warn("CreateBooking: date validation failed: %v", err)
			return err
		}
		if err := validateBookingTime(slot, now, settings.MinBookingNoticeMinutes); err != nil {
			uc.logger.Warn("CreateBooking: booking time validation failed: %v", err)
			return err
		}

		// 7.4. Проверяем свободные места
		if !slot.IsAvailable() {
			uc.logger.Warn("CreateBooking: slot id=%d is full, %d/%d spots taken", slot.ID, slot.BookedCount, slot.Capacity)
			return ErrSlotNotAvailable
		}

		// 7.5. Создаем бронирование с денормализацией данных
		booking := &domain.Booking{
			ReferenceCode:   uc.newReference(),
			UserID:          req.UserID,
			ProviderID:      provider.ID,
			ServiceID:       service.ID,
			TimeSlotID:      slot.ID,
			StaffID:         req.StaffID,
			BookingDate:     slot.Date,
			StartTime:       slot.StartTime,
			DurationMinutes: slot.DurationMinutes,
			Status:          domain.StatusPending,
			// Денормализация данных услуги и стоимости
			ServiceName:  service.Name,
			ServicePrice: service.Price,
			AddOns:       toBookingAddOns(addOns),
			Subtotal:     totals.Subtotal,
			Discount:     totals.Discount,
			Total:        totals.Total,
			PromoCode:    promoCodePtr(req.PromoCode),
			// Контактные данные и оплата
			Customer:      req.Customer,
			PaymentMethod: req.PaymentMethod,
			Notes:         req.Notes,
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %w", ErrInternal, err)
		}

		// 7.6. Занимаем место в слоте
		if err := uc.slotRepo.IncrementBooked(txCtx, slot.ID); err != nil {
			if errors.Is(err, slotRepo.ErrSlotFull) {
				uc.logger.Warn("CreateBooking: slot id=%d became full", slot.ID)
				return ErrSlotNotAvailable
			}
			uc.logger.Error("CreateBooking: failed to increment slot id=%d: %v", slot.ID, err)
			return fmt.Errorf("%w: failed to increment slot: %w", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.metrics.RecordBookingCreated(result.ProviderID)
	uc.logger.Info("CreateBooking: successfully created booking id=%d ref=%s", result.ID, result.ReferenceCode)

	// 8. Уведомление после коммита, ошибка не отменяет бронирование
	if err := uc.notifier.NotifyWithGracefulDegradation(ctx, notifier.BookingEvent{
		Event:         notifier.EventBookingCreated,
		BookingID:     result.ID,
		ReferenceCode: result.ReferenceCode,
		UserID:        result.UserID,
		ProviderID:    result.ProviderID,
		Status:        string(result.Status),
		BookingDate:   result.BookingDate.Format(domain.DateFormat),
		StartTime:     result.StartTime.String(),
		CustomerEmail: result.Customer.Email,
	}); err != nil {
		uc.logger.Warn("CreateBooking: notification skipped for booking id=%d: %v", result.ID, err)
	}

	return result, nil
}

// checkStaff проверяет, что сотрудник активен и работает у провайдера
func (uc *UseCase) checkStaff(ctx context.Context, staffID, providerID int64) error {
	staff, err := uc.catalogRepo.GetStaff(ctx, staffID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrStaffNotFound) {
			uc.logger.Warn("CreateBooking: staff id=%d not found", staffID)
			return ErrStaffNotFound
		}
		uc.logger.Error("CreateBooking: failed to get staff id=%d: %v", staffID, err)
		return fmt.Errorf("%w: failed to get staff: %w", ErrInternal, err)
	}
	if staff.ProviderID != providerID || !staff.IsActive {
		uc.logger.Warn("CreateBooking: staff id=%d is not available at provider=%d", staffID, providerID)
		return ErrStaffNotFound
	}
	return nil
}

func toBookingAddOns(addOns []domain.AddOn) []domain.BookingAddOn {
	result := make([]domain.BookingAddOn, 0, len(addOns))
	for _, a := range addOns {
		result = append(result, domain.BookingAddOn{AddOnID: a.ID, Name: a.Name, Price: a.Price})
	}
	return result
}

func promoCodePtr(code string) *string {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil
	}
	return &code
}

// newReferenceCode короткий код бронирования для клиента, например BK-3F2A9C01D4E7
func newReferenceCode() string {
	id := strings.ReplaceAll(uuid.New().String(), "-", "")
	return "BK-" + strings.ToUpper(id[:12])
}
