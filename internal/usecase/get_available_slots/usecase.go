package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-MarketplaceService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-MarketplaceService/internal/infra/storage/catalog"
	scheduleRepo "github.com/m04kA/SMC-MarketplaceService/internal/infra/storage/schedule"
)

// UseCase use case для получения доступных слотов для бронирования
type UseCase struct {
	slotRepo     SlotRepository
	scheduleRepo ScheduleRepository
	catalogRepo  CatalogRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	slotRepo SlotRepository,
	scheduleRepo ScheduleRepository,
	catalogRepo CatalogRepository,
	logger Logger,
) *UseCase {
	return &UseCase{
		slotRepo:     slotRepo,
		scheduleRepo: scheduleRepo,
		catalogRepo:  catalogRepo,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: provider=%d, service=%d, date=%s",
		req.ProviderID, req.ServiceID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем провайдера
	provider, err := uc.catalogRepo.GetProvider(ctx, req.ProviderID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrProviderNotFound) {
			uc.logger.Warn("GetAvailableSlots: provider id=%d not found", req.ProviderID)
			return nil, ErrProviderNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get provider id=%d: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: failed to get provider: %v", ErrInternal, err)
	}
	if !provider.IsActive {
		uc.logger.Warn("GetAvailableSlots: provider id=%d is inactive", req.ProviderID)
		return nil, ErrProviderNotFound
	}

	// 4. Получаем услугу и проверяем, что она принадлежит провайдеру
	service, err := uc.catalogRepo.GetService(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailableSlots: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if service.ProviderID != provider.ID || !service.IsActive {
		uc.logger.Warn("GetAvailableSlots: service id=%d is not offered by provider id=%d", req.ServiceID, req.ProviderID)
		return nil, ErrServiceNotFound
	}

	// 5. Получаем настройки расписания с учетом иерархии
	settings, err := uc.scheduleRepo.GetWithHierarchy(ctx, provider.ID, &service.ID)
	if err != nil && !errors.Is(err, scheduleRepo.ErrSettingsNotFound) {
		uc.logger.Error("GetAvailableSlots: failed to get schedule settings: %v", err)
		return nil, fmt.Errorf("%w: failed to get schedule settings: %v", ErrInternal, err)
	}

	// Если настройки не найдены, используем дефолтные значения
	if settings == nil {
		settings = domain.DefaultScheduleSettings(provider.ID)
		uc.logger.Info("GetAvailableSlots: using default schedule settings for provider=%d", provider.ID)
	} else {
		uc.logger.Info("GetAvailableSlots: using schedule settings id=%d", settings.ID)
	}

	// 6. Валидация даты с учетом настроек
	if err := validateDate(req.Date, now, settings.AdvanceBookingDays); err != nil {
		uc.logger.Warn("GetAvailableSlots: date validation failed: %v", err)
		return nil, err
	}

	// 7. Получаем слоты услуги и общие слоты провайдера
	slots, err := uc.slotRepo.GetByProviderAndDate(ctx, provider.ID, dateOnly(req.Date), &service.ID)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get slots: %v", err)
		return nil, fmt.Errorf("%w: failed to get slots: %v", ErrInternal, err)
	}

	// 8. Оставляем только доступные
	available := filterAvailableSlots(slots, now, settings.MinBookingNoticeMinutes)

	uc.logger.Info("GetAvailableSlots: found %d available slots of %d for provider=%d on %s",
		len(available), len(slots), provider.ID, req.Date.Format(domain.DateFormat))

	return &Response{
		Date:       req.Date,
		ProviderID: provider.ID,
		ServiceID:  service.ID,
		Slots:      available,
	}, nil
}
