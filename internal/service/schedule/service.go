package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-MarketplaceService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-MarketplaceService/internal/infra/storage/catalog"
	scheduleRepo "github.com/m04kA/SMC-MarketplaceService/internal/infra/storage/schedule"
	slotRepo "github.com/m04kA/SMC-MarketplaceService/internal/infra/storage/timeslot"
	"github.com/m04kA/SMC-MarketplaceService/internal/service/schedule/models"
	"github.com/m04kA/SMC-MarketplaceService/pkg/types"
)

// Service сервис настроек расписания и управления слотами
type Service struct {
	settingsRepo SettingsRepository
	slotRepo     SlotRepository
	catalogRepo  CatalogRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса расписания
func NewService(
	settingsRepo SettingsRepository,
	slotRepo SlotRepository,
	catalogRepo CatalogRepository,
	logger Logger,
) *Service {
	return &Service{
		settingsRepo: settingsRepo,
		slotRepo:     slotRepo,
		catalogRepo:  catalogRepo,
		timeProvider: realTimeProvider{},
		logger:       logger,
	}
}

// GetSettings возвращает действующие настройки (услуга > провайдер > значения по умолчанию)
// и все настроенные уровни провайдера
// Доступно только владельцу провайдера
func (s *Service) GetSettings(ctx context.Context, userID, providerID int64, serviceID *int64) (*models.SettingsOverviewResponse, error) {
	s.logger.Info("GetSettings: fetching settings for provider=%d, service=%v by user=%d", providerID, serviceID, userID)

	if err := s.checkOwner(ctx, "GetSettings", providerID, userID); err != nil {
		return nil, err
	}
	if serviceID != nil {
		if err := s.checkService(ctx, "GetSettings", providerID, *serviceID); err != nil {
			return nil, err
		}
	}

	effective, level, err := s.effectiveSettings(ctx, providerID, serviceID)
	if err != nil {
		s.logger.Error("GetSettings: repository error for provider=%d: %v", providerID, err)
		return nil, fmt.Errorf("%w: GetSettings - repository error: %v", ErrInternal, err)
	}

	all, err := s.settingsRepo.GetAllByProvider(ctx, providerID)
	if err != nil {
		s.logger.Error("GetSettings: failed to list settings for provider=%d: %v", providerID, err)
		return nil, fmt.Errorf("%w: GetSettings - repository error: %v", ErrInternal, err)
	}

	resp := &models.SettingsOverviewResponse{
		Effective:  models.FromDomainSettings(effective, level),
		Configured: make([]models.SettingsResponse, 0, len(all)),
	}
	for _, st := range all {
		resp.Configured = append(resp.Configured, models.FromDomainSettings(st, models.LevelOf(st)))
	}

	s.logger.Info("GetSettings: provider=%d effective level=%s, %d configured", providerID, level, len(resp.Configured))
	return resp, nil
}

// UpdateSettings создает или изменяет настройки области (провайдер или услуга)
// Незаданные поля наследуются от текущих настроек области либо от действующих настроек
func (s *Service) UpdateSettings(ctx context.Context, userID, providerID int64, req *models.UpdateSettingsRequest) (*models.SettingsResponse, error) {
	s.logger.Info("UpdateSettings: updating settings for provider=%d, service=%v by user=%d", providerID, req.ServiceID, userID)

	// 1. Проверяем права доступа
	if err := s.checkOwner(ctx, "UpdateSettings", providerID, userID); err != nil {
		return nil, err
	}
	if req.ServiceID != nil {
		if err := s.checkService(ctx, "UpdateSettings", providerID, *req.ServiceID); err != nil {
			return nil, err
		}
	}

	// 2. Берем текущие настройки области как основу
	base, _, err := s.effectiveSettings(ctx, providerID, req.ServiceID)
	if err != nil {
		s.logger.Error("UpdateSettings: repository error for provider=%d: %v", providerID, err)
		return nil, fmt.Errorf("%w: UpdateSettings - repository error: %v", ErrInternal, err)
	}

	settings := *base
	settings.ID = 0
	settings.ProviderID = providerID
	settings.ServiceID = req.ServiceID
	settings.WorkingDays = append([]int(nil), base.WorkingDays...)

	// 3. Применяем и валидируем изменения
	if err := req.ApplyTo(&settings); err != nil {
		s.logger.Warn("UpdateSettings: invalid time for provider=%d: %v", providerID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := validateSettings(&settings); err != nil {
		s.logger.Warn("UpdateSettings: validation failed for provider=%d: %v", providerID, err)
		return nil, err
	}

	// 4. Сохраняем
	saved, err := s.settingsRepo.Upsert(ctx, &settings)
	if err != nil {
		s.logger.Error("UpdateSettings: failed to save settings for provider=%d: %v", providerID, err)
		return nil, fmt.Errorf("%w: UpdateSettings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateSettings: saved settings id=%d for provider=%d (level: %s)", saved.ID, providerID, models.LevelOf(saved))
	resp := models.FromDomainSettings(saved, models.LevelOf(saved))
	return &resp, nil
}

// DeleteSettings удаляет настройки области, после чего действуют настройки уровнем выше
func (s *Service) DeleteSettings(ctx context.Context, userID, providerID int64, serviceID *int64) error {
	s.logger.Info("DeleteSettings: deleting settings for provider=%d, service=%v by user=%d", providerID, serviceID, userID)

	if err := s.checkOwner(ctx, "DeleteSettings", providerID, userID); err != nil {
		return err
	}

	if err := s.settingsRepo.DeleteByScope(ctx, providerID, serviceID); err != nil {
		if errors.Is(err, scheduleRepo.ErrSettingsNotFound) {
			s.logger.Warn("DeleteSettings: no settings for provider=%d, service=%v", providerID, serviceID)
			return ErrSettingsNotFound
		}
		s.logger.Error("DeleteSettings: repository error for provider=%d: %v", providerID, err)
		return fmt.Errorf("%w: DeleteSettings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("DeleteSettings: deleted settings for provider=%d, service=%v", providerID, serviceID)
	return nil
}

// ListSlots возвращает слоты провайдера за период включительно
func (s *Service) ListSlots(ctx context.Context, userID, providerID int64, req *models.ListSlotsRequest) (*models.SlotListResponse, error) {
	s.logger.Info("ListSlots: fetching slots for provider=%d from=%s to=%s by user=%d", providerID, req.From, req.To, userID)

	from, to, err := parseRange(req.From, req.To)
	if err != nil {
		s.logger.Warn("ListSlots: invalid range for provider=%d: %v", providerID, err)
		return nil, err
	}

	if err := s.checkOwner(ctx, "ListSlots", providerID, userID); err != nil {
		return nil, err
	}

	slots, err := s.slotRepo.GetByProviderRange(ctx, providerID, from, to)
	if err != nil {
		s.logger.Error("ListSlots: repository error for provider=%d: %v", providerID, err)
		return nil, fmt.Errorf("%w: ListSlots - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListSlots: fetched %d slots for provider=%d", len(slots), providerID)
	return models.FromDomainSlotList(slots), nil
}

// CreateSlot создает один слот
func (s *Service) CreateSlot(ctx context.Context, userID, providerID int64, req *models.CreateSlotRequest) (*models.SlotResponse, error) {
	s.logger.Info("CreateSlot: creating slot %s %s for provider=%d by user=%d", req.Date, req.StartTime, providerID, userID)

	// 1. Валидируем дату и время
	date, err := time.Parse(domain.DateFormat, req.Date)
	if err != nil {
		s.logger.Warn("CreateSlot: invalid date %q", req.Date)
		return nil, fmt.Errorf("%w: invalid date, expected YYYY-MM-DD", ErrInvalidInput)
	}
	startTime, err := types.NewTimeStringFromString(req.StartTime)
	if err != nil {
		s.logger.Warn("CreateSlot: invalid start time %q", req.StartTime)
		return nil, fmt.Errorf("%w: invalid startTime, expected HH:MM", ErrInvalidInput)
	}
	if date.Before(dateOnly(s.timeProvider.Now())) {
		s.logger.Warn("CreateSlot: date %s is in the past", req.Date)
		return nil, fmt.Errorf("%w: date is in the past", ErrInvalidDateRange)
	}

	// 2. Проверяем права доступа и услугу
	if err := s.checkOwner(ctx, "CreateSlot", providerID, userID); err != nil {
		return nil, err
	}
	if req.ServiceID != nil {
		if err := s.checkService(ctx, "CreateSlot", providerID, *req.ServiceID); err != nil {
			return nil, err
		}
	}

	// 3. Длительность и вместимость по умолчанию из действующих настроек
	settings, _, err := s.effectiveSettings(ctx, providerID, req.ServiceID)
	if err != nil {
		s.logger.Error("CreateSlot: repository error for provider=%d: %v", providerID, err)
		return nil, fmt.Errorf("%w: CreateSlot - repository error: %v", ErrInternal, err)
	}

	slot := &domain.TimeSlot{
		ProviderID:      providerID,
		ServiceID:       req.ServiceID,
		Date:            date,
		StartTime:       startTime,
		DurationMinutes: settings.SlotDurationMinutes,
		Capacity:        settings.Capacity,
	}
	if req.DurationMinutes != nil {
		slot.DurationMinutes = *req.DurationMinutes
	}
	if req.Capacity != nil {
		slot.Capacity = *req.Capacity
	}

	if err := validateSlotShape(slot.DurationMinutes, slot.Capacity); err != nil {
		s.logger.Warn("CreateSlot: validation failed: %v", err)
		return nil, err
	}
	if _, err := startTime.AddMinutes(slot.DurationMinutes); err != nil {
		s.logger.Warn("CreateSlot: slot %s +%dm crosses midnight", startTime, slot.DurationMinutes)
		return nil, fmt.Errorf("%w: slot must end on the same day", ErrInvalidInput)
	}

	// 4. Сохраняем
	created, err := s.slotRepo.Create(ctx, slot)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotExists) {
			s.logger.Warn("CreateSlot: slot %s %s already exists for provider=%d", req.Date, startTime, providerID)
			return nil, ErrSlotExists
		}
		s.logger.Error("CreateSlot: repository error for provider=%d: %v", providerID, err)
		return nil, fmt.Errorf("%w: CreateSlot - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreateSlot: created slot id=%d for provider=%d", created.ID, providerID)
	resp := models.FromDomainSlot(created)
	return &resp, nil
}

// DeleteSlot удаляет слот без бронирований
func (s *Service) DeleteSlot(ctx context.Context, userID, providerID, slotID int64) error {
	s.logger.Info("DeleteSlot: deleting slot id=%d of provider=%d by user=%d", slotID, providerID, userID)

	if err := s.checkOwner(ctx, "DeleteSlot", providerID, userID); err != nil {
		return err
	}

	slot, err := s.slotRepo.GetByID(ctx, slotID)
	if err != nil && !errors.Is(err, slotRepo.ErrSlotNotFound) {
		s.logger.Error("DeleteSlot: repository error for slot id=%d: %v", slotID, err)
		return fmt.Errorf("%w: DeleteSlot - repository error: %v", ErrInternal, err)
	}
	if err != nil || slot.ProviderID != providerID {
		s.logger.Warn("DeleteSlot: slot id=%d not found in provider=%d", slotID, providerID)
		return ErrSlotNotFound
	}

	if slot.BookedCount > 0 {
		s.logger.Warn("DeleteSlot: slot id=%d has %d bookings", slotID, slot.BookedCount)
		return ErrSlotHasBookings
	}

	if err := s.slotRepo.Delete(ctx, slotID); err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			return ErrSlotNotFound
		}
		s.logger.Error("DeleteSlot: failed to delete slot id=%d: %v", slotID, err)
		return fmt.Errorf("%w: DeleteSlot - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("DeleteSlot: deleted slot id=%d", slotID)
	return nil
}

// GenerateSlots раскладывает слоты по рабочим дням периода между временем открытия и закрытия
// Уже существующие слоты пропускаются
func (s *Service) GenerateSlots(ctx context.Context, userID, providerID int64, req *models.GenerateSlotsRequest) (*models.GenerateSlotsResponse, error) {
	s.logger.Info("GenerateSlots: generating slots for provider=%d, service=%v, %s..%s by user=%d",
		providerID, req.ServiceID, req.From, req.To, userID)

	// 1. Валидируем период
	from, to, err := parseRange(req.From, req.To)
	if err != nil {
		s.logger.Warn("GenerateSlots: invalid range: %v", err)
		return nil, err
	}
	if from.Before(dateOnly(s.timeProvider.Now())) {
		s.logger.Warn("GenerateSlots: range starts in the past: %s", req.From)
		return nil, fmt.Errorf("%w: from is in the past", ErrInvalidDateRange)
	}
	days := int(to.Sub(from).Hours()/24) + 1
	if days > domain.MaxGenerateRangeDays {
		s.logger.Warn("GenerateSlots: range of %d days is too long", days)
		return nil, fmt.Errorf("%w: at most %d days can be generated at once", ErrInvalidDateRange, domain.MaxGenerateRangeDays)
	}

	// 2. Проверяем права доступа и услугу
	if err := s.checkOwner(ctx, "GenerateSlots", providerID, userID); err != nil {
		return nil, err
	}
	if req.ServiceID != nil {
		if err := s.checkService(ctx, "GenerateSlots", providerID, *req.ServiceID); err != nil {
			return nil, err
		}
	}

	// 3. Получаем действующие настройки
	settings, level, err := s.effectiveSettings(ctx, providerID, req.ServiceID)
	if err != nil {
		s.logger.Error("GenerateSlots: repository error for provider=%d: %v", providerID, err)
		return nil, fmt.Errorf("%w: GenerateSlots - repository error: %v", ErrInternal, err)
	}

	// 4. Раскладываем слоты по дням
	slots := make([]domain.TimeSlot, 0)
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		starts, err := settings.DayStartTimes(day)
		if err != nil {
			s.logger.Error("GenerateSlots: broken settings for provider=%d: %v", providerID, err)
			return nil, fmt.Errorf("%w: GenerateSlots - lay out day: %v", ErrInternal, err)
		}
		for _, st := range starts {
			slots = append(slots, domain.TimeSlot{
				ProviderID:      providerID,
				ServiceID:       req.ServiceID,
				Date:            day,
				StartTime:       st,
				DurationMinutes: settings.SlotDurationMinutes,
				Capacity:        settings.Capacity,
			})
		}
	}

	// 5. Сохраняем пачкой
	created, err := s.slotRepo.CreateBatch(ctx, slots)
	if err != nil {
		s.logger.Error("GenerateSlots: failed to save slots for provider=%d: %v", providerID, err)
		return nil, fmt.Errorf("%w: GenerateSlots - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GenerateSlots: provider=%d generated=%d created=%d (settings level: %s)",
		providerID, len(slots), created, level)

	return &models.GenerateSlotsResponse{
		From:      from.Format(domain.DateFormat),
		To:        to.Format(domain.DateFormat),
		Generated: len(slots),
		Created:   created,
		Skipped:   len(slots) - created,
	}, nil
}

// Вспомогательные методы

// effectiveSettings возвращает настройки по иерархии или значения по умолчанию
func (s *Service) effectiveSettings(ctx context.Context, providerID int64, serviceID *int64) (*domain.ScheduleSettings, string, error) {
	settings, err := s.settingsRepo.GetWithHierarchy(ctx, providerID, serviceID)
	if errors.Is(err, scheduleRepo.ErrSettingsNotFound) {
		return domain.DefaultScheduleSettings(providerID), models.LevelDefault, nil
	}
	if err != nil {
		return nil, "", err
	}
	return settings, models.LevelOf(settings), nil
}

// checkOwner проверяет, что пользователь владелец провайдера
func (s *Service) checkOwner(ctx context.Context, op string, providerID, userID int64) error {
	provider, err := s.catalogRepo.GetProvider(ctx, providerID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrProviderNotFound) {
			s.logger.Warn("%s: provider id=%d not found", op, providerID)
			return ErrProviderNotFound
		}
		s.logger.Error("%s: failed to get provider id=%d: %v", op, providerID, err)
		return fmt.Errorf("%w: %s - failed to get provider: %v", ErrInternal, op, err)
	}
	if !provider.IsOwnedBy(userID) {
		s.logger.Warn("%s: user=%d is not the owner of provider=%d", op, userID, providerID)
		return ErrAccessDenied
	}
	return nil
}

// checkService проверяет, что услуга принадлежит провайдеру
func (s *Service) checkService(ctx context.Context, op string, providerID, serviceID int64) error {
	service, err := s.catalogRepo.GetService(ctx, serviceID)
	if err != nil && !errors.Is(err, catalogRepo.ErrServiceNotFound) {
		s.logger.Error("%s: failed to get service id=%d: %v", op, serviceID, err)
		return fmt.Errorf("%w: %s - failed to get service: %v", ErrInternal, op, err)
	}
	if err != nil || service.ProviderID != providerID {
		s.logger.Warn("%s: service id=%d not found in provider=%d", op, serviceID, providerID)
		return ErrServiceNotFound
	}
	return nil
}
