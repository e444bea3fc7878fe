package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-MarketplaceService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-MarketplaceService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-MarketplaceService/internal/service/catalog/models"
)

// Service сервис профилей провайдеров и управления каталогом
type Service struct {
	repo        CatalogRepository
	txManager   TransactionManager
	searchCache SearchCacheInvalidator
	logger      Logger
}

// NewService создает новый экземпляр сервиса каталога.
// searchCache может быть nil, если кэш поиска отключен
func NewService(repo CatalogRepository, txManager TransactionManager, searchCache SearchCacheInvalidator, logger Logger) *Service {
	return &Service{
		repo:        repo,
		txManager:   txManager,
		searchCache: searchCache,
		logger:      logger,
	}
}

// GetProfile возвращает профиль провайдера: активные услуги с дополнениями и активных сотрудников
func (s *Service) GetProfile(ctx context.Context, providerID int64) (*models.ProfileResponse, error) {
	s.logger.Info("GetProfile: fetching profile for provider=%d", providerID)

	provider, err := s.getProvider(ctx, "GetProfile", providerID)
	if err != nil {
		return nil, err
	}
	if !provider.IsActive {
		s.logger.Warn("GetProfile: provider id=%d is inactive", providerID)
		return nil, ErrProviderNotFound
	}

	services, err := s.repo.ListServices(ctx, providerID, true)
	if err != nil {
		s.logger.Error("GetProfile: failed to list services for provider=%d: %v", providerID, err)
		return nil, fmt.Errorf("%w: GetProfile - list services: %v", ErrInternal, err)
	}

	staff, err := s.repo.ListStaff(ctx, providerID, true)
	if err != nil {
		s.logger.Error("GetProfile: failed to list staff for provider=%d: %v", providerID, err)
		return nil, fmt.Errorf("%w: GetProfile - list staff: %v", ErrInternal, err)
	}

	resp := &models.ProfileResponse{
		Provider: models.FromDomainProvider(provider),
		Services: make([]models.ServiceResponse, 0, len(services)),
		Staff:    make([]models.StaffResponse, 0, len(staff)),
	}
	for i := range services {
		resp.Services = append(resp.Services, models.FromDomainService(&services[i]))
	}
	for i := range staff {
		resp.Staff = append(resp.Staff, models.FromDomainStaff(&staff[i]))
	}

	s.logger.Info("GetProfile: provider=%d has %d services and %d staff members",
		providerID, len(resp.Services), len(resp.Staff))
	return resp, nil
}

// CreateService создает услугу вместе с дополнениями и пересчитывает стартовую цену провайдера
// Доступно только владельцу провайдера
func (s *Service) CreateService(ctx context.Context, userID, providerID int64, req *models.CreateServiceRequest) (*models.ServiceResponse, error) {
	s.logger.Info("CreateService: creating service %q for provider=%d by user=%d", req.Name, providerID, userID)

	// 1. Валидируем входные данные
	service := req.ToDomain(providerID)
	if err := validateService(service); err != nil {
		s.logger.Warn("CreateService: validation failed: %v", err)
		return nil, err
	}
	for _, a := range service.AddOns {
		if err := validateAddOn(a.Name, a.Price); err != nil {
			s.logger.Warn("CreateService: add-on validation failed: %v", err)
			return nil, err
		}
	}

	// 2. Проверяем права доступа
	if err := s.checkOwner(ctx, "CreateService", providerID, userID); err != nil {
		return nil, err
	}

	// 3. Создаем услугу и обновляем стартовую цену в одной транзакции
	var created *domain.Service
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		var err error
		if created, err = s.repo.CreateService(ctx, service); err != nil {
			return err
		}
		return s.repo.RefreshStartingPrice(ctx, providerID)
	})
	if err != nil {
		s.logger.Error("CreateService: failed to create service for provider=%d: %v", providerID, err)
		return nil, fmt.Errorf("%w: CreateService - transaction failed: %v", ErrInternal, err)
	}

	s.invalidateSearch(ctx, "CreateService")
	s.logger.Info("CreateService: created service id=%d for provider=%d", created.ID, providerID)
	resp := models.FromDomainService(created)
	return &resp, nil
}

// UpdateService частично обновляет услугу провайдера
func (s *Service) UpdateService(ctx context.Context, userID, providerID, serviceID int64, req *models.UpdateServiceRequest) (*models.ServiceResponse, error) {
	s.logger.Info("UpdateService: updating service id=%d of provider=%d by user=%d", serviceID, providerID, userID)

	if err := s.checkOwner(ctx, "UpdateService", providerID, userID); err != nil {
		return nil, err
	}

	service, err := s.getService(ctx, "UpdateService", providerID, serviceID)
	if err != nil {
		return nil, err
	}

	req.ApplyTo(service)
	if err := validateService(service); err != nil {
		s.logger.Warn("UpdateService: validation failed: %v", err)
		return nil, err
	}

	if err := s.saveService(ctx, service); err != nil {
		s.logger.Error("UpdateService: failed to update service id=%d: %v", serviceID, err)
		return nil, fmt.Errorf("%w: UpdateService - transaction failed: %v", ErrInternal, err)
	}

	s.invalidateSearch(ctx, "UpdateService")
	s.logger.Info("UpdateService: updated service id=%d", serviceID)
	resp := models.FromDomainService(service)
	return &resp, nil
}

// DeactivateService снимает услугу с публикации
func (s *Service) DeactivateService(ctx context.Context, userID, providerID, serviceID int64) error {
	s.logger.Info("DeactivateService: deactivating service id=%d of provider=%d by user=%d", serviceID, providerID, userID)

	if err := s.checkOwner(ctx, "DeactivateService", providerID, userID); err != nil {
		return err
	}

	service, err := s.getService(ctx, "DeactivateService", providerID, serviceID)
	if err != nil {
		return err
	}

	service.IsActive = false
	if err := s.saveService(ctx, service); err != nil {
		s.logger.Error("DeactivateService: failed to deactivate service id=%d: %v", serviceID, err)
		return fmt.Errorf("%w: DeactivateService - transaction failed: %v", ErrInternal, err)
	}

	s.invalidateSearch(ctx, "DeactivateService")
	s.logger.Info("DeactivateService: deactivated service id=%d", serviceID)
	return nil
}

// AddAddOn добавляет дополнение к услуге
func (s *Service) AddAddOn(ctx context.Context, userID, providerID, serviceID int64, req *models.AddOnRequest) (*models.AddOnResponse, error) {
	s.logger.Info("AddAddOn: adding %q to service id=%d by user=%d", req.Name, serviceID, userID)

	if err := validateAddOn(req.Name, req.Price); err != nil {
		s.logger.Warn("AddAddOn: validation failed: %v", err)
		return nil, err
	}

	if err := s.checkOwner(ctx, "AddAddOn", providerID, userID); err != nil {
		return nil, err
	}

	if _, err := s.getService(ctx, "AddAddOn", providerID, serviceID); err != nil {
		return nil, err
	}

	addOn, err := s.repo.CreateAddOn(ctx, &domain.AddOn{ServiceID: serviceID, Name: strings.TrimSpace(req.Name), Price: req.Price})
	if err != nil {
		s.logger.Error("AddAddOn: failed to create add-on for service id=%d: %v", serviceID, err)
		return nil, fmt.Errorf("%w: AddAddOn - repository error: %v", ErrInternal, err)
	}

	s.invalidateSearch(ctx, "AddAddOn")
	s.logger.Info("AddAddOn: created add-on id=%d for service id=%d", addOn.ID, serviceID)
	resp := models.FromDomainAddOn(addOn)
	return &resp, nil
}

// RemoveAddOn удаляет дополнение услуги
func (s *Service) RemoveAddOn(ctx context.Context, userID, providerID, serviceID, addOnID int64) error {
	s.logger.Info("RemoveAddOn: removing add-on id=%d from service id=%d by user=%d", addOnID, serviceID, userID)

	if err := s.checkOwner(ctx, "RemoveAddOn", providerID, userID); err != nil {
		return err
	}

	if _, err := s.getService(ctx, "RemoveAddOn", providerID, serviceID); err != nil {
		return err
	}

	if err := s.repo.DeleteAddOn(ctx, serviceID, addOnID); err != nil {
		if errors.Is(err, catalogRepo.ErrAddOnNotFound) {
			s.logger.Warn("RemoveAddOn: add-on id=%d not found in service id=%d", addOnID, serviceID)
			return ErrAddOnNotFound
		}
		s.logger.Error("RemoveAddOn: failed to delete add-on id=%d: %v", addOnID, err)
		return fmt.Errorf("%w: RemoveAddOn - repository error: %v", ErrInternal, err)
	}

	s.invalidateSearch(ctx, "RemoveAddOn")
	s.logger.Info("RemoveAddOn: removed add-on id=%d", addOnID)
	return nil
}

// AddStaff добавляет сотрудника провайдера
func (s *Service) AddStaff(ctx context.Context, userID, providerID int64, req *models.CreateStaffRequest) (*models.StaffResponse, error) {
	s.logger.Info("AddStaff: adding %q to provider=%d by user=%d", req.Name, providerID, userID)

	name := strings.TrimSpace(req.Name)
	if name == "" {
		s.logger.Warn("AddStaff: empty name for provider=%d", providerID)
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	if err := s.checkOwner(ctx, "AddStaff", providerID, userID); err != nil {
		return nil, err
	}

	member, err := s.repo.CreateStaff(ctx, &domain.StaffMember{
		ProviderID: providerID,
		Name:       name,
		Role:       strings.TrimSpace(req.Role),
		IsActive:   true,
	})
	if err != nil {
		s.logger.Error("AddStaff: failed to create staff member for provider=%d: %v", providerID, err)
		return nil, fmt.Errorf("%w: AddStaff - repository error: %v", ErrInternal, err)
	}

	s.invalidateSearch(ctx, "AddStaff")
	s.logger.Info("AddStaff: created staff member id=%d for provider=%d", member.ID, providerID)
	resp := models.FromDomainStaff(member)
	return &resp, nil
}

// DeactivateStaff отключает сотрудника провайдера
func (s *Service) DeactivateStaff(ctx context.Context, userID, providerID, staffID int64) error {
	s.logger.Info("DeactivateStaff: deactivating staff id=%d of provider=%d by user=%d", staffID, providerID, userID)

	if err := s.checkOwner(ctx, "DeactivateStaff", providerID, userID); err != nil {
		return err
	}

	member, err := s.repo.GetStaff(ctx, staffID)
	if err != nil && !errors.Is(err, catalogRepo.ErrStaffNotFound) {
		s.logger.Error("DeactivateStaff: failed to get staff id=%d: %v", staffID, err)
		return fmt.Errorf("%w: DeactivateStaff - repository error: %v", ErrInternal, err)
	}
	if err != nil || member.ProviderID != providerID {
		s.logger.Warn("DeactivateStaff: staff id=%d not found in provider=%d", staffID, providerID)
		return ErrStaffNotFound
	}

	if err := s.repo.SetStaffActive(ctx, staffID, false); err != nil {
		s.logger.Error("DeactivateStaff: failed to update staff id=%d: %v", staffID, err)
		return fmt.Errorf("%w: DeactivateStaff - repository error: %v", ErrInternal, err)
	}

	s.invalidateSearch(ctx, "DeactivateStaff")
	s.logger.Info("DeactivateStaff: deactivated staff id=%d", staffID)
	return nil
}

// Вспомогательные методы

func (s *Service) getProvider(ctx context.Context, op string, providerID int64) (*domain.Provider, error) {
	provider, err := s.repo.GetProvider(ctx, providerID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrProviderNotFound) {
			s.logger.Warn("%s: provider id=%d not found", op, providerID)
			return nil, ErrProviderNotFound
		}
		s.logger.Error("%s: failed to get provider id=%d: %v", op, providerID, err)
		return nil, fmt.Errorf("%w: %s - failed to get provider: %v", ErrInternal, op, err)
	}
	return provider, nil
}

// checkOwner проверяет, что пользователь владелец провайдера
func (s *Service) checkOwner(ctx context.Context, op string, providerID, userID int64) error {
	provider, err := s.getProvider(ctx, op, providerID)
	if err != nil {
		return err
	}
	if !provider.IsOwnedBy(userID) {
		s.logger.Warn("%s: user=%d is not the owner of provider=%d", op, userID, providerID)
		return ErrAccessDenied
	}
	return nil
}

// getService возвращает услугу, только если она принадлежит провайдеру
func (s *Service) getService(ctx context.Context, op string, providerID, serviceID int64) (*domain.Service, error) {
	service, err := s.repo.GetService(ctx, serviceID)
	if err != nil && !errors.Is(err, catalogRepo.ErrServiceNotFound) {
		s.logger.Error("%s: failed to get service id=%d: %v", op, serviceID, err)
		return nil, fmt.Errorf("%w: %s - failed to get service: %v", ErrInternal, op, err)
	}
	if err != nil || service.ProviderID != providerID {
		s.logger.Warn("%s: service id=%d not found in provider=%d", op, serviceID, providerID)
		return nil, ErrServiceNotFound
	}
	return service, nil
}

// invalidateSearch сбрасывает кэш поиска после изменения каталога.
// Ошибка кэша не отменяет уже выполненное изменение
func (s *Service) invalidateSearch(ctx context.Context, op string) {
	if s.searchCache == nil {
		return
	}
	if err := s.searchCache.Invalidate(ctx); err != nil {
		s.logger.Warn("%s: failed to invalidate search cache: %v", op, err)
	}
}

func (s *Service) saveService(ctx context.Context, service *domain.Service) error {
	return s.txManager.Do(ctx, func(ctx context.Context) error {
		if err := s.repo.UpdateService(ctx, service); err != nil {
			return err
		}
		return s.repo.RefreshStartingPrice(ctx, service.ProviderID)
	})
}

func validateService(s *domain.Service) error {
	s.Name = strings.TrimSpace(s.Name)
	if s.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if s.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	}
	if s.DurationMinutes <= 0 {
		return fmt.Errorf("%w: durationMinutes must be positive", ErrInvalidInput)
	}
	return nil
}

func validateAddOn(name string, price float64) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: add-on name is required", ErrInvalidInput)
	}
	if price < 0 {
		return fmt.Errorf("%w: add-on price must not be negative", ErrInvalidInput)
	}
	return nil
}
