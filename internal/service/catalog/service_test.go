package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-MarketplaceService/internal/domain"
	"github.com/m04kA/SMC-MarketplaceService/internal/fixtures"
	catalogRepo "github.com/m04kA/SMC-MarketplaceService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-MarketplaceService/internal/service/catalog/models"
	"github.com/m04kA/SMC-MarketplaceService/pkg/logger"
	"github.com/m04kA/SMC-MarketplaceService/pkg/ptr"
)

// memoryCatalog каталог в памяти поверх демо-данных
type memoryCatalog struct {
	providers map[int64]*domain.Provider
	services  []domain.Service
	staff     []domain.StaffMember
	nextID    int64
}

func newMemoryCatalog() *memoryCatalog {
	c := &memoryCatalog{
		providers: make(map[int64]*domain.Provider),
		services:  fixtures.Services(),
		staff:     fixtures.Staff(),
		nextID:    100,
	}
	for _, p := range fixtures.Providers() {
		p := p
		c.providers[p.ID] = &p
	}
	return c
}

func (c *memoryCatalog) GetProvider(_ context.Context, id int64) (*domain.Provider, error) {
	if p, ok := c.providers[id]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, catalogRepo.ErrProviderNotFound
}

func (c *memoryCatalog) RefreshStartingPrice(_ context.Context, providerID int64) error {
	minPrice := 0.0
	first := true
	for _, s := range c.services {
		if s.ProviderID != providerID || !s.IsActive {
			continue
		}
		if first || s.Price < minPrice {
			minPrice = s.Price
		}
		first = false
	}
	c.providers[providerID].StartingPrice = minPrice
	return nil
}

func (c *memoryCatalog) ListServices(_ context.Context, providerID int64, activeOnly bool) ([]domain.Service, error) {
	result := make([]domain.Service, 0)
	for _, s := range c.services {
		if s.ProviderID == providerID && (!activeOnly || s.IsActive) {
			result = append(result, s)
		}
	}
	return result, nil
}

func (c *memoryCatalog) GetService(_ context.Context, id int64) (*domain.Service, error) {
	for _, s := range c.services {
		if s.ID == id {
			copied := s
			return &copied, nil
		}
	}
	return nil, catalogRepo.ErrServiceNotFound
}

func (c *memoryCatalog) CreateService(_ context.Context, s *domain.Service) (*domain.Service, error) {
	c.nextID++
	s.ID = c.nextID
	for i := range s.AddOns {
		c.nextID++
		s.AddOns[i].ID = c.nextID
		s.AddOns[i].ServiceID = s.ID
	}
	c.services = append(c.services, *s)
	return s, nil
}

func (c *memoryCatalog) UpdateService(_ context.Context, s *domain.Service) error {
	for i := range c.services {
		if c.services[i].ID == s.ID {
			c.services[i] = *s
			return nil
		}
	}
	return catalogRepo.ErrServiceNotFound
}

func (c *memoryCatalog) CreateAddOn(_ context.Context, a *domain.AddOn) (*domain.AddOn, error) {
	c.nextID++
	a.ID = c.nextID
	for i := range c.services {
		if c.services[i].ID == a.ServiceID {
			c.services[i].AddOns = append(c.services[i].AddOns, *a)
		}
	}
	return a, nil
}

func (c *memoryCatalog) DeleteAddOn(_ context.Context, serviceID, addOnID int64) error {
	for i := range c.services {
		if c.services[i].ID != serviceID {
			continue
		}
		for j, a := range c.services[i].AddOns {
			if a.ID == addOnID {
				c.services[i].AddOns = append(c.services[i].AddOns[:j], c.services[i].AddOns[j+1:]...)
				return nil
			}
		}
	}
	return catalogRepo.ErrAddOnNotFound
}

func (c *memoryCatalog) ListStaff(_ context.Context, providerID int64, activeOnly bool) ([]domain.StaffMember, error) {
	result := make([]domain.StaffMember, 0)
	for _, m := range c.staff {
		if m.ProviderID == providerID && (!activeOnly || m.IsActive) {
			result = append(result, m)
		}
	}
	return result, nil
}

func (c *memoryCatalog) GetStaff(_ context.Context, id int64) (*domain.StaffMember, error) {
	for _, m := range c.staff {
		if m.ID == id {
			copied := m
			return &copied, nil
		}
	}
	return nil, catalogRepo.ErrStaffNotFound
}

func (c *memoryCatalog) CreateStaff(_ context.Context, m *domain.StaffMember) (*domain.StaffMember, error) {
	c.nextID++
	m.ID = c.nextID
	c.staff = append(c.staff, *m)
	return m, nil
}

func (c *memoryCatalog) SetStaffActive(_ context.Context, id int64, active bool) error {
	for i := range c.staff {
		if c.staff[i].ID == id {
			c.staff[i].IsActive = active
			return nil
		}
	}
	return catalogRepo.ErrStaffNotFound
}

type passThroughTx struct{}

func (passThroughTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

const owner = fixtures.DemoOwnerUserID

func newService() (*Service, *memoryCatalog) {
	repo := newMemoryCatalog()
	return NewService(repo, passThroughTx{}, nil, logger.NewNop()), repo
}

type countingCache struct {
	calls int
	err   error
}

func (c *countingCache) Invalidate(_ context.Context) error {
	c.calls++
	return c.err
}

func TestService_GetProfile(t *testing.T) {
	svc, _ := newService()

	profile, err := svc.GetProfile(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, "Elite Auto Care", profile.Provider.Name)
	require.Len(t, profile.Services, 2)
	assert.Equal(t, "Full Detail Wash", profile.Services[0].Name)
	assert.Len(t, profile.Services[0].AddOns, 2)
	assert.Empty(t, profile.Services[1].AddOns)
	assert.Len(t, profile.Staff, 2)

	_, err = svc.GetProfile(context.Background(), 7)
	assert.ErrorIs(t, err, ErrProviderNotFound)

	_, err = svc.GetProfile(context.Background(), 404)
	assert.ErrorIs(t, err, ErrProviderNotFound)
}

func TestService_CreateService_RefreshesStartingPrice(t *testing.T) {
	svc, repo := newService()
	ctx := context.Background()

	created, err := svc.CreateService(ctx, owner, 1, &models.CreateServiceRequest{
		Name:            " Express Wash ",
		Category:        "Automotive",
		Price:           35,
		DurationMinutes: 30,
		AddOns:          []models.AddOnRequest{{Name: "Air Freshener", Price: 5}},
	})
	require.NoError(t, err)

	assert.Equal(t, "Express Wash", created.Name)
	assert.True(t, created.IsActive)
	require.Len(t, created.AddOns, 1)
	assert.Equal(t, 35.0, repo.providers[1].StartingPrice)

	profile, err := svc.GetProfile(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, profile.Services, 3)
}

func TestService_CreateService_Rejections(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	valid := models.CreateServiceRequest{Name: "Wash", Price: 10, DurationMinutes: 30}

	tests := []struct {
		name    string
		userID  int64
		mutate  func(r *models.CreateServiceRequest)
		wantErr error
	}{
		{name: "not owner", userID: 7, mutate: func(r *models.CreateServiceRequest) {}, wantErr: ErrAccessDenied},
		{name: "blank name", userID: owner, mutate: func(r *models.CreateServiceRequest) { r.Name = "  " }, wantErr: ErrInvalidInput},
		{name: "negative price", userID: owner, mutate: func(r *models.CreateServiceRequest) { r.Price = -1 }, wantErr: ErrInvalidInput},
		{name: "zero duration", userID: owner, mutate: func(r *models.CreateServiceRequest) { r.DurationMinutes = 0 }, wantErr: ErrInvalidInput},
		{
			name:    "unnamed add-on",
			userID:  owner,
			mutate:  func(r *models.CreateServiceRequest) { r.AddOns = []models.AddOnRequest{{Price: 5}} },
			wantErr: ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			_, err := svc.CreateService(ctx, tt.userID, 1, &req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestService_UpdateAndDeactivateService(t *testing.T) {
	svc, repo := newService()
	ctx := context.Background()

	updated, err := svc.UpdateService(ctx, owner, 1, 1, &models.UpdateServiceRequest{Price: ptr.Ptr(65.0)})
	require.NoError(t, err)
	assert.Equal(t, 65.0, updated.Price)
	assert.Equal(t, "Full Detail Wash", updated.Name)
	assert.Equal(t, 65.0, repo.providers[1].StartingPrice)

	// Услуга другого провайдера недоступна
	_, err = svc.UpdateService(ctx, owner, 1, 3, &models.UpdateServiceRequest{Price: ptr.Ptr(1.0)})
	assert.ErrorIs(t, err, ErrServiceNotFound)

	require.NoError(t, svc.DeactivateService(ctx, owner, 1, 1))
	assert.Equal(t, 300.0, repo.providers[1].StartingPrice)

	profile, err := svc.GetProfile(ctx, 1)
	require.NoError(t, err)
	require.Len(t, profile.Services, 1)
	assert.Equal(t, "Ceramic Coating", profile.Services[0].Name)
}

func TestService_AddOns(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	addOn, err := svc.AddAddOn(ctx, owner, 1, 2, &models.AddOnRequest{Name: "Wax", Price: 15})
	require.NoError(t, err)
	assert.Equal(t, "Wax", addOn.Name)

	require.NoError(t, svc.RemoveAddOn(ctx, owner, 1, 2, addOn.ID))
	assert.ErrorIs(t, svc.RemoveAddOn(ctx, owner, 1, 2, addOn.ID), ErrAddOnNotFound)

	_, err = svc.AddAddOn(ctx, owner, 1, 2, &models.AddOnRequest{Name: "Wax", Price: -3})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_Staff(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	member, err := svc.AddStaff(ctx, owner, 1, &models.CreateStaffRequest{Name: "Chris Doe", Role: "Detailer"})
	require.NoError(t, err)
	assert.True(t, member.IsActive)

	require.NoError(t, svc.DeactivateStaff(ctx, owner, 1, 1))

	profile, err := svc.GetProfile(ctx, 1)
	require.NoError(t, err)
	names := make([]string, 0, len(profile.Staff))
	for _, m := range profile.Staff {
		names = append(names, m.Name)
	}
	assert.Equal(t, []string{"Sara Lee", "Chris Doe"}, names)

	// Сотрудник другого провайдера
	assert.ErrorIs(t, svc.DeactivateStaff(ctx, owner, 1, 3), ErrStaffNotFound)

	_, err = svc.AddStaff(ctx, owner, 1, &models.CreateStaffRequest{Name: " "})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_WritesInvalidateSearchCache(t *testing.T) {
	repo := newMemoryCatalog()
	cache := &countingCache{}
	svc := NewService(repo, passThroughTx{}, cache, logger.NewNop())
	ctx := context.Background()

	_, err := svc.UpdateService(ctx, owner, 1, 1, &models.UpdateServiceRequest{Price: ptr.Ptr(65.0)})
	require.NoError(t, err)
	assert.Equal(t, 1, cache.calls)

	addOn, err := svc.AddAddOn(ctx, owner, 1, 2, &models.AddOnRequest{Name: "Wax", Price: 15})
	require.NoError(t, err)
	require.NoError(t, svc.RemoveAddOn(ctx, owner, 1, 2, addOn.ID))
	require.NoError(t, svc.DeactivateService(ctx, owner, 1, 2))
	assert.Equal(t, 4, cache.calls)

	// Отклоненное изменение кэш не трогает
	_, err = svc.UpdateService(ctx, 7, 1, 1, &models.UpdateServiceRequest{Price: ptr.Ptr(1.0)})
	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Equal(t, 4, cache.calls)

	// Ошибка кэша не отменяет изменение каталога
	cache.err = errors.New("redis: connection refused")
	_, err = svc.CreateService(ctx, owner, 1, &models.CreateServiceRequest{Name: "Express Wash", Price: 35, DurationMinutes: 30})
	require.NoError(t, err)
	assert.Equal(t, 5, cache.calls)
}
