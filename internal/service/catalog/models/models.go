package models

import (
	"github.com/m04kA/SMC-MarketplaceService/internal/domain"
)

// Request модели

// AddOnRequest дополнение при создании услуги или отдельно
type AddOnRequest struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// CreateServiceRequest запрос на создание услуги
type CreateServiceRequest struct {
	Name            string         `json:"name"`
	Description     string         `json:"description"`
	Category        string         `json:"category"`
	Price           float64        `json:"price"`
	DurationMinutes int            `json:"durationMinutes"`
	AddOns          []AddOnRequest `json:"addOns,omitempty"`
}

// ToDomain конвертирует request в domain модель
func (r *CreateServiceRequest) ToDomain(providerID int64) *domain.Service {
	s := &domain.Service{
		ProviderID:      providerID,
		Name:            r.Name,
		Description:     r.Description,
		Category:        r.Category,
		Price:           r.Price,
		DurationMinutes: r.DurationMinutes,
		IsActive:        true,
		AddOns:          make([]domain.AddOn, 0, len(r.AddOns)),
	}
	for _, a := range r.AddOns {
		s.AddOns = append(s.AddOns, domain.AddOn{Name: a.Name, Price: a.Price})
	}
	return s
}

// UpdateServiceRequest частичное обновление услуги, nil поля не меняются
type UpdateServiceRequest struct {
	Name            *string  `json:"name,omitempty"`
	Description     *string  `json:"description,omitempty"`
	Category        *string  `json:"category,omitempty"`
	Price           *float64 `json:"price,omitempty"`
	DurationMinutes *int     `json:"durationMinutes,omitempty"`
	IsActive        *bool    `json:"isActive,omitempty"`
}

// ApplyTo переносит заданные поля в услугу
func (r *UpdateServiceRequest) ApplyTo(s *domain.Service) {
	if r.Name != nil {
		s.Name = *r.Name
	}
	if r.Description != nil {
		s.Description = *r.Description
	}
	if r.Category != nil {
		s.Category = *r.Category
	}
	if r.Price != nil {
		s.Price = *r.Price
	}
	if r.DurationMinutes != nil {
		s.DurationMinutes = *r.DurationMinutes
	}
	if r.IsActive != nil {
		s.IsActive = *r.IsActive
	}
}

// CreateStaffRequest запрос на добавление сотрудника
type CreateStaffRequest struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

// Response модели

// ProviderResponse карточка провайдера
type ProviderResponse struct {
	ID            int64    `json:"id"`
	Name          string   `json:"name"`
	BusinessName  string   `json:"businessName"`
	Description   string   `json:"description"`
	Category      string   `json:"category"`
	Location      string   `json:"location"`
	StartingPrice float64  `json:"startingPrice"`
	Rating        float64  `json:"rating"`
	ReviewCount   int      `json:"reviewCount"`
	Availability  []string `json:"availability"`
}

// AddOnResponse дополнение услуги
type AddOnResponse struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// ServiceResponse услуга провайдера
type ServiceResponse struct {
	ID              int64           `json:"id"`
	ProviderID      int64           `json:"providerId"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	Category        string          `json:"category"`
	Price           float64         `json:"price"`
	DurationMinutes int             `json:"durationMinutes"`
	IsActive        bool            `json:"isActive"`
	AddOns          []AddOnResponse `json:"addOns"`
}

// StaffResponse сотрудник провайдера
type StaffResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	IsActive bool   `json:"isActive"`
}

// ProfileResponse профиль провайдера с услугами и сотрудниками
type ProfileResponse struct {
	Provider ProviderResponse  `json:"provider"`
	Services []ServiceResponse `json:"services"`
	Staff    []StaffResponse   `json:"staff"`
}

// Методы конвертации

// FromDomainProvider конвертирует domain модель в DTO
func FromDomainProvider(p *domain.Provider) ProviderResponse {
	availability := p.Availability
	if availability == nil {
		availability = []string{}
	}
	return ProviderResponse{
		ID:            p.ID,
		Name:          p.Name,
		BusinessName:  p.BusinessName,
		Description:   p.Description,
		Category:      p.Category,
		Location:      p.Location,
		StartingPrice: p.StartingPrice,
		Rating:        p.Rating,
		ReviewCount:   p.ReviewCount,
		Availability:  availability,
	}
}

// FromDomainService конвертирует domain модель в DTO
func FromDomainService(s *domain.Service) ServiceResponse {
	resp := ServiceResponse{
		ID:              s.ID,
		ProviderID:      s.ProviderID,
		Name:            s.Name,
		Description:     s.Description,
		Category:        s.Category,
		Price:           s.Price,
		DurationMinutes: s.DurationMinutes,
		IsActive:        s.IsActive,
		AddOns:          make([]AddOnResponse, 0, len(s.AddOns)),
	}
	for _, a := range s.AddOns {
		resp.AddOns = append(resp.AddOns, FromDomainAddOn(&a))
	}
	return resp
}

// FromDomainAddOn конвертирует domain модель в DTO
func FromDomainAddOn(a *domain.AddOn) AddOnResponse {
	return AddOnResponse{ID: a.ID, Name: a.Name, Price: a.Price}
}

// FromDomainStaff конвертирует domain модель в DTO
func FromDomainStaff(m *domain.StaffMember) StaffResponse {
	return StaffResponse{ID: m.ID, Name: m.Name, Role: m.Role, IsActive: m.IsActive}
}
