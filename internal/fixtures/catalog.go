// Package fixtures holds the demo marketplace catalog and a seeded availability generator.
package fixtures

import (
	"github.com/m04kA/SMC-MarketplaceService/internal/domain"
	"github.com/m04kA/SMC-MarketplaceService/pkg/ptr"
)

// DemoOwnerUserID owner of every demo provider
const DemoOwnerUserID int64 = 1000

// Providers returns the demo providers in listing order
func Providers() []domain.Provider {
	return []domain.Provider{
		{
			ID:            1,
			OwnerUserID:   DemoOwnerUserID,
			Name:          "Elite Auto Care",
			BusinessName:  "Elite Auto Care LLC",
			Description:   "Hand wash, interior cleaning and ceramic coating for every car.",
			Category:      "Automotive",
			Location:      "Downtown, Springfield",
			StartingPrice: 75,
			Rating:        4.8,
			ReviewCount:   214,
			Availability:  []string{domain.AvailabilityToday, domain.AvailabilityWeekend},
			IsActive:      true,
		},
		{
			ID:            2,
			OwnerUserID:   DemoOwnerUserID,
			Name:          "FitLife Studio",
			BusinessName:  "FitLife Studio Inc",
			Description:   "Personal training, yoga and group fitness classes.",
			Category:      "Fitness",
			Location:      "Westside, Springfield",
			StartingPrice: 50,
			Rating:        4.6,
			ReviewCount:   132,
			Availability:  []string{domain.AvailabilityToday, domain.AvailabilityEvenings},
			IsActive:      true,
		},
		{
			ID:            3,
			OwnerUserID:   DemoOwnerUserID,
			Name:          "Premium Motors Detailing",
			BusinessName:  "Premium Motors Group",
			Description:   "Showroom-grade detailing and paint correction.",
			Category:      "Automotive",
			Location:      "North Hills, Shelbyville",
			StartingPrice: 150,
			Rating:        4.9,
			ReviewCount:   87,
			Availability:  []string{domain.AvailabilityTomorrow},
			IsActive:      true,
		},
		{
			ID:            4,
			OwnerUserID:   DemoOwnerUserID,
			Name:          "Glow Beauty Salon",
			BusinessName:  "Glow Beauty",
			Description:   "Haircuts, coloring, manicure and facial treatments.",
			Category:      "Beauty",
			Location:      "Downtown, Springfield",
			StartingPrice: 60,
			Rating:        4.7,
			ReviewCount:   301,
			Availability:  []string{domain.AvailabilityWeekend, domain.AvailabilityEvenings},
			IsActive:      true,
		},
		{
			ID:            5,
			OwnerUserID:   DemoOwnerUserID,
			Name:          "Sparkle Home Cleaning",
			BusinessName:  "Sparkle Services",
			Description:   "Deep cleaning for apartments and houses.",
			Category:      "Home Services",
			Location:      "Eastside, Springfield",
			StartingPrice: 90,
			Rating:        4.4,
			ReviewCount:   58,
			Availability:  []string{domain.AvailabilityTomorrow, domain.AvailabilityWeekend},
			IsActive:      true,
		},
		{
			ID:            6,
			OwnerUserID:   DemoOwnerUserID,
			Name:          "Serenity Spa",
			BusinessName:  "Serenity Wellness",
			Description:   "Massage, sauna and aromatherapy sessions.",
			Category:      "Wellness",
			Location:      "Lakeside, Shelbyville",
			StartingPrice: 120,
			Rating:        4.5,
			ReviewCount:   96,
			Availability:  []string{domain.AvailabilityEvenings},
			IsActive:      true,
		},
		{
			ID:            7,
			OwnerUserID:   DemoOwnerUserID,
			Name:          "Quick Lube Express",
			BusinessName:  "Quick Lube",
			Description:   "Oil change while you wait. Temporarily closed.",
			Category:      "Automotive",
			Location:      "Downtown, Springfield",
			StartingPrice: 40,
			Rating:        3.9,
			ReviewCount:   12,
			IsActive:      false,
		},
	}
}

// Services returns the demo services with their add-ons
func Services() []domain.Service {
	return []domain.Service{
		{
			ID: 1, ProviderID: 1, Name: "Full Detail Wash", Category: "Automotive",
			Description: "Exterior hand wash and interior vacuum.", Price: 75, DurationMinutes: 90, IsActive: true,
			AddOns: []domain.AddOn{
				{ID: 1, ServiceID: 1, Name: "Tire Shine", Price: 25},
				{ID: 2, ServiceID: 1, Name: "Engine Bay Cleaning", Price: 40},
			},
		},
		{
			ID: 2, ProviderID: 1, Name: "Ceramic Coating", Category: "Automotive",
			Description: "Long lasting paint protection.", Price: 300, DurationMinutes: 240, IsActive: true,
		},
		{
			ID: 3, ProviderID: 2, Name: "Personal Training Session", Category: "Fitness",
			Description: "One-on-one coaching.", Price: 50, DurationMinutes: 60, IsActive: true,
			AddOns: []domain.AddOn{
				{ID: 3, ServiceID: 3, Name: "Nutrition Plan", Price: 30},
			},
		},
		{
			ID: 4, ProviderID: 3, Name: "Paint Correction", Category: "Automotive",
			Description: "Multi-stage polish.", Price: 150, DurationMinutes: 180, IsActive: true,
			AddOns: []domain.AddOn{
				{ID: 4, ServiceID: 4, Name: "Headlight Restoration", Price: 45},
			},
		},
		{
			ID: 5, ProviderID: 4, Name: "Haircut & Style", Category: "Beauty",
			Description: "Wash, cut and blow dry.", Price: 60, DurationMinutes: 60, IsActive: true,
			AddOns: []domain.AddOn{
				{ID: 5, ServiceID: 5, Name: "Deep Conditioning", Price: 20},
				{ID: 6, ServiceID: 5, Name: "Scalp Massage", Price: 15},
			},
		},
		{
			ID: 6, ProviderID: 5, Name: "Deep Home Cleaning", Category: "Home Services",
			Description: "Up to three rooms.", Price: 90, DurationMinutes: 180, IsActive: true,
		},
		{
			ID: 7, ProviderID: 6, Name: "Aromatherapy Massage", Category: "Wellness",
			Description: "Sixty minutes of relaxation.", Price: 120, DurationMinutes: 60, IsActive: true,
			AddOns: []domain.AddOn{
				{ID: 7, ServiceID: 7, Name: "Hot Stones", Price: 35},
			},
		},
	}
}

// Staff returns the demo staff members
func Staff() []domain.StaffMember {
	return []domain.StaffMember{
		{ID: 1, ProviderID: 1, Name: "Mike Johnson", Role: "Senior Detailer", IsActive: true},
		{ID: 2, ProviderID: 1, Name: "Sara Lee", Role: "Detailer", IsActive: true},
		{ID: 3, ProviderID: 2, Name: "Tom Baker", Role: "Personal Trainer", IsActive: true},
		{ID: 4, ProviderID: 4, Name: "Anna White", Role: "Stylist", IsActive: true},
		{ID: 5, ProviderID: 6, Name: "Lena Gray", Role: "Massage Therapist", IsActive: true},
	}
}

// ScheduleSettings returns provider-wide settings for the demo providers
func ScheduleSettings() []domain.ScheduleSettings {
	settings := make([]domain.ScheduleSettings, 0, 6)
	for _, p := range Providers() {
		if !p.IsActive {
			continue
		}
		s := domain.DefaultScheduleSettings(p.ID)
		s.WorkingDays = []int{1, 2, 3, 4, 5, 6}
		s.AdvanceBookingDays = 60
		if p.Category == "Fitness" {
			s.Capacity = 4
		}
		settings = append(settings, *s)
	}
	// Покраска занимает больше времени, отдельные настройки для услуги
	paint := domain.DefaultScheduleSettings(3)
	paint.ServiceID = ptr.Ptr(int64(4))
	paint.SlotDurationMinutes = 180
	paint.WorkingDays = []int{1, 3, 5}
	settings = append(settings, *paint)
	return settings
}
