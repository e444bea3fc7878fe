package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/m04kA/SMC-MarketplaceService/internal/domain"
	"github.com/m04kA/SMC-MarketplaceService/internal/fixtures"
	catalogRepo "github.com/m04kA/SMC-MarketplaceService/internal/infra/storage/catalog"
	scheduleRepo "github.com/m04kA/SMC-MarketplaceService/internal/infra/storage/schedule"
	timeslotRepo "github.com/m04kA/SMC-MarketplaceService/internal/infra/storage/timeslot"
	"github.com/m04kA/SMC-MarketplaceService/pkg/dbmetrics"
	"github.com/m04kA/SMC-MarketplaceService/pkg/txmanager"
)

func seedCmd() *cobra.Command {
	var (
		seed int64
		days int
		from string
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the demo catalog and generate time slots",
		RunE: func(cmd *cobra.Command, args []string) error {
			start := time.Now().UTC()
			if from != "" {
				parsed, err := time.Parse(domain.DateFormat, from)
				if err != nil {
					return fmt.Errorf("invalid --from %q, expected YYYY-MM-DD: %w", from, err)
				}
				start = parsed
			}
			if days <= 0 {
				return fmt.Errorf("--days must be positive, got %d", days)
			}

			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			s := &seeder{db: dbmetrics.Wrap(db, nil)}
			return s.run(cmd.Context(), fixtures.NewSeededGenerator(seed), start, days)
		},
	}

	cmd.Flags().Int64Var(&seed, "seed", fixtures.DefaultSeed, "random seed for slot occupancy")
	cmd.Flags().IntVar(&days, "days", 14, "number of days to generate slots for")
	cmd.Flags().StringVar(&from, "from", "", "first slot date (YYYY-MM-DD), defaults to today")
	return cmd
}

type seeder struct {
	db *dbmetrics.DB
}

func (s *seeder) run(ctx context.Context, gen *fixtures.Generator, from time.Time, days int) error {
	catalog := catalogRepo.NewRepository(s.db)
	settingsRepo := scheduleRepo.NewRepository(s.db)
	slots := timeslotRepo.NewRepository(s.db)

	existing, err := catalog.ListProviders(ctx, false)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		log.Warn("Seed skipped: catalog already has %d providers", len(existing))
		return nil
	}

	return txmanager.NewTransactionManager(s.db).Do(ctx, func(ctx context.Context) error {
		// База выдает свои идентификаторы, ссылки фикстур переводятся на них
		providerIDs := make(map[int64]int64)
		for _, p := range fixtures.Providers() {
			fixtureID := p.ID
			created, err := catalog.CreateProvider(ctx, &p)
			if err != nil {
				return err
			}
			providerIDs[fixtureID] = created.ID
		}

		serviceIDs := make(map[int64]int64)
		for _, svc := range fixtures.Services() {
			fixtureID := svc.ID
			svc.ProviderID = providerIDs[svc.ProviderID]
			created, err := catalog.CreateService(ctx, &svc)
			if err != nil {
				return err
			}
			serviceIDs[fixtureID] = created.ID
		}

		for _, m := range fixtures.Staff() {
			m.ProviderID = providerIDs[m.ProviderID]
			if _, err := catalog.CreateStaff(ctx, &m); err != nil {
				return err
			}
		}

		total := 0
		for _, settings := range fixtures.ScheduleSettings() {
			settings.ProviderID = providerIDs[settings.ProviderID]
			if settings.ServiceID != nil {
				mapped := serviceIDs[*settings.ServiceID]
				settings.ServiceID = &mapped
			}
			if _, err := settingsRepo.Upsert(ctx, &settings); err != nil {
				return err
			}

			generated, err := gen.TimeSlots(settings, from, days)
			if err != nil {
				return err
			}
			n, err := slots.CreateBatch(ctx, generated)
			if err != nil {
				return err
			}
			total += n
		}

		for _, id := range providerIDs {
			if err := catalog.RefreshStartingPrice(ctx, id); err != nil {
				return err
			}
		}

		log.Info("Seed completed: providers=%d, services=%d, slots=%d (seed from %s, %d days)",
			len(providerIDs), len(serviceIDs), total, from.Format(domain.DateFormat), days)
		return nil
	})
}
