package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/m04kA/SMC-MarketplaceService/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/m04kA/SMC-MarketplaceService/internal/api/handlers/create_booking"
	availableSlotsHandler "github.com/m04kA/SMC-MarketplaceService/internal/api/handlers/get_available_slots"
	"github.com/m04kA/SMC-MarketplaceService/internal/api/handlers/get_booking"
	"github.com/m04kA/SMC-MarketplaceService/internal/api/handlers/get_provider_bookings"
	"github.com/m04kA/SMC-MarketplaceService/internal/api/handlers/get_provider_profile"
	"github.com/m04kA/SMC-MarketplaceService/internal/api/handlers/get_user_bookings"
	"github.com/m04kA/SMC-MarketplaceService/internal/api/handlers/manage_catalog"
	"github.com/m04kA/SMC-MarketplaceService/internal/api/handlers/manage_schedule"
	"github.com/m04kA/SMC-MarketplaceService/internal/api/handlers/quote_price"
	searchProvidersHandler "github.com/m04kA/SMC-MarketplaceService/internal/api/handlers/search_providers"
	"github.com/m04kA/SMC-MarketplaceService/internal/api/handlers/update_booking_status"
	"github.com/m04kA/SMC-MarketplaceService/internal/api/handlers/wizard_sessions"
	"github.com/m04kA/SMC-MarketplaceService/internal/api/middleware"
	bookingRepo "github.com/m04kA/SMC-MarketplaceService/internal/infra/storage/booking"
	catalogRepo "github.com/m04kA/SMC-MarketplaceService/internal/infra/storage/catalog"
	scheduleRepo "github.com/m04kA/SMC-MarketplaceService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-MarketplaceService/internal/infra/storage/searchcache"
	"github.com/m04kA/SMC-MarketplaceService/internal/infra/storage/session"
	timeslotRepo "github.com/m04kA/SMC-MarketplaceService/internal/infra/storage/timeslot"
	"github.com/m04kA/SMC-MarketplaceService/internal/integrations/notifier"
	bookingsService "github.com/m04kA/SMC-MarketplaceService/internal/service/bookings"
	catalogService "github.com/m04kA/SMC-MarketplaceService/internal/service/catalog"
	"github.com/m04kA/SMC-MarketplaceService/internal/service/pricing"
	scheduleService "github.com/m04kA/SMC-MarketplaceService/internal/service/schedule"
	wizardService "github.com/m04kA/SMC-MarketplaceService/internal/service/wizard"
	createBookingUC "github.com/m04kA/SMC-MarketplaceService/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/m04kA/SMC-MarketplaceService/internal/usecase/get_available_slots"
	searchProvidersUC "github.com/m04kA/SMC-MarketplaceService/internal/usecase/search_providers"
	"github.com/m04kA/SMC-MarketplaceService/pkg/dbmetrics"
	"github.com/m04kA/SMC-MarketplaceService/pkg/metrics"
	"github.com/m04kA/SMC-MarketplaceService/pkg/txmanager"
)

// businessMetrics счетчики предметной области; реализуются *metrics.Metrics и metrics.Noop
type businessMetrics interface {
	RecordBookingCreated(providerID int64)
	RecordWizardTransition(action, step, result string)
	RecordSearch(cacheHit bool)
}

type bookingNotifier interface {
	NotifyWithGracefulDegradation(ctx context.Context, event notifier.BookingEvent) error
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}
}

func serve() error {
	db, err := openDB()
	if err != nil {
		log.Error("Database is unavailable: %v", err)
		return err
	}
	defer db.Close()

	// Инициализируем метрики (если включены)
	var m *metrics.Metrics
	var domainMetrics businessMetrics = metrics.Noop{}
	var wrappedDB *dbmetrics.DB
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		m = metrics.New(cfg.Metrics.ServiceName)
		domainMetrics = m
		wrappedDB = dbmetrics.WrapWithDefault(db, m, cfg.Database.DBName, stopMetricsCh)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	} else {
		wrappedDB = dbmetrics.Wrap(db, nil)
	}

	txManager := txmanager.NewTransactionManager(wrappedDB)

	// Репозитории
	catalogRepository := catalogRepo.NewRepository(wrappedDB)
	bookingRepository := bookingRepo.NewRepository(wrappedDB)
	slotRepository := timeslotRepo.NewRepository(wrappedDB)
	scheduleRepository := scheduleRepo.NewRepository(wrappedDB)

	// Redis: кэш поиска и сессии мастера. Без Redis сессии живут в памяти процесса
	sessionTTL := time.Duration(cfg.Wizard.SessionTTLMinutes) * time.Minute
	var (
		sessionStore wizardService.SessionStore = session.NewMemoryStore(sessionTTL)
		searchCache  searchProvidersUC.ResultCache
		catalogCache catalogService.SearchCacheInvalidator
		redisClient  *redis.Client
	)
	if cfg.Redis.Enabled {
		redisClient, err = connectRedis()
		if err != nil {
			log.Warn("Redis is unavailable, falling back to in-memory sessions without search cache: %v", err)
		} else {
			sessionStore = session.NewRedisStore(redisClient, sessionTTL)
			cache := searchcache.NewCache(redisClient, time.Duration(cfg.Search.CacheTTLSeconds)*time.Second)
			searchCache = cache
			catalogCache = cache
			defer redisClient.Close()
		}
	}

	// Уведомления о бронированиях
	var bookingEvents bookingNotifier = notifier.Noop{}
	if cfg.Notifications.Enabled {
		bookingEvents = notifier.NewClient(cfg.Notifications.URL, time.Duration(cfg.Notifications.Timeout)*time.Second, log)
		log.Info("Booking notifications enabled: %s", cfg.Notifications.URL)
	}

	// Сервисы и use cases
	calculator := pricing.NewCalculator(
		pricing.NewFlatRatePolicy(cfg.Pricing.PromoDiscountRate, cfg.Pricing.PromoCodes),
		catalogRepository,
		log,
	)
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		catalogRepository,
		slotRepository,
		scheduleRepository,
		calculator,
		bookingEvents,
		domainMetrics,
		txManager,
		log,
	)
	availableSlotsUseCase := getAvailableSlotsUC.NewUseCase(slotRepository, scheduleRepository, catalogRepository, log)
	searchUseCase := searchProvidersUC.NewUseCase(
		catalogRepository,
		searchCache,
		domainMetrics,
		log,
		cfg.Search.DefaultPageSize,
		cfg.Search.MaxPageSize,
	)

	bookingSvc := bookingsService.NewService(bookingRepository, slotRepository, catalogRepository, bookingEvents, txManager, log)
	catalogSvc := catalogService.NewService(catalogRepository, txManager, catalogCache, log)
	scheduleSvc := scheduleService.NewService(scheduleRepository, slotRepository, catalogRepository, log)
	wizardSvc := wizardService.NewService(
		sessionStore,
		catalogRepository,
		slotRepository,
		calculator,
		createBookingUseCase,
		domainMetrics,
		log,
	)

	// Хендлеры
	searchHandler := searchProvidersHandler.NewHandler(searchUseCase, log)
	profileHandler := get_provider_profile.NewHandler(catalogSvc, log)
	quoteHandler := quote_price.NewHandler(calculator, log)
	slotsHandler := availableSlotsHandler.NewHandler(availableSlotsUseCase, log)
	wizardHandler := wizard_sessions.NewHandler(wizardSvc, log)
	bookingCreateHandler := createBookingHandler.NewHandler(createBookingUseCase, log)
	getBookingHandler := get_booking.NewHandler(bookingSvc, log)
	cancelBookingHandler := cancel_booking.NewHandler(bookingSvc, log)
	updateStatusHandler := update_booking_status.NewHandler(bookingSvc, log)
	userBookingsHandler := get_user_bookings.NewHandler(bookingSvc, log)
	providerBookingsHandler := get_provider_bookings.NewHandler(bookingSvc, log)
	catalogHandler := manage_catalog.NewHandler(catalogSvc, log)
	scheduleHandler := manage_schedule.NewHandler(scheduleSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(m, cfg.Metrics.ServiceName))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
	}

	// Публичные маршруты ограничиваются по IP
	public := func(h http.HandlerFunc) http.Handler { return h }
	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst, log)
		public = func(h http.HandlerFunc) http.Handler { return limiter.Middleware(h) }
		log.Info("Rate limit enabled: %d req/min, burst %d", cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// Public endpoints
	api.Handle("/providers", public(searchHandler.Handle)).Methods(http.MethodGet)
	api.Handle("/providers/{providerId:[0-9]+}", public(profileHandler.Handle)).Methods(http.MethodGet)
	api.Handle("/providers/{providerId:[0-9]+}/services/{serviceId:[0-9]+}/available-slots", public(slotsHandler.Handle)).Methods(http.MethodGet)
	api.Handle("/pricing/quote", public(quoteHandler.Handle)).Methods(http.MethodPost)

	// Protected endpoints (требуют X-User-ID)
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// Мастер бронирования
	protected.HandleFunc("/wizard/sessions", wizardHandler.Start).Methods(http.MethodPost)
	protected.HandleFunc("/wizard/sessions/{sessionId}", wizardHandler.Get).Methods(http.MethodGet)
	protected.HandleFunc("/wizard/sessions/{sessionId}", wizardHandler.Cancel).Methods(http.MethodDelete)
	protected.HandleFunc("/wizard/sessions/{sessionId}/steps/{stepId}", wizardHandler.ApplyStep).Methods(http.MethodPut)
	protected.HandleFunc("/wizard/sessions/{sessionId}/next", wizardHandler.Next).Methods(http.MethodPost)
	protected.HandleFunc("/wizard/sessions/{sessionId}/previous", wizardHandler.Previous).Methods(http.MethodPost)
	protected.HandleFunc("/wizard/sessions/{sessionId}/goto/{index:[0-9]+}", wizardHandler.GoTo).Methods(http.MethodPost)
	protected.HandleFunc("/wizard/sessions/{sessionId}/submit", wizardHandler.Submit).Methods(http.MethodPost)

	// Бронирования
	protected.HandleFunc("/bookings", bookingCreateHandler.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{booking}", getBookingHandler.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId:[0-9]+}/cancel", cancelBookingHandler.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId:[0-9]+}/status", updateStatusHandler.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/users/{userId:[0-9]+}/bookings", userBookingsHandler.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/providers/{providerId:[0-9]+}/bookings", providerBookingsHandler.Handle).Methods(http.MethodGet)

	// Каталог провайдера
	protected.HandleFunc("/providers/{providerId:[0-9]+}/services", catalogHandler.CreateService).Methods(http.MethodPost)
	protected.HandleFunc("/providers/{providerId:[0-9]+}/services/{serviceId:[0-9]+}", catalogHandler.UpdateService).Methods(http.MethodPatch)
	protected.HandleFunc("/providers/{providerId:[0-9]+}/services/{serviceId:[0-9]+}", catalogHandler.DeactivateService).Methods(http.MethodDelete)
	protected.HandleFunc("/providers/{providerId:[0-9]+}/services/{serviceId:[0-9]+}/add-ons", catalogHandler.AddAddOn).Methods(http.MethodPost)
	protected.HandleFunc("/providers/{providerId:[0-9]+}/services/{serviceId:[0-9]+}/add-ons/{addOnId:[0-9]+}", catalogHandler.RemoveAddOn).Methods(http.MethodDelete)
	protected.HandleFunc("/providers/{providerId:[0-9]+}/staff", catalogHandler.AddStaff).Methods(http.MethodPost)
	protected.HandleFunc("/providers/{providerId:[0-9]+}/staff/{staffId:[0-9]+}", catalogHandler.DeactivateStaff).Methods(http.MethodDelete)

	// Расписание провайдера
	protected.HandleFunc("/providers/{providerId:[0-9]+}/schedule-settings", scheduleHandler.GetSettings).Methods(http.MethodGet)
	protected.HandleFunc("/providers/{providerId:[0-9]+}/schedule-settings", scheduleHandler.UpdateSettings).Methods(http.MethodPut)
	protected.HandleFunc("/providers/{providerId:[0-9]+}/schedule-settings", scheduleHandler.DeleteSettings).Methods(http.MethodDelete)
	protected.HandleFunc("/providers/{providerId:[0-9]+}/time-slots", scheduleHandler.ListSlots).Methods(http.MethodGet)
	protected.HandleFunc("/providers/{providerId:[0-9]+}/time-slots", scheduleHandler.CreateSlot).Methods(http.MethodPost)
	protected.HandleFunc("/providers/{providerId:[0-9]+}/time-slots/generate", scheduleHandler.GenerateSlots).Methods(http.MethodPost)
	protected.HandleFunc("/providers/{providerId:[0-9]+}/time-slots/{slotId:[0-9]+}", scheduleHandler.DeleteSlot).Methods(http.MethodDelete)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server on port %d", cfg.Server.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		close(stopMetricsCh)
		log.Error("Server failed: %v", err)
		return err
	case sig := <-quit:
		log.Info("Received signal %s, shutting down server...", sig)
	}

	close(stopMetricsCh)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
		return err
	}

	log.Info("Server exited gracefully")
	return nil
}

func connectRedis() (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping %s: %w", cfg.Redis.Addr, err)
	}

	log.Info("Connected to Redis at %s", cfg.Redis.Addr)
	return client, nil
}
