package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	bookingRulesHandler "github.com/m04kA/SMC-ResourceBookingService/internal/api/handlers/booking_rules"
	bookingsHandler "github.com/m04kA/SMC-ResourceBookingService/internal/api/handlers/bookings"
	completeCheckoutHandler "github.com/m04kA/SMC-ResourceBookingService/internal/api/handlers/complete_checkout"
	getAvailabilityHandler "github.com/m04kA/SMC-ResourceBookingService/internal/api/handlers/get_availability"
	holdsHandler "github.com/m04kA/SMC-ResourceBookingService/internal/api/handlers/holds"
	resourcesHandler "github.com/m04kA/SMC-ResourceBookingService/internal/api/handlers/resources"
	"github.com/m04kA/SMC-ResourceBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-ResourceBookingService/internal/config"
	"github.com/m04kA/SMC-ResourceBookingService/internal/infra/locks"
	allocationRepo "github.com/m04kA/SMC-ResourceBookingService/internal/infra/storage/allocation"
	availabilityRuleRepo "github.com/m04kA/SMC-ResourceBookingService/internal/infra/storage/availabilityrule"
	bookingRepo "github.com/m04kA/SMC-ResourceBookingService/internal/infra/storage/booking"
	bookingRuleRepo "github.com/m04kA/SMC-ResourceBookingService/internal/infra/storage/bookingrule"
	resourceRepo "github.com/m04kA/SMC-ResourceBookingService/internal/infra/storage/resource"
	allocationsService "github.com/m04kA/SMC-ResourceBookingService/internal/service/allocations"
	bookingsService "github.com/m04kA/SMC-ResourceBookingService/internal/service/bookings"
	resourcesService "github.com/m04kA/SMC-ResourceBookingService/internal/service/resources"
	rulesService "github.com/m04kA/SMC-ResourceBookingService/internal/service/rules"
	"github.com/m04kA/SMC-ResourceBookingService/internal/service/sweeper"
	completeCheckoutUC "github.com/m04kA/SMC-ResourceBookingService/internal/usecase/complete_checkout"
	createHoldUC "github.com/m04kA/SMC-ResourceBookingService/internal/usecase/create_hold"
	getAvailabilityUC "github.com/m04kA/SMC-ResourceBookingService/internal/usecase/get_availability"
	"github.com/m04kA/SMC-ResourceBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ResourceBookingService/pkg/logger"
	"github.com/m04kA/SMC-ResourceBookingService/pkg/metrics"
	"github.com/m04kA/SMC-ResourceBookingService/pkg/simpletxmanager"
	"github.com/m04kA/SMC-ResourceBookingService/pkg/txmanager"
)

// noopMetrics подменяет сборщик метрик, когда метрики выключены в конфиге
type noopMetrics struct{}

func (noopMetrics) ObserveLockTimeout()                            {}
func (noopMetrics) ObserveSweepRun(expired, failed int, err error) {}

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-ResourceBookingService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Инициализируем репозитории и transaction manager (с метриками или без)
	var (
		resourceRepository         *resourceRepo.Repository
		availabilityRuleRepository *availabilityRuleRepo.Repository
		allocationRepository       *allocationRepo.Repository
		bookingRepository          *bookingRepo.Repository
		bookingRuleRepository      *bookingRuleRepo.Repository
		lockProvider               *locks.Provider
	)

	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		resourceRepository = resourceRepo.NewRepository(wrappedDB)
		availabilityRuleRepository = availabilityRuleRepo.NewRepository(wrappedDB)
		allocationRepository = allocationRepo.NewRepository(wrappedDB)
		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		bookingRuleRepository = bookingRuleRepo.NewRepository(wrappedDB)
		lockProvider = locks.NewProvider(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		resourceRepository = resourceRepo.NewRepository(db)
		availabilityRuleRepository = availabilityRuleRepo.NewRepository(db)
		allocationRepository = allocationRepo.NewRepository(db)
		bookingRepository = bookingRepo.NewRepository(db)
		bookingRuleRepository = bookingRuleRepo.NewRepository(db)
		lockProvider = locks.NewProvider(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	var lockMetrics createHoldUC.MetricsObserver = noopMetrics{}
	var sweepMetrics sweeper.MetricsObserver = noopMetrics{}
	if cfg.Metrics.Enabled {
		lockMetrics = metricsCollector
		sweepMetrics = metricsCollector
	}

	// Инициализируем сервисы
	resourcesSvc := resourcesService.NewService(resourceRepository, availabilityRuleRepository, log)
	rulesSvc := rulesService.NewService(bookingRuleRepository, log)
	bookingsSvc := bookingsService.NewService(bookingRepository, allocationRepository, txMgr, log)
	allocationsSvc := allocationsService.NewService(allocationRepository, log)

	// Инициализируем use cases
	getAvailabilityUseCase := getAvailabilityUC.NewUseCase(
		resourceRepository,
		availabilityRuleRepository,
		allocationRepository,
		log,
	)
	createHoldUseCase := createHoldUC.NewUseCase(
		resourceRepository,
		availabilityRuleRepository,
		allocationRepository,
		rulesSvc,
		lockProvider,
		txMgr,
		lockMetrics,
		log,
	)
	completeCheckoutUseCase := completeCheckoutUC.NewUseCase(
		allocationRepository,
		bookingRepository,
		rulesSvc,
		lockProvider,
		txMgr,
		lockMetrics,
		log,
	)

	// Инициализируем handlers
	getAvailability := getAvailabilityHandler.NewHandler(getAvailabilityUseCase, log)
	holds := holdsHandler.NewHandler(createHoldUseCase, allocationsSvc, log)
	completeCheckout := completeCheckoutHandler.NewHandler(completeCheckoutUseCase, log)
	bookings := bookingsHandler.NewHandler(bookingsSvc, log)
	resources := resourcesHandler.NewHandler(resourcesSvc, log)
	bookingRules := bookingRulesHandler.NewHandler(rulesSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Календарь доступности ресурса
	api.HandleFunc("/resources/{resourceId}/availability",
		getAvailability.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Ресурсы ---
	protected.HandleFunc("/resources", resources.Create).Methods(http.MethodPost)
	protected.HandleFunc("/resources", resources.List).Methods(http.MethodGet)
	protected.HandleFunc("/resources/{resourceId}", resources.Get).Methods(http.MethodGet)
	protected.HandleFunc("/resources/{resourceId}", resources.Update).Methods(http.MethodPut)
	protected.HandleFunc("/resources/{resourceId}", resources.Delete).Methods(http.MethodDelete)

	// --- Правила доступности ресурса ---
	protected.HandleFunc("/resources/{resourceId}/rules", resources.CreateRule).Methods(http.MethodPost)
	protected.HandleFunc("/resources/{resourceId}/rules", resources.ListRules).Methods(http.MethodGet)
	protected.HandleFunc("/resources/{resourceId}/rules/{ruleId}", resources.UpdateRule).Methods(http.MethodPut)
	protected.HandleFunc("/resources/{resourceId}/rules/{ruleId}", resources.DeleteRule).Methods(http.MethodDelete)

	// --- Конфигурации ценообразования ---
	protected.HandleFunc("/resources/{resourceId}/pricing-configs", resources.CreatePricingConfig).Methods(http.MethodPost)
	protected.HandleFunc("/resources/{resourceId}/pricing-configs", resources.ListPricingConfigs).Methods(http.MethodGet)
	protected.HandleFunc("/resources/{resourceId}/pricing-configs/{configId}", resources.DeletePricingConfig).Methods(http.MethodDelete)

	// --- Правила бронирования ---
	protected.HandleFunc("/booking-rules", bookingRules.Create).Methods(http.MethodPost)
	protected.HandleFunc("/booking-rules", bookingRules.List).Methods(http.MethodGet)
	protected.HandleFunc("/booking-rules/evaluate", bookingRules.Evaluate).Methods(http.MethodGet)
	protected.HandleFunc("/booking-rules/{ruleId}", bookingRules.Get).Methods(http.MethodGet)
	protected.HandleFunc("/booking-rules/{ruleId}", bookingRules.Update).Methods(http.MethodPut)
	protected.HandleFunc("/booking-rules/{ruleId}", bookingRules.Delete).Methods(http.MethodDelete)

	// --- Холды и аллокации ---
	protected.HandleFunc("/holds", holds.Create).Methods(http.MethodPost)
	protected.HandleFunc("/holds/{allocationId}", holds.Get).Methods(http.MethodGet)
	protected.HandleFunc("/holds/{allocationId}", holds.Release).Methods(http.MethodDelete)
	protected.HandleFunc("/carts/{cartId}/allocations", holds.ListByCart).Methods(http.MethodGet)

	// --- Чекаут ---
	protected.HandleFunc("/carts/{cartId}/complete", completeCheckout.Handle).Methods(http.MethodPost)

	// --- Бронирования ---
	protected.HandleFunc("/bookings", bookings.List).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/stats", bookings.Stats).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}", bookings.Get).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/confirm", bookings.Confirm).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/complete", bookings.Complete).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/cancel", bookings.Cancel).Methods(http.MethodPatch)

	// Запускаем sweeper протухших холдов (если включен)
	sweeperCtx, stopSweeper := context.WithCancel(context.Background())
	defer stopSweeper()

	if cfg.Sweeper.Enabled {
		holdSweeper := sweeper.New(
			allocationRepository,
			sweepMetrics,
			time.Duration(cfg.Sweeper.IntervalSeconds)*time.Second,
			log,
		)
		go holdSweeper.Run(sweeperCtx)
		log.Info("Hold sweeper started (interval=%ds)", cfg.Sweeper.IntervalSeconds)
	}

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем sweeper
	stopSweeper()

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
