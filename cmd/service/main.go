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
	"github.com/redis/go-redis/v9"

	cancelBookingHandler "github.com/barberhub/booking-service/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/barberhub/booking-service/internal/api/handlers/create_booking"
	getBookingHandler "github.com/barberhub/booking-service/internal/api/handlers/get_booking"
	getDashboardHandler "github.com/barberhub/booking-service/internal/api/handlers/get_dashboard"
	getDayAvailabilityHandler "github.com/barberhub/booking-service/internal/api/handlers/get_day_availability"
	getMonthAvailabilityHandler "github.com/barberhub/booking-service/internal/api/handlers/get_month_availability"
	getScheduleHandler "github.com/barberhub/booking-service/internal/api/handlers/get_schedule"
	getTenantBookingsHandler "github.com/barberhub/booking-service/internal/api/handlers/get_tenant_bookings"
	updateBookingStatusHandler "github.com/barberhub/booking-service/internal/api/handlers/update_booking_status"
	updateScheduleHandler "github.com/barberhub/booking-service/internal/api/handlers/update_schedule"
	"github.com/barberhub/booking-service/internal/api/middleware"
	"github.com/barberhub/booking-service/internal/config"
	availabilityCache "github.com/barberhub/booking-service/internal/infra/cache/availability"
	bookingRepo "github.com/barberhub/booking-service/internal/infra/storage/booking"
	calendarRepo "github.com/barberhub/booking-service/internal/infra/storage/calendar"
	customerRepo "github.com/barberhub/booking-service/internal/infra/storage/customer"
	serviceRepo "github.com/barberhub/booking-service/internal/infra/storage/service"
	tenantRepo "github.com/barberhub/booking-service/internal/infra/storage/tenant"
	bookingsService "github.com/barberhub/booking-service/internal/service/bookings"
	dashboardService "github.com/barberhub/booking-service/internal/service/dashboard"
	scheduleService "github.com/barberhub/booking-service/internal/service/schedule"
	createBookingUC "github.com/barberhub/booking-service/internal/usecase/create_booking"
	getDayAvailabilityUC "github.com/barberhub/booking-service/internal/usecase/get_day_availability"
	getMonthAvailabilityUC "github.com/barberhub/booking-service/internal/usecase/get_month_availability"
	updateBookingStatusUC "github.com/barberhub/booking-service/internal/usecase/update_booking_status"
	"github.com/barberhub/booking-service/pkg/dbmetrics"
	"github.com/barberhub/booking-service/pkg/logger"
	"github.com/barberhub/booking-service/pkg/metrics"
	"github.com/barberhub/booking-service/pkg/simpletxmanager"
	"github.com/barberhub/booking-service/pkg/txmanager"
)

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

	log.Info("Starting booking-service...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
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

	// Интерфейс transaction manager (используется в usecases)
	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}

	// Инициализируем репозитории (с метриками или без)
	var (
		tenantRepository   *tenantRepo.Repository
		serviceRepository  *serviceRepo.Repository
		customerRepository *customerRepo.Repository
		calendarRepository *calendarRepo.Repository
		bookingRepository  *bookingRepo.Repository
		txMgr              TxManager
	)

	if cfg.Metrics.Enabled {
		wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		tenantRepository = tenantRepo.NewRepository(wrappedDB)
		serviceRepository = serviceRepo.NewRepository(wrappedDB)
		customerRepository = customerRepo.NewRepository(wrappedDB)
		calendarRepository = calendarRepo.NewRepository(wrappedDB)
		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		tenantRepository = tenantRepo.NewRepository(db)
		serviceRepository = serviceRepo.NewRepository(db)
		customerRepository = customerRepo.NewRepository(db)
		calendarRepository = calendarRepo.NewRepository(db)
		bookingRepository = bookingRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем кэш доступности (если включен).
	// Отключенный кэш - это nil-интерфейсы в потребителях: usecases
	// проверяют nil перед обращением.
	var (
		dayCache      getDayAvailabilityUC.AvailabilityCache
		createCache   createBookingUC.AvailabilityCache
		statusCache   updateBookingStatusUC.AvailabilityCache
		bookingsCache bookingsService.AvailabilityCache
		scheduleCache scheduleService.AvailabilityCache
	)

	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Fatal("Failed to ping redis: %v", err)
		}
		defer redisClient.Close()

		cache := availabilityCache.New(redisClient, time.Duration(cfg.Redis.TTLSeconds)*time.Second)
		dayCache = cache
		createCache = cache
		statusCache = cache
		bookingsCache = cache
		scheduleCache = cache
		log.Info("Availability cache enabled (redis=%s, ttl=%ds)", cfg.Redis.Addr, cfg.Redis.TTLSeconds)
	} else {
		log.Info("Availability cache disabled")
	}

	// Инициализируем use cases
	getDayAvailabilityUseCase := getDayAvailabilityUC.NewUseCase(
		tenantRepository,
		serviceRepository,
		calendarRepository,
		bookingRepository,
		dayCache,
		log,
	)
	getMonthAvailabilityUseCase := getMonthAvailabilityUC.NewUseCase(
		tenantRepository,
		serviceRepository,
		calendarRepository,
		bookingRepository,
		log,
	)
	createBookingUseCase := createBookingUC.NewUseCase(
		tenantRepository,
		serviceRepository,
		customerRepository,
		calendarRepository,
		bookingRepository,
		txMgr,
		createCache,
		log,
	)
	updateBookingStatusUseCase := updateBookingStatusUC.NewUseCase(
		bookingRepository,
		statusCache,
		log,
	)

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(bookingRepository, bookingsCache, log)
	scheduleSvc := scheduleService.NewService(tenantRepository, calendarRepository, scheduleCache, log)
	dashboardSvc := dashboardService.NewService(
		tenantRepository,
		bookingRepository,
		customerRepository,
		calendarRepository,
		log,
	)

	// Инициализируем handlers
	getDayAvailability := getDayAvailabilityHandler.NewHandler(getDayAvailabilityUseCase, log)
	getMonthAvailability := getMonthAvailabilityHandler.NewHandler(getMonthAvailabilityUseCase, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	updateBookingStatus := updateBookingStatusHandler.NewHandler(updateBookingStatusUseCase, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	getTenantBookings := getTenantBookingsHandler.NewHandler(bookingSvc, log)
	getSchedule := getScheduleHandler.NewHandler(scheduleSvc, log)
	updateSchedule := updateScheduleHandler.NewHandler(scheduleSvc, log)
	getDashboard := getDashboardHandler.NewHandler(dashboardSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации) - страница бронирования
	// ============================================================

	// Доступность по дням месяца
	api.HandleFunc("/tenants/{tenantId}/availability/days",
		getMonthAvailability.Handle).Methods(http.MethodGet)

	// Доступные слоты на дату
	api.HandleFunc("/tenants/{tenantId}/availability/times",
		getDayAvailability.Handle).Methods(http.MethodGet)

	// Создание бронирования клиентом
	api.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header) - панель тенанта
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/status", updateBookingStatus.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/tenants/{tenantId}/bookings", getTenantBookings.Handle).Methods(http.MethodGet)

	// --- Расписание и дашборд ---
	protected.HandleFunc("/tenants/{tenantId}/schedule", getSchedule.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/tenants/{tenantId}/schedule", updateSchedule.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/tenants/{tenantId}/dashboard", getDashboard.Handle).Methods(http.MethodGet)

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
