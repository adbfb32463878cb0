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

	applyStopSaleHandler "github.com/tourvia/TRV-BookingService/internal/api/handlers/apply_stop_sale"
	cancelBookingHandler "github.com/tourvia/TRV-BookingService/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/tourvia/TRV-BookingService/internal/api/handlers/create_booking"
	getAvailabilityHandler "github.com/tourvia/TRV-BookingService/internal/api/handlers/get_availability"
	getBookingHandler "github.com/tourvia/TRV-BookingService/internal/api/handlers/get_booking"
	getTourBookingsHandler "github.com/tourvia/TRV-BookingService/internal/api/handlers/get_tour_bookings"
	getUserBookingsHandler "github.com/tourvia/TRV-BookingService/internal/api/handlers/get_user_bookings"
	listStopSalesHandler "github.com/tourvia/TRV-BookingService/internal/api/handlers/list_stop_sales"
	removeStopSaleHandler "github.com/tourvia/TRV-BookingService/internal/api/handlers/remove_stop_sale"
	updateLedgerSlotHandler "github.com/tourvia/TRV-BookingService/internal/api/handlers/update_ledger_slot"
	"github.com/tourvia/TRV-BookingService/internal/api/middleware"
	"github.com/tourvia/TRV-BookingService/internal/config"
	"github.com/tourvia/TRV-BookingService/internal/domain"
	"github.com/tourvia/TRV-BookingService/internal/infra/cache"
	"github.com/tourvia/TRV-BookingService/internal/infra/events"
	bookingRepo "github.com/tourvia/TRV-BookingService/internal/infra/storage/booking"
	ledgerRepo "github.com/tourvia/TRV-BookingService/internal/infra/storage/ledger"
	stopSaleRepo "github.com/tourvia/TRV-BookingService/internal/infra/storage/stopsale"
	tourRepo "github.com/tourvia/TRV-BookingService/internal/infra/storage/tour"
	bookingsService "github.com/tourvia/TRV-BookingService/internal/service/bookings"
	scheduleService "github.com/tourvia/TRV-BookingService/internal/service/schedule"
	stopSaleService "github.com/tourvia/TRV-BookingService/internal/service/stopsale"
	createBookingUC "github.com/tourvia/TRV-BookingService/internal/usecase/create_booking"
	getAvailabilityUC "github.com/tourvia/TRV-BookingService/internal/usecase/get_availability"
	"github.com/tourvia/TRV-BookingService/pkg/dbmetrics"
	"github.com/tourvia/TRV-BookingService/pkg/logger"
	"github.com/tourvia/TRV-BookingService/pkg/metrics"
	"github.com/tourvia/TRV-BookingService/pkg/simpletxmanager"
	"github.com/tourvia/TRV-BookingService/pkg/txmanager"
)

// AvailabilityCache общий интерфейс кэша доступности (Redis или заглушка)
type AvailabilityCache interface {
	GetMonthAvailability(ctx context.Context, tourID int64, month string, optionID *string) (*domain.MonthAvailability, error)
	SetMonthAvailability(ctx context.Context, tourID int64, month string, optionID *string, availability *domain.MonthAvailability) error
	InvalidateMonth(ctx context.Context, tourID int64, month string) error
}

// TxManager общий интерфейс менеджера транзакций (с метриками или без)
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

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

	log.Info("Starting TRV-BookingService...")
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

	// Инициализируем кэш доступности (если включен)
	var availabilityCache AvailabilityCache
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			cancelPing()
			log.Fatal("Failed to ping redis: %v", err)
		}
		cancelPing()

		availabilityCache = cache.NewAvailabilityCache(
			redisClient,
			time.Duration(cfg.Redis.AvailabilityTTLSec)*time.Second,
			log,
		)
		log.Info("Availability cache enabled (redis=%s, ttl=%ds)", cfg.Redis.Addr, cfg.Redis.AvailabilityTTLSec)
	} else {
		availabilityCache = cache.NewNoopCache()
		log.Info("Availability cache disabled")
	}

	// Инициализируем продюсер событий (если включен)
	var publisher events.Publisher
	if cfg.Kafka.Enabled {
		producer := events.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.EventsTopic, log)
		defer producer.Close()

		publisher = producer
		log.Info("Events producer enabled (brokers=%v, topic=%s)", cfg.Kafka.Brokers, cfg.Kafka.EventsTopic)
	} else {
		publisher = events.NewNoopPublisher()
		log.Info("Events producer disabled")
	}

	// Инициализируем репозитории и менеджер транзакций (с метриками или без)
	var (
		tourRepository     *tourRepo.Repository
		bookingRepository  *bookingRepo.Repository
		ledgerRepository   *ledgerRepo.Repository
		stopSaleRepository *stopSaleRepo.Repository
		txMgr              TxManager
	)

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		tourRepository = tourRepo.NewRepository(wrappedDB)
		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		ledgerRepository = ledgerRepo.NewRepository(wrappedDB)
		stopSaleRepository = stopSaleRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		tourRepository = tourRepo.NewRepository(db)
		bookingRepository = bookingRepo.NewRepository(db)
		ledgerRepository = ledgerRepo.NewRepository(db)
		stopSaleRepository = stopSaleRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		tourRepository,
		ledgerRepository,
		availabilityCache,
		publisher,
		txMgr,
		log,
	)
	stopSaleSvc := stopSaleService.NewService(
		stopSaleRepository,
		tourRepository,
		availabilityCache,
		publisher,
		txMgr,
		log,
	)
	scheduleSvc := scheduleService.NewService(
		tourRepository,
		ledgerRepository,
		availabilityCache,
		txMgr,
		log,
	)

	// Инициализируем use cases
	getAvailabilityUseCase := getAvailabilityUC.NewUseCase(
		tourRepository,
		bookingRepository,
		ledgerRepository,
		stopSaleRepository,
		availabilityCache,
		log,
	)
	createBookingUseCase := createBookingUC.NewUseCase(
		tourRepository,
		bookingRepository,
		ledgerRepository,
		stopSaleRepository,
		availabilityCache,
		publisher,
		txMgr,
		log,
	)

	// Инициализируем handlers
	getAvailability := getAvailabilityHandler.NewHandler(getAvailabilityUseCase, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	getTourBookings := getTourBookingsHandler.NewHandler(bookingSvc, log)
	applyStopSale := applyStopSaleHandler.NewHandler(stopSaleSvc, log)
	removeStopSale := removeStopSaleHandler.NewHandler(stopSaleSvc, log)
	listStopSales := listStopSalesHandler.NewHandler(stopSaleSvc, log)
	updateLedgerSlot := updateLedgerSlotHandler.NewHandler(scheduleSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Месячная доступность тура
	api.HandleFunc("/tours/{tourId}/availability", getAvailability.Handle).Methods(http.MethodGet)

	// Маршрут без версии для обратной совместимости
	r.HandleFunc("/api/tours/{tourId}/availability", getAvailability.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	// Создание бронирования
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// Получение бронирования по ID
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

	// Отмена бронирования
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// История бронирований пользователя
	protected.HandleFunc("/users/{userId}/bookings", getUserBookings.Handle).Methods(http.MethodGet)

	// --- Управление туром (для администраторов) ---
	// Список бронирований тура
	protected.HandleFunc("/tours/{tourId}/bookings", getTourBookings.Handle).Methods(http.MethodGet)

	// Правила stop-sale
	protected.HandleFunc("/tours/{tourId}/stop-sales", applyStopSale.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/tours/{tourId}/stop-sales", listStopSales.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/tours/{tourId}/stop-sales/{ruleId}", removeStopSale.Handle).Methods(http.MethodDelete)

	// Админская правка слота на дату
	protected.HandleFunc("/tours/{tourId}/slots", updateLedgerSlot.Handle).Methods(http.MethodPut)

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

	log.Info("Server stopped")
}
