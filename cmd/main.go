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

	addBookingPhotosHandler "github.com/m04kA/SMC-AssistanceService/internal/api/handlers/add_booking_photos"
	addCommentHandler "github.com/m04kA/SMC-AssistanceService/internal/api/handlers/add_comment"
	assistanceTemplatesHandler "github.com/m04kA/SMC-AssistanceService/internal/api/handlers/assistance_templates"
	assistanceTypesHandler "github.com/m04kA/SMC-AssistanceService/internal/api/handlers/assistance_types"
	cancelBookingHandler "github.com/m04kA/SMC-AssistanceService/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/m04kA/SMC-AssistanceService/internal/api/handlers/create_booking"
	featuredToonsHandler "github.com/m04kA/SMC-AssistanceService/internal/api/handlers/featured_toons"
	getAllBookingsHandler "github.com/m04kA/SMC-AssistanceService/internal/api/handlers/get_all_bookings"
	getBookingHandler "github.com/m04kA/SMC-AssistanceService/internal/api/handlers/get_booking"
	getMyBookingsHandler "github.com/m04kA/SMC-AssistanceService/internal/api/handlers/get_my_bookings"
	getNotificationsHandler "github.com/m04kA/SMC-AssistanceService/internal/api/handlers/get_notifications"
	getRemainingCapacityHandler "github.com/m04kA/SMC-AssistanceService/internal/api/handlers/get_remaining_capacity"
	listCommentsHandler "github.com/m04kA/SMC-AssistanceService/internal/api/handlers/list_comments"
	markCommentsReadHandler "github.com/m04kA/SMC-AssistanceService/internal/api/handlers/mark_comments_read"
	purgeBookingHandler "github.com/m04kA/SMC-AssistanceService/internal/api/handlers/purge_booking"
	updateBookingStatusHandler "github.com/m04kA/SMC-AssistanceService/internal/api/handlers/update_booking_status"
	"github.com/m04kA/SMC-AssistanceService/internal/api/middleware"
	"github.com/m04kA/SMC-AssistanceService/internal/config"
	bookingRepo "github.com/m04kA/SMC-AssistanceService/internal/infra/storage/booking"
	catalogRepo "github.com/m04kA/SMC-AssistanceService/internal/infra/storage/catalog"
	commentRepo "github.com/m04kA/SMC-AssistanceService/internal/infra/storage/comment"
	"github.com/m04kA/SMC-AssistanceService/internal/infra/storage/memory"
	bookingsService "github.com/m04kA/SMC-AssistanceService/internal/service/bookings"
	catalogService "github.com/m04kA/SMC-AssistanceService/internal/service/catalog"
	commentsService "github.com/m04kA/SMC-AssistanceService/internal/service/comments"
	notificationsService "github.com/m04kA/SMC-AssistanceService/internal/service/notifications"
	createBookingUC "github.com/m04kA/SMC-AssistanceService/internal/usecase/create_booking"
	getRemainingCapacityUC "github.com/m04kA/SMC-AssistanceService/internal/usecase/get_remaining_capacity"
	"github.com/m04kA/SMC-AssistanceService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AssistanceService/pkg/keymutex"
	"github.com/m04kA/SMC-AssistanceService/pkg/logger"
	"github.com/m04kA/SMC-AssistanceService/pkg/metrics"
	"github.com/m04kA/SMC-AssistanceService/pkg/txmanager"
)

// Хранилища, общие для Postgres и in-memory драйвера
type (
	bookingStore interface {
		bookingsService.BookingRepository
		commentsService.BookingRepository
		notificationsService.BookingRepository
		catalogService.BookingCounter
		createBookingUC.BookingRepository
		getRemainingCapacityUC.BookingRepository
	}

	commentStore interface {
		bookingsService.CommentRepository
		commentsService.CommentRepository
		notificationsService.CommentRepository
	}

	catalogStore interface {
		catalogService.CatalogRepository
		createBookingUC.CatalogRepository
	}

	txManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
		DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
	}
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

	log.Info("Starting SMC-AssistanceService...")
	log.Info("Configuration loaded from config.toml (driver=%s)", cfg.Database.Driver)

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Инициализируем хранилище
	var (
		bookings bookingStore
		comments commentStore
		catalog  catalogStore
		txMgr    txManager
	)

	switch cfg.Database.Driver {
	case config.DriverMemory:
		store := memory.NewStore()
		bookings, comments, catalog = store, store, store
		txMgr = memory.NewTxManager()
		log.Warn("Using in-memory storage, data will be lost on restart")

	default:
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

		// Без метрик обёртка просто проксирует вызовы
		wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)

		bookings = bookingRepo.NewRepository(wrappedDB)
		comments = commentRepo.NewRepository(wrappedDB)
		catalog = catalogRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB, cfg.Booking.MaxAdmissionRetries)
	}

	// Блокировки по типу помощи для допуска заявок
	typeLocks := keymutex.New[int64]()

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(
		bookings,
		comments,
		catalog,
		txMgr,
		metricsCollector,
		log,
		cfg.Booking.MaxAdmissionRetries,
	)
	commentSvc := commentsService.NewService(comments, bookings, log)
	notificationSvc := notificationsService.NewService(comments, bookings, log)
	catalogSvc := catalogService.NewService(catalog, bookings, txMgr, log)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookings,
		catalog,
		txMgr,
		typeLocks,
		metricsCollector,
		log,
		cfg.Booking.RequestNumberPrefix,
		cfg.Booking.MaxAdmissionRetries,
	)
	getRemainingCapacityUseCase := getRemainingCapacityUC.NewUseCase(bookings, catalog, txMgr, log)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getRemainingCapacity := getRemainingCapacityHandler.NewHandler(getRemainingCapacityUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	getMyBookings := getMyBookingsHandler.NewHandler(bookingSvc, log)
	getAllBookings := getAllBookingsHandler.NewHandler(bookingSvc, log)
	updateBookingStatus := updateBookingStatusHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	addBookingPhotos := addBookingPhotosHandler.NewHandler(bookingSvc, log)
	purgeBooking := purgeBookingHandler.NewHandler(bookingSvc, log)
	addComment := addCommentHandler.NewHandler(commentSvc, log)
	listComments := listCommentsHandler.NewHandler(commentSvc, log)
	markCommentsRead := markCommentsReadHandler.NewHandler(commentSvc, log)
	notifications := getNotificationsHandler.NewHandler(notificationSvc, log)
	assistanceTypes := assistanceTypesHandler.NewHandler(catalogSvc, log)
	assistanceTemplates := assistanceTemplatesHandler.NewHandler(catalogSvc, log)
	featuredToons := featuredToonsHandler.NewHandler(catalogSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID(log))

	// Добавляем metrics middleware и endpoint (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Identify)

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// --- Каталог ---
	api.HandleFunc("/assistance-types", assistanceTypes.List).Methods(http.MethodGet)
	api.HandleFunc("/assistance-types/{typeId}", assistanceTypes.Get).Methods(http.MethodGet)
	api.HandleFunc("/assistance-templates", assistanceTemplates.List).Methods(http.MethodGet)
	api.HandleFunc("/assistance-templates/{templateId}", assistanceTemplates.Get).Methods(http.MethodGet)
	api.HandleFunc("/featured-toons", featuredToons.List).Methods(http.MethodGet)

	// Свободная вместимость окна по дням
	api.HandleFunc("/assistance-types/{typeId}/capacity", getRemainingCapacity.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings", getMyBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/status", updateBookingStatus.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/photos", addBookingPhotos.Handle).Methods(http.MethodPost)

	// --- Комментарии ---
	protected.HandleFunc("/bookings/{bookingId}/comments", addComment.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}/comments", listComments.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/comments/read", markCommentsRead.Handle).Methods(http.MethodPost)

	// --- Уведомления ---
	protected.HandleFunc("/notifications", notifications.Summary).Methods(http.MethodGet)
	protected.HandleFunc("/notifications/unread", notifications.Unread).Methods(http.MethodGet)

	// --- Администрирование (права проверяются в сервисах) ---
	protected.HandleFunc("/admin/bookings", getAllBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/admin/bookings/{bookingId}", purgeBooking.Handle).Methods(http.MethodDelete)

	protected.HandleFunc("/admin/assistance-types", assistanceTypes.Create).Methods(http.MethodPost)
	protected.HandleFunc("/admin/assistance-types/{typeId}", assistanceTypes.Update).Methods(http.MethodPatch)
	protected.HandleFunc("/admin/assistance-types/{typeId}", assistanceTypes.Deactivate).Methods(http.MethodDelete)

	protected.HandleFunc("/admin/assistance-templates", assistanceTemplates.Create).Methods(http.MethodPost)
	protected.HandleFunc("/admin/assistance-templates/{templateId}", assistanceTemplates.Update).Methods(http.MethodPatch)
	protected.HandleFunc("/admin/assistance-templates/{templateId}", assistanceTemplates.Deactivate).Methods(http.MethodDelete)

	protected.HandleFunc("/admin/featured-toons", featuredToons.Create).Methods(http.MethodPost)
	protected.HandleFunc("/admin/featured-toons/{toonId}", featuredToons.Delete).Methods(http.MethodDelete)

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
	close(stopMetricsCh)

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
