package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Preton24/VehicleParking/internal/api"
	bookSlotHandler "github.com/Preton24/VehicleParking/internal/api/handlers/book_slot"
	cancelReservationHandler "github.com/Preton24/VehicleParking/internal/api/handlers/cancel_reservation"
	getParkingOverviewHandler "github.com/Preton24/VehicleParking/internal/api/handlers/get_parking_overview"
	getReservationHandler "github.com/Preton24/VehicleParking/internal/api/handlers/get_reservation"
	getStatsHandler "github.com/Preton24/VehicleParking/internal/api/handlers/get_stats"
	getUserReservationsHandler "github.com/Preton24/VehicleParking/internal/api/handlers/get_user_reservations"
	healthHandler "github.com/Preton24/VehicleParking/internal/api/handlers/health"
	listReservationsHandler "github.com/Preton24/VehicleParking/internal/api/handlers/list_reservations"
	manageLotsHandler "github.com/Preton24/VehicleParking/internal/api/handlers/manage_lots"
	manageSlotsHandler "github.com/Preton24/VehicleParking/internal/api/handlers/manage_slots"
	releaseSlotHandler "github.com/Preton24/VehicleParking/internal/api/handlers/release_slot"
	"github.com/Preton24/VehicleParking/internal/api/middleware"
	"github.com/Preton24/VehicleParking/internal/config"
	lotRepo "github.com/Preton24/VehicleParking/internal/infra/storage/lot"
	"github.com/Preton24/VehicleParking/internal/infra/storage/migrations"
	reservationRepo "github.com/Preton24/VehicleParking/internal/infra/storage/reservation"
	slotRepo "github.com/Preton24/VehicleParking/internal/infra/storage/slot"
	userServiceClient "github.com/Preton24/VehicleParking/internal/integrations/userservice"
	lotsService "github.com/Preton24/VehicleParking/internal/service/lots"
	reservationsService "github.com/Preton24/VehicleParking/internal/service/reservations"
	statsService "github.com/Preton24/VehicleParking/internal/service/stats"
	bookSlotUC "github.com/Preton24/VehicleParking/internal/usecase/book_slot"
	cancelReservationUC "github.com/Preton24/VehicleParking/internal/usecase/cancel_reservation"
	releaseSlotUC "github.com/Preton24/VehicleParking/internal/usecase/release_slot"
	"github.com/Preton24/VehicleParking/pkg/dbmetrics"
	"github.com/Preton24/VehicleParking/pkg/logger"
	"github.com/Preton24/VehicleParking/pkg/metrics"
	"github.com/Preton24/VehicleParking/pkg/txmanager"
)

func main() {
	configPath := flag.String("config", "config.toml", "path to TOML config file")
	flag.Parse()

	// Загружаем конфигурацию
	cfg, err := config.Load(*configPath)
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

	log.Info("Starting VehicleParking...")
	log.Info("Configuration loaded from %s", *configPath)

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

	// Применяем миграции
	if cfg.Database.RunMigrations {
		migrator, err := migrations.NewMigrator(db, log)
		if err != nil {
			log.Fatal("Failed to initialize migrator: %v", err)
		}
		if err := migrator.Up(context.Background()); err != nil {
			log.Fatal("Failed to apply migrations: %v", err)
		}
	}

	// Без метрик обёртка работает как прозрачный прокси
	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
	if cfg.Metrics.Enabled {
		log.Info("Database metrics collection started")
	}

	// Инициализируем репозитории
	lotRepository := lotRepo.NewRepository(wrappedDB)
	slotRepository := slotRepo.NewRepository(wrappedDB)
	reservationRepository := reservationRepo.NewRepository(wrappedDB)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Инициализируем use cases
	bookSlotUseCase := bookSlotUC.NewUseCase(
		slotRepository,
		reservationRepository,
		txMgr,
		metricsCollector,
		log,
	)
	releaseSlotUseCase := releaseSlotUC.NewUseCase(
		reservationRepository,
		slotRepository,
		lotRepository,
		txMgr,
		metricsCollector,
		log,
	)
	cancelReservationUseCase := cancelReservationUC.NewUseCase(
		reservationRepository,
		slotRepository,
		txMgr,
		metricsCollector,
		log,
	)

	// Инициализируем сервисы
	lotsSvc := lotsService.NewService(lotRepository, slotRepository, reservationRepository, txMgr, log)
	reservationsSvc := reservationsService.NewService(reservationRepository, slotRepository, lotRepository, log)
	statsSvc := statsService.NewService(lotRepository, slotRepository, reservationRepository, txMgr, log)

	// Роль пользователя: из заголовка шлюза или из UserService
	var auth mux.MiddlewareFunc = middleware.Auth
	if cfg.UserService.Enabled {
		userClient := userServiceClient.NewClient(
			cfg.UserService.URL,
			time.Duration(cfg.UserService.Timeout)*time.Second,
			log,
		)
		auth = middleware.AuthWithResolver(userClient, log)
		log.Info("Roles resolved via UserService=%s timeout=%ds", cfg.UserService.URL, cfg.UserService.Timeout)
	} else {
		log.Info("Roles taken from %s header", middleware.HeaderUserRole)
	}

	// Инициализируем handlers и роутер
	router := api.NewRouter(api.RouterConfig{
		Handlers: api.Handlers{
			BookSlot:            bookSlotHandler.NewHandler(bookSlotUseCase, log),
			ReleaseSlot:         releaseSlotHandler.NewHandler(releaseSlotUseCase, log),
			CancelReservation:   cancelReservationHandler.NewHandler(cancelReservationUseCase, log),
			GetReservation:      getReservationHandler.NewHandler(reservationsSvc, log),
			GetUserReservations: getUserReservationsHandler.NewHandler(reservationsSvc, log),
			ListReservations:    listReservationsHandler.NewHandler(reservationsSvc, log),
			ParkingOverview:     getParkingOverviewHandler.NewHandler(lotsSvc, log),
			ManageLots:          manageLotsHandler.NewHandler(lotsSvc, log),
			ManageSlots:         manageSlotsHandler.NewHandler(lotsSvc, log),
			Stats:               getStatsHandler.NewHandler(statsSvc, log),
			Health:              healthHandler.NewHandler(wrappedDB, log),
		},
		Logger:         log,
		Auth:           auth,
		Metrics:        metricsCollector,
		MetricsPath:    cfg.Metrics.Path,
		MetricsHandler: promhttp.Handler(),
	})

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
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
