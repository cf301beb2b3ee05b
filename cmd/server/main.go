// cmd/server/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	_ "escpos-service/docs"
	"escpos-service/internal/config"
	"escpos-service/internal/database"
	"escpos-service/internal/handler"
	"escpos-service/internal/publisher"
	"escpos-service/internal/repository"
	"escpos-service/internal/routes"
	"escpos-service/internal/service"
	"escpos-service/internal/utils"
)

// memoryJobCapacity bounds the in-memory job store used without a database
const memoryJobCapacity = 1000

// Application represents the main application
type Application struct {
	config   *config.Config
	logger   *zap.Logger
	server   *http.Server
	database *database.DB

	// Services
	eventBus         *service.EventBus
	decodeService    *service.DecodeService
	captureService   *service.CaptureService
	discoveryService *service.DiscoveryService
	wsHandler        *handler.WebSocketHandler
	mqttPublisher    *publisher.MQTTPublisher

	// Repositories
	jobRepo   repository.JobRepository
	eventRepo repository.EventRepository

	cancel context.CancelFunc
}

// @title ESC/POS Decoder API
// @version 1.0.0
// @description Decodes ESC/POS thermal printer byte streams captured from serial, USB and TCP ports or posted over HTTP

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8084
// @BasePath /api/v1
func main() {
	configPath := flag.String("config", "", "path to config file")
	migrateCmd := flag.String("migrate", "", "run a migration command and exit: up, down, version or force:<n>")
	flag.Parse()

	if *migrateCmd != "" {
		if err := runMigration(*configPath, *migrateCmd); err != nil {
			fmt.Printf("Migration failed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	app, err := NewApplication(*configPath)
	if err != nil {
		fmt.Printf("Failed to initialize application: %v\n", err)
		os.Exit(1)
	}

	if err := app.Start(); err != nil {
		app.logger.Fatal("Failed to start application", zap.Error(err))
	}
}

// NewApplication creates a new application instance
func NewApplication(configPath string) (*Application, error) {
	cfg, err := config.LoadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := utils.NewLogger(&cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	serviceLogger := utils.NewServiceLogger(logger, "escpos-service")
	serviceLogger.LogServiceStart(cfg.App.Version, cfg)

	app := &Application{
		config: cfg,
		logger: logger,
	}

	if err := app.initializeDatabase(); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	app.initializeRepositories()

	if err := app.initializePublisher(); err != nil {
		return nil, fmt.Errorf("failed to initialize publisher: %w", err)
	}

	if err := app.initializeServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	app.initializeServer()

	return app, nil
}

// initializeDatabase sets up database connection and runs migrations
func (app *Application) initializeDatabase() error {
	if !app.config.Database.Enabled {
		app.logger.Info("Database disabled, jobs are kept in memory")
		return nil
	}

	db, err := database.NewConnection(&app.config.Database, app.logger)
	if err != nil {
		return fmt.Errorf("failed to create database connection: %w", err)
	}

	app.database = db

	if app.config.Database.AutoMigrate {
		migrator := database.NewMigrator(db, app.logger, &app.config.Database)
		if err := migrator.Up(); err != nil {
			return fmt.Errorf("failed to run database migrations: %w", err)
		}
	}

	app.logger.Info("Database initialized successfully")
	return nil
}

// initializeRepositories creates repository instances
func (app *Application) initializeRepositories() {
	if app.database == nil {
		app.jobRepo = repository.NewMemoryJobRepository(memoryJobCapacity)
		app.logger.Info("In-memory repositories initialized",
			zap.Int("capacity", memoryJobCapacity),
		)
		return
	}

	app.jobRepo = repository.NewJobRepository(app.database, app.logger)
	app.eventRepo = repository.NewEventRepository(app.database, app.logger)

	app.logger.Info("Repositories initialized successfully")
}

// initializePublisher connects the MQTT job publisher when enabled
func (app *Application) initializePublisher() error {
	if !app.config.MQTT.Enabled {
		return nil
	}

	pub, err := publisher.NewMQTTPublisher(&app.config.MQTT, app.logger)
	if err != nil {
		return err
	}
	app.mqttPublisher = pub
	return nil
}

// initializeServices creates service instances
func (app *Application) initializeServices() error {
	app.eventBus = service.NewEventBus(app.logger)

	var jobPublisher service.JobPublisher
	if app.mqttPublisher != nil {
		jobPublisher = app.mqttPublisher
	}

	decodeService, err := service.NewDecodeService(
		app.jobRepo,
		app.eventRepo,
		app.eventBus,
		jobPublisher,
		app.config,
		app.logger,
	)
	if err != nil {
		return err
	}
	app.decodeService = decodeService

	if app.config.Capture.Enabled {
		app.captureService = service.NewCaptureService(
			app.decodeService,
			app.eventBus,
			&app.config.Capture,
			nil,
			app.logger,
		)
	}

	app.discoveryService = service.NewDiscoveryService(app.config, app.logger)
	app.wsHandler = handler.NewWebSocketHandler(app.eventBus, app.config.Security.AllowedOrigins, app.logger)

	app.logger.Info("Services initialized successfully",
		zap.Bool("capture_enabled", app.captureService != nil),
		zap.Bool("mqtt_enabled", app.mqttPublisher != nil),
	)
	return nil
}

// initializeServer sets up HTTP server and routes
func (app *Application) initializeServer() {
	routerManager := routes.NewRouter(
		app.config,
		app.logger,
		app.database,
		app.decodeService,
		app.captureService,
		app.discoveryService,
		app.wsHandler,
	)

	router := routerManager.SetupRouter()

	app.server = &http.Server{
		Addr:         app.config.GetServerAddr(),
		Handler:      router,
		ReadTimeout:  app.config.Server.ReadTimeout,
		WriteTimeout: app.config.Server.WriteTimeout,
		IdleTimeout:  app.config.Server.IdleTimeout,
	}

	app.logger.Info("HTTP server initialized",
		zap.String("address", app.config.GetServerAddr()),
		zap.Bool("tls_enabled", app.config.Server.TLS.Enabled),
	)
}

// startBackgroundServices starts the event bus, capture and cleanup loops
func (app *Application) startBackgroundServices(ctx context.Context) error {
	go app.eventBus.Start()
	app.wsHandler.Start()

	if app.captureService != nil {
		if err := app.captureService.Start(ctx); err != nil {
			return fmt.Errorf("failed to start capture: %w", err)
		}
	}

	go app.decodeService.StartCleanup(ctx)

	app.logger.Info("Background services started")
	return nil
}

// waitForShutdown waits for shutdown signal and performs graceful shutdown
func (app *Application) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quit
	app.logger.Info("Received shutdown signal", zap.String("signal", sig.String()))

	app.shutdown()
}

// shutdown performs graceful shutdown
func (app *Application) shutdown() {
	serviceLogger := utils.NewServiceLogger(app.logger, "escpos-service")
	serviceLogger.LogServiceStop("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("HTTP server shutdown error", zap.Error(err))
	} else {
		app.logger.Info("HTTP server stopped")
	}

	// Capture flushes pending jobs, so it stops before the decoder goes away
	if app.captureService != nil {
		app.captureService.Stop()
	}
	if app.cancel != nil {
		app.cancel()
	}

	app.wsHandler.Stop()
	app.eventBus.Stop()
	app.decodeService.Close()

	if app.mqttPublisher != nil {
		app.mqttPublisher.Close()
	}

	if app.database != nil {
		if err := app.database.Close(); err != nil {
			app.logger.Error("Database close error", zap.Error(err))
		} else {
			app.logger.Info("Database connection closed")
		}
	}

	app.logger.Info("Application shutdown completed")

	if err := utils.CloseLogger(app.logger); err != nil {
		fmt.Printf("Logger close error: %v\n", err)
	}
}

// Start runs the server until a shutdown signal arrives
func (app *Application) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	app.cancel = cancel

	if err := app.startBackgroundServices(ctx); err != nil {
		cancel()
		return err
	}

	go func() {
		app.logger.Info("Starting HTTP server",
			zap.String("address", app.server.Addr),
		)

		var err error
		if app.config.Server.TLS.Enabled {
			err = app.server.ListenAndServeTLS(
				app.config.Server.TLS.CertFile,
				app.config.Server.TLS.KeyFile,
			)
		} else {
			err = app.server.ListenAndServe()
		}

		if err != nil && err != http.ErrServerClosed {
			app.logger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	app.waitForShutdown()

	return nil
}
