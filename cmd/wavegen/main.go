// cmd/wavegen/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	_ "wavegen/docs"
	"wavegen/internal/config"
	"wavegen/internal/database"
	"wavegen/internal/driver/wavegen"
	"wavegen/internal/handler"
	"wavegen/internal/repository"
	"wavegen/internal/routes"
	"wavegen/internal/service"
	"wavegen/internal/utils"
	"wavegen/pkg/driver"
)

// Application represents the main application
type Application struct {
	config   *config.Config
	logger   *zap.Logger
	server   *http.Server
	router   *routes.Router
	database *database.DB

	captureRepo      repository.CaptureRepository
	eventBus         *handler.EventBus
	generatorService *service.GeneratorService
}

// @title Waveform Generator API
// @version 1.0.0
// @description Remote control and debug capture for a networked waveform generator

// @host localhost:8080
// @BasePath /api/v1
func main() {
	configPath := pflag.StringP("config", "c", "", "path to the configuration file")
	mode := pflag.StringP("mode", "m", "", "run mode: server or scenario (overrides app.mode)")
	pflag.Parse()

	app, err := NewApplication(*configPath, *mode)
	if err != nil {
		fmt.Printf("Failed to initialize application: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		app.logger.Error("Application stopped with error", zap.Error(err))
		app.shutdown()
		os.Exit(1)
	}
	app.shutdown()
}

// NewApplication creates a new application instance
func NewApplication(configPath, mode string) (*Application, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if mode != "" {
		if mode != config.ModeServer && mode != config.ModeScenario {
			return nil, fmt.Errorf("unknown mode %q", mode)
		}
		cfg.App.Mode = mode
	}

	logger, err := utils.NewLogger(&cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	serviceLogger := utils.NewServiceLogger(logger, "wavegen")
	serviceLogger.LogServiceStart(cfg.App.Version, cfg)

	app := &Application{
		config: cfg,
		logger: logger,
	}

	if err := app.initializeDatabase(); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	app.initializeServices()

	if cfg.App.Mode == config.ModeServer {
		app.initializeServer()
	}

	return app, nil
}

// initializeDatabase opens the capture archive and runs migrations
func (app *Application) initializeDatabase() error {
	if !app.config.Database.Enabled {
		app.logger.Info("Capture archive disabled, keeping captures in memory")
		return nil
	}

	db, err := database.NewConnection(&app.config.Database, app.logger)
	if err != nil {
		return fmt.Errorf("failed to create database connection: %w", err)
	}
	app.database = db

	migrator := database.NewMigrator(db, app.logger, &app.config.Database)
	if err := migrator.Up(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}
	if version, dirty, err := migrator.Version(); err == nil {
		app.logger.Info("Capture archive schema", zap.Uint("version", version), zap.Bool("dirty", dirty))
	}

	app.captureRepo = repository.NewCaptureRepository(db, app.logger)

	app.logger.Info("Database initialized successfully")
	return nil
}

// initializeServices creates the event bus and generator service
func (app *Application) initializeServices() {
	app.eventBus = handler.NewEventBus(app.logger)

	dial := func(ctx context.Context) (driver.GeneratorDriver, error) {
		client, err := wavegen.Connect(ctx, &app.config.Generator, app.logger)
		if err != nil {
			return nil, err
		}
		return client, nil
	}

	app.generatorService = service.NewGeneratorService(
		dial,
		app.captureRepo,
		app.eventBus,
		&app.config.Capture,
		app.config.Generator.DebugEnabled,
		app.logger,
	)

	app.logger.Info("Services initialized successfully",
		zap.String("generator", fmt.Sprintf("%s:%d", app.config.Generator.Host, app.config.Generator.Port)),
		zap.Bool("archive", app.captureRepo != nil),
	)
}

// initializeServer sets up HTTP server and routes
func (app *Application) initializeServer() {
	app.router = routes.NewRouter(
		app.config,
		app.logger,
		app.database,
		app.generatorService,
		app.eventBus,
	)

	app.server = &http.Server{
		Addr:         app.config.GetServerAddr(),
		Handler:      app.router.SetupRouter(),
		ReadTimeout:  app.config.Server.ReadTimeout,
		WriteTimeout: app.config.Server.WriteTimeout,
		IdleTimeout:  app.config.Server.IdleTimeout,
	}

	app.logger.Info("HTTP server initialized",
		zap.String("address", app.config.GetServerAddr()),
	)
}

// Run starts the background workers and the selected mode, and blocks until
// ctx is done or one of them fails
func (app *Application) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error { return app.eventBus.Run(ctx) })
	g.Go(func() error { return app.generatorService.RunCleanup(ctx) })

	switch app.config.App.Mode {
	case config.ModeScenario:
		runner := service.NewScenarioRunner(app.generatorService, &app.config.Scenario, app.config.Capture.DumpPath, app.logger)
		g.Go(func() error {
			// A finite scenario ends the process
			defer cancel()
			return runner.Run(ctx)
		})

	default:
		// The generator may come up after us; requests redial on demand
		if err := app.generatorService.Connect(ctx); err != nil {
			app.logger.Warn("Generator not reachable at startup", zap.Error(err))
		}

		g.Go(func() error { return app.router.RunEventStream(ctx) })
		g.Go(func() error {
			app.logger.Info("Starting HTTP server", zap.String("address", app.server.Addr))
			if err := app.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("HTTP server failed: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			return app.server.Shutdown(shutdownCtx)
		})
	}

	return g.Wait()
}

// shutdown releases the generator connection, the database and the logger
func (app *Application) shutdown() {
	serviceLogger := utils.NewServiceLogger(app.logger, "wavegen")
	serviceLogger.LogServiceStop("shutdown")

	if err := app.generatorService.Close(); err != nil {
		app.logger.Error("Generator close error", zap.Error(err))
	} else {
		app.logger.Info("Generator connection closed")
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
