package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/revenue-management/api"
	"github.com/frahmantamala/revenue-management/internal"
	"github.com/frahmantamala/revenue-management/internal/access"
	"github.com/frahmantamala/revenue-management/internal/auth"
	authPostgres "github.com/frahmantamala/revenue-management/internal/auth/postgres"
	"github.com/frahmantamala/revenue-management/internal/core/events"
	"github.com/frahmantamala/revenue-management/internal/revenue"
	revenuePostgres "github.com/frahmantamala/revenue-management/internal/revenue/postgres"
	"github.com/frahmantamala/revenue-management/internal/transport/middleware"
	"github.com/frahmantamala/revenue-management/internal/transport/rest"
	"github.com/frahmantamala/revenue-management/internal/transport/swagger"
	"github.com/frahmantamala/revenue-management/internal/user"
	userPostgres "github.com/frahmantamala/revenue-management/internal/user/postgres"
	"github.com/frahmantamala/revenue-management/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config      *internal.Config
	DB          *sqlx.DB
	Gorm        *gorm.DB
	Router      *chi.Mux
	Engine      *access.Engine
	EventBus    *events.EventBus
	RateLimiter *middleware.IPRateLimiter
	Logger      *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	if err := setupRoutes(deps); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up routes: %v\n", err)
		os.Exit(1)
	}

	stopEviction := make(chan struct{})
	if deps.RateLimiter != nil {
		go deps.RateLimiter.Run(stopEviction)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
		close(stopEviction)
		deps.EventBus.Wait()
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("Server stopped")
}

func setupRoutes(deps *Dependencies) error {
	doc, err := swagger.Load(context.Background(), deps.Config.Server.OpenAPIPath, api.OpenAPI)
	if err != nil {
		return err
	}

	tokens := auth.NewJWTTokenGenerator(
		deps.Config.Security.JWTAccessSecret,
		deps.Config.Security.JWTRefreshSecret,
		deps.Config.Security.AccessTokenDuration,
		deps.Config.Security.RefreshTokenDuration,
	)
	authService := auth.NewService(authPostgres.NewRepository(deps.Gorm), tokens, deps.Config.Security.BCryptCost)
	userService := user.NewService(userPostgres.NewRepository(deps.DB), deps.Engine)
	revenueService := revenue.NewService(
		revenuePostgres.NewRevenueRepository(deps.Gorm),
		deps.Engine,
		deps.EventBus,
		deps.Config.Access.EffectiveExportLimit(),
		deps.Logger,
	)

	rest.RegisterAllRoutes(deps.Router, rest.Routes{
		DB:             deps.DB.DB,
		Auth:           auth.NewHandler(authService),
		User:           user.NewHandler(userService),
		Revenue:        revenue.NewHandler(revenueService),
		Guard:          middleware.NewModuleGuard(deps.Engine, deps.EventBus, deps.Logger),
		Roles:          deps.Engine,
		RateLimiter:    deps.RateLimiter,
		OpenAPI:        doc,
		AllowedOrigins: deps.Config.Server.AllowedOrigins,
		Logger:         deps.Logger,
	})
	return nil
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	setupLogger(config)
	lg := logger.LoggerWrapper()

	engine, err := config.Access.BuildEngine()
	if err != nil {
		return nil, fmt.Errorf("failed to build access engine: %w", err)
	}

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gdb, err := initGorm(db)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	bus := events.NewEventBus(lg)
	events.NewAuditSubscriber(lg).Register(bus)

	var limiter *middleware.IPRateLimiter
	if config.RateLimit.Enabled {
		limiter = middleware.NewIPRateLimiter(config.RateLimit.RequestsPerSecond, config.RateLimit.Burst, 10*time.Minute)
	}

	return &Dependencies{
		Config:      config,
		DB:          db,
		Gorm:        gdb,
		Router:      chi.NewRouter(),
		Engine:      engine,
		EventBus:    bus,
		RateLimiter: limiter,
		Logger:      lg,
	}, nil
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}

// initGorm opens GORM on the pool already owned by sqlx.
func initGorm(db *sqlx.DB) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{Conn: db.DB}), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Warn),
	})
}
