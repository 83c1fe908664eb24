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

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/grupomivyca/mivyca-backend/internal"
	"github.com/grupomivyca/mivyca-backend/internal/access"
	accessdb "github.com/grupomivyca/mivyca-backend/internal/access/postgres"
	"github.com/grupomivyca/mivyca-backend/internal/auth"
	"github.com/grupomivyca/mivyca-backend/internal/company"
	companydb "github.com/grupomivyca/mivyca-backend/internal/company/postgres"
	"github.com/grupomivyca/mivyca-backend/internal/core/events"
	"github.com/grupomivyca/mivyca-backend/internal/fleet"
	fleetdb "github.com/grupomivyca/mivyca-backend/internal/fleet/postgres"
	"github.com/grupomivyca/mivyca-backend/internal/inventory"
	inventorydb "github.com/grupomivyca/mivyca-backend/internal/inventory/postgres"
	"github.com/grupomivyca/mivyca-backend/internal/metrics"
	"github.com/grupomivyca/mivyca-backend/internal/orders"
	ordersdb "github.com/grupomivyca/mivyca-backend/internal/orders/postgres"
	"github.com/grupomivyca/mivyca-backend/internal/transport/rest"
	"github.com/grupomivyca/mivyca-backend/internal/user"
	userdb "github.com/grupomivyca/mivyca-backend/internal/user/postgres"
	"github.com/grupomivyca/mivyca-backend/pkg/logger"
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
	Config   *internal.Config
	DB       *sqlx.DB
	Router   *chi.Mux
	Handlers rest.Handlers
	Logger   *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	rest.RegisterAllRoutes(
		deps.Router,
		deps.DB.DB,
		deps.Handlers,
		rest.RouterConfig{
			AllowedOrigins: deps.Config.Server.AllowedOrigins,
			MetricsEnabled: deps.Config.Observability.Metrics.Enabled,
			MetricsPath:    deps.Config.Observability.Metrics.Path,
		},
		deps.Logger,
	)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	slog.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		slog.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			slog.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("Server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(config.Observability.Logging.Level, config.Observability.Logging.Format)
	lg := logger.L()

	// Collectors are always registered; the enabled flag only controls the
	// middleware and the /metrics endpoint. Domain code increments counters
	// unconditionally.
	metrics.Init(config.Observability.Metrics.Prefix)

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// GORM rides the same pgx connection pool sqlx opened.
	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db.DB}), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize orm: %w", err)
	}

	bus := events.NewBus(lg)
	subscribeAuditHandlers(bus, lg)

	userRepo := userdb.NewUserRepository(gormDB)
	companyRepo := companydb.NewCompanyRepository(gormDB)
	accessRepo := accessdb.NewAccessRepository(gormDB)
	productRepo := inventorydb.NewProductRepository(gormDB)
	vehicleRepo := fleetdb.NewVehicleRepository(gormDB)
	orderRepo := ordersdb.NewOrderRepository(gormDB)

	companyService := company.NewService(companyRepo, lg)

	tokenGen := auth.NewJWTTokenGenerator(
		config.Security.AccessTokenSecret,
		config.Security.RefreshTokenSecret,
		config.Security.AccessTokenDuration,
		config.Security.RefreshTokenDuration,
	)

	hasher := auth.NewBcryptHasher(config.Security.BCryptCost)
	userService := user.NewService(userRepo, hasher, lg)
	accessService := access.NewService(accessRepo, userService, companyService, bus, lg)
	authService := auth.NewService(userService, accessService, tokenGen, lg)

	inventoryService := inventory.NewService(productRepo, lg)
	fleetService := fleet.NewService(vehicleRepo, lg)
	orderService := orders.NewService(orderRepo, bus, lg)

	handlers := rest.Handlers{
		Auth:      auth.NewHandler(authService),
		User:      user.NewHandler(userService),
		Company:   company.NewHandler(companyService),
		Access:    access.NewHandler(accessService),
		Inventory: inventory.NewHandler(inventoryService),
		Fleet:     fleet.NewHandler(fleetService),
		Orders:    orders.NewHandler(orderService),
	}

	return &Dependencies{
		Config:   config,
		Logger:   lg,
		DB:       db,
		Router:   chi.NewRouter(),
		Handlers: handlers,
	}, nil
}

func subscribeAuditHandlers(bus *events.Bus, lg *slog.Logger) {
	bus.Subscribe(events.EventTypeAccessGranted, func(ctx context.Context, e events.Event) error {
		lg.Info("audit: access granted", "fields", e.Fields())
		return nil
	})
	bus.Subscribe(events.EventTypeAccessRevoked, func(ctx context.Context, e events.Event) error {
		lg.Info("audit: access revoked", "fields", e.Fields())
		return nil
	})
	bus.Subscribe(events.EventTypeOrderStatus, func(ctx context.Context, e events.Event) error {
		lg.Info("audit: order status changed", "fields", e.Fields())
		return nil
	})
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
