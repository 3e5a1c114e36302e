package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/biofad/lis/internal/config"
	"github.com/biofad/lis/internal/domain/catalog"
	"github.com/biofad/lis/internal/domain/identity"
	"github.com/biofad/lis/internal/domain/orders"
	"github.com/biofad/lis/internal/domain/portal"
	"github.com/biofad/lis/internal/platform/auth"
	"github.com/biofad/lis/internal/platform/db"
	"github.com/biofad/lis/internal/platform/middleware"
)

// RecentOrdersAdapter adapts an orders.OrderRepository to the
// identity.RecentOrderLister interface, avoiding circular imports between
// the identity and orders packages.
type RecentOrdersAdapter struct {
	repo orders.OrderRepository
}

// NewRecentOrdersAdapter creates a new adapter.
func NewRecentOrdersAdapter(repo orders.OrderRepository) *RecentOrdersAdapter {
	return &RecentOrdersAdapter{repo: repo}
}

// ListRecentByPatient implements identity.RecentOrderLister.
func (a *RecentOrdersAdapter) ListRecentByPatient(ctx context.Context, patientID int64, limit int) ([]identity.OrderSummary, error) {
	rows, err := a.repo.ListRecentByPatient(ctx, patientID, limit)
	if err != nil {
		return nil, err
	}

	result := make([]identity.OrderSummary, 0, len(rows))
	for _, o := range rows {
		result = append(result, identity.OrderSummary{
			ID:             o.ID,
			Protocolo:      o.Protocolo,
			Estado:         o.Estado,
			FechaCreacion:  o.FechaCreacion,
			Determinations: o.Determinations,
		})
	}
	return result, nil
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "lis-server",
		Short: "Laboratory order management API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			count, err := migrator.Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			statuses, err := migrator.Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	// Database
	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = middleware.ErrorHandler(logger, cfg.IsDev())

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))

	originChecker := middleware.NewOriginChecker(cfg.CORSOrigins, cfg.CORSOriginSuffixes)
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOriginFunc:  originChecker.Allow,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
	}))

	// Health
	e.GET("/health", db.HealthHandler())
	e.GET("/health/db", db.DBHealthHandler(pool))

	// Repositories
	patientRepo := identity.NewPatientRepoPG(pool)
	physicianRepo := identity.NewPhysicianRepoPG(pool)
	determinationRepo := catalog.NewDeterminationRepoPG(pool)
	orderRepo := orders.NewOrderRepoPG(pool)
	resultRepo := orders.NewResultRepoPG(pool)
	credentialRepo := portal.NewCredentialRepoPG(pool)

	// Services
	identitySvc := identity.NewService(patientRepo, physicianRepo)
	catalogSvc := catalog.NewService(determinationRepo)
	ordersSvc := orders.NewService(orderRepo, resultRepo, patientRepo, physicianRepo, determinationRepo)
	portalSvc := portal.NewService(credentialRepo, patientRepo, physicianRepo, orderRepo, resultRepo, determinationRepo, cfg.BcryptCost)

	// Routes
	api := e.Group("/api")
	if cfg.AuthEnabled() {
		staff := e.Group("/api", auth.JWTMiddleware(auth.JWTConfig{
			Secret:   []byte(cfg.AuthJWTSecret),
			Issuer:   cfg.AuthIssuer,
			Audience: cfg.AuthAudience,
		}))
		identity.NewHandler(identitySvc, NewRecentOrdersAdapter(orderRepo)).RegisterRoutes(staff)
		catalog.NewHandler(catalogSvc).RegisterRoutes(staff)
		orders.NewHandler(ordersSvc).RegisterRoutes(staff)
	} else {
		identity.NewHandler(identitySvc, NewRecentOrdersAdapter(orderRepo)).RegisterRoutes(api)
		catalog.NewHandler(catalogSvc).RegisterRoutes(api)
		orders.NewHandler(ordersSvc).RegisterRoutes(api)
	}
	// Portal routes authenticate by dni/password, never by staff token.
	portal.NewHandler(portalSvc).RegisterRoutes(api)

	e.RouteNotFound("/*", middleware.NotFoundHandler)

	// Start server
	addr := ":" + cfg.Port
	go func() {
		logger.Info().Str("addr", addr).Msg("server listening")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server stopped")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
