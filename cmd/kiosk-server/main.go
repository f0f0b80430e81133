package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mango0421/barrier-free-kiosk/internal/config"
	"github.com/mango0421/barrier-free-kiosk/internal/domain/catalog"
	"github.com/mango0421/barrier-free-kiosk/internal/domain/chat"
	"github.com/mango0421/barrier-free-kiosk/internal/domain/document"
	"github.com/mango0421/barrier-free-kiosk/internal/domain/payment"
	"github.com/mango0421/barrier-free-kiosk/internal/domain/visit"
	"github.com/mango0421/barrier-free-kiosk/internal/platform/assistant"
	"github.com/mango0421/barrier-free-kiosk/internal/platform/csvtable"
	"github.com/mango0421/barrier-free-kiosk/internal/platform/middleware"
	"github.com/mango0421/barrier-free-kiosk/pkg/i18n"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "kiosk-server",
		Short: "Barrier-free clinic kiosk API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(catalogCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the kiosk API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
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

	// Visit store
	ctx := context.Background()
	var visits visit.Repository
	var pool *pgxpool.Pool
	switch cfg.StoreBackend {
	case config.StorePostgres:
		pool, err = pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer pool.Close()
		visits = visit.NewPGRepository(pool)
		logger.Info().Msg("using postgres visit store")
	default:
		visits = visit.NewCSVRepository(cfg.ReservationsPath(), logger)
		logger.Info().Str("path", cfg.ReservationsPath()).Msg("using csv visit store")
	}

	// Treatment catalog
	var source catalog.Source
	if filepath.Ext(cfg.CatalogPath()) == ".xlsx" {
		source = catalog.NewXLSXSource(cfg.CatalogPath())
	} else {
		source = catalog.NewCSVSource(cfg.CatalogPath())
	}
	selector := catalog.NewSelector(source, cfg.BillingSeed)

	// Services
	visitSvc := visit.NewService(visits, selector)
	paymentSvc := payment.NewService(visitSvc, payment.NewMemoryRepository(), logger)
	gate := document.NewGate(visits, source)

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost},
		AllowHeaders: []string{"Content-Type", "X-Request-ID"},
	}))

	apiV1 := e.Group("/api/v1")

	visit.NewHandler(visitSvc).RegisterRoutes(apiV1)
	payment.NewHandler(paymentSvc).RegisterRoutes(apiV1)
	document.NewHandler(gate, document.TextRenderer{}).RegisterRoutes(apiV1)

	// Conversational front end, enabled only when an API key is configured.
	if cfg.AssistantAPIKey != "" {
		client := assistant.NewClient(cfg.AssistantAPIURL, cfg.AssistantAPIKey, cfg.AssistantModel, logger)
		chatSvc := chat.NewService(client, visitSvc, paymentSvc, gate, logger)
		chat.NewHandler(chatSvc).RegisterRoutes(apiV1)
		logger.Info().Str("model", cfg.AssistantModel).Msg("chat assistant enabled")
	} else {
		logger.Warn().Msg("ASSISTANT_API_KEY not set, chat assistant disabled")
	}

	apiV1.GET("/i18n/:locale", func(c echo.Context) error {
		return c.JSON(http.StatusOK, i18n.Bundle(c.Param("locale")))
	})

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Write sample reservation and catalog files",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
				return err
			}

			reservations := &csvtable.Table{
				Header: visit.Columns,
				Rows: []map[string]string{
					{
						visit.ColName:       "홍길동",
						visit.ColRRN:        "900101-1234567",
						visit.ColTime:       time.Now().Format("2006-01-02 15:04:05"),
						visit.ColDepartment: "내과",
						visit.ColLocation:   "2층 201호",
						visit.ColDoctor:     "이의사",
						visit.ColStatus:     string(visit.StatusPending),
					},
					{
						visit.ColName:       "김철수",
						visit.ColRRN:        "850505-1987654",
						visit.ColTime:       time.Now().Format("2006-01-02 15:04:05"),
						visit.ColDepartment: "피부과",
						visit.ColLocation:   "3층 305호",
						visit.ColDoctor:     "박의사",
						visit.ColStatus:     string(visit.StatusPending),
					},
				},
			}
			if err := csvtable.Write(cfg.ReservationsPath(), reservations); err != nil {
				return fmt.Errorf("write reservations: %w", err)
			}

			fees := &csvtable.Table{
				Header: []string{"Department", "Prescription", "Fee"},
				Rows: []map[string]string{
					{"Department": "내과", "Prescription": "감기약", "Fee": "5000"},
					{"Department": "내과", "Prescription": "해열제", "Fee": "3000"},
					{"Department": "내과", "Prescription": "소화제", "Fee": "4000"},
					{"Department": "피부과", "Prescription": "연고", "Fee": "6000"},
					{"Department": "피부과", "Prescription": "항히스타민제", "Fee": "4500"},
					{"Department": "피부과", "Prescription": "보습제", "Fee": "8000"},
					{"Department": "가정의학과", "Prescription": "종합비타민", "Fee": "7000"},
					{"Department": "가정의학과", "Prescription": "진통제", "Fee": "3500"},
				},
			}
			if err := csvtable.Write(cfg.CatalogPath(), fees); err != nil {
				return fmt.Errorf("write catalog: %w", err)
			}

			fmt.Printf("Seeded %s and %s\n", cfg.ReservationsPath(), cfg.CatalogPath())
			return nil
		},
	}
}

func catalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect the treatment catalog",
	}

	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Verify the catalog file parses and summarize it",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			var source catalog.Source
			if filepath.Ext(cfg.CatalogPath()) == ".xlsx" {
				source = catalog.NewXLSXSource(cfg.CatalogPath())
			} else {
				source = catalog.NewCSVSource(cfg.CatalogPath())
			}

			entries, err := source.Load()
			if err != nil {
				return fmt.Errorf("catalog check failed: %w", err)
			}

			byDept := map[string]int{}
			bad := 0
			for _, e := range entries {
				byDept[e.Department]++
				if _, err := strconv.Atoi(e.Fee); err != nil {
					bad++
					fmt.Printf("  bad fee %q for %s/%s\n", e.Fee, e.Department, e.Name)
				}
			}
			fmt.Printf("Catalog %s: %d items across %d departments\n", cfg.CatalogPath(), len(entries), len(byDept))
			for dept, n := range byDept {
				fmt.Printf("  %-12s %d\n", dept, n)
			}
			if bad > 0 {
				return fmt.Errorf("catalog check failed: %d entries with unparseable fees", bad)
			}
			return nil
		},
	}
	cmd.AddCommand(checkCmd)
	return cmd
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the postgres visit store schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.StoreBackend != config.StorePostgres {
				return fmt.Errorf("migrate requires STORE_BACKEND=%s", config.StorePostgres)
			}

			ctx := context.Background()
			pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer pool.Close()

			if _, err := pool.Exec(ctx, visit.Schema); err != nil {
				return fmt.Errorf("apply schema: %w", err)
			}
			fmt.Println("Schema applied.")
			return nil
		},
	}
}
