package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/nsvirk/nsegateway/internal/api"
	"github.com/nsvirk/nsegateway/internal/api/middleware"
	"github.com/nsvirk/nsegateway/internal/config"
	"github.com/nsvirk/nsegateway/internal/metrics"
	"github.com/nsvirk/nsegateway/internal/nse"
	"github.com/nsvirk/nsegateway/internal/repository"
	"github.com/nsvirk/nsegateway/internal/service"
	"github.com/nsvirk/nsegateway/pkg/utils/zaplogger"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "nsegateway",
		Short:         "Session-aware gateway for the NSE option chain, quote and market status API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
	root.AddCommand(newServeCmd(), newFetchCmd())
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP gateway",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
}

func newFetchCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "fetch optionchain|equity|marketstatus [identifier]",
		Short:     "Run one dispatch against the upstream and print the raw payload",
		ValidArgs: []string{"optionchain", "equity", "marketstatus"},
		Args:      cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseKind(args[0])
			if err != nil {
				return err
			}
			identifier := ""
			if len(args) == 2 {
				identifier = args[1]
			}

			cfg, err := config.Get()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			zaplogger.SetLogLevel(cfg.ServerLogLevel)
			defer zaplogger.Sync()

			dispatcher := newDispatcher(cfg, nil)
			result, err := dispatcher.Dispatch(context.Background(), nse.Request{Kind: kind, Identifier: identifier})
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(append(result.Payload, '\n'))
			return err
		},
	}
}

func parseKind(s string) (nse.Kind, error) {
	switch strings.ToLower(s) {
	case "optionchain", "option-chain", "oc":
		return nse.OptionChain, nil
	case "equity", "quote":
		return nse.EquityQuote, nil
	case "marketstatus", "market-status", "status":
		return nse.MarketStatus, nil
	default:
		return 0, fmt.Errorf("unknown kind %q, want optionchain, equity or marketstatus", s)
	}
}

func newDispatcher(cfg *config.Config, observer nse.Observer) *nse.Dispatcher {
	client := nse.NewClient(cfg.UpstreamBaseURL, cfg.UpstreamTimeout, nse.NewRandomUserAgents())
	opts := []nse.Option{nse.WithMaxAttempts(cfg.MaxAttempts)}
	if observer != nil {
		opts = append(opts, nse.WithObserver(observer))
	}
	return nse.NewDispatcher(nse.NewCookieSessionProvider(client), client, opts...)
}

func runServe() error {
	cfg, err := config.Get()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	defer zaplogger.Sync()
	zaplogger.SetLogLevel(cfg.ServerLogLevel)
	fmt.Println(cfg.String())

	deps := api.Deps{}
	var recorders []service.Recorder

	// Postgres journal and log sink, optional
	if cfg.PostgresEnabled() {
		db, err := repository.ConnectPostgres(cfg)
		if err != nil {
			return err
		}
		if err := zaplogger.InitLogger(db); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		journal := repository.NewJournalRepository(db)
		recorders = append(recorders, journal)
		deps.Journal = journal
		zaplogger.Info("Postgres initialized")
	}

	// Redis stats, optional
	stats := repository.NewStatsRepository(nil)
	if cfg.RedisEnabled() {
		redisClient, err := repository.ConnectRedis(cfg)
		if err != nil {
			return err
		}
		defer redisClient.Close()
		stats = repository.NewStatsRepository(redisClient)
		zaplogger.Info("Redis initialized")
	}
	recorders = append(recorders, stats)
	deps.Stats = stats

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewMetrics(registry)
	recorders = append(recorders, m)
	deps.Gatherer = registry

	proxyService := service.NewProxyService(newDispatcher(cfg, m), recorders...)
	deps.Proxy = proxyService

	// Create a new Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	middleware.SetupLoggerMiddleware(e)
	middleware.SetupCORSMiddleware(e, cfg.CorsAllowOrigins)
	api.SetupRoutes(e, deps)

	cronService := service.NewCronService(proxyService, cfg.ProbeSchedule)
	cronService.Start()
	defer cronService.Stop()

	zaplogger.Info(cfg.APIName + " - " + cfg.APIVersion + " initialized")
	return startServer(e, cfg)
}

// startServer runs the Echo server until SIGINT or SIGTERM
func startServer(e *echo.Echo, cfg *config.Config) error {
	port := cfg.ServerPort
	if port == "" {
		port = "6123"
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		zaplogger.Info("SERVER STARTED ON PORT " + port)
		if err := e.Start(":" + port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	zaplogger.Info("SERVER SHUTTING DOWN")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
