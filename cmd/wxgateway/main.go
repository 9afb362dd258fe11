// Command wxgateway runs the multi-tenant callback gateway as a standalone
// server: it verifies and decrypts vendor callbacks, dispatches them to the
// configured handler set, and exposes the tenant admin API.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rwsbillyang/go-weixin-gateway/internal/config"
	"github.com/rwsbillyang/go-weixin-gateway/internal/server"
	"github.com/rwsbillyang/go-weixin-gateway/internal/storage"
	"github.com/rwsbillyang/go-weixin-gateway/internal/storage/memstore"
	"github.com/rwsbillyang/go-weixin-gateway/internal/storage/mongodb"
	"github.com/rwsbillyang/go-weixin-gateway/pkg/oa"
	"github.com/rwsbillyang/go-weixin-gateway/pkg/work"
)

var version = "0.1.0"

var (
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "wxgateway",
	Short: "Multi-tenant callback gateway for Official Account and Work platforms",
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the gateway server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("wxgateway v%s\n", version)
	},
}

func init() {
	serveCmd.Flags().StringVarP(&configPath, "config", "c", "config.yaml", "Path to configuration file")
	serveCmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serve() error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := newLogger(logLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}

	srv, err := server.New(cfg, store, defaultHandler(cfg.Platform.Name), defaultSuiteHandler(cfg.Platform.Name), logger)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		if err := srv.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (storage.Store, error) {
	switch cfg.Storage.Mode {
	case "mongodb":
		logger.Info("using mongodb storage", "database", cfg.Storage.MongoDB.Database)
		store, err := mongodb.NewStore(ctx, &mongodb.Config{
			URI:      cfg.Storage.MongoDB.URI,
			Database: cfg.Storage.MongoDB.Database,
		})
		if err != nil {
			return nil, fmt.Errorf("connecting to storage: %w", err)
		}
		return store, nil
	case "memory":
		logger.Info("using in-memory storage", "seeded_tenants", len(cfg.Storage.Tenants))
		store := memstore.NewStore()
		store.Replace(seedTenants(cfg))
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage mode %q", cfg.Storage.Mode)
	}
}

func seedTenants(cfg *config.Config) []*storage.Tenant {
	tenants := make([]*storage.Tenant, 0, len(cfg.Storage.Tenants))
	for _, seed := range cfg.Storage.Tenants {
		tenants = append(tenants, &storage.Tenant{
			ID:             seed.ID,
			Name:           seed.Name,
			Token:          seed.Token,
			EncodingAESKey: seed.EncodingAESKey,
			ReceiverID:     seed.ReceiverID,
			AgentID:        seed.AgentID,
			Status:         storage.TenantStatusActive,
		})
	}
	return tenants
}

// The standalone binary acknowledges every callback without producing
// content replies. Deployments that need replies embed the server package
// and register their own handler.
func defaultHandler(platform string) any {
	if platform == "oa" {
		return oa.NopHandler{}
	}
	return work.NopHandler{}
}

func defaultSuiteHandler(platform string) any {
	if platform == "work-isv" {
		return work.NopSuiteHandler{}
	}
	return nil
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
