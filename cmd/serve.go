package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Vovarama1992/archive/internal/config"
	"github.com/Vovarama1992/archive/internal/delivery"
	ws "github.com/Vovarama1992/archive/internal/delivery/ws"
	"github.com/Vovarama1992/archive/internal/domain"
	"github.com/Vovarama1992/archive/internal/domain/thumbnail"
	"github.com/Vovarama1992/archive/internal/infra"
)

type serveOptions struct {
	ConfigPath string
}

func newServeCommand() *cobra.Command {
	opts := &serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "YAML config file (overrides $"+config.ConfigPathEnvVar+")")
	return cmd
}

func runServe(ctx context.Context, opts *serveOptions) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// LOGGER
	zcore, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer zcore.Sync()
	zl := logger.NewZapLogger(zcore.Sugar())

	// CONFIG
	if opts.ConfigPath != "" {
		os.Setenv(config.ConfigPathEnvVar, opts.ConfigPath)
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.Auth.AdminPassword == "changeme" {
		zl.Log(logger.LogEntry{
			Level:   "warn",
			Message: "ADMIN_PASSWORD is the default; set it before exposing the admin API",
		})
	}

	// POSTGRES
	pool, err := infra.NewPgxPool(ctx, cfg.Database.URL, cfg.Database.MaxConns)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := infra.EnsureSchema(ctx, pool); err != nil {
		return err
	}

	// STORAGE
	storage, err := infra.NewS3Storage(ctx, infra.S3Options{
		Endpoint:      cfg.Storage.Endpoint,
		Region:        cfg.Storage.Region,
		Bucket:        cfg.Storage.Bucket,
		AccessKey:     cfg.Storage.AccessKey,
		SecretKey:     cfg.Storage.SecretKey,
		PublicURLBase: cfg.Storage.PublicURLBase,
		PathStyle:     cfg.Storage.PathStyle,
		CacheControl:  cfg.Storage.CacheControl,
	})
	if err != nil {
		return err
	}

	// THUMBNAILS
	raster, err := thumbnail.NewRasterizer(cfg.Thumbnail.Rasterizer, cfg.Thumbnail.Pdftoppm)
	if err != nil {
		return err
	}
	thumbs := thumbnail.NewGenerator(raster,
		thumbnail.WithCompression(cfg.Thumbnail.CompressionLevel()),
		thumbnail.WithScale(cfg.Thumbnail.Scale),
		thumbnail.WithMaxPixels(cfg.Thumbnail.MaxPixels),
	)

	// SERVICES
	authService := domain.NewAuthService(cfg.Auth.AdminPassword, cfg.Auth.Secret)
	resourceService := domain.NewResourceService(infra.NewPostgresResourceRepo(pool), storage, thumbs)

	// WS HUB
	hub := ws.NewHub()
	go hub.Run(ctx, resourceService.Events())

	// ROUTER
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "X-Auth"},
		AllowCredentials: true,
	}))

	delivery.RegisterRoutes(r,
		authService,
		delivery.LoginLimit{Rate: cfg.Auth.LoginRate, Window: cfg.Auth.LoginWindow},
		delivery.NewAuthHandler(authService, zl),
		delivery.NewResourceHandler(resourceService, cfg.Server.MaxUploadMB, zl),
		delivery.NewEmbedHandler(),
		delivery.NewThumbnailHandler(thumbs, cfg.Thumbnail.Scale, cfg.Server.MaxUploadMB, zl),
	)

	r.Get("/ws", ws.WSHandler(hub))
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	errCh := make(chan error, 1)
	go func() {
		zl.Log(logger.LogEntry{
			Level:   "info",
			Message: "server started",
			Fields:  map[string]any{"port": cfg.Server.Port},
		})
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			zl.Log(logger.LogEntry{
				Level:   "error",
				Message: "server crashed",
				Error:   err,
			})
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	zl.Log(logger.LogEntry{
		Level:   "info",
		Message: "shutting down",
	})
	return srv.Shutdown(shutdownCtx)
}
