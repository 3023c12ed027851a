package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/ShrishPande/tallyinsight/internal/adapters/advisory"
	"github.com/ShrishPande/tallyinsight/internal/adapters/datasource"
	"github.com/ShrishPande/tallyinsight/internal/adapters/synthetic"
	"github.com/ShrishPande/tallyinsight/internal/adapters/tally"
	portsrepo "github.com/ShrishPande/tallyinsight/internal/core/ports/repositories"
	"github.com/ShrishPande/tallyinsight/internal/core/services"
	"github.com/ShrishPande/tallyinsight/internal/handlers"
	"github.com/ShrishPande/tallyinsight/internal/middleware"
	"github.com/ShrishPande/tallyinsight/internal/platform/config"
	"github.com/ShrishPande/tallyinsight/internal/platform/telemetry"
	"github.com/ShrishPande/tallyinsight/internal/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// @title Tally Insight API
// @version 1.0
// @description Dashboard data for Tally companies, from a live server or the built-in demo data.

// @host localhost:8080
// @BasePath /api/v1
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize structured logger
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	ctx := context.Background()
	tracerProvider, err := telemetry.NewTracerProvider(ctx, cfg, os.Stdout)
	if err != nil {
		logger.Error("Failed to create tracer provider", slog.String("error", err.Error()))
		os.Exit(1)
	}
	otel.SetTracerProvider(tracerProvider)
	shutdownTracing := func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			logger.Error("Failed to flush traces", slog.String("error", err.Error()))
		}
	}
	defer shutdownTracing()

	repos := buildRepositories(ctx, cfg, logger, tracerProvider)
	serviceContainer := services.NewServiceContainer(cfg, repos, services.WithTracerProvider(tracerProvider))

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, CORS for the dashboard frontend)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	if len(cfg.CORSAllowedOrigins) > 0 {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowOrigins = cfg.CORSAllowedOrigins
		corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "X-Client-ID")
		corsConfig.ExposeHeaders = []string{"Content-Disposition", "X-Records-Exported", "X-Request-ID"}
		r.Use(cors.New(corsConfig))
	} else {
		logger.Warn("CORS_ALLOWED_ORIGINS is empty, browser clients on other origins will be rejected")
	}

	err = r.SetTrustedProxies(nil)
	if err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	posthogClient := utils.InitializePosthogClient(cfg.PosthogAPIKey, logger)
	defer posthogClient.Close()

	handlers.RegisterRoutes(r, cfg, serviceContainer, posthogClient)

	logger.Info("Server starting",
		slog.String("port", cfg.Port),
		slog.Bool("demo_mode", cfg.DemoMode),
		slog.String("tally_base_url", cfg.TallyBaseURL),
		slog.String("trace_exporter", cfg.OTelExporter))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		shutdownTracing()
		os.Exit(1)
	}
}

// buildRepositories wires the outbound adapters. Insights fall back to fixed text without a Gemini key.
func buildRepositories(ctx context.Context, cfg *config.Config, logger *slog.Logger, tp trace.TracerProvider) portsrepo.RepositoryProvider {
	client := tally.NewClient(
		tally.WithTracerProvider(tp),
		tally.WithTimeout(cfg.TallyTimeout),
		tally.WithRateLimit(cfg.TallyRateLimit),
	)
	demo := synthetic.NewSource(synthetic.WithLatency(cfg.SyntheticLatency))

	repos := portsrepo.RepositoryProvider{
		Sources:   datasource.NewFactory(client, demo),
		Transport: client,
	}

	if cfg.GeminiAPIKey == "" {
		return repos
	}
	gemini, err := advisory.NewGeminiClient(ctx, cfg.GeminiAPIKey, advisory.WithModel(cfg.GeminiModel))
	if err != nil {
		logger.Warn("Failed to create Gemini client, insights will use the fallback text", slog.String("error", err.Error()))
		return repos
	}
	repos.Advisory = gemini
	return repos
}
