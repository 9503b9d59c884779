// Command trivia-tender is the main entrypoint for the trivia chat bot.
// It:
//   - Loads configuration and initializes structured logging.
//   - Opens the JSON-file leaderboard (missing or corrupt files start empty).
//   - Connects the Twitch chat bot and starts the daily trivia job.
//   - Exposes a minimal HTTP server with /healthz, /status, /leaderboard and /metrics.
//
// Shutdown is graceful on SIGINT/SIGTERM. Missing Twitch credentials abort startup.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/onnwee/trivia-tender/bot"
	"github.com/onnwee/trivia-tender/config"
	"github.com/onnwee/trivia-tender/server"
	"github.com/onnwee/trivia-tender/telemetry"
	"github.com/onnwee/trivia-tender/trivia"
	"github.com/onnwee/trivia-tender/triviaapi"
)

func main() {
	// Load .env file if present (local dev convenience only; production relies on real env)
	_ = godotenv.Load()

	// Configure logging (level + format). Defaults: level=info, format=text.
	lvl := slog.LevelInfo
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	case "info", "":
		// keep default
	default:
		tmp := slog.New(slog.NewTextHandler(os.Stdout, nil))
		tmp.Warn("unknown LOG_LEVEL, using info", slog.String("value", os.Getenv("LOG_LEVEL")))
	}
	format := strings.ToLower(os.Getenv("LOG_FORMAT")) // text | json
	var handler slog.Handler
	switch format {
	case "json":
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	default:
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	}
	slog.SetDefault(slog.New(handler))

	// Config
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", slog.Any("err", err))
		os.Exit(1)
	}
	// The bot is the whole point; refuse to start without chat credentials.
	if err := cfg.ValidateChatReady(); err != nil {
		slog.Error("chat credentials missing", slog.Any("err", err))
		os.Exit(1)
	}

	// Metrics / telemetry init
	telemetry.Init()

	// Initialize OpenTelemetry tracing (optional; requires OTEL_EXPORTER_OTLP_ENDPOINT)
	shutdown, err := telemetry.InitTracing("trivia-tender", "1.0.0")
	if err != nil {
		slog.Error("tracing initialization failed", slog.Any("err", err))
		os.Exit(1)
	}
	defer shutdown()

	// Root context with graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Core wiring: provider -> engine -> transport.
	provider := &triviaapi.Client{
		APIKey:  cfg.TriviaAPIKey,
		BaseURL: cfg.TriviaAPIBaseURL,
		Timeout: cfg.TriviaAPITimeout,
	}
	scores := trivia.OpenStore(cfg.LeaderboardFile)
	slog.Info("leaderboard loaded", slog.String("path", cfg.LeaderboardFile), slog.Int("players", scores.Players()))
	engine := trivia.NewEngine(provider, trivia.NewRegistry(), scores, cfg.CommandPrefix)

	b := bot.New(cfg, engine)
	go func() {
		if err := b.Run(ctx); err != nil {
			slog.Error("twitch chat bot exited with error", slog.Any("err", err))
			stop()
		}
	}()

	go bot.StartDailyTriviaJob(ctx, engine, b.Say, cfg.DailyChannel, cfg.DailyInterval)

	// HTTP server (health/status/leaderboard/metrics)
	go func() {
		if err := server.Start(ctx, engine, cfg.HTTPAddr); err != nil {
			slog.Error("http server exited with error", slog.Any("err", err))
		}
	}()

	// Block until shutdown signal
	<-ctx.Done()
	slog.Info("shutting down")
}
