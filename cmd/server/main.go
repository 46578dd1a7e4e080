package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/MatthewLi-UW/voice-chat-emotion-detection/internal/classifier"
	"github.com/MatthewLi-UW/voice-chat-emotion-detection/internal/config"
	"github.com/MatthewLi-UW/voice-chat-emotion-detection/internal/logging"
	"github.com/MatthewLi-UW/voice-chat-emotion-detection/internal/metrics"
	"github.com/MatthewLi-UW/voice-chat-emotion-detection/internal/server"
	"github.com/MatthewLi-UW/voice-chat-emotion-detection/internal/tilt"
	"github.com/MatthewLi-UW/voice-chat-emotion-detection/internal/version"
	"github.com/MatthewLi-UW/voice-chat-emotion-detection/internal/voice"
	ws "github.com/MatthewLi-UW/voice-chat-emotion-detection/internal/websocket"
)

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func setupEngine(cfg *config.Config, clock clockwork.Clock) *tilt.Engine {
	store := tilt.NewStore(clock, cfg.DecayRate)

	var cls tilt.Classifier
	if cfg.ClassifierURL != "" {
		cls = classifier.New(cfg.ClassifierURL, cfg.ClassifierTimeout)
		slog.Info("Sentiment classifier enabled", "url", cfg.ClassifierURL)
	}
	analyzer := tilt.NewAnalyzer(cls)

	var limiter *tilt.UserLimiter
	if cfg.SignalRateLimit > 0 {
		limiter = tilt.NewUserLimiter(cfg.SignalRateLimit, cfg.SignalRateBurst)
	}

	sensitivity, err := tilt.ParseSensitivity(cfg.Sensitivity)
	if err != nil {
		slog.Error("Invalid sensitivity level", "error", err)
		os.Exit(1)
	}

	return tilt.NewEngine(store, analyzer, limiter, sensitivity)
}

func runGracefulShutdown(srv *server.Server, voiceMgr *voice.Manager, hub *ws.Hub) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		voiceMgr.Shutdown()
		hub.Stop()

		close(done)
	}()

	return done
}

func main() {
	clock := clockwork.NewRealClock()

	cfg := setupConfig()

	// Initialize structured logging
	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Application starting", "env", cfg.AppEnv, "port", cfg.Port)

	info := version.Get()
	metrics.BuildInfo.WithLabelValues(info.Version, info.Commit, info.GoVersion).Set(1)

	engine := setupEngine(cfg, clock)
	voiceMgr := voice.NewManager(engine)

	hub := ws.NewHub(engine, clock)
	engine.SetAlertFunc(hub.Alert)

	srv := server.NewServer(cfg, engine, voiceMgr, hub)

	done := runGracefulShutdown(srv, voiceMgr, hub)

	slog.Info("Server starting", "port", cfg.Port)
	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
}
