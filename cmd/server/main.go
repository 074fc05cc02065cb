// Academic enrollment chatbot server.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/acampos/matriculabot/internal/bot"
	"github.com/acampos/matriculabot/internal/career"
	"github.com/acampos/matriculabot/internal/command"
	"github.com/acampos/matriculabot/internal/config"
	"github.com/acampos/matriculabot/internal/conversation"
	"github.com/acampos/matriculabot/internal/enrollment"
	"github.com/acampos/matriculabot/internal/gateway"
	"github.com/acampos/matriculabot/internal/i18n"
	"github.com/acampos/matriculabot/internal/middleware"
	"github.com/acampos/matriculabot/internal/session"
	"github.com/acampos/matriculabot/internal/store"
	"github.com/acampos/matriculabot/internal/term"
	"github.com/acampos/matriculabot/internal/transcript"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
)

const sweepInterval = 5 * time.Minute

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting server", "port", cfg.Port, "dev", cfg.IsDevelopment())

	repo, err := store.NewSQLite(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := repo.Close(); closeErr != nil {
			slog.Error("Failed to close repository", "error", closeErr)
		}
	}()

	if err := repo.Ping(context.Background()); err != nil {
		slog.Error("Database health check failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database connected")

	termResolver, err := term.New(cfg.TermTimezone, cfg.TermOverride)
	if err != nil {
		slog.Error("Failed to initialize term resolver", "error", err)
		os.Exit(1)
	}
	slog.Info("Active term resolved", "term", termResolver())

	sessions := session.New(cfg.DefaultLocale, cfg.SessionTTL)
	messages := i18n.New()

	machine := conversation.New(repo, messages, cfg.AdminSecret)
	router := command.New(
		repo,
		messages,
		enrollment.New(repo),
		career.New(repo),
		transcript.NewTextRenderer(),
		termResolver,
	)
	chatBot := bot.New(sessions, machine, router, messages)

	registry := gateway.NewRegistry()
	wsHandler := gateway.NewHandler(chatBot, registry, cfg.IsDevelopment())

	allowedOrigins := []string{"*"}
	if cfg.FrontendURL != "" {
		allowedOrigins = []string{cfg.FrontendURL}
	}

	// Setup router.
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))
	r.Use(middleware.CORS(allowedOrigins))

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		if err := repo.Ping(req.Context()); err != nil {
			http.Error(w, `{"status":"unhealthy"}`, http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/ws/chat", wsHandler.ServeHTTP)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // websocket connections stay open
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sessions.StartSweeper(ctx, sweepInterval)

	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	stop()

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server stopped successfully")
}
