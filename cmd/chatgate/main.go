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

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	openaiadapter "github.com/chatgate/chatgate/internal/adapter/driven/openai"
	smtpadapter "github.com/chatgate/chatgate/internal/adapter/driven/smtp"
	sqliteadapter "github.com/chatgate/chatgate/internal/adapter/driven/sqlite"
	stripeadapter "github.com/chatgate/chatgate/internal/adapter/driven/stripe"
	twilioadapter "github.com/chatgate/chatgate/internal/adapter/driven/twilio"
	httphandler "github.com/chatgate/chatgate/internal/adapter/driving/http"
	"github.com/chatgate/chatgate/internal/application"
	"github.com/chatgate/chatgate/internal/config"
	"github.com/chatgate/chatgate/internal/domain/port/driven"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration (reads .env when present).
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.Info("config loaded",
		"listen_addr", cfg.ListenAddr,
		"db_path", cfg.DBPath,
		"base_url", cfg.BaseURL,
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Open database (dual reader/writer with WAL mode).
	db, err := sqliteadapter.NewDB(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()
	slog.Info("database opened", "path", cfg.DBPath)

	// 4. Run migrations on writer connection.
	if err := sqliteadapter.RunMigrations(db.Writer); err != nil {
		return err
	}
	slog.Info("migrations complete")

	// 5. Wire driven adapters. Each external provider is optional; endpoints
	// that depend on a missing one answer with a configuration error.
	keyStore := sqliteadapter.NewKeyRepo(db)

	var billing driven.BillingClient
	if cfg.HasStripe() {
		billing = stripeadapter.NewClient(cfg.StripeKey, cfg.StripePriceID, cfg.BaseURL, slog.Default())
		slog.Info("billing client created")
	} else {
		slog.Info("no billing credentials configured, checkout endpoints disabled")
	}

	var completion driven.CompletionClient
	if cfg.HasOpenAI() {
		completion = openaiadapter.NewClient(cfg.OpenAIKey, cfg.OpenAIModel)
		slog.Info("completion client created", "model", cfg.OpenAIModel)
	} else {
		slog.Info("no completion credentials configured, chat endpoints disabled")
	}

	var messenger driven.Messenger
	if cfg.HasTwilio() {
		messenger = twilioadapter.NewMessenger(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioWhatsAppFrom)
		slog.Info("whatsapp messenger created", "from", cfg.TwilioWhatsAppFrom)
	} else {
		slog.Info("no messaging credentials configured, whatsapp relay disabled")
	}

	var mailer driven.Mailer
	if cfg.HasSMTP() {
		mailer = smtpadapter.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.MailFrom)
		slog.Info("mailer created", "host", cfg.SMTPHost)
	} else {
		slog.Info("no smtp configured, api keys will not be emailed")
	}

	// 6. Create the issuer service and HTTP handler.
	issuer := application.NewIssuerService(keyStore, mailer, slog.Default())
	handler := httphandler.NewHandler(keyStore, issuer, billing, completion, messenger, cfg.WhatsAppTo, slog.Default())

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           httphandler.NewServeMux(handler, slog.Default()),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      90 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server error", "error", err)
		}
	}()

	slog.Info("chatgate started", "listen_addr", cfg.ListenAddr)

	// 7. Wait for shutdown signal.
	<-ctx.Done()
	slog.Info("shutting down")

	// 8. Graceful shutdown with 10s timeout to drain in-flight requests.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}
