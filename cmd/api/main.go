package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	salesdesk "salesdesk_backend"
	"salesdesk_backend/internal/adapters"
	"salesdesk_backend/internal/email"
	"salesdesk_backend/internal/events"
	apphttp "salesdesk_backend/internal/http"
	"salesdesk_backend/internal/http/router"
	"salesdesk_backend/internal/leads"
	"salesdesk_backend/internal/opportunities"
	"salesdesk_backend/internal/quotations"
	"salesdesk_backend/internal/tickets"
	"salesdesk_backend/internal/whatsapp"
	"salesdesk_backend/platform/config"
	"salesdesk_backend/platform/db"
	"salesdesk_backend/platform/logger"
	"salesdesk_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	migrations, err := fs.Sub(salesdesk.Migrations, "migrations")
	if err != nil {
		panic("failed to open embedded migrations: " + err.Error())
	}
	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, migrations)
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	// Shared validator instance for dependency injection
	val := validator.New()

	// Outbound channels. A nil SMTP sender puts email dispatch on the
	// manual-send fallback path.
	smtpSender := email.NewSMTPSender(cfg, cfg)
	if smtpSender == nil {
		log.Warn("SMTP not configured; quotation emails fall back to manual sending")
	}
	waComposer := whatsapp.NewComposer(cfg)

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	opportunitiesModule := opportunities.NewModule(pool, val)
	leadsModule := leads.NewModule(pool, log)
	ticketsModule := tickets.NewModule(pool)

	var sender email.Sender
	if smtpSender != nil {
		sender = smtpSender
	}
	quotationsModule := quotations.NewModule(pool, val, log, eventBus,
		adapters.NewDispatchMailer(sender), adapters.NewWhatsAppComposer(waComposer))

	// Dispatch events feed the lead timeline, off the request path.
	adapters.NewQuotationTimelineSubscriber(eventBus, leadsModule.Service(), log)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   pool,
		EventBus: eventBus,
		Modules: []apphttp.Module{
			opportunitiesModule,
			leadsModule,
			ticketsModule,
			quotationsModule,
		},
	}

	engine := router.New(app)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		panic("server error: " + err.Error())
	}
	log.Info("server stopped")
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
