package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Vitek192/sola-sub000/internal/domain/repository"
	"github.com/Vitek192/sola-sub000/internal/usecase"
	pkgch "github.com/Vitek192/sola-sub000/pkg/clickhouse"
	"github.com/Vitek192/sola-sub000/pkg/config"
	xhttp "github.com/Vitek192/sola-sub000/pkg/http"
	pkgkafka "github.com/Vitek192/sola-sub000/pkg/kafka"
	applogger "github.com/Vitek192/sola-sub000/pkg/logger"
	"github.com/Vitek192/sola-sub000/pkg/queue"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg       *config.Config
	logger    *applogger.Logger
	tracker   *usecase.Tracker
	collector *usecase.LaunchCollector
	scanner   *usecase.Scanner
	consumer  *pkgkafka.Consumer
	kh        pkgkafka.MessageHandler
	jobQueue  *queue.RedisQueue
	graveyard repository.GraveyardStore
	state     repository.StateStore
	alerts    repository.AlertPublisher
	chClient  *pkgch.Client

	httpServer  *xhttp.Server
	httpHandler xhttp.Handler
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	logger *applogger.Logger,
	tracker *usecase.Tracker,
	collector *usecase.LaunchCollector,
	scanner *usecase.Scanner,
	consumer *pkgkafka.Consumer,
	kh pkgkafka.MessageHandler,
	jobQueue *queue.RedisQueue,
	graveyard repository.GraveyardStore,
	state repository.StateStore,
	alerts repository.AlertPublisher,
	chClient *pkgch.Client,
) *App {
	return &App{
		cfg:       cfg,
		logger:    logger,
		tracker:   tracker,
		collector: collector,
		scanner:   scanner,
		consumer:  consumer,
		kh:        kh,
		jobQueue:  jobQueue,
		graveyard: graveyard,
		state:     state,
		alerts:    alerts,
		chClient:  chClient,
	}
}

// SetHTTPHandler allows DI to inject an HTTP handler.
func (a *App) SetHTTPHandler(h xhttp.Handler) { a.httpHandler = h }

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	l := a.logger

	if a.graveyard != nil {
		if err := a.graveyard.Init(ctx); err != nil {
			l.Error("graveyard init failed", applogger.Error(err))
			return err
		}
	}

	a.restoreState(ctx)

	a.httpServer = xhttp.NewServer(a.httpHandler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)

	// Launch stream
	go func() {
		if err := a.collector.Start(ctx); err != nil {
			l.Error("launch collector error", applogger.Error(err))
		}
	}()
	l.Info("launch collector started", applogger.String("url", a.cfg.PumpStream.WebSocketURL))

	// Filter loop
	a.scanner.Start(ctx)
	l.Info("scanner started", applogger.Duration("interval", a.scanner.Interval()))

	// Strategy updates from the settings surface
	if a.consumer != nil && a.kh != nil {
		a.consumer.RegisterHandler(a.kh)
		go func() {
			if err := a.consumer.Start(); err != nil {
				l.Error("kafka consumer error", applogger.Error(err))
			}
		}()
		l.Info("kafka consumer started", applogger.String("topic", a.kh.Topic()))
	}

	// Analysis job workers
	if a.jobQueue != nil {
		if err := a.jobQueue.Start(); err != nil {
			l.Error("job queue start error", applogger.Error(err))
		} else {
			l.Info("analysis job queue started")
		}
	}

	// HTTP API
	if err := a.httpServer.Start(); err != nil {
		l.Error("http server start error", applogger.Error(err))
		return err
	}
	l.Info("http server started", applogger.Int("port", a.cfg.Server.Port))

	// Wait for interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	l.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// restoreState seeds the tracker from the last persisted snapshot.
func (a *App) restoreState(ctx context.Context) {
	if a.state == nil {
		return
	}
	l := a.logger

	if cfg, err := a.state.LoadStrategy(ctx); err != nil {
		l.Warn("strategy restore failed", applogger.Error(err))
	} else {
		a.tracker.SetStrategy(cfg)
	}

	tokens, err := a.state.LoadTokens(ctx)
	if err != nil {
		l.Warn("token restore failed", applogger.Error(err))
		return
	}
	alerts, err := a.state.LoadAlerts(ctx)
	if err != nil {
		l.Warn("alert restore failed", applogger.Error(err))
	}
	a.tracker.Restore(tokens, alerts, nil)
	l.Info("state restored",
		applogger.Int("tokens", len(tokens)),
		applogger.Int("alerts", len(alerts)))
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	l := a.logger
	l.Info("shutting down...")

	// Stop ingest first so no new tokens arrive mid-drain
	if err := a.collector.Shutdown(ctx); err != nil {
		l.Warn("collector stop error", applogger.Error(err))
	}
	a.scanner.Stop()

	// Shutdown HTTP server
	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		l.Error("http shutdown error", applogger.Error(err))
	}

	// Stop consumer
	if a.consumer != nil {
		if err := a.consumer.Stop(ctx); err != nil {
			l.Warn("kafka consumer stop error", applogger.Error(err))
		}
	}

	// Stop job workers
	if a.jobQueue != nil {
		if err := a.jobQueue.Stop(shutdownCtx); err != nil {
			l.Warn("job queue stop error", applogger.Error(err))
		}
	}

	// Final state snapshot before connections close
	if a.state != nil {
		if err := a.state.SaveTokens(ctx, a.tracker.Tokens()); err != nil {
			l.Warn("final token save error", applogger.Error(err))
		}
		if err := a.state.SaveAlerts(ctx, a.tracker.Alerts()); err != nil {
			l.Warn("final alert save error", applogger.Error(err))
		}
	}

	// Close infrastructure clients
	if a.alerts != nil {
		if err := a.alerts.Close(); err != nil {
			l.Warn("alert publisher close error", applogger.Error(err))
		}
	}
	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			l.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	l.Info("shutdown complete")
	return nil
}
