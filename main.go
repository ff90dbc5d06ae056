package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/paddio-admin/internal/config"
	"github.com/mauv0809/paddio-admin/internal/database"
	server "github.com/mauv0809/paddio-admin/internal/http"
	"github.com/mauv0809/paddio-admin/internal/metrics"
	"github.com/mauv0809/paddio-admin/internal/notifier"
	"github.com/mauv0809/paddio-admin/internal/notifier/slack"
	"github.com/mauv0809/paddio-admin/internal/paddio"
	"github.com/mauv0809/paddio-admin/internal/pubsub"
	"github.com/mauv0809/paddio-admin/internal/session"
)

const shutdownGrace = 30 * time.Second

func main() {
	log.SetFormatter(log.JSONFormatter)
	if err := run(config.Load()); err != nil {
		log.Fatal("paddio-admin stopped", "error", err)
	}
	log.Info("paddio-admin exited")
}

func run(cfg config.Config) error {
	began := time.Now()

	db, closeDB, err := database.InitDB(cfg.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken)
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}
	defer closeDB()
	log.Info("Session database ready", "duration_ms", time.Since(began).Milliseconds())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	publisher, err := pubsub.New(ctx, cfg.ProjectID, cfg.AuditTopic)
	if err != nil {
		return fmt.Errorf("init audit publisher: %w", err)
	}
	defer publisher.Close()

	metricsSvc := metrics.NewService()
	handler := server.NewServer(
		session.New(db),
		func(creds paddio.CredentialProvider) paddio.API {
			return paddio.NewClient(cfg.APIURL, cfg.Resources, creds)
		},
		metricsSvc,
		metrics.NewMetricsHandler(),
		metrics.New(db),
		announcer(cfg, metricsSvc),
		publisher,
		cfg,
	)

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: handler}
	metricsSvc.SetStartupTime(time.Since(began).Seconds())

	listenErr := make(chan error, 1)
	go func() {
		log.Info("Dashboard listening", "port", cfg.Port, "api", cfg.APIURL)
		listenErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-listenErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		log.Info("Stopping dashboard", "grace", shutdownGrace)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// announcer picks where dashboard actions are mirrored. Without Slack
// credentials they are only logged.
func announcer(cfg config.Config, m metrics.Metrics) notifier.Notifier {
	if cfg.Slack.Token == "" || cfg.Slack.ChannelID == "" {
		log.Info("Slack not configured, dashboard actions will not be announced")
		return notifier.Noop{}
	}
	return slack.NewNotifier(cfg.Slack.Token, cfg.Slack.ChannelID, m)
}
