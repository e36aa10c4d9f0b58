package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"DCADashboard/internal/config"
	"DCADashboard/internal/logger"
	"DCADashboard/internal/metrics"
	"DCADashboard/internal/notifier"
	"DCADashboard/internal/scheduler"
	"DCADashboard/internal/server"
)

func newServeCmd(load func() (*config.Config, error)) *cobra.Command {
	var runOnStart bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the scheduler, Telegram bot and HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			if os.Getenv("RUN_ON_START") == "true" {
				runOnStart = true
			}
			return serve(cmd.Context(), cfg, runOnStart)
		},
	}
	cmd.Flags().BoolVar(&runOnStart, "run-on-start", false, "refresh immediately instead of waiting for the first cron tick (env RUN_ON_START=true)")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config, runOnStart bool) error {
	log, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	log.Info("DCA dashboard starting")

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	rec := metrics.New(reg)

	comps := build(ctx, cfg, log, rec)
	defer comps.Close()

	var sender notifier.Sender = notifier.Noop{}
	var tn *notifier.TelegramNotifier
	if cfg.TelegramEnabled() {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy,
			log.With(logger.String("component", "telegram")))
		sender = tn
	} else {
		log.Warn("telegram not configured, notifications disabled")
	}

	sched := scheduler.NewScheduler(ctx, comps.collector, sender, rec, cfg.Params(),
		log.With(logger.String("component", "scheduler")))
	if err := sched.RegisterAll(cfg.Schedule.RefreshCron, cfg.Schedule.ReportCron); err != nil {
		return fmt.Errorf("register cron tasks: %w", err)
	}
	sched.Start()
	defer sched.Stop()

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Info("telegram polling started")
	}

	srv := server.New(cfg.Server.Addr, log.With(logger.String("component", "http")), reg,
		server.NewDashboardHandler(sched, rec))
	srv.Start()

	if runOnStart {
		log.Info("run on start enabled, refreshing now")
		go func() {
			if err := sched.Refresh(ctx); err != nil {
				log.Error("initial refresh failed", logger.Error(err))
			}
		}()
	}

	log.Info("DCA dashboard is running, press Ctrl+C to stop")
	<-ctx.Done()

	log.Info("shutdown signal received, stopping")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		log.Warn("http shutdown", logger.Error(err))
	}
	log.Info("DCA dashboard stopped")
	return nil
}
