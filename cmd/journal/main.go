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

	"journal/internal/ai"
	"journal/internal/auth"
	"journal/internal/config"
	"journal/internal/db"
	httpx "journal/internal/http"
	"journal/internal/impulse"
	"journal/internal/jobs"
	"journal/internal/logger"
	"journal/internal/promptctx"
	"journal/internal/report"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}

	gdb, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("connect database")
	}
	if err := db.AutoMigrateAndIndexes(gdb); err != nil {
		log.WithError(err).Fatal("migrate database")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	completer, err := newCompleter(ctx, cfg.AI, log)
	if err != nil {
		log.WithError(err).Fatal("init completion service")
	}

	now := time.Now
	logs := &impulse.Store{DB: gdb}
	reports := &report.Store{DB: gdb}
	narrator := ai.NewNarrator(completer, &promptctx.Builder{Logs: logs, Now: now}, ai.Options{
		Model:        cfg.AI.Model,
		MaxTokens:    cfg.AI.MaxTokens,
		Temperature:  cfg.AI.Temperature,
		Timeout:      cfg.AI.Timeout,
		HistoryLimit: cfg.AI.ChatHistoryLimit,
	}, log.WithField("component", "ai"))
	generator := &report.Generator{Logs: logs, Reports: reports, Narrator: narrator, Log: log.WithField("component", "report")}

	jwtSvc := auth.NewJWT(cfg.JWTSecret)
	r := httpx.NewRouter(httpx.Deps{
		Config:    cfg,
		JWT:       jwtSvc,
		Users:     &auth.Users{DB: gdb},
		Logs:      logs,
		Reports:   reports,
		Generator: generator,
		Narrator:  narrator,
		Now:       now,
		Log:       log.WithField("component", "http"),
	})

	if cfg.ReportSchedule {
		jobsRepo := &jobs.Repo{DB: gdb}
		if _, err := jobsRepo.EnsureScheduled(ctx, jobs.TypeWeeklyReport, now().Add(cfg.ReportInterval)); err != nil {
			log.WithError(err).Fatal("schedule weekly report")
		}
		worker := &jobs.Worker{
			ID:       "worker-" + uuid.NewString(),
			Repo:     jobsRepo,
			Reports:  generator,
			Interval: cfg.ReportInterval,
			Now:      now,
			Log:      log.WithField("component", "jobs"),
		}
		go worker.Run(ctx)
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.WithFields(logrus.Fields{"addr": cfg.HTTPAddr, "ai_provider": cfg.AI.Provider, "model": cfg.AI.Model}).Info("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("http server")
		}
	}()

	// graceful shutdown
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("shutdown")
	}
}

func newCompleter(ctx context.Context, cfg config.AI, log logrus.FieldLogger) (ai.Completer, error) {
	var limiter *rate.Limiter
	if cfg.RPM > 0 {
		limiter = rate.NewLimiter(rate.Limit(float64(cfg.RPM)/60), 1)
	}

	switch cfg.Provider {
	case "eino":
		return ai.NewChatModel(ctx, cfg.APIKey, cfg.BaseURL, cfg.Model, limiter)
	default:
		return ai.NewOpenAI(cfg.APIKey, cfg.BaseURL, cfg.Model, limiter, log.WithField("component", "openai"))
	}
}
