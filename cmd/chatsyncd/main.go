package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/iamwavecut/chatsyncd/internal/api"
	"github.com/iamwavecut/chatsyncd/internal/auth"
	"github.com/iamwavecut/chatsyncd/internal/chat"
	"github.com/iamwavecut/chatsyncd/internal/config"
	"github.com/iamwavecut/chatsyncd/internal/db/sqlite"
	"github.com/iamwavecut/chatsyncd/internal/event"
	"github.com/iamwavecut/chatsyncd/internal/infra"
	"github.com/iamwavecut/chatsyncd/internal/lifecycle"
	"github.com/iamwavecut/chatsyncd/internal/moderation"
	"github.com/iamwavecut/chatsyncd/internal/observability"
	"github.com/iamwavecut/chatsyncd/internal/support"
)

const shutdownTimeout = 10 * time.Second

func main() {
	log.SetFormatter(&log.TextFormatter{
		DisableColors:    true,
		FullTimestamp:    true,
		TimestampFormat:  "2006-01-02 15:04:05",
		QuoteEmptyFields: true,
	})
	log.SetOutput(os.Stdout)

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatalln("cant load config")
	}
	log.SetLevel(log.Level(cfg.LogLevel))
	if cfg.PrettyLog {
		log.SetFormatter(&config.ConsoleFormatter{})
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := observability.Init(ctx, cfg.MetricsAddr); err != nil {
		log.WithError(err).Fatalln("cant init observability")
	}

	workDir := infra.GetWorkDir(cfg.DotPath)
	client, err := sqlite.NewSQLiteClient(ctx, workDir, cfg.DBPath)
	if err != nil {
		log.WithError(err).Fatalln("cant open db")
	}
	defer client.Close()

	authSvc := auth.NewService(client, time.Duration(cfg.SessionTTL.Hours)*time.Hour)
	chatSvc := chat.NewService(client)
	modSvc := moderation.NewService(client)
	supportSvc := support.NewService(client)

	infra.GoRecoverable(-1, "event_worker", func() {
		event.RunWorker(ctx)
	})

	runtime := lifecycle.NewRuntime()
	runtime.Register("api", api.NewServer(cfg.ListenAddr, authSvc, chatSvc, modSvc, supportSvc))

	if err := runtime.Start(ctx); err != nil {
		log.WithError(err).Fatalln("cant start runtime")
	}

	<-ctx.Done()
	log.Info("shutting down")

	stopCtx, stopCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stopCancel()
	if err := runtime.Stop(stopCtx); err != nil {
		log.WithError(err).Error("shutdown incomplete")
	}
}
