// Command replay redelivers asset-status notifications that the portal
// journaled after a failed delivery.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
	"github.com/ukydev/municipal-assets/internal/client"
	"github.com/ukydev/municipal-assets/internal/config"
	"github.com/ukydev/municipal-assets/internal/db"
	"github.com/ukydev/municipal-assets/internal/logger"
	"github.com/ukydev/municipal-assets/internal/notify"
)

// passTimeout bounds a single replay pass.
const passTimeout = 2 * time.Minute

// replayJob runs one replay pass per tick.
type replayJob struct {
	ctx      context.Context
	replayer *notify.Replayer
	timeout  time.Duration
}

// Run implements cron.Job.
func (j *replayJob) Run() {
	ctx, cancel := context.WithTimeout(j.ctx, j.timeout)
	defer cancel()
	if _, err := j.replayer.RunOnce(ctx); err != nil {
		log.WithError(err).Error("Notification replay pass failed")
	}
}

// newScheduler runs job on spec in UTC. A pass still running when the next
// tick fires is not overlapped.
func newScheduler(spec string, job cron.Job) (*cron.Cron, error) {
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithChain(cron.SkipIfStillRunning(cron.PrintfLogger(log.StandardLogger()))),
	)
	if _, err := c.AddJob(spec, job); err != nil {
		return nil, fmt.Errorf("invalid replay schedule %q: %w", spec, err)
	}
	return c, nil
}

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "Path to an optional YAML configuration file")
	once := flag.Bool("once", false, "Run a single replay pass and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.WithError(err).Fatal("Failed to load configuration")
	}
	logger.Init(cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mc, err := db.ConnectMongo(ctx, cfg.Mongo.URI)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to MongoDB")
	}
	defer func() { _ = mc.Disconnect(context.Background()) }()

	journal, err := db.NewNotificationCollection(ctx, mc, cfg.Mongo.Database, cfg.Mongo.Collection)
	if err != nil {
		log.WithError(err).Fatal("Failed to open notification journal")
	}

	transport, closeTransport, err := notify.NewTransport(cfg, client.NewHTTPClient(cfg.Backends.Timeout))
	if err != nil {
		log.WithError(err).Fatal("Failed to configure asset notifications")
	}
	defer closeTransport()

	job := &replayJob{
		ctx:      ctx,
		replayer: notify.NewReplayer(journal, transport, cfg.Notifications.ReplayBatch, cfg.Notifications.MaxAttempts),
		timeout:  passTimeout,
	}

	if *once {
		job.Run()
		return
	}

	scheduler, err := newScheduler(cfg.Notifications.ReplaySchedule, job)
	if err != nil {
		log.WithError(err).Fatal("Failed to schedule notification replay")
	}
	scheduler.Start()
	log.WithFields(log.Fields{
		"schedule":     cfg.Notifications.ReplaySchedule,
		"batch":        cfg.Notifications.ReplayBatch,
		"max_attempts": cfg.Notifications.MaxAttempts,
		"transport":    cfg.Notifications.Transport,
	}).Info("Notification replay scheduler is running")

	<-ctx.Done()
	log.Info("Shutting down replay scheduler...")
	<-scheduler.Stop().Done()
	log.Info("Replay scheduler stopped")
}
