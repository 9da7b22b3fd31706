package jobs

import (
	"context"
	"log"

	"betleague/internal/config"
	"betleague/internal/services"

	"github.com/go-co-op/gocron/v2"
)

// OddsRefreshJob runs the prematch and live refresh cycles on a schedule.
// Each cycle runs in singleton mode so a slow provider round never overlaps
// the next tick.
type OddsRefreshJob struct {
	refresh   *services.OddsRefreshService
	cfg       config.SportsAPIConfig
	scheduler gocron.Scheduler
}

func NewOddsRefreshJob(refresh *services.OddsRefreshService, cfg config.SportsAPIConfig) *OddsRefreshJob {
	return &OddsRefreshJob{
		refresh: refresh,
		cfg:     cfg,
	}
}

func (j *OddsRefreshJob) Start() error {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return err
	}
	j.scheduler = scheduler

	_, err = scheduler.NewJob(
		gocron.DurationJob(j.cfg.PrematchInterval),
		gocron.NewTask(j.runPrematch),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return err
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(j.cfg.LiveInterval),
		gocron.NewTask(j.runLive),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return err
	}

	scheduler.Start()
	log.Printf("Odds refresh job started (prematch every %s, live every %s)",
		j.cfg.PrematchInterval, j.cfg.LiveInterval)
	return nil
}

func (j *OddsRefreshJob) Stop() {
	if j.scheduler == nil {
		return
	}
	if err := j.scheduler.Shutdown(); err != nil {
		log.Printf("Odds refresh scheduler shutdown: %v", err)
	}
}

func (j *OddsRefreshJob) runPrematch() {
	if err := j.refresh.RefreshPrematch(context.Background()); err != nil {
		log.Printf("Prematch odds refresh failed: %v", err)
	}
}

func (j *OddsRefreshJob) runLive() {
	if err := j.refresh.RefreshLive(context.Background()); err != nil {
		log.Printf("Live odds refresh failed: %v", err)
	}
}
