package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Refresher is the part of the sync adapter the scheduler drives.
type Refresher interface {
	PullAll(ctx context.Context)
	SyncVisionSettings(ctx context.Context)
}

// Scheduler re-pulls backend-authoritative fields on a cron spec. It is
// optional; the startup pull does not depend on it.
type Scheduler struct {
	cron    *cron.Cron
	sync    Refresher
	spec    string
	log     zerolog.Logger
	entryID cron.EntryID
}

func NewScheduler(sync Refresher, spec string, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(),
		sync: sync,
		spec: spec,
		log:  log,
	}
}

// Start registers the refresh job and starts the cron loop. It fails only on
// an invalid spec.
func (s *Scheduler) Start() error {
	id, err := s.cron.AddFunc(s.spec, s.Refresh)
	if err != nil {
		return err
	}
	s.entryID = id
	s.cron.Start()
	s.log.Info().Str("spec", s.spec).Time("next", s.NextRefreshTime()).Msg("settings refresh scheduled")
	return nil
}

// Refresh runs one refresh round.
func (s *Scheduler) Refresh() {
	s.log.Debug().Msg("refreshing backend settings")
	ctx := context.Background()
	s.sync.PullAll(ctx)
	s.sync.SyncVisionSettings(ctx)
}

// NextRefreshTime is zero until Start succeeded.
func (s *Scheduler) NextRefreshTime() time.Time {
	return s.cron.Entry(s.entryID).Next
}

// Stop halts the cron loop and waits for a running refresh to return.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
