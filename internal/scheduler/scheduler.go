package scheduler

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the periodic data-dir snapshot.
type Scheduler struct {
	cron     *cron.Cron
	spec     string
	snapshot func() error
}

func New(spec string) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithLocation(time.UTC)),
		spec: spec,
	}
}

// SetSnapshotFunc sets the job executed on every tick.
func (s *Scheduler) SetSnapshotFunc(f func() error) {
	s.snapshot = f
}

func (s *Scheduler) Start() error {
	if s.snapshot == nil {
		log.Println("⚠️ Snapshot function not set, scheduler will not run backups")
		return nil
	}
	_, err := s.cron.AddFunc(s.spec, func() {
		if err := s.snapshot(); err != nil {
			log.Printf("❌ Scheduled snapshot failed: %v", err)
		}
	})
	if err != nil {
		return err
	}
	s.cron.Start()
	log.Printf("📅 Scheduler started - snapshots on %q (UTC)", s.spec)
	return nil
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
	}
	log.Println("📅 Scheduler stopped")
}

func (s *Scheduler) IsRunning() bool {
	return s.cron != nil && len(s.cron.Entries()) > 0
}
