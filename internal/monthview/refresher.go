package monthview

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Refresher periodically re-fetches the active month and the agent's
// preferences so the dashboard tracks remote changes without manual
// navigation. Refreshes go through the same sequence-guarded load path as
// user navigation, so a slow periodic fetch can never clobber a newer one.
type Refresher struct {
	cron       *cron.Cron
	controller *Controller
	interval   time.Duration
}

// NewRefresher creates a refresher that reloads every intervalMin minutes.
func NewRefresher(controller *Controller, intervalMin int) *Refresher {
	if intervalMin <= 0 {
		intervalMin = 10
	}
	return &Refresher{
		cron:       cron.New(),
		controller: controller,
		interval:   time.Duration(intervalMin) * time.Minute,
	}
}

// Start begins the periodic refresh schedule.
func (r *Refresher) Start() error {
	spec := "@every " + r.interval.String()
	if _, err := r.cron.AddFunc(spec, r.refresh); err != nil {
		return err
	}
	r.cron.Start()
	log.Printf("Month refresher started (every %s)", r.interval)
	return nil
}

// Stop gracefully shuts down the refresher, waiting for a running refresh.
func (r *Refresher) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
	log.Println("Month refresher stopped")
}

// refresh reloads the active month and preferences. Failures keep the prior
// state and are only logged; the next tick tries again.
func (r *Refresher) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := r.controller.RefreshPreferences(ctx); err != nil {
		log.Printf("Preference refresh failed: %v", err)
	}

	if r.controller.State() != StateReady {
		return
	}
	year, month := r.controller.ActiveMonth()
	if err := r.controller.LoadMonth(ctx, year, month); err != nil {
		log.Printf("Month refresh failed for %d-%02d: %v", year, int(month), err)
	}
}
