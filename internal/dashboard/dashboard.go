// Package dashboard runs the live countdown loop.
//
// One goroutine does everything in order: load the year's schedule, resolve
// the next event each tick, and hand the result to a Driver. A full render
// happens only when the date or the next event changes; every tick gets a
// cheap two-line update.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/smokyabdulrahman/ramadan-dashboard/internal/hijri"
	"github.com/smokyabdulrahman/ramadan-dashboard/internal/logger"
	"github.com/smokyabdulrahman/ramadan-dashboard/internal/prayer"
)

const (
	// DefaultInterval is the tick cadence.
	DefaultInterval = 100 * time.Millisecond
	// DefaultReloadRetry throttles reload attempts after a failed
	// year-rollover fetch.
	DefaultReloadRetry = 10 * time.Minute
)

// Loader yields the schedule covering now's year.
type Loader interface {
	LoadOrFetch(ctx context.Context, now time.Time) (prayer.YearSchedule, int, error)
}

// HijriResolver yields the Hijri date for a day. It never fails.
type HijriResolver interface {
	Resolve(ctx context.Context, day time.Time) hijri.Result
}

// Frame is everything a full render needs.
type Frame struct {
	Now         time.Time
	Hijri       string
	Schedule    prayer.Schedule
	Next        *prayer.Prayer // nil when nothing is upcoming
	Placeholder bool           // today was missing from the schedule
}

// Highlight returns the event to emphasise, or "" when there is none.
func (f Frame) Highlight() prayer.Event {
	if f.Next == nil {
		return ""
	}
	return f.Next.Name
}

// Driver draws the dashboard.
type Driver interface {
	// Render clears and redraws everything.
	Render(f Frame)
	// Update rewrites the clock and countdown lines below the last render.
	Update(clock, countdown string)
	// Farewell is called once when the loop stops.
	Farewell()
}

// Dashboard holds the loop state between ticks.
type Dashboard struct {
	loader Loader
	hijri  HijriResolver
	driver Driver

	Interval    time.Duration
	ReloadRetry time.Duration
	// Now is the clock source. Defaults to time.Now.
	Now func() time.Time

	schedule prayer.YearSchedule
	year     int

	drawn      bool
	forced     bool
	lastDate   string
	lastNext   prayer.Event
	warnedDate string
	retryAt    time.Time
}

// New returns a Dashboard with default timings.
func New(loader Loader, h HijriResolver, driver Driver) *Dashboard {
	return &Dashboard{
		loader:      loader,
		hijri:       h,
		driver:      driver,
		Interval:    DefaultInterval,
		ReloadRetry: DefaultReloadRetry,
		Now:         time.Now,
	}
}

// Year returns the year of the schedule currently held.
func (d *Dashboard) Year() int {
	return d.year
}

// Init loads the schedule for the current year. An error here means there
// is nothing to display.
func (d *Dashboard) Init(ctx context.Context) error {
	now := d.Now()
	ys, year, err := d.loader.LoadOrFetch(ctx, now)
	if err != nil {
		return fmt.Errorf("loading schedule for %d: %w", now.Year(), err)
	}
	d.schedule = ys
	d.year = year
	d.forced = true
	logger.Info("dashboard ready", "year", year, "days", len(ys))
	return nil
}

// Tick advances the loop by one step at now.
func (d *Dashboard) Tick(ctx context.Context, now time.Time) {
	if now.Year() > d.year {
		d.reload(ctx, now)
	}

	key := prayer.DateKey(now)
	today, ok := d.schedule[key]
	if !ok {
		today = prayer.Placeholder()
		if d.warnedDate != key {
			logger.Warn("no schedule for today, showing placeholder", "date", key)
			d.warnedDate = key
		}
	}

	next := prayer.Next(today, now, d.schedule)
	var name prayer.Event
	if next != nil {
		name = next.Name
	}

	if d.forced || !d.drawn || key != d.lastDate || name != d.lastNext {
		res := d.hijri.Resolve(ctx, now)
		d.driver.Render(Frame{
			Now:         now,
			Hijri:       res.Text,
			Schedule:    today,
			Next:        next,
			Placeholder: !ok,
		})
		logger.Debug("full redraw", "date", key, "next", name, "hijri_source", res.Source)
		d.drawn = true
		d.forced = false
		d.lastDate = key
		d.lastNext = name
	}

	d.driver.Update(now.Format("15:04:05"), prayer.Countdown(next, now))
}

// reload swaps in the schedule for now's year. On failure the stale
// schedule stays and the next attempt waits ReloadRetry.
func (d *Dashboard) reload(ctx context.Context, now time.Time) {
	if now.Before(d.retryAt) {
		return
	}
	logger.Info("year changed, reloading schedule", "from", d.year, "to", now.Year())

	ys, year, err := d.loader.LoadOrFetch(ctx, now)
	if err != nil {
		logger.Warn("reload failed, keeping stale schedule", "year", now.Year(), "err", err)
		d.retryAt = now.Add(d.ReloadRetry)
		return
	}
	d.schedule = ys
	d.year = year
	d.retryAt = time.Time{}
	d.forced = true
}

// Run initialises the dashboard and ticks until ctx is cancelled.
func (d *Dashboard) Run(ctx context.Context) error {
	if err := d.Init(ctx); err != nil {
		// Interrupted during the first fetch is a normal stop.
		if errors.Is(err, context.Canceled) {
			logger.Info("dashboard stopped during startup")
			d.driver.Farewell()
			return nil
		}
		return err
	}

	interval := d.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	d.Tick(ctx, d.Now())
	for {
		select {
		case <-ctx.Done():
			logger.Info("dashboard stopped")
			d.driver.Farewell()
			return nil
		case <-ticker.C:
			d.Tick(ctx, d.Now())
		}
	}
}
