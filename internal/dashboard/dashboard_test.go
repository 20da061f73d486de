package dashboard

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/smokyabdulrahman/ramadan-dashboard/internal/hijri"
	"github.com/smokyabdulrahman/ramadan-dashboard/internal/prayer"
)

func daySchedule() prayer.Schedule {
	return prayer.Schedule{
		Sahur:    prayer.NewClock(4, 10),
		Imsak:    prayer.NewClock(4, 30),
		Fajr:     prayer.NewClock(4, 40),
		Sunrise:  prayer.NewClock(5, 55),
		Dhuhr:    prayer.NewClock(12, 0),
		Asr:      prayer.NewClock(15, 20),
		Sunset:   prayer.NewClock(18, 0),
		Maghrib:  prayer.NewClock(18, 5),
		Isha:     prayer.NewClock(19, 15),
		Tarawih:  prayer.NewClock(19, 15),
		Midnight: prayer.NewClock(0, 0),
	}
}

func yearOf(days ...string) prayer.YearSchedule {
	ys := prayer.YearSchedule{}
	for _, d := range days {
		ys[d] = daySchedule()
	}
	return ys
}

func at(s string) time.Time {
	t, err := time.ParseInLocation("2006-01-02 15:04:05", s, time.UTC)
	if err != nil {
		panic(err)
	}
	return t
}

type loadResult struct {
	ys  prayer.YearSchedule
	err error
}

type fakeLoader struct {
	byYear map[int]loadResult
	calls  []int
}

func (f *fakeLoader) LoadOrFetch(_ context.Context, now time.Time) (prayer.YearSchedule, int, error) {
	f.calls = append(f.calls, now.Year())
	r, ok := f.byYear[now.Year()]
	if !ok {
		return nil, 0, errors.New("no schedule available")
	}
	if r.err != nil {
		return nil, 0, r.err
	}
	return r.ys, now.Year(), nil
}

type fakeHijri struct{ calls int }

func (f *fakeHijri) Resolve(context.Context, time.Time) hijri.Result {
	f.calls++
	return hijri.Result{Text: "1 Ramadan 1445 H", Source: hijri.SourceFallback}
}

type update struct{ clock, countdown string }

type fakeDriver struct {
	mu       sync.Mutex
	frames   []Frame
	updates  []update
	farewell int
}

func (f *fakeDriver) Render(fr Frame) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.frames = append(f.frames, fr)
}

func (f *fakeDriver) Update(clock, countdown string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, update{clock, countdown})
}

func (f *fakeDriver) Farewell() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.farewell++
}

func (f *fakeDriver) lastUpdate() update {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.updates[len(f.updates)-1]
}

func newTestDashboard(t *testing.T, loader *fakeLoader, start time.Time) (*Dashboard, *fakeDriver, *fakeHijri) {
	t.Helper()
	drv := &fakeDriver{}
	h := &fakeHijri{}
	d := New(loader, h, drv)
	d.Now = func() time.Time { return start }
	if err := d.Init(context.Background()); err != nil {
		t.Fatalf("Init: %v", err)
	}
	return d, drv, h
}

func TestInit_Failure(t *testing.T) {
	d := New(&fakeLoader{}, &fakeHijri{}, &fakeDriver{})
	d.Now = func() time.Time { return at("2024-03-10 14:00:00") }

	err := d.Init(context.Background())
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "2024") {
		t.Errorf("error %q should mention the year", err)
	}
}

func TestTick_FirstTickRenders(t *testing.T) {
	loader := &fakeLoader{byYear: map[int]loadResult{2024: {ys: yearOf("2024-03-10", "2024-03-11")}}}
	now := at("2024-03-10 14:00:00")
	d, drv, h := newTestDashboard(t, loader, now)

	d.Tick(context.Background(), now)

	if len(drv.frames) != 1 {
		t.Fatalf("frames = %d, want 1", len(drv.frames))
	}
	fr := drv.frames[0]
	if fr.Highlight() != prayer.Asr {
		t.Errorf("highlight = %q, want Asr", fr.Highlight())
	}
	if fr.Hijri != "1 Ramadan 1445 H" || h.calls != 1 {
		t.Errorf("hijri = %q (calls %d)", fr.Hijri, h.calls)
	}
	if fr.Placeholder {
		t.Error("placeholder set for a known day")
	}
	want := update{"14:00:00", "Time until Asr: 1h 20m 0s"}
	if got := drv.lastUpdate(); got != want {
		t.Errorf("update = %+v, want %+v", got, want)
	}
}

func TestTick_NoRedrawWhenNothingChanges(t *testing.T) {
	loader := &fakeLoader{byYear: map[int]loadResult{2024: {ys: yearOf("2024-03-10")}}}
	start := at("2024-03-10 14:00:00")
	d, drv, h := newTestDashboard(t, loader, start)

	for i := 0; i < 50; i++ {
		d.Tick(context.Background(), start.Add(time.Duration(i)*100*time.Millisecond))
	}

	if len(drv.frames) != 1 {
		t.Errorf("frames = %d, want 1", len(drv.frames))
	}
	if h.calls != 1 {
		t.Errorf("hijri calls = %d, want 1", h.calls)
	}
	if len(drv.updates) != 50 {
		t.Errorf("updates = %d, want 50", len(drv.updates))
	}
	if got := drv.lastUpdate().countdown; got != "Time until Asr: 1h 19m 55s" {
		t.Errorf("countdown = %q", got)
	}
}

func TestTick_RedrawWhenNextEventChanges(t *testing.T) {
	loader := &fakeLoader{byYear: map[int]loadResult{2024: {ys: yearOf("2024-03-10")}}}
	d, drv, _ := newTestDashboard(t, loader, at("2024-03-10 15:19:59"))

	d.Tick(context.Background(), at("2024-03-10 15:19:59"))
	d.Tick(context.Background(), at("2024-03-10 15:20:00"))
	d.Tick(context.Background(), at("2024-03-10 15:20:01"))

	if len(drv.frames) != 2 {
		t.Fatalf("frames = %d, want 2", len(drv.frames))
	}
	if drv.frames[1].Highlight() != prayer.Sunset {
		t.Errorf("second highlight = %q, want Sunset", drv.frames[1].Highlight())
	}
}

func TestTick_RedrawOnDateChange(t *testing.T) {
	loader := &fakeLoader{byYear: map[int]loadResult{2024: {ys: yearOf("2024-03-10", "2024-03-11", "2024-03-12")}}}
	d, drv, _ := newTestDashboard(t, loader, at("2024-03-10 23:59:59"))

	d.Tick(context.Background(), at("2024-03-10 23:59:59"))
	d.Tick(context.Background(), at("2024-03-11 00:00:01"))

	if len(drv.frames) != 2 {
		t.Fatalf("frames = %d, want 2", len(drv.frames))
	}
	// Sahur both times, but the date moved.
	for i, fr := range drv.frames {
		if fr.Highlight() != prayer.Sahur {
			t.Errorf("frame %d highlight = %q, want Sahur", i, fr.Highlight())
		}
	}
	if got := drv.frames[1].Now.Day(); got != 11 {
		t.Errorf("second frame day = %d, want 11", got)
	}
}

func TestTick_AfterLastEventCountsToTomorrowSahur(t *testing.T) {
	loader := &fakeLoader{byYear: map[int]loadResult{2024: {ys: yearOf("2024-03-10", "2024-03-11")}}}
	d, drv, _ := newTestDashboard(t, loader, at("2024-03-10 23:00:00"))

	d.Tick(context.Background(), at("2024-03-10 23:00:00"))

	want := "Time until Sahur: 5h 10m 0s"
	if got := drv.lastUpdate().countdown; got != want {
		t.Errorf("countdown = %q, want %q", got, want)
	}
}

func TestTick_PlaceholderForMissingDay(t *testing.T) {
	loader := &fakeLoader{byYear: map[int]loadResult{2024: {ys: yearOf("2024-03-10")}}}
	d, drv, _ := newTestDashboard(t, loader, at("2024-06-01 12:00:00"))

	d.Tick(context.Background(), at("2024-06-01 12:00:00"))
	d.Tick(context.Background(), at("2024-06-01 12:00:01"))

	if len(drv.frames) != 1 {
		t.Fatalf("frames = %d, want 1", len(drv.frames))
	}
	fr := drv.frames[0]
	if !fr.Placeholder || fr.Next != nil {
		t.Errorf("frame = %+v, want placeholder without next", fr)
	}
	if fr.Schedule.Complete() {
		t.Error("placeholder schedule should have unknown times")
	}
	if got := drv.lastUpdate().countdown; got != "No upcoming event known" {
		t.Errorf("countdown = %q", got)
	}
}

func TestTick_YearRolloverReloads(t *testing.T) {
	loader := &fakeLoader{byYear: map[int]loadResult{
		2024: {ys: yearOf("2024-12-31")},
		2025: {ys: yearOf("2025-01-01")},
	}}
	d, drv, _ := newTestDashboard(t, loader, at("2024-12-31 23:59:59"))

	d.Tick(context.Background(), at("2024-12-31 23:59:59"))
	d.Tick(context.Background(), at("2025-01-01 00:00:01"))

	if got := loader.calls; len(got) != 2 || got[1] != 2025 {
		t.Fatalf("loader calls = %v, want [2024 2025]", got)
	}
	if d.Year() != 2025 {
		t.Errorf("Year() = %d, want 2025", d.Year())
	}
	if len(drv.frames) != 2 {
		t.Fatalf("frames = %d, want 2", len(drv.frames))
	}
	if drv.frames[1].Placeholder {
		t.Error("new year's first day should come from the reloaded schedule")
	}
	if drv.frames[1].Highlight() != prayer.Sahur {
		t.Errorf("highlight = %q, want Sahur", drv.frames[1].Highlight())
	}
}

func TestTick_YearRolloverFailureKeepsStaleData(t *testing.T) {
	loader := &fakeLoader{byYear: map[int]loadResult{
		2024: {ys: yearOf("2024-12-31")},
		2025: {err: errors.New("network down")},
	}}
	d, drv, _ := newTestDashboard(t, loader, at("2024-12-31 23:59:59"))
	d.ReloadRetry = time.Minute

	d.Tick(context.Background(), at("2024-12-31 23:59:59"))
	d.Tick(context.Background(), at("2025-01-01 00:00:01"))
	d.Tick(context.Background(), at("2025-01-01 00:00:30"))

	if len(loader.calls) != 2 {
		t.Fatalf("loader calls = %v, want one reload attempt within the retry window", loader.calls)
	}
	if d.Year() != 2024 {
		t.Errorf("Year() = %d, want stale 2024", d.Year())
	}
	if !drv.frames[len(drv.frames)-1].Placeholder {
		t.Error("expected placeholder while the new year is unavailable")
	}

	d.Tick(context.Background(), at("2025-01-01 00:01:02"))
	if len(loader.calls) != 3 {
		t.Errorf("loader calls = %v, want a retry after the window", loader.calls)
	}

	loader.byYear[2025] = loadResult{ys: yearOf("2025-01-01")}
	d.Tick(context.Background(), at("2025-01-01 00:02:03"))
	if d.Year() != 2025 {
		t.Errorf("Year() = %d, want 2025 after successful retry", d.Year())
	}
}

func TestRun_StopsOnCancel(t *testing.T) {
	loader := &fakeLoader{byYear: map[int]loadResult{2024: {ys: yearOf("2024-03-10")}}}
	drv := &fakeDriver{}
	d := New(loader, &fakeHijri{}, drv)
	d.Interval = time.Millisecond
	d.Now = func() time.Time { return at("2024-03-10 14:00:00") }

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}

	drv.mu.Lock()
	defer drv.mu.Unlock()
	if drv.farewell != 1 {
		t.Errorf("farewell = %d, want 1", drv.farewell)
	}
	if len(drv.frames) != 1 {
		t.Errorf("frames = %d, want 1", len(drv.frames))
	}
	if len(drv.updates) < 2 {
		t.Errorf("updates = %d, want several ticks", len(drv.updates))
	}
}

func TestRun_InitFailure(t *testing.T) {
	drv := &fakeDriver{}
	d := New(&fakeLoader{}, &fakeHijri{}, drv)
	d.Now = func() time.Time { return at("2024-03-10 14:00:00") }

	if err := d.Run(context.Background()); err == nil {
		t.Fatal("expected error, got nil")
	}
	if drv.farewell != 0 || len(drv.frames) != 0 {
		t.Error("driver should not be touched when no schedule is available")
	}
}

func TestRun_CancelledDuringInit(t *testing.T) {
	drv := &fakeDriver{}
	loader := &fakeLoader{byYear: map[int]loadResult{2024: {err: context.Canceled}}}
	d := New(loader, &fakeHijri{}, drv)
	d.Now = func() time.Time { return at("2024-03-10 14:00:00") }

	if err := d.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if drv.farewell != 1 {
		t.Errorf("farewell = %d, want 1", drv.farewell)
	}
	if len(drv.frames) != 0 {
		t.Errorf("frames = %d, want none", len(drv.frames))
	}
}
