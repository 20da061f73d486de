package prayer

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Event names a daily prayer or fasting milestone.
type Event string

// The fixed set of daily events, plus the Iftar synonym.
const (
	Sahur    Event = "Sahur"
	Imsak    Event = "Imsak"
	Fajr     Event = "Fajr"
	Sunrise  Event = "Sunrise"
	Dhuhr    Event = "Dhuhr"
	Asr      Event = "Asr"
	Sunset   Event = "Sunset"
	Maghrib  Event = "Maghrib"
	Isha     Event = "Isha"
	Tarawih  Event = "Tarawih"
	Midnight Event = "Midnight"

	// Iftar always falls on Maghrib. It is never stored, only displayed.
	Iftar Event = "Iftar"
)

// AllEvents lists every stored event in chronological order.
var AllEvents = []Event{
	Sahur, Imsak, Fajr, Sunrise, Dhuhr, Asr, Sunset, Maghrib, Isha, Tarawih, Midnight,
}

// DisplayOrder is AllEvents with Iftar placed right after Maghrib.
var DisplayOrder = []Event{
	Sahur, Imsak, Fajr, Sunrise, Dhuhr, Asr, Sunset, Maghrib, Iftar, Isha, Tarawih, Midnight,
}

// ShortNames maps event names to compact abbreviations for status bars.
var ShortNames = map[Event]string{
	Sahur:    "Sh",
	Imsak:    "Im",
	Fajr:     "F",
	Sunrise:  "S",
	Dhuhr:    "D",
	Asr:      "A",
	Sunset:   "St",
	Maghrib:  "M",
	Iftar:    "If",
	Isha:     "I",
	Tarawih:  "T",
	Midnight: "Mi",
}

// Prayer is a resolved event anchored to an absolute instant.
type Prayer struct {
	Name Event
	Time time.Time
}

// DateKey formats t as the YYYY-MM-DD key used by YearSchedule.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// Timeline returns today's events as absolute timestamps, sorted ascending.
// Unknown clocks are left out. Events sharing an instant keep display order.
func Timeline(today Schedule, day time.Time) []Prayer {
	var out []Prayer
	for _, name := range DisplayOrder {
		c := today.Clock(name)
		if !c.Valid() {
			continue
		}
		out = append(out, Prayer{Name: name, Time: c.On(day)})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Time.Before(out[j].Time)
	})
	return out
}

// Next finds the first event strictly after now. When everything today has
// passed it looks up tomorrow's Sahur in year. It returns nil when no next
// event is known.
func Next(today Schedule, now time.Time, year YearSchedule) *Prayer {
	for _, p := range Timeline(today, now) {
		if p.Time.After(now) {
			return &p
		}
	}

	tomorrow := now.AddDate(0, 0, 1)
	sched, ok := year[DateKey(tomorrow)]
	if !ok || !sched.Sahur.Valid() {
		return nil
	}
	return &Prayer{Name: Sahur, Time: sched.Sahur.On(tomorrow)}
}

// TimeRemaining returns the duration until the given prayer time.
func TimeRemaining(p Prayer, now time.Time) time.Duration {
	return p.Time.Sub(now)
}

// FormatRemaining formats a duration as "Xh Ym" or "Ym" if less than an hour.
func FormatRemaining(d time.Duration) string {
	if d < 0 {
		return "0m"
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}

// Countdown renders the live countdown line for the dashboard.
func Countdown(next *Prayer, now time.Time) string {
	if next == nil {
		return "No upcoming event known"
	}
	d := TimeRemaining(*next, now)
	if d <= 0 {
		return fmt.Sprintf("%s has passed", next.Name)
	}
	total := int(d / time.Second)
	return fmt.Sprintf("Time until %s: %dh %dm %ds", next.Name, total/3600, total%3600/60, total%60)
}

// parseClockStr accepts "15:02" or "15:02 (BST)". Anything after the minutes
// other than the suffix is rejected.
func parseClockStr(raw string) (Clock, error) {
	// Strip timezone suffix like " (BST)" that the API sometimes appends.
	s := strings.TrimSpace(raw)
	if idx := strings.Index(s, " "); idx != -1 {
		s = s[:idx]
	}
	t, err := time.Parse(clockLayout, s)
	if err != nil {
		return Clock{}, fmt.Errorf("invalid time format: %q", raw)
	}
	return NewClock(t.Hour(), t.Minute()), nil
}
