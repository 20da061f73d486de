package prayer

import (
	"fmt"
	"time"

	"github.com/smokyabdulrahman/ramadan-dashboard/internal/api"
)

// unknownClock is how an absent time is written to disk and to the screen.
const unknownClock = "--:--"

const clockLayout = "15:04"

// Clock is a time of day without a date. The zero value is unknown.
type Clock struct {
	hour, minute int
	known        bool
}

// NewClock returns a known clock. Callers must pass a valid hour and minute.
func NewClock(hour, minute int) Clock {
	return Clock{hour: hour, minute: minute, known: true}
}

// ParseClock parses "HH:MM", tolerating a trailing timezone label.
// The unknown marker "--:--" and the empty string yield the zero Clock.
func ParseClock(s string) (Clock, error) {
	if s == "" || s == unknownClock {
		return Clock{}, nil
	}
	return parseClockStr(s)
}

// Valid reports whether the clock holds a real time.
func (c Clock) Valid() bool { return c.known }

func (c Clock) Hour() int   { return c.hour }
func (c Clock) Minute() int { return c.minute }

// On anchors the clock to day's calendar date in day's location.
func (c Clock) On(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), c.hour, c.minute, 0, 0, day.Location())
}

// String returns "HH:MM", or "--:--" when unknown.
func (c Clock) String() string {
	if !c.known {
		return unknownClock
	}
	return fmt.Sprintf("%02d:%02d", c.hour, c.minute)
}

// MarshalText implements encoding.TextMarshaler.
func (c Clock) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Clock) UnmarshalText(b []byte) error {
	parsed, err := ParseClock(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Schedule holds one day's event times.
type Schedule struct {
	Sahur    Clock `json:"Sahur"`
	Imsak    Clock `json:"Imsak"`
	Fajr     Clock `json:"Fajr"`
	Sunrise  Clock `json:"Sunrise"`
	Dhuhr    Clock `json:"Dhuhr"`
	Asr      Clock `json:"Asr"`
	Sunset   Clock `json:"Sunset"`
	Maghrib  Clock `json:"Maghrib"`
	Isha     Clock `json:"Isha"`
	Tarawih  Clock `json:"Tarawih"`
	Midnight Clock `json:"Midnight"`
}

// Placeholder returns a schedule with every event unknown. It stands in for
// days missing from the year's data.
func Placeholder() Schedule {
	return Schedule{}
}

// Clock returns the time for name. Iftar reads Maghrib.
// Unrecognised names return the zero Clock.
func (s Schedule) Clock(name Event) Clock {
	switch name {
	case Sahur:
		return s.Sahur
	case Imsak:
		return s.Imsak
	case Fajr:
		return s.Fajr
	case Sunrise:
		return s.Sunrise
	case Dhuhr:
		return s.Dhuhr
	case Asr:
		return s.Asr
	case Sunset:
		return s.Sunset
	case Maghrib, Iftar:
		return s.Maghrib
	case Isha:
		return s.Isha
	case Tarawih:
		return s.Tarawih
	case Midnight:
		return s.Midnight
	}
	return Clock{}
}

// Complete reports whether all stored events are known.
func (s Schedule) Complete() bool {
	for _, name := range AllEvents {
		if !s.Clock(name).Valid() {
			return false
		}
	}
	return true
}

// YearSchedule maps YYYY-MM-DD keys to the day's schedule.
type YearSchedule map[string]Schedule

// ScheduleFromTimings converts API timings into a Schedule.
// Sahur is taken from the last third of the night and Tarawih from Isha.
func ScheduleFromTimings(t api.Timings) (Schedule, error) {
	var s Schedule
	fields := []struct {
		name Event
		raw  string
		dst  *Clock
	}{
		{Sahur, t.Lastthird, &s.Sahur},
		{Imsak, t.Imsak, &s.Imsak},
		{Fajr, t.Fajr, &s.Fajr},
		{Sunrise, t.Sunrise, &s.Sunrise},
		{Dhuhr, t.Dhuhr, &s.Dhuhr},
		{Asr, t.Asr, &s.Asr},
		{Sunset, t.Sunset, &s.Sunset},
		{Maghrib, t.Maghrib, &s.Maghrib},
		{Isha, t.Isha, &s.Isha},
		{Tarawih, t.Isha, &s.Tarawih},
		{Midnight, t.Midnight, &s.Midnight},
	}

	for _, f := range fields {
		c, err := parseClockStr(f.raw)
		if err != nil {
			return Schedule{}, fmt.Errorf("failed to parse time for %s: %w", f.name, err)
		}
		*f.dst = c
	}
	return s, nil
}

// ParseAPIDate converts the API's DD-MM-YYYY date into a YYYY-MM-DD key.
func ParseAPIDate(s string) (string, error) {
	d, err := time.Parse("02-01-2006", s)
	if err != nil {
		return "", fmt.Errorf("invalid API date %q: %w", s, err)
	}
	return DateKey(d), nil
}
