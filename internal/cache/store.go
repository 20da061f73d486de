package cache

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"time"

	"github.com/smokyabdulrahman/ramadan-dashboard/internal/logger"
	"github.com/smokyabdulrahman/ramadan-dashboard/internal/prayer"
)

// MinCompleteDays is the day count a stored year must exceed to be reused.
// Anything at or below it is treated as a partial fetch.
const MinCompleteDays = 300

// DefaultFetchDelay spaces out the monthly provider requests.
const DefaultFetchDelay = time.Second

var (
	// ErrNotFound means no schedule is stored for the year.
	ErrNotFound = errors.New("schedule not found")
	// ErrMalformed means the stored schedule could not be read or decoded.
	ErrMalformed = errors.New("malformed schedule data")
	// ErrIncomplete means the stored schedule has too few days.
	ErrIncomplete = errors.New("incomplete schedule")
	// ErrNoSchedule means a fetch produced no days at all.
	ErrNoSchedule = errors.New("no schedule available")
)

// Location identifies whose times are fetched. Method and School are
// omitted from provider requests when negative.
type Location struct {
	City    string
	Country string
	Method  int
	School  int
}

// Key builds a deterministic hash from the parameters that affect the times,
// so different locations or methods get separate files.
func (l Location) Key() string {
	raw := fmt.Sprintf("%s|%s|%d|%d", l.City, l.Country, l.Method, l.School)
	h := sha256.Sum256([]byte(raw))
	return fmt.Sprintf("%x", h[:6])
}

// String returns "City, Country".
func (l Location) String() string {
	return l.City + ", " + l.Country
}

// Provider supplies one month of daily schedules keyed by YYYY-MM-DD.
type Provider interface {
	FetchMonth(ctx context.Context, loc Location, year, month int) (prayer.YearSchedule, error)
}

// Store decides between reusing the stored year and fetching a new one.
type Store struct {
	cache    *Cache
	loc      Location
	provider Provider

	// Delay is the pause between monthly requests.
	Delay time.Duration
}

// NewStore creates a Store for loc backed by c and p.
func NewStore(c *Cache, loc Location, p Provider) *Store {
	return &Store{
		cache:    c,
		loc:      loc,
		provider: p,
		Delay:    DefaultFetchDelay,
	}
}

// Location returns the location the store fetches for.
func (s *Store) Location() Location {
	return s.loc
}

// Path returns the file used for year.
func (s *Store) Path(year int) string {
	return s.cache.SchedulePath(year, s.loc.Key())
}

// IsComplete reports whether ys covers more than MinCompleteDays days.
func IsComplete(ys prayer.YearSchedule) bool {
	return len(ys) > MinCompleteDays
}

// Load reads the stored schedule for year.
func (s *Store) Load(year int) (prayer.YearSchedule, error) {
	return s.cache.LoadSchedule(year, s.loc.Key())
}

// Save stores ys for year, replacing any earlier file.
func (s *Store) Save(year int, ys prayer.YearSchedule) error {
	return s.cache.SaveSchedule(year, s.loc.Key(), ys)
}

// LoadComplete is Load plus the completeness check; a short year yields
// ErrIncomplete.
func (s *Store) LoadComplete(year int) (prayer.YearSchedule, error) {
	ys, err := s.Load(year)
	if err != nil {
		return nil, err
	}
	if !IsComplete(ys) {
		return nil, fmt.Errorf("%w: %d days", ErrIncomplete, len(ys))
	}
	return ys, nil
}

// Fetch asks the provider for each month of year and merges the results.
// A failed month is logged and skipped. Only a cancelled context stops the
// loop early.
func (s *Store) Fetch(ctx context.Context, year int) (prayer.YearSchedule, error) {
	logger.Info("fetching yearly schedule", "year", year, "location", s.loc.String())

	ys := make(prayer.YearSchedule, 366)
	for month := 1; month <= 12; month++ {
		if month > 1 && s.Delay > 0 {
			select {
			case <-ctx.Done():
				return ys, ctx.Err()
			case <-time.After(s.Delay):
			}
		}
		if err := ctx.Err(); err != nil {
			return ys, err
		}

		days, err := s.provider.FetchMonth(ctx, s.loc, year, month)
		if err != nil {
			logger.Warn("month fetch failed", "year", year, "month", month, "err", err)
			continue
		}
		for key, day := range days {
			ys[key] = day
		}
		logger.Info("month fetched", "year", year, "month", month, "days", len(days))
	}

	logger.Info("yearly fetch finished", "year", year, "days", len(ys))
	return ys, nil
}

// LoadOrFetch returns the schedule for now's year. A stored copy is used
// when it is complete; otherwise the year is fetched and saved. ErrNoSchedule
// is returned when the fetch yields no days.
func (s *Store) LoadOrFetch(ctx context.Context, now time.Time) (prayer.YearSchedule, int, error) {
	year := now.Year()

	ys, err := s.LoadComplete(year)
	switch {
	case err == nil:
		logger.Debug("using stored schedule", "year", year, "days", len(ys), "path", s.Path(year))
		return ys, year, nil
	case errors.Is(err, ErrNotFound):
		logger.Info("no stored schedule", "year", year)
	default:
		logger.Warn("stored schedule unusable, refetching", "year", year, "err", err)
	}

	return s.Refresh(ctx, year)
}

// Refresh fetches year unconditionally and saves the result. A save failure
// is logged; the fetched schedule is still returned.
func (s *Store) Refresh(ctx context.Context, year int) (prayer.YearSchedule, int, error) {
	ys, err := s.Fetch(ctx, year)
	if err != nil {
		return nil, 0, err
	}
	if len(ys) == 0 {
		return nil, 0, fmt.Errorf("%w for %s in %d", ErrNoSchedule, s.loc.String(), year)
	}
	if !IsComplete(ys) {
		logger.Warn("fetched schedule is incomplete", "year", year, "days", len(ys))
	}

	if err := s.Save(year, ys); err != nil {
		logger.Error("saving schedule failed", "year", year, "err", err)
	} else {
		logger.Info("schedule saved", "year", year, "path", s.Path(year))
	}
	return ys, year, nil
}
