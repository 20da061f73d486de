// Package hijri resolves the Hijri date shown on the dashboard header.
//
// The online converter is tried first under a short timeout. When it fails,
// the date is computed offline with the tabular calendar, and if even that is
// unavailable the text is "N/A". Resolve never returns an error.
package hijri

import (
	"context"
	"errors"
	"time"

	"github.com/smokyabdulrahman/ramadan-dashboard/internal/api"
	"github.com/smokyabdulrahman/ramadan-dashboard/internal/logger"
)

// NotAvailable is shown when no source produced a date.
const NotAvailable = "N/A"

// DefaultTimeout bounds the primary lookup.
const DefaultTimeout = 5 * time.Second

// Source tags where a Result came from.
type Source int

const (
	SourceUnavailable Source = iota
	SourcePrimary
	SourceFallback
)

func (s Source) String() string {
	switch s {
	case SourcePrimary:
		return "primary"
	case SourceFallback:
		return "fallback"
	default:
		return "unavailable"
	}
}

// Result is a resolved Hijri date.
type Result struct {
	Text   string
	Source Source
}

// Lookup produces a formatted Hijri date for a Gregorian day.
type Lookup func(ctx context.Context, day time.Time) (string, error)

// Resolver tries Primary, then Fallback. Either may be nil.
type Resolver struct {
	Primary  Lookup
	Fallback Lookup
	Timeout  time.Duration
}

// New returns a Resolver that asks the API first and falls back to the
// tabular calendar.
func New(client *api.Client) *Resolver {
	return &Resolver{
		Primary:  APILookup(client),
		Fallback: TabularLookup,
		Timeout:  DefaultTimeout,
	}
}

// Resolve returns today's Hijri date and its source.
func (r *Resolver) Resolve(ctx context.Context, today time.Time) Result {
	if r.Primary != nil {
		timeout := r.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		pctx, cancel := context.WithTimeout(ctx, timeout)
		text, err := r.Primary(pctx, today)
		cancel()
		if err == nil && text != "" {
			return Result{Text: text, Source: SourcePrimary}
		}
		logger.Warn("hijri lookup failed, using fallback", "date", today.Format("2006-01-02"), "err", err)
	}

	if r.Fallback != nil {
		text, err := r.Fallback(ctx, today)
		if err == nil && text != "" {
			return Result{Text: text, Source: SourceFallback}
		}
		logger.Warn("hijri fallback failed", "date", today.Format("2006-01-02"), "err", err)
	}

	return Result{Text: NotAvailable, Source: SourceUnavailable}
}

var errEmptyHijri = errors.New("empty hijri date in response")

// APILookup converts dates through the gToH endpoint.
func APILookup(client *api.Client) Lookup {
	return func(ctx context.Context, day time.Time) (string, error) {
		resp, err := client.FetchHijri(ctx, day)
		if err != nil {
			return "", err
		}
		text := resp.Data.Hijri.Format()
		if text == "" {
			return "", errEmptyHijri
		}
		return text, nil
	}
}

// TabularLookup converts dates offline.
func TabularLookup(_ context.Context, day time.Time) (string, error) {
	return FromGregorian(day).String(), nil
}
