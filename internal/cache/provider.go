package cache

import (
	"context"

	"github.com/smokyabdulrahman/ramadan-dashboard/internal/api"
	"github.com/smokyabdulrahman/ramadan-dashboard/internal/logger"
	"github.com/smokyabdulrahman/ramadan-dashboard/internal/prayer"
)

// APIProvider fetches monthly calendars from the Al Adhan API.
type APIProvider struct {
	Client *api.Client
}

// NewAPIProvider returns a Provider backed by client.
func NewAPIProvider(client *api.Client) *APIProvider {
	return &APIProvider{Client: client}
}

// FetchMonth converts one calendarByCity response into daily schedules.
// Days with an unparseable date or time are skipped and logged.
func (p *APIProvider) FetchMonth(ctx context.Context, loc Location, year, month int) (prayer.YearSchedule, error) {
	resp, err := p.Client.FetchCalendarByCity(ctx, year, month, loc.City, loc.Country, loc.Method, loc.School)
	if err != nil {
		return nil, err
	}

	days := make(prayer.YearSchedule, len(resp.Data))
	for _, d := range resp.Data {
		key, err := prayer.ParseAPIDate(d.Date.Gregorian.Date)
		if err != nil {
			logger.Warn("skipping day with bad date", "month", month, "err", err)
			continue
		}
		sched, err := prayer.ScheduleFromTimings(d.Timings)
		if err != nil {
			logger.Warn("skipping day with bad timings", "date", key, "err", err)
			continue
		}
		days[key] = sched
	}
	return days, nil
}
