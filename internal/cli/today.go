package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/ramadan-dashboard/internal/dashboard"
	"github.com/smokyabdulrahman/ramadan-dashboard/internal/display"
	"github.com/smokyabdulrahman/ramadan-dashboard/internal/hijri"
	"github.com/smokyabdulrahman/ramadan-dashboard/internal/prayer"
)

func newTodayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "today",
		Short: "Print today's schedule once",
		Long:  "Print today's schedule, Hijri date and countdown once, without the live loop.",
		Args:  cobra.NoArgs,
		RunE:  runToday,
	}
}

func runToday(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	s, err := newSession(ctx, cmd)
	if err != nil {
		return err
	}

	t := now()
	ys, _, err := s.store.LoadOrFetch(ctx, t)
	if err != nil {
		return err
	}

	today, ok := ys[prayer.DateKey(t)]
	if !ok {
		today = prayer.Placeholder()
	}
	next := prayer.Next(today, t, ys)
	h := hijri.New(s.client).Resolve(ctx, t)

	if FlagJSON {
		return printTodayJSON(cmd, s, today, next, h, t)
	}

	// One frame through the non-interactive driver.
	driver := display.NewTerminal(cmd.OutOrStdout(), false)
	driver.Location = s.store.Location().String()
	driver.TimeFormat = s.cfg.GoTimeLayout()
	driver.Render(dashboard.Frame{
		Now:         t,
		Hijri:       h.Text,
		Schedule:    today,
		Next:        next,
		Placeholder: !ok,
	})
	driver.Update(t.Format("15:04:05"), prayer.Countdown(next, t))
	return nil
}

// todayJSON is the JSON output structure for the today command.
type todayJSON struct {
	Location  todayJSONLocation `json:"location"`
	Date      todayJSONDate     `json:"date"`
	Timings   map[string]string `json:"timings"`
	Next      *todayJSONNext    `json:"next"`
	Countdown string            `json:"countdown"`
}

type todayJSONLocation struct {
	City    string `json:"city"`
	Country string `json:"country"`
	Method  int    `json:"method"`
	School  int    `json:"school"`
}

type todayJSONDate struct {
	Gregorian   string `json:"gregorian"`
	Hijri       string `json:"hijri"`
	HijriSource string `json:"hijri_source"`
}

type todayJSONNext struct {
	Event     string `json:"event"`
	Time      string `json:"time"`
	Remaining string `json:"remaining"`
}

func printTodayJSON(cmd *cobra.Command, s *session, today prayer.Schedule, next *prayer.Prayer, h hijri.Result, t time.Time) error {
	layout := s.cfg.GoTimeLayout()

	timings := make(map[string]string)
	for _, name := range prayer.DisplayOrder {
		timings[strings.ToLower(string(name))] = display.FormatClock(today.Clock(name), layout)
	}

	loc := s.store.Location()
	out := todayJSON{
		Location: todayJSONLocation{
			City:    loc.City,
			Country: loc.Country,
			Method:  loc.Method,
			School:  loc.School,
		},
		Date: todayJSONDate{
			Gregorian:   t.Format("02 Jan 2006"),
			Hijri:       h.Text,
			HijriSource: h.Source.String(),
		},
		Timings:   timings,
		Countdown: prayer.Countdown(next, t),
	}

	if next != nil {
		out.Next = &todayJSONNext{
			Event:     strings.ToLower(string(next.Name)),
			Time:      next.Time.Format(layout),
			Remaining: prayer.FormatRemaining(prayer.TimeRemaining(*next, t)),
		}
	}

	return writeJSON(cmd, out)
}

// writeJSON prints v as indented JSON.
func writeJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
