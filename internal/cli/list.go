package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/ramadan-dashboard/internal/cache"
	"github.com/smokyabdulrahman/ramadan-dashboard/internal/display"
	"github.com/smokyabdulrahman/ramadan-dashboard/internal/prayer"
)

// maxListDays bounds list and query --days.
const maxListDays = 366

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [days]",
		Short: "Show event times for multiple days",
		Long:  "Display a grid of event times for N days starting today (default: 7).",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, args, 7)
		},
	}
}

func newWeekCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "week",
		Short: "Show event times for the next 7 days",
		Long:  "Alias for 'list 7'.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, nil, 7)
		},
	}
}

func newMonthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "month",
		Short: "Show event times for the next 30 days",
		Long:  "Alias for 'list 30'.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, nil, 30)
		},
	}
}

// dayData is one day of a multi-day view.
type dayData struct {
	Date     time.Time
	Schedule prayer.Schedule
	Missing  bool
}

// parseDays accepts a positive integer, "week" or "month".
func parseDays(raw string) (int, error) {
	switch raw {
	case "week":
		return 7, nil
	case "month":
		return 30, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > maxListDays {
		return 0, fmt.Errorf("invalid number of days: %q (must be 1-%d, 'week' or 'month')", raw, maxListDays)
	}
	return n, nil
}

// runList is the handler for list, week and month.
func runList(cmd *cobra.Command, args []string, defaultDays int) error {
	days := defaultDays
	if len(args) > 0 {
		n, err := parseDays(args[0])
		if err != nil {
			return err
		}
		days = n
	}

	ctx := cmd.Context()
	s, err := newSession(ctx, cmd)
	if err != nil {
		return err
	}

	events := s.cfg.EventList()
	if len(events) == 0 {
		events = prayer.DisplayOrder
	}
	layout := s.cfg.GoTimeLayout()

	start := now()
	daysList, err := loadDays(ctx, s.store, start, days)
	if err != nil {
		return err
	}

	if FlagJSON {
		return printListJSON(cmd, s, daysList, events, layout)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  %s\n", display.Bold(fmt.Sprintf("Schedule, %d Days", days)))
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  %s\n", s.store.Location())
	fmt.Fprintln(out)

	headers := []string{"Date"}
	for _, e := range events {
		headers = append(headers, string(e))
	}
	tbl := display.NewTable(headers)

	todayKey := prayer.DateKey(start)
	for i, dd := range daysList {
		row := []string{dd.Date.Format("Mon 02 Jan")}
		for _, e := range events {
			row = append(row, display.FormatClock(dd.Schedule.Clock(e), layout))
		}
		tbl.AddRow(row)

		// Highlight today's row.
		if prayer.DateKey(dd.Date) == todayKey {
			tbl.SetHighlightRow(i)
		}
	}

	fmt.Fprint(out, tbl.Render())
	fmt.Fprintln(out)
	return nil
}

// loadDays returns days consecutive schedules starting at start. Each year
// touched is loaded once through the store; days absent from the data come
// back as placeholders.
func loadDays(ctx context.Context, store *cache.Store, start time.Time, days int) ([]dayData, error) {
	years := make(map[int]prayer.YearSchedule)

	result := make([]dayData, 0, days)
	for i := 0; i < days; i++ {
		d := start.AddDate(0, 0, i)

		ys, ok := years[d.Year()]
		if !ok {
			var err error
			ys, _, err = store.LoadOrFetch(ctx, d)
			if err != nil {
				return nil, fmt.Errorf("failed to load schedule for %d: %w", d.Year(), err)
			}
			years[d.Year()] = ys
		}

		sched, found := ys[prayer.DateKey(d)]
		if !found {
			sched = prayer.Placeholder()
		}
		result = append(result, dayData{Date: d, Schedule: sched, Missing: !found})
	}
	return result, nil
}

// listJSONOutput is the JSON structure for the list command.
type listJSONOutput struct {
	Location todayJSONLocation `json:"location"`
	Days     []listJSONDay     `json:"days"`
}

type listJSONDay struct {
	Date    string            `json:"date"`
	Missing bool              `json:"missing,omitempty"`
	Timings map[string]string `json:"timings"`
}

func printListJSON(cmd *cobra.Command, s *session, daysList []dayData, events []prayer.Event, layout string) error {
	loc := s.store.Location()
	out := listJSONOutput{
		Location: todayJSONLocation{
			City:    loc.City,
			Country: loc.Country,
			Method:  loc.Method,
			School:  loc.School,
		},
	}

	for _, dd := range daysList {
		timings := make(map[string]string)
		for _, e := range events {
			timings[strings.ToLower(string(e))] = display.FormatClock(dd.Schedule.Clock(e), layout)
		}
		out.Days = append(out.Days, listJSONDay{
			Date:    prayer.DateKey(dd.Date),
			Missing: dd.Missing,
			Timings: timings,
		})
	}

	return writeJSON(cmd, out)
}
