package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/ramadan-dashboard/internal/display"
	"github.com/smokyabdulrahman/ramadan-dashboard/internal/prayer"
)

var flagQueryDays string

func newQueryCmd() *cobra.Command {
	names := make([]string, len(prayer.DisplayOrder))
	for i, e := range prayer.DisplayOrder {
		names[i] = string(e)
	}

	cmd := &cobra.Command{
		Use:   "query <event>",
		Short: "Query a specific event time",
		Long: "Query one event's time for today, or across multiple days with --days.\n\n" +
			"Valid event names: " + strings.Join(names, ", "),
		Args: cobra.ExactArgs(1),
		RunE: runQuery,
	}

	cmd.Flags().StringVar(&flagQueryDays, "days", "", "Number of days to show (or 'week'/'month')")

	return cmd
}

// lookupEvent matches name case-insensitively against the known events.
func lookupEvent(name string) (prayer.Event, error) {
	var names []string
	for _, e := range prayer.DisplayOrder {
		if strings.EqualFold(string(e), name) {
			return e, nil
		}
		names = append(names, string(e))
	}
	return "", fmt.Errorf("unknown event %q; valid names: %s", name, strings.Join(names, ", "))
}

func runQuery(cmd *cobra.Command, args []string) error {
	event, err := lookupEvent(args[0])
	if err != nil {
		return err
	}

	days := 1
	if flagQueryDays != "" {
		days, err = parseDays(flagQueryDays)
		if err != nil {
			return fmt.Errorf("invalid --days value: %w", err)
		}
	}

	ctx := cmd.Context()
	s, err := newSession(ctx, cmd)
	if err != nil {
		return err
	}
	layout := s.cfg.GoTimeLayout()

	daysList, err := loadDays(ctx, s.store, now(), days)
	if err != nil {
		return err
	}

	if FlagJSON {
		return printQueryJSON(cmd, event, daysList, layout)
	}

	out := cmd.OutOrStdout()

	// Single day: just the time.
	if days == 1 {
		fmt.Fprintf(out, "%s %s\n", event, display.FormatClock(daysList[0].Schedule.Clock(event), layout))
		return nil
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "  %s\n", display.Bold(fmt.Sprintf("%s, %d Days", event, days)))
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  %s\n", s.store.Location())
	fmt.Fprintln(out)

	tbl := display.NewTable([]string{"Date", string(event)})
	for i, dd := range daysList {
		tbl.AddRow([]string{
			dd.Date.Format("Mon 02 Jan"),
			display.FormatClock(dd.Schedule.Clock(event), layout),
		})
		if i == 0 {
			tbl.SetHighlightRow(0)
		}
	}
	fmt.Fprint(out, tbl.Render())
	fmt.Fprintln(out)
	return nil
}

type queryJSONDay struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

type queryJSONOutput struct {
	Event string         `json:"event"`
	Days  []queryJSONDay `json:"days"`
}

func printQueryJSON(cmd *cobra.Command, event prayer.Event, daysList []dayData, layout string) error {
	out := queryJSONOutput{Event: strings.ToLower(string(event))}
	for _, dd := range daysList {
		out.Days = append(out.Days, queryJSONDay{
			Date: prayer.DateKey(dd.Date),
			Time: display.FormatClock(dd.Schedule.Clock(event), layout),
		})
	}
	return writeJSON(cmd, out)
}
