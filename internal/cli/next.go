package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/ramadan-dashboard/internal/config"
	"github.com/smokyabdulrahman/ramadan-dashboard/internal/prayer"
)

var (
	flagFormat string
	flagEvents string
)

func newNextCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "next",
		Short: "Show the next event with countdown",
		Long: "Print the next upcoming event once, for status bars and scripts.\n" +
			"Reads the stored yearly schedule, fetching it first if needed.",
		Args: cobra.NoArgs,
		RunE: runNext,
	}

	cmd.Flags().StringVar(&flagFormat, "format", prayer.FormatFull, "Display format: time-remaining, next-prayer-time, name-and-time, name-and-remaining, short-name-and-time, short-name-and-remaining, full, or a custom Go template")
	cmd.Flags().StringVar(&flagEvents, "events", "", "Comma-separated list of events to track (overrides config)")

	return cmd
}

func runNext(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	s, err := newSession(ctx, cmd)
	if err != nil {
		return err
	}

	// Priority: --events flag > config > every event.
	events := s.cfg.EventList()
	if cmd.Flags().Changed("events") {
		events, err = config.ParseEvents(flagEvents)
		if err != nil {
			return err
		}
	}

	t := now()
	ys, _, err := s.store.LoadOrFetch(ctx, t)
	if err != nil {
		return err
	}

	next := nextTracked(ys, t, events)
	if next == nil {
		return fmt.Errorf("could not determine next event")
	}

	fmt.Fprint(cmd.OutOrStdout(), prayer.FormatOutput(*next, t, flagFormat, s.cfg.GoTimeLayout()))
	return nil
}

// nextTracked is prayer.Next restricted to events. An empty list tracks
// everything. When nothing tracked is left today, tomorrow's first tracked
// event is used.
func nextTracked(ys prayer.YearSchedule, t time.Time, events []prayer.Event) *prayer.Prayer {
	today := ys[prayer.DateKey(t)]
	if len(events) == 0 {
		return prayer.Next(today, t, ys)
	}

	tracked := make(map[prayer.Event]bool, len(events))
	for _, e := range events {
		tracked[e] = true
	}

	for _, p := range prayer.Timeline(today, t) {
		if tracked[p.Name] && p.Time.After(t) {
			return &p
		}
	}

	tomorrow := t.AddDate(0, 0, 1)
	for _, p := range prayer.Timeline(ys[prayer.DateKey(tomorrow)], tomorrow) {
		if tracked[p.Name] {
			return &p
		}
	}
	return nil
}
