package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/ramadan-dashboard/internal/calendar"
	"github.com/smokyabdulrahman/ramadan-dashboard/internal/config"
	"github.com/smokyabdulrahman/ramadan-dashboard/internal/logger"
)

var (
	flagExportYear   int
	flagExportOutput string
	flagExportEvents string
)

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the yearly schedule as iCalendar",
		Long: "Write the stored schedule as an .ics file with one event per time,\n" +
			"for import into a calendar application.",
		Args: cobra.NoArgs,
		RunE: runExport,
	}

	cmd.Flags().IntVar(&flagExportYear, "year", 0, "Year to export (default: current year)")
	cmd.Flags().StringVarP(&flagExportOutput, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().StringVar(&flagExportEvents, "events", "", "Comma-separated list of events to export (overrides config)")

	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	s, err := newSession(ctx, cmd)
	if err != nil {
		return err
	}

	events := s.cfg.EventList()
	if cmd.Flags().Changed("events") {
		events, err = config.ParseEvents(flagExportEvents)
		if err != nil {
			return err
		}
	}

	t := now()
	if flagExportYear != 0 {
		t = time.Date(flagExportYear, 1, 1, 0, 0, 0, 0, t.Location())
	}
	ys, year, err := s.store.LoadOrFetch(ctx, t)
	if err != nil {
		return err
	}

	var w io.Writer = cmd.OutOrStdout()
	if flagExportOutput != "" {
		f, err := os.Create(flagExportOutput)
		if err != nil {
			return fmt.Errorf("cannot create %s: %w", flagExportOutput, err)
		}
		defer f.Close()
		w = f
	}

	opts := calendar.Options{
		Place:    s.store.Location().String(),
		Location: t.Location(),
		Events:   events,
	}
	if err := calendar.Export(w, ys, opts); err != nil {
		return err
	}
	logger.Info("schedule exported", "year", year, "days", len(ys), "output", flagExportOutput)

	if flagExportOutput != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d days to %s\n", len(ys), flagExportOutput)
	}
	return nil
}
