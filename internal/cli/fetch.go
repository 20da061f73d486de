package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/ramadan-dashboard/internal/cache"
	"github.com/smokyabdulrahman/ramadan-dashboard/internal/display"
)

var flagFetchYear int

func newFetchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch and store a year's schedule",
		Long: "Download all twelve months for a year and replace the stored schedule.\n" +
			"Useful to prepare the data before going offline.",
		Args: cobra.NoArgs,
		RunE: runFetch,
	}

	cmd.Flags().IntVar(&flagFetchYear, "year", 0, "Year to fetch (default: current year)")

	return cmd
}

func runFetch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	s, err := newSession(ctx, cmd)
	if err != nil {
		return err
	}

	year := flagFetchYear
	if year == 0 {
		year = now().Year()
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Fetching %d for %s...\n", year, s.store.Location())

	ys, _, err := s.store.Refresh(ctx, year)
	if err != nil {
		return err
	}

	status := display.Green("complete")
	if !cache.IsComplete(ys) {
		status = display.Yellow("incomplete")
	}
	fmt.Fprintf(out, "Stored %d days (%s) in %s\n", len(ys), status, s.store.Path(year))
	return nil
}
