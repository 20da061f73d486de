package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/ramadan-dashboard/internal/api"
	"github.com/smokyabdulrahman/ramadan-dashboard/internal/hijri"
)

var (
	flagHijriDate    string
	flagHijriOffline bool
)

func newHijriCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hijri",
		Short: "Print the Hijri date",
		Long: "Print the Hijri date for today or --date. The API is asked first;\n" +
			"when it is unreachable the tabular Islamic calendar is used.",
		Args: cobra.NoArgs,
		RunE: runHijri,
	}

	cmd.Flags().StringVar(&flagHijriDate, "date", "", "Gregorian date as YYYY-MM-DD (default: today)")
	cmd.Flags().BoolVar(&flagHijriOffline, "offline", false, "Skip the API and use the tabular calendar")

	return cmd
}

func runHijri(cmd *cobra.Command, args []string) error {
	day := now()
	if flagHijriDate != "" {
		d, err := time.ParseInLocation("2006-01-02", flagHijriDate, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --date %q: want YYYY-MM-DD", flagHijriDate)
		}
		day = d
	}

	r := &hijri.Resolver{Fallback: hijri.TabularLookup}
	if !flagHijriOffline {
		client := api.NewClient()
		if apiBaseURL != "" {
			client.BaseURL = apiBaseURL
		}
		r = hijri.New(client)
	}

	res := r.Resolve(cmd.Context(), day)
	if FlagJSON {
		return writeJSON(cmd, map[string]string{
			"gregorian": day.Format("2006-01-02"),
			"hijri":     res.Text,
			"source":    res.Source.String(),
		})
	}
	fmt.Fprintln(cmd.OutOrStdout(), res.Text)
	return nil
}
