package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/ramadan-dashboard/internal/dashboard"
	"github.com/smokyabdulrahman/ramadan-dashboard/internal/display"
	"github.com/smokyabdulrahman/ramadan-dashboard/internal/hijri"
	"github.com/smokyabdulrahman/ramadan-dashboard/internal/logger"
)

// runDashboard is the root command handler. It runs until interrupted.
func runDashboard(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runDashboardContext(ctx, cmd)
}

func runDashboardContext(ctx context.Context, cmd *cobra.Command) error {
	s, err := newSession(ctx, cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	interactive := false
	if f, ok := out.(*os.File); ok {
		interactive = display.IsTerminal(f)
	}

	driver := display.NewTerminal(out, interactive)
	driver.Location = s.store.Location().String()
	driver.TimeFormat = s.cfg.GoTimeLayout()

	d := dashboard.New(s.store, hijri.New(s.client), driver)
	d.Interval = s.cfg.TickIntervalOrDefault(dashboard.DefaultInterval)
	d.Now = now

	logger.Info("dashboard starting", "location", driver.Location, "interval", d.Interval, "interactive", interactive)
	return d.Run(ctx)
}
