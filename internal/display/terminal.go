package display

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/smokyabdulrahman/ramadan-dashboard/internal/dashboard"
	"github.com/smokyabdulrahman/ramadan-dashboard/internal/prayer"
)

// ANSI sequences used by the live dashboard.
const (
	clearScreen = "\033[H\033[2J"
	saveCursor  = "\033[s"
	restoreCur  = "\033[u"
	upTwoLines  = "\033[2A"
	clearLine   = "\033[K"
)

const banner = "RAMADAN DASHBOARD"

// Terminal is the dashboard.Driver for a text terminal.
//
// In interactive mode Render clears the screen and Update rewrites the two
// lines below the table in place. Otherwise output is append-only and
// Update prints only when the countdown target changes.
type Terminal struct {
	out         io.Writer
	interactive bool

	// Location is shown under the banner when set.
	Location string
	// TimeFormat is a Go layout for event times, "15:04" by default.
	TimeFormat string

	lastLabel string
}

// NewTerminal returns a driver writing to out.
func NewTerminal(out io.Writer, interactive bool) *Terminal {
	return &Terminal{
		out:         out,
		interactive: interactive,
		TimeFormat:  "15:04",
	}
}

var _ dashboard.Driver = (*Terminal)(nil)

// Render draws the header, dates and schedule table.
func (t *Terminal) Render(f dashboard.Frame) {
	var sb strings.Builder
	if t.interactive {
		sb.WriteString(clearScreen)
	}

	rule := strings.Repeat("*", 50)
	sb.WriteString(Gray(rule) + "\n")
	sb.WriteString(Bold(centre(banner, len(rule))) + "\n")
	if t.Location != "" {
		sb.WriteString(Cyan(centre(t.Location, len(rule))) + "\n")
	}
	sb.WriteString(Gray(rule) + "\n\n")

	sb.WriteString(fmt.Sprintf("Day/Date   : %s\n", f.Now.Format("Monday, 02-01-2006")))
	sb.WriteString(fmt.Sprintf("Hijri Date : %s\n\n", f.Hijri))
	if f.Placeholder {
		sb.WriteString(Yellow(fmt.Sprintf("Warning: no schedule for %s", prayer.DateKey(f.Now))) + "\n\n")
	}

	sb.WriteString(ScheduleTable(f.Schedule, f.Highlight(), t.TimeFormat).Render())

	// Two lines reserved for Update.
	sb.WriteString("\n\n")
	if t.interactive {
		sb.WriteString(saveCursor)
	}

	t.lastLabel = ""
	io.WriteString(t.out, sb.String())
}

// Update rewrites the clock and countdown lines.
func (t *Terminal) Update(clock, countdown string) {
	clockLine := "Current time : " + clock
	if t.interactive {
		fmt.Fprintf(t.out, "%s\r%s%s\n\r%s%s%s",
			upTwoLines, clearLine, clockLine, clearLine, Accent(countdown), restoreCur)
		return
	}

	label := countdownLabel(countdown)
	if label == t.lastLabel {
		return
	}
	t.lastLabel = label
	fmt.Fprintf(t.out, "%s\n%s\n", clockLine, countdown)
}

// Farewell prints the goodbye line.
func (t *Terminal) Farewell() {
	fmt.Fprintf(t.out, "\n\n%s\n", Green("Dashboard stopped. Ramadan Mubarak!"))
}

// countdownLabel drops the remaining-time part so that only a change of
// target counts as a change.
func countdownLabel(countdown string) string {
	if i := strings.Index(countdown, ":"); i >= 0 {
		return countdown[:i]
	}
	return countdown
}

func centre(s string, width int) string {
	if len(s) >= width {
		return s
	}
	pad := (width - len(s)) / 2
	return strings.Repeat(" ", pad) + s
}

// ScheduleTable builds the event table for one day. Rows follow
// prayer.DisplayOrder; the highlighted event's row is emphasised, and Iftar
// is emphasised together with Maghrib.
func ScheduleTable(s prayer.Schedule, highlight prayer.Event, timeFormat string) *Table {
	tbl := NewTable([]string{"Event", "Time"})
	tbl.SetBorder(true)
	for i, name := range prayer.DisplayOrder {
		tbl.AddRow([]string{string(name), FormatClock(s.Clock(name), timeFormat)})
		if highlight != "" && sameInstant(name, highlight) {
			tbl.AddHighlightRow(i)
		}
	}
	return tbl
}

func sameInstant(a, b prayer.Event) bool {
	if a == b {
		return true
	}
	isMaghrib := func(e prayer.Event) bool { return e == prayer.Maghrib || e == prayer.Iftar }
	return isMaghrib(a) && isMaghrib(b)
}

// FormatClock renders c with a Go layout such as "15:04" or "3:04 PM".
// Unknown clocks render as "--:--".
func FormatClock(c prayer.Clock, layout string) string {
	if !c.Valid() {
		return c.String()
	}
	if layout == "" {
		layout = "15:04"
	}
	return time.Date(2000, 1, 1, c.Hour(), c.Minute(), 0, 0, time.UTC).Format(layout)
}
