package prayer

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"time"
)

// Format constants for one-shot output modes.
const (
	FormatTimeRemaining      = "time-remaining"
	FormatNextPrayerTime     = "next-prayer-time"
	FormatNameAndTime        = "name-and-time"
	FormatNameAndRemaining   = "name-and-remaining"
	FormatShortNameAndTime   = "short-name-and-time"
	FormatShortNameAndRemain = "short-name-and-remaining"
	FormatFull               = "full"
)

// FormatData is the data passed to custom Go templates.
type FormatData struct {
	Name      string // Event name, e.g. "Maghrib"
	ShortName string // Abbreviated name, e.g. "M"
	Time      string // Formatted event time, e.g. "18:10" or "6:10 PM"
	Remaining string // e.g. "2h 15m"
	Countdown string // e.g. "Time until Maghrib: 2h 15m 3s"
	Hours     int
	Minutes   int
	Seconds   int
}

// FormatOutput formats the next event according to mode.
// timeFormat should be "15:04" for 24h or "3:04 PM" for 12h.
//
// If mode contains "{{", it is treated as a custom Go template string.
//
// Example: "{{.Name}} in {{.Remaining}}" -> "Maghrib in 2h 15m"
func FormatOutput(p Prayer, now time.Time, mode string, timeFormat string) string {
	d := TimeRemaining(p, now)
	remaining := FormatRemaining(d)
	timeStr := p.Time.Format(timeFormat)
	short := ShortNames[p.Name]
	name := string(p.Name)

	if strings.Contains(mode, "{{") {
		secs := int(d / time.Second)
		if secs < 0 {
			secs = 0
		}
		return formatCustom(mode, FormatData{
			Name:      name,
			ShortName: short,
			Time:      timeStr,
			Remaining: remaining,
			Countdown: Countdown(&p, now),
			Hours:     secs / 3600,
			Minutes:   secs % 3600 / 60,
			Seconds:   secs % 60,
		})
	}

	switch mode {
	case FormatTimeRemaining:
		return remaining
	case FormatNextPrayerTime:
		return timeStr
	case FormatNameAndRemaining:
		return name + " " + remaining
	case FormatShortNameAndTime:
		return short + " " + timeStr
	case FormatShortNameAndRemain:
		return short + " " + remaining
	case FormatFull:
		return fmt.Sprintf("%s %s (%s)", name, timeStr, remaining)
	default:
		return name + " " + timeStr
	}
}

func formatCustom(tmpl string, data FormatData) string {
	t, err := template.New("custom").Parse(tmpl)
	if err != nil {
		return fmt.Sprintf("template-err: %v", err)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return fmt.Sprintf("template-err: %v", err)
	}
	return buf.String()
}
