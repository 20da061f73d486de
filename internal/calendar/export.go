// Package calendar exports a yearly schedule as an iCalendar feed so the
// times can be subscribed to from a calendar app.
package calendar

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"

	"github.com/smokyabdulrahman/ramadan-dashboard/internal/prayer"
)

const productID = "-//ramadan-dashboard//schedule export//EN"

const propCalName = "X-WR-CALNAME"

// DefaultDuration is the length given to each exported event.
const DefaultDuration = 10 * time.Minute

// uidNamespace scopes the name-based UIDs so re-exports produce the same
// identifiers and calendar apps update instead of duplicating.
var uidNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/smokyabdulrahman/ramadan-dashboard"))

// Options controls what is exported.
type Options struct {
	// Place names the schedule, e.g. "Jakarta, ID". It is part of every UID.
	Place string
	// Location anchors the wall-clock times. Defaults to time.Local.
	Location *time.Location
	// Events limits the export. Defaults to prayer.AllEvents.
	Events []prayer.Event
	// Duration of each event. Defaults to DefaultDuration.
	Duration time.Duration
	// Stamp is written as DTSTAMP. Defaults to now.
	Stamp time.Time
}

func (o Options) withDefaults() Options {
	if o.Location == nil {
		o.Location = time.Local
	}
	if len(o.Events) == 0 {
		o.Events = prayer.AllEvents
	}
	if o.Duration <= 0 {
		o.Duration = DefaultDuration
	}
	if o.Stamp.IsZero() {
		o.Stamp = time.Now()
	}
	return o
}

// Build converts ys into a calendar with one VEVENT per known event time.
func Build(ys prayer.YearSchedule, opts Options) (*ical.Calendar, error) {
	opts = opts.withDefaults()

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, productID)
	if opts.Place != "" {
		// Calendar clients only read the bare form, without VALUE=TEXT.
		name := ical.NewProp(propCalName)
		name.SetText("Prayer times - " + opts.Place)
		name.Params.Del(ical.ParamValue)
		cal.Props.Set(name)
	}

	keys := make([]string, 0, len(ys))
	for k := range ys {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	stamp := opts.Stamp.UTC()
	for _, key := range keys {
		day, err := time.ParseInLocation("2006-01-02", key, opts.Location)
		if err != nil {
			return nil, fmt.Errorf("invalid schedule date %q: %w", key, err)
		}
		sched := ys[key]
		for _, name := range opts.Events {
			c := sched.Clock(name)
			if !c.Valid() {
				continue
			}
			start := c.On(day)

			event := ical.NewEvent()
			event.Props.SetText(ical.PropUID, EventUID(opts.Place, key, name))
			event.Props.SetDateTime(ical.PropDateTimeStamp, stamp)
			event.Props.SetDateTime(ical.PropDateTimeStart, start.UTC())
			event.Props.SetDateTime(ical.PropDateTimeEnd, start.Add(opts.Duration).UTC())
			event.Props.SetText(ical.PropSummary, string(name))
			if opts.Place != "" {
				event.Props.SetText(ical.PropLocation, opts.Place)
			}
			cal.Children = append(cal.Children, event.Component)
		}
	}
	return cal, nil
}

// Export writes ys to w in iCalendar format.
func Export(w io.Writer, ys prayer.YearSchedule, opts Options) error {
	cal, err := Build(ys, opts)
	if err != nil {
		return err
	}
	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("failed to encode calendar: %w", err)
	}
	return nil
}

// EventUID returns the stable UID for one event on one day.
func EventUID(place, dateKey string, name prayer.Event) string {
	return uuid.NewSHA1(uidNamespace, []byte(place+"|"+dateKey+"|"+string(name))).String()
}
