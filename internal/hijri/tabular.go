package hijri

import (
	"fmt"
	"time"
)

// islamicEpoch is the Julian Day Number of 1 Muharram 1 AH.
const islamicEpoch = 1948440

// MonthNames are the Hijri months, Muharram first.
var MonthNames = [12]string{
	"Muharram",
	"Safar",
	"Rabi' al-Awwal",
	"Rabi' al-Thani",
	"Jumada al-Awwal",
	"Jumada al-Thani",
	"Rajab",
	"Sha'ban",
	"Ramadan",
	"Shawwal",
	"Dhu al-Qi'dah",
	"Dhu al-Hijjah",
}

// Date is a day in the tabular Islamic calendar.
type Date struct {
	Year  int
	Month int // 1-12
	Day   int
}

// String renders the date the way the dashboard shows it, e.g. "1 Ramadan 1445 H".
func (d Date) String() string {
	return fmt.Sprintf("%d %s %d H", d.Day, MonthNames[d.Month-1], d.Year)
}

// FromGregorian converts t's calendar date using the arithmetic (civil)
// Islamic calendar. It can be off by a day or two from sighting-based
// calendars, which is acceptable for a fallback.
func FromGregorian(t time.Time) Date {
	return fromJDN(gregorianToJDN(t.Year(), int(t.Month()), t.Day()))
}

func gregorianToJDN(year, month, day int) int {
	a := (14 - month) / 12
	y := year + 4800 - a
	m := month + 12*a - 3
	return day + (153*m+2)/5 + 365*y + y/4 - y/100 + y/400 - 32045
}

func islamicToJDN(year, month, day int) int {
	return day + (59*(month-1)+1)/2 + (year-1)*354 + (3+11*year)/30 + islamicEpoch - 1
}

func fromJDN(jdn int) Date {
	year := (30*(jdn-islamicEpoch) + 10646) / 10631
	month := ceilDiv(2*(jdn-29-islamicToJDN(year, 1, 1)), 59) + 1
	if month > 12 {
		month = 12
	}
	if month < 1 {
		month = 1
	}
	day := jdn - islamicToJDN(year, month, 1) + 1
	return Date{Year: year, Month: month, Day: day}
}

// ceilDiv rounds a/b up for positive b. Go's truncating division already
// rounds non-positive quotients up.
func ceilDiv(a, b int) int {
	if a > 0 {
		return (a + b - 1) / b
	}
	return a / b
}
