package api

// Data is one day of the calendar endpoint: the timings and the Gregorian
// date they belong to.
type Data struct {
	Timings Timings  `json:"timings"`
	Date    DateInfo `json:"date"`
}

// Timings contains the event times as HH:MM strings, sometimes with a
// timezone suffix like " (WIB)".
type Timings struct {
	Fajr       string `json:"Fajr"`
	Sunrise    string `json:"Sunrise"`
	Dhuhr      string `json:"Dhuhr"`
	Asr        string `json:"Asr"`
	Sunset     string `json:"Sunset"`
	Maghrib    string `json:"Maghrib"`
	Isha       string `json:"Isha"`
	Imsak      string `json:"Imsak"`
	Midnight   string `json:"Midnight"`
	Firstthird string `json:"Firstthird"`
	Lastthird  string `json:"Lastthird"`
}

type DateInfo struct {
	Gregorian GregorianDate `json:"gregorian"`
}

// GregorianDate carries the day key, e.g. "11-03-2024".
type GregorianDate struct {
	Date string `json:"date"`
}

// HijriDate is the part of a gToH conversion the dashboard shows.
type HijriDate struct {
	Day   string     `json:"day"`
	Month HijriMonth `json:"month"`
	Year  string     `json:"year"`
}

type HijriMonth struct {
	En string `json:"en"` // e.g. "Ramaḍān"
}

// Format returns the Hijri date as "DD MonthName YYYY H", or "" when
// any part is missing.
func (h HijriDate) Format() string {
	if h.Day == "" || h.Month.En == "" || h.Year == "" {
		return ""
	}
	return h.Day + " " + h.Month.En + " " + h.Year + " H"
}

// CalendarResponse is the calendar endpoint's response: one Data per day
// of the requested month.
type CalendarResponse struct {
	Code   int    `json:"code"`
	Status string `json:"status"`
	Data   []Data `json:"data"`
}

// HijriResponse is the gToH conversion endpoint's response.
type HijriResponse struct {
	Code   int    `json:"code"`
	Status string `json:"status"`
	Data   struct {
		Hijri HijriDate `json:"hijri"`
	} `json:"data"`
}
