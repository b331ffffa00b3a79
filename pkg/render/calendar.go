package render

import (
	"fmt"
	"time"

	ptime "github.com/yaa110/go-persian-calendar"
)

// Calendar names the calendar used for display dates.
type Calendar string

// Supported calendars.
const (
	CalendarGregorian Calendar = "gregorian"
	CalendarJalali    Calendar = "jalali"
)

// weekdays is indexed by time.Weekday.
var weekdays = [...]string{
	time.Sunday:    "یکشنبه😃",
	time.Monday:    "دوشنبه☺️",
	time.Tuesday:   "سه شنبه🥱",
	time.Wednesday: "چهارشنبه😕",
	time.Thursday:  "پنج شنبه☺️",
	time.Friday:    "جمعه😎",
	time.Saturday:  "شنبه💪",
}

// Stamp is the date and time information printed in message headers.
type Stamp struct {
	// Date is the display date, e.g. "شنبه💪 1403/05/12".
	Date string
	// Time is the wall clock time, or empty when time stamps are disabled.
	Time string
}

// NewStamp builds the header stamp for t in the given calendar. The time of
// day is only included when withTime is set.
func NewStamp(t time.Time, cal Calendar, withTime bool) Stamp {
	s := Stamp{Date: weekdays[t.Weekday()] + " " + FormatDate(t, cal)}
	if withTime {
		s.Time = t.Format("15:04")
	}
	return s
}

// FormatDate renders the calendar date of t as yyyy/mm/dd.
func FormatDate(t time.Time, cal Calendar) string {
	if cal == CalendarJalali {
		pt := ptime.New(t)
		return fmt.Sprintf("%04d/%02d/%02d", pt.Year(), int(pt.Month()), pt.Day())
	}
	return t.Format("2006/01/02")
}

// LedgerDate returns the ISO-8601 date that keys ledger rows for t.
func LedgerDate(t time.Time) string {
	return t.Format(time.DateOnly)
}
