// Package daycount converts proleptic Gregorian dates to and from the Julian
// Day Number, the calendar-agnostic pivot every other calendar converts through.
package daycount

import (
	"errors"
	"fmt"
	"time"

	"github.com/tartampluch/go-hijri/internal/config"
)

// ErrInvalidArgument reports a date outside its calendar's valid range.
var ErrInvalidArgument = errors.New(config.ErrInvalidArgument)

// Pivot is a Julian Day Number: whole civil days counted from 1 January 4713 BC
// (proleptic Julian). All arithmetic on it is integer only.
type Pivot int

// Weekday numbers the days of the week with Saturday as 0.
type Weekday int

const (
	Saturday Weekday = iota
	Sunday
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
)

// DaysPerWeek is the length of a week in days.
const DaysPerWeek = 7

// Date is a proleptic Gregorian calendar date.
type Date struct {
	Year  int
	Month int
	Day   int
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return fmt.Sprintf(config.FormatISODate, d.Year, d.Month, d.Day)
}

// Time returns midnight of the date in loc.
func (d Date) Time(loc *time.Location) time.Time {
	return time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, loc)
}

// Validate checks the month and the day against the month length.
func (d Date) Validate() error {
	if d.Month < 1 || d.Month > 12 {
		return fmt.Errorf("%w: gregorian month %d", ErrInvalidArgument, d.Month)
	}
	if d.Day < 1 || d.Day > DaysInMonth(d.Year, d.Month) {
		return fmt.Errorf("%w: gregorian day %d in %04d-%02d", ErrInvalidArgument, d.Day, d.Year, d.Month)
	}
	return nil
}

// IsLeapYear reports whether year is a Gregorian leap year.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysInMonth returns the length of a Gregorian month. month must be in 1..12.
func DaysInMonth(year, month int) int {
	switch month {
	case 2:
		if IsLeapYear(year) {
			return 29
		}
		return 28
	case 4, 6, 9, 11:
		return 30
	default:
		return 31
	}
}

// FromGregorian returns the pivot of a Gregorian date.
func FromGregorian(year, month, day int) (Pivot, error) {
	d := Date{Year: year, Month: month, Day: day}
	if err := d.Validate(); err != nil {
		return 0, err
	}
	return julianDayNumber(year, month, day), nil
}

// FromTime returns the pivot of the civil date of t in its own location.
func FromTime(t time.Time) Pivot {
	y, m, d := t.Date()
	return julianDayNumber(y, int(m), d)
}

// ToGregorian is the exact inverse of FromGregorian.
func ToGregorian(p Pivot) Date {
	l := int(p) + 68569
	n := 4 * l / 146097
	l -= (146097*n + 3) / 4
	i := 4000 * (l + 1) / 1461001
	l = l - 1461*i/4 + 31
	j := 80 * l / 2447
	day := l - 2447*j/80
	l = j / 11
	month := j + 2 - 12*l
	year := 100*(n-49) + i + l
	return Date{Year: year, Month: month, Day: day}
}

// DayOfWeek returns the weekday of p, Saturday being 0.
func DayOfWeek(p Pivot) Weekday {
	return Weekday((mod(int(p), DaysPerWeek) + 2) % DaysPerWeek)
}

// julianDayNumber is the Fliegel & Van Flandern formula. It relies on
// truncating division and holds for every year after -4800.
func julianDayNumber(y, m, d int) Pivot {
	a := (m - 14) / 12
	return Pivot(d - 32075 +
		1461*(y+4800+a)/4 +
		367*(m-2-a*12)/12 -
		3*((y+4900+a)/100)/4)
}

func mod(a, b int) int {
	r := a % b
	if r < 0 {
		r += b
	}
	return r
}
