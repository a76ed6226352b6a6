// Package hijri implements the two Hijri calendar models: the 30-year
// arithmetic (tabular) calendar and the conjunction-based astronomical one.
// Both convert through the daycount pivot.
package hijri

import (
	"errors"
	"fmt"

	"github.com/tartampluch/go-hijri/internal/config"
	"github.com/tartampluch/go-hijri/internal/daycount"
)

var (
	// ErrInvalidArgument reports a contract violation by the caller:
	// a month outside 1..12, a non-positive day, a day past the month's end
	// or a pivot before the calendar epoch.
	ErrInvalidArgument = daycount.ErrInvalidArgument

	// ErrInternalInconsistency reports a search that failed to converge
	// within its defensive bound.
	ErrInternalInconsistency = errors.New(config.ErrInternalInconsistency)
)

// MonthsPerYear is the number of lunar months in a Hijri year.
const MonthsPerYear = 12

// Date is a Hijri calendar date.
type Date struct {
	Year  int
	Month int
	Day   int
}

// Key returns the month the date belongs to.
func (d Date) Key() MonthKey {
	return MonthKey{Year: d.Year, Month: d.Month}
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return fmt.Sprintf(config.FormatISODate, d.Year, d.Month, d.Day)
}

// MonthKey identifies a Hijri month. Keys order lexicographically by
// (Year, Month).
type MonthKey struct {
	Year  int
	Month int
}

// Less reports whether k comes strictly before o.
func (k MonthKey) Less(o MonthKey) bool {
	if k.Year != o.Year {
		return k.Year < o.Year
	}
	return k.Month < o.Month
}

// Next returns the following month, rolling over into the next year.
func (k MonthKey) Next() MonthKey {
	if k.Month >= MonthsPerYear {
		return MonthKey{Year: k.Year + 1, Month: 1}
	}
	return MonthKey{Year: k.Year, Month: k.Month + 1}
}

// Prev returns the preceding month, rolling back into the previous year.
func (k MonthKey) Prev() MonthKey {
	if k.Month <= 1 {
		return MonthKey{Year: k.Year - 1, Month: MonthsPerYear}
	}
	return MonthKey{Year: k.Year, Month: k.Month - 1}
}

// String formats the key as YYYY-MM, the form used for persisted corrections.
func (k MonthKey) String() string {
	return fmt.Sprintf(config.FormatMonthKey, k.Year, k.Month)
}

// ParseMonthKey parses the YYYY-MM form produced by MonthKey.String.
func ParseMonthKey(s string) (MonthKey, error) {
	var k MonthKey
	var rest string
	n, _ := fmt.Sscanf(s, config.FormatMonthKeyScan, &k.Year, &k.Month, &rest)
	if n != 2 {
		return MonthKey{}, fmt.Errorf("%w: month key %q", ErrInvalidArgument, s)
	}
	if err := ValidateMonth(k.Year, k.Month); err != nil {
		return MonthKey{}, err
	}
	return k, nil
}

// Engine is the capability set shared by the calendar models.
type Engine interface {
	IsLeapYear(year int) bool
	DaysInMonth(year, month int) (int, error)
	DaysInYear(year int) int
	MonthStart(year, month int) (daycount.Pivot, error)
	HijriToPivot(d Date) (daycount.Pivot, error)
	PivotToHijri(p daycount.Pivot) (Date, error)
}

// ValidateMonth rejects years before 1 AH and months outside 1..12.
func ValidateMonth(year, month int) error {
	if year < 1 {
		return fmt.Errorf("%w: hijri year %d", ErrInvalidArgument, year)
	}
	if month < 1 || month > MonthsPerYear {
		return fmt.Errorf("%w: hijri month %d", ErrInvalidArgument, month)
	}
	return nil
}

// validateDate checks d against the month length reported by length.
func validateDate(d Date, length func(year, month int) int) error {
	if err := ValidateMonth(d.Year, d.Month); err != nil {
		return err
	}
	if n := length(d.Year, d.Month); d.Day < 1 || d.Day > n {
		return fmt.Errorf("%w: hijri day %d in %s (month has %d days)", ErrInvalidArgument, d.Day, d.Key(), n)
	}
	return nil
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int) int {
	return a - floorDiv(a, b)*b
}
