package hijri

import (
	"fmt"

	"github.com/tartampluch/go-hijri/internal/daycount"
)

const (
	// EpochPivot is 1 Muharram 1 AH in the civil (Friday) epoch.
	EpochPivot daycount.Pivot = 1948440

	// CycleYears is the length of the intercalation cycle.
	CycleYears = 30

	// CycleDays is the number of days in one 30-year cycle.
	CycleDays = 10631

	// CommonYearDays is the length of a non-leap year.
	CommonYearDays = 354
)

var _ Engine = Tabular{}

// Tabular is the arithmetic Hijri calendar: odd months have 30 days, even
// months 29, and the last month gains a day in 11 years of every 30.
type Tabular struct{}

// IsLeapYear reports whether year has 355 days.
func (Tabular) IsLeapYear(year int) bool {
	return floorMod(11*year+15, CycleYears) < 11
}

// DaysInMonth returns 29 or 30.
func (t Tabular) DaysInMonth(year, month int) (int, error) {
	if err := ValidateMonth(year, month); err != nil {
		return 0, err
	}
	return t.monthLength(year, month), nil
}

// DaysInYear returns 354 or 355.
func (t Tabular) DaysInYear(year int) int {
	if t.IsLeapYear(year) {
		return CommonYearDays + 1
	}
	return CommonYearDays
}

// MonthStart returns the pivot of the first day of the month.
func (t Tabular) MonthStart(year, month int) (daycount.Pivot, error) {
	if err := ValidateMonth(year, month); err != nil {
		return 0, err
	}
	return t.monthStart(year, month), nil
}

// HijriToPivot converts a validated Hijri date to its pivot.
func (t Tabular) HijriToPivot(d Date) (daycount.Pivot, error) {
	if err := validateDate(d, t.monthLength); err != nil {
		return 0, err
	}
	return t.monthStart(d.Year, d.Month) + daycount.Pivot(d.Day-1), nil
}

// PivotToHijri decomposes the days elapsed since the epoch into whole
// cycles, years within the cycle and months within the year.
func (t Tabular) PivotToHijri(p daycount.Pivot) (Date, error) {
	elapsed := int(p - EpochPivot)
	if elapsed < 0 {
		return Date{}, fmt.Errorf("%w: pivot %d precedes the hijri epoch", ErrInvalidArgument, p)
	}

	cycles := floorDiv(elapsed, CycleDays)
	rem := elapsed - cycles*CycleDays

	// Leap positions repeat every cycle, so walking from the first year of
	// the cycle takes at most 30 steps.
	year := cycles*CycleYears + 1
	for n := t.DaysInYear(year); rem >= n; n = t.DaysInYear(year) {
		rem -= n
		year++
	}

	month := MonthsPerYear
	for month > 1 && monthOffset(month) > rem {
		month--
	}

	return Date{Year: year, Month: month, Day: rem - monthOffset(month) + 1}, nil
}

func (t Tabular) monthLength(year, month int) int {
	if month%2 == 1 {
		return 30
	}
	if month == MonthsPerYear && t.IsLeapYear(year) {
		return 30
	}
	return 29
}

// yearStart is the pivot of 1 Muharram. floorDiv(11(y-1)+15, 30) counts the
// leap years before y, and over a full cycle it adds exactly 11.
func (Tabular) yearStart(year int) daycount.Pivot {
	return EpochPivot + daycount.Pivot((year-1)*CommonYearDays+floorDiv(11*(year-1)+15, CycleYears))
}

func (t Tabular) monthStart(year, month int) daycount.Pivot {
	return t.yearStart(year) + daycount.Pivot(monthOffset(month))
}

// monthOffset is ceil(29.5 * (month-1)) in integer arithmetic. PivotToHijri
// inverts the same function, which keeps both directions in agreement at
// every month boundary.
func monthOffset(month int) int {
	return (59*(month-1) + 1) / 2
}
