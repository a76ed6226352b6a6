package calendar

import (
	"fmt"
	"time"

	"github.com/tartampluch/go-hijri/internal/config"
	"github.com/tartampluch/go-hijri/internal/daycount"
	"github.com/tartampluch/go-hijri/internal/hijri"
	"github.com/tartampluch/go-hijri/internal/locale"
)

// View is an immutable calendar configuration: the engine selected by the
// mode, a private copy of the corrections, the week start and the label
// language. Views are values and may be used from any goroutine.
type View struct {
	engine      hijri.Engine
	corrections Corrections
	weekStart   WeekStart
	language    string
	catalog     *locale.Catalog
}

// NewView builds a View without a Calendar, for callers that keep their own
// configuration.
func NewView(engine hijri.Engine, settings Settings, catalog *locale.Catalog) (View, error) {
	settings, err := settings.normalize()
	if err != nil {
		return View{}, err
	}
	if engine == nil || catalog == nil {
		return View{}, fmt.Errorf("%s: engine or catalog", config.ErrDependencyMissing)
	}
	if err := checkLanguage(catalog, settings.Language); err != nil {
		return View{}, err
	}
	return View{
		engine:      engine,
		corrections: settings.Corrections,
		weekStart:   settings.WeekStart,
		language:    settings.Language,
		catalog:     catalog,
	}, nil
}

// WeekStart returns the first column of month grids.
func (v View) WeekStart() WeekStart { return v.weekStart }

// Language returns the label language.
func (v View) Language() string { return v.language }

// Catalog returns the translations used for labels.
func (v View) Catalog() *locale.Catalog { return v.catalog }

// CumulativeCorrection returns the total offset in effect for (year, month).
func (v View) CumulativeCorrection(year, month int) int {
	return v.corrections.Cumulative(hijri.MonthKey{Year: year, Month: month})
}

// MonthStart returns the corrected pivot of day 1 of (year, month).
func (v View) MonthStart(year, month int) (daycount.Pivot, error) {
	return v.monthStart(hijri.MonthKey{Year: year, Month: month})
}

func (v View) monthStart(key hijri.MonthKey) (daycount.Pivot, error) {
	p, err := v.engine.MonthStart(key.Year, key.Month)
	if err != nil {
		return 0, err
	}
	return p + daycount.Pivot(v.corrections.Cumulative(key)), nil
}

// DaysInMonth is the distance between two corrected month starts: the
// engine's length plus the correction applied at the following month.
func (v View) DaysInMonth(year, month int) (int, error) {
	n, err := v.engine.DaysInMonth(year, month)
	if err != nil {
		return 0, err
	}
	next := hijri.MonthKey{Year: year, Month: month}.Next()
	return n + v.corrections.Get(next), nil
}

// DaysInYear is the distance between the corrected starts of two
// consecutive years.
func (v View) DaysInYear(year int) (int, error) {
	start, err := v.monthStart(hijri.MonthKey{Year: year, Month: 1})
	if err != nil {
		return 0, err
	}
	end, err := v.monthStart(hijri.MonthKey{Year: year + 1, Month: 1})
	if err != nil {
		return 0, err
	}
	return int(end - start), nil
}

// IsLeapYear reports the model's own leap status; corrections do not change it.
func (v View) IsLeapYear(year int) bool {
	return v.engine.IsLeapYear(year)
}

// HijriToPivot converts a Hijri date, shifting it by the cumulative
// correction of its month.
func (v View) HijriToPivot(d hijri.Date) (daycount.Pivot, error) {
	if err := hijri.ValidateMonth(d.Year, d.Month); err != nil {
		return 0, err
	}
	n, err := v.DaysInMonth(d.Year, d.Month)
	if err != nil {
		return 0, err
	}
	if d.Day < 1 || d.Day > n {
		return 0, fmt.Errorf("%w: hijri day %d in %s (month has %d days)", hijri.ErrInvalidArgument, d.Day, d.Key(), n)
	}
	start, err := v.monthStart(d.Key())
	if err != nil {
		return 0, err
	}
	return start + daycount.Pivot(d.Day-1), nil
}

// PivotToHijri inverts HijriToPivot. The correction to remove depends on
// the month being solved for, so the engine is queried with the correction
// of a first candidate, then once more if the refined month carries a
// different cumulative offset. The result is finally settled against the
// corrected month bounds so that forward conversion reproduces p.
func (v View) PivotToHijri(p daycount.Pivot) (hijri.Date, error) {
	if len(v.corrections) == 0 {
		return v.engine.PivotToHijri(p)
	}

	candidate, err := v.engine.PivotToHijri(p)
	if err != nil {
		return hijri.Date{}, err
	}
	first := v.corrections.Cumulative(candidate.Key())

	refined, err := v.engine.PivotToHijri(p - daycount.Pivot(first))
	if err != nil {
		return hijri.Date{}, err
	}
	if second := v.corrections.Cumulative(refined.Key()); second != first {
		refined, err = v.engine.PivotToHijri(p - daycount.Pivot(second))
		if err != nil {
			return hijri.Date{}, err
		}
	}

	return v.settle(p, refined.Key())
}

// settle walks from key to the month whose corrected bounds contain p.
func (v View) settle(p daycount.Pivot, key hijri.MonthKey) (hijri.Date, error) {
	for range config.MaxSettleSteps {
		start, err := v.monthStart(key)
		if err != nil {
			return hijri.Date{}, err
		}
		if p < start {
			key = key.Prev()
			continue
		}
		end, err := v.monthStart(key.Next())
		if err != nil {
			return hijri.Date{}, err
		}
		if p >= end {
			key = key.Next()
			continue
		}
		return hijri.Date{Year: key.Year, Month: key.Month, Day: int(p-start) + 1}, nil
	}
	return hijri.Date{}, fmt.Errorf("%w: %s for pivot %d after %d steps",
		hijri.ErrInternalInconsistency, config.ErrSettle, p, config.MaxSettleSteps)
}

// GregorianToPivot returns the day count of a Gregorian date.
func (v View) GregorianToPivot(d daycount.Date) (daycount.Pivot, error) {
	return daycount.FromGregorian(d.Year, d.Month, d.Day)
}

// PivotToGregorian returns the Gregorian date of p.
func (v View) PivotToGregorian(p daycount.Pivot) daycount.Date {
	return daycount.ToGregorian(p)
}

// DayOfWeek returns the weekday of p, Saturday being 0.
func (v View) DayOfWeek(p daycount.Pivot) daycount.Weekday {
	return daycount.DayOfWeek(p)
}

// GregorianToHijri converts a Gregorian date through its day count.
func (v View) GregorianToHijri(d daycount.Date) (hijri.Date, error) {
	p, err := daycount.FromGregorian(d.Year, d.Month, d.Day)
	if err != nil {
		return hijri.Date{}, err
	}
	return v.PivotToHijri(p)
}

// HijriToGregorian converts a Hijri date through its day count.
func (v View) HijriToGregorian(d hijri.Date) (daycount.Date, error) {
	p, err := v.HijriToPivot(d)
	if err != nil {
		return daycount.Date{}, err
	}
	return daycount.ToGregorian(p), nil
}

// WeekOfYear numbers the week of p so that the week holding 1 Muharram of
// p's Hijri year is week 1, weeks starting on the view's week start.
func (v View) WeekOfYear(p daycount.Pivot) (int, error) {
	h, err := v.PivotToHijri(p)
	if err != nil {
		return 0, err
	}
	return v.weekOfYear(p, h.Year, v.weekStart)
}

func (v View) weekOfYear(p daycount.Pivot, year int, ws WeekStart) (int, error) {
	newYear, err := v.monthStart(hijri.MonthKey{Year: year, Month: 1})
	if err != nil {
		return 0, err
	}
	lead := columnOf(daycount.DayOfWeek(newYear), ws)
	return (int(p-newYear)+lead)/daycount.DaysPerWeek + 1, nil
}

// columnOf is the zero-based grid column of wd for a week starting on ws.
func columnOf(wd daycount.Weekday, ws WeekStart) int {
	return (int(wd) - int(ws) + daycount.DaysPerWeek) % daycount.DaysPerWeek
}

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// Today is the current day in every representation.
type Today struct {
	Pivot     daycount.Pivot
	Gregorian daycount.Date
	Hijri     hijri.Date
	Weekday   daycount.Weekday
	Week      int
}

// Today resolves the civil date of now, taken in now's location.
func (v View) Today(now time.Time) (Today, error) {
	p := daycount.FromTime(now)
	h, err := v.PivotToHijri(p)
	if err != nil {
		return Today{}, err
	}
	week, err := v.weekOfYear(p, h.Year, v.weekStart)
	if err != nil {
		return Today{}, err
	}
	return Today{
		Pivot:     p,
		Gregorian: daycount.ToGregorian(p),
		Hijri:     h,
		Weekday:   daycount.DayOfWeek(p),
		Week:      week,
	}, nil
}
