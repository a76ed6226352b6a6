package calendar

import (
	"fmt"

	"github.com/tartampluch/go-hijri/internal/daycount"
	"github.com/tartampluch/go-hijri/internal/hijri"
)

// DayCell is one square of a month grid.
type DayCell struct {
	Pivot     daycount.Pivot
	Hijri     hijri.Date
	Gregorian daycount.Date
	Weekday   daycount.Weekday
	// Week is the week of Hijri year of this cell's own Hijri date.
	Week int
	// InMonth is false for leading and trailing fill.
	InMonth bool
}

// MonthData is the grid of a Hijri month, padded with days of the previous
// and next months so that it spans whole weeks.
type MonthData struct {
	Year         int
	Month        int
	DaysInMonth  int
	FirstWeekday daycount.Weekday
	WeekStart    WeekStart
	Leading      int
	Trailing     int
	Days         []DayCell

	GregorianStart daycount.Date
	GregorianEnd   daycount.Date
	Label          string
}

// Weeks splits the grid into rows of seven cells.
func (md MonthData) Weeks() [][]DayCell {
	rows := make([][]DayCell, 0, len(md.Days)/daycount.DaysPerWeek)
	for i := 0; i < len(md.Days); i += daycount.DaysPerWeek {
		rows = append(rows, md.Days[i:i+daycount.DaysPerWeek])
	}
	return rows
}

// MonthData builds the grid of (year, month) for the view's week start.
func (v View) MonthData(year, month int) (MonthData, error) {
	return v.MonthDataFor(year, month, v.weekStart)
}

// MonthDataFor builds the grid of (year, month) with an explicit week start.
func (v View) MonthDataFor(year, month int, ws WeekStart) (MonthData, error) {
	if !ws.Valid() {
		return MonthData{}, fmt.Errorf("%w: week start %d", hijri.ErrInvalidArgument, ws)
	}
	key := hijri.MonthKey{Year: year, Month: month}
	if err := hijri.ValidateMonth(year, month); err != nil {
		return MonthData{}, err
	}

	n, err := v.DaysInMonth(year, month)
	if err != nil {
		return MonthData{}, err
	}
	start, err := v.monthStart(key)
	if err != nil {
		return MonthData{}, err
	}

	first := daycount.DayOfWeek(start)
	leading := columnOf(first, ws)
	trailing := (daycount.DaysPerWeek - (leading+n)%daycount.DaysPerWeek) % daycount.DaysPerWeek

	md := MonthData{
		Year:           year,
		Month:          month,
		DaysInMonth:    n,
		FirstWeekday:   first,
		WeekStart:      ws,
		Leading:        leading,
		Trailing:       trailing,
		Days:           make([]DayCell, 0, leading+n+trailing),
		GregorianStart: daycount.ToGregorian(start),
		GregorianEnd:   daycount.ToGregorian(start + daycount.Pivot(n-1)),
	}
	md.Label = v.catalog.RangeLabel(v.language, md.GregorianStart, md.GregorianEnd)

	weeks := weekNumberer{view: v, ws: ws, newYears: map[int]daycount.Pivot{}}

	if leading > 0 {
		prev := key.Prev()
		prevLen, err := v.DaysInMonth(prev.Year, prev.Month)
		if err != nil {
			return MonthData{}, err
		}
		for i := range leading {
			cell, err := weeks.cell(start-daycount.Pivot(leading-i), prev, prevLen-leading+1+i, false)
			if err != nil {
				return MonthData{}, err
			}
			md.Days = append(md.Days, cell)
		}
	}

	for d := 1; d <= n; d++ {
		cell, err := weeks.cell(start+daycount.Pivot(d-1), key, d, true)
		if err != nil {
			return MonthData{}, err
		}
		md.Days = append(md.Days, cell)
	}

	next := key.Next()
	end := start + daycount.Pivot(n)
	for i := range trailing {
		cell, err := weeks.cell(end+daycount.Pivot(i), next, i+1, false)
		if err != nil {
			return MonthData{}, err
		}
		md.Days = append(md.Days, cell)
	}

	return md, nil
}

// weekNumberer memoizes new-year pivots while a grid is built; a grid can
// straddle two Hijri years.
type weekNumberer struct {
	view     View
	ws       WeekStart
	newYears map[int]daycount.Pivot
}

func (w weekNumberer) cell(p daycount.Pivot, key hijri.MonthKey, day int, inMonth bool) (DayCell, error) {
	newYear, ok := w.newYears[key.Year]
	if !ok {
		var err error
		newYear, err = w.view.monthStart(hijri.MonthKey{Year: key.Year, Month: 1})
		if err != nil {
			return DayCell{}, err
		}
		w.newYears[key.Year] = newYear
	}
	lead := columnOf(daycount.DayOfWeek(newYear), w.ws)

	return DayCell{
		Pivot:     p,
		Hijri:     hijri.Date{Year: key.Year, Month: key.Month, Day: day},
		Gregorian: daycount.ToGregorian(p),
		Weekday:   daycount.DayOfWeek(p),
		Week:      (int(p-newYear)+lead)/daycount.DaysPerWeek + 1,
		InMonth:   inMonth,
	}, nil
}
