package calendar_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-hijri/internal/calendar"
	"github.com/tartampluch/go-hijri/internal/daycount"
	"github.com/tartampluch/go-hijri/internal/hijri"
)

func TestMonthData_GridSpansWholeWeeks(t *testing.T) {
	for _, mode := range modes {
		view := newCalendar(t, mode).View()
		for _, ws := range weekStarts {
			t.Run(fmt.Sprintf("%s/%s", mode, ws), func(t *testing.T) {
				for y := 1440; y <= 1452; y++ {
					for m := 1; m <= hijri.MonthsPerYear; m++ {
						md, err := view.MonthDataFor(y, m, ws)
						require.NoError(t, err)
						checkGrid(t, md)
					}
				}
			})
		}
	}
}

func checkGrid(t *testing.T, md calendar.MonthData) {
	t.Helper()
	key := hijri.MonthKey{Year: md.Year, Month: md.Month}

	require.Zero(t, len(md.Days)%daycount.DaysPerWeek, key.String())
	require.Len(t, md.Days, md.Leading+md.DaysInMonth+md.Trailing)
	require.Less(t, md.Leading, daycount.DaysPerWeek)
	require.Less(t, md.Trailing, daycount.DaysPerWeek)

	assert.Equal(t, daycount.Weekday(md.WeekStart), md.Days[0].Weekday, key.String())
	assert.Equal(t, md.FirstWeekday, md.Days[md.Leading].Weekday)

	for i, cell := range md.Days {
		if i > 0 {
			require.Equal(t, md.Days[i-1].Pivot+1, cell.Pivot)
		}
		require.Equal(t, daycount.ToGregorian(cell.Pivot), cell.Gregorian)

		switch {
		case i < md.Leading:
			require.False(t, cell.InMonth)
			require.Equal(t, key.Prev(), cell.Hijri.Key())
		case i < md.Leading+md.DaysInMonth:
			require.True(t, cell.InMonth)
			require.Equal(t, hijri.Date{Year: md.Year, Month: md.Month, Day: i - md.Leading + 1}, cell.Hijri)
		default:
			require.False(t, cell.InMonth)
			require.Equal(t, key.Next(), cell.Hijri.Key())
			require.Equal(t, i-md.Leading-md.DaysInMonth+1, cell.Hijri.Day)
		}
	}

	if md.Leading > 0 {
		// The last leading cell is the last day of the previous month.
		last := md.Days[md.Leading-1]
		assert.Equal(t, md.Days[md.Leading].Pivot-1, last.Pivot)
	}
	assert.Equal(t, md.Days[md.Leading].Gregorian, md.GregorianStart)
	assert.Equal(t, md.Days[md.Leading+md.DaysInMonth-1].Gregorian, md.GregorianEnd)
	assert.NotEmpty(t, md.Label)
	assert.Len(t, md.Weeks(), len(md.Days)/daycount.DaysPerWeek)
}

func TestMonthData_CellsMatchConversions(t *testing.T) {
	cal := newCalendar(t, calendar.ModeTabular)
	require.NoError(t, cal.SetCorrection(1447, 9, -1))
	view := cal.View()

	for _, key := range []hijri.MonthKey{{Year: 1447, Month: 1}, {Year: 1447, Month: 9}, {Year: 1447, Month: 12}} {
		md, err := view.MonthData(key.Year, key.Month)
		require.NoError(t, err)
		for _, cell := range md.Days {
			h, err := view.PivotToHijri(cell.Pivot)
			require.NoError(t, err)
			assert.Equal(t, h, cell.Hijri)

			week, err := view.WeekOfYear(cell.Pivot)
			require.NoError(t, err)
			assert.Equal(t, week, cell.Week, cell.Hijri.String())
		}
	}
}

func TestMonthData_WeekNumbersOfMuharram(t *testing.T) {
	view := newCalendar(t, calendar.ModeTabular).View()

	for _, ws := range weekStarts {
		md, err := view.MonthDataFor(1448, 1, ws)
		require.NoError(t, err)

		for i := md.Leading; i < md.Leading+md.DaysInMonth; i++ {
			assert.Equal(t, i/daycount.DaysPerWeek+1, md.Days[i].Week, "%s cell %d", ws, i)
		}
		if md.Leading > 0 {
			// Leading days belong to the last week of 1447.
			assert.Equal(t, 1447, md.Days[0].Hijri.Year)
			assert.GreaterOrEqual(t, md.Days[0].Week, 50)
		}
	}
}

func TestMonthData_YearRollover(t *testing.T) {
	view := newCalendar(t, calendar.ModeTabular).View()

	// 1 Muharram 1448 is a Wednesday: four days of Dhu al-Hijja 1447 lead in.
	md, err := view.MonthData(1448, 1)
	require.NoError(t, err)
	require.Equal(t, 4, md.Leading)
	assert.Equal(t, hijri.Date{Year: 1447, Month: 12, Day: 27}, md.Days[0].Hijri)

	// Dhu al-Hijja 1447 (leap, 30 days) starts on a Monday and ends on a
	// Tuesday; Wednesday to Friday of Muharram 1448 fill the last row.
	md, err = view.MonthData(1447, 12)
	require.NoError(t, err)
	assert.Equal(t, 30, md.DaysInMonth)
	assert.Equal(t, 3, md.Trailing)
	assert.Equal(t, hijri.Date{Year: 1448, Month: 1, Day: 3}, md.Days[len(md.Days)-1].Hijri)
}

func TestMonthData_Labels(t *testing.T) {
	cal := newCalendar(t, calendar.ModeTabular)

	tests := []struct {
		key      hijri.MonthKey
		lang     string
		expected string
	}{
		{hijri.MonthKey{Year: 1446, Month: 9}, "en", "March 2025"},
		{hijri.MonthKey{Year: 1447, Month: 9}, "en", "February – March 2026"},
		{hijri.MonthKey{Year: 1447, Month: 7}, "en", "December 2025 – January 2026"},
	}

	for _, tt := range tests {
		t.Run(tt.key.String(), func(t *testing.T) {
			require.NoError(t, cal.SetLanguage(tt.lang))
			md, err := cal.MonthData(tt.key.Year, tt.key.Month)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, md.Label)
		})
	}
}

func TestMonthData_InvalidArguments(t *testing.T) {
	view := newCalendar(t, calendar.ModeTabular).View()

	_, err := view.MonthData(1447, 13)
	assert.ErrorIs(t, err, hijri.ErrInvalidArgument)
	_, err = view.MonthDataFor(1447, 1, calendar.WeekStart(4))
	assert.ErrorIs(t, err, hijri.ErrInvalidArgument)
}
