package hijri_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-hijri/internal/daycount"
	"github.com/tartampluch/go-hijri/internal/hijri"
)

func TestTabular_CycleLength(t *testing.T) {
	var tab hijri.Tabular

	// Any 30 consecutive years form a full cycle.
	for first := 1; first <= 61; first += 30 {
		total := 0
		for y := first; y < first+hijri.CycleYears; y++ {
			total += tab.DaysInYear(y)
		}
		assert.Equal(t, hijri.CycleDays, total, "cycle starting at %d", first)
	}
}

func TestTabular_LeapYearsInCycle(t *testing.T) {
	var tab hijri.Tabular

	var leaps []int
	for y := 1; y <= hijri.CycleYears; y++ {
		if tab.IsLeapYear(y) {
			leaps = append(leaps, y)
		}
	}
	assert.Equal(t, []int{2, 5, 7, 10, 13, 15, 18, 21, 24, 26, 29}, leaps)

	// The pattern repeats with the cycle.
	for y := 1; y <= hijri.CycleYears; y++ {
		assert.Equal(t, tab.IsLeapYear(y), tab.IsLeapYear(y+1440), "year %d", y)
	}
}

func TestTabular_DaysInMonth(t *testing.T) {
	var tab hijri.Tabular

	for m := 1; m <= 12; m++ {
		n, err := tab.DaysInMonth(1446, m)
		require.NoError(t, err)
		if m%2 == 1 {
			assert.Equal(t, 30, n, "odd month %d", m)
		} else {
			assert.Equal(t, 29, n, "even month %d", m)
		}
	}

	// 1445 is leap: (11*1445+15) mod 30 = 10.
	require.True(t, tab.IsLeapYear(1445))
	n, err := tab.DaysInMonth(1445, 12)
	require.NoError(t, err)
	assert.Equal(t, 30, n)
	assert.Equal(t, 355, tab.DaysInYear(1445))
}

func TestTabular_KnownDates(t *testing.T) {
	var tab hijri.Tabular

	tests := []struct {
		name      string
		hijri     hijri.Date
		gregorian daycount.Date
	}{
		{"1 Ramadan 1446", hijri.Date{Year: 1446, Month: 9, Day: 1}, daycount.Date{Year: 2025, Month: 3, Day: 1}},
		{"1 Ramadan 1447", hijri.Date{Year: 1447, Month: 9, Day: 1}, daycount.Date{Year: 2026, Month: 2, Day: 18}},
		{"1 Shawwal 1447", hijri.Date{Year: 1447, Month: 10, Day: 1}, daycount.Date{Year: 2026, Month: 3, Day: 20}},
		{"epoch", hijri.Date{Year: 1, Month: 1, Day: 1}, daycount.Date{Year: 622, Month: 7, Day: 19}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := tab.HijriToPivot(tt.hijri)
			require.NoError(t, err)
			assert.Equal(t, tt.gregorian, daycount.ToGregorian(p))

			back, err := tab.PivotToHijri(p)
			require.NoError(t, err)
			assert.Equal(t, tt.hijri, back)
		})
	}
}

// TestTabular_RoundTrip walks every valid date across several cycles, which
// covers every cycle, year and month boundary shape.
func TestTabular_RoundTrip(t *testing.T) {
	var tab hijri.Tabular

	expected, err := tab.MonthStart(1380, 1)
	require.NoError(t, err)

	for y := 1380; y <= 1530; y++ {
		for m := 1; m <= 12; m++ {
			n, err := tab.DaysInMonth(y, m)
			require.NoError(t, err)
			for d := 1; d <= n; d++ {
				date := hijri.Date{Year: y, Month: m, Day: d}
				p, err := tab.HijriToPivot(date)
				require.NoError(t, err)
				require.Equal(t, expected, p, "pivots must be contiguous at %s", date)
				expected++

				back, err := tab.PivotToHijri(p)
				require.NoError(t, err)
				require.Equal(t, date, back)
			}
		}
	}
}

func TestTabular_InvalidArguments(t *testing.T) {
	var tab hijri.Tabular

	tests := []struct {
		name string
		date hijri.Date
	}{
		{"year zero", hijri.Date{Year: 0, Month: 1, Day: 1}},
		{"month zero", hijri.Date{Year: 1446, Month: 0, Day: 1}},
		{"month thirteen", hijri.Date{Year: 1446, Month: 13, Day: 1}},
		{"day zero", hijri.Date{Year: 1446, Month: 1, Day: 0}},
		{"day 30 of a 29-day month", hijri.Date{Year: 1446, Month: 2, Day: 30}},
		{"day 30 of dhu al-hijja in a common year", hijri.Date{Year: 1446, Month: 12, Day: 30}},
		{"day 31", hijri.Date{Year: 1446, Month: 1, Day: 31}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tab.HijriToPivot(tt.date)
			assert.ErrorIs(t, err, hijri.ErrInvalidArgument)
		})
	}

	_, err := tab.PivotToHijri(hijri.EpochPivot - 1)
	assert.ErrorIs(t, err, hijri.ErrInvalidArgument)

	_, err = tab.DaysInMonth(1446, 13)
	assert.ErrorIs(t, err, hijri.ErrInvalidArgument)
}

func TestMonthKey(t *testing.T) {
	k := hijri.MonthKey{Year: 1446, Month: 12}
	assert.Equal(t, hijri.MonthKey{Year: 1447, Month: 1}, k.Next())
	assert.Equal(t, hijri.MonthKey{Year: 1446, Month: 11}, k.Prev())
	assert.Equal(t, hijri.MonthKey{Year: 1445, Month: 12}, hijri.MonthKey{Year: 1446, Month: 1}.Prev())

	assert.True(t, hijri.MonthKey{Year: 1446, Month: 12}.Less(hijri.MonthKey{Year: 1447, Month: 1}))
	assert.True(t, hijri.MonthKey{Year: 1447, Month: 1}.Less(hijri.MonthKey{Year: 1447, Month: 2}))
	assert.False(t, k.Less(k))

	assert.Equal(t, "1447-09", hijri.MonthKey{Year: 1447, Month: 9}.String())
}

func TestParseMonthKey(t *testing.T) {
	k, err := hijri.ParseMonthKey("1447-09")
	require.NoError(t, err)
	assert.Equal(t, hijri.MonthKey{Year: 1447, Month: 9}, k)

	for _, bad := range []string{"", "1447", "1447-13", "1447-00", "0-01", "1447-09x", "abcd-ef"} {
		_, err := hijri.ParseMonthKey(bad)
		assert.ErrorIs(t, err, hijri.ErrInvalidArgument, "input %q", bad)
	}
}
