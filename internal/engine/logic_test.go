package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-hijri/internal/calendar"
	"github.com/tartampluch/go-hijri/internal/daycount"
	"github.com/tartampluch/go-hijri/internal/hijri"
	"github.com/tartampluch/go-hijri/internal/locale"
)

func tabularView(t *testing.T) calendar.View {
	t.Helper()
	astro, err := hijri.NewAstronomical()
	require.NoError(t, err)
	catalog, err := locale.NewCatalog()
	require.NoError(t, err)
	cal, err := calendar.New(calendar.DefaultSettings(), astro, catalog)
	require.NoError(t, err)
	return cal.View()
}

// TestCalculateNextOccurrence covers anniversaries before, on and after
// today, plus the 30th of a month that is short in the target year.
func TestCalculateNextOccurrence(t *testing.T) {
	view := tabularView(t)
	// Reference "today": 7 Jumada al-Ula 1448 (2026-10-19).
	today := daycount.Pivot(2461333)

	tests := []struct {
		name     string
		birth    hijri.Date
		wantNext hijri.Date
		wantAge  int
	}{
		{"Earlier this year", hijri.Date{Year: 1410, Month: 1, Day: 1}, hijri.Date{Year: 1449, Month: 1, Day: 1}, 39},
		{"Later this year", hijri.Date{Year: 1410, Month: 9, Day: 1}, hijri.Date{Year: 1448, Month: 9, Day: 1}, 38},
		{"Today", hijri.Date{Year: 1410, Month: 5, Day: 7}, hijri.Date{Year: 1448, Month: 5, Day: 7}, 38},
		{"Yesterday", hijri.Date{Year: 1410, Month: 5, Day: 6}, hijri.Date{Year: 1449, Month: 5, Day: 6}, 39},
		{"Last day of a leap year", hijri.Date{Year: 1409, Month: 12, Day: 30}, hijri.Date{Year: 1448, Month: 12, Day: 29}, 39},
		{"Not yet born", hijri.Date{Year: 1450, Month: 3, Day: 10}, hijri.Date{Year: 1450, Month: 3, Day: 10}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, p, age, err := calculateNextOccurrence(view, today, tt.birth)
			require.NoError(t, err)
			assert.Equal(t, tt.wantNext, next)
			assert.Equal(t, tt.wantAge, age)
			assert.GreaterOrEqual(t, p, today)

			want, err := view.HijriToPivot(tt.wantNext)
			require.NoError(t, err)
			assert.Equal(t, want, p)
		})
	}
}

func TestAnniversary_Clamp(t *testing.T) {
	view := tabularView(t)
	birth := hijri.Date{Year: 1409, Month: 12, Day: 30}

	d, _, err := anniversary(view, birth, 1447)
	require.NoError(t, err)
	assert.Equal(t, 30, d.Day, "1447 is a leap year")

	d, _, err = anniversary(view, birth, 1448)
	require.NoError(t, err)
	assert.Equal(t, 29, d.Day)
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		value     string
		want      time.Time
		yearKnown bool
		wantErr   bool
	}{
		{"1990-10-25", time.Date(1990, 10, 25, 0, 0, 0, 0, time.UTC), true, false},
		{"19901025", time.Date(1990, 10, 25, 0, 0, 0, 0, time.UTC), true, false},
		{"1990-10-25T00:00:00Z", time.Date(1990, 10, 25, 0, 0, 0, 0, time.UTC), true, false},
		{"--10-25", time.Date(2000, 10, 25, 0, 0, 0, 0, time.UTC), false, false},
		{"tomorrow", time.Time{}, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, yearKnown, err := parseDate(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
			assert.Equal(t, tt.yearKnown, yearKnown)
		})
	}
}
