// Package calendar is the conversion facade: it selects the active Hijri
// engine, applies the user's month corrections on top of it and builds
// month views for rendering.
package calendar

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/tartampluch/go-hijri/internal/config"
	"github.com/tartampluch/go-hijri/internal/daycount"
	"github.com/tartampluch/go-hijri/internal/hijri"
	"github.com/tartampluch/go-hijri/internal/locale"
)

// Mode selects the calendar model.
type Mode string

const (
	ModeTabular      Mode = config.ModeTabular
	ModeAstronomical Mode = config.ModeAstronomical
)

// ParseMode accepts the persisted mode names.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeTabular, ModeAstronomical:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %s %q", hijri.ErrInvalidArgument, config.ErrModeUnsupported, s)
	}
}

// WeekStart is the first column of a month grid. Its values coincide with
// daycount.Weekday.
type WeekStart int

const (
	WeekStartSaturday = WeekStart(daycount.Saturday)
	WeekStartSunday   = WeekStart(daycount.Sunday)
	WeekStartMonday   = WeekStart(daycount.Monday)
)

// Valid reports whether w is one of the three supported week starts.
func (w WeekStart) Valid() bool {
	return w == WeekStartSaturday || w == WeekStartSunday || w == WeekStartMonday
}

// ParseWeekStart accepts "saturday", "sunday" or "monday".
func ParseWeekStart(s string) (WeekStart, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case config.WeekStartSaturday:
		return WeekStartSaturday, nil
	case config.WeekStartSunday:
		return WeekStartSunday, nil
	case config.WeekStartMonday:
		return WeekStartMonday, nil
	default:
		return 0, fmt.Errorf("%w: %s %q", hijri.ErrInvalidArgument, config.ErrWeekStart, s)
	}
}

func (w WeekStart) String() string {
	switch w {
	case WeekStartSaturday:
		return config.WeekStartSaturday
	case WeekStartSunday:
		return config.WeekStartSunday
	case WeekStartMonday:
		return config.WeekStartMonday
	default:
		return fmt.Sprintf("WeekStart(%d)", int(w))
	}
}

// Settings is the user-controlled configuration of a Calendar.
type Settings struct {
	Mode        Mode
	WeekStart   WeekStart
	Language    string
	Corrections Corrections
}

// DefaultSettings returns tabular mode, Saturday week start, no corrections.
func DefaultSettings() Settings {
	return Settings{
		Mode:        ModeTabular,
		WeekStart:   WeekStartSaturday,
		Language:    config.DefaultLanguage,
		Corrections: Corrections{},
	}
}

// Validate rejects unknown modes and week starts and out-of-range corrections.
func (s Settings) Validate() error {
	_, err := s.normalize()
	return err
}

// normalize validates s and returns a copy whose corrections are rebuilt
// through Corrections.Set, dropping zero offsets. An empty language becomes
// the default one.
func (s Settings) normalize() (Settings, error) {
	if _, err := ParseMode(string(s.Mode)); err != nil {
		return Settings{}, err
	}
	if !s.WeekStart.Valid() {
		return Settings{}, fmt.Errorf("%w: %s %d", hijri.ErrInvalidArgument, config.ErrWeekStart, s.WeekStart)
	}
	corrections := make(Corrections, len(s.Corrections))
	for k, v := range s.Corrections {
		if err := corrections.Set(k, v); err != nil {
			return Settings{}, err
		}
	}
	s.Corrections = corrections
	if s.Language == "" {
		s.Language = config.DefaultLanguage
	}
	return s, nil
}

// checkLanguage rejects a language the catalog cannot serve.
func checkLanguage(catalog *locale.Catalog, lang string) error {
	if !catalog.Supports(lang) {
		return fmt.Errorf("%w: %s %q", hijri.ErrInvalidArgument, config.ErrLanguage, lang)
	}
	return nil
}

func (s Settings) clone() Settings {
	s.Corrections = s.Corrections.Clone()
	return s
}

// Calendar owns one calendar configuration and both engines. Settings are
// mutated only through its setters; every conversion works on a View, an
// immutable snapshot taken at the start of the call, so a Calendar can be
// shared between goroutines.
type Calendar struct {
	mu       sync.RWMutex
	settings Settings

	tabular      hijri.Tabular
	astronomical *hijri.Astronomical
	catalog      *locale.Catalog
}

// New creates a Calendar. astronomical and catalog may be shared between
// calendars.
func New(settings Settings, astronomical *hijri.Astronomical, catalog *locale.Catalog) (*Calendar, error) {
	settings, err := settings.normalize()
	if err != nil {
		return nil, err
	}
	if astronomical == nil {
		return nil, fmt.Errorf("%s: astronomical engine", config.ErrDependencyMissing)
	}
	if catalog == nil {
		return nil, fmt.Errorf("%s: locale catalog", config.ErrDependencyMissing)
	}
	if err := checkLanguage(catalog, settings.Language); err != nil {
		return nil, err
	}
	return &Calendar{
		settings:     settings,
		astronomical: astronomical,
		catalog:      catalog,
	}, nil
}

// View returns an immutable snapshot of the current configuration.
func (c *Calendar) View() View {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var engine hijri.Engine = c.tabular
	if c.settings.Mode == ModeAstronomical {
		engine = c.astronomical
	}
	return View{
		engine:      engine,
		corrections: c.settings.Corrections.Clone(),
		weekStart:   c.settings.WeekStart,
		language:    c.settings.Language,
		catalog:     c.catalog,
	}
}

// Settings returns a copy of the current settings.
func (c *Calendar) Settings() Settings {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.settings.clone()
}

// Catalog returns the translations used for labels.
func (c *Calendar) Catalog() *locale.Catalog {
	return c.catalog
}

// SetMode switches the active engine.
func (c *Calendar) SetMode(m Mode) error {
	if _, err := ParseMode(string(m)); err != nil {
		return err
	}
	c.mu.Lock()
	old := c.settings.Mode
	c.settings.Mode = m
	c.mu.Unlock()

	slog.Info(config.MsgModeChanged,
		config.LogKeyComponent, config.CompCalendar,
		config.LogKeyOld, string(old),
		config.LogKeyNew, string(m),
	)
	return nil
}

// SetWeekStart changes the first column of month views and week numbering.
func (c *Calendar) SetWeekStart(w WeekStart) error {
	if !w.Valid() {
		return fmt.Errorf("%w: %s %d", hijri.ErrInvalidArgument, config.ErrWeekStart, w)
	}
	c.mu.Lock()
	c.settings.WeekStart = w
	c.mu.Unlock()
	return nil
}

// SetLanguage changes the language of labels.
func (c *Calendar) SetLanguage(lang string) error {
	if err := checkLanguage(c.catalog, lang); err != nil {
		return err
	}
	c.mu.Lock()
	c.settings.Language = lang
	c.mu.Unlock()
	return nil
}

// SetCorrection shifts (year, month) and every later month by offset days.
// An offset of zero removes the correction.
func (c *Calendar) SetCorrection(year, month, offset int) error {
	key := hijri.MonthKey{Year: year, Month: month}

	c.mu.Lock()
	err := c.settings.Corrections.Set(key, offset)
	c.mu.Unlock()
	if err != nil {
		return err
	}

	slog.Info(config.MsgCorrectionSet,
		config.LogKeyComponent, config.CompCalendar,
		config.LogKeyMonth, key.String(),
		config.LogKeyValue, offset,
	)
	return nil
}

// Correction returns the offset applied at (year, month) itself.
func (c *Calendar) Correction(year, month int) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.settings.Corrections.Get(hijri.MonthKey{Year: year, Month: month})
}

// CumulativeCorrection returns the total offset in effect for (year, month).
func (c *Calendar) CumulativeCorrection(year, month int) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.settings.Corrections.Cumulative(hijri.MonthKey{Year: year, Month: month})
}

// Corrections returns a copy of the stored corrections.
func (c *Calendar) Corrections() Corrections {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.settings.Corrections.Clone()
}

// ClearCorrections removes every correction.
func (c *Calendar) ClearCorrections() {
	c.mu.Lock()
	n := len(c.settings.Corrections)
	c.settings.Corrections = Corrections{}
	c.mu.Unlock()

	slog.Info(config.MsgCorrectionsCleared,
		config.LogKeyComponent, config.CompCalendar,
		config.LogKeyCount, n,
	)
}

// Conversion shortcuts, each on a fresh View.

// HijriToPivot converts d under the current settings.
func (c *Calendar) HijriToPivot(d hijri.Date) (daycount.Pivot, error) {
	return c.View().HijriToPivot(d)
}

// PivotToHijri converts p under the current settings.
func (c *Calendar) PivotToHijri(p daycount.Pivot) (hijri.Date, error) {
	return c.View().PivotToHijri(p)
}

// GregorianToHijri converts a Gregorian date under the current settings.
func (c *Calendar) GregorianToHijri(d daycount.Date) (hijri.Date, error) {
	return c.View().GregorianToHijri(d)
}

// HijriToGregorian converts a Hijri date under the current settings.
func (c *Calendar) HijriToGregorian(d hijri.Date) (daycount.Date, error) {
	return c.View().HijriToGregorian(d)
}

// DaysInMonth returns the corrected length of (year, month).
func (c *Calendar) DaysInMonth(year, month int) (int, error) {
	return c.View().DaysInMonth(year, month)
}

// DaysInYear returns the corrected length of year.
func (c *Calendar) DaysInYear(year int) (int, error) {
	return c.View().DaysInYear(year)
}

// IsLeapYear reports the active engine's own leap status for year.
func (c *Calendar) IsLeapYear(year int) bool {
	return c.View().IsLeapYear(year)
}

// MonthStart returns the corrected pivot of day 1 of (year, month).
func (c *Calendar) MonthStart(year, month int) (daycount.Pivot, error) {
	return c.View().MonthStart(year, month)
}

// WeekOfYear numbers the week of p within its Hijri year.
func (c *Calendar) WeekOfYear(p daycount.Pivot) (int, error) {
	return c.View().WeekOfYear(p)
}

// MonthData builds the grid of (year, month) for the current week start.
func (c *Calendar) MonthData(year, month int) (MonthData, error) {
	return c.View().MonthData(year, month)
}

// Today resolves the current day read from clock.
func (c *Calendar) Today(clock Clock) (Today, error) {
	return c.View().Today(clock.Now())
}

// TodayHijri returns only the Hijri date of the current day.
func (c *Calendar) TodayHijri(clock Clock) (hijri.Date, error) {
	t, err := c.Today(clock)
	return t.Hijri, err
}
