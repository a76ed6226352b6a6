// Package store persists the user's calendar settings: mode, week start,
// language and month corrections.
package store

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/tartampluch/go-hijri/internal/calendar"
	"github.com/tartampluch/go-hijri/internal/config"
	"github.com/tartampluch/go-hijri/internal/hijri"
)

// Store loads and saves a Record. Implementations must round-trip a
// valid Record losslessly.
type Store interface {
	Load() (Record, error)
	Save(r Record) error
}

// Record is the persisted form of calendar.Settings. Corrections are keyed
// by "YYYY-MM".
type Record struct {
	Mode        string         `yaml:"mode" validate:"required,oneof=tabular astronomical"`
	WeekStart   int            `yaml:"week_start" validate:"min=0,max=2"`
	Language    string         `yaml:"language,omitempty" validate:"omitempty,bcp47_language_tag"`
	Corrections map[string]int `yaml:"corrections,omitempty" validate:"dive,keys,month_key,endkeys,correction_offset"`
}

// DefaultRecord is the record of calendar.DefaultSettings.
func DefaultRecord() Record {
	return FromSettings(calendar.DefaultSettings())
}

// FromSettings converts calendar settings to their persisted form.
func FromSettings(s calendar.Settings) Record {
	r := Record{
		Mode:      string(s.Mode),
		WeekStart: int(s.WeekStart),
		Language:  s.Language,
	}
	if len(s.Corrections) > 0 {
		r.Corrections = make(map[string]int, len(s.Corrections))
		for k, v := range s.Corrections {
			r.Corrections[k.String()] = v
		}
	}
	return r
}

// Settings validates r and converts it back to calendar settings.
func (r Record) Settings() (calendar.Settings, error) {
	if err := Validate(r); err != nil {
		return calendar.Settings{}, err
	}

	mode, err := calendar.ParseMode(r.Mode)
	if err != nil {
		return calendar.Settings{}, err
	}
	s := calendar.Settings{
		Mode:        mode,
		WeekStart:   calendar.WeekStart(r.WeekStart),
		Language:    r.Language,
		Corrections: calendar.Corrections{},
	}
	if s.Language == "" {
		s.Language = config.DefaultLanguage
	}
	for key, offset := range r.Corrections {
		mk, err := hijri.ParseMonthKey(key)
		if err != nil {
			return calendar.Settings{}, err
		}
		if err := s.Corrections.Set(mk, offset); err != nil {
			return calendar.Settings{}, err
		}
	}
	return s, nil
}

// correctionEntries renders corrections as sorted "YYYY-MM=offset" strings.
func correctionEntries(c map[string]int) []string {
	out := make([]string, 0, len(c))
	for k, v := range c {
		out = append(out, k+config.CorrectionSeparator+fmt.Sprint(v))
	}
	sort.Strings(out)
	return out
}

// parseCorrectionEntry splits a "YYYY-MM=offset" string.
func parseCorrectionEntry(entry string) (string, int, error) {
	key, value, ok := strings.Cut(entry, config.CorrectionSeparator)
	if !ok {
		return "", 0, fmt.Errorf("%w: %s %q", hijri.ErrInvalidArgument, config.ErrCorrectionEntry, entry)
	}
	var offset int
	if _, err := fmt.Sscan(value, &offset); err != nil {
		return "", 0, fmt.Errorf("%w: %s %q", hijri.ErrInvalidArgument, config.ErrCorrectionEntry, entry)
	}
	return key, offset, nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("month_key", validateMonthKey)
	_ = v.RegisterValidation("correction_offset", validateCorrectionOffset)
	return v
}

// Validate checks a record before it reaches the calendar.
func Validate(r Record) error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("%s: %w", config.ErrRecordInvalid, err)
	}
	return nil
}

func validateMonthKey(fl validator.FieldLevel) bool {
	_, err := hijri.ParseMonthKey(fl.Field().String())
	return err == nil
}

func validateCorrectionOffset(fl validator.FieldLevel) bool {
	v := int(fl.Field().Int())
	return v != 0 && v >= -config.MaxCorrectionDays && v <= config.MaxCorrectionDays
}
