package store

import (
	"fyne.io/fyne/v2"
	"github.com/tartampluch/go-hijri/internal/config"
)

// PreferencesStore keeps the record in fyne preferences, for hosts that
// already run a fyne.App.
type PreferencesStore struct {
	prefs fyne.Preferences
}

func NewPreferencesStore(prefs fyne.Preferences) *PreferencesStore {
	return &PreferencesStore{prefs: prefs}
}

// Load reads the record, falling back to defaults for absent keys.
func (s *PreferencesStore) Load() (Record, error) {
	def := DefaultRecord()
	r := Record{
		Mode:      s.prefs.StringWithFallback(config.PrefMode, def.Mode),
		WeekStart: s.prefs.IntWithFallback(config.PrefWeekStart, def.WeekStart),
		Language:  s.prefs.StringWithFallback(config.PrefLanguage, def.Language),
	}

	for _, entry := range s.prefs.StringList(config.PrefCorrections) {
		key, offset, err := parseCorrectionEntry(entry)
		if err != nil {
			return Record{}, err
		}
		if r.Corrections == nil {
			r.Corrections = map[string]int{}
		}
		r.Corrections[key] = offset
	}

	if err := Validate(r); err != nil {
		return Record{}, err
	}
	return r, nil
}

// Save validates r and writes every key.
func (s *PreferencesStore) Save(r Record) error {
	if err := Validate(r); err != nil {
		return err
	}
	s.prefs.SetString(config.PrefMode, r.Mode)
	s.prefs.SetInt(config.PrefWeekStart, r.WeekStart)
	s.prefs.SetString(config.PrefLanguage, r.Language)
	s.prefs.SetStringList(config.PrefCorrections, correctionEntries(r.Corrections))
	return nil
}
