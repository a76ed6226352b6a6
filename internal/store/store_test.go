package store_test

import (
	"os"
	"path/filepath"
	"testing"

	"fyne.io/fyne/v2/test"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-hijri/internal/calendar"
	"github.com/tartampluch/go-hijri/internal/hijri"
	"github.com/tartampluch/go-hijri/internal/locale"
	"github.com/tartampluch/go-hijri/internal/store"
	"github.com/zalando/go-keyring"
)

func sampleRecord() store.Record {
	return store.Record{
		Mode:      "astronomical",
		WeekStart: 2,
		Language:  "fr",
		Corrections: map[string]int{
			"1447-09": 1,
			"1447-10": -2,
			"1450-01": 5,
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *store.Record)
		wantErr bool
	}{
		{"valid", func(r *store.Record) {}, false},
		{"no corrections", func(r *store.Record) { r.Corrections = nil }, false},
		{"empty language", func(r *store.Record) { r.Language = "" }, false},
		{"unknown mode", func(r *store.Record) { r.Mode = "lunar" }, true},
		{"missing mode", func(r *store.Record) { r.Mode = "" }, true},
		{"week start too large", func(r *store.Record) { r.WeekStart = 3 }, true},
		{"negative week start", func(r *store.Record) { r.WeekStart = -1 }, true},
		{"bad language", func(r *store.Record) { r.Language = "not a tag" }, true},
		{"bad key", func(r *store.Record) { r.Corrections["1447/09"] = 1 }, true},
		{"month out of range", func(r *store.Record) { r.Corrections["1447-13"] = 1 }, true},
		{"zero offset", func(r *store.Record) { r.Corrections["1448-01"] = 0 }, true},
		{"offset too large", func(r *store.Record) { r.Corrections["1448-01"] = 6 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := sampleRecord()
			tt.mutate(&r)
			err := store.Validate(r)
			if tt.wantErr {
				require.Error(t, err)
				var verrs validator.ValidationErrors
				assert.ErrorAs(t, err, &verrs)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRecord_SettingsRoundTrip(t *testing.T) {
	r := sampleRecord()
	s, err := r.Settings()
	require.NoError(t, err)

	assert.Equal(t, calendar.ModeAstronomical, s.Mode)
	assert.Equal(t, calendar.WeekStartMonday, s.WeekStart)
	assert.Equal(t, "fr", s.Language)
	assert.Equal(t, calendar.Corrections{
		{Year: 1447, Month: 9}:  1,
		{Year: 1447, Month: 10}: -2,
		{Year: 1450, Month: 1}:  5,
	}, s.Corrections)

	assert.Equal(t, r, store.FromSettings(s))
}

func TestRecord_DefaultLanguage(t *testing.T) {
	r := store.DefaultRecord()
	r.Language = ""
	s, err := r.Settings()
	require.NoError(t, err)
	assert.Equal(t, "en", s.Language)
	assert.Equal(t, calendar.DefaultSettings(), s)
}

func TestFileStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.yaml")
	fs, err := store.NewFileStore(path)
	require.NoError(t, err)

	// Missing file yields defaults.
	r, err := fs.Load()
	require.NoError(t, err)
	assert.Equal(t, store.DefaultRecord(), r)

	require.NoError(t, fs.Save(sampleRecord()))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temporary file must be renamed away")

	loaded, err := fs.Load()
	require.NoError(t, err)
	assert.Equal(t, sampleRecord(), loaded)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "mode: astronomical")
}

func TestFileStore_RejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.yaml")
	fs, err := store.NewFileStore(path)
	require.NoError(t, err)

	bad := sampleRecord()
	bad.Mode = "lunar"
	assert.Error(t, fs.Save(bad))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	require.NoError(t, os.WriteFile(path, []byte("mode: [unterminated"), 0600))
	_, err = fs.Load()
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("mode: tabular\ncorrections:\n  1447-09: 9\n"), 0600))
	_, err = fs.Load()
	assert.Error(t, err)
}

func TestFileStore_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.yaml")
	require.NoError(t, os.WriteFile(path, []byte("week_start: 1\n"), 0600))

	fs, err := store.NewFileStore(path)
	require.NoError(t, err)
	r, err := fs.Load()
	require.NoError(t, err)
	assert.Equal(t, "tabular", r.Mode)
	assert.Equal(t, 1, r.WeekStart)
	assert.Equal(t, "en", r.Language)
}

func TestPreferencesStore_RoundTrip(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	ps := store.NewPreferencesStore(a.Preferences())

	r, err := ps.Load()
	require.NoError(t, err)
	assert.Equal(t, store.DefaultRecord(), r)

	require.NoError(t, ps.Save(sampleRecord()))
	assert.Equal(t, []string{"1447-09=1", "1447-10=-2", "1450-01=5"}, a.Preferences().StringList("corrections"))

	loaded, err := ps.Load()
	require.NoError(t, err)
	assert.Equal(t, sampleRecord(), loaded)

	// Clearing corrections survives the round trip.
	cleared := sampleRecord()
	cleared.Corrections = nil
	require.NoError(t, ps.Save(cleared))
	loaded, err = ps.Load()
	require.NoError(t, err)
	assert.Nil(t, loaded.Corrections)
}

func TestPreferencesStore_MalformedEntry(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	a.Preferences().SetStringList("corrections", []string{"1447-09"})
	_, err := store.NewPreferencesStore(a.Preferences()).Load()
	assert.ErrorIs(t, err, hijri.ErrInvalidArgument)

	a.Preferences().SetStringList("corrections", []string{"1447-09=x"})
	_, err = store.NewPreferencesStore(a.Preferences()).Load()
	assert.ErrorIs(t, err, hijri.ErrInvalidArgument)
}

func TestStoresAreInterchangeable(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	fs, err := store.NewFileStore(filepath.Join(t.TempDir(), "state.yaml"))
	require.NoError(t, err)

	for name, s := range map[string]store.Store{
		"file":        fs,
		"preferences": store.NewPreferencesStore(a.Preferences()),
	} {
		t.Run(name, func(t *testing.T) {
			settings := calendar.DefaultSettings()
			require.NoError(t, settings.Corrections.Set(hijri.MonthKey{Year: 1447, Month: 9}, 1))

			require.NoError(t, s.Save(store.FromSettings(settings)))
			r, err := s.Load()
			require.NoError(t, err)
			back, err := r.Settings()
			require.NoError(t, err)
			assert.Equal(t, settings, back)
		})
	}
}

func TestFileStore_SavesCalendarBuiltWithZeroCorrection(t *testing.T) {
	astro, err := hijri.NewAstronomical()
	require.NoError(t, err)
	catalog, err := locale.NewCatalog()
	require.NoError(t, err)

	settings := calendar.DefaultSettings()
	settings.Corrections = calendar.Corrections{{Year: 1447, Month: 9}: 0}
	cal, err := calendar.New(settings, astro, catalog)
	require.NoError(t, err)

	fs, err := store.NewFileStore(filepath.Join(t.TempDir(), "state.yaml"))
	require.NoError(t, err)
	require.NoError(t, fs.Save(store.FromSettings(cal.Settings())))

	r, err := fs.Load()
	require.NoError(t, err)
	assert.Empty(t, r.Corrections)
}

func TestKeyring(t *testing.T) {
	keyring.MockInit()

	p, err := store.LoadPassword("alice")
	require.NoError(t, err)
	assert.Empty(t, p)

	require.NoError(t, store.SavePassword("alice", "s3cret"))
	p, err = store.LoadPassword("alice")
	require.NoError(t, err)
	assert.Equal(t, "s3cret", p)

	require.NoError(t, store.DeletePassword("alice"))
	require.NoError(t, store.DeletePassword("alice"))
	p, err = store.LoadPassword("alice")
	require.NoError(t, err)
	assert.Empty(t, p)

	assert.Error(t, store.SavePassword("", "x"))
	p, err = store.LoadPassword("")
	require.NoError(t, err)
	assert.Empty(t, p)
}
