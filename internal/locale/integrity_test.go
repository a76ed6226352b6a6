package locale_test

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-hijri/internal/config"
)

// definedKeys lists every translation key referenced from Go code.
func definedKeys() map[string]bool {
	keys := map[string]bool{
		config.TKeyRangeSameMonth:   true,
		config.TKeyRangeSameYear:    true,
		config.TKeyRangeCrossYear:   true,
		config.TKeyHijriDate:        true,
		config.TKeyEvtMonthStart:    true,
		config.TKeyEvtBirthdayAge:   true,
		config.TKeyEvtBirthdayBirth: true,
		config.TKeyCalendarName:     true,
	}
	for m := 1; m <= 12; m++ {
		keys[fmt.Sprintf(config.TKeyGregorianMonth, m)] = true
		keys[fmt.Sprintf(config.TKeyHijriMonth, m)] = true
	}
	for wd := 0; wd < 7; wd++ {
		keys[fmt.Sprintf(config.TKeyWeekday, wd)] = true
	}
	return keys
}

// TestI18nIntegrity checks that every locale file carries exactly the keys
// the code uses.
func TestI18nIntegrity(t *testing.T) {
	files, err := filepath.Glob(filepath.Join(config.LocalesDir, "*.json"))
	require.NoError(t, err)
	require.Len(t, files, 3)

	want := definedKeys()
	for _, path := range files {
		t.Run(filepath.Base(path), func(t *testing.T) {
			content, err := os.ReadFile(path)
			require.NoError(t, err)

			var messages map[string]string
			require.NoError(t, json.Unmarshal(content, &messages), "JSON must be valid")

			for key := range want {
				assert.NotEmptyf(t, messages[key], "key %q is missing", key)
			}
			for key := range messages {
				assert.Truef(t, want[key], "key %q is not used by the code", key)
			}
		})
	}
}
