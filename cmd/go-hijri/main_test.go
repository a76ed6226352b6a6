package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

// run executes one command against the state file and returns stdout.
func run(t *testing.T, state string, args ...string) (string, error) {
	t.Helper()
	a := newApp(fixedClock{time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)})
	cmd := newRootCmd(a)

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"--state", state}, args...))

	err := cmd.Execute()
	return out.String(), err
}

func statePath(t *testing.T) string {
	return filepath.Join(t.TempDir(), "state.yaml")
}

func TestCLI_Convert(t *testing.T) {
	state := statePath(t)

	out, err := run(t, state, "convert", "to-hijri", "2026-02-18")
	require.NoError(t, err)
	assert.Equal(t, "1447-09-01\t1 Ramadan 1447 AH\n", out)

	out, err = run(t, state, "convert", "to-gregorian", "1447-09-01")
	require.NoError(t, err)
	assert.Equal(t, "2026-02-18\tWednesday\n", out)

	_, err = run(t, state, "convert", "to-gregorian", "1447-13-01")
	assert.Error(t, err)
	_, err = run(t, state, "convert", "to-hijri", "18/02/2026")
	assert.Error(t, err)
}

func TestCLI_Today(t *testing.T) {
	out, err := run(t, statePath(t), "today")
	require.NoError(t, err)
	assert.Equal(t, "2026-10-19\tMonday\t7 Jumada al-Ula 1448 AH\t19\n", out)
}

func TestCLI_Month(t *testing.T) {
	state := statePath(t)

	out, err := run(t, state, "month", "1447", "9")
	require.NoError(t, err)
	assert.Contains(t, out, "Ramadan 1447 (February – March 2026)")
	assert.Contains(t, out, "1/18")
	assert.Contains(t, out, "30/19")

	current, err := run(t, state, "month")
	require.NoError(t, err)
	assert.Contains(t, current, "Jumada al-Ula 1448")

	_, err = run(t, state, "month", "1447-09", "--week-start", "friday")
	assert.Error(t, err)
}

func TestCLI_SettingsPersist(t *testing.T) {
	state := statePath(t)

	out, err := run(t, state, "mode", "astronomical")
	require.NoError(t, err)
	assert.Equal(t, "astronomical\n", out)

	out, err = run(t, state, "mode")
	require.NoError(t, err)
	assert.Equal(t, "astronomical\n", out)

	out, err = run(t, state, "weekstart", "monday")
	require.NoError(t, err)
	assert.Equal(t, "monday\n", out)

	out, err = run(t, state, "language", "fr")
	require.NoError(t, err)
	assert.Contains(t, out, "fr\t")

	_, err = run(t, state, "mode", "lunar")
	assert.Error(t, err)

	out, err = run(t, state, "weekstart")
	require.NoError(t, err)
	assert.Equal(t, "monday\n", out, "a rejected command leaves the state untouched")
}

func TestCLI_Corrections(t *testing.T) {
	state := statePath(t)

	_, err := run(t, state, "correct", "set", "1447-09", "1")
	require.NoError(t, err)

	out, err := run(t, state, "convert", "to-gregorian", "1447-09-01")
	require.NoError(t, err)
	assert.Equal(t, "2026-02-19\tThursday\n", out)

	out, err = run(t, state, "correct", "list")
	require.NoError(t, err)
	assert.Equal(t, "1447-09\t+1\t2026-02-19\n", out)

	_, err = run(t, state, "correct", "set", "1447-09", "9")
	assert.Error(t, err)
	_, err = run(t, state, "correct", "set", "1447-09", "one")
	assert.Error(t, err)

	_, err = run(t, state, "correct", "clear")
	require.NoError(t, err)
	out, err = run(t, state, "correct", "list")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestCLI_Contacts(t *testing.T) {
	vcf := filepath.Join(t.TempDir(), "contacts.vcf")
	require.NoError(t, os.WriteFile(vcf, []byte("BEGIN:VCARD\nVERSION:3.0\nFN:John Doe\nBDAY:1989-12-06\nEND:VCARD\n"), 0o600))

	out, err := run(t, statePath(t), "contacts", "--source", "local", "--vcf", vcf)
	require.NoError(t, err)
	assert.Contains(t, out, "John Doe")
	assert.Contains(t, out, "2026-10-19")
	assert.Contains(t, out, "7 Jumada al-Ula 1448 AH")
}

func TestCLI_Version(t *testing.T) {
	out, err := run(t, statePath(t), "version")
	require.NoError(t, err)
	assert.Contains(t, out, "Go Hijri version dev")
}
