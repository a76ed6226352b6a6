package engine

import (
	"time"

	"github.com/tartampluch/go-hijri/internal/hijri"
)

// BirthdayEntry is a contact with a known birth date, projected onto the
// Hijri calendar.
type BirthdayEntry struct {
	// UID is a unique identifier (hash) used for stability in lists.
	UID string

	// Name is the display name (Formatted Name or Structured Name).
	Name string

	// DateOfBirth is the Gregorian date parsed from the vCard.
	DateOfBirth time.Time

	// HijriBirth is DateOfBirth converted with the calendar settings in
	// effect at sync time.
	HijriBirth hijri.Date

	// NextHijri is the next Hijri anniversary, today included.
	NextHijri hijri.Date

	// NextOccurrence is NextHijri as a Gregorian date; the contact list is
	// sorted on it.
	NextOccurrence time.Time

	// AgeNext is the Hijri age reached at NextOccurrence.
	AgeNext int
}
