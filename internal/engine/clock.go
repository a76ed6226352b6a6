package engine

import (
	"time"

	"github.com/tartampluch/go-hijri/internal/calendar"
)

// Clock abstracts time.Now() to allow deterministic testing.
// The Generator reads "today" from it, and so does the CLI.
type Clock = calendar.Clock

// RealClock implements Clock using the standard time package.
type RealClock struct{}

// Now returns the current local time.
func (RealClock) Now() time.Time {
	return time.Now()
}
