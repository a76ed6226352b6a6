package calendar

import (
	"fmt"
	"sort"

	"github.com/tartampluch/go-hijri/internal/config"
	"github.com/tartampluch/go-hijri/internal/hijri"
)

// Corrections maps a Hijri month to a signed day offset applied from that
// month onwards. A zero offset is never stored.
type Corrections map[hijri.MonthKey]int

// Set stores offset for key, deleting the entry when offset is zero.
// Offsets beyond ±config.MaxCorrectionDays are refused. The bound is an
// application policy keeping corrected month starts in order, not a rule of
// the Hijri calendar.
func (c Corrections) Set(key hijri.MonthKey, offset int) error {
	if err := hijri.ValidateMonth(key.Year, key.Month); err != nil {
		return err
	}
	if offset < -config.MaxCorrectionDays || offset > config.MaxCorrectionDays {
		return fmt.Errorf("%w: correction %+d for %s exceeds ±%d days",
			hijri.ErrInvalidArgument, offset, key, config.MaxCorrectionDays)
	}
	if offset == 0 {
		delete(c, key)
		return nil
	}
	c[key] = offset
	return nil
}

// Get returns the offset stored for key, zero when absent.
func (c Corrections) Get(key hijri.MonthKey) int {
	return c[key]
}

// Cumulative sums every offset whose month is at or before key.
func (c Corrections) Cumulative(key hijri.MonthKey) int {
	total := 0
	for k, offset := range c {
		if !key.Less(k) {
			total += offset
		}
	}
	return total
}

// Keys returns the corrected months in chronological order.
func (c Corrections) Keys() []hijri.MonthKey {
	keys := make([]hijri.MonthKey, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })
	return keys
}

// Clone returns an independent copy.
func (c Corrections) Clone() Corrections {
	out := make(Corrections, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}
