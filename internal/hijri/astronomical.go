package hijri

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/tartampluch/go-hijri/internal/config"
	"github.com/tartampluch/go-hijri/internal/daycount"
)

var _ Engine = (*Astronomical)(nil)

// CacheObserver receives one call per month-start lookup.
type CacheObserver interface {
	ObserveMonthStartLookup(hit bool)
}

// AstronomicalOption configures an Astronomical engine.
type AstronomicalOption func(*Astronomical)

// WithCacheSize bounds the number of memoized month starts.
func WithCacheSize(size int) AstronomicalOption {
	return func(a *Astronomical) {
		a.cacheSize = size
	}
}

// WithCacheObserver reports cache hits and misses to o.
func WithCacheObserver(o CacheObserver) AstronomicalOption {
	return func(a *Astronomical) {
		a.observer = o
	}
}

// Astronomical starts each month on the day after the true conjunction,
// choosing among neighbouring lunations the one closest to the tabular
// calendar. It is safe for concurrent use.
type Astronomical struct {
	tabular   Tabular
	cacheSize int
	observer  CacheObserver

	// Month starts never change once computed; entries are only evicted
	// to bound memory.
	cache *lru.Cache[MonthKey, daycount.Pivot]
}

// NewAstronomical creates an engine with an empty month-start cache.
func NewAstronomical(opts ...AstronomicalOption) (*Astronomical, error) {
	a := &Astronomical{cacheSize: config.DefaultMonthCacheSize}
	for _, opt := range opts {
		opt(a)
	}

	cache, err := lru.New[MonthKey, daycount.Pivot](a.cacheSize)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrMonthCache, err)
	}
	a.cache = cache
	return a, nil
}

// IsLeapYear reports whether the year is longer than 354 days.
func (a *Astronomical) IsLeapYear(year int) bool {
	return a.DaysInYear(year) > CommonYearDays
}

// DaysInMonth returns the distance between consecutive month starts.
func (a *Astronomical) DaysInMonth(year, month int) (int, error) {
	if err := ValidateMonth(year, month); err != nil {
		return 0, err
	}
	return a.monthLength(year, month), nil
}

// DaysInYear returns the distance between consecutive 1 Muharram.
func (a *Astronomical) DaysInYear(year int) int {
	return int(a.monthStart(MonthKey{Year: year + 1, Month: 1}) - a.monthStart(MonthKey{Year: year, Month: 1}))
}

// MonthStart returns the pivot of the first day of the month.
func (a *Astronomical) MonthStart(year, month int) (daycount.Pivot, error) {
	if err := ValidateMonth(year, month); err != nil {
		return 0, err
	}
	return a.monthStart(MonthKey{Year: year, Month: month}), nil
}

// HijriToPivot converts a validated Hijri date to its pivot.
func (a *Astronomical) HijriToPivot(d Date) (daycount.Pivot, error) {
	if err := validateDate(d, a.monthLength); err != nil {
		return 0, err
	}
	return a.monthStart(d.Key()) + daycount.Pivot(d.Day-1), nil
}

// PivotToHijri seeds the search with the tabular date, which is never more
// than a couple of days off, then brackets the year and scans the months.
func (a *Astronomical) PivotToHijri(p daycount.Pivot) (Date, error) {
	seed, err := a.tabular.PivotToHijri(p)
	if err != nil {
		return Date{}, err
	}

	year, err := a.bracketYear(p, seed.Year)
	if err != nil {
		return Date{}, err
	}

	month := 1
	for month < MonthsPerYear && a.monthStart(MonthKey{Year: year, Month: month + 1}) <= p {
		month++
	}

	key := MonthKey{Year: year, Month: month}
	day := int(p-a.monthStart(key)) + 1
	if day < 1 || day > a.monthLength(year, month) {
		return Date{}, fmt.Errorf("%w: pivot %d resolved to day %d of %s", ErrInternalInconsistency, p, day, key)
	}
	return Date{Year: year, Month: month, Day: day}, nil
}

func (a *Astronomical) bracketYear(p daycount.Pivot, year int) (int, error) {
	for i := 0; i < config.MaxSearchSteps; i++ {
		switch {
		case a.monthStart(MonthKey{Year: year + 1, Month: 1}) <= p:
			year++
		case a.monthStart(MonthKey{Year: year, Month: 1}) > p:
			year--
			if year < 1 {
				return 0, fmt.Errorf("%w: pivot %d precedes the first astronomical month", ErrInvalidArgument, p)
			}
		default:
			return year, nil
		}
	}
	return 0, fmt.Errorf("%w: year search for pivot %d did not converge", ErrInternalInconsistency, p)
}

func (a *Astronomical) monthLength(year, month int) int {
	key := MonthKey{Year: year, Month: month}
	return int(a.monthStart(key.Next()) - a.monthStart(key))
}

// monthStart is memoized. Two goroutines missing the same key both compute
// it; PeekOrAdd keeps whichever value was stored first.
func (a *Astronomical) monthStart(key MonthKey) daycount.Pivot {
	if p, ok := a.cache.Get(key); ok {
		a.observe(true)
		return p
	}
	a.observe(false)

	p := a.computeMonthStart(key)
	if prev, ok, _ := a.cache.PeekOrAdd(key, p); ok {
		return prev
	}
	return p
}

// computeMonthStart evaluates the lunations around the seed index and keeps
// the month start closest to the tabular one. Ties go to the earlier
// candidate.
func (a *Astronomical) computeMonthStart(key MonthKey) daycount.Pivot {
	target := a.tabular.monthStart(key.Year, key.Month)
	k := ApproximateLunationIndex(key.Year, key.Month)

	best := ConjunctionToMonthStart(NewMoonJDE(k - 1))
	for _, candidate := range []int{k, k + 1} {
		start := ConjunctionToMonthStart(NewMoonJDE(candidate))
		if distance(start, target) < distance(best, target) {
			best = start
		}
	}
	return best
}

func (a *Astronomical) observe(hit bool) {
	if a.observer != nil {
		a.observer.ObserveMonthStartLookup(hit)
	}
}

func distance(a, b daycount.Pivot) daycount.Pivot {
	if a > b {
		return a - b
	}
	return b - a
}
