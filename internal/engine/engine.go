package engine

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"time"

	"github.com/emersion/go-ical"
	"github.com/emersion/go-vcard"
	"github.com/tartampluch/go-hijri/internal/calendar"
	"github.com/tartampluch/go-hijri/internal/config"
	"github.com/tartampluch/go-hijri/internal/daycount"
	"github.com/tartampluch/go-hijri/internal/hijri"
)

// SyncConfig contains all parameters required to build one feed.
type SyncConfig struct {
	Mode            string // config.SourceModeNone, config.SourceModeLocal or config.SourceModeWeb
	LocalPath       string // Path to the .vcf file
	WebURL          string // CardDAV or WebDAV URL
	WebUser         string // HTTP Basic Auth Username
	WebPass         string // HTTP Basic Auth Password
	ReminderTrigger string // ISO8601 duration string (e.g., "-P1D")
}

// FeedObserver is notified after every generation.
type FeedObserver interface {
	ObserveFeed(events int, d time.Duration, err error)
}

// Generator builds the ICS feed: Hijri month starts around today plus the
// Hijri birthdays of the contacts read from a vCard source.
type Generator struct {
	Calendar *calendar.Calendar
	Clock    Clock        // Interface for time mocking.
	Fetcher  VCardFetcher // Interface for network abstraction.
	Observer FeedObserver // Optional.
}

// RunSync executes the fetching, parsing, and generation pipeline.
// It returns the ICS data, the contacts sorted by next Hijri birthday, the
// count of birthdays today, and any error.
func (g *Generator) RunSync(ctx context.Context, cfg SyncConfig) ([]byte, []BirthdayEntry, int, error) {
	start := time.Now()
	log := slog.With(
		config.LogKeyComponent, config.CompEngine,
		config.LogKeyMode, cfg.Mode,
	)
	log.InfoContext(ctx, config.MsgSyncStarted)

	ics, contacts, count, events, err := g.run(ctx, cfg)

	if g.Observer != nil {
		g.Observer.ObserveFeed(events, time.Since(start), err)
	}
	if err == nil {
		log.Debug(config.MsgSyncFinished, config.LogKeyDuration, time.Since(start).Milliseconds())
	}
	return ics, contacts, count, err
}

func (g *Generator) run(ctx context.Context, cfg SyncConfig) ([]byte, []BirthdayEntry, int, int, error) {
	if g.Calendar == nil {
		return nil, nil, 0, 0, errors.New(config.ErrCalendarMissing)
	}

	var reader io.Reader
	if cfg.Mode != config.SourceModeNone && cfg.Mode != "" {
		rc, err := g.acquireStream(ctx, cfg)
		if err != nil {
			// If context error occurred during acquisition, return it directly.
			if ctx.Err() != nil {
				return nil, nil, 0, 0, ctx.Err()
			}
			return nil, nil, 0, 0, fmt.Errorf("%s: %w", config.ErrVCardParse, err)
		}
		// Best effort close. Errors in Close() for read-only files are rarely actionable here.
		defer func() { _ = rc.Close() }()
		reader = rc
	}

	// Check for early cancellation before processing
	if err := ctx.Err(); err != nil {
		return nil, nil, 0, 0, err
	}

	return g.generateCalendar(ctx, g.Calendar.View(), reader, cfg.ReminderTrigger)
}

// acquireStream opens the appropriate data source based on configuration.
func (g *Generator) acquireStream(ctx context.Context, cfg SyncConfig) (io.ReadCloser, error) {
	switch cfg.Mode {
	case config.SourceModeLocal:
		if cfg.LocalPath == "" {
			return nil, errors.New(config.ErrLocalPathEmpty)
		}
		return os.Open(cfg.LocalPath)
	case config.SourceModeWeb:
		if cfg.WebURL == "" {
			return nil, errors.New(config.ErrWebURLEmpty)
		}
		if g.Fetcher == nil {
			return nil, errors.New(config.ErrFetcherMissing)
		}
		return g.Fetcher.Fetch(ctx, cfg.WebURL, cfg.WebUser, cfg.WebPass)
	default:
		return nil, fmt.Errorf("%s: %q", config.ErrSourceUnsupported, cfg.Mode)
	}
}

type syncStats struct{ processed, withBday, today, events int }

// generateCalendar writes the month-start events and, when r is not nil,
// parses the vCard stream into birthday events and contact entries.
func (g *Generator) generateCalendar(ctx context.Context, view calendar.View, r io.Reader, reminderTrigger string) ([]byte, []BirthdayEntry, int, int, error) {
	catalog := view.Catalog()
	lang := view.Language()

	// Birthdays are defined by the local calendar date, not an absolute UTC
	// timestamp; only DTSTAMP is converted to UTC.
	now := g.Clock.Now()
	today, err := view.Today(now)
	if err != nil {
		return nil, nil, 0, 0, err
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(config.PropVersion, config.ICalVersion)
	cal.Props.SetText(config.PropProdid, config.ICalProdid)
	cal.Props.SetText(config.PropXWRCalName, catalog.Message(lang, config.TKeyCalendarName, nil))
	cal.Props.SetText(config.PropCalScale, config.ICalScale)
	cal.Props.SetText(config.PropMethod, config.ICalMethod)

	// RFC 7986: Suggest a refresh interval
	refreshProp := ical.NewProp(config.PropRefresh)
	refreshProp.SetDuration(config.DefaultICalRefresh)
	cal.Props.Set(refreshProp)

	dtStampProp := ical.NewProp(config.PropDTStamp)
	dtStampProp.SetDateTime(now.UTC())

	var stats syncStats
	years := []int{today.Hijri.Year - 1, today.Hijri.Year, today.Hijri.Year + 1}

	monthEvents, err := g.createMonthEvents(view, years, now.Location())
	if err != nil {
		return nil, nil, 0, 0, err
	}
	for _, e := range monthEvents {
		e.Props.Set(dtStampProp)
		cal.Children = append(cal.Children, e.Component)
	}
	stats.events += len(monthEvents)

	var contacts []BirthdayEntry
	if r != nil {
		decoder := vcard.NewDecoder(r)
		for {
			if ctx.Err() != nil {
				return nil, nil, 0, 0, ctx.Err()
			}

			card, err := decoder.Decode()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				// Log error but continue to next card to maximize data recovery
				slog.Warn(config.MsgSkippedCard,
					config.LogKeyComponent, config.CompEngine,
					config.LogKeyError, err)
				continue
			}

			stats.processed++
			entry, events, isToday, ok := g.processCard(card, view, today, years, reminderTrigger, now.Location())
			if !ok {
				continue
			}
			stats.withBday++
			contacts = append(contacts, entry)

			if isToday {
				stats.today++
				slog.Info(config.MsgBdayToday,
					config.LogKeyComponent, config.CompEngine,
					config.LogKeyName, entry.Name,
					config.LogKeyDOB, entry.DateOfBirth.Format(config.DateFormatFullDash))
			}

			for _, e := range events {
				e.Props.Set(dtStampProp)
				cal.Children = append(cal.Children, e.Component)
			}
			stats.events += len(events)
		}
	}

	slices.SortStableFunc(contacts, func(a, b BirthdayEntry) int {
		return a.NextOccurrence.Compare(b.NextOccurrence)
	})

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, nil, 0, 0, fmt.Errorf("%s: %w", config.ErrICalEncode, err)
	}

	g.logSuccess(stats)
	return buf.Bytes(), contacts, stats.today, stats.events, nil
}

// processCard turns one vCard into a contact entry and its birthday events.
// ok is false when the card carries no usable full birth date.
func (g *Generator) processCard(card vcard.Card, view calendar.View, today calendar.Today, years []int, reminderTrigger string, loc *time.Location) (BirthdayEntry, []*ical.Event, bool, bool) {
	bday := card.Get(config.VCardBDAY)
	if bday == nil || bday.Value == "" {
		return BirthdayEntry{}, nil, false, false
	}

	birthDate, yearKnown, err := parseDate(bday.Value)
	if err != nil {
		slog.Debug(config.MsgSkippedDate,
			config.LogKeyComponent, config.CompEngine,
			config.LogKeyValue, bday.Value)
		return BirthdayEntry{}, nil, false, false
	}
	if !yearKnown {
		// A Hijri date needs the full Gregorian date.
		slog.Debug(config.MsgSkippedNoYear,
			config.LogKeyComponent, config.CompEngine,
			config.LogKeyValue, bday.Value)
		return BirthdayEntry{}, nil, false, false
	}

	birthHijri, err := view.GregorianToHijri(daycount.Date{
		Year: birthDate.Year(), Month: int(birthDate.Month()), Day: birthDate.Day(),
	})
	if err != nil {
		slog.Debug(config.MsgSkippedDate,
			config.LogKeyComponent, config.CompEngine,
			config.LogKeyValue, bday.Value,
			config.LogKeyError, err)
		return BirthdayEntry{}, nil, false, false
	}

	// Name Strategy: FN (Formatted) > N (Structured) > Fallback
	name := config.FallbackName
	if fn := card.Get(config.VCardFN); fn != nil {
		name = fn.Value
	} else if n := card.Get(config.VCardN); n != nil {
		name = n.Value
	}

	// Deterministic UID generation for stability across refreshes
	input := fmt.Sprintf(config.FormatHashInput, name, birthDate.Format(time.RFC3339), config.UIDSalt)
	hash := sha256.Sum256([]byte(input))
	uidBase := fmt.Sprintf("%x", hash[:config.UIDHashLength])

	next, nextPivot, ageNext, err := calculateNextOccurrence(view, today.Pivot, birthHijri)
	if err != nil {
		slog.Debug(config.MsgSkippedDate,
			config.LogKeyComponent, config.CompEngine,
			config.LogKeyName, name,
			config.LogKeyError, err)
		return BirthdayEntry{}, nil, false, false
	}

	entry := BirthdayEntry{
		UID:            uidBase,
		Name:           name,
		DateOfBirth:    birthDate,
		HijriBirth:     birthHijri,
		NextHijri:      next,
		NextOccurrence: daycount.ToGregorian(nextPivot).Time(loc),
		AgeNext:        ageNext,
	}

	events, isToday := g.createBirthdayEvents(view, entry, years, today.Pivot, reminderTrigger, loc)
	return entry, events, isToday, true
}

// logSuccess logs the final statistics of the generation process.
func (g *Generator) logSuccess(stats syncStats) {
	slog.Info(config.MsgGenSuccess,
		config.LogKeyComponent, config.CompEngine,
		slog.Group(config.LogKeyStats,
			slog.Int(config.LogKeyTotal, stats.processed),
			slog.Int(config.LogKeyFound, stats.withBday),
			slog.Int(config.LogKeyToday, stats.today),
			slog.Int(config.LogKeyEvents, stats.events),
		),
	)
}

// anniversary returns the occurrence of birth in the Hijri year. A birth on
// the 30th falls on the last day of a shorter month.
func anniversary(view calendar.View, birth hijri.Date, year int) (hijri.Date, daycount.Pivot, error) {
	n, err := view.DaysInMonth(year, birth.Month)
	if err != nil {
		return hijri.Date{}, 0, err
	}
	d := hijri.Date{Year: year, Month: birth.Month, Day: min(birth.Day, n)}
	p, err := view.HijriToPivot(d)
	if err != nil {
		return hijri.Date{}, 0, err
	}
	return d, p, nil
}

// calculateNextOccurrence finds the first Hijri anniversary on or after
// today and the Hijri age reached on it.
func calculateNextOccurrence(view calendar.View, today daycount.Pivot, birth hijri.Date) (hijri.Date, daycount.Pivot, int, error) {
	current, err := view.PivotToHijri(today)
	if err != nil {
		return hijri.Date{}, 0, 0, err
	}

	year := max(current.Year, birth.Year)
	d, p, err := anniversary(view, birth, year)
	if err != nil {
		return hijri.Date{}, 0, 0, err
	}
	if p < today {
		year++
		if d, p, err = anniversary(view, birth, year); err != nil {
			return hijri.Date{}, 0, 0, err
		}
	}
	return d, p, year - birth.Year, nil
}

// createMonthEvents emits one all-day event per Hijri month start.
func (g *Generator) createMonthEvents(view calendar.View, years []int, loc *time.Location) ([]*ical.Event, error) {
	catalog := view.Catalog()
	lang := view.Language()

	var events []*ical.Event
	for _, y := range years {
		for m := 1; m <= hijri.MonthsPerYear; m++ {
			p, err := view.MonthStart(y, m)
			if err != nil {
				return nil, err
			}

			event := ical.NewEvent()
			event.Props.SetText(config.PropUID, fmt.Sprintf(config.FormatMonthUID, y, m, config.ICalDomain))
			event.Props.SetText(config.PropSummary, catalog.Message(lang, config.TKeyEvtMonthStart, map[string]any{
				"Month": catalog.HijriMonth(lang, m),
				"Year":  y,
			}))

			dtStartProp := ical.NewProp(config.PropDTStart)
			dtStartProp.SetDate(daycount.ToGregorian(p).Time(loc))
			event.Props.Set(dtStartProp)

			events = append(events, event)
		}
	}
	return events, nil
}

// createBirthdayEvents generates the Hijri birthday of entry in each of
// years. No event is created before the person is born.
func (g *Generator) createBirthdayEvents(view calendar.View, entry BirthdayEntry, years []int, today daycount.Pivot, reminderTrigger string, loc *time.Location) ([]*ical.Event, bool) {
	catalog := view.Catalog()
	lang := view.Language()

	var events []*ical.Event
	isToday := false

	for _, y := range years {
		if y < entry.HijriBirth.Year {
			continue
		}
		_, p, err := anniversary(view, entry.HijriBirth, y)
		if err != nil {
			continue
		}

		age := y - entry.HijriBirth.Year
		summary := catalog.Message(lang, config.TKeyEvtBirthdayAge, map[string]any{"Name": entry.Name, "Age": age})
		if age == 0 {
			summary = catalog.Message(lang, config.TKeyEvtBirthdayBirth, map[string]any{"Name": entry.Name})
		}

		event := ical.NewEvent()
		event.Props.SetText(config.PropUID, fmt.Sprintf(config.FormatUID, entry.UID, y, config.ICalDomain))
		event.Props.SetText(config.PropSummary, summary)
		event.Props.SetText(config.PropDescription, catalog.HijriDate(lang, entry.HijriBirth.Year, entry.HijriBirth.Month, entry.HijriBirth.Day))

		if p == today {
			isToday = true
		}

		dtStartProp := ical.NewProp(config.PropDTStart)
		dtStartProp.SetDate(daycount.ToGregorian(p).Time(loc))
		event.Props.Set(dtStartProp)

		if reminderTrigger != "" {
			addAlarm(event, reminderTrigger, summary)
		}

		events = append(events, event)
	}
	return events, isToday
}

// addAlarm appends a DISPLAY alarm (notification) to the event.
func addAlarm(event *ical.Event, trigger, description string) {
	alarm := ical.NewComponent(config.ICalComponent)
	alarm.Props.SetText(config.PropAction, config.ICalAction)
	alarm.Props.SetText(config.PropDescription, description)

	// Set trigger manually to avoid "VALUE=TEXT" param
	triggerProp := ical.NewProp(config.PropTrigger)
	triggerProp.Value = trigger
	alarm.Props.Set(triggerProp)

	event.Children = append(event.Children, alarm)
}

// parseDate handles various vCard date formats.
func parseDate(value string) (time.Time, bool, error) {
	// Full dates (Year known)
	formatsWithYear := []string{
		config.DateFormatFullDash,
		config.DateFormatFullBasic,
		config.DateFormatRFC3339,
		config.DateFormatFullT,
	}

	for _, f := range formatsWithYear {
		if t, err := time.Parse(f, value); err == nil {
			return t, true, nil
		}
	}

	// Truncated dates (Year unknown) - vCard specific
	formatsWithoutYear := []string{config.DateFormatNoYearD, config.DateFormatNoYearB}
	for _, f := range formatsWithoutYear {
		if t, err := time.Parse(f, value); err == nil {
			safeDate := time.Date(config.DefaultLeapYear, t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return safeDate, false, nil
		}
	}

	return time.Time{}, false, errors.New(config.ErrDateParse)
}
