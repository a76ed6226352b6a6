// Package locale provides translated calendar vocabulary: Gregorian and
// Hijri month names, weekday names, date and range labels, feed summaries.
package locale

import (
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/tartampluch/go-hijri/internal/config"
	"github.com/tartampluch/go-hijri/internal/daycount"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

// Catalog holds the embedded translations. It is safe for concurrent use.
type Catalog struct {
	bundle    *i18n.Bundle
	languages []string
	matcher   language.Matcher
}

// NewCatalog loads every embedded locale file. The default language is
// always listed first so unmatched requests fall back to it.
func NewCatalog() (*Catalog, error) {
	defaultTag := language.Make(config.DefaultLanguage)
	bundle := i18n.NewBundle(defaultTag)
	bundle.RegisterUnmarshalFunc(config.LocaleFormat, json.Unmarshal)

	entries, err := localeFS.ReadDir(config.LocalesDir)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrLocalesAccess, err)
	}

	tags := []language.Tag{defaultTag}
	languages := []string{config.DefaultLanguage}

	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, config.LocalePrefix) || !strings.HasSuffix(name, config.LocaleSuffix) {
			slog.Debug(config.MsgLocaleSkip,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		mf, err := bundle.LoadMessageFileFS(localeFS, config.LocalesDir+"/"+name)
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", config.ErrLocaleLoad, name, err)
		}

		code := mf.Tag.String()
		slog.Debug(config.MsgLocaleLoaded,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyLang, code,
			config.LogKeyFile, name,
		)
		if code == config.DefaultLanguage {
			continue
		}
		tags = append(tags, mf.Tag)
		languages = append(languages, code)
	}

	return &Catalog{
		bundle:    bundle,
		languages: languages,
		matcher:   language.NewMatcher(tags),
	}, nil
}

// Languages lists the available language codes, default first.
func (c *Catalog) Languages() []string {
	return append([]string(nil), c.languages...)
}

// Supports reports whether lang matches one of the available languages.
func (c *Catalog) Supports(lang string) bool {
	tag, err := language.Parse(lang)
	if err != nil {
		return false
	}
	_, _, confidence := c.matcher.Match(tag)
	return confidence != language.No
}

// Resolve maps any BCP 47 tag ("fr-CA", "ar-SA") to the closest available
// language code, falling back to the default language.
func (c *Catalog) Resolve(lang string) string {
	tag, err := language.Parse(lang)
	if err != nil {
		return c.languages[0]
	}
	_, index, _ := c.matcher.Match(tag)
	return c.languages[index]
}

// Message translates id. Missing keys are logged and returned verbatim.
func (c *Catalog) Message(lang, id string, data map[string]any) string {
	localizer := i18n.NewLocalizer(c.bundle, c.Resolve(lang))
	msg, err := localizer.Localize(&i18n.LocalizeConfig{MessageID: id, TemplateData: data})
	if err != nil {
		slog.Debug(config.MsgTransMissing,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyKey, id,
			config.LogKeyError, err,
		)
		return id
	}
	return msg
}

// GregorianMonth returns the name of a Gregorian month (1..12).
func (c *Catalog) GregorianMonth(lang string, month int) string {
	return c.Message(lang, fmt.Sprintf(config.TKeyGregorianMonth, month), nil)
}

// HijriMonth returns the name of a Hijri month (1..12).
func (c *Catalog) HijriMonth(lang string, month int) string {
	return c.Message(lang, fmt.Sprintf(config.TKeyHijriMonth, month), nil)
}

// Weekday returns the name of a weekday.
func (c *Catalog) Weekday(lang string, wd daycount.Weekday) string {
	return c.Message(lang, fmt.Sprintf(config.TKeyWeekday, int(wd)), nil)
}

// HijriDate renders a Hijri date such as "1 Ramadan 1447 AH".
func (c *Catalog) HijriDate(lang string, year, month, day int) string {
	return c.Message(lang, config.TKeyHijriDate, map[string]any{
		"Day":   day,
		"Month": c.HijriMonth(lang, month),
		"Year":  year,
	})
}

// RangeLabel names the Gregorian span of a Hijri month: "March 2025",
// "February – March 2026" or "December 2025 – January 2026".
func (c *Catalog) RangeLabel(lang string, start, end daycount.Date) string {
	switch {
	case start.Year == end.Year && start.Month == end.Month:
		return c.Message(lang, config.TKeyRangeSameMonth, map[string]any{
			"Month": c.GregorianMonth(lang, start.Month),
			"Year":  start.Year,
		})
	case start.Year == end.Year:
		return c.Message(lang, config.TKeyRangeSameYear, map[string]any{
			"StartMonth": c.GregorianMonth(lang, start.Month),
			"EndMonth":   c.GregorianMonth(lang, end.Month),
			"Year":       start.Year,
		})
	default:
		return c.Message(lang, config.TKeyRangeCrossYear, map[string]any{
			"StartMonth": c.GregorianMonth(lang, start.Month),
			"StartYear":  start.Year,
			"EndMonth":   c.GregorianMonth(lang, end.Month),
			"EndYear":    end.Year,
		})
	}
}
