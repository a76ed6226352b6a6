package main

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/tartampluch/go-hijri/internal/calendar"
	"github.com/tartampluch/go-hijri/internal/config"
	"github.com/tartampluch/go-hijri/internal/daycount"
	"github.com/tartampluch/go-hijri/internal/hijri"
)

const (
	cmdServe = "serve"

	// cellOutside marks grid cells that belong to a neighbouring month.
	cellOutside = "·"
)

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "go-hijri",
		Short:         "Hijri and Gregorian calendar conversions, month grids and an ICS feed",
		Version:       config.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.bootstrap(cmd)
		},
	}
	root.SetVersionTemplate(config.AppName + " version {{.Version}}\n")

	pf := root.PersistentFlags()
	pf.Bool(config.FlagDebug, false, config.FlagDescDebug)
	pf.String(config.FlagConfig, "", config.FlagDescConfig)
	pf.String(config.FlagState, "", config.FlagDescState)

	root.AddCommand(
		newVersionCmd(),
		newConvertCmd(a),
		newTodayCmd(a),
		newMonthCmd(a),
		newModeCmd(a),
		newWeekStartCmd(a),
		newLanguageCmd(a),
		newCorrectCmd(a),
		newServeCmd(a),
		newContactsCmd(a),
		newLoginCmd(),
		newLogoutCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:               config.FlagVersion,
		Short:             config.FlagDescVersion,
		Args:              cobra.NoArgs,
		PersistentPreRunE: noCalendar,
		Run: func(cmd *cobra.Command, _ []string) {
			printVersion(cmd.OutOrStdout())
		},
	}
}

// -----------------------------------------------------------------------------
// Conversions
// -----------------------------------------------------------------------------

func newConvertCmd(a *app) *cobra.Command {
	convert := &cobra.Command{
		Use:   "convert",
		Short: "Convert a date between the Gregorian and Hijri calendars",
	}

	convert.AddCommand(&cobra.Command{
		Use:   "to-hijri YYYY-MM-DD",
		Short: "Convert a Gregorian date to Hijri",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := parseGregorian(args[0])
			if err != nil {
				return err
			}
			view := a.cal.View()
			h, err := view.GregorianToHijri(g)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", h, label(view, h))
			return err
		},
	})

	convert.AddCommand(&cobra.Command{
		Use:   "to-gregorian YYYY-MM-DD",
		Short: "Convert a Hijri date to Gregorian",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := parseHijri(args[0])
			if err != nil {
				return err
			}
			view := a.cal.View()
			p, err := view.HijriToPivot(h)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n",
				view.PivotToGregorian(p), view.Catalog().Weekday(view.Language(), view.DayOfWeek(p)))
			return err
		},
	})

	return convert
}

func newTodayCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "today",
		Short: "Show today in both calendars",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			view := a.cal.View()
			today, err := view.Today(a.clock.Now())
			if err != nil {
				return err
			}
			catalog, lang := view.Catalog(), view.Language()
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%d\n",
				today.Gregorian,
				catalog.Weekday(lang, today.Weekday),
				label(view, today.Hijri),
				today.Week,
			)
			return err
		},
	}
}

func newMonthCmd(a *app) *cobra.Command {
	var weekStart string
	cmd := &cobra.Command{
		Use:   "month [YYYY-MM | YEAR MONTH]",
		Short: "Print the grid of a Hijri month (default: the current one)",
		Args:  cobra.RangeArgs(0, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			view := a.cal.View()
			year, month, err := monthArgs(args)
			if err != nil {
				return err
			}
			if len(args) == 0 {
				today, err := view.Today(a.clock.Now())
				if err != nil {
					return err
				}
				year, month = today.Hijri.Year, today.Hijri.Month
			}

			ws := view.WeekStart()
			if weekStart != "" {
				if ws, err = calendar.ParseWeekStart(weekStart); err != nil {
					return err
				}
			}

			md, err := view.MonthDataFor(year, month, ws)
			if err != nil {
				return err
			}
			return printMonth(cmd, view, md)
		},
	}
	cmd.Flags().StringVar(&weekStart, config.FlagWeekStart, "", config.FlagDescWeekStart)
	return cmd
}

// printMonth writes the header, one row per week and a week-number column.
// Each cell shows the Hijri day and the Gregorian day.
func printMonth(cmd *cobra.Command, view calendar.View, md calendar.MonthData) error {
	catalog, lang := view.Catalog(), view.Language()
	out := cmd.OutOrStdout()

	if _, err := fmt.Fprintf(out, "%s %d (%s)\n", catalog.HijriMonth(lang, md.Month), md.Year, md.Label); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	header := []string{""}
	for i := range daycount.DaysPerWeek {
		wd := daycount.Weekday((int(md.WeekStart) + i) % daycount.DaysPerWeek)
		header = append(header, abbreviate(catalog.Weekday(lang, wd)))
	}
	_, _ = fmt.Fprintln(tw, strings.Join(header, "\t")+"\t")

	for _, week := range md.Weeks() {
		row := []string{strconv.Itoa(weekNumber(week))}
		for _, c := range week {
			if !c.InMonth {
				row = append(row, cellOutside)
				continue
			}
			row = append(row, fmt.Sprintf("%d/%d", c.Hijri.Day, c.Gregorian.Day))
		}
		_, _ = fmt.Fprintln(tw, strings.Join(row, "\t")+"\t")
	}
	return tw.Flush()
}

// weekNumber labels a row with the week of its first in-month day.
func weekNumber(week []calendar.DayCell) int {
	for _, c := range week {
		if c.InMonth {
			return c.Week
		}
	}
	return week[0].Week
}

func abbreviate(name string) string {
	r := []rune(name)
	if len(r) > 3 {
		r = r[:3]
	}
	return string(r)
}

// -----------------------------------------------------------------------------
// Settings
// -----------------------------------------------------------------------------

func newModeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mode [tabular|astronomical]",
		Short: "Show or set the calendar mode",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				m, err := calendar.ParseMode(args[0])
				if err != nil {
					return err
				}
				if err := a.cal.SetMode(m); err != nil {
					return err
				}
				if err := a.save(); err != nil {
					return err
				}
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), a.cal.Settings().Mode)
			return err
		},
	}
}

func newWeekStartCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "weekstart [saturday|sunday|monday]",
		Short: "Show or set the first day of the week",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				ws, err := calendar.ParseWeekStart(args[0])
				if err != nil {
					return err
				}
				if err := a.cal.SetWeekStart(ws); err != nil {
					return err
				}
				if err := a.save(); err != nil {
					return err
				}
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), a.cal.Settings().WeekStart)
			return err
		},
	}
}

func newLanguageCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "language [code]",
		Short: "Show or set the language of month names and feed summaries",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				if err := a.cal.SetLanguage(args[0]); err != nil {
					return err
				}
				if err := a.save(); err != nil {
					return err
				}
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s\t(%s)\n",
				a.cal.Settings().Language, strings.Join(a.cal.Catalog().Languages(), ", "))
			return err
		},
	}
}

func newCorrectCmd(a *app) *cobra.Command {
	correct := &cobra.Command{
		Use:   "correct",
		Short: "Manage month-start corrections",
	}

	correct.AddCommand(&cobra.Command{
		Use:   "set YYYY-MM OFFSET",
		Short: "Shift the start of a month by OFFSET days (0 removes the correction)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := hijri.ParseMonthKey(args[0])
			if err != nil {
				return err
			}
			offset, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("%w: %s %q", hijri.ErrInvalidArgument, config.ErrOffset, args[1])
			}
			if err := a.cal.SetCorrection(key.Year, key.Month, offset); err != nil {
				return err
			}
			return a.save()
		},
	})

	correct.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove every correction",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			a.cal.ClearCorrections()
			return a.save()
		},
	})

	correct.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List corrections with the month starts they produce",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			view := a.cal.View()
			corrections := a.cal.Corrections()
			for _, key := range corrections.Keys() {
				p, err := view.MonthStart(key.Year, key.Month)
				if err != nil {
					return err
				}
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s\t%+d\t%s\n",
					key, corrections.Get(key), view.PivotToGregorian(p)); err != nil {
					return err
				}
			}
			return nil
		},
	})

	return correct
}

// -----------------------------------------------------------------------------
// Argument parsing
// -----------------------------------------------------------------------------

func parseGregorian(s string) (daycount.Date, error) {
	t, err := time.Parse(config.DateFormatFullDash, s)
	if err != nil {
		return daycount.Date{}, fmt.Errorf("%w: %s %q", hijri.ErrInvalidArgument, config.ErrGregorianDate, s)
	}
	return daycount.Date{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}, nil
}

func parseHijri(s string) (hijri.Date, error) {
	var d hijri.Date
	var rest string
	if n, _ := fmt.Sscanf(s, config.FormatHijriScan, &d.Year, &d.Month, &d.Day, &rest); n != 3 {
		return hijri.Date{}, fmt.Errorf("%w: %s %q", hijri.ErrInvalidArgument, config.ErrHijriDate, s)
	}
	return d, nil
}

func monthArgs(args []string) (int, int, error) {
	switch len(args) {
	case 0:
		return 0, 0, nil
	case 1:
		key, err := hijri.ParseMonthKey(args[0])
		return key.Year, key.Month, err
	}
	year, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: year %q", hijri.ErrInvalidArgument, args[0])
	}
	month, err := strconv.Atoi(args[1])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: month %q", hijri.ErrInvalidArgument, args[1])
	}
	return year, month, nil
}

func label(view calendar.View, d hijri.Date) string {
	return view.Catalog().HijriDate(view.Language(), d.Year, d.Month, d.Day)
}
