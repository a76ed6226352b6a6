package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tartampluch/go-hijri/internal/calendar"
	"github.com/tartampluch/go-hijri/internal/config"
	"github.com/tartampluch/go-hijri/internal/engine"
	"github.com/tartampluch/go-hijri/internal/hijri"
	"github.com/tartampluch/go-hijri/internal/locale"
	"github.com/tartampluch/go-hijri/internal/metrics"
	"github.com/tartampluch/go-hijri/internal/store"
)

// options are the runtime settings resolved by viper from flags, GO_HIJRI_*
// environment variables and the optional configuration file.
type options struct {
	Debug     bool   `mapstructure:"debug"`
	State     string `mapstructure:"state"`
	Port      string `mapstructure:"port"`
	Interval  int    `mapstructure:"interval"`
	Source    string `mapstructure:"source"`
	LocalPath string `mapstructure:"vcf"`
	URL       string `mapstructure:"url"`
	User      string `mapstructure:"user"`
	Password  string `mapstructure:"password"`
	Reminder  string `mapstructure:"reminder"`
}

// app wires the calendar, its persisted state and the feed dependencies for
// one command invocation.
type app struct {
	v       *viper.Viper
	opts    options
	clock   engine.Clock
	logging bool
	closer  io.Closer

	registry *prometheus.Registry
	metrics  *metrics.Metrics
	store    store.Store
	cal      *calendar.Calendar
}

func newApp(clock engine.Clock) *app {
	v := viper.New()
	v.SetEnvPrefix(config.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	// Keys without a flag must be known to viper for Unmarshal to see them.
	v.SetDefault(config.KeyPassword, "")

	return &app{v: v, clock: clock}
}

// bootstrap resolves the options and builds the calendar from the stored
// state. It runs before every command that touches the calendar.
func (a *app) bootstrap(cmd *cobra.Command) error {
	if err := a.v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}
	if path := a.v.GetString(config.FlagConfig); path != "" {
		a.v.SetConfigFile(path)
		if err := a.v.ReadInConfig(); err != nil {
			return fmt.Errorf("%s: %w", config.ErrConfigRead, err)
		}
	}
	if err := a.v.Unmarshal(&a.opts); err != nil {
		return fmt.Errorf("%s: %w", config.ErrConfigDecode, err)
	}

	if a.logging {
		level := slog.LevelWarn
		switch {
		case a.opts.Debug:
			level = slog.LevelDebug
		case cmd.Name() == cmdServe:
			level = slog.LevelInfo
		}
		a.closer = setupLogging(level)
		logStartupInfo()
	}

	a.registry = prometheus.NewRegistry()
	a.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	a.metrics = metrics.New(a.registry)

	astro, err := hijri.NewAstronomical(hijri.WithCacheObserver(a.metrics))
	if err != nil {
		return err
	}
	catalog, err := locale.NewCatalog()
	if err != nil {
		return err
	}

	st, err := store.NewFileStore(a.opts.State)
	if err != nil {
		return err
	}
	a.store = st

	rec, err := st.Load()
	if err != nil {
		return err
	}
	settings, err := rec.Settings()
	if err != nil {
		return err
	}

	a.cal, err = calendar.New(settings, astro, catalog)
	return err
}

// save persists the current calendar settings.
func (a *app) save() error {
	return a.store.Save(store.FromSettings(a.cal.Settings()))
}

func (a *app) close() {
	if a.closer != nil {
		_ = a.closer.Close() // Best effort close
	}
}
