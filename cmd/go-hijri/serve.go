package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/tartampluch/go-hijri/internal/config"
	"github.com/tartampluch/go-hijri/internal/engine"
	"github.com/tartampluch/go-hijri/internal/server"
	"github.com/tartampluch/go-hijri/internal/store"
)

// feedFlags registers the options shared by the commands that read contacts.
func feedFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String(config.FlagSource, config.SourceModeNone, config.FlagDescSource)
	f.String(config.FlagLocalPath, "", config.FlagDescLocalPath)
	f.String(config.FlagURL, "", config.FlagDescURL)
	f.String(config.FlagUser, "", config.FlagDescUser)
	f.String(config.FlagReminder, "", config.FlagDescReminder)
}

// syncConfig builds the feed parameters, reading the web password from the
// environment first and then from the keyring.
func (a *app) syncConfig() (engine.SyncConfig, error) {
	cfg := engine.SyncConfig{
		Mode:            a.opts.Source,
		LocalPath:       a.opts.LocalPath,
		WebURL:          a.opts.URL,
		WebUser:         a.opts.User,
		WebPass:         a.opts.Password,
		ReminderTrigger: a.opts.Reminder,
	}
	if cfg.Mode == config.SourceModeWeb && cfg.WebUser != "" && cfg.WebPass == "" {
		pass, err := store.LoadPassword(cfg.WebUser)
		if err != nil {
			return engine.SyncConfig{}, err
		}
		cfg.WebPass = pass
	}
	return cfg, nil
}

func (a *app) generator() *engine.Generator {
	return &engine.Generator{
		Calendar: a.cal,
		Clock:    a.clock,
		Fetcher:  engine.NewHTTPFetcher(),
		Observer: a.metrics,
	}
}

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   cmdServe,
		Short: "Serve the ICS feed of Hijri month starts and birthdays on localhost",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.opts.Interval <= 0 {
				return errors.New(config.ErrIntervalRange)
			}
			cfg, err := a.syncConfig()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			srv := server.NewFeedServer(a.opts.Port, a.metrics, a.registry)
			gen := a.generator()
			interval := time.Duration(a.opts.Interval) * time.Minute

			slog.Info(config.MsgRefreshScheduled,
				config.LogKeyComponent, config.CompMain,
				config.LogKeyMode, cfg.Mode,
				config.LogKeyInterval, interval.String(),
			)

			go srv.Refresh(ctx, interval, func(ctx context.Context) ([]byte, error) {
				data, _, _, err := gen.RunSync(ctx, cfg)
				return data, err
			})

			err = srv.Start(ctx)
			if cmd.Context().Err() != nil {
				slog.Info(config.MsgCtxCancel, config.LogKeyComponent, config.CompMain)
			}
			return err
		},
	}

	cmd.Flags().String(config.FlagPort, config.DefaultPort, config.FlagDescPort)
	cmd.Flags().Int(config.FlagInterval, config.DefaultRefreshMin, config.FlagDescInterval)
	feedFlags(cmd)
	return cmd
}

func newContactsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contacts",
		Short: "List contacts by next Hijri birthday",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.syncConfig()
			if err != nil {
				return err
			}
			_, contacts, _, err := a.generator().RunSync(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			view := a.cal.View()
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			for _, c := range contacts {
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n",
					c.Name,
					c.NextOccurrence.Format(config.DateFormatFullDash),
					label(view, c.NextHijri),
					c.AgeNext,
				)
			}
			return tw.Flush()
		},
	}
	feedFlags(cmd)
	return cmd
}

// -----------------------------------------------------------------------------
// Keyring
// -----------------------------------------------------------------------------

func noCalendar(*cobra.Command, []string) error { return nil }

func newLoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "login USER",
		Short:             "Store the web source password in the system keyring (read from stdin)",
		Args:              cobra.ExactArgs(1),
		PersistentPreRunE: noCalendar,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _ = fmt.Fprint(cmd.ErrOrStderr(), config.MsgPrompt)
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && line == "" {
				return err
			}
			if err := store.SavePassword(args[0], strings.TrimRight(line, "\r\n")); err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), config.MsgPasswordSaved)
			return err
		},
	}
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "logout USER",
		Short:             "Remove the web source password from the system keyring",
		Args:              cobra.ExactArgs(1),
		PersistentPreRunE: noCalendar,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := store.DeletePassword(args[0]); err != nil {
				return err
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), config.MsgPasswordGone)
			return err
		},
	}
}
