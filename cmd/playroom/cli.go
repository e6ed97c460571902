package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/sandeepkv93/playroom/internal/logging"
	"github.com/sandeepkv93/playroom/internal/model"
	"github.com/sandeepkv93/playroom/internal/schedule"
	"github.com/sandeepkv93/playroom/internal/storage"
	"github.com/sandeepkv93/playroom/internal/ticker"
	"github.com/sandeepkv93/playroom/internal/update"
	"github.com/sandeepkv93/playroom/internal/workspace"
)

// cli carries the persistent flags and the resources opened for a command.
type cli struct {
	configPath string
	dbPath     string

	cfg      update.RuntimeConfig
	logger   *slog.Logger
	closeLog func() error
	repo     *storage.SQLiteRepository
	ws       *workspace.Workspace
}

// newRootCommand wires the commands to c. The caller closes c after Execute
// returns, whether or not the command failed.
func newRootCommand(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:   "playroom",
		Short: "Playroom wall clock and daily schedule",
		Long: `playroom shows a big clock, today's recurring events and what is
happening right now.

  playroom                      # run the wall clock
  playroom today --at 07:45     # print today's schedule
  playroom export schedule.yaml # write events and presets
  playroom import schedule.json # replace events, add presets`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.open()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTUI(cmd.Context())
		},
	}
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "YAML config file")
	root.PersistentFlags().StringVar(&c.dbPath, "db", "", "SQLite database path (overrides config)")

	root.AddCommand(c.todayCommand(), c.importCommand(), c.exportCommand())
	return root
}

// open loads config and opens the log and database. On error anything opened
// so far is released again.
func (c *cli) open() (err error) {
	defer func() {
		if err != nil {
			err = errors.Join(err, c.close())
		}
	}()

	cfg, err := update.LoadRuntimeConfig(c.configPath)
	if err != nil {
		return err
	}
	if c.dbPath != "" {
		cfg.DatabasePath = c.dbPath
	}
	c.cfg = cfg

	logger, closeLog, err := logging.New(logging.Config{Path: cfg.LogPath, Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err != nil {
		return err
	}
	c.logger, c.closeLog = logger, closeLog

	repo, err := storage.OpenSQLite(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	c.repo = repo

	ws, err := workspace.New(repo, workspace.WithLogger(logger))
	if err != nil {
		return err
	}
	c.ws = ws
	return nil
}

// close releases whatever open acquired. It is safe to call more than once.
func (c *cli) close() error {
	var errs []error
	if c.repo != nil {
		errs = append(errs, c.repo.Close())
		c.repo, c.ws = nil, nil
	}
	if c.closeLog != nil {
		errs = append(errs, c.closeLog())
		c.closeLog = nil
	}
	return errors.Join(errs...)
}

func (c *cli) runTUI(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	events, _, err := c.ws.LoadEvents(ctx)
	if err != nil {
		return err
	}
	presets, _, err := c.ws.LoadPresets(ctx)
	if err != nil {
		return err
	}
	cfg := c.cfg
	if cfg.ShowMagic, err = c.ws.ShowMagic(ctx, cfg.ShowMagic); err != nil {
		return err
	}

	driver, err := ticker.NewDriver(cfg.TickInterval)
	if err != nil {
		return err
	}
	driver.Start()
	defer func() {
		driver.Stop()
		c.logger.Info("tick driver stopped", "emitted", driver.Emitted(), "dropped", driver.Dropped())
	}()

	c.logger.Info("playroom starting", "events", len(events), "presets", len(presets), "db", cfg.DatabasePath)
	m := update.NewModelWithOptions(update.Options{
		Config:      cfg,
		Events:      events,
		Presets:     presets,
		Persistence: c.ws,
		Ticks:       driver.C(),
		Logger:      c.logger,
	})
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

func (c *cli) todayCommand() *cobra.Command {
	var at string
	cmd := &cobra.Command{
		Use:   "today",
		Short: "Print today's schedule and the active event",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			now, err := parseAt(at, time.Now())
			if err != nil {
				return err
			}
			events, _, err := c.ws.LoadEvents(cmd.Context())
			if err != nil {
				return err
			}
			policy, err := schedule.ParsePolicy(c.cfg.SelectionPolicy)
			if err != nil {
				return err
			}
			printToday(cmd.OutOrStdout(), schedule.NewProjector(policy).Project(events, now))
			return nil
		},
	}
	cmd.Flags().StringVar(&at, "at", "", "evaluate at RFC3339 instant or HH:MM today")
	return cmd
}

func (c *cli) importCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace events and add presets from a JSON or YAML document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read document: %w", err)
			}
			doc, issues, err := model.DecodeDocument(data, model.FormatFromPath(args[0]))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, issue := range issues {
				c.logger.Warn("import dropped record", "path", issue.Path, "id", issue.ID, "err", issue.Err)
				fmt.Fprintf(out, "skipped %s\n", issue.Error())
			}
			res, err := c.ws.Import(cmd.Context(), doc)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "imported %d events and %d presets\n", res.Events, res.Presets)
			return nil
		},
	}
}

func (c *cli) exportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export <file>",
		Short: "Write events and presets as JSON, or YAML for .yaml/.yml",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := c.ws.Export(cmd.Context())
			if err != nil {
				return err
			}
			data, err := model.EncodeDocument(doc, model.FormatFromPath(args[0]))
			if err != nil {
				return err
			}
			if err := os.WriteFile(args[0], data, 0o644); err != nil {
				return fmt.Errorf("write document: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d events and %d presets to %s\n", len(doc.Events), len(doc.Presets), args[0])
			return nil
		},
	}
}

// parseAt reads an RFC3339 instant or a local HH:MM on the day of now.
func parseAt(raw string, now time.Time) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return now, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.In(now.Location()), nil
	}
	clock, err := model.ParseClock(raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("--at must be RFC3339 or HH:MM: %w", err)
	}
	return time.Date(now.Year(), now.Month(), now.Day(), clock.Hour(), clock.Minute(), 0, 0, now.Location()), nil
}

func printToday(w io.Writer, snap schedule.Snapshot) {
	c := snap.Cursor
	fmt.Fprintf(w, "%s %s\n", c.Weekday, c.Instant.Format("15:04"))
	if len(snap.Today) == 0 {
		fmt.Fprintln(w, "  no events today")
	}
	for _, entry := range snap.Today {
		status := string(entry.Status)
		if entry.Err != nil {
			status = "invalid"
		}
		fmt.Fprintf(w, "  %-7s %s-%s %s\n", status, entry.Event.StartTime, entry.Event.EndTime, entry.Event.Title)
	}
	if snap.Active != nil {
		fmt.Fprintf(w, "now: %s\n", snap.Active.Title)
	} else {
		fmt.Fprintln(w, "now: free play")
	}
}
