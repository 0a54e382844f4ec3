package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/phrazzld/procknow/internal/config"
	"github.com/phrazzld/procknow/internal/platform/sqlstore"
	"github.com/phrazzld/procknow/internal/service"
	"github.com/phrazzld/procknow/internal/tui"
)

func newFlagSet(name string, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	return fs
}

// parseFlags parses args and rejects stray positional arguments.
func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(fs.Output(), "unexpected arguments: %v\n", fs.Args())
		return errUsage
	}
	return nil
}

func runStudy(ctx context.Context, configPath string, args []string, stderr io.Writer) error {
	fs := newFlagSet("study", stderr)
	folder := fs.String("folder", "", "open this folder")
	topic := fs.String("topic", "", "start this topic of the folder")
	weak := fs.Bool("weak", false, "only study cards below the accuracy threshold")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	cfg, err := loadAppConfig(configPath)
	if err != nil {
		return err
	}
	app, err := newApplication(ctx, cfg, appOptions{autoMigrate: true, tui: true})
	if err != nil {
		return err
	}
	defer app.cleanup()

	model := tui.New(ctx, app.study, tui.Options{
		Folder:   *folder,
		Topic:    *topic,
		WeakOnly: *weak,
	}, app.logger)

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("terminal UI failed: %w", err)
	}
	return nil
}

func runServe(ctx context.Context, configPath string, args []string, stderr io.Writer) error {
	fs := newFlagSet("serve", stderr)
	port := fs.Int("port", 0, "override the configured port")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	cfg, err := loadAppConfig(configPath)
	if err != nil {
		return err
	}
	if *port > 0 {
		cfg.Server.Port = *port
	}

	app, err := newApplication(ctx, cfg, appOptions{autoMigrate: true, logOut: stderr})
	if err != nil {
		return err
	}
	defer app.cleanup()

	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func runStats(ctx context.Context, configPath string, args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("stats", stderr)
	folder := fs.String("folder", "", "folder to report on (required)")
	sortBy := fs.String("sort", "", "sort column: name, correct, wrong or accuracy")
	asc := fs.Bool("asc", false, "sort ascending")
	asJSON := fs.Bool("json", false, "print JSON instead of a table")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *folder == "" {
		fmt.Fprintln(stderr, "stats: --folder is required")
		return errUsage
	}
	key, err := service.ParseSortKey(*sortBy)
	if err != nil {
		return err
	}

	cfg, err := loadAppConfig(configPath)
	if err != nil {
		return err
	}
	app, err := newApplication(ctx, cfg, appOptions{autoMigrate: true, logOut: stderr})
	if err != nil {
		return err
	}
	defer app.cleanup()

	stats, err := app.study.Stats(ctx, *folder, key, !*asc)
	if err != nil {
		return err
	}

	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	}
	return writeStatsTable(stdout, stats, key, !*asc)
}

// writeStatsTable prints the folder summary followed by one row per card.
func writeStatsTable(w io.Writer, stats service.FolderStats, key service.SortKey, desc bool) error {
	direction := "asc"
	if desc {
		direction = "desc"
	}
	if _, err := fmt.Fprintf(w, "Folder: %s\nTotal cards tracked: %d\nAccuracy: %.1f%%\nSorted by %s (%s)\n",
		stats.Folder, stats.Total, stats.Accuracy, key, direction); err != nil {
		return err
	}
	if len(stats.Rows) == 0 {
		_, err := fmt.Fprintln(w, "No progress recorded yet.")
		return err
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("CARD", "CORRECT", "WRONG", "ACCURACY", "WRONG ANSWERS")
	for _, row := range stats.Rows {
		t.Row(
			row.Key,
			strconv.Itoa(row.Correct),
			strconv.Itoa(row.Wrong),
			fmt.Sprintf("%.1f%%", row.Accuracy),
			row.Preview,
		)
	}
	_, err := fmt.Fprintln(w, t.String())
	return err
}

func runTopics(ctx context.Context, configPath string, args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("topics", stderr)
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	cfg, err := loadAppConfig(configPath)
	if err != nil {
		return err
	}
	app, err := newApplication(ctx, cfg, appOptions{autoMigrate: true, logOut: stderr})
	if err != nil {
		return err
	}
	defer app.cleanup()

	for _, folder := range app.study.Folders() {
		topics, err := app.study.Topics(folder)
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, folder)
		for _, topic := range topics {
			fmt.Fprintf(stdout, "  %s\n", topic)
		}
	}
	return nil
}

func runMigrate(ctx context.Context, configPath string, args []string, stderr io.Writer) error {
	fs := newFlagSet("migrate", stderr)
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	command := sqlstore.MigrateUp
	switch fs.NArg() {
	case 0:
	case 1:
		command = fs.Arg(0)
	default:
		fmt.Fprintln(stderr, "migrate: expected at most one command")
		return errUsage
	}

	cfg, err := loadAppConfig(configPath)
	if err != nil {
		return err
	}
	if cfg.Store.Backend == config.BackendJSON {
		return fmt.Errorf("migrations require a SQL store backend, configured backend is %q", cfg.Store.Backend)
	}

	app, err := newApplication(ctx, cfg, appOptions{logOut: stderr})
	if err != nil {
		return err
	}
	defer app.cleanup()

	return app.sqlStore.Migrate(ctx, command)
}
