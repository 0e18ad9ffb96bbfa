package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/voeis/seqplot/internal/config"
	"github.com/voeis/seqplot/internal/plot"
	"github.com/voeis/seqplot/internal/tui/theme"
	"github.com/voeis/seqplot/internal/tui/viewer"
	"github.com/voeis/seqplot/internal/watcher"
)

func newViewCmd() *cobra.Command {
	var (
		watch  bool
		preset string
		fixed  bool
	)
	cmd := &cobra.Command{
		Use:   "view [SEQ...]",
		Short: "Browse and plot sequences interactively",
		Long: `Open the interactive viewer. The left column lists the sequences of the
database (or its numbers with --fixed); selecting one plots it in every
panel. SEQ arguments are selected on start.

With --watch the database files are reloaded when they change, and
.seqplot.yaml presets are always reloaded.

Keys: enter/x select, tab next panel, o next option, +/- base,
h/l/J/K move the grid cursor, p next preset, v switch view, ? help.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isTerminal(cmd.OutOrStdout()) {
				return fmt.Errorf("view needs a terminal")
			}
			return runView(cmd, args, preset, fixed, watch)
		},
	}
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "reload the database files when they change")
	cmd.Flags().StringVarP(&preset, "preset", "p", "", "apply a preset on start")
	cmd.Flags().BoolVar(&fixed, "fixed", false, "start with the numbers view")
	return cmd
}

// newViewer builds the viewer model for the current config.
func newViewer(args []string, preset string, fixed bool, logger *slog.Logger) (*viewer.Model, error) {
	c, err := loadCatalog()
	if err != nil {
		return nil, err
	}
	presets, err := loadPresets()
	if err != nil {
		return nil, err
	}
	view := plot.ViewLocal
	if fixed {
		view = plot.ViewFixed
	}
	recs, err := resolveRecords(c, view, args)
	if err != nil {
		return nil, err
	}

	m := viewer.New(c,
		viewer.WithTheme(theme.Current()),
		viewer.WithView(view),
		viewer.WithGridOptions(cfg.Grid.Options(0)),
		viewer.WithDefaultExtent(cfg.Plot.DefaultRange()),
		viewer.WithCapacity(cfg.Plot.MaxSelections),
		viewer.WithPresets(presets),
		viewer.WithLogger(logger),
	)
	if err := m.Group().SetBase(cfg.Grid.Base); err != nil {
		return nil, err
	}
	if preset != "" {
		if err := m.ApplyPreset(preset); err != nil {
			return nil, err
		}
	}
	for _, rec := range recs {
		if err := m.Select(rec); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func runView(cmd *cobra.Command, args []string, preset string, fixed, watch bool) error {
	// The viewer owns the terminal, so logs only go out with --verbose.
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if verbose {
		logger = slog.Default()
	}
	m, err := newViewer(args, preset, fixed, logger)
	if err != nil {
		return err
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	// Reloads reach the program in the order they happened. The first
	// preset load fires before Run, so sends must not block the caller.
	reloads := newOrderedSender(p.Send)
	defer func() {
		// Kill unblocks a Send still pending when Run never started.
		p.Kill()
		reloads.Close()
	}()

	if watch {
		stop, err := watchData(logger, func(msg viewer.CatalogMsg) { reloads.Send(msg) })
		if err != nil {
			return err
		}
		defer stop()
	}

	wd, err := os.Getwd()
	if err != nil {
		return err
	}
	stopPresets, err := config.WatchPresets(wd, logger, func(presets []config.Preset) {
		reloads.Send(viewer.PresetsMsg{Presets: presets})
	})
	if err != nil {
		return err
	}
	defer stopPresets()

	_, err = p.Run()
	return err
}

// orderedSender forwards messages to send from a single goroutine, so they
// arrive in call order. One message is buffered so the first Send returns
// before the receiver is ready.
type orderedSender struct {
	msgs chan tea.Msg
	done chan struct{}
}

func newOrderedSender(send func(tea.Msg)) *orderedSender {
	s := &orderedSender{msgs: make(chan tea.Msg, 1), done: make(chan struct{})}
	go func() {
		defer close(s.done)
		for msg := range s.msgs {
			send(msg)
		}
	}()
	return s
}

func (s *orderedSender) Send(msg tea.Msg) { s.msgs <- msg }

// Close waits for queued messages to be forwarded. No Send may follow.
func (s *orderedSender) Close() {
	close(s.msgs)
	<-s.done
}

// watchData reloads the database whenever one of its files changes. The
// parent directories are watched so editors that replace files on save are
// seen too.
func watchData(logger *slog.Logger, send func(viewer.CatalogMsg)) (func(), error) {
	files := make(map[string]bool)
	for _, path := range []string{cfg.Data.SequencesPath, cfg.Data.NumbersPath} {
		if path == "" {
			continue
		}
		abs, err := filepath.Abs(config.ExpandHome(path))
		if err != nil {
			return nil, err
		}
		files[abs] = true
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("--watch needs a sequences or numbers file")
	}

	w, err := watcher.New(func(events []watcher.Event) {
		for _, ev := range events {
			if files[ev.Path] {
				c, err := loadCatalog()
				logger.Debug("database changed", "path", ev.Path, "op", ev.Op.String())
				send(viewer.CatalogMsg{Catalog: c, Err: err})
				return
			}
		}
	}, watcher.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	dirs := make(map[string]bool)
	for f := range files {
		dir := filepath.Dir(f)
		if dirs[dir] {
			continue
		}
		dirs[dir] = true
		if err := w.Add(dir); err != nil {
			w.Close()
			return nil, fmt.Errorf("watching %s: %w", dir, err)
		}
	}
	return func() { w.Close() }, nil
}
