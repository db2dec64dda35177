// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/petar-djukic/memscan/internal/discover"
	"github.com/petar-djukic/memscan/internal/report"
	"github.com/petar-djukic/memscan/pkg/memscan"
	"github.com/petar-djukic/memscan/pkg/types"
)

const (
	defaultInterval = 30 * time.Second
	defaultDebounce = 300 * time.Millisecond
)

// newWatchCmd creates the "watch" command.
func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [root]",
		Short: "Rescan whenever source files change",
		Long:  "Watch rescans the project on file changes and on a fixed interval. A rescan started while another is running supersedes it.",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runWatch,
	}
	cmd.Flags().Duration("interval", defaultInterval, "Periodic rescan interval (0 disables)")
	cmd.Flags().Duration("debounce", defaultDebounce, "Quiet period after a change before rescanning")
	cmd.Flags().StringSlice("kind", nil, "Only report these declaration kinds")
	_ = viper.BindPFlag("interval", cmd.Flags().Lookup("interval"))
	_ = viper.BindPFlag("debounce", cmd.Flags().Lookup("debounce"))
	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	log := newLogger(cmd.ErrOrStderr(), viper.GetBool("verbose"))
	root := resolveRoot(args)
	kinds, _ := cmd.Flags().GetStringSlice("kind")

	s, err := memscan.New(scannerConfig(log))
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}
	opts, err := renderOptions(projectTitle(root, log), kinds)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	w := &watcher{
		root:     root,
		session:  memscan.NewSession(s),
		discover: s.DiscoverOptions(),
		exts:     viper.GetStringSlice("extensions"),
		interval: viper.GetDuration("interval"),
		debounce: viper.GetDuration("debounce"),
		log:      log,
		render: func(r *types.ScanResult) error {
			return renderUpdate(cmd.OutOrStdout(), r, opts)
		},
	}
	return w.run(ctx)
}

// renderUpdate prints one timestamped report.
func renderUpdate(out io.Writer, r *types.ScanResult, opts report.Options) error {
	fmt.Fprintf(out, "\n[%s]\n", time.Now().Format(time.TimeOnly))
	return report.Render(out, r, opts)
}

// watcher turns file system events and ticks into session rescans.
type watcher struct {
	root     string
	session  *memscan.Session
	discover discover.Options
	exts     []string
	interval time.Duration
	debounce time.Duration
	log      *slog.Logger
	render   func(*types.ScanResult) error
}

func (w *watcher) run(ctx context.Context) error {
	defer w.session.Close()

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}
	defer fsw.Close()

	dirs, err := discover.Dirs(ctx, w.root, w.discover)
	if err != nil {
		return fmt.Errorf("%w: %v", memscan.ErrScanUnavailable, err)
	}
	for _, d := range dirs {
		if err := fsw.Add(d); err != nil {
			w.log.Warn("cannot watch directory", "dir", d, "error", err)
		}
	}
	w.log.Debug("watching", "root", w.root, "dirs", len(dirs))

	var tick <-chan time.Time
	if w.interval > 0 {
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	results := make(chan *types.ScanResult)
	rescan := func(reason string) {
		w.log.Debug("rescan", "reason", reason)
		go func() {
			r, err := w.session.Rescan(ctx, w.root)
			switch {
			case errors.Is(err, memscan.ErrSuperseded), ctx.Err() != nil:
				return
			case err != nil:
				w.log.Warn("rescan failed", "error", err)
				return
			}
			select {
			case results <- r:
			case <-ctx.Done():
			}
		}()
	}

	rescan("start")
	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			w.track(fsw, ev)
			if w.relevant(ev) {
				pending = time.After(w.debounce)
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("file watcher error", "error", err)
		case <-pending:
			pending = nil
			rescan("change")
		case <-tick:
			rescan("interval")
		case r := <-results:
			if err := w.render(r); err != nil {
				return err
			}
		}
	}
}

// track starts watching directories created after startup.
func (w *watcher) track(fsw *fsnotify.Watcher, ev fsnotify.Event) {
	if !ev.Has(fsnotify.Create) {
		return
	}
	info, err := os.Stat(ev.Name)
	if err != nil || !info.IsDir() || w.discover.Excluded(filepath.Base(ev.Name)) {
		return
	}
	if err := fsw.Add(ev.Name); err != nil {
		w.log.Warn("cannot watch directory", "dir", ev.Name, "error", err)
	}
}

// relevant reports whether ev can change a scan result: any change to a
// source file, or a removal or rename that may take a directory with it.
func (w *watcher) relevant(ev fsnotify.Event) bool {
	if ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
		return true
	}
	if ev.Has(fsnotify.Chmod) && !ev.Has(fsnotify.Write) {
		return false
	}
	exts := w.exts
	if len(exts) == 0 {
		exts = discover.DefaultExtensions
	}
	for _, ext := range exts {
		if strings.HasSuffix(ev.Name, ext) {
			return true
		}
	}
	return false
}
