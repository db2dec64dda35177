// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/petar-djukic/memscan/internal/report"
	"github.com/petar-djukic/memscan/internal/snapshot"
	"github.com/petar-djukic/memscan/pkg/memscan"
	"github.com/petar-djukic/memscan/pkg/types"
)

const defaultSnapshotPath = ".memscan/snapshot.msgpack"

// newSnapshotCmd creates the "snapshot" command.
func newSnapshotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot [root]",
		Short: "Scan a project and save the result for later comparison",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSnapshot,
	}
	cmd.Flags().StringP("output", "o", defaultSnapshotPath, "Snapshot file to write")
	return cmd
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	log := newLogger(cmd.ErrOrStderr(), viper.GetBool("verbose"))
	root := resolveRoot(args)
	out, _ := cmd.Flags().GetString("output")

	result, err := scanOnce(root, log)
	if err != nil {
		return err
	}
	snap := snapshot.New(result, snapshot.Meta{
		Project:  projectTitle(root, log),
		Root:     root,
		Revision: revision(root),
	})
	if err := snapshot.Save(out, snap); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "saved %d declarations (%s) to %s\n",
		len(result.Declarations), report.HumanSize(result.TotalSize), out)
	return nil
}

// newDiffCmd creates the "diff" command.
func newDiffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diff <before> [after]",
		Short: "Compare a snapshot with another snapshot or a fresh scan",
		Long:  "Diff reports per (kind, type) group changes between two snapshots. Without a second snapshot the configured root is scanned.",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  runDiff,
	}
}

func runDiff(cmd *cobra.Command, args []string) error {
	log := newLogger(cmd.ErrOrStderr(), viper.GetBool("verbose"))

	before, err := loadResult(args[0])
	if err != nil {
		return err
	}
	var after *types.ScanResult
	if len(args) == 2 {
		after, err = loadResult(args[1])
	} else {
		after, err = scanOnce(viper.GetString("root"), log)
	}
	if err != nil {
		return err
	}

	opts, err := renderOptions("", nil)
	if err != nil {
		return err
	}
	return report.RenderDelta(cmd.OutOrStdout(), snapshot.Diff(before, after), opts)
}

func loadResult(path string) (*types.ScanResult, error) {
	snap, err := snapshot.Load(path)
	if err != nil {
		return nil, err
	}
	return snap.Result()
}

func scanOnce(root string, log *slog.Logger) (*types.ScanResult, error) {
	s, err := memscan.New(scannerConfig(log))
	if err != nil {
		return nil, fmt.Errorf("initialization failed: %w", err)
	}
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	result, err := s.Scan(ctx, root)
	if err != nil {
		return nil, err
	}
	return result, nil
}
