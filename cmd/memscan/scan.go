// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/petar-djukic/memscan/internal/report"
	"github.com/petar-djukic/memscan/pkg/memscan"
)

// newScanCmd creates the "scan" command.
func newScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [root]",
		Short: "Scan a project and report declaration sizes",
		Long:  "Scan discovers Rust source files under the root, sizes every declaration and prints the largest ones or a per-type summary.",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScan,
	}
	cmd.Flags().StringSlice("kind", nil, "Only report these declaration kinds (e.g. binding,struct)")
	cmd.Flags().String("file", "", "Only report declarations in this root-relative file")
	return cmd
}

// runScan executes a single scan and renders it.
func runScan(cmd *cobra.Command, args []string) error {
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
	opts.File, _ = cmd.Flags().GetString("file")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	result, err := s.Scan(ctx, root)
	if err != nil {
		return err
	}
	for _, sk := range result.Skipped {
		log.Warn("skipped unreadable file", "file", sk.File, "reason", sk.Reason)
	}
	logRuntimeMemory(log)

	return report.Render(cmd.OutOrStdout(), result, opts)
}

// logRuntimeMemory reports the scanner's own memory use. It is
// informational and never part of a result.
func logRuntimeMemory(log *slog.Logger) {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	log.Debug("scanner memory", "sys_bytes", ms.Sys, "heap_alloc_bytes", ms.HeapAlloc)
}
