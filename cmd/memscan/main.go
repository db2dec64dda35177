// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Command memscan estimates the static memory footprint of a Rust project.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/petar-djukic/memscan/pkg/memscan"
)

const version = "0.1.0"

// exitUnavailable is the exit status when the root cannot be scanned.
const exitUnavailable = 2

func main() {
	// .env is optional.
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:           "memscan",
		Short:         "Static memory footprint estimator for Rust sources",
		Long:          "memscan scans Rust source files for declarations and estimates their stack and heap footprint without compiling the project.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags.
	rootCmd.PersistentFlags().String("root", ".", "Project root directory")
	rootCmd.PersistentFlags().Int("concurrency", 0, "Parallel file scans (0 = GOMAXPROCS)")
	rootCmd.PersistentFlags().StringSlice("exclude", nil, "Additional directory names to skip")
	rootCmd.PersistentFlags().StringSlice("extensions", []string{".rs"}, "Source file extensions")
	rootCmd.PersistentFlags().Bool("gitignore", false, "Honor .gitignore files")
	rootCmd.PersistentFlags().Bool("changed", false, "Scan only files changed in the git worktree")
	rootCmd.PersistentFlags().Int("cache-size", 1024, "Files kept in the parse cache")
	rootCmd.PersistentFlags().String("format", "table", "Output format: table, groups, files or json")
	rootCmd.PersistentFlags().Int("top", 25, "Maximum rows to print (0 = all)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log diagnostics to stderr")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")

	// Bind flags to viper.
	for _, name := range []string{
		"root", "concurrency", "exclude", "extensions", "gitignore", "changed",
		"cache-size", "format", "top", "verbose", "no-color",
	} {
		_ = viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name))
	}

	// Env vars: MEMSCAN_ROOT, MEMSCAN_FORMAT, etc.
	viper.SetEnvPrefix("MEMSCAN")
	viper.AutomaticEnv()

	// Config file.
	viper.SetConfigName(".memscan")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	_ = viper.ReadInConfig() // Ignore error; config file is optional.

	// Add commands.
	rootCmd.AddCommand(newScanCmd())
	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newSnapshotCmd())
	rootCmd.AddCommand(newDiffCmd())
	rootCmd.AddCommand(newVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "memscan: %v\n", err)
		if errors.Is(err, memscan.ErrScanUnavailable) {
			os.Exit(exitUnavailable)
		}
		os.Exit(1)
	}
}

// newVersionCmd creates the "version" command.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print memscan version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "memscan %s\n", version)
		},
	}
}
