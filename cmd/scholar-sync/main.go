// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the scholar-sync CLI.
package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/pdiddy/scholar-sync/internal/config"
	"github.com/pdiddy/scholar-sync/internal/logging"
	"github.com/pdiddy/scholar-sync/internal/secrets"
	"github.com/pdiddy/scholar-sync/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the scholar-sync CLI.
var rootCmd = &cobra.Command{
	Use:   "scholar-sync",
	Short: "Keep per-author Google Scholar publication lists up to date",
	Long: `scholar-sync harvests the publication lists of tracked Google Scholar
profiles, merges newly listed papers into a stored per-author collection and
renders each collection as a Markdown table.

The first run for an author scans the full listing. Later runs rescan only
the newest entries and skip titles already stored.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().String("config", config.DefaultBaseFile, "base config file")
	rootCmd.PersistentFlags().String("override", config.DefaultOverrideFile, "override config file, merged over the base file when present")
	rootCmd.PersistentFlags().String("secrets-dir", ".secrets/", "directory of secret key files")
}

// runtime is the state shared by commands that touch configuration.
type runtime struct {
	Config  types.SyncConfig
	Secrets secrets.Secrets
	Log     zerolog.Logger
}

// loadRuntime reads secrets and configuration and builds the logger.
func loadRuntime(cmd *cobra.Command) (*runtime, error) {
	base, _ := cmd.Flags().GetString("config")
	override, _ := cmd.Flags().GetString("override")
	secretsDir, _ := cmd.Flags().GetString("secrets-dir")

	cfg, err := config.Load(config.Options{BaseFile: base, OverrideFile: override})
	if err != nil {
		return nil, err
	}
	log := logging.New(cfg.Logging, os.Stderr)

	s, err := secrets.Load(secretsDir, log)
	if err != nil {
		return nil, err
	}
	if len(s) > 0 {
		keys := s.Keys()
		sort.Strings(keys)
		log.Debug().Strs("keys", keys).Msg("loaded secrets")
	}

	log.Debug().
		Int("year_start", cfg.YearStart).
		Int("year_end", cfg.YearEnd).
		Int("authors", len(cfg.Authors)).
		Str("store", string(cfg.Store.Backend)).
		Msg("configuration loaded")

	return &runtime{Config: cfg, Secrets: s, Log: log}, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
