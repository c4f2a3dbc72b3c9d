// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package config builds the run configuration from a base file, an optional
// override file and SCHOLAR_SYNC_* environment variables, in increasing
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/pdiddy/scholar-sync/pkg/types"
)

// Default file names, relative to the working directory.
const (
	DefaultBaseFile     = "config.json"
	DefaultOverrideFile = "config_override.json"
)

// EnvPrefix prefixes environment overrides, e.g. SCHOLAR_SYNC_YEAR_START.
const EnvPrefix = "SCHOLAR_SYNC"

var (
	// ErrNoAuthors is returned when no author is configured.
	ErrNoAuthors = errors.New("no authors configured")
	// ErrInvalid wraps every other validation failure.
	ErrInvalid = errors.New("invalid configuration")
)

// Options locate the configuration sources.
type Options struct {
	// BaseFile is required. Empty means DefaultBaseFile.
	BaseFile string

	// OverrideFile is merged over the base file when it exists. Empty means
	// DefaultOverrideFile.
	OverrideFile string

	// Now supplies the current time for the year_end default. Nil means
	// time.Now.
	Now func() time.Time
}

// Load reads, merges and validates the configuration. A missing or
// malformed base file is an error; a missing override file is not.
func Load(opts Options) (types.SyncConfig, error) {
	if opts.BaseFile == "" {
		opts.BaseFile = DefaultBaseFile
	}
	if opts.OverrideFile == "" {
		opts.OverrideFile = DefaultOverrideFile
	}
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}

	v := viper.New()
	setDefaults(v, now())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigFile(opts.BaseFile)
	if err := v.ReadInConfig(); err != nil {
		return types.SyncConfig{}, fmt.Errorf("reading config %s: %w", opts.BaseFile, err)
	}

	if _, err := os.Stat(opts.OverrideFile); err == nil {
		v.SetConfigFile(opts.OverrideFile)
		if err := v.MergeInConfig(); err != nil {
			return types.SyncConfig{}, fmt.Errorf("merging override %s: %w", opts.OverrideFile, err)
		}
	}

	var cfg types.SyncConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return types.SyncConfig{}, fmt.Errorf("decoding config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return types.SyncConfig{}, err
	}
	return cfg, nil
}

// setDefaults registers every key so environment overrides apply to it.
func setDefaults(v *viper.Viper, now time.Time) {
	v.SetDefault("year_start", 2020)
	v.SetDefault("year_end", now.Year())
	v.SetDefault("authors", []types.Author{})
	v.SetDefault("incremental_limit", 20)
	v.SetDefault("max_papers", 200)
	v.SetDefault("incremental_mode", true)
	v.SetDefault("truncation_check", true)
	v.SetDefault("use_arxiv", true)
	v.SetDefault("use_openalex", false)

	v.SetDefault("http.timeout", "60s")
	v.SetDefault("http.abstract_timeout", "10s")
	v.SetDefault("http.user_agent", "scholar-sync/0.1")

	v.SetDefault("store.backend", string(types.StoreJSON))
	v.SetDefault("store.dir", "data/json")
	v.SetDefault("store.sqlite_path", "data/scholar-sync.db")

	v.SetDefault("output.author_dir", "data/authors")
	v.SetDefault("output.all_file", "data/all_papers.md")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// Validate checks the fields a run cannot proceed without.
func Validate(cfg types.SyncConfig) error {
	if len(cfg.Authors) == 0 {
		return ErrNoAuthors
	}
	for i, a := range cfg.Authors {
		if strings.TrimSpace(a.ID) == "" {
			return fmt.Errorf("%w: authors[%d] (%q) has no id", ErrInvalid, i, a.Name)
		}
	}
	if cfg.YearStart <= 0 {
		return fmt.Errorf("%w: year_start must be positive, got %d", ErrInvalid, cfg.YearStart)
	}
	if cfg.YearEnd < cfg.YearStart {
		return fmt.Errorf("%w: year_end %d is before year_start %d", ErrInvalid, cfg.YearEnd, cfg.YearStart)
	}
	if cfg.IncrementalLimit <= 0 {
		return fmt.Errorf("%w: incremental_limit must be positive, got %d", ErrInvalid, cfg.IncrementalLimit)
	}
	if cfg.MaxPapers <= 0 {
		return fmt.Errorf("%w: max_papers must be positive, got %d", ErrInvalid, cfg.MaxPapers)
	}
	switch cfg.Store.Backend {
	case types.StoreJSON, types.StoreSQLite:
	default:
		return fmt.Errorf("%w: unknown store backend %q", ErrInvalid, cfg.Store.Backend)
	}
	switch strings.ToLower(cfg.Logging.Format) {
	case "console", "json":
	default:
		return fmt.Errorf("%w: unknown logging format %q", ErrInvalid, cfg.Logging.Format)
	}
	return nil
}
