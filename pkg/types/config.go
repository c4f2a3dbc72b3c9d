package types

import "time"

// HTTPConfig holds shared HTTP settings used by the remote providers.
type HTTPConfig struct {
	// Timeout bounds every request to the profile source.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// AbstractTimeout bounds a single full-abstract lookup (default 10s).
	AbstractTimeout time.Duration `json:"abstract_timeout" yaml:"abstract_timeout" mapstructure:"abstract_timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "scholar-sync/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// StoreBackend selects where per-author records are persisted.
type StoreBackend string

const (
	StoreJSON   StoreBackend = "json"
	StoreSQLite StoreBackend = "sqlite"
)

// StoreConfig holds settings for the record store.
type StoreConfig struct {
	// Backend selects the store implementation: json or sqlite.
	Backend StoreBackend `json:"backend" yaml:"backend" mapstructure:"backend"`

	// Dir is the directory holding one JSON file per author.
	Dir string `json:"dir" yaml:"dir" mapstructure:"dir"`

	// SQLitePath is the database file used by the sqlite backend.
	SQLitePath string `json:"sqlite_path" yaml:"sqlite_path" mapstructure:"sqlite_path"`
}

// OutputConfig holds the locations of rendered Markdown.
type OutputConfig struct {
	// AuthorDir receives one Markdown document per author.
	AuthorDir string `json:"author_dir" yaml:"author_dir" mapstructure:"author_dir"`

	// AllFile is the combined document covering every author.
	AllFile string `json:"all_file" yaml:"all_file" mapstructure:"all_file"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	// Level is the minimum log level (debug, info, warn, error).
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// Format is console (human readable) or json.
	Format string `json:"format" yaml:"format" mapstructure:"format"`
}

// SyncConfig is the immutable configuration of one sync run. It is built once
// at startup and passed by value to the engine, store and renderer.
type SyncConfig struct {
	// YearStart and YearEnd bound the accepted publication years, inclusive.
	YearStart int `json:"year_start" yaml:"year_start" mapstructure:"year_start"`
	YearEnd   int `json:"year_end" yaml:"year_end" mapstructure:"year_end"`

	// Authors lists the tracked profiles in processing order.
	Authors []Author `json:"authors" yaml:"authors" mapstructure:"authors"`

	// IncrementalLimit is the number of most recent listing entries rescanned
	// once an author has stored state (default 20).
	IncrementalLimit int `json:"incremental_limit" yaml:"incremental_limit" mapstructure:"incremental_limit"`

	// MaxPapers caps the listing window on every run (default 200).
	MaxPapers int `json:"max_papers" yaml:"max_papers" mapstructure:"max_papers"`

	// IncrementalMode enables the bounded rescan for authors with stored state.
	IncrementalMode bool `json:"incremental_mode" yaml:"incremental_mode" mapstructure:"incremental_mode"`

	// TruncationCheck enables detection of shortened abstracts.
	TruncationCheck bool `json:"truncation_check" yaml:"truncation_check" mapstructure:"truncation_check"`

	// UseArxiv enables full-abstract lookups against the arXiv API.
	UseArxiv bool `json:"use_arxiv" yaml:"use_arxiv" mapstructure:"use_arxiv"`

	// UseOpenAlex enables full-abstract lookups against OpenAlex for links
	// carrying a DOI.
	UseOpenAlex bool `json:"use_openalex" yaml:"use_openalex" mapstructure:"use_openalex"`

	HTTP    HTTPConfig    `json:"http" yaml:"http" mapstructure:"http"`
	Store   StoreConfig   `json:"store" yaml:"store" mapstructure:"store"`
	Output  OutputConfig  `json:"output" yaml:"output" mapstructure:"output"`
	Logging LoggingConfig `json:"logging" yaml:"logging" mapstructure:"logging"`
}

// InRange reports whether year lies within [YearStart, YearEnd].
func (c SyncConfig) InRange(year int) bool {
	return year >= c.YearStart && year <= c.YearEnd
}

// Window returns how many listing entries to scan for an author. Authors
// with stored state get the incremental window when incremental mode is on.
func (c SyncConfig) Window(hasState bool) int {
	n := c.MaxPapers
	if hasState && c.IncrementalMode && c.IncrementalLimit < n {
		n = c.IncrementalLimit
	}
	return n
}
