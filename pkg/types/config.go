package types

import "time"

// Default linker settings.
const (
	// DefaultThreshold is the minimum overlap score a span must exceed to be
	// kept as a reference.
	DefaultThreshold = 0.3

	// DefaultMaxReferences caps the references kept per key point.
	DefaultMaxReferences = 3
)

// LinkerConfig holds the tunable settings of the citation linker.
type LinkerConfig struct {
	// Threshold is the minimum relevance score, exclusive. Zero uses
	// DefaultThreshold.
	Threshold float64 `json:"threshold" yaml:"threshold" mapstructure:"threshold"`

	// MaxReferences caps the references kept per key point. Zero uses
	// DefaultMaxReferences.
	MaxReferences int `json:"max_references" yaml:"max_references" mapstructure:"max_references"`

	// KeepStopwords disables stopword removal during tokenization.
	KeepStopwords bool `json:"keep_stopwords" yaml:"keep_stopwords" mapstructure:"keep_stopwords"`
}

// WithDefaults returns a copy of c with zero values replaced by defaults.
func (c LinkerConfig) WithDefaults() LinkerConfig {
	if c.Threshold == 0 {
		c.Threshold = DefaultThreshold
	}
	if c.MaxReferences == 0 {
		c.MaxReferences = DefaultMaxReferences
	}
	return c
}

// CacheConfig holds settings for memoising computed reference maps.
type CacheConfig struct {
	// Enabled turns the reference cache on.
	Enabled bool `json:"enabled" yaml:"enabled" mapstructure:"enabled"`

	// Dir is the directory holding the SQLite cache database. Empty keeps
	// the cache in memory only.
	Dir string `json:"dir" yaml:"dir" mapstructure:"dir"`

	// TTL is how long a cached map stays valid (default 24h).
	TTL time.Duration `json:"ttl" yaml:"ttl" mapstructure:"ttl"`
}

// BatchConfig holds settings for linking many documents at once.
type BatchConfig struct {
	// Workers bounds the number of documents linked concurrently.
	Workers int `json:"workers" yaml:"workers" mapstructure:"workers"`

	// OutputDir receives one reference file per document.
	OutputDir string `json:"output_dir" yaml:"output_dir" mapstructure:"output_dir"`

	// Format is the output format: json or yaml.
	Format string `json:"format" yaml:"format" mapstructure:"format"`
}

// Config groups all settings read from the config file and environment.
type Config struct {
	Linker LinkerConfig `json:"linker" yaml:"linker" mapstructure:"linker"`
	Cache  CacheConfig  `json:"cache" yaml:"cache" mapstructure:"cache"`
	Batch  BatchConfig  `json:"batch" yaml:"batch" mapstructure:"batch"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{
		Linker: LinkerConfig{
			Threshold:     DefaultThreshold,
			MaxReferences: DefaultMaxReferences,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     24 * time.Hour,
		},
		Batch: BatchConfig{
			Workers:   4,
			OutputDir: "references",
			Format:    "json",
		},
	}
}
