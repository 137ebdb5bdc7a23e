// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the source-linker CLI.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/source-linker/internal/batch"
	"github.com/pdiddy/source-linker/internal/cache"
	"github.com/pdiddy/source-linker/internal/linker"
	"github.com/pdiddy/source-linker/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the source-linker CLI.
var rootCmd = &cobra.Command{
	Use:   "source-linker",
	Short: "Link extracted key points back to their source text",
	Long: `source-linker maps the key points an extraction service produced for a
document back to the sentences and paragraphs of the original text that
support them. The resulting reference maps drive hover-to-highlight in
the reader.

Use link for a single document, batch for a manifest of documents, and
highlight to inspect the references of one key point in the terminal.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default: ./source-linker.yaml or ~/.config/source-linker/source-linker.yaml)")
	flags.BoolP("verbose", "v", false, "print progress and cache statistics to stderr")
	flags.Float64("threshold", types.DefaultThreshold, "minimum relevance score a span must exceed, in (0,1); 0 uses the default")
	flags.Int("max-references", types.DefaultMaxReferences, "maximum references kept per key point; 0 uses the default")
	flags.Bool("keep-stopwords", false, "score stopwords like any other word")
	flags.Bool("no-cache", false, "compute references without the reference cache")
	flags.String("cache-dir", "", "directory of the reference cache database")

	_ = viper.BindPFlag("linker.threshold", flags.Lookup("threshold"))
	_ = viper.BindPFlag("linker.max_references", flags.Lookup("max-references"))
	_ = viper.BindPFlag("linker.keep_stopwords", flags.Lookup("keep-stopwords"))
	_ = viper.BindPFlag("cache.dir", flags.Lookup("cache-dir"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("source-linker")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "source-linker"))
		}
	}

	def := types.DefaultConfig()
	viper.SetDefault("linker.threshold", def.Linker.Threshold)
	viper.SetDefault("linker.max_references", def.Linker.MaxReferences)
	viper.SetDefault("linker.keep_stopwords", def.Linker.KeepStopwords)
	viper.SetDefault("cache.enabled", def.Cache.Enabled)
	viper.SetDefault("cache.dir", def.Cache.Dir)
	viper.SetDefault("cache.ttl", def.Cache.TTL)
	viper.SetDefault("batch.workers", def.Batch.Workers)
	viper.SetDefault("batch.output_dir", def.Batch.OutputDir)
	viper.SetDefault("batch.format", def.Batch.Format)

	viper.SetEnvPrefix("SOURCE_LINKER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig returns the effective configuration. Flags win over
// SOURCE_LINKER_* variables, which win over the config file and defaults.
func loadConfig() (types.Config, error) {
	var cfg types.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("reading configuration: %w", err)
	}
	return cfg, nil
}

// cacheDir returns the configured cache directory, defaulting to
// source-linker under the user cache directory.
func cacheDir(cfg types.CacheConfig) (string, error) {
	if cfg.Dir != "" {
		return cfg.Dir, nil
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("locating cache directory: %w", err)
	}
	return filepath.Join(base, "source-linker"), nil
}

// verbosef writes a progress line to stderr when --verbose is set.
func verbosef(cmd *cobra.Command, format string, args ...any) {
	if v, _ := cmd.Flags().GetBool("verbose"); v {
		fmt.Fprintf(cmd.ErrOrStderr(), format+"\n", args...)
	}
}

// computer is a batch.Computer whose resources must be released.
type computer struct {
	batch.Computer
	memo        *linker.Memo
	fingerprint string
	close       func() error
}

// Fingerprint lets batch runs detect outputs built with other settings.
func (c *computer) Fingerprint() string {
	return c.fingerprint
}

// Stats reports cache hits and misses, or false when caching is off.
func (c *computer) Stats() (hits, misses int64, ok bool) {
	if c.memo == nil {
		return 0, 0, false
	}
	hits, misses = c.memo.Stats()
	return hits, misses, true
}

func (c *computer) Close() error {
	if c.close == nil {
		return nil
	}
	return c.close()
}

// newComputer builds the linker for cfg, wrapped in the layered reference
// cache unless caching is disabled. An unusable disk cache falls back to
// memory only with a warning on w.
func newComputer(cmd *cobra.Command, cfg types.Config, w io.Writer) (*computer, error) {
	warnZeroSettings(cfg.Linker, w)
	l, err := linker.New(cfg.Linker)
	if err != nil {
		return nil, fmt.Errorf("configuring linker: %w", err)
	}
	fp := l.Fingerprint()

	noCache, _ := cmd.Flags().GetBool("no-cache")
	if noCache || !cfg.Cache.Enabled {
		return &computer{Computer: l, fingerprint: fp}, nil
	}

	memory := cache.NewMemoryCache(cfg.Cache.TTL, 10*time.Minute)
	dir, err := cacheDir(cfg.Cache)
	var disk *cache.SQLiteCache
	if err == nil {
		disk, err = cache.NewSQLiteCache(dir, cfg.Cache.TTL)
	}
	if err != nil {
		fmt.Fprintf(w, "warning: disk cache unavailable, using memory only: %v\n", err)
		memo := linker.NewMemo(l, memory, cfg.Cache.TTL)
		return &computer{Computer: memo, memo: memo, fingerprint: fp}, nil
	}

	layered := cache.NewLayeredCache(memory, disk)
	memo := linker.NewMemo(l, layered, cfg.Cache.TTL)
	return &computer{Computer: memo, memo: memo, fingerprint: fp, close: layered.Close}, nil
}

// warnZeroSettings notes on w when a zero linker setting is replaced by
// its default, since an explicit 0 is otherwise silently ignored.
func warnZeroSettings(cfg types.LinkerConfig, w io.Writer) {
	if cfg.Threshold == 0 {
		fmt.Fprintf(w, "note: linker.threshold 0 uses the default %v\n", types.DefaultThreshold)
	}
	if cfg.MaxReferences == 0 {
		fmt.Fprintf(w, "note: linker.max_references 0 uses the default %d\n", types.DefaultMaxReferences)
	}
}

// reportCacheStats prints memo statistics in verbose mode.
func reportCacheStats(cmd *cobra.Command, c *computer) {
	if hits, misses, ok := c.Stats(); ok {
		verbosef(cmd, "cache: %d hit(s), %d miss(es)", hits, misses)
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
