// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/source-linker/internal/batch"
	"github.com/pdiddy/source-linker/internal/report"
)

var batchCmd = &cobra.Command{
	Use:   "batch MANIFEST",
	Short: "Compute source references for every document in a manifest",
	Long: `Batch reads a YAML manifest listing documents and their key-point
files, links them in parallel, and writes one <id>-references file per
document to the output directory. Documents whose output is newer than
their inputs are skipped unless --force is given. A failing document is
reported and does not stop the others.

Manifest format:

  documents:
    - text: notes/cells.md
      key_points: extracted/cells.yaml
    - id: lecture-3
      text: pages/lecture.html
      key_points: extracted/lecture.json`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	format, err := report.ParseFormat(cfg.Batch.Format)
	if err != nil {
		return err
	}

	m, err := batch.LoadManifest(args[0])
	if err != nil {
		return err
	}

	c, err := newComputer(cmd, cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer c.Close()

	assign, _ := cmd.Flags().GetBool("assign-ids")
	force, _ := cmd.Flags().GetBool("force")
	opts := batch.Options{
		OutputDir: cfg.Batch.OutputDir,
		Format:    format,
		Workers:   cfg.Batch.Workers,
		AssignIDs: assign,
		Force:     force,
	}
	verbosef(cmd, "linking %d document(s) with %d worker(s) into %s", len(m.Documents), opts.Workers, opts.OutputDir)

	summary, err := batch.Run(cmd.Context(), c, m, opts, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	reportCacheStats(cmd, c)

	fmt.Fprintf(cmd.OutOrStdout(), "%d linked, %d skipped, %d failed\n", summary.Linked, summary.Skipped, summary.Failed)
	if summary.HasFailures() {
		return fmt.Errorf("%d document(s) failed linking", summary.Failed)
	}
	return nil
}

func init() {
	flags := batchCmd.Flags()
	flags.String("output-dir", "references", "directory for reference files")
	flags.Int("workers", 4, "documents linked in parallel")
	flags.String("format", "json", "output format: json, yaml, or markdown")
	flags.Bool("assign-ids", false, "give key points without an id a stable one")
	flags.Bool("force", false, "relink documents even when their output is up to date")

	_ = viper.BindPFlag("batch.output_dir", flags.Lookup("output-dir"))
	_ = viper.BindPFlag("batch.workers", flags.Lookup("workers"))
	_ = viper.BindPFlag("batch.format", flags.Lookup("format"))

	rootCmd.AddCommand(batchCmd)
}
