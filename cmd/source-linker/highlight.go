// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/source-linker/internal/report"
)

var highlightCmd = &cobra.Command{
	Use:   "highlight",
	Short: "Show the source text behind one key point",
	Long: `Highlight links a document like the link command and prints the
references of a single key point with surrounding context. The first
reference is the one a reader is taken to; --full prints the whole
document with that range marked.`,
	Args: cobra.NoArgs,
	RunE: runHighlight,
}

func runHighlight(cmd *cobra.Command, args []string) error {
	id, _ := cmd.Flags().GetString("id")
	window, _ := cmd.Flags().GetInt("window")
	full, _ := cmd.Flags().GetBool("full")
	open, _ := cmd.Flags().GetString("open")
	closeMarker, _ := cmd.Flags().GetString("close")

	doc, kps, err := loadInputs(cmd)
	if err != nil {
		return err
	}

	found := false
	for _, kp := range kps.KeyPoints {
		if kp.ID == id {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("key point %q not found in %s", id, kps.DocumentID)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	c, err := newComputer(cmd, cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer c.Close()

	refs, err := c.Compute(doc.Text, kps.KeyPoints)
	if err != nil {
		return fmt.Errorf("linking %s: %w", doc.ID, err)
	}
	reportCacheStats(cmd, c)

	out := cmd.OutOrStdout()
	focus, ok := report.Focus(refs, id)
	if !ok {
		fmt.Fprintf(out, "No supporting text found for %s.\n", id)
		return nil
	}

	if full {
		text, err := report.Highlight(doc.Text, focus, open, closeMarker)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, text)
		return nil
	}

	list := refs[id]
	for i, ref := range list {
		excerpt, err := report.Excerpt(doc.Text, ref, window)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "[%d/%d] bytes %d-%d\n  %s\n", i+1, len(list), ref.StartPosition, ref.EndPosition, excerpt)
	}
	return nil
}

func init() {
	addInputFlags(highlightCmd)
	highlightCmd.Flags().String("id", "", "key point id to show")
	highlightCmd.Flags().Int("window", 60, "bytes of context around each reference")
	highlightCmd.Flags().Bool("full", false, "print the whole document with the first reference marked")
	highlightCmd.Flags().String("open", ">>>", "marker before the highlighted range")
	highlightCmd.Flags().String("close", "<<<", "marker after the highlighted range")
	_ = highlightCmd.MarkFlagRequired("id")

	rootCmd.AddCommand(highlightCmd)
}
