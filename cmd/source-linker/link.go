// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/source-linker/internal/document"
	"github.com/pdiddy/source-linker/internal/keypoints"
	"github.com/pdiddy/source-linker/internal/report"
	"github.com/pdiddy/source-linker/pkg/types"
)

var linkCmd = &cobra.Command{
	Use:   "link",
	Short: "Compute source references for one document",
	Long: `Link reads a document and the key points extracted from it, and
computes for each key point the sentences or paragraphs of the document
that support it. The reference map is written as JSON, YAML or Markdown
to stdout or to --out.`,
	Args: cobra.NoArgs,
	RunE: runLink,
}

func runLink(cmd *cobra.Command, args []string) error {
	formatName, _ := cmd.Flags().GetString("format")
	format, err := report.ParseFormat(formatName)
	if err != nil {
		return err
	}

	doc, kps, err := loadInputs(cmd)
	if err != nil {
		return err
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

	result := &types.LinkResult{
		DocumentID: kps.DocumentID,
		KeyPoints:  kps.KeyPoints,
		References: refs,
	}

	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		return report.Write(cmd.OutOrStdout(), result, format)
	}
	if err := report.WriteFile(out, result, format); err != nil {
		return err
	}
	verbosef(cmd, "wrote %s", out)
	return nil
}

// loadInputs reads --document and --key-points, applying --assign-ids.
// A batch without a document ID takes the document's.
func loadInputs(cmd *cobra.Command) (*types.Document, *types.KeyPointBatch, error) {
	docPath, _ := cmd.Flags().GetString("document")
	kpPath, _ := cmd.Flags().GetString("key-points")

	doc, err := document.Load(docPath)
	if err != nil {
		return nil, nil, err
	}
	kps, err := keypoints.Load(kpPath)
	if err != nil {
		return nil, nil, err
	}
	if kps.DocumentID == "" {
		kps.DocumentID = doc.ID
	}
	verbosef(cmd, "loaded %s (%s, %d bytes) with %d key points", doc.ID, doc.Format, len(doc.Text), len(kps.KeyPoints))

	if assign, _ := cmd.Flags().GetBool("assign-ids"); assign {
		if n := keypoints.AssignIDs(kps); n > 0 {
			verbosef(cmd, "assigned %d key point id(s)", n)
		}
	}
	return doc, kps, nil
}

func addInputFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("document", "d", "", "original document (.txt, .md or .html)")
	cmd.Flags().StringP("key-points", "k", "", "key points file (.yaml or .json)")
	cmd.Flags().Bool("assign-ids", false, "give key points without an id a stable one")
	_ = cmd.MarkFlagRequired("document")
	_ = cmd.MarkFlagRequired("key-points")
}

func init() {
	addInputFlags(linkCmd)
	linkCmd.Flags().StringP("format", "f", "json", "output format: json, yaml, or markdown")
	linkCmd.Flags().StringP("out", "o", "", "write to this file instead of stdout")

	rootCmd.AddCommand(linkCmd)
}
