// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/source-linker/internal/keypoints"
)

var validateCmd = &cobra.Command{
	Use:   "validate FILE",
	Short: "Check a key points file without linking it",
	Long: `Validate loads a key points file and reports every key point the
linker would reject: missing or duplicate ids, empty text, confidence
outside [0,1], and unknown categories.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	batch, err := keypoints.Load(args[0])
	if err != nil {
		return err
	}
	if assign, _ := cmd.Flags().GetBool("assign-ids"); assign {
		keypoints.AssignIDs(batch)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: %d key points\n", args[0], len(batch.KeyPoints))
	for _, row := range keypoints.CategoryCounts(batch) {
		fmt.Fprintf(out, "  %-10s %d\n", row.Category, row.Count)
	}

	problems := keypoints.Problems(batch)
	for _, p := range problems {
		fmt.Fprintf(out, "  - %s\n", p)
	}
	if len(problems) > 0 {
		return fmt.Errorf("%d problem(s) found", len(problems))
	}
	fmt.Fprintln(out, "ok")
	return nil
}

func init() {
	validateCmd.Flags().Bool("assign-ids", false, "assign stable ids before checking")

	rootCmd.AddCommand(validateCmd)
}
