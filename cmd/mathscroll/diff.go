package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gogpu/mathscroll/recording/backends/storyboard"
)

// errStoryboardsDiffer is returned by diff --exit-code on a difference.
var errStoryboardsDiffer = errors.New("storyboards differ")

func newDiffCmd() *cobra.Command {
	var exitCode bool
	cmd := &cobra.Command{
		Use:   "diff <before.yaml> <after.yaml>",
		Short: "Compare two storyboards",
		Long: `Print the lines that differ between two storyboards, ignoring their
session ids. Use it to review how an edit to a script changed the timing
of a scene.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			before, err := storyboard.LoadFile(args[0])
			if err != nil {
				return err
			}
			after, err := storyboard.LoadFile(args[1])
			if err != nil {
				return err
			}
			d, err := storyboard.Diff(before, after)
			if err != nil {
				return err
			}
			if d == "" {
				return nil
			}
			if _, err := fmt.Fprint(cmd.OutOrStdout(), d); err != nil {
				return err
			}
			if exitCode {
				return errStoryboardsDiffer
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&exitCode, "exit-code", false, "fail when the storyboards differ")
	return cmd
}
