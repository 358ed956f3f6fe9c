package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"renamer/internal/finder"
)

func buildFindCommand(a *app) *cobra.Command {
	var recursive bool

	cmd := &cobra.Command{
		Use:   "find PATTERN [DIR]",
		Short: "List files whose name matches a glob, one path per line",
		Long: `find prints the regular files in DIR (default ".") whose name matches the
shell glob PATTERN. The output is plain paths, ready to pipe into renamer.

Examples:
  renamer find '*.JPG' ./photos
  renamer find 'IMG_*' . -R | renamer -n -c lower`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 2 {
				dir = args[1]
			}

			paths, err := finder.Find(dir, args[0], recursive)
			if err != nil {
				return err
			}
			for _, p := range paths {
				fmt.Fprintln(a.stdout, p)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&recursive, "recursive", "R", false, "Descend into subdirectories")
	return cmd
}
