package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/simonhull/audiolink"
)

func newDumpCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dump <file>",
		Short: "List every field of a file's tag",
		Long: `List every field of a file's tag container in file order.

FLAC files show their Vorbis comments; MP3 files show TXXX frames by
description, text frames by frame ID and other frames by size.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := audiolink.Open(args[0], a.fileOptions()...)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "file:   %s\n", file.Path())
			fmt.Fprintf(out, "format: %s\n", file.Format())
			if !file.HasTag() {
				fmt.Fprintln(out, "tag:    none")
				return nil
			}
			fmt.Fprintln(out, "tag:")
			for key, value := range file.Fields() {
				fmt.Fprintf(out, "  %s=%s\n", key, value)
			}
			for _, w := range file.Warnings() {
				fmt.Fprintf(out, "warning: %s\n", w)
			}
			return nil
		},
	}
}
