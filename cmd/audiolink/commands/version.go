package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/simonhull/audiolink"
)

func newVersionCmd() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the audiolink version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if !verbose {
				fmt.Fprintln(out, audiolink.GetVersion())
				return nil
			}
			info := audiolink.GetVersionInfo()
			fmt.Fprintf(out, "version:    %s\n", info.Version)
			fmt.Fprintf(out, "git commit: %s\n", info.GitCommit)
			fmt.Fprintf(out, "build time: %s\n", info.BuildTime)
			fmt.Fprintf(out, "go version: %s\n", info.GoVersion)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "include build details")
	return cmd
}
