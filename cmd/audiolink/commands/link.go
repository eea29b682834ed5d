package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/simonhull/audiolink"
)

func newLinkCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "link",
		Short: "Manage identifier-named hardlinks in the link directory",
	}
	cmd.PersistentFlags().String("dir", "", "link directory (overrides link_dir)")
	cmd.AddCommand(
		newLinkCreateCmd(a),
		newLinkRmCmd(a),
		newLinkCheckCmd(a),
	)
	return cmd
}

func newLinkCreateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "create <file>...",
		Short: "Hardlink each file into the link directory under its identifier",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := a.linkDir(cmd)
			if err != nil {
				return err
			}
			for _, path := range args {
				file, err := audiolink.Open(path, a.fileOptions()...)
				if err != nil {
					return err
				}
				linkPath, err := file.CreateLink(dir)
				if err != nil {
					return err
				}
				a.logger.Info("link created", "path", path, "link", linkPath)
				fmt.Fprintln(cmd.OutOrStdout(), linkPath)
			}
			return nil
		},
	}
}

func newLinkRmCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <file>...",
		Aliases: []string{"delete"},
		Short:   "Remove each file's link from the link directory",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := a.linkDir(cmd)
			if err != nil {
				return err
			}
			for _, path := range args {
				file, err := audiolink.Open(path, a.fileOptions()...)
				if err != nil {
					return err
				}
				if err := file.DeleteLink(dir); err != nil {
					return err
				}
				a.logger.Info("link removed", "path", path)
			}
			return nil
		},
	}
}

var errLinksNeedAttention = errors.New("some links are missing or stale")

func newLinkCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check <file>...",
		Short: "Report whether each file's link is present, absent or stale",
		Long: `Report the link state of each file.

present  the link directory holds a hardlink of the file
absent   nothing exists under the file's link name
stale    the link name is taken by something that is not the file

The command fails if any file has no identifier or its link is not present.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := a.linkDir(cmd)
			if err != nil {
				return err
			}
			healthy := true
			for _, path := range args {
				file, err := audiolink.Open(path, a.fileOptions()...)
				if err != nil {
					return err
				}
				state, err := file.LinkStatus(dir)
				var missing *audiolink.MissingIdentifierError
				switch {
				case errors.As(err, &missing):
					fmt.Fprintf(cmd.OutOrStdout(), "%s\tno-id\n", path)
					healthy = false
					continue
				case err != nil:
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", path, state)
				if state != audiolink.LinkPresent {
					healthy = false
				}
			}
			if !healthy {
				return errLinksNeedAttention
			}
			return nil
		},
	}
}
