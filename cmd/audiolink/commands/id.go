package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/simonhull/audiolink"
)

func newIDCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "id",
		Short: "Show, set or remove the identifier stored in a file's tag",
	}
	cmd.AddCommand(
		newIDShowCmd(a),
		newIDSetCmd(a),
		newIDNewCmd(a),
		newIDRmCmd(a),
	)
	return cmd
}

func newIDShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <file>...",
		Short: "Print each file's identifier",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, path := range args {
				file, err := audiolink.Open(path, a.fileOptions()...)
				if err != nil {
					return err
				}
				switch validity := audiolink.ValidateID(file.ID()); validity {
				case audiolink.IDAbsent:
					fmt.Fprintf(out, "%s\t-\n", path)
				case audiolink.IDInvalid:
					fmt.Fprintf(out, "%s\t%s\t(%s)\n", path, file.ID(), validity)
				default:
					fmt.Fprintf(out, "%s\t%s\n", path, file.ID())
				}
			}
			return nil
		},
	}
}

func newIDSetCmd(a *app) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "set <file> <id>",
		Short: "Write a given identifier into a file's tag",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, id := args[0], args[1]
			if !audiolink.IsValidID(id) {
				return &audiolink.InvalidIdentifierError{Value: id}
			}
			file, err := audiolink.Open(path, a.fileOptions()...)
			if err != nil {
				return err
			}
			if file.HasID() && file.ID() != id && !force {
				return fmt.Errorf("%s already has identifier %s (use --force to replace it)", path, file.ID())
			}
			if err := file.SetID(id); err != nil {
				return err
			}
			a.logger.Info("identifier set", "path", path, "id", id)
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", path, id)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "replace an existing identifier")
	return cmd
}

func newIDNewCmd(a *app) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "new <file>...",
		Short: "Generate and write a fresh identifier",
		Long: `Generate and write a fresh identifier for each file.

Files that already carry an identifier are left alone unless --force is
given, since replacing an identifier orphans every link and reference
built on it.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, path := range args {
				file, err := audiolink.Open(path, a.fileOptions()...)
				if err != nil {
					return err
				}
				if file.HasID() && !force {
					a.logger.Warn("identifier exists, skipping", "path", path, "id", file.ID())
					fmt.Fprintf(out, "%s\t%s\t(kept)\n", path, file.ID())
					continue
				}
				id, err := file.SetNewID()
				if err != nil {
					return err
				}
				a.logger.Info("identifier generated", "path", path, "id", id)
				fmt.Fprintf(out, "%s\t%s\n", path, id)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "replace existing identifiers")
	return cmd
}

func newIDRmCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <file>...",
		Aliases: []string{"delete"},
		Short:   "Remove the identifier from each file's tag",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, path := range args {
				file, err := audiolink.Open(path, a.fileOptions()...)
				if err != nil {
					return err
				}
				if err := file.DeleteID(); err != nil {
					return err
				}
				a.logger.Info("identifier removed", "path", path)
			}
			return nil
		},
	}
}
