// Package commands implements the audiolink command line.
package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/simonhull/audiolink"
	"github.com/simonhull/audiolink/internal/config"
)

// app carries what every subcommand needs once configuration is loaded.
type app struct {
	v       *viper.Viper
	cfg     *config.Config
	logger  *slog.Logger
	cfgFile string
}

// fileOptions turns the write settings into library options.
func (a *app) fileOptions() []audiolink.Option {
	opts := []audiolink.Option{audiolink.WithLogger(a.logger)}
	if a.cfg.Write.BackupSuffix != "" {
		opts = append(opts, audiolink.WithBackup(a.cfg.Write.BackupSuffix))
	}
	if a.cfg.Write.PreserveModTime {
		opts = append(opts, audiolink.WithPreserveModTime())
	}
	return opts
}

// linkDir resolves the link directory from --dir or the link_dir setting.
func (a *app) linkDir(cmd *cobra.Command) (string, error) {
	dir, _ := cmd.Flags().GetString("dir")
	if dir == "" {
		dir = a.cfg.LinkDir
	}
	if dir == "" {
		return "", fmt.Errorf("no link directory: pass --dir or set link_dir (%s_LINK_DIR)", config.EnvPrefix)
	}
	info, err := os.Stat(dir)
	if err != nil {
		return "", fmt.Errorf("link directory: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("link directory %s is not a directory", dir)
	}
	return dir, nil
}

// NewRootCmd builds the command tree with its own configuration state.
func NewRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:           "audiolink",
		Short:         "Give audio files stable identifiers and mirror them as hardlinks",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.v, a.cfgFile)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger, err = newLogger(cmd.ErrOrStderr(), cfg.Log)
			if err != nil {
				return err
			}
			a.logger = a.logger.With("command", cmd.CommandPath())
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default is ./.audiolink/config.yaml or the user config dir)")
	flags.String("link-dir", "", "directory holding identifier-named hardlinks")
	flags.String("log-level", "", "log level: debug, info, warn, error")
	flags.String("backup", "", "copy each file to <file><suffix> before writing its tag")
	flags.Bool("preserve-mtime", false, "keep file modification times when writing tags")
	bindFlags(a.v, flags, map[string]string{
		"link_dir":                "link-dir",
		"log.level":               "log-level",
		"write.backup_suffix":     "backup",
		"write.preserve_mod_time": "preserve-mtime",
	})

	rootCmd.AddCommand(
		newIDCmd(a),
		newLinkCmd(a),
		newScanCmd(a),
		newDumpCmd(a),
		newVersionCmd(),
	)
	return rootCmd
}

// bindFlags binds config keys to flags so an explicitly set flag wins
// over file and environment.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet, keys map[string]string) {
	for key, name := range keys {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			panic(fmt.Sprintf("bind flag %s: %v", name, err))
		}
	}
}

// newLogger follows the usual CLI convention: human-readable text on a
// terminal, JSON when stderr is piped or redirected.
func newLogger(w io.Writer, cfg config.LogConfig) (*slog.Logger, error) {
	level, err := config.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	options := &slog.HandlerOptions{Level: level}

	format := cfg.Format
	if format == "auto" {
		format = "json"
		if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			format = "text"
		}
	}

	var handler slog.Handler
	if format == "text" {
		handler = slog.NewTextHandler(w, options)
	} else {
		handler = slog.NewJSONHandler(w, options)
	}
	return slog.New(handler), nil
}

// Execute runs the command line against os.Args.
func Execute() error {
	return NewRootCmd().Execute()
}
