// Command sniper is a keyboard-driven terminal file browser that can record
// its input and replay it.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/odvcencio/sniper/pkg/config"
	"github.com/odvcencio/sniper/pkg/console"
	apperrors "github.com/odvcencio/sniper/pkg/errors"
	"github.com/odvcencio/sniper/pkg/logging"
)

// Version information - set via ldflags during build
var (
	version   = "0.1.0-dev"
	commit    = "unknown"
	buildDate = "unknown"
)

// rootOptions are the flags shared by every command.
type rootOptions struct {
	configPath string
	verbose    bool
	noColor    bool
}

func main() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		console.NewWithOutput(os.Stderr, console.Options{}).Error("%s", apperrors.UserMessage(err))
		os.Exit(exitCodeForError(err))
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	browse := &browseOptions{}

	root := &cobra.Command{
		Use:   "sniper [dir]",
		Short: "Browse a directory from the keyboard",
		Long: `sniper lists a directory and lets you walk the tree from the keyboard.

Keys:
  up/down     move the selection
  enter       open the selected directory or preview the file
  o           open the selected directory
  backspace   go to the parent directory
  /           filter the listing (esc leaves the filter)
  r           re-read the directory
  q, ctrl+c   quit

With --record, every key is saved to an event log that "sniper replay" plays
back.`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, buildDate),
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrowse(cmd, opts, browse, args)
		},
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file (default ~/.sniper/config.yaml then ./.sniper/config.yaml)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "write debug output to the log file")
	root.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "disable colored output")
	root.Flags().BoolVar(&browse.record, "record", false, "record every key to an event log")

	root.AddCommand(newReplayCmd(opts), newLogsCmd(opts))
	return root
}

// loadConfig reads the config file named by --config, or the default
// locations.
func loadConfig(opts *rootOptions) (*config.Config, error) {
	if opts.configPath != "" {
		return config.LoadFromPath(opts.configPath)
	}
	return config.Load()
}

func newLogger(cfg *config.Config, opts *rootOptions) (*zap.Logger, error) {
	level := logging.Level(cfg.Logging.Level)
	if opts.verbose {
		level = logging.LevelDebug
	}
	return logging.New(logging.Options{
		Disabled: !cfg.Logging.Enabled,
		Dir:      cfg.Logging.Dir,
		Level:    level,
	})
}

func newConsole(cmd *cobra.Command, opts *rootOptions) *console.Writer {
	return console.NewWithOutput(cmd.OutOrStdout(), console.Options{NoColor: opts.noColor})
}
