package main

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	apperrors "github.com/odvcencio/sniper/pkg/errors"
	"github.com/odvcencio/sniper/pkg/filewatch"
	"github.com/odvcencio/sniper/pkg/paths"
	"github.com/odvcencio/sniper/pkg/sniper"
	"github.com/odvcencio/sniper/pkg/ui/replay"
	"github.com/odvcencio/sniper/pkg/ui/runtime"
)

type browseOptions struct {
	record bool
}

var errNotTerminal = errors.New("sniper needs an interactive terminal on stdin and stdout")

func runBrowse(cmd *cobra.Command, opts *rootOptions, browse *browseOptions, args []string) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	if browse.record {
		cfg.Recording.Enabled = true
	}
	if !isInteractiveTerminalFn() {
		return withExitCode(errNotTerminal, exitNotTerminal)
	}

	logger, err := newLogger(cfg, opts)
	if err != nil {
		return withExitCode(err, exitConfig)
	}
	defer logger.Sync()

	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}
	workdir, err := filepath.Abs(dir)
	if err != nil {
		return err
	}

	var watcher sniper.Watcher
	if cfg.Watch.Enabled {
		w, err := filewatch.New(logger)
		if err != nil {
			logger.Warn("directory watching disabled", zap.Error(err))
		} else {
			defer w.Close()
			watcher = w
		}
	}

	model, err := sniper.New(workdir, sniper.Options{
		FS:      sniper.OSFilesystem{ShowHidden: cfg.UI.ShowHidden},
		Watcher: watcher,
		Logger:  logger,
	})
	if err != nil {
		return err
	}

	be, err := newBackendFn()
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeTerminal, "open terminal")
	}
	rc := runtime.NewConfig(be)
	rc.PollInterval = cfg.UI.PollInterval
	rc.MaxUpdateChain = cfg.UI.MaxUpdateChain
	rc.Logger = logger

	var rec *replay.Recorder
	if cfg.Recording.Enabled {
		cwd, _ := os.Getwd()
		rec = replay.NewRecorder(paths.Anchor(cfg.Recording.Dir, cwd)).WithWorkdir(workdir)
		rc.Recorder = rec
		logger.Info("recording session", zap.String("path", rec.Path()))
	}

	p, err := runtime.New[sniper.Msg](rc)
	if err != nil {
		return err
	}
	runErr := p.Run(model)

	if rec != nil && rec.Written() {
		newConsole(cmd, opts).Dim("session %s recorded to %s", rec.Session(), rec.Path())
	}
	return runErr
}
