package main

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/odvcencio/sniper/pkg/config"
	"github.com/odvcencio/sniper/pkg/paths"
	"github.com/odvcencio/sniper/pkg/sniper"
	"github.com/odvcencio/sniper/pkg/ui/backend"
	"github.com/odvcencio/sniper/pkg/ui/replay"
	"github.com/odvcencio/sniper/pkg/ui/runtime"
)

type replayOptions struct {
	latest bool
	delay  time.Duration
	from   string
}

func newReplayCmd(opts *rootOptions) *cobra.Command {
	ro := &replayOptions{}
	cmd := &cobra.Command{
		Use:   "replay [log]",
		Short: "Play a recorded session back",
		Long: `Replays the keys of a recorded session against a fresh browser.

The log may be a file path or a session id from "sniper logs". The browser
starts in the directory the session was recorded in, unless --from says
otherwise. Playback ends when the log runs out.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(cmd, opts, ro, args)
		},
	}
	cmd.Flags().BoolVar(&ro.latest, "latest", false, "replay the most recent session")
	cmd.Flags().DurationVar(&ro.delay, "delay", 100*time.Millisecond, "pause before each replayed key")
	cmd.Flags().StringVar(&ro.from, "from", "", "start in this directory instead of the recorded one")
	return cmd
}

func runReplay(cmd *cobra.Command, opts *rootOptions, ro *replayOptions, args []string) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	path, err := resolveLog(cfg, ro.latest, args)
	if err != nil {
		return err
	}
	log, err := replay.Load(path)
	if err != nil {
		return err
	}
	if !isInteractiveTerminalFn() {
		return withExitCode(errNotTerminal, exitNotTerminal)
	}

	logger, err := newLogger(cfg, opts)
	if err != nil {
		return withExitCode(err, exitConfig)
	}
	defer logger.Sync()

	dir := ro.from
	if dir == "" {
		dir = log.Workdir
	}
	if dir == "" {
		dir = "."
	}
	// No watcher: a replay sees only the recorded keys.
	model, err := sniper.New(dir, sniper.Options{
		FS:     sniper.OSFilesystem{ShowHidden: cfg.UI.ShowHidden},
		Logger: logger,
	})
	if err != nil {
		return err
	}

	be, err := newBackendFn()
	if err != nil {
		return err
	}
	player := replay.NewPlayer(log)
	p, err := runtime.New[sniper.Msg](runtime.Config{
		Driver:         be,
		Input:          pacedInput{InputSource: player, delay: ro.delay},
		Target:         be,
		MaxUpdateChain: cfg.UI.MaxUpdateChain,
		Logger:         logger,
	})
	if err != nil {
		return err
	}
	logger.Info("replaying session", zap.String("session", log.Session), zap.Int("events", len(log.Events)))
	if err := p.Run(model); err != nil {
		return err
	}

	out := newConsole(cmd, opts)
	out.Success("replayed %d keys from session %s", len(log.Events)-player.Remaining(), log.Session)
	out.Field("directory", model.Dir())
	if model.Failed() {
		out.Field("status", model.Status())
	}
	return nil
}

// resolveLog turns the replay argument into a log path. A bare session id is
// looked up in the recording directory.
func resolveLog(cfg *config.Config, latest bool, args []string) (string, error) {
	cwd, _ := os.Getwd()
	dir := paths.Anchor(cfg.Recording.Dir, cwd)
	switch {
	case latest && len(args) > 0:
		return "", withExitCode(errors.New("give a log or --latest, not both"), exitUsage)
	case latest:
		s, err := replay.Latest(dir)
		if err != nil {
			return "", err
		}
		return s.Path, nil
	case len(args) == 0:
		return "", withExitCode(errors.New("no log given (pass a path, a session id, or --latest)"), exitUsage)
	}

	arg := args[0]
	if _, err := os.Stat(arg); errors.Is(err, fs.ErrNotExist) {
		if _, err := ulid.ParseStrict(arg); err == nil {
			return replay.SessionPath(dir, arg), nil
		}
	}
	return arg, nil
}

// pacedInput slows playback down so it can be watched.
type pacedInput struct {
	backend.InputSource
	delay time.Duration
}

func (p pacedInput) Poll(timeout time.Duration) (bool, error) {
	if p.delay > 0 {
		time.Sleep(p.delay)
	}
	return p.InputSource.Poll(timeout)
}
