package runtime

import (
	"errors"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/odvcencio/sniper/pkg/errors"
	"github.com/odvcencio/sniper/pkg/ui/backend"
	"github.com/odvcencio/sniper/pkg/ui/terminal"
)

//go:generate mockgen -package=runtime -destination=mock_backend_test.go github.com/odvcencio/sniper/pkg/ui/backend Driver,InputSource

// DefaultPollInterval bounds how long one iteration waits for input.
const DefaultPollInterval = 250 * time.Millisecond

// Application is what a program built on the runtime supplies.
type Application[M any] interface {
	Updater[M]

	// Running reports whether the loop should keep going. Only Update may
	// flip it to false.
	Running() bool

	// View draws the model. It may update view-only state.
	View(f *Frame)

	// FocusChain returns the components eligible for the next key, most
	// specific first. It is called once per key and never cached.
	FocusChain() []Component[M]

	// HandleKey is the fallback for keys the chain left unclaimed.
	HandleKey(ev terminal.KeyEvent) (M, bool)
}

// Ticker is implemented by applications that want a message when an
// iteration's input wait times out.
type Ticker[M any] interface {
	Tick() (M, bool)
}

// Recorder receives every key event the loop reads and persists them when
// the session ends.
//
//go:generate mockgen -package=runtime -destination=mock_recorder_test.go github.com/odvcencio/sniper/pkg/ui/runtime Recorder
type Recorder interface {
	Record(ev terminal.KeyEvent)
	Flush() error
}

// Config configures a Program.
type Config struct {
	// Driver brackets the session. Required.
	Driver backend.Driver
	// Input supplies events. Required.
	Input backend.InputSource
	// Target paints frames. Required.
	Target backend.RenderTarget
	// Recorder, when set, records every key event read.
	Recorder Recorder
	// PollInterval bounds the wait for input. Defaults to DefaultPollInterval.
	PollInterval time.Duration
	// MaxUpdateChain caps update calls per input event; 0 is unbounded.
	MaxUpdateChain int
	// Logger receives runtime diagnostics. Defaults to a no-op logger.
	Logger *zap.Logger
}

// NewConfig builds a Config whose driver, input and target are one backend.
func NewConfig(b backend.Backend) Config {
	return Config{Driver: b, Input: b, Target: b}
}

// Program runs an Application against a terminal.
type Program[M any] struct {
	driver       backend.Driver
	input        backend.InputSource
	target       backend.RenderTarget
	recorder     Recorder
	pollInterval time.Duration
	maxChain     int
	log          *zap.Logger

	frame *Frame
	stats Stats
}

// Stats counts what a session did.
type Stats struct {
	Frames   int
	Events   int
	Dropped  int
	Messages int
	Timeouts int
}

// New creates a Program from cfg.
func New[M any](cfg Config) (*Program[M], error) {
	if cfg.Driver == nil || cfg.Input == nil || cfg.Target == nil {
		return nil, apperrors.New(apperrors.ErrCodeInvalidInput, "driver, input and target are required")
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Program[M]{
		driver:       cfg.Driver,
		input:        cfg.Input,
		target:       cfg.Target,
		recorder:     cfg.Recorder,
		pollInterval: cfg.PollInterval,
		maxChain:     cfg.MaxUpdateChain,
		log:          cfg.Logger.Named("runtime"),
	}, nil
}

// Stats returns the counters for the last Run.
func (p *Program[M]) Stats() Stats {
	return p.stats
}

// Run drives app until it stops running, the input ends, or an I/O error
// occurs.
//
// The terminal is always restored and the recording flushed before Run
// returns, in that order. A session that never entered the terminal has
// nothing to flush. A panic anywhere in the loop goes through the same
// teardown and is then re-raised with its original value.
func (p *Program[M]) Run(app Application[M]) (err error) {
	p.stats = Stats{}
	entered := false
	defer func() {
		r := recover()
		if r != nil {
			p.log.Error("panic in runtime loop", zap.Any("panic", r), zap.Stack("stack"))
		}
		if terr := p.teardown(entered); terr != nil {
			err = errors.Join(err, terr)
		}
		if r != nil {
			panic(r)
		}
	}()

	if err := p.driver.Enter(); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeTerminal, "enter terminal")
	}
	entered = true
	p.log.Info("session started",
		zap.Duration("poll_interval", p.pollInterval),
		zap.Bool("recording", p.recorder != nil))

	err = p.loop(app)
	p.log.Info("session ended",
		zap.Int("frames", p.stats.Frames),
		zap.Int("events", p.stats.Events),
		zap.Int("messages", p.stats.Messages),
		zap.Error(err))
	return err
}

func (p *Program[M]) loop(app Application[M]) error {
	for app.Running() {
		p.render(app)

		ready, err := p.input.Poll(p.pollInterval)
		if err != nil {
			if errors.Is(err, backend.ErrEndOfInput) {
				p.log.Debug("input exhausted")
				return nil
			}
			return apperrors.Wrap(err, apperrors.ErrCodeInput, "poll input")
		}
		if !ready {
			p.stats.Timeouts++
			if err := p.tick(app); err != nil {
				return err
			}
			continue
		}

		ev, err := p.input.Read()
		if err != nil {
			return apperrors.Wrap(err, apperrors.ErrCodeInput, "read input")
		}
		if err := p.handle(app, ev); err != nil {
			return err
		}
	}
	return nil
}

func (p *Program[M]) render(app Application[M]) {
	w, h := p.target.Size()
	if p.frame == nil {
		p.frame = NewFrame(w, h)
	} else {
		p.frame.Resize(w, h)
	}
	p.frame.Clear()
	app.View(p.frame)
	p.frame.Flush(p.target)
	p.stats.Frames++
}

func (p *Program[M]) tick(app Application[M]) error {
	t, ok := app.(Ticker[M])
	if !ok {
		return nil
	}
	msg, ok := t.Tick()
	if !ok {
		return nil
	}
	return p.settle(app, msg)
}

func (p *Program[M]) handle(app Application[M], ev terminal.Event) error {
	switch e := ev.(type) {
	case terminal.KeyEvent:
		p.stats.Events++
		if p.recorder != nil {
			p.recorder.Record(e)
		}
		if !e.IsPress() {
			p.stats.Dropped++
			p.log.Debug("dropped non-press key", zap.Stringer("key", e))
			return nil
		}
		msg, ok := Dispatch(app.FocusChain(), e, app.HandleKey)
		if !ok {
			return nil
		}
		return p.settle(app, msg)
	case terminal.ResizeEvent:
		if p.frame != nil {
			p.frame.MarkAllDirty()
		}
		if s, ok := p.target.(interface{ Sync() }); ok {
			s.Sync()
		}
	}
	return nil
}

func (p *Program[M]) settle(app Application[M], msg M) error {
	steps, err := Settle[M](failureLogger[M]{app, p.log}, msg, p.maxChain)
	p.stats.Messages += steps
	return err
}

// teardown restores the terminal, then flushes the recording if the session
// got as far as entering the terminal.
func (p *Program[M]) teardown(entered bool) error {
	var errs []error
	if err := p.driver.Leave(); err != nil {
		errs = append(errs, apperrors.Wrap(err, apperrors.ErrCodeTerminal, "leave terminal"))
	}
	if p.recorder != nil && entered {
		if err := p.recorder.Flush(); err != nil {
			errs = append(errs, err)
		} else {
			p.log.Info("event log flushed")
		}
	}
	return errors.Join(errs...)
}

// failureLogger logs update failures on their way back into the chain.
type failureLogger[M any] struct {
	Updater[M]
	log *zap.Logger
}

func (f failureLogger[M]) Failure(err error) M {
	f.log.Warn("update failed", zap.Error(err))
	return f.Updater.Failure(err)
}
