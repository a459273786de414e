package sniper

import (
	"path/filepath"

	"go.uber.org/zap"

	"github.com/odvcencio/sniper/pkg/filewatch"
	"github.com/odvcencio/sniper/pkg/ui/backend"
	"github.com/odvcencio/sniper/pkg/ui/runtime"
	"github.com/odvcencio/sniper/pkg/ui/widgets"
)

// Mode is what the browser's keys currently drive.
type Mode int

const (
	ModeBrowse Mode = iota
	ModeSearch
)

func (m Mode) String() string {
	if m == ModeSearch {
		return "search"
	}
	return "browse"
}

const helpLine = "q quit  / search  r refresh  o open  backspace up"

// Watcher reports changes in the listed directory.
type Watcher interface {
	Watch(dir string) error
	Drain() []filewatch.FileChange
}

// Options configures a Model.
type Options struct {
	// FS defaults to the local disk without hidden files.
	FS Filesystem
	// Watcher, when set, refreshes the listing when the directory changes.
	Watcher Watcher
	Logger  *zap.Logger
}

// Model is the browser state.
type Model struct {
	dir     string
	entries []FileEntry
	query   string
	mode    Mode
	running bool

	listing *widgets.List[FileEntry, Msg]
	search  *widgets.TextInput[Msg]
	preview *widgets.Paragraph[Msg]
	status  *widgets.Paragraph[Msg]

	previewOpen bool
	failed      bool

	fs      Filesystem
	watcher Watcher
	log     *zap.Logger
}

// New opens the browser on dir. It fails if dir cannot be listed.
func New(dir string, opts Options) (*Model, error) {
	if opts.FS == nil {
		opts.FS = OSFilesystem{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fsError(err, "resolve directory", dir)
	}

	m := &Model{
		running: true,
		fs:      opts.FS,
		watcher: opts.Watcher,
		log:     opts.Logger.Named("sniper"),
		search:  widgets.NewTextInput[Msg]("/"),
		preview: widgets.NewParagraph[Msg]("").WithBorder(""),
		status:  widgets.NewParagraph[Msg](helpLine).SingleLine().WithStyle(backend.DefaultStyle().Dim(true)),
	}
	m.listing = widgets.NewList[FileEntry, Msg](abs, nil, FileEntry.Display).
		OnSelect(
			func(e FileEntry) Msg { return OpenPath{Path: e.Path} },
			func(reason string) Msg { return Failed{Err: reason} },
		).
		WithRows(newEntryRow)
	m.search.OnChange(func(q string) Msg { return FilterChanged{Query: q} })
	m.search.SetPlaceholder("type to filter")

	if err := m.listDir(abs); err != nil {
		return nil, err
	}
	return m, nil
}

// Dir returns the listed directory.
func (m *Model) Dir() string { return m.dir }

// Mode returns the current mode.
func (m *Model) Mode() Mode { return m.mode }

// Query returns the active search filter.
func (m *Model) Query() string { return m.query }

// Listing returns the directory list component.
func (m *Model) Listing() *widgets.List[FileEntry, Msg] { return m.listing }

// Status returns the status line text.
func (m *Model) Status() string { return m.status.Text() }

// Failed reports whether the status line shows an error.
func (m *Model) Failed() bool { return m.failed }

// Preview returns the previewed text, and whether a preview is open.
func (m *Model) Preview() (string, bool) { return m.preview.Text(), m.previewOpen }

// Running implements runtime.Application.
func (m *Model) Running() bool { return m.running }

// FocusChain implements runtime.Application. While searching, the search bar
// sees keys before the listing so it can take printable characters.
func (m *Model) FocusChain() []runtime.Component[Msg] {
	if m.mode == ModeSearch {
		return []runtime.Component[Msg]{m.search, m.listing}
	}
	chain := []runtime.Component[Msg]{m.listing}
	if m.previewOpen {
		chain = append(chain, m.preview)
	}
	return chain
}

// Tick implements runtime.Ticker. A change in the listed directory turns
// into a Refresh.
func (m *Model) Tick() (Msg, bool) {
	if m.watcher == nil {
		return nil, false
	}
	changes := m.watcher.Drain()
	if len(changes) == 0 {
		return nil, false
	}
	m.log.Debug("directory changed", zap.Int("changes", len(changes)))
	return Refresh{}, true
}

var (
	_ runtime.Application[Msg] = (*Model)(nil)
	_ runtime.Ticker[Msg]      = (*Model)(nil)
)
