// Package sniper is a keyboard-driven file browser built on the runtime.
package sniper

// Msg is a state transition of the browser. The set is closed.
type Msg interface {
	isMsg()
}

// Quit stops the browser.
type Quit struct{}

// OpenPath opens a path relative to the current directory, or absolute.
// Directories are listed, files are previewed.
type OpenPath struct{ Path string }

// ListDir replaces the listing with the contents of Dir.
type ListDir struct{ Dir string }

// ShowFile previews the head of a file.
type ShowFile struct{ Path string }

// Refresh re-reads the current directory.
type Refresh struct{}

// StartSearch focuses the search bar.
type StartSearch struct{}

// FilterChanged narrows the listing to names containing Query.
type FilterChanged struct{ Query string }

// EndSearch leaves search mode and restores the full listing.
type EndSearch struct{}

// Failed reports an error on the status line.
type Failed struct{ Err string }

// ClearStatus resets the status line and closes the preview.
type ClearStatus struct{}

func (Quit) isMsg()          {}
func (OpenPath) isMsg()      {}
func (ListDir) isMsg()       {}
func (ShowFile) isMsg()      {}
func (Refresh) isMsg()       {}
func (StartSearch) isMsg()   {}
func (FilterChanged) isMsg() {}
func (EndSearch) isMsg()     {}
func (Failed) isMsg()        {}
func (ClearStatus) isMsg()   {}
