package main

import (
	"os"

	"golang.org/x/term"

	"github.com/odvcencio/sniper/pkg/ui/backend"
	"github.com/odvcencio/sniper/pkg/ui/backend/tcell"
)

func isInteractiveTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) &&
		term.IsTerminal(int(os.Stdout.Fd()))
}

// Swapped in tests.
var (
	isInteractiveTerminalFn = isInteractiveTerminal
	newBackendFn            = func() (backend.Backend, error) { return tcell.New() }
)
