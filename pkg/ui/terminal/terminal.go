// Package terminal provides the raw input event types consumed by the runtime.
package terminal

import (
	"fmt"
	"strings"
)

// Event represents a terminal input event.
type Event interface {
	eventMarker()
}

// KeyEvent represents a single key transition.
// It is the unit recorded to and replayed from event logs, so every field is
// tagged for the persisted format.
type KeyEvent struct {
	Key  Key       `yaml:"key"`
	Rune rune      `yaml:"rune,omitempty"`
	Mods Modifiers `yaml:"mods,omitempty"`
	Kind KeyKind   `yaml:"kind"`
}

func (KeyEvent) eventMarker() {}

// Press builds a press event for a special key.
func Press(k Key) KeyEvent {
	return KeyEvent{Key: k, Kind: KindPress}
}

// PressRune builds a press event for a printable character.
func PressRune(r rune) KeyEvent {
	return KeyEvent{Key: KeyRune, Rune: r, Kind: KindPress}
}

// IsPress reports whether the event is a key press.
func (e KeyEvent) IsPress() bool {
	return e.Kind == KindPress
}

// IsRune reports whether the event is the given printable character with no
// Ctrl or Alt modifier.
func (e KeyEvent) IsRune(r rune) bool {
	return e.Key == KeyRune && e.Rune == r && e.Mods&(ModCtrl|ModAlt) == 0
}

// String renders the event the way it is shown in `sniper logs show`.
func (e KeyEvent) String() string {
	var b strings.Builder
	if e.Mods&ModCtrl != 0 {
		b.WriteString("ctrl+")
	}
	if e.Mods&ModAlt != 0 {
		b.WriteString("alt+")
	}
	if e.Mods&ModShift != 0 {
		b.WriteString("shift+")
	}
	if e.Key == KeyRune {
		b.WriteString(fmt.Sprintf("%q", e.Rune))
	} else {
		b.WriteString(e.Key.String())
	}
	if e.Kind != KindPress {
		b.WriteString(" (" + e.Kind.String() + ")")
	}
	return b.String()
}

// ResizeEvent indicates terminal size changed.
type ResizeEvent struct {
	Width  int
	Height int
}

func (ResizeEvent) eventMarker() {}

// KeyKind distinguishes press, repeat and release transitions.
// Terminals that cannot report releases only ever produce KindPress.
type KeyKind int

const (
	KindPress KeyKind = iota
	KindRepeat
	KindRelease
)

var kindNames = []string{"press", "repeat", "release"}

func (k KeyKind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// MarshalText writes the kind by name.
func (k KeyKind) MarshalText() ([]byte, error) {
	if k < 0 || int(k) >= len(kindNames) {
		return nil, fmt.Errorf("unknown key kind %d", int(k))
	}
	return []byte(kindNames[k]), nil
}

// UnmarshalText parses a kind name. Unknown names are an error.
func (k *KeyKind) UnmarshalText(text []byte) error {
	name := string(text)
	for i, n := range kindNames {
		if n == name {
			*k = KeyKind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown key kind %q", name)
}

// Modifiers is a bit set of modifier keys held during a key event.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModCtrl
	ModAlt
)

// Key represents special keys.
type Key int

const (
	KeyNone Key = iota
	KeyRune     // Regular character
	KeyEnter
	KeyBackspace
	KeyTab
	KeyEscape
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyDelete
	KeyInsert
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
	KeyCtrlC
	KeyCtrlD
	KeyCtrlL
	KeyCtrlR
	KeyCtrlZ
)

var keyNames = map[Key]string{
	KeyNone:      "none",
	KeyRune:      "rune",
	KeyEnter:     "enter",
	KeyBackspace: "backspace",
	KeyTab:       "tab",
	KeyEscape:    "esc",
	KeyUp:        "up",
	KeyDown:      "down",
	KeyLeft:      "left",
	KeyRight:     "right",
	KeyHome:      "home",
	KeyEnd:       "end",
	KeyPageUp:    "pgup",
	KeyPageDown:  "pgdn",
	KeyDelete:    "delete",
	KeyInsert:    "insert",
	KeyF1:        "f1",
	KeyF2:        "f2",
	KeyF3:        "f3",
	KeyF4:        "f4",
	KeyF5:        "f5",
	KeyF6:        "f6",
	KeyF7:        "f7",
	KeyF8:        "f8",
	KeyF9:        "f9",
	KeyF10:       "f10",
	KeyF11:       "f11",
	KeyF12:       "f12",
	KeyCtrlC:     "ctrl+c",
	KeyCtrlD:     "ctrl+d",
	KeyCtrlL:     "ctrl+l",
	KeyCtrlR:     "ctrl+r",
	KeyCtrlZ:     "ctrl+z",
}

var keysByName = func() map[string]Key {
	m := make(map[string]Key, len(keyNames))
	for k, n := range keyNames {
		m[n] = k
	}
	return m
}()

func (k Key) String() string {
	if n, ok := keyNames[k]; ok {
		return n
	}
	return fmt.Sprintf("key(%d)", int(k))
}

// MarshalText writes the key by name so event logs stay readable.
func (k Key) MarshalText() ([]byte, error) {
	n, ok := keyNames[k]
	if !ok {
		return nil, fmt.Errorf("unknown key %d", int(k))
	}
	return []byte(n), nil
}

// UnmarshalText parses a key name. Unknown names are an error.
func (k *Key) UnmarshalText(text []byte) error {
	v, ok := keysByName[string(text)]
	if !ok {
		return fmt.Errorf("unknown key %q", string(text))
	}
	*k = v
	return nil
}
