package widgets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odvcencio/sniper/pkg/ui/backend"
	"github.com/odvcencio/sniper/pkg/ui/runtime"
	"github.com/odvcencio/sniper/pkg/ui/terminal"
)

func typeString(in *TextInput[testMsg], s string) {
	for _, r := range s {
		in.HandleKey(terminal.PressRune(r))
	}
}

func TestTextInput_EscAndEnterPropagate(t *testing.T) {
	in := NewTextInput[testMsg]("/")
	assert.True(t, in.HandleKey(terminal.Press(terminal.KeyEscape)).Propagated())
	assert.True(t, in.HandleKey(terminal.Press(terminal.KeyEnter)).Propagated())
}

func TestTextInput_CapturesRunes(t *testing.T) {
	in := NewTextInput[testMsg]("/")
	out := in.HandleKey(terminal.PressRune('q'))
	assert.True(t, out.IsConsumed())
	assert.Equal(t, "q", in.Text())
}

func TestTextInput_EmitsOnChange(t *testing.T) {
	in := NewTextInput[testMsg]("/").OnChange(func(s string) testMsg {
		return testMsg{kind: "filter", text: s}
	})
	typeString(in, "ab")

	msg, ok := in.HandleKey(terminal.PressRune('c')).Message()
	require.True(t, ok)
	assert.Equal(t, testMsg{kind: "filter", text: "abc"}, msg)

	msg, ok = in.HandleKey(terminal.Press(terminal.KeyBackspace)).Message()
	require.True(t, ok)
	assert.Equal(t, "ab", msg.text)

	// Cursor moves change nothing.
	_, ok = in.HandleKey(terminal.Press(terminal.KeyLeft)).Message()
	assert.False(t, ok)
}

func TestTextInput_Editing(t *testing.T) {
	in := NewTextInput[testMsg]("")
	typeString(in, "hllo")
	in.HandleKey(terminal.Press(terminal.KeyHome))
	in.HandleKey(terminal.Press(terminal.KeyRight))
	in.HandleKey(terminal.PressRune('e'))
	assert.Equal(t, "hello", in.Text())
	assert.Equal(t, 2, in.Cursor())

	in.HandleKey(terminal.Press(terminal.KeyDelete))
	assert.Equal(t, "helo", in.Text())

	in.HandleKey(terminal.Press(terminal.KeyEnd))
	in.HandleKey(terminal.Press(terminal.KeyRight))
	assert.Equal(t, 4, in.Cursor())

	in.HandleKey(terminal.Press(terminal.KeyHome))
	assert.True(t, in.HandleKey(terminal.Press(terminal.KeyBackspace)).IsConsumed())
	assert.Equal(t, "helo", in.Text())
}

func TestTextInput_LeavesNavigationAndControlKeys(t *testing.T) {
	in := NewTextInput[testMsg]("")
	assert.True(t, in.HandleKey(terminal.Press(terminal.KeyDown)).Propagated())
	assert.True(t, in.HandleKey(terminal.Press(terminal.KeyCtrlC)).Propagated())

	ctrlQ := terminal.PressRune('q')
	ctrlQ.Mods = terminal.ModCtrl
	assert.True(t, in.HandleKey(ctrlQ).Propagated())
	assert.Empty(t, in.Text())
}

func TestTextInput_Render(t *testing.T) {
	in := NewTextInput[testMsg]("/")
	typeString(in, "src")

	f := runtime.NewFrame(10, 1)
	in.Render(f, f.Area())

	assert.Equal(t, "/src      ", frameText(f)[0])
	assert.True(t, f.Get(4, 0).Style.Has(backend.AttrReverse), "cursor cell after text")
}

func TestTextInput_RenderScrollsToCursor(t *testing.T) {
	in := NewTextInput[testMsg]("/")
	typeString(in, "abcdefghij")

	f := runtime.NewFrame(6, 1)
	in.Render(f, f.Area())

	// Five columns after the prompt: four runes and the cursor.
	assert.Equal(t, "/ghij ", frameText(f)[0])
}

func TestParagraph_WrapsAndPropagates(t *testing.T) {
	p := NewParagraph[testMsg]("hello world\nbye")
	assert.True(t, p.HandleKey(terminal.PressRune('x')).Propagated())

	f := runtime.NewFrame(5, 4)
	p.Render(f, f.Area())
	lines := frameText(f)
	assert.Equal(t, []string{"hello", " worl", "d    ", "bye  "}, lines)
}

func TestParagraph_Bordered(t *testing.T) {
	p := NewParagraph[testMsg]("a\tb").WithBorder("Doc")
	f := runtime.NewFrame(10, 3)
	p.Render(f, f.Area())
	lines := frameText(f)
	assert.Equal(t, "┌Doc─────┐", lines[0])
	assert.Equal(t, "│a    b  │", lines[1])
}

func TestWrap(t *testing.T) {
	assert.Equal(t, []string{"ab", "cd", "e"}, wrap("abcde", 2))
	assert.Equal(t, []string{""}, wrap("", 3))
	assert.Equal(t, []string{"a", ""}, wrap("a\n", 3))
	assert.Equal(t, []string{"界", "界"}, wrap("界界", 3))
	assert.Equal(t, []string{""}, wrap("abc", 0))
}

func TestParagraph_SingleLineTruncates(t *testing.T) {
	p := NewParagraph[testMsg]("error: permission denied\nsecond").SingleLine()
	f := runtime.NewFrame(10, 2)
	p.Render(f, f.Area())
	lines := frameText(f)
	assert.Equal(t, "error: pe…", lines[0])
	assert.Equal(t, "          ", lines[1])
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 3))
	assert.Equal(t, "ab…", truncate("abcd", 3))
	assert.Equal(t, "a", truncate("abcd", 1))
}
