package output

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/sys/unix"
)

// Styles holds the lipgloss styles for output formatting.
type Styles struct {
	enabled bool

	Path      lipgloss.Style
	LineNum   lipgloss.Style
	Offset    lipgloss.Style
	Separator lipgloss.Style
	Match     lipgloss.Style
}

// NewStyles creates the default color styles. The renderer is pinned to
// 16-color ANSI so --color=always works when stdout is not a terminal.
func NewStyles() Styles {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(termenv.ANSI)
	base := r.NewStyle().TabWidth(lipgloss.NoTabConversion)
	return Styles{
		enabled:   true,
		Path:      base.Foreground(lipgloss.Color("5")),            // magenta
		LineNum:   base.Foreground(lipgloss.Color("2")),            // green
		Offset:    base.Foreground(lipgloss.Color("2")),            // green
		Separator: base.Foreground(lipgloss.Color("6")),            // cyan
		Match:     base.Foreground(lipgloss.Color("1")).Bold(true), // bold red
	}
}

// NoStyles returns styles that leave text untouched.
func NoStyles() Styles {
	return Styles{}
}

// Enabled reports whether rendering adds escape sequences.
func (s Styles) Enabled() bool { return s.enabled }

// render appends text to buf, styled when colors are enabled.
func (s Styles) render(buf []byte, style lipgloss.Style, text []byte) []byte {
	if !s.enabled || len(text) == 0 {
		return append(buf, text...)
	}
	return append(buf, style.Render(string(text))...)
}

// IsTerminal checks if the given file descriptor is a terminal using ioctl.
func IsTerminal(fd uintptr) bool {
	_, err := unix.IoctlGetTermios(int(fd), unix.TCGETS)
	return err == nil
}

