package colorize

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
)

var forced atomic.Bool

// Disable turns color off regardless of the environment.
func Disable() {
	forced.Store(true)
}

// IsDisabled returns true if colors are disabled via environment or Disable.
func IsDisabled() bool {
	return forced.Load() || os.Getenv("SHADE_NO_COLOR") != "" || os.Getenv("NO_COLOR") != ""
}

// getListingStyle returns the listing style with fallbacks
func getListingStyle() *chroma.Style {
	candidates := []string{"shade-dark", "dracula", "monokai"}
	for _, name := range candidates {
		if style := styles.Get(name); style != nil {
			return style
		}
	}
	return styles.Fallback
}

// getTerminalFormatter returns an appropriate terminal formatter
func getTerminalFormatter() chroma.Formatter {
	candidates := []string{"terminal16m", "terminal256"}
	for _, name := range candidates {
		if formatter := formatters.Get(name); formatter != nil {
			return formatter
		}
	}
	return formatters.Fallback
}

// Listing highlights Go source using Chroma.
func Listing(src string) string {
	if IsDisabled() {
		return src
	}

	lexer := lexers.Get("go")
	if lexer == nil {
		return src
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, src)
	if err != nil {
		return src
	}

	var buf strings.Builder
	if err := getTerminalFormatter().Format(&buf, getListingStyle(), iterator); err != nil {
		return src
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

// rgb wraps s in a 24-bit foreground escape for a "#RRGGBB" color.
func rgb(hex, s string) string {
	v, err := strconv.ParseUint(strings.TrimPrefix(hex, "#"), 16, 32)
	if err != nil {
		return s
	}
	return fmt.Sprintf("\033[38;2;%d;%d;%dm%s\033[0m", v>>16&0xFF, v>>8&0xFF, v&0xFF, s)
}

// Class formats a class name in yellow
func Class(name string) string {
	if IsDisabled() {
		return name
	}
	return rgb(ColorClass, name)
}

// Member formats a member signature in light blue
func Member(sig string) string {
	if IsDisabled() {
		return sig
	}
	return rgb(ColorMember, sig)
}

// Tag formats a hashtag in light pink
func Tag(tag string) string {
	if IsDisabled() {
		return tag
	}
	return fmt.Sprintf("\033[38;2;255;180;200m%s\033[0m", tag)
}

// Detail formats detail text in light gray
func Detail(detail string) string {
	if IsDisabled() {
		return detail
	}
	return rgb(ColorDetail, detail)
}

// Number formats a count in pink
func Number(n int) string {
	s := fmt.Sprintf("%d", n)
	if IsDisabled() {
		return s
	}
	return rgb(ColorNumber, s)
}

// Border formats border characters in dark gray
func Border(s string) string {
	if IsDisabled() {
		return s
	}
	return fmt.Sprintf("\033[38;2;80;80;80m%s\033[0m", s)
}

// Error formats error messages in pink
func Error(s string) string {
	if IsDisabled() {
		return s
	}
	return fmt.Sprintf("\033[38;2;255;128;192m%s\033[0m", s)
}

// String formats string values in green
func String(s string) string {
	if IsDisabled() {
		return s
	}
	return rgb(ColorString, s)
}

var headerStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("#569CD6"))

var boxStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("#505050")).
	Padding(0, 1)

// Header formats header text in bold blue
func Header(s string) string {
	if IsDisabled() {
		return s
	}
	return headerStyle.Render(s)
}

// Box draws a rounded border around a block of lines.
func Box(lines ...string) string {
	body := strings.Join(lines, "\n")
	if IsDisabled() {
		return body
	}
	return boxStyle.Render(body)
}
