package tui

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// printer is the locale-aware message printer for number formatting.
//
//nolint:gochecknoglobals // Global printer is idiomatic for x/text/message usage.
var printer = message.NewPrinter(language.English)

// FormatNumber formats an integer with thousand separators.
func FormatNumber(n int) string {
	return printer.Sprintf("%d", n)
}

// FormatValue renders a cell value as text.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case int:
		return FormatNumber(val)
	case int64:
		return printer.Sprintf("%d", val)
	case float64:
		return printer.Sprintf("%.2f", val)
	case bool:
		if val {
			return "yes"
		}
		return "no"
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}

// fit pads or truncates s to exactly width runes, leaving one trailing space
// as cell padding when there is room.
func fit(s string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(s)
	inner := width
	if width > 1 {
		inner = width - 1
	}
	if len(r) > inner {
		if inner > 1 {
			r = append(r[:inner-1], '…')
		} else {
			r = r[:inner]
		}
	}
	return string(r) + strings.Repeat(" ", width-len(r))
}

// center pads s on both sides to width runes, truncating when needed.
func center(s string, width int) string {
	r := []rune(s)
	if len(r) >= width {
		return fit(s, width)
	}
	left := (width - len(r)) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-len(r)-left)
}

// clip returns the runes of s in [offset, offset+width), padded to width.
func clip(s string, offset, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(s)
	offset = min(max(offset, 0), len(r))
	end := min(offset+width, len(r))
	out := string(r[offset:end])
	return out + strings.Repeat(" ", width-(end-offset))
}
