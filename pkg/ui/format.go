package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// Format selects how reports are rendered
type Format int

const (
	// FormatAuto picks terminal or text depending on where output goes
	FormatAuto Format = iota
	FormatTerminal
	FormatText
	FormatJSON
	FormatYAML
	FormatTOML
)

var formatNames = [...]string{
	FormatAuto:     "auto",
	FormatTerminal: "term",
	FormatText:     "text",
	FormatJSON:     "json",
	FormatYAML:     "yaml",
	FormatTOML:     "toml",
}

// formatAliases maps every accepted --format value, lower-cased
var formatAliases = map[string]Format{
	"":         FormatAuto,
	"auto":     FormatAuto,
	"term":     FormatTerminal,
	"terminal": FormatTerminal,
	"text":     FormatText,
	"plain":    FormatText,
	"json":     FormatJSON,
	"yaml":     FormatYAML,
	"yml":      FormatYAML,
	"toml":     FormatTOML,
}

func (f Format) String() string {
	if f < 0 || int(f) >= len(formatNames) {
		return "unknown"
	}
	return formatNames[f]
}

// ParseFormat accepts a --format value, case-insensitively
func ParseFormat(s string) (Format, error) {
	if f, ok := formatAliases[strings.ToLower(s)]; ok {
		return f, nil
	}
	return FormatAuto, fmt.Errorf("unknown format: %s", s)
}

// DetectFormat resolves FormatAuto for output: styled only on a colour
// terminal with NO_COLOR unset.
func DetectFormat(output *os.File) Format {
	if os.Getenv("NO_COLOR") != "" {
		return FormatText
	}
	fd := output.Fd()
	if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		return FormatText
	}
	if termenv.ColorProfile() == termenv.Ascii {
		return FormatText
	}
	return FormatTerminal
}
