package style

import (
	"regexp"

	"github.com/charmbracelet/lipgloss"
)

// tagPattern matches a tag pair with no other tag inside it. ANSI escapes
// left by an inner render are allowed.
var tagPattern = regexp.MustCompile(`\[(\w+)\]((?:[^\[]|\x1b\[)*)\[/(\w+)\]`)

// MarkupParser renders [tag]text[/tag] markup with lipgloss styles.
// Unknown tags and mismatched closers are left as they are.
type MarkupParser struct {
	styles map[string]lipgloss.Style
}

// NewMarkupParser creates a parser with the default tags
func NewMarkupParser() *MarkupParser {
	return &MarkupParser{
		styles: map[string]lipgloss.Style{
			"title":     TitleStyle,
			"success":   SuccessStyle,
			"error":     ErrorStyle,
			"warning":   WarningStyle,
			"info":      InfoStyle,
			"muted":     MutedStyle,
			"path":      PathStyle,
			"code":      CodeStyle,
			"generator": GeneratorStyle,
			"marker":    MarkerStyle,
			"bold":      lipgloss.NewStyle().Bold(true),
		},
	}
}

// Render styles every well-formed tag pair, innermost first
func (p *MarkupParser) Render(text string) string {
	for {
		next := tagPattern.ReplaceAllStringFunc(text, func(match string) string {
			m := tagPattern.FindStringSubmatch(match)
			style, ok := p.styles[m[1]]
			if !ok || m[1] != m[3] {
				return match
			}
			return style.Render(m[2])
		})
		if next == text {
			return text
		}
		text = next
	}
}

var defaultParser = NewMarkupParser()

// Render is a convenience function using the default parser
func Render(text string) string {
	return defaultParser.Render(text)
}
