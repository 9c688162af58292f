// Package text provides plain text output without any styling
package text

import (
	"fmt"
	"io"
	"strings"

	"github.com/arthur-debert/endfix/pkg/core"
	"github.com/arthur-debert/endfix/pkg/ui/display"
	"github.com/charmbracelet/lipgloss"
)

// Renderer provides plain text output without colors or styling
type Renderer struct {
	output io.Writer
}

// New creates a new text renderer
func New(output io.Writer) (*Renderer, error) {
	return &Renderer{output: output}, nil
}

// RenderResult renders any result type as plain text
func (r *Renderer) RenderResult(result interface{}) error {
	switch v := result.(type) {
	case *core.Report:
		return r.renderReport(v)
	case *display.Activation:
		_, err := fmt.Fprintln(r.output, v.Line())
		return err
	default:
		// For unknown types, just print them
		_, err := fmt.Fprintf(r.output, "%+v\n", result)
		return err
	}
}

func (r *Renderer) renderReport(report *core.Report) error {
	if _, err := fmt.Fprintf(r.output, "Game directory: %s\n", report.GameDir); err != nil {
		return err
	}
	rows := display.Rows(report)
	if len(rows) > 0 {
		cells := [][]string{display.Header}
		for _, row := range rows {
			cells = append(cells, row.Cells())
		}
		if _, err := io.WriteString(r.output, Columns(cells)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(r.output, display.Summary(report))
	return err
}

// Columns lays rows out in left-aligned columns separated by two spaces
func Columns(rows [][]string) string {
	var widths []int
	for _, row := range rows {
		for i, cell := range row {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			if w := lipgloss.Width(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var b strings.Builder
	for _, row := range rows {
		var line strings.Builder
		for i, cell := range row {
			if i > 0 {
				line.WriteString("  ")
			}
			line.WriteString(cell)
			if i < len(row)-1 {
				line.WriteString(strings.Repeat(" ", widths[i]-lipgloss.Width(cell)))
			}
		}
		b.WriteString(strings.TrimRight(line.String(), " "))
		b.WriteByte('\n')
	}
	return b.String()
}

// RenderError renders an error as plain text
func (r *Renderer) RenderError(err error) error {
	_, err2 := fmt.Fprintf(r.output, "Error: %v\n", err)
	return err2
}

// RenderMessage renders a simple message
func (r *Renderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.output, msg)
	return err
}
