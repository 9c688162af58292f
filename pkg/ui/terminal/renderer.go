// Package terminal provides rich terminal output with colors and styling
package terminal

import (
	"fmt"
	"io"

	"github.com/arthur-debert/endfix/pkg/core"
	"github.com/arthur-debert/endfix/pkg/errors"
	"github.com/arthur-debert/endfix/pkg/style"
	"github.com/arthur-debert/endfix/pkg/ui/display"
	"github.com/pterm/pterm"
)

// Renderer provides rich terminal output using pterm tables and lipgloss styles
type Renderer struct {
	output io.Writer
}

// New creates a new terminal renderer
func New(w io.Writer) (*Renderer, error) {
	return &Renderer{output: w}, nil
}

// RenderResult renders any result type with rich terminal formatting
func (r *Renderer) RenderResult(result interface{}) error {
	switch v := result.(type) {
	case *core.Report:
		return r.renderReport(v)
	case *display.Activation:
		indicator := style.PendingIndicator
		if v.Fired {
			indicator = style.SuccessIndicator
		}
		_, err := fmt.Fprintf(r.output, "%s %s\n", indicator, v.Line())
		return err
	default:
		// For unknown types, just print them
		_, err := fmt.Fprintf(r.output, "%+v\n", result)
		return err
	}
}

func (r *Renderer) renderReport(report *core.Report) error {
	if _, err := fmt.Fprintln(r.output, style.Render("[title]Game directory[/title] [path]"+report.GameDir+"[/path]")); err != nil {
		return err
	}

	rows := display.Rows(report)
	if len(rows) > 0 {
		data := [][]string{display.Header}
		for _, row := range rows {
			cells := row.Cells()
			cells[1] = style.StatusIndicator(row.Status) + " " + style.Badge(row.Status)
			data = append(data, cells)
		}
		table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(r.output, table); err != nil {
			return err
		}
	}

	summary := display.Summary(report)
	switch {
	case report.Error != "" || report.Failed > 0:
		summary = style.ErrorStyle.Render(summary)
	case report.Fixed > 0:
		summary = style.SuccessStyle.Render(summary)
	default:
		summary = style.MutedStyle.Render(summary)
	}
	_, err := fmt.Fprintln(r.output, summary)
	return err
}

// RenderError renders an error with its code
func (r *Renderer) RenderError(err error) error {
	msg := err.Error()
	if code := errors.GetErrorCode(err); code != errors.ErrUnknown {
		msg = fmt.Sprintf("%s (%s)", msg, code)
	}
	_, werr := io.WriteString(r.output, pterm.Error.Sprintln(msg))
	return werr
}

// RenderMessage renders a simple message
func (r *Renderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.output, style.InfoIndicator+" "+style.Render(msg))
	return err
}
