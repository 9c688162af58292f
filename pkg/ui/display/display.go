// Package display turns results into the rows and lines shared by the
// human-readable renderers.
package display

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/endfix/pkg/core"
)

// Activation is the result of delivering one dimension load
type Activation struct {
	WorldDir  string `json:"world_dir" yaml:"world_dir" toml:"world_dir"`
	Dimension string `json:"dimension" yaml:"dimension" toml:"dimension"`
	Fired     bool   `json:"fired" yaml:"fired" toml:"fired"`
}

// Line describes the activation in one sentence
func (a *Activation) Line() string {
	if a.Fired {
		return fmt.Sprintf("Reset command dispatched for %s on %s", filepath.Base(a.WorldDir), a.Dimension)
	}
	return fmt.Sprintf("Nothing pending for %s on %s", filepath.Base(a.WorldDir), a.Dimension)
}

// Header is the column set of a world table
var Header = []string{"World", "Status", "Reason", "Detail"}

// Row is one world in table form
type Row struct {
	World  string
	Status string
	Reason string
	Detail string
}

// Cells returns the row in Header order
func (r Row) Cells() []string {
	return []string{r.World, r.Status, r.Reason, r.Detail}
}

// Rows builds one row per world in report order
func Rows(report *core.Report) []Row {
	rows := make([]Row, 0, len(report.Worlds))
	for _, w := range report.Worlds {
		rows = append(rows, Row{
			World:  w.Name(),
			Status: string(w.Status),
			Reason: string(w.Result.Reason),
			Detail: detail(w),
		})
	}
	return rows
}

func detail(w core.WorldReport) string {
	var parts []string
	switch w.Status {
	case core.StatusFixed:
		if w.Outcome != nil {
			parts = append(parts, "backup "+filepath.Base(w.Outcome.Backup))
			if w.Outcome.Archived != nil {
				parts = append(parts, fmt.Sprintf("archived %d files", w.Outcome.Archived.Files))
			}
		}
	case core.StatusFailed:
		if w.Step != "" {
			parts = append(parts, "at "+w.Step)
		}
		parts = append(parts, w.Error)
	case core.StatusSkipped:
		if w.Error != "" {
			parts = append(parts, w.Error)
		}
	case core.StatusNeedsFix:
		parts = append(parts, "generator "+w.Result.GeneratorType)
	}
	if w.MarkerPending && w.Status != core.StatusFixed {
		parts = append(parts, "reset pending")
	}
	return strings.Join(parts, ", ")
}

// Summary describes the pass in one line
func Summary(report *core.Report) string {
	if report.Error != "" {
		return "Startup pass aborted: " + report.Error
	}
	if len(report.Worlds) == 0 {
		return fmt.Sprintf("No worlds found in %s", report.GameDir)
	}

	var parts []string
	if report.DryRun {
		parts = append(parts, fmt.Sprintf("%d of %d worlds need fixing", report.NeedsFix(), len(report.Worlds)))
	} else {
		parts = append(parts, fmt.Sprintf("%d fixed", report.Fixed))
		if report.Failed > 0 {
			parts = append(parts, fmt.Sprintf("%d failed", report.Failed))
		}
		parts = append(parts, fmt.Sprintf("%d checked", len(report.Worlds)))
	}
	if report.PendingMarkers > 0 {
		parts = append(parts, fmt.Sprintf("%d reset pending", report.PendingMarkers))
	}
	if report.TriggerRegistered {
		parts = append(parts, "trigger registered")
	}
	return strings.Join(parts, ", ")
}
