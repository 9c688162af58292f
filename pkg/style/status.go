package style

import (
	"fmt"

	"github.com/pterm/pterm"
)

// Status names as they appear in reports
const (
	StatusHealthy  = "healthy"
	StatusSkipped  = "skipped"
	StatusNeedsFix = "needs_fix"
	StatusFixed    = "fixed"
	StatusFailed   = "failed"
)

// StatusStyle returns the pterm style used for a world status badge
func StatusStyle(status string) *pterm.Style {
	switch status {
	case StatusFixed:
		return pterm.NewStyle(pterm.BgGreen, pterm.FgWhite)
	case StatusFailed:
		return pterm.NewStyle(pterm.BgRed, pterm.FgWhite, pterm.Bold)
	case StatusNeedsFix:
		return pterm.NewStyle(pterm.BgYellow, pterm.FgBlack)
	case StatusHealthy:
		return pterm.NewStyle(pterm.FgGreen)
	default:
		return pterm.NewStyle(pterm.FgGray)
	}
}

// StatusIndicator returns the glyph shown next to a world status
func StatusIndicator(status string) string {
	switch status {
	case StatusFixed, StatusHealthy:
		return SuccessIndicator
	case StatusFailed:
		return ErrorIndicator
	case StatusNeedsFix:
		return WarningIndicator
	default:
		return PendingIndicator
	}
}

// Badge renders a padded status badge
func Badge(status string) string {
	return StatusStyle(status).Sprint(fmt.Sprintf(" %-9s ", status))
}
