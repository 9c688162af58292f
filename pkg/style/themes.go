package style

import (
	"github.com/charmbracelet/lipgloss"
)

// Color definitions using AdaptiveColor for automatic light/dark mode switching
var (
	PrimaryColor = lipgloss.AdaptiveColor{
		Light: "#5B3F8C", // End purple
		Dark:  "#B79CED",
	}

	SecondaryColor = lipgloss.AdaptiveColor{
		Light: "#6C757D",
		Dark:  "#A0A8B0",
	}

	SuccessColor = lipgloss.AdaptiveColor{
		Light: "#28A745",
		Dark:  "#4CDD76",
	}

	ErrorColor = lipgloss.AdaptiveColor{
		Light: "#DC3545",
		Dark:  "#FF6B7D",
	}

	WarningColor = lipgloss.AdaptiveColor{
		Light: "#B8860B",
		Dark:  "#FFD54F",
	}

	InfoColor = lipgloss.AdaptiveColor{
		Light: "#17A2B8",
		Dark:  "#4DD0E1",
	}

	HeadingColor = lipgloss.AdaptiveColor{
		Light: "#212529",
		Dark:  "#F8F9FA",
	}

	MutedColor = lipgloss.AdaptiveColor{
		Light: "#6C757D",
		Dark:  "#ADB5BD",
	}
)

// Save specific colors
var (
	// GeneratorColor highlights generator identifiers
	GeneratorColor = lipgloss.AdaptiveColor{
		Light: "#8B5CF6",
		Dark:  "#A78BFA",
	}

	// MarkerColor highlights pending command markers
	MarkerColor = lipgloss.AdaptiveColor{
		Light: "#F59E0B",
		Dark:  "#FBBF24",
	}
)
