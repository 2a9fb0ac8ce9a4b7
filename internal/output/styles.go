package output

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/ozledger/taxengine/internal/domain"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("250"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	valueStyle   = lipgloss.NewStyle().Bold(true)
	noteStyle    = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("244"))

	severityStyles = map[domain.Severity]lipgloss.Style{
		domain.SeverityLow:      lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		domain.SeverityMedium:   lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		domain.SeverityHigh:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("208")),
		domain.SeverityCritical: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
	}
)

// renderSeverity colours a severity for console output.
func renderSeverity(s domain.Severity) string {
	if style, ok := severityStyles[s]; ok {
		return style.Render(string(s))
	}
	return string(s)
}

// renderRiskLevel colours the three-step composition risk using the matching
// severity palette.
func renderRiskLevel(l domain.RiskLevel) string {
	switch l {
	case domain.RiskHigh:
		return severityStyles[domain.SeverityHigh].Render(string(l))
	case domain.RiskMedium:
		return severityStyles[domain.SeverityMedium].Render(string(l))
	default:
		return severityStyles[domain.SeverityLow].Render(string(l))
	}
}
