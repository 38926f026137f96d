package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/mwhsu/dataferry/internal/frame"
	"github.com/mwhsu/dataferry/internal/sheets"
)

// Summary box rendering constants.
const (
	summaryBoxWidth = 48
	timeRounding    = time.Millisecond
)

// RenderPushSummary renders the post-push report as a bordered box.
func RenderPushSummary(worksheet string, report *sheets.Report) string {
	titleStyle := lipgloss.NewStyle().Bold(true)
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("33"))
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1).
		Width(summaryBoxWidth)

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Pushed to %q", worksheet)))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%s %s rows x %d cols\n",
		labelStyle.Render("Data:"), frame.FormatNumber(int64(report.Rows)), report.Cols))
	b.WriteString(fmt.Sprintf("%s %d\n", labelStyle.Render("Batches:"), report.Batches))
	b.WriteString(fmt.Sprintf("%s resized=%v trimmed=%v\n",
		labelStyle.Render("Worksheet:"), report.Resized, report.Trimmed))
	b.WriteString(fmt.Sprintf("%s %s", labelStyle.Render("Duration:"), report.Duration.Round(timeRounding)))

	return boxStyle.Render(b.String())
}
