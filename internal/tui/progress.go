package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mwhsu/dataferry/internal/sheets"
)

// progressBarWidth is the rendered width of the batch progress bar.
const progressBarWidth = 40

// BatchMsg carries one sync progress update into the model.
type BatchMsg sheets.Progress

// DoneMsg signals that the sync finished (successfully or not) and the
// display should exit.
type DoneMsg struct{ Err error }

// PushModel is the Bubble Tea model rendering chunked push progress. It is
// driven externally: the goroutine running the sync sends BatchMsg values
// through the program and a final DoneMsg.
type PushModel struct {
	worksheet string
	bar       progress.Model

	batch        int
	totalBatches int
	rowsWritten  int
	totalRows    int

	done bool
	err  error
}

// NewPushModel creates a progress model for a push to the named worksheet.
func NewPushModel(worksheet string) PushModel {
	return PushModel{
		worksheet: worksheet,
		bar:       progress.New(progress.WithDefaultGradient(), progress.WithWidth(progressBarWidth)),
	}
}

// Init implements tea.Model.
func (m PushModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m PushModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case BatchMsg:
		m.batch = msg.Batch
		m.totalBatches = msg.TotalBatches
		m.rowsWritten = msg.RowsWritten
		m.totalRows = msg.TotalRows
		return m, nil
	case DoneMsg:
		m.done = true
		m.err = msg.Err
		return m, tea.Quit
	case tea.KeyMsg:
		// The sync cannot be cancelled midway; keys are ignored so a
		// stray ctrl+c does not tear down the display under it.
		return m, nil
	default:
		return m, nil
	}
}

// View implements tea.Model.
func (m PushModel) View() string {
	if m.done {
		if m.err != nil {
			return fmt.Sprintf("push to %q failed: %v\n", m.worksheet, m.err)
		}
		return fmt.Sprintf("push to %q complete (%d rows)\n", m.worksheet, m.totalRows)
	}

	if m.totalRows == 0 {
		return fmt.Sprintf("pushing to %q...\n", m.worksheet)
	}

	ratio := float64(m.rowsWritten) / float64(m.totalRows)
	return fmt.Sprintf(
		"pushing to %q: batch %d/%d\n%s %d/%d rows\n",
		m.worksheet, m.batch, m.totalBatches,
		m.bar.ViewAs(ratio), m.rowsWritten, m.totalRows,
	)
}
