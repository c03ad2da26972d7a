package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"twc/internal/panel"
	"twc/internal/transfer"
)

// dialog is the one modal slot of the UI. handleKey reports whether the
// dialog is done and should be dismissed; tick forwards the UI clock for
// engine polling.
type dialog interface {
	handleKey(msg tea.KeyMsg) (done bool)
	tick() (done bool)
	view() string
}

func renderButtons(okFocused bool, ok, cancel string) string {
	okStyle, cancelStyle := focusedButtonStyle, buttonStyle
	if !okFocused {
		okStyle, cancelStyle = buttonStyle, focusedButtonStyle
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		okStyle.Render("[ "+ok+" ]"), " ", cancelStyle.Render("[ "+cancel+" ]"))
}

// transferDialog runs one copy or move through its engine's state machine.
type transferDialog struct {
	engine    *transfer.Engine
	okFocused bool
	totalBar  progress.Model
	fileBar   progress.Model
}

func newTransferDialog(engine *transfer.Engine) *transferDialog {
	total := progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())
	file := progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())
	return &transferDialog{engine: engine, okFocused: true, totalBar: total, fileBar: file}
}

func (d *transferDialog) handleKey(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "enter":
		if d.engine.State() != transfer.StateAwaitingConfirmation {
			return false
		}
		if d.okFocused {
			d.engine.Confirm()
			return false
		}
		d.engine.Cancel()
		return true
	case "left", "right", "up", "down", "tab":
		d.okFocused = !d.okFocused
	case "esc":
		// Only before confirmation; a running transfer cannot be aborted.
		if d.engine.State() == transfer.StateAwaitingConfirmation {
			d.engine.Cancel()
			return true
		}
	}
	return false
}

func (d *transferDialog) tick() bool {
	d.engine.Poll()
	return d.engine.State() == transfer.StateFinished
}

func (d *transferDialog) view() string {
	switch d.engine.State() {
	case transfer.StateAwaitingConfirmation:
		return d.confirmationView()
	case transfer.StateRunning:
		return d.progressView()
	default:
		return ""
	}
}

func (d *transferDialog) confirmationView() string {
	body := lipgloss.JoinVertical(lipgloss.Left,
		dialogTitleStyle.Render(d.engine.StrategyName()+" file(s)"),
		"",
		"Source:",
		pathStyle.Render(d.engine.Source()),
		"Destination:",
		pathStyle.Render(d.engine.Destination()),
		"",
		renderButtons(d.okFocused, "OK", "Cancel"),
	)
	return dialogStyle.Render(body)
}

func (d *transferDialog) progressView() string {
	sample, _ := d.engine.Progress()

	totalPct := float64(transfer.Percent(sample.Done, sample.Total)) / 100.0
	filePct := float64(transfer.Percent(sample.FileDone, sample.FileTotal)) / 100.0

	elapsed := d.engine.Elapsed()
	secs := int(elapsed.Seconds()) % 60
	mins := int(elapsed.Minutes()) % 60
	hours := int(elapsed.Hours())

	body := lipgloss.JoinVertical(lipgloss.Left,
		dialogTitleStyle.Render(d.engine.StrategyName()+" in progress"),
		"",
		"Current: "+sample.FileName,
		"To: "+d.engine.Destination(),
		d.totalBar.ViewAs(totalPct),
		d.fileBar.ViewAs(filePct),
		fmt.Sprintf("%s/%s   %dh:%dm:%ds",
			humanize.Bytes(sample.Done), humanize.Bytes(sample.Total),
			hours, mins, secs),
	)
	return dialogStyle.Render(body)
}

// deleteDialog confirms and runs a best-effort batch removal.
type deleteDialog struct {
	deleter   *transfer.Deleter
	okFocused bool
}

func newDeleteDialog(deleter *transfer.Deleter) *deleteDialog {
	// Cancel starts focused; deletion takes a deliberate move to OK.
	return &deleteDialog{deleter: deleter, okFocused: false}
}

func (d *deleteDialog) handleKey(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "enter":
		if d.okFocused {
			d.deleter.Confirm()
		} else {
			d.deleter.Cancel()
		}
		return true
	case "left", "right", "up", "down", "tab":
		d.okFocused = !d.okFocused
	case "esc":
		d.deleter.Cancel()
		return true
	}
	return false
}

func (d *deleteDialog) tick() bool {
	return d.deleter.State() == transfer.Deleted
}

func (d *deleteDialog) view() string {
	name := ""
	if targets := d.deleter.Targets(); len(targets) == 1 {
		name = targets[0]
	}
	body := lipgloss.JoinVertical(lipgloss.Center,
		dialogTitleStyle.Render("Delete"),
		"",
		d.deleter.ConfirmMessage(),
		errorStyle.Render(name),
		"",
		renderButtons(d.okFocused, "OK", "Cancel"),
	)
	return dialogStyle.Render(body)
}

// mkdirDialog creates a directory in the active panel's pwd.
type mkdirDialog struct {
	parent string
	input  textinput.Model
	err    string
}

func newMkdirDialog(parent string) *mkdirDialog {
	input := textinput.New()
	input.Placeholder = "directory name"
	input.CharLimit = 255
	input.Focus()
	return &mkdirDialog{parent: parent, input: input}
}

func (d *mkdirDialog) handleKey(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "enter":
		name := strings.TrimSpace(d.input.Value())
		if name == "" {
			return false
		}
		if err := os.Mkdir(filepath.Join(d.parent, name), 0o755); err != nil {
			d.err = err.Error()
			return false
		}
		return true
	case "esc":
		return true
	default:
		d.input, _ = d.input.Update(msg)
	}
	return false
}

func (d *mkdirDialog) tick() bool { return false }

func (d *mkdirDialog) view() string {
	lines := []string{
		dialogTitleStyle.Render("Create directory"),
		"",
		"In: " + pathStyle.Render(d.parent),
		d.input.View(),
	}
	if d.err != "" {
		lines = append(lines, errorStyle.Render(d.err))
	}
	return dialogStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// sortDialog picks the active panel's (predicate, direction) pair.
type sortDialog struct {
	key    panel.SortKey
	chosen bool
}

func newSortDialog(current panel.SortKey) *sortDialog {
	return &sortDialog{key: current}
}

func (d *sortDialog) handleKey(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "down":
		switch d.key.Predicate {
		case panel.ByName:
			d.key.Predicate = panel.BySize
		case panel.BySize:
			d.key.Predicate = panel.ByModified
		default:
			d.key.Predicate = panel.ByName
		}
	case "up":
		switch d.key.Predicate {
		case panel.ByName:
			d.key.Predicate = panel.ByModified
		case panel.ByModified:
			d.key.Predicate = panel.BySize
		default:
			d.key.Predicate = panel.ByName
		}
	case "left", "right", "tab":
		d.key.Direction.Reverse()
	case "enter":
		d.chosen = true
		return true
	case "esc":
		return true
	}
	return false
}

func (d *sortDialog) tick() bool { return false }

func (d *sortDialog) view() string {
	rows := make([]string, 0, 3)
	for _, p := range []panel.Predicate{panel.ByName, panel.BySize, panel.ByModified} {
		marker := "[ ] "
		if p == d.key.Predicate {
			marker = "[x] "
		}
		rows = append(rows, marker+p.String())
	}
	body := lipgloss.JoinVertical(lipgloss.Left,
		dialogTitleStyle.Render("Sort by"),
		"",
		lipgloss.JoinVertical(lipgloss.Left, rows...),
		"",
		"Direction: "+d.key.Direction.String(),
		statusStyle.Render("enter apply · esc keep current"),
	)
	return dialogStyle.Render(body)
}

// helpDialog lists the key controls. Static; dismissed like any notice.
type helpDialog struct{}

func (d *helpDialog) handleKey(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "enter", "esc", "f1":
		return true
	}
	return false
}

func (d *helpDialog) tick() bool { return false }

func (d *helpDialog) view() string {
	bindings := []struct{ key, action string }{
		{"tab", "change panel"},
		{"up/down", "move cursor"},
		{"home/end", "first/last entry"},
		{"enter", "change directory"},
		{"F5", "copy to other panel"},
		{"F6", "move to other panel"},
		{"F7", "create directory"},
		{"F8/del", "delete"},
		{"F9", "sort order"},
		{"ctrl+h", "toggle hidden files"},
		{"ctrl+r", "refresh panels"},
		{"q/F10", "exit"},
	}

	rows := make([]string, 0, len(bindings))
	for _, b := range bindings {
		rows = append(rows, menuKeyStyle.Render(fmt.Sprintf(" %-8s ", b.key))+" "+b.action)
	}
	body := lipgloss.JoinVertical(lipgloss.Left,
		dialogTitleStyle.Render("Key Controls"),
		"",
		lipgloss.JoinVertical(lipgloss.Left, rows...),
		"",
		statusStyle.Render("enter close"),
	)
	return dialogStyle.Render(body)
}

// messageDialog shows a dismissible error or notice.
type messageDialog struct {
	title string
	text  string
}

func (d *messageDialog) handleKey(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "enter", "esc":
		return true
	}
	return false
}

func (d *messageDialog) tick() bool { return false }

func (d *messageDialog) view() string {
	body := lipgloss.JoinVertical(lipgloss.Center,
		dialogTitleStyle.Render(d.title),
		"",
		errorStyle.Render(d.text),
		"",
		focusedButtonStyle.Render("[ OK ]"),
	)
	return dialogStyle.Render(body)
}
