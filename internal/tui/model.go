// Package tui is the twin-panel terminal frontend: two directory views, a
// bottom function-key menu and one modal dialog slot. All state changes run
// on the bubbletea event loop; only transfer workers run concurrently.
package tui

import (
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"twc/internal/config"
	"twc/internal/log"
	"twc/internal/panel"
	"twc/internal/transfer"
	"twc/internal/watch"
)

type side int

const (
	leftSide side = iota
	rightSide
)

type tickMsg time.Time

// Model is the bubbletea root model.
type Model struct {
	cfg        *config.Config
	cfgPath    string
	leftPanel  *panel.Model
	rightPanel *panel.Model
	active     side

	watcher *watch.Watcher
	dlg     dialog

	tickEvery time.Duration
	width     int
	height    int
	quitting  bool
}

// New builds the UI from the persisted configuration, which is written back
// to cfgPath on exit. A panel whose saved directory is gone falls back to
// the filesystem root.
func New(cfg *config.Config, cfgPath string) *Model {
	m := &Model{
		cfg:        cfg,
		cfgPath:    cfgPath,
		leftPanel:  loadPanel(cfg.Left, cfg.Settings.ShowHidden),
		rightPanel: loadPanel(cfg.Right, cfg.Settings.ShowHidden),
		tickEvery:  time.Duration(cfg.Settings.TickIntervalMs) * time.Millisecond,
	}

	watcher, err := watch.New()
	if err != nil {
		log.Warnf("panel auto-refresh disabled: %v", err)
	} else {
		m.watcher = watcher
		watcher.Watch("", m.leftPanel.Pwd())
		watcher.Watch("", m.rightPanel.Pwd())
	}
	return m
}

func loadPanel(pc config.PanelConfig, showHidden bool) *panel.Model {
	p := panel.New(pc.Path, pc.SortKey())
	p.SetShowHidden(showHidden)
	if err := p.Load(); err != nil {
		log.Warnf("cannot list %s, falling back to %s: %v", pc.Path, config.FallbackPath, err)
		p = panel.New(config.FallbackPath, pc.SortKey())
		p.SetShowHidden(showHidden)
		if err := p.Load(); err != nil {
			log.Errorf("cannot list fallback directory: %v", err)
		}
	}
	return p
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.tickCmd()
}

func (m *Model) tickCmd() tea.Cmd {
	return tea.Tick(m.tickEvery, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		m.onTick()
		return m, m.tickCmd()

	case tea.KeyMsg:
		if m.dlg != nil {
			if m.dlg.handleKey(msg) {
				m.closeDialog()
			}
			return m, nil
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) onTick() {
	if m.dlg != nil && m.dlg.tick() {
		m.closeDialog()
	}
	m.drainWatcher()
}

// drainWatcher applies at most a handful of pending refresh hints per tick.
func (m *Model) drainWatcher() {
	if m.watcher == nil {
		return
	}
	for i := 0; i < 8; i++ {
		select {
		case event, ok := <-m.watcher.Events():
			if !ok {
				m.watcher = nil
				return
			}
			if event.Dir == m.leftPanel.Pwd() {
				m.leftPanel.Refresh()
			}
			if event.Dir == m.rightPanel.Pwd() {
				m.rightPanel.Refresh()
			}
		default:
			return
		}
	}
}

// closeDialog dismisses the modal and refreshes both panels; every dialog
// may have mutated the filesystem.
func (m *Model) closeDialog() {
	if d, ok := m.dlg.(*sortDialog); ok && d.chosen {
		m.activeModel().SetSortKey(d.key)
	}
	m.dlg = nil
	m.leftPanel.Refresh()
	m.rightPanel.Refresh()
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	active := m.activeModel()

	switch msg.String() {
	case "ctrl+c", "q", "f10":
		m.shutdown()
		return m, tea.Quit

	case "tab":
		if m.active == leftSide {
			m.active = rightSide
		} else {
			m.active = leftSide
		}

	case "up":
		active.SelectPrevious()
	case "down":
		active.SelectNext()
	case "home":
		active.SelectFirst()
	case "end":
		active.SelectLast()

	case "enter":
		m.enterSelected()

	case "f1":
		m.dlg = &helpDialog{}
	case "f5":
		m.openTransferDialog(transfer.CopyStrategy{BufferSize: m.cfg.Settings.CopyBufferSize})
	case "f6":
		m.openTransferDialog(transfer.MoveStrategy{BufferSize: m.cfg.Settings.CopyBufferSize})
	case "f7":
		m.dlg = newMkdirDialog(active.Pwd())
	case "f8", "delete":
		if path, ok := active.SelectedPath(); ok {
			m.dlg = newDeleteDialog(transfer.NewDeleter([]string{path}))
		}
	case "f9":
		m.dlg = newSortDialog(active.SortKey())

	case "ctrl+h":
		active.SetShowHidden(!active.ShowHidden())
	case "ctrl+r":
		m.leftPanel.Refresh()
		m.rightPanel.Refresh()
	}
	return m, nil
}

// enterSelected descends into the selection. Navigation errors are silent
// no-ops; real I/O errors get a message box.
func (m *Model) enterSelected() {
	active := m.activeModel()
	before := active.Pwd()

	err := active.Cd()
	switch {
	case err == nil:
		if m.watcher != nil && before != active.Pwd() {
			m.watcher.Watch(before, active.Pwd())
		}
	case errors.Is(err, panel.ErrNoSelection),
		errors.Is(err, panel.ErrAtFilesystemRoot),
		errors.Is(err, panel.ErrNotADirectory):
		// silent no-ops
	default:
		m.dlg = &messageDialog{title: "Error", text: err.Error()}
	}
}

// openTransferDialog builds an engine from the active panel's selection and
// the other panel's directory. Nothing happens without a selected entry.
func (m *Model) openTransferDialog(strategy transfer.Strategy) {
	source, ok := m.activeModel().SelectedPath()
	if !ok {
		return
	}
	destination := m.inactiveModel().Pwd()
	m.dlg = newTransferDialog(transfer.NewEngine(strategy, source, destination))
}

// shutdown persists both panels' (cwd, sort) and stops the watcher.
func (m *Model) shutdown() {
	m.quitting = true
	if m.watcher != nil {
		m.watcher.Close()
	}

	m.cfg.Left.Path = m.leftPanel.Pwd()
	m.cfg.Left.SetSortKey(m.leftPanel.SortKey())
	m.cfg.Right.Path = m.rightPanel.Pwd()
	m.cfg.Right.SetSortKey(m.rightPanel.SortKey())
	if err := m.cfg.Save(m.cfgPath); err != nil {
		log.Errorf("saving configuration: %v", err)
	}
}

func (m *Model) activeModel() *panel.Model {
	if m.active == leftSide {
		return m.leftPanel
	}
	return m.rightPanel
}

func (m *Model) inactiveModel() *panel.Model {
	if m.active == leftSide {
		return m.rightPanel
	}
	return m.leftPanel
}
