// Package panel holds the state of one directory view: current directory,
// listing, cursor and sort order. Two Models make up the twin-panel layout.
package panel

import (
	"errors"
	"path/filepath"

	"github.com/gobwas/glob"

	"twc/internal/fsys"
)

// Cd error conditions. The UI treats all three as silent no-ops.
var (
	ErrNoSelection      = errors.New("no entry selected")
	ErrAtFilesystemRoot = errors.New("already at the filesystem root")
	ErrNotADirectory    = errors.New("selected entry is not a directory")
)

// noSelection is the cursor value for an empty listing.
const noSelection = -1

// Model owns one panel's state. It is not safe for concurrent use; the UI
// drives it from its single event loop.
type Model struct {
	cwd       string
	entries   fsys.List
	selection int
	key       SortKey
	filter    fsys.FilterOptions
}

// New creates a panel rooted at cwd with the given sort order. Call Load to
// populate it.
func New(cwd string, key SortKey) *Model {
	return &Model{
		cwd:       filepath.Clean(cwd),
		selection: noSelection,
		key:       key,
	}
}

// Load performs the initial list+sort+sentinel-inject and places the cursor
// on the first entry.
func (m *Model) Load() error {
	if err := m.List(); err != nil {
		return err
	}
	if len(m.entries) > 0 {
		m.selection = 0
	}
	return nil
}

// List re-reads the current directory, sorts it and injects the parent
// sentinel. On error the model keeps its previous directory and entries, so
// the panel never silently points at an unreadable path.
func (m *Model) List() error {
	entries, err := fsys.ReadDir(m.cwd, m.filter)
	if err != nil {
		return err
	}
	m.entries = m.withParentSentinel(entries)
	Sort(m.entries, m.key)
	return nil
}

// Refresh re-lists after external changes and clamps the cursor so it stays
// on a valid entry. Listing errors leave the previous snapshot in place.
func (m *Model) Refresh() {
	if err := m.List(); err != nil {
		return
	}
	switch {
	case len(m.entries) == 0:
		m.selection = noSelection
	case m.selection < 0:
		m.selection = 0
	case m.selection >= len(m.entries):
		m.selection = len(m.entries) - 1
	}
}

// Cd interprets the current selection: the ".." sentinel walks up and
// re-selects the directory just left, a directory entry descends, a file
// yields ErrNotADirectory. The model is unchanged on any error.
func (m *Model) Cd() error {
	selected, ok := m.Selected()
	if !ok {
		return ErrNoSelection
	}

	if selected.IsParent() {
		return m.cdParent()
	}
	if !selected.IsDir {
		return ErrNotADirectory
	}
	return m.cdInto(selected.Name)
}

func (m *Model) cdParent() error {
	parent := filepath.Dir(m.cwd)
	if parent == m.cwd {
		return ErrAtFilesystemRoot
	}
	leftBehind := filepath.Base(m.cwd)

	prevCwd, prevEntries, prevSelection := m.cwd, m.entries, m.selection
	m.cwd = parent
	if err := m.List(); err != nil {
		m.cwd, m.entries, m.selection = prevCwd, prevEntries, prevSelection
		return err
	}

	// Put the cursor back on the directory the user just came from.
	m.selection = 0
	for i, entry := range m.entries {
		if entry.IsDir && !entry.IsParent() && entry.Name == leftBehind {
			m.selection = i
			break
		}
	}
	return nil
}

func (m *Model) cdInto(name string) error {
	prevCwd, prevEntries, prevSelection := m.cwd, m.entries, m.selection
	m.cwd = filepath.Join(m.cwd, name)
	if err := m.List(); err != nil {
		m.cwd, m.entries, m.selection = prevCwd, prevEntries, prevSelection
		return err
	}
	if len(m.entries) > 0 {
		m.selection = 0
	} else {
		m.selection = noSelection
	}
	return nil
}

// SelectNext moves the cursor down, wrapping to the top.
func (m *Model) SelectNext() {
	if len(m.entries) == 0 {
		return
	}
	m.selection = (m.selection + 1) % len(m.entries)
}

// SelectPrevious moves the cursor up, wrapping to the bottom.
func (m *Model) SelectPrevious() {
	if len(m.entries) == 0 {
		return
	}
	m.selection--
	if m.selection < 0 {
		m.selection = len(m.entries) - 1
	}
}

// SelectFirst moves the cursor to the top of the listing.
func (m *Model) SelectFirst() {
	if len(m.entries) == 0 {
		return
	}
	m.selection = 0
}

// SelectLast moves the cursor to the bottom of the listing.
func (m *Model) SelectLast() {
	if len(m.entries) == 0 {
		return
	}
	m.selection = len(m.entries) - 1
}

// SetSortKey re-sorts the current listing in place without re-listing.
func (m *Model) SetSortKey(key SortKey) {
	m.key = key
	Sort(m.entries, m.key)
}

// SetShowHidden toggles dotfile visibility and re-lists.
func (m *Model) SetShowHidden(show bool) {
	m.filter.ShowHidden = show
	m.Refresh()
}

// SetFilterPattern narrows the listing to file names matching pattern; nil
// clears the filter. Directories always stay visible.
func (m *Model) SetFilterPattern(pattern glob.Glob) {
	m.filter.Pattern = pattern
	m.Refresh()
}

// Entries returns the current listing.
func (m *Model) Entries() fsys.List {
	return m.entries
}

// Selection returns the cursor index, -1 when the listing is empty.
func (m *Model) Selection() int {
	return m.selection
}

// Selected returns the entry under the cursor.
func (m *Model) Selected() (fsys.Entry, bool) {
	if m.selection < 0 || m.selection >= len(m.entries) {
		return fsys.Entry{}, false
	}
	return m.entries[m.selection], true
}

// SelectedPath returns the absolute path of the entry under the cursor.
// The parent sentinel is not a real path and reports false.
func (m *Model) SelectedPath() (string, bool) {
	selected, ok := m.Selected()
	if !ok || selected.IsParent() {
		return "", false
	}
	return filepath.Join(m.cwd, selected.Name), true
}

// Pwd returns the panel's current directory.
func (m *Model) Pwd() string {
	return m.cwd
}

// SortKey returns the active sort order.
func (m *Model) SortKey() SortKey {
	return m.key
}

// ShowHidden reports whether dotfiles are listed.
func (m *Model) ShowHidden() bool {
	return m.filter.ShowHidden
}

func (m *Model) withParentSentinel(entries fsys.List) fsys.List {
	if filepath.Dir(m.cwd) == m.cwd {
		return entries
	}
	withParent := make(fsys.List, 0, len(entries)+1)
	withParent = append(withParent, fsys.NewParentEntry())
	return append(withParent, entries...)
}
