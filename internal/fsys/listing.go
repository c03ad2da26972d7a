// Package fsys provides directory listing primitives for the panels.
// A listing is a snapshot: metadata failures on individual entries degrade
// to placeholder values instead of aborting the whole read.
package fsys

import (
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gobwas/glob"
)

// ParentDir is the synthetic entry name representing "go to parent directory".
// It is injected by the panel model, never produced by ReadDir.
const ParentDir = ".."

// TimeLayout is the display format for last-modified timestamps.
const TimeLayout = "2006.01.02 15:04"

// TimePlaceholder is shown when a timestamp cannot be read.
const TimePlaceholder = "N/A"

// Entry describes a single filesystem entry of a directory listing.
type Entry struct {
	Name     string
	IsDir    bool
	Size     uint64
	HasSize  bool // false for directories and the parent sentinel
	Modified string
}

// IsParent reports whether the entry is the ".." navigation sentinel.
func (e Entry) IsParent() bool {
	return e.Name == ParentDir
}

// IsHidden reports whether the entry is a dotfile.
func (e Entry) IsHidden() bool {
	return !e.IsParent() && strings.HasPrefix(e.Name, ".")
}

// DisplaySize returns a humanized size string, empty when the entry has none.
func (e Entry) DisplaySize() string {
	if !e.HasSize {
		return ""
	}
	return humanize.Bytes(e.Size)
}

// List is one directory snapshot, ordered by the panel's sorter.
type List []Entry

// FilterOptions narrows a directory read.
type FilterOptions struct {
	// ShowHidden keeps dotfiles in the listing.
	ShowHidden bool
	// Pattern, when non-nil, keeps only files whose name matches.
	// Directories always pass so navigation cannot dead-end.
	Pattern glob.Glob
}

// NewParentEntry returns the ".." sentinel entry.
func NewParentEntry() Entry {
	return Entry{Name: ParentDir, IsDir: true}
}

// ReadDir lists path into a snapshot. Errors reading the directory itself are
// returned; errors reading a single entry's metadata are swallowed and the
// affected fields carry placeholders.
func ReadDir(path string, opts FilterOptions) (List, error) {
	dirEntries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", path, err)
	}

	entries := make(List, 0, len(dirEntries))
	for _, de := range dirEntries {
		name := de.Name()
		if !opts.ShowHidden && strings.HasPrefix(name, ".") {
			continue
		}
		if opts.Pattern != nil && !de.IsDir() && !opts.Pattern.Match(name) {
			continue
		}
		entries = append(entries, newEntry(de))
	}
	return entries, nil
}

func newEntry(de os.DirEntry) Entry {
	entry := Entry{
		Name:     de.Name(),
		IsDir:    de.IsDir(),
		Modified: TimePlaceholder,
	}

	info, err := de.Info()
	if err != nil {
		return entry
	}
	if !info.IsDir() {
		entry.Size = uint64(info.Size())
		entry.HasSize = true
	}
	entry.Modified = info.ModTime().Format(TimeLayout)
	return entry
}
