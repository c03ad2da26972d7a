package transfer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// DefaultBufferSize is the chunk size for copy loops when the config does
// not override it.
const DefaultBufferSize = 8 * 1024 * 1024

// Strategy is a pluggable transfer policy. Execute runs to completion or
// failure on the worker goroutine the engine spawned, sending zero or more
// samples; the engine closes the channel once Execute returns, which the UI
// observes as the terminal state.
type Strategy interface {
	Name() string
	Execute(source, destination string, progress chan<- Progress) error
}

// CopyStrategy copies a file or a whole directory tree into the destination
// directory, leaving the source untouched.
type CopyStrategy struct {
	BufferSize int
}

func (CopyStrategy) Name() string { return "Copy" }

func (s CopyStrategy) Execute(source, destination string, progress chan<- Progress) error {
	return transferTree(source, destination, bufferSize(s.BufferSize), progress)
}

// MoveStrategy transfers like CopyStrategy and then removes the source. For
// a simple rename on the same filesystem it short-circuits through
// os.Rename and reports a single completed sample.
type MoveStrategy struct {
	BufferSize int
}

func (MoveStrategy) Name() string { return "Move" }

func (s MoveStrategy) Execute(source, destination string, progress chan<- Progress) error {
	target := filepath.Join(destination, filepath.Base(source))
	if err := checkTarget(source, target); err != nil {
		return err
	}

	if err := os.Rename(source, target); err == nil {
		total, sizeErr := treeSize(target)
		if sizeErr != nil {
			total = 0
		}
		progress <- Progress{
			Done:      total,
			Total:     total,
			FileDone:  total,
			FileTotal: total,
			FileName:  filepath.Base(source),
		}
		return nil
	}

	// Cross-device move: copy everything, then drop the source.
	if err := transferTree(source, destination, bufferSize(s.BufferSize), progress); err != nil {
		return err
	}
	if err := os.RemoveAll(source); err != nil {
		return fmt.Errorf("removing %s after move: %w", source, err)
	}
	return nil
}

func bufferSize(configured int) int {
	if configured > 0 {
		return configured
	}
	return DefaultBufferSize
}

// checkTarget rejects a transfer onto or into its own source. Without it a
// copy into the source's directory truncates the source before the first
// read, and a directory copy can recurse into the tree it is creating.
func checkTarget(source, target string) error {
	if target == source || strings.HasPrefix(target, source+string(filepath.Separator)) {
		return fmt.Errorf("cannot transfer %s into itself", source)
	}
	srcInfo, err := os.Stat(source)
	if err != nil {
		return nil // transferTree reports the stat failure
	}
	if tgtInfo, err := os.Stat(target); err == nil && os.SameFile(srcInfo, tgtInfo) {
		return fmt.Errorf("cannot transfer %s onto itself", source)
	}
	return nil
}

// transferTree copies source (file or directory) into the destination
// directory, streaming per-chunk samples that carry whole-operation totals.
func transferTree(source, destination string, bufSize int, progress chan<- Progress) error {
	target := filepath.Join(destination, filepath.Base(source))
	if err := checkTarget(source, target); err != nil {
		return err
	}

	info, err := os.Stat(source)
	if err != nil {
		return fmt.Errorf("stat %s: %w", source, err)
	}

	total, err := treeSize(source)
	if err != nil {
		return err
	}

	buf := make([]byte, bufSize)

	if !info.IsDir() {
		return copyFile(source, target, buf, total, 0, progress)
	}

	var done uint64
	return filepath.Walk(source, func(path string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(source, path)
		if err != nil {
			return err
		}
		dest := filepath.Join(target, rel)

		if fi.IsDir() {
			return os.MkdirAll(dest, fi.Mode().Perm())
		}
		if err := copyFile(path, dest, buf, total, done, progress); err != nil {
			return err
		}
		done += uint64(fi.Size())
		return nil
	})
}

// copyFile copies one file in bufSize chunks, emitting a sample after every
// chunk. doneBefore is the byte count of previously finished files so the
// samples carry running whole-operation totals.
func copyFile(source, target string, buf []byte, total, doneBefore uint64, progress chan<- Progress) error {
	in, err := os.Open(source)
	if err != nil {
		return fmt.Errorf("opening %s: %w", source, err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", source, err)
	}
	fileTotal := uint64(info.Size())

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("creating %s: %w", target, err)
	}
	defer out.Close()

	var fileDone uint64
	for {
		n, readErr := in.Read(buf)
		if n > 0 {
			if _, writeErr := out.Write(buf[:n]); writeErr != nil {
				return fmt.Errorf("writing %s: %w", target, writeErr)
			}
			fileDone += uint64(n)
			progress <- Progress{
				Done:      doneBefore + fileDone,
				Total:     total,
				FileDone:  fileDone,
				FileTotal: fileTotal,
				FileName:  info.Name(),
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return fmt.Errorf("reading %s: %w", source, readErr)
		}
	}

	// A zero-byte file produced no chunk, still report it once.
	if fileTotal == 0 {
		progress <- Progress{
			Done:     doneBefore,
			Total:    total,
			FileName: info.Name(),
		}
	}
	return out.Close()
}

// treeSize aggregates the byte total of a file or a whole directory tree.
func treeSize(path string) (uint64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.IsDir() {
		return uint64(info.Size()), nil
	}

	var total uint64
	err = filepath.Walk(path, func(_ string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !fi.IsDir() {
			total += uint64(fi.Size())
		}
		return nil
	})
	return total, err
}
