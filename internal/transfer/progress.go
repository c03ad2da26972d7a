// Package transfer runs copy, move and delete operations for the panels.
// Copy and move execute on a dedicated worker goroutine that streams
// Progress samples back over a channel; the engine polls it without ever
// blocking the UI loop.
package transfer

// Progress is one sample of an in-flight transfer. Done/Total cover the
// whole operation, FileDone/FileTotal the item currently in flight; for a
// single-file transfer the two pairs coincide.
type Progress struct {
	Done      uint64
	Total     uint64
	FileDone  uint64
	FileTotal uint64
	FileName  string
}

// Percent converts a byte pair into a 0-100 figure, returning 0 when either
// side is 0 so an empty transfer never divides by zero.
func Percent(done, total uint64) int {
	if done == 0 || total == 0 {
		return 0
	}
	return int(float64(done) / float64(total) * 100.0)
}
