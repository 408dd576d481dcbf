package merge

import "fmt"

// InvalidInputError is returned for merge candidates that don't consist of exactly two points. The graph is not
// modified by such a call.
type InvalidInputError struct {
	Length int
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("Invalid merge input: expected a line with 2 points but got %d", e.Length)
}

// IndexCorruptionError signals that the start or end index disagrees with the stored lines. This is a bug, the graph
// can't be used any further.
type IndexCorruptionError struct {
	Reason string
}

func (e *IndexCorruptionError) Error() string {
	return fmt.Sprintf("Merge graph index corrupted: %s", e.Reason)
}

func corruption(format string, args ...interface{}) *IndexCorruptionError {
	return &IndexCorruptionError{Reason: fmt.Sprintf(format, args...)}
}
