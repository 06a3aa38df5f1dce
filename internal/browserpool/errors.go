package browserpool

import "fmt"

// BinaryNotFoundError is returned when no Chrome/Chromium executable could
// be located by any of the discovery precedence steps.
type BinaryNotFoundError struct {
	Tried []string
}

func (e *BinaryNotFoundError) Error() string {
	return fmt.Sprintf("no chrome binary found, tried: %v", e.Tried)
}
