package binmerge

import (
	"errors"
	"fmt"
)

const (
	BadLength    int = -1
	BadValue     int = -2
	BadEdges     int = -3
	BadThreshold int = -4
	EdgeMismatch int = -5
	ZeroContent  int = -6
)

var (
	ErrInvalidInput = errors.New("binmerge: invalid input")
	ErrZeroContent  = errors.New("binmerge: zero-content bin")
)

// InvalidInputError is returned before any merging starts; no partial
// output accompanies it.
type InvalidInputError struct {
	ErrCode int
	What    string
}

func (e *InvalidInputError) Error() string {
	return e.What
}

func (e *InvalidInputError) Is(target error) bool {
	if target == ErrInvalidInput {
		return true
	}
	return target == ErrZeroContent && e.ErrCode == ZeroContent
}

func invalid(code int, format string, args ...interface{}) error {
	return &InvalidInputError{
		ErrCode: code,
		What:    fmt.Sprintf(format, args...),
	}
}
