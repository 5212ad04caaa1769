package savegame

import (
	"errors"
	"fmt"
)

var (
	// ErrVersionTooNew matches a *VersionError
	ErrVersionTooNew = errors.New("save is newer than supported")
	// ErrParse means the input is not a well-formed save document
	ErrParse = errors.New("save could not be parsed")
	// ErrNotFound means the save file does not exist
	ErrNotFound = errors.New("save file not found")
	// ErrIO covers every other read or write failure
	ErrIO = errors.New("save file i/o failed")
)

// VersionError is returned when a save was written by a newer build
type VersionError struct {
	Found     float64
	Supported int
}

func (e *VersionError) Error() string {
	return fmt.Sprintf("save version %g is newer than supported version %d; please update the game", e.Found, e.Supported)
}

// Is lets errors.Is(err, ErrVersionTooNew) match
func (e *VersionError) Is(target error) bool {
	return target == ErrVersionTooNew
}
