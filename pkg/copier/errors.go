package copier

import (
	"errors"
	"fmt"
)

// ErrNotDirectory is wrapped when a path that must be a directory is not one.
var ErrNotDirectory = errors.New("not a directory")

// ErrInsideSource is wrapped when the destination is the source or lies
// below it, which would make the walk list its own output.
var ErrInsideSource = errors.New("destination is inside the source tree")

// Side names which end of a file copy failed to open.
type Side string

const (
	SideSource      Side = "source"
	SideDestination Side = "destination"
)

// SourceUnavailableError is reported when a source directory is missing,
// is not a directory, or cannot be listed. Only that directory is skipped.
type SourceUnavailableError struct {
	Path string
	Err  error
}

func (e *SourceUnavailableError) Error() string {
	return fmt.Sprintf("source unavailable: %s: %v", e.Path, e.Err)
}

func (e *SourceUnavailableError) Unwrap() error {
	return e.Err
}

// DestinationUnwritableError is reported when a destination directory
// cannot be created. Only that directory is skipped.
type DestinationUnwritableError struct {
	Path string
	Err  error
}

func (e *DestinationUnwritableError) Error() string {
	return fmt.Sprintf("destination unwritable: %s: %v", e.Path, e.Err)
}

func (e *DestinationUnwritableError) Unwrap() error {
	return e.Err
}

// FileOpenError is reported when either side of a single file copy cannot
// be opened. Only that file is skipped.
type FileOpenError struct {
	Path string
	Side Side
	Err  error
}

func (e *FileOpenError) Error() string {
	return fmt.Sprintf("cannot open %s file: %s: %v", e.Side, e.Path, e.Err)
}

func (e *FileOpenError) Unwrap() error {
	return e.Err
}

// CopyError is reported when a file copy fails after both files were opened.
type CopyError struct {
	Source      string
	Destination string
	Err         error
}

func (e *CopyError) Error() string {
	return fmt.Sprintf("copy %s to %s: %v", e.Source, e.Destination, e.Err)
}

func (e *CopyError) Unwrap() error {
	return e.Err
}
