package sequence

import (
	"errors"
	"fmt"
)

// Sentinel values matched by the typed errors below through errors.Is.
var (
	ErrDirectory     = errors.New("directory error")
	ErrIndex         = errors.New("index error")
	ErrPayloadFormat = errors.New("payload format error")
	ErrPersistence   = errors.New("persistence error")
)

// DirectoryError reports a source or target directory that could not be listed or read.
type DirectoryError struct {
	Path string
	Err  error
}

func (e *DirectoryError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("cannot read directory %q", e.Path)
	}
	return fmt.Sprintf("cannot read directory %q: %v", e.Path, e.Err)
}

func (e *DirectoryError) Unwrap() error { return e.Err }

func (e *DirectoryError) Is(target error) bool { return target == ErrDirectory }

// IndexError reports a row index outside the collection or a duplicated source row.
type IndexError struct {
	Row    int
	Count  int
	Reason string
}

func (e *IndexError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("row %d: %s", e.Row, e.Reason)
	}
	return fmt.Sprintf("row %d out of range [0, %d)", e.Row, e.Count)
}

func (e *IndexError) Is(target error) bool { return target == ErrIndex }

// PayloadFormatError reports a drop payload of the wrong media type or with unparsable rows.
type PayloadFormatError struct {
	MimeType string
	Payload  string
	Err      error
}

func (e *PayloadFormatError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("unsupported drag payload of type %q", e.MimeType)
	}
	return fmt.Sprintf("malformed drag payload %q: %v", e.Payload, e.Err)
}

func (e *PayloadFormatError) Unwrap() error { return e.Err }

func (e *PayloadFormatError) Is(target error) bool { return target == ErrPayloadFormat }

// PersistenceError reports a saved order record that could not be read, parsed or written.
type PersistenceError struct {
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("order file %q: %v", e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }
