// Package orderfile reads and writes saved image orders.
//
// A saved order is a small JSON document:
//
//	{
//	  "sourceDirectory": "/home/me/holiday",
//	  "order": ["b.jpg", "a.jpg", "c.jpg"]
//	}
package orderfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"

	"github.com/alexballas/xsorter/sequence"
)

// Extension is appended by the UI save dialog when the user gives none.
const Extension = ".xsorter.json"

// Record is the persisted form of one collection order.
type Record struct {
	// SourceDirectory is the absolute directory the order was captured in.
	SourceDirectory string `json:"sourceDirectory" validate:"required"`
	// Order lists file names front to back.
	Order []string `json:"order" validate:"dive,required"`
}

var validate = validator.New()

// Capture snapshots the current order of c.
func Capture(c *sequence.Collection) Record {
	return Record{SourceDirectory: c.Dir(), Order: c.Names()}
}

// Load reads the record at path. Every failure is reported as a *sequence.PersistenceError.
func Load(path string) (Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Record{}, &sequence.PersistenceError{Path: path, Err: err}
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, &sequence.PersistenceError{Path: path, Err: fmt.Errorf("failed to parse: %w", err)}
	}

	if err := check(rec); err != nil {
		return Record{}, &sequence.PersistenceError{Path: path, Err: err}
	}
	return rec, nil
}

// Save writes rec to path through a temporary file in the same directory, so a failed write
// never leaves a truncated record behind.
func Save(path string, rec Record) error {
	if err := check(rec); err != nil {
		return &sequence.PersistenceError{Path: path, Err: err}
	}
	if rec.Order == nil {
		rec.Order = []string{}
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return &sequence.PersistenceError{Path: path, Err: fmt.Errorf("failed to marshal: %w", err)}
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(filepath.Dir(path), ".order-*")
	if err != nil {
		return &sequence.PersistenceError{Path: path, Err: err}
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return &sequence.PersistenceError{Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &sequence.PersistenceError{Path: path, Err: err}
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return &sequence.PersistenceError{Path: path, Err: err}
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return &sequence.PersistenceError{Path: path, Err: err}
	}
	return nil
}

func check(rec Record) error {
	if err := validate.Struct(rec); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("invalid record: %s failed on '%s'", verrs[0].Namespace(), verrs[0].Tag())
		}
		return err
	}
	if !filepath.IsAbs(rec.SourceDirectory) {
		return fmt.Errorf("invalid record: sourceDirectory %q is not absolute", rec.SourceDirectory)
	}
	return nil
}
