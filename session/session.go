// Package session tracks what a window is working on: the open directory with its collection,
// the order file it was loaded from or saved to, and whether the order changed since.
package session

import (
	"errors"

	"github.com/alexballas/xsorter/commit"
	"github.com/alexballas/xsorter/logging"
	"github.com/alexballas/xsorter/orderfile"
	"github.com/alexballas/xsorter/sequence"
)

// ErrNoOrderFile is returned by SaveOrder before any order file was loaded or saved.
var ErrNoOrderFile = errors.New("no order file chosen")

// ErrNoDirectory is returned by operations that need an open directory.
var ErrNoDirectory = errors.New("no directory open")

// Session owns the current collection. Like the collection, it expects calls from one
// goroutine.
type Session struct {
	scanner    sequence.Scanner
	extensions []string
	log        *logging.Logger

	collection *sequence.Collection
	removeHook func()
	orderFile  string
	dirty      bool

	onChange []func(*sequence.Collection)
}

// New creates an empty session listing directories with scanner (sequence.OSScanner when nil).
func New(scanner sequence.Scanner, extensions []string, log *logging.Logger) *Session {
	if scanner == nil {
		scanner = sequence.OSScanner
	}
	if len(extensions) == 0 {
		extensions = sequence.DefaultExtensions
	}
	return &Session{
		scanner:    scanner,
		extensions: extensions,
		log:        logging.OrNop(log),
	}
}

// OnCollectionChanged registers fn to be called whenever the session switches to a new
// collection.
func (s *Session) OnCollectionChanged(fn func(*sequence.Collection)) {
	s.onChange = append(s.onChange, fn)
}

// Collection returns the current collection, or nil before a directory is opened.
func (s *Session) Collection() *sequence.Collection {
	return s.collection
}

// Directory returns the absolute path of the open directory, or "".
func (s *Session) Directory() string {
	if s.collection == nil {
		return ""
	}
	return s.collection.Dir()
}

// OrderFile returns the remembered order file path, or "".
func (s *Session) OrderFile() string {
	return s.orderFile
}

// Dirty reports whether the order changed since the directory was opened, or since the last
// load or save.
func (s *Session) Dirty() bool {
	return s.dirty
}

// SetDirectory replaces the collection with a fresh scan of dir. The remembered order file is
// forgotten. On error the session is unchanged.
func (s *Session) SetDirectory(dir string) error {
	c, err := sequence.OpenWith(s.scanner, dir, s.extensions, nil)
	if err != nil {
		return err
	}
	s.install(c)
	s.orderFile = ""
	s.log.Info().Str("dir", c.Dir()).Int("images", c.Count()).Msg("directory opened")
	return nil
}

// LoadOrder applies the order saved at path. When the record was captured in another
// directory that directory is opened first. On any error the session is unchanged.
func (s *Session) LoadOrder(path string) error {
	rec, err := orderfile.Load(path)
	if err != nil {
		return err
	}

	if s.collection == nil || s.collection.Dir() != rec.SourceDirectory {
		c, err := sequence.OpenWith(s.scanner, rec.SourceDirectory, s.extensions, rec.Order)
		if err != nil {
			return err
		}
		s.install(c)
	} else {
		s.collection.Order(rec.Order)
	}

	s.orderFile = path
	s.dirty = false
	s.log.Info().Str("file", path).Str("dir", rec.SourceDirectory).Msg("order loaded")
	return nil
}

// SaveOrder writes the current order to the remembered order file.
func (s *Session) SaveOrder() error {
	if s.orderFile == "" {
		return ErrNoOrderFile
	}
	return s.SaveOrderAs(s.orderFile)
}

// SaveOrderAs writes the current order to path and remembers path for SaveOrder.
func (s *Session) SaveOrderAs(path string) error {
	if s.collection == nil {
		return ErrNoDirectory
	}
	if err := orderfile.Save(path, orderfile.Capture(s.collection)); err != nil {
		return err
	}
	s.orderFile = path
	s.dirty = false
	s.log.Info().Str("file", path).Msg("order saved")
	return nil
}

// PlanCommit returns the copies committing the current order would make.
func (s *Session) PlanCommit() (commit.Plan, error) {
	if s.collection == nil {
		return commit.Plan{}, ErrNoDirectory
	}
	return commit.PlanFor(s.collection), nil
}

func (s *Session) install(c *sequence.Collection) {
	if s.removeHook != nil {
		s.removeHook()
	}
	s.collection = c
	s.dirty = false
	s.removeHook = c.AddListener(func(ch sequence.Change) {
		if ch.Phase == sequence.PhaseEnd {
			s.dirty = true
		}
	})
	for _, fn := range s.onChange {
		fn(c)
	}
}
