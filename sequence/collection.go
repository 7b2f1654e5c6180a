package sequence

import (
	"path/filepath"
	"slices"
)

// Collection is the ordered list of images found in one directory.
//
// All methods expect serialized calls from a single goroutine (the UI event loop or a CLI
// command). Listeners are invoked synchronously around every mutation and only ever observe
// complete states.
type Collection struct {
	dir        string
	extensions []string
	entries    []ImageEntry
	listeners  []Listener
}

// Open scans dir on the local filesystem. See OpenWith.
func Open(dir string, extensions []string, order []string) (*Collection, error) {
	return OpenWith(OSScanner, dir, extensions, order)
}

// OpenWith builds a collection from the files scanner lists in dir whose lowercased name ends
// with one of extensions (given without the leading dot). A non-nil order is applied straight
// away with Order.
func OpenWith(scanner Scanner, dir string, extensions []string, order []string) (*Collection, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, &DirectoryError{Path: dir, Err: err}
	}

	names, err := scanner.ListFiles(abs)
	if err != nil {
		return nil, &DirectoryError{Path: abs, Err: err}
	}

	exts := NormalizeExtensions(extensions)
	c := &Collection{
		dir:        abs,
		extensions: exts,
		entries:    make([]ImageEntry, 0, len(names)),
	}

	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if !HasAllowedExtension(name, exts) {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		c.entries = append(c.entries, ImageEntry{
			Name: name,
			Path: filepath.Join(abs, name),
		})
	}

	if order != nil {
		c.Order(order)
	}
	return c, nil
}

// Dir returns the absolute directory the collection was scanned from.
func (c *Collection) Dir() string {
	return c.dir
}

// Extensions returns the normalised allow-list used during the scan.
func (c *Collection) Extensions() []string {
	return slices.Clone(c.extensions)
}

// Count returns the number of entries.
func (c *Collection) Count() int {
	return len(c.entries)
}

// EntryAt returns the entry displayed at row.
func (c *Collection) EntryAt(row int) (ImageEntry, error) {
	if row < 0 || row >= len(c.entries) {
		return ImageEntry{}, &IndexError{Row: row, Count: len(c.entries)}
	}
	return c.entries[row], nil
}

// Entries returns a copy of the current sequence.
func (c *Collection) Entries() []ImageEntry {
	return slices.Clone(c.entries)
}

// Names returns the entry names in display order.
func (c *Collection) Names() []string {
	names := make([]string, len(c.entries))
	for i, e := range c.entries {
		names[i] = e.Name
	}
	return names
}

// Row returns the current row of the entry called name, or -1.
func (c *Collection) Row(name string) int {
	for i, e := range c.entries {
		if e.Name == name {
			return i
		}
	}
	return -1
}

// AddListener registers l for change notifications and returns a function removing it.
func (c *Collection) AddListener(l Listener) (remove func()) {
	c.listeners = append(c.listeners, l)
	idx := len(c.listeners) - 1
	return func() {
		if idx < len(c.listeners) {
			c.listeners[idx] = nil
		}
	}
}

func (c *Collection) notify(ch Change) {
	for _, l := range c.listeners {
		if l != nil {
			l(ch)
		}
	}
}

// Order re-ranks the sequence so that the entries named in names come first, in that order.
// Entries not mentioned keep their relative order and follow every mentioned entry. Names
// without a matching entry are ignored; a name listed twice ranks by its first position.
func (c *Collection) Order(names []string) {
	c.notify(Change{Kind: ChangeReset, Phase: PhaseBegin})

	ranking := make(map[string]int, len(names))
	for i, name := range names {
		if _, ok := ranking[name]; !ok {
			ranking[name] = i
		}
	}

	type ranked struct {
		entry ImageEntry
		rank  int
		index int
	}
	keyed := make([]ranked, len(c.entries))
	for i, e := range c.entries {
		rank, ok := ranking[e.Name]
		if !ok {
			rank = len(names) + i
		}
		keyed[i] = ranked{entry: e, rank: rank, index: i}
	}

	slices.SortStableFunc(keyed, func(a, b ranked) int {
		if a.rank != b.rank {
			return a.rank - b.rank
		}
		return a.index - b.index
	})

	for i, k := range keyed {
		c.entries[i] = k.entry
	}

	c.notify(Change{Kind: ChangeReset, Phase: PhaseEnd})
}

// Validate checks a move against the current sequence without changing anything.
func (c *Collection) Validate(req MoveRequest) error {
	n := len(c.entries)
	seen := make(map[int]struct{}, len(req.SourceRows))
	for _, row := range req.SourceRows {
		if row < 0 || row >= n {
			return &IndexError{Row: row, Count: n}
		}
		if _, dup := seen[row]; dup {
			return &IndexError{Row: row, Count: n, Reason: "listed more than once"}
		}
		seen[row] = struct{}{}
	}
	if req.TargetRow != EndOfSequence && (req.TargetRow < 0 || req.TargetRow >= n) {
		return &IndexError{Row: req.TargetRow, Count: n}
	}
	return nil
}

// MoveRows relocates the entries at sourceRows as one contiguous block, in their current
// relative order, so that they sit right before the entry now at targetRow. EndOfSequence
// appends the block instead. Every other entry keeps its relative order.
//
// The request is validated first; on error nothing is changed.
func (c *Collection) MoveRows(sourceRows []int, targetRow int) error {
	req := MoveRequest{SourceRows: slices.Clone(sourceRows), TargetRow: targetRow}
	if err := c.Validate(req); err != nil {
		return err
	}
	if len(req.SourceRows) == 0 {
		return nil
	}

	c.notify(Change{Kind: ChangeMove, Phase: PhaseBegin, Move: &req})

	rows := slices.Clone(req.SourceRows)
	slices.Sort(rows)

	moved := make([]ImageEntry, len(rows))
	for i, row := range rows {
		moved[i] = c.entries[row]
	}

	target := targetRow
	if target == EndOfSequence {
		target = len(c.entries)
	}

	// Highest row first so pending indices stay valid while the slice shrinks.
	for i := len(rows) - 1; i >= 0; i-- {
		row := rows[i]
		c.entries = slices.Delete(c.entries, row, row+1)
		if row < target {
			target--
		}
	}

	c.entries = slices.Insert(c.entries, target, moved...)

	c.notify(Change{Kind: ChangeMove, Phase: PhaseEnd, Move: &req})
	return nil
}

// Apply runs req through MoveRows.
func (c *Collection) Apply(req MoveRequest) error {
	return c.MoveRows(req.SourceRows, req.TargetRow)
}
