// Package sequence holds the ordering engine: an ordered collection of the images found in one
// directory, the move primitives used by drag and drop, and the resolver that maps a drop position
// inside a wrapped grid onto an insertion row.
package sequence

// EndOfSequence is the target row meaning "append after the last entry".
const EndOfSequence = -1

// RowMimeType tags a drag payload that carries row indices of a collection.
const RowMimeType = "x-application/xsorter-rows"

// DefaultExtensions are the image types considered when no allow-list is configured.
var DefaultExtensions = []string{"jpg", "jpeg", "png", "gif"}

// ImageEntry is one image file tracked by a Collection.
type ImageEntry struct {
	// Name is the base name, unique within a collection.
	Name string
	// Path is the absolute path, resolved against the scanned directory.
	Path string
}

// MoveRequest describes one pending move: the rows being dragged and the row they are inserted
// before. Both refer to the collection as it was before the move.
type MoveRequest struct {
	SourceRows []int
	TargetRow  int
}

// ChangeKind identifies what kind of structural change an observer is told about.
type ChangeKind int

const (
	// ChangeReset means the whole sequence may have been re-ranked.
	ChangeReset ChangeKind = iota
	// ChangeMove means a block of rows was relocated.
	ChangeMove
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeReset:
		return "reset"
	case ChangeMove:
		return "move"
	default:
		return "unknown"
	}
}

// ChangePhase tells whether a notification precedes or follows the mutation.
type ChangePhase int

const (
	// PhaseBegin is sent while the collection still holds the previous, consistent state.
	PhaseBegin ChangePhase = iota
	// PhaseEnd is sent once the new state is complete.
	PhaseEnd
)

// Change is delivered to listeners in a PhaseBegin/PhaseEnd pair around every mutation.
type Change struct {
	Kind  ChangeKind
	Phase ChangePhase
	// Move is set for ChangeMove, with TargetRow already expressed pre-removal.
	Move *MoveRequest
}

// Listener observes structural changes of a Collection.
type Listener func(Change)
