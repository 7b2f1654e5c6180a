// Package commit writes a collection's current order out as sequence-numbered copies.
package commit

import (
	"path/filepath"

	"github.com/alexballas/xsorter/sequence"
)

// Item is one file of a commit: the source image and the name it is copied to.
type Item struct {
	Index  int
	Source string
	Target string
}

// Plan is the ordered list of copies a commit performs.
type Plan struct {
	SourceDir string
	Digits    int
	Items     []Item
}

// BuildPlan numbers names in order, each target named "<index padded to digits>@<name>".
func BuildPlan(sourceDir string, names []string) Plan {
	digits := sequence.SequenceDigits(len(names))
	items := make([]Item, len(names))
	for i, name := range names {
		items[i] = Item{
			Index:  i,
			Source: filepath.Join(sourceDir, name),
			Target: sequence.SequenceName(i, digits, name),
		}
	}
	return Plan{SourceDir: sourceDir, Digits: digits, Items: items}
}

// PlanFor builds the plan for the current order of c.
func PlanFor(c *sequence.Collection) Plan {
	return BuildPlan(c.Dir(), c.Names())
}
