package sequence

import "fmt"

// SequenceDigits is the zero-padding width for n sequence numbers: ceil(log10(n)),
// and never less than one.
func SequenceDigits(n int) int {
	digits := 0
	for limit := 1; limit < n; limit *= 10 {
		digits++
	}
	return max(digits, 1)
}

// SequenceName prefixes name with index padded to digits, e.g. "007@cat.jpg".
func SequenceName(index, digits int, name string) string {
	return fmt.Sprintf("%0*d@%s", digits, index, name)
}

// SequenceNames returns the committed file names for names, in order.
func SequenceNames(names []string) []string {
	digits := SequenceDigits(len(names))
	out := make([]string, len(names))
	for i, name := range names {
		out[i] = SequenceName(i, digits, name)
	}
	return out
}
