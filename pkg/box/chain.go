package box

import (
	"github.com/matzehuels/boxtower/pkg/errors"
)

// TotalHeight returns the sum of the heights of boxes.
// An empty slice has height 0.
func TotalHeight(boxes []Box) int {
	total := 0
	for _, b := range boxes {
		total += b.Height
	}
	return total
}

// IsChain reports whether every box in boxes dominates its successor.
// Empty and single-box slices are chains.
func IsChain(boxes []Box) bool {
	return ChainBreak(boxes) < 0
}

// ChainBreak returns the first index i such that boxes[i] does not dominate
// boxes[i+1], or -1 if boxes is a chain.
func ChainBreak(boxes []Box) int {
	for i := 0; i+1 < len(boxes); i++ {
		if !Dominates(boxes[i], boxes[i+1]) {
			return i
		}
	}
	return -1
}

// ValidateAll checks that boxes is non-empty and that every box is valid.
// The error names the first offending box by its zero-based index.
func ValidateAll(boxes []Box) error {
	if len(boxes) == 0 {
		return errors.New(errors.ErrCodeEmptyInput, "no boxes to stack")
	}
	for i, b := range boxes {
		if err := b.Validate(); err != nil {
			return errors.New(errors.ErrCodeInvalidBox, "box %d (%s): %s", i, b, errors.UserMessage(err))
		}
	}
	return nil
}

// Pick returns the boxes at the given indices, in order.
func Pick(boxes []Box, indices []int) []Box {
	out := make([]Box, len(indices))
	for i, idx := range indices {
		out[i] = boxes[idx]
	}
	return out
}
