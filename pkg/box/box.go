// Package box defines the fixed-orientation box used by every stacking
// algorithm and the dominance order that decides which box may rest on which.
//
// A box is never rotated: the triple supplied by the caller is the
// orientation it is stacked in. Box A dominates box B, written
// [Dominates](a, b), when A is strictly wider AND strictly deeper than B; only
// then may B sit directly on top of A. A sequence in which every box dominates
// its successor is a chain, i.e. a physically valid stack listed bottom to top.
//
// Boxes are plain comparable values. Two boxes with equal dimensions are
// still two boxes: algorithms identify boxes by their index in the input
// slice, never by value.
package box

import (
	"fmt"
	"math"

	"github.com/matzehuels/boxtower/pkg/errors"
)

// MaxDimension bounds every box dimension so that footprint areas and tower
// heights cannot overflow.
const MaxDimension = math.MaxInt32

// Box is a rectangular block in its only allowed orientation.
type Box struct {
	Height int `json:"height"`
	Width  int `json:"width"`
	Depth  int `json:"depth"`
}

// New returns a Box with the given height, width and depth.
func New(height, width, depth int) Box {
	return Box{Height: height, Width: width, Depth: depth}
}

// Area returns the footprint area (width × depth).
func (b Box) Area() int64 {
	return int64(b.Width) * int64(b.Depth)
}

// Supports reports whether other may be placed directly on top of b.
func (b Box) Supports(other Box) bool {
	return Dominates(b, other)
}

// String formats the box as "height width depth", the box-file line format.
func (b Box) String() string {
	return fmt.Sprintf("%d %d %d", b.Height, b.Width, b.Depth)
}

// Validate rejects boxes with a non-positive dimension or one larger than
// MaxDimension.
func (b Box) Validate() error {
	switch {
	case b.Height <= 0:
		return errors.New(errors.ErrCodeInvalidBox, "height must be positive, got %d", b.Height)
	case b.Width <= 0:
		return errors.New(errors.ErrCodeInvalidBox, "width must be positive, got %d", b.Width)
	case b.Depth <= 0:
		return errors.New(errors.ErrCodeInvalidBox, "depth must be positive, got %d", b.Depth)
	case b.Height > MaxDimension, b.Width > MaxDimension, b.Depth > MaxDimension:
		return errors.New(errors.ErrCodeInvalidBox, "dimensions must not exceed %d, got %v", MaxDimension, b)
	}
	return nil
}

// Dominates reports whether a can be placed directly beneath b.
func Dominates(a, b Box) bool {
	return a.Width > b.Width && a.Depth > b.Depth
}
