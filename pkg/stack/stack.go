package stack

import (
	"slices"
	"sort"

	"github.com/matzehuels/boxtower/pkg/box"
	"github.com/matzehuels/boxtower/pkg/errors"
)

// Stack is a chain of boxes (by catalogue index) with a cached height.
//
// The zero value is not usable; create stacks with [New].
// A Stack is not safe for concurrent use.
type Stack struct {
	boxes   []box.Box // catalogue, read-only
	blocks  []int     // bottom to top
	height  int
	evicted []int
	placed  []bool
}

// New creates a stack over the box catalogue boxes, initialised with chain
// (indices into boxes, bottom to top).
//
// New returns an INVALID_INPUT error if an index is out of range or repeated,
// or if chain is not a valid dominance chain. The catalogue is retained but
// never modified; chain is copied.
func New(boxes []box.Box, chain []int) (*Stack, error) {
	s := &Stack{
		boxes:  boxes,
		blocks: make([]int, 0, len(chain)),
		placed: make([]bool, len(boxes)),
	}
	for pos, id := range chain {
		if id < 0 || id >= len(boxes) {
			return nil, errors.New(errors.ErrCodeInvalidInput, "chain position %d: box index %d out of range", pos, id)
		}
		if s.placed[id] {
			return nil, errors.New(errors.ErrCodeInvalidInput, "chain position %d: box %d used twice", pos, id)
		}
		if pos > 0 && !box.Dominates(boxes[chain[pos-1]], boxes[id]) {
			return nil, errors.New(errors.ErrCodeInvalidInput,
				"chain position %d: box %d (%s) cannot rest on box %d (%s)",
				pos, id, boxes[id], chain[pos-1], boxes[chain[pos-1]])
		}
		s.placed[id] = true
		s.blocks = append(s.blocks, id)
		s.height += boxes[id].Height
	}
	return s, nil
}

// Push computes the height the stack would have if box id were inserted at
// the lowest position it can legally occupy, evicting every box above that
// position which id cannot support.
//
// If apply is false, Push is a pure query. If apply is true, the insertion
// is committed and the removed boxes become available through [Stack.Evicted].
//
// Push panics if id is outside the catalogue.
func (s *Stack) Push(id int, apply bool) int {
	b := s.boxes[id]
	start := s.insertionIndex(b)

	height := s.height + b.Height
	end := start
	for end < len(s.blocks) {
		above := s.boxes[s.blocks[end]]
		if box.Dominates(b, above) {
			break
		}
		height -= above.Height
		end++
	}

	if apply {
		s.commit(id, start, end, height)
	}
	return height
}

// Try is Push(id, false).
func (s *Stack) Try(id int) int {
	return s.Push(id, false)
}

// Apply is Push(id, true).
func (s *Stack) Apply(id int) int {
	return s.Push(id, true)
}

// insertionIndex returns the first position whose box is not strictly wider
// or not strictly deeper than b. Every box below it dominates b.
func (s *Stack) insertionIndex(b box.Box) int {
	n := len(s.blocks)
	byWidth := sort.Search(n, func(i int) bool {
		return s.boxes[s.blocks[i]].Width <= b.Width
	})
	byDepth := sort.Search(n, func(i int) bool {
		return s.boxes[s.blocks[i]].Depth <= b.Depth
	})
	return min(byWidth, byDepth)
}

func (s *Stack) commit(id, start, end, height int) {
	evicted := slices.Clone(s.blocks[start:end])
	for _, e := range evicted {
		s.placed[e] = false
	}
	s.blocks = slices.Replace(s.blocks, start, end, id)
	s.placed[id] = true
	s.evicted = evicted
	s.height = height
}

// Height returns the cached total height.
func (s *Stack) Height() int { return s.height }

// Len returns the number of boxes in the stack.
func (s *Stack) Len() int { return len(s.blocks) }

// NumBoxes returns the size of the catalogue the stack draws from.
func (s *Stack) NumBoxes() int { return len(s.boxes) }

// Contains reports whether box id is currently stacked.
func (s *Stack) Contains(id int) bool {
	return id >= 0 && id < len(s.placed) && s.placed[id]
}

// Indices returns a copy of the stacked box indices, bottom to top.
func (s *Stack) Indices() []int {
	return slices.Clone(s.blocks)
}

// Blocks returns the stacked boxes, bottom to top.
func (s *Stack) Blocks() []box.Box {
	return box.Pick(s.boxes, s.blocks)
}

// Evicted returns a copy of the indices removed by the last applied Push.
// It is empty for a freshly created stack.
func (s *Stack) Evicted() []int {
	return slices.Clone(s.evicted)
}

// Clone returns a deep copy sharing only the read-only catalogue.
func (s *Stack) Clone() *Stack {
	return &Stack{
		boxes:   s.boxes,
		blocks:  slices.Clone(s.blocks),
		height:  s.height,
		evicted: slices.Clone(s.evicted),
		placed:  slices.Clone(s.placed),
	}
}

// Validate re-derives the chain, height and placement invariants from
// scratch and reports the first violation as an INTERNAL_ERROR.
func (s *Stack) Validate() error {
	blocks := s.Blocks()
	if i := box.ChainBreak(blocks); i >= 0 {
		return errors.New(errors.ErrCodeInternal, "position %d (%s) does not support position %d (%s)",
			i, blocks[i], i+1, blocks[i+1])
	}
	if h := box.TotalHeight(blocks); h != s.height {
		return errors.New(errors.ErrCodeInternal, "cached height %d, actual %d", s.height, h)
	}
	count := 0
	for _, p := range s.placed {
		if p {
			count++
		}
	}
	if count != len(s.blocks) {
		return errors.New(errors.ErrCodeInternal, "%d boxes marked placed, %d stacked", count, len(s.blocks))
	}
	for _, id := range s.blocks {
		if !s.placed[id] {
			return errors.New(errors.ErrCodeInternal, "stacked box %d not marked placed", id)
		}
	}
	return nil
}
