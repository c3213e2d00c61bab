// Package stack implements the mutable candidate tower used by the search
// algorithms.
//
// A [Stack] is an ordered chain of box indices, bottom first, in which every
// box dominates the one above it. It caches the total height and remembers
// which boxes the most recent applied insertion pushed out.
//
// # Incremental insertion
//
// [Stack.Push] answers "how tall would the tower be if this box were slotted
// in?" without rebuilding the chain. Because widths and depths both strictly
// decrease from bottom to top, two binary searches locate the lowest slot
// the new box can occupy; a forward scan then evicts every box the newcomer
// cannot support, stopping at the first one it can. Trials cost O(log n + k)
// for k evictions, and with apply=false they leave the stack untouched:
//
//	s, _ := stack.New(boxes, []int{0, 2})
//	if s.Try(5) > s.Height() {
//	    s.Apply(5)
//	    fmt.Println("pushed out:", s.Evicted())
//	}
//
// # Identity
//
// Boxes are referenced by their index in the catalogue passed to [New], so
// two boxes with identical dimensions are tracked independently.
//
// # Snapshots
//
// [Stack.Clone] returns a deep copy. Searches keep their best-known tower as
// a clone so later mutations of the working stack cannot reach it.
package stack
