package atlas

import "github.com/nical/rendergraph/geom"

// bin classifies a free rectangle by its larger dimension so that
// allocation requests can skip past free rectangles too small to be
// worth scanning, and so that small leftover strips don't clutter the
// scan for large allocations. Grounded on the small/medium/large
// binning of the reference texture allocator (original_source/).
type bin uint8

const (
	binSmall bin = iota
	binMedium
	binLarge
	numBins
)

func (a *Allocator) classify(size geom.Size) bin {
	largest := size.Width
	if size.Height > largest {
		largest = size.Height
	}
	switch {
	case largest >= a.options.LargeSizeThreshold:
		return binLarge
	case largest >= a.options.SmallSizeThreshold:
		return binMedium
	default:
		return binSmall
	}
}

// freeList holds, per bin, the ids of nodes believed to be free. The
// list is scrubbed lazily: an id may refer to a node that has since
// been reused (its kind is no longer kindFree), and is simply dropped
// the next time it's scanned.
type freeList struct {
	bins [numBins][]nodeID
}

func (f *freeList) init(options Options) {
	for i := range f.bins {
		f.bins[i] = nil
	}
}

func (f *freeList) push(b bin, id nodeID) {
	f.bins[b] = append(f.bins[b], id)
}

// findFit scans the free list for a rectangle that can hold size,
// starting at the bin size's own classification and moving up through
// larger bins, lazily dropping stale entries (nodes no longer
// kindFree) as it goes. It removes the chosen id from the free list.
func (f *freeList) findFit(a *Allocator, size geom.Size) (nodeID, bool) {
	start := a.classify(size)
	for b := start; b < numBins; b++ {
		list := f.bins[b]
		for i := 0; i < len(list); {
			id := list[i]
			n := &a.nodes[id]
			if n.kind != kindFree {
				list[i] = list[len(list)-1]
				list = list[:len(list)-1]
				continue
			}
			if size.FitsInside(n.rect.Size()) {
				list[i] = list[len(list)-1]
				f.bins[b] = list[:len(list)-1]
				return id, true
			}
			i++
		}
		f.bins[b] = list
	}
	return 0, false
}
