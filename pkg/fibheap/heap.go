// Package fibheap implements a Fibonacci heap over an index arena.
//
// Entries live in a contiguous slice and refer to each other by int32 index,
// so the circular sibling lists and parent/child links carry no pointers.
// Removed entries go to a free list and are reused by later inserts; a
// generation counter on each slot turns handles to reused slots into
// ErrStaleHandle instead of silently addressing a different entry.
package fibheap

import (
	"cmp"
	"errors"
)

var (
	// ErrEmpty is returned by FindMinimum and ExtractMinimum on an empty heap.
	ErrEmpty = errors.New("fibheap: empty heap")
	// ErrKeyIncrease is returned when DecreaseKey is given a larger key.
	ErrKeyIncrease = errors.New("fibheap: key increase")
	// ErrNotChild is returned when a cut names a node that is not a child of the parent.
	ErrNotChild = errors.New("fibheap: node is not a child of parent")
	// ErrStaleHandle is returned for handles whose entry has been extracted.
	ErrStaleHandle = errors.New("fibheap: stale handle")
)

// maxDegree bounds root degrees during consolidation. The degree of a tree
// with n entries is at most log_phi(n), far below this for any int32 arena.
const maxDegree = 100

const nilIdx int32 = -1

// Handle identifies an inserted entry for DecreaseKey.
type Handle struct {
	idx int32
	gen uint32
}

type entry[K cmp.Ordered, V any] struct {
	key    K
	value  V
	parent int32
	child  int32
	prev   int32
	next   int32
	degree int32
	mark   bool
	live   bool
	gen    uint32
}

// Heap is a min-ordered Fibonacci heap. The zero value is an empty heap.
// A Heap is not safe for concurrent use.
type Heap[K cmp.Ordered, V any] struct {
	entries []entry[K, V]
	free    []int32
	min     int32
	count   int
	ready   bool
}

// New returns an empty heap with room for capacity entries.
func New[K cmp.Ordered, V any](capacity int) *Heap[K, V] {
	return &Heap[K, V]{
		entries: make([]entry[K, V], 0, capacity),
		min:     nilIdx,
		ready:   true,
	}
}

func (h *Heap[K, V]) lazyInit() {
	if !h.ready {
		h.min = nilIdx
		h.ready = true
	}
}

// Len returns the number of entries in the heap.
func (h *Heap[K, V]) Len() int { return h.count }

// IsEmpty reports whether the heap holds no entries.
func (h *Heap[K, V]) IsEmpty() bool { return h.count == 0 }

// Reset empties the heap, keeping the arena's capacity.
// All outstanding handles become stale.
func (h *Heap[K, V]) Reset() {
	for i := range h.entries {
		h.entries[i] = entry[K, V]{gen: h.entries[i].gen}
	}
	h.free = h.free[:0]
	for i := len(h.entries) - 1; i >= 0; i-- {
		h.free = append(h.free, int32(i))
	}
	h.min = nilIdx
	h.count = 0
	h.ready = true
}

// Insert adds a new entry and returns its handle.
func (h *Heap[K, V]) Insert(key K, value V) Handle {
	h.lazyInit()
	i := h.alloc(key, value)
	h.count++
	h.insertRoot(i)
	return Handle{idx: i, gen: h.entries[i].gen}
}

// FindMinimum returns the entry with the smallest key without removing it.
func (h *Heap[K, V]) FindMinimum() (K, V, error) {
	if h.count == 0 {
		var k K
		var v V
		return k, v, ErrEmpty
	}
	e := &h.entries[h.min]
	return e.key, e.value, nil
}

// ExtractMinimum removes and returns the entry with the smallest key.
func (h *Heap[K, V]) ExtractMinimum() (K, V, error) {
	if h.count == 0 {
		var k K
		var v V
		return k, v, ErrEmpty
	}

	z := h.min
	h.count--

	// Step 1: children of the minimum become roots.
	if c := h.entries[z].child; c != nilIdx {
		for i := c; ; {
			h.entries[i].parent = nilIdx
			h.entries[i].mark = false
			i = h.entries[i].next
			if i == c {
				break
			}
		}
		h.entries[z].child = nilIdx
		h.splice(z, c)
	}

	key, value := h.entries[z].key, h.entries[z].value

	// Step 2: last entry removed.
	if h.entries[z].next == z {
		h.min = nilIdx
		h.release(z)
		return key, value, nil
	}

	// Step 3: link roots of equal degree until all degrees are distinct.
	var roots [maxDegree]int32
	for d := range roots {
		roots[d] = nilIdx
	}
	for cur := h.entries[z].next; cur != z; {
		x := cur
		cur = h.entries[cur].next
		d := h.entries[x].degree
		for roots[d] != nilIdx {
			y := roots[d]
			// On equal keys the root visited later stays on top.
			if h.entries[x].key > h.entries[y].key {
				x, y = y, x
			}
			h.unlink(y)
			h.addChild(x, y)
			roots[d] = nilIdx
			d++
		}
		roots[d] = x
	}

	// Step 4: rebuild the root list from the degree table and find the minimum.
	h.min = nilIdx
	for _, r := range roots {
		if r == nilIdx {
			continue
		}
		h.entries[r].next = r
		h.entries[r].prev = r
		h.insertRoot(r)
	}

	h.release(z)
	return key, value, nil
}

// DecreaseKey lowers the key of the entry behind hd. Keys may only decrease;
// an equal key is a no-op.
func (h *Heap[K, V]) DecreaseKey(hd Handle, key K) error {
	if !h.valid(hd) {
		return ErrStaleHandle
	}
	i := hd.idx
	e := &h.entries[i]
	if key > e.key {
		return ErrKeyIncrease
	}
	if key == e.key {
		return nil
	}
	e.key = key

	parent := e.parent
	if parent == nilIdx {
		if key < h.entries[h.min].key {
			h.min = i
		}
		return nil
	}
	if h.entries[parent].key <= key {
		return nil
	}

	// Cut, then cascade up through marked ancestors.
	node := i
	for {
		if err := h.removeChild(parent, node); err != nil {
			return err
		}
		h.insertRoot(node)

		grand := h.entries[parent].parent
		if grand == nilIdx {
			break
		}
		if !h.entries[parent].mark {
			h.entries[parent].mark = true
			break
		}
		node = parent
		parent = grand
	}
	return nil
}

// Key returns the current key of the entry behind hd.
func (h *Heap[K, V]) Key(hd Handle) (K, error) {
	if !h.valid(hd) {
		var k K
		return k, ErrStaleHandle
	}
	return h.entries[hd.idx].key, nil
}

// Contains reports whether hd still refers to an entry in the heap.
func (h *Heap[K, V]) Contains(hd Handle) bool {
	return h.valid(hd)
}

// Merge moves every entry of other into h and empties other.
// Handles issued by other must be passed through the returned function
// before use with h.
func (h *Heap[K, V]) Merge(other *Heap[K, V]) func(Handle) Handle {
	h.lazyInit()
	if other == h {
		return func(hd Handle) Handle { return hd }
	}
	other.lazyInit()

	remap := make([]int32, len(other.entries))
	gens := make([]uint32, len(other.entries))
	for i := range other.entries {
		remap[i] = nilIdx
		if other.entries[i].live {
			remap[i] = h.alloc(other.entries[i].key, other.entries[i].value)
		}
	}
	at := func(i int32) int32 {
		if i == nilIdx {
			return nilIdx
		}
		return remap[i]
	}
	for i := range other.entries {
		src := &other.entries[i]
		if !src.live {
			continue
		}
		gens[i] = src.gen
		dst := &h.entries[remap[i]]
		dst.parent = at(src.parent)
		dst.child = at(src.child)
		dst.prev = at(src.prev)
		dst.next = at(src.next)
		dst.degree = src.degree
		dst.mark = src.mark
	}

	if other.min != nilIdx {
		om := remap[other.min]
		if h.min == nilIdx {
			h.min = om
		} else {
			h.splice(h.min, om)
			if h.entries[om].key < h.entries[h.min].key {
				h.min = om
			}
		}
	}
	h.count += other.count
	other.Reset()

	return func(hd Handle) Handle {
		if hd.idx < 0 || int(hd.idx) >= len(remap) || remap[hd.idx] == nilIdx || gens[hd.idx] != hd.gen {
			return Handle{idx: nilIdx}
		}
		ni := remap[hd.idx]
		return Handle{idx: ni, gen: h.entries[ni].gen}
	}
}

func (h *Heap[K, V]) valid(hd Handle) bool {
	if hd.idx < 0 || int(hd.idx) >= len(h.entries) {
		return false
	}
	e := &h.entries[hd.idx]
	return e.live && e.gen == hd.gen
}

// alloc takes a slot from the free list or grows the arena.
// The returned entry is a singleton ring with no parent or child.
func (h *Heap[K, V]) alloc(key K, value V) int32 {
	var i int32
	if n := len(h.free); n > 0 {
		i = h.free[n-1]
		h.free = h.free[:n-1]
	} else {
		i = int32(len(h.entries))
		h.entries = append(h.entries, entry[K, V]{})
	}
	gen := h.entries[i].gen + 1
	h.entries[i] = entry[K, V]{
		key:    key,
		value:  value,
		parent: nilIdx,
		child:  nilIdx,
		prev:   i,
		next:   i,
		live:   true,
		gen:    gen,
	}
	return i
}

func (h *Heap[K, V]) release(i int32) {
	h.entries[i] = entry[K, V]{gen: h.entries[i].gen}
	h.free = append(h.free, i)
}

// insertRoot adds the singleton ring i to the root list.
func (h *Heap[K, V]) insertRoot(i int32) {
	if h.min == nilIdx {
		h.min = i
		return
	}
	h.splice(h.min, i)
	if h.entries[i].key < h.entries[h.min].key {
		h.min = i
	}
}

// splice joins the ring containing b into the ring containing a, after a.
func (h *Heap[K, V]) splice(a, b int32) {
	an := h.entries[a].next
	bp := h.entries[b].prev
	h.entries[an].prev = bp
	h.entries[bp].next = an
	h.entries[a].next = b
	h.entries[b].prev = a
}

// unlink removes i from its ring, leaving it a singleton.
func (h *Heap[K, V]) unlink(i int32) {
	p, n := h.entries[i].prev, h.entries[i].next
	h.entries[p].next = n
	h.entries[n].prev = p
	h.entries[i].next = i
	h.entries[i].prev = i
}

func (h *Heap[K, V]) addChild(p, c int32) {
	if h.entries[p].child == nilIdx {
		h.entries[p].child = c
	} else {
		h.splice(h.entries[p].child, c)
	}
	h.entries[c].parent = p
	h.entries[c].mark = false
	h.entries[p].degree++
	h.entries[p].mark = false
}

func (h *Heap[K, V]) removeChild(p, c int32) error {
	if h.entries[c].parent != p {
		return ErrNotChild
	}
	if h.entries[c].next == c {
		if h.entries[p].child != c {
			return ErrNotChild
		}
		h.entries[p].child = nilIdx
	} else {
		if h.entries[p].child == c {
			h.entries[p].child = h.entries[c].next
		}
		h.unlink(c)
	}
	h.entries[c].parent = nilIdx
	h.entries[c].mark = false
	h.entries[p].degree--
	return nil
}
