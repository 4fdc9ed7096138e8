package fibheap

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// verify walks every tree and checks ring links, parent links, degrees,
// heap order and the entry count.
func verify[V any](t *testing.T, h *Heap[int, V]) {
	t.Helper()
	if h.count == 0 {
		require.Equal(t, nilIdx, h.min, "empty heap must have no minimum")
		return
	}

	seen := 0
	var walk func(first, parent int32)
	walk = func(first, parent int32) {
		i := first
		for {
			e := h.entries[i]
			require.True(t, e.live, "entry %d in tree is not live", i)
			require.Equal(t, parent, e.parent, "entry %d parent", i)
			require.Equal(t, i, h.entries[e.next].prev, "entry %d ring link", i)
			if parent == nilIdx {
				require.LessOrEqual(t, h.entries[h.min].key, e.key, "root %d below minimum", i)
			} else {
				require.LessOrEqual(t, h.entries[parent].key, e.key, "entry %d violates heap order", i)
			}

			seen++
			require.LessOrEqual(t, seen, len(h.entries), "ring does not close")

			children := 0
			if e.child != nilIdx {
				for c := e.child; ; {
					children++
					c = h.entries[c].next
					if c == e.child {
						break
					}
				}
				walk(e.child, i)
			}
			require.Equal(t, int(e.degree), children, "entry %d degree", i)

			i = e.next
			if i == first {
				break
			}
		}
	}
	walk(h.min, nilIdx)
	require.Equal(t, h.count, seen)
}

func rootDegrees[V any](h *Heap[int, V]) []int32 {
	var out []int32
	if h.min == nilIdx {
		return out
	}
	for i := h.min; ; {
		out = append(out, h.entries[i].degree)
		i = h.entries[i].next
		if i == h.min {
			break
		}
	}
	return out
}

func TestEmptyHeap(t *testing.T) {
	h := New[int, string](0)

	_, _, err := h.FindMinimum()
	assert.ErrorIs(t, err, ErrEmpty)
	_, _, err = h.ExtractMinimum()
	assert.ErrorIs(t, err, ErrEmpty)
	assert.True(t, h.IsEmpty())
}

func TestZeroValueHeap(t *testing.T) {
	var h Heap[int, string]
	h.Insert(3, "c")
	h.Insert(1, "a")

	k, v, err := h.FindMinimum()
	require.NoError(t, err)
	assert.Equal(t, 1, k)
	assert.Equal(t, "a", v)
	verify(t, &h)
}

func TestExtractionOrder(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	h := New[int, int](0)

	var keys []int
	for i := 0; i < 500; i++ {
		k := rng.IntN(100) // many duplicates
		keys = append(keys, k)
		h.Insert(k, i)
	}
	slices.Sort(keys)

	var got []int
	for !h.IsEmpty() {
		k, _, err := h.ExtractMinimum()
		require.NoError(t, err)
		got = append(got, k)
		verify(t, h)
	}
	assert.Equal(t, keys, got)
}

func TestSingleEntry(t *testing.T) {
	h := New[int, string](1)
	h.Insert(7, "seven")

	k, v, err := h.ExtractMinimum()
	require.NoError(t, err)
	assert.Equal(t, 7, k)
	assert.Equal(t, "seven", v)
	assert.Equal(t, 0, h.Len())
	verify(t, h)
}

func TestDegreesUniqueAfterExtract(t *testing.T) {
	h := New[int, int](0)
	for i := 0; i < 64; i++ {
		h.Insert(i, i)
	}
	for h.Len() > 1 {
		_, _, err := h.ExtractMinimum()
		require.NoError(t, err)

		degrees := rootDegrees(h)
		seen := make(map[int32]bool)
		for _, d := range degrees {
			assert.False(t, seen[d], "two roots share degree %d", d)
			seen[d] = true
		}
	}
}

func TestDecreaseKey(t *testing.T) {
	h := New[int, string](0)
	a := h.Insert(10, "a")
	b := h.Insert(20, "b")
	h.Insert(5, "c")

	// Increase is rejected without mutation.
	assert.ErrorIs(t, h.DecreaseKey(a, 11), ErrKeyIncrease)
	k, err := h.Key(a)
	require.NoError(t, err)
	assert.Equal(t, 10, k)

	// Equal key is a no-op.
	assert.NoError(t, h.DecreaseKey(a, 10))

	// Below the minimum is visible immediately.
	require.NoError(t, h.DecreaseKey(b, 1))
	k, v, err := h.FindMinimum()
	require.NoError(t, err)
	assert.Equal(t, 1, k)
	assert.Equal(t, "b", v)
	verify(t, h)
}

func TestDecreaseKeyCutsAndMarks(t *testing.T) {
	h := New[int, int](0)
	handles := make([]Handle, 32)
	for i := range handles {
		handles[i] = h.Insert(100+i, i)
	}
	_, _, err := h.ExtractMinimum()
	require.NoError(t, err)
	verify(t, h)

	// Find a non-root p with a parent and at least two children.
	p := nilIdx
	for i := range h.entries {
		e := h.entries[i]
		if e.live && e.parent != nilIdx && e.degree >= 2 && !e.mark {
			p = int32(i)
			break
		}
	}
	require.NotEqual(t, nilIdx, p, "consolidation produced no suitable subtree")

	handleOf := func(i int32) Handle {
		return Handle{idx: i, gen: h.entries[i].gen}
	}

	// First cut marks p.
	first := h.entries[p].child
	require.NoError(t, h.DecreaseKey(handleOf(first), 0))
	assert.Equal(t, nilIdx, h.entries[first].parent, "cut entry must be a root")
	assert.True(t, h.entries[p].mark, "parent must be marked after losing a child")
	verify(t, h)

	// Second cut promotes p itself.
	second := h.entries[p].child
	require.NotEqual(t, nilIdx, second)
	require.NoError(t, h.DecreaseKey(handleOf(second), -1))
	assert.Equal(t, nilIdx, h.entries[p].parent, "marked parent must be cut")
	assert.False(t, h.entries[p].mark, "cut entry must be unmarked")
	verify(t, h)

	k, _, err := h.FindMinimum()
	require.NoError(t, err)
	assert.Equal(t, -1, k)
}

func TestRandomOperations(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 7))
	h := New[int, int](0)

	// Reference model: live handle -> key.
	model := make(map[Handle]int)

	for step := 0; step < 3000; step++ {
		switch op := rng.IntN(10); {
		case op < 5:
			k := rng.IntN(10_000)
			model[h.Insert(k, step)] = k
		case op < 8 && len(model) > 0:
			var hd Handle
			for hd = range model {
				break
			}
			nk := model[hd] - rng.IntN(500)
			require.NoError(t, h.DecreaseKey(hd, nk))
			model[hd] = nk
		case len(model) > 0:
			want := 1 << 62
			for _, k := range model {
				want = min(want, k)
			}
			k, _, err := h.ExtractMinimum()
			require.NoError(t, err)
			require.Equal(t, want, k)
			for hd, mk := range model {
				if mk == k && !h.Contains(hd) {
					delete(model, hd)
					break
				}
			}
		}
		if step%100 == 0 {
			verify(t, h)
		}
	}
	verify(t, h)
	assert.Equal(t, len(model), h.Len())
}

func TestStaleHandle(t *testing.T) {
	h := New[int, string](0)
	a := h.Insert(1, "a")
	_, _, err := h.ExtractMinimum()
	require.NoError(t, err)

	assert.ErrorIs(t, h.DecreaseKey(a, 0), ErrStaleHandle)

	// The slot is reused; the old handle must not address the new entry.
	b := h.Insert(5, "b")
	assert.Equal(t, a.idx, b.idx)
	assert.ErrorIs(t, h.DecreaseKey(a, 0), ErrStaleHandle)
	assert.NoError(t, h.DecreaseKey(b, 0))

	var zero Handle
	assert.False(t, h.Contains(zero))
}

func TestRemoveChildRejectsNonChild(t *testing.T) {
	h := New[int, int](0)
	for i := 0; i < 4; i++ {
		h.Insert(i, i)
	}
	_, _, err := h.ExtractMinimum()
	require.NoError(t, err)

	// Two roots are never parent and child of each other.
	roots := []int32{h.min, h.entries[h.min].next}
	assert.ErrorIs(t, h.removeChild(roots[0], roots[1]), ErrNotChild)
}

func TestMerge(t *testing.T) {
	a := New[int, string](0)
	b := New[int, string](0)
	a.Insert(5, "a5")
	a.Insert(9, "a9")
	hb := b.Insert(7, "b7")
	b.Insert(3, "b3")
	b.Insert(8, "b8")
	_, _, err := b.ExtractMinimum() // give b some tree structure
	require.NoError(t, err)

	translate := a.Merge(b)
	assert.Equal(t, 4, a.Len())
	assert.True(t, b.IsEmpty())
	verify(t, a)

	moved := translate(hb)
	require.True(t, a.Contains(moved))
	require.NoError(t, a.DecreaseKey(moved, 1))

	var got []string
	for !a.IsEmpty() {
		_, v, err := a.ExtractMinimum()
		require.NoError(t, err)
		got = append(got, v)
	}
	assert.Equal(t, []string{"b7", "a5", "b8", "a9"}, got)
}

func TestMergeIntoEmpty(t *testing.T) {
	a := New[int, string](0)
	b := New[int, string](0)
	b.Insert(2, "x")

	a.Merge(b)
	k, v, err := a.FindMinimum()
	require.NoError(t, err)
	assert.Equal(t, 2, k)
	assert.Equal(t, "x", v)
}

func TestReset(t *testing.T) {
	h := New[int, int](0)
	hd := h.Insert(1, 1)
	h.Insert(2, 2)
	h.Reset()

	assert.True(t, h.IsEmpty())
	assert.False(t, h.Contains(hd))
	h.Insert(4, 4)
	k, _, err := h.FindMinimum()
	require.NoError(t, err)
	assert.Equal(t, 4, k)
	verify(t, h)
}

func BenchmarkInsertExtract(b *testing.B) {
	rng := rand.New(rand.NewPCG(3, 4))
	h := New[int, int](1024)
	for b.Loop() {
		for i := 0; i < 1024; i++ {
			h.Insert(rng.IntN(1<<20), i)
		}
		for !h.IsEmpty() {
			h.ExtractMinimum()
		}
	}
}

func BenchmarkDecreaseKey(b *testing.B) {
	h := New[int, int](4096)
	handles := make([]Handle, 4096)
	for b.Loop() {
		h.Reset()
		for i := range handles {
			handles[i] = h.Insert(1<<20+i, i)
		}
		h.ExtractMinimum()
		for i := len(handles) - 1; i > 0; i-- {
			h.DecreaseKey(handles[i], i)
		}
	}
}
