package graph

import "testing"

func TestUnionFind(t *testing.T) {
	uf := NewUnionFind(5)

	// Initially all separate.
	for i := range uint32(5) {
		if uf.Find(i) != i {
			t.Errorf("Find(%d) = %d, want %d", i, uf.Find(i), i)
		}
	}

	uf.Union(0, 1)
	if uf.Find(0) != uf.Find(1) {
		t.Error("0 and 1 should be in same set")
	}

	uf.Union(2, 3)
	if uf.Find(2) != uf.Find(3) {
		t.Error("2 and 3 should be in same set")
	}

	if uf.Find(0) == uf.Find(2) {
		t.Error("0 and 2 should be in different sets")
	}

	if !uf.Union(1, 3) {
		t.Error("Union(1, 3) = false, want true")
	}
	if uf.Union(0, 2) {
		t.Error("Union(0, 2) = true for already merged sets")
	}
	if uf.Size(0) != 4 {
		t.Errorf("Size(0) = %d, want 4", uf.Size(0))
	}
}

// islandGraph has a start-end corridor and a separate two-node island.
func islandGraph() *Graph {
	g := New(10, 10)
	s := g.AddNode(Position{X: 1, Y: 0})
	m := g.AddNode(Position{X: 1, Y: 4})
	e := g.AddNode(Position{X: 1, Y: 9})
	a := g.AddNode(Position{X: 5, Y: 5})
	b := g.AddNode(Position{X: 7, Y: 5})
	g.Link(s, m, South)
	g.Link(m, e, South)
	g.Link(a, b, East)
	g.Start, g.End = s, e
	return g
}

func TestComponents(t *testing.T) {
	g := islandGraph()

	if n := ComponentCount(g); n != 2 {
		t.Errorf("ComponentCount = %d, want 2", n)
	}
	if !Solvable(g) {
		t.Error("Solvable = false, want true")
	}
	if Connected(g, g.Start, 3) {
		t.Error("start connected to island")
	}
	if Connected(g, g.Start, NoNode) {
		t.Error("Connected to NoNode = true")
	}

	largest := LargestComponent(g)
	if len(largest) != 3 {
		t.Fatalf("LargestComponent size = %d, want 3", len(largest))
	}
	for i, want := range []NodeID{0, 1, 2} {
		if largest[i] != want {
			t.Errorf("LargestComponent[%d] = %d, want %d", i, largest[i], want)
		}
	}
}

func TestLargestComponentEmpty(t *testing.T) {
	if got := LargestComponent(New(1, 1)); got != nil {
		t.Errorf("LargestComponent(empty) = %v, want nil", got)
	}
}

func TestUnsolvable(t *testing.T) {
	g := islandGraph()
	g.End = 4
	if Solvable(g) {
		t.Error("Solvable = true for end on island")
	}
}
