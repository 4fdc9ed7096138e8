package graph

// UnionFind implements a disjoint-set data structure with path compression
// and union by rank.
type UnionFind struct {
	parent []uint32
	rank   []byte
	size   []uint32
}

// NewUnionFind creates a UnionFind for n elements.
func NewUnionFind(n uint32) *UnionFind {
	parent := make([]uint32, n)
	size := make([]uint32, n)
	for i := range n {
		parent[i] = i
		size[i] = 1
	}
	return &UnionFind{
		parent: parent,
		rank:   make([]byte, n),
		size:   size,
	}
}

// Find returns the representative of the set containing x, with path halving.
func (uf *UnionFind) Find(x uint32) uint32 {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]] // path halving
		x = uf.parent[x]
	}
	return x
}

// Union merges the sets containing x and y. Returns false if already same set.
func (uf *UnionFind) Union(x, y uint32) bool {
	rx := uf.Find(x)
	ry := uf.Find(y)
	if rx == ry {
		return false
	}

	if uf.rank[rx] < uf.rank[ry] {
		rx, ry = ry, rx
	}
	uf.parent[ry] = rx
	uf.size[rx] += uf.size[ry]
	if uf.rank[rx] == uf.rank[ry] {
		uf.rank[rx]++
	}
	return true
}

// Size returns the number of elements in x's set.
func (uf *UnionFind) Size(x uint32) uint32 {
	return uf.size[uf.Find(x)]
}

// Components unions every neighbour link of g.
func Components(g *Graph) *UnionFind {
	uf := NewUnionFind(uint32(len(g.Nodes)))
	for i := range g.Nodes {
		// East and South cover every undirected link once.
		for _, d := range [2]Direction{East, South} {
			if nb := g.Nodes[i].Neighbors[d]; nb != NoNode {
				uf.Union(uint32(i), uint32(nb))
			}
		}
	}
	return uf
}

// Connected reports whether b can be reached from a.
func Connected(g *Graph, a, b NodeID) bool {
	if !g.valid(a) || !g.valid(b) {
		return false
	}
	uf := Components(g)
	return uf.Find(uint32(a)) == uf.Find(uint32(b))
}

// Solvable reports whether the end node is reachable from the start node.
func Solvable(g *Graph) bool {
	return Connected(g, g.Start, g.End)
}

// ComponentCount returns the number of connected components.
func ComponentCount(g *Graph) int {
	uf := Components(g)
	n := 0
	for i := range g.Nodes {
		if uf.Find(uint32(i)) == uint32(i) {
			n++
		}
	}
	return n
}

// LargestComponent returns the node ids belonging to the largest
// connected component.
func LargestComponent(g *Graph) []NodeID {
	if len(g.Nodes) == 0 {
		return nil
	}

	uf := Components(g)

	bestRoot := uint32(0)
	bestSize := uint32(0)
	for i := range g.Nodes {
		root := uf.Find(uint32(i))
		if uf.size[root] > bestSize {
			bestRoot = root
			bestSize = uf.size[root]
		}
	}

	nodes := make([]NodeID, 0, bestSize)
	for i := range g.Nodes {
		if uf.Find(uint32(i)) == bestRoot {
			nodes = append(nodes, NodeID(i))
		}
	}

	return nodes
}
