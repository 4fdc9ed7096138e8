package graph

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrNotSymmetric is returned when a neighbour link has no matching back link.
	ErrNotSymmetric = errors.New("neighbour links are not symmetric")
	// ErrUnknownNode is returned when a NodeID does not belong to the graph.
	ErrUnknownNode = errors.New("unknown node")
)

// Direction is one of the four compass directions, numbered clockwise from North.
type Direction uint8

const (
	North Direction = iota
	East
	South
	West
)

// Directions lists the compass directions in clockwise order.
var Directions = [4]Direction{North, East, South, West}

func (d Direction) String() string {
	switch d {
	case North:
		return "North"
	case East:
		return "East"
	case South:
		return "South"
	case West:
		return "West"
	}
	return fmt.Sprintf("Direction(%d)", uint8(d))
}

// Clockwise returns the direction a quarter turn to the right.
func (d Direction) Clockwise() Direction { return (d + 1) % 4 }

// CounterClockwise returns the direction a quarter turn to the left.
func (d Direction) CounterClockwise() Direction { return (d + 3) % 4 }

// Opposite returns the direction facing back.
func (d Direction) Opposite() Direction { return (d + 2) % 4 }

// Position is a pixel coordinate in the maze image.
type Position struct {
	X int
	Y int
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// NodeID indexes a node in Graph.Nodes.
type NodeID uint32

// NoNode marks an absent neighbour or an unset start/end.
const NoNode NodeID = math.MaxUint32

// Node is a junction, corner or dead end of the maze.
type Node struct {
	Pos       Position
	Neighbors [4]NodeID // indexed by Direction; NoNode = wall
}

// Graph is the maze as a node arena.
// Neighbour links are symmetric and never mutated once the builder is done,
// so a Graph may be searched by several strategies at the same time.
type Graph struct {
	Width  int
	Height int
	Nodes  []Node
	Start  NodeID
	End    NodeID

	index map[Position]NodeID
}

// New creates an empty graph for an image of the given size.
func New(width, height int) *Graph {
	return &Graph{
		Width:  width,
		Height: height,
		Start:  NoNode,
		End:    NoNode,
		index:  make(map[Position]NodeID),
	}
}

// NumNodes returns the number of nodes.
func (g *Graph) NumNodes() int { return len(g.Nodes) }

// NumEdges returns the number of undirected corridors.
func (g *Graph) NumEdges() int {
	n := 0
	for i := range g.Nodes {
		for _, nb := range g.Nodes[i].Neighbors {
			if nb != NoNode {
				n++
			}
		}
	}
	return n / 2
}

// AddNode appends a node at p and returns its id. Adding a position twice
// returns the existing id.
func (g *Graph) AddNode(p Position) NodeID {
	if id, ok := g.index[p]; ok {
		return id
	}
	id := NodeID(len(g.Nodes))
	g.Nodes = append(g.Nodes, Node{
		Pos:       p,
		Neighbors: [4]NodeID{NoNode, NoNode, NoNode, NoNode},
	})
	g.index[p] = id
	return id
}

// Link connects a to b so that b is a's neighbour in direction d and a is b's
// neighbour in the opposite direction.
func (g *Graph) Link(a, b NodeID, d Direction) error {
	if !g.valid(a) || !g.valid(b) {
		return fmt.Errorf("link %d-%d: %w", a, b, ErrUnknownNode)
	}
	g.Nodes[a].Neighbors[d] = b
	g.Nodes[b].Neighbors[d.Opposite()] = a
	return nil
}

// Neighbor returns the neighbour of id in direction d.
func (g *Graph) Neighbor(id NodeID, d Direction) (NodeID, bool) {
	nb := g.Nodes[id].Neighbors[d]
	return nb, nb != NoNode
}

// Position returns the pixel position of id.
func (g *Graph) Position(id NodeID) Position {
	return g.Nodes[id].Pos
}

// Lookup finds the node at p.
func (g *Graph) Lookup(p Position) (NodeID, bool) {
	id, ok := g.index[p]
	return id, ok
}

// WithEndpoints returns a graph sharing g's nodes with a different start and end.
func (g *Graph) WithEndpoints(start, end NodeID) (*Graph, error) {
	if !g.valid(start) || !g.valid(end) {
		return nil, fmt.Errorf("endpoints %d,%d: %w", start, end, ErrUnknownNode)
	}
	cp := *g
	cp.Start = start
	cp.End = end
	return &cp, nil
}

// Clone returns a deep copy of g.
func (g *Graph) Clone() *Graph {
	cp := &Graph{
		Width:  g.Width,
		Height: g.Height,
		Nodes:  make([]Node, len(g.Nodes)),
		Start:  g.Start,
		End:    g.End,
		index:  make(map[Position]NodeID, len(g.Nodes)),
	}
	copy(cp.Nodes, g.Nodes)
	for p, id := range g.index {
		cp.index[p] = id
	}
	return cp
}

// Validate checks that start and end are set and that every link is symmetric.
func (g *Graph) Validate() error {
	if !g.valid(g.Start) {
		return ErrNoStart
	}
	if !g.valid(g.End) {
		return ErrNoEnd
	}
	for i := range g.Nodes {
		for _, d := range Directions {
			nb := g.Nodes[i].Neighbors[d]
			if nb == NoNode {
				continue
			}
			if !g.valid(nb) {
				return fmt.Errorf("node %s %s: %w", g.Nodes[i].Pos, d, ErrUnknownNode)
			}
			if g.Nodes[nb].Neighbors[d.Opposite()] != NodeID(i) {
				return fmt.Errorf("node %s %s: %w", g.Nodes[i].Pos, d, ErrNotSymmetric)
			}
		}
	}
	return nil
}

func (g *Graph) valid(id NodeID) bool {
	return id != NoNode && int(id) < len(g.Nodes)
}

// reindex rebuilds the position index after Nodes was filled directly.
func (g *Graph) reindex() {
	g.index = make(map[Position]NodeID, len(g.Nodes))
	for i := range g.Nodes {
		g.index[g.Nodes[i].Pos] = NodeID(i)
	}
}

// FromNodes builds a graph from an already linked node table, as produced by
// a decoder. The table is taken over, not copied.
func FromNodes(width, height int, nodes []Node, start, end NodeID) *Graph {
	g := &Graph{
		Width:  width,
		Height: height,
		Nodes:  nodes,
		Start:  start,
		End:    end,
	}
	g.reindex()
	return g
}
