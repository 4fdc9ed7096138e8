package render

import (
	"context"
	"fmt"
	"io"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"

	"github.com/azybler/maze_solver/pkg/graph"
)

// ParseGraphvizFormat maps a name to a graphviz output format.
func ParseGraphvizFormat(s string) (graphviz.Format, error) {
	switch s {
	case "svg":
		return graphviz.SVG, nil
	case "png":
		return graphviz.PNG, nil
	case "dot", "xdot":
		return graphviz.XDOT, nil
	}
	return "", fmt.Errorf("unknown graphviz format %q", s)
}

// Graphviz renders g with every node pinned at its pixel position. Corridors
// on path are drawn thick and red; the start is green and the end blue.
func Graphviz(ctx context.Context, g *graph.Graph, path []graph.Position, format graphviz.Format, w io.Writer) error {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return fmt.Errorf("graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	out, err := gv.Graph(graphviz.WithDirectedType(graphviz.UnDirected))
	if err != nil {
		return fmt.Errorf("graphviz: %w", err)
	}
	defer out.Close()
	out.SetSplines("false")

	onPath := make(map[[2]graph.Position]bool, len(path))
	for i := 0; i+1 < len(path); i++ {
		onPath[[2]graph.Position{path[i], path[i+1]}] = true
		onPath[[2]graph.Position{path[i+1], path[i]}] = true
	}

	nodes := make([]*cgraph.Node, len(g.Nodes))
	for i, n := range g.Nodes {
		node, err := out.CreateNodeByName(fmt.Sprintf("n%d", i))
		if err != nil {
			return fmt.Errorf("graphviz: node %s: %w", n.Pos, err)
		}
		// Graphviz y grows upwards.
		node.SetPos(float64(n.Pos.X), float64(-n.Pos.Y)).SetPin(true)
		node.SetShape(cgraph.PointShape).SetLabel(n.Pos.String())
		switch graph.NodeID(i) {
		case g.Start:
			node.SetColor("green").SetWidth(0.15)
		case g.End:
			node.SetColor("blue").SetWidth(0.15)
		}
		nodes[i] = node
	}

	for i, n := range g.Nodes {
		for _, d := range [2]graph.Direction{graph.East, graph.South} {
			nb := n.Neighbors[d]
			if nb == graph.NoNode {
				continue
			}
			e, err := out.CreateEdgeByName(fmt.Sprintf("e%d%s", i, d), nodes[i], nodes[nb])
			if err != nil {
				return fmt.Errorf("graphviz: corridor %s-%s: %w", n.Pos, g.Position(nb), err)
			}
			if onPath[[2]graph.Position{n.Pos, g.Position(nb)}] {
				e.SetColor("red").SetPenWidth(3)
			}
		}
	}

	if err := gv.Render(ctx, out, format, w); err != nil {
		return fmt.Errorf("graphviz: render: %w", err)
	}
	return nil
}
