package solver

import "github.com/azybler/maze_solver/pkg/graph"

// expandOrder is the neighbour order used by the searches.
var expandOrder = [4]graph.Direction{graph.North, graph.South, graph.East, graph.West}

// newPredecessors returns a predecessor table with every entry unset.
func newPredecessors(n int) []graph.NodeID {
	pred := make([]graph.NodeID, n)
	for i := range pred {
		pred[i] = graph.NoNode
	}
	return pred
}

// reconstructPath walks predecessors back from end and returns the positions
// from the root of the walk to end.
func reconstructPath(g *graph.Graph, pred []graph.NodeID, end graph.NodeID) []graph.Position {
	var path []graph.Position
	for node := end; node != graph.NoNode; node = pred[node] {
		path = append(path, g.Position(node))
		if len(path) > len(pred) {
			break // cycle guard
		}
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
