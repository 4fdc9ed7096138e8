// Package osm stores maze graphs as OpenStreetMap data so they can be opened
// in OSM editors and viewers.
//
// Every maze node becomes an OSM node tagged with its pixel position, every
// corridor a two-node way, and a single relation carries the image size.
// Pixels map to coordinates at degreesPerPixel, with y growing southwards.
package osm

import (
	"cmp"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/paulmach/osm/osmxml"

	"github.com/azybler/maze_solver/pkg/graph"
)

const (
	degreesPerPixel = 1e-5
	generator       = "maze_solver"

	tagX      = "maze:x"
	tagY      = "maze:y"
	tagRole   = "maze:role"
	tagWidth  = "maze:width"
	tagHeight = "maze:height"
	tagType   = "type"
	mazeType  = "maze"
	roleStart = "start"
	roleEnd   = "end"
)

// ErrNoMaze is returned when the input has no maze relation.
var ErrNoMaze = errors.New("osm: no maze relation found")

// ToOSM converts g into an OSM document.
func ToOSM(g *graph.Graph) *osm.OSM {
	o := &osm.OSM{Version: "0.6", Generator: generator}

	o.Relations = append(o.Relations, &osm.Relation{
		ID:      1,
		Visible: true,
		Tags: osm.Tags{
			{Key: tagType, Value: mazeType},
			{Key: tagWidth, Value: strconv.Itoa(g.Width)},
			{Key: tagHeight, Value: strconv.Itoa(g.Height)},
		},
	})

	for i, n := range g.Nodes {
		tags := osm.Tags{
			{Key: tagX, Value: strconv.Itoa(n.Pos.X)},
			{Key: tagY, Value: strconv.Itoa(n.Pos.Y)},
		}
		switch graph.NodeID(i) {
		case g.Start:
			tags = append(tags, osm.Tag{Key: tagRole, Value: roleStart})
		case g.End:
			tags = append(tags, osm.Tag{Key: tagRole, Value: roleEnd})
		}
		o.Nodes = append(o.Nodes, &osm.Node{
			ID:      nodeID(graph.NodeID(i)),
			Lat:     -float64(n.Pos.Y) * degreesPerPixel,
			Lon:     float64(n.Pos.X) * degreesPerPixel,
			Visible: true,
			Tags:    tags,
		})
	}

	// East and South links cover every corridor once.
	wayID := osm.WayID(1)
	for i, n := range g.Nodes {
		for _, d := range [2]graph.Direction{graph.East, graph.South} {
			nb := n.Neighbors[d]
			if nb == graph.NoNode {
				continue
			}
			o.Ways = append(o.Ways, &osm.Way{
				ID:      wayID,
				Visible: true,
				Nodes:   osm.WayNodes{{ID: nodeID(graph.NodeID(i))}, {ID: nodeID(nb)}},
				Tags:    osm.Tags{{Key: "highway", Value: "footway"}},
			})
			wayID++
		}
	}
	return o
}

// OSM ids are positive.
func nodeID(id graph.NodeID) osm.NodeID { return osm.NodeID(id) + 1 }

// Encode writes g as OSM XML.
func Encode(w io.Writer, g *graph.Graph) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", " ")
	if err := enc.Encode(ToOSM(g)); err != nil {
		return fmt.Errorf("encoding osm xml: %w", err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// WriteFile writes g as OSM XML to path, atomically.
func WriteFile(path string, g *graph.Graph) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".maze-osm-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	if err := Encode(tmp, g); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	success = true
	return nil
}

// ReadXML decodes a maze graph from OSM XML.
func ReadXML(ctx context.Context, r io.Reader) (*graph.Graph, error) {
	scanner := osmxml.New(ctx, r)
	defer scanner.Close()
	return Decode(scanner)
}

// ReadPBF decodes a maze graph from an OSM PBF stream, such as one converted
// from ReadXML's input by osmium.
func ReadPBF(ctx context.Context, r io.Reader) (*graph.Graph, error) {
	scanner := osmpbf.New(ctx, r, 1)
	defer scanner.Close()
	return Decode(scanner)
}

// ReadFile decodes path, choosing PBF for ".pbf" files and XML otherwise.
func ReadFile(ctx context.Context, path string) (*graph.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if filepath.Ext(path) == ".pbf" {
		return ReadPBF(ctx, f)
	}
	return ReadXML(ctx, f)
}

type rawNode struct {
	id   osm.NodeID
	pos  graph.Position
	role string
}

// Decode builds a maze graph from every object scanner yields. Node ids are
// assigned in ascending OSM id order. Ways that are not straight horizontal
// or vertical corridors are rejected.
func Decode(scanner osm.Scanner) (*graph.Graph, error) {
	var (
		nodes         []rawNode
		corridors     [][2]osm.NodeID
		width, height int
		found         bool
	)

	for scanner.Scan() {
		switch obj := scanner.Object().(type) {
		case *osm.Relation:
			if obj.Tags.Find(tagType) != mazeType {
				continue
			}
			w, err := intTag(obj.Tags, tagWidth)
			if err != nil {
				return nil, fmt.Errorf("relation %d: %w", obj.ID, err)
			}
			h, err := intTag(obj.Tags, tagHeight)
			if err != nil {
				return nil, fmt.Errorf("relation %d: %w", obj.ID, err)
			}
			width, height, found = w, h, true
		case *osm.Node:
			x, err := intTag(obj.Tags, tagX)
			if err != nil {
				return nil, fmt.Errorf("node %d: %w", obj.ID, err)
			}
			y, err := intTag(obj.Tags, tagY)
			if err != nil {
				return nil, fmt.Errorf("node %d: %w", obj.ID, err)
			}
			nodes = append(nodes, rawNode{id: obj.ID, pos: graph.Position{X: x, Y: y}, role: obj.Tags.Find(tagRole)})
		case *osm.Way:
			if len(obj.Nodes) != 2 {
				return nil, fmt.Errorf("way %d: corridor has %d nodes, want 2", obj.ID, len(obj.Nodes))
			}
			corridors = append(corridors, [2]osm.NodeID{obj.Nodes[0].ID, obj.Nodes[1].ID})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning osm: %w", err)
	}
	if !found {
		return nil, ErrNoMaze
	}

	slices.SortFunc(nodes, func(a, b rawNode) int { return cmp.Compare(a.id, b.id) })

	g := graph.New(width, height)
	ids := make(map[osm.NodeID]graph.NodeID, len(nodes))
	for _, n := range nodes {
		id := g.AddNode(n.pos)
		ids[n.id] = id
		switch n.role {
		case roleStart:
			g.Start = id
		case roleEnd:
			g.End = id
		}
	}

	for _, c := range corridors {
		a, ok := ids[c[0]]
		if !ok {
			return nil, fmt.Errorf("corridor references unknown node %d", c[0])
		}
		b, ok := ids[c[1]]
		if !ok {
			return nil, fmt.Errorf("corridor references unknown node %d", c[1])
		}
		d, err := direction(g.Position(a), g.Position(b))
		if err != nil {
			return nil, err
		}
		if err := g.Link(a, b, d); err != nil {
			return nil, err
		}
	}

	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// direction returns the direction of b as seen from a.
func direction(a, b graph.Position) (graph.Direction, error) {
	switch {
	case a.X == b.X && b.Y < a.Y:
		return graph.North, nil
	case a.X == b.X && b.Y > a.Y:
		return graph.South, nil
	case a.Y == b.Y && b.X > a.X:
		return graph.East, nil
	case a.Y == b.Y && b.X < a.X:
		return graph.West, nil
	}
	return 0, fmt.Errorf("corridor %s-%s is not straight", a, b)
}

func intTag(tags osm.Tags, key string) (int, error) {
	v := tags.Find(key)
	if v == "" {
		return 0, fmt.Errorf("missing %s tag", key)
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("tag %s: %w", key, err)
	}
	return n, nil
}
