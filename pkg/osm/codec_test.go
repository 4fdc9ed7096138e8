package osm

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/paulmach/osm"

	"github.com/azybler/maze_solver/pkg/graph"
)

func loopGraph(t *testing.T) *graph.Graph {
	t.Helper()
	img, err := graph.ParseText([]string{
		"# ###",
		"#   #",
		"# # #",
		"#   #",
		"### #",
	})
	if err != nil {
		t.Fatalf("ParseText: %v", err)
	}
	g, err := graph.Build(img)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return g
}

func assertSameGraph(t *testing.T, got, want *graph.Graph) {
	t.Helper()
	if got.Width != want.Width || got.Height != want.Height {
		t.Errorf("size = %dx%d, want %dx%d", got.Width, got.Height, want.Width, want.Height)
	}
	if got.NumNodes() != want.NumNodes() {
		t.Fatalf("NumNodes = %d, want %d", got.NumNodes(), want.NumNodes())
	}
	if got.NumEdges() != want.NumEdges() {
		t.Errorf("NumEdges = %d, want %d", got.NumEdges(), want.NumEdges())
	}
	for i := range want.Nodes {
		if got.Nodes[i] != want.Nodes[i] {
			t.Errorf("node %d = %+v, want %+v", i, got.Nodes[i], want.Nodes[i])
		}
	}
	if got.Start != want.Start || got.End != want.End {
		t.Errorf("endpoints = %d,%d, want %d,%d", got.Start, got.End, want.Start, want.End)
	}
}

func TestToOSM(t *testing.T) {
	g := loopGraph(t)
	o := ToOSM(g)

	if len(o.Nodes) != g.NumNodes() {
		t.Errorf("nodes = %d, want %d", len(o.Nodes), g.NumNodes())
	}
	if len(o.Ways) != g.NumEdges() {
		t.Errorf("ways = %d, want %d", len(o.Ways), g.NumEdges())
	}
	if len(o.Relations) != 1 {
		t.Fatalf("relations = %d, want 1", len(o.Relations))
	}
	if w := o.Relations[0].Tags.Find(tagWidth); w != "5" {
		t.Errorf("width tag = %q, want 5", w)
	}

	start := o.Nodes[g.Start]
	if role := start.Tags.Find(tagRole); role != roleStart {
		t.Errorf("start role = %q, want %q", role, roleStart)
	}
	if start.ID != 1 {
		t.Errorf("start id = %d, want 1", start.ID)
	}
	if start.Lat != 0 || start.Lon != 1e-5 {
		t.Errorf("start lat/lon = %v/%v, want 0/1e-5", start.Lat, start.Lon)
	}
}

func TestRoundTripXML(t *testing.T) {
	g := loopGraph(t)

	var buf bytes.Buffer
	if err := Encode(&buf, g); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "<?xml") {
		t.Error("missing xml header")
	}

	got, err := ReadXML(context.Background(), &buf)
	if err != nil {
		t.Fatalf("ReadXML: %v", err)
	}
	assertSameGraph(t, got, g)
}

func TestRoundTripFile(t *testing.T) {
	g := loopGraph(t)
	path := filepath.Join(t.TempDir(), "maze.osm")

	if err := WriteFile(path, g); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	got, err := ReadFile(context.Background(), path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	assertSameGraph(t, got, g)
}

// sliceScanner replays a fixed list of objects.
type sliceScanner struct {
	objs []osm.Object
	i    int
}

func (s *sliceScanner) Scan() bool {
	s.i++
	return s.i <= len(s.objs)
}
func (s *sliceScanner) Object() osm.Object { return s.objs[s.i-1] }
func (s *sliceScanner) Err() error         { return nil }
func (s *sliceScanner) Close() error       { return nil }

func mazeRelation() *osm.Relation {
	return &osm.Relation{ID: 1, Tags: osm.Tags{
		{Key: tagType, Value: mazeType},
		{Key: tagWidth, Value: "3"},
		{Key: tagHeight, Value: "3"},
	}}
}

func node(id osm.NodeID, x, y, role string) *osm.Node {
	tags := osm.Tags{{Key: tagX, Value: x}, {Key: tagY, Value: y}}
	if role != "" {
		tags = append(tags, osm.Tag{Key: tagRole, Value: role})
	}
	return &osm.Node{ID: id, Tags: tags}
}

func way(id osm.WayID, ids ...osm.NodeID) *osm.Way {
	w := &osm.Way{ID: id}
	for _, n := range ids {
		w.Nodes = append(w.Nodes, osm.WayNode{ID: n})
	}
	return w
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		objs []osm.Object
		want string
	}{
		{
			name: "no maze relation",
			objs: []osm.Object{node(1, "1", "0", roleStart)},
			want: "no maze relation",
		},
		{
			name: "diagonal corridor",
			objs: []osm.Object{
				mazeRelation(),
				node(1, "1", "0", roleStart),
				node(2, "2", "2", roleEnd),
				way(1, 1, 2),
			},
			want: "not straight",
		},
		{
			name: "missing coordinate",
			objs: []osm.Object{mazeRelation(), &osm.Node{ID: 7}},
			want: "missing maze:x tag",
		},
		{
			name: "unknown node",
			objs: []osm.Object{mazeRelation(), node(1, "1", "0", roleStart), way(1, 1, 9)},
			want: "unknown node 9",
		},
		{
			name: "long way",
			objs: []osm.Object{mazeRelation(), way(1, 1, 2, 3)},
			want: "has 3 nodes",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(&sliceScanner{objs: tt.objs})
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestDecodeNoEnd(t *testing.T) {
	objs := []osm.Object{
		mazeRelation(),
		node(1, "1", "0", roleStart),
		node(2, "1", "2", ""),
		way(1, 1, 2),
	}
	_, err := Decode(&sliceScanner{objs: objs})
	if !errors.Is(err, graph.ErrNoEnd) {
		t.Errorf("err = %v, want ErrNoEnd", err)
	}
}

func TestDecodeSortsNodes(t *testing.T) {
	objs := []osm.Object{
		way(1, 5, 3),
		node(5, "1", "2", roleEnd),
		mazeRelation(),
		node(3, "1", "0", roleStart),
	}
	g, err := Decode(&sliceScanner{objs: objs})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if g.Start != 0 || g.End != 1 {
		t.Errorf("endpoints = %d,%d, want 0,1", g.Start, g.End)
	}
	if nb, ok := g.Neighbor(g.Start, graph.South); !ok || nb != g.End {
		t.Errorf("start south = %d,%v, want %d", nb, ok, g.End)
	}
}
