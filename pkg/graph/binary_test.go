package graph_test

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/azybler/maze_solver/pkg/graph"
)

func buildTestGraph(t *testing.T) *graph.Graph {
	t.Helper()
	img, err := graph.ParseText([]string{
		"# #####",
		"#     #",
		"# # # #",
		"# #   #",
		"##### #",
	})
	if err != nil {
		t.Fatal(err)
	}
	g, err := graph.Build(img)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestBinaryRoundTrip(t *testing.T) {
	original := buildTestGraph(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "test.graph.bin")

	if err := graph.WriteBinary(path, original); err != nil {
		t.Fatalf("WriteBinary: %v", err)
	}

	loaded, err := graph.ReadBinary(path)
	if err != nil {
		t.Fatalf("ReadBinary: %v", err)
	}

	if loaded.NumNodes() != original.NumNodes() {
		t.Fatalf("NumNodes: got %d, want %d", loaded.NumNodes(), original.NumNodes())
	}
	if loaded.Width != original.Width || loaded.Height != original.Height {
		t.Errorf("size: got %dx%d, want %dx%d", loaded.Width, loaded.Height, original.Width, original.Height)
	}
	if loaded.Start != original.Start || loaded.End != original.End {
		t.Errorf("endpoints: got %d,%d, want %d,%d", loaded.Start, loaded.End, original.Start, original.End)
	}
	for i := range original.Nodes {
		if loaded.Nodes[i] != original.Nodes[i] {
			t.Errorf("Nodes[%d]: got %+v, want %+v", i, loaded.Nodes[i], original.Nodes[i])
		}
	}
	if _, ok := loaded.Lookup(original.Position(original.End)); !ok {
		t.Error("loaded graph has no position index")
	}

	// Temp file must not linger.
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temp file still exists after WriteBinary")
	}
}

func TestBinaryCorruption(t *testing.T) {
	original := buildTestGraph(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "test.graph.bin")
	if err := graph.WriteBinary(path, original); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	// Flip a byte in the neighbour table.
	data[len(data)-8] ^= 0xFF
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := graph.ReadBinary(path); err == nil {
		t.Error("expected CRC error on corrupted file")
	}
}

func TestBinaryBadMagic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.bin")
	if err := os.WriteFile(path, []byte("NOTAMAZEFILE...................."), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := graph.ReadBinary(path); err == nil {
		t.Error("expected error on bad magic")
	}
}

func TestBinaryLittleEndian(t *testing.T) {
	g := buildTestGraph(t)

	path := filepath.Join(t.TempDir(), "test.graph.bin")
	if err := graph.WriteBinary(path, g); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	// Header: magic (8), version, width, height, nodes, start, end.
	if got := binary.LittleEndian.Uint32(data[8:]); got != 1 {
		t.Errorf("version = %d, want 1", got)
	}
	if got := binary.LittleEndian.Uint32(data[12:]); got != uint32(g.Width) {
		t.Errorf("width = %d, want %d", got, g.Width)
	}
	if got := binary.LittleEndian.Uint32(data[20:]); got != uint32(g.NumNodes()) {
		t.Errorf("nodes = %d, want %d", got, g.NumNodes())
	}
	// First position pair is node 0, the start at (1,0).
	if x, y := binary.LittleEndian.Uint32(data[32:]), binary.LittleEndian.Uint32(data[36:]); x != 1 || y != 0 {
		t.Errorf("node 0 position = (%d,%d), want (1,0)", x, y)
	}
	if want := 32 + 24*g.NumNodes() + 4; len(data) != want {
		t.Errorf("file size = %d, want %d", len(data), want)
	}
}

func TestBinaryTruncatedBody(t *testing.T) {
	// A bare header claiming 40M nodes must be rejected before the body is read.
	hdr := []byte("MZSOLVER")
	for _, v := range []uint32{1, 5, 5, 40_000_000, 0, 1} {
		hdr = binary.LittleEndian.AppendUint32(hdr, v)
	}
	path := filepath.Join(t.TempDir(), "short.bin")
	if err := os.WriteFile(path, hdr, 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := graph.ReadBinary(path)
	if err == nil {
		t.Fatal("expected error for truncated file")
	}
	if !strings.Contains(err.Error(), "file size") {
		t.Errorf("err = %v, want file size error", err)
	}
}
