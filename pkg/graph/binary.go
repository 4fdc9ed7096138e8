package graph

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
	"os"
)

const (
	magicBytes   = "MZSOLVER"
	version      = uint32(1)
	maxNodes     = 50_000_000
	maxDimension = 1 << 20

	// Two int32 coordinates and four uint32 neighbours.
	bytesPerNode = 2*4 + 4*4
)

// fileHeader is the binary header.
type fileHeader struct {
	Magic    [8]byte
	Version  uint32
	Width    uint32
	Height   uint32
	NumNodes uint32
	Start    uint32
	End      uint32
}

// WriteBinary serializes a maze graph to a little-endian binary file.
// Layout: header, node positions (x,y int32 pairs), neighbour table
// (4 uint32 per node in N/E/S/W order), CRC32 trailer over everything before it.
func WriteBinary(path string, g *Graph) error {
	tmpPath := path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		f.Close()
		os.Remove(tmpPath) // clean up on error
	}()

	crcWriter := crc32Writer{w: f, hash: crc32.NewIEEE()}
	w := &crcWriter

	hdr := fileHeader{
		Version:  version,
		Width:    uint32(g.Width),
		Height:   uint32(g.Height),
		NumNodes: uint32(len(g.Nodes)),
		Start:    uint32(g.Start),
		End:      uint32(g.End),
	}
	copy(hdr.Magic[:], magicBytes)
	if err := binary.Write(w, binary.LittleEndian, &hdr); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	positions := make([]int32, 2*len(g.Nodes))
	neighbors := make([]uint32, 4*len(g.Nodes))
	for i := range g.Nodes {
		positions[2*i] = int32(g.Nodes[i].Pos.X)
		positions[2*i+1] = int32(g.Nodes[i].Pos.Y)
		for d, nb := range g.Nodes[i].Neighbors {
			neighbors[4*i+d] = uint32(nb)
		}
	}

	if err := writeInt32Slice(w, positions); err != nil {
		return fmt.Errorf("write positions: %w", err)
	}
	if err := writeUint32Slice(w, neighbors); err != nil {
		return fmt.Errorf("write neighbors: %w", err)
	}

	checksum := crcWriter.hash.Sum32()
	if err := binary.Write(f, binary.LittleEndian, checksum); err != nil {
		return fmt.Errorf("write CRC32: %w", err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	// Atomic rename.
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}

	return nil
}

// ReadBinary deserializes a maze graph from a binary file.
func ReadBinary(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	crcReader := crc32Reader{r: f, hash: crc32.NewIEEE()}
	r := &crcReader

	var hdr fileHeader
	if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	if string(hdr.Magic[:]) != magicBytes {
		return nil, fmt.Errorf("invalid magic bytes: %q", hdr.Magic)
	}
	if hdr.Version != version {
		return nil, fmt.Errorf("unsupported version: %d", hdr.Version)
	}
	if hdr.NumNodes > maxNodes {
		return nil, fmt.Errorf("NumNodes %d exceeds limit %d", hdr.NumNodes, maxNodes)
	}
	if hdr.Width > maxDimension || hdr.Height > maxDimension {
		return nil, fmt.Errorf("dimensions %dx%d exceed limit %d", hdr.Width, hdr.Height, maxDimension)
	}

	// The body is sized by the header; check it before allocating.
	n := int(hdr.NumNodes)
	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat: %w", err)
	}
	wantSize := int64(binary.Size(hdr)) + int64(n)*bytesPerNode + 4
	if info.Size() != wantSize {
		return nil, fmt.Errorf("file size %d, want %d for %d nodes", info.Size(), wantSize, n)
	}

	positions, err := readInt32Slice(r, 2*n)
	if err != nil {
		return nil, fmt.Errorf("read positions: %w", err)
	}
	neighbors, err := readUint32Slice(r, 4*n)
	if err != nil {
		return nil, fmt.Errorf("read neighbors: %w", err)
	}

	expectedCRC := crcReader.hash.Sum32()
	var storedCRC uint32
	if err := binary.Read(f, binary.LittleEndian, &storedCRC); err != nil {
		return nil, fmt.Errorf("read CRC32: %w", err)
	}
	if storedCRC != expectedCRC {
		return nil, fmt.Errorf("CRC32 mismatch: stored=%08x computed=%08x", storedCRC, expectedCRC)
	}

	nodes := make([]Node, n)
	for i := range nodes {
		nodes[i].Pos = Position{X: int(positions[2*i]), Y: int(positions[2*i+1])}
		for d := range nodes[i].Neighbors {
			nodes[i].Neighbors[d] = NodeID(neighbors[4*i+d])
		}
	}

	g := FromNodes(int(hdr.Width), int(hdr.Height), nodes, NodeID(hdr.Start), NodeID(hdr.End))
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("graph invalid: %w", err)
	}
	return g, nil
}

// Slice helpers. Values are encoded little-endian regardless of the host.

func writeUint32Slice(w io.Writer, s []uint32) error {
	if len(s) == 0 {
		return nil
	}
	b := make([]byte, 0, len(s)*4)
	for _, v := range s {
		b = binary.LittleEndian.AppendUint32(b, v)
	}
	_, err := w.Write(b)
	return err
}

func writeInt32Slice(w io.Writer, s []int32) error {
	if len(s) == 0 {
		return nil
	}
	b := make([]byte, 0, len(s)*4)
	for _, v := range s {
		b = binary.LittleEndian.AppendUint32(b, uint32(v))
	}
	_, err := w.Write(b)
	return err
}

func readUint32Slice(r io.Reader, n int) ([]uint32, error) {
	if n == 0 {
		return nil, nil
	}
	b := make([]byte, n*4)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, err
	}
	s := make([]uint32, n)
	for i := range s {
		s[i] = binary.LittleEndian.Uint32(b[4*i:])
	}
	return s, nil
}

func readInt32Slice(r io.Reader, n int) ([]int32, error) {
	if n == 0 {
		return nil, nil
	}
	b := make([]byte, n*4)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, err
	}
	s := make([]int32, n)
	for i := range s {
		s[i] = int32(binary.LittleEndian.Uint32(b[4*i:]))
	}
	return s, nil
}

// CRC32 wrapping writers/readers.

type crc32Writer struct {
	w    io.Writer
	hash crc32Hash
}

type crc32Hash interface {
	Write([]byte) (int, error)
	Sum32() uint32
}

func (cw *crc32Writer) Write(p []byte) (int, error) {
	cw.hash.Write(p)
	return cw.w.Write(p)
}

type crc32Reader struct {
	r    io.Reader
	hash crc32Hash
}

func (cr *crc32Reader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	if n > 0 {
		cr.hash.Write(p[:n])
	}
	return n, err
}
