package graph

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
)

var (
	// ErrNoStart is returned when the top row has no opening.
	ErrNoStart = errors.New("there must be a start point in the top row of the image")
	// ErrNoEnd is returned when the bottom row has no opening.
	ErrNoEnd = errors.New("there must be an end point in the bottom row of the image")
	// ErrTooSmall is returned for images that cannot hold a bordered maze.
	ErrTooSmall = errors.New("image must be at least 3 pixels wide and 2 pixels high")
)

// PixelError reports a problem at a specific pixel of the maze image.
type PixelError struct {
	Pos Position
	Msg string
}

func (e *PixelError) Error() string {
	return fmt.Sprintf("%s (error occurred at pixel %s)", e.Msg, e.Pos)
}

type pixel uint8

const (
	black pixel = iota
	white
	other
)

// maze wraps the image with bounds-aware pixel classification.
type maze struct {
	img    image.Image
	minX   int
	minY   int
	width  int
	height int
}

func (m *maze) at(x, y int) (pixel, color.RGBA) {
	c := color.RGBAModel.Convert(m.img.At(m.minX+x, m.minY+y)).(color.RGBA)
	switch {
	case c.R == 255 && c.G == 255 && c.B == 255:
		return white, c
	case c.R == 0 && c.G == 0 && c.B == 0:
		return black, c
	}
	return other, c
}

// isWhite treats pixels beyond the left and right edges as wall.
func (m *maze) isWhite(x, y int) bool {
	if x < 0 || x >= m.width {
		return false
	}
	p, _ := m.at(x, y)
	return p == white
}

func colourError(x, y int, c color.RGBA) error {
	return &PixelError{
		Pos: Position{X: x, Y: y},
		Msg: fmt.Sprintf("image must be black and white (RGB values were (%d, %d, %d))", c.R, c.G, c.B),
	}
}

// Build converts a black and white maze image into a Graph.
//
// White pixels are open, black pixels are walls. The start is the leftmost
// opening in the top row and the end the leftmost opening in the bottom row,
// corners excluded. Every junction, corner and dead end becomes a node;
// straight tunnels are collapsed into a single link.
func Build(img image.Image) (*Graph, error) {
	b := img.Bounds()
	m := &maze{img: img, minX: b.Min.X, minY: b.Min.Y, width: b.Dx(), height: b.Dy()}
	if m.width < 3 || m.height < 2 {
		return nil, ErrTooSmall
	}

	g := New(m.width, m.height)

	// Last node in each column with open pixels below it.
	topNodes := make([]NodeID, m.width)
	for i := range topNodes {
		topNodes[i] = NoNode
	}

	// Step 1: start node in the top row.
	for x := 1; x < m.width-1; x++ {
		p, c := m.at(x, 0)
		if p == other {
			return nil, colourError(x, 0, c)
		}
		if p == white {
			g.Start = g.AddNode(Position{X: x, Y: 0})
			topNodes[x] = g.Start
			break
		}
	}
	if g.Start == NoNode {
		return nil, ErrNoStart
	}

	// Step 2: interior rows.
	for y := 1; y < m.height-1; y++ {
		leftNode := NoNode

		for x := 0; x < m.width; x++ {
			p, c := m.at(x, y)
			switch p {
			case black:
				topNodes[x] = NoNode
				leftNode = NoNode
				continue
			case other:
				return nil, colourError(x, y, c)
			}

			north := m.isWhite(x, y-1)
			south := m.isWhite(x, y+1)
			east := m.isWhite(x+1, y)
			west := m.isWhite(x-1, y)

			// Straight tunnels are not nodes.
			if north && south && !east && !west {
				continue
			}
			if east && west && !north && !south {
				continue
			}

			pos := Position{X: x, Y: y}
			id := g.AddNode(pos)

			if west {
				if leftNode == NoNode {
					return nil, &PixelError{Pos: pos, Msg: "expected node to the west; could not find one"}
				}
				if err := g.Link(id, leftNode, West); err != nil {
					return nil, err
				}
			}
			leftNode = id

			if north {
				if topNodes[x] == NoNode {
					return nil, &PixelError{Pos: pos, Msg: "expected node to the north; could not find one"}
				}
				if err := g.Link(id, topNodes[x], North); err != nil {
					return nil, err
				}
			}
			if south {
				topNodes[x] = id
			}
		}
	}

	// Step 3: end node in the bottom row.
	y := m.height - 1
	for x := 1; x < m.width-1; x++ {
		p, c := m.at(x, y)
		if p == other {
			return nil, colourError(x, y, c)
		}
		if p != white {
			continue
		}
		pos := Position{X: x, Y: y}
		if topNodes[x] == NoNode {
			return nil, &PixelError{Pos: pos, Msg: "no node found north of end position"}
		}
		g.End = g.AddNode(pos)
		if err := g.Link(g.End, topNodes[x], North); err != nil {
			return nil, err
		}
		break
	}
	if g.End == NoNode {
		return nil, ErrNoEnd
	}

	return g, nil
}

// Load decodes a PNG, GIF, BMP or text (.txt) maze and builds its graph.
func Load(path string) (*Graph, image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open maze: %w", err)
	}
	defer f.Close()

	var img image.Image
	if strings.EqualFold(filepath.Ext(path), ".txt") {
		img, err = DecodeText(f)
	} else {
		img, _, err = image.Decode(f)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("decode maze %s: %w", path, err)
	}
	g, err := Build(img)
	if err != nil {
		return nil, nil, fmt.Errorf("build graph from %s: %w", path, err)
	}
	return g, img, nil
}
