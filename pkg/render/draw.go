// Package render draws solved paths onto maze images.
package render

import (
	"fmt"
	"image"
	"image/color"

	"github.com/fogleman/gg"

	"github.com/azybler/maze_solver/pkg/geo"
	"github.com/azybler/maze_solver/pkg/graph"
)

// Palette colours for comparison overlays.
var (
	ColourDFS   = color.RGBA{R: 255, A: 255}
	ColourBFS   = color.RGBA{G: 255, A: 255}
	ColourAStar = color.RGBA{B: 255, A: 255}
	ColourWall  = color.RGBA{R: 127, B: 127, A: 255}
)

// DrawSolution returns a copy of img with path drawn on it and the path's
// length in pixels. A nil c draws a gradient from blue at the start to red
// at the end.
//
// Vertical segments cover both end pixels. Horizontal segments stop one pixel
// short of their right-hand end, which the next vertical segment covers.
func DrawSolution(img image.Image, path []graph.Position, c *color.RGBA) (image.Image, int) {
	dc := gg.NewContextForImage(img)
	n := len(path)

	for i := 0; i+1 < n; i++ {
		cur, next := path[i], path[i+1]
		if c == nil {
			r := int(float64(i) / float64(n) * 255)
			dc.SetRGB255(r, 0, 255-r)
		} else {
			dc.SetRGB255(int(c.R), int(c.G), int(c.B))
		}

		switch {
		case cur.X == next.X:
			for y := min(cur.Y, next.Y); y <= max(cur.Y, next.Y); y++ {
				dc.SetPixel(cur.X, y)
			}
		case cur.Y == next.Y:
			for x := min(cur.X, next.X); x < max(cur.X, next.X); x++ {
				dc.SetPixel(x, cur.Y)
			}
		}
	}

	return dc.Image(), geo.PathDistance(path)
}

// SavePNG writes img to path as PNG.
func SavePNG(path string, img image.Image) error {
	if err := gg.SavePNG(path, img); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}
