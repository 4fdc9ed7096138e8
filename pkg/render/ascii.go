package render

import (
	"image"
	"image/color"
	"strings"

	"github.com/azybler/maze_solver/pkg/graph"
)

// ASCII renders img as text: '#' for walls, ' ' for open pixels, 'o' for
// pixels on path, and 'S' and 'E' for its first and last positions.
func ASCII(img image.Image, path []graph.Position) string {
	b := img.Bounds()
	onPath := make(map[graph.Position]byte)
	for i := 0; i+1 < len(path); i++ {
		cur, next := path[i], path[i+1]
		for y := min(cur.Y, next.Y); y <= max(cur.Y, next.Y); y++ {
			for x := min(cur.X, next.X); x <= max(cur.X, next.X); x++ {
				onPath[graph.Position{X: x, Y: y}] = 'o'
			}
		}
	}
	if len(path) > 0 {
		onPath[path[0]] = 'S'
		onPath[path[len(path)-1]] = 'E'
	}

	var sb strings.Builder
	sb.Grow((b.Dx() + 1) * b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if ch, ok := onPath[graph.Position{X: x - b.Min.X, Y: y - b.Min.Y}]; ok {
				sb.WriteByte(ch)
				continue
			}
			if color.GrayModel.Convert(img.At(x, y)).(color.Gray).Y < 128 {
				sb.WriteByte('#')
			} else {
				sb.WriteByte(' ')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
