package graph

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"io"
	"strings"
)

// ParseText turns a text maze into a black and white image.
// '#' is a wall; ' ' and '.' are open. All rows must have the same width.
func ParseText(rows []string) (*image.Gray, error) {
	if len(rows) == 0 {
		return nil, ErrTooSmall
	}
	width := len(rows[0])
	img := image.NewGray(image.Rect(0, 0, width, len(rows)))
	for y, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("row %d has width %d, want %d", y, len(row), width)
		}
		for x := 0; x < width; x++ {
			switch row[x] {
			case '#':
				img.SetGray(x, y, color.Gray{Y: 0})
			case ' ', '.':
				img.SetGray(x, y, color.Gray{Y: 255})
			default:
				return nil, &PixelError{Pos: Position{X: x, Y: y}, Msg: fmt.Sprintf("unexpected maze character %q", row[x])}
			}
		}
	}
	return img, nil
}

// DecodeText reads a text maze, one row per line. Trailing blank lines are ignored.
func DecodeText(r io.Reader) (*image.Gray, error) {
	rows, err := readRows(r)
	if err != nil {
		return nil, err
	}
	return ParseText(rows)
}

// DecodeTextConfig returns the size of the image DecodeText would produce:
// the first row's width by the number of rows. Rows are not validated.
func DecodeTextConfig(r io.Reader) (image.Config, error) {
	rows, err := readRows(r)
	if err != nil {
		return image.Config{}, err
	}
	if len(rows) == 0 {
		return image.Config{}, ErrTooSmall
	}
	return image.Config{ColorModel: color.GrayModel, Width: len(rows[0]), Height: len(rows)}, nil
}

func readRows(r io.Reader) ([]string, error) {
	var rows []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		rows = append(rows, strings.TrimRight(sc.Text(), "\r"))
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	for len(rows) > 0 && rows[len(rows)-1] == "" {
		rows = rows[:len(rows)-1]
	}
	return rows, nil
}
