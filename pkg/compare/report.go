package compare

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"gopkg.in/yaml.v2"
)

// Format selects a report encoding.
type Format string

const (
	FormatText Format = "text"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// ParseFormat maps a name to a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatYAML, FormatJSON:
		return f, nil
	case "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unknown report format %q", s)
}

// Write encodes r to w. colour only affects the text format.
func Write(w io.Writer, r *Report, f Format, colour bool) error {
	switch f {
	case FormatText:
		return WriteText(w, r, colour)
	case FormatYAML:
		return WriteYAML(w, r)
	case FormatJSON:
		return WriteJSON(w, r)
	}
	return fmt.Errorf("unknown report format %q", f)
}

// WriteYAML encodes r as YAML.
func WriteYAML(w io.Writer, r *Report) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("encoding yaml report: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// WriteJSON encodes r as indented JSON.
func WriteJSON(w io.Writer, r *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

type palette struct {
	heading, winner, failed, unsolved *color.Color
}

func newPalette(colour bool) palette {
	p := palette{
		heading:  color.New(color.Bold),
		winner:   color.New(color.FgGreen, color.Bold),
		failed:   color.New(color.FgRed),
		unsolved: color.New(color.FgYellow),
	}
	for _, c := range []*color.Color{p.heading, p.winner, p.failed, p.unsolved} {
		if colour {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// WriteText writes the human-readable report.
func WriteText(w io.Writer, r *Report, colour bool) error {
	p := newPalette(colour)
	var b strings.Builder

	fmt.Fprintf(&b, "Run %s\n", r.RunID)
	fmt.Fprintf(&b, "Maze %dx%d, %d nodes, %d corridors, %d components\n\n",
		r.Maze.Width, r.Maze.Height, r.Maze.Nodes, r.Maze.Corridors, r.Maze.Components)

	for _, e := range r.Entries {
		b.WriteString(p.heading.Sprint(e.Algorithm.DisplayName()))
		b.WriteString("\n")
		switch {
		case e.Error != "":
			fmt.Fprintf(&b, "  %s\n\n", p.failed.Sprintf("Error: %s", e.Error))
			continue
		case !e.Completed:
			fmt.Fprintf(&b, "  %s\n", p.unsolved.Sprint("No solution."))
		}
		fmt.Fprintf(&b, "  Time: %s\n", formatDuration(e.Duration))
		fmt.Fprintf(&b, "  Nodes considered: %d\n", e.NodesConsidered)
		if e.Completed {
			fmt.Fprintf(&b, "  Nodes in path: %d\n", e.PathNodes)
			fmt.Fprintf(&b, "  Pixel distance: %d\n", e.PixelDistance)
		}
		b.WriteString("\n")
	}

	s := r.Summary
	if !s.Solved {
		b.WriteString(p.unsolved.Sprint("No solution."))
		b.WriteString("\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	b.WriteString(p.heading.Sprint("Summary:"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Algorithm that considered the fewest nodes was %s (considered %d nodes)\n",
		p.winner.Sprint(s.FewestConsidered.Algorithm.DisplayName()), s.FewestConsidered.Value)
	fmt.Fprintf(&b, "Path with fewest nodes was found by %s (length of %d nodes)\n",
		p.winner.Sprint(s.FewestPathNodes.Algorithm.DisplayName()), s.FewestPathNodes.Value)
	if s.PathsEqual {
		fmt.Fprintf(&b, "Shortest paths have equal length (%d pixels)\n", s.ShortestDistance.Value)
	} else {
		fmt.Fprintf(&b, "Path with shortest length was found by %s (length of %d pixels)\n",
			p.winner.Sprint(s.ShortestDistance.Algorithm.DisplayName()), s.ShortestDistance.Value)
	}
	fmt.Fprintf(&b, "Fastest path calculation was performed by %s (took %s)\n",
		p.winner.Sprint(s.Fastest.Algorithm.DisplayName()), formatDuration(time.Duration(s.Fastest.Value)))

	_, err := io.WriteString(w, b.String())
	return err
}

func formatDuration(d time.Duration) string {
	return d.Round(time.Microsecond).String()
}
