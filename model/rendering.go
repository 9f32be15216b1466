package model

import (
	"io"
	"os/exec"
	"strings"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-life/rules"
)

const (
	DefaultAliveSymbol = "*"
	DefaultDeadSymbol  = "-"

	clearCmd = "clear"
)

// TerminalRenderer draws a grid as text, one line per row
type TerminalRenderer struct {
	out   io.Writer
	alive string
	dead  string
}

// NewTerminalRenderer returns a renderer writing to out. Empty symbols fall back to the defaults.
func NewTerminalRenderer(out io.Writer, alive, dead string) *TerminalRenderer {
	if alive == "" {
		alive = DefaultAliveSymbol
	}
	if dead == "" {
		dead = DefaultDeadSymbol
	}
	return &TerminalRenderer{out: out, alive: alive, dead: dead}
}

// Display renders the grid, row y on line y
func (r *TerminalRenderer) Display(g *Grid) error {
	var sb strings.Builder
	sb.Grow(g.height * (g.width*max(len(r.alive), len(r.dead)) + 1))
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			if g.at(x, y) == rules.Alive {
				sb.WriteString(r.alive)
			} else {
				sb.WriteString(r.dead)
			}
		}
		sb.WriteByte('\n')
	}
	if _, err := io.WriteString(r.out, sb.String()); err != nil {
		return errors.Wrap(err, "[Display] failed to write grid")
	}
	return nil
}

// Clear clears the terminal screen
func (r *TerminalRenderer) Clear() error {
	cmd := exec.Command(clearCmd)
	cmd.Stdout = r.out
	if err := cmd.Run(); err != nil {
		return errors.Wrap(err, "[Clear] failed to clear terminal")
	}
	return nil
}
