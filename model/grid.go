package model

import (
	"context"
	"crypto/md5"
	"fmt"
	"runtime"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/sheikhrachel/go-life/rules"
)

// Coord is a signed (x, y) pair. It may lie outside the grid while neighbors are being resolved.
type Coord struct {
	X, Y int
}

// neighborOffsets lists the 8 neighbors clockwise starting from north.
var neighborOffsets = [8]Coord{
	{0, -1}, {1, -1}, {1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1},
}

// Grid represents the game board
type Grid struct {
	width      int
	height     int
	policy     BorderPolicy
	cells      []rules.CellState // row-major, index y*width + x
	generation int
	pool       *CellPool
}

// Option configures optional Grid behavior
type Option func(*Grid)

// WithCellPool makes the grid take next-generation buffers from p and return retired ones to it.
func WithCellPool(p *CellPool) Option {
	return func(g *Grid) {
		g.pool = p
	}
}

// NewGrid creates a width x height grid in which only the cells listed in live are alive.
//
// Live cells must already be within range; they are not re-validated here.
func NewGrid(width, height int, live []Coord, policy BorderPolicy, opts ...Option) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.Wrapf(ErrInvalidDimension, "[NewGrid] width=%d height=%d", width, height)
	}
	g := &Grid{
		width:  width,
		height: height,
		policy: policy,
		cells:  make([]rules.CellState, width*height),
	}
	for _, opt := range opts {
		opt(g)
	}
	for _, c := range live {
		g.cells[g.index(c.X, c.Y)] = rules.Alive
	}
	return g, nil
}

// Width returns the width of the grid
func (g *Grid) Width() int {
	return g.width
}

// Height returns the height of the grid
func (g *Grid) Height() int {
	return g.height
}

// Policy returns the border policy fixed at construction
func (g *Grid) Policy() BorderPolicy {
	return g.policy
}

// Generation returns the number of generations stepped since construction
func (g *Grid) Generation() int {
	return g.generation
}

func (g *Grid) index(x, y int) int {
	return y*g.width + x
}

// at reads a cell without bounds checking
func (g *Grid) at(x, y int) rules.CellState {
	return g.cells[g.index(x, y)]
}

// IsOutOfBounds reports whether (x, y) lies outside the grid.
func (g *Grid) IsOutOfBounds(x, y int) bool {
	return x < 0 || x >= g.width || y < 0 || y >= g.height
}

// Status returns the state of the cell at (x, y), or ErrOutOfRange.
func (g *Grid) Status(x, y int) (rules.CellState, error) {
	if g.IsOutOfBounds(x, y) {
		return rules.Dead, errors.Wrapf(ErrOutOfRange, "[Status] (%d, %d) on %dx%d grid", x, y, g.width, g.height)
	}
	return g.at(x, y), nil
}

// ResolveBorder maps a possibly off-grid coordinate to its effective coordinate.
// Standard returns it unchanged; Torus wraps both axes.
func (g *Grid) ResolveBorder(x, y int) Coord {
	if g.policy == Torus {
		return Coord{X: wrap(x, g.width), Y: wrap(y, g.height)}
	}
	return Coord{X: x, Y: y}
}

// Neighbors returns the 8 border-resolved neighbors of (x, y), clockwise from north.
func (g *Grid) Neighbors(x, y int) []Coord {
	out := make([]Coord, 0, len(neighborOffsets))
	for _, d := range neighborOffsets {
		out = append(out, g.ResolveBorder(x+d.X, y+d.Y))
	}
	return out
}

// InboundsNeighbors is Neighbors without the coordinates that are still off the grid.
func (g *Grid) InboundsNeighbors(x, y int) []Coord {
	out := make([]Coord, 0, len(neighborOffsets))
	for _, c := range g.Neighbors(x, y) {
		if !g.IsOutOfBounds(c.X, c.Y) {
			out = append(out, c)
		}
	}
	return out
}

// LivingNeighbors returns the in-bounds neighbors of (x, y) that are alive.
func (g *Grid) LivingNeighbors(x, y int) []Coord {
	out := make([]Coord, 0, len(neighborOffsets))
	for _, c := range g.InboundsNeighbors(x, y) {
		if g.at(c.X, c.Y) == rules.Alive {
			out = append(out, c)
		}
	}
	return out
}

// LivingNeighborCount is len(LivingNeighbors(x, y)) without the allocations.
func (g *Grid) LivingNeighborCount(x, y int) int {
	count := 0
	for _, d := range neighborOffsets {
		c := g.ResolveBorder(x+d.X, y+d.Y)
		if !g.IsOutOfBounds(c.X, c.Y) && g.at(c.X, c.Y) == rules.Alive {
			count++
		}
	}
	return count
}

// NextCellState applies the Life rule to (x, y) against the current generation. It never mutates the grid.
func (g *Grid) NextCellState(x, y int) (rules.CellState, error) {
	if g.IsOutOfBounds(x, y) {
		return rules.Dead, errors.Wrapf(ErrOutOfRange, "[NextCellState] (%d, %d) on %dx%d grid", x, y, g.width, g.height)
	}
	return g.nextState(x, y), nil
}

func (g *Grid) nextState(x, y int) rules.CellState {
	return rules.Next(g.at(x, y), g.LivingNeighborCount(x, y))
}

// fillRow writes the next state of every cell in row y into next.
// It only reads g.cells, so rows can be filled concurrently.
func (g *Grid) fillRow(next []rules.CellState, y int) {
	row := next[y*g.width : (y+1)*g.width]
	for x := 0; x < g.width; x++ {
		row[x] = g.nextState(x, y)
	}
}

// publish swaps in a fully computed generation
func (g *Grid) publish(next []rules.CellState) {
	prev := g.cells
	g.cells = next
	g.generation++
	g.pool.Put(prev)
}

// StepGeneration advances the whole grid by one generation.
// Every cell is computed from the same snapshot before the new mapping replaces the old one.
func (g *Grid) StepGeneration() {
	next := g.pool.Get(len(g.cells))
	for y := 0; y < g.height; y++ {
		g.fillRow(next, y)
	}
	g.publish(next)
}

// StepGenerationParallel calculates the next generation using parallel processing.
// Rows are split into bands, one per worker; workers <= 0 means runtime.NumCPU().
// On cancellation the grid keeps its current generation.
func (g *Grid) StepGenerationParallel(ctx context.Context, workers int) error {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	workers = min(workers, g.height)

	var (
		next          = g.pool.Get(len(g.cells))
		eg, egCtx     = errgroup.WithContext(ctx)
		rowsPerWorker = (g.height + workers - 1) / workers // Ceiling division
	)

	for i := 0; i < workers; i++ {
		var (
			startRow = i * rowsPerWorker
			endRow   = min(startRow+rowsPerWorker, g.height)
		)
		if startRow >= g.height {
			break
		}

		eg.Go(func() error {
			for y := startRow; y < endRow; y++ {
				if err := egCtx.Err(); err != nil {
					return err
				}
				g.fillRow(next, y)
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		g.pool.Put(next)
		return errors.Wrapf(err, "[StepGenerationParallel] generation %d", g.generation+1)
	}
	g.publish(next)
	return nil
}

// CountLivingCells returns the total number of living cells
func (g *Grid) CountLivingCells() (count int) {
	for _, c := range g.cells {
		if c == rules.Alive {
			count++
		}
	}
	return
}

// LiveCells returns the coordinates of all living cells in row-major order.
func (g *Grid) LiveCells() []Coord {
	var out []Coord
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			if g.at(x, y) == rules.Alive {
				out = append(out, Coord{X: x, Y: y})
			}
		}
	}
	return out
}

// Hash returns an MD5 digest of the current cell mapping
func (g *Grid) Hash() string {
	buf := make([]byte, len(g.cells))
	for i, c := range g.cells {
		buf[i] = byte(c)
	}
	return fmt.Sprintf("%x", md5.Sum(buf))
}
