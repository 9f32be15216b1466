package model_test

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/sheikhrachel/go-life/model"
	"github.com/sheikhrachel/go-life/rules"
)

// verticalBlinker is the period-2 oscillator used by most scenarios below.
var verticalBlinker = []model.Coord{{2, 1}, {2, 2}, {2, 3}}

type GridSuite struct {
	suite.Suite
	ctx context.Context
}

func (s *GridSuite) SetupTest() {
	s.ctx = context.Background()
}

func (s *GridSuite) newGrid(w, h int, live []model.Coord, policy model.BorderPolicy, opts ...model.Option) *model.Grid {
	g, err := model.NewGrid(w, h, live, policy, opts...)
	require.NoError(s.T(), err)
	return g
}

func (s *GridSuite) TestNewGridInvalidDimension() {
	for _, dims := range [][2]int{{0, 5}, {5, 0}, {-1, 3}, {3, -7}, {0, 0}} {
		g, err := model.NewGrid(dims[0], dims[1], nil, model.Standard)
		require.Nil(s.T(), g)
		require.True(s.T(), errors.Is(err, model.ErrInvalidDimension), "dims %v: %v", dims, err)
	}
}

func (s *GridSuite) TestAccessors() {
	g := s.newGrid(7, 3, nil, model.Torus)
	require.Equal(s.T(), 7, g.Width())
	require.Equal(s.T(), 3, g.Height())
	require.Equal(s.T(), model.Torus, g.Policy())
	require.Equal(s.T(), 0, g.Generation())
}

func (s *GridSuite) TestSingleCellGrid() {
	g := s.newGrid(1, 1, nil, model.Standard)
	require.True(s.T(), g.IsOutOfBounds(-1, 0))

	st, err := g.Status(0, 0)
	require.NoError(s.T(), err)
	require.Equal(s.T(), rules.Dead, st)
}

func (s *GridSuite) TestStatus() {
	g := s.newGrid(2, 2, []model.Coord{{0, 0}}, model.Standard)

	st, err := g.Status(0, 0)
	require.NoError(s.T(), err)
	require.Equal(s.T(), rules.Alive, st)

	st, err = g.Status(1, 1)
	require.NoError(s.T(), err)
	require.Equal(s.T(), rules.Dead, st)
}

func (s *GridSuite) TestStatusOutOfRange() {
	g := s.newGrid(3, 2, []model.Coord{{0, 0}}, model.Torus)
	for _, c := range []model.Coord{{-1, 0}, {3, 0}, {0, -1}, {0, 2}, {10, 10}} {
		_, err := g.Status(c.X, c.Y)
		require.True(s.T(), errors.Is(err, model.ErrOutOfRange), "coord %v: %v", c, err)
	}
}

func (s *GridSuite) TestIsOutOfBounds() {
	g := s.newGrid(4, 3, nil, model.Standard)
	for x := -5; x < 9; x++ {
		for y := -5; y < 8; y++ {
			want := x < 0 || x >= 4 || y < 0 || y >= 3
			require.Equal(s.T(), want, g.IsOutOfBounds(x, y), "(%d, %d)", x, y)
		}
	}
}

func (s *GridSuite) TestResolveBorderStandardIsIdentity() {
	g := s.newGrid(1, 1, nil, model.Standard)
	for _, c := range []model.Coord{{0, 0}, {-1, 0}, {0, -1}, {2, 2}, {-100, 57}} {
		require.Equal(s.T(), c, g.ResolveBorder(c.X, c.Y))
	}
}

func (s *GridSuite) TestResolveBorderTorus() {
	g := s.newGrid(2, 2, nil, model.Torus)
	cases := []struct{ in, want model.Coord }{
		{model.Coord{0, 0}, model.Coord{0, 0}},
		{model.Coord{-1, 0}, model.Coord{1, 0}},
		{model.Coord{0, -1}, model.Coord{0, 1}},
		{model.Coord{-1, -1}, model.Coord{1, 1}},
		{model.Coord{-3, 0}, model.Coord{1, 0}},
		{model.Coord{2, 0}, model.Coord{0, 0}},
		{model.Coord{0, 2}, model.Coord{0, 0}},
		{model.Coord{2, 2}, model.Coord{0, 0}},
		{model.Coord{0, 3}, model.Coord{0, 1}},
	}
	for _, tc := range cases {
		require.Equal(s.T(), tc.want, g.ResolveBorder(tc.in.X, tc.in.Y), "ResolveBorder(%v)", tc.in)
	}
}

func (s *GridSuite) TestResolveBorderTorusPeriodic() {
	const w, h = 5, 3
	g := s.newGrid(w, h, nil, model.Torus)
	for x := -2 * w; x < 2*w; x++ {
		for y := -2 * h; y < 2*h; y++ {
			c := g.ResolveBorder(x, y)
			require.False(s.T(), g.IsOutOfBounds(c.X, c.Y), "(%d, %d) -> %v", x, y, c)
			for k := -3; k <= 3; k++ {
				require.Equal(s.T(), c, g.ResolveBorder(x+k*w, y), "x shifted by %d widths", k)
				require.Equal(s.T(), c, g.ResolveBorder(x, y+k*h), "y shifted by %d heights", k)
			}
		}
	}
}

func (s *GridSuite) TestNeighbors() {
	std := s.newGrid(5, 5, nil, model.Standard)
	want := []model.Coord{{2, 1}, {3, 1}, {3, 2}, {3, 3}, {2, 3}, {1, 3}, {1, 2}, {1, 1}}
	if diff := cmp.Diff(want, std.Neighbors(2, 2)); diff != "" {
		s.T().Errorf("standard Neighbors(2,2) mismatch (-want +got):\n%s", diff)
	}

	want = []model.Coord{{0, -1}, {1, -1}, {1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}}
	if diff := cmp.Diff(want, std.Neighbors(0, 0)); diff != "" {
		s.T().Errorf("standard Neighbors(0,0) mismatch (-want +got):\n%s", diff)
	}

	torus := s.newGrid(5, 5, nil, model.Torus)
	want = []model.Coord{{0, 4}, {1, 4}, {1, 0}, {1, 1}, {0, 1}, {4, 1}, {4, 0}, {4, 4}}
	if diff := cmp.Diff(want, torus.Neighbors(0, 0)); diff != "" {
		s.T().Errorf("torus Neighbors(0,0) mismatch (-want +got):\n%s", diff)
	}
}

func (s *GridSuite) TestInboundsNeighbors() {
	g := s.newGrid(5, 5, nil, model.Standard)
	want := []model.Coord{{2, 1}, {3, 1}, {3, 2}, {3, 3}, {2, 3}, {1, 3}, {1, 2}, {1, 1}}
	if diff := cmp.Diff(want, g.InboundsNeighbors(2, 2)); diff != "" {
		s.T().Errorf("InboundsNeighbors(2,2) mismatch (-want +got):\n%s", diff)
	}

	want = []model.Coord{{1, 0}, {1, 1}, {0, 1}}
	if diff := cmp.Diff(want, g.InboundsNeighbors(0, 0)); diff != "" {
		s.T().Errorf("InboundsNeighbors(0,0) mismatch (-want +got):\n%s", diff)
	}
}

func (s *GridSuite) TestInboundsNeighborsEdgesAndCorners() {
	g := s.newGrid(5, 4, nil, model.Standard)
	cases := []struct {
		c    model.Coord
		want int
	}{
		{model.Coord{0, 0}, 3},
		{model.Coord{4, 0}, 3},
		{model.Coord{0, 3}, 3},
		{model.Coord{4, 3}, 3},
		{model.Coord{2, 0}, 5},
		{model.Coord{2, 3}, 5},
		{model.Coord{0, 1}, 5},
		{model.Coord{4, 2}, 5},
		{model.Coord{2, 2}, 8},
	}
	for _, tc := range cases {
		require.Len(s.T(), g.InboundsNeighbors(tc.c.X, tc.c.Y), tc.want, "cell %v", tc.c)
	}

	torus := s.newGrid(5, 4, nil, model.Torus)
	for _, tc := range cases {
		require.Len(s.T(), torus.InboundsNeighbors(tc.c.X, tc.c.Y), 8, "torus cell %v", tc.c)
	}
}

func (s *GridSuite) TestLivingNeighbors() {
	g := s.newGrid(5, 5, verticalBlinker, model.Standard)

	require.Equal(s.T(), []model.Coord{{2, 1}, {2, 3}}, g.LivingNeighbors(2, 2))
	require.Equal(s.T(), []model.Coord{{2, 2}}, g.LivingNeighbors(2, 1))
	require.Empty(s.T(), g.LivingNeighbors(0, 0))

	require.Equal(s.T(), 2, g.LivingNeighborCount(2, 2))
	require.Equal(s.T(), 1, g.LivingNeighborCount(2, 1))
	require.Equal(s.T(), 0, g.LivingNeighborCount(0, 0))
}

func (s *GridSuite) TestLivingNeighborCountMatchesList() {
	rng := rand.New(rand.NewSource(7))
	for _, policy := range []model.BorderPolicy{model.Standard, model.Torus} {
		g := s.newGrid(9, 6, randomCells(rng, 9, 6, 0.4), policy)
		for y := 0; y < 6; y++ {
			for x := 0; x < 9; x++ {
				require.Equal(s.T(), len(g.LivingNeighbors(x, y)), g.LivingNeighborCount(x, y),
					"%s (%d, %d)", policy, x, y)
			}
		}
	}
}

func (s *GridSuite) TestTinyTorusCountsRepeatedNeighbors() {
	g := s.newGrid(1, 1, []model.Coord{{0, 0}}, model.Torus)
	require.Equal(s.T(), 8, g.LivingNeighborCount(0, 0))

	g.StepGeneration()
	st, err := g.Status(0, 0)
	require.NoError(s.T(), err)
	require.Equal(s.T(), rules.Dead, st, "overcrowded by its own wrapped copies")
}

func (s *GridSuite) TestNextCellState() {
	g := s.newGrid(5, 5, verticalBlinker, model.Standard)
	before := g.Hash()

	cases := []struct {
		c    model.Coord
		want rules.CellState
	}{
		{model.Coord{0, 0}, rules.Dead},
		{model.Coord{2, 2}, rules.Alive},
		{model.Coord{2, 1}, rules.Dead},
		{model.Coord{1, 2}, rules.Alive},
		{model.Coord{2, 3}, rules.Dead},
		{model.Coord{3, 2}, rules.Alive},
	}
	for _, tc := range cases {
		got, err := g.NextCellState(tc.c.X, tc.c.Y)
		require.NoError(s.T(), err)
		require.Equal(s.T(), tc.want, got, "NextCellState(%v)", tc.c)
	}

	require.Equal(s.T(), before, g.Hash(), "NextCellState must not mutate the grid")
	require.Equal(s.T(), 0, g.Generation())

	_, err := g.NextCellState(5, 0)
	require.True(s.T(), errors.Is(err, model.ErrOutOfRange))
}

func (s *GridSuite) TestStepGenerationBlinker() {
	g := s.newGrid(5, 5, verticalBlinker, model.Standard)
	g.StepGeneration()

	require.Equal(s.T(), 1, g.Generation())
	for x := 0; x < 5; x++ {
		for y := 0; y < 5; y++ {
			st, err := g.Status(x, y)
			require.NoError(s.T(), err)
			if y == 2 && (x == 1 || x == 2 || x == 3) {
				require.Equal(s.T(), rules.Alive, st, "(%d, %d)", x, y)
			} else {
				require.Equal(s.T(), rules.Dead, st, "(%d, %d)", x, y)
			}
		}
	}

	g.StepGeneration()
	require.Equal(s.T(), verticalBlinker, g.LiveCells())
}

func (s *GridSuite) TestStepGenerationMatchesSnapshot() {
	rng := rand.New(rand.NewSource(11))
	for _, policy := range []model.BorderPolicy{model.Standard, model.Torus} {
		g := s.newGrid(12, 9, randomCells(rng, 12, 9, 0.35), policy)

		want := make(map[model.Coord]rules.CellState)
		for y := 0; y < 9; y++ {
			for x := 0; x < 12; x++ {
				st, err := g.NextCellState(x, y)
				require.NoError(s.T(), err)
				want[model.Coord{X: x, Y: y}] = st
			}
		}

		g.StepGeneration()
		for c, st := range want {
			got, err := g.Status(c.X, c.Y)
			require.NoError(s.T(), err)
			require.Equal(s.T(), st, got, "%s %v", policy, c)
		}
	}
}

func (s *GridSuite) TestStepGenerationAllDead() {
	for _, dims := range [][2]int{{1, 1}, {2, 3}, {8, 8}, {13, 4}} {
		for _, policy := range []model.BorderPolicy{model.Standard, model.Torus} {
			g := s.newGrid(dims[0], dims[1], nil, policy)
			g.StepGeneration()
			require.Zero(s.T(), g.CountLivingCells(), "%v %s", dims, policy)
		}
	}
}

func (s *GridSuite) TestStillLifeBlock() {
	block := []model.Coord{{1, 1}, {2, 1}, {1, 2}, {2, 2}}
	g := s.newGrid(4, 4, block, model.Standard)
	for iter := 0; iter < 3; iter++ {
		g.StepGeneration()
		require.Equal(s.T(), block, g.LiveCells())
	}
}

func (s *GridSuite) TestBlinkerAcrossTorusEdge() {
	// horizontal triple wrapping around the right edge
	g := s.newGrid(5, 5, []model.Coord{{4, 2}, {0, 2}, {1, 2}}, model.Torus)
	g.StepGeneration()
	require.ElementsMatch(s.T(), []model.Coord{{0, 1}, {0, 2}, {0, 3}}, g.LiveCells())

	std := s.newGrid(5, 5, []model.Coord{{4, 2}, {0, 2}, {1, 2}}, model.Standard)
	std.StepGeneration()
	require.Empty(s.T(), std.LiveCells(), "no wrap means the pieces die")
}

func (s *GridSuite) TestTorusGliderTravels() {
	const size = 8
	glider := []model.Coord{{1, 0}, {2, 1}, {0, 2}, {1, 2}, {2, 2}}
	start := make([]model.Coord, 0, len(glider))
	for _, c := range glider {
		start = append(start, model.Coord{X: (c.X + 6) % size, Y: (c.Y + 6) % size})
	}

	g := s.newGrid(size, size, start, model.Torus)
	for iter := 0; iter < 4; iter++ {
		g.StepGeneration()
	}

	want := make([]model.Coord, 0, len(start))
	for _, c := range start {
		want = append(want, model.Coord{X: (c.X + 1) % size, Y: (c.Y + 1) % size})
	}
	require.ElementsMatch(s.T(), want, g.LiveCells())

	for iter := 0; iter < 4*(size-1); iter++ {
		g.StepGeneration()
	}
	require.ElementsMatch(s.T(), start, g.LiveCells(), "full lap around the torus")
}

func (s *GridSuite) TestStepGenerationParallelMatchesSerial() {
	rng := rand.New(rand.NewSource(42))
	for _, policy := range []model.BorderPolicy{model.Standard, model.Torus} {
		live := randomCells(rng, 17, 13, 0.3)
		for _, workers := range []int{0, 1, 2, 3, 5, 13, 64} {
			serial := s.newGrid(17, 13, live, policy)
			parallel := s.newGrid(17, 13, live, policy, model.WithCellPool(model.NewCellPool()))
			for iter := 0; iter < 6; iter++ {
				serial.StepGeneration()
				require.NoError(s.T(), parallel.StepGenerationParallel(s.ctx, workers))
			}
			require.Equal(s.T(), serial.LiveCells(), parallel.LiveCells(), "%s workers=%d", policy, workers)
			require.Equal(s.T(), serial.Generation(), parallel.Generation())
		}
	}
}

func (s *GridSuite) TestStepGenerationParallelCancelled() {
	g := s.newGrid(5, 5, verticalBlinker, model.Standard)
	before := g.Hash()

	ctx, cancel := context.WithCancel(s.ctx)
	cancel()

	err := g.StepGenerationParallel(ctx, 2)
	require.True(s.T(), errors.Is(err, context.Canceled), "got %v", err)
	require.Equal(s.T(), before, g.Hash(), "grid must keep its generation")
	require.Equal(s.T(), 0, g.Generation())
}

func (s *GridSuite) TestCellPoolReuse() {
	g := s.newGrid(5, 5, verticalBlinker, model.Standard, model.WithCellPool(model.NewCellPool()))
	for i := 0; i < 10; i++ {
		g.StepGeneration()
		require.Equal(s.T(), 3, g.CountLivingCells(), "generation %d", i+1)
	}
	require.Equal(s.T(), verticalBlinker, g.LiveCells())
}

func (s *GridSuite) TestHash() {
	a := s.newGrid(5, 5, verticalBlinker, model.Standard)
	b := s.newGrid(5, 5, verticalBlinker, model.Torus)
	require.Equal(s.T(), a.Hash(), b.Hash())

	a.StepGeneration()
	require.NotEqual(s.T(), a.Hash(), b.Hash())
	a.StepGeneration()
	require.Equal(s.T(), a.Hash(), b.Hash(), "blinker has period 2")
}

func TestGridSuite(t *testing.T) {
	suite.Run(t, new(GridSuite))
}

func randomCells(rng *rand.Rand, w, h int, density float64) []model.Coord {
	var out []model.Coord
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if rng.Float64() < density {
				out = append(out, model.Coord{X: x, Y: y})
			}
		}
	}
	return out
}
