package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-life/model"
	"github.com/sheikhrachel/go-life/utils"
)

// game bundles the state the animation loop carries between frames
type game struct {
	grid       *model.Grid
	renderer   *model.TerminalRenderer
	stats      *utils.Stats
	stagnation *utils.StagnationTracker
}

// initializeGame sets up the initial game state
func initializeGame(config utils.Config, outW io.Writer) (*game, error) {
	policy, err := config.Policy()
	if err != nil {
		return nil, errors.Wrap(err, "[initializeGame] invalid border policy")
	}

	var opts []model.Option
	if config.UseMemoryPool {
		opts = append(opts, model.WithCellPool(model.NewCellPool()))
	}

	grid, err := model.NewGrid(config.Width, config.Height, config.Coords(), policy, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "[initializeGame] failed to create grid")
	}

	return &game{
		grid:       grid,
		renderer:   model.NewTerminalRenderer(outW, config.AliveSymbol, config.DeadSymbol),
		stats:      utils.NewStats(),
		stagnation: utils.NewStagnationTracker(),
	}, nil
}

// logGameInfo logs the initial game information
func logGameInfo(logger *slog.Logger, config utils.Config, g *game) {
	logger.Info("Starting simulation",
		"width", g.grid.Width(),
		"height", g.grid.Height(),
		"border", g.grid.Policy().String(),
		"living", g.grid.CountLivingCells(),
		"parallel", config.UseParallel,
		"pool", config.UseMemoryPool,
		"max_generations", config.MaxGenerations,
	)
}

// updateGameState updates stats and stagnation tracking, returning the population and a status label
func updateGameState(g *game, lastFrameTime time.Time) (int, string) {
	livingCells := g.grid.CountLivingCells()
	g.stats.Update(g.grid.Generation(), livingCells, time.Since(lastFrameTime))

	status := "Active"
	if g.stagnation.Observe(g.grid.Hash()) {
		status = "Stagnant"
	}
	if livingCells == 0 {
		status = "Extinct"
	}
	return livingCells, status
}

// displayGame prints the status line, the grid and the frame separator
func displayGame(outW io.Writer, g *game, livingCells int, status string) error {
	density := float64(livingCells) / float64(g.grid.Width()*g.grid.Height()) * 100
	if _, err := fmt.Fprintf(outW, "Gen: %d | Living: %d | Density: %.1f%% | Status: %s\n",
		g.grid.Generation(), livingCells, density, status); err != nil {
		return errors.Wrap(err, "[displayGame] failed to write status")
	}
	if err := g.renderer.Display(g.grid); err != nil {
		return err
	}
	if _, err := io.WriteString(outW, frameSeparator); err != nil {
		return errors.Wrap(err, "[displayGame] failed to write separator")
	}
	return nil
}

// checkStopConditions determines if the simulation should end
func checkStopConditions(config utils.Config, g *game, livingCells int) (bool, string) {
	if config.MaxGenerations > 0 && g.grid.Generation() >= config.MaxGenerations {
		return true, "generation limit reached"
	}
	if !config.StopWhenStable {
		return false, ""
	}
	if livingCells == 0 {
		return true, "extinction"
	}
	if g.stagnation.Streak() >= config.StagnationThreshold {
		return true, "stagnation detected"
	}
	return false, ""
}

// stepGame advances the grid one generation
func stepGame(ctx context.Context, config utils.Config, g *game) error {
	if config.UseParallel {
		return g.grid.StepGenerationParallel(ctx, config.Workers)
	}
	g.grid.StepGeneration()
	return nil
}

// sleepContext waits for d, returning false if ctx ends first
func sleepContext(ctx context.Context, d time.Duration) bool {
	if ctx.Err() != nil {
		return false
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func logFinalStats(logger *slog.Logger, g *game) {
	logger.Info("Final stats",
		"generations", g.grid.Generation(),
		"runtime", g.stats.Runtime().Round(time.Millisecond),
		"gen_per_sec", fmt.Sprintf("%.1f", g.stats.GenerationsPerSecond),
		"avg_population", fmt.Sprintf("%.1f", g.stats.AveragePopulation),
	)
}
