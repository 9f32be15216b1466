package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sheikhrachel/go-life/cli"
	"github.com/sheikhrachel/go-life/utils"
)

const frameSeparator = "\n=====================\n\n"

func main() {
	// minimal logger until the configured one exists
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		stop()
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run parses args and animates the world until a stop condition or ctx is done
func run(ctx context.Context, outW, logW io.Writer, args []string) error {
	config, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	logger := utils.NewLogger(config.LogLevel, config.LogFormat, logW)

	state, err := initializeGame(*config, outW)
	if err != nil {
		return err
	}
	logGameInfo(logger, *config, state)

	lastFrameTime := time.Now()
	for {
		frameStart := time.Now()

		if config.ClearScreen {
			if err := state.renderer.Clear(); err != nil {
				logger.Warn("Could not clear terminal", "error", err)
			}
		}

		livingCells, status := updateGameState(state, lastFrameTime)
		lastFrameTime = frameStart

		if err := displayGame(outW, state, livingCells, status); err != nil {
			return err
		}

		if stop, reason := checkStopConditions(*config, state, livingCells); stop {
			logger.Info("Simulation finished", "reason", reason, "generation", state.grid.Generation())
			logFinalStats(logger, state)
			return nil
		}

		if !sleepContext(ctx, config.Delay) {
			logger.Info("Shutting down gracefully", "generation", state.grid.Generation())
			logFinalStats(logger, state)
			return nil
		}

		if err := stepGame(ctx, *config, state); err != nil {
			if ctx.Err() != nil {
				logger.Info("Shutting down gracefully", "generation", state.grid.Generation())
				logFinalStats(logger, state)
				return nil
			}
			return err
		}
		logger.Debug("Generation computed",
			"generation", state.grid.Generation(),
			"frame_time", time.Since(frameStart),
		)
	}
}
