// Package cli turns command-line arguments into a validated utils.Config.
package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/sheikhrachel/go-life/utils"
)

// ExitError is an error that carries the process exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(format string, args ...any) *ExitError {
	return &ExitError{Code: 2, Message: fmt.Sprintf(format, args...)}
}

// Parse processes command-line arguments. It returns the resulting Config,
// whether the program should exit cleanly (help was requested), or an *ExitError.
//
// A -config file is applied first; flags given explicitly override it.
func Parse(args []string, output io.Writer) (*utils.Config, bool, error) {
	defaults := utils.DefaultConfig()

	flagSet := flag.NewFlagSet("go-life", flag.ContinueOnError)
	flagSet.SetOutput(output)
	flagSet.Usage = func() {
		fmt.Fprint(output, `
go-life - Conway's Game of Life in the terminal.

Usage:
  go-life [options]

Example:
  go-life -d 10,10 -a 1,0,2,1,0,2,1,2,2,2 -b torus

Options:
`)
		flagSet.PrintDefaults()
	}

	configFlag := flagSet.String("config", "", "Path to a .json or .hcl world file")
	flagSet.String("d", "", "Width and height of the world as `W,H`. Clears the default live cells.")
	flagSet.String("a", "", "Living cells as coordinate pairs `X1,Y1,X2,Y2,...`")
	flagSet.String("b", defaults.Border, "Border rule: standard or torus")
	flagSet.Int("generations", defaults.MaxGenerations, "Stop after this many generations (0 runs until interrupted)")
	flagSet.Duration("delay", defaults.Delay, "Delay between generations")
	flagSet.Bool("parallel", defaults.UseParallel, "Compute each generation with parallel workers")
	flagSet.Int("workers", defaults.Workers, "Number of parallel workers (0 uses every CPU)")
	flagSet.Bool("pool", defaults.UseMemoryPool, "Recycle cell buffers between generations")
	flagSet.Bool("stop-when-stable", defaults.StopWhenStable, "Stop once the world dies out or settles into a short cycle")
	flagSet.String("alive", defaults.AliveSymbol, "Symbol for living cells")
	flagSet.String("dead", defaults.DeadSymbol, "Symbol for dead cells")
	flagSet.Bool("no-clear", !defaults.ClearScreen, "Do not clear the terminal between generations")
	flagSet.String("log-level", defaults.LogLevel, "Logging level: 'debug', 'info', 'warn', 'error'")
	flagSet.String("log-format", defaults.LogFormat, "Log output format: 'text' or 'json'")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	if flagSet.NArg() > 0 {
		return nil, false, usageError("unexpected arguments: %s", strings.Join(flagSet.Args(), " "))
	}

	config := defaults
	if *configFlag != "" {
		loaded, err := utils.LoadConfig(*configFlag)
		if err != nil {
			return nil, false, usageError("%v", err)
		}
		config = loaded
		slog.Debug("World file loaded.", "path", *configFlag)
	}

	var set []*flag.Flag
	flagSet.Visit(func(f *flag.Flag) {
		set = append(set, f)
	})
	// -d goes first since it clears the live cells -a sets
	for _, first := range []bool{true, false} {
		for _, f := range set {
			if (f.Name == "d") != first {
				continue
			}
			if err := applyFlag(&config, f); err != nil {
				return nil, false, err
			}
		}
	}

	if err := config.Validate(); err != nil {
		return nil, false, usageError("%v", err)
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return &config, false, nil
}

// applyFlag copies one explicitly set flag into config
func applyFlag(config *utils.Config, f *flag.Flag) error {
	value := f.Value.String()
	getter, _ := f.Value.(flag.Getter)

	switch f.Name {
	case "d":
		dims, err := parseInts(value)
		if err != nil || len(dims) != 2 {
			return usageError("Error: -d must be two integers W,H, got %q", value)
		}
		config.Width, config.Height = dims[0], dims[1]
		config.LiveCells = nil
	case "a":
		coords, err := parseInts(value)
		if err != nil {
			return usageError("Error: -a must be a list of integers: %v", err)
		}
		if len(coords)%2 != 0 {
			return usageError("Error: Must specify living cells as pairs")
		}
		cells := make([][2]int, 0, len(coords)/2)
		for i := 0; i < len(coords); i += 2 {
			cells = append(cells, [2]int{coords[i], coords[i+1]})
		}
		config.LiveCells = cells
	case "b":
		config.Border = value
	case "generations":
		config.MaxGenerations = getter.Get().(int)
	case "delay":
		config.Delay = getter.Get().(time.Duration)
	case "parallel":
		config.UseParallel = getter.Get().(bool)
	case "workers":
		config.Workers = getter.Get().(int)
	case "pool":
		config.UseMemoryPool = getter.Get().(bool)
	case "stop-when-stable":
		config.StopWhenStable = getter.Get().(bool)
	case "alive":
		config.AliveSymbol = value
	case "dead":
		config.DeadSymbol = value
	case "no-clear":
		config.ClearScreen = !getter.Get().(bool)
	case "log-level":
		config.LogLevel = strings.ToLower(value)
	case "log-format":
		config.LogFormat = strings.ToLower(value)
	}
	return nil
}

// parseInts splits a comma separated list; the empty string yields no values
func parseInts(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}
