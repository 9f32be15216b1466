package utils

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-life/model"
)

// ErrInvalidConfig is returned by Validate and the loaders for semantically invalid settings.
var ErrInvalidConfig = errors.New("utils: invalid config")

// Config holds the configuration for the game
type Config struct {
	Width          int
	Height         int
	Border         string
	LiveCells      [][2]int
	Delay          time.Duration
	MaxGenerations int // 0 runs until interrupted
	UseParallel    bool
	Workers        int
	UseMemoryPool  bool

	// StopWhenStable ends the run once the grid is extinct or has repeated
	// a recent state for StagnationThreshold consecutive generations.
	StopWhenStable      bool
	StagnationThreshold int

	AliveSymbol string
	DeadSymbol  string
	ClearScreen bool

	LogLevel  string
	LogFormat string
}

// DefaultConfig returns a 5x5 standard grid holding a horizontal blinker
func DefaultConfig() Config {
	return Config{
		Width:               5,
		Height:              5,
		Border:              model.Standard.String(),
		LiveCells:           [][2]int{{1, 2}, {2, 2}, {3, 2}},
		Delay:               500 * time.Millisecond,
		Workers:             0, // runtime.NumCPU()
		StagnationThreshold: 3,
		AliveSymbol:         model.DefaultAliveSymbol,
		DeadSymbol:          model.DefaultDeadSymbol,
		ClearScreen:         true,
		LogLevel:            "info",
		LogFormat:           "text",
	}
}

// worldFile is the on-disk form shared by JSON and HCL world files.
// Pointer fields stay nil when absent so defaults survive.
type worldFile struct {
	Width               *int     `json:"width" hcl:"width,optional"`
	Height              *int     `json:"height" hcl:"height,optional"`
	Border              *string  `json:"border" hcl:"border,optional"`
	LiveCells           *[][]int `json:"live_cells" hcl:"live_cells,optional"`
	Delay               *string  `json:"delay" hcl:"delay,optional"`
	Generations         *int     `json:"generations" hcl:"generations,optional"`
	Parallel            *bool    `json:"parallel" hcl:"parallel,optional"`
	Workers             *int     `json:"workers" hcl:"workers,optional"`
	UseMemoryPool       *bool    `json:"use_memory_pool" hcl:"use_memory_pool,optional"`
	StopWhenStable      *bool    `json:"stop_when_stable" hcl:"stop_when_stable,optional"`
	StagnationThreshold *int     `json:"stagnation_threshold" hcl:"stagnation_threshold,optional"`
	AliveSymbol         *string  `json:"alive_symbol" hcl:"alive_symbol,optional"`
	DeadSymbol          *string  `json:"dead_symbol" hcl:"dead_symbol,optional"`
}

// apply overlays the fields present in w onto cfg
func (w *worldFile) apply(cfg *Config) error {
	if w.Width != nil || w.Height != nil {
		// new dimensions invalidate the default pattern, as with the -d flag
		cfg.LiveCells = nil
	}
	if w.Width != nil {
		cfg.Width = *w.Width
	}
	if w.Height != nil {
		cfg.Height = *w.Height
	}
	if w.Border != nil {
		cfg.Border = *w.Border
	}
	if w.LiveCells != nil {
		cells, err := PairCells(*w.LiveCells)
		if err != nil {
			return err
		}
		cfg.LiveCells = cells
	}
	if w.Delay != nil {
		d, err := time.ParseDuration(*w.Delay)
		if err != nil {
			return errors.Wrapf(ErrInvalidConfig, "[apply] delay %q: %v", *w.Delay, err)
		}
		cfg.Delay = d
	}
	if w.Generations != nil {
		cfg.MaxGenerations = *w.Generations
	}
	if w.Parallel != nil {
		cfg.UseParallel = *w.Parallel
	}
	if w.Workers != nil {
		cfg.Workers = *w.Workers
	}
	if w.UseMemoryPool != nil {
		cfg.UseMemoryPool = *w.UseMemoryPool
	}
	if w.StopWhenStable != nil {
		cfg.StopWhenStable = *w.StopWhenStable
	}
	if w.StagnationThreshold != nil {
		cfg.StagnationThreshold = *w.StagnationThreshold
	}
	if w.AliveSymbol != nil {
		cfg.AliveSymbol = *w.AliveSymbol
	}
	if w.DeadSymbol != nil {
		cfg.DeadSymbol = *w.DeadSymbol
	}
	return nil
}

// PairCells converts [[x, y], ...] into coordinate pairs
func PairCells(raw [][]int) ([][2]int, error) {
	cells := make([][2]int, 0, len(raw))
	for i, c := range raw {
		if len(c) != 2 {
			return nil, errors.Wrapf(ErrInvalidConfig, "[PairCells] live cell %d has %d values, want 2", i, len(c))
		}
		cells = append(cells, [2]int{c[0], c[1]})
	}
	return cells, nil
}

// LoadConfig loads configuration from a .json or .hcl world file on top of DefaultConfig
func LoadConfig(filename string) (Config, error) {
	config := DefaultConfig()

	var (
		wf  worldFile
		err error
	)
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".hcl":
		wf, err = decodeHCLWorld(filename)
	case ".json":
		wf, err = decodeJSONWorld(filename)
	default:
		return config, errors.Wrapf(ErrInvalidConfig, "[LoadConfig] unsupported file type: %+v", filename)
	}
	if err != nil {
		return config, err
	}

	if err = wf.apply(&config); err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] file: %+v", filename)
	}
	return config, nil
}

func decodeJSONWorld(filename string) (worldFile, error) {
	var wf worldFile

	data, err := os.ReadFile(filename)
	if err != nil {
		return wf, errors.Wrapf(err, "[LoadConfig] failed to read file: %+v", filename)
	}

	if err = json.Unmarshal(data, &wf); err != nil {
		return wf, errors.Wrapf(err, "[LoadConfig] failed to unmarshal data from file: %+v", filename)
	}
	return wf, nil
}

// Validate checks that the config describes a grid the engine can be built from.
// Live cells are range-checked here because the engine trusts them.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "[Validate] dimensions must be positive, got %dx%d", c.Width, c.Height)
	}
	if _, err := model.ParseBorderPolicy(c.Border); err != nil {
		return errors.Wrapf(ErrInvalidConfig, "[Validate] %v", err)
	}
	for _, cell := range c.LiveCells {
		if cell[0] < 0 || cell[0] >= c.Width || cell[1] < 0 || cell[1] >= c.Height {
			return errors.Wrapf(ErrInvalidConfig, "[Validate] live cell (%d, %d) outside %dx%d grid",
				cell[0], cell[1], c.Width, c.Height)
		}
	}
	if c.Delay < 0 {
		return errors.Wrapf(ErrInvalidConfig, "[Validate] delay must not be negative, got %s", c.Delay)
	}
	if c.MaxGenerations < 0 {
		return errors.Wrapf(ErrInvalidConfig, "[Validate] generations must not be negative, got %d", c.MaxGenerations)
	}
	if c.Workers < 0 {
		return errors.Wrapf(ErrInvalidConfig, "[Validate] workers must not be negative, got %d", c.Workers)
	}
	if c.StopWhenStable && c.StagnationThreshold < 1 {
		return errors.Wrapf(ErrInvalidConfig, "[Validate] stagnation threshold must be at least 1, got %d", c.StagnationThreshold)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if f := strings.ToLower(c.LogFormat); f != "text" && f != "json" {
		return errors.Wrapf(ErrInvalidConfig, "[Validate] log format must be 'text' or 'json', got %q", c.LogFormat)
	}
	return nil
}

// Policy returns the parsed border policy
func (c Config) Policy() (model.BorderPolicy, error) {
	return model.ParseBorderPolicy(c.Border)
}

// Coords returns the live cells as engine coordinates
func (c Config) Coords() []model.Coord {
	out := make([]model.Coord, 0, len(c.LiveCells))
	for _, cell := range c.LiveCells {
		out = append(out, model.Coord{X: cell[0], Y: cell[1]})
	}
	return out
}
