package rules

// CellState is the state of a single cell.
type CellState uint8

const (
	Dead CellState = iota
	Alive
)

// String returns "alive" or "dead"
func (s CellState) String() string {
	if s == Alive {
		return "alive"
	}
	return "dead"
}

/*
Next applies Conway's Game of Life rules (B3/S23) to determine the next state of a cell.

A live cell with fewer than 2 or more than 3 live neighbors dies, a dead cell with
exactly 3 live neighbors is born, every other cell keeps its state.
*/
func Next(state CellState, liveNeighbors int) CellState {
	switch {
	case state == Alive && (liveNeighbors < 2 || liveNeighbors > 3):
		return Dead
	case state == Dead && liveNeighbors == 3:
		return Alive
	default:
		return state
	}
}
