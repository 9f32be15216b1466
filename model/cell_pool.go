package model

import (
	"sync"

	"github.com/sheikhrachel/go-life/rules"
)

// CellPool recycles cell buffers between generations. A nil *CellPool allocates fresh buffers.
type CellPool struct {
	pool sync.Pool
}

func NewCellPool() *CellPool {
	return &CellPool{
		pool: sync.Pool{
			New: func() any {
				return new([]rules.CellState)
			},
		},
	}
}

// Get returns a zeroed buffer of the given size
func (p *CellPool) Get(size int) []rules.CellState {
	if p == nil {
		return make([]rules.CellState, size)
	}
	buf := p.pool.Get().(*[]rules.CellState)
	if cap(*buf) < size {
		return make([]rules.CellState, size)
	}
	cells := (*buf)[:size]
	clear(cells)
	return cells
}

// Put returns a buffer to the pool for reuse
func (p *CellPool) Put(cells []rules.CellState) {
	if p == nil || cells == nil {
		return
	}
	p.pool.Put(&cells)
}
