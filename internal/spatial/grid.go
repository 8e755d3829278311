// Package spatial provides cache-efficient spatial data structures for
// broad-phase queries over the entity store: nearby-entity lookup for
// combat targeting, projectile collision, and animal AI perception.
//
// All structures use preallocated slices with integer entity IDs (not
// pointers) to minimize GC pressure and maximize cache locality.
package spatial

import "math"

// Grid provides O(1) average spatial queries via fixed-size cells.
// Entities are identified by a caller-assigned uint64 ID (e.g. a
// player identity hash, an animal ID, a dropped-item instance ID).
//
// Optimal cell size equals the largest query radius used against the
// grid. Memory layout: cells are stored in row-major order
// (cells[row*cols+col]).
type Grid struct {
	cellSize    float64
	invCellSize float64
	cols, rows  int
	cells       [][]uint64
	scratch     []uint64
}

// NewGrid creates a grid for the given world bounds. cellSize should
// equal the largest query radius for optimal performance. maxEntities
// is used to preallocate cell capacity.
func NewGrid(worldWidth, worldHeight, cellSize float64, maxEntities int) *Grid {
	cols := int(math.Ceil(worldWidth / cellSize))
	rows := int(math.Ceil(worldHeight / cellSize))
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}

	cells := make([][]uint64, cols*rows)
	avgPerCell := maxEntities / len(cells)
	if avgPerCell < 4 {
		avgPerCell = 4
	}
	for i := range cells {
		cells[i] = make([]uint64, 0, avgPerCell)
	}

	return &Grid{
		cellSize:    cellSize,
		invCellSize: 1.0 / cellSize,
		cols:        cols,
		rows:        rows,
		cells:       cells,
		scratch:     make([]uint64, 0, 64),
	}
}

// Clear resets all cells without deallocating underlying memory.
func (g *Grid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

func (g *Grid) cellIndex(x, y float64) int {
	col := int(x * g.invCellSize)
	row := int(y * g.invCellSize)
	if col < 0 {
		col = 0
	}
	if col >= g.cols {
		col = g.cols - 1
	}
	if row < 0 {
		row = 0
	}
	if row >= g.rows {
		row = g.rows - 1
	}
	return row*g.cols + col
}

// Insert adds an entity at position (x, y). O(1).
func (g *Grid) Insert(entityID uint64, x, y float64) {
	idx := g.cellIndex(x, y)
	g.cells[idx] = append(g.cells[idx], entityID)
}

// QueryRadius returns all entity IDs potentially within radius of (cx, cy).
// Uses an internal scratch buffer reused across calls — copy the result
// slice if it must outlive the next QueryRadius call.
//
// Candidates may lie outside the exact radius; callers must perform a
// narrow-phase distance check.
func (g *Grid) QueryRadius(cx, cy, radius float64) []uint64 {
	g.scratch = g.scratch[:0]

	minCol := int((cx - radius) * g.invCellSize)
	maxCol := int((cx + radius) * g.invCellSize)
	minRow := int((cy - radius) * g.invCellSize)
	maxRow := int((cy + radius) * g.invCellSize)

	if minCol < 0 {
		minCol = 0
	}
	if maxCol >= g.cols {
		maxCol = g.cols - 1
	}
	if minRow < 0 {
		minRow = 0
	}
	if maxRow >= g.rows {
		maxRow = g.rows - 1
	}

	for row := minRow; row <= maxRow; row++ {
		for col := minCol; col <= maxCol; col++ {
			idx := row*g.cols + col
			g.scratch = append(g.scratch, g.cells[idx]...)
		}
	}
	return g.scratch
}

// Dimensions returns the grid's column/row counts and cell size.
func (g *Grid) Dimensions() (cols, rows int, cellSize float64) {
	return g.cols, g.rows, g.cellSize
}
