// Package grid holds the pathing grid derived from level terrain and the
// A* search AI tanks use to route toward the player.
package grid

import "github.com/younwookim/tankarena/internal/domain/entity"

// Cell is a grid coordinate (column, row)
type Cell struct {
	X, Y int
}

// Grid is a 2D walkability matrix, one cell per TileSize map units. true = blocked.
type Grid struct {
	cols    int
	rows    int
	blocked []bool
}

// New returns an empty (fully walkable) grid
func New(cols, rows int) *Grid {
	if cols < 0 {
		cols = 0
	}
	if rows < 0 {
		rows = 0
	}
	return &Grid{
		cols:    cols,
		rows:    rows,
		blocked: make([]bool, cols*rows),
	}
}

// Build derives the grid from the level terrain. Every element whose type
// blocks pathing marks each cell it overlaps.
func Build(level *entity.LevelMap) *Grid {
	g := New(level.Cols, level.Rows)
	for _, el := range level.Terrain {
		if el.Type.BlocksPath() {
			g.markRect(el.Rect)
		}
	}
	return g
}

// Cols returns the grid width in cells
func (g *Grid) Cols() int { return g.cols }

// Rows returns the grid height in cells
func (g *Grid) Rows() int { return g.rows }

// InBounds reports whether the cell lies on the grid
func (g *Grid) InBounds(c Cell) bool {
	return c.X >= 0 && c.Y >= 0 && c.X < g.cols && c.Y < g.rows
}

// IsBlocked returns true if the cell is not walkable. Off-grid cells are blocked.
func (g *Grid) IsBlocked(c Cell) bool {
	if !g.InBounds(c) {
		return true
	}
	return g.blocked[c.Y*g.cols+c.X]
}

// SetBlocked overrides a single cell
func (g *Grid) SetBlocked(c Cell, blocked bool) {
	if g.InBounds(c) {
		g.blocked[c.Y*g.cols+c.X] = blocked
	}
}

// Refresh recomputes the cells covered by area from the remaining terrain.
// Used after destructible terrain is removed.
func (g *Grid) Refresh(level *entity.LevelMap, area entity.Rect) {
	minX, minY, maxX, maxY, ok := g.cellSpan(area)
	if !ok {
		return
	}
	for cy := minY; cy <= maxY; cy++ {
		for cx := minX; cx <= maxX; cx++ {
			g.blocked[cy*g.cols+cx] = false
		}
	}
	for _, el := range level.Terrain {
		if !el.Type.BlocksPath() || !el.Rect.Overlaps(area) {
			continue
		}
		g.markRect(el.Rect)
	}
}

func (g *Grid) markRect(r entity.Rect) {
	minX, minY, maxX, maxY, ok := g.cellSpan(r)
	if !ok {
		return
	}
	for cy := minY; cy <= maxY; cy++ {
		for cx := minX; cx <= maxX; cx++ {
			g.blocked[cy*g.cols+cx] = true
		}
	}
}

// cellSpan returns the inclusive cell range a rect overlaps, clipped to the grid
func (g *Grid) cellSpan(r entity.Rect) (minX, minY, maxX, maxY int, ok bool) {
	if r.W <= 0 || r.H <= 0 {
		return 0, 0, 0, 0, false
	}
	minX = max(0, floorDiv(r.X, entity.TileSize))
	minY = max(0, floorDiv(r.Y, entity.TileSize))
	maxX = min(g.cols-1, floorDiv(r.X+r.W-1, entity.TileSize))
	maxY = min(g.rows-1, floorDiv(r.Y+r.H-1, entity.TileSize))
	if minX > maxX || minY > maxY {
		return 0, 0, 0, 0, false
	}
	return minX, minY, maxX, maxY, true
}

// CellAt converts a map position to the cell containing it
func CellAt(x, y int) Cell {
	return Cell{X: floorDiv(x, entity.TileSize), Y: floorDiv(y, entity.TileSize)}
}

// Origin returns the top-left map position of the cell
func (c Cell) Origin() (int, int) {
	return c.X * entity.TileSize, c.Y * entity.TileSize
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
