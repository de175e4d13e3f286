package system

import (
	"github.com/younwookim/tankarena/internal/domain/entity"
	"github.com/younwookim/tankarena/internal/domain/grid"
	"github.com/younwookim/tankarena/internal/infrastructure/config"
)

// AISystem drives enemy tanks toward the player along grid paths
type AISystem struct {
	rules       config.AIRules
	projectiles *ProjectileSystem
}

// NewAISystem creates a new AI system firing through projectiles
func NewAISystem(rules config.AIRules, projectiles *ProjectileSystem) *AISystem {
	return &AISystem{rules: rules, projectiles: projectiles}
}

// Update replans, moves and fires for every live enemy
func (s *AISystem) Update(w *World) {
	for _, e := range w.Enemies {
		if !e.IsAlive() {
			continue
		}
		if w.Now >= e.NextReplan {
			s.replan(w, e)
			e.NextReplan = w.Now + config.Seconds(s.rules.ReplanInterval)
		}
		s.move(w, e)
		s.fire(w, e)
	}
}

// replan stores the route to the player's cell, minus the current cell
func (s *AISystem) replan(w *World, e *entity.Tank) {
	e.Waypoints = e.Waypoints[:0]
	if !w.PlayerAlive() {
		return
	}
	path := grid.FindPath(w.Grid, grid.CellAt(e.Center()), grid.CellAt(w.Player.Center()))
	if len(path) < 2 {
		return
	}
	for _, c := range path[1:] {
		e.Waypoints = append(e.Waypoints, [2]int{c.X, c.Y})
	}
}

func (s *AISystem) move(w *World, e *entity.Tank) {
	speed := e.CurrentSpeed(0)

	for len(e.Waypoints) > 0 {
		c := grid.Cell{X: e.Waypoints[0][0], Y: e.Waypoints[0][1]}
		tx, ty := c.Origin()
		if e.X == tx && e.Y == ty {
			e.Waypoints = e.Waypoints[1:]
			continue
		}

		for _, yFirst := range [2]bool{false, true} {
			dir, dist := stepToward(e.X, e.Y, tx, ty, yFirst)
			if w.MoveTank(e, dir, min(speed, dist)) {
				return
			}
		}
		// blocked by another tank
		e.Waypoints = e.Waypoints[:0]
		break
	}
	s.wander(w, e, speed)
}

// wander keeps driving forward and turns randomly when blocked
func (s *AISystem) wander(w *World, e *entity.Tank, speed int) {
	if w.MoveTank(e, e.Facing, speed) {
		return
	}
	e.Facing = entity.Directions[w.RNG.Intn(len(entity.Directions))]
}

func (s *AISystem) fire(w *World, e *entity.Tank) {
	if !e.CanFire(w.Now) {
		return
	}
	if s.inLineOfFire(w, e) || w.RNG.Float64() < s.rules.FireChance {
		s.projectiles.Fire(w, e)
	}
}

// inLineOfFire reports whether the player sits straight ahead of e
func (s *AISystem) inLineOfFire(w *World, e *entity.Tank) bool {
	if !w.PlayerAlive() {
		return false
	}
	ex, ey := e.Center()
	px, py := w.Player.Center()
	half := entity.TileSize / 2
	switch e.Facing {
	case entity.DirUp:
		return abs(px-ex) < half && py < ey
	case entity.DirDown:
		return abs(px-ex) < half && py > ey
	case entity.DirLeft:
		return abs(py-ey) < half && px < ex
	case entity.DirRight:
		return abs(py-ey) < half && px > ex
	}
	return false
}

// stepToward picks the axis to close first and the distance left on it
func stepToward(x, y, tx, ty int, yFirst bool) (entity.Direction, int) {
	if (yFirst && y != ty) || x == tx {
		if y < ty {
			return entity.DirDown, ty - y
		}
		return entity.DirUp, y - ty
	}
	if x < tx {
		return entity.DirRight, tx - x
	}
	return entity.DirLeft, x - tx
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
