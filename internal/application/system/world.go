package system

import (
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/younwookim/tankarena/internal/domain/entity"
	"github.com/younwookim/tankarena/internal/domain/grid"
	"github.com/younwookim/tankarena/internal/infrastructure/config"
)

// World is the simulation context shared by every system.
// It owns all rosters, counters and the clock of the running level.
type World struct {
	Rules *config.RulesConfig
	Tanks *config.TanksConfig
	RNG   *rand.Rand
	Log   *log.Logger

	// Simulation clock, advanced once per tick
	Now  time.Duration
	Tick uint64
	Dt   time.Duration

	Level *entity.LevelMap
	Grid  *grid.Grid

	Player   *entity.Tank
	Enemies  []*entity.Tank
	Bullets  []*entity.Bullet
	PowerUps []*entity.PowerUp
	Bomb     *entity.Bomb

	// Wave counters
	Created      int
	Destroyed    int
	Score        int
	PendingTiers []entity.Tier
	RespawnQueue []entity.RespawnEntry
	PowerUpTimer time.Duration

	nextID entity.EntityID
}

// NewWorld creates an empty world. A nil logger discards output.
func NewWorld(cfg *config.GameConfig, rng *rand.Rand, logger *log.Logger) *World {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &World{
		Rules:  cfg.Rules,
		Tanks:  cfg.Tanks,
		RNG:    rng,
		Log:    logger,
		Dt:     cfg.Rules.Display.TickDuration(),
		nextID: 1, // 0 is "nil"
	}
}

// NewEntity returns a new unique entity ID
func (w *World) NewEntity() entity.EntityID {
	id := w.nextID
	w.nextID++
	return id
}

// NextID returns the id the next NewEntity call will hand out
func (w *World) NextID() entity.EntityID {
	return w.nextID
}

// SetNextID restores the id counter from a snapshot
func (w *World) SetNextID(id entity.EntityID) {
	if id == 0 {
		id = 1
	}
	w.nextID = id
}

// Reset clears every roster, counter and the clock and installs a new level.
// Score carries over.
func (w *World) Reset(level *entity.LevelMap, g *grid.Grid) {
	w.Now = 0
	w.Tick = 0
	w.Level = level
	w.Grid = g
	w.Player = nil
	w.Enemies = w.Enemies[:0]
	w.Bullets = w.Bullets[:0]
	w.PowerUps = w.PowerUps[:0]
	w.Bomb = nil
	w.Created = 0
	w.Destroyed = 0
	w.PendingTiers = nil
	w.RespawnQueue = nil
	w.PowerUpTimer = 0
}

// Advance moves the clock forward one tick
func (w *World) Advance() {
	w.Now += w.Dt
	w.Tick++
}

// Stats returns the stat row for a tier. Unknown tiers get a one-hit tank.
func (w *World) Stats(tier entity.Tier) entity.TankStats {
	if stats, ok := w.Tanks.Stats(tier); ok {
		return stats
	}
	w.Log.Warn("missing tank stats", "tier", tier)
	return entity.TankStats{MaxHealth: 1, Speed: 1, Damage: 1, BulletSpeed: 1}
}

// RecordKill tallies a destroyed enemy
func (w *World) RecordKill(t *entity.Tank) {
	w.Destroyed++
	w.Score += w.Stats(t.Tier).Score
	w.Log.Debug("enemy destroyed", "id", t.ID, "tier", t.Tier, "destroyed", w.Destroyed, "quota", w.Level.Wave.Quota)
}

// SweepEnemies drops destroyed tanks from the roster after iteration is done
func (w *World) SweepEnemies() {
	kept := w.Enemies[:0]
	for _, e := range w.Enemies {
		if e.IsAlive() {
			kept = append(kept, e)
		}
	}
	for i := len(kept); i < len(w.Enemies); i++ {
		w.Enemies[i] = nil
	}
	w.Enemies = kept
}

// PlayerAlive reports whether there is a live player tank
func (w *World) PlayerAlive() bool {
	return w.Player != nil && w.Player.IsAlive()
}

// LevelComplete is true once the whole quota is destroyed and the field is clear
func (w *World) LevelComplete() bool {
	return w.Level != nil && w.Destroyed >= w.Level.Wave.Quota && len(w.Enemies) == 0
}

// Blocked reports whether a tank may not occupy r. Map edges and
// movement-blocking terrain always block; other tanks of the same faction
// block unless either side is still in spawn grace. A tank already
// overlapping t does not block it, so tanks left stacked after grace can
// drive apart. Player and enemy contact is left to the ram check.
func (w *World) Blocked(t *entity.Tank, r entity.Rect) bool {
	if !r.Inside(w.Level.Width(), w.Level.Height()) {
		return true
	}
	for i := range w.Level.Terrain {
		el := &w.Level.Terrain[i]
		if el.Type.BlocksMovement() && el.Rect.Overlaps(r) {
			return true
		}
	}
	if t.SpawnGrace > 0 {
		return false
	}
	cur := t.Rect()
	for _, o := range w.tanks() {
		if o == t || !o.IsAlive() || o.Faction != t.Faction || o.SpawnGrace > 0 {
			continue
		}
		if or := o.Rect(); or.Overlaps(r) && !or.Overlaps(cur) {
			return true
		}
	}
	return false
}

// MoveTank turns t to dir and moves it up to step units, stopping at the
// first obstacle. Returns false if the tank could not move at all.
func (w *World) MoveTank(t *entity.Tank, dir entity.Direction, step int) bool {
	if dir == entity.DirNone || step <= 0 {
		return false
	}
	t.Facing = dir
	dx, dy := dir.Delta()
	for s := step; s > 0; s-- {
		nx, ny := t.X+dx*s, t.Y+dy*s
		if !w.Blocked(t, t.RectAt(nx, ny)) {
			t.X, t.Y = nx, ny
			return true
		}
	}
	return false
}

// tanks returns the player (if any) followed by the enemy roster
func (w *World) tanks() []*entity.Tank {
	all := make([]*entity.Tank, 0, len(w.Enemies)+1)
	if w.Player != nil {
		all = append(all, w.Player)
	}
	return append(all, w.Enemies...)
}
