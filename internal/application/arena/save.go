package arena

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/younwookim/tankarena/internal/application/state"
	"github.com/younwookim/tankarena/internal/domain/entity"
	"github.com/younwookim/tankarena/internal/domain/grid"
)

// ErrInvalidSave is returned when a snapshot cannot be restored
var ErrInvalidSave = errors.New("invalid save")

// Save copies every roster and counter into a plain snapshot
func (s *Simulation) Save() entity.SaveState {
	w := s.world
	ss := entity.SaveState{
		Version:      entity.SaveVersion,
		Seed:         s.seed,
		Tick:         w.Tick,
		State:        int(s.state),
		Now:          w.Now,
		NextID:       w.NextID(),
		Lives:        s.lives,
		Created:      w.Created,
		Destroyed:    w.Destroyed,
		Score:        w.Score,
		PendingTiers: slices.Clone(w.PendingTiers),
		RespawnQueue: slices.Clone(w.RespawnQueue),
		PowerUpTimer: w.PowerUpTimer,
	}
	if w.Level != nil {
		ss.Level = cloneLevel(w.Level)
	}
	if w.Player != nil {
		p := cloneTank(w.Player)
		ss.Player = &p
	}
	for _, e := range w.Enemies {
		ss.Enemies = append(ss.Enemies, cloneTank(e))
	}
	for _, b := range w.Bullets {
		if !b.Destroyed {
			ss.Bullets = append(ss.Bullets, *b)
		}
	}
	for _, p := range w.PowerUps {
		ss.PowerUps = append(ss.PowerUps, *p)
	}
	if w.Bomb != nil {
		b := *w.Bomb
		ss.Bomb = &b
	}
	return ss
}

// Restore replaces the running level with a snapshot taken by Save.
// On error the simulation is left untouched.
func (s *Simulation) Restore(ss entity.SaveState) error {
	if ss.Version != entity.SaveVersion {
		return fmt.Errorf("%w: version %d, want %d", ErrInvalidSave, ss.Version, entity.SaveVersion)
	}
	if ss.Level.Cols <= 0 || ss.Level.Rows <= 0 {
		return fmt.Errorf("%w: level has no size", ErrInvalidSave)
	}
	st := state.GameState(ss.State)
	if st.String() == "Unknown" {
		return fmt.Errorf("%w: unknown state %d", ErrInvalidSave, ss.State)
	}

	level := cloneLevel(&ss.Level)
	w := s.world
	s.projectiles.Release(w)
	w.Reset(&level, grid.Build(&level))

	s.seed = ss.Seed
	s.state = st
	s.lives = ss.Lives
	w.Now = ss.Now
	w.Tick = ss.Tick
	w.SetNextID(ss.NextID)
	w.Created = ss.Created
	w.Destroyed = ss.Destroyed
	w.Score = ss.Score
	w.PendingTiers = slices.Clone(ss.PendingTiers)
	w.RespawnQueue = slices.Clone(ss.RespawnQueue)
	w.PowerUpTimer = ss.PowerUpTimer

	if ss.Player != nil {
		p := cloneTank(ss.Player)
		w.Player = &p
	}
	for i := range ss.Enemies {
		e := cloneTank(&ss.Enemies[i])
		w.Enemies = append(w.Enemies, &e)
	}
	for _, saved := range ss.Bullets {
		b := s.projectiles.Pool().Get()
		*b = saved
		w.Bullets = append(w.Bullets, b)
	}
	for _, saved := range ss.PowerUps {
		p := saved
		w.PowerUps = append(w.PowerUps, &p)
	}
	if ss.Bomb != nil {
		b := *ss.Bomb
		w.Bomb = &b
	}

	s.log.Info("save restored", "level", level.ID, "tick", ss.Tick, "state", st)
	return nil
}

func cloneTank(t *entity.Tank) entity.Tank {
	c := *t
	c.Effects = maps.Clone(t.Effects)
	if c.Effects == nil {
		c.Effects = make(map[entity.PowerUpType]time.Duration)
	}
	c.Waypoints = slices.Clone(t.Waypoints)
	return c
}

func cloneLevel(l *entity.LevelMap) entity.LevelMap {
	c := *l
	c.Terrain = slices.Clone(l.Terrain)
	c.EnemySeeds = slices.Clone(l.EnemySeeds)
	c.Candidates = slices.Clone(l.Candidates)
	return c
}
