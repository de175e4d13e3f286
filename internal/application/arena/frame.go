package arena

import (
	"time"

	"github.com/younwookim/tankarena/internal/application/state"
	"github.com/younwookim/tankarena/internal/domain/entity"
	"github.com/younwookim/tankarena/internal/infrastructure/config"
)

// TankView is the render data of one tank
type TankView struct {
	ID        entity.EntityID
	Rect      entity.Rect
	Facing    entity.Direction
	Tier      entity.Tier
	Faction   entity.Faction
	Health    int
	MaxHealth int
	Destroyed bool
	Grace     bool
	Effects   []entity.PowerUpType
}

// BulletView is the render data of one bullet
type BulletView struct {
	Rect    entity.Rect
	Kind    string
	Faction entity.Faction
}

// PowerUpView is the render data of one power-up
type PowerUpView struct {
	Rect     entity.Rect
	Type     entity.PowerUpType
	Blinking bool
}

// BombView is the render data of the active bomb
type BombView struct {
	X, Y      int
	Radius    int
	Remaining time.Duration
}

// RenderFrame is a read-only copy of everything a host needs to draw a tick
type RenderFrame struct {
	Tick  uint64
	Now   time.Duration
	State state.GameState

	LevelID string
	Width   int
	Height  int

	Terrain  []entity.TerrainElement
	Player   *TankView
	Enemies  []TankView
	Bullets  []BulletView
	PowerUps []PowerUpView
	Bomb     *BombView

	Lives     int
	Score     int
	Destroyed int
	Quota     int
}

// Remaining returns how many enemies are left to destroy
func (f *RenderFrame) Remaining() int {
	return max(0, f.Quota-f.Destroyed)
}

// Frame copies the current world into a RenderFrame
func (s *Simulation) Frame() RenderFrame {
	w := s.world
	f := RenderFrame{
		Tick:      w.Tick,
		Now:       w.Now,
		State:     s.state,
		Lives:     s.lives,
		Score:     w.Score,
		Destroyed: w.Destroyed,
	}
	if w.Level == nil {
		return f
	}

	f.LevelID = w.Level.ID
	f.Width = w.Level.Width()
	f.Height = w.Level.Height()
	f.Quota = w.Level.Wave.Quota
	f.Terrain = append([]entity.TerrainElement(nil), w.Level.Terrain...)

	if w.Player != nil {
		v := tankView(w.Player)
		f.Player = &v
	}
	f.Enemies = make([]TankView, 0, len(w.Enemies))
	for _, e := range w.Enemies {
		f.Enemies = append(f.Enemies, tankView(e))
	}
	f.Bullets = make([]BulletView, 0, len(w.Bullets))
	for _, b := range w.Bullets {
		if b.Destroyed {
			continue
		}
		f.Bullets = append(f.Bullets, BulletView{Rect: b.Rect(), Kind: b.Kind, Faction: b.Faction})
	}
	f.PowerUps = make([]PowerUpView, 0, len(w.PowerUps))
	for _, p := range w.PowerUps {
		f.PowerUps = append(f.PowerUps, PowerUpView{Rect: p.Rect(), Type: p.Type, Blinking: p.Blinking})
	}
	if w.Bomb != nil {
		fuse := config.Seconds(s.cfg.Rules.Bomb.Fuse)
		f.Bomb = &BombView{
			X:         w.Bomb.X,
			Y:         w.Bomb.Y,
			Radius:    s.cfg.Rules.Bomb.Radius,
			Remaining: max(0, fuse-(w.Now-w.Bomb.PlacedAt)),
		}
	}
	return f
}

func tankView(t *entity.Tank) TankView {
	v := TankView{
		ID:        t.ID,
		Rect:      t.Rect(),
		Facing:    t.Facing,
		Tier:      t.Tier,
		Faction:   t.Faction,
		Health:    t.Health,
		MaxHealth: t.MaxHealth,
		Destroyed: t.Destroyed,
		Grace:     t.SpawnGrace > 0,
	}
	for _, p := range entity.PowerUpTypes {
		if t.HasEffect(p) {
			v.Effects = append(v.Effects, p)
		}
	}
	return v
}
