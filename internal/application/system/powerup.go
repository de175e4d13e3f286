package system

import (
	"github.com/younwookim/tankarena/internal/domain/entity"
	"github.com/younwookim/tankarena/internal/infrastructure/config"
)

// PowerUpSystem spawns, expires and applies power-ups and runs the bomb fuse
type PowerUpSystem struct {
	rules config.PowerUpRules
	bomb  config.BombRules

	// Event callbacks
	OnEnemyDestroyed func(t *entity.Tank)
	OnPickup         func(p *entity.PowerUp)
	OnDetonate       func(b *entity.Bomb, hits int)
}

// NewPowerUpSystem creates a new power-up system
func NewPowerUpSystem(rules config.PowerUpRules, bomb config.BombRules) *PowerUpSystem {
	return &PowerUpSystem{rules: rules, bomb: bomb}
}

// Update counts down buffs, runs the world spawn timer, handles pickup and
// expiry, and detonates the bomb once its fuse has burnt.
func (s *PowerUpSystem) Update(w *World) {
	for _, t := range w.tanks() {
		if t.IsAlive() {
			t.TickEffects(w.Dt)
		}
	}

	s.updateTimer(w)
	s.updatePickups(w)
	s.updateExpiry(w)

	if w.Bomb != nil && w.Bomb.Detonates(w.Now, config.Seconds(s.bomb.Fuse)) {
		s.detonate(w)
	}
}

// RollDrop rolls the kill-drop gate for a destroyed enemy
func (s *PowerUpSystem) RollDrop(w *World, t *entity.Tank) bool {
	if w.RNG.Float64() >= s.rules.DropChance {
		return false
	}
	cx, cy := t.Center()
	s.add(w, cx-entity.PowerUpSize/2, cy-entity.PowerUpSize/2, s.randomType(w))
	return true
}

// PlaceBomb drops the held bomb at the player's center
func (s *PowerUpSystem) PlaceBomb(w *World) bool {
	if !w.PlayerAlive() || w.Bomb != nil {
		return false
	}
	if !w.Player.ConsumeEffect(entity.PowerUpBomb) {
		return false
	}
	cx, cy := w.Player.Center()
	w.Bomb = &entity.Bomb{X: cx, Y: cy, PlacedAt: w.Now}
	w.Log.Debug("bomb placed", "x", cx, "y", cy)
	return true
}

// Apply gives the effect of p to t
func (s *PowerUpSystem) Apply(t *entity.Tank, p entity.PowerUpType) {
	if !p.Timed() {
		t.Heal(s.rules.HealAmount)
		return
	}
	t.AddEffect(p, config.Seconds(s.rules.BuffDuration))
}

func (s *PowerUpSystem) updateTimer(w *World) {
	interval := config.Seconds(s.rules.SpawnInterval)
	if interval <= 0 {
		return
	}
	w.PowerUpTimer += w.Dt
	if w.PowerUpTimer < interval {
		return
	}
	w.PowerUpTimer -= interval

	if len(w.PowerUps) >= s.rules.MaxActive {
		return
	}
	if w.RNG.Float64() >= s.rules.SpawnChance {
		return
	}
	typ := s.randomType(w)
	x, y, ok := s.findPosition(w)
	if !ok {
		w.Log.Debug("no power-up position", "tick", w.Tick)
		return
	}
	s.add(w, x, y, typ)
}

func (s *PowerUpSystem) updatePickups(w *World) {
	if !w.PlayerAlive() || len(w.PowerUps) == 0 {
		return
	}
	box := w.Player.Rect().Expand(s.rules.PickupMargin)

	taken := make(map[entity.EntityID]struct{})
	for _, p := range w.PowerUps {
		if !box.Overlaps(p.Rect()) {
			continue
		}
		s.Apply(w.Player, p.Type)
		taken[p.ID] = struct{}{}
		w.Log.Debug("power-up picked", "type", p.Type)
		if s.OnPickup != nil {
			s.OnPickup(p)
		}
	}
	s.remove(w, taken)
}

func (s *PowerUpSystem) updateExpiry(w *World) {
	lifetime := config.Seconds(s.rules.Lifetime)
	blinkFrom := lifetime - config.Seconds(s.rules.BlinkWindow)

	expired := make(map[entity.EntityID]struct{})
	for _, p := range w.PowerUps {
		age := w.Now - p.SpawnedAt
		if age >= lifetime {
			expired[p.ID] = struct{}{}
			continue
		}
		p.Blinking = age >= blinkFrom
	}
	s.remove(w, expired)
}

func (s *PowerUpSystem) detonate(w *World) {
	b := w.Bomb
	w.Bomb = nil

	r2 := s.bomb.Radius * s.bomb.Radius
	hits := 0
	for _, e := range w.Enemies {
		if !e.IsAlive() {
			continue
		}
		ex, ey := e.Center()
		dx, dy := ex-b.X, ey-b.Y
		if dx*dx+dy*dy > r2 {
			continue
		}
		hits++
		if _, killed := e.TakeDamage(s.bomb.Damage); killed {
			w.RecordKill(e)
			if s.OnEnemyDestroyed != nil {
				s.OnEnemyDestroyed(e)
			}
		}
	}
	w.Log.Debug("bomb detonated", "x", b.X, "y", b.Y, "hits", hits)
	if s.OnDetonate != nil {
		s.OnDetonate(b, hits)
	}
}

func (s *PowerUpSystem) add(w *World, x, y int, typ entity.PowerUpType) {
	p := &entity.PowerUp{
		ID:        w.NewEntity(),
		X:         x,
		Y:         y,
		Type:      typ,
		SpawnedAt: w.Now,
	}
	w.PowerUps = append(w.PowerUps, p)
	w.Log.Debug("power-up spawned", "type", typ, "x", x, "y", y)
}

func (s *PowerUpSystem) remove(w *World, ids map[entity.EntityID]struct{}) {
	if len(ids) == 0 {
		return
	}
	kept := w.PowerUps[:0]
	for _, p := range w.PowerUps {
		if _, ok := ids[p.ID]; !ok {
			kept = append(kept, p)
		}
	}
	for i := len(kept); i < len(w.PowerUps); i++ {
		w.PowerUps[i] = nil
	}
	w.PowerUps = kept
}

func (s *PowerUpSystem) randomType(w *World) entity.PowerUpType {
	return entity.PowerUpTypes[w.RNG.Intn(len(entity.PowerUpTypes))]
}

// findPosition picks a grid-aligned cell clear of solid terrain and live
// tanks, and far enough from every other power-up
func (s *PowerUpSystem) findPosition(w *World) (int, int, bool) {
	offset := (entity.TileSize - entity.PowerUpSize) / 2
	sep2 := s.rules.MinSeparation * s.rules.MinSeparation
	for range s.rules.PlacementAttempts {
		col := w.RNG.Intn(w.Level.Cols)
		row := w.RNG.Intn(w.Level.Rows)
		cell := entity.Rect{X: col * entity.TileSize, Y: row * entity.TileSize, W: entity.TileSize, H: entity.TileSize}

		free := true
		for i := range w.Level.Terrain {
			el := &w.Level.Terrain[i]
			if el.Type != entity.TerrainGrass && el.Rect.Overlaps(cell) {
				free = false
				break
			}
		}
		for _, t := range w.tanks() {
			if free && t.IsAlive() && t.Rect().Overlaps(cell) {
				free = false
			}
		}
		if !free {
			continue
		}

		x, y := cell.X+offset, cell.Y+offset
		for _, p := range w.PowerUps {
			dx, dy := p.X-x, p.Y-y
			if dx*dx+dy*dy < sep2 {
				free = false
				break
			}
		}
		if free {
			return x, y, true
		}
	}
	return 0, 0, false
}
