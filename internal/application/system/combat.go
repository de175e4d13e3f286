package system

import (
	"github.com/younwookim/tankarena/internal/domain/entity"
	"github.com/younwookim/tankarena/internal/infrastructure/config"
)

// CombatSystem resolves bullet, ram and water hits once per tick
type CombatSystem struct {
	rules config.CombatRules

	// Event callbacks
	OnEnemyDestroyed func(t *entity.Tank)
	OnTerrainRemoved func(el entity.TerrainElement)
}

// NewCombatSystem creates a new combat system
func NewCombatSystem(rules config.CombatRules) *CombatSystem {
	return &CombatSystem{rules: rules}
}

// Update runs the four collision phases in order and reports whether the
// player tank was destroyed this tick. Destroyed enemies leave the roster
// only after every phase has run.
func (s *CombatSystem) Update(w *World) (playerDown bool) {
	s.bulletsVsTerrain(w)
	if s.bulletsVsTanks(w) {
		playerDown = true
	}
	if !playerDown && s.ramChecks(w) {
		w.SweepEnemies()
		return true
	}
	if s.waterChecks(w) {
		playerDown = true
	}
	w.SweepEnemies()
	return playerDown
}

func (s *CombatSystem) bulletsVsTerrain(w *World) {
	removed := make(map[int]struct{})
	for _, b := range w.Bullets {
		if b.Destroyed {
			continue
		}
		r := b.Rect()
		for i := range w.Level.Terrain {
			el := &w.Level.Terrain[i]
			if !el.Type.StopsBullets() || !el.Rect.Overlaps(r) {
				continue
			}
			if el.Type == entity.TerrainBrick {
				removed[el.ID] = struct{}{}
			}
			b.Deactivate()
			break
		}
	}

	for _, el := range w.Level.RemoveTerrain(removed) {
		w.Grid.Refresh(w.Level, el.Rect)
		if s.OnTerrainRemoved != nil {
			s.OnTerrainRemoved(el)
		}
	}
}

func (s *CombatSystem) bulletsVsTanks(w *World) (playerDown bool) {
	for _, b := range w.Bullets {
		if b.Destroyed {
			continue
		}
		r := b.Rect()

		if b.Faction == entity.FactionEnemy {
			if w.PlayerAlive() && w.Player.Rect().Overlaps(r) {
				b.Deactivate()
				if _, killed := w.Player.TakeDamage(b.Damage); killed {
					playerDown = true
				}
			}
			continue
		}

		for _, e := range w.Enemies {
			if !e.IsAlive() || !e.Rect().Overlaps(r) {
				continue
			}
			b.Deactivate()
			if _, killed := e.TakeDamage(b.Damage); killed {
				s.enemyDestroyed(w, e)
			}
			break
		}
	}
	return playerDown
}

// ramChecks destroys every enemy touching the player. The player loses
// ramDamage health per contact; the first fatal contact ends the checks.
func (s *CombatSystem) ramChecks(w *World) (playerDown bool) {
	p := w.Player
	if !w.PlayerAlive() || p.SpawnGrace > 0 {
		return false
	}
	pr := p.Rect()
	for _, e := range w.Enemies {
		if !e.IsAlive() || e.SpawnGrace > 0 || !e.Rect().Overlaps(pr) {
			continue
		}
		_, killed := p.TakeDamage(s.rules.RamDamage)
		if e.Destroy() {
			s.enemyDestroyed(w, e)
		}
		if killed {
			return true
		}
	}
	return false
}

// waterChecks applies water damage to every tank, at most once per cooldown
func (s *CombatSystem) waterChecks(w *World) (playerDown bool) {
	for _, t := range w.tanks() {
		if !t.IsAlive() {
			continue
		}
		if !s.inWater(w, t.Rect()) {
			t.InWater = false
			continue
		}
		t.InWater = true

		cooldown := config.Seconds(s.rules.WaterCooldown)
		if t.WaterDamaged && w.Now-t.LastWaterDamage <= cooldown {
			continue
		}
		t.WaterDamaged = true
		t.LastWaterDamage = w.Now

		if _, killed := t.TakeDamage(s.rules.WaterDamage); killed {
			if t == w.Player {
				playerDown = true
			} else {
				s.enemyDestroyed(w, t)
			}
		}
	}
	return playerDown
}

func (s *CombatSystem) inWater(w *World, r entity.Rect) bool {
	for i := range w.Level.Terrain {
		el := &w.Level.Terrain[i]
		if el.Type == entity.TerrainWater && el.Rect.Overlaps(r) {
			return true
		}
	}
	return false
}

func (s *CombatSystem) enemyDestroyed(w *World, t *entity.Tank) {
	w.RecordKill(t)
	if s.OnEnemyDestroyed != nil {
		s.OnEnemyDestroyed(t)
	}
}
