package system

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/younwookim/tankarena/internal/domain/entity"
	"github.com/younwookim/tankarena/internal/infrastructure/config"
)

func createTestPowerUpSystem() *PowerUpSystem {
	rules := config.DefaultRules()
	return NewPowerUpSystem(rules.PowerUps, rules.Bomb)
}

// tankCenteredAt places an enemy so that its center sits at cx, cy
func tankCenteredAt(w *World, tier entity.Tier, cx, cy int) *entity.Tank {
	return addEnemy(w, tier, cx-entity.TileSize/2, cy-entity.TileSize/2)
}

func TestPowerUp_BombScenario(t *testing.T) {
	w := createTestWorld(createTestLevel(20, 20))
	s := createTestPowerUpSystem()
	var killed []*entity.Tank
	s.OnEnemyDestroyed = func(t *entity.Tank) { killed = append(killed, t) }

	p := addPlayer(w, 80, 80) // center (100,100)
	p.AddEffect(entity.PowerUpBomb, 10*time.Second)
	near := tankCenteredAt(w, entity.TierBoss, 120, 100)
	far := tankCenteredAt(w, entity.TierBoss, 300, 100)

	require.True(t, s.PlaceBomb(w))
	require.NotNil(t, w.Bomb)
	assert.Equal(t, 100, w.Bomb.X)
	assert.Equal(t, 100, w.Bomb.Y)
	assert.False(t, p.HasEffect(entity.PowerUpBomb), "buff consumed")

	// fuse is 3s
	for range 60*3 + 2 {
		s.Update(w)
		w.Advance()
	}

	assert.Nil(t, w.Bomb)
	assert.Equal(t, near.MaxHealth-3, near.Health, "near tank takes splash")
	assert.Equal(t, far.MaxHealth, far.Health, "far tank untouched")
	assert.Empty(t, killed)
}

func TestPowerUp_BombKills(t *testing.T) {
	w := createTestWorld(createTestLevel(20, 20))
	s := createTestPowerUpSystem()
	var killed []*entity.Tank
	s.OnEnemyDestroyed = func(t *entity.Tank) { killed = append(killed, t) }

	e := tankCenteredAt(w, entity.TierElite, 150, 150)
	w.Bomb = &entity.Bomb{X: 150, Y: 150}
	w.Now = 3 * time.Second

	s.Update(w)

	assert.True(t, e.Destroyed)
	assert.Equal(t, 1, w.Destroyed)
	assert.Equal(t, []*entity.Tank{e}, killed)
}

func TestPowerUp_PlaceBombRules(t *testing.T) {
	t.Run("requires the buff", func(t *testing.T) {
		w := createTestWorld(createTestLevel(6, 6))
		s := createTestPowerUpSystem()
		addPlayer(w, 0, 0)

		assert.False(t, s.PlaceBomb(w))
		assert.Nil(t, w.Bomb)
	})

	t.Run("one bomb at a time", func(t *testing.T) {
		w := createTestWorld(createTestLevel(6, 6))
		s := createTestPowerUpSystem()
		p := addPlayer(w, 0, 0)
		p.AddEffect(entity.PowerUpBomb, time.Second)
		existing := &entity.Bomb{X: 1, Y: 1}
		w.Bomb = existing

		assert.False(t, s.PlaceBomb(w))
		assert.Same(t, existing, w.Bomb)
		assert.True(t, p.HasEffect(entity.PowerUpBomb), "buff kept")
	})
}

func TestPowerUp_Pickup(t *testing.T) {
	tests := []struct {
		name  string
		typ   entity.PowerUpType
		check func(t *testing.T, p *entity.Tank)
	}{
		{"health is instant and clamped", entity.PowerUpHealth, func(t *testing.T, p *entity.Tank) {
			assert.Equal(t, p.MaxHealth, p.Health)
			assert.Empty(t, p.Effects)
		}},
		{"attack is timed", entity.PowerUpAttack, func(t *testing.T, p *entity.Tank) {
			assert.Equal(t, 10*time.Second, p.Effects[entity.PowerUpAttack])
		}},
		{"shield is timed", entity.PowerUpShield, func(t *testing.T, p *entity.Tank) {
			assert.True(t, p.HasEffect(entity.PowerUpShield))
		}},
		{"bomb is held", entity.PowerUpBomb, func(t *testing.T, p *entity.Tank) {
			assert.True(t, p.HasEffect(entity.PowerUpBomb))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := createTestWorld(createTestLevel(6, 6))
			s := createTestPowerUpSystem()
			p := addPlayer(w, 80, 80)
			p.Health = p.MaxHealth - 1
			// just outside the tank, inside the pickup margin
			w.PowerUps = append(w.PowerUps, &entity.PowerUp{ID: 99, X: 122, Y: 85, Type: tt.typ})

			s.Update(w)

			assert.Empty(t, w.PowerUps)
			if tt.typ != entity.PowerUpHealth {
				assert.Equal(t, p.MaxHealth-1, p.Health)
			}
			// Update ticks effects before pickup, so timed effects are fresh
			tt.check(t, p)
		})
	}
}

func TestPowerUp_PickupOutOfReach(t *testing.T) {
	w := createTestWorld(createTestLevel(6, 6))
	s := createTestPowerUpSystem()
	addPlayer(w, 80, 80)
	w.PowerUps = append(w.PowerUps, &entity.PowerUp{ID: 99, X: 130, Y: 85, Type: entity.PowerUpSpeed})

	s.Update(w)

	assert.Len(t, w.PowerUps, 1)
}

func TestPowerUp_Expiry(t *testing.T) {
	w := createTestWorld(createTestLevel(6, 6))
	s := createTestPowerUpSystem()
	pu := &entity.PowerUp{ID: 1, X: 200, Y: 200, Type: entity.PowerUpSpeed}
	w.PowerUps = append(w.PowerUps, pu)

	w.Now = 11 * time.Second
	s.Update(w)
	assert.False(t, pu.Blinking)

	w.Now = 12 * time.Second
	s.Update(w)
	assert.True(t, pu.Blinking)
	assert.Len(t, w.PowerUps, 1)

	w.Now = 15 * time.Second
	s.Update(w)
	assert.Empty(t, w.PowerUps)
}

func TestPowerUp_BuffsExpire(t *testing.T) {
	rules := config.DefaultRules()
	rules.PowerUps.SpawnChance = 0
	s := NewPowerUpSystem(rules.PowerUps, rules.Bomb)
	w := createTestWorld(createTestLevel(6, 6))
	p := addPlayer(w, 0, 0)
	s.Apply(p, entity.PowerUpSpeed)

	for range 60*10 + 1 {
		s.Update(w)
		w.Advance()
	}

	assert.False(t, p.HasEffect(entity.PowerUpSpeed))
}

func TestPowerUp_WorldTimer(t *testing.T) {
	rules := config.DefaultRules()
	rules.PowerUps.SpawnChance = 1
	s := NewPowerUpSystem(rules.PowerUps, rules.Bomb)
	w := createTestWorld(createTestLevel(26, 15, tile(1, entity.TerrainSteel, 0, 0)))

	for range 60*10 - 1 {
		s.Update(w)
		w.Advance()
	}
	assert.Empty(t, w.PowerUps)

	for range 2 {
		s.Update(w)
		w.Advance()
	}
	require.Len(t, w.PowerUps, 1)

	pu := w.PowerUps[0]
	assert.Equal(t, 5, pu.X%entity.TileSize, "centered in a grid cell")
	assert.Equal(t, 5, pu.Y%entity.TileSize)
	assert.False(t, pu.Rect().Overlaps(w.Level.Terrain[0].Rect))
}

func TestPowerUp_PlacementAvoidsTanks(t *testing.T) {
	t.Run("skips occupied cells", func(t *testing.T) {
		w := createTestWorld(createTestLevel(2, 1))
		s := createTestPowerUpSystem()
		addPlayer(w, 0, 0)

		for range 20 {
			x, y, ok := s.findPosition(w)
			require.True(t, ok)
			assert.Equal(t, 45, x)
			assert.Equal(t, 5, y)
		}
	})

	t.Run("no free cell", func(t *testing.T) {
		w := createTestWorld(createTestLevel(2, 1))
		s := createTestPowerUpSystem()
		addPlayer(w, 0, 0)
		addEnemy(w, entity.TierBasic, 40, 0)

		_, _, ok := s.findPosition(w)
		assert.False(t, ok)
	})

	t.Run("destroyed tanks do not count", func(t *testing.T) {
		w := createTestWorld(createTestLevel(1, 1))
		s := createTestPowerUpSystem()
		e := addEnemy(w, entity.TierBasic, 0, 0)
		e.Destroy()

		_, _, ok := s.findPosition(w)
		assert.True(t, ok)
	})
}

func TestPowerUp_EventCallbacks(t *testing.T) {
	w := createTestWorld(createTestLevel(20, 20))
	s := createTestPowerUpSystem()
	var picked []entity.PowerUpType
	var detonations []int
	s.OnPickup = func(p *entity.PowerUp) { picked = append(picked, p.Type) }
	s.OnDetonate = func(b *entity.Bomb, hits int) { detonations = append(detonations, hits) }

	addPlayer(w, 80, 80)
	w.PowerUps = append(w.PowerUps, &entity.PowerUp{ID: 7, X: 122, Y: 85, Type: entity.PowerUpSpeed})
	tankCenteredAt(w, entity.TierBoss, 400, 400)
	tankCenteredAt(w, entity.TierBoss, 410, 400)
	w.Bomb = &entity.Bomb{X: 400, Y: 400, PlacedAt: w.Now - 10*time.Second}

	s.Update(w)

	assert.Equal(t, []entity.PowerUpType{entity.PowerUpSpeed}, picked)
	assert.Equal(t, []int{2}, detonations)
}

func TestPowerUp_WorldTimerRespectsMaxActive(t *testing.T) {
	rules := config.DefaultRules()
	rules.PowerUps.SpawnChance = 1
	rules.PowerUps.MaxActive = 1
	s := NewPowerUpSystem(rules.PowerUps, rules.Bomb)
	w := createTestWorld(createTestLevel(26, 15))
	w.PowerUps = append(w.PowerUps, &entity.PowerUp{ID: 1, X: 5, Y: 5})
	w.PowerUps[0].SpawnedAt = 100 * time.Second
	w.Now = 100 * time.Second

	for range 60*10 + 1 {
		s.Update(w)
		w.Advance()
	}

	assert.Len(t, w.PowerUps, 1)
}

func TestPowerUp_RollDrop(t *testing.T) {
	rules := config.DefaultRules()
	rules.PowerUps.DropChance = 1
	s := NewPowerUpSystem(rules.PowerUps, rules.Bomb)
	w := createTestWorld(createTestLevel(6, 6))
	e := addEnemy(w, entity.TierBasic, 80, 80)

	require.True(t, s.RollDrop(w, e))
	require.Len(t, w.PowerUps, 1)
	assert.Equal(t, 85, w.PowerUps[0].X)
	assert.Equal(t, 85, w.PowerUps[0].Y)

	rules.PowerUps.DropChance = 0
	s = NewPowerUpSystem(rules.PowerUps, rules.Bomb)
	assert.False(t, s.RollDrop(w, e))
}
