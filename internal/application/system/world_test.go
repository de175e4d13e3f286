package system

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/younwookim/tankarena/internal/domain/entity"
	"github.com/younwookim/tankarena/internal/domain/grid"
	"github.com/younwookim/tankarena/internal/infrastructure/config"
)

// testRNG returns a seeded RNG for deterministic tests
func testRNG() *rand.Rand {
	return rand.New(rand.NewSource(12345))
}

func tile(id int, t entity.TerrainType, col, row int) entity.TerrainElement {
	return entity.TerrainElement{
		ID:   id,
		Type: t,
		Rect: entity.Rect{X: col * entity.TileSize, Y: row * entity.TileSize, W: entity.TileSize, H: entity.TileSize},
	}
}

func createTestLevel(cols, rows int, terrain ...entity.TerrainElement) *entity.LevelMap {
	return &entity.LevelMap{
		ID:          "test",
		Number:      1,
		Cols:        cols,
		Rows:        rows,
		Terrain:     terrain,
		PlayerSpawn: entity.Rect{X: 0, Y: (rows - 1) * entity.TileSize, W: entity.TileSize, H: entity.TileSize},
		Wave:        entity.WaveRules{Quota: 15, Cap: 5, Weights: [3]float64{100, 0, 0}},
	}
}

func createTestWorld(level *entity.LevelMap) *World {
	w := NewWorld(config.DefaultGameConfig(), testRNG(), nil)
	w.Reset(level, grid.Build(level))
	return w
}

func addEnemy(w *World, tier entity.Tier, x, y int) *entity.Tank {
	e := entity.NewTank(w.NewEntity(), x, y, tier, w.Stats(tier))
	w.Enemies = append(w.Enemies, e)
	return e
}

func addPlayer(w *World, x, y int) *entity.Tank {
	p := entity.NewTank(w.NewEntity(), x, y, entity.TierStandard, w.Stats(entity.TierStandard))
	w.Player = p
	return p
}

func TestWorld_NewEntity(t *testing.T) {
	w := createTestWorld(createTestLevel(4, 4))

	a := w.NewEntity()
	b := w.NewEntity()
	assert.Equal(t, entity.EntityID(1), a)
	assert.Equal(t, entity.EntityID(2), b)
	assert.Equal(t, entity.EntityID(3), w.NextID())

	w.SetNextID(0)
	assert.Equal(t, entity.EntityID(1), w.NewEntity())
}

func TestWorld_Advance(t *testing.T) {
	w := createTestWorld(createTestLevel(4, 4))

	for range 60 {
		w.Advance()
	}
	assert.Equal(t, uint64(60), w.Tick)
	assert.InDelta(t, float64(time.Second), float64(w.Now), float64(time.Millisecond))
}

func TestWorld_MoveTank(t *testing.T) {
	tests := []struct {
		name    string
		terrain []entity.TerrainElement
		dir     entity.Direction
		step    int
		wantX   int
		wantY   int
		moved   bool
	}{
		{"free", nil, entity.DirRight, 4, 84, 80, true},
		{"steel stops", []entity.TerrainElement{tile(1, entity.TerrainSteel, 3, 2)}, entity.DirRight, 4, 80, 80, false},
		{"brick stops", []entity.TerrainElement{tile(1, entity.TerrainBrick, 2, 1)}, entity.DirUp, 2, 80, 80, false},
		{"base stops", []entity.TerrainElement{tile(1, entity.TerrainBase, 1, 2)}, entity.DirLeft, 2, 80, 80, false},
		{"water passable", []entity.TerrainElement{tile(1, entity.TerrainWater, 3, 2)}, entity.DirRight, 4, 84, 80, true},
		{"grass passable", []entity.TerrainElement{tile(1, entity.TerrainGrass, 2, 3)}, entity.DirDown, 4, 80, 84, true},
		{"map edge", nil, entity.DirUp, 200, 80, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := createTestWorld(createTestLevel(6, 6, tt.terrain...))
			tank := addPlayer(w, 80, 80)

			moved := w.MoveTank(tank, tt.dir, tt.step)

			assert.Equal(t, tt.moved, moved)
			assert.Equal(t, tt.wantX, tank.X)
			assert.Equal(t, tt.wantY, tank.Y)
			assert.Equal(t, tt.dir, tank.Facing)
		})
	}
}

func TestWorld_MoveTank_StopsAtContact(t *testing.T) {
	w := createTestWorld(createTestLevel(6, 6, tile(1, entity.TerrainSteel, 3, 2)))
	tank := addPlayer(w, 78, 80)

	require.True(t, w.MoveTank(tank, entity.DirRight, 4))
	assert.Equal(t, 80, tank.X)
}

func TestWorld_MoveTank_TankContact(t *testing.T) {
	t.Run("enemies block each other", func(t *testing.T) {
		w := createTestWorld(createTestLevel(6, 6))
		a := addEnemy(w, entity.TierBasic, 0, 0)
		addEnemy(w, entity.TierBasic, 40, 0)

		assert.False(t, w.MoveTank(a, entity.DirRight, 1))
		assert.Equal(t, 0, a.X)
	})

	t.Run("spawn grace ignores contact", func(t *testing.T) {
		w := createTestWorld(createTestLevel(6, 6))
		a := addEnemy(w, entity.TierBasic, 0, 0)
		b := addEnemy(w, entity.TierBasic, 40, 0)
		b.SpawnGrace = time.Second

		assert.True(t, w.MoveTank(a, entity.DirRight, 1))
	})

	t.Run("player may drive into enemy", func(t *testing.T) {
		w := createTestWorld(createTestLevel(6, 6))
		p := addPlayer(w, 0, 0)
		addEnemy(w, entity.TierBasic, 40, 0)

		assert.True(t, w.MoveTank(p, entity.DirRight, 2))
		assert.Equal(t, 2, p.X)
	})
}

func TestWorld_MoveTank_SeparatesAfterGrace(t *testing.T) {
	w := createTestWorld(createTestLevel(6, 6))
	a := addEnemy(w, entity.TierBasic, 0, 0)
	b := addEnemy(w, entity.TierBasic, 40, 0)
	a.SpawnGrace = time.Second

	// a drives halfway into b while it is still in grace
	for range 20 {
		require.True(t, w.MoveTank(a, entity.DirRight, 1))
	}
	require.True(t, a.Rect().Overlaps(b.Rect()))
	a.SpawnGrace = 0

	t.Run("overlapped tanks may back apart", func(t *testing.T) {
		assert.True(t, w.MoveTank(a, entity.DirLeft, 1))
		assert.Equal(t, 19, a.X)
		assert.True(t, w.MoveTank(b, entity.DirRight, 1))
		assert.Equal(t, 41, b.X)
	})

	t.Run("a fresh overlap still blocks", func(t *testing.T) {
		addEnemy(w, entity.TierBasic, 0, 40)
		y := a.Y
		assert.False(t, w.MoveTank(a, entity.DirDown, 1))
		assert.Equal(t, y, a.Y)
	})
}

func TestWorld_SweepEnemies(t *testing.T) {
	w := createTestWorld(createTestLevel(6, 6))
	a := addEnemy(w, entity.TierBasic, 0, 0)
	b := addEnemy(w, entity.TierBasic, 40, 0)
	c := addEnemy(w, entity.TierBasic, 80, 0)
	b.Destroy()

	w.SweepEnemies()

	assert.Equal(t, []*entity.Tank{a, c}, w.Enemies)
}

func TestWorld_RecordKill(t *testing.T) {
	w := createTestWorld(createTestLevel(6, 6))
	boss := addEnemy(w, entity.TierBoss, 0, 0)

	w.RecordKill(boss)

	assert.Equal(t, 1, w.Destroyed)
	assert.Equal(t, 400, w.Score)
}

func TestWorld_LevelComplete(t *testing.T) {
	level := createTestLevel(6, 6)
	level.Wave.Quota = 2
	w := createTestWorld(level)

	assert.False(t, w.LevelComplete())

	w.Destroyed = 2
	addEnemy(w, entity.TierBasic, 0, 0)
	assert.False(t, w.LevelComplete(), "roster must be empty")

	w.Enemies = nil
	assert.True(t, w.LevelComplete())
}
