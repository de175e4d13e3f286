package system

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/younwookim/tankarena/internal/domain/entity"
	"github.com/younwookim/tankarena/internal/infrastructure/config"
)

func createTestSpawnDirector() *SpawnDirector {
	return NewSpawnDirector(config.DefaultRules().Spawn)
}

func createTestWaveLevel() *entity.LevelMap {
	level := createTestLevel(26, 15)
	level.EnemySeeds = []entity.SpawnPoint{
		{Tier: entity.TierBasic, X: 0, Y: 0},
		{Tier: entity.TierBasic, X: 480, Y: 0},
		{Tier: entity.TierBasic, X: 1000, Y: 0},
	}
	level.Candidates = [][2]int{{0, 0}, {480, 0}, {1000, 0}, {320, 0}, {680, 0}}
	return level
}

// killAll destroys the whole roster the way combat would
func killAll(w *World, d *SpawnDirector) {
	for _, e := range w.Enemies {
		if e.Destroy() {
			w.RecordKill(e)
			d.RequestRespawn(w)
		}
	}
}

func TestSpawnDirector_Start(t *testing.T) {
	w := createTestWorld(createTestWaveLevel())
	d := createTestSpawnDirector()

	d.Start(w)

	require.Len(t, w.Enemies, 3)
	assert.Equal(t, 3, w.Created)
	assert.Len(t, w.PendingTiers, 12)
	for _, e := range w.Enemies {
		assert.Equal(t, entity.FactionEnemy, e.Faction)
		assert.Equal(t, entity.DirDown, e.Facing)
		assert.Positive(t, e.SpawnGrace)
	}
}

func TestSpawnDirector_StartBoundedByCap(t *testing.T) {
	level := createTestWaveLevel()
	level.Wave.Cap = 2
	w := createTestWorld(level)
	d := createTestSpawnDirector()

	d.Start(w)

	assert.Len(t, w.Enemies, 2)
	assert.Len(t, w.PendingTiers, 13)
}

func TestSpawnDirector_Bootstrap(t *testing.T) {
	level := createTestWaveLevel()
	level.EnemySeeds = nil
	w := createTestWorld(level)
	d := createTestSpawnDirector()

	d.Update(w)

	assert.Len(t, w.Enemies, 3)
	assert.Equal(t, 3, w.Created)
}

func TestSpawnDirector_BootstrapBoundedByQuota(t *testing.T) {
	level := createTestWaveLevel()
	level.EnemySeeds = nil
	level.Wave.Quota = 2
	w := createTestWorld(level)
	d := createTestSpawnDirector()

	d.Update(w)

	assert.Len(t, w.Enemies, 2)
	assert.Empty(t, w.RespawnQueue)
}

func TestSpawnDirector_TopUpAfterDelay(t *testing.T) {
	w := createTestWorld(createTestWaveLevel())
	d := createTestSpawnDirector()
	d.Start(w)

	d.Update(w)
	require.Len(t, w.RespawnQueue, 1)
	assert.Equal(t, 2*time.Second, w.RespawnQueue[0].Due)

	w.Now = 2 * time.Second
	d.Update(w)
	assert.Len(t, w.Enemies, 4)
	assert.Equal(t, 4, w.Created)
}

func TestSpawnDirector_CapBlockedRetry(t *testing.T) {
	w := createTestWorld(createTestWaveLevel())
	d := createTestSpawnDirector()
	d.Start(w)
	w.Now = time.Second
	w.RespawnQueue = []entity.RespawnEntry{{Due: 0}}
	w.Level.Wave.Cap = 3

	d.Update(w)

	assert.Len(t, w.Enemies, 3)
	require.Len(t, w.RespawnQueue, 1)
	assert.Equal(t, 2*time.Second, w.RespawnQueue[0].Due)
}

func TestSpawnDirector_QuotaExhaustedDrops(t *testing.T) {
	level := createTestWaveLevel()
	level.Wave.Quota = 3
	w := createTestWorld(level)
	d := createTestSpawnDirector()
	d.Start(w)
	w.RespawnQueue = []entity.RespawnEntry{{Due: 0}}

	d.Update(w)

	assert.Empty(t, w.RespawnQueue)
	assert.Equal(t, 3, w.Created)
}

func TestSpawnDirector_NoPositionDefers(t *testing.T) {
	// every cell is steel except where the seeds stand
	level := createTestLevel(3, 2)
	for i := range 3 {
		level.Terrain = append(level.Terrain, tile(i+1, entity.TerrainSteel, i, 1))
	}
	level.EnemySeeds = []entity.SpawnPoint{{X: 0, Y: 0}, {X: 40, Y: 0}, {X: 80, Y: 0}}
	level.Candidates = [][2]int{{0, 0}, {40, 0}, {80, 0}}
	w := createTestWorld(level)
	d := createTestSpawnDirector()
	d.Start(w)
	w.Now = 5 * time.Second
	w.RespawnQueue = []entity.RespawnEntry{{Due: 0}}

	d.Update(w)

	assert.Len(t, w.Enemies, 3)
	require.Len(t, w.RespawnQueue, 1)
	assert.Equal(t, 5*time.Second+500*time.Millisecond, w.RespawnQueue[0].Due)
}

func TestSpawnDirector_BootstrapWithoutPositionDefers(t *testing.T) {
	// steel everywhere, so the empty roster cannot be topped up at once
	level := createTestLevel(3, 2)
	for i := range 3 {
		level.Terrain = append(level.Terrain,
			tile(2*i+1, entity.TerrainSteel, i, 0),
			tile(2*i+2, entity.TerrainSteel, i, 1))
	}
	w := createTestWorld(level)
	d := createTestSpawnDirector()
	w.Now = 2 * time.Second

	d.Update(w)

	assert.Empty(t, w.Enemies)
	assert.Zero(t, w.Created)
	require.Len(t, w.RespawnQueue, 1, "bootstrap retries instead of stalling")
	assert.Equal(t, 2*time.Second+500*time.Millisecond, w.RespawnQueue[0].Due)

	// the retry drains once a position opens up
	w.Level.Terrain = nil
	w.Now = w.RespawnQueue[0].Due
	d.Update(w)
	assert.Len(t, w.Enemies, 1)
	assert.Equal(t, 1, w.Created)
}

func TestSpawnDirector_PositionRules(t *testing.T) {
	level := createTestLevel(10, 10, tile(1, entity.TerrainBrick, 5, 0), tile(2, entity.TerrainGrass, 6, 0))
	w := createTestWorld(level)
	d := createTestSpawnDirector()
	addPlayer(w, 0, 0)
	addEnemy(w, entity.TierBasic, 320, 0)

	assert.False(t, d.validPosition(w, 200, 0), "brick")
	assert.True(t, d.validPosition(w, 240, 0), "grass")
	assert.False(t, d.validPosition(w, 80, 0), "near the player")
	assert.False(t, d.validPosition(w, 320, 0), "occupied")
	assert.False(t, d.validPosition(w, 400, 0), "outside")
}

func TestSpawnDirector_WeightedTiers(t *testing.T) {
	level := createTestWaveLevel()
	level.Wave.Weights = [3]float64{0, 0, 1}
	w := createTestWorld(level)
	d := createTestSpawnDirector()

	for range 20 {
		assert.Equal(t, entity.TierBoss, d.drawTier(w))
	}

	level.Wave.Weights = [3]float64{70, 25, 5}
	seen := make(map[entity.Tier]int)
	for range 2000 {
		seen[d.drawTier(w)]++
	}
	assert.Greater(t, seen[entity.TierBasic], seen[entity.TierElite])
	assert.Greater(t, seen[entity.TierElite], seen[entity.TierBoss])
	assert.Positive(t, seen[entity.TierBoss])
}

func TestSpawnDirector_RosterNeverExceedsCap(t *testing.T) {
	w := createTestWorld(createTestWaveLevel())
	d := createTestSpawnDirector()
	d.Start(w)

	for tick := range 60 * 90 {
		d.Update(w)
		require.LessOrEqual(t, len(w.Enemies), w.Level.Wave.Cap)
		require.LessOrEqual(t, w.Created, w.Level.Wave.Quota)
		if tick%45 == 0 && len(w.Enemies) > 0 {
			e := w.Enemies[0]
			e.Destroy()
			w.RecordKill(e)
			d.RequestRespawn(w)
		}
		w.Advance()
	}
}

func TestSpawnDirector_LevelOneProducesExactlyQuota(t *testing.T) {
	w := createTestWorld(createTestWaveLevel())
	d := createTestSpawnDirector()
	d.Start(w)

	seen := make(map[entity.EntityID]struct{})
	for range 60 * 120 {
		d.Update(w)
		for _, e := range w.Enemies {
			seen[e.ID] = struct{}{}
		}
		killAll(w, d)
		w.Advance()
	}
	d.Update(w)

	assert.Len(t, seen, 15)
	assert.Equal(t, 15, w.Created)
	assert.Equal(t, 15, w.Destroyed)
	assert.Empty(t, w.Enemies)
	assert.Empty(t, w.RespawnQueue)
	assert.True(t, w.LevelComplete())
}
