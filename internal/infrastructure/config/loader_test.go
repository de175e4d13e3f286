package config

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/younwookim/tankarena/internal/domain/entity"
)

const shippedConfigs = "../../../cmd/game/configs"

func TestLoader_LoadRules(t *testing.T) {
	loader := NewLoader(shippedConfigs)

	cfg, err := loader.LoadRules()
	require.NoError(t, err)

	assert.Equal(t, 1040, cfg.Display.ScreenWidth)
	assert.Equal(t, 600, cfg.Display.ScreenHeight)
	assert.Equal(t, 60, cfg.Display.Framerate)
	assert.Equal(t, 3, cfg.Player.Lives)
	assert.Equal(t, 1.0, cfg.Combat.WaterCooldown)
	assert.Equal(t, 3.0, cfg.Bomb.Fuse)
}

func TestLoader_ShippedFilesMatchDefaults(t *testing.T) {
	loader := NewLoader(shippedConfigs)

	rules, err := loader.LoadRules()
	require.NoError(t, err)
	tanks, err := loader.LoadTanks()
	require.NoError(t, err)

	assert.Equal(t, DefaultRules(), rules)
	assert.Equal(t, DefaultTanks(), tanks)
}

func TestLoader_LoadTanks(t *testing.T) {
	loader := NewLoader(shippedConfigs)

	cfg, err := loader.LoadTanks()
	require.NoError(t, err)

	stats, ok := cfg.Stats(entity.TierHeavy)
	require.True(t, ok)
	assert.Equal(t, 6, stats.MaxHealth)
	assert.Equal(t, 2, stats.Damage)
	assert.Equal(t, Seconds(0.5), stats.FireCooldown)
}

func TestLoader_LoadLevel(t *testing.T) {
	loader := NewLoader(shippedConfigs)

	cfg, err := loader.LoadLevel("level1")
	require.NoError(t, err)

	assert.Equal(t, "level1", cfg.ID)
	assert.Equal(t, 1, cfg.Number)
	assert.Equal(t, 26, cfg.Size.Cols)
	assert.Equal(t, 15, cfg.Size.Rows)
	assert.Len(t, cfg.Layers.Terrain, 15)
	assert.Len(t, cfg.Enemies, 3)
	require.NotNil(t, cfg.Wave)
	assert.Equal(t, 15, cfg.Wave.Quota)
	assert.Equal(t, 5, cfg.Wave.Cap)

	brick, ok := cfg.TileMapping["B"]
	require.True(t, ok)
	assert.Equal(t, "brick", brick.Type)

	require.NoError(t, cfg.Validate())
}

func TestLoader_LevelNames(t *testing.T) {
	loader := NewLoader(shippedConfigs)

	names, err := loader.LevelNames()
	require.NoError(t, err)

	assert.Equal(t, []string{"level1", "level2"}, names)
}

func TestLoader_LoadAll(t *testing.T) {
	loader := NewLoader(shippedConfigs)

	cfg, err := loader.LoadAll()
	require.NoError(t, err)

	assert.NotNil(t, cfg.Rules)
	assert.NotNil(t, cfg.Tanks)
}

func TestLoader_Errors(t *testing.T) {
	fsys := fstest.MapFS{
		"rules.json":        {Data: []byte(`{"display": {"framerate": 0}}`)},
		"tanks.json":        {Data: []byte(`not json`)},
		"levels/empty.json": {Data: []byte(`{}`)},
	}
	loader := NewFSLoader(fsys, "mem")

	t.Run("missing file", func(t *testing.T) {
		_, err := loader.LoadLevel("nope")
		assert.Error(t, err)
	})

	t.Run("malformed json", func(t *testing.T) {
		_, err := loader.LoadTanks()
		assert.ErrorContains(t, err, "failed to parse tanks.json")
	})

	t.Run("invalid rules", func(t *testing.T) {
		_, err := loader.LoadAll()
		assert.Error(t, err)
	})

	t.Run("id defaults to file name", func(t *testing.T) {
		cfg, err := loader.LoadLevel("empty")
		require.NoError(t, err)
		assert.Equal(t, "empty", cfg.ID)
		assert.ErrorIs(t, cfg.Validate(), ErrInvalidLevel)
	})
}
