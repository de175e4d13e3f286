package config

import (
	"errors"
	"fmt"

	"github.com/younwookim/tankarena/internal/domain/entity"
)

// ErrInvalidLevel is returned when a level description cannot be loaded
var ErrInvalidLevel = errors.New("invalid level")

// LevelConfig is the root config for level JSON files
type LevelConfig struct {
	ID          string                       `json:"id"`
	Name        string                       `json:"name"`
	Number      int                          `json:"number"`
	Size        LevelSizeConfig              `json:"size"`
	PlayerSpawn PositionConfig               `json:"playerSpawn"`
	Layers      LayersConfig                 `json:"layers"`
	TileMapping map[string]TileMappingConfig `json:"tileMapping"`
	Terrain     []TerrainConfig              `json:"terrain"`
	Enemies     []EnemySpawnConfig           `json:"enemies"`
	SpawnPoints []PositionConfig             `json:"spawnPoints"`
	Wave        *WaveConfig                  `json:"wave,omitempty"`
}

// LevelSizeConfig is the level size in tiles
type LevelSizeConfig struct {
	Cols int `json:"cols"`
	Rows int `json:"rows"`
}

type PositionConfig struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// LayersConfig holds character rows, one character per tile
type LayersConfig struct {
	Terrain []string `json:"terrain"`
}

type TileMappingConfig struct {
	Type string `json:"type"`
}

// TerrainConfig is an explicitly placed element in map units.
// Zero width or height defaults to one tile.
type TerrainConfig struct {
	Type string `json:"type"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
	W    int    `json:"w,omitempty"`
	H    int    `json:"h,omitempty"`
}

type EnemySpawnConfig struct {
	Type string `json:"type"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

// WaveConfig is the enemy quota, concurrency cap and tier weights of a level
type WaveConfig struct {
	Quota   int           `json:"quota"`
	Cap     int           `json:"cap"`
	Weights WeightsConfig `json:"weights"`
}

type WeightsConfig struct {
	Basic float64 `json:"basic"`
	Elite float64 `json:"elite"`
	Boss  float64 `json:"boss"`
}

// DefaultWave returns the built-in wave table row for a level number
func DefaultWave(number int) WaveConfig {
	switch {
	case number <= 1:
		return WaveConfig{Quota: 15, Cap: 5, Weights: WeightsConfig{Basic: 100}}
	case number == 2:
		return WaveConfig{Quota: 20, Cap: 5, Weights: WeightsConfig{Basic: 70, Elite: 25, Boss: 5}}
	case number == 3:
		return WaveConfig{Quota: 20, Cap: 6, Weights: WeightsConfig{Basic: 50, Elite: 35, Boss: 15}}
	default:
		return WaveConfig{Quota: 25, Cap: 6, Weights: WeightsConfig{Basic: 40, Elite: 35, Boss: 25}}
	}
}

// EffectiveWave returns the level's wave, falling back to the default table
func (c *LevelConfig) EffectiveWave() WaveConfig {
	if c.Wave != nil {
		return *c.Wave
	}
	return DefaultWave(c.Number)
}

// Validate reports the first problem that prevents the level from loading
func (c *LevelConfig) Validate() error {
	if c.Size.Cols <= 0 || c.Size.Rows <= 0 {
		return fmt.Errorf("%w: level %q has no size", ErrInvalidLevel, c.ID)
	}
	width := c.Size.Cols * entity.TileSize
	height := c.Size.Rows * entity.TileSize

	spawn := entity.Rect{X: c.PlayerSpawn.X, Y: c.PlayerSpawn.Y, W: entity.TileSize, H: entity.TileSize}
	if !spawn.Inside(width, height) {
		return fmt.Errorf("%w: level %q player spawn (%d,%d) is outside the map", ErrInvalidLevel, c.ID, c.PlayerSpawn.X, c.PlayerSpawn.Y)
	}

	if len(c.Layers.Terrain) > c.Size.Rows {
		return fmt.Errorf("%w: level %q has %d terrain rows for %d map rows", ErrInvalidLevel, c.ID, len(c.Layers.Terrain), c.Size.Rows)
	}
	for y, row := range c.Layers.Terrain {
		if len(row) > c.Size.Cols {
			return fmt.Errorf("%w: level %q terrain row %d is wider than %d", ErrInvalidLevel, c.ID, y, c.Size.Cols)
		}
		for _, ch := range row {
			mapping, ok := c.TileMapping[string(ch)]
			if !ok {
				continue
			}
			if _, ok := entity.ParseTerrainType(mapping.Type); !ok && mapping.Type != "empty" {
				return fmt.Errorf("%w: level %q maps %q to unknown terrain %q", ErrInvalidLevel, c.ID, string(ch), mapping.Type)
			}
		}
	}

	for i, t := range c.Terrain {
		if _, ok := entity.ParseTerrainType(t.Type); !ok {
			return fmt.Errorf("%w: level %q terrain[%d] has unknown type %q", ErrInvalidLevel, c.ID, i, t.Type)
		}
		if t.W < 0 || t.H < 0 {
			return fmt.Errorf("%w: level %q terrain[%d] has negative size", ErrInvalidLevel, c.ID, i)
		}
		if !t.Rect().Inside(width, height) {
			return fmt.Errorf("%w: level %q terrain[%d] lies outside the map", ErrInvalidLevel, c.ID, i)
		}
	}

	for i, e := range c.Enemies {
		tier, ok := entity.ParseTier(e.Type)
		if !ok || !tier.IsEnemy() {
			return fmt.Errorf("%w: level %q enemies[%d] has unknown type %q", ErrInvalidLevel, c.ID, i, e.Type)
		}
		r := entity.Rect{X: e.X, Y: e.Y, W: entity.TileSize, H: entity.TileSize}
		if !r.Inside(width, height) {
			return fmt.Errorf("%w: level %q enemies[%d] lies outside the map", ErrInvalidLevel, c.ID, i)
		}
	}

	wave := c.EffectiveWave()
	if wave.Quota <= 0 || wave.Cap <= 0 {
		return fmt.Errorf("%w: level %q needs a positive quota and cap", ErrInvalidLevel, c.ID)
	}
	w := wave.Weights
	if w.Basic < 0 || w.Elite < 0 || w.Boss < 0 || w.Basic+w.Elite+w.Boss <= 0 {
		return fmt.Errorf("%w: level %q wave weights must be non-negative with a positive sum", ErrInvalidLevel, c.ID)
	}
	return nil
}

// Rect returns the element rect, defaulting the size to one tile
func (t TerrainConfig) Rect() entity.Rect {
	w, h := t.W, t.H
	if w == 0 {
		w = entity.TileSize
	}
	if h == 0 {
		h = entity.TileSize
	}
	return entity.Rect{X: t.X, Y: t.Y, W: w, H: h}
}
