package system

import (
	"fmt"

	"github.com/younwookim/tankarena/internal/domain/entity"
	"github.com/younwookim/tankarena/internal/domain/grid"
	"github.com/younwookim/tankarena/internal/infrastructure/config"
)

// LoadLevel converts a LevelConfig into a LevelMap and its pathing grid.
// Nothing is returned unless the whole description is valid.
func LoadLevel(cfg *config.LevelConfig) (*entity.LevelMap, *grid.Grid, error) {
	if cfg == nil {
		return nil, nil, fmt.Errorf("%w: no level description", config.ErrInvalidLevel)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	level := &entity.LevelMap{
		ID:     cfg.ID,
		Number: cfg.Number,
		Cols:   cfg.Size.Cols,
		Rows:   cfg.Size.Rows,
		PlayerSpawn: entity.Rect{
			X: cfg.PlayerSpawn.X,
			Y: cfg.PlayerSpawn.Y,
			W: entity.TileSize,
			H: entity.TileSize,
		},
	}

	nextID := 1
	for y, row := range cfg.Layers.Terrain {
		for x, char := range row {
			mapping, ok := cfg.TileMapping[string(char)]
			if !ok {
				continue
			}
			terrainType, ok := entity.ParseTerrainType(mapping.Type)
			if !ok {
				continue // "empty"
			}
			level.Terrain = append(level.Terrain, entity.TerrainElement{
				ID:   nextID,
				Type: terrainType,
				Rect: entity.Rect{
					X: x * entity.TileSize,
					Y: y * entity.TileSize,
					W: entity.TileSize,
					H: entity.TileSize,
				},
			})
			nextID++
		}
	}
	for _, t := range cfg.Terrain {
		terrainType, _ := entity.ParseTerrainType(t.Type)
		level.Terrain = append(level.Terrain, entity.TerrainElement{
			ID:   nextID,
			Type: terrainType,
			Rect: t.Rect(),
		})
		nextID++
	}

	for _, e := range cfg.Enemies {
		tier, _ := entity.ParseTier(e.Type)
		level.EnemySeeds = append(level.EnemySeeds, entity.SpawnPoint{Tier: tier, X: e.X, Y: e.Y})
	}

	for _, p := range cfg.SpawnPoints {
		level.Candidates = append(level.Candidates, [2]int{p.X, p.Y})
	}
	if len(level.Candidates) == 0 {
		for _, s := range level.EnemySeeds {
			level.Candidates = append(level.Candidates, [2]int{s.X, s.Y})
		}
	}

	wave := cfg.EffectiveWave()
	level.Wave = entity.WaveRules{
		Quota:   wave.Quota,
		Cap:     wave.Cap,
		Weights: [3]float64{wave.Weights.Basic, wave.Weights.Elite, wave.Weights.Boss},
	}

	return level, grid.Build(level), nil
}
