package system

import (
	"github.com/younwookim/tankarena/internal/domain/entity"
	"github.com/younwookim/tankarena/internal/infrastructure/config"
)

// SpawnDirector keeps the enemy roster filled up to the level's cap
// until the quota has been produced.
type SpawnDirector struct {
	rules config.SpawnRules
}

// NewSpawnDirector creates a new spawn director
func NewSpawnDirector(rules config.SpawnRules) *SpawnDirector {
	return &SpawnDirector{rules: rules}
}

// Start spawns the level's seeded enemies and fills the pending-tier queue
// with the rest of the quota.
func (d *SpawnDirector) Start(w *World) {
	wave := w.Level.Wave
	for _, seed := range w.Level.EnemySeeds {
		if len(w.Enemies) >= wave.Cap || w.Created >= wave.Quota {
			break
		}
		d.spawnAt(w, seed.Tier, seed.X, seed.Y)
	}

	w.PendingTiers = w.PendingTiers[:0]
	for range wave.Quota - w.Created {
		w.PendingTiers = append(w.PendingTiers, d.drawTier(w))
	}
	w.Log.Info("wave started", "level", w.Level.ID, "seeded", w.Created, "quota", wave.Quota, "cap", wave.Cap)
}

// RequestRespawn queues a delayed spawn if the quota still has room for it
func (d *SpawnDirector) RequestRespawn(w *World) {
	if w.Created+len(w.RespawnQueue) >= w.Level.Wave.Quota {
		return
	}
	w.RespawnQueue = append(w.RespawnQueue, entity.RespawnEntry{Due: w.Now + config.Seconds(d.rules.RespawnDelay)})
}

// Update runs one tick of wave direction
func (d *SpawnDirector) Update(w *World) {
	wave := w.Level.Wave
	w.SweepEnemies()

	if len(w.Enemies) == 0 && w.Created == 0 && len(w.RespawnQueue) == 0 {
		for range d.rules.BootstrapCount {
			if w.Created >= wave.Quota || len(w.Enemies) >= wave.Cap {
				break
			}
			if !d.spawn(w) {
				w.RespawnQueue = append(w.RespawnQueue, entity.RespawnEntry{Due: w.Now + config.Seconds(d.rules.NoPositionDelay)})
				break
			}
		}
	}

	queue := w.RespawnQueue
	next := make([]entity.RespawnEntry, 0, len(queue))
	for _, entry := range queue {
		switch {
		case entry.Due > w.Now:
			next = append(next, entry)
		case w.Created >= wave.Quota:
			w.Log.Debug("respawn dropped, quota exhausted", "created", w.Created)
		case len(w.Enemies) >= wave.Cap:
			entry.Due = w.Now + config.Seconds(d.rules.RetryDelay)
			next = append(next, entry)
		case !d.spawn(w):
			entry.Due = w.Now + config.Seconds(d.rules.NoPositionDelay)
			next = append(next, entry)
		}
	}
	w.RespawnQueue = next

	if len(w.Enemies) < wave.Cap && w.Created < wave.Quota && len(w.RespawnQueue) == 0 {
		w.RespawnQueue = append(w.RespawnQueue, entity.RespawnEntry{Due: w.Now + config.Seconds(d.rules.RespawnDelay)})
	}
}

// spawn creates one enemy of the next tier at a free position
func (d *SpawnDirector) spawn(w *World) bool {
	x, y, ok := d.findPosition(w)
	if !ok {
		w.Log.Debug("no spawn position", "tick", w.Tick)
		return false
	}
	tier := d.nextTier(w)
	d.spawnAt(w, tier, x, y)
	return true
}

func (d *SpawnDirector) spawnAt(w *World, tier entity.Tier, x, y int) {
	t := entity.NewTank(w.NewEntity(), x, y, tier, w.Stats(tier))
	t.SpawnGrace = config.Seconds(d.rules.SpawnGrace)
	t.NextReplan = w.Now
	w.Enemies = append(w.Enemies, t)
	w.Created++
	w.Log.Debug("enemy spawned", "id", t.ID, "tier", tier, "x", x, "y", y, "created", w.Created)
}

func (d *SpawnDirector) nextTier(w *World) entity.Tier {
	if len(w.PendingTiers) > 0 {
		tier := w.PendingTiers[0]
		w.PendingTiers = w.PendingTiers[1:]
		return tier
	}
	return d.drawTier(w)
}

// drawTier picks an enemy tier from the level's weight table
func (d *SpawnDirector) drawTier(w *World) entity.Tier {
	weights := w.Level.Wave.Weights
	total := 0.0
	for _, wt := range weights {
		total += wt
	}
	if total <= 0 {
		return entity.TierBasic
	}
	r := w.RNG.Float64() * total
	for i, wt := range weights {
		if r < wt {
			return entity.EnemyTiers[i]
		}
		r -= wt
	}
	return entity.EnemyTiers[len(entity.EnemyTiers)-1]
}

// findPosition tries the curated candidates in random order, then random
// grid cells, favouring the top half of the map for the first two thirds.
func (d *SpawnDirector) findPosition(w *World) (int, int, bool) {
	candidates := make([][2]int, len(w.Level.Candidates))
	copy(candidates, w.Level.Candidates)
	w.RNG.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	for _, c := range candidates {
		if d.validPosition(w, c[0], c[1]) {
			return c[0], c[1], true
		}
	}

	cols, rows := w.Level.Cols, w.Level.Rows
	topRows := max(1, rows/2)
	preferTop := d.rules.RandomAttempts * 2 / 3
	for i := range d.rules.RandomAttempts {
		col := w.RNG.Intn(cols)
		var row int
		if i < preferTop {
			row = w.RNG.Intn(topRows)
		} else {
			row = w.RNG.Intn(rows)
		}
		x, y := col*entity.TileSize, row*entity.TileSize
		if d.validPosition(w, x, y) {
			return x, y, true
		}
	}
	return 0, 0, false
}

func (d *SpawnDirector) validPosition(w *World, x, y int) bool {
	r := entity.Rect{X: x, Y: y, W: entity.TileSize, H: entity.TileSize}
	if !r.Inside(w.Level.Width(), w.Level.Height()) {
		return false
	}
	for i := range w.Level.Terrain {
		el := &w.Level.Terrain[i]
		if el.Type != entity.TerrainGrass && el.Rect.Overlaps(r) {
			return false
		}
	}
	if w.PlayerAlive() {
		px, py := w.Player.Center()
		cx, cy := r.Center()
		dx, dy := px-cx, py-cy
		minDist := d.rules.MinPlayerDistance
		if dx*dx+dy*dy < minDist*minDist {
			return false
		}
	}
	for _, t := range w.tanks() {
		if t.IsAlive() && t.Rect().Overlaps(r) {
			return false
		}
	}
	return true
}
