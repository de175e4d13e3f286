package system

import (
	"github.com/younwookim/tankarena/internal/domain/entity"
	"github.com/younwookim/tankarena/internal/infrastructure/config"
)

// PlayerSystem applies the per-tick intent to the player tank
type PlayerSystem struct {
	rules       config.PlayerRules
	speedBonus  int
	projectiles *ProjectileSystem
	powerups    *PowerUpSystem
}

// NewPlayerSystem creates a new player system
func NewPlayerSystem(rules *config.RulesConfig, projectiles *ProjectileSystem, powerups *PowerUpSystem) *PlayerSystem {
	return &PlayerSystem{
		rules:       rules.Player,
		speedBonus:  rules.PowerUps.SpeedBonus,
		projectiles: projectiles,
		powerups:    powerups,
	}
}

// Tier returns the configured player tier, falling back to standard
func (s *PlayerSystem) Tier() entity.Tier {
	tier, ok := entity.ParseTier(s.rules.DefaultTier)
	if !ok || tier.IsEnemy() {
		return entity.TierStandard
	}
	return tier
}

// Spawn places a fresh player tank at the level's spawn point
func (s *PlayerSystem) Spawn(w *World, tier entity.Tier) *entity.Tank {
	spawn := w.Level.PlayerSpawn
	p := entity.NewTank(w.NewEntity(), spawn.X, spawn.Y, tier, w.Stats(tier))
	p.SpawnGrace = config.Seconds(s.rules.SpawnGrace)
	w.Player = p
	w.Log.Debug("player spawned", "id", p.ID, "tier", tier, "x", p.X, "y", p.Y)
	return p
}

// Update moves the player, fires and places a bomb as requested
func (s *PlayerSystem) Update(w *World, in Intent) {
	if !w.PlayerAlive() {
		return
	}
	p := w.Player
	if in.Move != entity.DirNone {
		w.MoveTank(p, in.Move, p.CurrentSpeed(s.speedBonus))
	}
	if in.Fire {
		s.projectiles.Fire(w, p)
	}
	if in.Bomb {
		s.powerups.PlaceBomb(w)
	}
}
