package config

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidConfig is returned when rules or tank tables are malformed
var ErrInvalidConfig = errors.New("invalid config")

// Seconds converts a config value in seconds to a duration
func Seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// RulesConfig is the root config for rules.json
type RulesConfig struct {
	Display  DisplayConfig `json:"display"`
	Player   PlayerRules   `json:"player"`
	Combat   CombatRules   `json:"combat"`
	Spawn    SpawnRules    `json:"spawn"`
	AI       AIRules       `json:"ai"`
	PowerUps PowerUpRules  `json:"powerUps"`
	Bomb     BombRules     `json:"bomb"`
}

type DisplayConfig struct {
	ScreenWidth  int `json:"screenWidth"`
	ScreenHeight int `json:"screenHeight"`
	Scale        int `json:"scale"`
	Framerate    int `json:"framerate"`
}

// TickDuration is the fixed simulation step
func (d DisplayConfig) TickDuration() time.Duration {
	if d.Framerate <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(d.Framerate)
}

type PlayerRules struct {
	Lives       int     `json:"lives"`
	DefaultTier string  `json:"defaultTier"`
	SpawnGrace  float64 `json:"spawnGrace"` // seconds
}

type CombatRules struct {
	RamDamage     int     `json:"ramDamage"`
	WaterDamage   int     `json:"waterDamage"`
	WaterCooldown float64 `json:"waterCooldown"` // seconds
}

type SpawnRules struct {
	RespawnDelay      float64 `json:"respawnDelay"`    // seconds
	RetryDelay        float64 `json:"retryDelay"`      // seconds, roster at cap
	NoPositionDelay   float64 `json:"noPositionDelay"` // seconds, no valid point
	MinPlayerDistance int     `json:"minPlayerDistance"`
	RandomAttempts    int     `json:"randomAttempts"`
	BootstrapCount    int     `json:"bootstrapCount"`
	SpawnGrace        float64 `json:"spawnGrace"` // seconds
}

type AIRules struct {
	ReplanInterval float64 `json:"replanInterval"` // seconds
	FireChance     float64 `json:"fireChance"`     // per tick
}

type PowerUpRules struct {
	SpawnInterval     float64 `json:"spawnInterval"` // seconds
	SpawnChance       float64 `json:"spawnChance"`
	DropChance        float64 `json:"dropChance"`
	Lifetime          float64 `json:"lifetime"`     // seconds
	BlinkWindow       float64 `json:"blinkWindow"`  // seconds
	BuffDuration      float64 `json:"buffDuration"` // seconds
	PickupMargin      int     `json:"pickupMargin"`
	MinSeparation     int     `json:"minSeparation"`
	MaxActive         int     `json:"maxActive"`
	HealAmount        int     `json:"healAmount"`
	SpeedBonus        int     `json:"speedBonus"`
	PlacementAttempts int     `json:"placementAttempts"`
}

type BombRules struct {
	Fuse   float64 `json:"fuse"` // seconds
	Radius int     `json:"radius"`
	Damage int     `json:"damage"`
}

// Validate checks the rules for values the simulation cannot run with
func (r *RulesConfig) Validate() error {
	switch {
	case r.Display.Framerate <= 0:
		return fmt.Errorf("%w: display.framerate must be positive", ErrInvalidConfig)
	case r.Player.Lives <= 0:
		return fmt.Errorf("%w: player.lives must be positive", ErrInvalidConfig)
	case r.Spawn.RandomAttempts < 0:
		return fmt.Errorf("%w: spawn.randomAttempts must not be negative", ErrInvalidConfig)
	case r.PowerUps.Lifetime < r.PowerUps.BlinkWindow:
		return fmt.Errorf("%w: powerUps.blinkWindow exceeds lifetime", ErrInvalidConfig)
	case r.Bomb.Radius < 0 || r.Bomb.Damage < 0:
		return fmt.Errorf("%w: bomb radius and damage must not be negative", ErrInvalidConfig)
	}
	for name, p := range map[string]float64{
		"powerUps.spawnChance": r.PowerUps.SpawnChance,
		"powerUps.dropChance":  r.PowerUps.DropChance,
		"ai.fireChance":        r.AI.FireChance,
	} {
		if p < 0 || p > 1 {
			return fmt.Errorf("%w: %s must be within [0,1]", ErrInvalidConfig, name)
		}
	}
	return nil
}
