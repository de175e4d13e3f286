package config

import (
	"fmt"

	"github.com/younwookim/tankarena/internal/domain/entity"
)

// TanksConfig is the root config for tanks.json
type TanksConfig struct {
	Tiers map[string]TankConfig `json:"tiers"`
}

// TankConfig is the stat row for one tier
type TankConfig struct {
	MaxHealth    int     `json:"maxHealth"`
	Speed        int     `json:"speed"`
	Damage       int     `json:"damage"`
	BulletSpeed  int     `json:"bulletSpeed"`
	BulletKind   string  `json:"bulletKind"`
	FireCooldown float64 `json:"fireCooldown"` // seconds
	Score        int     `json:"score,omitempty"`
}

// Stats returns the lookup-table row for a tier
func (c *TanksConfig) Stats(tier entity.Tier) (entity.TankStats, bool) {
	tc, ok := c.Tiers[tier.String()]
	if !ok {
		return entity.TankStats{}, false
	}
	return entity.TankStats{
		MaxHealth:    tc.MaxHealth,
		Speed:        tc.Speed,
		Damage:       tc.Damage,
		BulletSpeed:  tc.BulletSpeed,
		BulletKind:   tc.BulletKind,
		FireCooldown: Seconds(tc.FireCooldown),
		Score:        tc.Score,
	}, true
}

// Validate requires a usable row for every tier
func (c *TanksConfig) Validate() error {
	for _, tier := range []entity.Tier{
		entity.TierBasic, entity.TierElite, entity.TierBoss,
		entity.TierLight, entity.TierStandard, entity.TierHeavy,
	} {
		tc, ok := c.Tiers[tier.String()]
		if !ok {
			return fmt.Errorf("%w: missing tank tier %q", ErrInvalidConfig, tier)
		}
		if tc.MaxHealth <= 0 || tc.Speed <= 0 || tc.BulletSpeed <= 0 {
			return fmt.Errorf("%w: tank tier %q needs positive maxHealth, speed and bulletSpeed", ErrInvalidConfig, tier)
		}
	}
	for name := range c.Tiers {
		if _, ok := entity.ParseTier(name); !ok {
			return fmt.Errorf("%w: unknown tank tier %q", ErrInvalidConfig, name)
		}
	}
	return nil
}
