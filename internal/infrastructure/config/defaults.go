package config

// DefaultRules mirrors the shipped rules.json
func DefaultRules() *RulesConfig {
	return &RulesConfig{
		Display: DisplayConfig{
			ScreenWidth:  1040,
			ScreenHeight: 600,
			Scale:        1,
			Framerate:    60,
		},
		Player: PlayerRules{
			Lives:       3,
			DefaultTier: "standard",
			SpawnGrace:  2.0,
		},
		Combat: CombatRules{
			RamDamage:     1,
			WaterDamage:   1,
			WaterCooldown: 1.0,
		},
		Spawn: SpawnRules{
			RespawnDelay:      2.0,
			RetryDelay:        1.0,
			NoPositionDelay:   0.5,
			MinPlayerDistance: 160,
			RandomAttempts:    60,
			BootstrapCount:    3,
			SpawnGrace:        1.0,
		},
		AI: AIRules{
			ReplanInterval: 0.25,
			FireChance:     0.02,
		},
		PowerUps: PowerUpRules{
			SpawnInterval:     10.0,
			SpawnChance:       0.5,
			DropChance:        0.2,
			Lifetime:          15.0,
			BlinkWindow:       3.0,
			BuffDuration:      10.0,
			PickupMargin:      4,
			MinSeparation:     80,
			MaxActive:         4,
			HealAmount:        2,
			SpeedBonus:        2,
			PlacementAttempts: 30,
		},
		Bomb: BombRules{
			Fuse:   3.0,
			Radius: 100,
			Damage: 3,
		},
	}
}

// DefaultTanks mirrors the shipped tanks.json
func DefaultTanks() *TanksConfig {
	return &TanksConfig{
		Tiers: map[string]TankConfig{
			"basic":    {MaxHealth: 1, Speed: 1, Damage: 1, BulletSpeed: 5, BulletKind: "shell", FireCooldown: 1.2, Score: 100},
			"elite":    {MaxHealth: 2, Speed: 2, Damage: 1, BulletSpeed: 8, BulletKind: "rapid", FireCooldown: 0.8, Score: 200},
			"boss":     {MaxHealth: 4, Speed: 1, Damage: 2, BulletSpeed: 5, BulletKind: "heavy", FireCooldown: 1.0, Score: 400},
			"light":    {MaxHealth: 3, Speed: 4, Damage: 1, BulletSpeed: 10, BulletKind: "light", FireCooldown: 0.3},
			"standard": {MaxHealth: 4, Speed: 2, Damage: 1, BulletSpeed: 8, BulletKind: "standard", FireCooldown: 0.4},
			"heavy":    {MaxHealth: 6, Speed: 2, Damage: 2, BulletSpeed: 8, BulletKind: "heavy", FireCooldown: 0.5},
		},
	}
}

// DefaultGameConfig returns the built-in rules and tank tables
func DefaultGameConfig() *GameConfig {
	return &GameConfig{
		Rules: DefaultRules(),
		Tanks: DefaultTanks(),
	}
}
