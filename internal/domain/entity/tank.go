package entity

import "time"

// Tier is a tank class. Enemy and player tiers share one enumeration.
type Tier int

const (
	TierBasic Tier = iota
	TierElite
	TierBoss
	TierLight
	TierStandard
	TierHeavy
)

// EnemyTiers lists the enemy tiers in wave-weight order
var EnemyTiers = [3]Tier{TierBasic, TierElite, TierBoss}

var tierNames = map[Tier]string{
	TierBasic:    "basic",
	TierElite:    "elite",
	TierBoss:     "boss",
	TierLight:    "light",
	TierStandard: "standard",
	TierHeavy:    "heavy",
}

func (t Tier) String() string {
	if s, ok := tierNames[t]; ok {
		return s
	}
	return "unknown"
}

// ParseTier maps a config name to a tier
func ParseTier(s string) (Tier, bool) {
	for t, name := range tierNames {
		if name == s {
			return t, true
		}
	}
	return 0, false
}

// IsEnemy reports whether the tier belongs to the enemy roster
func (t Tier) IsEnemy() bool {
	return t == TierBasic || t == TierElite || t == TierBoss
}

// TankStats is the lookup-table row for one tier
type TankStats struct {
	MaxHealth    int
	Speed        int // map units per tick
	Damage       int
	BulletSpeed  int // map units per tick
	BulletKind   string
	FireCooldown time.Duration
	Score        int
}

// Tank is a player or enemy tank
type Tank struct {
	ID      EntityID  `json:"id" msgpack:"id"`
	X       int       `json:"x" msgpack:"x"`
	Y       int       `json:"y" msgpack:"y"`
	Width   int       `json:"w" msgpack:"w"`
	Height  int       `json:"h" msgpack:"h"`
	Facing  Direction `json:"facing" msgpack:"facing"`
	Faction Faction   `json:"faction" msgpack:"faction"`
	Tier    Tier      `json:"tier" msgpack:"tier"`

	Health    int `json:"health" msgpack:"health"`
	MaxHealth int `json:"maxHealth" msgpack:"maxHealth"`

	Speed        int           `json:"speed" msgpack:"speed"`
	Damage       int           `json:"damage" msgpack:"damage"`
	BulletSpeed  int           `json:"bulletSpeed" msgpack:"bulletSpeed"`
	BulletKind   string        `json:"bulletKind" msgpack:"bulletKind"`
	FireCooldown time.Duration `json:"fireCooldown" msgpack:"fireCooldown"`
	LastFire     time.Duration `json:"lastFire" msgpack:"lastFire"`
	HasFired     bool          `json:"hasFired" msgpack:"hasFired"`

	Destroyed bool `json:"destroyed" msgpack:"destroyed"`

	// Active timed power-up effects (type -> remaining)
	Effects map[PowerUpType]time.Duration `json:"effects,omitempty" msgpack:"effects,omitempty"`

	// Remaining time during which tank-vs-tank contact is ignored
	SpawnGrace time.Duration `json:"spawnGrace" msgpack:"spawnGrace"`

	// Water hazard state
	InWater         bool          `json:"inWater" msgpack:"inWater"`
	WaterDamaged    bool          `json:"waterDamaged" msgpack:"waterDamaged"`
	LastWaterDamage time.Duration `json:"lastWaterDamage" msgpack:"lastWaterDamage"`

	// AI state
	Waypoints  [][2]int      `json:"waypoints,omitempty" msgpack:"waypoints,omitempty"`
	NextReplan time.Duration `json:"nextReplan" msgpack:"nextReplan"`
}

// NewTank creates a tank of the given tier at pixel position x, y
func NewTank(id EntityID, x, y int, tier Tier, stats TankStats) *Tank {
	faction := FactionFriendly
	facing := DirUp
	if tier.IsEnemy() {
		faction = FactionEnemy
		facing = DirDown
	}
	return &Tank{
		ID:           id,
		X:            x,
		Y:            y,
		Width:        TileSize,
		Height:       TileSize,
		Facing:       facing,
		Faction:      faction,
		Tier:         tier,
		Health:       stats.MaxHealth,
		MaxHealth:    stats.MaxHealth,
		Speed:        stats.Speed,
		Damage:       stats.Damage,
		BulletSpeed:  stats.BulletSpeed,
		BulletKind:   stats.BulletKind,
		FireCooldown: stats.FireCooldown,
		Effects:      make(map[PowerUpType]time.Duration),
	}
}

// Rect returns the tank's hitbox in map units
func (t *Tank) Rect() Rect {
	return Rect{X: t.X, Y: t.Y, W: t.Width, H: t.Height}
}

// RectAt returns the hitbox the tank would have at x, y
func (t *Tank) RectAt(x, y int) Rect {
	return Rect{X: x, Y: y, W: t.Width, H: t.Height}
}

// Center returns the tank center
func (t *Tank) Center() (int, int) {
	return t.Rect().Center()
}

// IsAlive returns true while the tank has not been destroyed
func (t *Tank) IsAlive() bool {
	return !t.Destroyed && t.Health > 0
}

// TakeDamage applies damage after buff modifiers. Health is clamped at 0.
// killed is true only on the transition into the destroyed state.
func (t *Tank) TakeDamage(amount int) (applied int, killed bool) {
	if t.Destroyed || amount <= 0 {
		return 0, false
	}
	if t.HasEffect(PowerUpInvincibility) {
		return 0, false
	}
	if t.HasEffect(PowerUpShield) {
		amount = (amount + 1) / 2
	}
	if amount > t.Health {
		amount = t.Health
	}
	t.Health -= amount
	if t.Health <= 0 {
		t.Health = 0
		return amount, t.Destroy()
	}
	return amount, false
}

// Destroy forces the destroyed state. Returns false if already destroyed.
func (t *Tank) Destroy() bool {
	t.Health = 0
	if t.Destroyed {
		return false
	}
	t.Destroyed = true
	t.Waypoints = nil
	return true
}

// Heal restores health up to max
func (t *Tank) Heal(amount int) {
	t.Health += amount
	if t.Health > t.MaxHealth {
		t.Health = t.MaxHealth
	}
}

// HasEffect reports whether a timed effect is active
func (t *Tank) HasEffect(p PowerUpType) bool {
	return t.Effects[p] > 0
}

// AddEffect registers a timed effect, refreshing it if already active
func (t *Tank) AddEffect(p PowerUpType, d time.Duration) {
	if t.Effects == nil {
		t.Effects = make(map[PowerUpType]time.Duration)
	}
	if t.Effects[p] < d {
		t.Effects[p] = d
	}
}

// ConsumeEffect removes an effect. Returns false if it was not active.
func (t *Tank) ConsumeEffect(p PowerUpType) bool {
	if !t.HasEffect(p) {
		return false
	}
	delete(t.Effects, p)
	return true
}

// TickEffects counts down effects and spawn grace by dt
func (t *Tank) TickEffects(dt time.Duration) {
	for p, left := range t.Effects {
		left -= dt
		if left <= 0 {
			delete(t.Effects, p)
			continue
		}
		t.Effects[p] = left
	}
	if t.SpawnGrace > 0 {
		t.SpawnGrace -= dt
		if t.SpawnGrace < 0 {
			t.SpawnGrace = 0
		}
	}
}

// CurrentSpeed returns movement speed including the speed buff
func (t *Tank) CurrentSpeed(bonus int) int {
	if t.HasEffect(PowerUpSpeed) {
		return t.Speed + bonus
	}
	return t.Speed
}

// CurrentDamage returns bullet damage including the attack buff
func (t *Tank) CurrentDamage() int {
	if t.HasEffect(PowerUpAttack) {
		return t.Damage * 2
	}
	return t.Damage
}

// CanFire reports whether the fire cooldown has elapsed at sim time now
func (t *Tank) CanFire(now time.Duration) bool {
	return !t.HasFired || now-t.LastFire >= t.FireCooldown
}

// Muzzle returns the bullet origin (top-left of a size x size bullet) for the facing
func (t *Tank) Muzzle(size int) (int, int) {
	cx, cy := t.Center()
	switch t.Facing {
	case DirUp:
		return cx - size/2, t.Y - size
	case DirDown:
		return cx - size/2, t.Y + t.Height
	case DirLeft:
		return t.X - size, cy - size/2
	default:
		return t.X + t.Width, cy - size/2
	}
}
