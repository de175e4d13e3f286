package entity

import "time"

// PowerUpType is one of the fixed power-up kinds
type PowerUpType int

const (
	PowerUpHealth PowerUpType = iota
	PowerUpAttack
	PowerUpSpeed
	PowerUpShield
	PowerUpInvincibility
	PowerUpBomb

	powerUpCount // must stay last
)

// PowerUpTypes lists every power-up kind
var PowerUpTypes = [powerUpCount]PowerUpType{
	PowerUpHealth, PowerUpAttack, PowerUpSpeed, PowerUpShield, PowerUpInvincibility, PowerUpBomb,
}

func (p PowerUpType) String() string {
	switch p {
	case PowerUpHealth:
		return "health"
	case PowerUpAttack:
		return "attack"
	case PowerUpSpeed:
		return "speed"
	case PowerUpShield:
		return "shield"
	case PowerUpInvincibility:
		return "invincibility"
	case PowerUpBomb:
		return "bomb"
	default:
		return "unknown"
	}
}

// Timed reports whether picking the power-up registers a timed buff
func (p PowerUpType) Timed() bool {
	return p != PowerUpHealth
}

// PowerUpSize is the edge length of a power-up box
const PowerUpSize = 30

// PowerUp is a collectible lying on the map
type PowerUp struct {
	ID        EntityID      `json:"id" msgpack:"id"`
	X         int           `json:"x" msgpack:"x"`
	Y         int           `json:"y" msgpack:"y"`
	Type      PowerUpType   `json:"type" msgpack:"type"`
	SpawnedAt time.Duration `json:"spawnedAt" msgpack:"spawnedAt"`
	Blinking  bool          `json:"blinking" msgpack:"blinking"`
}

// Rect returns the pickup box
func (p *PowerUp) Rect() Rect {
	return Rect{X: p.X, Y: p.Y, W: PowerUpSize, H: PowerUpSize}
}

// Bomb is a placed area-of-effect charge
type Bomb struct {
	X        int           `json:"x" msgpack:"x"` // center
	Y        int           `json:"y" msgpack:"y"`
	PlacedAt time.Duration `json:"placedAt" msgpack:"placedAt"`
}

// Detonates reports whether the fuse has run out at sim time now
func (b *Bomb) Detonates(now, fuse time.Duration) bool {
	return now-b.PlacedAt >= fuse
}
