package entity

// BulletSize is the edge length of a bullet hitbox
const BulletSize = 8

// Bullet represents a projectile fired by a tank
type Bullet struct {
	ID        EntityID  `json:"id" msgpack:"id"`
	X         int       `json:"x" msgpack:"x"`
	Y         int       `json:"y" msgpack:"y"`
	Facing    Direction `json:"facing" msgpack:"facing"`
	Speed     int       `json:"speed" msgpack:"speed"` // map units per tick
	Damage    int       `json:"damage" msgpack:"damage"`
	Faction   Faction   `json:"faction" msgpack:"faction"`
	Owner     EntityID  `json:"owner" msgpack:"owner"`
	Kind      string    `json:"kind" msgpack:"kind"`
	Destroyed bool      `json:"destroyed" msgpack:"destroyed"`
}

// Reset prepares a pooled bullet for reuse
func (b *Bullet) Reset() {
	*b = Bullet{}
}

// Rect returns the bullet hitbox
func (b *Bullet) Rect() Rect {
	return Rect{X: b.X, Y: b.Y, W: BulletSize, H: BulletSize}
}

// Advance moves the bullet one tick along its facing
func (b *Bullet) Advance() {
	dx, dy := b.Facing.Delta()
	b.X += dx * b.Speed
	b.Y += dy * b.Speed
}

// Deactivate marks the bullet as spent
func (b *Bullet) Deactivate() {
	b.Destroyed = true
}
