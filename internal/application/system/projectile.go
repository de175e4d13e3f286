package system

import "github.com/younwookim/tankarena/internal/domain/entity"

// BulletPool is a free list of spent bullets
type BulletPool struct {
	free      []*entity.Bullet
	allocated int
}

// NewBulletPool creates a pool with capacity bullets preallocated
func NewBulletPool(capacity int) *BulletPool {
	p := &BulletPool{free: make([]*entity.Bullet, 0, capacity)}
	for range capacity {
		p.free = append(p.free, &entity.Bullet{})
		p.allocated++
	}
	return p
}

// Get returns a zeroed bullet, reusing a spent one when available
func (p *BulletPool) Get() *entity.Bullet {
	if n := len(p.free); n > 0 {
		b := p.free[n-1]
		p.free[n-1] = nil
		p.free = p.free[:n-1]
		b.Reset()
		return b
	}
	p.allocated++
	return &entity.Bullet{}
}

// Put hands a bullet back to the pool
func (p *BulletPool) Put(b *entity.Bullet) {
	if b == nil {
		return
	}
	b.Reset()
	p.free = append(p.free, b)
}

// Free returns the number of bullets waiting for reuse
func (p *BulletPool) Free() int { return len(p.free) }

// Allocated returns how many bullets the pool has ever created
func (p *BulletPool) Allocated() int { return p.allocated }

// ProjectileSystem fires, moves and recycles bullets
type ProjectileSystem struct {
	pool *BulletPool
}

// NewProjectileSystem creates a projectile system with its own pool
func NewProjectileSystem() *ProjectileSystem {
	return &ProjectileSystem{pool: NewBulletPool(32)}
}

// Pool exposes the bullet pool
func (s *ProjectileSystem) Pool() *BulletPool { return s.pool }

// Fire spawns a bullet at t's muzzle if its cooldown has elapsed
func (s *ProjectileSystem) Fire(w *World, t *entity.Tank) bool {
	if !t.IsAlive() || !t.CanFire(w.Now) {
		return false
	}
	b := s.pool.Get()
	b.ID = w.NewEntity()
	b.X, b.Y = t.Muzzle(entity.BulletSize)
	b.Facing = t.Facing
	b.Speed = t.BulletSpeed
	b.Damage = t.CurrentDamage()
	b.Faction = t.Faction
	b.Owner = t.ID
	b.Kind = t.BulletKind
	w.Bullets = append(w.Bullets, b)

	t.LastFire = w.Now
	t.HasFired = true
	return true
}

// Update advances every live bullet and culls the ones that left the map
func (s *ProjectileSystem) Update(w *World) {
	bounds := w.Level.Bounds()
	for _, b := range w.Bullets {
		if b.Destroyed {
			continue
		}
		b.Advance()
		if !b.Rect().Overlaps(bounds) {
			b.Deactivate()
		}
	}
}

// Sweep removes spent bullets from the roster and returns them to the pool
func (s *ProjectileSystem) Sweep(w *World) {
	kept := w.Bullets[:0]
	var spent []*entity.Bullet
	for _, b := range w.Bullets {
		if b.Destroyed {
			spent = append(spent, b)
			continue
		}
		kept = append(kept, b)
	}
	for i := len(kept); i < len(w.Bullets); i++ {
		w.Bullets[i] = nil
	}
	w.Bullets = kept
	for _, b := range spent {
		s.pool.Put(b)
	}
}

// Release hands every bullet on the field back to the pool and empties the
// roster. Call it before the world is reset.
func (s *ProjectileSystem) Release(w *World) {
	for i, b := range w.Bullets {
		s.pool.Put(b)
		w.Bullets[i] = nil
	}
	w.Bullets = w.Bullets[:0]
}
