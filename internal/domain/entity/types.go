package entity

// EntityID is a unique identifier for an entity (never recycled within a level)
type EntityID uint32

// TileSize is the edge length of one map cell in map units
const TileSize = 40

// Direction is a discrete facing
type Direction int

const (
	DirNone Direction = iota
	DirUp
	DirDown
	DirLeft
	DirRight
)

// Delta returns the unit step for the direction
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case DirUp:
		return 0, -1
	case DirDown:
		return 0, 1
	case DirLeft:
		return -1, 0
	case DirRight:
		return 1, 0
	}
	return 0, 0
}

// String returns the direction name
func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "none"
	}
}

// Directions lists the four movement directions
var Directions = [4]Direction{DirUp, DirDown, DirLeft, DirRight}

// Faction tells friend from foe
type Faction int

const (
	FactionFriendly Faction = iota
	FactionEnemy
)

func (f Faction) String() string {
	if f == FactionEnemy {
		return "enemy"
	}
	return "friendly"
}

// Rect is an axis-aligned rectangle in map units
type Rect struct {
	X, Y int
	W, H int
}

// Overlaps reports whether the two rects intersect (touching edges do not count)
func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.X+o.W && r.X+r.W > o.X && r.Y < o.Y+o.H && r.Y+r.H > o.Y
}

// Expand grows the rect by m on every side
func (r Rect) Expand(m int) Rect {
	return Rect{X: r.X - m, Y: r.Y - m, W: r.W + 2*m, H: r.H + 2*m}
}

// Center returns the rect center
func (r Rect) Center() (int, int) {
	return r.X + r.W/2, r.Y + r.H/2
}

// Inside reports whether r lies fully within a width x height area at the origin
func (r Rect) Inside(width, height int) bool {
	return r.X >= 0 && r.Y >= 0 && r.X+r.W <= width && r.Y+r.H <= height
}

// TerrainType is the kind of a terrain element
type TerrainType int

const (
	TerrainBrick TerrainType = iota
	TerrainSteel
	TerrainGrass
	TerrainWater
	TerrainBase
)

var terrainNames = map[TerrainType]string{
	TerrainBrick: "brick",
	TerrainSteel: "steel",
	TerrainGrass: "grass",
	TerrainWater: "water",
	TerrainBase:  "base",
}

func (t TerrainType) String() string {
	if s, ok := terrainNames[t]; ok {
		return s
	}
	return "unknown"
}

// ParseTerrainType maps a level-file name to a terrain type
func ParseTerrainType(s string) (TerrainType, bool) {
	for t, name := range terrainNames {
		if name == s {
			return t, true
		}
	}
	return 0, false
}

// BlocksMovement reports whether tanks cannot drive through the terrain
func (t TerrainType) BlocksMovement() bool {
	return t == TerrainBrick || t == TerrainSteel || t == TerrainBase
}

// StopsBullets reports whether projectiles collide with the terrain.
// Bullets pass over grass and water.
func (t TerrainType) StopsBullets() bool {
	return t == TerrainBrick || t == TerrainSteel || t == TerrainBase
}

// BlocksPath reports whether the pathfinding grid treats the terrain as blocked
func (t TerrainType) BlocksPath() bool {
	return t != TerrainGrass
}

// TerrainElement is one positioned, typed rectangle of the level
type TerrainElement struct {
	ID   int         `json:"id" msgpack:"id"`
	Type TerrainType `json:"type" msgpack:"type"`
	Rect Rect        `json:"rect" msgpack:"rect"`
}

// SpawnPoint is a seeded enemy spawn
type SpawnPoint struct {
	Tier Tier `json:"tier" msgpack:"tier"`
	X    int  `json:"x" msgpack:"x"`
	Y    int  `json:"y" msgpack:"y"`
}

// WaveRules is the fixed per-level enemy wave data
type WaveRules struct {
	Quota   int        `json:"quota" msgpack:"quota"`
	Cap     int        `json:"cap" msgpack:"cap"`
	Weights [3]float64 `json:"weights" msgpack:"weights"` // basic, elite, boss
}

// LevelMap is the loaded level description
type LevelMap struct {
	ID          string           `json:"id" msgpack:"id"`
	Number      int              `json:"number" msgpack:"number"`
	Cols        int              `json:"cols" msgpack:"cols"`
	Rows        int              `json:"rows" msgpack:"rows"`
	Terrain     []TerrainElement `json:"terrain" msgpack:"terrain"`
	PlayerSpawn Rect             `json:"playerSpawn" msgpack:"playerSpawn"`
	EnemySeeds  []SpawnPoint     `json:"enemySeeds" msgpack:"enemySeeds"`
	Candidates  [][2]int         `json:"candidates" msgpack:"candidates"`
	Wave        WaveRules        `json:"wave" msgpack:"wave"`
}

// Width returns the map width in map units
func (m *LevelMap) Width() int { return m.Cols * TileSize }

// Height returns the map height in map units
func (m *LevelMap) Height() int { return m.Rows * TileSize }

// Bounds returns the full map rect
func (m *LevelMap) Bounds() Rect {
	return Rect{W: m.Width(), H: m.Height()}
}

// RemoveTerrain drops the elements with the given ids, keeping order.
// Returns the removed elements.
func (m *LevelMap) RemoveTerrain(ids map[int]struct{}) []TerrainElement {
	if len(ids) == 0 {
		return nil
	}
	var removed []TerrainElement
	kept := m.Terrain[:0]
	for _, el := range m.Terrain {
		if _, ok := ids[el.ID]; ok {
			removed = append(removed, el)
			continue
		}
		kept = append(kept, el)
	}
	m.Terrain = kept
	return removed
}
