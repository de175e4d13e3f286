package entity

import "time"

// SaveVersion is bumped whenever SaveState changes shape
const SaveVersion = 1

// RespawnEntry is a queued enemy spawn request
type RespawnEntry struct {
	Due time.Duration `json:"due" msgpack:"due"`
}

// SaveState is a plain snapshot of every roster and counter of a running level.
// The encoding is chosen by the host.
type SaveState struct {
	Version int    `json:"version" msgpack:"version"`
	Seed    int64  `json:"seed" msgpack:"seed"`
	Tick    uint64 `json:"tick" msgpack:"tick"`
	State   int    `json:"state" msgpack:"state"`

	Now    time.Duration `json:"now" msgpack:"now"`
	NextID EntityID      `json:"nextId" msgpack:"nextId"`

	Level LevelMap `json:"level" msgpack:"level"`

	Player   *Tank     `json:"player" msgpack:"player"`
	Lives    int       `json:"lives" msgpack:"lives"`
	Enemies  []Tank    `json:"enemies" msgpack:"enemies"`
	Bullets  []Bullet  `json:"bullets" msgpack:"bullets"`
	PowerUps []PowerUp `json:"powerUps" msgpack:"powerUps"`
	Bomb     *Bomb     `json:"bomb,omitempty" msgpack:"bomb,omitempty"`

	Created      int            `json:"created" msgpack:"created"`
	Destroyed    int            `json:"destroyed" msgpack:"destroyed"`
	Score        int            `json:"score" msgpack:"score"`
	PendingTiers []Tier         `json:"pendingTiers" msgpack:"pendingTiers"`
	RespawnQueue []RespawnEntry `json:"respawnQueue" msgpack:"respawnQueue"`
	PowerUpTimer time.Duration  `json:"powerUpTimer" msgpack:"powerUpTimer"`
}
