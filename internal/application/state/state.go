package state

// GameState represents the current state of a running level
type GameState int

const (
	StatePlaying GameState = iota
	StatePaused
	StateGameOver
	StateLevelClear
)

// String returns the string representation of the game state
func (s GameState) String() string {
	switch s {
	case StatePlaying:
		return "Playing"
	case StatePaused:
		return "Paused"
	case StateGameOver:
		return "GameOver"
	case StateLevelClear:
		return "LevelClear"
	default:
		return "Unknown"
	}
}

// Running reports whether ticks advance the simulation in this state
func (s GameState) Running() bool {
	return s == StatePlaying
}

// Finished reports whether the level has ended either way
func (s GameState) Finished() bool {
	return s == StateGameOver || s == StateLevelClear
}
