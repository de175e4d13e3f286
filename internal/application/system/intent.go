package system

import "github.com/younwookim/tankarena/internal/domain/entity"

// Intent is the player's requested action for one tick
type Intent struct {
	Move entity.Direction
	Fire bool
	Bomb bool
}

// IntentFromKeys builds an intent from held direction keys.
// When several directions are held the first of up, down, left, right wins.
func IntentFromKeys(up, down, left, right, fire, bomb bool) Intent {
	in := Intent{Fire: fire, Bomb: bomb}
	switch {
	case up:
		in.Move = entity.DirUp
	case down:
		in.Move = entity.DirDown
	case left:
		in.Move = entity.DirLeft
	case right:
		in.Move = entity.DirRight
	}
	return in
}

// IsIdle reports whether the intent requests nothing
func (i Intent) IsIdle() bool {
	return i.Move == entity.DirNone && !i.Fire && !i.Bomb
}
