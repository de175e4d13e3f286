package playing

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/younwookim/tankarena/internal/application/system"
)

// KeyState holds the keys read for one tick
type KeyState struct {
	Up    bool
	Down  bool
	Left  bool
	Right bool
	Fire  bool
	Bomb  bool

	// Edge-triggered host commands
	Pause   bool
	Save    bool
	Load    bool
	Copy    bool
	Next    bool
	Restart bool
}

// Intent converts the held keys to a simulation intent
func (k KeyState) Intent() system.Intent {
	return system.IntentFromKeys(k.Up, k.Down, k.Left, k.Right, k.Fire, k.Bomb)
}

// PollKeys reads the current keyboard state
func PollKeys() KeyState {
	pressed := func(keys ...ebiten.Key) bool {
		for _, k := range keys {
			if ebiten.IsKeyPressed(k) {
				return true
			}
		}
		return false
	}
	just := inpututil.IsKeyJustPressed

	return KeyState{
		Up:      pressed(ebiten.KeyArrowUp, ebiten.KeyW),
		Down:    pressed(ebiten.KeyArrowDown, ebiten.KeyS),
		Left:    pressed(ebiten.KeyArrowLeft, ebiten.KeyA),
		Right:   pressed(ebiten.KeyArrowRight, ebiten.KeyD),
		Fire:    pressed(ebiten.KeySpace),
		Bomb:    just(ebiten.KeyB),
		Pause:   just(ebiten.KeyP) || just(ebiten.KeyEscape),
		Save:    just(ebiten.KeyF5),
		Load:    just(ebiten.KeyF9),
		Copy:    just(ebiten.KeyF6),
		Next:    just(ebiten.KeyEnter),
		Restart: just(ebiten.KeyR),
	}
}
