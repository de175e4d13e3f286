// Package game provides the main game loop manager that handles Scene transitions.
package game

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/younwookim/tankarena/internal/application/scene"
	"github.com/younwookim/tankarena/internal/infrastructure/config"
)

// Game implements ebiten.Game and manages Scene transitions.
type Game struct {
	current scene.Scene
	screenW int
	screenH int
	dt      time.Duration
	ticks   uint64
}

// New creates a new Game with the given initial scene. The logical screen
// size and the tick length come from display; a zero framerate means 60.
// The initial scene's OnEnter is called immediately.
func New(initialScene scene.Scene, display config.DisplayConfig) *Game {
	fps := display.Framerate
	if fps <= 0 {
		fps = 60
	}
	g := &Game{
		current: initialScene,
		screenW: display.ScreenWidth,
		screenH: display.ScreenHeight,
		dt:      time.Second / time.Duration(fps),
	}
	g.current.OnEnter()
	return g
}

// Update updates the current scene and handles scene transitions.
// Implements ebiten.Game interface.
func (g *Game) Update() error {
	next, err := g.current.Update(g.dt)
	if err != nil {
		return err
	}
	g.ticks++

	if next != nil {
		g.current.OnExit()
		g.current = next
		g.current.OnEnter()
	}

	return nil
}

// Draw renders the current scene.
// Implements ebiten.Game interface.
func (g *Game) Draw(screen *ebiten.Image) {
	g.current.Draw(screen)
}

// Layout returns the game's logical screen dimensions.
// Implements ebiten.Game interface.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.screenW, g.screenH
}

// SetDT sets the tick duration passed to scenes
func (g *Game) SetDT(dt time.Duration) {
	g.dt = dt
}

// Ticks returns the number of successful updates
func (g *Game) Ticks() uint64 {
	return g.ticks
}

// Close calls OnExit on the current scene. Call it once the ebiten loop returns.
func (g *Game) Close() {
	g.current.OnExit()
}
