// Package terminal draws arena frames on a character screen and turns
// terminal key events into intents.
package terminal

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/younwookim/tankarena/internal/application/arena"
	"github.com/younwookim/tankarena/internal/application/state"
	"github.com/younwookim/tankarena/internal/domain/entity"
)

// A cell covers half a tile horizontally and a full tile vertically, so
// tiles come out roughly square in most terminal fonts.
const (
	CellW = entity.TileSize / 2
	CellH = entity.TileSize
)

// fieldTop is the first screen row of the field; row 0 is the HUD
const fieldTop = 1

var (
	styleBrick  = tcell.StyleDefault.Foreground(tcell.ColorMaroon).Background(tcell.ColorSaddleBrown)
	styleSteel  = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorGray)
	styleWater  = tcell.StyleDefault.Foreground(tcell.ColorAqua).Background(tcell.ColorNavy)
	styleGrass  = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleBase   = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorGold)
	stylePlayer = tcell.StyleDefault.Foreground(tcell.ColorLime).Bold(true)
	styleBasic  = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleElite  = tcell.StyleDefault.Foreground(tcell.ColorOrange).Bold(true)
	styleBoss   = tcell.StyleDefault.Foreground(tcell.ColorFuchsia).Bold(true)
	styleShot   = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleEnemy  = tcell.StyleDefault.Foreground(tcell.ColorLightCoral)
	stylePower  = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorYellow)
	styleBomb   = tcell.StyleDefault.Foreground(tcell.ColorOrangeRed).Bold(true)
	styleHUD    = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorDarkBlue)
	styleBanner = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorWhite).Bold(true)
	styleBorder = tcell.StyleDefault.Foreground(tcell.ColorDimGray)
)

var facingGlyph = map[entity.Direction]rune{
	entity.DirUp:    '▲',
	entity.DirDown:  '▼',
	entity.DirLeft:  '◀',
	entity.DirRight: '▶',
}

// Renderer draws frames on a tcell screen
type Renderer struct {
	screen tcell.Screen
}

// NewRenderer creates a renderer for screen
func NewRenderer(screen tcell.Screen) *Renderer {
	return &Renderer{screen: screen}
}

// FieldSize returns the number of columns and rows the field of f needs
func FieldSize(f arena.RenderFrame) (cols, rows int) {
	return (f.Width + CellW - 1) / CellW, (f.Height + CellH - 1) / CellH
}

// Draw renders one frame. status is shown on the line under the field.
func (r *Renderer) Draw(f arena.RenderFrame, status string) {
	r.screen.Clear()
	cols, rows := FieldSize(f)

	for _, t := range f.Terrain {
		if t.Type != entity.TerrainGrass {
			r.drawTerrain(t)
		}
	}
	if f.Bomb != nil {
		r.drawBomb(f.Bomb)
	}
	for _, pu := range f.PowerUps {
		if pu.Blinking && (f.Tick/15)%2 == 1 {
			continue
		}
		x, y := cellOf(pu.Rect)
		r.DrawText(x, y, stylePower, strings.ToUpper(pu.Type.String()[:1]))
	}
	for _, e := range f.Enemies {
		r.drawTank(e, f.Tick)
	}
	if f.Player != nil {
		r.drawTank(*f.Player, f.Tick)
	}
	for _, b := range f.Bullets {
		x, y := cellOf(b.Rect)
		style := styleShot
		if b.Faction == entity.FactionEnemy {
			style = styleEnemy
		}
		r.screen.SetContent(x, y, '•', nil, style)
	}
	for _, t := range f.Terrain {
		if t.Type == entity.TerrainGrass {
			r.drawTerrain(t)
		}
	}

	r.drawBorder(cols, rows)
	r.drawHUD(f, cols)
	if status != "" {
		r.DrawText(0, fieldTop+rows+1, tcell.StyleDefault, status)
	}

	switch f.State {
	case state.StatePaused:
		r.drawBanner(cols, rows, "PAUSED  p: resume")
	case state.StateGameOver:
		r.drawBanner(cols, rows, fmt.Sprintf("GAME OVER  score %d  r: restart", f.Score))
	case state.StateLevelClear:
		r.drawBanner(cols, rows, fmt.Sprintf("LEVEL CLEAR  score %d  enter: next", f.Score))
	}

	r.screen.Show()
}

// DrawText writes s starting at (x, y)
func (r *Renderer) DrawText(x, y int, style tcell.Style, s string) {
	for _, c := range s {
		r.screen.SetContent(x, y, c, nil, style)
		x++
	}
}

func (r *Renderer) fill(rect entity.Rect, c rune, style tcell.Style) {
	x0, y0 := rect.X/CellW, rect.Y/CellH
	x1, y1 := (rect.X+rect.W-1)/CellW, (rect.Y+rect.H-1)/CellH
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			r.screen.SetContent(x, fieldTop+y, c, nil, style)
		}
	}
}

func (r *Renderer) drawTerrain(t entity.TerrainElement) {
	switch t.Type {
	case entity.TerrainBrick:
		r.fill(t.Rect, '▒', styleBrick)
	case entity.TerrainSteel:
		r.fill(t.Rect, '█', styleSteel)
	case entity.TerrainWater:
		r.fill(t.Rect, '~', styleWater)
	case entity.TerrainGrass:
		r.fill(t.Rect, '░', styleGrass)
	case entity.TerrainBase:
		r.fill(t.Rect, '♦', styleBase)
	}
}

func (r *Renderer) drawTank(t arena.TankView, tick uint64) {
	if t.Destroyed {
		return
	}
	if t.Grace && (tick/8)%2 == 1 {
		return
	}
	style := stylePlayer
	if t.Faction == entity.FactionEnemy {
		switch t.Tier {
		case entity.TierElite:
			style = styleElite
		case entity.TierBoss:
			style = styleBoss
		default:
			style = styleBasic
		}
	}
	glyph, ok := facingGlyph[t.Facing]
	if !ok {
		glyph = '■'
	}
	r.fill(t.Rect, glyph, style)
}

func (r *Renderer) drawBomb(b *arena.BombView) {
	x, y := b.X/CellW, fieldTop+b.Y/CellH
	secs := int((b.Remaining + 999_999_999) / 1_000_000_000)
	r.screen.SetContent(x, y, '*', nil, styleBomb)
	r.DrawText(x+1, y, styleBomb, fmt.Sprint(secs))
}

func (r *Renderer) drawBorder(cols, rows int) {
	for y := range rows {
		r.screen.SetContent(cols, fieldTop+y, '│', nil, styleBorder)
	}
	for x := range cols {
		r.screen.SetContent(x, fieldTop+rows, '─', nil, styleBorder)
	}
	r.screen.SetContent(cols, fieldTop+rows, '┘', nil, styleBorder)
}

func (r *Renderer) drawHUD(f arena.RenderFrame, cols int) {
	hud := fmt.Sprintf(" %s  score %d  lives %d  enemies %d/%d", f.LevelID, f.Score, f.Lives, f.Remaining(), f.Quota)
	if f.Player != nil && len(f.Player.Effects) > 0 {
		names := make([]string, len(f.Player.Effects))
		for i, e := range f.Player.Effects {
			names[i] = e.String()
		}
		hud += "  [" + strings.Join(names, " ") + "]"
	}
	hud += strings.Repeat(" ", max(0, cols+1-len([]rune(hud))))
	r.DrawText(0, 0, styleHUD, hud)
}

func (r *Renderer) drawBanner(cols, rows int, msg string) {
	msg = " " + msg + " "
	x := max(0, (cols-len([]rune(msg)))/2)
	r.DrawText(x, fieldTop+rows/2, styleBanner, msg)
}

// cellOf returns the screen cell holding the center of rect
func cellOf(rect entity.Rect) (int, int) {
	cx, cy := rect.Center()
	return cx / CellW, fieldTop + cy/CellH
}
