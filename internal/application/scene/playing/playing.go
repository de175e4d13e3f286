// Package playing provides the main gameplay scene.
package playing

import (
	"context"
	"fmt"
	"image/color"
	"io"
	"slices"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/younwookim/tankarena/internal/application/arena"
	"github.com/younwookim/tankarena/internal/application/replay"
	"github.com/younwookim/tankarena/internal/application/scene"
	"github.com/younwookim/tankarena/internal/application/state"
	"github.com/younwookim/tankarena/internal/domain/entity"
	"github.com/younwookim/tankarena/internal/infrastructure/config"
	"github.com/younwookim/tankarena/internal/infrastructure/persistence"
)

// Colors for rendering
var (
	colorBG        = color.RGBA{26, 26, 46, 255}
	colorBrick     = color.RGBA{160, 82, 45, 255}
	colorSteel     = color.RGBA{150, 150, 165, 255}
	colorWater     = color.RGBA{40, 90, 200, 255}
	colorGrass     = color.RGBA{40, 140, 60, 200}
	colorBase      = color.RGBA{230, 200, 60, 255}
	colorPlayer    = color.RGBA{100, 200, 100, 255}
	colorBasic     = color.RGBA{200, 100, 100, 255}
	colorElite     = color.RGBA{220, 140, 60, 255}
	colorBoss      = color.RGBA{170, 60, 200, 255}
	colorBarrel    = color.RGBA{30, 30, 30, 255}
	colorBullet    = color.RGBA{255, 255, 255, 255}
	colorEnemyShot = color.RGBA{255, 120, 120, 255}
	colorPowerUp   = color.RGBA{255, 215, 0, 255}
	colorBomb      = color.RGBA{255, 80, 40, 255}
	colorHealthBG  = color.RGBA{60, 60, 60, 255}
	colorHealthFG  = color.RGBA{100, 200, 100, 255}
	colorHUD       = color.RGBA{0, 0, 0, 160}
	colorText      = color.White
)

// messageTicks is how long a status message stays on screen
const messageTicks = 180

// Options configures the playing scene
type Options struct {
	// Levels are played in order; the first is loaded on start
	Levels []string
	// Seed fixes the random seed; 0 picks one from the clock
	Seed int64
	// Store receives F5 saves and serves F9 loads; nil disables both
	Store persistence.Store
	// RecordPath enables intent recording to this file
	RecordPath string
	// Replay drives the player from a recording instead of the keyboard
	Replay *replay.ReplayData
	Logger *log.Logger
}

// Playing is the main gameplay scene
type Playing struct {
	cfg    *config.GameConfig
	loader *config.Loader
	opts   Options
	log    *log.Logger

	sim      *arena.Simulation
	levelIdx int

	recorder *replay.Recorder
	replayer *replay.Replayer
	recorded bool

	message      string
	messageUntil uint64
	frames       uint64

	screenW int
	screenH int

	// Replaced in tests
	poll     func() KeyState
	copyText func(string) error
}

// New creates a new Playing scene and loads the first level
func New(cfg *config.GameConfig, loader *config.Loader, opts Options) (*Playing, error) {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	p := &Playing{
		cfg:      cfg,
		loader:   loader,
		opts:     opts,
		log:      opts.Logger,
		screenW:  cfg.Rules.Display.ScreenWidth,
		screenH:  cfg.Rules.Display.ScreenHeight,
		poll:     PollKeys,
		copyText: clipboard.WriteAll,
	}

	if opts.Replay != nil {
		p.replayer = replay.NewReplayer(*opts.Replay)
		p.opts.Seed = opts.Replay.Seed
		p.opts.Levels = []string{opts.Replay.Level}
	}
	if len(p.opts.Levels) == 0 {
		return nil, fmt.Errorf("%w: no levels to play", config.ErrInvalidLevel)
	}

	if err := p.start(); err != nil {
		return nil, err
	}
	return p, nil
}

// start creates a fresh simulation on the first level
func (p *Playing) start() error {
	seed := p.opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	sim, err := arena.New(p.cfg, arena.WithSeed(seed), arena.WithLogger(p.log))
	if err != nil {
		return err
	}
	sim.OnLevelComplete = func() { p.notify("level clear") }
	sim.OnPlayerDestroyed = func() { p.notify("game over") }
	p.sim = sim
	p.levelIdx = 0
	return p.loadLevel(0)
}

func (p *Playing) loadLevel(idx int) error {
	name := p.opts.Levels[idx]
	levelCfg, err := p.loader.LoadLevel(name)
	if err != nil {
		return err
	}
	if err := p.sim.LoadLevel(levelCfg); err != nil {
		return err
	}
	p.levelIdx = idx

	p.recorder = nil
	p.recorded = false
	if p.opts.RecordPath != "" && p.replayer == nil {
		p.recorder = replay.NewRecorder(p.sim.Seed(), p.sim.LevelID())
		p.log.Info("recording enabled", "path", p.recordPath(), "seed", p.sim.Seed())
	}
	return nil
}

// Update proceeds the game state (implements scene.Scene)
func (p *Playing) Update(_ time.Duration) (scene.Scene, error) {
	p.frames++
	return nil, p.step(p.poll())
}

func (p *Playing) step(keys KeyState) error {
	if keys.Pause {
		p.sim.SetPaused(p.sim.State() == state.StatePlaying)
	}
	if keys.Save {
		p.save()
	}
	if keys.Load {
		p.load()
	}
	if keys.Copy {
		p.copySave()
	}

	switch p.sim.State() {
	case state.StatePlaying:
		p.tick(keys)
	case state.StateLevelClear:
		p.saveRecording()
		if keys.Next {
			return p.nextLevel()
		}
	case state.StateGameOver:
		p.saveRecording()
		if keys.Restart {
			return p.start()
		}
	}
	return nil
}

func (p *Playing) tick(keys KeyState) {
	in := keys.Intent()
	if p.replayer != nil {
		var ok bool
		in, ok = p.replayer.Next()
		if !ok {
			p.notify("replay finished")
			p.sim.SetPaused(true)
			return
		}
	}
	if p.recorder != nil {
		p.recorder.RecordFrame(in)
	}
	p.sim.Tick(in)
}

func (p *Playing) nextLevel() error {
	if p.levelIdx+1 >= len(p.opts.Levels) {
		p.notify(fmt.Sprintf("all levels cleared, final score %d", p.sim.Score()))
		return nil
	}
	return p.loadLevel(p.levelIdx + 1)
}

// save stores a snapshot of the running level
func (p *Playing) save() {
	if p.opts.Store == nil {
		p.notify("no save store")
		return
	}
	ss := p.sim.Save()
	meta, err := p.opts.Store.Save(context.Background(), &ss)
	if err != nil {
		p.log.Error("failed to save", "error", err)
		p.notify("save failed")
		return
	}
	p.log.Info("game saved", "id", meta.ID, "level", meta.Level, "tick", meta.Tick)
	p.notify("saved " + meta.ID[:min(8, len(meta.ID))])
}

// load restores the newest stored snapshot
func (p *Playing) load() {
	if p.opts.Store == nil {
		p.notify("no save store")
		return
	}
	ss, meta, err := persistence.Latest(context.Background(), p.opts.Store)
	if err != nil {
		p.log.Warn("failed to load save", "error", err)
		p.notify("nothing to load")
		return
	}
	if err := p.sim.Restore(*ss); err != nil {
		p.log.Error("failed to restore save", "id", meta.ID, "error", err)
		p.notify("load failed")
		return
	}
	if idx := slices.Index(p.opts.Levels, ss.Level.ID); idx >= 0 {
		p.levelIdx = idx
	}
	if p.recorder != nil {
		p.log.Warn("recording stopped, a loaded save cannot be replayed")
		p.recorder.Stop()
		p.recorder = nil
	}
	p.notify("loaded " + meta.ID[:min(8, len(meta.ID))])
}

// copySave puts the snapshot as JSON on the clipboard
func (p *Playing) copySave() {
	ss := p.sim.Save()
	data, err := persistence.JSONCodec{Indent: true}.Marshal(&ss)
	if err != nil {
		p.log.Error("failed to encode save", "error", err)
		return
	}
	if err := p.copyText(string(data)); err != nil {
		p.log.Warn("clipboard unavailable", "error", err)
		p.notify("clipboard unavailable")
		return
	}
	p.notify("save copied to clipboard")
}

func (p *Playing) recordPath() string {
	if p.levelIdx == 0 {
		return p.opts.RecordPath
	}
	return fmt.Sprintf("%s.%s", p.opts.RecordPath, p.sim.LevelID())
}

// saveRecording writes the recording once the level has ended
func (p *Playing) saveRecording() {
	if p.recorder == nil || p.recorded {
		return
	}
	p.recorded = true
	p.recorder.Stop()
	path := p.recordPath()
	if err := p.recorder.Save(path); err != nil {
		p.log.Error("failed to save recording", "error", err)
		return
	}
	p.log.Info("recording saved", "path", path, "frames", p.recorder.FrameCount())
}

func (p *Playing) notify(msg string) {
	p.message = msg
	p.messageUntil = p.frames + messageTicks
}

// Draw renders the game screen
func (p *Playing) Draw(screen *ebiten.Image) {
	screen.Fill(colorBG)
	f := p.sim.Frame()

	p.drawTerrain(screen, f, false)
	if f.Bomb != nil {
		p.drawBomb(screen, f.Bomb)
	}
	for _, pu := range f.PowerUps {
		p.drawPowerUp(screen, pu)
	}
	for _, e := range f.Enemies {
		p.drawTank(screen, e)
	}
	if f.Player != nil && !f.Player.Destroyed {
		p.drawTank(screen, *f.Player)
	}
	for _, b := range f.Bullets {
		c := colorBullet
		if b.Faction == entity.FactionEnemy {
			c = colorEnemyShot
		}
		ebitenutil.DrawRect(screen, float64(b.Rect.X), float64(b.Rect.Y), float64(b.Rect.W), float64(b.Rect.H), c)
	}
	// Grass hides what is under it
	p.drawTerrain(screen, f, true)

	p.drawHUD(screen, f)

	switch f.State {
	case state.StatePaused:
		p.drawOverlay(screen, color.RGBA{0, 0, 0, 128}, "PAUSED\n\nPress P to resume")
	case state.StateGameOver:
		p.drawOverlay(screen, color.RGBA{100, 0, 0, 180}, fmt.Sprintf("GAME OVER\n\nScore: %d\n\nPress R to restart", f.Score))
	case state.StateLevelClear:
		p.drawOverlay(screen, color.RGBA{0, 60, 0, 180}, fmt.Sprintf("LEVEL CLEAR\n\nScore: %d\n\nPress Enter to continue", f.Score))
	}
}

func (p *Playing) drawTerrain(screen *ebiten.Image, f arena.RenderFrame, grass bool) {
	for _, el := range f.Terrain {
		if (el.Type == entity.TerrainGrass) != grass {
			continue
		}
		var c color.Color
		switch el.Type {
		case entity.TerrainBrick:
			c = colorBrick
		case entity.TerrainSteel:
			c = colorSteel
		case entity.TerrainWater:
			c = colorWater
		case entity.TerrainGrass:
			c = colorGrass
		case entity.TerrainBase:
			c = colorBase
		default:
			continue
		}
		r := el.Rect
		ebitenutil.DrawRect(screen, float64(r.X), float64(r.Y), float64(r.W), float64(r.H), c)
	}
}

func (p *Playing) drawTank(screen *ebiten.Image, t arena.TankView) {
	// Blink during spawn grace
	if t.Grace && (p.frames/6)%2 == 0 {
		return
	}
	c := colorPlayer
	switch t.Tier {
	case entity.TierBasic:
		c = colorBasic
	case entity.TierElite:
		c = colorElite
	case entity.TierBoss:
		c = colorBoss
	}
	r := t.Rect
	x, y, w, h := float64(r.X), float64(r.Y), float64(r.W), float64(r.H)
	ebitenutil.DrawRect(screen, x+2, y+2, w-4, h-4, c)

	// Barrel
	const bw, bl = 6.0, 14.0
	switch t.Facing {
	case entity.DirUp:
		ebitenutil.DrawRect(screen, x+w/2-bw/2, y, bw, bl, colorBarrel)
	case entity.DirDown:
		ebitenutil.DrawRect(screen, x+w/2-bw/2, y+h-bl, bw, bl, colorBarrel)
	case entity.DirLeft:
		ebitenutil.DrawRect(screen, x, y+h/2-bw/2, bl, bw, colorBarrel)
	case entity.DirRight:
		ebitenutil.DrawRect(screen, x+w-bl, y+h/2-bw/2, bl, bw, colorBarrel)
	}

	if t.MaxHealth > 1 {
		ratio := float64(t.Health) / float64(t.MaxHealth)
		ebitenutil.DrawRect(screen, x, y-5, w, 3, colorHealthBG)
		ebitenutil.DrawRect(screen, x, y-5, w*ratio, 3, colorHealthFG)
	}
}

func (p *Playing) drawPowerUp(screen *ebiten.Image, pu arena.PowerUpView) {
	if pu.Blinking && (p.frames/10)%2 == 0 {
		return
	}
	r := pu.Rect
	ebitenutil.DrawRect(screen, float64(r.X), float64(r.Y), float64(r.W), float64(r.H), colorPowerUp)
	label := pu.Type.String()[:1]
	text.Draw(screen, label, basicfont.Face7x13, r.X+r.W/2-3, r.Y+r.H/2+5, colorBarrel)
}

func (p *Playing) drawBomb(screen *ebiten.Image, b *arena.BombView) {
	cx, cy := float32(b.X), float32(b.Y)
	vector.StrokeCircle(screen, cx, cy, float32(b.Radius), 1, colorBomb, true)
	vector.DrawFilledCircle(screen, cx, cy, 6, colorBomb, true)
	text.Draw(screen, fmt.Sprintf("%.1f", b.Remaining.Seconds()), basicfont.Face7x13, b.X+8, b.Y-8, colorText)
}

func (p *Playing) drawHUD(screen *ebiten.Image, f arena.RenderFrame) {
	ebitenutil.DrawRect(screen, 0, 0, float64(p.screenW), 18, colorHUD)
	hud := fmt.Sprintf("%s  SCORE %d  LIVES %d  ENEMIES %d/%d", f.LevelID, f.Score, f.Lives, f.Remaining(), f.Quota)
	if f.Player != nil && len(f.Player.Effects) > 0 {
		hud += "  BUFFS"
		for _, e := range f.Player.Effects {
			hud += " " + e.String()
		}
	}
	if p.replayer != nil {
		hud += fmt.Sprintf("  REPLAY %d/%d", p.replayer.CurrentFrame(), p.replayer.TotalFrames())
	} else if p.recorder != nil && p.recorder.IsRecording() {
		hud += "  REC"
	}
	text.Draw(screen, hud, basicfont.Face7x13, 6, 13, colorText)

	if p.frames < p.messageUntil {
		text.Draw(screen, p.message, basicfont.Face7x13, 6, p.screenH-8, colorText)
	}
}

func (p *Playing) drawOverlay(screen *ebiten.Image, bg color.Color, msg string) {
	ebitenutil.DrawRect(screen, 0, 0, float64(p.screenW), float64(p.screenH), bg)
	text.Draw(screen, msg, basicfont.Face7x13, p.screenW/2-80, p.screenH/2-30, colorText)
}

// OnEnter is called when the scene becomes active
func (p *Playing) OnEnter() {
	p.log.Debug("playing scene entered", "level", p.sim.LevelID(), "seed", p.sim.Seed())
}

// OnExit saves a pending recording
func (p *Playing) OnExit() {
	if p.recorder != nil && p.recorder.FrameCount() > 0 {
		p.saveRecording()
	}
}

// Simulation exposes the running simulation
func (p *Playing) Simulation() *arena.Simulation {
	return p.sim
}
