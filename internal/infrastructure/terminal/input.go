package terminal

import (
	"unicode"

	"github.com/gdamore/tcell/v2"

	"github.com/younwookim/tankarena/internal/application/system"
	"github.com/younwookim/tankarena/internal/domain/entity"
)

// Command is a host action bound to a key
type Command int

const (
	CmdNone Command = iota
	CmdQuit
	CmdPause
	CmdSave
	CmdLoad
	CmdNext
	CmdRestart
)

// Terminals report key repeats but never releases, so a key counts as held
// for a while after its last event.
const (
	moveHoldTicks = 30
	fireHoldTicks = 10
)

// Input turns key events into per-tick intents
type Input struct {
	move      entity.Direction
	moveUntil uint64
	fireUntil uint64
	bomb      bool
}

// HandleKey records ev as seen at tick and returns the host command it maps to
func (in *Input) HandleKey(ev *tcell.EventKey, tick uint64) Command {
	switch ev.Key() {
	case tcell.KeyUp:
		in.hold(entity.DirUp, tick)
	case tcell.KeyDown:
		in.hold(entity.DirDown, tick)
	case tcell.KeyLeft:
		in.hold(entity.DirLeft, tick)
	case tcell.KeyRight:
		in.hold(entity.DirRight, tick)
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return CmdQuit
	case tcell.KeyF5:
		return CmdSave
	case tcell.KeyF9:
		return CmdLoad
	case tcell.KeyEnter:
		return CmdNext
	case tcell.KeyRune:
		return in.handleRune(ev.Rune(), tick)
	}
	return CmdNone
}

func (in *Input) handleRune(r rune, tick uint64) Command {
	switch unicode.ToLower(r) {
	case 'w':
		in.hold(entity.DirUp, tick)
	case 's':
		in.hold(entity.DirDown, tick)
	case 'a':
		in.hold(entity.DirLeft, tick)
	case 'd':
		in.hold(entity.DirRight, tick)
	case ' ':
		in.fireUntil = tick + fireHoldTicks
	case 'b':
		in.bomb = true
	case 'x':
		in.moveUntil = 0
	case 'p':
		return CmdPause
	case 'r':
		return CmdRestart
	case 'q':
		return CmdQuit
	}
	return CmdNone
}

func (in *Input) hold(d entity.Direction, tick uint64) {
	in.move = d
	in.moveUntil = tick + moveHoldTicks
}

// Intent returns the intent for tick. A bomb request is consumed.
func (in *Input) Intent(tick uint64) system.Intent {
	var out system.Intent
	if tick < in.moveUntil {
		out.Move = in.move
	}
	out.Fire = tick < in.fireUntil
	out.Bomb = in.bomb
	in.bomb = false
	return out
}

// Reset drops every held key
func (in *Input) Reset() {
	*in = Input{}
}
