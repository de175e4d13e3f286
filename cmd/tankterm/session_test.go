package main

import (
	"testing"
	"testing/fstest"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/younwookim/tankarena/internal/application/state"
	"github.com/younwookim/tankarena/internal/infrastructure/config"
	"github.com/younwookim/tankarena/internal/infrastructure/logging"
	"github.com/younwookim/tankarena/internal/infrastructure/persistence"
	"github.com/younwookim/tankarena/internal/infrastructure/terminal"
)

const quickLevel = `{
  "id": "quick",
  "number": 1,
  "size": {"cols": 8, "rows": 10},
  "playerSpawn": {"x": 160, "y": 360},
  "enemies": [{"type": "basic", "x": 160, "y": 120}],
  "wave": {"quota": 1, "cap": 1, "weights": {"basic": 1}}
}`

func createTestSession(t *testing.T, store persistence.Store) *session {
	t.Helper()
	loader := config.NewFSLoader(fstest.MapFS{
		"levels/quick.json": {Data: []byte(quickLevel)},
	}, ".")
	s, err := newSession(config.DefaultGameConfig(), loader, []string{"quick", "quick"}, 7, store, logging.Discard())
	require.NoError(t, err)
	return s
}

func key(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func TestNewSession_NoLevels(t *testing.T) {
	_, err := newSession(config.DefaultGameConfig(), nil, nil, 1, nil, logging.Discard())
	assert.ErrorIs(t, err, config.ErrInvalidLevel)
}

func TestSession_StepUsesHeldKeys(t *testing.T) {
	s := createTestSession(t, nil)

	s.input.HandleKey(tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone), s.frames)
	s.step()
	assert.Equal(t, uint64(1), s.sim.TickCount())
	assert.Equal(t, 158, s.sim.Frame().Player.Rect.X)
}

func TestSession_PauseAndQuit(t *testing.T) {
	s := createTestSession(t, nil)

	ok, err := s.command(s.input.HandleKey(key('p'), 0))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, state.StatePaused, s.sim.State())
	s.step()
	assert.Zero(t, s.sim.TickCount())

	_, err = s.command(terminal.CmdPause)
	require.NoError(t, err)
	assert.Equal(t, state.StatePlaying, s.sim.State())

	ok, err = s.command(s.input.HandleKey(key('q'), 0))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSession_Progression(t *testing.T) {
	s := createTestSession(t, nil)

	for range 600 {
		s.input.HandleKey(key(' '), s.frames)
		s.step()
		if s.sim.State() == state.StateLevelClear {
			break
		}
	}
	require.Equal(t, state.StateLevelClear, s.sim.State())

	_, err := s.command(terminal.CmdNext)
	require.NoError(t, err)
	assert.Equal(t, 1, s.levelIdx)
	assert.Equal(t, state.StatePlaying, s.sim.State())

	_, err = s.command(terminal.CmdNext)
	require.NoError(t, err)
	assert.Equal(t, 1, s.levelIdx, "next only works on a cleared level")
}

func TestSession_SaveAndLoad(t *testing.T) {
	store, err := persistence.NewFileStore(t.TempDir(), persistence.JSONCodec{})
	require.NoError(t, err)
	s := createTestSession(t, store)

	for range 5 {
		s.step()
	}
	_, err = s.command(terminal.CmdSave)
	require.NoError(t, err)
	assert.Contains(t, s.statusLine(), "saved")

	for range 5 {
		s.step()
	}
	_, err = s.command(terminal.CmdLoad)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), s.sim.TickCount())
	assert.Contains(t, s.statusLine(), "loaded")

	for range statusTicks {
		s.step()
	}
	assert.Empty(t, s.statusLine())
}

func TestSession_NoStore(t *testing.T) {
	s := createTestSession(t, nil)
	_, err := s.command(terminal.CmdLoad)
	require.NoError(t, err)
	assert.Equal(t, "no save store", s.statusLine())
}
