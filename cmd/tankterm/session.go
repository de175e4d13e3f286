package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/younwookim/tankarena/internal/application/arena"
	"github.com/younwookim/tankarena/internal/application/state"
	"github.com/younwookim/tankarena/internal/infrastructure/config"
	"github.com/younwookim/tankarena/internal/infrastructure/persistence"
	"github.com/younwookim/tankarena/internal/infrastructure/terminal"
)

// statusTicks is how long a status line stays up
const statusTicks = 180

// session runs the level sequence for the terminal host
type session struct {
	cfg    *config.GameConfig
	loader *config.Loader
	levels []string
	seed   int64
	store  persistence.Store
	log    *log.Logger

	sim      *arena.Simulation
	levelIdx int
	input    terminal.Input
	frames   uint64

	status      string
	statusUntil uint64
}

func newSession(cfg *config.GameConfig, loader *config.Loader, levels []string, seed int64, store persistence.Store, logger *log.Logger) (*session, error) {
	if len(levels) == 0 {
		return nil, fmt.Errorf("%w: no levels to play", config.ErrInvalidLevel)
	}
	s := &session{
		cfg:    cfg,
		loader: loader,
		levels: levels,
		seed:   seed,
		store:  store,
		log:    logger,
	}
	if err := s.start(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *session) start() error {
	seed := s.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	sim, err := arena.New(s.cfg, arena.WithSeed(seed), arena.WithLogger(s.log))
	if err != nil {
		return err
	}
	s.sim = sim
	return s.loadLevel(0)
}

func (s *session) loadLevel(idx int) error {
	levelCfg, err := s.loader.LoadLevel(s.levels[idx])
	if err != nil {
		return err
	}
	if err := s.sim.LoadLevel(levelCfg); err != nil {
		return err
	}
	s.levelIdx = idx
	s.input.Reset()
	return nil
}

// command applies a host command. It reports false when the host should quit.
func (s *session) command(cmd terminal.Command) (bool, error) {
	switch cmd {
	case terminal.CmdQuit:
		return false, nil
	case terminal.CmdPause:
		s.sim.SetPaused(s.sim.State() == state.StatePlaying)
	case terminal.CmdSave:
		s.save()
	case terminal.CmdLoad:
		s.load()
	case terminal.CmdNext:
		if s.sim.State() != state.StateLevelClear {
			break
		}
		if s.levelIdx+1 >= len(s.levels) {
			s.notify("all levels cleared")
			break
		}
		if err := s.loadLevel(s.levelIdx + 1); err != nil {
			return false, err
		}
	case terminal.CmdRestart:
		if s.sim.State() == state.StateGameOver {
			return true, s.start()
		}
	}
	return true, nil
}

// step advances one host frame
func (s *session) step() {
	s.frames++
	if s.sim.State() == state.StatePlaying {
		s.sim.Tick(s.input.Intent(s.frames))
	}
}

func (s *session) save() {
	if s.store == nil {
		s.notify("no save store")
		return
	}
	ss := s.sim.Save()
	meta, err := s.store.Save(context.Background(), &ss)
	if err != nil {
		s.log.Error("failed to save", "error", err)
		s.notify("save failed")
		return
	}
	s.notify("saved " + meta.ID[:8])
}

func (s *session) load() {
	if s.store == nil {
		s.notify("no save store")
		return
	}
	ss, meta, err := persistence.Latest(context.Background(), s.store)
	if errors.Is(err, persistence.ErrNotFound) {
		s.notify("nothing to load")
		return
	}
	if err != nil {
		s.log.Warn("failed to load save", "error", err)
		s.notify("load failed")
		return
	}
	if err := s.sim.Restore(*ss); err != nil {
		s.log.Error("failed to restore save", "id", meta.ID, "error", err)
		s.notify("load failed")
		return
	}
	for i, name := range s.levels {
		if name == meta.Level {
			s.levelIdx = i
		}
	}
	s.input.Reset()
	s.notify("loaded " + meta.ID[:8])
}

func (s *session) notify(msg string) {
	s.status = msg
	s.statusUntil = s.frames + statusTicks
}

// statusLine returns the current status message, if still shown
func (s *session) statusLine() string {
	if s.frames < s.statusUntil {
		return s.status
	}
	return ""
}
