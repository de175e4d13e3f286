package main

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/younwookim/tankarena/internal/application/arena"
	"github.com/younwookim/tankarena/internal/application/replay"
	"github.com/younwookim/tankarena/internal/application/state"
	"github.com/younwookim/tankarena/internal/infrastructure/config"
)

// Summary is the outcome of a headless replay
type Summary struct {
	Level     string
	Seed      int64
	Ticks     uint64
	State     state.GameState
	Score     int
	Destroyed int
	Lives     int
}

func (s Summary) String() string {
	return fmt.Sprintf("level=%s seed=%d ticks=%d state=%s score=%d destroyed=%d lives=%d",
		s.Level, s.Seed, s.Ticks, s.State, s.Score, s.Destroyed, s.Lives)
}

// runHeadless feeds every recorded intent to a fresh simulation and stops
// early once the level is decided
func runHeadless(cfg *config.GameConfig, loader *config.Loader, data *replay.ReplayData, logger *log.Logger) (Summary, error) {
	if data == nil {
		return Summary{}, fmt.Errorf("no replay to run")
	}
	levelCfg, err := loader.LoadLevel(data.Level)
	if err != nil {
		return Summary{}, err
	}
	sim, err := arena.New(cfg, arena.WithSeed(data.Seed), arena.WithLogger(logger))
	if err != nil {
		return Summary{}, err
	}
	if err := sim.LoadLevel(levelCfg); err != nil {
		return Summary{}, err
	}

	replayer := replay.NewReplayer(*data)
	for sim.State() == state.StatePlaying {
		in, ok := replayer.Next()
		if !ok {
			break
		}
		sim.Tick(in)
	}
	if replayer.CurrentFrame() < replayer.TotalFrames() {
		logger.Warn("replay has frames past the end of the level",
			"used", replayer.CurrentFrame(), "total", replayer.TotalFrames())
	}

	f := sim.Frame()
	return Summary{
		Level:     f.LevelID,
		Seed:      sim.Seed(),
		Ticks:     f.Tick,
		State:     f.State,
		Score:     f.Score,
		Destroyed: f.Destroyed,
		Lives:     f.Lives,
	}, nil
}
