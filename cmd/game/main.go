package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/younwookim/tankarena/cmd/game/configs"
	"github.com/younwookim/tankarena/internal/application/game"
	"github.com/younwookim/tankarena/internal/application/replay"
	"github.com/younwookim/tankarena/internal/application/scene/playing"
	"github.com/younwookim/tankarena/internal/infrastructure/config"
	"github.com/younwookim/tankarena/internal/infrastructure/logging"
	"github.com/younwookim/tankarena/internal/infrastructure/persistence"
)

type flags struct {
	configDir string
	levels    string
	seed      int64
	record    string
	replay    string
	saves     string
	codec     string
	logLevel  string
	headless  bool
}

func parseFlags(args []string) (flags, error) {
	var f flags
	fs := flag.NewFlagSet("tankarena", flag.ContinueOnError)
	fs.StringVar(&f.configDir, "config", "", "Load configs from this directory instead of the embedded ones")
	fs.StringVar(&f.levels, "level", "", "Comma separated levels to play (default: every shipped level)")
	fs.Int64Var(&f.seed, "seed", 0, "Random seed (0 picks one from the clock)")
	fs.StringVar(&f.record, "record", "", "Record input to file (e.g., -record replay.json, or -record auto for a timestamped name)")
	fs.StringVar(&f.replay, "replay", "", "Play back a recorded file")
	fs.StringVar(&f.saves, "saves", "saves", "Save location: a directory, sqlite:<file> or a postgres:// URL")
	fs.StringVar(&f.codec, "codec", "msgpack", "Save encoding: msgpack or json")
	fs.StringVar(&f.logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	fs.BoolVar(&f.headless, "headless", false, "With -replay, run without a window and print the result")
	if err := fs.Parse(args); err != nil {
		return flags{}, err
	}
	if f.headless && f.replay == "" {
		return flags{}, fmt.Errorf("-headless requires -replay")
	}
	if f.record == "auto" {
		f.record = replay.GenerateFilename()
	}
	return f, nil
}

func newLoader(dir string) *config.Loader {
	if dir != "" {
		return config.NewLoader(dir)
	}
	return config.NewFSLoader(configs.FS, "configs")
}

func levelList(loader *config.Loader, levels string) ([]string, error) {
	if levels != "" {
		return strings.Split(levels, ","), nil
	}
	return loader.LevelNames()
}

func main() {
	f, err := parseFlags(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}

	logger, err := logging.New(os.Stderr, f.logLevel, "tankarena")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if err := run(f, logger); err != nil {
		logger.Fatal("tankarena stopped", "error", err)
	}
}

func run(f flags, logger *log.Logger) error {
	loader := newLoader(f.configDir)
	cfg, err := loader.LoadAll()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	var data *replay.ReplayData
	if f.replay != "" {
		data, err = replay.LoadReplay(f.replay)
		if err != nil {
			return err
		}
		logger.Info("replay loaded", "file", f.replay, "level", data.Level, "frames", len(data.Frames))
	}

	if f.headless {
		summary, err := runHeadless(cfg, loader, data, logger)
		if err != nil {
			return err
		}
		fmt.Println(summary)
		return nil
	}

	levels, err := levelList(loader, f.levels)
	if err != nil {
		return fmt.Errorf("failed to list levels: %w", err)
	}

	codec, err := persistence.CodecByName(f.codec)
	if err != nil {
		return err
	}
	store, err := persistence.Open(context.Background(), f.saves, codec)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("failed to close save store", "error", err)
		}
	}()

	scene, err := playing.New(cfg, loader, playing.Options{
		Levels:     levels,
		Seed:       f.seed,
		Store:      store,
		RecordPath: f.record,
		Replay:     data,
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("failed to start: %w", err)
	}

	display := cfg.Rules.Display
	g := game.New(scene, display)
	defer g.Close()

	ebiten.SetWindowSize(display.ScreenWidth*display.Scale, display.ScreenHeight*display.Scale)
	ebiten.SetWindowTitle("Tank Arena")
	ebiten.SetTPS(display.Framerate)

	logger.Info("starting", "levels", levels, "saves", f.saves, "codec", codec.Name())
	if err := ebiten.RunGame(g); err != nil {
		return err
	}
	logger.Info("stopped", "ticks", g.Ticks())
	return nil
}
