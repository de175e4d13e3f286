// Command tankarena-term plays the arena in a terminal.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"

	"github.com/younwookim/tankarena/cmd/game/configs"
	"github.com/younwookim/tankarena/internal/infrastructure/config"
	"github.com/younwookim/tankarena/internal/infrastructure/logging"
	"github.com/younwookim/tankarena/internal/infrastructure/persistence"
	"github.com/younwookim/tankarena/internal/infrastructure/terminal"
)

func main() {
	levels := flag.String("level", "", "Comma separated levels to play (default: every shipped level)")
	seed := flag.Int64("seed", 0, "Random seed (0 picks one from the clock)")
	saves := flag.String("saves", "saves", "Save location: a directory, sqlite:<file> or a postgres:// URL")
	codecName := flag.String("codec", "msgpack", "Save encoding: msgpack or json")
	logFile := flag.String("log-file", "", "Write logs to this file (the screen is in use)")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn, error")
	flag.Parse()

	var w io.Writer = io.Discard
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		defer f.Close()
		w = f
	}
	logger, err := logging.New(w, *logLevel, "tankterm")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if err := run(*levels, *seed, *saves, *codecName, logger); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(levels string, seed int64, saves, codecName string, logger *log.Logger) error {
	loader := config.NewFSLoader(configs.FS, "configs")
	cfg, err := loader.LoadAll()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	names, err := loader.LevelNames()
	if err != nil {
		return err
	}
	if levels != "" {
		names = strings.Split(levels, ",")
	}

	codec, err := persistence.CodecByName(codecName)
	if err != nil {
		return err
	}
	store, err := persistence.Open(context.Background(), saves, codec)
	if err != nil {
		return err
	}
	defer store.Close()

	sess, err := newSession(cfg, loader, names, seed, store, logger)
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to init screen: %w", err)
	}
	defer screen.Fini()
	screen.SetStyle(tcell.StyleDefault)
	screen.HideCursor()

	logger.Info("starting", "levels", names, "seed", sess.sim.Seed())
	return loop(screen, sess, cfg.Rules.Display.Framerate)
}

// loop ticks the session at fps and handles keys until quit
func loop(screen tcell.Screen, sess *session, fps int) error {
	events := make(chan tcell.Event, 16)
	quit := make(chan struct{})
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-quit:
				return
			}
		}
	}()
	defer close(quit)

	renderer := terminal.NewRenderer(screen)
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	for {
		select {
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				ok, err := sess.command(sess.input.HandleKey(ev, sess.frames))
				if err != nil {
					return err
				}
				if !ok {
					return nil
				}
			case *tcell.EventResize:
				screen.Sync()
			}
		case <-ticker.C:
			sess.step()
			renderer.Draw(sess.sim.Frame(), sess.statusLine())
		}
	}
}
