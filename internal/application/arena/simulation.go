// Package arena runs the fixed-step tank battle simulation.
//
// A Simulation owns one system.World and drives the systems over it in a
// fixed order each tick. Hosts push a system.Intent per tick, read back a
// RenderFrame, and may snapshot the whole run with Save and Restore.
package arena

import (
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/younwookim/tankarena/internal/application/state"
	"github.com/younwookim/tankarena/internal/application/system"
	"github.com/younwookim/tankarena/internal/domain/entity"
	"github.com/younwookim/tankarena/internal/infrastructure/config"
)

// Option configures a Simulation
type Option func(*Simulation)

// WithSeed fixes the random seed. Runs with the same seed, level and
// intents are identical.
func WithSeed(seed int64) Option {
	return func(s *Simulation) { s.seed = seed }
}

// WithLogger sets the logger used by the simulation and its systems
func WithLogger(l *log.Logger) Option {
	return func(s *Simulation) { s.log = l }
}

// Simulation is the tank arena core
type Simulation struct {
	cfg   *config.GameConfig
	seed  int64
	log   *log.Logger
	world *system.World
	state state.GameState
	lives int

	player      *system.PlayerSystem
	ai          *system.AISystem
	projectiles *system.ProjectileSystem
	combat      *system.CombatSystem
	spawner     *system.SpawnDirector
	powerups    *system.PowerUpSystem

	// Event callbacks
	OnPlayerDestroyed func()
	OnLevelComplete   func()
	OnEnemyDestroyed  func(t *entity.Tank)
}

// New creates a simulation with no level loaded
func New(cfg *config.GameConfig, opts ...Option) (*Simulation, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: missing game config", config.ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("failed to create simulation: %w", err)
	}

	s := &Simulation{
		cfg:  cfg,
		seed: time.Now().UnixNano(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = log.New(io.Discard)
	}

	rules := cfg.Rules
	s.world = system.NewWorld(cfg, rand.New(rand.NewSource(s.seed)), s.log)
	s.projectiles = system.NewProjectileSystem()
	s.combat = system.NewCombatSystem(rules.Combat)
	s.spawner = system.NewSpawnDirector(rules.Spawn)
	s.powerups = system.NewPowerUpSystem(rules.PowerUps, rules.Bomb)
	s.ai = system.NewAISystem(rules.AI, s.projectiles)
	s.player = system.NewPlayerSystem(rules, s.projectiles, s.powerups)

	s.combat.OnEnemyDestroyed = s.enemyDestroyed
	s.powerups.OnEnemyDestroyed = s.enemyDestroyed
	s.powerups.OnPickup = func(p *entity.PowerUp) {
		s.log.Info("power-up picked", "type", p.Type, "id", p.ID)
	}
	s.powerups.OnDetonate = func(b *entity.Bomb, hits int) {
		s.log.Info("bomb detonated", "x", b.X, "y", b.Y, "hits", hits)
	}
	s.combat.OnTerrainRemoved = func(el entity.TerrainElement) {
		s.log.Debug("terrain destroyed", "id", el.ID, "type", el.Type)
	}

	return s, nil
}

// LoadLevel validates and installs a level, spawning the player and the
// seeded enemies. On error the current level is left untouched.
func (s *Simulation) LoadLevel(cfg *config.LevelConfig) error {
	level, g, err := system.LoadLevel(cfg)
	if err != nil {
		return fmt.Errorf("failed to load level: %w", err)
	}

	w := s.world
	s.projectiles.Release(w)
	w.Reset(level, g)
	s.reseed(0)
	s.state = state.StatePlaying
	s.lives = s.cfg.Rules.Player.Lives

	s.player.Spawn(w, s.player.Tier())
	s.spawner.Start(w)

	s.log.Info("level loaded", "id", level.ID, "number", level.Number, "cols", level.Cols, "rows", level.Rows, "terrain", len(level.Terrain))
	return nil
}

// Tick advances the simulation by one fixed step
func (s *Simulation) Tick(in system.Intent) {
	if s.world.Level == nil || !s.state.Running() {
		return
	}
	w := s.world
	s.reseed(w.Tick + 1)

	s.player.Update(w, in)
	s.ai.Update(w)
	s.projectiles.Update(w)
	playerDown := s.combat.Update(w)
	s.projectiles.Sweep(w)
	s.spawner.Update(w)
	s.powerups.Update(w)
	w.SweepEnemies()

	if playerDown || (w.Player != nil && !w.Player.IsAlive()) {
		s.playerDestroyed()
	}
	if s.state == state.StatePlaying && w.LevelComplete() {
		s.state = state.StateLevelClear
		s.log.Info("level complete", "id", w.Level.ID, "score", w.Score, "ticks", w.Tick)
		if s.OnLevelComplete != nil {
			s.OnLevelComplete()
		}
	}

	w.Advance()
}

// SetPaused pauses or resumes a running level
func (s *Simulation) SetPaused(paused bool) {
	switch {
	case paused && s.state == state.StatePlaying:
		s.state = state.StatePaused
	case !paused && s.state == state.StatePaused:
		s.state = state.StatePlaying
	}
}

// State returns the current game state
func (s *Simulation) State() state.GameState { return s.state }

// Score returns the accumulated score
func (s *Simulation) Score() int { return s.world.Score }

// Lives returns the remaining player lives, including the current tank
func (s *Simulation) Lives() int { return s.lives }

// Seed returns the random seed of the run
func (s *Simulation) Seed() int64 { return s.seed }

// TickCount returns the number of ticks run on the current level
func (s *Simulation) TickCount() uint64 { return s.world.Tick }

// LevelID returns the id of the loaded level, or "" if none
func (s *Simulation) LevelID() string {
	if s.world.Level == nil {
		return ""
	}
	return s.world.Level.ID
}

func (s *Simulation) enemyDestroyed(t *entity.Tank) {
	s.spawner.RequestRespawn(s.world)
	s.powerups.RollDrop(s.world, t)
	if s.OnEnemyDestroyed != nil {
		s.OnEnemyDestroyed(t)
	}
}

// playerDestroyed spends a life and respawns the player, or ends the game
func (s *Simulation) playerDestroyed() {
	w := s.world
	s.lives--
	if s.lives > 0 {
		tier := w.Player.Tier
		s.player.Spawn(w, tier)
		s.log.Info("player respawned", "lives", s.lives)
		return
	}

	s.lives = 0
	s.state = state.StateGameOver
	s.log.Info("game over", "level", w.Level.ID, "score", w.Score, "destroyed", w.Destroyed)
	if s.OnPlayerDestroyed != nil {
		s.OnPlayerDestroyed()
	}
}

// reseed derives the tick's random stream from the run seed, so that a
// restored snapshot continues exactly like the original run
func (s *Simulation) reseed(salt uint64) {
	s.world.RNG.Seed(int64(splitmix64(uint64(s.seed) + salt*0x9e3779b97f4a7c15)))
}

func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}
