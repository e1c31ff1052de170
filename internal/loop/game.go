package loop

import (
	"context"
	"errors"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/blockcatch/internal/config"
	"github.com/tomz197/blockcatch/internal/input"
	"github.com/tomz197/blockcatch/internal/object"
	"github.com/tomz197/blockcatch/internal/pool"
)

// Block pool sizing.
const (
	DefaultPoolSize = 20
	DefaultPoolMax  = 50
)

// Status prompts.
const (
	MsgReady     = "Press SPACE to play!"
	MsgResume    = "Press SPACE to resume!"
	MsgPlayAgain = "Press SPACE to play again!"
)

// Options wires a Game to its collaborators.
type Options struct {
	Settings  config.Settings
	Renderer  Renderer
	HUD       HUD
	Audio     Audio
	Keyboard  Keyboard
	Scheduler Scheduler

	Rand     *rand.Rand       // block rolls; nil uses the global source
	Logger   *log.Logger      // nil discards
	Now      func() time.Time // nil uses time.Now
	PoolSize int
	PoolMax  int

	// OnEnd is called once for every round that ends.
	OnEnd func(Result)
}

// Game owns one player, the falling blocks and the round state. All methods
// must be called from the scheduler's goroutine.
type Game struct {
	settings  config.Settings
	renderer  Renderer
	hud       HUD
	audio     Audio
	keyboard  Keyboard
	scheduler Scheduler
	logger    *log.Logger
	now       func() time.Time
	onEnd     func(Result)

	player *object.Player
	blocks []*object.Block
	pool   *pool.ObjectPool[*object.Block]
	state  State

	ctx          context.Context
	unsubscribes []func()
	started      bool
	stopped      bool
}

// New validates the settings and builds the player and the block pool.
func New(opts Options) (*Game, error) {
	if err := opts.Settings.Validate(); err != nil {
		return nil, err
	}
	switch {
	case opts.Renderer == nil:
		return nil, errors.New("loop: renderer is required")
	case opts.HUD == nil:
		return nil, errors.New("loop: hud is required")
	case opts.Audio == nil:
		return nil, errors.New("loop: audio is required")
	case opts.Keyboard == nil:
		return nil, errors.New("loop: keyboard is required")
	case opts.Scheduler == nil:
		return nil, errors.New("loop: scheduler is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	size, maxSize := opts.PoolSize, opts.PoolMax
	if size <= 0 {
		size = DefaultPoolSize
	}
	if maxSize <= 0 {
		maxSize = DefaultPoolMax
	}

	g := &Game{
		settings:  opts.Settings,
		renderer:  opts.Renderer,
		hud:       opts.HUD,
		audio:     opts.Audio,
		keyboard:  opts.Keyboard,
		scheduler: opts.Scheduler,
		logger:    logger,
		now:       now,
		onEnd:     opts.OnEnd,
		ctx:       context.Background(),
	}
	g.player = object.NewPlayer(g.renderer, g.settings.PlayerColor)
	g.pool = pool.New(func() *object.Block {
		return object.NewBlock(g.renderer, g.settings.Blocks, opts.Rand)
	}, size, maxSize)
	g.state = State{
		TimeLeft:            g.settings.MaxSeconds,
		BlockSpawnCountdown: g.settings.BlockIntervalMs(),
	}
	return g, nil
}

// Start hooks up the keyboard, shows the ready screen, paints the player
// and requests the first frame. ctx is handed to Audio.ResumeAudio.
func (g *Game) Start(ctx context.Context) {
	if g.started {
		return
	}
	g.started = true
	g.ctx = ctx

	g.unsubscribes = append(g.unsubscribes,
		g.keyboard.Subscribe(input.KeySpace, g.HandleStart),
		g.keyboard.Subscribe(input.KeyMute, g.ToggleMute),
	)

	g.hud.UpdateScore(0)
	g.hud.UpdateTime(g.settings.MaxSeconds)
	g.hud.UpdateGameStatus(StatusReady, MsgReady)
	if ind, ok := g.hud.(AudioIndicator); ok {
		ind.UpdateAudio(g.audioEnabled())
	}

	g.state.LastFrame = g.now()
	g.paint()
	g.scheduler.RequestFrame(g.Tick)
}

// Close stops rescheduling and drops keyboard subscriptions.
func (g *Game) Close() {
	g.stopped = true
	for _, unsubscribe := range g.unsubscribes {
		unsubscribe()
	}
	g.unsubscribes = nil
}

// Tick advances the simulation to now and redraws. It always requests the
// next frame unless the game was closed.
func (g *Game) Tick(now time.Time) {
	if g.stopped {
		return
	}
	defer func() {
		if !g.stopped {
			g.scheduler.RequestFrame(g.Tick)
		}
	}()

	if g.state.Paused || !g.state.Started {
		g.state.LastFrame = now
		return
	}

	timestep := float64(now.Sub(g.state.LastFrame)) / float64(time.Millisecond)
	g.state.LastFrame = now

	g.state.TimeLeft = max(0, g.state.TimeLeft-timestep/1000)
	g.hud.UpdateTime(g.state.TimeLeft)
	if g.state.TimeLeft <= 0 {
		g.EndGame()
		return
	}

	g.state.BlockSpawnCountdown = max(0, g.state.BlockSpawnCountdown-timestep)
	if g.state.BlockSpawnCountdown <= 0 {
		g.spawnBlock()
		g.state.BlockSpawnCountdown = g.settings.BlockIntervalMs()
	}

	g.player.Step(timestep, g.direction())

	kept := g.blocks[:0]
	for _, b := range g.blocks {
		b.Step(timestep, false)
		switch {
		case g.player.Collides(&b.Rectangle):
			g.addScore(b.Data.Points)
			g.pool.Release(b)
		case b.OffScreen():
			g.pool.Release(b)
		default:
			kept = append(kept, b)
		}
	}
	clear(g.blocks[len(kept):])
	g.blocks = kept

	g.paint()
}

func (g *Game) spawnBlock() {
	b, ok := g.pool.Acquire()
	if !ok {
		g.logger.Debug("block pool exhausted, skipping spawn", "active", len(g.blocks))
		return
	}
	g.blocks = append(g.blocks, b)
}

// direction reads the arrow keys. Left wins when both are held.
func (g *Game) direction() object.Direction {
	switch {
	case g.keyboard.Pressed(input.KeyLeft):
		return object.Left
	case g.keyboard.Pressed(input.KeyRight):
		return object.Right
	}
	return object.None
}

// HandleStart starts a round from the ready state, or toggles pause while
// a round is running.
func (g *Game) HandleStart() {
	if g.state.Started {
		g.TogglePause()
		return
	}

	if err := g.audio.ResumeAudio(g.ctx); err != nil {
		g.logger.Warn("audio unavailable", "err", err)
	}

	g.state.TimeLeft = g.settings.MaxSeconds
	g.state.BlockSpawnCountdown = g.settings.BlockIntervalMs()
	g.state.Paused = false
	g.state.Started = true
	g.state.Score = 0

	g.hud.UpdateScore(0)
	g.hud.UpdateTime(g.settings.MaxSeconds)
	g.hud.UpdateGameStatus(StatusPlaying, "")
	g.audio.PlayGameStart()

	g.logger.Debug("round started", "seconds", g.settings.MaxSeconds, "threshold", g.settings.ScoreThreshold)
}

// TogglePause pauses or resumes a running round. It does nothing between
// rounds.
func (g *Game) TogglePause() {
	if !g.state.Started {
		return
	}
	g.state.Paused = !g.state.Paused
	if g.state.Paused {
		g.hud.UpdateGameStatus(StatusPaused, MsgResume)
	} else {
		g.hud.UpdateGameStatus(StatusPlaying, "")
	}
	g.logger.Debug("pause toggled", "paused", g.state.Paused)
}

// EndGame finishes the running round and returns every block to the pool.
// It reports false when no round was running.
func (g *Game) EndGame() bool {
	if !g.state.Started {
		return false
	}
	g.state.Started = false
	won := g.state.Score >= g.settings.ScoreThreshold

	if won {
		g.hud.UpdateGameStatus(StatusWin, MsgPlayAgain)
		g.audio.PlayVictory()
	} else {
		g.hud.UpdateGameStatus(StatusLose, MsgPlayAgain)
		g.audio.PlayGameOver()
	}

	for _, b := range g.blocks {
		g.pool.Release(b)
	}
	clear(g.blocks)
	g.blocks = g.blocks[:0]
	g.paint()

	g.logger.Info("round ended", "score", g.state.Score, "won", won)
	if g.onEnd != nil {
		g.onEnd(Result{Score: g.state.Score, Won: won})
	}
	return true
}

func (g *Game) addScore(points int) {
	g.state.Score += points
	g.hud.UpdateScore(g.state.Score)
	g.audio.PlayBlockCatch(points)
}

// ToggleMute flips sound when the audio backend supports it.
func (g *Game) ToggleMute() {
	m, ok := g.audio.(Muter)
	if !ok {
		return
	}
	enabled := m.ToggleMute()
	if ind, ok := g.hud.(AudioIndicator); ok {
		ind.UpdateAudio(enabled)
	}
	g.logger.Debug("audio toggled", "enabled", enabled)
}

func (g *Game) audioEnabled() bool {
	type enabler interface{ IsEnabled() bool }
	if e, ok := g.audio.(enabler); ok {
		return e.IsEnabled()
	}
	return true
}

// Repaint redraws the current scene, e.g. after the output was resized
// while the round is paused.
func (g *Game) Repaint() { g.paint() }

func (g *Game) paint() {
	g.renderer.ClearColorBuffer()
	g.renderer.Draw(g.player.Outline())
	g.renderer.Draw(g.player)
	for _, b := range g.blocks {
		g.renderer.Draw(b)
	}
}

// State returns a copy of the round state.
func (g *Game) State() State { return g.state }

func (g *Game) Player() *object.Player { return g.player }

// Blocks returns the falling blocks in spawn order.
func (g *Game) Blocks() []*object.Block {
	return append([]*object.Block(nil), g.blocks...)
}

func (g *Game) PoolStats() pool.Stats { return g.pool.Stats() }

func (g *Game) Settings() config.Settings { return g.settings }
