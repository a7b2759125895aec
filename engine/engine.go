package engine

import (
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/afero"

	"github.com/spaghettifunk/eae6320/engine/core"
	"github.com/spaghettifunk/eae6320/engine/platform"
	"github.com/spaghettifunk/eae6320/engine/renderer"
	"github.com/spaghettifunk/eae6320/engine/settings"
)

type Stage uint8

const (
	// Nothing was initialized yet
	StageUninitialized Stage = iota
	// Logging, user settings and the window are up
	StageBaseInitialized
	// Events, user output, time and graphics are up
	StageEngineInitialized
	// The game's Initialize succeeded
	StageGameInitialized
	// The message loop is running
	StageRunning
	// Teardown is in progress
	StageShuttingDown
	// Everything that was initialized has been cleaned up
	StageTerminated
)

func (s Stage) String() string {
	switch s {
	case StageUninitialized:
		return "uninitialized"
	case StageBaseInitialized:
		return "base initialized"
	case StageEngineInitialized:
		return "engine initialized"
	case StageGameInitialized:
		return "game initialized"
	case StageRunning:
		return "running"
	case StageShuttingDown:
		return "shutting down"
	default:
		return "terminated"
	}
}

const (
	initializationFailedMessage = "Initialization failed! (Check the log file for details.) This program will now exit."
	loopFailedMessage           = "The application encountered an error and will now exit"
	quitPromptTitle             = "Exit Application?"
	quitPromptQuestion          = "Are you sure you want to quit?"
)

// ExitStatus is how the message loop ended.
type ExitStatus struct {
	Code   int
	Reason platform.ExitReason
}

type teardown struct {
	name string
	fn   func() error
}

// Engine owns one window and the services a game runs on. It must be created,
// run and shut down on the same goroutine that the window host requires.
type Engine struct {
	config  ApplicationConfig
	game    *Game
	fs      afero.Fs
	console io.Writer

	logger   *core.Logger
	clock    *core.Clock
	events   *core.EventBus
	input    *core.Input
	metrics  *core.FrameMetrics
	host     platform.WindowHost
	output   core.UserOutput
	graphics *renderer.Graphics
	backend  renderer.Backend

	settings settings.Settings
	window   platform.WindowHandle
	session  uuid.UUID

	stage     Stage
	teardowns []teardown
	exit      ExitStatus
	loopErr   error
}

type Option func(e *Engine)

func WithConfig(config ApplicationConfig) Option {
	return func(e *Engine) {
		e.config = config
	}
}

// WithFs sets the file system used for the log, the settings and shaders.
func WithFs(fs afero.Fs) Option {
	return func(e *Engine) {
		e.fs = fs
	}
}

func WithConsole(console io.Writer) Option {
	return func(e *Engine) {
		e.console = console
	}
}

func WithLogger(logger *core.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

func WithClock(clock *core.Clock) Option {
	return func(e *Engine) {
		e.clock = clock
	}
}

func WithWindowHost(host platform.WindowHost) Option {
	return func(e *Engine) {
		e.host = host
	}
}

func WithBackend(backend renderer.Backend) Option {
	return func(e *Engine) {
		e.backend = backend
	}
}

func WithUserOutput(output core.UserOutput) Option {
	return func(e *Engine) {
		e.output = output
	}
}

func New(g *Game, options ...Option) (*Engine, error) {
	if g == nil {
		g = &Game{}
	}
	e := &Engine{
		config:  DefaultConfig(),
		game:    g,
		stage:   StageUninitialized,
		session: uuid.New(),
	}
	for _, option := range options {
		option(e)
	}

	if e.host == nil {
		return nil, eris.New("a window host is required")
	}
	if e.backend == nil {
		return nil, eris.New("a graphics backend is required")
	}
	if e.output == nil {
		return nil, eris.New("a user output is required")
	}
	if e.fs == nil {
		e.fs = afero.NewOsFs()
	}
	if e.console == nil {
		e.console = os.Stderr
	}
	if e.logger == nil {
		e.logger = core.NewLogger(e.fs, e.console)
	}
	if e.clock == nil {
		e.clock = core.NewClock()
	}
	e.events = core.NewEventBus()
	e.input = core.NewInput(e.events)
	e.metrics = core.NewFrameMetrics()
	e.graphics = renderer.NewGraphics(e.backend, e.clock, e.logger)
	return e, nil
}

func (e *Engine) Stage() Stage {
	return e.stage
}

// ExitStatus is only meaningful once Run has returned.
func (e *Engine) ExitStatus() ExitStatus {
	return e.exit
}

func (e *Engine) Metrics() *core.FrameMetrics {
	return e.metrics
}

// Run initializes everything, runs the message loop until a quit and shuts
// down. It returns the process exit code.
func (e *Engine) Run() int {
	if err := e.Initialize(); err != nil {
		e.exit = ExitStatus{Code: 1, Reason: platform.ExitReasonInitializationFailed}
		e.logger.Error("%s", err)
		e.showError(initializationFailedMessage)
	} else {
		status, err := e.loop()
		e.exit = status
		if err != nil {
			e.logger.Error("%s: %s", loopFailedMessage, err)
			e.showError(loopFailedMessage)
		}
	}

	if err := e.Shutdown(); err != nil {
		e.logger.Error("%s", err)
		if e.exit.Code == 0 {
			e.exit.Code = 1
		}
	}
	return e.exit.Code
}

func (e *Engine) showError(message string) {
	if err := e.output.Print(message); err != nil {
		e.logger.Error("Failed to show the message \"%s\": %s", message, err)
	}
}

// Initialize runs logging, then the base, the engine systems and finally the
// game. It stops at the first failure. Whatever did succeed stays registered
// for Shutdown.
func (e *Engine) Initialize() error {
	if e.stage != StageUninitialized {
		return eris.Errorf("the engine can't be initialized while %s", e.stage)
	}
	stages := []struct {
		next Stage
		fn   func() error
	}{
		{StageBaseInitialized, e.initializeBase},
		{StageEngineInitialized, e.initializeEngine},
		{StageGameInitialized, e.initializeGame},
	}
	for _, s := range stages {
		if err := s.fn(); err != nil {
			e.stage = StageShuttingDown
			return err
		}
		e.stage = s.next
	}
	e.logger.Info("Application initialized")
	return nil
}

// push records the teardown of a step that just succeeded.
func (e *Engine) push(name string, fn func() error) {
	e.teardowns = append(e.teardowns, teardown{name: name, fn: fn})
}

func (e *Engine) step(name string, initialize func() error, cleanUp func() error) error {
	if err := initialize(); err != nil {
		return eris.Wrapf(err, "failed to initialize %s", name)
	}
	if cleanUp != nil {
		e.push(name, cleanUp)
	}
	return nil
}

func (e *Engine) initializeBase() error {
	if err := e.step("logging", e.initializeLogging, e.logger.CleanUp); err != nil {
		return err
	}
	if err := e.step("user settings", e.loadSettings, nil); err != nil {
		return err
	}
	if err := e.step("window host", e.host.Initialize, e.host.CleanUp); err != nil {
		return err
	}
	return e.step("main window", e.createMainWindow, e.destroyMainWindow)
}

func (e *Engine) initializeLogging() error {
	level, err := core.ParseLogLevel(e.config.LogLevel)
	if err != nil {
		return err
	}
	if err := e.logger.Initialize(e.config.LogPath); err != nil {
		return err
	}
	e.logger.SetLevel(level)
	e.logger.Info("Session %s", e.session)
	return nil
}

func (e *Engine) loadSettings() error {
	s, err := settings.Load(e.fs, e.config.SettingsPath, e.logger)
	if err != nil {
		return err
	}
	e.settings = s
	return nil
}

func (e *Engine) initializeEngine() error {
	if err := e.step("events", e.events.Initialize, e.events.CleanUp); err != nil {
		return err
	}
	e.events.Register(core.EVENT_CODE_KEY_PRESSED, e, e.onKey)
	e.events.Register(core.EVENT_CODE_APPLICATION_QUIT, e, e.onQuitRequested)

	if err := e.step("user output", e.output.Initialize, e.output.CleanUp); err != nil {
		return err
	}
	if err := e.step("time", e.clock.Initialize, e.clock.CleanUp); err != nil {
		return err
	}
	return e.step("graphics", e.initializeGraphics, e.graphics.CleanUp)
}

func (e *Engine) initializeGraphics() error {
	surface, err := e.host.Surface(e.window)
	if err != nil {
		return err
	}
	return e.graphics.Initialize(surface, e.settings.ResolutionWidth, e.settings.ResolutionHeight)
}

func (e *Engine) initializeGame() error {
	var cleanUp func() error
	if e.game.FnShutdown != nil {
		cleanUp = e.game.FnShutdown
	}
	return e.step("game", func() error {
		if e.game.FnInitialize == nil {
			return nil
		}
		return e.game.FnInitialize(&Systems{
			Logger:   e.logger,
			Events:   e.events,
			Input:    e.input,
			Clock:    e.clock,
			Settings: e.settings,
		})
	}, cleanUp)
}

// Shutdown runs the teardown of every step that succeeded, newest first. Each
// teardown runs once, so calling Shutdown again does nothing. The first
// failure is returned after every teardown has run.
func (e *Engine) Shutdown() error {
	if e.stage == StageTerminated {
		return nil
	}
	e.stage = StageShuttingDown

	var result error
	for len(e.teardowns) > 0 {
		last := len(e.teardowns) - 1
		t := e.teardowns[last]
		e.teardowns = e.teardowns[:last]

		if err := t.fn(); err != nil {
			err = eris.Wrapf(err, "failed to clean up %s", t.name)
			e.logger.Error("%s", err)
			if result == nil {
				result = err
			}
		}
	}
	e.stage = StageTerminated
	return result
}
