// Package app runs the helicopter scene: the event loop on the main thread,
// the render loop on its own locked thread and a watchdog between them.
package app

import (
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Faultbox/heliscene/internal/config"
	"github.com/Faultbox/heliscene/internal/engine/audio"
	"github.com/Faultbox/heliscene/internal/engine/input"
	"github.com/Faultbox/heliscene/internal/engine/window"
	"github.com/Faultbox/heliscene/internal/logger"
)

// eventWaitMS bounds how long the event loop blocks before it rechecks
// the render thread's health.
const eventWaitMS = 10

// App is the running program.
type App struct {
	cfg    *config.Config
	log    *zap.Logger
	window *window.Window
	input  *input.Input
	state  *input.State
	audio  *audio.Manager

	width, height int

	healthy   atomic.Bool
	lastFrame atomic.Int64 // unix nanoseconds of the last presented frame
}

// New creates the window and releases its GL context for the render
// thread. Must be called from the main goroutine.
func New(cfg *config.Config) (*App, error) {
	a := &App{
		cfg:   cfg,
		log:   logger.Named("app"),
		input: input.New(),
		state: input.NewState(),
	}

	var err error
	a.window, err = window.New(window.Config{
		Title:         cfg.Window.Title,
		Width:         cfg.Window.Width,
		Height:        cfg.Window.Height,
		Fullscreen:    cfg.Window.Fullscreen,
		VSync:         cfg.Window.VSync,
		RelativeMouse: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}
	a.width, a.height = a.window.DrawableSize()

	if err := a.window.ReleaseContext(); err != nil {
		a.window.Close()
		return nil, err
	}

	if cfg.Audio.Enabled && cfg.Audio.RotorSound != "" {
		a.startAudio()
	}
	return a, nil
}

// startAudio is best effort: a missing device or file only costs the
// rotor sound.
func (a *App) startAudio() {
	m := audio.New(a.cfg.Audio.Volume)
	if err := m.Init(); err != nil {
		a.log.Warn("audio disabled", zap.Error(err))
		return
	}
	if err := m.PlayLoop(a.cfg.Audio.RotorSound); err != nil {
		a.log.Warn("rotor sound unavailable", zap.Error(err))
		m.Close()
		return
	}
	a.audio = m
}

// Run pumps events until the user quits or the render thread fails. A
// render failure is returned.
func (a *App) Run() error {
	stop := make(chan struct{})
	done := make(chan error, 1)

	a.healthy.Store(true)
	a.lastFrame.Store(time.Now().UnixNano())
	go func() { done <- a.render(stop) }()

	var renderErr error
	watched := make(chan struct{})
	go func() {
		defer close(watched)
		renderErr = a.watchdog(done)
	}()

	a.log.Info("event loop started")
	for a.healthy.Load() {
		if a.input.Wait(a.state, eventWaitMS) {
			a.log.Info("quit requested")
			break
		}
	}
	close(stop)
	<-watched
	return renderErr
}

// watchdog waits for the render goroutine to finish and flags the program
// unhealthy when it does. While waiting it warns about stalled frames.
func (a *App) watchdog(done <-chan error) error {
	timeout := a.cfg.Debug.Watchdog
	var tick <-chan time.Time
	if timeout > 0 {
		t := time.NewTicker(timeout)
		defer t.Stop()
		tick = t.C
	}

	for {
		select {
		case err := <-done:
			a.healthy.Store(false)
			if err != nil {
				a.log.Error("render thread failed", zap.Error(err))
			}
			return err
		case <-tick:
			since := time.Since(time.Unix(0, a.lastFrame.Load()))
			if since > timeout {
				a.log.Warn("render thread stalled", zap.Duration("since_last_frame", since))
			}
		}
	}
}

// render is the render goroutine. It owns the GL context until it returns.
func (a *App) render(stop <-chan struct{}) (err error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("render thread panic: %v", r)
		}
	}()

	if err := a.window.MakeCurrent(); err != nil {
		return err
	}
	defer func() {
		if err := a.window.ReleaseContext(); err != nil {
			a.log.Warn("release GL context", zap.Error(err))
		}
	}()

	loop, err := newRenderLoop(a.cfg, a.width, a.height)
	if err != nil {
		return errors.Wrap(err, "render setup")
	}
	defer loop.close()

	start := time.Now()
	last := start
	frames := 0
	fpsTimer := start

	a.log.Info("render loop started")
	for {
		select {
		case <-stop:
			a.log.Info("render loop stopped")
			return nil
		default:
		}

		now := time.Now()
		in := a.sample(now.Sub(last).Seconds(), now.Sub(start).Seconds())
		last = now

		if err := loop.step(in); err != nil {
			return err
		}
		if a.audio != nil {
			a.audio.SetLevel(loop.rotor.Level())
		}
		a.window.SwapBuffers()
		a.lastFrame.Store(time.Now().UnixNano())

		frames++
		if time.Since(fpsTimer) >= time.Second {
			a.log.Debug("fps", zap.Int("count", frames), zap.Duration("dt", now.Sub(fpsTimer)/time.Duration(frames)))
			frames = 0
			fpsTimer = time.Now()
		}
	}
}

// sample collects this frame's input from the shared state. Held keys
// persist; mouse motion and pressed keys are consumed.
func (a *App) sample(dt, elapsed float64) frameInput {
	in := frameInput{dt: dt, elapsed: elapsed}
	in.width, in.height, in.resized = a.state.Viewport.Take()
	in.actions = Actions(a.state.Keys.TakePressed())
	in.move = MovementFor(a.state.Keys.Snapshot())
	in.dx, in.dy, in.wheel = a.state.Mouse.Take()
	return in
}

// Close releases the audio device and the window.
func (a *App) Close() {
	if a.audio != nil {
		a.audio.Close()
	}
	if a.window != nil {
		a.window.Close()
	}
}
