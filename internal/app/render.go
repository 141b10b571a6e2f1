package app

import (
	"os"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Faultbox/heliscene/internal/config"
	"github.com/Faultbox/heliscene/internal/engine/camera"
	"github.com/Faultbox/heliscene/internal/engine/debug"
	"github.com/Faultbox/heliscene/internal/engine/mesh"
	"github.com/Faultbox/heliscene/internal/engine/renderer"
	"github.com/Faultbox/heliscene/internal/engine/shader"
	"github.com/Faultbox/heliscene/internal/logger"
	"github.com/Faultbox/heliscene/pkg/scenegraph"
)

// renderLoop holds everything owned by the render goroutine. None of it
// may be touched from another goroutine.
type renderLoop struct {
	cfg      *config.Config
	log      *zap.Logger
	renderer *renderer.Renderer
	program  *shader.Program
	watcher  *shader.Watcher
	scene    *Scene
	viewer   *Viewer
	rotor    *RotorSpin
	shots    *debug.ScreenshotCapture

	dumped bool
}

// newRenderLoop loads every resource. The GL context must be current.
func newRenderLoop(cfg *config.Config, width, height int) (_ *renderLoop, err error) {
	l := &renderLoop{
		cfg:   cfg,
		log:   logger.Named("render"),
		rotor: NewRotorSpin(float64(cfg.Scene.RotorSpeed)),
		shots: debug.NewScreenshotCapture(cfg.Debug.ScreenshotDir, "heliscene", debug.Format(cfg.Debug.ScreenshotFormat)),
	}
	defer func() {
		if err != nil {
			l.close()
		}
	}()

	l.renderer, err = renderer.New(renderer.Config{
		Width:      width,
		Height:     height,
		ClearColor: cfg.Window.ClearColor,
		CullFaces:  cfg.Window.CullFaces,
	})
	if err != nil {
		return nil, err
	}

	src := shader.Source{VertexPath: cfg.Shaders.Vertex, FragmentPath: cfg.Shaders.Fragment}
	l.program, err = shader.LoadProgram(src)
	if err != nil {
		return nil, err
	}
	l.renderer.SetProgram(l.program)
	if cfg.Shaders.HotReload && !src.Embedded() {
		l.watcher, err = shader.Watch([]string{src.VertexPath, src.FragmentPath}, func(path string) {
			l.log.Debug("shader changed", zap.String("path", path))
			l.program.MarkStale()
		})
		if err != nil {
			l.log.Warn("shader hot reload disabled", zap.Error(err))
			err = nil
		}
	}

	assets, err := l.loadAssets()
	if err != nil {
		return nil, err
	}

	policy := scenegraph.ScaleIgnored
	if cfg.Scene.ApplyScale {
		policy = scenegraph.ScaleAboutPivot
	}
	l.scene, err = BuildScene(assets, SceneOptions{
		Helicopters:    cfg.Scene.HelicopterCount,
		MainRotorPivot: mgl32.Vec3(cfg.Scene.MainRotorPivot),
		TailRotorPivot: mgl32.Vec3(cfg.Scene.TailRotorPivot),
		Altitude:       cfg.Scene.Altitude,
		Spacing:        float64(cfg.Scene.Spacing),
		Animate:        cfg.Scene.Animate,
		Scale:          policy,
		MaxDepth:       cfg.Scene.MaxDepth,
	})
	if err != nil {
		return nil, errors.Wrap(err, "build scene")
	}

	l.viewer = NewViewer(cfg.Camera, cfg.Scene.Light, width, height)
	l.log.Info("scene ready",
		zap.Int("nodes", l.scene.Graph.Len()),
		zap.Int("helicopters", len(l.scene.Helicopters)),
		zap.Stringer("scale", policy),
	)
	return l, nil
}

func (l *renderLoop) loadAssets() (Assets, error) {
	terrain, err := mesh.LoadTerrain(l.cfg.Scene.Terrain)
	if err != nil {
		return Assets{}, err
	}
	heli, err := mesh.LoadHelicopter(l.cfg.Scene.Helicopter)
	if err != nil {
		return Assets{}, err
	}

	var a Assets
	for _, u := range []struct {
		m   *mesh.Mesh
		dst *Part
	}{
		{&terrain, &a.Terrain},
		{&heli.Body, &a.Body},
		{&heli.Door, &a.Door},
		{&heli.MainRotor, &a.MainRotor},
		{&heli.TailRotor, &a.TailRotor},
	} {
		vao, err := l.renderer.UploadMesh(u.m, renderer.LayoutPosColorNormal)
		if err != nil {
			return Assets{}, errors.Wrapf(err, "upload %s", u.m.Name)
		}
		*u.dst = Part{VAO: vao, IndexCount: u.m.IndexCount(), Center: u.m.Center()}
	}
	return a, nil
}

// frameInput is what the render loop samples from the event loop each
// frame.
type frameInput struct {
	dt, elapsed   float64
	actions       []Action
	move          camera.Movement
	dx, dy, wheel float32
	resized       bool
	width, height int
}

// step advances the simulation and draws one frame into the back buffer.
func (l *renderLoop) step(in frameInput) error {
	if in.resized {
		l.renderer.Resize(in.width, in.height)
		l.viewer.Resize(in.width, in.height)
	}
	for _, a := range in.actions {
		l.handle(a)
	}

	l.viewer.Step(float32(in.dt), in.move, in.dx, in.dy, in.wheel, l.scene.Leader())
	l.rotor.Update(in.dt)
	l.scene.Animate(in.elapsed, l.rotor.Angle(), l.rotor.TailAngle())

	if reloaded, err := l.program.ReloadIfStale(); err != nil {
		l.log.Warn("shader reload failed, keeping previous program", zap.Error(err))
	} else if reloaded {
		l.log.Info("shader reloaded")
	}

	g := l.scene.Graph
	if err := g.Update(l.scene.Root); err != nil {
		return errors.Wrap(err, "propagate transforms")
	}
	l.renderer.Begin()
	stats, err := g.Draw(l.scene.Root, l.viewer.Frame(), l.renderer)
	l.renderer.End()
	if err != nil {
		return errors.Wrap(err, "draw scene")
	}
	if err := renderer.CheckError("draw scene"); err != nil {
		l.log.Warn("gl error", zap.Error(err))
	}

	if l.cfg.Debug.DumpScene && !l.dumped {
		l.dumped = true
		l.dump()
	}
	if in.wantScreenshot() {
		l.screenshot()
	}
	l.log.Debug("frame", zap.Int("draws", stats.DrawCalls), zap.Int64("indices", stats.Indices))
	return nil
}

func (in frameInput) wantScreenshot() bool {
	for _, a := range in.actions {
		if a == ActionScreenshot {
			return true
		}
	}
	return false
}

func (l *renderLoop) handle(a Action) {
	switch a {
	case ActionToggleRotor:
		l.rotor.Toggle()
		l.log.Info("rotor toggled", zap.Bool("running", l.rotor.Running()))
	case ActionToggleCamera:
		l.viewer.ToggleMode()
		l.log.Info("camera mode", zap.Bool("orbit", l.viewer.Orbiting()))
	case ActionDumpScene:
		l.dump()
	}
}

func (l *renderLoop) dump() {
	if err := l.scene.Graph.Dump(os.Stdout, l.scene.Root); err != nil {
		l.log.Warn("scene dump failed", zap.Error(err))
	}
}

func (l *renderLoop) screenshot() {
	w, h := l.renderer.Size()
	start := time.Now()
	path, err := l.shots.Capture(w, h)
	if err != nil {
		l.log.Error("screenshot failed", zap.Error(err))
		return
	}
	l.log.Info("screenshot saved", zap.String("path", path), zap.Duration("took", time.Since(start)))
}

func (l *renderLoop) close() {
	if l.watcher != nil {
		if err := l.watcher.Close(); err != nil {
			l.log.Warn("close shader watcher", zap.Error(err))
		}
	}
	if l.program != nil {
		l.program.Delete()
	}
	if l.renderer != nil {
		l.renderer.Close()
	}
}
