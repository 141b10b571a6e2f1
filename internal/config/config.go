// Package config handles heliscene configuration loading and management.
package config

import (
	"fmt"
	"time"
)

// Config holds all runtime settings.
type Config struct {
	Window  WindowConfig  `yaml:"window"`
	Camera  CameraConfig  `yaml:"camera"`
	Scene   SceneConfig   `yaml:"scene"`
	Shaders ShaderConfig  `yaml:"shaders"`
	Audio   AudioConfig   `yaml:"audio"`
	Debug   DebugConfig   `yaml:"debug"`
	Logging LoggingConfig `yaml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Title      string     `yaml:"title"`
	Width      int        `yaml:"width"`
	Height     int        `yaml:"height"`
	Fullscreen bool       `yaml:"fullscreen"`
	VSync      bool       `yaml:"vsync"`
	ClearColor [4]float32 `yaml:"clear_color"`
	CullFaces  bool       `yaml:"cull_faces"`
}

// CameraConfig holds free camera settings. FOV is the vertical field of
// view in degrees.
type CameraConfig struct {
	FOV        float32    `yaml:"fov"`
	Near       float32    `yaml:"near"`
	Far        float32    `yaml:"far"`
	MoveSpeed  float32    `yaml:"move_speed"`
	LookSpeed  float32    `yaml:"look_speed"`
	Start      [3]float32 `yaml:"start"`
	FixedRatio float32    `yaml:"fixed_aspect"` // 0 follows the window
}

// SceneConfig describes the models and how they are animated. A rotor
// pivot left at zero uses the center of the rotor mesh.
type SceneConfig struct {
	Terrain         string     `yaml:"terrain"`
	Helicopter      string     `yaml:"helicopter"`
	HelicopterCount int        `yaml:"helicopter_count"`
	ApplyScale      bool       `yaml:"apply_scale"`
	Animate         bool       `yaml:"animate"`
	Altitude        float32    `yaml:"altitude"`
	Spacing         float32    `yaml:"spacing"` // seconds between helicopters on the path
	MainRotorPivot  [3]float32 `yaml:"main_rotor_pivot"`
	TailRotorPivot  [3]float32 `yaml:"tail_rotor_pivot"`
	RotorSpeed      float32    `yaml:"rotor_speed"` // main rotor, radians per second
	Light           [3]float32 `yaml:"light"`
	MaxDepth        int        `yaml:"max_depth"`
}

// ShaderConfig points at GLSL sources. Empty paths use the built-in shaders.
type ShaderConfig struct {
	Vertex    string `yaml:"vertex"`
	Fragment  string `yaml:"fragment"`
	HotReload bool   `yaml:"hot_reload"`
}

// AudioConfig holds the rotor sound settings.
type AudioConfig struct {
	Enabled    bool    `yaml:"enabled"`
	RotorSound string  `yaml:"rotor_sound"` // WAV file, looped
	Volume     float64 `yaml:"volume"`
}

// DebugConfig holds diagnostics settings.
type DebugConfig struct {
	ScreenshotDir    string        `yaml:"screenshot_dir"`
	ScreenshotFormat string        `yaml:"screenshot_format"` // png or bmp
	DumpScene        bool          `yaml:"dump_scene"`
	ErrorDialog      bool          `yaml:"error_dialog"`
	Watchdog         time.Duration `yaml:"watchdog"` // render stall timeout, 0 disables
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	LogFile    string `yaml:"log_file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:      "heliscene",
			Width:      800,
			Height:     800,
			VSync:      true,
			ClearColor: [4]float32{0.163, 0.163, 0.163, 1.0},
		},
		Camera: CameraConfig{
			FOV:       90,
			Near:      0.1,
			Far:       50000,
			MoveSpeed: 100,
			LookSpeed: 0.001,
		},
		Scene: SceneConfig{
			Terrain:         "resources/lunarsurface.obj",
			Helicopter:      "resources/helicopter.obj",
			HelicopterCount: 1,
			Animate:         true,
			Altitude:        10,
			Spacing:         0.75,
			MainRotorPivot:  [3]float32{0, 0, 0},
			TailRotorPivot:  [3]float32{0.35, 2.3, 10.4},
			RotorSpeed:      20,
			Light:           [3]float32{3000, 1000, 0},
			MaxDepth:        1024,
		},
		Audio: AudioConfig{
			Volume: 0.6,
		},
		Debug: DebugConfig{
			ScreenshotDir:    "screenshots",
			ScreenshotFormat: "png",
			Watchdog:         5 * time.Second,
		},
		Logging: LoggingConfig{
			Level:      "info",
			MaxSizeMB:  20,
			MaxBackups: 3,
			MaxAgeDays: 7,
			Compress:   true,
		},
	}
}

// Validate rejects settings the renderer cannot start with.
func (c *Config) Validate() error {
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	case c.Camera.FOV <= 0 || c.Camera.FOV >= 180:
		return fmt.Errorf("camera fov %.1f must be between 0 and 180 degrees", c.Camera.FOV)
	case c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near:
		return fmt.Errorf("camera clip planes near=%g far=%g are invalid", c.Camera.Near, c.Camera.Far)
	case c.Scene.HelicopterCount < 0:
		return fmt.Errorf("helicopter_count %d must not be negative", c.Scene.HelicopterCount)
	case c.Scene.MaxDepth <= 0:
		return fmt.Errorf("max_depth %d must be positive", c.Scene.MaxDepth)
	case c.Debug.ScreenshotFormat != "png" && c.Debug.ScreenshotFormat != "bmp":
		return fmt.Errorf("screenshot_format %q must be png or bmp", c.Debug.ScreenshotFormat)
	case c.Audio.Enabled && c.Audio.RotorSound == "":
		return fmt.Errorf("audio enabled without rotor_sound")
	}
	return nil
}
