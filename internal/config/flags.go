package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagWindowed   = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth      = flag.Int("width", 0, "Window width")
	flagHeight     = flag.Int("height", 0, "Window height")
	flagDumpScene  = flag.Bool("dump-scene", false, "Print the scene graph after the first frame")
	flagHelis      = flag.Int("helicopters", -1, "Number of helicopters")
	flagScale      = flag.Bool("apply-scale", false, "Compose node scale into transforms")
	flagHotReload  = flag.Bool("hot-reload", false, "Reload shaders when their files change")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagWindowed {
		cfg.Window.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Window.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Window.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Window.Height = *flagHeight
	}
	if *flagDumpScene {
		cfg.Debug.DumpScene = true
	}
	if *flagHelis >= 0 {
		cfg.Scene.HelicopterCount = *flagHelis
	}
	if *flagScale {
		cfg.Scene.ApplyScale = true
	}
	if *flagHotReload {
		cfg.Shaders.HotReload = true
	}
}
