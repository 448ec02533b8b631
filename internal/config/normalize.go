package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeCamera()
	c.normalizeDetector()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Export.Dir) == "" {
		c.Export.Dir = defaultExportDir
	}
	if c.Export.Dir, err = expandPath(c.Export.Dir); err != nil {
		return fmt.Errorf("export.dir: %w", err)
	}
	if strings.TrimSpace(c.Store.DBPath) == "" {
		c.Store.DBPath = defaultDBPath
	}
	if c.Store.DBPath, err = expandPath(c.Store.DBPath); err != nil {
		return fmt.Errorf("store.db_path: %w", err)
	}
	if strings.TrimSpace(c.Plugins.Dir) == "" {
		c.Plugins.Dir = defaultPluginDir
	}
	if c.Plugins.Dir, err = expandPath(c.Plugins.Dir); err != nil {
		return fmt.Errorf("plugins.dir: %w", err)
	}
	if c.Model.Path, err = expandPath(strings.TrimSpace(c.Model.Path)); err != nil {
		return fmt.Errorf("model.path: %w", err)
	}
	if c.Detector.Script, err = expandPath(strings.TrimSpace(c.Detector.Script)); err != nil {
		return fmt.Errorf("detector.script: %w", err)
	}
	if c.Server.StaticDir, err = expandPath(strings.TrimSpace(c.Server.StaticDir)); err != nil {
		return fmt.Errorf("server.static_dir: %w", err)
	}
	c.Server.Addr = strings.TrimSpace(c.Server.Addr)
	if c.Server.Addr == "" {
		c.Server.Addr = defaultServerAddr
	}
	return nil
}

func (c *Config) normalizeCamera() {
	c.Camera.Device = strings.TrimSpace(c.Camera.Device)
	if c.Camera.Device == "" {
		c.Camera.Device = defaultCameraDevice
	}
	if c.Camera.FPS <= 0 {
		c.Camera.FPS = defaultCameraFPS
	}
	if c.Camera.IdleTimeoutMS < 0 {
		c.Camera.IdleTimeoutMS = 0
	}
	if c.Plugins.TimeoutMS <= 0 {
		c.Plugins.TimeoutMS = defaultPluginTimeoutMS
	}
}

func (c *Config) normalizeDetector() {
	c.Detector.Python = strings.TrimSpace(c.Detector.Python)
	if c.Detector.MaxHands <= 0 {
		c.Detector.MaxHands = defaultMaxHands
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "auto":
		c.Logging.Format = "auto"
	case "console", "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
