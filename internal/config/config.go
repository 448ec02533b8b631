package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Recognizer tunes the session manager and classifier adapter.
type Recognizer struct {
	// WindowLength is the number of frames per classification window. The
	// shipped model contract is 10; change it only with a matching model.
	WindowLength        int     `toml:"window_length"`
	ConfidenceThreshold float64 `toml:"confidence_threshold"`
	VoteSize            int     `toml:"vote_size"`
	ResetVotesOnEnd     bool    `toml:"reset_votes_on_end"`
}

// Model selects the classifier. An empty Path builds a template model from
// captured sessions.
type Model struct {
	Path              string  `toml:"path"`
	TemplateTolerance float64 `toml:"template_tolerance"`
}

// Export configures where labelled sessions are written.
type Export struct {
	Dir   string `toml:"dir"`
	Width int    `toml:"width"`
}

// Store configures the SQLite catalogue.
type Store struct {
	DBPath string `toml:"db_path"`
}

// Camera configures the frame source and session timing.
type Camera struct {
	Device              string `toml:"device"`
	FPS                 int    `toml:"fps"`
	IdleTimeoutMS       int    `toml:"idle_timeout_ms"`
	EndSessionOnGesture bool   `toml:"end_session_on_gesture"`
}

// Detector configures the MediaPipe subprocess.
type Detector struct {
	Script   string `toml:"script"`
	Python   string `toml:"python"`
	MaxHands int    `toml:"max_hands"`
}

// Plugins configures plugin discovery and execution.
type Plugins struct {
	Dir       string `toml:"dir"`
	TimeoutMS int    `toml:"timeout_ms"`
}

// Server configures the HTTP control surface.
type Server struct {
	Addr      string `toml:"addr"`
	StaticDir string `toml:"static_dir"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for mudra.
type Config struct {
	Recognizer Recognizer `toml:"recognizer"`
	Model      Model      `toml:"model"`
	Export     Export     `toml:"export"`
	Store      Store      `toml:"store"`
	Camera     Camera     `toml:"camera"`
	Detector   Detector   `toml:"detector"`
	Plugins    Plugins    `toml:"plugins"`
	Server     Server     `toml:"server"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/mudra/config.toml")
}

// Load locates, parses, and validates a configuration file. It returns the
// config, the resolved path and whether that file existed.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("mudra.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the export directory and the database parent.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Export.Dir, filepath.Dir(c.Store.DBPath)} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// IdleTimeout returns the idle session timeout. Zero disables it.
func (c *Config) IdleTimeout() time.Duration {
	return time.Duration(c.Camera.IdleTimeoutMS) * time.Millisecond
}

// PluginTimeout returns the per-action plugin timeout.
func (c *Config) PluginTimeout() time.Duration {
	return time.Duration(c.Plugins.TimeoutMS) * time.Millisecond
}

// Encode renders the config as TOML.
func (c *Config) Encode() ([]byte, error) {
	return toml.Marshal(c)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
