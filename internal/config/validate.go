package config

import (
	"errors"
	"fmt"
)

// maxFeatureWidth is the length of the joint-angle feature vector.
const maxFeatureWidth = 24

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateRecognizer(); err != nil {
		return err
	}
	if err := c.validateModel(); err != nil {
		return err
	}
	if err := c.validateExport(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateRecognizer() error {
	if c.Recognizer.WindowLength < 1 {
		return errors.New("recognizer.window_length must be at least 1")
	}
	if c.Recognizer.ConfidenceThreshold <= 0 || c.Recognizer.ConfidenceThreshold > 1 {
		return errors.New("recognizer.confidence_threshold must be in (0, 1]")
	}
	if c.Recognizer.VoteSize < 1 {
		return errors.New("recognizer.vote_size must be at least 1")
	}
	return nil
}

func (c *Config) validateModel() error {
	if c.Model.Path == "" && c.Model.TemplateTolerance <= 0 {
		return errors.New("model.template_tolerance must be positive when no model path is set")
	}
	return nil
}

func (c *Config) validateExport() error {
	if c.Export.Width < 1 || c.Export.Width > maxFeatureWidth {
		return fmt.Errorf("export.width must be between 1 and %d", maxFeatureWidth)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
		return nil
	default:
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}
}
