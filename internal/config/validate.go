package config

import (
	"errors"
	"fmt"
	"math"
)

var supportedStaticFormats = map[string]struct{}{
	"webp": {},
	"png":  {},
	"jpg":  {},
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePreview(); err != nil {
		return err
	}
	if err := c.validateStatic(); err != nil {
		return err
	}
	if err := c.validateTools(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePreview() error {
	if c.Preview.ClipCount <= 0 {
		return errors.New("preview.clip_count must be positive")
	}
	if c.Preview.TotalDuration <= 0 || math.IsNaN(c.Preview.TotalDuration) || math.IsInf(c.Preview.TotalDuration, 0) {
		return errors.New("preview.total_duration must be a positive number of seconds")
	}
	if c.Preview.ScaleWidth <= 0 {
		return errors.New("preview.scale_width must be positive")
	}
	switch c.Preview.Profile {
	case ProfileQuality, ProfileSize:
	default:
		return fmt.Errorf("preview.profile: unsupported value %q (use %q or %q)", c.Preview.Profile, ProfileQuality, ProfileSize)
	}
	if c.Preview.Profile == ProfileSize && c.Preview.FrameRate <= 0 {
		return errors.New("preview.frame_rate must be positive for the size profile")
	}
	return nil
}

func (c *Config) validateStatic() error {
	switch c.Static.Strategy {
	case StrategyCodec, StrategyDecode:
	default:
		return fmt.Errorf("static.strategy: unsupported value %q (use %q or %q)", c.Static.Strategy, StrategyCodec, StrategyDecode)
	}
	for _, f := range c.Static.Formats {
		if _, ok := supportedStaticFormats[f]; !ok {
			return fmt.Errorf("static.formats: unsupported format %q", f)
		}
	}
	if c.Static.JPEGQuality < 1 || c.Static.JPEGQuality > 100 {
		return errors.New("static.jpeg_quality must be between 1 and 100")
	}
	return nil
}

func (c *Config) validateTools() error {
	if c.Tools.TimeoutSeconds < 0 {
		return errors.New("tools.timeout_seconds must not be negative")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	return nil
}
