package config

import (
	"strings"

	"dice-reader/internal/video"
)

func (c *Config) normalize() error {
	c.Strategy = strings.ToLower(strings.TrimSpace(c.Strategy))
	if err := c.normalizeOutput(); err != nil {
		return err
	}
	c.normalizeInput()
	c.normalizeLogging()
	c.Pips.Mode = strings.ToLower(strings.TrimSpace(c.Pips.Mode))
	return nil
}

func (c *Config) normalizeOutput() error {
	if dir := strings.TrimSpace(c.Output.Dir); dir != "" {
		expanded, err := expandPath(dir)
		if err != nil {
			return err
		}
		c.Output.Dir = expanded
	}
	c.Output.Codec = strings.TrimSpace(c.Output.Codec)
	if c.Output.Codec == "" {
		c.Output.Codec = video.DefaultCodec
	}
	c.Output.StillFormat = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(c.Output.StillFormat), "."))
	if c.Output.StillFormat == "" {
		c.Output.StillFormat = "png"
	}
	return nil
}

func (c *Config) normalizeInput() {
	videos := c.Input.Videos[:0]
	for _, v := range c.Input.Videos {
		if v = strings.TrimSpace(v); v != "" {
			videos = append(videos, v)
		}
	}
	if len(videos) == 0 {
		videos = append(videos, DefaultVideos...)
	}
	c.Input.Videos = videos
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	c.Logging.File = strings.TrimSpace(c.Logging.File)
}
