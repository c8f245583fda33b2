package manifest

import (
	"errors"
	"fmt"
	"path"
	"strings"
)

// Validate normalizes the config in place and reports the first invalid field.
func (c *Config) Validate() error {
	c.normalize()

	if err := c.Server.validate(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Log.validate(); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	if c.Metrics.IsEnabled() && c.Metrics.Path == "/" {
		return errors.New("metrics: path must not be /")
	}
	for i, b := range c.Buttons {
		if strings.TrimSpace(b.Handler) == "" {
			return fmt.Errorf("button %d (%s): handler required", i, b.Name)
		}
	}
	return nil
}

func (c *Config) normalize() {
	s := &c.Server
	s.Listen = strings.TrimSpace(s.Listen)
	s.CertFile = strings.TrimSpace(s.CertFile)
	s.KeyFile = strings.TrimSpace(s.KeyFile)
	if s.Listen == "" {
		s.Listen = DefaultListen
	}
	if strings.TrimSpace(s.Title) == "" {
		s.Title = DefaultTitle
	}
	if s.ReadTimeoutMS == 0 {
		s.ReadTimeoutMS = 15_000
	}
	if s.WriteTimeoutMS == 0 {
		s.WriteTimeoutMS = 30_000
	}
	if s.IdleTimeoutMS == 0 {
		s.IdleTimeoutMS = 60_000
	}
	if s.ShutdownTimeoutMS == 0 {
		s.ShutdownTimeoutMS = 10_000
	}
	if s.MaxBodyBytes == 0 {
		s.MaxBodyBytes = 1 << 20
	}

	l := &c.Log
	if strings.TrimSpace(l.Dir) == "" {
		l.Dir = "log"
	}
	if l.SystemFile == "" {
		l.SystemFile = "system.log"
	}
	if l.AccessFile == "" {
		l.AccessFile = "http-access.log"
	}
	l.Level = strings.ToLower(strings.TrimSpace(l.Level))
	if l.Level == "" {
		l.Level = "info"
	}
	if l.MaxSizeMB == 0 {
		l.MaxSizeMB = 50
	}
	if l.MaxBackups == 0 {
		l.MaxBackups = 3
	}
	if l.MaxAgeDays == 0 {
		l.MaxAgeDays = 7
	}

	m := &c.Metrics
	m.Path = strings.TrimSpace(m.Path)
	if m.Path == "" {
		m.Path = "/metrics"
	}
	if !strings.HasPrefix(m.Path, "/") {
		m.Path = "/" + m.Path
	}
	m.Path = path.Clean(m.Path)

	for i := range c.Buttons {
		c.Buttons[i].Handler = strings.TrimSpace(c.Buttons[i].Handler)
	}
}

func (s Server) validate() error {
	switch {
	case s.ReadTimeoutMS < 0:
		return errors.New("read_timeout_ms must be >= 0")
	case s.WriteTimeoutMS < 0:
		return errors.New("write_timeout_ms must be >= 0")
	case s.IdleTimeoutMS < 0:
		return errors.New("idle_timeout_ms must be >= 0")
	case s.ShutdownTimeoutMS < 0:
		return errors.New("shutdown_timeout_ms must be >= 0")
	case s.MaxBodyBytes < 0:
		return errors.New("max_body_bytes must be >= 0")
	case (s.CertFile == "") != (s.KeyFile == ""):
		return errors.New("cert_file and key_file must be set together")
	}
	return nil
}

func (l Log) validate() error {
	switch l.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("level %q invalid", l.Level)
	}
	if l.MaxSizeMB < 0 || l.MaxBackups < 0 || l.MaxAgeDays < 0 {
		return errors.New("rotation values must be >= 0")
	}
	return nil
}
