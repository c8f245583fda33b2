package manifest

import "time"

// Config is the top-level manifest. Every section is optional; normalize
// fills in defaults.
type Config struct {
	Server  Server       `toml:"server"`
	Log     Log          `toml:"log"`
	Metrics Metrics      `toml:"metrics"`
	Buttons []ButtonSpec `toml:"button"`
}

type Server struct {
	Listen            string `toml:"listen"`
	Title             string `toml:"title"`
	ReadTimeoutMS     int    `toml:"read_timeout_ms"`
	WriteTimeoutMS    int    `toml:"write_timeout_ms"`
	IdleTimeoutMS     int    `toml:"idle_timeout_ms"`
	ShutdownTimeoutMS int    `toml:"shutdown_timeout_ms"`
	MaxBodyBytes      int64  `toml:"max_body_bytes"`
	CertFile          string `toml:"cert_file"`
	KeyFile           string `toml:"key_file"`
}

type Log struct {
	Dir        string   `toml:"dir"`
	SystemFile string   `toml:"system_file"`
	AccessFile string   `toml:"access_file"`
	Level      string   `toml:"level"`
	Console    *bool    `toml:"console"`
	MaxSizeMB  int      `toml:"max_size_mb"`
	MaxBackups int      `toml:"max_backups"`
	MaxAgeDays int      `toml:"max_age_days"`
	BodyPaths  []string `toml:"body_paths"` // request bodies are logged only on these paths
}

type Metrics struct {
	Enabled *bool  `toml:"enabled"`
	Path    string `toml:"path"`
}

// ButtonSpec declares a button whose handler is looked up by name at bind time.
type ButtonSpec struct {
	Name    string   `toml:"name"`
	Handler string   `toml:"handler"`
	Prompts []string `toml:"prompts"`
}

const (
	DefaultListen = ":3000"
	DefaultTitle  = "BTNify"
)

// Default returns a normalized Config with no buttons.
func Default() Config {
	var c Config
	c.normalize()
	return c
}

func (s Server) ReadTimeout() time.Duration     { return ms(s.ReadTimeoutMS) }
func (s Server) WriteTimeout() time.Duration    { return ms(s.WriteTimeoutMS) }
func (s Server) IdleTimeout() time.Duration     { return ms(s.IdleTimeoutMS) }
func (s Server) ShutdownTimeout() time.Duration { return ms(s.ShutdownTimeoutMS) }

// ConsoleEnabled reports whether logs are mirrored to stdout.
// TLS reports whether both a certificate and a key are configured.
func (s Server) TLS() bool { return s.CertFile != "" && s.KeyFile != "" }

func (l Log) ConsoleEnabled() bool { return l.Console == nil || *l.Console }

// IsEnabled reports whether the /metrics endpoint is served.
func (m Metrics) IsEnabled() bool { return m.Enabled == nil || *m.Enabled }

func ms(v int) time.Duration { return time.Duration(v) * time.Millisecond }
