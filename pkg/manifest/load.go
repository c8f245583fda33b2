package manifest

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

const (
	ManifestEnv     = "BTNIFY_MANIFEST"
	ListenEnv       = "BTNIFY_LISTEN_ADDRESS"
	TLSCertEnv      = "SSL_SERVER_CERTIFICATE"
	TLSKeyEnv       = "SSL_SERVER_KEY"
	DefaultManifest = "btnify.toml"
)

// Load reads and validates a TOML manifest.
func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	return Parse(b)
}

// Parse decodes and validates manifest bytes.
func Parse(b []byte) (Config, error) {
	var cfg Config
	if err := toml.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode manifest: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFromEnv loads .env when present, then the manifest named by
// BTNIFY_MANIFEST. A missing default manifest yields Default(); a missing
// manifest that was named explicitly is an error. BTNIFY_LISTEN_ADDRESS
// overrides server.listen; SSL_SERVER_CERTIFICATE and SSL_SERVER_KEY override
// the TLS pair.
func LoadFromEnv() (Config, error) {
	// .env is optional; the environment may already be set.
	_ = godotenv.Load()

	path := strings.TrimSpace(os.Getenv(ManifestEnv))
	explicit := path != ""
	if !explicit {
		path = DefaultManifest
	}

	cfg, err := Load(path)
	switch {
	case err == nil:
	case !explicit && errors.Is(err, fs.ErrNotExist):
		cfg = Default()
	default:
		return Config{}, fmt.Errorf("manifest %s: %w", path, err)
	}

	if v := strings.TrimSpace(os.Getenv(ListenEnv)); v != "" {
		cfg.Server.Listen = v
	}
	if v := strings.TrimSpace(os.Getenv(TLSCertEnv)); v != "" {
		cfg.Server.CertFile = v
	}
	if v := strings.TrimSpace(os.Getenv(TLSKeyEnv)); v != "" {
		cfg.Server.KeyFile = v
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
