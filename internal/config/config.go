package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Defaults matching the production deployment.
const (
	DefaultPort          = 5000
	DefaultMaxUpload     = 10 << 30 // 10 GiB request body ceiling
	DefaultChunkSize     = 1 << 20  // 1 MiB download chunks
	DefaultMaxConcurrent = 8
)

// Config is intentionally small and YAML-friendly.
type Config struct {
	// Root is the shared folder. Default: ~/Downloads/PhoneTransfer.
	Root string `yaml:"root"`

	// Port is the HTTP listen port.
	Port int `yaml:"port"`

	// MaxUploadBytes caps the request body accepted by the upload endpoint.
	MaxUploadBytes int64 `yaml:"max_upload_bytes"`

	// ChunkSizeBytes bounds per-connection memory on the download path.
	ChunkSizeBytes int64 `yaml:"chunk_size_bytes"`

	// MaxConcurrent bounds in-flight requests across all endpoints.
	MaxConcurrent int `yaml:"max_concurrent"`
}

// Load reads an optional YAML config file, applies QUICKDROP_* environment
// overrides, and fills remaining zero values with defaults. An empty path
// skips the file entirely.
func Load(path string) (Config, error) {
	var c Config
	if path == "" {
		path = os.Getenv("QUICKDROP_CONFIG")
	}
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, err
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return Config{}, err
		}
	}
	if v := os.Getenv("QUICKDROP_ROOT"); v != "" {
		c.Root = v
	}
	c.ApplyDefaults()
	return c, nil
}

// ApplyDefaults fills zero values in place.
func (c *Config) ApplyDefaults() {
	if c.Root == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		c.Root = filepath.Join(home, "Downloads", "PhoneTransfer")
	}
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.MaxUploadBytes == 0 {
		c.MaxUploadBytes = DefaultMaxUpload
	}
	if c.ChunkSizeBytes == 0 {
		c.ChunkSizeBytes = DefaultChunkSize
	}
	if c.MaxConcurrent == 0 {
		c.MaxConcurrent = DefaultMaxConcurrent
	}
}
