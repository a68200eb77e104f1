// Package config provides the configuration schema and loader for the
// Rattil recitation grading server.
package config

import "github.com/rattil/rattil/pkg/grading"

// LogLevel controls log verbosity for the Rattil server.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// IsValid reports whether l is a recognised log level.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

// Config is the root configuration structure for Rattil.
// It is typically loaded from a YAML file using [Load] or [LoadFromReader].
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Grading GradingConfig `yaml:"grading"`
	CORS    CORSConfig    `yaml:"cors"`
}

// ServerConfig holds network and logging settings for the Rattil server.
type ServerConfig struct {
	// ListenAddr is the TCP address the server listens on (e.g., ":8080").
	ListenAddr string `yaml:"listen_addr"`

	// LogLevel controls verbosity.
	LogLevel LogLevel `yaml:"log_level"`

	// TLS configures TLS for the server. When nil, the server runs plain HTTP.
	TLS *TLSConfig `yaml:"tls"`
}

// TLSConfig holds TLS certificate paths for enabling HTTPS.
type TLSConfig struct {
	// CertFile is the path to the PEM-encoded TLS certificate.
	CertFile string `yaml:"cert_file"`

	// KeyFile is the path to the PEM-encoded TLS private key.
	KeyFile string `yaml:"key_file"`
}

// GradingConfig holds the tunables of the grading endpoint. The scoring
// algorithm itself is not configurable; only the pass verdict and request
// limits are.
type GradingConfig struct {
	// PassThreshold is the minimum grade (percent, in [0,100]) that counts
	// as a passing recitation. Zero means "use the default" (70).
	PassThreshold float64 `yaml:"pass_threshold"`

	// MaxTextBytes caps the size of each text field in a grade request.
	// Zero means "use the default" (16 KiB).
	MaxTextBytes int `yaml:"max_text_bytes"`
}

// CORSConfig controls cross-origin access to the HTTP API.
type CORSConfig struct {
	// AllowedOrigins lists origins permitted to call the API. "*" allows
	// any origin. Empty disables CORS headers entirely.
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// Default values applied by the loader for unset fields.
const (
	DefaultListenAddr   = ":8080"
	DefaultMaxTextBytes = 16 << 10
)

// applyDefaults fills unset fields with their documented defaults.
func (c *Config) applyDefaults() {
	if c.Server.ListenAddr == "" {
		c.Server.ListenAddr = DefaultListenAddr
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = LogInfo
	}
	if c.Grading.PassThreshold == 0 {
		c.Grading.PassThreshold = grading.DefaultPassThreshold
	}
	if c.Grading.MaxTextBytes == 0 {
		c.Grading.MaxTextBytes = DefaultMaxTextBytes
	}
}
