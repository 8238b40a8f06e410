// Package config gathers gptoss settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mattn/go-shellwords"
)

// Environment keys.
const (
	EnvContainer         = "GPTOSS_CONTAINER"
	EnvModel             = "GPTOSS_MODEL"
	EnvRunFlags          = "GPTOSS_RUN_FLAGS"
	EnvLogLevel          = "GPTOSS_LOG_LEVEL"
	EnvHost              = "OLLAMA_HOST"
	EnvPort              = "OLLAMA_PORT"
	EnvVolume            = "OLLAMA_VOLUME"
	EnvControllerVersion = "OLLAMA_CONTROLLER_VERSION"
	EnvControllerVariant = "OLLAMA_CONTROLLER_VARIANT"
)

// DefaultEnvFile is read from the working directory when present.
const DefaultEnvFile = ".env"

// Defaults.
const (
	DefaultContainer = "ollama"
	DefaultHost      = "127.0.0.1"
	DefaultPort      = 11434
	DefaultVolume    = "ollama"
)

// Config holds the resolved settings.
type Config struct {
	Container string
	// Model is used when no identifier is given on the command line and
	// prompting is disabled.
	Model    string
	RunFlags []string
	LogLevel string

	Host   string
	Port   int
	Volume string

	ImageVersion string
	// ImageVariant overrides GPU-based image variant detection when set.
	ImageVariant *string
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Container: DefaultContainer,
		Host:      DefaultHost,
		Port:      DefaultPort,
		Volume:    DefaultVolume,
	}
}

// Load seeds the process environment from envFile, without overriding
// variables that are already set, then reads the configuration. A missing
// envFile is not an error.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("loading %s: %w", envFile, err)
		}
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv reads the configuration through lookup.
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	if v, ok := get(EnvContainer); ok {
		cfg.Container = v
	}
	if v, ok := get(EnvModel); ok {
		cfg.Model = v
	}
	if v, ok := get(EnvLogLevel); ok {
		cfg.LogLevel = v
	}
	if v, ok := get(EnvRunFlags); ok {
		flags, err := shellwords.Parse(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", EnvRunFlags, err)
		}
		cfg.RunFlags = flags
	}
	if v, ok := get(EnvHost); ok {
		host, port, err := ParseHost(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", EnvHost, err)
		}
		if host != "" {
			cfg.Host = host
		}
		// OLLAMA_PORT, read below, still wins over a port given here.
		if port != 0 {
			cfg.Port = port
		}
	}
	if v, ok := get(EnvPort); ok {
		port, err := ParsePort(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", EnvPort, err)
		}
		cfg.Port = port
	}
	if v, ok := get(EnvVolume); ok {
		cfg.Volume = v
	}
	if v, ok := get(EnvControllerVersion); ok {
		cfg.ImageVersion = v
	}
	// An explicitly empty variant is meaningful: it selects the base image.
	if v, ok := lookup(EnvControllerVariant); ok {
		v = strings.TrimSpace(v)
		cfg.ImageVariant = &v
	}
	return cfg, nil
}

// ParsePort validates a TCP port number.
func ParsePort(s string) (int, error) {
	port, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("port %q is not a number", s)
	}
	if port < 1 || port > 65535 {
		return 0, fmt.Errorf("port %d out of range", port)
	}
	return port, nil
}

// ParseHost splits an OLLAMA_HOST value into host and port. The value may
// be a bare host, host:port, or a URL such as http://0.0.0.0:11434. Port is
// 0 when the value carries none.
func ParseHost(s string) (string, int, error) {
	s = strings.TrimSpace(s)
	if _, rest, ok := strings.Cut(s, "://"); ok {
		s = rest
	}
	s, _, _ = strings.Cut(s, "/")

	host, portStr, err := net.SplitHostPort(s)
	if err != nil {
		return strings.Trim(s, "[]"), 0, nil
	}
	port, err := ParsePort(portStr)
	if err != nil {
		return "", 0, err
	}
	return host, port, nil
}

// SplitRunFlags shell-splits a --run-flags value.
func SplitRunFlags(s string) ([]string, error) {
	return shellwords.Parse(s)
}
