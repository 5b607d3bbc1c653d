package config

import "errors"

// Config is the top-level configuration struct.  All fields have safe
// defaults so callers can start with Config{} and override only what they
// need.
type Config struct {
	// SearchPath is the default plugin search path, a list of directories
	// separated by the platform path-list separator.  Callers may override
	// it per resolution call.
	SearchPath string

	// DisableEnvPath ignores the IMAGEIO_LIBRARY_PATH environment override.
	DisableEnvPath bool

	// EnableBuiltins registers the bundled jpeg/png/webp codecs at
	// construction time.  Disable it to let plugins (or the vips backend)
	// claim those format names instead.
	EnableBuiltins bool

	// DefaultQuality is applied by builtin encoders when a caller passes
	// EncodeOptions with Quality 0.  1-100; default 85.
	DefaultQuality int

	// LogLevel for the shipped logger: "debug", "info", "warn", "error".
	LogLevel string
}

// Default returns a Config populated with sensible production defaults.
func Default() Config {
	return Config{
		EnableBuiltins: true,
		DefaultQuality: 85,
		LogLevel:       "info",
	}
}

// Validate returns an error if the configuration is inconsistent.
func Validate(c Config) error {
	if c.DefaultQuality < 1 || c.DefaultQuality > 100 {
		return errors.New("config: DefaultQuality must be between 1 and 100")
	}
	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return errors.New("config: LogLevel must be one of debug, info, warn, error")
	}
	return nil
}
