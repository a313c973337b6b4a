// Package game parses game server flags and starts the runtime.
package game

import (
	"flag"
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds game server configuration. Environment variables provide
// defaults; flags override.
type Config struct {
	Port          int    `env:"SULTANATE_PORT" envDefault:"8080"`
	Addr          string `env:"SULTANATE_ADDR"`
	ContentDir    string `env:"SULTANATE_CONTENT_DIR" envDefault:"content"`
	StorageDriver string `env:"SULTANATE_STORAGE_DRIVER" envDefault:"bbolt"`
	StoragePath   string `env:"SULTANATE_STORAGE_PATH" envDefault:"sultanate.db"`
	LogLevel      string `env:"SULTANATE_LOG_LEVEL" envDefault:"info"`
}

// ListenAddr returns the address to bind: Addr verbatim when set,
// otherwise the port on all interfaces.
func (c Config) ListenAddr() string {
	if c.Addr != "" {
		return c.Addr
	}
	return fmt.Sprintf(":%d", c.Port)
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The game server port")
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "The game server listen address (overrides -port)")
	fs.StringVar(&cfg.ContentDir, "content", cfg.ContentDir, "Directory holding card and scene definitions")
	fs.StringVar(&cfg.StorageDriver, "storage", cfg.StorageDriver, "Save store driver: bbolt or sqlite")
	fs.StringVar(&cfg.StoragePath, "storage-path", cfg.StoragePath, "Save store file path")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: trace, debug, info, warn, error")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
