// Package config loads service settings from the environment; main lets
// command line flags override them.
package config

import (
	"flag"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Addr     string `env:"NEWS_ADDR" envDefault:":3333"`
	DiagAddr string `env:"NEWS_DIAG_ADDR" envDefault:":9999"`
	Routes   bool   `env:"NEWS_ROUTES"`
	Debug    bool   `env:"NEWS_DEBUG"`

	// DB is a database url, see github.com/xo/dburl.
	DB string `env:"NEWS_DB" envDefault:"sqlite3:news.sqlite3?_busy_timeout=10000&_journal=WAL&_sync=NORMAL"`

	// RequireDeletePermission gates deletion on news.delete_article.
	// Off by default.
	RequireDeletePermission bool `env:"NEWS_REQUIRE_DELETE_PERMISSION"`

	SessionLifetime    time.Duration `env:"NEWS_SESSION_LIFETIME" envDefault:"720h"`
	SessionIdleTimeout time.Duration `env:"NEWS_SESSION_IDLE_TIMEOUT" envDefault:"12h"`
	SecureCookie       bool          `env:"NEWS_SECURE_COOKIE"`
}

// Load reads the configuration from environment variables.
func Load() (Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return c, fmt.Errorf("parse env: %w", err)
	}
	return c, nil
}

// RegisterFlags binds the serving flags to c; current values become the defaults.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.Routes, "routes", c.Routes, "Generate router documentation")
	fs.StringVar(&c.Addr, "addr", c.Addr, "application port")
	fs.StringVar(&c.DiagAddr, "diag_addr", c.DiagAddr, "diag port")
	fs.StringVar(&c.DB, "db", c.DB, "sql database url, see github.com/xo/dburl")
	fs.BoolVar(&c.Debug, "debug", c.Debug, "development logging")
	fs.BoolVar(&c.RequireDeletePermission, "require_delete_permission", c.RequireDeletePermission, "require news.delete_article to delete articles")
}
