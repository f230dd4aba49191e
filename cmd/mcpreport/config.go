package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/joeshaw/envdecode"
)

// Config for mcpreport. Values are read from the environment first; command
// line flags override them.
type Config struct {
	// Manifest is the capability manifest to load. ENV: MCPREPORT_MANIFEST
	Manifest string `env:"MCPREPORT_MANIFEST"`
	// PageSize is the limit passed to each listing call; 0 lists everything.
	// ENV: MCPREPORT_PAGE_SIZE
	PageSize int `env:"MCPREPORT_PAGE_SIZE,default=0"`
	// LogLevel is an MCP logging level name. ENV: MCPREPORT_LOG_LEVEL
	LogLevel string `env:"MCPREPORT_LOG_LEVEL,default=info"`
	// Server namespaces saved profiles. ENV: MCPREPORT_SERVER
	Server string `env:"MCPREPORT_SERVER,default=default"`
	// Save persists each report as a profile. ENV: MCPREPORT_SAVE
	Save bool `env:"MCPREPORT_SAVE,default=false"`
	// RedisAddr selects Redis profile storage when set, like "localhost:6379".
	// ENV: MCPREPORT_REDIS_ADDR
	RedisAddr string `env:"MCPREPORT_REDIS_ADDR"`
	// ProfileTTL bounds how long saved profiles live. ENV: MCPREPORT_PROFILE_TTL
	ProfileTTL time.Duration `env:"MCPREPORT_PROFILE_TTL,default=24h"`
	// Watch keeps running and re-reports on every manifest change.
	Watch bool
}

func loadConfig(args []string, stderr io.Writer) (Config, error) {
	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return Config{}, fmt.Errorf("decode environment: %w", err)
	}

	fs := flag.NewFlagSet("mcpreport", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&cfg.Manifest, "manifest", cfg.Manifest, "capability manifest (YAML or JSON)")
	fs.IntVar(&cfg.PageSize, "page-size", cfg.PageSize, "limit for each listing call, 0 for all")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, notice, warning, error, ...)")
	fs.StringVar(&cfg.Server, "server", cfg.Server, "server name used to namespace saved profiles")
	fs.BoolVar(&cfg.Save, "save", cfg.Save, "save each report as a profile")
	fs.StringVar(&cfg.RedisAddr, "redis-addr", cfg.RedisAddr, "store profiles in Redis at this address")
	fs.DurationVar(&cfg.ProfileTTL, "profile-ttl", cfg.ProfileTTL, "lifetime of saved profiles")
	fs.BoolVar(&cfg.Watch, "watch", false, "re-report whenever the manifest changes")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if cfg.Manifest == "" && fs.NArg() > 0 {
		cfg.Manifest = fs.Arg(0)
	}
	if cfg.Manifest == "" {
		return Config{}, errors.New("a manifest path is required")
	}
	if cfg.PageSize < 0 {
		return Config{}, fmt.Errorf("page size must not be negative, got %d", cfg.PageSize)
	}
	return cfg, nil
}
