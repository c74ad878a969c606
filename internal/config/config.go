package config

import (
	"log"
	"time"

	"github.com/caarlos0/env/v6"
)

type Config struct {
	// Storage
	DataDir   string `env:"DATA_DIR" envDefault:"data"`
	BackupDir string `env:"BACKUP_DIR" envDefault:"backups"`

	// Backup schedule (cron spec, UTC); empty disables the scheduler
	BackupCron string `env:"BACKUP_CRON" envDefault:"0 21 * * *"`

	// Demo account seeding at startup
	SeedDemo bool `env:"SEED_DEMO" envDefault:"true"`

	// Reveal animation
	RevealInterval time.Duration `env:"REVEAL_INTERVAL" envDefault:"12ms"`
	RevealChunk    int           `env:"REVEAL_CHUNK" envDefault:"1"`
}

func New() *Config {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	return cfg
}
