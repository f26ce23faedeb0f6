package config

import (
	"fmt"

	"github.com/joeshaw/envdecode"

	"github.com/fisiolab/fisiosearch/pkg/api"
	"github.com/fisiolab/fisiosearch/pkg/lib"
	"github.com/fisiolab/fisiosearch/pkg/lib/log"
	"github.com/fisiolab/fisiosearch/pkg/search"
	"github.com/fisiolab/fisiosearch/pkg/storage/postgres"
)

type Config struct {
	DB     postgres.Config `env:""`
	API    api.Config      `env:""`
	Log    log.Config      `env:""`
	Search search.Config   `env:""`
}

func Load() (*Config, error) {
	var cfg Config

	if err := envdecode.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := lib.ValidateStruct(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}
