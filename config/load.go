package config

import (
	"log/slog"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

func Load() App {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	var cfg App
	if err := env.Parse(&cfg); err != nil {
		slog.Error("config parse failed", "err", err)
		panic(err)
	}
	return cfg
}
