package config

import (
	"log"
	"time"

	"github.com/caarlos0/env/v6"
)

type Config struct {
	Port           string `env:"PORT" envDefault:"5000"`
	AllowedOrigins string `env:"ALLOWED_ORIGINS" envDefault:"http://localhost:5173"`

	GeminiAPIKey string `env:"GEMINI_API_KEY,required"`
	GeminiModel  string `env:"GEMINI_MODEL" envDefault:"gemini-1.5-flash"`

	// Lifetimes. Calculations and chat turns deliberately outlive their
	// session; reads gate on session validity so orphaned rows stay
	// unreachable until the sweeper reclaims them.
	SessionLifetime  time.Duration `env:"SESSION_LIFETIME" envDefault:"1h"`
	CalcLifetime     time.Duration `env:"CALC_LIFETIME" envDefault:"24h"`
	ChatTurnLifetime time.Duration `env:"CHAT_LIFETIME" envDefault:"24h"`
	SweepInterval    time.Duration `env:"SWEEP_INTERVAL" envDefault:"1m"`

	AssistantMinInterval time.Duration `env:"ASSISTANT_MIN_INTERVAL" envDefault:"2s"`

	SessionCheckInterval time.Duration `env:"SESSION_CHECK_INTERVAL" envDefault:"30s"`
}

func New() *Config {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	return cfg
}
