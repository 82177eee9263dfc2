package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// MustLoad loads the configuration from environment variables and .env file.
// It panics when a required variable is missing or malformed.
func MustLoad[T any](cfg T) {
	_ = godotenv.Load() // Load environment variables from .env file, if present

	env.Must(cfg, env.Parse(cfg))
}

// Load loads the configuration from environment variables and .env file.
func Load[T any](cfg T) error {
	_ = godotenv.Load()

	return env.Parse(cfg)
}

// Config holds the configuration for the application.
type Config struct {
	Pair     string          `env:"PAIR" envDefault:"BTC/USD"` // Trading pair, e.g. BTC/USD
	LogLevel string          `env:"LOG_LEVEL" envDefault:"info"`
	Engine   EngineConfig    `envPrefix:"ENGINE_"`
	Sim      SimulatorConfig `envPrefix:"SIM_"`
}

// EngineConfig holds the configuration for the order book engine.
type EngineConfig struct {
	HistoryDepth int `env:"HISTORY_DEPTH" envDefault:"16"` // Retained book versions
}

// SimulatorConfig holds the configuration for the order flow simulator.
type SimulatorConfig struct {
	Orders    int    `env:"ORDERS" envDefault:"10000"` // Number of orders to submit
	Traders   int    `env:"TRADERS" envDefault:"25"`   // Number of synthetic traders
	Seed      int64  `env:"SEED" envDefault:"42"`
	TickSize  string `env:"TICK_SIZE" envDefault:"0.01"`  // Decimal price of one tick
	MidPrice  string `env:"MID_PRICE" envDefault:"25000"` // Decimal mid price
	PriceBand string `env:"PRICE_BAND" envDefault:"50"`   // Decimal half-band around mid
	MaxQty    int64  `env:"MAX_QTY" envDefault:"500"`
}
