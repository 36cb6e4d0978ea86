// Package config loads process configuration from environment variables.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"

	"github.com/talgya/veggiechain/internal/sim"
)

// Config is the full configuration for the veggiesim server. Every value has
// a default, so a bare environment starts a playable game.
type Config struct {
	Port       int    `env:"VEGGIE_PORT" envDefault:"8080"`
	DBPath     string `env:"VEGGIE_DB" envDefault:"data/veggiechain.db"`
	AdminKey   string `env:"VEGGIE_ADMIN_KEY"` // Empty disables admin POST endpoints.
	DemandSeed int64  `env:"VEGGIE_DEMAND_SEED" envDefault:"42"`
	BaseDemand float64 `env:"VEGGIE_BASE_DEMAND" envDefault:"100"`

	FarmSpoilRate    float64 `env:"VEGGIE_FARM_SPOIL_RATE" envDefault:"0.10"`
	MarketSpoilRate  float64 `env:"VEGGIE_MARKET_SPOIL_RATE" envDefault:"0.05"`
	TruckCapacity    float64 `env:"VEGGIE_TRUCK_CAPACITY" envDefault:"100"`
	NumTrucks        float64 `env:"VEGGIE_NUM_TRUCKS" envDefault:"2"`
	PlantCostPerUnit float64 `env:"VEGGIE_PLANT_COST" envDefault:"1.0"`
	ShipCostPerUnit  float64 `env:"VEGGIE_SHIP_COST" envDefault:"0.2"`
	InitialCash      float64 `env:"VEGGIE_INITIAL_CASH" envDefault:"100"`
}

// Load parses the environment and validates the ranges the engine assumes.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// validate rejects values the engine would silently misbehave on. The engine
// itself clamps player decisions but trusts its constants.
func (c Config) validate() error {
	if c.FarmSpoilRate < 0 || c.FarmSpoilRate >= 1 {
		return fmt.Errorf("VEGGIE_FARM_SPOIL_RATE %v outside [0,1)", c.FarmSpoilRate)
	}
	if c.MarketSpoilRate < 0 || c.MarketSpoilRate >= 1 {
		return fmt.Errorf("VEGGIE_MARKET_SPOIL_RATE %v outside [0,1)", c.MarketSpoilRate)
	}
	if c.TruckCapacity < 0 {
		return fmt.Errorf("VEGGIE_TRUCK_CAPACITY %v is negative", c.TruckCapacity)
	}
	if c.NumTrucks < 0 {
		return fmt.Errorf("VEGGIE_NUM_TRUCKS %v is negative", c.NumTrucks)
	}
	if c.PlantCostPerUnit < 0 || c.ShipCostPerUnit < 0 {
		return fmt.Errorf("unit costs must be non-negative (plant %v, ship %v)",
			c.PlantCostPerUnit, c.ShipCostPerUnit)
	}
	if c.BaseDemand < 0 {
		return fmt.Errorf("VEGGIE_BASE_DEMAND %v is negative", c.BaseDemand)
	}
	return nil
}

// SimParams converts the loaded values into engine constants.
func (c Config) SimParams() sim.Params {
	return sim.Params{
		FarmSpoilRate:    c.FarmSpoilRate,
		MarketSpoilRate:  c.MarketSpoilRate,
		TruckCapacity:    c.TruckCapacity,
		NumTrucks:        c.NumTrucks,
		PlantCostPerUnit: c.PlantCostPerUnit,
		ShipCostPerUnit:  c.ShipCostPerUnit,
		InitialCash:      c.InitialCash,
	}
}
