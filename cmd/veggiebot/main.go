// Command veggiebot plays VeggieChain offline with a fixed policy: steady
// planting, ship everything the trucks can carry, one price all season,
// demand drawn from the generator. Useful for balance checks without a server.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/talgya/veggiechain/internal/config"
	"github.com/talgya/veggiechain/internal/demand"
	"github.com/talgya/veggiechain/internal/sim"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	days := flag.Int("days", 90, "number of days to play")
	plant := flag.Float64("plant", 50, "units planted per day")
	price := flag.Float64("price", 3, "price per unit")
	seed := flag.Int64("seed", 42, "demand generator seed")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration invalid", "error", err)
		os.Exit(1)
	}

	params := cfg.SimParams()
	engine := sim.NewEngine(params)
	state := sim.NewState(params.InitialCash)
	gen := demand.NewGenerator(*seed, cfg.BaseDemand)

	slog.Info("veggiebot starting",
		"days", *days,
		"plant", *plant,
		"price", *price,
		"shipping_capacity", params.ShippingCapacity(),
	)

	for day := 1; day <= *days; day++ {
		report := engine.Advance(state, sim.Decision{
			PlantAmount: *plant,
			// Everything on the farm, truncated by stock and capacity anyway.
			ShipAmount:   state.FarmInventory + state.PendingHarvest,
			PricePerUnit: *price,
			MarketDemand: gen.ForDay(day),
		})

		slog.Info("day played",
			"day", report.Day,
			"demand", fmt.Sprintf("%.1f", report.Demand),
			"sold", fmt.Sprintf("%.1f", report.UnitsSold),
			"spoiled", fmt.Sprintf("%.1f", report.SpoiledAtFarm+report.SpoiledAtMarket),
			"profit", fmt.Sprintf("%.2f", report.Profit),
			"cash", fmt.Sprintf("%.2f", report.Cash),
		)
	}

	fmt.Printf("\nPlayed %d days: cash %.2f (cumulative profit %.2f)\n",
		state.Day, state.Cash, state.CumulativeProfit)
	if state.Cash < 0 {
		fmt.Println("The farm went broke. Try a higher price or less planting.")
	}
}
