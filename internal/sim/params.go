package sim

// Params are the fixed economic constants for a run. They are injected
// configuration — the engine never derives them. Spoilage rates must already
// be in [0,1); range validation is a config-loading concern.
type Params struct {
	FarmSpoilRate    float64 `json:"farm_spoil_rate"`   // Fraction of farm stock lost per day.
	MarketSpoilRate  float64 `json:"market_spoil_rate"` // Fraction of market stock lost per day.
	TruckCapacity    float64 `json:"truck_capacity"`    // Units per truck per day.
	NumTrucks        float64 `json:"num_trucks"`
	PlantCostPerUnit float64 `json:"plant_cost_per_unit"`
	ShipCostPerUnit  float64 `json:"ship_cost_per_unit"`
	InitialCash      float64 `json:"initial_cash"`
}

// DefaultParams returns the classic VeggieChain balance.
func DefaultParams() Params {
	return Params{
		FarmSpoilRate:    0.10,
		MarketSpoilRate:  0.05,
		TruckCapacity:    100,
		NumTrucks:        2,
		PlantCostPerUnit: 1.0,
		ShipCostPerUnit:  0.2,
		InitialCash:      100,
	}
}

// ShippingCapacity is the most that can move from farm to market in one day.
func (p Params) ShippingCapacity() float64 {
	return p.TruckCapacity * p.NumTrucks
}
