// Package sim implements the farm-to-market day transition and the state it
// operates on: one farm, one market, one commodity, one player per run.
package sim

// State is the authoritative snapshot of a single run. It is owned by one
// caller and mutated only by Engine.Advance, never partially.
type State struct {
	Day              int       `json:"day"`
	Cash             float64   `json:"cash"` // May go negative — that is data, not an error.
	FarmInventory    float64   `json:"farm_inventory"`
	MarketInventory  float64   `json:"market_inventory"`
	PendingHarvest   float64   `json:"pending_harvest"` // Planted yesterday, matures on the next advance.
	CumulativeProfit float64   `json:"cumulative_profit"`
	History          []DayReport `json:"history"`
}

// NewState returns a day-zero state: empty inventories, nothing pending,
// empty history.
func NewState(startingCash float64) *State {
	return &State{Cash: startingCash}
}

// Clone returns a deep copy, history included. Read paths snapshot through
// this so the live state is never shared outside its owner.
func (s *State) Clone() *State {
	c := *s
	c.History = make([]DayReport, len(s.History))
	copy(c.History, s.History)
	return &c
}

// LatestReport returns the most recent day report, or false before day 1.
func (s *State) LatestReport() (DayReport, bool) {
	if len(s.History) == 0 {
		return DayReport{}, false
	}
	return s.History[len(s.History)-1], true
}

// Decision is one day's player input. Out-of-range values are clamped at
// apply time, never rejected — the domain models physical limits, not
// programmer error.
type Decision struct {
	PlantAmount  float64 `json:"plant_amount"`
	ShipAmount   float64 `json:"ship_amount"`
	PricePerUnit float64 `json:"price_per_unit"`
	MarketDemand float64 `json:"market_demand"`
}

// clamped returns a copy with negative fields raised to zero.
func (d Decision) clamped() Decision {
	d.PlantAmount = max(d.PlantAmount, 0)
	d.ShipAmount = max(d.ShipAmount, 0)
	d.PricePerUnit = max(d.PricePerUnit, 0)
	d.MarketDemand = max(d.MarketDemand, 0)
	return d
}

// DayReport is the immutable record of one processed day. It is written once
// by Engine.Advance and never read back into the transition logic.
type DayReport struct {
	Day              int     `json:"day" db:"day"`
	Planted          float64 `json:"planted" db:"planted"`
	Harvested        float64 `json:"harvested" db:"harvested"`
	Shipped          float64 `json:"shipped" db:"shipped"`
	SpoiledAtFarm    float64 `json:"spoiled_at_farm" db:"spoiled_at_farm"`
	SpoiledAtMarket  float64 `json:"spoiled_at_market" db:"spoiled_at_market"`
	UnitsSold        float64 `json:"units_sold" db:"units_sold"`
	Price            float64 `json:"price" db:"price"`
	Demand           float64 `json:"demand" db:"demand"`
	Revenue          float64 `json:"revenue" db:"revenue"`
	Costs            float64 `json:"costs" db:"costs"`
	Profit           float64 `json:"profit" db:"profit"`
	Cash             float64 `json:"cash" db:"cash"`
	CumulativeProfit float64 `json:"cumulative_profit" db:"cumulative_profit"`
	FarmInventory    float64 `json:"farm_inventory" db:"farm_inventory"`
	MarketInventory  float64 `json:"market_inventory" db:"market_inventory"`
}
