package sim

// Engine applies one day's business rules to a State. It holds no mutable
// state of its own: Advance is a pure function of (state, decision, params),
// so two identical states fed identical decisions produce identical reports.
type Engine struct {
	Params Params
}

// NewEngine creates an engine over the given economic constants.
func NewEngine(p Params) Engine {
	return Engine{Params: p}
}

// Advance processes exactly one day and appends the resulting report to the
// state's history. The step order is fixed — later steps read quantities the
// earlier steps wrote:
//
//	harvest maturation → planting → farm spoilage → shipping →
//	market spoilage → sales → financials → bookkeeping
//
// Concurrent calls against the same state are undefined; the caller
// serializes.
func (e Engine) Advance(st *State, d Decision) DayReport {
	p := e.Params
	d = d.clamped()

	// 1. Harvest maturation: yesterday's planting becomes usable farm stock.
	harvested := st.PendingHarvest
	st.FarmInventory += harvested
	st.PendingHarvest = 0

	// 2. New planting matures tomorrow, never today.
	st.PendingHarvest = d.PlantAmount

	// 3. Farm spoilage is charged on the full pre-shipment stock.
	spoiledFarm := st.FarmInventory * p.FarmSpoilRate
	st.FarmInventory -= spoiledFarm

	// 4. Shipping, limited by requested amount, farm stock, and truck capacity.
	shipped := min(d.ShipAmount, st.FarmInventory, p.ShippingCapacity())
	st.FarmInventory -= shipped
	st.MarketInventory += shipped

	// 5. Market spoilage after today's shipment has arrived.
	spoiledMarket := st.MarketInventory * p.MarketSpoilRate
	st.MarketInventory -= spoiledMarket

	// 6. Demand fulfillment.
	sold := min(st.MarketInventory, d.MarketDemand)
	st.MarketInventory -= sold

	// 7. Financials.
	revenue := sold * d.PricePerUnit
	costs := p.PlantCostPerUnit*d.PlantAmount + p.ShipCostPerUnit*shipped
	profit := revenue - costs
	st.Cash += profit
	st.CumulativeProfit += profit

	// 8. Bookkeeping.
	st.Day++
	report := DayReport{
		Day:              st.Day,
		Planted:          d.PlantAmount,
		Harvested:        harvested,
		Shipped:          shipped,
		SpoiledAtFarm:    spoiledFarm,
		SpoiledAtMarket:  spoiledMarket,
		UnitsSold:        sold,
		Price:            d.PricePerUnit,
		Demand:           d.MarketDemand,
		Revenue:          revenue,
		Costs:            costs,
		Profit:           profit,
		Cash:             st.Cash,
		CumulativeProfit: st.CumulativeProfit,
		FarmInventory:    st.FarmInventory,
		MarketInventory:  st.MarketInventory,
	}
	st.History = append(st.History, report)
	return report
}
