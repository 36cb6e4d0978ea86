// Package session coordinates one live simulation run: it serializes day
// advances, fills in generated demand, persists each report, and fans reports
// out to stream subscribers.
package session

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/talgya/veggiechain/internal/demand"
	"github.com/talgya/veggiechain/internal/persistence"
	"github.com/talgya/veggiechain/internal/sim"
)

// Session owns a single run. All access to the underlying state goes through
// its mutex — the engine itself assumes a single caller.
type Session struct {
	mu     sync.Mutex
	runID  string
	state  *sim.State
	engine sim.Engine
	store  *persistence.Store // nil = in-memory only
	gen    *demand.Generator  // nil = demand must be player-supplied
	seed   int64

	subMu sync.Mutex
	subs  map[chan sim.DayReport]struct{}
}

// New wires a session around an existing run.
func New(runID string, state *sim.State, engine sim.Engine, store *persistence.Store, gen *demand.Generator, seed int64) *Session {
	return &Session{
		runID:  runID,
		state:  state,
		engine: engine,
		store:  store,
		gen:    gen,
		seed:   seed,
		subs:   make(map[chan sim.DayReport]struct{}),
	}
}

// AdvanceRequest is one day's input from the player. A nil MarketDemand asks
// the session to draw the demand signal from its generator instead.
type AdvanceRequest struct {
	PlantAmount  float64  `json:"plant_amount"`
	ShipAmount   float64  `json:"ship_amount"`
	PricePerUnit float64  `json:"price_per_unit"`
	MarketDemand *float64 `json:"market_demand"`
}

// Advance processes one day. The report is returned even when persistence
// fails — the in-memory game has already moved on.
func (s *Session) Advance(req AdvanceRequest) (sim.DayReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := sim.Decision{
		PlantAmount:  req.PlantAmount,
		ShipAmount:   req.ShipAmount,
		PricePerUnit: req.PricePerUnit,
	}
	switch {
	case req.MarketDemand != nil:
		d.MarketDemand = *req.MarketDemand
	case s.gen != nil:
		d.MarketDemand = s.gen.ForDay(s.state.Day + 1)
	}

	report := s.engine.Advance(s.state, d)

	slog.Info("day advanced",
		"run", s.runID,
		"day", report.Day,
		"harvested", report.Harvested,
		"shipped", report.Shipped,
		"sold", report.UnitsSold,
		"profit", report.Profit,
		"cash", report.Cash,
	)

	s.publish(report)

	if s.store != nil {
		if err := s.store.AppendReport(s.runID, report); err != nil {
			return report, fmt.Errorf("persist day %d: %w", report.Day, err)
		}
	}
	return report, nil
}

// Snapshot returns a deep copy of the current state for read handlers.
func (s *Session) Snapshot() *sim.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// RunID returns the identifier of the current run.
func (s *Session) RunID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runID
}

// Params returns the engine's economic constants.
func (s *Session) Params() sim.Params {
	return s.engine.Params
}

// Reset closes out the current run and starts a fresh one at day zero. With
// discard set, the old run's stored history is deleted as well.
func (s *Session) Reset(discard bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	oldRun := s.runID

	if s.store != nil {
		run, err := s.store.CreateRun(s.engine.Params.InitialCash, s.seed)
		if err != nil {
			return fmt.Errorf("create run: %w", err)
		}
		s.runID = run.ID
		if discard && oldRun != "" {
			if err := s.store.DeleteRun(oldRun); err != nil {
				return fmt.Errorf("discard run %s: %w", oldRun, err)
			}
		}
	}

	s.state = sim.NewState(s.engine.Params.InitialCash)
	slog.Info("run reset", "old_run", oldRun, "run", s.runID, "discarded", discard)
	return nil
}

// Subscribe registers a report channel. The channel is buffered by the
// caller's choosing; slow subscribers miss reports rather than block the game.
func (s *Session) Subscribe() chan sim.DayReport {
	ch := make(chan sim.DayReport, 16)
	s.subMu.Lock()
	s.subs[ch] = struct{}{}
	s.subMu.Unlock()
	return ch
}

// Unsubscribe removes and closes a previously subscribed channel.
func (s *Session) Unsubscribe(ch chan sim.DayReport) {
	s.subMu.Lock()
	if _, ok := s.subs[ch]; ok {
		delete(s.subs, ch)
		close(ch)
	}
	s.subMu.Unlock()
}

func (s *Session) publish(r sim.DayReport) {
	s.subMu.Lock()
	for ch := range s.subs {
		select {
		case ch <- r:
		default:
		}
	}
	s.subMu.Unlock()
}
