// Package persistence provides SQLite-backed storage for simulation runs and
// their day reports. A run's live state is fully reconstructible from its
// starting cash plus its ordered reports, so restarts resume mid-game.
package persistence

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/veggiechain/internal/sim"
)

// Store wraps a SQLite connection for run storage.
type Store struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*Store, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	st := &Store{conn: conn}
	if err := st.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return st, nil
}

// Close closes the database connection.
func (st *Store) Close() error {
	return st.conn.Close()
}

func (st *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		created_at TEXT NOT NULL DEFAULT (datetime('now')),
		starting_cash REAL NOT NULL,
		demand_seed INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS day_reports (
		run_id TEXT NOT NULL REFERENCES runs(id),
		day INTEGER NOT NULL,
		planted REAL NOT NULL,
		harvested REAL NOT NULL,
		shipped REAL NOT NULL,
		spoiled_at_farm REAL NOT NULL,
		spoiled_at_market REAL NOT NULL,
		units_sold REAL NOT NULL,
		price REAL NOT NULL,
		demand REAL NOT NULL,
		revenue REAL NOT NULL,
		costs REAL NOT NULL,
		profit REAL NOT NULL,
		cash REAL NOT NULL,
		cumulative_profit REAL NOT NULL,
		farm_inventory REAL NOT NULL,
		market_inventory REAL NOT NULL,
		PRIMARY KEY (run_id, day)
	);

	CREATE INDEX IF NOT EXISTS idx_day_reports_run ON day_reports(run_id);
	`
	_, err := st.conn.Exec(schema)
	return err
}

// Run is a stored simulation run.
type Run struct {
	ID           string  `db:"id"`
	CreatedAt    string  `db:"created_at"`
	StartingCash float64 `db:"starting_cash"`
	DemandSeed   int64   `db:"demand_seed"`
}

// CreateRun inserts a fresh run and returns it.
func (st *Store) CreateRun(startingCash float64, demandSeed int64) (Run, error) {
	run := Run{
		ID:           uuid.NewString(),
		StartingCash: startingCash,
		DemandSeed:   demandSeed,
	}
	_, err := st.conn.Exec(
		"INSERT INTO runs (id, starting_cash, demand_seed) VALUES (?, ?, ?)",
		run.ID, run.StartingCash, run.DemandSeed,
	)
	if err != nil {
		return Run{}, fmt.Errorf("insert run: %w", err)
	}
	return run, nil
}

// LatestRun returns the most recently created run, or nil when none exist.
func (st *Store) LatestRun() (*Run, error) {
	var run Run
	err := st.conn.Get(&run,
		"SELECT id, created_at, starting_cash, demand_seed FROM runs ORDER BY created_at DESC, rowid DESC LIMIT 1")
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select latest run: %w", err)
	}
	return &run, nil
}

// AppendReport stores one day report for a run.
func (st *Store) AppendReport(runID string, r sim.DayReport) error {
	_, err := st.conn.Exec(`INSERT INTO day_reports
		(run_id, day, planted, harvested, shipped, spoiled_at_farm, spoiled_at_market,
		 units_sold, price, demand, revenue, costs, profit, cash, cumulative_profit,
		 farm_inventory, market_inventory)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, r.Day, r.Planted, r.Harvested, r.Shipped, r.SpoiledAtFarm, r.SpoiledAtMarket,
		r.UnitsSold, r.Price, r.Demand, r.Revenue, r.Costs, r.Profit, r.Cash, r.CumulativeProfit,
		r.FarmInventory, r.MarketInventory,
	)
	if err != nil {
		return fmt.Errorf("insert report for day %d: %w", r.Day, err)
	}
	return nil
}

// LoadReports returns a run's reports in day order.
func (st *Store) LoadReports(runID string) ([]sim.DayReport, error) {
	var reports []sim.DayReport
	err := st.conn.Select(&reports, `SELECT
		day, planted, harvested, shipped, spoiled_at_farm, spoiled_at_market,
		units_sold, price, demand, revenue, costs, profit, cash, cumulative_profit,
		farm_inventory, market_inventory
		FROM day_reports WHERE run_id = ? ORDER BY day`, runID)
	if err != nil {
		return nil, fmt.Errorf("select reports: %w", err)
	}
	return reports, nil
}

// DeleteRun removes a run and its reports.
func (st *Store) DeleteRun(runID string) error {
	tx, err := st.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM day_reports WHERE run_id = ?", runID); err != nil {
		return fmt.Errorf("delete reports: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM runs WHERE id = ?", runID); err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	return tx.Commit()
}

// RestoreState rebuilds a run's live state from storage. The pending harvest
// equals the last report's planted amount — planting always matures exactly
// one day later.
func (st *Store) RestoreState(run *Run) (*sim.State, error) {
	reports, err := st.LoadReports(run.ID)
	if err != nil {
		return nil, err
	}

	state := sim.NewState(run.StartingCash)
	state.History = reports
	state.Day = len(reports)

	if last, ok := state.LatestReport(); ok {
		state.Cash = last.Cash
		state.CumulativeProfit = last.CumulativeProfit
		state.FarmInventory = last.FarmInventory
		state.MarketInventory = last.MarketInventory
		state.PendingHarvest = last.Planted
	}

	slog.Info("run restored", "run", run.ID, "day", state.Day, "cash", state.Cash)
	return state, nil
}
