// Package api serves the game to the display layer over HTTP.
// GET endpoints are public (read-only observation).
// POST /reset requires a bearer token when an admin key is configured.
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/talgya/veggiechain/internal/session"
	"github.com/talgya/veggiechain/internal/sim"
)

// Server serves one live run over HTTP.
type Server struct {
	Session  *session.Session
	Port     int
	AdminKey string // Bearer token for destructive POST endpoints. Empty = open.
}

// Handler returns the full route table. Split out from Start so tests can
// drive it through httptest.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/v1/status", s.handleStatus)
	mux.HandleFunc("/api/v1/history", s.handleHistory)
	mux.HandleFunc("/api/v1/report", s.handleReport)
	mux.HandleFunc("/api/v1/params", s.handleParams)
	mux.HandleFunc("/api/v1/advance", s.handleAdvance)
	mux.HandleFunc("/api/v1/reset", s.adminOnly(s.handleReset))
	mux.HandleFunc("/api/v1/stream", s.handleStream)

	return mux
}

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() {
	addr := fmt.Sprintf(":%d", s.Port)
	slog.Info("HTTP API starting", "addr", addr, "admin_auth", s.AdminKey != "")

	go func() {
		if err := http.ListenAndServe(addr, s.Handler()); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

// adminOnly wraps a handler to require bearer token auth when a key is set.
func (s *Server) adminOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.AdminKey != "" {
			auth := r.Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") || strings.TrimPrefix(auth, "Bearer ") != s.AdminKey {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
		}
		next(w, r)
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	st := s.Session.Snapshot()
	writeJSON(w, map[string]any{
		"run":               s.Session.RunID(),
		"day":               st.Day,
		"cash":              st.Cash,
		"farm_inventory":    st.FarmInventory,
		"market_inventory":  st.MarketInventory,
		"pending_harvest":   st.PendingHarvest,
		"cumulative_profit": st.CumulativeProfit,
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 {
			limit = n
		}
	}

	history := s.Session.Snapshot().History
	if limit > 0 && len(history) > limit {
		history = history[len(history)-limit:]
	}
	if history == nil {
		history = []sim.DayReport{}
	}
	writeJSON(w, history)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	report, ok := s.Session.Snapshot().LatestReport()
	if !ok {
		http.Error(w, "no days processed yet", http.StatusNotFound)
		return
	}
	writeJSON(w, report)
}

func (s *Server) handleParams(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Session.Params())
}

func (s *Server) handleAdvance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req session.AdvanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	report, err := s.Session.Advance(req)
	if err != nil {
		// The day was processed; only the write-behind failed.
		slog.Error("advance persistence failed", "error", err)
	}
	writeJSON(w, report)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	discard := r.URL.Query().Get("discard") == "true"
	if err := s.Session.Reset(discard); err != nil {
		slog.Error("reset failed", "error", err)
		http.Error(w, "reset failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]any{"run": s.Session.RunID(), "day": 0})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("write response failed", "error", err)
	}
}
