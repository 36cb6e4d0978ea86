package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/veggiechain/internal/session"
	"github.com/talgya/veggiechain/internal/sim"
)

func newTestServer(adminKey string) *Server {
	params := sim.DefaultParams()
	sess := session.New("run-test", sim.NewState(params.InitialCash), sim.NewEngine(params), nil, nil, 42)
	return &Server{Session: sess, AdminKey: adminKey}
}

func postJSON(t *testing.T, h http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func getJSON(t *testing.T, h http.Handler, path string, out any) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if out != nil && w.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
	}
	return w.Code
}

func TestStatusFreshGame(t *testing.T) {
	h := newTestServer("").Handler()

	var status map[string]any
	code := getJSON(t, h, "/api/v1/status", &status)

	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "run-test", status["run"])
	assert.EqualValues(t, 0, status["day"])
	assert.EqualValues(t, 100, status["cash"])
}

func TestAdvanceReturnsReport(t *testing.T) {
	h := newTestServer("").Handler()

	w := postJSON(t, h, "/api/v1/advance", map[string]any{
		"plant_amount":   50,
		"ship_amount":    0,
		"price_per_unit": 2,
		"market_demand":  10,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var report sim.DayReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, 1, report.Day)
	assert.InDelta(t, 50, report.Planted, 1e-9)
	assert.InDelta(t, 50, report.Cash, 1e-9)
}

func TestAdvanceRejectsBadJSON(t *testing.T) {
	h := newTestServer("").Handler()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/advance", bytes.NewReader([]byte("{nope")))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdvanceRequiresPost(t *testing.T) {
	h := newTestServer("").Handler()
	code := getJSON(t, h, "/api/v1/advance", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, code)
}

func TestHistoryAndLatestReport(t *testing.T) {
	h := newTestServer("").Handler()

	code := getJSON(t, h, "/api/v1/report", nil)
	assert.Equal(t, http.StatusNotFound, code, "no report before day 1")

	for i := 0; i < 3; i++ {
		w := postJSON(t, h, "/api/v1/advance", map[string]any{
			"plant_amount": 10, "price_per_unit": 2, "market_demand": 5,
		})
		require.Equal(t, http.StatusOK, w.Code)
	}

	var history []sim.DayReport
	code = getJSON(t, h, "/api/v1/history", &history)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, history, 3)

	code = getJSON(t, h, "/api/v1/history?limit=2", &history)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, history, 2)
	assert.Equal(t, 2, history[0].Day)
	assert.Equal(t, 3, history[1].Day)

	var report sim.DayReport
	code = getJSON(t, h, "/api/v1/report", &report)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 3, report.Day)
}

func TestParamsEndpoint(t *testing.T) {
	h := newTestServer("").Handler()

	var params sim.Params
	code := getJSON(t, h, "/api/v1/params", &params)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, sim.DefaultParams(), params)
}

func TestResetRequiresBearerToken(t *testing.T) {
	h := newTestServer("sekrit").Handler()

	w := postJSON(t, h, "/api/v1/reset", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/reset", nil)
	req.Header.Set("Authorization", "Bearer sekrit")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestResetStartsFreshDay(t *testing.T) {
	srv := newTestServer("")
	h := srv.Handler()

	w := postJSON(t, h, "/api/v1/advance", map[string]any{
		"plant_amount": 10, "price_per_unit": 2, "market_demand": 5,
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = postJSON(t, h, "/api/v1/reset", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var status map[string]any
	code := getJSON(t, h, "/api/v1/status", &status)
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 0, status["day"])
}
