package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	lhttp "github.com/radieske/numbers-ledger-poc/internal/ledger-service/http"
	"github.com/radieske/numbers-ledger-poc/internal/ledger-service/entity"
	"github.com/radieske/numbers-ledger-poc/internal/ledger-service/report"
	"github.com/radieske/numbers-ledger-poc/internal/ledger-service/store"
	"github.com/radieske/numbers-ledger-poc/internal/shared/config"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

type page[T any] struct {
	Items  []T     `json:"items"`
	Cursor *string `json:"cursor"`
}

func newTestServer(t *testing.T) (http.Handler, *store.Memory) {
	t.Helper()
	be := store.NewMemory()
	cfg := config.Config{
		ProfitMargin:   0.15,
		Payout2D:       85,
		Payout3D:       500,
		BetScanLimit:   10000,
		ReportCacheTTL: time.Second,
	}
	srv := lhttp.NewServer(zap.NewNop(), be, nil, nil, cfg)
	return srv.Router(), be
}

func do(t *testing.T, h http.Handler, method, target string, body any) (int, envelope) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, target, rd)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec.Code, env
}

func decodeData[T any](t *testing.T, env envelope) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(env.Data, &v))
	return v
}

func TestListAgentsSeedsOnFirstUse(t *testing.T) {
	h, _ := newTestServer(t)

	code, env := do(t, h, http.MethodGet, "/api/agents", nil)
	require.Equal(t, http.StatusOK, code)
	require.True(t, env.Success)

	p := decodeData[page[entity.Agent]](t, env)
	require.Len(t, p.Items, 3)
	assert.Equal(t, "agent-001", p.Items[0].ID)
	assert.Equal(t, "John Doe", p.Items[0].Name)
	assert.Equal(t, "agent-001", p.Items[2].ParentID)
	assert.Nil(t, p.Cursor)

	// segunda chamada não duplica o seed
	_, env = do(t, h, http.MethodGet, "/api/agents", nil)
	p = decodeData[page[entity.Agent]](t, env)
	assert.Len(t, p.Items, 3)
}

func TestCreateAgentValidation(t *testing.T) {
	tests := []struct {
		name     string
		body     map[string]any
		wantCode int
	}{
		{"missing name", map[string]any{"commissionRate": 5}, http.StatusBadRequest},
		{"blank name", map[string]any{"name": "   ", "commissionRate": 5}, http.StatusBadRequest},
		{"missing rate", map[string]any{"name": "Ana"}, http.StatusBadRequest},
		{"rate below zero", map[string]any{"name": "Ana", "commissionRate": -1}, http.StatusBadRequest},
		{"rate above hundred", map[string]any{"name": "Ana", "commissionRate": 101}, http.StatusBadRequest},
		{"rate zero ok", map[string]any{"name": "Ana", "commissionRate": 0}, http.StatusOK},
		{"rate hundred ok", map[string]any{"name": "Ana", "commissionRate": 100}, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newTestServer(t)
			code, env := do(t, h, http.MethodPost, "/api/agents", tt.body)
			assert.Equal(t, tt.wantCode, code)
			if tt.wantCode == http.StatusOK {
				agent := decodeData[entity.Agent](t, env)
				assert.NotEmpty(t, agent.ID)
				assert.Equal(t, entity.AgentActive, agent.Status)
			} else {
				assert.False(t, env.Success)
				assert.NotEmpty(t, env.Error)
			}
		})
	}
}

func TestGetAgent(t *testing.T) {
	h, _ := newTestServer(t)

	code, env := do(t, h, http.MethodGet, "/api/agents/ghost", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.False(t, env.Success)

	_, env = do(t, h, http.MethodPost, "/api/agents", map[string]any{"name": "Ana", "commissionRate": 7.5})
	created := decodeData[entity.Agent](t, env)

	code, env = do(t, h, http.MethodGet, "/api/agents/"+created.ID, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, created, decodeData[entity.Agent](t, env))
}

func TestAgentsPagination(t *testing.T) {
	h, _ := newTestServer(t)

	var wantIDs []string
	for i := 0; i < 5; i++ {
		_, env := do(t, h, http.MethodPost, "/api/agents",
			map[string]any{"name": fmt.Sprintf("Agent %d", i), "commissionRate": 5})
		wantIDs = append(wantIDs, decodeData[entity.Agent](t, env).ID)
	}

	var got []string
	url := "/api/agents?limit=2"
	for {
		code, env := do(t, h, http.MethodGet, url, nil)
		require.Equal(t, http.StatusOK, code)
		p := decodeData[page[entity.Agent]](t, env)
		for _, a := range p.Items {
			got = append(got, a.ID)
		}
		if p.Cursor == nil {
			break
		}
		url = "/api/agents?limit=2&cursor=" + *p.Cursor
	}

	assert.Equal(t, wantIDs, got)
}

func TestListInvalidParams(t *testing.T) {
	h, _ := newTestServer(t)

	code, _ := do(t, h, http.MethodGet, "/api/agents?limit=abc", nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = do(t, h, http.MethodGet, "/api/agents?cursor=bogus", nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestCreateBetDefaults(t *testing.T) {
	h, _ := newTestServer(t)

	before := time.Now().UnixMilli()
	code, env := do(t, h, http.MethodPost, "/api/bets",
		map[string]any{"agentId": "agent-001", "type": "2D", "number": "42", "amount": 100})
	after := time.Now().UnixMilli()

	require.Equal(t, http.StatusOK, code)
	bet := decodeData[entity.Bet](t, env)
	assert.NotEmpty(t, bet.ID)
	assert.Equal(t, entity.BetPending, bet.Status)
	assert.Equal(t, "42", bet.Number)
	assert.InDelta(t, 100, bet.Amount, 1e-9)
	assert.GreaterOrEqual(t, bet.Timestamp, before)
	assert.LessOrEqual(t, bet.Timestamp, after)
}

func TestCreateBetValidation(t *testing.T) {
	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing agent", map[string]any{"type": "2D", "number": "42", "amount": 10}},
		{"bad type", map[string]any{"agentId": "a", "type": "4D", "number": "42", "amount": 10}},
		{"2D with three digits", map[string]any{"agentId": "a", "type": "2D", "number": "123", "amount": 10}},
		{"3D with two digits", map[string]any{"agentId": "a", "type": "3D", "number": "12", "amount": 10}},
		{"non digit number", map[string]any{"agentId": "a", "type": "2D", "number": "4a", "amount": 10}},
		{"zero amount", map[string]any{"agentId": "a", "type": "2D", "number": "42", "amount": 0}},
		{"negative amount", map[string]any{"agentId": "a", "type": "2D", "number": "42", "amount": -5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newTestServer(t)
			code, env := do(t, h, http.MethodPost, "/api/bets", tt.body)
			assert.Equal(t, http.StatusBadRequest, code)
			assert.False(t, env.Success)
		})
	}
}

func TestBulkAllOrNothing(t *testing.T) {
	h, _ := newTestServer(t)

	// seed inicial: 3 apostas
	_, env := do(t, h, http.MethodGet, "/api/bets", nil)
	require.Len(t, decodeData[page[entity.Bet]](t, env).Items, 3)

	body := []map[string]any{
		{"agentId": "agent-001", "type": "2D", "number": "10", "amount": 50},
		{"agentId": "agent-001", "type": "2D", "number": "999", "amount": 50}, // inválida
	}
	code, _ := do(t, h, http.MethodPost, "/api/bets/bulk", body)
	assert.Equal(t, http.StatusBadRequest, code)

	// nenhuma aposta foi criada
	_, env = do(t, h, http.MethodGet, "/api/bets", nil)
	assert.Len(t, decodeData[page[entity.Bet]](t, env).Items, 3)
}

func TestBulkCreate(t *testing.T) {
	h, _ := newTestServer(t)

	body := []map[string]any{
		{"agentId": "agent-001", "type": "2D", "number": "10", "amount": 50},
		{"agentId": "agent-002", "type": "3D", "number": "123", "amount": 25},
	}
	code, env := do(t, h, http.MethodPost, "/api/bets/bulk", body)
	require.Equal(t, http.StatusOK, code)

	created := decodeData[[]entity.Bet](t, env)
	require.Len(t, created, 2)
	for _, b := range created {
		assert.NotEmpty(t, b.ID)
		assert.Equal(t, entity.BetPending, b.Status)
	}

	code, _ = do(t, h, http.MethodPost, "/api/bets/bulk", json.RawMessage(`{"not":"an array"}`))
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestUpdateBetStatus(t *testing.T) {
	h, _ := newTestServer(t)

	_, env := do(t, h, http.MethodPost, "/api/bets",
		map[string]any{"agentId": "agent-001", "type": "2D", "number": "42", "amount": 100})
	created := decodeData[entity.Bet](t, env)

	code, env := do(t, h, http.MethodPut, "/api/bets/"+created.ID+"/status",
		map[string]any{"status": "Won"})
	require.Equal(t, http.StatusOK, code)
	updated := decodeData[entity.Bet](t, env)

	assert.Equal(t, entity.BetWon, updated.Status)
	// patch de status não toca os demais campos
	assert.Equal(t, created.AgentID, updated.AgentID)
	assert.Equal(t, created.Type, updated.Type)
	assert.Equal(t, created.Number, updated.Number)
	assert.Equal(t, created.Amount, updated.Amount)
	assert.Equal(t, created.Timestamp, updated.Timestamp)

	// sem guarda de transição: volta pra Pending pelo mesmo endpoint
	code, env = do(t, h, http.MethodPut, "/api/bets/"+created.ID+"/status",
		map[string]any{"status": "Pending"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, entity.BetPending, decodeData[entity.Bet](t, env).Status)

	code, _ = do(t, h, http.MethodPut, "/api/bets/"+created.ID+"/status",
		map[string]any{"status": "Cancelled"})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = do(t, h, http.MethodPut, "/api/bets/ghost/status", map[string]any{"status": "Won"})
	assert.Equal(t, http.StatusNotFound, code)
}

func TestLimitsSeedAndReplace(t *testing.T) {
	h, _ := newTestServer(t)

	code, env := do(t, h, http.MethodGet, "/api/limits", nil)
	require.Equal(t, http.StatusOK, code)
	limits := decodeData[entity.LimitsData](t, env)
	assert.Equal(t, entity.LimitsID, limits.ID)
	assert.InDelta(t, 500, limits.TwoD["12"], 1e-9)
	assert.InDelta(t, 350, limits.ThreeD["789"], 1e-9)

	code, env = do(t, h, http.MethodPost, "/api/limits", map[string]any{
		"2D": map[string]float64{"07": 150},
		"3D": map[string]float64{"777": 75},
	})
	require.Equal(t, http.StatusOK, code)
	updated := decodeData[entity.LimitsData](t, env)

	// substituição integral: mapas antigos não sobrevivem
	assert.Equal(t, map[string]float64{"07": 150}, updated.TwoD)
	assert.Equal(t, map[string]float64{"777": 75}, updated.ThreeD)
	assert.Equal(t, entity.LimitsID, updated.ID)

	code, _ = do(t, h, http.MethodPost, "/api/limits", map[string]any{
		"2D": map[string]float64{"07": 150},
	})
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestUpdateLimitsOnFreshStore(t *testing.T) {
	h, _ := newTestServer(t)

	// POST sem GET anterior precisa criar o singleton antes do patch
	code, env := do(t, h, http.MethodPost, "/api/limits", map[string]any{
		"2D": map[string]float64{"42": 900},
		"3D": map[string]float64{},
	})
	require.Equal(t, http.StatusOK, code)
	assert.InDelta(t, 900, decodeData[entity.LimitsData](t, env).TwoD["42"], 1e-9)
}

func TestDashboardStats(t *testing.T) {
	h, _ := newTestServer(t)

	for _, amount := range []float64{100, 300} {
		code, _ := do(t, h, http.MethodPost, "/api/bets",
			map[string]any{"agentId": "agent-001", "type": "2D", "number": "42", "amount": amount})
		require.Equal(t, http.StatusOK, code)
	}

	code, env := do(t, h, http.MethodGet, "/api/dashboard/stats", nil)
	require.Equal(t, http.StatusOK, code)
	stats := decodeData[report.Stats](t, env)

	assert.InDelta(t, 400, stats.TotalSales, 1e-9)
	assert.InDelta(t, 60, stats.NetProfit, 1e-9)
	require.Len(t, stats.SalesData, 1)
	assert.InDelta(t, 400, stats.SalesData[0].Sales, 1e-9)
}

func TestReportByNumber2D(t *testing.T) {
	h, be := newTestServer(t)
	ctx := context.Background()
	bets := store.NewEntity[entity.Bet](be, entity.Bets)

	morning := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	for i, b := range []entity.Bet{
		{Type: entity.BetType2D, Number: "42", Amount: 100, Timestamp: morning.UnixMilli()},
		{Type: entity.BetType2D, Number: "42", Amount: 50, Timestamp: morning.UnixMilli()},
		{Type: entity.BetType2D, Number: "88", Amount: 200, Timestamp: morning.UnixMilli()},
	} {
		b.ID = fmt.Sprintf("fixed-%d", i)
		b.AgentID = "agent-001"
		_, err := bets.Create(ctx, b)
		require.NoError(t, err)
	}

	code, env := do(t, h, http.MethodGet,
		"/api/reports/by-number?gameType=2D&date=2025-03-10&session=morning", nil)
	require.Equal(t, http.StatusOK, code)

	got := decodeData[[]report.NumberSummary](t, env)
	require.Len(t, got, 2)
	assert.Equal(t, report.NumberSummary{Number: "88", TotalAmount: 200, BetCount: 1}, got[0])
	assert.Equal(t, report.NumberSummary{Number: "42", TotalAmount: 150, BetCount: 2}, got[1])

	// sessão sem apostas responde lista vazia, não null
	code, env = do(t, h, http.MethodGet,
		"/api/reports/by-number?gameType=2D&date=2025-03-10&session=evening", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "[]", string(env.Data))
}

func TestReportByNumber3D(t *testing.T) {
	h, be := newTestServer(t)
	ctx := context.Background()
	bets := store.NewEntity[entity.Bet](be, entity.Bets)

	firstHalf := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	secondHalf := time.Date(2025, 3, 20, 12, 0, 0, 0, time.UTC)
	for i, ts := range []time.Time{firstHalf, secondHalf} {
		_, err := bets.Create(ctx, entity.Bet{
			ID: fmt.Sprintf("fixed-%d", i), AgentID: "agent-001",
			Type: entity.BetType3D, Number: "123", Amount: 10, Timestamp: ts.UnixMilli(),
		})
		require.NoError(t, err)
	}

	// month é 0-indexado: 2 = março
	code, env := do(t, h, http.MethodGet,
		"/api/reports/by-number?gameType=3D&year=2025&month=2&period=first_half", nil)
	require.Equal(t, http.StatusOK, code)
	got := decodeData[[]report.NumberSummary](t, env)
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].BetCount)

	code, env = do(t, h, http.MethodGet,
		"/api/reports/by-number?gameType=3D&year=2025&month=2&period=second_half", nil)
	require.Equal(t, http.StatusOK, code)
	got = decodeData[[]report.NumberSummary](t, env)
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].BetCount)
}

func TestReportByNumberValidation(t *testing.T) {
	h, _ := newTestServer(t)

	tests := []struct {
		name string
		url  string
	}{
		{"missing gameType", "/api/reports/by-number"},
		{"bad gameType", "/api/reports/by-number?gameType=5D"},
		{"2D missing session", "/api/reports/by-number?gameType=2D&date=2025-03-10"},
		{"2D bad date", "/api/reports/by-number?gameType=2D&date=10/03/2025&session=morning"},
		{"2D bad session", "/api/reports/by-number?gameType=2D&date=2025-03-10&session=night"},
		{"3D missing year", "/api/reports/by-number?gameType=3D&month=2&period=first_half"},
		{"3D bad month", "/api/reports/by-number?gameType=3D&year=2025&month=12&period=first_half"},
		{"3D bad period", "/api/reports/by-number?gameType=3D&year=2025&month=2&period=third_half"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, env := do(t, h, http.MethodGet, tt.url, nil)
			assert.Equal(t, http.StatusBadRequest, code)
			assert.False(t, env.Success)
		})
	}
}

func TestListLedgerEmpty(t *testing.T) {
	h, _ := newTestServer(t)

	code, env := do(t, h, http.MethodGet, "/api/ledger", nil)
	require.Equal(t, http.StatusOK, code)
	p := decodeData[page[entity.LedgerEntry]](t, env)
	assert.Empty(t, p.Items)
	assert.Nil(t, p.Cursor)
}
