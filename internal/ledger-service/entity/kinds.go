package entity

import (
	"time"

	"github.com/radieske/numbers-ledger-poc/internal/ledger-service/store"
)

// Descritores de kind: um keyed store + um índice ordenado por entidade.

var Agents = store.Kind[Agent]{
	Name:         "agents",
	DefaultLimit: 10,
	Initial:      Agent{Status: AgentInactive},
	Seeds:        seedAgents,
	ID:           func(a Agent) string { return a.ID },
}

var Bets = store.Kind[Bet]{
	Name:         "bets",
	DefaultLimit: 1000,
	Initial:      Bet{Type: BetType2D},
	Seeds:        seedBets,
	ID:           func(b Bet) string { return b.ID },
}

var Limits = store.Kind[LimitsData]{
	Name:         "limits",
	DefaultLimit: 10,
	Initial:      LimitsData{ID: LimitsID, TwoD: map[string]float64{}, ThreeD: map[string]float64{}},
	Seeds:        seedLimits,
	ID:           func(l LimitsData) string { return l.ID },
}

var Ledger = store.Kind[LedgerEntry]{
	Name:         "ledger",
	DefaultLimit: 1000,
	Initial:      LedgerEntry{},
	ID:           func(e LedgerEntry) string { return e.ID },
}

func seedAgents() []Agent {
	return []Agent{
		{ID: "agent-001", Name: "John Doe", CommissionRate: 5, Status: AgentActive},
		{ID: "agent-002", Name: "Jane Smith", CommissionRate: 4.5, Status: AgentActive},
		{ID: "agent-003", Name: "Mike Johnson", CommissionRate: 5.5, ParentID: "agent-001", Status: AgentInactive},
	}
}

func seedBets() []Bet {
	now := time.Now().UnixMilli()
	return []Bet{
		{ID: "bet-001", AgentID: "agent-001", Type: BetType2D, Number: "42", Amount: 100, Timestamp: now - 10000},
		{ID: "bet-002", AgentID: "agent-002", Type: BetType3D, Number: "123", Amount: 50, Timestamp: now - 20000},
		{ID: "bet-003", AgentID: "agent-001", Type: BetType2D, Number: "88", Amount: 200, Timestamp: now - 30000},
	}
}

func seedLimits() []LimitsData {
	return []LimitsData{
		{
			ID: LimitsID,
			TwoD: map[string]float64{
				"12": 500,
				"45": 1000,
				"88": 250,
			},
			ThreeD: map[string]float64{
				"123": 200,
				"789": 350,
			},
		},
	}
}
