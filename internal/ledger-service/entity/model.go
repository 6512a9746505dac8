package entity

// Agent é o modelo persistido de um agente de vendas.
// id é imutável após a criação.
type Agent struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	CommissionRate float64 `json:"commissionRate"`     // percentual, ex: 5 pra 5%
	ParentID       string  `json:"parentId,omitempty"` // hierarquia de agentes (floresta, sem checagem de ciclo)
	Status         string  `json:"status"`             // "active" | "inactive"
}

const (
	AgentActive   = "active"
	AgentInactive = "inactive"
)

const (
	BetType2D = "2D"
	BetType3D = "3D"
)

const (
	BetPending = "Pending"
	BetWon     = "Won"
	BetLost    = "Lost"
)

// Bet é o modelo persistido de uma aposta.
// status é o único campo mutável após a criação.
type Bet struct {
	ID        string  `json:"id"`
	AgentID   string  `json:"agentId"`
	Type      string  `json:"type"`   // "2D" | "3D"
	Number    string  `json:"number"` // ex: "42" pra 2D, "123" pra 3D
	Amount    float64 `json:"amount"`
	Timestamp int64   `json:"timestamp"` // epoch millis (instante de criação)
	Status    string  `json:"status,omitempty"`
}

// LimitsID é o id fixo do singleton de limites.
const LimitsID = "main"

// LimitsData guarda os tetos informativos por número, por tipo de jogo.
// Os limites não são aplicados na criação de apostas; só aparecem nos relatórios.
type LimitsData struct {
	ID     string             `json:"id"` // sempre "main"
	TwoD   map[string]float64 `json:"2D"`
	ThreeD map[string]float64 `json:"3D"`
}

const (
	LedgerCredit = "credit" // prêmio de aposta vencedora
	LedgerDebit  = "debit"  // aposta colocada
)

// LedgerEntry é o lançamento contábil materializado pelo settlement-worker.
type LedgerEntry struct {
	ID          string  `json:"id"`
	BetID       string  `json:"betId"`
	AgentID     string  `json:"agentId"`
	Amount      float64 `json:"amount"`
	Type        string  `json:"type"` // "credit" | "debit"
	Timestamp   int64   `json:"timestamp"`
	Description string  `json:"description"`
}
