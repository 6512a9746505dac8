package dto

// CreateAgentRequest usa ponteiro em commissionRate pra distinguir
// "campo ausente" de taxa zero (zero é válido).
type CreateAgentRequest struct {
	Name           string   `json:"name"`
	CommissionRate *float64 `json:"commissionRate"`
}

type CreateBetRequest struct {
	AgentID string  `json:"agentId"`
	Type    string  `json:"type"`   // "2D" | "3D"
	Number  string  `json:"number"` // 2 dígitos pra 2D, 3 pra 3D
	Amount  float64 `json:"amount"`
}

type UpdateBetStatusRequest struct {
	Status string `json:"status"` // "Pending" | "Won" | "Lost"
}

// UpdateLimitsRequest substitui os mapas inteiros de limites por tipo.
// nil indica campo ausente no corpo (rejeitado).
type UpdateLimitsRequest struct {
	TwoD   map[string]float64 `json:"2D"`
	ThreeD map[string]float64 `json:"3D"`
}
