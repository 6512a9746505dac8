package events

type BetSettled struct {
	BetID    string  `json:"bet_id"`
	AgentID  string  `json:"agent_id"`
	Type     string  `json:"type"`   // "2D" | "3D"
	Status   string  `json:"status"` // "Pending" | "Won" | "Lost"
	Number   string  `json:"number"`
	Amount   float64 `json:"amount"`
	TsUnixMs int64   `json:"ts_unix_ms"`
}
