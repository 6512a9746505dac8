package dto

// Response é o envelope de todas as respostas da API:
// {success:true, data:...} ou {success:false, error:"..."}
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}
