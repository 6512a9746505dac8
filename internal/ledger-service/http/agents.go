package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/radieske/numbers-ledger-poc/internal/ledger-service/dto"
	"github.com/radieske/numbers-ledger-poc/internal/ledger-service/entity"
)

func (s *Server) listAgents(w http.ResponseWriter, r *http.Request) {
	if err := s.agents.EnsureSeed(r.Context()); err != nil {
		s.fail(w, "seed agents", err)
		return
	}

	cursor, limit, err := listParams(r)
	if err != nil {
		bad(w, err.Error())
		return
	}

	page, err := s.agents.List(r.Context(), cursor, limit)
	if err != nil {
		s.listErr(w, "list agents", err)
		return
	}
	ok(w, page)
}

func (s *Server) createAgent(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAgentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		bad(w, "invalid json body")
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		bad(w, "Agent name is required")
		return
	}
	if req.CommissionRate == nil || *req.CommissionRate < 0 || *req.CommissionRate > 100 {
		bad(w, "A valid commission rate (0-100) is required")
		return
	}

	created, err := s.agents.Create(r.Context(), entity.Agent{
		ID:             uuid.NewString(),
		Name:           name,
		CommissionRate: *req.CommissionRate,
		Status:         entity.AgentActive,
	})
	if err != nil {
		s.fail(w, "create agent", err)
		return
	}
	ok(w, created)
}

func (s *Server) getAgent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	exists, err := s.agents.Exists(r.Context(), id)
	if err != nil {
		s.fail(w, "get agent", err)
		return
	}
	if !exists {
		notFound(w, "Agent not found")
		return
	}

	agent, err := s.agents.Get(r.Context(), id)
	if err != nil {
		s.fail(w, "get agent", err)
		return
	}
	ok(w, agent)
}
