package http

import (
	"encoding/json"
	"net/http"

	"github.com/radieske/numbers-ledger-poc/internal/ledger-service/dto"
	"github.com/radieske/numbers-ledger-poc/internal/ledger-service/entity"
)

func (s *Server) getLimits(w http.ResponseWriter, r *http.Request) {
	if err := s.limits.EnsureSeed(r.Context()); err != nil {
		s.fail(w, "seed limits", err)
		return
	}

	limits, err := s.limits.Get(r.Context(), entity.LimitsID)
	if err != nil {
		s.fail(w, "get limits", err)
		return
	}
	ok(w, limits)
}

func (s *Server) updateLimits(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateLimitsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		bad(w, "Invalid limits format.")
		return
	}
	if req.TwoD == nil || req.ThreeD == nil {
		bad(w, "Invalid limits format.")
		return
	}

	// garante o slot "main" antes do patch (primeiro POST num banco limpo)
	if err := s.limits.EnsureSeed(r.Context()); err != nil {
		s.fail(w, "seed limits", err)
		return
	}

	// substituição integral dos dois mapas via merge raso
	updated, err := s.limits.Patch(r.Context(), entity.LimitsID, map[string]any{
		"2D": req.TwoD,
		"3D": req.ThreeD,
	})
	if err != nil {
		s.fail(w, "update limits", err)
		return
	}
	ok(w, updated)
}

func (s *Server) listLedger(w http.ResponseWriter, r *http.Request) {
	cursor, limit, err := listParams(r)
	if err != nil {
		bad(w, err.Error())
		return
	}

	page, err := s.ledger.List(r.Context(), cursor, limit)
	if err != nil {
		s.listErr(w, "list ledger", err)
		return
	}
	ok(w, page)
}
