package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/radieske/numbers-ledger-poc/internal/ledger-service/dto"
	"github.com/radieske/numbers-ledger-poc/internal/ledger-service/entity"
	"github.com/radieske/numbers-ledger-poc/internal/ledger-service/store"
	"github.com/radieske/numbers-ledger-poc/pkg/contracts/events"
)

var digitsRe = regexp.MustCompile(`^[0-9]+$`)

// validateBet centraliza no servidor a validação de formato do número
// (2 dígitos pra 2D, 3 pra 3D), que antes vivia só no cliente.
// Retorna mensagem vazia quando a entrada é válida.
func validateBet(req dto.CreateBetRequest) string {
	if req.AgentID == "" {
		return "agentId is required"
	}
	if req.Type != entity.BetType2D && req.Type != entity.BetType3D {
		return "Invalid bet type"
	}
	if req.Number == "" {
		return "Bet number is required"
	}
	if !digitsRe.MatchString(req.Number) {
		return "Bet number must contain only digits"
	}
	want := 2
	if req.Type == entity.BetType3D {
		want = 3
	}
	if len(req.Number) != want {
		return fmt.Sprintf("%s bets require a %d-digit number", req.Type, want)
	}
	if req.Amount <= 0 {
		return "A valid amount is required"
	}
	return ""
}

func (s *Server) listBets(w http.ResponseWriter, r *http.Request) {
	if err := s.bets.EnsureSeed(r.Context()); err != nil {
		s.fail(w, "seed bets", err)
		return
	}

	cursor, limit, err := listParams(r)
	if err != nil {
		bad(w, err.Error())
		return
	}

	page, err := s.bets.List(r.Context(), cursor, limit)
	if err != nil {
		s.listErr(w, "list bets", err)
		return
	}
	ok(w, page)
}

func (s *Server) createBet(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateBetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		bad(w, "invalid json body")
		return
	}
	if msg := validateBet(req); msg != "" {
		bad(w, msg)
		return
	}

	created, err := s.bets.Create(r.Context(), entity.Bet{
		ID:        uuid.NewString(),
		AgentID:   req.AgentID,
		Type:      req.Type,
		Number:    req.Number,
		Amount:    req.Amount,
		Timestamp: time.Now().UnixMilli(),
		Status:    entity.BetPending,
	})
	if err != nil {
		s.fail(w, "create bet", err)
		return
	}

	betsCreated.WithLabelValues(created.Type).Inc()
	s.publishPlaced(r.Context(), created)
	ok(w, created)
}

func (s *Server) createBetsBulk(w http.ResponseWriter, r *http.Request) {
	var reqs []dto.CreateBetRequest
	if err := json.NewDecoder(r.Body).Decode(&reqs); err != nil {
		bad(w, "Request body must be an array of bets")
		return
	}

	// validação tudo-ou-nada: a primeira entrada inválida aborta a requisição
	// inteira sem criar nenhuma aposta
	for _, req := range reqs {
		if msg := validateBet(req); msg != "" {
			bad(w, msg)
			return
		}
	}

	now := time.Now().UnixMilli()
	created := make([]entity.Bet, 0, len(reqs))
	for _, req := range reqs {
		b, err := s.bets.Create(r.Context(), entity.Bet{
			ID:        uuid.NewString(),
			AgentID:   req.AgentID,
			Type:      req.Type,
			Number:    req.Number,
			Amount:    req.Amount,
			Timestamp: now,
			Status:    entity.BetPending,
		})
		if err != nil {
			s.fail(w, "create bets bulk", err)
			return
		}
		betsCreated.WithLabelValues(b.Type).Inc()
		s.publishPlaced(r.Context(), b)
		created = append(created, b)
	}
	ok(w, created)
}

func (s *Server) updateBetStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.UpdateBetStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		bad(w, "invalid json body")
		return
	}
	if req.Status != entity.BetPending && req.Status != entity.BetWon && req.Status != entity.BetLost {
		bad(w, "Invalid status provided.")
		return
	}

	exists, err := s.bets.Exists(r.Context(), id)
	if err != nil {
		s.fail(w, "update bet status", err)
		return
	}
	if !exists {
		notFound(w, "Bet not found")
		return
	}

	// sem guarda de transição: Won/Lost podem ser reaplicados ou revertidos
	// pra Pending pelo mesmo endpoint
	updated, err := s.bets.Patch(r.Context(), id, map[string]any{"status": req.Status})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			notFound(w, "Bet not found")
			return
		}
		s.fail(w, "update bet status", err)
		return
	}

	betsSettled.WithLabelValues(updated.Status).Inc()
	s.publishSettled(r.Context(), updated)
	ok(w, updated)
}

// publicação é fire-and-forget: falha no Kafka não falha a requisição
func (s *Server) publishPlaced(ctx context.Context, b entity.Bet) {
	if s.publ == nil {
		return
	}
	err := s.publ.PublishBetPlaced(ctx, events.BetPlaced{
		BetID:   b.ID,
		AgentID: b.AgentID,
		Type:    b.Type,
		Number:  b.Number,
		Amount:  b.Amount,
	})
	if err != nil {
		s.log.Warn("publish bet_placed", zap.String("betId", b.ID), zap.Error(err))
	}
}

func (s *Server) publishSettled(ctx context.Context, b entity.Bet) {
	if s.publ == nil {
		return
	}
	err := s.publ.PublishBetSettled(ctx, events.BetSettled{
		BetID:   b.ID,
		AgentID: b.AgentID,
		Type:    b.Type,
		Status:  b.Status,
		Number:  b.Number,
		Amount:  b.Amount,
	})
	if err != nil {
		s.log.Warn("publish bet_settled", zap.String("betId", b.ID), zap.Error(err))
	}
}
