package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/radieske/numbers-ledger-poc/internal/ledger-service/dto"
	"github.com/radieske/numbers-ledger-poc/internal/ledger-service/entity"
	"github.com/radieske/numbers-ledger-poc/internal/ledger-service/store"
	"github.com/radieske/numbers-ledger-poc/internal/shared/config"
	"github.com/radieske/numbers-ledger-poc/pkg/contracts/events"
)

// Publisher emite os eventos do ciclo de vida das apostas (Kafka em produção)
type Publisher interface {
	PublishBetPlaced(context.Context, events.BetPlaced) error
	PublishBetSettled(context.Context, events.BetSettled) error
}

// ReportCache é o cache TTL dos relatórios; nil desliga o cache
type ReportCache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttl time.Duration) error
}

var (
	betsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_bets_created_total",
		Help: "Apostas criadas, por tipo de jogo",
	}, []string{"type"})

	betsSettled = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_bets_settled_total",
		Help: "Mudanças de status de aposta, por status final",
	}, []string{"status"})
)

type Server struct {
	log    *zap.Logger
	agents *store.Entity[entity.Agent]
	bets   *store.Entity[entity.Bet]
	limits *store.Entity[entity.LimitsData]
	ledger *store.Entity[entity.LedgerEntry]
	publ   Publisher
	cache  ReportCache
	cfg    config.Config
}

func NewServer(log *zap.Logger, be store.Backend, publ Publisher, cache ReportCache, cfg config.Config) *Server {
	return &Server{
		log:    log,
		agents: store.NewEntity(be, entity.Agents),
		bets:   store.NewEntity(be, entity.Bets),
		limits: store.NewEntity(be, entity.Limits),
		ledger: store.NewEntity(be, entity.Ledger),
		publ:   publ,
		cache:  cache,
		cfg:    cfg,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Get("/agents", s.listAgents)
		r.Post("/agents", s.createAgent)
		r.Get("/agents/{id}", s.getAgent)

		r.Get("/bets", s.listBets)
		r.Post("/bets", s.createBet)
		r.Post("/bets/bulk", s.createBetsBulk)
		r.Put("/bets/{id}/status", s.updateBetStatus)

		r.Get("/dashboard/stats", s.dashboardStats)
		r.Get("/reports/by-number", s.reportByNumber)

		r.Get("/limits", s.getLimits)
		r.Post("/limits", s.updateLimits)

		r.Get("/ledger", s.listLedger)
	})
	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func ok(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, dto.Response{Success: true, Data: data})
}

func bad(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, dto.Response{Success: false, Error: msg})
}

func notFound(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusNotFound, dto.Response{Success: false, Error: msg})
}

func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	s.log.Error(op, zap.Error(err))
	writeJSON(w, http.StatusInternalServerError, dto.Response{Success: false, Error: err.Error()})
}

// listErr distingue cursor inválido (erro do chamador) de falha de storage
func (s *Server) listErr(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, store.ErrInvalidCursor) {
		bad(w, "invalid cursor")
		return
	}
	s.fail(w, op, err)
}

// listParams extrai cursor e limit da query; limit ausente usa o padrão do kind
func listParams(r *http.Request) (cursor *string, limit int, err error) {
	if cq := r.URL.Query().Get("cursor"); cq != "" {
		cursor = &cq
	}
	if lq := r.URL.Query().Get("limit"); lq != "" {
		n, perr := strconv.Atoi(lq)
		if perr != nil {
			return nil, 0, fmt.Errorf("limit must be an integer")
		}
		if n < 1 {
			n = 1
		}
		limit = n
	}
	return cursor, limit, nil
}
