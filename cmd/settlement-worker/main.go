package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/radieske/numbers-ledger-poc/internal/ledger-service/entity"
	"github.com/radieske/numbers-ledger-poc/internal/ledger-service/store"
	"github.com/radieske/numbers-ledger-poc/internal/shared/config"
	"github.com/radieske/numbers-ledger-poc/internal/shared/db"
	"github.com/radieske/numbers-ledger-poc/internal/shared/kafka"
	"github.com/radieske/numbers-ledger-poc/internal/shared/logger"
	"github.com/radieske/numbers-ledger-poc/internal/shared/metrics"
	ev "github.com/radieske/numbers-ledger-poc/pkg/contracts/events"
)

// settlement-worker materializa lançamentos contábeis a partir dos eventos de
// apostas: um débito quando a aposta entra, um crédito quando liquida Won.
func main() {
	cfg := config.Load()
	if cfg.ServiceName == "" {
		cfg.ServiceName = "settlement-worker"
		cfg.MetricsPort = "9091"
	}

	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("pg connect", zap.Error(err))
	}
	defer pg.Close()

	if err := db.Migrate(pg); err != nil {
		log.Fatal("migrate", zap.Error(err))
	}

	ledger := store.NewEntity(store.NewPostgres(pg), entity.Ledger)

	placedReader := kafka.NewReader(cfg.KafkaBrokers, cfg.TopicBetPlaced, "settlement")
	defer placedReader.Close()
	settledReader := kafka.NewReader(cfg.KafkaBrokers, cfg.TopicBetSettled, "settlement")
	defer settledReader.Close()

	metrics.StartMetricsServer(cfg.MetricsPort,
		func(ctx context.Context) error { return pg.PingContext(ctx) })
	log.Info("metrics/health", zap.String("addr", ":"+cfg.MetricsPort))

	log.Info("settlement-worker started",
		zap.String("consume", cfg.TopicBetPlaced+","+cfg.TopicBetSettled),
	)

	ctx := context.Background()

	go consume(ctx, log, settledReader, func(value []byte) error {
		var e ev.BetSettled
		if err := json.Unmarshal(value, &e); err != nil {
			return fmt.Errorf("unmarshal bet_settled: %w", err)
		}
		return processSettled(ctx, ledger, cfg, &e)
	})

	consume(ctx, log, placedReader, func(value []byte) error {
		var e ev.BetPlaced
		if err := json.Unmarshal(value, &e); err != nil {
			return fmt.Errorf("unmarshal bet_placed: %w", err)
		}
		return processPlaced(ctx, ledger, &e)
	})
}

// consume roda o loop de um reader; erro no handler não derruba o worker
func consume(ctx context.Context, log *zap.Logger, r *kafkago.Reader, handle func([]byte) error) {
	for {
		_, value, err := kafka.ReadNext(ctx, r)
		if err != nil {
			log.Warn("kafka read", zap.Error(err))
			time.Sleep(time.Second)
			continue
		}
		if err := handle(value); err != nil {
			log.Error("process event", zap.Error(err))
			// Backoff simples para evitar flood em caso de erro
			time.Sleep(500 * time.Millisecond)
		}
	}
}

// processPlaced registra o débito da aposta colocada.
// O id determinístico (betID-debit) torna a redelivery idempotente.
func processPlaced(ctx context.Context, ledger *store.Entity[entity.LedgerEntry], e *ev.BetPlaced) error {
	_, err := ledger.Create(ctx, entity.LedgerEntry{
		ID:          e.BetID + "-debit",
		BetID:       e.BetID,
		AgentID:     e.AgentID,
		Amount:      e.Amount,
		Type:        entity.LedgerDebit,
		Timestamp:   e.TsUnixMs,
		Description: fmt.Sprintf("bet placed: %s (%s)", e.Number, e.Type),
	})
	return err
}

// processSettled registra (ou substitui) o crédito de uma aposta vencedora.
// O valor do prêmio usa o multiplicador de payout configurado por tipo;
// a liquidação real de prêmios não existe neste core.
func processSettled(ctx context.Context, ledger *store.Entity[entity.LedgerEntry], cfg config.Config, e *ev.BetSettled) error {
	if e.Status != entity.BetWon {
		return nil
	}

	mult := cfg.Payout2D
	if e.Type == entity.BetType3D {
		mult = cfg.Payout3D
	}

	id := e.BetID + "-credit"
	entry := entity.LedgerEntry{
		ID:          id,
		BetID:       e.BetID,
		AgentID:     e.AgentID,
		Amount:      e.Amount * mult,
		Type:        entity.LedgerCredit,
		Timestamp:   e.TsUnixMs,
		Description: fmt.Sprintf("bet won: %s (%s) pays %.0fx", e.Number, e.Type, mult),
	}

	exists, err := ledger.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		_, err = ledger.Create(ctx, entry)
		return err
	}

	// re-liquidação do mesmo bet substitui o crédito em vez de duplicar
	_, err = ledger.Patch(ctx, id, map[string]any{
		"amount":      entry.Amount,
		"timestamp":   entry.Timestamp,
		"description": entry.Description,
	})
	return err
}
