package producer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/radieske/numbers-ledger-poc/internal/shared/kafka"
	"github.com/radieske/numbers-ledger-poc/pkg/contracts/events"
)

// KafkaPublisher publica os eventos do ciclo de vida das apostas.
type KafkaPublisher struct {
	Placed  *kafka.Writer
	Settled *kafka.Writer
}

func NewKafkaPublisher(placed, settled *kafka.Writer) *KafkaPublisher {
	return &KafkaPublisher{Placed: placed, Settled: settled}
}

func (p *KafkaPublisher) PublishBetPlaced(ctx context.Context, e events.BetPlaced) error {
	e.TsUnixMs = time.Now().UnixMilli()
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return kafka.WriteJSON(ctx, p.Placed, e.BetID, b)
}

func (p *KafkaPublisher) PublishBetSettled(ctx context.Context, e events.BetSettled) error {
	e.TsUnixMs = time.Now().UnixMilli()
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return kafka.WriteJSON(ctx, p.Settled, e.BetID, b)
}
