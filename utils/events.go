package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"chatwheel/games/roulette"
)

// SpinResolved is published once per settled bet.
type SpinResolved struct {
	SpinID     string `json:"spin_id"`
	AccountID  string `json:"account_id"`
	Username   string `json:"username"`
	BetType    string `json:"bet_type"`
	Wager      int64  `json:"wager"`
	Slot       int    `json:"slot"`
	Color      string `json:"color"`
	Won        bool   `json:"won"`
	Multiplier int64  `json:"multiplier"`
	Delta      int64  `json:"delta"`
	Balance    int64  `json:"balance"`
	TsUnixMs   int64  `json:"ts_unix_ms"`
}

// NewSpinResolved builds the event for a settled result.
func NewSpinResolved(accountID, username string, res *roulette.Result, balance int64) SpinResolved {
	return SpinResolved{
		SpinID:     res.ID,
		AccountID:  accountID,
		Username:   username,
		BetType:    res.Bet.Type.String(),
		Wager:      res.Bet.Wager,
		Slot:       int(res.Slot),
		Color:      string(res.Color),
		Won:        res.Won,
		Multiplier: res.Multiplier,
		Delta:      res.Delta,
		Balance:    balance,
	}
}

// Publisher ships settled spins to downstream consumers.
type Publisher interface {
	PublishSpin(ctx context.Context, e SpinResolved) error
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) PublishSpin(context.Context, SpinResolved) error { return nil }

// NewKafkaWriter builds a writer for a comma-separated broker list.
func NewKafkaWriter(brokers, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(splitList(brokers)...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
		BatchTimeout:           50 * time.Millisecond,
	}
}

type KafkaPublisher struct {
	Writer *kafka.Writer
}

func NewKafkaPublisher(w *kafka.Writer) *KafkaPublisher {
	return &KafkaPublisher{Writer: w}
}

// PublishSpin keys messages by account so one user's spins stay ordered.
func (p *KafkaPublisher) PublishSpin(ctx context.Context, e SpinResolved) error {
	msg, err := spinMessage(e, time.Now())
	if err != nil {
		return err
	}
	if err := p.Writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish spin: %w", err)
	}
	return nil
}

// spinMessage encodes e, stamping it with now when it carries no timestamp.
func spinMessage(e SpinResolved, now time.Time) (kafka.Message, error) {
	if e.TsUnixMs == 0 {
		e.TsUnixMs = now.UnixMilli()
	}
	b, err := json.Marshal(e)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("failed to encode spin: %w", err)
	}
	return kafka.Message{
		Key:   []byte(e.AccountID),
		Value: b,
		Time:  time.UnixMilli(e.TsUnixMs),
	}, nil
}

// Close flushes and closes the writer.
func (p *KafkaPublisher) Close() error {
	return p.Writer.Close()
}
