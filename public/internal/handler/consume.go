package handler

import (
	"context"
	"encoding/json"

	"github.com/ashmetov/booklib/public/internal/errs"
	"github.com/ashmetov/booklib/public/internal/model"
	"github.com/IBM/sarama"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type (
	upsertBook func(ctx context.Context, req model.SyncBookRequest) (model.Book, bool, error)
	deleteBook func(ctx context.Context, isbn string) error
)

// Consumer applies catalog-sync messages from Kafka. Delivery is
// at-least-once; both operations are idempotent, so replays converge. The
// same instance is reused across consumer-group sessions, so Setup must be
// safe to run on every rebalance.
type Consumer struct {
	upsertHandler upsertBook
	deleteHandler deleteBook
	log           *zap.Logger
}

func NewConsumer(upsert upsertBook, del deleteBook, log *zap.Logger) *Consumer {
	return &Consumer{
		upsertHandler: upsert,
		deleteHandler: del,
		log:           log.Named("consumer"),
	}
}

func (consumer *Consumer) Setup(sarama.ConsumerGroupSession) error {
	return nil
}

// Cleanup is run at the end of a session, once all ConsumeClaim goroutines have exited.
func (consumer *Consumer) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

func (consumer *Consumer) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok {
				consumer.log.Warn("message channel was closed")
				return nil
			}
			var msg model.SyncMessage
			if err := json.Unmarshal(message.Value, &msg); err != nil {
				consumer.log.Error("sync message unmarshal", zap.Error(err))
				session.MarkMessage(message, "")
				continue
			}

			if err := consumer.apply(session.Context(), msg); err != nil {
				// leave unmarked so the message is redelivered
				consumer.log.Error("sync apply", zap.String("isbn", msg.ISBN), zap.Error(err))
				continue
			}

			consumer.log.Debug("sync message applied",
				zap.String("kind", msg.Kind), zap.String("isbn", msg.ISBN), zap.Time("timestamp", message.Timestamp))
			session.MarkMessage(message, "")
		case <-session.Context().Done():
			return nil
		}
	}
}

func (consumer *Consumer) apply(ctx context.Context, msg model.SyncMessage) error {
	switch msg.Kind {
	case model.SyncKindUpsert:
		if msg.Book == nil {
			return errors.New("upsert without book payload")
		}
		_, _, err := consumer.upsertHandler(ctx, *msg.Book)
		return err
	case model.SyncKindDelete:
		if err := consumer.deleteHandler(ctx, msg.ISBN); err != nil && !errors.Is(err, errs.ErrNotFound) {
			return err
		}
		return nil
	}
	return errors.Errorf("unknown sync kind %q", msg.Kind)
}
