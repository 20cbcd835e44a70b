package sync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ashmetov/booklib/admin/internal/model"
	"github.com/ashmetov/booklib/pkg/circuit_breaker"
	"github.com/ashmetov/booklib/pkg/middleware"
	"github.com/IBM/sarama"
	"github.com/pkg/errors"
)

// outbound calls are bounded so a stalled receiver cannot pin the worker pool
const httpTimeout = 5 * time.Second

type HTTPTransport struct {
	client  *http.Client
	cb      circuit_breaker.CircuitBreaker
	baseURL string
	token   string
}

func NewHTTPTransport(baseURL, token string, cb circuit_breaker.CircuitBreaker) *HTTPTransport {
	return &HTTPTransport{
		client:  &http.Client{Timeout: httpTimeout},
		cb:      cb,
		baseURL: baseURL,
		token:   token,
	}
}

func (t *HTTPTransport) DeliverUpsert(ctx context.Context, book model.SyncBook) error {
	return t.cb.Call(func() error {
		data, err := json.Marshal(book)
		if err != nil {
			return err
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost,
			t.baseURL+"/api/internal/sync-book", bytes.NewReader(data))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(middleware.AuthorizationHeader, "Token "+t.token)

		resp, err := t.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
			return errors.Errorf("sync upsert %s: unexpected status %d", book.ISBN, resp.StatusCode)
		}
		return nil
	})
}

func (t *HTTPTransport) DeliverDelete(ctx context.Context, isbn string) error {
	return t.cb.Call(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodDelete,
			fmt.Sprintf("%s/api/internal/sync-book/%s", t.baseURL, isbn), http.NoBody)
		if err != nil {
			return err
		}
		req.Header.Set(middleware.AuthorizationHeader, "Token "+t.token)

		resp, err := t.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		// not-found means the replica never had the book; the end state is correct
		if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusNotFound {
			return errors.Errorf("sync delete %s: unexpected status %d", isbn, resp.StatusCode)
		}
		return nil
	})
}

// KafkaTransport hands tasks to the sync topic instead of calling the
// receiver directly. Messages are keyed by isbn so mutations of one book stay
// on one partition.
type KafkaTransport struct {
	producer sarama.SyncProducer
	topic    string
}

func NewKafkaTransport(producer sarama.SyncProducer, topic string) *KafkaTransport {
	return &KafkaTransport{
		producer: producer,
		topic:    topic,
	}
}

func (t *KafkaTransport) DeliverUpsert(_ context.Context, book model.SyncBook) error {
	return t.send(Task{Kind: KindUpsert, ISBN: book.ISBN, Book: &book})
}

func (t *KafkaTransport) DeliverDelete(_ context.Context, isbn string) error {
	return t.send(Task{Kind: KindDelete, ISBN: isbn})
}

func (t *KafkaTransport) send(task Task) error {
	data, err := json.Marshal(task)
	if err != nil {
		return err
	}
	msg := &sarama.ProducerMessage{
		Topic: t.topic,
		Key:   sarama.StringEncoder(task.ISBN),
		Value: sarama.StringEncoder(data),
	}
	if _, _, err = t.producer.SendMessage(msg); err != nil {
		return err
	}
	return nil
}
