package bus

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"classtrack/backend/internal/event/domain"
)

// KafkaBus implements Bus over a Kafka topic using segmentio/kafka-go,
// bridging fan-out across horizontally scaled instances. Each subscription
// runs its own reader in a per-subscription consumer group starting at the
// last offset, so every instance sees every event published after it
// subscribed and nothing before.
type KafkaBus struct {
	writer  *kafka.Writer
	brokers []string
	topic   string
	groupID string

	mu      sync.Mutex
	cancels []context.CancelFunc
}

// NewKafkaBus creates a Kafka-backed bus for the given topic. brokers must be
// non-empty. groupID prefixes per-subscription consumer groups. Call Close
// when shutting down.
func NewKafkaBus(brokers []string, topic, groupID string) *KafkaBus {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 50 * time.Millisecond,
	}
	if groupID == "" {
		groupID = "classtrack-bus"
	}
	return &KafkaBus{writer: writer, brokers: brokers, topic: topic, groupID: groupID}
}

// Publish serializes the event as JSON and writes it to the topic. Uses a
// short timeout so slow Kafka does not block the request that triggered the
// mutation indefinitely.
func (b *KafkaBus) Publish(ctx context.Context, e *domain.Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return err
	}
	writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return b.writer.WriteMessages(writeCtx, kafka.Message{Value: payload})
}

// Subscribe starts a reader goroutine invoking handler for each event
// published after subscription. Malformed messages are logged and skipped.
func (b *KafkaBus) Subscribe(handler Handler) (func(), error) {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: b.brokers,
		Topic:   b.topic,
		// Unique group per subscription: every subscriber sees every event.
		GroupID:        b.groupID + "-" + uuid.New().String(),
		StartOffset:    kafka.LastOffset,
		MinBytes:       1,
		MaxBytes:       10e6,
		MaxWait:        time.Second,
		CommitInterval: time.Second,
	})

	ctx, cancel := context.WithCancel(context.Background())
	b.mu.Lock()
	b.cancels = append(b.cancels, cancel)
	b.mu.Unlock()

	go func() {
		defer reader.Close()
		for {
			msg, err := reader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				log.Printf("bus: kafka read error: %v", err)
				continue
			}
			var e domain.Event
			if err := json.Unmarshal(msg.Value, &e); err != nil {
				log.Printf("bus: dropping malformed message: %v", err)
				continue
			}
			handler(&e)
		}
	}()

	return cancel, nil
}

// Close cancels all subscriptions and closes the writer. Safe to call twice.
func (b *KafkaBus) Close() error {
	b.mu.Lock()
	for _, cancel := range b.cancels {
		cancel()
	}
	b.cancels = nil
	b.mu.Unlock()
	return b.writer.Close()
}
