// Package events publishes store changes to Kafka.
package events

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"hrdash/internal/domain/directory"
)

const source = "hrdash"

// ChangeEvent is the message body for one state change.
type ChangeEvent struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	OccurredAt  time.Time `json:"occurredAt"`
	Employees   int       `json:"employees"`
	Bookmarks   []string  `json:"bookmarks"`
	CurrentPage int       `json:"currentPage"`
	TotalPages  int       `json:"totalPages"`
	Loading     bool      `json:"loading"`
	Error       string    `json:"error,omitempty"`
}

// Publisher forwards changes to a topic from a background goroutine so
// dispatch never waits on the broker.
type Publisher struct {
	sp    sarama.SyncProducer
	topic string
	log   zerolog.Logger
	now   func() time.Time

	mu     sync.RWMutex
	closed bool
	events chan ChangeEvent
	done   chan struct{}
}

func NewPublisher(sp sarama.SyncProducer, topic string, log zerolog.Logger) *Publisher {
	p := &Publisher{
		sp:     sp,
		topic:  topic,
		log:    log.With().Str("component", "events").Logger(),
		now:    time.Now,
		events: make(chan ChangeEvent, 256),
		done:   make(chan struct{}),
	}
	go p.run()
	return p
}

// Dial creates an idempotent sync producer for brokers.
func Dial(brokers []string) (sarama.SyncProducer, error) {
	if len(brokers) == 0 {
		return nil, errors.New("no kafka brokers configured")
	}
	cfg := sarama.NewConfig()
	cfg.Version = sarama.V3_3_2_0
	cfg.Producer.Return.Successes = true
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Idempotent = true
	cfg.Net.MaxOpenRequests = 1
	cfg.Producer.Retry.Max = 5
	cfg.Producer.Retry.Backoff = 200 * time.Millisecond
	return sarama.NewSyncProducer(brokers, cfg)
}

// Observe is a directory.Observer.
func (p *Publisher) Observe(change directory.Change) {
	after := change.After
	event := ChangeEvent{
		ID:          uuid.NewString(),
		Type:        change.Kind,
		OccurredAt:  p.now().UTC(),
		Employees:   len(after.Employees),
		Bookmarks:   append([]string{}, after.Bookmarks...),
		CurrentPage: after.CurrentPage,
		TotalPages:  after.TotalPages,
		Loading:     after.Loading,
		Error:       after.Error,
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return
	}
	select {
	case p.events <- event:
	default:
		p.log.Warn().Str("type", event.Type).Msg("change event dropped, buffer full")
	}
}

// Close flushes buffered events and closes the producer. Changes observed
// after Close are discarded.
func (p *Publisher) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.events)
	p.mu.Unlock()

	<-p.done
	return p.sp.Close()
}

func (p *Publisher) run() {
	defer close(p.done)
	for event := range p.events {
		if err := p.send(event); err != nil {
			p.log.Error().Err(err).Str("type", event.Type).Msg("failed to publish change event")
		}
	}
}

func (p *Publisher) send(event ChangeEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal change event: %w", err)
	}
	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.Type),
		Value: sarama.ByteEncoder(body),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event-kind"), Value: []byte(event.Type)},
			{Key: []byte("source"), Value: []byte(source)},
			{Key: []byte("content-type"), Value: []byte("application/json")},
		},
	}
	part, off, err := p.sp.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("send kafka message: %w", err)
	}
	p.log.Debug().
		Str("topic", p.topic).
		Str("type", event.Type).
		Int32("partition", part).
		Int64("offset", off).
		Msg("change event published")
	return nil
}
