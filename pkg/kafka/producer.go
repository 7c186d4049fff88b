package kafka

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	kafkago "github.com/segmentio/kafka-go"
)

// Config holds the broker list, loaded from KAFKA_BROKERS.
type Config struct {
	Brokers []string
}

// Message is one event on the wire. Key carries the loan id so every event
// of a loan lands on the same partition in order.
type Message struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}

// Producer publishes through one lazily created writer per topic. In
// practice this service writes a single topic (loan-events); the map keeps
// the publisher reusable if that ever splits.
type Producer struct {
	mu      sync.RWMutex
	writers map[string]*kafkago.Writer
	brokers []string
}

func NewProducer(cfg Config) *Producer {
	return &Producer{
		writers: make(map[string]*kafkago.Writer),
		brokers: cfg.Brokers,
	}
}

// Publish writes the messages to topic in one batch.
func (p *Producer) Publish(ctx context.Context, topic string, messages ...Message) error {
	batch := make([]kafkago.Message, 0, len(messages))
	for _, msg := range messages {
		batch = append(batch, toWireMessage(msg))
	}
	if err := p.writer(topic).WriteMessages(ctx, batch...); err != nil {
		return fmt.Errorf("publish to %s: %w", topic, err)
	}
	return nil
}

// Close flushes and closes every writer.
func (p *Producer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var errs []error
	for topic, w := range p.writers {
		if err := w.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close writer for %s: %w", topic, err))
		}
	}
	p.writers = make(map[string]*kafkago.Writer)
	return errors.Join(errs...)
}

func toWireMessage(msg Message) kafkago.Message {
	km := kafkago.Message{Key: msg.Key, Value: msg.Value}
	for k, v := range msg.Headers {
		km.Headers = append(km.Headers, kafkago.Header{Key: k, Value: []byte(v)})
	}
	return km
}

func (p *Producer) writer(topic string) *kafkago.Writer {
	p.mu.RLock()
	w, ok := p.writers[topic]
	p.mu.RUnlock()
	if ok {
		return w
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if w, ok := p.writers[topic]; ok {
		return w
	}
	w = &kafkago.Writer{
		Addr:         kafkago.TCP(p.brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafkago.RequireAll,
	}
	p.writers[topic] = w
	return w
}
