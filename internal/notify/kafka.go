package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

// MessageWriter is the subset of *kafka.Writer used by KafkaPublisher.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// NewKafkaWriter returns an async writer for topic. With Async set,
// WriteMessages returns immediately and errors surface through Completion.
func NewKafkaWriter(brokers []string, topic string, lg zerolog.Logger) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
		Async:                  true,
		Completion: func(msgs []kafka.Message, err error) {
			if err == nil {
				return
			}
			for _, m := range msgs {
				notificationsTotal.WithLabelValues(headerValue(m, "kind"), "kafka", OutcomeFailed).Inc()
			}
			lg.Error().Err(err).Int("messages", len(msgs)).Msg("kafka publish")
		},
	}
}

// KafkaPublisher publishes every event as JSON, keyed by kind and subject id.
type KafkaPublisher struct {
	w   MessageWriter
	log zerolog.Logger
}

// NewKafkaPublisher wraps w.
func NewKafkaPublisher(w MessageWriter, lg zerolog.Logger) *KafkaPublisher {
	return &KafkaPublisher{w: w, log: lg}
}

// Notify implements Notifier.
func (p *KafkaPublisher) Notify(ctx context.Context, ev Event) {
	value, err := json.Marshal(ev)
	if err != nil {
		p.log.Error().Err(err).Str("event", string(ev.Kind)).Msg("encode event")
		return
	}
	msg := kafka.Message{
		Key:     []byte(fmt.Sprintf("%s-%s", ev.Kind, ev.SubjectID())),
		Value:   value,
		Time:    ev.OccurredAt,
		Headers: []kafka.Header{{Key: "kind", Value: []byte(ev.Kind)}},
	}
	if err := p.w.WriteMessages(context.WithoutCancel(ctx), msg); err != nil {
		notificationsTotal.WithLabelValues(string(ev.Kind), "kafka", OutcomeFailed).Inc()
		p.log.Error().Err(err).Str("event", string(ev.Kind)).Msg("kafka publish")
		return
	}
	notificationsTotal.WithLabelValues(string(ev.Kind), "kafka", OutcomeSent).Inc()
}

// Close flushes and closes the writer.
func (p *KafkaPublisher) Close() error {
	return p.w.Close()
}

func headerValue(m kafka.Message, key string) string {
	for _, h := range m.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}
