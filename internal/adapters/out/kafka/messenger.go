// Package kafka publishes notifications to a Kafka topic instead of sending
// them to chats directly. A separate bridge process owns chat delivery.
package kafka

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"foodrelay/internal/core/ports"
	"foodrelay/internal/pkg/errs"

	kafkago "github.com/segmentio/kafka-go"
)

const DefaultWriteTimeout = 10 * time.Second

var _ ports.Messenger = (*Messenger)(nil)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

type Config struct {
	Brokers      []string
	Topic        string
	WriteTimeout time.Duration
}

// Notification is the JSON value of each record. Records are keyed by chat id
// so one chat's messages keep their order within a partition.
type Notification struct {
	ChatID int64     `json:"chat_id"`
	Text   string    `json:"text"`
	SentAt time.Time `json:"sent_at"`
}

type Messenger struct {
	writer messageWriter
	now    func() time.Time
}

func NewMessenger(cfg Config) (*Messenger, error) {
	brokers := make([]string, 0, len(cfg.Brokers))
	for _, b := range cfg.Brokers {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	if len(brokers) == 0 {
		return nil, errs.NewValueIsRequiredError("kafka brokers")
	}
	if strings.TrimSpace(cfg.Topic) == "" {
		return nil, errs.NewValueIsRequiredError("kafka topic")
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = DefaultWriteTimeout
	}

	return newMessenger(&kafkago.Writer{
		Addr:                   kafkago.TCP(brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		WriteTimeout:           cfg.WriteTimeout,
		AllowAutoTopicCreation: true,
	}), nil
}

func newMessenger(w messageWriter) *Messenger {
	return &Messenger{
		writer: w,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Send writes one record synchronously; the write error, if any, is the
// delivery failure.
func (m *Messenger) Send(ctx context.Context, chatID int64, text string) error {
	value, err := json.Marshal(Notification{
		ChatID: chatID,
		Text:   text,
		SentAt: m.now(),
	})
	if err != nil {
		return err
	}

	return m.writer.WriteMessages(ctx, kafkago.Message{
		Key:   []byte(strconv.FormatInt(chatID, 10)),
		Value: value,
	})
}

// Close flushes and releases the writer.
func (m *Messenger) Close() error {
	return m.writer.Close()
}
