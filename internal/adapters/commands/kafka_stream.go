package commands

import (
	"context"
	"errors"
	"io"
	"place-map-service/internal/platform/logging"
	"time"

	"github.com/segmentio/kafka-go"
)

// KafkaReader is the part of *kafka.Reader the stream uses.
type KafkaReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaStream pushes chatbot commands published on a Kafka topic.
type KafkaStream struct {
	reader  KafkaReader
	backoff time.Duration
}

func NewKafkaStream(broker, topic, groupID string) *KafkaStream {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        []string{broker},
		Topic:          topic,
		GroupID:        groupID,
		CommitInterval: 0,
		MinBytes:       1,
		MaxBytes:       1e6,
	})
	return NewKafkaStreamWithReader(reader)
}

func NewKafkaStreamWithReader(reader KafkaReader) *KafkaStream {
	return &KafkaStream{reader: reader, backoff: time.Second}
}

// Commands starts the consumer loop. Each message is committed once it has
// been handed to the receiver. The channel closes when ctx ends or the
// reader is closed.
func (k *KafkaStream) Commands(ctx context.Context) <-chan []byte {
	out := make(chan []byte)

	go func() {
		defer close(out)
		logger := logging.GetFromContext(ctx)

		for {
			msg, err := k.reader.FetchMessage(ctx)
			if err != nil {
				if ctx.Err() != nil || errors.Is(err, io.EOF) {
					return
				}
				logger.Warn().Err(err).Msg("error reading command message")

				select {
				case <-ctx.Done():
					return
				case <-time.After(k.backoff):
				}
				continue
			}

			select {
			case out <- msg.Value:
			case <-ctx.Done():
				return
			}

			if err := k.reader.CommitMessages(ctx, msg); err != nil {
				logger.Warn().Err(err).Int64("offset", msg.Offset).Msg("commit command message")
			}
		}
	}()

	return out
}

func (k *KafkaStream) Close() error {
	return k.reader.Close()
}
