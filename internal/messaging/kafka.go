package messaging

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"

	"tablebook/internal/order"
)

// batchTimeout caps how long a synchronous write waits for a batch to fill;
// one order is one message.
const batchTimeout = 10 * time.Millisecond

// KafkaPublisher writes order events keyed by order id, so every event for an
// order lands on the same partition.
type KafkaPublisher struct {
	writer *kafka.Writer
}

// SplitBrokers parses a comma separated broker list, skipping blanks.
func SplitBrokers(brokersCSV string) []string {
	brokers := []string{}
	for _, b := range strings.Split(brokersCSV, ",") {
		b = strings.TrimSpace(b)
		if b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

func NewKafkaPublisher(brokers []string, topic string) (*KafkaPublisher, error) {
	if len(brokers) == 0 {
		return nil, errors.New("no kafka brokers configured")
	}
	if topic == "" {
		return nil, errors.New("no kafka topic configured")
	}
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireOne,
			BatchTimeout:           batchTimeout,
			AllowAutoTopicCreation: true,
		},
	}, nil
}

func (p *KafkaPublisher) NotifyOrderPlaced(ctx context.Context, record *order.OrderRecord) error {
	data, err := json.Marshal(NewOrderPlaced(record))
	if err != nil {
		return errors.Wrap(err, "marshal order event")
	}
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(record.ID().String()),
		Value: data,
		Time:  time.Now().UTC(),
	})
	return errors.Wrapf(err, "write to %s", p.writer.Topic)
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
