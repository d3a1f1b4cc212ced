package messaging

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/pkg/errors"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"tablebook/internal/order"
)

const dialAttempts = 5

// RabbitPublisher publishes order events to a durable fanout exchange, so any
// number of kitchen screens can bind their own queue.
type RabbitPublisher struct {
	url      string
	exchange string
	log      logrus.FieldLogger

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewRabbitPublisher(url, exchange string, log logrus.FieldLogger) (*RabbitPublisher, error) {
	p := &RabbitPublisher{url: url, exchange: exchange, log: log}
	if err := p.connect(); err != nil {
		return nil, err
	}
	return p, nil
}

// connect dials with a linear backoff and declares the exchange.
func (p *RabbitPublisher) connect() error {
	var err error
	for i := 0; i < dialAttempts; i++ {
		if err = p.dial(); err == nil {
			return nil
		}
		if i < dialAttempts-1 {
			wait := time.Duration(i+1) * 2 * time.Second
			p.log.WithError(err).WithField("retry_in", wait).Warn("rabbitmq connection failed")
			time.Sleep(wait)
		}
	}
	return errors.Wrapf(err, "connect to rabbitmq after %d attempts", dialAttempts)
}

func (p *RabbitPublisher) dial() error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return err
	}
	err = ch.ExchangeDeclare(
		p.exchange, // name
		"fanout",   // type
		true,       // durable
		false,      // auto-deleted
		false,      // internal
		false,      // no-wait
		nil,        // arguments
	)
	if err != nil {
		conn.Close()
		return errors.Wrapf(err, "declare exchange %s", p.exchange)
	}
	p.conn, p.ch = conn, ch
	return nil
}

func (p *RabbitPublisher) NotifyOrderPlaced(ctx context.Context, record *order.OrderRecord) error {
	body, err := json.Marshal(NewOrderPlaced(record))
	if err != nil {
		return errors.Wrap(err, "marshal order event")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn == nil || p.conn.IsClosed() {
		if err := p.dial(); err != nil {
			return errors.Wrap(err, "reconnect to rabbitmq")
		}
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	err = p.ch.PublishWithContext(
		ctx,
		p.exchange, // exchange
		"",         // routing key
		false,      // mandatory
		false,      // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    record.ID().String(),
			Timestamp:    record.PlacedAt(),
			Type:         EventOrderPlaced,
			Body:         body,
		},
	)
	if err != nil {
		return errors.Wrapf(err, "publish to %s", p.exchange)
	}

	p.log.WithFields(logrus.Fields{
		"exchange": p.exchange,
		"order_id": record.ID().String(),
		"size":     len(body),
	}).Debug("order event published")
	return nil
}

func (p *RabbitPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.conn == nil {
		return nil
	}
	return p.conn.Close()
}
