package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"tableside_server/structs"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/rabbitmq/amqp091-go"
)

type amqpPublisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
}

// KitchenService publishes kitchen tickets to a RabbitMQ topic exchange. Routing keys are
// kitchen.<command type>, so a station can bind to kitchen.takeaway only.
type KitchenService struct {
	logger   *gecho.Logger
	url      string
	exchange string

	mu      sync.Mutex
	conn    *amqp091.Connection
	channel amqpPublisher
	dial    func() (amqpPublisher, error)
}

func NewKitchenService(logger *gecho.Logger, cfg *structs.KitchenConfig) *KitchenService {
	ks := &KitchenService{
		logger:   logger,
		url:      cfg.AmqpURL,
		exchange: cfg.Exchange,
	}
	ks.dial = ks.connect
	return ks
}

// connect dials the broker and declares the exchange. Caller holds ks.mu.
func (ks *KitchenService) connect() (amqpPublisher, error) {
	conn, err := amqp091.Dial(ks.url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		ks.exchange, // name
		"topic",     // type
		true,        // durable
		false,       // auto-deleted
		false,       // internal
		false,       // no-wait
		nil,         // arguments
	)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to declare %s exchange: %w", ks.exchange, err)
	}

	ks.conn = conn
	ks.logger.Info("Connected to kitchen exchange", gecho.Field("exchange", ks.exchange))
	return ch, nil
}

func (ks *KitchenService) publisher() (amqpPublisher, error) {
	ks.mu.Lock()
	defer ks.mu.Unlock()

	if ks.channel != nil && (ks.conn == nil || !ks.conn.IsClosed()) {
		return ks.channel, nil
	}
	ch, err := ks.dial()
	if err != nil {
		return nil, err
	}
	ks.channel = ch
	return ch, nil
}

func (ks *KitchenService) PublishTicket(ctx context.Context, ticket structs.KitchenTicket) error {
	body, err := json.Marshal(ticket)
	if err != nil {
		return fmt.Errorf("failed to marshal kitchen ticket: %w", err)
	}

	ch, err := ks.publisher()
	if err != nil {
		return err
	}

	routingKey := "kitchen." + string(ticket.Type)
	err = ch.PublishWithContext(ctx,
		ks.exchange, // exchange
		routingKey,  // routing key
		false,       // mandatory
		false,       // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			MessageId:    ticket.CommandID,
			Body:         body,
		},
	)
	if err != nil {
		ks.mu.Lock()
		ks.channel = nil
		ks.mu.Unlock()
		return fmt.Errorf("failed to publish kitchen ticket: %w", err)
	}

	ks.logger.Debug("Kitchen ticket published",
		gecho.Field("command_id", ticket.CommandID),
		gecho.Field("routing_key", routingKey),
		gecho.Field("lines", len(ticket.Lines)),
	)
	return nil
}

func (ks *KitchenService) Close() error {
	ks.mu.Lock()
	defer ks.mu.Unlock()

	ks.channel = nil
	if ks.conn == nil {
		return nil
	}
	err := ks.conn.Close()
	ks.conn = nil
	return err
}
