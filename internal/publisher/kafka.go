package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/SergeyBogomolovv/order-desk/internal/config"
	"github.com/SergeyBogomolovv/order-desk/internal/entities"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

const (
	EventOrderStatusChanged = "order.status_changed"
	EventProductCreated     = "product.created"
	EventProductUpdated     = "product.updated"
	EventProductDeleted     = "product.deleted"
)

type Event struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	OccurredAt time.Time       `json:"occurredAt"`
	Payload    json.RawMessage `json:"payload"`
}

type statusChanged struct {
	OrderID int64  `json:"orderId"`
	Status  string `json:"status"`
}

type productChanged struct {
	ProductID int64  `json:"productId"`
	Name      string `json:"name"`
	Category  string `json:"category"`
	Price     string `json:"price"`
}

type productDeleted struct {
	ProductID int64 `json:"productId"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type kafkaPublisher struct {
	writer messageWriter
	now    func() time.Time
}

func NewKafkaPublisher(cfg config.Kafka) *kafkaPublisher {
	return newKafkaPublisher(&kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.EventsTopic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: cfg.BatchTimeout,
	})
}

func newKafkaPublisher(w messageWriter) *kafkaPublisher {
	return &kafkaPublisher{writer: w, now: time.Now}
}

func (p *kafkaPublisher) OrderStatusChanged(ctx context.Context, order entities.Order) error {
	return p.publish(ctx, EventOrderStatusChanged, order.ID, statusChanged{
		OrderID: order.ID,
		Status:  string(order.Status),
	})
}

func (p *kafkaPublisher) ProductCreated(ctx context.Context, product entities.Product) error {
	return p.publish(ctx, EventProductCreated, product.ID, toProductChanged(product))
}

func (p *kafkaPublisher) ProductUpdated(ctx context.Context, product entities.Product) error {
	return p.publish(ctx, EventProductUpdated, product.ID, toProductChanged(product))
}

func (p *kafkaPublisher) ProductDeleted(ctx context.Context, id int64) error {
	return p.publish(ctx, EventProductDeleted, id, productDeleted{ProductID: id})
}

func toProductChanged(product entities.Product) productChanged {
	return productChanged{
		ProductID: product.ID,
		Name:      product.Name,
		Category:  product.Category,
		Price:     product.Price.StringFixed(entities.PriceScale),
	}
}

// publish keys messages by entity id so events of one entity stay ordered.
func (p *kafkaPublisher) publish(ctx context.Context, eventType string, entityID int64, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	value, err := json.Marshal(Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		OccurredAt: p.now().UTC(),
		Payload:    raw,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(entityID, 10)),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(eventType)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write %s event: %w", eventType, err)
	}
	return nil
}

func (p *kafkaPublisher) Close() error {
	return p.writer.Close()
}

type nopPublisher struct{}

// Nop drops events, used when Kafka is disabled.
func Nop() nopPublisher {
	return nopPublisher{}
}

func (nopPublisher) OrderStatusChanged(context.Context, entities.Order) error { return nil }

func (nopPublisher) ProductCreated(context.Context, entities.Product) error { return nil }

func (nopPublisher) ProductUpdated(context.Context, entities.Product) error { return nil }

func (nopPublisher) ProductDeleted(context.Context, int64) error { return nil }

func (nopPublisher) Close() error { return nil }
