package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/SergeyBogomolovv/order-desk/internal/config"
	"github.com/SergeyBogomolovv/order-desk/internal/entities"
	"github.com/SergeyBogomolovv/order-desk/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/segmentio/kafka-go"
)

type OrderSaver interface {
	SaveOrder(ctx context.Context, order entities.Order) error
}

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type kafkaHandler struct {
	dlq      messageWriter
	reader   messageReader
	logger   *slog.Logger
	validate *validator.Validate
	saver    OrderSaver
}

func NewKafkaHandler(logger *slog.Logger, cfg config.Kafka, saver OrderSaver) *kafkaHandler {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: cfg.Brokers,
		GroupID: cfg.GroupID,
		Topic:   cfg.Topic,
		MaxWait: cfg.ReaderMaxWait,
	})
	dlq := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: cfg.BatchTimeout,
	}
	return newKafkaHandler(logger, reader, dlq, saver)
}

func newKafkaHandler(logger *slog.Logger, reader messageReader, dlq messageWriter, saver OrderSaver) *kafkaHandler {
	return &kafkaHandler{
		logger:   logger.With(slog.String("handler", "kafka")),
		reader:   reader,
		dlq:      dlq,
		validate: utils.NewValidator(),
		saver:    saver,
	}
}

// errInvalidMessage помечает сообщения, которые не станут валидными при повторе.
var errInvalidMessage = errors.New("invalid message")

// Consume читает заказы до отмены контекста или закрытия reader.
// Невалидные сообщения уходят в DLQ и коммитятся. При любой другой ошибке
// сообщение остается незакоммиченным, и Consume возвращает ошибку,
// чтобы после перезапуска сообщение пришло снова.
func (h *kafkaHandler) Consume(ctx context.Context) error {
	for {
		m, err := h.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) || ctx.Err() != nil {
				return nil
			}
			h.logger.Error("failed to fetch message", slog.Any("error", err))
			continue
		}

		start := time.Now()
		err = h.handleSaveOrder(ctx, m)
		switch {
		case err == nil:
			ordersIngested.Inc()
			orderIngestDuration.Observe(time.Since(start).Seconds())
		case errors.Is(err, errInvalidMessage), errors.Is(err, entities.ErrInvalidOrder):
			ordersFailed.Inc()
			h.logger.Error("invalid message", slog.Any("error", err), slog.Int64("offset", m.Offset))

			if err := h.WriteToDLQ(ctx, m); err != nil {
				return fmt.Errorf("failed to write message at offset %d to DLQ: %w", m.Offset, err)
			}
			ordersDLQ.Inc()
		default:
			ordersFailed.Inc()
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("failed to save order at offset %d: %w", m.Offset, err)
		}

		if err := h.reader.CommitMessages(ctx, m); err != nil {
			commitErrors.Inc()
			h.logger.Error("failed to commit message", slog.Any("error", err))
		}
	}
}

func (h *kafkaHandler) handleSaveOrder(ctx context.Context, m kafka.Message) error {
	var order Order
	if err := json.Unmarshal(m.Value, &order); err != nil {
		return fmt.Errorf("%w: failed to unmarshal order: %w", errInvalidMessage, err)
	}

	if err := h.validate.Struct(order); err != nil {
		return fmt.Errorf("%w: invalid order data: %w", errInvalidMessage, err)
	}

	return h.saver.SaveOrder(ctx, OrderJSONToEntity(order))
}

func (h *kafkaHandler) WriteToDLQ(ctx context.Context, m kafka.Message) error {
	return h.dlq.WriteMessages(ctx, kafka.Message{
		Topic:   fmt.Sprintf("%s-dlq", m.Topic),
		Key:     m.Key,
		Value:   m.Value,
		Headers: m.Headers,
	})
}

func (h *kafkaHandler) Close() error {
	return errors.Join(h.reader.Close(), h.dlq.Close())
}
