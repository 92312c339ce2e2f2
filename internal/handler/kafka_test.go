package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/SergeyBogomolovv/order-desk/internal/entities"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReader struct {
	msgs      []kafka.Message
	committed []kafka.Message
	closed    bool
}

// FetchMessage отдает сообщения по очереди, затем io.EOF.
func (r *fakeReader) FetchMessage(context.Context) (kafka.Message, error) {
	if len(r.msgs) == 0 {
		return kafka.Message{}, io.EOF
	}
	m := r.msgs[0]
	r.msgs = r.msgs[1:]
	return m, nil
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.committed = append(r.committed, msgs...)
	return nil
}

func (r *fakeReader) Close() error {
	r.closed = true
	return nil
}

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

type recordingSaver struct {
	saved []entities.Order
	err   error
}

func (s *recordingSaver) SaveOrder(_ context.Context, order entities.Order) error {
	if s.err != nil {
		return s.err
	}
	s.saved = append(s.saved, order)
	return nil
}

const validOrderJSON = `{
	"id": 42,
	"customerName": "Alex",
	"customerEmail": "alex@example.com",
	"shippingAddress": "1 Main St",
	"orderDate": "2024-06-01T10:00:00Z",
	"status": "PENDING",
	"items": [
		{"productId": 1, "productName": "X Phone", "quantity": 2, "priceAtPurchase": "50.00"}
	]
}`

func newTestKafkaHandler(reader *fakeReader, dlq *fakeWriter, saver OrderSaver) *kafkaHandler {
	return newKafkaHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), reader, dlq, saver)
}

func TestKafkaHandler_Consume(t *testing.T) {
	testCases := []struct {
		name          string
		value         string
		saverErr      error
		wantSaved     int
		wantDLQ       int
		wantCommitted int
		wantErr       string
	}{
		{name: "valid order", value: validOrderJSON, wantSaved: 1, wantCommitted: 1},
		{name: "malformed json", value: `{"id":`, wantDLQ: 1, wantCommitted: 1},
		{name: "missing customer", value: `{"id": 1, "status": "PENDING", "items": []}`, wantDLQ: 1, wantCommitted: 1},
		{
			name:          "unknown status",
			value:         `{"id":1,"customerName":"A","customerEmail":"a@b.c","shippingAddress":"x","orderDate":"2024-06-01T10:00:00Z","status":"LOST","items":[{"productName":"p","quantity":1,"priceAtPurchase":"1"}]}`,
			wantDLQ:       1,
			wantCommitted: 1,
		},
		{
			name:          "store rejects order",
			value:         validOrderJSON,
			saverErr:      fmt.Errorf("%w: id must be positive", entities.ErrInvalidOrder),
			wantDLQ:       1,
			wantCommitted: 1,
		},
		{
			name:     "transient save failure stays uncommitted",
			value:    validOrderJSON,
			saverErr: errors.New("db down"),
			wantErr:  "failed to save order at offset 7: db down",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			reader := &fakeReader{msgs: []kafka.Message{{Topic: "orders", Key: []byte("k"), Value: []byte(tc.value), Offset: 7}}}
			dlq := &fakeWriter{}
			saver := &recordingSaver{err: tc.saverErr}

			err := newTestKafkaHandler(reader, dlq, saver).Consume(context.Background())
			if tc.wantErr != "" {
				assert.EqualError(t, err, tc.wantErr)
			} else {
				assert.NoError(t, err)
			}

			assert.Len(t, saver.saved, tc.wantSaved)
			require.Len(t, dlq.msgs, tc.wantDLQ)
			assert.Len(t, reader.committed, tc.wantCommitted)

			if tc.wantDLQ > 0 {
				assert.Equal(t, "orders-dlq", dlq.msgs[0].Topic)
				assert.Equal(t, tc.value, string(dlq.msgs[0].Value))
			}
		})
	}
}

func TestKafkaHandler_TransientFailureStopsConsuming(t *testing.T) {
	reader := &fakeReader{msgs: []kafka.Message{
		{Topic: "orders", Value: []byte(validOrderJSON), Offset: 1},
		{Topic: "orders", Value: []byte(validOrderJSON), Offset: 2},
	}}
	saver := &recordingSaver{err: errors.New("db down")}

	err := newTestKafkaHandler(reader, &fakeWriter{}, saver).Consume(context.Background())

	require.Error(t, err)
	assert.Empty(t, reader.committed)
	// следующее сообщение не читается, иначе его коммит перекрыл бы первое
	assert.Len(t, reader.msgs, 1)
}

func TestKafkaHandler_ConsumeMapsOrder(t *testing.T) {
	reader := &fakeReader{msgs: []kafka.Message{{Topic: "orders", Value: []byte(validOrderJSON)}}}
	saver := &recordingSaver{}

	require.NoError(t, newTestKafkaHandler(reader, &fakeWriter{}, saver).Consume(context.Background()))

	require.Len(t, saver.saved, 1)
	order := saver.saved[0]
	assert.Equal(t, int64(42), order.ID)
	assert.Equal(t, entities.OrderStatusPending, order.Status)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "50.00", order.Items[0].PriceAtPurchase.StringFixed(2))
}

func TestKafkaHandler_DLQFailureSkipsCommit(t *testing.T) {
	reader := &fakeReader{msgs: []kafka.Message{{Topic: "orders", Value: []byte(`garbage`)}}}
	dlq := &fakeWriter{err: errors.New("broker unavailable")}

	err := newTestKafkaHandler(reader, dlq, &recordingSaver{}).Consume(context.Background())

	assert.ErrorContains(t, err, "broker unavailable")
	assert.Empty(t, reader.committed)
}

func TestKafkaHandler_Close(t *testing.T) {
	reader := &fakeReader{}
	dlq := &fakeWriter{}

	require.NoError(t, newTestKafkaHandler(reader, dlq, &recordingSaver{}).Close())
	assert.True(t, reader.closed)
	assert.True(t, dlq.closed)
}
