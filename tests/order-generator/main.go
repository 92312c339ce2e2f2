package main

import (
	"context"
	"encoding/json"
	"log"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/SergeyBogomolovv/order-desk/internal/entities"
	"github.com/SergeyBogomolovv/order-desk/internal/handler"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
)

// заказы из генератора начинаются с большого id, чтобы не пересекаться с фикстурами
const firstID = 100_000

func generateRandomOrder(id int64) handler.Order {
	items := make([]handler.OrderItem, gofakeit.IntRange(1, 4))
	for i := range items {
		items[i] = handler.OrderItem{
			ProductID:       int64(gofakeit.IntRange(1, 500)),
			ProductName:     gofakeit.ProductName(),
			Quantity:        gofakeit.IntRange(1, 5),
			PriceAtPurchase: decimal.NewFromFloat(gofakeit.Price(1, 500)).Round(2),
		}
	}

	statuses := entities.OrderStatuses()
	return handler.Order{
		ID:              id,
		CustomerName:    gofakeit.Name(),
		CustomerEmail:   gofakeit.Email(),
		ShippingAddress: gofakeit.Street() + ", " + gofakeit.City(),
		OrderDate:       time.Now().UTC().Truncate(time.Second),
		Status:          string(statuses[gofakeit.IntRange(0, len(statuses)-1)]),
		Items:           items,
	}
}

func main() {
	writer := &kafka.Writer{
		Addr:     kafka.TCP("localhost:9092"),
		Topic:    "orders",
		Balancer: &kafka.Hash{},
	}
	defer writer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for id := int64(firstID); ; {
		select {
		case <-ticker.C:
			order := generateRandomOrder(id)
			data, _ := json.Marshal(order)
			msg := kafka.Message{Key: []byte(strconv.FormatInt(id, 10)), Value: data}
			if err := writer.WriteMessages(ctx, msg); err != nil {
				log.Println("failed to write order:", err)
				continue
			}
			log.Println("order generated", order.ID)
			id++
		case <-ctx.Done():
			return
		}
	}
}
