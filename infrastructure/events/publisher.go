package events

import (
	"context"
	"time"

	"github.com/vfg2006/nightclub-pos-api/internal/domain"
)

const (
	RoutingTransactionRecorded = "transaction.recorded"
	RoutingTransactionRefunded = "transaction.refunded"
)

// TransactionEvent é a mensagem publicada a cada venda ou estorno registrado
type TransactionEvent struct {
	Type          string    `json:"type"`
	ClubID        string    `json:"club_id"`
	TransactionID string    `json:"transaction_id"`
	FinalAmount   float64   `json:"final_amount"`
	PaymentMethod string    `json:"payment_method"`
	IsRefund      bool      `json:"is_refund"`
	OccurredAt    time.Time `json:"occurred_at"`
}

func NewTransactionEvent(tx *domain.Transaction) TransactionEvent {
	eventType := RoutingTransactionRecorded
	if tx.IsRefund {
		eventType = RoutingTransactionRefunded
	}

	return TransactionEvent{
		Type:          eventType,
		ClubID:        tx.ClubID,
		TransactionID: tx.ID,
		FinalAmount:   tx.FinalAmount,
		PaymentMethod: tx.PaymentMethod,
		IsRefund:      tx.IsRefund,
		OccurredAt:    tx.TransactionDate,
	}
}

//go:generate mockgen -source=publisher.go -destination=mocks/publisher_mock.go -package=mocks

type Publisher interface {
	PublishTransaction(ctx context.Context, event TransactionEvent) error
}

type NoopPublisher struct{}

func (NoopPublisher) PublishTransaction(_ context.Context, _ TransactionEvent) error {
	return nil
}
