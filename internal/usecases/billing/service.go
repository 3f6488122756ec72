package billing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vfg2006/nightclub-pos-api/infrastructure/events"
	"github.com/vfg2006/nightclub-pos-api/infrastructure/repository"
	"github.com/vfg2006/nightclub-pos-api/internal/domain"
	"github.com/vfg2006/nightclub-pos-api/internal/usecases/membership"
	"github.com/vfg2006/nightclub-pos-api/pkg/apiErrors"
	"github.com/vfg2006/nightclub-pos-api/pkg/log"
	"github.com/vfg2006/nightclub-pos-api/pkg/utils"
)

//go:generate mockgen -source=service.go -destination=mocks/service_mock.go -package=mocks

type BillingService interface {
	Checkout(ctx context.Context, operator Operator, request CheckoutRequest) (*domain.Transaction, error)
	Refund(ctx context.Context, operator Operator, request RefundRequest) (*domain.Transaction, error)
}

// Operator identifica quem está no caixa, a partir do token
type Operator struct {
	ClubID string
	Name   string
}

type CheckoutRequest struct {
	MemberID      string                   `json:"member_id"`
	Items         []domain.TransactionItem `json:"items"`
	PaymentMethod string                   `json:"payment_method"`
}

type RefundRequest struct {
	TransactionID string `json:"-"`
	Reason        string `json:"reason"`
}

type Service struct {
	transactionRepo repository.TransactionRepository
	members         membership.MembershipService
	publisher       events.Publisher
	invalidator     membership.ReportInvalidator
	newID           func() (string, error)
	now             func() time.Time
}

func NewService(
	transactionRepo repository.TransactionRepository,
	members membership.MembershipService,
	publisher events.Publisher,
	invalidator membership.ReportInvalidator,
) *Service {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}

	return &Service{
		transactionRepo: transactionRepo,
		members:         members,
		publisher:       publisher,
		invalidator:     invalidator,
		newID:           utils.NewReceiptID,
		now:             time.Now,
	}
}

// Checkout registra uma venda. Sem membro informado a venda é avulsa (Walk-in, guest, sem desconto).
func (s *Service) Checkout(ctx context.Context, operator Operator, request CheckoutRequest) (*domain.Transaction, error) {
	if err := validateCart(request); err != nil {
		return nil, err
	}

	tx := &domain.Transaction{
		ClubID:         operator.ClubID,
		MemberName:     domain.WalkInMemberName,
		MembershipType: domain.MembershipGuest,
		Items:          normalizeItems(request.Items),
		PaymentMethod:  request.PaymentMethod,
		CashierName:    operator.Name,
	}

	if memberID := strings.TrimSpace(request.MemberID); memberID != "" {
		member, err := s.members.GetMember(ctx, operator.ClubID, memberID)
		if err != nil {
			return nil, err
		}

		tx.MemberID = &member.ID
		tx.MemberName = member.Name
		tx.MembershipType = member.MembershipType
	}

	original := 0.0
	for _, item := range tx.Items {
		original += item.Total()
	}

	tx.OriginalAmount = utils.RoundWithTwoDecimalPlace(original)
	tx.DiscountAmount = utils.RoundWithTwoDecimalPlace(tx.OriginalAmount * s.members.DiscountRate(tx.MembershipType))
	tx.FinalAmount = utils.RoundWithTwoDecimalPlace(tx.OriginalAmount - tx.DiscountAmount)

	if err := s.record(ctx, tx); err != nil {
		return nil, err
	}

	log.ForContext(ctx).WithFields(log.Fields{
		"transaction_id": tx.ID,
		"final_amount":   tx.FinalAmount,
		"payment_method": tx.PaymentMethod,
	}).Info("billing: venda registrada")

	return tx, nil
}

// Refund estorna uma venda inteira. A transação de origem não é alterada;
// o estorno é uma nova transação com os mesmos itens e valores.
func (s *Service) Refund(ctx context.Context, operator Operator, request RefundRequest) (*domain.Transaction, error) {
	sourceID := strings.TrimSpace(request.TransactionID)
	if sourceID == "" {
		return nil, NewBillingError(ErrTransactionIDRequired, apiErrors.ErrMissingRequiredData, "")
	}

	reason := strings.TrimSpace(request.Reason)
	if reason == "" {
		return nil, NewTransactionBillingError(ErrRefundReasonRequired, apiErrors.ErrRefundReasonRequired, sourceID, "")
	}

	source, err := s.transactionRepo.GetByID(ctx, operator.ClubID, sourceID)
	if err != nil {
		log.ForContext(ctx).WithError(err).WithField("transaction_id", sourceID).Error("billing: erro ao buscar transação")
		return nil, NewTransactionBillingError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, sourceID, "falha ao buscar transação")
	}

	if source == nil {
		return nil, NewTransactionBillingError(ErrTransactionNotFound, apiErrors.ErrTransactionNotFound, sourceID, "")
	}

	if source.IsRefund {
		return nil, NewTransactionBillingError(ErrRefundOfRefund, apiErrors.ErrRefundOfRefund, sourceID, "")
	}

	refunded, err := s.transactionRepo.HasRefund(ctx, operator.ClubID, sourceID)
	if err != nil {
		log.ForContext(ctx).WithError(err).WithField("transaction_id", sourceID).Error("billing: erro ao verificar estornos")
		return nil, NewTransactionBillingError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, sourceID, "falha ao verificar estornos")
	}

	if refunded {
		return nil, NewTransactionBillingError(ErrAlreadyRefunded, apiErrors.ErrAlreadyRefunded, sourceID, "")
	}

	tx := &domain.Transaction{
		ClubID:         operator.ClubID,
		MemberID:       source.MemberID,
		MemberName:     source.MemberName,
		MembershipType: source.MembershipType,
		Items:          source.Items,
		OriginalAmount: source.OriginalAmount,
		DiscountAmount: source.DiscountAmount,
		FinalAmount:    source.FinalAmount,
		PaymentMethod:  source.PaymentMethod,
		CashierName:    operator.Name,
		IsRefund:       true,
		RefundReason:   &reason,
		RefundOf:       &source.ID,
	}

	if err := s.record(ctx, tx); err != nil {
		return nil, err
	}

	log.ForContext(ctx).WithFields(log.Fields{
		"transaction_id": tx.ID,
		"refund_of":      source.ID,
		"final_amount":   tx.FinalAmount,
	}).Info("billing: estorno registrado")

	return tx, nil
}

// record persiste a transação e propaga seus efeitos. Falhas na publicação do evento
// não desfazem a venda, apenas são registradas no log.
func (s *Service) record(ctx context.Context, tx *domain.Transaction) error {
	id, err := s.newID()
	if err != nil {
		log.ForContext(ctx).WithError(err).Error("billing: erro ao gerar número do recibo")
		return NewBillingError(ErrReceiptID, apiErrors.ErrInternalServer, err.Error())
	}

	tx.ID = id
	tx.TransactionDate = s.now().UTC()

	if err := s.transactionRepo.Create(ctx, tx); err != nil {
		if errors.Is(err, repository.ErrDuplicateRefund) && tx.RefundOf != nil {
			return NewTransactionBillingError(ErrAlreadyRefunded, apiErrors.ErrAlreadyRefunded, *tx.RefundOf, "")
		}

		log.ForContext(ctx).WithError(err).WithField("transaction_id", tx.ID).Error("billing: erro ao gravar transação")
		return NewTransactionBillingError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, tx.ID, "falha ao gravar transação")
	}

	if err := s.publisher.PublishTransaction(ctx, events.NewTransactionEvent(tx)); err != nil {
		log.ForContext(ctx).WithError(err).WithField("transaction_id", tx.ID).Warn("billing: erro ao publicar evento da transação")
	}

	if s.invalidator != nil {
		s.invalidator.InvalidateClub(ctx, tx.ClubID)
	}

	return nil
}

func validateCart(request CheckoutRequest) error {
	if len(request.Items) == 0 {
		return NewBillingError(ErrEmptyCart, apiErrors.ErrEmptyCart, "")
	}

	for i, item := range request.Items {
		switch {
		case strings.TrimSpace(item.Name) == "":
			return NewBillingError(ErrInvalidItem, apiErrors.ErrInvalidItem, fmt.Sprintf("item %d sem nome", i+1))
		case item.UnitPrice < 0:
			return NewBillingError(ErrInvalidItem, apiErrors.ErrInvalidItem, fmt.Sprintf("item %d com preço negativo", i+1))
		case item.Quantity < 1:
			return NewBillingError(ErrInvalidItem, apiErrors.ErrInvalidItem, fmt.Sprintf("item %d com quantidade menor que 1", i+1))
		}
	}

	if !domain.IsValidPaymentMethod(request.PaymentMethod) {
		return NewBillingError(ErrInvalidPaymentMethod, apiErrors.ErrInvalidPaymentMethod,
			fmt.Sprintf("use uma das opções: %s", strings.Join(domain.PaymentMethods, ", ")))
	}

	return nil
}

func normalizeItems(items []domain.TransactionItem) []domain.TransactionItem {
	normalized := make([]domain.TransactionItem, 0, len(items))
	for _, item := range items {
		item.Name = strings.TrimSpace(item.Name)
		normalized = append(normalized, item)
	}
	return normalized
}
