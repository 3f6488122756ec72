package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/vfg2006/nightclub-pos-api/infrastructure/database/postgres"
	"github.com/vfg2006/nightclub-pos-api/internal/domain"
	"github.com/vfg2006/nightclub-pos-api/pkg/log"
)

//go:generate mockgen -source=transaction.go -destination=mocks/transaction_mock.go -package=mocks

const (
	transactionsTable = "transactions t"

	uniqueViolation    = "23505"
	refundOfConstraint = "transactions_refund_of_key"
)

// ErrDuplicateRefund indica que outra requisição já estornou a mesma transação
var ErrDuplicateRefund = errors.New("transação já possui estorno")

var transactionColumns = []string{
	"t.id",
	"t.club_id",
	"t.member_id",
	"t.member_name",
	"t.membership_type",
	"t.items",
	"t.original_amount",
	"t.discount_amount",
	"t.final_amount",
	"t.payment_method",
	"t.transaction_date",
	"t.cashier_name",
	"t.is_refund",
	"t.refund_reason",
	"t.refund_of",
}

type TransactionRepository interface {
	// Create grava a transação e atualiza o total gasto do membro na mesma transação de banco
	Create(ctx context.Context, transaction *domain.Transaction) error
	GetByID(ctx context.Context, clubID, id string) (*domain.Transaction, error)
	HasRefund(ctx context.Context, clubID, id string) (bool, error)
	// ListByDateRange devolve as transações do período em ordem decrescente de data
	ListByDateRange(ctx context.Context, clubID string, filters domain.ReportFilters) ([]*domain.Transaction, error)
}

type transactionRepository struct {
	conn *postgres.Connection
}

func NewTransactionRepository(conn *postgres.Connection) TransactionRepository {
	return &transactionRepository{
		conn: conn,
	}
}

func (r *transactionRepository) Create(ctx context.Context, transaction *domain.Transaction) error {
	itemsJSON, err := domain.EncodeTransactionItems(transaction.Items)
	if err != nil {
		return fmt.Errorf("erro ao serializar itens da transação: %w", err)
	}

	insertSQL, insertArgs, err := squirrel.
		Insert("transactions").
		Columns(
			"id",
			"club_id",
			"member_id",
			"member_name",
			"membership_type",
			"items",
			"original_amount",
			"discount_amount",
			"final_amount",
			"payment_method",
			"transaction_date",
			"cashier_name",
			"is_refund",
			"refund_reason",
			"refund_of",
		).
		Values(
			transaction.ID,
			transaction.ClubID,
			transaction.MemberID,
			transaction.MemberName,
			transaction.MembershipType,
			string(itemsJSON),
			transaction.OriginalAmount,
			transaction.DiscountAmount,
			transaction.FinalAmount,
			transaction.PaymentMethod,
			transaction.TransactionDate,
			transaction.CashierName,
			transaction.IsRefund,
			transaction.RefundReason,
			transaction.RefundOf,
		).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	return r.conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, insertSQL, insertArgs...); err != nil {
			if pqErr, ok := err.(*pq.Error); ok {
				if pqErr.Code == uniqueViolation && pqErr.Constraint == refundOfConstraint {
					return ErrDuplicateRefund
				}
				return fmt.Errorf("erro no banco de dados: %w (código: %s)", pqErr, pqErr.Code)
			}
			return fmt.Errorf("erro ao inserir transação: %w", err)
		}

		if transaction.MemberID == nil {
			return nil
		}

		delta := transaction.FinalAmount
		if transaction.IsRefund {
			delta = -delta
		}

		updateSQL, updateArgs, err := squirrel.
			Update("members").
			Set("total_spent", squirrel.Expr("total_spent + ?", delta)).
			Where(squirrel.Eq{"id": *transaction.MemberID, "club_id": transaction.ClubID}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return fmt.Errorf("erro ao construir a query: %w", err)
		}

		if _, err := tx.ExecContext(ctx, updateSQL, updateArgs...); err != nil {
			return fmt.Errorf("erro ao atualizar total gasto do membro: %w", err)
		}

		return nil
	})
}

func (r *transactionRepository) GetByID(ctx context.Context, clubID, id string) (*domain.Transaction, error) {
	query, args, err := squirrel.
		Select(transactionColumns...).
		From(transactionsTable).
		Where(squirrel.Eq{"t.club_id": clubID, "t.id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	transaction, err := r.scanTransaction(ctx, r.conn.QueryRowContext(ctx, query, args...))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao escanear transação: %w", err)
	}

	return transaction, nil
}

func (r *transactionRepository) HasRefund(ctx context.Context, clubID, id string) (bool, error) {
	query, args, err := squirrel.
		Select("COUNT(1)").
		From(transactionsTable).
		Where(squirrel.Eq{"t.club_id": clubID, "t.refund_of": id, "t.is_refund": true}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("erro ao construir a query: %w", err)
	}

	var count int
	if err := r.conn.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return false, fmt.Errorf("erro ao contar estornos: %w", err)
	}

	return count > 0, nil
}

func (r *transactionRepository) ListByDateRange(ctx context.Context, clubID string, filters domain.ReportFilters) ([]*domain.Transaction, error) {
	start, end := filters.Bounds()

	queryBuilder := squirrel.
		Select(transactionColumns...).
		From(transactionsTable).
		Where(squirrel.Eq{"t.club_id": clubID}).
		Where(squirrel.GtOrEq{"t.transaction_date": start}).
		Where(squirrel.Lt{"t.transaction_date": end}).
		OrderBy("t.transaction_date DESC").
		PlaceholderFormat(squirrel.Dollar)

	if filters.MembershipType != "" && filters.MembershipType != domain.FilterAll {
		queryBuilder = queryBuilder.Where(squirrel.Eq{"t.membership_type": filters.MembershipType})
	}

	if filters.PaymentMethod != "" && filters.PaymentMethod != domain.FilterAll {
		queryBuilder = queryBuilder.Where(squirrel.Eq{"t.payment_method": filters.PaymentMethod})
	}

	query, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	transactions := make([]*domain.Transaction, 0)
	for rows.Next() {
		transaction, err := r.scanTransaction(ctx, rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear transações: %w", err)
		}
		transactions = append(transactions, transaction)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return transactions, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanTransaction lê uma linha de transação. Itens com JSON inválido viram lista vazia
// para que um registro corrompido não derrube o relatório inteiro.
func (r *transactionRepository) scanTransaction(ctx context.Context, row rowScanner) (*domain.Transaction, error) {
	transaction := &domain.Transaction{}
	var (
		memberID     sql.NullString
		itemsJSON    sql.NullString
		refundReason sql.NullString
		refundOf     sql.NullString
	)

	err := row.Scan(
		&transaction.ID,
		&transaction.ClubID,
		&memberID,
		&transaction.MemberName,
		&transaction.MembershipType,
		&itemsJSON,
		&transaction.OriginalAmount,
		&transaction.DiscountAmount,
		&transaction.FinalAmount,
		&transaction.PaymentMethod,
		&transaction.TransactionDate,
		&transaction.CashierName,
		&transaction.IsRefund,
		&refundReason,
		&refundOf,
	)
	if err != nil {
		return nil, err
	}

	transaction.MemberID = nullableString(memberID)
	transaction.RefundReason = nullableString(refundReason)
	transaction.RefundOf = nullableString(refundOf)

	items, err := domain.DecodeTransactionItems([]byte(itemsJSON.String))
	if err != nil {
		log.ForContext(ctx).WithFields(log.Fields{
			"transaction_id": transaction.ID,
			"error":          err.Error(),
		}).Warn("transactions: itens malformados, usando lista vazia")
	}
	transaction.Items = items

	return transaction, nil
}

func nullableString(value sql.NullString) *string {
	if !value.Valid {
		return nil
	}
	v := value.String
	return &v
}
