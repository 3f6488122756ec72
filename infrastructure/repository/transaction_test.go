package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vfg2006/nightclub-pos-api/internal/domain"
)

// fakeRow devolve os valores de uma linha na ordem de transactionColumns
type fakeRow struct {
	values []any
	err    error
}

func (f fakeRow) Scan(dest ...any) error {
	if f.err != nil {
		return f.err
	}
	if len(dest) != len(f.values) {
		return fmt.Errorf("esperava %d colunas, recebeu %d", len(f.values), len(dest))
	}

	for i, d := range dest {
		switch target := d.(type) {
		case *string:
			*target = f.values[i].(string)
		case *sql.NullString:
			if f.values[i] == nil {
				*target = sql.NullString{}
				continue
			}
			*target = sql.NullString{String: f.values[i].(string), Valid: true}
		case *float64:
			*target = f.values[i].(float64)
		case *time.Time:
			*target = f.values[i].(time.Time)
		case *bool:
			*target = f.values[i].(bool)
		default:
			return fmt.Errorf("tipo de destino não suportado na coluna %d: %T", i, d)
		}
	}
	return nil
}

func transactionRow(id string, items any, finalAmount float64) fakeRow {
	return fakeRow{values: []any{
		id,
		"club-1",
		"M1",
		"Ana",
		domain.MembershipVIP,
		items,
		finalAmount,
		0.0,
		finalAmount,
		domain.PaymentCard,
		time.Date(2024, 1, 6, 22, 0, 0, 0, time.UTC),
		"Caixa 1",
		false,
		nil,
		nil,
	}}
}

func TestTransactionRepository_scanTransaction(t *testing.T) {
	tests := []struct {
		name          string
		row           fakeRow
		expectedItems []domain.TransactionItem
		expectWarning bool
		wantErr       bool
	}{
		{
			name: "itens válidos",
			row:  transactionRow("T1", `[{"name":"Beer","unit_price":8,"quantity":2}]`, 16),
			expectedItems: []domain.TransactionItem{
				{Name: "Beer", UnitPrice: 8, Quantity: 2},
			},
		},
		{
			name:          "JSON truncado vira lista vazia",
			row:           transactionRow("T2", `[{"name":"Beer","unit_price":8,"quantity":2},{"name":`, 16),
			expectedItems: []domain.TransactionItem{},
			expectWarning: true,
		},
		{
			name:          "objeto no lugar de lista vira lista vazia",
			row:           transactionRow("T3", `{"name":"Beer"}`, 16),
			expectedItems: []domain.TransactionItem{},
			expectWarning: true,
		},
		{
			name:          "coluna nula vira lista vazia sem aviso",
			row:           transactionRow("T4", nil, 16),
			expectedItems: []domain.TransactionItem{},
		},
		{
			name:    "erro de leitura da linha é repassado",
			row:     fakeRow{err: errors.New("conexão perdida")},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hook := test.NewLocal(logrus.StandardLogger())
			defer hook.Reset()

			repo := &transactionRepository{}
			transaction, err := repo.scanTransaction(context.Background(), tt.row)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, transaction)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedItems, transaction.Items)
			assert.Equal(t, 16.0, transaction.FinalAmount)

			warnings := 0
			for _, entry := range hook.AllEntries() {
				if entry.Level == logrus.WarnLevel && entry.Message == "transactions: itens malformados, usando lista vazia" {
					warnings++
					assert.Equal(t, transaction.ID, entry.Data["transaction_id"])
				}
			}
			if tt.expectWarning {
				assert.Equal(t, 1, warnings)
			} else {
				assert.Zero(t, warnings)
			}
		})
	}
}

func TestTransactionRepository_scanTransaction_LinhaCorrompidaNaoDescartaAsDemais(t *testing.T) {
	rows := []fakeRow{
		transactionRow("T1", `[{"name":"Beer","unit_price":8,"quantity":2}]`, 16),
		transactionRow("T2", `[{"name":`, 30),
		transactionRow("T3", `[]`, 12.5),
	}

	repo := &transactionRepository{}
	total := 0.0
	transactions := make([]*domain.Transaction, 0, len(rows))
	for _, row := range rows {
		transaction, err := repo.scanTransaction(context.Background(), row)
		require.NoError(t, err)
		transactions = append(transactions, transaction)
		total += transaction.FinalAmount
	}

	require.Len(t, transactions, 3)
	assert.Equal(t, "T2", transactions[1].ID)
	assert.Empty(t, transactions[1].Items)
	assert.NotNil(t, transactions[1].Items)
	assert.Equal(t, 58.5, total)
}
