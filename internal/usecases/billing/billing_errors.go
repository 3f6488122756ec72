package billing

import (
	"errors"
	"fmt"
)

var (
	// Erros de validação do carrinho
	ErrEmptyCart            = errors.New("o carrinho está vazio")
	ErrInvalidItem          = errors.New("item inválido")
	ErrInvalidPaymentMethod = errors.New("forma de pagamento inválida")

	// Erros de estorno
	ErrTransactionIDRequired = errors.New("o ID da transação é obrigatório")
	ErrTransactionNotFound   = errors.New("transação não encontrada")
	ErrRefundOfRefund        = errors.New("não é possível estornar um estorno")
	ErrAlreadyRefunded       = errors.New("a transação já foi estornada")
	ErrRefundReasonRequired  = errors.New("o motivo do estorno é obrigatório")

	ErrReceiptID         = errors.New("erro ao gerar o número do recibo")
	ErrDatabaseOperation = errors.New("erro ao realizar operação no banco de dados")
)

// BillingError é um erro com contexto adicional para o caixa
type BillingError struct {
	Err           error  // Erro base
	Code          string // Código de erro para API
	TransactionID string // Transação envolvida (quando aplicável)
	Details       string // Detalhes adicionais
}

func (e *BillingError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

func (e *BillingError) Unwrap() error {
	return e.Err
}

func NewBillingError(err error, code string, details string) *BillingError {
	return &BillingError{
		Err:     err,
		Code:    code,
		Details: details,
	}
}

func NewTransactionBillingError(err error, code string, transactionID string, details string) *BillingError {
	return &BillingError{
		Err:           err,
		Code:          code,
		TransactionID: transactionID,
		Details:       details,
	}
}
