package domain

import (
	"bytes"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	PaymentCash     = "cash"
	PaymentCard     = "card"
	PaymentTransfer = "transfer"
)

// PaymentMethods lista as formas de pagamento aceitas no caixa
var PaymentMethods = []string{PaymentCash, PaymentCard, PaymentTransfer}

func IsValidPaymentMethod(method string) bool {
	for _, m := range PaymentMethods {
		if m == method {
			return true
		}
	}
	return false
}

type TransactionItem struct {
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
}

// Total retorna unitPrice * quantity da linha
func (i TransactionItem) Total() float64 {
	return i.UnitPrice * float64(i.Quantity)
}

// Transaction é imutável depois de registrada no checkout.
// Para vendas vale FinalAmount = OriginalAmount - DiscountAmount.
type Transaction struct {
	ID              string            `json:"id"`
	ClubID          string            `json:"club_id"`
	MemberID        *string           `json:"member_id"`
	MemberName      string            `json:"member_name"`
	MembershipType  string            `json:"membership_type"`
	Items           []TransactionItem `json:"items"`
	OriginalAmount  float64           `json:"original_amount"`
	DiscountAmount  float64           `json:"discount_amount"`
	FinalAmount     float64           `json:"final_amount"`
	PaymentMethod   string            `json:"payment_method"`
	TransactionDate time.Time         `json:"transaction_date"`
	CashierName     string            `json:"cashier_name"`
	IsRefund        bool              `json:"is_refund"`
	RefundReason    *string           `json:"refund_reason"`
	RefundOf        *string           `json:"refund_of"`
}

// EncodeTransactionItems serializa os itens para a coluna de texto do banco
func EncodeTransactionItems(items []TransactionItem) ([]byte, error) {
	if items == nil {
		items = []TransactionItem{}
	}
	return json.Marshal(items)
}

// DecodeTransactionItems lê a lista de itens gravada como JSON em texto.
// Payload vazio ou "null" resulta em lista vazia sem erro.
func DecodeTransactionItems(payload []byte) ([]TransactionItem, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []TransactionItem{}, nil
	}

	items := make([]TransactionItem, 0)
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return []TransactionItem{}, err
	}

	return items, nil
}
