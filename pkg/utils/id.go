package utils

import gonanoid "github.com/matoous/go-nanoid/v2"

const (
	characters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	receiptPrefix = "TXN-"
	receiptSize   = 10
)

func GenerateID(size int) (string, error) {
	return gonanoid.Generate(characters, size)
}

// NewReceiptID gera o número impresso no recibo, ex: TXN-8F2K0QZ1MA
func NewReceiptID() (string, error) {
	id, err := GenerateID(receiptSize)
	if err != nil {
		return "", err
	}
	return receiptPrefix + id, nil
}
