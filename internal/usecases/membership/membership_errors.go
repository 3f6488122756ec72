package membership

import (
	"errors"
	"fmt"
)

var (
	ErrMemberIDRequired  = errors.New("o ID do membro é obrigatório")
	ErrMemberNotFound    = errors.New("membro não encontrado")
	ErrDatabaseOperation = errors.New("erro ao realizar operação no banco de dados")
)

// MembershipError é um erro com contexto adicional para membros
type MembershipError struct {
	Err      error  // Erro base
	Code     string // Código de erro para API
	MemberID string // ID do membro envolvido (quando aplicável)
	Details  string // Detalhes adicionais
}

func (e *MembershipError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

func (e *MembershipError) Unwrap() error {
	return e.Err
}

func NewMembershipError(err error, code string, memberID string, details string) *MembershipError {
	return &MembershipError{
		Err:      err,
		Code:     code,
		MemberID: memberID,
		Details:  details,
	}
}
