package domain

import (
	"fmt"
	"strings"
)

// Role representa o perfil de um funcionário do clube
type Role string

const (
	RoleCashier Role = "cashier"
	RoleManager Role = "manager"
	RoleAdmin   Role = "admin"
)

// ParseRole converte uma string em Role, rejeitando valores desconhecidos
func ParseRole(value string) (Role, error) {
	role := Role(strings.ToLower(strings.TrimSpace(value)))
	if !role.Valid() {
		return "", fmt.Errorf("perfil inválido: %q", value)
	}

	return role, nil
}

// Rank define a hierarquia dos perfis. Perfis desconhecidos valem 0.
func (r Role) Rank() int {
	switch r {
	case RoleCashier:
		return 1
	case RoleManager:
		return 2
	case RoleAdmin:
		return 3
	default:
		return 0
	}
}

func (r Role) Valid() bool {
	return r.Rank() > 0
}

// AtLeast indica se o perfil tem privilégios iguais ou superiores a min
func (r Role) AtLeast(min Role) bool {
	return r.Valid() && r.Rank() >= min.Rank()
}
