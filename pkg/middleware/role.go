package middleware

import (
	"net/http"

	"github.com/vfg2006/nightclub-pos-api/internal/domain"
	"github.com/vfg2006/nightclub-pos-api/pkg/apiErrors"
	"github.com/vfg2006/nightclub-pos-api/pkg/log"
)

// RequireRole restringe a rota a perfis com hierarquia igual ou superior a min
func RequireRole(min domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				log.ForContext(r.Context()).Warn("Tentativa de acesso sem autenticação")
				apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Usuário não autenticado", nil)
				return
			}

			if !claims.UserRole.AtLeast(min) {
				log.ForContext(r.Context()).WithFields(log.Fields{
					"user_id":   claims.UserID,
					"user_role": claims.UserRole,
					"path":      r.URL.Path,
				}).Warn("Acesso negado")
				apiErrors.WriteError(w, apiErrors.ErrInsufficientPrivilege, "Você não tem permissão para acessar este recurso", map[string]any{
					"required_role": min,
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func CashierOrAbove() func(http.Handler) http.Handler {
	return RequireRole(domain.RoleCashier)
}

func ManagerOrAbove() func(http.Handler) http.Handler {
	return RequireRole(domain.RoleManager)
}

func AdminOnly() func(http.Handler) http.Handler {
	return RequireRole(domain.RoleAdmin)
}
