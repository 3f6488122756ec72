package handler

import (
	"context"
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"

	"github.com/vfg2006/nightclub-pos-api/internal/domain"
	"github.com/vfg2006/nightclub-pos-api/internal/usecases/authenticating"
	"github.com/vfg2006/nightclub-pos-api/internal/usecases/billing"
	"github.com/vfg2006/nightclub-pos-api/internal/usecases/membership"
	"github.com/vfg2006/nightclub-pos-api/internal/usecases/reporting"
	"github.com/vfg2006/nightclub-pos-api/pkg/apiErrors"
	"github.com/vfg2006/nightclub-pos-api/pkg/log"
	"github.com/vfg2006/nightclub-pos-api/pkg/middleware"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.ForContext(ctx).WithError(err).Error("Erro ao codificar resposta")
	}
}

func decodeBody(r *http.Request, dest any) error {
	if r.Body == nil {
		return errors.New("corpo da requisição vazio")
	}
	return json.NewDecoder(r.Body).Decode(dest)
}

// claimsOrUnauthorized escreve AUTH_006 quando a requisição chegou sem claims
func claimsOrUnauthorized(w http.ResponseWriter, r *http.Request) (*domain.Claims, bool) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Usuário não autenticado", nil)
		return nil, false
	}
	return claims, true
}

// writeServiceError traduz os erros dos casos de uso para o catálogo de códigos da API.
// Erros sem código conhecido viram SRV_001 com a mensagem genérica informada.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, fallbackMessage string) {
	logger := log.ForContext(r.Context()).WithError(err)

	var authErr *authenticating.AuthError
	if errors.As(err, &authErr) {
		logger.Warn(fallbackMessage)
		apiErrors.WriteError(w, authErr.Code, authErr.Error(), nil)
		return
	}

	var memberErr *membership.MembershipError
	if errors.As(err, &memberErr) {
		logger.Warn(fallbackMessage)
		apiErrors.WriteError(w, memberErr.Code, memberErr.Error(), detailsFor("member_id", memberErr.MemberID))
		return
	}

	var billingErr *billing.BillingError
	if errors.As(err, &billingErr) {
		logger.Warn(fallbackMessage)
		apiErrors.WriteError(w, billingErr.Code, billingErr.Error(), detailsFor("transaction_id", billingErr.TransactionID))
		return
	}

	switch {
	case errors.Is(err, reporting.ErrMissingPeriod),
		errors.Is(err, reporting.ErrInvalidPeriod),
		errors.Is(err, reporting.ErrPeriodTooLong):
		logger.Warn(fallbackMessage)
		apiErrors.WriteError(w, apiErrors.ErrInvalidPeriod, errors.Cause(err).Error(), nil)

	case errors.Is(err, reporting.ErrInvalidKind),
		errors.Is(err, reporting.ErrInvalidDataset):
		logger.Warn(fallbackMessage)
		apiErrors.WriteError(w, apiErrors.ErrInvalidFilter, errors.Cause(err).Error(), nil)

	case errors.Is(err, reporting.ErrUpstreamFetch):
		logger.Error(fallbackMessage)
		apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, reporting.ErrUpstreamFetch.Error()+", tente novamente", nil)

	default:
		logger.Error(fallbackMessage)
		apiErrors.WriteError(w, apiErrors.ErrInternalServer, fallbackMessage, nil)
	}
}

func detailsFor(key, value string) map[string]any {
	if value == "" {
		return nil
	}
	return map[string]any{key: value}
}

func NotFoundHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiErrors.WriteError(w, apiErrors.ErrRouteNotFound, "Rota não encontrada", map[string]any{
			"path": r.URL.Path,
		})
	})
}

func MethodNotAllowedHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiErrors.WriteError(w, apiErrors.ErrMethodNotAllowed, "Método não permitido", map[string]any{
			"method": r.Method,
		})
	})
}
