package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/vfg2006/nightclub-pos-api/internal/domain"
	"github.com/vfg2006/nightclub-pos-api/internal/usecases/billing"
	"github.com/vfg2006/nightclub-pos-api/pkg/apiErrors"
)

func operatorFrom(claims *domain.Claims) billing.Operator {
	return billing.Operator{
		ClubID: claims.ClubID,
		Name:   claims.UserName,
	}
}

// Checkout fecha a conta do cliente e registra a venda
func Checkout(service billing.BillingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := claimsOrUnauthorized(w, r)
		if !ok {
			return
		}

		var req billing.CheckoutRequest
		if err := decodeBody(r, &req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Formato de requisição inválido", nil)
			return
		}

		transaction, err := service.Checkout(r.Context(), operatorFrom(claims), req)
		if err != nil {
			writeServiceError(w, r, err, "Erro ao registrar venda")
			return
		}

		writeJSON(r.Context(), w, http.StatusCreated, transaction)
	}
}

// Refund estorna uma venda. A rota exige perfil de gerente ou superior.
func Refund(service billing.BillingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := claimsOrUnauthorized(w, r)
		if !ok {
			return
		}

		var req billing.RefundRequest
		if err := decodeBody(r, &req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Formato de requisição inválido", nil)
			return
		}
		req.TransactionID = httprouter.ParamsFromContext(r.Context()).ByName("id")

		refund, err := service.Refund(r.Context(), operatorFrom(claims), req)
		if err != nil {
			writeServiceError(w, r, err, "Erro ao registrar estorno")
			return
		}

		writeJSON(r.Context(), w, http.StatusCreated, refund)
	}
}
