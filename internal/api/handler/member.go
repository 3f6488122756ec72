package handler

import (
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"

	"github.com/vfg2006/nightclub-pos-api/internal/domain"
	"github.com/vfg2006/nightclub-pos-api/internal/usecases/membership"
	"github.com/vfg2006/nightclub-pos-api/pkg/log"
)

// ListMembers lista os membros do clube. Com ?q= busca por nome, email ou telefone.
func ListMembers(service membership.MembershipService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := claimsOrUnauthorized(w, r)
		if !ok {
			return
		}

		var (
			members []*domain.Member
			err     error
		)

		query := strings.TrimSpace(r.URL.Query().Get("q"))
		if query != "" {
			members, err = service.SearchMembers(r.Context(), claims.ClubID, query)
		} else {
			members, err = service.ListMembers(r.Context(), claims.ClubID)
		}
		if err != nil {
			writeServiceError(w, r, err, "Erro ao listar membros")
			return
		}

		writeJSON(r.Context(), w, http.StatusOK, members)
	}
}

func GetMember(service membership.MembershipService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := claimsOrUnauthorized(w, r)
		if !ok {
			return
		}

		memberID := httprouter.ParamsFromContext(r.Context()).ByName("id")

		member, err := service.GetMember(r.Context(), claims.ClubID, memberID)
		if err != nil {
			writeServiceError(w, r, err, "Erro ao buscar membro")
			return
		}

		writeJSON(r.Context(), w, http.StatusOK, member)
	}
}

// CheckInMember registra a entrada do membro na casa
func CheckInMember(service membership.MembershipService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := claimsOrUnauthorized(w, r)
		if !ok {
			return
		}

		memberID := httprouter.ParamsFromContext(r.Context()).ByName("id")

		checkIn, err := service.CheckIn(r.Context(), claims.ClubID, memberID)
		if err != nil {
			writeServiceError(w, r, err, "Erro ao registrar check-in")
			return
		}

		log.ForContext(r.Context()).WithFields(log.Fields{
			"club_id":   claims.ClubID,
			"member_id": memberID,
		}).Info("Check-in registrado")

		writeJSON(r.Context(), w, http.StatusCreated, checkIn)
	}
}
