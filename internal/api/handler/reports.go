package handler

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/vfg2006/nightclub-pos-api/internal/domain"
	"github.com/vfg2006/nightclub-pos-api/internal/usecases/reporting"
	"github.com/vfg2006/nightclub-pos-api/pkg/apiErrors"
	"github.com/vfg2006/nightclub-pos-api/pkg/log"
	"github.com/vfg2006/nightclub-pos-api/pkg/utils"
)

// defaultReportDays é o período usado quando a consulta não informa datas
const defaultReportDays = 7

var now = time.Now

var errInvalidFilter = errors.New("filtro inválido")

// parseReportFilters lê start_date, end_date, membership_type e payment_method da query.
// Sem datas, o período são os últimos sete dias terminando hoje no fuso do clube.
func parseReportFilters(r *http.Request, loc *time.Location) (domain.ReportFilters, error) {
	query := r.URL.Query()

	startDate, err := utils.ParseDate(query.Get("start_date"), loc)
	if err != nil {
		return domain.ReportFilters{}, errors.Wrap(reporting.ErrInvalidPeriod, "start_date deve estar no formato yyyy-mm-dd")
	}

	endDate, err := utils.ParseDate(query.Get("end_date"), loc)
	if err != nil {
		return domain.ReportFilters{}, errors.Wrap(reporting.ErrInvalidPeriod, "end_date deve estar no formato yyyy-mm-dd")
	}

	if endDate.IsZero() {
		endDate = domain.StartOfDay(now(), loc)
	}
	if startDate.IsZero() {
		startDate = endDate.AddDate(0, 0, -(defaultReportDays - 1))
	}

	membershipType := strings.ToLower(strings.TrimSpace(query.Get("membership_type")))
	if membershipType == "" {
		membershipType = domain.FilterAll
	}
	if membershipType != domain.FilterAll && !domain.IsValidMembershipType(membershipType) {
		return domain.ReportFilters{}, errors.Wrapf(errInvalidFilter, "membership_type %q", membershipType)
	}

	paymentMethod := strings.ToLower(strings.TrimSpace(query.Get("payment_method")))
	if paymentMethod == "" {
		paymentMethod = domain.FilterAll
	}
	if paymentMethod != domain.FilterAll && !domain.IsValidPaymentMethod(paymentMethod) {
		return domain.ReportFilters{}, errors.Wrapf(errInvalidFilter, "payment_method %q", paymentMethod)
	}

	return domain.ReportFilters{
		StartDate:      startDate,
		EndDate:        endDate,
		MembershipType: membershipType,
		PaymentMethod:  paymentMethod,
	}, nil
}

// reportRequest resolve claims e filtros comuns a todas as rotas de relatório
func reportRequest(w http.ResponseWriter, r *http.Request, loc *time.Location) (*domain.Claims, domain.ReportFilters, bool) {
	claims, ok := claimsOrUnauthorized(w, r)
	if !ok {
		return nil, domain.ReportFilters{}, false
	}

	filters, err := parseReportFilters(r, loc)
	if err != nil {
		log.ForContext(r.Context()).WithError(err).Warn("reports: parâmetros inválidos")

		code := apiErrors.ErrInvalidPeriod
		if errors.Is(err, errInvalidFilter) {
			code = apiErrors.ErrInvalidFilter
		}
		apiErrors.WriteError(w, code, err.Error(), nil)
		return nil, domain.ReportFilters{}, false
	}

	return claims, filters, true
}

func GetReportSummary(service reporting.Reporter, loc *time.Location) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, filters, ok := reportRequest(w, r, loc)
		if !ok {
			return
		}

		summary, err := service.GetSummary(r.Context(), claims.ClubID, filters)
		if err != nil {
			writeServiceError(w, r, err, "reports: erro ao gerar resumo")
			return
		}

		writeJSON(r.Context(), w, http.StatusOK, summary)
	}
}

func GetDailyReports(service reporting.Reporter, loc *time.Location) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, filters, ok := reportRequest(w, r, loc)
		if !ok {
			return
		}

		reports, err := service.GetDailyReports(r.Context(), claims.ClubID, filters)
		if err != nil {
			writeServiceError(w, r, err, "reports: erro ao gerar relatórios diários")
			return
		}

		writeJSON(r.Context(), w, http.StatusOK, reports)
	}
}

// ListReportTransactions lista as transações do período. ?kind= aceita all, sales ou refunds.
func ListReportTransactions(service reporting.Reporter, loc *time.Location) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, filters, ok := reportRequest(w, r, loc)
		if !ok {
			return
		}

		kind := domain.TransactionKind(strings.ToLower(r.URL.Query().Get("kind")))

		transactions, err := service.ListTransactions(r.Context(), claims.ClubID, filters, kind)
		if err != nil {
			writeServiceError(w, r, err, "reports: erro ao listar transações")
			return
		}

		writeJSON(r.Context(), w, http.StatusOK, transactions)
	}
}

// ExportReport devolve o conjunto pedido em text/csv, ou REP_001 quando não há o que exportar
func ExportReport(service reporting.Reporter, loc *time.Location) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, filters, ok := reportRequest(w, r, loc)
		if !ok {
			return
		}

		dataset := strings.ToLower(r.URL.Query().Get("dataset"))
		if dataset == "" {
			dataset = reporting.DatasetTransactions
		}
		kind := domain.TransactionKind(strings.ToLower(r.URL.Query().Get("kind")))

		table, hasData, err := service.Export(r.Context(), claims.ClubID, filters, dataset, kind)
		if err != nil {
			writeServiceError(w, r, err, "reports: erro ao exportar relatório")
			return
		}

		if !hasData {
			apiErrors.WriteError(w, apiErrors.ErrNothingToExport, "Nenhum registro para exportar no período", map[string]any{
				"dataset":    dataset,
				"start_date": filters.StartDate.Format(time.DateOnly),
				"end_date":   filters.EndDate.Format(time.DateOnly),
			})
			return
		}

		filename := fmt.Sprintf("%s_%s_%s.csv",
			dataset,
			filters.StartDate.Format(time.DateOnly),
			filters.EndDate.Format(time.DateOnly),
		)

		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		w.WriteHeader(http.StatusOK)

		body := strings.Join(append([]string{table.Header}, table.Rows...), "\n")
		if _, err := w.Write([]byte(body)); err != nil {
			log.ForContext(r.Context()).WithError(err).Error("reports: erro ao escrever csv")
		}
	}
}
