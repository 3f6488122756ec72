package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/vfg2006/nightclub-pos-api/internal/api/handler/router"
	"github.com/vfg2006/nightclub-pos-api/internal/domain"
	"github.com/vfg2006/nightclub-pos-api/internal/usecases/authenticating"
	authmocks "github.com/vfg2006/nightclub-pos-api/internal/usecases/authenticating/mocks"
	"github.com/vfg2006/nightclub-pos-api/internal/usecases/billing"
	billingmocks "github.com/vfg2006/nightclub-pos-api/internal/usecases/billing/mocks"
	"github.com/vfg2006/nightclub-pos-api/internal/usecases/membership"
	membershipmocks "github.com/vfg2006/nightclub-pos-api/internal/usecases/membership/mocks"
	"github.com/vfg2006/nightclub-pos-api/internal/usecases/reporting"
	reportingmocks "github.com/vfg2006/nightclub-pos-api/internal/usecases/reporting/mocks"
	"github.com/vfg2006/nightclub-pos-api/pkg/apiErrors"
	"github.com/vfg2006/nightclub-pos-api/pkg/middleware"
)

var (
	clubLoc = time.FixedZone("BRT", -3*60*60)

	managerClaims = &domain.Claims{UserID: 2, UserName: "Marina", UserRole: domain.RoleManager, ClubID: "club-1"}
	cashierClaims = &domain.Claims{UserID: 3, UserName: "Bruno", UserRole: domain.RoleCashier, ClubID: "club-1"}
	adminClaims   = &domain.Claims{UserID: 1, UserName: "Ana", UserRole: domain.RoleAdmin, ClubID: "club-1"}
)

// serve monta o router com as rotas informadas e injeta as claims como o AuthMiddleware faria
func serve(routes []router.Route, claims *domain.Claims, req *http.Request) *httptest.ResponseRecorder {
	rt := router.New(
		router.WithNotFound(NotFoundHandler()),
		router.WithMethodNotAllowed(MethodNotAllowedHandler()),
		router.WithRoutes(routes...),
	)

	if claims != nil {
		req = req.WithContext(context.WithValue(req.Context(), middleware.ContextKeyUser, claims))
	}

	rec := httptest.NewRecorder()
	rt.ServeHTTP(rec, req)
	return rec
}

func decodeAPIError(t *testing.T, rec *httptest.ResponseRecorder) apiErrors.APIError {
	t.Helper()

	var apiErr apiErrors.APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr), rec.Body.String())
	return apiErr
}

func stubNow(t *testing.T, fixed time.Time) {
	t.Helper()

	previous := now
	now = func() time.Time { return fixed }
	t.Cleanup(func() { now = previous })
}

func TestParseReportFilters(t *testing.T) {
	stubNow(t, time.Date(2024, 3, 10, 1, 0, 0, 0, time.UTC)) // ainda dia 9 no fuso do clube

	tests := []struct {
		name     string
		query    string
		wantErr  error
		validate func(t *testing.T, f domain.ReportFilters)
	}{
		{
			name:  "Sem parâmetros usa os últimos sete dias",
			query: "",
			validate: func(t *testing.T, f domain.ReportFilters) {
				assert.Equal(t, "2024-03-03", f.StartDate.Format(time.DateOnly))
				assert.Equal(t, "2024-03-09", f.EndDate.Format(time.DateOnly))
				assert.Equal(t, domain.FilterAll, f.MembershipType)
				assert.Equal(t, domain.FilterAll, f.PaymentMethod)
				assert.Equal(t, clubLoc, f.StartDate.Location())
			},
		},
		{
			name:  "Datas e filtros explícitos",
			query: "start_date=2024-01-01&end_date=2024-01-31&membership_type=VIP&payment_method=card",
			validate: func(t *testing.T, f domain.ReportFilters) {
				assert.Equal(t, "2024-01-01", f.StartDate.Format(time.DateOnly))
				assert.Equal(t, "2024-01-31", f.EndDate.Format(time.DateOnly))
				assert.Equal(t, domain.MembershipVIP, f.MembershipType)
				assert.Equal(t, domain.PaymentCard, f.PaymentMethod)
			},
		},
		{
			name:  "Só end_date recua sete dias a partir dela",
			query: "end_date=2024-02-10",
			validate: func(t *testing.T, f domain.ReportFilters) {
				assert.Equal(t, "2024-02-04", f.StartDate.Format(time.DateOnly))
			},
		},
		{
			name:    "Data em formato inválido",
			query:   "start_date=01/02/2024",
			wantErr: reporting.ErrInvalidPeriod,
		},
		{
			name:    "Tipo de associação desconhecido",
			query:   "membership_type=gold",
			wantErr: errInvalidFilter,
		},
		{
			name:    "Forma de pagamento desconhecida",
			query:   "payment_method=pix",
			wantErr: errInvalidFilter,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/v1/reports/summary?"+tt.query, nil)

			filters, err := parseReportFilters(req, clubLoc)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.validate(t, filters)
		})
	}
}

func TestReports_Summary(t *testing.T) {
	stubNow(t, time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC))

	tests := []struct {
		name       string
		query      string
		claims     *domain.Claims
		setup      func(m *reportingmocks.MockReporter)
		wantStatus int
		wantCode   string
	}{
		{
			name:   "Gerente recebe o resumo",
			query:  "start_date=2024-03-01&end_date=2024-03-07",
			claims: managerClaims,
			setup: func(m *reportingmocks.MockReporter) {
				m.EXPECT().
					GetSummary(gomock.Any(), "club-1", gomock.Any()).
					DoAndReturn(func(_ context.Context, _ string, f domain.ReportFilters) (*domain.SummaryStats, error) {
						assert.Equal(t, "2024-03-01", f.StartDate.Format(time.DateOnly))
						return &domain.SummaryStats{TotalSales: 150, NetRevenue: 150, TopPaymentMethod: "card"}, nil
					})
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "Caixa não acessa relatórios",
			claims:     cashierClaims,
			setup:      func(m *reportingmocks.MockReporter) {},
			wantStatus: http.StatusForbidden,
			wantCode:   apiErrors.ErrInsufficientPrivilege,
		},
		{
			name:       "Data inválida",
			query:      "start_date=2024-13-01",
			claims:     managerClaims,
			setup:      func(m *reportingmocks.MockReporter) {},
			wantStatus: http.StatusBadRequest,
			wantCode:   apiErrors.ErrInvalidPeriod,
		},
		{
			name:   "Período invertido vindo do serviço",
			query:  "start_date=2024-03-07&end_date=2024-03-01",
			claims: managerClaims,
			setup: func(m *reportingmocks.MockReporter) {
				m.EXPECT().GetSummary(gomock.Any(), "club-1", gomock.Any()).Return(nil, reporting.ErrInvalidPeriod)
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   apiErrors.ErrInvalidPeriod,
		},
		{
			name:   "Falha ao buscar dados vira SRV_002",
			claims: managerClaims,
			setup: func(m *reportingmocks.MockReporter) {
				m.EXPECT().
					GetSummary(gomock.Any(), "club-1", gomock.Any()).
					Return(nil, fmt.Errorf("%w: %v", reporting.ErrUpstreamFetch, errors.New("connection refused")))
			},
			wantStatus: http.StatusInternalServerError,
			wantCode:   apiErrors.ErrDatabaseOperation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reporter := reportingmocks.NewMockReporter(gomock.NewController(t))
			tt.setup(reporter)

			req := httptest.NewRequest(http.MethodGet, "/v1/reports/summary?"+tt.query, nil)
			rec := serve(Reports(reporter, clubLoc), tt.claims, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decodeAPIError(t, rec).Code)
				return
			}

			var summary domain.SummaryStats
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
			assert.Equal(t, 150.0, summary.TotalSales)
			assert.Equal(t, "card", summary.TopPaymentMethod)
		})
	}
}

func TestReports_ListTransactions_RepassaKind(t *testing.T) {
	reporter := reportingmocks.NewMockReporter(gomock.NewController(t))
	reporter.EXPECT().
		ListTransactions(gomock.Any(), "club-1", gomock.Any(), domain.KindRefunds).
		Return([]*domain.Transaction{{ID: "TXN-1", IsRefund: true}}, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/reports/transactions?kind=REFUNDS&start_date=2024-03-01&end_date=2024-03-02", nil)
	rec := serve(Reports(reporter, clubLoc), managerClaims, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"TXN-1"`)
}

func TestReports_ListTransactions_KindInvalido(t *testing.T) {
	reporter := reportingmocks.NewMockReporter(gomock.NewController(t))
	reporter.EXPECT().
		ListTransactions(gomock.Any(), "club-1", gomock.Any(), domain.TransactionKind("voids")).
		Return(nil, reporting.ErrInvalidKind)

	req := httptest.NewRequest(http.MethodGet, "/v1/reports/transactions?kind=voids", nil)
	rec := serve(Reports(reporter, clubLoc), managerClaims, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, apiErrors.ErrInvalidFilter, decodeAPIError(t, rec).Code)
}

func TestReports_Export(t *testing.T) {
	t.Run("CSV com cabeçalho e linhas", func(t *testing.T) {
		reporter := reportingmocks.NewMockReporter(gomock.NewController(t))
		reporter.EXPECT().
			Export(gomock.Any(), "club-1", gomock.Any(), reporting.DatasetDaily, domain.TransactionKind("")).
			Return(domain.CSVTable{
				Header: "date,total_sales",
				Rows:   []string{"2024-03-02,100", "2024-03-01,0"},
			}, true, nil)

		req := httptest.NewRequest(http.MethodGet, "/v1/reports/export?dataset=daily&start_date=2024-03-01&end_date=2024-03-02", nil)
		rec := serve(Reports(reporter, clubLoc), managerClaims, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/csv"))
		assert.Contains(t, rec.Header().Get("Content-Disposition"), "daily_2024-03-01_2024-03-02.csv")
		assert.Equal(t, "date,total_sales\n2024-03-02,100\n2024-03-01,0", rec.Body.String())
	})

	t.Run("Sem dados devolve REP_001", func(t *testing.T) {
		reporter := reportingmocks.NewMockReporter(gomock.NewController(t))
		reporter.EXPECT().
			Export(gomock.Any(), "club-1", gomock.Any(), reporting.DatasetTransactions, gomock.Any()).
			Return(domain.CSVTable{}, false, nil)

		req := httptest.NewRequest(http.MethodGet, "/v1/reports/export", nil)
		rec := serve(Reports(reporter, clubLoc), managerClaims, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, apiErrors.ErrNothingToExport, decodeAPIError(t, rec).Code)
	})

	t.Run("Conjunto desconhecido", func(t *testing.T) {
		reporter := reportingmocks.NewMockReporter(gomock.NewController(t))
		reporter.EXPECT().
			Export(gomock.Any(), "club-1", gomock.Any(), "members", gomock.Any()).
			Return(domain.CSVTable{}, false, reporting.ErrInvalidDataset)

		req := httptest.NewRequest(http.MethodGet, "/v1/reports/export?dataset=members", nil)
		rec := serve(Reports(reporter, clubLoc), managerClaims, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, apiErrors.ErrInvalidFilter, decodeAPIError(t, rec).Code)
	})
}

func TestBilling_Checkout(t *testing.T) {
	service := billingmocks.NewMockBillingService(gomock.NewController(t))
	service.EXPECT().
		Checkout(gomock.Any(), billing.Operator{ClubID: "club-1", Name: "Bruno"}, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ billing.Operator, req billing.CheckoutRequest) (*domain.Transaction, error) {
			require.Len(t, req.Items, 1)
			assert.Equal(t, "Gin Tônica", req.Items[0].Name)
			assert.Equal(t, domain.PaymentCash, req.PaymentMethod)
			return &domain.Transaction{ID: "TXN-ABC", FinalAmount: 32}, nil
		})

	body := `{"items":[{"name":"Gin Tônica","unit_price":32,"quantity":1}],"payment_method":"cash"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/checkout", strings.NewReader(body))
	rec := serve(Billing(service), cashierClaims, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"TXN-ABC"`)
}

func TestBilling_Checkout_CorpoInvalido(t *testing.T) {
	service := billingmocks.NewMockBillingService(gomock.NewController(t))

	req := httptest.NewRequest(http.MethodPost, "/v1/checkout", strings.NewReader("{"))
	rec := serve(Billing(service), cashierClaims, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, apiErrors.ErrInvalidRequest, decodeAPIError(t, rec).Code)
}

func TestBilling_Refund(t *testing.T) {
	tests := []struct {
		name       string
		claims     *domain.Claims
		setup      func(m *billingmocks.MockBillingService)
		wantStatus int
		wantCode   string
	}{
		{
			name:   "Gerente estorna usando o id da rota",
			claims: managerClaims,
			setup: func(m *billingmocks.MockBillingService) {
				m.EXPECT().
					Refund(gomock.Any(), gomock.Any(), billing.RefundRequest{TransactionID: "TXN-1", Reason: "cobrança duplicada"}).
					Return(&domain.Transaction{ID: "TXN-2", IsRefund: true}, nil)
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "Caixa não pode estornar",
			claims:     cashierClaims,
			setup:      func(m *billingmocks.MockBillingService) {},
			wantStatus: http.StatusForbidden,
			wantCode:   apiErrors.ErrInsufficientPrivilege,
		},
		{
			name:   "Transação já estornada",
			claims: managerClaims,
			setup: func(m *billingmocks.MockBillingService) {
				m.EXPECT().
					Refund(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, billing.NewTransactionBillingError(billing.ErrAlreadyRefunded, apiErrors.ErrAlreadyRefunded, "TXN-1", ""))
			},
			wantStatus: http.StatusConflict,
			wantCode:   apiErrors.ErrAlreadyRefunded,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := billingmocks.NewMockBillingService(gomock.NewController(t))
			tt.setup(service)

			req := httptest.NewRequest(http.MethodPost, "/v1/transactions/TXN-1/refund", strings.NewReader(`{"reason":"cobrança duplicada"}`))
			rec := serve(Billing(service), tt.claims, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decodeAPIError(t, rec).Code)
			}
		})
	}
}

func TestMembers(t *testing.T) {
	t.Run("Busca com q", func(t *testing.T) {
		service := membershipmocks.NewMockMembershipService(gomock.NewController(t))
		service.EXPECT().
			SearchMembers(gomock.Any(), "club-1", "joana").
			Return([]*domain.Member{{ID: "m-1", Name: "Joana"}}, nil)

		req := httptest.NewRequest(http.MethodGet, "/v1/members?q=+joana+", nil)
		rec := serve(Members(service), cashierClaims, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Joana")
	})

	t.Run("Lista sem filtro", func(t *testing.T) {
		service := membershipmocks.NewMockMembershipService(gomock.NewController(t))
		service.EXPECT().ListMembers(gomock.Any(), "club-1").Return([]*domain.Member{}, nil)

		req := httptest.NewRequest(http.MethodGet, "/v1/members", nil)
		rec := serve(Members(service), cashierClaims, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("Membro inexistente", func(t *testing.T) {
		service := membershipmocks.NewMockMembershipService(gomock.NewController(t))
		service.EXPECT().
			GetMember(gomock.Any(), "club-1", "m-404").
			Return(nil, membership.NewMembershipError(membership.ErrMemberNotFound, apiErrors.ErrMemberNotFound, "m-404", ""))

		req := httptest.NewRequest(http.MethodGet, "/v1/members/m-404", nil)
		rec := serve(Members(service), cashierClaims, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		apiErr := decodeAPIError(t, rec)
		assert.Equal(t, apiErrors.ErrMemberNotFound, apiErr.Code)
	})

	t.Run("Check-in", func(t *testing.T) {
		service := membershipmocks.NewMockMembershipService(gomock.NewController(t))
		service.EXPECT().
			CheckIn(gomock.Any(), "club-1", "m-1").
			Return(&domain.CheckIn{ID: 10, ClubID: "club-1", MemberID: "m-1"}, nil)

		req := httptest.NewRequest(http.MethodPost, "/v1/members/m-1/check-in", nil)
		rec := serve(Members(service), cashierClaims, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
	})
}

func TestAuthentication(t *testing.T) {
	t.Run("Login com sucesso", func(t *testing.T) {
		service := authmocks.NewMockAuthenticator(gomock.NewController(t))
		service.EXPECT().LoginUser(gomock.Any(), "ana@club.com", "Segredo123").Return("jwt-token", nil)

		req := httptest.NewRequest(http.MethodPost, "/v1/login", strings.NewReader(`{"email":"ana@club.com","password":"Segredo123"}`))
		rec := serve(Authentication(service), nil, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"token":"jwt-token"}`, rec.Body.String())
	})

	t.Run("Credenciais inválidas", func(t *testing.T) {
		service := authmocks.NewMockAuthenticator(gomock.NewController(t))
		service.EXPECT().
			LoginUser(gomock.Any(), gomock.Any(), gomock.Any()).
			Return("", authenticating.NewAuthError(authenticating.ErrInvalidCredentials, apiErrors.ErrInvalidCredentials, ""))

		req := httptest.NewRequest(http.MethodPost, "/v1/login", strings.NewReader(`{"email":"ana@club.com","password":"x"}`))
		rec := serve(Authentication(service), nil, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, apiErrors.ErrInvalidCredentials, decodeAPIError(t, rec).Code)
	})

	t.Run("Troca de senha do próprio usuário", func(t *testing.T) {
		service := authmocks.NewMockAuthenticator(gomock.NewController(t))
		service.EXPECT().ChangePassword(gomock.Any(), 3, "Antiga123", "Nova12345").Return(nil)

		req := httptest.NewRequest(http.MethodPut, "/v1/me/password", strings.NewReader(`{"current_password":"Antiga123","new_password":"Nova12345"}`))
		rec := serve(Authentication(service), cashierClaims, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("GetMe sem token", func(t *testing.T) {
		service := authmocks.NewMockAuthenticator(gomock.NewController(t))

		req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
		rec := serve(Authentication(service), nil, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestUsers_CreateUsaClubeDoAdmin(t *testing.T) {
	service := authmocks.NewMockAuthenticator(gomock.NewController(t))
	service.EXPECT().
		CreateUser(gomock.Any(), "club-1", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, req *domain.CreateUserRequest) (*domain.User, error) {
			assert.Equal(t, "manager", req.Role)
			return &domain.User{ID: 9, ClubID: "club-1", Name: req.Name, Role: domain.RoleManager}, nil
		})

	body := `{"name":"Marina","email":"marina@club.com","password":"Segredo123","role":"manager"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/users", strings.NewReader(body))

	rec := serve(User(service), adminClaims, req)
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = serve(User(service), managerClaims, httptest.NewRequest(http.MethodPost, "/v1/users", strings.NewReader(body)))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

type fakeCronJob struct {
	triggered int
	started   bool
}

func (f *fakeCronJob) TriggerManualSync() bool {
	f.triggered++
	return f.started
}

func (f *fakeCronJob) GetStatus() map[string]any {
	return map[string]any{"sync_running": false}
}

func TestCronJobs(t *testing.T) {
	job := &fakeCronJob{started: true}
	services := CronJobServices{ReportCacheWarmupService: job}

	rec := serve(CronJobs(services), adminClaims, httptest.NewRequest(http.MethodPost, "/v1/cron/report-cache-warmup/run", nil))
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, 1, job.triggered)

	rec = serve(CronJobs(services), adminClaims, httptest.NewRequest(http.MethodPost, "/v1/cron/all/run", nil))
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, 2, job.triggered)

	rec = serve(CronJobs(services), adminClaims, httptest.NewRequest(http.MethodPost, "/v1/cron/meta/run", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(CronJobs(services), adminClaims, httptest.NewRequest(http.MethodGet, "/v1/cron/status", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), CronJobTypeReportCacheWarmup)

	rec = serve(CronJobs(services), managerClaims, httptest.NewRequest(http.MethodGet, "/v1/cron/status", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }

func TestHealthcheck(t *testing.T) {
	rec := serve(Healthcheck(map[string]Pinger{"postgres": fakePinger{}}), nil, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(Healthcheck(map[string]Pinger{
		"postgres": fakePinger{},
		"redis":    fakePinger{err: errors.New("dial tcp: connection refused")},
	}), nil, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"redis":"down"`)
}

func TestRotaInexistente(t *testing.T) {
	rec := serve(nil, nil, httptest.NewRequest(http.MethodGet, "/v1/unknown", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, apiErrors.ErrRouteNotFound, decodeAPIError(t, rec).Code)
}
