package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vfg2006/nightclub-pos-api/internal/domain"
	"github.com/vfg2006/nightclub-pos-api/internal/usecases/authenticating"
	"github.com/vfg2006/nightclub-pos-api/pkg/apiErrors"
	"github.com/vfg2006/nightclub-pos-api/pkg/log"
)

type stubValidator struct {
	claims *domain.Claims
	err    error
	calls  int
}

func (s *stubValidator) ValidateToken(string) (*domain.Claims, error) {
	s.calls++
	return s.claims, s.err
}

func okHandler(reached *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*reached = true
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMiddleware(t *testing.T) {
	claims := &domain.Claims{UserID: 1, UserRole: domain.RoleCashier, ClubID: "club-1"}

	tests := []struct {
		name        string
		path        string
		header      string
		validator   *stubValidator
		wantStatus  int
		wantCode    string
		wantReached bool
	}{
		{
			name:        "Rota pública não exige token",
			path:        "/v1/login",
			validator:   &stubValidator{},
			wantStatus:  http.StatusOK,
			wantReached: true,
		},
		{
			name:       "Sem header Authorization",
			path:       "/v1/me",
			validator:  &stubValidator{},
			wantStatus: http.StatusUnauthorized,
			wantCode:   apiErrors.ErrInvalidToken,
		},
		{
			name:       "Header sem Bearer",
			path:       "/v1/me",
			header:     "Token abc",
			validator:  &stubValidator{},
			wantStatus: http.StatusUnauthorized,
			wantCode:   apiErrors.ErrInvalidToken,
		},
		{
			name:   "Token expirado mantém o código do AuthError",
			path:   "/v1/me",
			header: "Bearer abc",
			validator: &stubValidator{
				err: authenticating.NewAuthError(authenticating.ErrExpiredToken, apiErrors.ErrExpiredToken, ""),
			},
			wantStatus: http.StatusUnauthorized,
			wantCode:   apiErrors.ErrExpiredToken,
		},
		{
			name:        "Token válido",
			path:        "/v1/me",
			header:      "Bearer abc",
			validator:   &stubValidator{claims: claims},
			wantStatus:  http.StatusOK,
			wantReached: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reached := false
			handler := AuthMiddleware(tt.validator)(okHandler(&reached))

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantReached, reached)
			if tt.wantCode != "" {
				assert.Contains(t, rec.Body.String(), tt.wantCode)
			}
		})
	}
}

func TestAuthMiddleware_GuardaClaimsNoContexto(t *testing.T) {
	claims := &domain.Claims{UserID: 7, UserRole: domain.RoleManager, ClubID: "club-9"}

	var got *domain.Claims
	handler := AuthMiddleware(&stubValidator{claims: claims})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = ClaimsFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/reports/summary", nil)
	req.Header.Set("Authorization", "Bearer abc")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	require.NotNil(t, got)
	assert.Equal(t, "club-9", got.ClubID)
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name       string
		claims     *domain.Claims
		min        domain.Role
		wantStatus int
	}{
		{name: "Sem claims", claims: nil, min: domain.RoleCashier, wantStatus: http.StatusUnauthorized},
		{name: "Caixa em rota de caixa", claims: &domain.Claims{UserRole: domain.RoleCashier}, min: domain.RoleCashier, wantStatus: http.StatusOK},
		{name: "Caixa em rota de gerente", claims: &domain.Claims{UserRole: domain.RoleCashier}, min: domain.RoleManager, wantStatus: http.StatusForbidden},
		{name: "Admin em rota de gerente", claims: &domain.Claims{UserRole: domain.RoleAdmin}, min: domain.RoleManager, wantStatus: http.StatusOK},
		{name: "Perfil desconhecido", claims: &domain.Claims{UserRole: domain.Role("owner")}, min: domain.RoleCashier, wantStatus: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reached := false
			handler := RequireRole(tt.min)(okHandler(&reached))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.claims != nil {
				req = req.WithContext(context.WithValue(req.Context(), ContextKeyUser, tt.claims))
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantStatus == http.StatusOK, reached)
		})
	}
}

func TestCors(t *testing.T) {
	reached := false
	handler := Cors([]string{"http://localhost:3000"})(okHandler(&reached))

	req := httptest.NewRequest(http.MethodOptions, "/v1/reports/summary", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.False(t, reached)

	req = httptest.NewRequest(http.MethodGet, "/v1/reports/summary", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	assert.True(t, reached)
}

func TestLoggingMiddleware_CorrelationID(t *testing.T) {
	log.SetupTestLogger()

	var correlationID string
	handler := LoggingMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		correlationID = log.GetCorrelationID(r.Context())
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.NotEmpty(t, correlationID)
	assert.Equal(t, correlationID, rec.Header().Get("X-Correlation-ID"))
}

func TestLogPanicMiddleware(t *testing.T) {
	handler := LogPanicMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), apiErrors.ErrInternalServer)
}
