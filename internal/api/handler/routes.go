package handler

import (
	"net/http"
	"time"

	"github.com/vfg2006/nightclub-pos-api/internal/api/handler/router"
	"github.com/vfg2006/nightclub-pos-api/internal/usecases/authenticating"
	"github.com/vfg2006/nightclub-pos-api/internal/usecases/billing"
	"github.com/vfg2006/nightclub-pos-api/internal/usecases/membership"
	"github.com/vfg2006/nightclub-pos-api/internal/usecases/reporting"
	"github.com/vfg2006/nightclub-pos-api/pkg/middleware"
)

func Healthcheck(checks map[string]Pinger) []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(checks),
		},
	}
}

func Authentication(service authenticating.Authenticator) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/login",
			Method:  http.MethodPost,
			Handler: Login(service),
		},
		{
			Path:        "/v1/me",
			Method:      http.MethodGet,
			Handler:     GetMe(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.CashierOrAbove()},
		},
		{
			Path:        "/v1/me/password",
			Method:      http.MethodPut,
			Handler:     ChangePassword(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.CashierOrAbove()},
		},
	}
}

func User(service authenticating.Authenticator) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/users",
			Method:      http.MethodGet,
			Handler:     ListUsers(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/users",
			Method:      http.MethodPost,
			Handler:     CreateUser(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
	}
}

func Members(service membership.MembershipService) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/members",
			Method:      http.MethodGet,
			Handler:     ListMembers(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.CashierOrAbove()},
		},
		{
			Path:        "/v1/members/:id",
			Method:      http.MethodGet,
			Handler:     GetMember(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.CashierOrAbove()},
		},
		{
			Path:        "/v1/members/:id/check-in",
			Method:      http.MethodPost,
			Handler:     CheckInMember(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.CashierOrAbove()},
		},
	}
}

func Billing(service billing.BillingService) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/checkout",
			Method:      http.MethodPost,
			Handler:     Checkout(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.CashierOrAbove()},
		},
		{
			Path:        "/v1/transactions/:id/refund",
			Method:      http.MethodPost,
			Handler:     Refund(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.ManagerOrAbove()},
		},
	}
}

func Reports(service reporting.Reporter, loc *time.Location) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/reports/summary",
			Method:      http.MethodGet,
			Handler:     GetReportSummary(service, loc),
			Middlewares: []func(http.Handler) http.Handler{middleware.ManagerOrAbove()},
		},
		{
			Path:        "/v1/reports/daily",
			Method:      http.MethodGet,
			Handler:     GetDailyReports(service, loc),
			Middlewares: []func(http.Handler) http.Handler{middleware.ManagerOrAbove()},
		},
		{
			Path:        "/v1/reports/transactions",
			Method:      http.MethodGet,
			Handler:     ListReportTransactions(service, loc),
			Middlewares: []func(http.Handler) http.Handler{middleware.ManagerOrAbove()},
		},
		{
			Path:        "/v1/reports/export",
			Method:      http.MethodGet,
			Handler:     ExportReport(service, loc),
			Middlewares: []func(http.Handler) http.Handler{middleware.ManagerOrAbove()},
		},
	}
}

func CronJobs(services CronJobServices) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/cron/:type/run",
			Method:      http.MethodPost,
			Handler:     RunCronJob(services),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/cron/status",
			Method:      http.MethodGet,
			Handler:     GetCronStatus(services),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
	}
}
