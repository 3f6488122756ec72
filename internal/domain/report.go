package domain

import "time"

// FilterAll desativa o filtro de igualdade correspondente
const FilterAll = "all"

type TransactionKind string

const (
	KindAll     TransactionKind = "all"
	KindSales   TransactionKind = "sales"
	KindRefunds TransactionKind = "refunds"
)

// ReportFilters é a configuração de toda consulta de relatório.
// As datas são inclusivas nas duas pontas, com granularidade de dia,
// usando o fuso de StartDate.
type ReportFilters struct {
	StartDate      time.Time `json:"start_date"`
	EndDate        time.Time `json:"end_date"`
	MembershipType string    `json:"membership_type"`
	PaymentMethod  string    `json:"payment_method"`
}

func (f ReportFilters) Location() *time.Location {
	return f.StartDate.Location()
}

// Bounds retorna o início do dia de StartDate e o início do dia seguinte a EndDate (exclusivo)
func (f ReportFilters) Bounds() (time.Time, time.Time) {
	loc := f.Location()
	return StartOfDay(f.StartDate, loc), StartOfDay(f.EndDate, loc).AddDate(0, 0, 1)
}

func StartOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

type SummaryStats struct {
	TotalSales         float64 `json:"total_sales"`
	TotalRefunds       float64 `json:"total_refunds"`
	NetRevenue         float64 `json:"net_revenue"`
	AverageTransaction float64 `json:"average_transaction"`
	TopMembershipType  string  `json:"top_membership_type"`
	TopPaymentMethod   string  `json:"top_payment_method"`
	TransactionCount   int     `json:"transaction_count"`
	SalesCount         int     `json:"sales_count"`
	RefundCount        int     `json:"refund_count"`
	CheckIns           int     `json:"check_ins"`
	TotalMembers       int     `json:"total_members"`
}

type TopItem struct {
	Item     string  `json:"item"`
	Quantity int     `json:"quantity"`
	Revenue  float64 `json:"revenue"`
}

type PaymentMethodSummary struct {
	Method string  `json:"method"`
	Amount float64 `json:"amount"`
	Count  int     `json:"count"`
}

// DailyReport é uma projeção recalculada a cada consulta, nunca persistida no banco
type DailyReport struct {
	Date             string                 `json:"date"` // Formato yyyy-mm-dd
	TotalSales       float64                `json:"total_sales"`
	TotalRefunds     float64                `json:"total_refunds"`
	NetRevenue       float64                `json:"net_revenue"`
	TransactionCount int                    `json:"transaction_count"`
	MemberCheckIns   int                    `json:"member_check_ins"`
	TopItems         []TopItem              `json:"top_items"`
	PaymentMethods   []PaymentMethodSummary `json:"payment_methods"`
}

// CSVTable é o resultado da exportação: cabeçalho e uma linha por registro
type CSVTable struct {
	Header string   `json:"header"`
	Rows   []string `json:"rows"`
}
