package reporting

import (
	"sort"
	"time"

	"github.com/vfg2006/nightclub-pos-api/internal/domain"
	"github.com/vfg2006/nightclub-pos-api/pkg/utils"
)

const topItemsLimit = 5

// As funções deste arquivo são puras: trabalham apenas sobre as entradas recebidas,
// sem relógio, sem logger e sem estado global.

// Filter mantém as transações dentro do período e que atendem aos filtros de igualdade.
// A ordem de entrada é preservada.
func Filter(transactions []*domain.Transaction, filters domain.ReportFilters) []*domain.Transaction {
	start, end := filters.Bounds()
	hasStart := !filters.StartDate.IsZero()
	hasEnd := !filters.EndDate.IsZero()

	filtered := make([]*domain.Transaction, 0, len(transactions))
	for _, tx := range transactions {
		if tx == nil {
			continue
		}

		if hasStart && tx.TransactionDate.Before(start) {
			continue
		}

		if hasEnd && !tx.TransactionDate.Before(end) {
			continue
		}

		if !matchesFilter(filters.MembershipType, tx.MembershipType) ||
			!matchesFilter(filters.PaymentMethod, tx.PaymentMethod) {
			continue
		}

		filtered = append(filtered, tx)
	}

	return filtered
}

func matchesFilter(filter, value string) bool {
	return filter == "" || filter == domain.FilterAll || filter == value
}

// SalesOnly retorna apenas as vendas (IsRefund = false)
func SalesOnly(transactions []*domain.Transaction) []*domain.Transaction {
	return byKind(transactions, domain.KindSales)
}

// RefundsOnly retorna apenas os estornos (IsRefund = true)
func RefundsOnly(transactions []*domain.Transaction) []*domain.Transaction {
	return byKind(transactions, domain.KindRefunds)
}

func byKind(transactions []*domain.Transaction, kind domain.TransactionKind) []*domain.Transaction {
	result := make([]*domain.Transaction, 0, len(transactions))
	for _, tx := range transactions {
		if tx == nil {
			continue
		}

		switch kind {
		case domain.KindSales:
			if tx.IsRefund {
				continue
			}
		case domain.KindRefunds:
			if !tx.IsRefund {
				continue
			}
		}

		result = append(result, tx)
	}

	return result
}

// orderedTotals acumula valores por chave lembrando a ordem em que cada chave apareceu,
// para que empates sejam resolvidos pela primeira ocorrência
type orderedTotals struct {
	keys   []string
	totals map[string]float64
	counts map[string]int
}

func newOrderedTotals() *orderedTotals {
	return &orderedTotals{
		keys:   make([]string, 0),
		totals: make(map[string]float64),
		counts: make(map[string]int),
	}
}

func (o *orderedTotals) add(key string, amount float64) {
	if _, exists := o.totals[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.totals[key] += amount
	o.counts[key]++
}

func (o *orderedTotals) top() string {
	best := ""
	bestAmount := 0.0
	for i, key := range o.keys {
		if i == 0 || o.totals[key] > bestAmount {
			best = key
			bestAmount = o.totals[key]
		}
	}
	return best
}

// Summarize calcula as estatísticas do conjunto recebido (já filtrado pelo chamador)
func Summarize(transactions []*domain.Transaction) *domain.SummaryStats {
	stats := &domain.SummaryStats{}

	var totalSales, totalRefunds float64
	membershipTotals := newOrderedTotals()
	paymentTotals := newOrderedTotals()

	for _, tx := range transactions {
		if tx == nil {
			continue
		}

		stats.TransactionCount++
		if tx.IsRefund {
			stats.RefundCount++
			totalRefunds += tx.FinalAmount
		} else {
			stats.SalesCount++
			totalSales += tx.FinalAmount
		}

		membershipTotals.add(tx.MembershipType, tx.FinalAmount)
		paymentTotals.add(tx.PaymentMethod, tx.FinalAmount)
	}

	stats.TotalSales = utils.RoundWithTwoDecimalPlace(totalSales)
	stats.TotalRefunds = utils.RoundWithTwoDecimalPlace(totalRefunds)
	stats.NetRevenue = utils.RoundWithTwoDecimalPlace(stats.TotalSales - stats.TotalRefunds)

	if stats.TransactionCount > 0 {
		stats.AverageTransaction = utils.RoundWithTwoDecimalPlace(stats.NetRevenue / float64(stats.TransactionCount))
	}

	stats.TopMembershipType = membershipTotals.top()
	stats.TopPaymentMethod = paymentTotals.top()

	return stats
}

// BuildDailyReports gera um relatório por dia do período [startDate, endDate],
// incluindo dias sem movimento, do mais recente para o mais antigo
func BuildDailyReports(
	transactions []*domain.Transaction,
	checkIns []*domain.CheckIn,
	startDate, endDate time.Time,
) []*domain.DailyReport {
	dates := generateDateRange(startDate, endDate)
	if len(dates) == 0 {
		return []*domain.DailyReport{}
	}

	loc := startDate.Location()

	transactionsByDay := make(map[string][]*domain.Transaction, len(dates))
	for _, tx := range transactions {
		if tx == nil {
			continue
		}
		key := dayKey(tx.TransactionDate, loc)
		transactionsByDay[key] = append(transactionsByDay[key], tx)
	}

	checkInsByDay := make(map[string]int, len(dates))
	for _, checkIn := range checkIns {
		if checkIn == nil {
			continue
		}
		checkInsByDay[dayKey(checkIn.Timestamp, loc)]++
	}

	reports := make([]*domain.DailyReport, 0, len(dates))
	for i := len(dates) - 1; i >= 0; i-- {
		key := dates[i].Format(time.DateOnly)
		report := buildDailyReport(key, transactionsByDay[key])
		report.MemberCheckIns = checkInsByDay[key]
		reports = append(reports, report)
	}

	return reports
}

func buildDailyReport(date string, transactions []*domain.Transaction) *domain.DailyReport {
	sales := SalesOnly(transactions)
	refunds := RefundsOnly(transactions)

	totalSales := utils.RoundWithTwoDecimalPlace(sumFinalAmount(sales))
	totalRefunds := utils.RoundWithTwoDecimalPlace(sumFinalAmount(refunds))

	return &domain.DailyReport{
		Date:             date,
		TotalSales:       totalSales,
		TotalRefunds:     totalRefunds,
		NetRevenue:       utils.RoundWithTwoDecimalPlace(totalSales - totalRefunds),
		TransactionCount: len(transactions),
		TopItems:         topItems(sales),
		PaymentMethods:   paymentMethodBreakdown(transactions),
	}
}

func sumFinalAmount(transactions []*domain.Transaction) float64 {
	total := 0.0
	for _, tx := range transactions {
		total += tx.FinalAmount
	}
	return total
}

// topItems agrupa todas as linhas das vendas pelo nome do item
func topItems(sales []*domain.Transaction) []domain.TopItem {
	items := make([]domain.TopItem, 0)
	index := make(map[string]int)

	for _, tx := range sales {
		for _, line := range tx.Items {
			position, exists := index[line.Name]
			if !exists {
				position = len(items)
				index[line.Name] = position
				items = append(items, domain.TopItem{Item: line.Name})
			}

			items[position].Quantity += line.Quantity
			items[position].Revenue += line.Total()
		}
	}

	for i := range items {
		items[i].Revenue = utils.RoundWithTwoDecimalPlace(items[i].Revenue)
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Revenue > items[j].Revenue
	})

	if len(items) > topItemsLimit {
		items = items[:topItemsLimit]
	}

	return items
}

func paymentMethodBreakdown(transactions []*domain.Transaction) []domain.PaymentMethodSummary {
	totals := newOrderedTotals()
	for _, tx := range transactions {
		totals.add(tx.PaymentMethod, tx.FinalAmount)
	}

	methods := make([]domain.PaymentMethodSummary, 0, len(totals.keys))
	for _, key := range totals.keys {
		methods = append(methods, domain.PaymentMethodSummary{
			Method: key,
			Amount: utils.RoundWithTwoDecimalPlace(totals.totals[key]),
			Count:  totals.counts[key],
		})
	}

	sort.SliceStable(methods, func(i, j int) bool {
		return methods[i].Amount > methods[j].Amount
	})

	return methods
}

func dayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(time.DateOnly)
}

// generateDateRange devolve todas as datas (meia-noite) entre startDate e endDate, inclusive
func generateDateRange(startDate, endDate time.Time) []time.Time {
	if startDate.IsZero() || endDate.IsZero() {
		return []time.Time{}
	}

	loc := startDate.Location()
	currentDate := domain.StartOfDay(startDate, loc)
	endDateTime := domain.StartOfDay(endDate, loc)
	if currentDate.After(endDateTime) {
		return []time.Time{}
	}

	var dates []time.Time
	for !currentDate.After(endDateTime) {
		dates = append(dates, currentDate)
		currentDate = currentDate.AddDate(0, 0, 1)
	}

	return dates
}
