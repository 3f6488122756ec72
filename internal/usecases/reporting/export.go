package reporting

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/vfg2006/nightclub-pos-api/internal/domain"
)

const csvDelimiter = ","

// ExportField é uma coluna nomeada de um registro exportável
type ExportField struct {
	Name  string
	Value any
}

// ExportRecord mantém a ordem das colunas, que vira a ordem do cabeçalho
type ExportRecord []ExportField

// ExportRows transforma os registros em linhas de texto delimitadas.
// O cabeçalho vem dos nomes de campo do primeiro registro. Sem registros,
// ok é false e o chamador deve avisar o usuário que não há nada a exportar.
func ExportRows(records []ExportRecord) (table domain.CSVTable, ok bool) {
	if len(records) == 0 {
		return domain.CSVTable{}, false
	}

	header := make([]string, 0, len(records[0]))
	for _, field := range records[0] {
		header = append(header, field.Name)
	}

	rows := make([]string, 0, len(records))
	for _, record := range records {
		values := make([]string, 0, len(record))
		for _, field := range record {
			values = append(values, quoteIfNeeded(stringify(field.Value)))
		}
		rows = append(rows, strings.Join(values, csvDelimiter))
	}

	return domain.CSVTable{
		Header: strings.Join(header, csvDelimiter),
		Rows:   rows,
	}, true
}

func quoteIfNeeded(value string) string {
	if !strings.Contains(value, csvDelimiter) {
		return value
	}
	return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
}

func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case *string:
		if v == nil {
			return ""
		}
		return *v
	case float64:
		return strconv.FormatFloat(v, 'f', 2, 64)
	case int:
		return strconv.Itoa(v)
	case bool:
		return strconv.FormatBool(v)
	case time.Time:
		return v.Format(time.RFC3339)
	default:
		return fmt.Sprint(v)
	}
}

// TransactionRecords seleciona os campos exportados de cada transação
func TransactionRecords(transactions []*domain.Transaction) []ExportRecord {
	records := make([]ExportRecord, 0, len(transactions))
	for _, tx := range transactions {
		if tx == nil {
			continue
		}

		kind := "sale"
		if tx.IsRefund {
			kind = "refund"
		}

		records = append(records, ExportRecord{
			{Name: "id", Value: tx.ID},
			{Name: "date", Value: tx.TransactionDate},
			{Name: "member", Value: tx.MemberName},
			{Name: "membership_type", Value: tx.MembershipType},
			{Name: "items", Value: describeItems(tx.Items)},
			{Name: "original_amount", Value: tx.OriginalAmount},
			{Name: "discount_amount", Value: tx.DiscountAmount},
			{Name: "final_amount", Value: tx.FinalAmount},
			{Name: "payment_method", Value: tx.PaymentMethod},
			{Name: "cashier", Value: tx.CashierName},
			{Name: "type", Value: kind},
			{Name: "refund_reason", Value: tx.RefundReason},
		})
	}
	return records
}

// DailyReportRecords seleciona os campos exportados de cada relatório diário
func DailyReportRecords(reports []*domain.DailyReport) []ExportRecord {
	records := make([]ExportRecord, 0, len(reports))
	for _, report := range reports {
		if report == nil {
			continue
		}

		topItem := ""
		if len(report.TopItems) > 0 {
			topItem = report.TopItems[0].Item
		}

		topPayment := ""
		if len(report.PaymentMethods) > 0 {
			topPayment = report.PaymentMethods[0].Method
		}

		records = append(records, ExportRecord{
			{Name: "date", Value: report.Date},
			{Name: "total_sales", Value: report.TotalSales},
			{Name: "total_refunds", Value: report.TotalRefunds},
			{Name: "net_revenue", Value: report.NetRevenue},
			{Name: "transactions", Value: report.TransactionCount},
			{Name: "check_ins", Value: report.MemberCheckIns},
			{Name: "top_item", Value: topItem},
			{Name: "top_payment_method", Value: topPayment},
		})
	}
	return records
}

func describeItems(items []domain.TransactionItem) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		parts = append(parts, fmt.Sprintf("%s x%d", item.Name, item.Quantity))
	}
	return strings.Join(parts, "; ")
}
