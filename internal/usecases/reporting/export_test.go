package reporting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vfg2006/nightclub-pos-api/internal/domain"
)

func TestExportRows_NoRecords(t *testing.T) {
	table, ok := ExportRows([]ExportRecord{})

	assert.False(t, ok)
	assert.Empty(t, table.Header)
	assert.Nil(t, table.Rows)

	_, ok = ExportRows(nil)
	assert.False(t, ok)
}

func TestExportRows(t *testing.T) {
	reason := "cliente reclamou"

	records := []ExportRecord{
		{
			{Name: "id", Value: "T1"},
			{Name: "amount", Value: 25.0},
			{Name: "quantity", Value: 3},
			{Name: "note", Value: "gelo, limão"},
			{Name: "reason", Value: (*string)(nil)},
		},
		{
			{Name: "id", Value: "T2"},
			{Name: "amount", Value: 7.5},
			{Name: "quantity", Value: 1},
			{Name: "note", Value: `dose "dupla", sem gelo`},
			{Name: "reason", Value: &reason},
		},
	}

	table, ok := ExportRows(records)
	require.True(t, ok)

	assert.Equal(t, "id,amount,quantity,note,reason", table.Header)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, `T1,25.00,3,"gelo, limão",`, table.Rows[0])
	assert.Equal(t, `T2,7.50,1,"dose ""dupla"", sem gelo",cliente reclamou`, table.Rows[1])
}

func TestTransactionRecords(t *testing.T) {
	reason := "erro no pedido"
	transactions := []*domain.Transaction{
		{
			ID:              "T1",
			MemberName:      "Ana",
			MembershipType:  domain.MembershipVIP,
			Items:           []domain.TransactionItem{{Name: "Beer", UnitPrice: 8, Quantity: 2}, {Name: "Water", UnitPrice: 3, Quantity: 1}},
			OriginalAmount:  19,
			DiscountAmount:  3.8,
			FinalAmount:     15.2,
			PaymentMethod:   domain.PaymentCard,
			TransactionDate: time.Date(2024, 1, 6, 22, 30, 0, 0, time.UTC),
			CashierName:     "Bruno",
		},
		{
			ID:              "T2",
			MemberName:      domain.WalkInMemberName,
			MembershipType:  domain.MembershipGuest,
			FinalAmount:     15.2,
			PaymentMethod:   domain.PaymentCard,
			TransactionDate: time.Date(2024, 1, 6, 23, 0, 0, 0, time.UTC),
			CashierName:     "Bruno",
			IsRefund:        true,
			RefundReason:    &reason,
		},
	}

	table, ok := ExportRows(TransactionRecords(transactions))
	require.True(t, ok)

	assert.Equal(t,
		"id,date,member,membership_type,items,original_amount,discount_amount,final_amount,payment_method,cashier,type,refund_reason",
		table.Header,
	)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "T1,2024-01-06T22:30:00Z,Ana,vip,Beer x2; Water x1,19.00,3.80,15.20,card,Bruno,sale,", table.Rows[0])
	assert.Equal(t, "T2,2024-01-06T23:00:00Z,Walk-in,guest,,0.00,0.00,15.20,card,Bruno,refund,erro no pedido", table.Rows[1])
}

func TestDailyReportRecords(t *testing.T) {
	reports := []*domain.DailyReport{
		{
			Date:             "2024-01-06",
			TotalSales:       54,
			TotalRefunds:     30,
			NetRevenue:       24,
			TransactionCount: 3,
			MemberCheckIns:   2,
			TopItems:         []domain.TopItem{{Item: "Whisky", Quantity: 1, Revenue: 30}},
			PaymentMethods:   []domain.PaymentMethodSummary{{Method: domain.PaymentCash, Amount: 68, Count: 2}},
		},
		{Date: "2024-01-05"},
	}

	table, ok := ExportRows(DailyReportRecords(reports))
	require.True(t, ok)

	assert.Equal(t, "date,total_sales,total_refunds,net_revenue,transactions,check_ins,top_item,top_payment_method", table.Header)
	assert.Equal(t, []string{
		"2024-01-06,54.00,30.00,24.00,3,2,Whisky,cash",
		"2024-01-05,0.00,0.00,0.00,0,0,,",
	}, table.Rows)
}
