package reporting

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	cachemocks "github.com/vfg2006/nightclub-pos-api/infrastructure/cache/mocks"
	"github.com/vfg2006/nightclub-pos-api/infrastructure/repository/mocks"
	"github.com/vfg2006/nightclub-pos-api/internal/domain"
)

type serviceMocks struct {
	transactions *mocks.MockTransactionRepository
	checkIns     *mocks.MockCheckInRepository
	members      *mocks.MockMemberRepository
	cache        *cachemocks.MockReportCache
}

func newTestService(t *testing.T) (*Service, serviceMocks) {
	ctrl := gomock.NewController(t)

	m := serviceMocks{
		transactions: mocks.NewMockTransactionRepository(ctrl),
		checkIns:     mocks.NewMockCheckInRepository(ctrl),
		members:      mocks.NewMockMemberRepository(ctrl),
		cache:        cachemocks.NewMockReportCache(ctrl),
	}

	return NewService(m.transactions, m.checkIns, m.members, m.cache, 10*time.Minute), m
}

// expectGeneration responde a leitura da geração de cache do club-1
func expectGeneration(m serviceMocks, gen int64) {
	m.cache.EXPECT().Get(gomock.Any(), "reports-gen:club-1", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, dest any) (bool, error) {
			*dest.(*int64) = gen
			return gen > 0, nil
		})
}

func dailyKey(gen int) string {
	return fmt.Sprintf("reports:club-1:g%d:daily:2024-01-01:2024-01-07:UTC:all:all", gen)
}

func weekFilters() domain.ReportFilters {
	return domain.ReportFilters{
		StartDate:      date(2024, 1, 1, 0),
		EndDate:        date(2024, 1, 7, 0),
		MembershipType: domain.FilterAll,
		PaymentMethod:  domain.FilterAll,
	}
}

func TestValidateFilters(t *testing.T) {
	tests := []struct {
		name     string
		filters  domain.ReportFilters
		expected error
	}{
		{name: "período válido", filters: weekFilters()},
		{name: "mesmo dia", filters: domain.ReportFilters{StartDate: date(2024, 1, 1, 10), EndDate: date(2024, 1, 1, 2)}},
		{name: "sem data de início", filters: domain.ReportFilters{EndDate: date(2024, 1, 1, 0)}, expected: ErrMissingPeriod},
		{name: "início depois do fim", filters: domain.ReportFilters{StartDate: date(2024, 1, 2, 0), EndDate: date(2024, 1, 1, 0)}, expected: ErrInvalidPeriod},
		{name: "período longo demais", filters: domain.ReportFilters{StartDate: date(2023, 1, 1, 0), EndDate: date(2024, 6, 1, 0)}, expected: ErrPeriodTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFilters(tt.filters)
			if tt.expected == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.expected)
		})
	}
}

func TestService_GetSummary(t *testing.T) {
	ctx := context.Background()
	filters := weekFilters()

	t.Run("calcula com o conjunto filtrado e grava no cache", func(t *testing.T) {
		service, m := newTestService(t)

		expectGeneration(m, 0)
		m.cache.EXPECT().Get(gomock.Any(), "reports:club-1:g0:summary:2024-01-01:2024-01-07:UTC:all:all", gomock.Any()).Return(false, nil)
		m.transactions.EXPECT().ListByDateRange(gomock.Any(), "club-1", filters).Return([]*domain.Transaction{
			sale("T1", 25, domain.MembershipVIP, domain.PaymentCard, date(2024, 1, 2, 22)),
			refund("T2", 10, domain.MembershipStandard, domain.PaymentCash, date(2024, 1, 3, 1)),
			// fora do período, deve ser descartada pelo filtro
			sale("T3", 100, domain.MembershipGuest, domain.PaymentCash, date(2024, 1, 9, 1)),
		}, nil)
		m.checkIns.EXPECT().ListByDateRange(gomock.Any(), "club-1", date(2024, 1, 1, 0), date(2024, 1, 8, 0)).
			Return([]*domain.CheckIn{{ID: 1}, {ID: 2}, {ID: 3}}, nil)
		m.members.EXPECT().List(gomock.Any(), "club-1").Return([]*domain.Member{{ID: "M1"}, {ID: "M2"}}, nil)
		m.cache.EXPECT().Set(gomock.Any(), "reports:club-1:g0:summary:2024-01-01:2024-01-07:UTC:all:all", gomock.Any(), 10*time.Minute).
			Return(nil)

		stats, err := service.GetSummary(ctx, "club-1", filters)
		require.NoError(t, err)

		assert.Equal(t, 25.0, stats.TotalSales)
		assert.Equal(t, 10.0, stats.TotalRefunds)
		assert.Equal(t, 15.0, stats.NetRevenue)
		assert.Equal(t, 7.5, stats.AverageTransaction)
		assert.Equal(t, 2, stats.TransactionCount)
		assert.Equal(t, 3, stats.CheckIns)
		assert.Equal(t, 2, stats.TotalMembers)
	})

	t.Run("usa o valor em cache sem consultar o banco", func(t *testing.T) {
		service, m := newTestService(t)

		expectGeneration(m, 2)
		m.cache.EXPECT().Get(gomock.Any(), "reports:club-1:g2:summary:2024-01-01:2024-01-07:UTC:all:all", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, dest any) (bool, error) {
				*dest.(*domain.SummaryStats) = domain.SummaryStats{TotalSales: 99}
				return true, nil
			})

		stats, err := service.GetSummary(ctx, "club-1", filters)
		require.NoError(t, err)
		assert.Equal(t, 99.0, stats.TotalSales)
	})

	t.Run("falha do cache é ignorada", func(t *testing.T) {
		service, m := newTestService(t)

		expectGeneration(m, 0)
		m.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, errors.New("redis fora do ar"))
		m.transactions.EXPECT().ListByDateRange(gomock.Any(), "club-1", filters).Return([]*domain.Transaction{}, nil)
		m.checkIns.EXPECT().ListByDateRange(gomock.Any(), "club-1", gomock.Any(), gomock.Any()).Return(nil, nil)
		m.members.EXPECT().List(gomock.Any(), "club-1").Return(nil, nil)
		m.cache.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("redis fora do ar"))

		stats, err := service.GetSummary(ctx, "club-1", filters)
		require.NoError(t, err)
		assert.Zero(t, stats.TotalSales)
		assert.Zero(t, stats.AverageTransaction)
	})

	t.Run("falha ao buscar dados vira ErrUpstreamFetch", func(t *testing.T) {
		service, m := newTestService(t)

		expectGeneration(m, 0)
		m.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil)
		m.transactions.EXPECT().ListByDateRange(gomock.Any(), "club-1", filters).Return(nil, errors.New("connection refused"))
		m.checkIns.EXPECT().ListByDateRange(gomock.Any(), "club-1", gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()
		m.members.EXPECT().List(gomock.Any(), "club-1").Return(nil, nil).AnyTimes()

		stats, err := service.GetSummary(ctx, "club-1", filters)
		assert.Nil(t, stats)
		assert.ErrorIs(t, err, ErrUpstreamFetch)
	})

	t.Run("período inválido não consulta nada", func(t *testing.T) {
		service, _ := newTestService(t)

		_, err := service.GetSummary(ctx, "club-1", domain.ReportFilters{})
		assert.ErrorIs(t, err, ErrMissingPeriod)
	})
}

func TestService_GetDailyReports(t *testing.T) {
	ctx := context.Background()
	filters := weekFilters()

	service, m := newTestService(t)

	expectGeneration(m, 0)
	m.cache.EXPECT().Get(gomock.Any(), dailyKey(0), gomock.Any()).Return(false, nil)
	m.transactions.EXPECT().ListByDateRange(gomock.Any(), "club-1", filters).Return([]*domain.Transaction{
		sale("T1", 25, domain.MembershipVIP, domain.PaymentCard, date(2024, 1, 2, 22)),
	}, nil)
	m.checkIns.EXPECT().ListByDateRange(gomock.Any(), "club-1", gomock.Any(), gomock.Any()).
		Return([]*domain.CheckIn{{ID: 1, Timestamp: date(2024, 1, 2, 21)}}, nil)
	m.cache.EXPECT().Set(gomock.Any(), dailyKey(0), gomock.Any(), gomock.Any()).Return(nil)

	reports, err := service.GetDailyReports(ctx, "club-1", filters)
	require.NoError(t, err)

	require.Len(t, reports, 7)
	assert.Equal(t, "2024-01-07", reports[0].Date)
	assert.Equal(t, "2024-01-02", reports[5].Date)
	assert.Equal(t, 25.0, reports[5].TotalSales)
	assert.Equal(t, 1, reports[5].MemberCheckIns)
}

func TestService_ListTransactions(t *testing.T) {
	ctx := context.Background()
	filters := weekFilters()

	transactions := []*domain.Transaction{
		sale("T1", 25, domain.MembershipVIP, domain.PaymentCard, date(2024, 1, 2, 22)),
		refund("T2", 10, domain.MembershipVIP, domain.PaymentCard, date(2024, 1, 3, 1)),
	}

	tests := []struct {
		name     string
		kind     domain.TransactionKind
		expected []string
		err      error
	}{
		{name: "todas", kind: domain.KindAll, expected: []string{"T1", "T2"}},
		{name: "tipo vazio equivale a todas", kind: "", expected: []string{"T1", "T2"}},
		{name: "somente vendas", kind: domain.KindSales, expected: []string{"T1"}},
		{name: "somente estornos", kind: domain.KindRefunds, expected: []string{"T2"}},
		{name: "tipo inválido", kind: "voids", err: ErrInvalidKind},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, m := newTestService(t)
			if tt.err == nil {
				m.transactions.EXPECT().ListByDateRange(gomock.Any(), "club-1", filters).Return(transactions, nil)
			}

			result, err := service.ListTransactions(ctx, "club-1", filters, tt.kind)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)

			ids := make([]string, 0, len(result))
			for _, tx := range result {
				ids = append(ids, tx.ID)
			}
			assert.Equal(t, tt.expected, ids)
		})
	}
}

func TestService_Export(t *testing.T) {
	ctx := context.Background()
	filters := weekFilters()

	t.Run("sem transações devolve o aviso de nada a exportar", func(t *testing.T) {
		service, m := newTestService(t)
		m.transactions.EXPECT().ListByDateRange(gomock.Any(), "club-1", filters).Return([]*domain.Transaction{}, nil)

		table, ok, err := service.ExportTransactions(ctx, "club-1", filters, domain.KindAll)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Empty(t, table.Rows)
	})

	t.Run("exporta transações", func(t *testing.T) {
		service, m := newTestService(t)
		m.transactions.EXPECT().ListByDateRange(gomock.Any(), "club-1", filters).Return([]*domain.Transaction{
			sale("T1", 25, domain.MembershipVIP, domain.PaymentCard, date(2024, 1, 2, 22)),
		}, nil)

		table, ok, err := service.ExportTransactions(ctx, "club-1", filters, domain.KindSales)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Len(t, table.Rows, 1)
	})

	t.Run("relatórios diários sempre têm linhas", func(t *testing.T) {
		service, m := newTestService(t)
		expectGeneration(m, 0)
		m.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil)
		m.transactions.EXPECT().ListByDateRange(gomock.Any(), "club-1", filters).Return(nil, nil)
		m.checkIns.EXPECT().ListByDateRange(gomock.Any(), "club-1", gomock.Any(), gomock.Any()).Return(nil, nil)
		m.cache.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		table, ok, err := service.ExportDailyReports(ctx, "club-1", filters)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Len(t, table.Rows, 7)
		assert.Equal(t, "2024-01-07,0.00,0.00,0.00,0,0,,", table.Rows[0])
	})

	t.Run("conjunto desconhecido", func(t *testing.T) {
		service, _ := newTestService(t)

		_, _, err := service.Export(ctx, "club-1", filters, "members", domain.KindAll)
		assert.ErrorIs(t, err, ErrInvalidDataset)
	})
}

func TestService_InvalidateClub(t *testing.T) {
	tests := []struct {
		name      string
		incrErr   error
		deleteErr error
	}{
		{name: "avança a geração e limpa as chaves do clube"},
		{name: "falha ao avançar a geração ainda limpa as chaves", incrErr: errors.New("timeout")},
		{name: "falha na limpeza é apenas registrada", deleteErr: errors.New("timeout")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, m := newTestService(t)

			gomock.InOrder(
				m.cache.EXPECT().Incr(gomock.Any(), "reports-gen:club-1").Return(int64(1), tt.incrErr),
				m.cache.EXPECT().DeleteByPrefix(gomock.Any(), "reports:club-1:").Return(tt.deleteErr),
			)

			assert.NotPanics(t, func() {
				service.InvalidateClub(context.Background(), "club-1")
			})
		})
	}
}

func TestService_CacheGeneration(t *testing.T) {
	ctx := context.Background()
	filters := weekFilters()

	t.Run("geração indisponível não lê nem grava o cache", func(t *testing.T) {
		service, m := newTestService(t)

		m.cache.EXPECT().Get(gomock.Any(), "reports-gen:club-1", gomock.Any()).Return(false, errors.New("redis fora do ar"))
		m.transactions.EXPECT().ListByDateRange(gomock.Any(), "club-1", filters).Return([]*domain.Transaction{
			sale("T1", 25, domain.MembershipVIP, domain.PaymentCard, date(2024, 1, 2, 22)),
		}, nil)
		m.checkIns.EXPECT().ListByDateRange(gomock.Any(), "club-1", gomock.Any(), gomock.Any()).Return(nil, nil)
		m.members.EXPECT().List(gomock.Any(), "club-1").Return(nil, nil)

		stats, err := service.GetSummary(ctx, "club-1", filters)
		require.NoError(t, err)
		assert.Equal(t, 25.0, stats.TotalSales)
	})

	t.Run("cálculo concorrente com uma transação não republica números antigos", func(t *testing.T) {
		service, m := newTestService(t)

		// a transação é registrada enquanto o primeiro cálculo ainda busca os dados
		expectGeneration(m, 4)
		m.transactions.EXPECT().ListByDateRange(gomock.Any(), "club-1", filters).
			DoAndReturn(func(ctx context.Context, _ string, _ domain.ReportFilters) ([]*domain.Transaction, error) {
				service.InvalidateClub(ctx, "club-1")
				return []*domain.Transaction{
					sale("T1", 25, domain.MembershipVIP, domain.PaymentCard, date(2024, 1, 2, 22)),
				}, nil
			})
		m.cache.EXPECT().Incr(gomock.Any(), "reports-gen:club-1").Return(int64(5), nil)
		m.cache.EXPECT().DeleteByPrefix(gomock.Any(), "reports:club-1:").Return(nil)
		m.checkIns.EXPECT().ListByDateRange(gomock.Any(), "club-1", gomock.Any(), gomock.Any()).Return(nil, nil).Times(2)
		m.cache.EXPECT().Set(gomock.Any(), dailyKey(4), gomock.Any(), gomock.Any()).Return(nil)

		stale, err := service.RefreshDailyReports(ctx, "club-1", filters)
		require.NoError(t, err)
		assert.Equal(t, 25.0, stale[5].TotalSales)

		// a leitura seguinte usa a nova geração e não encontra o resultado antigo
		expectGeneration(m, 5)
		m.cache.EXPECT().Get(gomock.Any(), dailyKey(5), gomock.Any()).Return(false, nil)
		m.transactions.EXPECT().ListByDateRange(gomock.Any(), "club-1", filters).Return([]*domain.Transaction{
			sale("T1", 25, domain.MembershipVIP, domain.PaymentCard, date(2024, 1, 2, 22)),
			sale("T2", 40, domain.MembershipStandard, domain.PaymentCash, date(2024, 1, 2, 23)),
		}, nil)
		m.cache.EXPECT().Set(gomock.Any(), dailyKey(5), gomock.Any(), gomock.Any()).Return(nil)

		fresh, err := service.GetDailyReports(ctx, "club-1", filters)
		require.NoError(t, err)
		assert.Equal(t, 65.0, fresh[5].TotalSales)
	})
}
