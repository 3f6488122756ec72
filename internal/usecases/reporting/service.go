package reporting

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vfg2006/nightclub-pos-api/infrastructure/cache"
	"github.com/vfg2006/nightclub-pos-api/infrastructure/repository"
	"github.com/vfg2006/nightclub-pos-api/internal/domain"
	"github.com/vfg2006/nightclub-pos-api/pkg/log"
)

//go:generate mockgen -source=service.go -destination=mocks/service_mock.go -package=mocks

const maxReportDays = 366

const (
	DatasetTransactions = "transactions"
	DatasetDaily        = "daily"
)

// Reporter é a camada de relatórios exposta para a API e para o agendador
type Reporter interface {
	GetSummary(ctx context.Context, clubID string, filters domain.ReportFilters) (*domain.SummaryStats, error)
	GetDailyReports(ctx context.Context, clubID string, filters domain.ReportFilters) ([]*domain.DailyReport, error)
	ListTransactions(ctx context.Context, clubID string, filters domain.ReportFilters, kind domain.TransactionKind) ([]*domain.Transaction, error)
	// Export devolve ok = false quando não há registros para exportar
	Export(ctx context.Context, clubID string, filters domain.ReportFilters, dataset string, kind domain.TransactionKind) (table domain.CSVTable, ok bool, err error)
	RefreshDailyReports(ctx context.Context, clubID string, filters domain.ReportFilters) ([]*domain.DailyReport, error)
	InvalidateClub(ctx context.Context, clubID string)
}

type Service struct {
	transactionRepo repository.TransactionRepository
	checkInRepo     repository.CheckInRepository
	memberRepo      repository.MemberRepository
	reportCache     cache.ReportCache
	cacheTTL        time.Duration
}

func NewService(
	transactionRepo repository.TransactionRepository,
	checkInRepo repository.CheckInRepository,
	memberRepo repository.MemberRepository,
	reportCache cache.ReportCache,
	cacheTTL time.Duration,
) *Service {
	if reportCache == nil {
		reportCache = cache.NoopReportCache{}
	}

	return &Service{
		transactionRepo: transactionRepo,
		checkInRepo:     checkInRepo,
		memberRepo:      memberRepo,
		reportCache:     reportCache,
		cacheTTL:        cacheTTL,
	}
}

// snapshot é o conjunto consistente de dados lido antes de qualquer agregação
type snapshot struct {
	transactions []*domain.Transaction
	checkIns     []*domain.CheckIn
	members      []*domain.Member
}

type snapshotParts struct {
	checkIns bool
	members  bool
}

func ValidateFilters(filters domain.ReportFilters) error {
	if filters.StartDate.IsZero() || filters.EndDate.IsZero() {
		return ErrMissingPeriod
	}

	start, end := filters.Bounds()
	if !start.Before(end) {
		return ErrInvalidPeriod
	}

	if len(generateDateRange(filters.StartDate, filters.EndDate)) > maxReportDays {
		return ErrPeriodTooLong
	}

	return nil
}

func (s *Service) GetSummary(ctx context.Context, clubID string, filters domain.ReportFilters) (*domain.SummaryStats, error) {
	if err := ValidateFilters(filters); err != nil {
		return nil, err
	}

	gen, cacheable := s.generation(ctx, clubID)
	key := cacheKey(clubID, gen, "summary", filters)
	cached := &domain.SummaryStats{}
	if cacheable && s.fromCache(ctx, key, cached) {
		return cached, nil
	}

	snap, err := s.fetchSnapshot(ctx, clubID, filters, snapshotParts{checkIns: true, members: true})
	if err != nil {
		return nil, err
	}

	stats := Summarize(Filter(snap.transactions, filters))
	stats.CheckIns = len(snap.checkIns)
	stats.TotalMembers = len(snap.members)

	if cacheable {
		s.toCache(ctx, key, stats)
	}

	return stats, nil
}

func (s *Service) GetDailyReports(ctx context.Context, clubID string, filters domain.ReportFilters) ([]*domain.DailyReport, error) {
	if err := ValidateFilters(filters); err != nil {
		return nil, err
	}

	gen, cacheable := s.generation(ctx, clubID)

	var cached []*domain.DailyReport
	if cacheable && s.fromCache(ctx, cacheKey(clubID, gen, "daily", filters), &cached) {
		return cached, nil
	}

	return s.refreshDailyReports(ctx, clubID, filters, gen, cacheable)
}

// RefreshDailyReports recalcula os relatórios diários ignorando o cache e grava o resultado
func (s *Service) RefreshDailyReports(ctx context.Context, clubID string, filters domain.ReportFilters) ([]*domain.DailyReport, error) {
	if err := ValidateFilters(filters); err != nil {
		return nil, err
	}

	gen, cacheable := s.generation(ctx, clubID)
	return s.refreshDailyReports(ctx, clubID, filters, gen, cacheable)
}

// refreshDailyReports grava o resultado na geração lida antes da busca: se o clube for
// invalidado no meio do caminho, a gravação cai numa geração que ninguém mais lê
func (s *Service) refreshDailyReports(
	ctx context.Context,
	clubID string,
	filters domain.ReportFilters,
	gen int64,
	cacheable bool,
) ([]*domain.DailyReport, error) {
	snap, err := s.fetchSnapshot(ctx, clubID, filters, snapshotParts{checkIns: true})
	if err != nil {
		return nil, err
	}

	reports := BuildDailyReports(Filter(snap.transactions, filters), snap.checkIns, filters.StartDate, filters.EndDate)

	if cacheable {
		s.toCache(ctx, cacheKey(clubID, gen, "daily", filters), reports)
	}

	return reports, nil
}

func (s *Service) ListTransactions(
	ctx context.Context,
	clubID string,
	filters domain.ReportFilters,
	kind domain.TransactionKind,
) ([]*domain.Transaction, error) {
	if err := ValidateFilters(filters); err != nil {
		return nil, err
	}

	if kind == "" {
		kind = domain.KindAll
	}
	if kind != domain.KindAll && kind != domain.KindSales && kind != domain.KindRefunds {
		return nil, ErrInvalidKind
	}

	snap, err := s.fetchSnapshot(ctx, clubID, filters, snapshotParts{})
	if err != nil {
		return nil, err
	}

	return byKind(Filter(snap.transactions, filters), kind), nil
}

func (s *Service) Export(
	ctx context.Context,
	clubID string,
	filters domain.ReportFilters,
	dataset string,
	kind domain.TransactionKind,
) (domain.CSVTable, bool, error) {
	var records []ExportRecord

	switch dataset {
	case "", DatasetTransactions:
		transactions, err := s.ListTransactions(ctx, clubID, filters, kind)
		if err != nil {
			return domain.CSVTable{}, false, err
		}
		records = TransactionRecords(transactions)

	case DatasetDaily:
		reports, err := s.GetDailyReports(ctx, clubID, filters)
		if err != nil {
			return domain.CSVTable{}, false, err
		}
		records = DailyReportRecords(reports)

	default:
		return domain.CSVTable{}, false, ErrInvalidDataset
	}

	table, ok := ExportRows(records)
	if !ok {
		log.ForContext(ctx).WithFields(log.Fields{
			"club_id": clubID,
			"dataset": dataset,
		}).Info("reports: nenhum registro para exportar")
	}

	return table, ok, nil
}

func (s *Service) ExportTransactions(
	ctx context.Context,
	clubID string,
	filters domain.ReportFilters,
	kind domain.TransactionKind,
) (domain.CSVTable, bool, error) {
	return s.Export(ctx, clubID, filters, DatasetTransactions, kind)
}

func (s *Service) ExportDailyReports(ctx context.Context, clubID string, filters domain.ReportFilters) (domain.CSVTable, bool, error) {
	return s.Export(ctx, clubID, filters, DatasetDaily, domain.KindAll)
}

// InvalidateClub descarta os relatórios em cache de um clube depois de uma nova transação.
// A geração é incrementada antes da limpeza para que cálculos ainda em andamento não
// republiquem números anteriores à transação.
func (s *Service) InvalidateClub(ctx context.Context, clubID string) {
	if _, err := s.reportCache.Incr(ctx, generationKey(clubID)); err != nil {
		log.ForContext(ctx).WithError(err).WithField("club_id", clubID).
			Warn("reports: erro ao avançar geração do cache de relatórios")
	}

	if err := s.reportCache.DeleteByPrefix(ctx, clubCachePrefix(clubID)); err != nil {
		log.ForContext(ctx).WithError(err).WithField("club_id", clubID).
			Warn("reports: erro ao invalidar cache de relatórios")
	}
}

// fetchSnapshot busca transações, check-ins e membros em paralelo, já que são leituras independentes
func (s *Service) fetchSnapshot(
	ctx context.Context,
	clubID string,
	filters domain.ReportFilters,
	parts snapshotParts,
) (*snapshot, error) {
	snap := &snapshot{}
	start, end := filters.Bounds()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		transactions, err := s.transactionRepo.ListByDateRange(gctx, clubID, filters)
		if err != nil {
			return fmt.Errorf("transações: %w", err)
		}
		snap.transactions = transactions
		return nil
	})

	if parts.checkIns {
		g.Go(func() error {
			checkIns, err := s.checkInRepo.ListByDateRange(gctx, clubID, start, end)
			if err != nil {
				return fmt.Errorf("check-ins: %w", err)
			}
			snap.checkIns = checkIns
			return nil
		})
	}

	if parts.members {
		g.Go(func() error {
			members, err := s.memberRepo.List(gctx, clubID)
			if err != nil {
				return fmt.Errorf("membros: %w", err)
			}
			snap.members = members
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.ForContext(ctx).WithError(err).WithField("club_id", clubID).
			Error("reports: erro ao buscar dados do relatório")
		return nil, fmt.Errorf("%w: %v", ErrUpstreamFetch, err)
	}

	return snap, nil
}

// generation lê a geração atual do cache do clube; chave ausente é a geração 0.
// Sem a geração não há como saber se o resultado continua válido, então nada é lido nem gravado.
func (s *Service) generation(ctx context.Context, clubID string) (int64, bool) {
	var gen int64
	if _, err := s.reportCache.Get(ctx, generationKey(clubID), &gen); err != nil {
		log.ForContext(ctx).WithError(err).WithField("club_id", clubID).
			Warn("reports: erro ao ler geração do cache, relatório não será cacheado")
		return 0, false
	}
	return gen, true
}

func (s *Service) fromCache(ctx context.Context, key string, dest any) bool {
	found, err := s.reportCache.Get(ctx, key, dest)
	if err != nil {
		log.ForContext(ctx).WithError(err).WithField("cache_key", key).Warn("reports: erro ao ler cache")
		return false
	}
	return found
}

func (s *Service) toCache(ctx context.Context, key string, value any) {
	if err := s.reportCache.Set(ctx, key, value, s.cacheTTL); err != nil {
		log.ForContext(ctx).WithError(err).WithField("cache_key", key).Warn("reports: erro ao gravar cache")
	}
}

func clubCachePrefix(clubID string) string {
	return fmt.Sprintf("reports:%s:", clubID)
}

// generationKey fica fora de clubCachePrefix para sobreviver ao DeleteByPrefix da invalidação
func generationKey(clubID string) string {
	return fmt.Sprintf("reports-gen:%s", clubID)
}

func cacheKey(clubID string, gen int64, kind string, filters domain.ReportFilters) string {
	return fmt.Sprintf("%sg%d:%s:%s:%s:%s:%s:%s",
		clubCachePrefix(clubID),
		gen,
		kind,
		filters.StartDate.Format(time.DateOnly),
		filters.EndDate.Format(time.DateOnly),
		filters.Location().String(),
		normalizeFilter(filters.MembershipType),
		normalizeFilter(filters.PaymentMethod),
	)
}

func normalizeFilter(value string) string {
	if value == "" {
		return domain.FilterAll
	}
	return value
}
