package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"

	"github.com/vfg2006/nightclub-pos-api/infrastructure/repository"
	"github.com/vfg2006/nightclub-pos-api/internal/config"
	"github.com/vfg2006/nightclub-pos-api/internal/domain"
	"github.com/vfg2006/nightclub-pos-api/internal/usecases/reporting"
)

// ReportCacheWarmupConfig representa a configuração do aquecimento do cache de relatórios
type ReportCacheWarmupConfig struct {
	CronSchedule  string
	LookbackDays  int
	WarmupEnabled bool
	Location      *time.Location
}

// ReportCacheWarmupService recalcula periodicamente os relatórios diários de todos os clubes
// para que a primeira consulta da manhã já encontre o cache preenchido
type ReportCacheWarmupService struct {
	scheduler           *gocron.Scheduler
	config              ReportCacheWarmupConfig
	userRepo            repository.UserRepository
	reporter            reporting.Reporter
	now                 func() time.Time
	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
}

func NewReportCacheWarmupService(
	userRepo repository.UserRepository,
	reporter reporting.Reporter,
	appConfig *config.Config,
) *ReportCacheWarmupService {
	warmupConfig := ReportCacheWarmupConfig{
		CronSchedule:  appConfig.ReportCacheWarmup.CronSchedule,
		LookbackDays:  appConfig.ReportCacheWarmup.LookbackDays,
		WarmupEnabled: appConfig.ReportCacheWarmup.Enabled,
		Location:      appConfig.App.Location(),
	}

	logrus.WithFields(logrus.Fields{
		"cron_schedule":  warmupConfig.CronSchedule,
		"lookback_days":  warmupConfig.LookbackDays,
		"warmup_enabled": warmupConfig.WarmupEnabled,
		"timezone":       warmupConfig.Location.String(),
	}).Info("Configuração do aquecimento de cache de relatórios carregada")

	return &ReportCacheWarmupService{
		scheduler: gocron.NewScheduler(warmupConfig.Location),
		config:    warmupConfig,
		userRepo:  userRepo,
		reporter:  reporter,
		now:       time.Now,
	}
}

// Start inicia o agendador
func (s *ReportCacheWarmupService) Start(ctx context.Context) error {
	if !s.config.WarmupEnabled {
		logrus.Info("Aquecimento de cache de relatórios desabilitado por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando agendador de aquecimento de cache de relatórios")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.sync()
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar aquecimento de cache de relatórios: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador de aquecimento de cache de relatórios")
		s.scheduler.Stop()
	}()

	return nil
}

func (s *ReportCacheWarmupService) sync() {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Aquecimento de cache já em andamento, ignorando")
		return
	}
	s.syncRunning = true
	s.lastSyncStartedAt = s.now()
	s.syncMutex.Unlock()

	defer func() {
		s.syncMutex.Lock()
		s.syncRunning = false
		s.syncMutex.Unlock()
	}()

	startTime := time.Now()

	clubs, err := s.warmup(context.Background())
	if err != nil {
		logrus.WithError(err).Error("Erro ao aquecer cache de relatórios")
		return
	}

	logrus.WithFields(logrus.Fields{
		"duration": time.Since(startTime).String(),
		"clubs":    clubs,
	}).Info("Aquecimento de cache de relatórios concluído")

	s.syncMutex.Lock()
	s.lastSyncCompletedAt = s.now()
	s.syncMutex.Unlock()
}

// warmup recalcula os relatórios de todos os clubes e devolve quantos foram aquecidos com sucesso.
// A falha de um clube não interrompe os demais.
func (s *ReportCacheWarmupService) warmup(ctx context.Context) (int, error) {
	clubIDs, err := s.userRepo.ListClubIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("erro ao listar clubes: %w", err)
	}

	if len(clubIDs) == 0 {
		logrus.Info("Nenhum clube encontrado para aquecimento de cache")
		return 0, nil
	}

	filters := s.lookbackFilters()

	logrus.WithFields(logrus.Fields{
		"start_date": filters.StartDate.Format(time.DateOnly),
		"end_date":   filters.EndDate.Format(time.DateOnly),
		"clubs":      len(clubIDs),
	}).Info("Período para aquecimento de cache de relatórios")

	warmed := 0
	for _, clubID := range clubIDs {
		if _, err := s.reporter.RefreshDailyReports(ctx, clubID, filters); err != nil {
			logrus.WithError(err).WithField("club_id", clubID).Error("Erro ao recalcular relatórios diários")
			continue
		}

		if _, err := s.reporter.GetSummary(ctx, clubID, filters); err != nil {
			logrus.WithError(err).WithField("club_id", clubID).Error("Erro ao recalcular resumo do período")
			continue
		}

		warmed++
	}

	return warmed, nil
}

// lookbackFilters cobre os últimos LookbackDays dias, terminando hoje no fuso configurado
func (s *ReportCacheWarmupService) lookbackFilters() domain.ReportFilters {
	today := domain.StartOfDay(s.now(), s.config.Location)
	days := s.config.LookbackDays
	if days < 1 {
		days = 1
	}

	return domain.ReportFilters{
		StartDate:      today.AddDate(0, 0, -(days - 1)),
		EndDate:        today,
		MembershipType: domain.FilterAll,
		PaymentMethod:  domain.FilterAll,
	}
}

// TriggerManualSync inicia manualmente um aquecimento do cache.
// Retorna false quando já existe uma execução em andamento.
func (s *ReportCacheWarmupService) TriggerManualSync() bool {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Aquecimento de cache já em andamento, ignorando solicitação manual")
		return false
	}
	s.syncMutex.Unlock()

	logrus.Info("Iniciando aquecimento manual de cache de relatórios")
	go s.sync()

	return true
}

// GetStatus retorna o status atual do aquecimento
func (s *ReportCacheWarmupService) GetStatus() map[string]any {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	return map[string]any{
		"sync_running":           s.syncRunning,
		"sync_cron":              s.config.CronSchedule,
		"sync_enabled":           s.config.WarmupEnabled,
		"lookback_days":          s.config.LookbackDays,
		"last_sync_started_at":   s.lastSyncStartedAt,
		"last_sync_completed_at": s.lastSyncCompletedAt,
	}
}
