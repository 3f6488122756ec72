package main

import (
	"context"
	"os"
	"path"
	"runtime"

	"github.com/sirupsen/logrus"

	"github.com/vfg2006/nightclub-pos-api/infrastructure/cache"
	"github.com/vfg2006/nightclub-pos-api/infrastructure/database/postgres"
	"github.com/vfg2006/nightclub-pos-api/infrastructure/events"
	"github.com/vfg2006/nightclub-pos-api/infrastructure/migration"
	"github.com/vfg2006/nightclub-pos-api/infrastructure/repository"
	"github.com/vfg2006/nightclub-pos-api/internal/api"
	"github.com/vfg2006/nightclub-pos-api/internal/api/handler"
	"github.com/vfg2006/nightclub-pos-api/internal/config"
	"github.com/vfg2006/nightclub-pos-api/internal/scheduler"
	"github.com/vfg2006/nightclub-pos-api/internal/usecases/authenticating"
	"github.com/vfg2006/nightclub-pos-api/internal/usecases/billing"
	"github.com/vfg2006/nightclub-pos-api/internal/usecases/membership"
	"github.com/vfg2006/nightclub-pos-api/internal/usecases/reporting"
	"github.com/vfg2006/nightclub-pos-api/pkg/log"
)

func main() {
	configureWorkdir()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	log.Setup(cfg.App.LogLevel)
	logrus.Infof("Nível de log configurado para: %s", logrus.GetLevel())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Database.AutoMigrate {
		if err := migration.Run(cfg.Database.DSN); err != nil {
			logrus.WithError(err).Fatal("Erro ao aplicar migrações")
		}
	}

	pgConn := pgconn(ctx, cfg.Database)
	defer pgConn.Close()

	healthchecks := map[string]handler.Pinger{
		"postgres": pgConn,
	}

	var reportCache cache.ReportCache = cache.NoopReportCache{}
	if cfg.Redis.Enabled {
		redisCache := cache.NewRedisReportCache(cfg.Redis)
		defer redisCache.Close()

		if err := redisCache.Ping(ctx); err != nil {
			logrus.WithError(err).Warn("Redis indisponível, relatórios serão calculados sem cache")
		} else {
			logrus.Info("Conexão com Redis estabelecida com sucesso")
		}

		reportCache = redisCache
		healthchecks["redis"] = redisCache
	}

	var publisher events.Publisher = events.NoopPublisher{}
	if cfg.AMQP.Enabled {
		amqpPublisher, err := events.NewAMQPPublisher(cfg.AMQP)
		if err != nil {
			logrus.WithError(err).Fatal("Erro ao conectar ao RabbitMQ")
		}
		defer amqpPublisher.Close()

		publisher = amqpPublisher
		logrus.WithField("exchange", cfg.AMQP.Exchange).Info("Publicação de eventos de transação habilitada")
	}

	userRepo := repository.NewUserRepository(pgConn)
	memberRepo := repository.NewMemberRepository(pgConn)
	transactionRepo := repository.NewTransactionRepository(pgConn)
	checkInRepo := repository.NewCheckInRepository(pgConn)

	authenticator := authenticating.NewService(userRepo, cfg.Auth)
	reportingService := reporting.NewService(transactionRepo, checkInRepo, memberRepo, reportCache, cfg.Redis.ReportTTL)
	membershipService := membership.NewService(memberRepo, reportingService, cfg.Billing)
	billingService := billing.NewService(transactionRepo, membershipService, publisher, reportingService)

	reportCacheWarmupService := scheduler.NewReportCacheWarmupService(userRepo, reportingService, cfg)
	if err := reportCacheWarmupService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de aquecimento de cache de relatórios")
	}

	server, err := api.New(
		cfg,
		authenticator,
		membershipService,
		billingService,
		reportingService,
		reportCacheWarmupService,
		healthchecks,
	)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// configureWorkdir posiciona o processo na pasta do binário para que o .env local seja encontrado
func configureWorkdir() {
	_, file, _, _ := runtime.Caller(0)
	dir := path.Dir(file)
	os.Chdir(dir)
}

// pgconn cria uma conexão com o banco de dados
func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}

	err = conn.Ping(ctx)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao testar conexão com PostgreSQL")
	}

	logrus.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return conn
}
