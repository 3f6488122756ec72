package cache

import (
	"context"
	"time"
)

//go:generate mockgen -source=cache.go -destination=mocks/cache_mock.go -package=mocks

// ReportCache guarda projeções de relatório já calculadas.
// Get devolve false quando a chave não existe.
// Incr incrementa um contador inteiro sem expiração, criando-o com 1.
type ReportCache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	DeleteByPrefix(ctx context.Context, prefix string) error
	Incr(ctx context.Context, key string) (int64, error)
}

type NoopReportCache struct{}

func (NoopReportCache) Get(_ context.Context, _ string, _ any) (bool, error) {
	return false, nil
}

func (NoopReportCache) Set(_ context.Context, _ string, _ any, _ time.Duration) error {
	return nil
}

func (NoopReportCache) DeleteByPrefix(_ context.Context, _ string) error {
	return nil
}

func (NoopReportCache) Incr(_ context.Context, _ string) (int64, error) {
	return 0, nil
}
