package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/vfg2006/nightclub-pos-api/infrastructure/database/postgres"
	"github.com/vfg2006/nightclub-pos-api/internal/domain"
)

//go:generate mockgen -source=checkin.go -destination=mocks/checkin_mock.go -package=mocks

const (
	checkInsTable = "check_ins c"
)

type CheckInRepository interface {
	// ListByDateRange devolve as presenças em [start, end)
	ListByDateRange(ctx context.Context, clubID string, start, end time.Time) ([]*domain.CheckIn, error)
}

type checkInRepository struct {
	conn *postgres.Connection
}

func NewCheckInRepository(conn *postgres.Connection) CheckInRepository {
	return &checkInRepository{
		conn: conn,
	}
}

func (r *checkInRepository) ListByDateRange(ctx context.Context, clubID string, start, end time.Time) ([]*domain.CheckIn, error) {
	query, args, err := squirrel.
		Select("c.id", "c.club_id", "c.member_id", "c.checked_in_at").
		From(checkInsTable).
		Where(squirrel.Eq{"c.club_id": clubID}).
		Where(squirrel.GtOrEq{"c.checked_in_at": start}).
		Where(squirrel.Lt{"c.checked_in_at": end}).
		OrderBy("c.checked_in_at DESC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	checkIns := make([]*domain.CheckIn, 0)
	for rows.Next() {
		checkIn := &domain.CheckIn{}
		if err := rows.Scan(&checkIn.ID, &checkIn.ClubID, &checkIn.MemberID, &checkIn.Timestamp); err != nil {
			return nil, fmt.Errorf("erro ao escanear check-ins: %w", err)
		}
		checkIns = append(checkIns, checkIn)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return checkIns, nil
}
