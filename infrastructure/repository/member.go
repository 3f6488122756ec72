package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/vfg2006/nightclub-pos-api/infrastructure/database/postgres"
	"github.com/vfg2006/nightclub-pos-api/internal/domain"
)

//go:generate mockgen -source=member.go -destination=mocks/member_mock.go -package=mocks

const (
	membersTable = "members m"
)

var memberColumns = []string{
	"m.id",
	"m.club_id",
	"m.name",
	"m.email",
	"m.phone",
	"m.membership_type",
	"m.join_date",
	"m.last_visit",
	"m.total_spent",
	"m.visit_count",
}

type MemberRepository interface {
	GetByID(ctx context.Context, clubID, id string) (*domain.Member, error)
	Search(ctx context.Context, clubID, term string) ([]*domain.Member, error)
	List(ctx context.Context, clubID string) ([]*domain.Member, error)
	// RegisterCheckIn grava a presença e atualiza visit_count/last_visit do membro
	RegisterCheckIn(ctx context.Context, checkIn *domain.CheckIn) error
}

type memberRepository struct {
	conn *postgres.Connection
}

func NewMemberRepository(conn *postgres.Connection) MemberRepository {
	return &memberRepository{
		conn: conn,
	}
}

func (r *memberRepository) GetByID(ctx context.Context, clubID, id string) (*domain.Member, error) {
	query, args, err := squirrel.
		Select(memberColumns...).
		From(membersTable).
		Where(squirrel.Eq{"m.club_id": clubID, "m.id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	member, err := scanMember(r.conn.QueryRowContext(ctx, query, args...))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao escanear membro: %w", err)
	}

	return member, nil
}

func (r *memberRepository) Search(ctx context.Context, clubID, term string) ([]*domain.Member, error) {
	pattern := "%" + strings.ToLower(strings.TrimSpace(term)) + "%"

	return r.list(ctx, squirrel.
		Select(memberColumns...).
		From(membersTable).
		Where(squirrel.Eq{"m.club_id": clubID}).
		Where(squirrel.Or{
			squirrel.Like{"LOWER(m.name)": pattern},
			squirrel.Like{"LOWER(m.email)": pattern},
			squirrel.Like{"m.phone": pattern},
		}).
		OrderBy("m.name ASC").
		Limit(50))
}

func (r *memberRepository) List(ctx context.Context, clubID string) ([]*domain.Member, error) {
	return r.list(ctx, squirrel.
		Select(memberColumns...).
		From(membersTable).
		Where(squirrel.Eq{"m.club_id": clubID}).
		OrderBy("m.name ASC"))
}

func (r *memberRepository) list(ctx context.Context, builder squirrel.SelectBuilder) ([]*domain.Member, error) {
	query, args, err := builder.PlaceholderFormat(squirrel.Dollar).ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	members := make([]*domain.Member, 0)
	for rows.Next() {
		member, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear membros: %w", err)
		}
		members = append(members, member)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return members, nil
}

func (r *memberRepository) RegisterCheckIn(ctx context.Context, checkIn *domain.CheckIn) error {
	insertSQL, insertArgs, err := squirrel.
		Insert("check_ins").
		Columns("club_id", "member_id", "checked_in_at").
		Values(checkIn.ClubID, checkIn.MemberID, checkIn.Timestamp).
		Suffix("RETURNING id").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	updateSQL, updateArgs, err := squirrel.
		Update("members").
		Set("visit_count", squirrel.Expr("visit_count + 1")).
		Set("last_visit", checkIn.Timestamp).
		Where(squirrel.Eq{"id": checkIn.MemberID, "club_id": checkIn.ClubID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	return r.conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		if err := tx.QueryRowContext(ctx, insertSQL, insertArgs...).Scan(&checkIn.ID); err != nil {
			return fmt.Errorf("erro ao registrar check-in: %w", err)
		}

		if _, err := tx.ExecContext(ctx, updateSQL, updateArgs...); err != nil {
			return fmt.Errorf("erro ao atualizar visitas do membro: %w", err)
		}

		return nil
	})
}

func scanMember(row rowScanner) (*domain.Member, error) {
	member := &domain.Member{}
	var lastVisit sql.NullTime

	err := row.Scan(
		&member.ID,
		&member.ClubID,
		&member.Name,
		&member.Email,
		&member.Phone,
		&member.MembershipType,
		&member.JoinDate,
		&lastVisit,
		&member.TotalSpent,
		&member.VisitCount,
	)
	if err != nil {
		return nil, err
	}

	if lastVisit.Valid {
		t := lastVisit.Time
		member.LastVisit = &t
	}

	return member, nil
}
