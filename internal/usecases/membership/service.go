package membership

import (
	"context"
	"strings"
	"time"

	"github.com/vfg2006/nightclub-pos-api/infrastructure/repository"
	"github.com/vfg2006/nightclub-pos-api/internal/config"
	"github.com/vfg2006/nightclub-pos-api/internal/domain"
	"github.com/vfg2006/nightclub-pos-api/pkg/apiErrors"
	"github.com/vfg2006/nightclub-pos-api/pkg/log"
)

//go:generate mockgen -source=service.go -destination=mocks/service_mock.go -package=mocks

type MembershipService interface {
	GetMember(ctx context.Context, clubID, memberID string) (*domain.Member, error)
	SearchMembers(ctx context.Context, clubID, query string) ([]*domain.Member, error)
	ListMembers(ctx context.Context, clubID string) ([]*domain.Member, error)
	CheckIn(ctx context.Context, clubID, memberID string) (*domain.CheckIn, error)
	DiscountRate(membershipType string) float64
}

// ReportInvalidator descarta relatórios em cache que ficaram desatualizados
type ReportInvalidator interface {
	InvalidateClub(ctx context.Context, clubID string)
}

type Service struct {
	memberRepo    repository.MemberRepository
	invalidator   ReportInvalidator
	discountRates map[string]float64
	now           func() time.Time
}

func NewService(memberRepo repository.MemberRepository, invalidator ReportInvalidator, billing config.Billing) *Service {
	return &Service{
		memberRepo:    memberRepo,
		invalidator:   invalidator,
		discountRates: billing.DiscountRates(),
		now:           time.Now,
	}
}

func (s *Service) GetMember(ctx context.Context, clubID, memberID string) (*domain.Member, error) {
	memberID = strings.TrimSpace(memberID)
	if memberID == "" {
		return nil, NewMembershipError(ErrMemberIDRequired, apiErrors.ErrMissingRequiredData, "", "")
	}

	member, err := s.memberRepo.GetByID(ctx, clubID, memberID)
	if err != nil {
		log.ForContext(ctx).WithError(err).WithField("member_id", memberID).Error("membership: erro ao buscar membro")
		return nil, NewMembershipError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, memberID, "falha ao buscar membro")
	}

	if member == nil {
		return nil, NewMembershipError(ErrMemberNotFound, apiErrors.ErrMemberNotFound, memberID, "")
	}

	return member, nil
}

// SearchMembers busca por nome, email ou telefone sem diferenciar maiúsculas.
// Consulta vazia devolve todos os membros do clube.
func (s *Service) SearchMembers(ctx context.Context, clubID, query string) ([]*domain.Member, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.ListMembers(ctx, clubID)
	}

	members, err := s.memberRepo.Search(ctx, clubID, strings.ToLower(query))
	if err != nil {
		log.ForContext(ctx).WithError(err).Error("membership: erro ao pesquisar membros")
		return nil, NewMembershipError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "", "falha ao pesquisar membros")
	}

	return members, nil
}

func (s *Service) ListMembers(ctx context.Context, clubID string) ([]*domain.Member, error) {
	members, err := s.memberRepo.List(ctx, clubID)
	if err != nil {
		log.ForContext(ctx).WithError(err).Error("membership: erro ao listar membros")
		return nil, NewMembershipError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "", "falha ao listar membros")
	}

	return members, nil
}

// CheckIn registra a entrada do membro no clube, incrementando visit_count e last_visit
func (s *Service) CheckIn(ctx context.Context, clubID, memberID string) (*domain.CheckIn, error) {
	if _, err := s.GetMember(ctx, clubID, memberID); err != nil {
		return nil, err
	}

	checkIn := &domain.CheckIn{
		ClubID:    clubID,
		MemberID:  strings.TrimSpace(memberID),
		Timestamp: s.now().UTC(),
	}

	if err := s.memberRepo.RegisterCheckIn(ctx, checkIn); err != nil {
		log.ForContext(ctx).WithError(err).WithField("member_id", memberID).Error("membership: erro ao registrar check-in")
		return nil, NewMembershipError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, memberID, "falha ao registrar check-in")
	}

	if s.invalidator != nil {
		s.invalidator.InvalidateClub(ctx, clubID)
	}

	log.ForContext(ctx).WithFields(log.Fields{
		"member_id":   checkIn.MemberID,
		"check_in_id": checkIn.ID,
	}).Info("membership: check-in registrado")

	return checkIn, nil
}

// DiscountRate devolve o percentual de desconto do tipo de associação; tipos desconhecidos não têm desconto
func (s *Service) DiscountRate(membershipType string) float64 {
	return s.discountRates[membershipType]
}
