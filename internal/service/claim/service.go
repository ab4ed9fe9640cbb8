package claim

import (
	"context"
	"strings"

	"github.com/jwalitptl/claimtrack-api/internal/model"
	"github.com/jwalitptl/claimtrack-api/internal/repository"
	"github.com/jwalitptl/claimtrack-api/internal/validator"
	apperrors "github.com/jwalitptl/claimtrack-api/pkg/errors"
	"github.com/jwalitptl/claimtrack-api/pkg/logger"
)

type ClaimService interface {
	CreateClaim(ctx context.Context, claim *model.Claim) (*model.Claim, error)
	GetClaim(ctx context.Context, id int64) (*model.Claim, error)
	UpdateClaim(ctx context.Context, id int64, claim *model.Claim) (*model.Claim, error)
	DeleteClaim(ctx context.Context, id int64) error
	SearchClaims(ctx context.Context, filter *model.ClaimFilter) ([]*model.Claim, error)
	ListMainClaims(ctx context.Context, filter *model.MainClaimFilter) ([]*model.Claim, error)
	ListLinkedClaims(ctx context.Context, id int64) ([]*model.Claim, error)
}

// Invalidator is notified after every successful write so derived data
// (cached statistics) can be discarded.
type Invalidator interface {
	Invalidate()
}

type Service struct {
	repo        repository.ClaimRepository
	validator   *validator.ClaimValidator
	invalidator Invalidator
	logger      *logger.Logger
}

func NewService(repo repository.ClaimRepository, v *validator.ClaimValidator, inv Invalidator, l *logger.Logger) *Service {
	if l == nil {
		l = logger.NewLogger(nil)
	}
	return &Service{
		repo:        repo,
		validator:   v,
		invalidator: inv,
		logger:      l,
	}
}

func (s *Service) CreateClaim(ctx context.Context, claim *model.Claim) (*model.Claim, error) {
	normalize(claim)

	if errs := s.validator.ValidateClaim(claim); len(errs) > 0 {
		return nil, apperrors.Validation(errs)
	}

	id, err := s.repo.Create(ctx, claim)
	if err != nil {
		return nil, err
	}
	claim.ID = id

	s.logger.WithContext(ctx).Info("claim created", "id", id, "claim_type", string(claim.ClaimType))
	s.invalidate()
	return claim, nil
}

func (s *Service) GetClaim(ctx context.Context, id int64) (*model.Claim, error) {
	return s.repo.Get(ctx, id)
}

// UpdateClaim overwrites all mutable fields of the stored claim with the
// supplied values. Omitted optional fields are cleared.
func (s *Service) UpdateClaim(ctx context.Context, id int64, claim *model.Claim) (*model.Claim, error) {
	normalize(claim)

	if errs := s.validator.ValidateClaim(claim); len(errs) > 0 {
		return nil, apperrors.Validation(errs)
	}

	if err := s.repo.Update(ctx, id, claim); err != nil {
		return nil, err
	}

	// Re-read so the response carries storage-maintained timestamps.
	updated, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.WithContext(ctx).Info("claim updated", "id", id)
	s.invalidate()
	return updated, nil
}

func (s *Service) DeleteClaim(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.WithContext(ctx).Info("claim deleted", "id", id)
	s.invalidate()
	return nil
}

func (s *Service) SearchClaims(ctx context.Context, filter *model.ClaimFilter) ([]*model.Claim, error) {
	if errs := s.validator.ValidateFilter(filter); len(errs) > 0 {
		return nil, apperrors.Validation(errs)
	}
	return s.repo.Search(ctx, filter)
}

func (s *Service) ListMainClaims(ctx context.Context, filter *model.MainClaimFilter) ([]*model.Claim, error) {
	return s.repo.ListMainClaims(ctx, filter)
}

func (s *Service) ListLinkedClaims(ctx context.Context, id int64) ([]*model.Claim, error) {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.ListLinked(ctx, id)
}

func (s *Service) invalidate() {
	if s.invalidator != nil {
		s.invalidator.Invalidate()
	}
}

// normalize trims text fields and applies the default workflow status.
func normalize(claim *model.Claim) {
	claim.CustomerName = strings.TrimSpace(claim.CustomerName)
	claim.PolicyNumber = strings.TrimSpace(claim.PolicyNumber)
	claim.HospitalName = strings.TrimSpace(claim.HospitalName)
	if claim.ClaimStatus == "" {
		claim.ClaimStatus = model.StatusIntimation
	}
}
