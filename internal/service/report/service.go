package report

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/jwalitptl/claimtrack-api/internal/export"
	"github.com/jwalitptl/claimtrack-api/internal/model"
	"github.com/jwalitptl/claimtrack-api/internal/repository"
	"github.com/jwalitptl/claimtrack-api/internal/validator"
	apperrors "github.com/jwalitptl/claimtrack-api/pkg/errors"
	"github.com/jwalitptl/claimtrack-api/pkg/metrics"
)

type ReportService interface {
	Compute(ctx context.Context, filter *model.ClaimFilter) (*model.Statistics, error)
	Export(ctx context.Context, filter *model.ClaimFilter, format export.Format) ([]byte, string, error)
	Formats() []export.Format
	Invalidate()
}

// Service computes claim statistics and bulk exports. Statistics are cached
// briefly; any claim write invalidates the cache.
type Service struct {
	repo      repository.ClaimRepository
	validator *validator.ClaimValidator
	exporter  *export.Exporter
	cache     *cache.Cache
	metrics   *metrics.Metrics
}

func NewService(repo repository.ClaimRepository, v *validator.ClaimValidator, exp *export.Exporter, ttl time.Duration, m *metrics.Metrics) *Service {
	return &Service{
		repo:      repo,
		validator: v,
		exporter:  exp,
		cache:     cache.New(ttl, 2*ttl),
		metrics:   m,
	}
}

func (s *Service) Compute(ctx context.Context, filter *model.ClaimFilter) (*model.Statistics, error) {
	if errs := s.validator.ValidateFilter(filter); len(errs) > 0 {
		return nil, apperrors.Validation(errs)
	}

	key := cacheKey(filter)
	if cached, ok := s.cache.Get(key); ok {
		return cached.(*model.Statistics), nil
	}

	stats, err := s.repo.Statistics(ctx, filter)
	if err != nil {
		return nil, err
	}

	s.cache.SetDefault(key, stats)
	return stats, nil
}

// Export serializes the claims matching the filter in the requested format
// and returns the payload with its content type. The claim set is read once,
// so the result is a consistent snapshot.
func (s *Service) Export(ctx context.Context, filter *model.ClaimFilter, format export.Format) (payload []byte, contentType string, err error) {
	defer func() {
		if s.metrics != nil {
			status := "ok"
			if err != nil {
				status = "error"
			}
			s.metrics.ExportsTotal.WithLabelValues(string(format), status).Inc()
		}
	}()

	if !s.exporter.Available(format) {
		err = apperrors.Validation([]apperrors.FieldError{{
			Field:   "format",
			Message: fmt.Sprintf("format %q not available; available: %v", format, s.exporter.Formats()),
		}})
		return nil, "", err
	}

	if errs := s.validator.ValidateFilter(filter); len(errs) > 0 {
		err = apperrors.Validation(errs)
		return nil, "", err
	}

	claims, err := s.repo.Search(ctx, filter)
	if err != nil {
		return nil, "", err
	}

	payload, err = s.exporter.Export(claims, format)
	if err != nil {
		return nil, "", apperrors.Storage("export claims", err)
	}
	return payload, s.exporter.ContentType(format), nil
}

// Formats lists the export formats available in this build.
func (s *Service) Formats() []export.Format {
	return s.exporter.Formats()
}

// Invalidate drops all cached statistics. Called after every claim write.
func (s *Service) Invalidate() {
	s.cache.Flush()
}

func cacheKey(f *model.ClaimFilter) string {
	if f.Empty() {
		return "stats:all"
	}
	return fmt.Sprintf("stats:%+v", *f)
}
