package report_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/claimtrack-api/internal/config"
	"github.com/jwalitptl/claimtrack-api/internal/export"
	"github.com/jwalitptl/claimtrack-api/internal/model"
	"github.com/jwalitptl/claimtrack-api/internal/repository"
	"github.com/jwalitptl/claimtrack-api/internal/repository/sqlite"
	"github.com/jwalitptl/claimtrack-api/internal/service/report"
	"github.com/jwalitptl/claimtrack-api/internal/validator"
	apperrors "github.com/jwalitptl/claimtrack-api/pkg/errors"
)

func newTestService(t *testing.T) (*report.Service, repository.ClaimRepository) {
	t.Helper()

	db, err := sqlite.NewDB(config.DatabaseConfig{Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, sqlite.Migrate(db))

	repo := sqlite.NewClaimRepository(db, nil)
	svc := report.NewService(repo, validator.New(validator.Options{}), export.New(), time.Minute, nil)
	return svc, repo
}

func f64Ptr(f float64) *float64 { return &f }

func seedClaim(t *testing.T, repo repository.ClaimRepository, status model.ClaimStatus, claimed float64) int64 {
	t.Helper()
	id, err := repo.Create(context.Background(), &model.Claim{
		EntryDate:     "2024-03-15",
		AdmissionDate: "2024-03-10",
		CustomerName:  "Ramesh Kumar",
		PolicyNumber:  "POL-12345",
		HospitalName:  "Apollo Hospital",
		CompanyName:   model.CompanyHDFC,
		ClaimStatus:   status,
		ClaimType:     model.TypeCashless,
		ClaimedAmount: f64Ptr(claimed),
	})
	require.NoError(t, err)
	return id
}

func TestComputeAggregates(t *testing.T) {
	svc, repo := newTestService(t)

	seedClaim(t, repo, model.StatusIntimation, 1000)
	seedClaim(t, repo, model.StatusApproved, 2500)

	stats, err := svc.Compute(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalClaims)
	assert.InDelta(t, 3500, stats.TotalClaimed, 0.001)
	assert.Equal(t, int64(1), stats.ByStatus[string(model.StatusApproved)])
	assert.Equal(t, int64(2), stats.ByCompany[string(model.CompanyHDFC)])
}

func TestComputeCachesUntilInvalidated(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	seedClaim(t, repo, model.StatusIntimation, 1000)

	stats, err := svc.Compute(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalClaims)

	// A write the service does not know about is invisible to the cache.
	seedClaim(t, repo, model.StatusApproved, 2000)
	stats, err = svc.Compute(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalClaims, "stale until invalidated")

	svc.Invalidate()
	stats, err = svc.Compute(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalClaims)
}

func TestComputeFilterIsSeparateCacheEntry(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	seedClaim(t, repo, model.StatusIntimation, 1000)
	seedClaim(t, repo, model.StatusApproved, 2000)

	all, err := svc.Compute(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), all.TotalClaims)

	approved, err := svc.Compute(ctx, &model.ClaimFilter{ClaimStatus: string(model.StatusApproved)})
	require.NoError(t, err)
	assert.Equal(t, int64(1), approved.TotalClaims)
}

func TestComputeRejectsBadFilter(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Compute(context.Background(), &model.ClaimFilter{ClaimStatus: "Pending"})
	assert.True(t, apperrors.IsValidation(err))
}

func TestExportCSV(t *testing.T) {
	svc, repo := newTestService(t)

	seedClaim(t, repo, model.StatusIntimation, 1000)
	seedClaim(t, repo, model.StatusApproved, 2000)

	payload, contentType, err := svc.Export(context.Background(), nil, export.FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "text/csv", contentType)

	records, err := csv.NewReader(bytes.NewReader(payload)).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 3, "header plus one row per claim")
}

func TestExportFiltered(t *testing.T) {
	svc, repo := newTestService(t)

	seedClaim(t, repo, model.StatusIntimation, 1000)
	seedClaim(t, repo, model.StatusApproved, 2000)

	payload, _, err := svc.Export(context.Background(), &model.ClaimFilter{
		ClaimStatus: string(model.StatusApproved),
	}, export.FormatCSV)
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(payload)).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestExportUnavailableFormat(t *testing.T) {
	svc, _ := newTestService(t)

	_, _, err := svc.Export(context.Background(), nil, "pdf")
	require.True(t, apperrors.IsValidation(err))
	assert.Contains(t, err.Error(), "not available")
}

func TestFormatsListsCSVFirst(t *testing.T) {
	svc, _ := newTestService(t)

	formats := svc.Formats()
	require.NotEmpty(t, formats)
	assert.Equal(t, export.FormatCSV, formats[0])
}
