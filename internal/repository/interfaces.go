package repository

import (
	"context"

	"github.com/jwalitptl/claimtrack-api/internal/model"
)

// ClaimRepository is the storage boundary for claim records. Implementations
// must enforce referential integrity of parent_claim_id: a parent reference
// has to resolve to an existing row, may never point at the claim itself, and
// a claim referenced as parent cannot be deleted.
type ClaimRepository interface {
	Create(ctx context.Context, claim *model.Claim) (int64, error)
	Update(ctx context.Context, id int64, claim *model.Claim) error
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (*model.Claim, error)

	// Search returns claims matching the filter, newest first:
	// entry_date descending, ties broken by id descending.
	Search(ctx context.Context, filter *model.ClaimFilter) ([]*model.Claim, error)

	// ListMainClaims returns claims eligible to be a parent, i.e. claims
	// whose type is not a follow-up type, newest first.
	ListMainClaims(ctx context.Context, filter *model.MainClaimFilter) ([]*model.Claim, error)

	// ListLinked returns all claims whose parent_claim_id equals id,
	// ordered by entry_date ascending.
	ListLinked(ctx context.Context, id int64) ([]*model.Claim, error)

	// Statistics aggregates over the claims matching the filter.
	Statistics(ctx context.Context, filter *model.ClaimFilter) (*model.Statistics, error)
}
