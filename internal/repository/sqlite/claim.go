package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/claimtrack-api/internal/model"
	"github.com/jwalitptl/claimtrack-api/internal/repository"
	apperrors "github.com/jwalitptl/claimtrack-api/pkg/errors"
	"github.com/jwalitptl/claimtrack-api/pkg/metrics"
)

// maxParentDepth bounds the ancestor walk during cycle detection. Chains in
// practice are one or two levels deep.
const maxParentDepth = 100

type claimRepository struct {
	db      *sqlx.DB
	metrics *metrics.Metrics
}

func NewClaimRepository(db *sqlx.DB, m *metrics.Metrics) repository.ClaimRepository {
	return &claimRepository{db: db, metrics: m}
}

func (r *claimRepository) Create(ctx context.Context, claim *model.Claim) (id int64, err error) {
	defer func(start time.Time) { r.metrics.ObserveDB("create", start, err) }(time.Now())

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, apperrors.Storage("create claim", err)
	}
	defer tx.Rollback()

	if claim.ParentClaimID != nil {
		if err := r.checkParent(ctx, tx, *claim.ParentClaimID, 0); err != nil {
			return 0, err
		}
	}

	now := time.Now().UTC()
	claim.CreatedAt = now
	claim.UpdatedAt = now

	res, err := tx.ExecContext(ctx, `
		INSERT INTO claims (
			entry_date, admission_date, customer_name, policy_number,
			hospital_name, company_name, claim_number, claim_status,
			claim_type, claimed_amount, approved_amount, parent_claim_id,
			remark, tpa_name, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		claim.EntryDate,
		claim.AdmissionDate,
		claim.CustomerName,
		claim.PolicyNumber,
		claim.HospitalName,
		claim.CompanyName,
		claim.ClaimNumber,
		claim.ClaimStatus,
		claim.ClaimType,
		claim.ClaimedAmount,
		claim.ApprovedAmount,
		claim.ParentClaimID,
		claim.Remark,
		claim.TPAName,
		claim.CreatedAt,
		claim.UpdatedAt,
	)
	if err != nil {
		return 0, apperrors.Storage("create claim", err)
	}

	id, err = res.LastInsertId()
	if err != nil {
		return 0, apperrors.Storage("create claim", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, apperrors.Storage("create claim", err)
	}

	claim.ID = id
	return id, nil
}

// Update overwrites every mutable field of an existing claim. Fields absent
// from the input are cleared, not retained.
func (r *claimRepository) Update(ctx context.Context, id int64, claim *model.Claim) (err error) {
	defer func(start time.Time) { r.metrics.ObserveDB("update", start, err) }(time.Now())

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return apperrors.Storage("update claim", err)
	}
	defer tx.Rollback()

	exists, err := r.exists(ctx, tx, id)
	if err != nil {
		return err
	}
	if !exists {
		return apperrors.NotFound("claim", id)
	}

	if claim.ParentClaimID != nil {
		if *claim.ParentClaimID == id {
			return apperrors.Integrity("claim cannot reference itself as parent", nil)
		}
		if err := r.checkParent(ctx, tx, *claim.ParentClaimID, id); err != nil {
			return err
		}
	}

	claim.UpdatedAt = time.Now().UTC()

	_, err = tx.ExecContext(ctx, `
		UPDATE claims SET
			entry_date = ?, admission_date = ?, customer_name = ?,
			policy_number = ?, hospital_name = ?, company_name = ?,
			claim_number = ?, claim_status = ?, claim_type = ?,
			claimed_amount = ?, approved_amount = ?, parent_claim_id = ?,
			remark = ?, tpa_name = ?, updated_at = ?
		WHERE id = ?`,
		claim.EntryDate,
		claim.AdmissionDate,
		claim.CustomerName,
		claim.PolicyNumber,
		claim.HospitalName,
		claim.CompanyName,
		claim.ClaimNumber,
		claim.ClaimStatus,
		claim.ClaimType,
		claim.ClaimedAmount,
		claim.ApprovedAmount,
		claim.ParentClaimID,
		claim.Remark,
		claim.TPAName,
		claim.UpdatedAt,
		id,
	)
	if err != nil {
		return apperrors.Storage("update claim", err)
	}
	if err := tx.Commit(); err != nil {
		return apperrors.Storage("update claim", err)
	}

	claim.ID = id
	return nil
}

func (r *claimRepository) Delete(ctx context.Context, id int64) (err error) {
	defer func(start time.Time) { r.metrics.ObserveDB("delete", start, err) }(time.Now())

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return apperrors.Storage("delete claim", err)
	}
	defer tx.Rollback()

	exists, err := r.exists(ctx, tx, id)
	if err != nil {
		return err
	}
	if !exists {
		return apperrors.NotFound("claim", id)
	}

	var children int64
	if err := tx.GetContext(ctx, &children,
		`SELECT COUNT(*) FROM claims WHERE parent_claim_id = ?`, id); err != nil {
		return apperrors.Storage("delete claim", err)
	}
	if children > 0 {
		return apperrors.Referenced(fmt.Sprintf(
			"claim %d is referenced as parent by %d linked claim(s); detach them first", id, children))
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM claims WHERE id = ?`, id); err != nil {
		return apperrors.Storage("delete claim", err)
	}
	if err := tx.Commit(); err != nil {
		return apperrors.Storage("delete claim", err)
	}
	return nil
}

func (r *claimRepository) Get(ctx context.Context, id int64) (claim *model.Claim, err error) {
	defer func(start time.Time) { r.metrics.ObserveDB("get", start, err) }(time.Now())

	claim = &model.Claim{}
	err = r.db.GetContext(ctx, claim, `SELECT * FROM claims WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("claim", id)
	}
	if err != nil {
		return nil, apperrors.Storage("get claim", err)
	}
	return claim, nil
}

func (r *claimRepository) Search(ctx context.Context, filter *model.ClaimFilter) (claims []*model.Claim, err error) {
	defer func(start time.Time) { r.metrics.ObserveDB("search", start, err) }(time.Now())

	where, args := buildClaimFilter(filter)
	query := `SELECT * FROM claims` + where + ` ORDER BY entry_date DESC, id DESC`

	claims = []*model.Claim{}
	if err = r.db.SelectContext(ctx, &claims, query, args...); err != nil {
		return nil, apperrors.Storage("search claims", err)
	}
	return claims, nil
}

func (r *claimRepository) ListMainClaims(ctx context.Context, filter *model.MainClaimFilter) (claims []*model.Claim, err error) {
	defer func(start time.Time) { r.metrics.ObserveDB("list_main_claims", start, err) }(time.Now())

	conditions := []string{`claim_type NOT IN (?, ?)`}
	args := []interface{}{string(model.TypePrePost), string(model.TypeHospitalCash)}

	if filter != nil {
		if filter.CustomerName != "" {
			conditions = append(conditions, `customer_name LIKE ? ESCAPE '\'`)
			args = append(args, "%"+escapeLike(filter.CustomerName)+"%")
		}
		if filter.PolicyNumber != "" {
			conditions = append(conditions, `policy_number LIKE ? ESCAPE '\'`)
			args = append(args, "%"+escapeLike(filter.PolicyNumber)+"%")
		}
		if filter.AdmissionDateFrom != "" {
			conditions = append(conditions, `admission_date >= ?`)
			args = append(args, filter.AdmissionDateFrom)
		}
		if filter.AdmissionDateTo != "" {
			conditions = append(conditions, `admission_date <= ?`)
			args = append(args, filter.AdmissionDateTo)
		}
	}

	query := `SELECT * FROM claims WHERE ` + strings.Join(conditions, " AND ") +
		` ORDER BY entry_date DESC, id DESC`

	claims = []*model.Claim{}
	if err = r.db.SelectContext(ctx, &claims, query, args...); err != nil {
		return nil, apperrors.Storage("list main claims", err)
	}
	return claims, nil
}

func (r *claimRepository) ListLinked(ctx context.Context, id int64) (claims []*model.Claim, err error) {
	defer func(start time.Time) { r.metrics.ObserveDB("list_linked", start, err) }(time.Now())

	claims = []*model.Claim{}
	err = r.db.SelectContext(ctx, &claims,
		`SELECT * FROM claims WHERE parent_claim_id = ? ORDER BY entry_date ASC, id ASC`, id)
	if err != nil {
		return nil, apperrors.Storage("list linked claims", err)
	}
	return claims, nil
}

func (r *claimRepository) Statistics(ctx context.Context, filter *model.ClaimFilter) (stats *model.Statistics, err error) {
	defer func(start time.Time) { r.metrics.ObserveDB("statistics", start, err) }(time.Now())

	where, args := buildClaimFilter(filter)

	stats = &model.Statistics{
		ByStatus:  map[string]int64{},
		ByCompany: map[string]int64{},
	}

	totals := struct {
		TotalClaims   int64   `db:"total_claims"`
		TotalClaimed  float64 `db:"total_claimed"`
		TotalApproved float64 `db:"total_approved"`
	}{}
	err = r.db.GetContext(ctx, &totals, `
		SELECT
			COUNT(*) AS total_claims,
			COALESCE(SUM(claimed_amount), 0) AS total_claimed,
			COALESCE(SUM(approved_amount), 0) AS total_approved
		FROM claims`+where, args...)
	if err != nil {
		return nil, apperrors.Storage("claim statistics", err)
	}
	stats.TotalClaims = totals.TotalClaims
	stats.TotalClaimed = totals.TotalClaimed
	stats.TotalApproved = totals.TotalApproved

	if err = r.groupCount(ctx, "claim_status", where, args, stats.ByStatus); err != nil {
		return nil, err
	}
	if err = r.groupCount(ctx, "company_name", where, args, stats.ByCompany); err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *claimRepository) groupCount(ctx context.Context, column, where string, args []interface{}, dest map[string]int64) error {
	rows := []struct {
		Key   string `db:"key"`
		Count int64  `db:"count"`
	}{}
	query := fmt.Sprintf(`SELECT %s AS key, COUNT(*) AS count FROM claims%s GROUP BY %s`,
		column, where, column)
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return apperrors.Storage("claim statistics", err)
	}
	for _, row := range rows {
		dest[row.Key] = row.Count
	}
	return nil
}

func (r *claimRepository) exists(ctx context.Context, tx *sqlx.Tx, id int64) (bool, error) {
	var found int64
	err := tx.GetContext(ctx, &found, `SELECT COUNT(1) FROM claims WHERE id = ?`, id)
	if err != nil {
		return false, apperrors.Storage("check claim existence", err)
	}
	return found > 0, nil
}

// checkParent verifies that parentID resolves to an existing claim and, when
// childID is non-zero, that following the parent chain from parentID never
// reaches childID.
func (r *claimRepository) checkParent(ctx context.Context, tx *sqlx.Tx, parentID, childID int64) error {
	current := parentID
	for depth := 0; depth < maxParentDepth; depth++ {
		var next sql.NullInt64
		err := tx.GetContext(ctx, &next, `SELECT parent_claim_id FROM claims WHERE id = ?`, current)
		if errors.Is(err, sql.ErrNoRows) {
			if current == parentID {
				return apperrors.Integrity(
					fmt.Sprintf("parent claim %d does not exist", parentID), nil)
			}
			// Broken link mid-chain; the immediate parent resolved.
			return nil
		}
		if err != nil {
			return apperrors.Storage("resolve parent claim", err)
		}
		if current == childID {
			return apperrors.Integrity(
				fmt.Sprintf("linking to claim %d would create a cycle", parentID), nil)
		}
		if !next.Valid {
			return nil
		}
		current = next.Int64
	}
	return apperrors.Integrity("parent claim chain too deep", nil)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike quotes LIKE wildcards so filter text matches literally.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func buildClaimFilter(f *model.ClaimFilter) (string, []interface{}) {
	if f == nil {
		return "", nil
	}

	var conditions []string
	var args []interface{}

	if f.CustomerName != "" {
		conditions = append(conditions, `customer_name LIKE ? ESCAPE '\'`)
		args = append(args, "%"+escapeLike(f.CustomerName)+"%")
	}
	if f.PolicyNumber != "" {
		conditions = append(conditions, `policy_number LIKE ? ESCAPE '\'`)
		args = append(args, "%"+escapeLike(f.PolicyNumber)+"%")
	}
	if f.CompanyName != "" {
		conditions = append(conditions, `company_name = ?`)
		args = append(args, f.CompanyName)
	}
	if f.ClaimStatus != "" {
		conditions = append(conditions, `claim_status = ?`)
		args = append(args, f.ClaimStatus)
	}
	if f.ClaimType != "" {
		conditions = append(conditions, `claim_type = ?`)
		args = append(args, f.ClaimType)
	}
	if f.EntryDateFrom != "" {
		conditions = append(conditions, `entry_date >= ?`)
		args = append(args, f.EntryDateFrom)
	}
	if f.EntryDateTo != "" {
		conditions = append(conditions, `entry_date <= ?`)
		args = append(args, f.EntryDateTo)
	}
	if f.AdmissionDateFrom != "" {
		conditions = append(conditions, `admission_date >= ?`)
		args = append(args, f.AdmissionDateFrom)
	}
	if f.AdmissionDateTo != "" {
		conditions = append(conditions, `admission_date <= ?`)
		args = append(args, f.AdmissionDateTo)
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}
