package validator

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jwalitptl/claimtrack-api/internal/model"
	apperrors "github.com/jwalitptl/claimtrack-api/pkg/errors"
)

var (
	customerNamePattern = regexp.MustCompile(`^[a-zA-Z\s.,'-]+$`)
	policyNumberPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
)

// Options toggles the configurable business rules.
type Options struct {
	// EnforceApprovedLimit rejects claims whose approved amount exceeds
	// the claimed amount.
	EnforceApprovedLimit bool
}

// ClaimValidator checks claims field by field and returns every problem at
// once so callers can display the full list. It never returns an error for
// malformed input; malformed input is itself a field error.
type ClaimValidator struct {
	validate *validator.Validate
	opts     Options
}

func New(opts Options) *ClaimValidator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report errors against JSON field names, not Go field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &ClaimValidator{validate: v, opts: opts}
}

// ValidateClaim returns the complete list of field-level errors for the
// claim. An empty list means the claim is valid.
func (cv *ClaimValidator) ValidateClaim(claim *model.Claim) []apperrors.FieldError {
	var errs []apperrors.FieldError

	if err := cv.validate.Struct(claim); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				errs = append(errs, apperrors.FieldError{
					Field:   fe.Field(),
					Message: tagMessage(fe),
				})
			}
		}
	}

	errs = append(errs, cv.enumErrors(claim)...)
	errs = append(errs, cv.formatErrors(claim)...)
	errs = append(errs, cv.businessErrors(claim)...)
	return errs
}

func (cv *ClaimValidator) enumErrors(claim *model.Claim) []apperrors.FieldError {
	var errs []apperrors.FieldError

	if claim.CompanyName != "" && !claim.CompanyName.Valid() {
		errs = append(errs, apperrors.FieldError{
			Field:   "company_name",
			Message: fmt.Sprintf("must be one of: %s", joinCompanies(model.Companies())),
		})
	}
	if claim.ClaimStatus == "" {
		errs = append(errs, apperrors.FieldError{Field: "claim_status", Message: "is required"})
	} else if !claim.ClaimStatus.Valid() {
		errs = append(errs, apperrors.FieldError{
			Field:   "claim_status",
			Message: fmt.Sprintf("must be one of: %s", joinStatuses(model.ClaimStatuses())),
		})
	}
	if claim.ClaimType != "" && !claim.ClaimType.Valid() {
		errs = append(errs, apperrors.FieldError{
			Field:   "claim_type",
			Message: fmt.Sprintf("must be one of: %s", joinTypes(model.ClaimTypes())),
		})
	}
	return errs
}

func (cv *ClaimValidator) formatErrors(claim *model.Claim) []apperrors.FieldError {
	var errs []apperrors.FieldError

	if claim.CustomerName != "" && !customerNamePattern.MatchString(strings.TrimSpace(claim.CustomerName)) {
		errs = append(errs, apperrors.FieldError{
			Field:   "customer_name",
			Message: "must contain only letters, spaces, and common punctuation",
		})
	}
	if claim.PolicyNumber != "" && !policyNumberPattern.MatchString(strings.TrimSpace(claim.PolicyNumber)) {
		errs = append(errs, apperrors.FieldError{
			Field:   "policy_number",
			Message: "must be alphanumeric",
		})
	}
	return errs
}

func (cv *ClaimValidator) businessErrors(claim *model.Claim) []apperrors.FieldError {
	var errs []apperrors.FieldError

	entry, entryErr := time.Parse(model.DateLayout, claim.EntryDate)
	admission, admissionErr := time.Parse(model.DateLayout, claim.AdmissionDate)
	if entryErr == nil && admissionErr == nil && entry.Before(admission) {
		errs = append(errs, apperrors.FieldError{
			Field:   "entry_date",
			Message: "must not be before admission date",
		})
	}

	if cv.opts.EnforceApprovedLimit &&
		claim.ClaimedAmount != nil && claim.ApprovedAmount != nil &&
		*claim.ApprovedAmount > *claim.ClaimedAmount {
		errs = append(errs, apperrors.FieldError{
			Field:   "approved_amount",
			Message: "cannot exceed claimed amount",
		})
	}

	if claim.ClaimStatus.RequiresClaimNumber() &&
		(claim.ClaimNumber == nil || strings.TrimSpace(*claim.ClaimNumber) == "") {
		errs = append(errs, apperrors.FieldError{
			Field:   "claim_number",
			Message: fmt.Sprintf("is required for status %q", claim.ClaimStatus),
		})
	}

	if claim.ParentClaimID != nil && !claim.ClaimType.Linkable() {
		errs = append(errs, apperrors.FieldError{
			Field:   "parent_claim_id",
			Message: "parent claim not applicable to this claim type",
		})
	}
	return errs
}

// ValidateFilter checks search filter values: date formats, range order and
// enum membership.
func (cv *ClaimValidator) ValidateFilter(f *model.ClaimFilter) []apperrors.FieldError {
	if f == nil {
		return nil
	}
	var errs []apperrors.FieldError

	dates := []struct{ field, value string }{
		{"entry_date_from", f.EntryDateFrom},
		{"entry_date_to", f.EntryDateTo},
		{"admission_date_from", f.AdmissionDateFrom},
		{"admission_date_to", f.AdmissionDateTo},
	}
	for _, d := range dates {
		if d.value == "" {
			continue
		}
		if _, err := time.Parse(model.DateLayout, d.value); err != nil {
			errs = append(errs, apperrors.FieldError{
				Field:   d.field,
				Message: "must be a valid date in YYYY-MM-DD format",
			})
		}
	}
	if f.EntryDateFrom != "" && f.EntryDateTo != "" && f.EntryDateFrom > f.EntryDateTo {
		errs = append(errs, apperrors.FieldError{
			Field:   "entry_date_from",
			Message: "cannot be after entry_date_to",
		})
	}
	if f.AdmissionDateFrom != "" && f.AdmissionDateTo != "" && f.AdmissionDateFrom > f.AdmissionDateTo {
		errs = append(errs, apperrors.FieldError{
			Field:   "admission_date_from",
			Message: "cannot be after admission_date_to",
		})
	}

	if f.CompanyName != "" && !model.Company(f.CompanyName).Valid() {
		errs = append(errs, apperrors.FieldError{Field: "company_name", Message: "invalid company name in filter"})
	}
	if f.ClaimStatus != "" && !model.ClaimStatus(f.ClaimStatus).Valid() {
		errs = append(errs, apperrors.FieldError{Field: "claim_status", Message: "invalid claim status in filter"})
	}
	if f.ClaimType != "" && !model.ClaimType(f.ClaimType).Valid() {
		errs = append(errs, apperrors.FieldError{Field: "claim_type", Message: "invalid claim type in filter"})
	}
	return errs
}

func tagMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "datetime":
		return "must be a valid date in YYYY-MM-DD format"
	case "min":
		return fmt.Sprintf("must be at least %s characters long", fe.Param())
	case "gte":
		return "must be a non-negative number"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

func joinCompanies(vals []model.Company) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}

func joinStatuses(vals []model.ClaimStatus) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}

func joinTypes(vals []model.ClaimType) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}
