package validator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jwalitptl/claimtrack-api/internal/model"
	"github.com/jwalitptl/claimtrack-api/internal/validator"
	apperrors "github.com/jwalitptl/claimtrack-api/pkg/errors"
)

func validClaim() *model.Claim {
	return &model.Claim{
		EntryDate:     "2024-03-15",
		AdmissionDate: "2024-03-10",
		CustomerName:  "Ramesh Kumar",
		PolicyNumber:  "POL-12345",
		HospitalName:  "Apollo Hospital",
		CompanyName:   model.CompanyHDFC,
		ClaimStatus:   model.StatusIntimation,
		ClaimType:     model.TypeCashless,
	}
}

func fields(errs []apperrors.FieldError) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Field
	}
	return out
}

func TestValidateClaim_Valid(t *testing.T) {
	v := validator.New(validator.Options{EnforceApprovedLimit: true})
	assert.Empty(t, v.ValidateClaim(validClaim()))
}

func TestValidateClaim_RequiredFields(t *testing.T) {
	v := validator.New(validator.Options{})

	tests := []struct {
		name   string
		mutate func(*model.Claim)
		field  string
	}{
		{"missing entry date", func(c *model.Claim) { c.EntryDate = "" }, "entry_date"},
		{"missing admission date", func(c *model.Claim) { c.AdmissionDate = "" }, "admission_date"},
		{"missing customer name", func(c *model.Claim) { c.CustomerName = "" }, "customer_name"},
		{"missing policy number", func(c *model.Claim) { c.PolicyNumber = "" }, "policy_number"},
		{"missing hospital name", func(c *model.Claim) { c.HospitalName = "" }, "hospital_name"},
		{"missing company name", func(c *model.Claim) { c.CompanyName = "" }, "company_name"},
		{"missing claim status", func(c *model.Claim) { c.ClaimStatus = "" }, "claim_status"},
		{"missing claim type", func(c *model.Claim) { c.ClaimType = "" }, "claim_type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validClaim()
			tt.mutate(c)
			errs := v.ValidateClaim(c)
			assert.NotEmpty(t, errs)
			assert.Contains(t, fields(errs), tt.field)
		})
	}
}

func TestValidateClaim_EnumMembership(t *testing.T) {
	v := validator.New(validator.Options{})

	c := validClaim()
	c.CompanyName = "ACME"
	errs := v.ValidateClaim(c)
	assert.Contains(t, fields(errs), "company_name")

	c = validClaim()
	c.ClaimStatus = "Pending"
	errs = v.ValidateClaim(c)
	assert.Contains(t, fields(errs), "claim_status")

	c = validClaim()
	c.ClaimType = "Accident"
	errs = v.ValidateClaim(c)
	assert.Contains(t, fields(errs), "claim_type")
	// The error names the allowed set.
	for _, e := range errs {
		if e.Field == "claim_type" {
			assert.Contains(t, e.Message, "Cashless")
			assert.Contains(t, e.Message, "Health check-up")
		}
	}
}

func TestValidateClaim_Dates(t *testing.T) {
	v := validator.New(validator.Options{})

	c := validClaim()
	c.EntryDate = "15/03/2024"
	errs := v.ValidateClaim(c)
	assert.Contains(t, fields(errs), "entry_date")

	c = validClaim()
	c.AdmissionDate = "not-a-date"
	errs = v.ValidateClaim(c)
	assert.Contains(t, fields(errs), "admission_date")

	// Entry before admission is rejected.
	c = validClaim()
	c.EntryDate = "2024-03-01"
	c.AdmissionDate = "2024-03-10"
	errs = v.ValidateClaim(c)
	assert.Contains(t, fields(errs), "entry_date")
}

func TestValidateClaim_Amounts(t *testing.T) {
	v := validator.New(validator.Options{EnforceApprovedLimit: true})

	negative := -100.0
	c := validClaim()
	c.ClaimedAmount = &negative
	errs := v.ValidateClaim(c)
	assert.Contains(t, fields(errs), "claimed_amount")

	claimed, approved := 1000.0, 2000.0
	c = validClaim()
	c.ClaimedAmount = &claimed
	c.ApprovedAmount = &approved
	errs = v.ValidateClaim(c)
	assert.Contains(t, fields(errs), "approved_amount")

	// Same claim passes when the limit rule is off.
	off := validator.New(validator.Options{EnforceApprovedLimit: false})
	assert.Empty(t, off.ValidateClaim(c))
}

func TestValidateClaim_ClaimNumberRequiredForProcessedStatuses(t *testing.T) {
	v := validator.New(validator.Options{})

	for _, status := range []model.ClaimStatus{
		model.StatusSubmitted, model.StatusApproved, model.StatusDeclined, model.StatusSettled,
	} {
		c := validClaim()
		c.ClaimStatus = status
		errs := v.ValidateClaim(c)
		assert.Contains(t, fields(errs), "claim_number", "status %s", status)
	}

	c := validClaim()
	c.ClaimStatus = model.StatusIntimation
	assert.Empty(t, v.ValidateClaim(c))
}

func TestValidateClaim_ParentLinkageRule(t *testing.T) {
	v := validator.New(validator.Options{})

	parentID := int64(7)
	c := validClaim()
	c.ClaimType = model.TypeCashless
	c.ParentClaimID = &parentID
	errs := v.ValidateClaim(c)
	assert.Contains(t, fields(errs), "parent_claim_id")

	// Follow-up types may carry a parent.
	c = validClaim()
	c.ClaimType = model.TypePrePost
	c.ParentClaimID = &parentID
	assert.Empty(t, v.ValidateClaim(c))
}

func TestValidateClaim_CollectsAllErrors(t *testing.T) {
	v := validator.New(validator.Options{})

	errs := v.ValidateClaim(&model.Claim{})
	assert.GreaterOrEqual(t, len(errs), 6)
}

func TestValidateFilter(t *testing.T) {
	v := validator.New(validator.Options{})

	assert.Empty(t, v.ValidateFilter(nil))
	assert.Empty(t, v.ValidateFilter(&model.ClaimFilter{
		ClaimStatus:   "Approved",
		EntryDateFrom: "2024-01-01",
		EntryDateTo:   "2024-12-31",
	}))

	errs := v.ValidateFilter(&model.ClaimFilter{
		EntryDateFrom: "2024-12-31",
		EntryDateTo:   "2024-01-01",
	})
	assert.Contains(t, fields(errs), "entry_date_from")

	errs = v.ValidateFilter(&model.ClaimFilter{ClaimStatus: "Pending"})
	assert.Contains(t, fields(errs), "claim_status")

	errs = v.ValidateFilter(&model.ClaimFilter{EntryDateFrom: "31-12-2024"})
	assert.Contains(t, fields(errs), "entry_date_from")
}
