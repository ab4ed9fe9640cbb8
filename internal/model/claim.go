package model

import (
	"time"
)

// DateLayout is the canonical format for entry and admission dates.
const DateLayout = "2006-01-02"

type Company string

const (
	CompanyNiva           Company = "NIVA"
	CompanyHDFC           Company = "HDFC"
	CompanyTata           Company = "TATA"
	CompanyCare           Company = "CARE"
	CompanyNewIndia       Company = "NEW INDIA"
	CompanyNational       Company = "NATIONAL"
	CompanyUnited         Company = "UNITED"
	CompanyOriental       Company = "ORIENTAL"
	CompanyFutureGenerali Company = "FUTURE GENERALI"
)

type ClaimStatus string

const (
	StatusIntimation            ClaimStatus = "Intimation"
	StatusSubmitted             ClaimStatus = "Submitted"
	StatusApproved              ClaimStatus = "Approved"
	StatusDeclined              ClaimStatus = "Declined"
	StatusReconsideration       ClaimStatus = "Reconsideration"
	StatusSettled               ClaimStatus = "Settled"
	StatusAdditionalRequirement ClaimStatus = "Additional requirement"
	StatusOmbudsman             ClaimStatus = "Ombudsman"
)

type ClaimType string

const (
	TypeCashless      ClaimType = "Cashless"
	TypeReimbursement ClaimType = "Reimbursement"
	TypePrePost       ClaimType = "Pre-post"
	TypeDayCare       ClaimType = "Day care"
	TypeHospitalCash  ClaimType = "Hospital cash"
	TypeHealthCheckup ClaimType = "Health check-up"
)

func Companies() []Company {
	return []Company{
		CompanyNiva, CompanyHDFC, CompanyTata, CompanyCare, CompanyNewIndia,
		CompanyNational, CompanyUnited, CompanyOriental, CompanyFutureGenerali,
	}
}

func ClaimStatuses() []ClaimStatus {
	return []ClaimStatus{
		StatusIntimation, StatusSubmitted, StatusApproved, StatusDeclined,
		StatusReconsideration, StatusSettled, StatusAdditionalRequirement, StatusOmbudsman,
	}
}

func ClaimTypes() []ClaimType {
	return []ClaimType{
		TypeCashless, TypeReimbursement, TypePrePost,
		TypeDayCare, TypeHospitalCash, TypeHealthCheckup,
	}
}

func (c Company) Valid() bool {
	for _, v := range Companies() {
		if c == v {
			return true
		}
	}
	return false
}

func (s ClaimStatus) Valid() bool {
	for _, v := range ClaimStatuses() {
		if s == v {
			return true
		}
	}
	return false
}

// RequiresClaimNumber reports whether a claim in this status must carry
// an insurer-assigned claim number.
func (s ClaimStatus) RequiresClaimNumber() bool {
	switch s {
	case StatusSubmitted, StatusApproved, StatusDeclined, StatusSettled:
		return true
	}
	return false
}

func (t ClaimType) Valid() bool {
	for _, v := range ClaimTypes() {
		if t == v {
			return true
		}
	}
	return false
}

// Linkable reports whether claims of this type are follow-ups that reference
// a parent claim.
func (t ClaimType) Linkable() bool {
	return t == TypePrePost || t == TypeHospitalCash
}

// CanBeParent reports whether claims of this type are eligible parents for
// follow-up claims. A follow-up type cannot also serve as a root.
func (t ClaimType) CanBeParent() bool {
	return !t.Linkable()
}

// Claim is one insurance claim record. Entry and admission dates are kept in
// the canonical YYYY-MM-DD form so lexical comparison matches chronological
// order in SQL range filters.
type Claim struct {
	ID             int64       `db:"id" json:"id"`
	EntryDate      string      `db:"entry_date" json:"entry_date" validate:"required,datetime=2006-01-02"`
	AdmissionDate  string      `db:"admission_date" json:"admission_date" validate:"required,datetime=2006-01-02"`
	CustomerName   string      `db:"customer_name" json:"customer_name" validate:"required,min=2"`
	PolicyNumber   string      `db:"policy_number" json:"policy_number" validate:"required,min=3"`
	HospitalName   string      `db:"hospital_name" json:"hospital_name" validate:"required,min=2"`
	CompanyName    Company     `db:"company_name" json:"company_name" validate:"required"`
	ClaimNumber    *string     `db:"claim_number" json:"claim_number,omitempty"`
	ClaimStatus    ClaimStatus `db:"claim_status" json:"claim_status"`
	ClaimType      ClaimType   `db:"claim_type" json:"claim_type" validate:"required"`
	ClaimedAmount  *float64    `db:"claimed_amount" json:"claimed_amount,omitempty" validate:"omitempty,gte=0"`
	ApprovedAmount *float64    `db:"approved_amount" json:"approved_amount,omitempty" validate:"omitempty,gte=0"`
	ParentClaimID  *int64      `db:"parent_claim_id" json:"parent_claim_id,omitempty"`
	Remark         *string     `db:"remark" json:"remark,omitempty"`
	TPAName        *string     `db:"tpa_name" json:"tpa_name,omitempty"`
	CreatedAt      time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time   `db:"updated_at" json:"updated_at"`
}

// Equal compares all caller-supplied fields, ignoring the assigned identifier
// and storage timestamps.
func (c *Claim) Equal(other *Claim) bool {
	if c == nil || other == nil {
		return c == other
	}
	return c.EntryDate == other.EntryDate &&
		c.AdmissionDate == other.AdmissionDate &&
		c.CustomerName == other.CustomerName &&
		c.PolicyNumber == other.PolicyNumber &&
		c.HospitalName == other.HospitalName &&
		c.CompanyName == other.CompanyName &&
		equalStr(c.ClaimNumber, other.ClaimNumber) &&
		c.ClaimStatus == other.ClaimStatus &&
		c.ClaimType == other.ClaimType &&
		equalFloat(c.ClaimedAmount, other.ClaimedAmount) &&
		equalFloat(c.ApprovedAmount, other.ApprovedAmount) &&
		equalInt(c.ParentClaimID, other.ParentClaimID) &&
		equalStr(c.Remark, other.Remark) &&
		equalStr(c.TPAName, other.TPAName)
}

func equalStr(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func equalFloat(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func equalInt(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
