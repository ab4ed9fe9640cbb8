package model

// ClaimFilter narrows a claim search. All supplied fields combine with AND;
// zero values impose no constraint. Name and policy filters match by
// case-insensitive substring, the rest match exactly. Date ranges are
// inclusive.
type ClaimFilter struct {
	CustomerName      string `form:"customer_name" json:"customer_name,omitempty"`
	PolicyNumber      string `form:"policy_number" json:"policy_number,omitempty"`
	CompanyName       string `form:"company_name" json:"company_name,omitempty"`
	ClaimStatus       string `form:"claim_status" json:"claim_status,omitempty"`
	ClaimType         string `form:"claim_type" json:"claim_type,omitempty"`
	EntryDateFrom     string `form:"entry_date_from" json:"entry_date_from,omitempty"`
	EntryDateTo       string `form:"entry_date_to" json:"entry_date_to,omitempty"`
	AdmissionDateFrom string `form:"admission_date_from" json:"admission_date_from,omitempty"`
	AdmissionDateTo   string `form:"admission_date_to" json:"admission_date_to,omitempty"`
}

// Empty reports whether the filter imposes no constraint at all.
func (f *ClaimFilter) Empty() bool {
	return f == nil || *f == ClaimFilter{}
}

// MainClaimFilter narrows the parent-claim lookup used when linking a
// follow-up claim. Name and policy match by case-insensitive substring,
// consistent with ClaimFilter.
type MainClaimFilter struct {
	CustomerName      string `form:"customer_name" json:"customer_name,omitempty"`
	PolicyNumber      string `form:"policy_number" json:"policy_number,omitempty"`
	AdmissionDateFrom string `form:"admission_date_from" json:"admission_date_from,omitempty"`
	AdmissionDateTo   string `form:"admission_date_to" json:"admission_date_to,omitempty"`
}

// Statistics summarizes a claim set. Absent amounts count as zero.
type Statistics struct {
	TotalClaims   int64            `json:"total_claims"`
	TotalClaimed  float64          `json:"total_claimed"`
	TotalApproved float64          `json:"total_approved"`
	ByStatus      map[string]int64 `json:"by_status"`
	ByCompany     map[string]int64 `json:"by_company"`
}
