package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/jwalitptl/claimtrack-api/internal/model"
)

// Format identifies an export output format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// Columns is the fixed export column order; identifier first, then the claim
// attributes in their declared order.
var Columns = []string{
	"id", "entry_date", "admission_date", "customer_name", "policy_number",
	"hospital_name", "company_name", "claim_number", "claim_status",
	"claim_type", "claimed_amount", "approved_amount", "parent_claim_id",
	"remark", "tpa_name",
}

type writerFunc func(claims []*model.Claim) ([]byte, error)

// writers is the capability registry. CSV is always present; optional
// formats register themselves from their own file's init.
var writers = map[Format]writerFunc{
	FormatCSV: writeCSV,
}

// Exporter serializes claim sets to a portable tabular payload.
type Exporter struct{}

func New() *Exporter {
	return &Exporter{}
}

// Available reports whether the format can be produced in this build, so a
// caller can fall back to CSV instead of failing mid-export.
func (e *Exporter) Available(f Format) bool {
	_, ok := writers[f]
	return ok
}

// Formats lists every available format, CSV first.
func (e *Exporter) Formats() []Format {
	formats := []Format{FormatCSV}
	for f := range writers {
		if f != FormatCSV {
			formats = append(formats, f)
		}
	}
	return formats
}

// Export renders the claims in the requested format. The claim order is
// preserved; one row per claim, absent optional fields render empty.
func (e *Exporter) Export(claims []*model.Claim, f Format) ([]byte, error) {
	w, ok := writers[f]
	if !ok {
		return nil, fmt.Errorf("export format %q not available", f)
	}
	return w(claims)
}

// ContentType returns the MIME type for a format.
func (e *Exporter) ContentType(f Format) string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv"
}

func writeCSV(claims []*model.Claim) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(Columns); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, c := range claims {
		if err := w.Write(row(c)); err != nil {
			return nil, fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

func row(c *model.Claim) []string {
	return []string{
		strconv.FormatInt(c.ID, 10),
		c.EntryDate,
		c.AdmissionDate,
		c.CustomerName,
		c.PolicyNumber,
		c.HospitalName,
		string(c.CompanyName),
		strValue(c.ClaimNumber),
		string(c.ClaimStatus),
		string(c.ClaimType),
		amountValue(c.ClaimedAmount),
		amountValue(c.ApprovedAmount),
		idValue(c.ParentClaimID),
		strValue(c.Remark),
		strValue(c.TPAName),
	}
}

func strValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// amountValue renders amounts as plain decimal text, no currency symbol or
// thousands separators.
func amountValue(a *float64) string {
	if a == nil {
		return ""
	}
	return strconv.FormatFloat(*a, 'f', 2, 64)
}

func idValue(id *int64) string {
	if id == nil {
		return ""
	}
	return strconv.FormatInt(*id, 10)
}
