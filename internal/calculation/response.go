package calculation

import "github.com/google/uuid"

// HeirInfo is one heir in the wire response. Shares travel as exact
// numerator/denominator pairs; the percentage is display-only.
type HeirInfo struct {
	PersonID         string  `json:"person_id"`
	Name             string  `json:"name"`
	Relationship     string  `json:"relationship"`
	Rank             int     `json:"rank"`
	ShareNumerator   int64   `json:"share_numerator"`
	ShareDenominator int64   `json:"share_denominator"`
	SharePercentage  float64 `json:"share_percentage"`
	IsSubstitute     bool    `json:"is_substitute"`
	SubstituteFor    *string `json:"substitute_for"`
	IsRetransfer     bool    `json:"is_retransfer,omitempty"`
	RetransferFrom   *string `json:"retransfer_from,omitempty"`
}

// Response is the calculation result for one case.
type Response struct {
	CaseID           uuid.UUID  `json:"case_id"`
	DecedentName     string     `json:"decedent_name"`
	Heirs            []HeirInfo `json:"heirs"`
	TotalHeirs       int        `json:"total_heirs"`
	CalculationBasis string     `json:"calculation_basis"`
}
