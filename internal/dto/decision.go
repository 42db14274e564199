package dto

// DecisionRequest carries a manager-tier verdict.
type DecisionRequest struct {
	Decision string `json:"decision" validate:"required,decision"`
	Comment  string `json:"comment"`
}

// FinalDecisionRequest carries the administrative sign-off. Signature payload
// is only meaningful on approval of leave requests.
type FinalDecisionRequest struct {
	Decision   string `json:"decision" validate:"required,decision"`
	Comment    string `json:"comment"`
	SignerName string `json:"signer_name"`
	Signature  []byte `json:"signature,omitempty"`
}
