package dto

// CreateAdvanceRequest describes the salary advance payload.
type CreateAdvanceRequest struct {
	Amount      string `json:"amount" validate:"required"`
	Currency    string `json:"currency" validate:"required,len=3"`
	Reason      string `json:"reason"`
	PeriodYear  *int   `json:"period_year"`
	PeriodMonth *int   `json:"period_month" validate:"omitempty,min=1,max=12"`
}

// AdvanceQuery filters advance listings.
type AdvanceQuery struct {
	Status string `form:"status"`
	Limit  int    `form:"limit"`
	Offset int    `form:"offset"`
}
