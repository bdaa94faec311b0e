package dto

// RegisterRequest represents the request to register a new user
type RegisterRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Role     string `json:"role" binding:"required"`
}

// LoginRequest represents the request to log in
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest represents the request to refresh a token pair
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// CreateIdeaRequest represents the request to submit an idea
type CreateIdeaRequest struct {
	Title            string  `json:"title" binding:"required"`
	Category         string  `json:"category" binding:"required"`
	Description      string  `json:"description" binding:"required"`
	ProblemStatement string  `json:"problem_statement" binding:"required"`
	Solution         string  `json:"solution" binding:"required"`
	TargetMarket     string  `json:"target_market" binding:"required"`
	BusinessModel    string  `json:"business_model" binding:"required"`
	RequestedFunding float64 `json:"requested_funding" binding:"required"`
	EquityOffered    float64 `json:"equity_offered"`
	Traction         *string `json:"traction"`
}

// CreateAccessRequestRequest represents the request for full idea access
type CreateAccessRequestRequest struct {
	IdeaID      string `json:"idea_id" binding:"required"`
	Message     string `json:"message" binding:"required"`
	NDARequired bool   `json:"nda_required"`
}

// RespondAccessRequest represents the founder's decision on an access request
type RespondAccessRequest struct {
	Status string `json:"status" binding:"required"`
}

// MilestoneRequest represents a funding tranche inside proposal terms
type MilestoneRequest struct {
	Description string  `json:"description" binding:"required"`
	Amount      float64 `json:"amount" binding:"required"`
	Deadline    string  `json:"deadline"`
}

// CreateProposalRequest represents the request to create a proposal
type CreateProposalRequest struct {
	IdeaID         string             `json:"idea_id" binding:"required"`
	FundingAmount  float64            `json:"funding_amount" binding:"required"`
	EquityOffer    float64            `json:"equity_offer"`
	Milestones     []MilestoneRequest `json:"milestones"`
	TermSheetNotes *string            `json:"term_sheet_notes"`
}

// CounterProposalRequest represents the founder's counter-offer terms
type CounterProposalRequest struct {
	FundingAmount  float64            `json:"funding_amount" binding:"required"`
	EquityOffer    float64            `json:"equity_offer"`
	Milestones     []MilestoneRequest `json:"milestones"`
	TermSheetNotes *string            `json:"term_sheet_notes"`
}
