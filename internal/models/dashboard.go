package models

// FounderMetrics агрегированные показатели дашборда основателя.
type FounderMetrics struct {
	TotalIdeas        int `json:"total_ideas"`
	ValidatedIdeas    int `json:"validated_ideas"`
	PublishedIdeas    int `json:"published_ideas"`
	PendingRequests   int `json:"pending_requests"`
	ApprovedRequests  int `json:"approved_requests"`
	ProposalsReceived int `json:"proposals_received"`
}

// InvestorMetrics агрегированные показатели дашборда инвестора.
type InvestorMetrics struct {
	RequestsSent      int `json:"requests_sent"`
	RequestsApproved  int `json:"requests_approved"`
	ProposalsSent     int `json:"proposals_sent"`
	ProposalsAccepted int `json:"proposals_accepted"`
}
