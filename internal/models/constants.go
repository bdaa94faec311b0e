package models

// Role константы ролей пользователей
const (
	RoleFounder  = "founder"
	RoleInvestor = "investor"
)

// AccessRequestStatus константы статусов запросов доступа
const (
	AccessStatusPending  = "pending"
	AccessStatusApproved = "approved"
	AccessStatusRejected = "rejected"
	AccessStatusMoreInfo = "more-info"
)

// ProposalStatus константы статусов инвестиционных предложений
const (
	ProposalStatusPending   = "pending"
	ProposalStatusAccepted  = "accepted"
	ProposalStatusCountered = "countered"
	ProposalStatusRejected  = "rejected"
)

// NotificationType константы типов уведомлений
const (
	NotificationAccessRequest     = "access-request"
	NotificationAccessApproved    = "access-approved"
	NotificationAccessRejected    = "access-rejected"
	NotificationAccessMoreInfo    = "access-more-info"
	NotificationProposalReceived  = "proposal-received"
	NotificationProposalAccepted  = "proposal-accepted"
	NotificationProposalCountered = "proposal-countered"
	NotificationProposalRejected  = "proposal-rejected"
)

// ValidRoles список валидных ролей
var ValidRoles = map[string]struct{}{
	RoleFounder:  {},
	RoleInvestor: {},
}

// ValidAccessStatuses список валидных статусов запроса доступа
var ValidAccessStatuses = map[string]struct{}{
	AccessStatusPending:  {},
	AccessStatusApproved: {},
	AccessStatusRejected: {},
	AccessStatusMoreInfo: {},
}

// ValidAccessDecisions статусы, которые основатель может выставить при ответе
var ValidAccessDecisions = map[string]struct{}{
	AccessStatusApproved: {},
	AccessStatusRejected: {},
	AccessStatusMoreInfo: {},
}

// ValidProposalStatuses список валидных статусов предложений
var ValidProposalStatuses = map[string]struct{}{
	ProposalStatusPending:   {},
	ProposalStatusAccepted:  {},
	ProposalStatusCountered: {},
	ProposalStatusRejected:  {},
}
