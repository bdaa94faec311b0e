package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// AuditAction действия, фиксируемые в журнале.
const (
	AuditIdeaCreated            = "IDEA_CREATED"
	AuditIdeaPublished          = "IDEA_PUBLISHED"
	AuditAccessRequestCreated   = "ACCESS_REQUEST_CREATED"
	AuditAccessRequestResponded = "ACCESS_REQUEST_RESPONDED"
	AuditProposalCreated        = "PROPOSAL_CREATED"
	AuditProposalAccepted       = "PROPOSAL_ACCEPTED"
	AuditProposalRejected       = "PROPOSAL_REJECTED"
	AuditProposalCountered      = "PROPOSAL_COUNTERED"
)

// AuditEntry запись журнала действий по идее.
type AuditEntry struct {
	ID        uuid.UUID       `db:"id" json:"id"`
	Action    string          `db:"action" json:"action"`
	Actor     string          `db:"actor" json:"actor"`
	IdeaID    *uuid.UUID      `db:"idea_id" json:"idea_id,omitempty"`
	UserID    uuid.UUID       `db:"user_id" json:"user_id"`
	Details   json.RawMessage `db:"details" json:"details,omitempty"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}
