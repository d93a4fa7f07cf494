package deal

import (
	"time"

	"github.com/estatedesk/estatedesk/internal/history"
)

// Pipeline stages a deal moves through.
const (
	StageNew              = "new"
	StageContactMade      = "contact_made"
	StageViewingScheduled = "viewing_scheduled"
	StageNegotiation      = "negotiation"
	StageAgreement        = "agreement"
	StageDocumentation    = "documentation"
	StageClosed           = "closed"
	StageCancelled        = "cancelled"
)

// Stages holds the valid pipeline stages.
var Stages = map[string]bool{
	StageNew:              true,
	StageContactMade:      true,
	StageViewingScheduled: true,
	StageNegotiation:      true,
	StageAgreement:        true,
	StageDocumentation:    true,
	StageClosed:           true,
	StageCancelled:        true,
}

// Deal types.
const (
	TypeSale  = "sale"
	TypeRent  = "rent"
	TypeLease = "lease"
)

var Types = map[string]bool{
	TypeSale:  true,
	TypeRent:  true,
	TypeLease: true,
}

// Document is a contract or agreement file attached to a deal.
type Document struct {
	Type       string    `bson:"type" json:"type"`
	URL        string    `bson:"url" json:"url"`
	Notes      string    `bson:"notes,omitempty" json:"notes,omitempty"`
	UploadedBy string    `bson:"uploaded_by" json:"uploaded_by"`
	UploadedAt time.Time `bson:"uploaded_at" json:"uploaded_at"`
}

// Deal links a property and a lead under a responsible agent and tracks the
// transaction through the pipeline. ActivityLog is append-only.
type Deal struct {
	ID          string          `bson:"_id,omitempty" json:"id"`
	PropertyID  string          `bson:"property_id" json:"property_id"`
	LeadID      string          `bson:"lead_id" json:"lead_id"`
	AgentID     string          `bson:"agent_id" json:"agent_id"`
	Stage       string          `bson:"stage" json:"stage"`
	DealType    string          `bson:"deal_type" json:"deal_type"`
	Value       float64         `bson:"value" json:"value"`
	Commission  float64         `bson:"commission" json:"commission"`
	ClosingDate *time.Time      `bson:"closing_date,omitempty" json:"closing_date,omitempty"`
	Documents   []Document      `bson:"documents" json:"documents"`
	Notes       string          `bson:"notes,omitempty" json:"notes,omitempty"`
	ActivityLog []history.Entry `bson:"activity_log" json:"activity_log"`
	CreatedAt   time.Time       `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time       `bson:"updated_at" json:"updated_at"`
}
