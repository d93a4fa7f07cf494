package lead

import (
	"time"

	"github.com/estatedesk/estatedesk/internal/history"
)

// Lead statuses.
const (
	StatusNew         = "new"
	StatusContacted   = "contacted"
	StatusQualified   = "qualified"
	StatusProposal    = "proposal"
	StatusNegotiation = "negotiation"
	StatusWon         = "won"
	StatusLost        = "lost"
)

var Statuses = map[string]bool{
	StatusNew:         true,
	StatusContacted:   true,
	StatusQualified:   true,
	StatusProposal:    true,
	StatusNegotiation: true,
	StatusWon:         true,
	StatusLost:        true,
}

// Lead sources.
var Sources = map[string]bool{
	"website":      true,
	"referral":     true,
	"social_media": true,
	"direct":       true,
	"other":        true,
}

// PropertyInterest records a property the lead has shown interest in.
type PropertyInterest struct {
	PropertyID    string `bson:"property_id" json:"property_id"`
	InterestLevel string `bson:"interest_level,omitempty" json:"interest_level,omitempty"`
	Notes         string `bson:"notes,omitempty" json:"notes,omitempty"`
}

// Budget is the lead's price range.
type Budget struct {
	Min float64 `bson:"min,omitempty" json:"min,omitempty"`
	Max float64 `bson:"max,omitempty" json:"max,omitempty"`
}

// Requirements captures what the lead is looking for.
type Requirements struct {
	Budget             Budget   `bson:"budget,omitempty" json:"budget,omitempty"`
	PropertyTypes      []string `bson:"property_types,omitempty" json:"property_types,omitempty"`
	PreferredLocations []string `bson:"preferred_locations,omitempty" json:"preferred_locations,omitempty"`
	Bedrooms           int      `bson:"bedrooms,omitempty" json:"bedrooms,omitempty"`
	Bathrooms          int      `bson:"bathrooms,omitempty" json:"bathrooms,omitempty"`
}

// Note is a free-form remark left on the lead.
type Note struct {
	Content   string    `bson:"content" json:"content"`
	CreatedBy string    `bson:"created_by" json:"created_by"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// Lead is a prospective buyer or renter. CommunicationHistory collects logged
// communications together with status-change and assignment events, append
// only.
type Lead struct {
	ID                   string             `bson:"_id,omitempty" json:"id"`
	FirstName            string             `bson:"first_name" json:"first_name"`
	LastName             string             `bson:"last_name" json:"last_name"`
	Email                string             `bson:"email" json:"email"`
	Phone                string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Source               string             `bson:"source" json:"source"`
	Status               string             `bson:"status" json:"status"`
	AssignedAgent        string             `bson:"assigned_agent,omitempty" json:"assigned_agent,omitempty"`
	PropertyInterest     []PropertyInterest `bson:"property_interest" json:"property_interest"`
	Requirements         Requirements       `bson:"requirements,omitempty" json:"requirements,omitempty"`
	CommunicationHistory []history.Entry    `bson:"communication_history" json:"communication_history"`
	Notes                []Note             `bson:"notes" json:"notes"`
	CreatedAt            time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt            time.Time          `bson:"updated_at" json:"updated_at"`
}
