package agent

import "time"

const StatusActive = "active"

// Statuses an agent profile can be in. Suspension keeps the user account
// intact while pulling the agent out of active duty.
var Statuses = map[string]bool{
	StatusActive: true,
	"inactive":   true,
	"suspended":  true,
}

// PerformanceMetrics aggregates an agent's track record. Updated by an
// admin, not derived live from deals.
type PerformanceMetrics struct {
	TotalDeals         int     `bson:"total_deals" json:"total_deals"`
	DealsClosed        int     `bson:"deals_closed" json:"deals_closed"`
	TotalValue         float64 `bson:"total_value" json:"total_value"`
	LeadConversionRate float64 `bson:"lead_conversion_rate" json:"lead_conversion_rate"`
}

// Profile is the public-facing agent record layered on top of a user
// account. One profile per user.
type Profile struct {
	ID              string             `bson:"_id,omitempty" json:"id"`
	UserID          string             `bson:"user_id" json:"user_id"`
	LicenseNumber   string             `bson:"license_number" json:"license_number"`
	Specializations []string           `bson:"specializations" json:"specializations"`
	AreasServed     []string           `bson:"areas_served" json:"areas_served"`
	Bio             string             `bson:"bio,omitempty" json:"bio,omitempty"`
	ProfileImage    string             `bson:"profile_image,omitempty" json:"profile_image,omitempty"`
	Performance     PerformanceMetrics `bson:"performance_metrics" json:"performance_metrics"`
	Status          string             `bson:"status" json:"status"`
	CreatedAt       time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time          `bson:"updated_at" json:"updated_at"`
}
