// Package model holds the property aggregate's data types. They live in a
// leaf package so both the property service and its repository implementations
// can share them; package property re-exports them under type aliases.
package model

import (
	"time"

	"github.com/estatedesk/estatedesk/internal/history"
)

// Property-level verification statuses.
const (
	StatusPending  = "pending"
	StatusVerified = "verified"
	StatusRejected = "rejected"
	StatusFlagged  = "flagged"
)

// GeoPoint is a GeoJSON point. Coordinates are [longitude, latitude] to stay
// compatible with Mongo 2dsphere indexes.
type GeoPoint struct {
	Type        string    `bson:"type" json:"type"`
	Coordinates []float64 `bson:"coordinates" json:"coordinates"`
}

// NewPoint builds a GeoPoint from latitude/longitude in degrees.
func NewPoint(lat, lng float64) GeoPoint {
	return GeoPoint{Type: "Point", Coordinates: []float64{lng, lat}}
}

func (p GeoPoint) Lng() float64 {
	if len(p.Coordinates) < 2 {
		return 0
	}
	return p.Coordinates[0]
}

func (p GeoPoint) Lat() float64 {
	if len(p.Coordinates) < 2 {
		return 0
	}
	return p.Coordinates[1]
}

// Document is a title/survey/ownership document attached to a property. It is
// owned exclusively by its parent property and never shared.
type Document struct {
	Type               string     `bson:"type" json:"type"`
	Name               string     `bson:"name" json:"name"`
	URL                string     `bson:"url" json:"url"`
	ObjectKey          string     `bson:"object_key,omitempty" json:"object_key,omitempty"`
	VerificationStatus string     `bson:"verification_status" json:"verification_status"`
	UploadedBy         string     `bson:"uploaded_by" json:"uploaded_by"`
	UploadedAt         time.Time  `bson:"uploaded_at" json:"uploaded_at"`
	VerifiedBy         string     `bson:"verified_by,omitempty" json:"verified_by,omitempty"`
	VerifiedAt         *time.Time `bson:"verified_at,omitempty" json:"verified_at,omitempty"`
	VerificationNotes  string     `bson:"verification_notes,omitempty" json:"verification_notes,omitempty"`
}

// Property is the aggregate root. Documents and HistoryLog are embedded so a
// single save applies the whole document-update + history-append + status
// recompute sequence atomically.
type Property struct {
	ID                 string          `bson:"_id,omitempty" json:"id"`
	OwnerID            string          `bson:"owner_id" json:"owner_id"`
	OwnerName          string          `bson:"owner_name" json:"owner_name"`
	Email              string          `bson:"email,omitempty" json:"email,omitempty"`
	Phone              string          `bson:"phone,omitempty" json:"phone,omitempty"`
	TitleNumber        string          `bson:"title_number,omitempty" json:"title_number,omitempty"`
	SurveyPlanNumber   string          `bson:"survey_plan_number,omitempty" json:"survey_plan_number,omitempty"`
	Address            string          `bson:"address" json:"address"`
	Location           GeoPoint        `bson:"location" json:"location"`
	Geohash            string          `bson:"geohash,omitempty" json:"geohash,omitempty"`
	PropertyType       string          `bson:"property_type,omitempty" json:"property_type,omitempty"`
	Size               float64         `bson:"size,omitempty" json:"size,omitempty"`
	Price              float64         `bson:"price,omitempty" json:"price,omitempty"`
	Description        string          `bson:"description,omitempty" json:"description,omitempty"`
	Images             []string        `bson:"images" json:"images"`
	Documents          []Document      `bson:"documents" json:"documents"`
	VerificationStatus string          `bson:"verification_status" json:"verification_status"`
	HistoryLog         []history.Entry `bson:"history_log" json:"history_log"`
	CreatedAt          time.Time       `bson:"created_at" json:"created_at"`
	UpdatedAt          time.Time       `bson:"updated_at" json:"updated_at"`
}

// Coordinates is the lat/lng pair submitted by verification clients.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Verification result statuses (transient, never persisted).
const (
	ResultVerified = "verified"
	ResultFlagged  = "flagged"
)

// VerificationResult is the outcome of a verify-by-details check.
type VerificationResult struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Distance *int   `json:"distance,omitempty"`
}
