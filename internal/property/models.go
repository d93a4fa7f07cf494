package property

import (
	"github.com/estatedesk/estatedesk/internal/property/model"
)

// The aggregate's data types live in internal/property/model so the
// repository implementations can share them without importing this package
// (which would cycle through the service). The aliases below keep
// property.Property etc. as the canonical names for every other caller.

// Property-level verification statuses.
const (
	StatusPending  = model.StatusPending
	StatusVerified = model.StatusVerified
	StatusRejected = model.StatusRejected
	StatusFlagged  = model.StatusFlagged
)

// GeoPoint is a GeoJSON point. Coordinates are [longitude, latitude] to stay
// compatible with Mongo 2dsphere indexes.
type GeoPoint = model.GeoPoint

// NewPoint builds a GeoPoint from latitude/longitude in degrees.
func NewPoint(lat, lng float64) GeoPoint {
	return model.NewPoint(lat, lng)
}

// Document is a title/survey/ownership document attached to a property. It is
// owned exclusively by its parent property and never shared.
type Document = model.Document

// Property is the aggregate root. Documents and HistoryLog are embedded so a
// single save applies the whole document-update + history-append + status
// recompute sequence atomically.
type Property = model.Property

// Coordinates is the lat/lng pair submitted by verification clients.
type Coordinates = model.Coordinates

// Verification result statuses (transient, never persisted).
const (
	ResultVerified = model.ResultVerified
	ResultFlagged  = model.ResultFlagged
)

// VerificationResult is the outcome of a verify-by-details check.
type VerificationResult = model.VerificationResult
