package history

import "time"

// Known action tags. The field is free-form but writers stick to this set.
const (
	ActionCreated            = "CREATED"
	ActionUpdated            = "UPDATED"
	ActionVerificationUpdate = "VERIFICATION_STATUS_UPDATED"
	ActionDocumentUploaded   = "DOCUMENT_UPLOADED"
	ActionDocumentVerified   = "DOCUMENT_VERIFIED"
	ActionStageUpdated       = "STAGE_UPDATED"
	ActionAssignment         = "ASSIGNMENT"
	ActionDocumentAdded      = "DOCUMENT_ADDED"
	ActionCommunication      = "COMMUNICATION"
	ActionStatusChange       = "STATUS_CHANGE"
	ActionSystem             = "SYSTEM"
)

// Entry is a single audit event embedded in its owning record. Entries are
// append-only: once written they are never mutated or removed.
type Entry struct {
	Action    string                 `bson:"action" json:"action"`
	Timestamp time.Time              `bson:"timestamp" json:"timestamp"`
	UserID    string                 `bson:"user_id" json:"user_id"`
	Details   string                 `bson:"details" json:"details"`
	Notes     string                 `bson:"notes,omitempty" json:"notes,omitempty"`
	Changes   map[string]interface{} `bson:"changes,omitempty" json:"changes,omitempty"`
}

// Option decorates an entry before it is appended.
type Option func(*Entry)

// WithNotes attaches free-form reviewer notes to the entry.
func WithNotes(notes string) Option {
	return func(e *Entry) { e.Notes = notes }
}

// WithChanges attaches the structured payload that caused the event.
func WithChanges(changes map[string]interface{}) Option {
	return func(e *Entry) { e.Changes = changes }
}

// Append returns log with one more entry, timestamped with the ambient clock.
// Prior entries are never reordered or dropped.
func Append(log []Entry, action, userID, details string, opts ...Option) []Entry {
	e := Entry{
		Action:    action,
		Timestamp: time.Now().UTC(),
		UserID:    userID,
		Details:   details,
	}
	for _, opt := range opts {
		opt(&e)
	}
	return append(log, e)
}
