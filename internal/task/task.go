package task

import (
	"time"
)

// Task statuses.
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

var Statuses = map[string]bool{
	StatusPending:    true,
	StatusInProgress: true,
	StatusCompleted:  true,
	StatusCancelled:  true,
}

// Priorities.
var Priorities = map[string]bool{
	"low":    true,
	"medium": true,
	"high":   true,
}

// RelatedTo points the task at the record it concerns.
type RelatedTo struct {
	Model string `bson:"model,omitempty" json:"model,omitempty"` // property, lead or deal
	ID    string `bson:"id,omitempty" json:"id,omitempty"`
}

// Reminder is a scheduled nudge for the assignee.
type Reminder struct {
	Date    time.Time `bson:"date" json:"date"`
	Message string    `bson:"message,omitempty" json:"message,omitempty"`
	Sent    bool      `bson:"sent" json:"sent"`
}

// Task is a unit of work assigned from one user to another.
type Task struct {
	ID          string     `bson:"_id,omitempty" json:"id"`
	Title       string     `bson:"title" json:"title"`
	Description string     `bson:"description,omitempty" json:"description,omitempty"`
	DueDate     *time.Time `bson:"due_date,omitempty" json:"due_date,omitempty"`
	Priority    string     `bson:"priority,omitempty" json:"priority,omitempty"`
	Status      string     `bson:"status" json:"status"`
	AssignedTo  string     `bson:"assigned_to" json:"assigned_to"`
	AssignedBy  string     `bson:"assigned_by" json:"assigned_by"`
	RelatedTo   *RelatedTo `bson:"related_to,omitempty" json:"related_to,omitempty"`
	Reminders   []Reminder `bson:"reminders" json:"reminders"`
	CreatedAt   time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `bson:"updated_at" json:"updated_at"`
}
