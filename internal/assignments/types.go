package assignments

import "errors"

// ErrPublished is returned by Push when the target assignment is already
// published. Published assignments carry student submissions and are never
// overwritten.
var ErrPublished = errors.New("assignment is already published")

// Assignment is a Canvas course assignment, reduced to the fields the
// course-planning workflow cares about.
type Assignment struct {
	ID                int64    `json:"id,omitempty"`
	Name              string   `json:"name"`
	Description       string   `json:"description,omitempty"` // HTML
	DueAt             string   `json:"due_at,omitempty"`      // RFC3339, or empty
	PointsPossible    float64  `json:"points_possible,omitempty"`
	Published         bool     `json:"published,omitempty"`
	GroupID           int64    `json:"assignment_group_id,omitempty"`
	AllowedExtensions []string `json:"allowed_extensions,omitempty"`
}

// AssignmentGroup is a Canvas assignment group.
type AssignmentGroup struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// GroupOverview nests a group's assignments under its name.
type GroupOverview struct {
	Name        string       `json:"name"`
	Assignments []Assignment `json:"assignments"`
}

// assignmentPayload is the wire shape Canvas expects for create and update
// requests.
type assignmentPayload struct {
	Assignment Assignment `json:"assignment"`
}
