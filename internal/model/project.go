package model

import "time"

// Project statuses. A project starts open; assigning a mentor marks it matched.
const (
	ProjectOpen    = "open"
	ProjectMatched = "matched"
)

// Project represents a project idea submitted by a student.
//
// OwnerID is the account that submitted the idea. MentorID stays empty until
// a mentor (or admin) assigns one — we use the empty string as "no mentor"
// rather than a nullable pointer, same trade-off as everywhere else in the
// model package.
type Project struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Summary   string    `json:"summary"`
	Tags      string    `json:"tags"` // comma-separated, e.g. "ml,web,iot"
	OwnerID   string    `json:"ownerId"`
	MentorID  string    `json:"mentorId,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
