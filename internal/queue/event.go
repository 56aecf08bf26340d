// Package queue defines message payloads exchanged over the message broker.
package queue

// Queue names. Both are durable; the activity consumer drains them into the
// activity log.
const (
	OccupancyReportedQueue = "occupancy.reported"
	UserRegisteredQueue    = "user.registered"
)

// OccupancyReportedEvent is published after a member reports occupancy for a
// space. It carries enough context for downstream consumers to log or feed
// analytics without querying the primary database.
type OccupancyReportedEvent struct {
	SpaceID        uint64 `json:"space_id"`
	SpaceFullName  string `json:"space_full_name"`
	SpaceType      string `json:"space_type"`
	UniversityID   uint64 `json:"university_id"`
	UniversityName string `json:"university_name"`
	ReporterID     uint64 `json:"reporter_id"`
	Occupancy      int    `json:"occupancy"`
	ReportedAt     string `json:"reported_at"`
}

// UserRegisteredEvent is published after signup. It is the hook for the
// (out-of-process) mailer: when verification is required, a consumer can
// pick this up and deliver an activation email.
type UserRegisteredEvent struct {
	UserID               uint64 `json:"user_id"`
	Email                string `json:"email"`
	UniversityID         uint64 `json:"university_id"`
	UniversityName       string `json:"university_name"`
	VerificationRequired bool   `json:"verification_required"`
	RegisteredAt         string `json:"registered_at"`
}
