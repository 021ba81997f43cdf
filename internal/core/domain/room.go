package domain

import "time"

// RoomStatus is the lifecycle state of a room.
type RoomStatus string

const (
	RoomScheduled RoomStatus = "SCHEDULED"
	RoomActive    RoomStatus = "ACTIVE"
	RoomClosed    RoomStatus = "CLOSED" // terminal
)

// Room is a metered session. It is created with a pre-authorized cost hold
// against the creator's account and settled exactly once when it closes.
//
// The room row is the unit of optimistic concurrency: every status transition
// happens inside a store transaction that re-reads the status first, which is
// what makes double-close structurally impossible.
type Room struct {
	RoomID          string     `json:"roomID"`    // Primary key (UUID)
	Topic           string     `json:"topic"`     //
	Status          RoomStatus `json:"status"`    //
	CreatorID       string     `json:"creatorID"` // UserID of the creator; hold/refund target
	ScheduledAt     time.Time  `json:"scheduledAt"`
	DurationMinutes int        `json:"durationMinutes"` // Planned length; sizes the hold
	FirstActivityAt *time.Time `json:"firstActivityAt"` // Set exactly once on first real usage
	LastActivityAt  time.Time  `json:"lastActivityAt"`
	PrepaidCost     int64      `json:"prepaidCost"` // Tokens held at creation / last revision
	EmceeIDs        []string   `json:"emceeIDs"`    // Moderators; non-empty while participants remain
	InvitedIDs      []string   `json:"invitedIDs"`
	AuditFields
}

// IsEmcee reports whether the given user currently holds emcee status.
func (r *Room) IsEmcee(userID string) bool {
	for _, id := range r.EmceeIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// RemoveEmcee drops the given user from the emcee set, if present.
func (r *Room) RemoveEmcee(userID string) {
	kept := r.EmceeIDs[:0]
	for _, id := range r.EmceeIDs {
		if id != userID {
			kept = append(kept, id)
		}
	}
	r.EmceeIDs = kept
}
