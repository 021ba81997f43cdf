package domain

import "time"

// Participant records a user's presence inside a room. Presence is
// extensional: a user is present iff their participant row exists, and
// deleting the row is the leave signal.
type Participant struct {
	RoomID   string    `json:"roomID"`
	UserID   string    `json:"userID"`
	Email    string    `json:"email"`
	JoinedAt time.Time `json:"joinedAt"`
}
