package dto

import "time"

// JoinResponse confirms a participant's presence in a room.
type JoinResponse struct {
	RoomID   string    `json:"roomID"`
	UserID   string    `json:"userID"`
	JoinedAt time.Time `json:"joinedAt"`
}

// LeaveResult reports the outcome of the presence phase of a leave.
//
// ReconciliationRequired tells the caller that this was the last participant
// and it must now run close-and-reconcile as a separate transaction. The
// split is deliberate: reconciliation needs a fresh read that reflects the
// committed departure, and a settlement failure must not roll back the fact
// that the user has left.
type LeaveResult struct {
	Left                   bool     `json:"left"`
	ReconciliationRequired bool     `json:"reconciliationRequired"`
	PromotedEmceeID        string   `json:"promotedEmceeID,omitempty"`
	Trace                  []string `json:"trace"`
}
