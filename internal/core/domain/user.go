package domain

// User is an identity record. Used to resolve emcee promotion targets and
// refund recipients; authentication beyond JWT validation is external.
type User struct {
	UserID       string `json:"userID"` // Primary key (UUID)
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	AuditFields
}
