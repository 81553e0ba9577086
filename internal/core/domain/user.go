package domain

import "time"

// RoleAudience is assigned when registration does not name a role. Roles are
// free-form labels; nothing in the API enforces them.
const (
	RoleAudience = "audience"
	RoleProducer = "producer"
)

// User models a registered account.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Principal is the identity carried inside an access token. It is exactly
// what was issued at login or registration and is never re-read from storage.
type Principal struct {
	UserID int64
	Role   string
}
