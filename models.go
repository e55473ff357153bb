package auth

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the customer account record. Username, email, and phone are each
// unique when present; any of the three can act as a login identifier.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            uuid.UUID      `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Role          UserRole       `bun:"user_role,notnull" json:"user_role,omitempty"`
	FirstName     string         `bun:"first_name" json:"first_name,omitempty"`
	LastName      string         `bun:"last_name" json:"last_name,omitempty"`
	Username      string         `bun:"username,unique,nullzero" json:"username,omitempty"`
	Email         string         `bun:"email,unique,nullzero" json:"email,omitempty"`
	Phone         string         `bun:"phone_number,unique,nullzero" json:"phone_number,omitempty"`
	PasswordHash  string         `bun:"password_hash" json:"-"`
	Locked        bool           `bun:"locked,notnull,default:false" json:"locked"`
	LoginAttempts int            `bun:"login_attempts" json:"login_attempts,omitempty"`
	LoggedInAt    *time.Time     `bun:"loggedin_at" json:"loggedin_at,omitempty"`
	Metadata      map[string]any `bun:"metadata" json:"metadata,omitempty"`
	CreatedAt     *time.Time     `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time     `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt     *time.Time     `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// AddMetadata will append information to a metadata attribute
func (u *User) AddMetadata(key string, val any) *User {
	if u.Metadata == nil {
		u.Metadata = make(map[string]interface{})
	}
	u.Metadata[key] = val
	return u
}

type userIdentity struct {
	user *User
}

func (a userIdentity) ID() string       { return a.user.ID.String() }
func (a userIdentity) Username() string { return a.user.Username }
func (a userIdentity) Email() string    { return a.user.Email }
func (a userIdentity) Role() string     { return string(a.user.Role) }
func (a userIdentity) Locked() bool     { return a.user.Locked }

// NewIdentity wraps a user record in the Identity view token issuance needs.
func NewIdentity(u *User) Identity {
	return userIdentity{user: u}
}
