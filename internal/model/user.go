package model

import "time"

// Role is the authorization tier of a user. It is a closed set: every
// value stored in the database and every value carried in a token claim
// is one of the two constants below. ParseRole rejects anything else so
// ad hoc string comparisons never leak into handlers.
type Role string

const (
    RoleStandard Role = "STANDARD" // regular account, owns only its own job records
    RoleAdmin    Role = "ADMIN"    // may list and create accounts
)

// ParseRole normalizes a raw string into a Role. The boolean reports
// whether the input named a known role.
func ParseRole(s string) (Role, bool) {
    switch Role(s) {
    case RoleStandard:
        return RoleStandard, true
    case RoleAdmin:
        return RoleAdmin, true
    }
    return "", false
}

// User represents an application account as stored in the `users` table.
// Each field corresponds to a column. The json tags are omitted because
// these structs are used internally by the repository layer; handlers
// expose PublicUser instead so the password hash and recovery state can
// never end up in a response body.
//
// Fields:
//  ID                    – primary key identifier of the user.
//  Username              – unique login name (case-sensitive).
//  Email                 – unique email address, empty when the account has none.
//  PasswordHash          – bcrypt hashed password, never empty.
//  Role                  – authorization tier (STANDARD or ADMIN).
//  RecoveryCodeHash      – SHA-256 hex digest of the outstanding recovery code,
//                          empty when no recovery flow is in progress.
//  RecoveryCodeExpiresAt – expiry of the outstanding code; nil exactly when
//                          RecoveryCodeHash is empty.
//  CreatedAt             – timestamp of creation.
//  UpdatedAt             – timestamp of last update.
type User struct {
    ID                    uint64     // users.id
    Username              string     // users.username
    Email                 string     // users.email (nullable column)
    PasswordHash          string     // users.password_hash
    Role                  Role       // users.role
    RecoveryCodeHash      string     // users.recovery_code_hash (nullable column)
    RecoveryCodeExpiresAt *time.Time // users.recovery_code_expires_at (nullable)
    CreatedAt             time.Time  // users.created_at
    UpdatedAt             time.Time  // users.updated_at
}

// PublicUser is the externally visible projection of a User. It is the
// only user shape handlers are allowed to serialize.
type PublicUser struct {
    ID       uint64 `json:"id"`
    Username string `json:"username"`
    Email    string `json:"email,omitempty"`
    Role     Role   `json:"role"`
}

// Public returns the response-safe view of u.
func (u User) Public() PublicUser {
    return PublicUser{ID: u.ID, Username: u.Username, Email: u.Email, Role: u.Role}
}
