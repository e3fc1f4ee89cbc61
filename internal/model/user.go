package model

import "time"

// Roles recognised by the marketplace.  CUSTOMER books stays, HOTEL
// manages one property and its rooms, ADMIN oversees the platform.
const (
	RoleCustomer = "CUSTOMER"
	RoleHotel    = "HOTEL"
	RoleAdmin    = "ADMIN"
)

// User represents an application user record as stored in the `users`
// table.  These structs are used internally by the repository layer;
// handlers define separate response types with JSON tags where needed.
//
// Fields:
//  ID              – primary key identifier of the user.
//  Email           – unique email address.
//  PasswordHash    – bcrypt hashed password.
//  Role            – CUSTOMER, HOTEL or ADMIN.
//  FullName        – display name.
//  Phone           – optional contact number.
//  IsActive        – whether the account may log in.
//  EmailVerifiedAt – when the email was verified (null until then).
//  CreatedAt       – timestamp of creation.
//  UpdatedAt       – timestamp of last update.
type User struct {
	ID              uint64     // users.id
	Email           string     // users.email
	PasswordHash    string     // users.password_hash
	Role            string     // users.role
	FullName        string     // users.full_name
	Phone           string     // users.phone
	IsActive        bool       // users.is_active
	EmailVerifiedAt *time.Time // users.email_verified_at (nullable)
	CreatedAt       time.Time  // users.created_at
	UpdatedAt       time.Time  // users.updated_at
}

// RefreshToken models an entry in the `refresh_tokens` table.  Each
// refresh token belongs to a user and contains metadata for expiry and
// revocation.  The plain token is not stored; only its SHA-256 hash.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
