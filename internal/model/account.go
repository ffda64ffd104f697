package model

import "time"

// Account roles. The role is advisory for record mutations unless the
// feature.enforce_admin_mutations flag is on.
const (
	RoleUser  = "User"
	RoleAdmin = "Admin"
)

// Account is a registered login — table accounts.
// Email is unique case-insensitively (unique index on lower(email)).
// ResetCode mirrors the pending one-time code; the authoritative, TTL-bound
// copy lives in the cache.
type Account struct {
	AccountID    string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"account_id"`
	Email        string    `gorm:"type:varchar(255);not null"                     json:"email"`
	PasswordHash string    `gorm:"type:varchar(255);not null"                     json:"-"`
	Role         string    `gorm:"type:varchar(20);not null;default:'User'"       json:"role"`
	ResetCode    *string   `gorm:"type:varchar(6)"                                json:"-"`
	CreatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"updated_at"`
}

// TableName sets the table name.
func (Account) TableName() string { return "accounts" }
