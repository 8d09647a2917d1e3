package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is the profile row linked to an auth identity. AuthID is the token
// subject; ID is what solutions and interests reference.
type User struct {
	ID           string    `json:"id" gorm:"type:uuid;primaryKey"`
	AuthID       string    `json:"auth_id" gorm:"type:varchar(64);uniqueIndex;not null"`
	Email        string    `json:"email" gorm:"type:varchar(255);uniqueIndex:idx_users_email_lower,expression:LOWER(email),where:email <> ''"`
	PasswordHash string    `json:"-" gorm:"type:varchar(255)"`
	Role         string    `json:"role" gorm:"type:varchar(50);not null;default:'User'"`
	ContactName  string    `json:"contact_name" gorm:"type:varchar(255)"`
	CompanyName  string    `json:"company_name" gorm:"type:varchar(255)"`
	Country      string    `json:"country" gorm:"type:varchar(100)"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	return nil
}

// IsEvaluator reports whether the user may write review fields.
func (u *User) IsEvaluator() bool {
	return u != nil && u.Role == RoleEvaluator
}
