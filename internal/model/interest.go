package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Interest is a lead raised by a buyer against a solution
type Interest struct {
	ID           string         `json:"id" gorm:"type:uuid;primaryKey"`
	SolutionID   string         `json:"solution_id" gorm:"type:uuid;index;not null"`
	UserID       string         `json:"user_id" gorm:"type:uuid;index;not null;comment:'Interested party, not the solution owner'"`
	CompanyName  string         `json:"company_name" gorm:"type:varchar(255)"`
	ContactName  string         `json:"contact_name" gorm:"type:varchar(255);not null"`
	ContactEmail string         `json:"contact_email" gorm:"type:varchar(255);not null"`
	ContactPhone string         `json:"contact_phone" gorm:"type:varchar(50)"`
	Message      string         `json:"message" gorm:"type:text"`
	Status       string         `json:"status" gorm:"type:varchar(30);not null"`
	CreatedAt    time.Time      `json:"created_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`

	Solution *Solution `json:"solution,omitempty" gorm:"foreignKey:SolutionID"`
}

// BeforeCreate assigns the identifier when the caller did not
func (i *Interest) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}
