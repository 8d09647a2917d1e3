package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ResearchReport is an agent answer the user asked to keep
type ResearchReport struct {
	ID        string         `json:"id" gorm:"type:uuid;primaryKey"`
	UserID    string         `json:"user_id" gorm:"type:uuid;index;not null"`
	Title     string         `json:"title" gorm:"type:varchar(255);not null"`
	Query     string         `json:"query" gorm:"type:text"`
	Content   string         `json:"content" gorm:"type:text"`
	Metadata  datatypes.JSONMap `json:"metadata"`
	CreatedAt time.Time      `json:"created_at"`
}

func (r *ResearchReport) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
