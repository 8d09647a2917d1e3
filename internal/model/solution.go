package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Solution is a vendor's submitted AI offering under review
type Solution struct {
	ID     string `json:"id" gorm:"type:uuid;primaryKey"`
	UserID string `json:"user_id" gorm:"type:uuid;index;not null"`

	SolutionName            string     `json:"solution_name" gorm:"type:varchar(255);not null"`
	Summary                 string     `json:"summary" gorm:"type:text"`
	Description             string     `json:"description" gorm:"type:text"`
	IndustryFocus           StringList `json:"industry_focus"`
	TechCategories          StringList `json:"tech_categories"`
	AutoTags                StringList `json:"auto_tags"`
	DeploymentModel         string     `json:"deployment_model" gorm:"type:varchar(100)"`
	ArabicSupport           bool       `json:"arabic_support" gorm:"default:false"`
	ArabicDetails           string     `json:"arabic_details" gorm:"type:text"`
	ProductImages           StringList `json:"product_images"`
	TRL                     string     `json:"trl" gorm:"type:varchar(50)"`
	DeploymentStatus        string     `json:"deployment_status" gorm:"type:varchar(100)"`
	Clients                 string     `json:"clients" gorm:"type:text"`
	KSACustomization        bool       `json:"ksa_customization" gorm:"default:false"`
	KSACustomizationDetails string     `json:"ksa_customization_details" gorm:"type:text"`
	PitchDeck               string     `json:"pitch_deck" gorm:"type:text"`
	DemoVideo               string     `json:"demo_video" gorm:"type:text"`
	ContactName             string     `json:"contact_name" gorm:"type:varchar(255)"`
	ContactEmail            string     `json:"contact_email" gorm:"type:varchar(255);not null"`
	Position                string     `json:"position" gorm:"type:varchar(255)"`
	CompanyName             string     `json:"company_name" gorm:"type:varchar(255)"`
	Country                 string     `json:"country" gorm:"type:varchar(100)"`
	Website                 string     `json:"website" gorm:"type:text"`
	LinkedIn                string     `json:"linkedin" gorm:"column:linkedin;type:text"`
	Revenue                 string     `json:"revenue" gorm:"type:varchar(100)"`
	Employees               string     `json:"employees" gorm:"type:varchar(100)"`
	RegistrationDoc         string     `json:"registration_doc" gorm:"type:text"`

	Status                 ApprovalStatus `json:"status" gorm:"type:varchar(20);index;not null"`
	TechApprovalStatus     ApprovalStatus `json:"tech_approval_status" gorm:"type:varchar(20);index;not null"`
	BusinessApprovalStatus ApprovalStatus `json:"business_approval_status" gorm:"type:varchar(20);index;not null"`
	TechFeedback           string         `json:"tech_feedback" gorm:"type:text"`
	BusinessFeedback       string         `json:"business_feedback" gorm:"type:text"`

	CreatedAt time.Time      `json:"created_at" gorm:"<-:create"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// BeforeCreate assigns the identifier when the caller did not
func (s *Solution) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// CatalogVisible reports whether both review tracks approved the solution.
// The overall status is deliberately not consulted.
func (s *Solution) CatalogVisible() bool {
	return s.TechApprovalStatus == StatusApproved && s.BusinessApprovalStatus == StatusApproved
}
