package models

import "time"

type InquiryStatus string

const (
	InquiryStatusNew       InquiryStatus = "new"
	InquiryStatusContacted InquiryStatus = "contacted"
	InquiryStatusClosed    InquiryStatus = "closed"
)

// Inquiry is a customer contact request captured from the storefront
// popup or the contact page.
type Inquiry struct {
	ID        uint          `gorm:"primaryKey" json:"id"`
	Name      string        `json:"name"`
	Phone     string        `gorm:"not null" json:"phone"`
	Email     string        `json:"email"`
	City      string        `json:"city"`
	Subject   string        `json:"subject"`
	Message   string        `json:"message"`
	Source    string        `gorm:"type:VARCHAR(20);default:'contact'" json:"source"` // popup | contact
	Status    InquiryStatus `gorm:"type:VARCHAR(20);default:'new'" json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}
