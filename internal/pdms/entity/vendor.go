package entity

import "time"

// Vendor 供应商
type Vendor struct {
	ID           string    `json:"id" gorm:"primaryKey;size:32"`
	Name         string    `json:"name" gorm:"size:255;not null;uniqueIndex"`
	ContactEmail string    `json:"contact_email" gorm:"size:255"`
	CreatedAt    time.Time `json:"created_at"`
}

func (Vendor) TableName() string {
	return "vendors"
}
