package model

import "time"

// Service is an entry in the platform-wide service catalogue. It carries no
// ownership columns; chatbots read it only under the platform-wide scope.
type Service struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:256;not null" json:"name"`
	Category    string    `gorm:"size:128" json:"category"`
	Description string    `gorm:"type:text" json:"description"`
	PriceCents  int64     `gorm:"not null;default:0" json:"price_cents"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
