package model

import "time"

type Task struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	TeamID    uint       `gorm:"index" json:"team_id"`
	UserID    uint       `gorm:"not null;index" json:"user_id"`
	Title     string     `gorm:"size:256;not null" json:"title"`
	Status    string     `gorm:"size:32;not null;default:open" json:"status"` // open | in_progress | done
	DueAt     *time.Time `json:"due_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
