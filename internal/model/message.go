package model

import "time"

// Chat message roles as sent to the LLM and stored in history.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one side of a chat turn. Rows are written asynchronously by the
// persist worker, so CreatedAt is set at enqueue time to keep history order
// independent of queue latency.
type Message struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	SessionID uint      `gorm:"not null;index:idx_session_created,priority:1" json:"session_id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Role      string    `gorm:"size:16;not null" json:"role"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `gorm:"index:idx_session_created,priority:2" json:"created_at"`
}
