package model

import (
	"encoding/json"
	"time"
)

// FlowNode links one capability node to a chatbot at a given position.
// Settings is a JSON object overlaid on the registry defaults for the kind.
type FlowNode struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ChatbotID  uint      `gorm:"not null;index" json:"chatbot_id"`
	NodeKey    string    `gorm:"size:64;not null" json:"node_key"`
	OrderIndex int       `gorm:"not null;index" json:"order_index"`
	Settings   string    `gorm:"type:text" json:"-"` // JSON settings override
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// SettingsMap returns the parsed settings override; nil when absent or invalid.
func (n *FlowNode) SettingsMap() map[string]string {
	if n.Settings == "" {
		return nil
	}
	var m map[string]string
	_ = json.Unmarshal([]byte(n.Settings), &m)
	return m
}

// SetSettingsMap stores the override as JSON.
func (n *FlowNode) SetSettingsMap(m map[string]string) {
	if len(m) == 0 {
		n.Settings = "{}"
		return
	}
	raw, _ := json.Marshal(m)
	n.Settings = string(raw)
}
