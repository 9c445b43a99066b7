package model

import (
	"encoding/json"
	"time"
)

// PromptEntry is one ordered piece of a chatbot's base prompt. Entries of type
// "document" carry the source file they were extracted from.
type PromptEntry struct {
	Type       string `json:"type"` // "text" | "document" | "url"
	Content    string `json:"content"`
	SourceURL  string `json:"source_url,omitempty"`
	SourceName string `json:"source_name,omitempty"`
	Extractor  string `json:"extractor,omitempty"` // e.g. "pdf"
}

// Chatbot is an agent configuration: a base prompt plus an ordered list of
// FlowNode capabilities. BasePrompt is stored as a JSON array of PromptEntry
// for portability across MySQL versions.
type Chatbot struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	PublicID   string    `gorm:"size:36;not null;uniqueIndex" json:"public_id"`
	Name       string    `gorm:"size:128;not null" json:"name"`
	BasePrompt string    `gorm:"type:text" json:"-"` // JSON array of PromptEntry
	IsActive   bool      `gorm:"not null;default:true" json:"is_active"`
	ModelID    string    `gorm:"size:128" json:"model_id"` // empty = platform default
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// PromptEntries returns the parsed base prompt entries; empty on parse error.
func (b *Chatbot) PromptEntries() []PromptEntry {
	if b.BasePrompt == "" {
		return nil
	}
	var entries []PromptEntry
	_ = json.Unmarshal([]byte(b.BasePrompt), &entries)
	return entries
}

// SetPromptEntries stores the entries as JSON.
func (b *Chatbot) SetPromptEntries(entries []PromptEntry) {
	if len(entries) == 0 {
		b.BasePrompt = "[]"
		return
	}
	raw, _ := json.Marshal(entries)
	b.BasePrompt = string(raw)
}
