package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"bizpilot/internal/model"
)

type ChatbotRepository struct {
	db *gorm.DB
}

func NewChatbotRepository(db *gorm.DB) *ChatbotRepository {
	return &ChatbotRepository{db: db}
}

func (r *ChatbotRepository) Create(bot *model.Chatbot) error {
	if err := r.db.Create(bot).Error; err != nil {
		return fmt.Errorf("create chatbot failed: %w", err)
	}
	return nil
}

func (r *ChatbotRepository) Update(bot *model.Chatbot) error {
	if err := r.db.Save(bot).Error; err != nil {
		return fmt.Errorf("update chatbot failed: %w", err)
	}
	return nil
}

func (r *ChatbotRepository) List() ([]model.Chatbot, error) {
	var bots []model.Chatbot
	if err := r.db.Order("created_at DESC").Find(&bots).Error; err != nil {
		return nil, fmt.Errorf("list chatbots failed: %w", err)
	}
	return bots, nil
}

// ListActive returns the chatbots users may open sessions against.
func (r *ChatbotRepository) ListActive() ([]model.Chatbot, error) {
	var bots []model.Chatbot
	if err := r.db.Where("is_active = ?", true).Order("name ASC").Find(&bots).Error; err != nil {
		return nil, fmt.Errorf("list active chatbots failed: %w", err)
	}
	return bots, nil
}

func (r *ChatbotRepository) GetByID(id uint) (*model.Chatbot, error) {
	var bot model.Chatbot
	if err := r.db.First(&bot, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get chatbot failed: %w", err)
	}
	return &bot, nil
}

func (r *ChatbotRepository) GetByPublicID(publicID string) (*model.Chatbot, error) {
	var bot model.Chatbot
	if err := r.db.Where("public_id = ?", publicID).First(&bot).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get chatbot by public id failed: %w", err)
	}
	return &bot, nil
}

func (r *ChatbotRepository) Delete(id uint) error {
	if err := r.db.Delete(&model.Chatbot{}, id).Error; err != nil {
		return fmt.Errorf("delete chatbot failed: %w", err)
	}
	return nil
}

// GetChatbot and GetLinkedNodes implement the prompt assembler's store
// interface against the same database the admin surface writes to.

func (r *ChatbotRepository) GetChatbot(ctx context.Context, id uint) (*model.Chatbot, error) {
	var bot model.Chatbot
	if err := r.db.WithContext(ctx).First(&bot, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get chatbot failed: %w", err)
	}
	return &bot, nil
}

func (r *ChatbotRepository) GetLinkedNodes(ctx context.Context, chatbotID uint) ([]model.FlowNode, error) {
	var nodes []model.FlowNode
	if err := r.db.WithContext(ctx).
		Where("chatbot_id = ?", chatbotID).
		Order("order_index ASC").
		Find(&nodes).Error; err != nil {
		return nil, fmt.Errorf("list chatbot nodes failed: %w", err)
	}
	return nodes, nil
}
