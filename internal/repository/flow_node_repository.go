package repository

import (
	"fmt"

	"gorm.io/gorm"

	"bizpilot/internal/model"
)

type FlowNodeRepository struct {
	db *gorm.DB
}

func NewFlowNodeRepository(db *gorm.DB) *FlowNodeRepository {
	return &FlowNodeRepository{db: db}
}

func (r *FlowNodeRepository) ListByChatbotID(chatbotID uint) ([]model.FlowNode, error) {
	var nodes []model.FlowNode
	if err := r.db.Where("chatbot_id = ?", chatbotID).Order("order_index ASC").Find(&nodes).Error; err != nil {
		return nil, fmt.Errorf("list flow nodes failed: %w", err)
	}
	return nodes, nil
}

// ReplaceForChatbot swaps a chatbot's node list for the given one in a single
// transaction, so a half-applied reorder can never be observed.
func (r *FlowNodeRepository) ReplaceForChatbot(chatbotID uint, nodes []model.FlowNode) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("chatbot_id = ?", chatbotID).Delete(&model.FlowNode{}).Error; err != nil {
			return err
		}
		if len(nodes) == 0 {
			return nil
		}
		for i := range nodes {
			nodes[i].ID = 0
			nodes[i].ChatbotID = chatbotID
		}
		return tx.Create(&nodes).Error
	})
	if err != nil {
		return fmt.Errorf("replace flow nodes failed: %w", err)
	}
	return nil
}

func (r *FlowNodeRepository) DeleteByChatbotID(chatbotID uint) error {
	if err := r.db.Where("chatbot_id = ?", chatbotID).Delete(&model.FlowNode{}).Error; err != nil {
		return fmt.Errorf("delete flow nodes failed: %w", err)
	}
	return nil
}
