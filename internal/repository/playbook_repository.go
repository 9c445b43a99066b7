package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"bizpilot/internal/model"
)

type PlaybookRepository struct {
	db *gorm.DB
}

func NewPlaybookRepository(db *gorm.DB) *PlaybookRepository {
	return &PlaybookRepository{db: db}
}

func (r *PlaybookRepository) Create(playbook *model.Playbook) error {
	if err := r.db.Create(playbook).Error; err != nil {
		return fmt.Errorf("create playbook failed: %w", err)
	}
	return nil
}

func (r *PlaybookRepository) Update(playbook *model.Playbook) error {
	if err := r.db.Save(playbook).Error; err != nil {
		return fmt.Errorf("update playbook failed: %w", err)
	}
	return nil
}

func (r *PlaybookRepository) ListByUserID(userID uint) ([]model.Playbook, error) {
	var playbooks []model.Playbook
	if err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&playbooks).Error; err != nil {
		return nil, fmt.Errorf("list playbooks failed: %w", err)
	}
	return playbooks, nil
}

func (r *PlaybookRepository) GetByIDAndUserID(id, userID uint) (*model.Playbook, error) {
	var playbook model.Playbook
	if err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&playbook).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get playbook failed: %w", err)
	}
	return &playbook, nil
}

func (r *PlaybookRepository) DeleteByIDAndUserID(id, userID uint) error {
	if err := r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&model.Playbook{}).Error; err != nil {
		return fmt.Errorf("delete playbook failed: %w", err)
	}
	return nil
}
