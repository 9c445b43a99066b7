package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"bizpilot/internal/model"
)

type BusinessPlanRepository struct {
	db *gorm.DB
}

func NewBusinessPlanRepository(db *gorm.DB) *BusinessPlanRepository {
	return &BusinessPlanRepository{db: db}
}

func (r *BusinessPlanRepository) Create(plan *model.BusinessPlan) error {
	if err := r.db.Create(plan).Error; err != nil {
		return fmt.Errorf("create business plan failed: %w", err)
	}
	return nil
}

func (r *BusinessPlanRepository) ListByUserID(userID uint) ([]model.BusinessPlan, error) {
	var plans []model.BusinessPlan
	if err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&plans).Error; err != nil {
		return nil, fmt.Errorf("list business plans failed: %w", err)
	}
	return plans, nil
}

func (r *BusinessPlanRepository) GetByIDAndUserID(id, userID uint) (*model.BusinessPlan, error) {
	var plan model.BusinessPlan
	if err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&plan).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get business plan failed: %w", err)
	}
	return &plan, nil
}

func (r *BusinessPlanRepository) DeleteByIDAndUserID(id, userID uint) error {
	if err := r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&model.BusinessPlan{}).Error; err != nil {
		return fmt.Errorf("delete business plan failed: %w", err)
	}
	return nil
}
