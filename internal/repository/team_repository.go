package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"bizpilot/internal/model"
)

type TeamRepository struct {
	db *gorm.DB
}

func NewTeamRepository(db *gorm.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) Create(team *model.Team) error {
	if err := r.db.Create(team).Error; err != nil {
		return fmt.Errorf("create team failed: %w", err)
	}
	return nil
}

func (r *TeamRepository) GetByID(id uint) (*model.Team, error) {
	var team model.Team
	if err := r.db.First(&team, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get team failed: %w", err)
	}
	return &team, nil
}
