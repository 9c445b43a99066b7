package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"bizpilot/internal/model"
)

type ClientRepository struct {
	db *gorm.DB
}

func NewClientRepository(db *gorm.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

func (r *ClientRepository) Create(client *model.Client) error {
	if err := r.db.Create(client).Error; err != nil {
		return fmt.Errorf("create client failed: %w", err)
	}
	return nil
}

func (r *ClientRepository) Update(client *model.Client) error {
	if err := r.db.Save(client).Error; err != nil {
		return fmt.Errorf("update client failed: %w", err)
	}
	return nil
}

func (r *ClientRepository) ListByTeamID(teamID uint) ([]model.Client, error) {
	var clients []model.Client
	if err := r.db.Where("team_id = ?", teamID).Order("created_at DESC").Find(&clients).Error; err != nil {
		return nil, fmt.Errorf("list clients failed: %w", err)
	}
	return clients, nil
}

func (r *ClientRepository) GetByIDAndTeamID(id, teamID uint) (*model.Client, error) {
	var client model.Client
	if err := r.db.Where("id = ? AND team_id = ?", id, teamID).First(&client).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get client failed: %w", err)
	}
	return &client, nil
}

func (r *ClientRepository) DeleteByIDAndTeamID(id, teamID uint) error {
	if err := r.db.Where("id = ? AND team_id = ?", id, teamID).Delete(&model.Client{}).Error; err != nil {
		return fmt.Errorf("delete client failed: %w", err)
	}
	return nil
}
