package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"bizpilot/internal/model"
)

type ServiceRepository struct {
	db *gorm.DB
}

func NewServiceRepository(db *gorm.DB) *ServiceRepository {
	return &ServiceRepository{db: db}
}

func (r *ServiceRepository) Create(service *model.Service) error {
	if err := r.db.Create(service).Error; err != nil {
		return fmt.Errorf("create service failed: %w", err)
	}
	return nil
}

func (r *ServiceRepository) Update(service *model.Service) error {
	if err := r.db.Save(service).Error; err != nil {
		return fmt.Errorf("update service failed: %w", err)
	}
	return nil
}

func (r *ServiceRepository) List() ([]model.Service, error) {
	var services []model.Service
	if err := r.db.Order("category ASC, name ASC").Find(&services).Error; err != nil {
		return nil, fmt.Errorf("list services failed: %w", err)
	}
	return services, nil
}

func (r *ServiceRepository) GetByID(id uint) (*model.Service, error) {
	var service model.Service
	if err := r.db.First(&service, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get service failed: %w", err)
	}
	return &service, nil
}

func (r *ServiceRepository) Delete(id uint) error {
	if err := r.db.Delete(&model.Service{}, id).Error; err != nil {
		return fmt.Errorf("delete service failed: %w", err)
	}
	return nil
}
