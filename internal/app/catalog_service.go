package app

import (
	"errors"
	"strings"

	"bizpilot/internal/model"
	"bizpilot/internal/repository"
)

var ErrServiceNotFound = errors.New("service not found")

// CatalogService manages the platform-wide service catalogue. Writes are
// admin-only; chatbots read it under the platform-wide data scope.
type CatalogService struct {
	serviceRepo *repository.ServiceRepository
}

func NewCatalogService(serviceRepo *repository.ServiceRepository) *CatalogService {
	return &CatalogService{serviceRepo: serviceRepo}
}

type SaveServiceInput struct {
	Name        string
	Category    string
	Description string
	PriceCents  int64
}

func (s *CatalogService) Create(input SaveServiceInput) (*model.Service, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" || input.PriceCents < 0 {
		return nil, ErrInvalidInput
	}

	service := &model.Service{
		Name:        name,
		Category:    strings.TrimSpace(input.Category),
		Description: input.Description,
		PriceCents:  input.PriceCents,
	}
	if err := s.serviceRepo.Create(service); err != nil {
		return nil, err
	}
	return service, nil
}

func (s *CatalogService) Update(serviceID uint, input SaveServiceInput) (*model.Service, error) {
	if serviceID == 0 || input.PriceCents < 0 {
		return nil, ErrInvalidInput
	}
	service, err := s.serviceRepo.GetByID(serviceID)
	if err != nil {
		return nil, err
	}
	if service == nil {
		return nil, ErrServiceNotFound
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		service.Name = name
	}
	service.Category = strings.TrimSpace(input.Category)
	service.Description = input.Description
	service.PriceCents = input.PriceCents

	if err := s.serviceRepo.Update(service); err != nil {
		return nil, err
	}
	return service, nil
}

func (s *CatalogService) List() ([]model.Service, error) {
	return s.serviceRepo.List()
}

func (s *CatalogService) Delete(serviceID uint) error {
	if serviceID == 0 {
		return ErrInvalidInput
	}
	service, err := s.serviceRepo.GetByID(serviceID)
	if err != nil {
		return err
	}
	if service == nil {
		return ErrServiceNotFound
	}
	return s.serviceRepo.Delete(serviceID)
}
