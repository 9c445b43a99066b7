package app

import (
	"errors"
	"strings"

	"bizpilot/internal/model"
	"bizpilot/internal/repository"
)

var (
	ErrClientNotFound = errors.New("client not found")
	ErrNoTeam         = errors.New("user has no team")
)

type ClientService struct {
	clientRepo *repository.ClientRepository
}

func NewClientService(clientRepo *repository.ClientRepository) *ClientService {
	return &ClientService{clientRepo: clientRepo}
}

type SaveClientInput struct {
	Name  string
	Email string
	Phone string
	Notes string
}

func (s *ClientService) Create(teamID uint, input SaveClientInput) (*model.Client, error) {
	if teamID == 0 {
		return nil, ErrNoTeam
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrInvalidInput
	}

	client := &model.Client{
		TeamID: teamID,
		Name:   name,
		Email:  strings.TrimSpace(input.Email),
		Phone:  strings.TrimSpace(input.Phone),
		Notes:  input.Notes,
	}
	if err := s.clientRepo.Create(client); err != nil {
		return nil, err
	}
	return client, nil
}

func (s *ClientService) Update(teamID, clientID uint, input SaveClientInput) (*model.Client, error) {
	if teamID == 0 {
		return nil, ErrNoTeam
	}
	client, err := s.clientRepo.GetByIDAndTeamID(clientID, teamID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, ErrClientNotFound
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		client.Name = name
	}
	client.Email = strings.TrimSpace(input.Email)
	client.Phone = strings.TrimSpace(input.Phone)
	client.Notes = input.Notes

	if err := s.clientRepo.Update(client); err != nil {
		return nil, err
	}
	return client, nil
}

func (s *ClientService) List(teamID uint) ([]model.Client, error) {
	if teamID == 0 {
		return nil, ErrNoTeam
	}
	return s.clientRepo.ListByTeamID(teamID)
}

func (s *ClientService) Delete(teamID, clientID uint) error {
	if teamID == 0 {
		return ErrNoTeam
	}
	client, err := s.clientRepo.GetByIDAndTeamID(clientID, teamID)
	if err != nil {
		return err
	}
	if client == nil {
		return ErrClientNotFound
	}
	return s.clientRepo.DeleteByIDAndTeamID(clientID, teamID)
}
