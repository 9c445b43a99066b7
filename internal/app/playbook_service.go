package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"bizpilot/internal/ai"
	"bizpilot/internal/model"
	"bizpilot/internal/repository"
)

var ErrPlaybookNotFound = errors.New("playbook not found")

const playbookSystemPrompt = "You are an operations consultant. Write a clear, numbered standard operating procedure (SOP) for the requested process. Include a purpose section, required roles, step-by-step instructions, and common failure points. Use plain markdown."

// PlaybookService manages SOP documents, hand-written or generated by the
// LLM from a short process description.
type PlaybookService struct {
	playbookRepo *repository.PlaybookRepository
	llmClient    *ai.Client
	llmConfig    ai.ChatConfig
}

func NewPlaybookService(playbookRepo *repository.PlaybookRepository, llmClient *ai.Client, llmConfig ai.ChatConfig) *PlaybookService {
	return &PlaybookService{
		playbookRepo: playbookRepo,
		llmClient:    llmClient,
		llmConfig:    llmConfig,
	}
}

type SavePlaybookInput struct {
	Title   string
	Content string
}

func (s *PlaybookService) Create(userID, teamID uint, input SavePlaybookInput) (*model.Playbook, error) {
	title := strings.TrimSpace(input.Title)
	content := strings.TrimSpace(input.Content)
	if userID == 0 || title == "" || content == "" {
		return nil, ErrInvalidInput
	}

	playbook := &model.Playbook{
		UserID:  userID,
		TeamID:  teamID,
		Title:   title,
		Content: content,
	}
	if err := s.playbookRepo.Create(playbook); err != nil {
		return nil, err
	}
	return playbook, nil
}

type GeneratePlaybookInput struct {
	Title       string
	Description string // the process to document
}

// Generate asks the LLM for an SOP draft and stores it as a playbook marked
// generated, so admins can tell drafts from reviewed documents.
func (s *PlaybookService) Generate(ctx context.Context, userID, teamID uint, input GeneratePlaybookInput) (*model.Playbook, error) {
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	if userID == 0 || title == "" || description == "" {
		return nil, ErrInvalidInput
	}
	if s.llmConfig.BaseURL == "" || s.llmConfig.APIKey == "" || s.llmConfig.Model == "" {
		return nil, ErrLLMConfig
	}

	messages := []ai.ChatMessage{
		{Role: model.RoleSystem, Content: playbookSystemPrompt},
		{Role: model.RoleUser, Content: fmt.Sprintf("Process name: %s\n\nProcess description: %s", title, description)},
	}
	content, err := s.llmClient.Complete(ctx, s.llmConfig, messages)
	if err != nil {
		return nil, fmt.Errorf("generate playbook failed: %w", err)
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("generate playbook failed: empty completion")
	}

	playbook := &model.Playbook{
		UserID:    userID,
		TeamID:    teamID,
		Title:     title,
		Content:   content,
		Generated: true,
	}
	if err := s.playbookRepo.Create(playbook); err != nil {
		return nil, err
	}
	return playbook, nil
}

func (s *PlaybookService) Update(userID, playbookID uint, input SavePlaybookInput) (*model.Playbook, error) {
	if userID == 0 || playbookID == 0 {
		return nil, ErrInvalidInput
	}
	playbook, err := s.playbookRepo.GetByIDAndUserID(playbookID, userID)
	if err != nil {
		return nil, err
	}
	if playbook == nil {
		return nil, ErrPlaybookNotFound
	}

	if title := strings.TrimSpace(input.Title); title != "" {
		playbook.Title = title
	}
	if content := strings.TrimSpace(input.Content); content != "" {
		playbook.Content = content
		// An edited draft is no longer a raw generation.
		playbook.Generated = false
	}

	if err := s.playbookRepo.Update(playbook); err != nil {
		return nil, err
	}
	return playbook, nil
}

func (s *PlaybookService) List(userID uint) ([]model.Playbook, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}
	return s.playbookRepo.ListByUserID(userID)
}

func (s *PlaybookService) Delete(userID, playbookID uint) error {
	if userID == 0 || playbookID == 0 {
		return ErrInvalidInput
	}
	playbook, err := s.playbookRepo.GetByIDAndUserID(playbookID, userID)
	if err != nil {
		return err
	}
	if playbook == nil {
		return ErrPlaybookNotFound
	}
	return s.playbookRepo.DeleteByIDAndUserID(playbookID, userID)
}
