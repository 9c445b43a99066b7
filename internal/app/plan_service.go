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

var ErrPlanNotFound = errors.New("business plan not found")

const planSystemPrompt = "You are a business strategy consultant. Draft a structured business plan with these sections: Executive Summary, Market Analysis, Services and Pricing, Operations, Marketing, and Financial Outlook. Base every section on the details provided; do not invent figures. Use plain markdown."

// PlanService generates and stores AI-drafted business plans.
type PlanService struct {
	planRepo  *repository.BusinessPlanRepository
	llmClient *ai.Client
	llmConfig ai.ChatConfig
}

func NewPlanService(planRepo *repository.BusinessPlanRepository, llmClient *ai.Client, llmConfig ai.ChatConfig) *PlanService {
	return &PlanService{
		planRepo:  planRepo,
		llmClient: llmClient,
		llmConfig: llmConfig,
	}
}

type GeneratePlanInput struct {
	Title               string
	BusinessDescription string
	Goals               string
}

func (s *PlanService) Generate(ctx context.Context, userID, teamID uint, input GeneratePlanInput) (*model.BusinessPlan, error) {
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.BusinessDescription)
	if userID == 0 || title == "" || description == "" {
		return nil, ErrInvalidInput
	}
	if s.llmConfig.BaseURL == "" || s.llmConfig.APIKey == "" || s.llmConfig.Model == "" {
		return nil, ErrLLMConfig
	}

	userContent := fmt.Sprintf("Business: %s\n\nDescription: %s", title, description)
	if goals := strings.TrimSpace(input.Goals); goals != "" {
		userContent += "\n\nGoals: " + goals
	}

	messages := []ai.ChatMessage{
		{Role: model.RoleSystem, Content: planSystemPrompt},
		{Role: model.RoleUser, Content: userContent},
	}
	content, err := s.llmClient.Complete(ctx, s.llmConfig, messages)
	if err != nil {
		return nil, fmt.Errorf("generate business plan failed: %w", err)
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("generate business plan failed: empty completion")
	}

	plan := &model.BusinessPlan{
		UserID:  userID,
		TeamID:  teamID,
		Title:   title,
		Content: content,
	}
	if err := s.planRepo.Create(plan); err != nil {
		return nil, err
	}
	return plan, nil
}

func (s *PlanService) List(userID uint) ([]model.BusinessPlan, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}
	return s.planRepo.ListByUserID(userID)
}

func (s *PlanService) Get(userID, planID uint) (*model.BusinessPlan, error) {
	if userID == 0 || planID == 0 {
		return nil, ErrInvalidInput
	}
	plan, err := s.planRepo.GetByIDAndUserID(planID, userID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, ErrPlanNotFound
	}
	return plan, nil
}

func (s *PlanService) Delete(userID, planID uint) error {
	if userID == 0 || planID == 0 {
		return ErrInvalidInput
	}
	plan, err := s.planRepo.GetByIDAndUserID(planID, userID)
	if err != nil {
		return err
	}
	if plan == nil {
		return ErrPlanNotFound
	}
	return s.planRepo.DeleteByIDAndUserID(planID, userID)
}
