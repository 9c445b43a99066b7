package app

import (
	"errors"
	"strings"
	"time"

	"bizpilot/internal/model"
	"bizpilot/internal/repository"
)

var ErrTaskNotFound = errors.New("task not found")

type TaskService struct {
	taskRepo *repository.TaskRepository
}

func NewTaskService(taskRepo *repository.TaskRepository) *TaskService {
	return &TaskService{taskRepo: taskRepo}
}

type SaveTaskInput struct {
	Title  string
	Status string
	DueAt  *time.Time
}

func (s *TaskService) Create(userID, teamID uint, input SaveTaskInput) (*model.Task, error) {
	title := strings.TrimSpace(input.Title)
	if userID == 0 || title == "" {
		return nil, ErrInvalidInput
	}

	task := &model.Task{
		UserID: userID,
		TeamID: teamID,
		Title:  title,
		Status: normalizeTaskStatus(input.Status),
		DueAt:  input.DueAt,
	}
	if err := s.taskRepo.Create(task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskService) Update(userID, taskID uint, input SaveTaskInput) (*model.Task, error) {
	if userID == 0 || taskID == 0 {
		return nil, ErrInvalidInput
	}
	task, err := s.taskRepo.GetByIDAndUserID(taskID, userID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, ErrTaskNotFound
	}

	if title := strings.TrimSpace(input.Title); title != "" {
		task.Title = title
	}
	if input.Status != "" {
		task.Status = normalizeTaskStatus(input.Status)
	}
	if input.DueAt != nil {
		task.DueAt = input.DueAt
	}
	if err := s.taskRepo.Update(task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskService) List(userID uint) ([]model.Task, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}
	return s.taskRepo.ListByUserID(userID)
}

func (s *TaskService) ListForTeam(teamID uint) ([]model.Task, error) {
	if teamID == 0 {
		return nil, ErrInvalidInput
	}
	return s.taskRepo.ListByTeamID(teamID)
}

func (s *TaskService) Delete(userID, taskID uint) error {
	if userID == 0 || taskID == 0 {
		return ErrInvalidInput
	}
	task, err := s.taskRepo.GetByIDAndUserID(taskID, userID)
	if err != nil {
		return err
	}
	if task == nil {
		return ErrTaskNotFound
	}
	return s.taskRepo.DeleteByIDAndUserID(taskID, userID)
}

func normalizeTaskStatus(status string) string {
	switch strings.TrimSpace(status) {
	case "in_progress":
		return "in_progress"
	case "done":
		return "done"
	default:
		return "open"
	}
}
