package app

import (
	"errors"
	"strings"

	"bizpilot/internal/model"
	"bizpilot/internal/repository"
)

var ErrNoteNotFound = errors.New("note not found")

type NoteService struct {
	noteRepo *repository.NoteRepository
}

func NewNoteService(noteRepo *repository.NoteRepository) *NoteService {
	return &NoteService{noteRepo: noteRepo}
}

type SaveNoteInput struct {
	Title string
	Body  string
}

func (s *NoteService) Create(userID uint, input SaveNoteInput) (*model.Note, error) {
	title := strings.TrimSpace(input.Title)
	if userID == 0 || title == "" {
		return nil, ErrInvalidInput
	}

	note := &model.Note{
		UserID: userID,
		Title:  title,
		Body:   input.Body,
	}
	if err := s.noteRepo.Create(note); err != nil {
		return nil, err
	}
	return note, nil
}

func (s *NoteService) Update(userID, noteID uint, input SaveNoteInput) (*model.Note, error) {
	if userID == 0 || noteID == 0 {
		return nil, ErrInvalidInput
	}
	note, err := s.noteRepo.GetByIDAndUserID(noteID, userID)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, ErrNoteNotFound
	}

	if title := strings.TrimSpace(input.Title); title != "" {
		note.Title = title
	}
	note.Body = input.Body

	if err := s.noteRepo.Update(note); err != nil {
		return nil, err
	}
	return note, nil
}

func (s *NoteService) List(userID uint) ([]model.Note, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}
	return s.noteRepo.ListByUserID(userID)
}

func (s *NoteService) Delete(userID, noteID uint) error {
	if userID == 0 || noteID == 0 {
		return ErrInvalidInput
	}
	note, err := s.noteRepo.GetByIDAndUserID(noteID, userID)
	if err != nil {
		return err
	}
	if note == nil {
		return ErrNoteNotFound
	}
	return s.noteRepo.DeleteByIDAndUserID(noteID, userID)
}
