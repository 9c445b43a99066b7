package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"bizpilot/internal/model"
)

type NoteRepository struct {
	db *gorm.DB
}

func NewNoteRepository(db *gorm.DB) *NoteRepository {
	return &NoteRepository{db: db}
}

func (r *NoteRepository) Create(note *model.Note) error {
	if err := r.db.Create(note).Error; err != nil {
		return fmt.Errorf("create note failed: %w", err)
	}
	return nil
}

func (r *NoteRepository) Update(note *model.Note) error {
	if err := r.db.Save(note).Error; err != nil {
		return fmt.Errorf("update note failed: %w", err)
	}
	return nil
}

func (r *NoteRepository) ListByUserID(userID uint) ([]model.Note, error) {
	var notes []model.Note
	if err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&notes).Error; err != nil {
		return nil, fmt.Errorf("list notes failed: %w", err)
	}
	return notes, nil
}

func (r *NoteRepository) GetByIDAndUserID(id, userID uint) (*model.Note, error) {
	var note model.Note
	if err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&note).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get note failed: %w", err)
	}
	return &note, nil
}

func (r *NoteRepository) DeleteByIDAndUserID(id, userID uint) error {
	if err := r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&model.Note{}).Error; err != nil {
		return fmt.Errorf("delete note failed: %w", err)
	}
	return nil
}
