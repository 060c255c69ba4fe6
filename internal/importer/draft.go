package importer

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"lingoplay/internal/models"
	"lingoplay/internal/validation"
)

// Draft is an import preview awaiting review
type Draft struct {
	ID         string
	Kind       Kind
	Filename   string
	LessonID   string
	Questions  []models.Question
	Vocabulary []models.Vocabulary
	CreatedAt  time.Time
}

func newDraft(kind Kind, filename string) *Draft {
	return &Draft{
		ID:        uuid.NewString(),
		Kind:      kind,
		Filename:  filename,
		CreatedAt: time.Now(),
	}
}

// RowError points at the first invalid row of a draft
type RowError struct {
	Row int
	Err error
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row+1, e.Err)
}

func (e RowError) Unwrap() error {
	return e.Err
}

// Len returns the number of rows
func (d *Draft) Len() int {
	if _, ok := d.Kind.GameType(); ok {
		return len(d.Questions)
	}
	return len(d.Vocabulary)
}

// RemoveRow drops row i
func (d *Draft) RemoveRow(i int) error {
	if i < 0 || i >= d.Len() {
		return ErrRowNotFound
	}
	if _, ok := d.Kind.GameType(); ok {
		d.Questions = append(d.Questions[:i], d.Questions[i+1:]...)
	} else {
		d.Vocabulary = append(d.Vocabulary[:i], d.Vocabulary[i+1:]...)
	}
	return nil
}

// UpdateQuestion replaces question row i
func (d *Draft) UpdateQuestion(i int, q models.Question) error {
	if _, ok := d.Kind.GameType(); !ok || i < 0 || i >= len(d.Questions) {
		return ErrRowNotFound
	}
	d.Questions[i] = q
	return nil
}

// UpdateVocabulary replaces vocabulary row i
func (d *Draft) UpdateVocabulary(i int, v models.Vocabulary) error {
	if d.Kind != KindVocabulary || i < 0 || i >= len(d.Vocabulary) {
		return ErrRowNotFound
	}
	d.Vocabulary[i] = v
	return nil
}

// Validate checks the draft can be saved. The lesson is checked first.
func (d *Draft) Validate() error {
	if d.LessonID == "" {
		return ErrNoLesson
	}
	if d.Len() == 0 {
		return ErrEmptyDraft
	}
	if t, ok := d.Kind.GameType(); ok {
		for i, q := range d.Questions {
			if err := validation.ValidateQuestion(t, q); err != nil {
				return RowError{Row: i, Err: err}
			}
		}
		return nil
	}
	for i, v := range d.Vocabulary {
		if err := validation.ValidateVocabulary(v); err != nil {
			return RowError{Row: i, Err: err}
		}
	}
	return nil
}

func (d *Draft) clone() *Draft {
	c := *d
	c.Questions = append([]models.Question(nil), d.Questions...)
	c.Vocabulary = append([]models.Vocabulary(nil), d.Vocabulary...)
	return &c
}
