package api

import (
	"context"

	"lingoplay/internal/models"
)

// ListLessons returns one page of lessons
func (a *API) ListLessons(ctx context.Context, filter LessonFilter) (models.Page[models.Lesson], error) {
	return listPage[models.Lesson](ctx, a, "/lessons", filter.Values())
}

// GetLesson returns a lesson with its vocabulary
func (a *API) GetLesson(ctx context.Context, id string) (*models.Lesson, error) {
	var lesson models.Lesson
	if _, err := a.get(ctx, "/lessons/"+escape(id), nil, &lesson); err != nil {
		return nil, err
	}
	return &lesson, nil
}

// CreateLesson creates a lesson
func (a *API) CreateLesson(ctx context.Context, input models.LessonInput) (*models.Lesson, error) {
	var lesson models.Lesson
	if _, err := a.post(ctx, "/lessons", input, &lesson); err != nil {
		return nil, err
	}
	return &lesson, nil
}

// UpdateLesson edits a lesson
func (a *API) UpdateLesson(ctx context.Context, id string, input models.LessonInput) (*models.Lesson, error) {
	var lesson models.Lesson
	if _, err := a.put(ctx, "/lessons/"+escape(id), input, &lesson); err != nil {
		return nil, err
	}
	return &lesson, nil
}

// DeleteLesson removes a lesson
func (a *API) DeleteLesson(ctx context.Context, id string) error {
	return a.delete(ctx, "/lessons/"+escape(id))
}
