package queries

import (
	"context"
	"net/url"

	"lingoplay/internal/api"
	"lingoplay/internal/models"
)

// Lessons returns a page of lessons for filter
func (q *Queries) Lessons(ctx context.Context, filter api.LessonFilter) (models.Page[models.Lesson], error) {
	return fetch(ctx, q, EntityLessons, filter.Values(), func(ctx context.Context) (models.Page[models.Lesson], error) {
		return q.api.ListLessons(ctx, filter)
	})
}

// Lesson returns one lesson
func (q *Queries) Lesson(ctx context.Context, id string) (*models.Lesson, error) {
	return fetch(ctx, q, EntityLessons, url.Values{"id": {id}}, func(ctx context.Context) (*models.Lesson, error) {
		return q.api.GetLesson(ctx, id)
	})
}

// Games returns the games of a lesson
func (q *Queries) Games(ctx context.Context, lessonID string) ([]models.Game, error) {
	return fetch(ctx, q, EntityGames, url.Values{"lessonId": {lessonID}}, func(ctx context.Context) ([]models.Game, error) {
		return q.api.ListGames(ctx, lessonID)
	})
}

func (q *Queries) CreateLesson(ctx context.Context, input models.LessonInput) (*models.Lesson, error) {
	return mutate(ctx, q, func(ctx context.Context) (*models.Lesson, error) {
		return q.api.CreateLesson(ctx, input)
	}, EntityLessons)
}

func (q *Queries) UpdateLesson(ctx context.Context, id string, input models.LessonInput) (*models.Lesson, error) {
	return mutate(ctx, q, func(ctx context.Context) (*models.Lesson, error) {
		return q.api.UpdateLesson(ctx, id, input)
	}, EntityLessons)
}

func (q *Queries) DeleteLesson(ctx context.Context, id string) error {
	_, err := mutate(ctx, q, done(func(ctx context.Context) error {
		return q.api.DeleteLesson(ctx, id)
	}), EntityLessons, EntityGames, EntityQuestions, EntityVocabularies)
	return err
}
