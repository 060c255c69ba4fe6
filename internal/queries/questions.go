package queries

import (
	"context"

	"lingoplay/internal/api"
	"lingoplay/internal/models"
)

// Questions returns a page of questions for filter
func (q *Queries) Questions(ctx context.Context, filter api.QuestionFilter) (models.Page[models.Question], error) {
	return fetch(ctx, q, EntityQuestions, filter.Values(), func(ctx context.Context) (models.Page[models.Question], error) {
		return q.api.ListQuestions(ctx, filter)
	})
}

// CreateQuestions saves a batch; the lesson's game list and counts change with it
func (q *Queries) CreateQuestions(ctx context.Context, input models.QuestionInput) ([]models.Question, error) {
	return mutate(ctx, q, func(ctx context.Context) ([]models.Question, error) {
		return q.api.CreateQuestions(ctx, input)
	}, EntityQuestions, EntityLessons, EntityGames)
}

func (q *Queries) UpdateQuestion(ctx context.Context, id string, question models.Question) (*models.Question, error) {
	return mutate(ctx, q, func(ctx context.Context) (*models.Question, error) {
		return q.api.UpdateQuestion(ctx, id, question)
	}, EntityQuestions)
}

func (q *Queries) DeleteQuestion(ctx context.Context, id string) error {
	_, err := mutate(ctx, q, done(func(ctx context.Context) error {
		return q.api.DeleteQuestion(ctx, id)
	}), EntityQuestions, EntityLessons, EntityGames)
	return err
}
