package queries

import (
	"context"

	"lingoplay/internal/api"
	"lingoplay/internal/models"
)

// Vocabularies returns a page of vocabulary for filter
func (q *Queries) Vocabularies(ctx context.Context, filter api.VocabularyFilter) (models.Page[models.Vocabulary], error) {
	return fetch(ctx, q, EntityVocabularies, filter.Values(), func(ctx context.Context) (models.Page[models.Vocabulary], error) {
		return q.api.ListVocabularies(ctx, filter)
	})
}

// CreateVocabularies saves a batch of words; lesson pages list them too
func (q *Queries) CreateVocabularies(ctx context.Context, items []models.Vocabulary) ([]models.Vocabulary, error) {
	return mutate(ctx, q, func(ctx context.Context) ([]models.Vocabulary, error) {
		return q.api.CreateVocabularies(ctx, items)
	}, EntityVocabularies, EntityLessons)
}

func (q *Queries) UpdateVocabulary(ctx context.Context, id string, item models.Vocabulary) (*models.Vocabulary, error) {
	return mutate(ctx, q, func(ctx context.Context) (*models.Vocabulary, error) {
		return q.api.UpdateVocabulary(ctx, id, item)
	}, EntityVocabularies, EntityLessons)
}

func (q *Queries) DeleteVocabulary(ctx context.Context, id string) error {
	_, err := mutate(ctx, q, done(func(ctx context.Context) error {
		return q.api.DeleteVocabulary(ctx, id)
	}), EntityVocabularies, EntityLessons)
	return err
}
