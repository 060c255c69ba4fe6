package queries

import (
	"context"
	"net/url"

	"lingoplay/internal/models"
)

// Topics returns every topic
func (q *Queries) Topics(ctx context.Context) ([]models.Topic, error) {
	return fetch(ctx, q, EntityTopics, url.Values{}, func(ctx context.Context) ([]models.Topic, error) {
		return q.api.ListTopics(ctx)
	})
}

func (q *Queries) CreateTopic(ctx context.Context, topic models.Topic) (*models.Topic, error) {
	return mutate(ctx, q, func(ctx context.Context) (*models.Topic, error) {
		return q.api.CreateTopic(ctx, topic)
	}, EntityTopics)
}

func (q *Queries) UpdateTopic(ctx context.Context, id string, topic models.Topic) (*models.Topic, error) {
	return mutate(ctx, q, func(ctx context.Context) (*models.Topic, error) {
		return q.api.UpdateTopic(ctx, id, topic)
	}, EntityTopics)
}

func (q *Queries) DeleteTopic(ctx context.Context, id string) error {
	_, err := mutate(ctx, q, done(func(ctx context.Context) error {
		return q.api.DeleteTopic(ctx, id)
	}), EntityTopics)
	return err
}
