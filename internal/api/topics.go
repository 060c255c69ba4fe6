package api

import (
	"context"

	"lingoplay/internal/models"
)

// ListTopics returns every topic
func (a *API) ListTopics(ctx context.Context) ([]models.Topic, error) {
	var topics []models.Topic
	if _, err := a.get(ctx, "/topics", nil, &topics); err != nil {
		return nil, err
	}
	return topics, nil
}

// CreateTopic creates a topic
func (a *API) CreateTopic(ctx context.Context, topic models.Topic) (*models.Topic, error) {
	var created models.Topic
	if _, err := a.post(ctx, "/topics", topic, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateTopic edits a topic
func (a *API) UpdateTopic(ctx context.Context, id string, topic models.Topic) (*models.Topic, error) {
	var updated models.Topic
	if _, err := a.put(ctx, "/topics/"+escape(id), topic, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteTopic removes a topic
func (a *API) DeleteTopic(ctx context.Context, id string) error {
	return a.delete(ctx, "/topics/"+escape(id))
}
