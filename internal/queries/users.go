package queries

import (
	"context"

	"lingoplay/internal/api"
	"lingoplay/internal/models"
)

// Users returns a page of users for filter
func (q *Queries) Users(ctx context.Context, filter api.UserFilter) (models.Page[models.User], error) {
	return fetch(ctx, q, EntityUsers, filter.Values(), func(ctx context.Context) (models.Page[models.User], error) {
		return q.api.ListUsers(ctx, filter)
	})
}

func (q *Queries) CreateUser(ctx context.Context, input models.UserInput) (*models.User, error) {
	return mutate(ctx, q, func(ctx context.Context) (*models.User, error) {
		return q.api.CreateUser(ctx, input)
	}, EntityUsers)
}

func (q *Queries) UpdateUser(ctx context.Context, id string, input models.UserInput) (*models.User, error) {
	return mutate(ctx, q, func(ctx context.Context) (*models.User, error) {
		return q.api.UpdateUser(ctx, id, input)
	}, EntityUsers)
}

func (q *Queries) DeleteUser(ctx context.Context, id string) error {
	_, err := mutate(ctx, q, done(func(ctx context.Context) error {
		return q.api.DeleteUser(ctx, id)
	}), EntityUsers)
	return err
}

// UpdateProfile saves the signed-in user's profile
func (q *Queries) UpdateProfile(ctx context.Context, update models.ProfileUpdate) (*models.User, error) {
	return mutate(ctx, q, func(ctx context.Context) (*models.User, error) {
		return q.api.UpdateProfile(ctx, update)
	}, EntityUsers)
}
