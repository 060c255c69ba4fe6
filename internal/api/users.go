package api

import (
	"context"

	"lingoplay/internal/models"
)

// Me returns the signed-in user
func (a *API) Me(ctx context.Context) (*models.User, error) {
	var user models.User
	if _, err := a.get(ctx, "/users/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile saves the profile form
func (a *API) UpdateProfile(ctx context.Context, update models.ProfileUpdate) (*models.User, error) {
	var user models.User
	if _, err := a.put(ctx, "/users/me", update, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ChangePassword changes the signed-in user's password
func (a *API) ChangePassword(ctx context.Context, change models.PasswordChange) error {
	_, err := a.put(ctx, "/users/me/password", change, nil)
	return err
}

// CheckIn records today's check-in and returns the streak
func (a *API) CheckIn(ctx context.Context) (*models.CheckInResult, error) {
	var result models.CheckInResult
	if _, err := a.post(ctx, "/users/check-in", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListUsers returns one page of users
func (a *API) ListUsers(ctx context.Context, filter UserFilter) (models.Page[models.User], error) {
	return listPage[models.User](ctx, a, "/users", filter.Values())
}

// CreateUser creates an account from the admin console
func (a *API) CreateUser(ctx context.Context, input models.UserInput) (*models.User, error) {
	var user models.User
	if _, err := a.post(ctx, "/users", input, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser edits an account
func (a *API) UpdateUser(ctx context.Context, id string, input models.UserInput) (*models.User, error) {
	var user models.User
	if _, err := a.put(ctx, "/users/"+escape(id), input, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteUser removes an account
func (a *API) DeleteUser(ctx context.Context, id string) error {
	return a.delete(ctx, "/users/"+escape(id))
}
