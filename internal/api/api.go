// Package api has one function per REST backend call. It carries no
// business logic: requests are built, sent through apiclient and decoded.
package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"lingoplay/internal/apiclient"
	"lingoplay/internal/models"
)

// API is the typed surface of the REST backend
type API struct {
	client *apiclient.Client
}

// New creates the data-access layer over client
func New(client *apiclient.Client) *API {
	return &API{client: client}
}

func (a *API) get(ctx context.Context, path string, query url.Values, out interface{}) (*apiclient.Response, error) {
	return a.client.Do(ctx, apiclient.Request{Method: http.MethodGet, Path: path, Query: query}, out)
}

func (a *API) post(ctx context.Context, path string, body, out interface{}) (*apiclient.Response, error) {
	return a.client.Do(ctx, apiclient.Request{Method: http.MethodPost, Path: path, Body: body}, out)
}

func (a *API) put(ctx context.Context, path string, body, out interface{}) (*apiclient.Response, error) {
	return a.client.Do(ctx, apiclient.Request{Method: http.MethodPut, Path: path, Body: body}, out)
}

func (a *API) delete(ctx context.Context, path string) error {
	_, err := a.client.Do(ctx, apiclient.Request{Method: http.MethodDelete, Path: path}, nil)
	return err
}

// listPage fetches one page of a list endpoint
func listPage[T any](ctx context.Context, a *API, path string, query url.Values) (models.Page[T], error) {
	var page models.Page[T]
	resp, err := a.get(ctx, path, query, &page.Items)
	if err != nil {
		return page, err
	}
	if resp.Pagination != nil {
		page.Pagination = *resp.Pagination
	} else {
		page.Pagination = models.Pagination{Page: 1, Limit: len(page.Items), Total: len(page.Items), TotalPages: 1}
	}
	return page, nil
}

func setInt(v url.Values, key string, n int) {
	if n > 0 {
		v.Set(key, strconv.Itoa(n))
	}
}

func setString(v url.Values, key, s string) {
	if s != "" {
		v.Set(key, s)
	}
}

func escape(id string) string {
	return url.PathEscape(id)
}
