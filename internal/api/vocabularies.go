package api

import (
	"context"
	"io"
	"net/http"

	"lingoplay/internal/apiclient"
	"lingoplay/internal/models"
)

// ListVocabularies returns one page of vocabulary
func (a *API) ListVocabularies(ctx context.Context, filter VocabularyFilter) (models.Page[models.Vocabulary], error) {
	return listPage[models.Vocabulary](ctx, a, "/vocabularies", filter.Values())
}

// CreateVocabularies creates several words at once
func (a *API) CreateVocabularies(ctx context.Context, items []models.Vocabulary) ([]models.Vocabulary, error) {
	var created []models.Vocabulary
	if _, err := a.post(ctx, "/vocabularies", map[string]interface{}{"vocabularies": items}, &created); err != nil {
		return nil, err
	}
	return created, nil
}

// UpdateVocabulary edits one word
func (a *API) UpdateVocabulary(ctx context.Context, id string, item models.Vocabulary) (*models.Vocabulary, error) {
	var updated models.Vocabulary
	if _, err := a.put(ctx, "/vocabularies/"+escape(id), item, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteVocabulary removes one word
func (a *API) DeleteVocabulary(ctx context.Context, id string) error {
	return a.delete(ctx, "/vocabularies/"+escape(id))
}

// ImportVocabularies uploads a spreadsheet and returns the rows the server parsed.
// Nothing is saved until CreateVocabularies is called.
func (a *API) ImportVocabularies(ctx context.Context, filename string, content io.Reader) ([]models.Vocabulary, error) {
	var rows []models.Vocabulary
	_, err := a.client.Do(ctx, apiclient.Request{
		Method: http.MethodPost,
		Path:   "/vocabularies/import",
		File:   &apiclient.File{Field: "file", Name: filename, Content: content},
	}, &rows)
	return rows, err
}
