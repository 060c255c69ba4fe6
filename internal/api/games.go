package api

import (
	"context"
	"io"
	"net/http"
	"net/url"

	"lingoplay/internal/apiclient"
	"lingoplay/internal/models"
)

// ListGames returns the games attached to a lesson
func (a *API) ListGames(ctx context.Context, lessonID string) ([]models.Game, error) {
	var games []models.Game
	if _, err := a.get(ctx, "/games", url.Values{"lessonId": {lessonID}}, &games); err != nil {
		return nil, err
	}
	return games, nil
}

// StartGame starts or resumes the learner's attempt at a mode of a lesson
func (a *API) StartGame(ctx context.Context, gameType models.GameType, lessonID string) (*models.GameStart, error) {
	var start models.GameStart
	body := map[string]string{"gameType": string(gameType), "lessonId": lessonID}
	if _, err := a.post(ctx, "/games/start", body, &start); err != nil {
		return nil, err
	}
	return &start, nil
}

// SubmitAnswer sends one answer and returns the server verdict
func (a *API) SubmitAnswer(ctx context.Context, submission models.AnswerSubmission) (*models.AnswerResult, error) {
	if submission.WordArray == nil {
		submission.WordArray = []string{}
	}
	var result models.AnswerResult
	if _, err := a.post(ctx, "/games/submit-answer", submission, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListQuestions returns one page of questions
func (a *API) ListQuestions(ctx context.Context, filter QuestionFilter) (models.Page[models.Question], error) {
	return listPage[models.Question](ctx, a, "/questions", filter.Values())
}

// CreateQuestions creates a batch of questions for one lesson and mode
func (a *API) CreateQuestions(ctx context.Context, input models.QuestionInput) ([]models.Question, error) {
	var created []models.Question
	if _, err := a.post(ctx, "/questions", input, &created); err != nil {
		return nil, err
	}
	return created, nil
}

// UpdateQuestion edits one question
func (a *API) UpdateQuestion(ctx context.Context, id string, question models.Question) (*models.Question, error) {
	var updated models.Question
	if _, err := a.put(ctx, "/questions/"+escape(id), question, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteQuestion removes one question
func (a *API) DeleteQuestion(ctx context.Context, id string) error {
	return a.delete(ctx, "/questions/"+escape(id))
}

// ImportQuestions uploads a spreadsheet for a mode and returns the parsed rows.
// Nothing is saved until CreateQuestions is called.
func (a *API) ImportQuestions(ctx context.Context, gameType models.GameType, filename string, content io.Reader) ([]models.Question, error) {
	var rows []models.Question
	_, err := a.client.Do(ctx, apiclient.Request{
		Method: http.MethodPost,
		Path:   "/questions/import/" + escape(string(gameType)),
		File:   &apiclient.File{Field: "file", Name: filename, Content: content},
	}, &rows)
	return rows, err
}
