package queries

import (
	"context"

	"lingoplay/internal/models"
)

// StartGame is not cached; every attempt starts from the server's state
func (q *Queries) StartGame(ctx context.Context, gameType models.GameType, lessonID string) (*models.GameStart, error) {
	return q.api.StartGame(ctx, gameType, lessonID)
}

// SubmitAnswer sends one answer. A scored answer moves the learner's lesson
// progress, so the caller's cached lessons and game lobbies are dropped.
func (q *Queries) SubmitAnswer(ctx context.Context, submission models.AnswerSubmission) (*models.AnswerResult, error) {
	result, err := q.api.SubmitAnswer(ctx, submission)
	if err != nil {
		return nil, err
	}
	q.invalidateScope(ctx, EntityLessons, EntityGames)
	return result, nil
}
