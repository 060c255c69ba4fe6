package api

import (
	"net/url"

	"lingoplay/internal/models"
)

// LessonFilter narrows the lesson list
type LessonFilter struct {
	Page   int
	Limit  int
	Level  models.Level
	Search string
}

// Values encodes the filter as query parameters
func (f LessonFilter) Values() url.Values {
	v := url.Values{}
	setInt(v, "page", f.Page)
	setInt(v, "limit", f.Limit)
	setString(v, "level", string(f.Level))
	setString(v, "search", f.Search)
	return v
}

// UserFilter narrows the admin user list
type UserFilter struct {
	Page   int
	Limit  int
	Search string
	Role   models.Role
}

// Values encodes the filter as query parameters
func (f UserFilter) Values() url.Values {
	v := url.Values{}
	setInt(v, "page", f.Page)
	setInt(v, "limit", f.Limit)
	setString(v, "search", f.Search)
	setString(v, "role", string(f.Role))
	return v
}

// VocabularyFilter narrows the vocabulary list
type VocabularyFilter struct {
	LessonID string
	Page     int
	Limit    int
	Search   string
}

// Values encodes the filter as query parameters
func (f VocabularyFilter) Values() url.Values {
	v := url.Values{}
	setString(v, "lessonId", f.LessonID)
	setInt(v, "page", f.Page)
	setInt(v, "limit", f.Limit)
	setString(v, "search", f.Search)
	return v
}

// QuestionFilter narrows the question list
type QuestionFilter struct {
	GameType models.GameType
	LessonID string
	Page     int
	Limit    int
}

// Values encodes the filter as query parameters
func (f QuestionFilter) Values() url.Values {
	v := url.Values{}
	setString(v, "gameType", string(f.GameType))
	setString(v, "lessonId", f.LessonID)
	setInt(v, "page", f.Page)
	setInt(v, "limit", f.Limit)
	return v
}
