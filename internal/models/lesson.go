package models

// Level is the difficulty band of a lesson
type Level string

const (
	LevelBeginner     Level = "beginner"
	LevelIntermediate Level = "intermediate"
	LevelAdvanced     Level = "advanced"
)

// Levels lists every level in display order
var Levels = []Level{LevelBeginner, LevelIntermediate, LevelAdvanced}

// Valid reports whether l is a known level
func (l Level) Valid() bool {
	for _, level := range Levels {
		if l == level {
			return true
		}
	}
	return false
}

// Lesson is a unit of study with content, vocabulary and games
type Lesson struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	Level        Level        `json:"level"`
	Content      string       `json:"content"`
	VideoURL     string       `json:"videoUrl,omitempty"`
	Progress     int          `json:"progress"`
	Vocabularies []Vocabulary `json:"vocabularies,omitempty"`
	GameCount    int          `json:"gameCount"`
	GameTypes    []GameType   `json:"gameTypes,omitempty"`
}

// CountGameType returns how many games of type t the lesson already has
func (l Lesson) CountGameType(t GameType) int {
	n := 0
	for _, gt := range l.GameTypes {
		if gt == t {
			n++
		}
	}
	return n
}

// ClampedProgress keeps the progress percentage within 0..100
func (l Lesson) ClampedProgress() int {
	switch {
	case l.Progress < 0:
		return 0
	case l.Progress > 100:
		return 100
	default:
		return l.Progress
	}
}

// LessonInput is what the admin lesson form submits
type LessonInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Level       Level  `json:"level"`
	Content     string `json:"content"`
	VideoURL    string `json:"videoUrl,omitempty"`
}

// Localized holds a string in each supported locale
type Localized struct {
	En string `json:"en"`
	Vi string `json:"vi"`
}

// In returns the text for locale, falling back to English
func (l Localized) In(locale string) string {
	if locale == "vi" && l.Vi != "" {
		return l.Vi
	}
	if l.En != "" {
		return l.En
	}
	return l.Vi
}

// IsZero reports whether no locale has text
func (l Localized) IsZero() bool {
	return l.En == "" && l.Vi == ""
}

// Vocabulary is a word taught by a lesson
type Vocabulary struct {
	ID            string    `json:"id,omitempty"`
	Word          string    `json:"word"`
	Meaning       Localized `json:"meaning"`
	Pronunciation string    `json:"pronunciation,omitempty"`
	LessonID      string    `json:"lessonId"`
}

// Topic links a name and description to a game type
type Topic struct {
	ID          string   `json:"id,omitempty"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	GameType    GameType `json:"gameType"`
}

// Pagination is the page metadata attached to list responses
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// HasPrev reports whether a previous page exists
func (p Pagination) HasPrev() bool { return p.Page > 1 }

// HasNext reports whether a following page exists
func (p Pagination) HasNext() bool { return p.Page < p.TotalPages }

// Page is one page of a list query
type Page[T any] struct {
	Items      []T        `json:"items"`
	Pagination Pagination `json:"pagination"`
}
