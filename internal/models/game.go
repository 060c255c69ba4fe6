package models

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// GameType identifies a quiz mode
type GameType string

const (
	GameMultipleChoice GameType = "MC"
	GameListening      GameType = "LS"
	GameArrange        GameType = "AS"
)

// GameTypes lists every quiz mode in display order
var GameTypes = []GameType{GameMultipleChoice, GameListening, GameArrange}

var gameTypeSlugs = map[GameType]string{
	GameMultipleChoice: "multiple-choice",
	GameListening:      "listening",
	GameArrange:        "arrange",
}

var gameTypeLabels = map[GameType]string{
	GameMultipleChoice: "Multiple choice",
	GameListening:      "Listening",
	GameArrange:        "Sentence arrangement",
}

// Slug is the URL segment used for the mode
func (t GameType) Slug() string {
	return gameTypeSlugs[t]
}

// Label is the human-readable mode name
func (t GameType) Label() string {
	if label, ok := gameTypeLabels[t]; ok {
		return label
	}
	return string(t)
}

// IsChoice reports whether answers are a single selected option
func (t GameType) IsChoice() bool {
	return t == GameMultipleChoice || t == GameListening
}

// Valid reports whether t is a known mode
func (t GameType) Valid() bool {
	_, ok := gameTypeSlugs[t]
	return ok
}

// ParseGameType accepts either a URL slug ("listening") or a code ("LS")
func ParseGameType(s string) (GameType, error) {
	for t, slug := range gameTypeSlugs {
		if s == slug || s == string(t) {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown game type %q", s)
}

// Game is a playable mode bound to a lesson
type Game struct {
	ID          string   `json:"id"`
	Type        GameType `json:"type"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	LessonID    string   `json:"lessonId"`
}

// Option is one answer choice of a choice-mode question
type Option struct {
	ID        string `json:"id,omitempty"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
}

// Question is a single quiz item. Choice modes use Options, arrange mode uses Words.
type Question struct {
	ID          string    `json:"id,omitempty"`
	GameID      string    `json:"gameId,omitempty"`
	LessonID    string    `json:"lessonId,omitempty"`
	Content     string    `json:"content"`
	MediaURL    string    `json:"mediaUrl,omitempty"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	Options     []Option  `json:"options,omitempty"`
	Words       []string  `json:"words,omitempty"`
	Explanation Localized `json:"explanation"`
}

// CorrectOption returns the option flagged correct, if any
func (q Question) CorrectOption() (Option, bool) {
	for _, opt := range q.Options {
		if opt.IsCorrect {
			return opt, true
		}
	}
	return Option{}, false
}

// CorrectCount returns how many options are flagged correct
func (q Question) CorrectCount() int {
	n := 0
	for _, opt := range q.Options {
		if opt.IsCorrect {
			n++
		}
	}
	return n
}

// QuestionInput is the payload for creating questions in bulk
type QuestionInput struct {
	LessonID  string     `json:"lessonId"`
	GameType  GameType   `json:"gameType"`
	Questions []Question `json:"questions"`
}

// AnswerSubmission is one answer sent to the server
type AnswerSubmission struct {
	GameID     string   `json:"gameId"`
	QuestionID string   `json:"questionId"`
	PlayerID   string   `json:"playerId"`
	LessonID   string   `json:"lessonId"`
	OptionID   string   `json:"optionId,omitempty"`
	WordArray  []string `json:"wordArray"`
}

// GameStart is the response to starting or resuming a game
type GameStart struct {
	GameID            string     `json:"gameId"`
	PlayerID          string     `json:"playerId"`
	Questions         []Question `json:"questions"`
	LastAnsweredIndex *int       `json:"lastAnsweredIndex"`
	Score             int        `json:"score"`
}

// AnswerResult is the server verdict for a submission
type AnswerResult struct {
	IsCorrect   bool `json:"isCorrect"`
	Score       int  `json:"score"`
	IsCompleted bool `json:"isCompleted"`
	TotalScore  int  `json:"totalScore"`
	Bonus       int  `json:"bonus"`
}

// HasBonus reports whether the server awarded a completion bonus
func (r AnswerResult) HasBonus() bool {
	return r.Bonus > 0
}

// UnmarshalJSON accepts the bonus under "bonus" or the legacy "bounus" key,
// as a number or a boolean. "bonus" wins when both are present.
func (r *AnswerResult) UnmarshalJSON(data []byte) error {
	type plain AnswerResult
	aux := struct {
		*plain
		Bonus  json.RawMessage `json:"bonus"`
		Bounus json.RawMessage `json:"bounus"`
	}{plain: (*plain)(r)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	raw := aux.Bonus
	if isNullJSON(raw) {
		raw = aux.Bounus
	}
	if isNullJSON(raw) {
		r.Bonus = 0
		return nil
	}

	bonus, err := parseBonus(raw)
	if err != nil {
		return err
	}
	r.Bonus = bonus
	return nil
}

func isNullJSON(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}

func parseBonus(raw json.RawMessage) (int, error) {
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		if b {
			return 1, nil
		}
		return 0, nil
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return int(f), nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		n, err := strconv.Atoi(s)
		if err != nil {
			return 0, fmt.Errorf("invalid bonus value %q", s)
		}
		return n, nil
	}
	return 0, fmt.Errorf("invalid bonus value %s", raw)
}
