package views

import (
	"strings"

	"lingoplay/internal/models"
)

// QuestionForm feeds the shared question editor used by the question admin
// screen and the import row editor
type QuestionForm struct {
	Mode     models.GameType
	Question models.Question
	Slots    []int
}

// NewQuestionForm builds the editor for q
func NewQuestionForm(mode models.GameType, q models.Question, slots []int) QuestionForm {
	return QuestionForm{Mode: mode, Question: q, Slots: slots}
}

// Option returns option i, or an empty option past the end
func (f QuestionForm) Option(i int) models.Option {
	if i < 0 || i >= len(f.Question.Options) {
		return models.Option{}
	}
	return f.Question.Options[i]
}

// Sentence is the arrange answer as one line
func (f QuestionForm) Sentence() string {
	return strings.Join(f.Question.Words, " ")
}
