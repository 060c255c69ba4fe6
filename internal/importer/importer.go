// Package importer manages spreadsheet import previews. The file is parsed by
// the REST backend; rows come back as a draft that an admin reviews, edits and
// commits against a lesson.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"

	"github.com/samber/lo"

	"lingoplay/internal/models"
)

var (
	ErrUnsupportedFile = errors.New("only .xlsx and .xls files can be imported")
	ErrFileTooLarge    = errors.New("file is too large")
	ErrNoLesson        = errors.New("no lesson selected")
	ErrEmptyDraft      = errors.New("nothing to import")
	ErrRowNotFound     = errors.New("row not found")
	ErrUnknownKind     = errors.New("unknown import kind")
)

// SelectLessonMessage is shown when a draft is saved without a lesson
const SelectLessonMessage = "Please select a lesson"

var allowedExtensions = []string{".xlsx", ".xls"}

// Kind is what a spreadsheet holds
type Kind string

const (
	KindMultipleChoice Kind = "multiple-choice"
	KindListening      Kind = "listening"
	KindArrange        Kind = "arrange"
	KindVocabulary     Kind = "vocabulary"
)

// Kinds lists every import kind
var Kinds = []Kind{KindMultipleChoice, KindListening, KindArrange, KindVocabulary}

// ParseKind accepts a kind name or a game mode slug/code
func ParseKind(s string) (Kind, error) {
	if Kind(s) == KindVocabulary {
		return KindVocabulary, nil
	}
	gameType, err := models.ParseGameType(s)
	if err != nil {
		return "", ErrUnknownKind
	}
	return Kind(gameType.Slug()), nil
}

// GameType returns the quiz mode of a question import
func (k Kind) GameType() (models.GameType, bool) {
	if k == KindVocabulary {
		return "", false
	}
	t, err := models.ParseGameType(string(k))
	return t, err == nil
}

// Label is the screen title of the kind
func (k Kind) Label() string {
	if t, ok := k.GameType(); ok {
		return t.Label()
	}
	return "Vocabulary"
}

// Uploader sends a spreadsheet to the server-side parser
type Uploader interface {
	ImportQuestions(ctx context.Context, gameType models.GameType, filename string, content io.Reader) ([]models.Question, error)
	ImportVocabularies(ctx context.Context, filename string, content io.Reader) ([]models.Vocabulary, error)
}

// Committer saves reviewed rows
type Committer interface {
	CreateQuestions(ctx context.Context, input models.QuestionInput) ([]models.Question, error)
	CreateVocabularies(ctx context.Context, items []models.Vocabulary) ([]models.Vocabulary, error)
}

// ValidateUpload checks the file name and size before anything is sent
func ValidateUpload(filename string, size, maxSize int64) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if !lo.Contains(allowedExtensions, ext) {
		return ErrUnsupportedFile
	}
	if maxSize > 0 && size > maxSize {
		return fmt.Errorf("%w: %d bytes, limit %d", ErrFileTooLarge, size, maxSize)
	}
	return nil
}

// EligibleLessons returns the lessons that can still take a game of type t:
// those with fewer than limit games of that type
func EligibleLessons(lessons []models.Lesson, t models.GameType, limit int) []models.Lesson {
	return lo.Filter(lessons, func(l models.Lesson, _ int) bool {
		return l.CountGameType(t) < limit
	})
}

// Importer turns uploads into drafts and commits them
type Importer struct {
	uploader  Uploader
	committer Committer
	drafts    *Store
	maxSize   int64
}

// New creates an importer
func New(uploader Uploader, committer Committer, drafts *Store, maxSize int64) *Importer {
	return &Importer{uploader: uploader, committer: committer, drafts: drafts, maxSize: maxSize}
}

// Drafts returns the draft store
func (im *Importer) Drafts() *Store {
	return im.drafts
}

// Preview uploads a spreadsheet and stores the parsed rows as owner's draft for kind
func (im *Importer) Preview(ctx context.Context, owner string, kind Kind, filename string, size int64, content io.Reader) (*Draft, error) {
	if err := ValidateUpload(filename, size, im.maxSize); err != nil {
		return nil, err
	}

	draft := newDraft(kind, filename)
	if t, ok := kind.GameType(); ok {
		questions, err := im.uploader.ImportQuestions(ctx, t, filename, content)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", filename, err)
		}
		draft.Questions = questions
	} else {
		items, err := im.uploader.ImportVocabularies(ctx, filename, content)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", filename, err)
		}
		draft.Vocabulary = items
	}

	log.Printf("Import preview %s: %d rows from %s", kind, draft.Len(), filename)
	im.drafts.Put(owner, draft)
	return draft.clone(), nil
}

// Commit validates owner's draft for kind and saves it in bulk. The draft is
// discarded only when the save succeeds.
func (im *Importer) Commit(ctx context.Context, owner string, kind Kind) (int, error) {
	draft, ok := im.drafts.Get(owner, kind)
	if !ok {
		return 0, ErrEmptyDraft
	}
	if err := draft.Validate(); err != nil {
		return 0, err
	}

	var saved int
	if t, ok := kind.GameType(); ok {
		questions := lo.Map(draft.Questions, func(q models.Question, _ int) models.Question {
			q.LessonID = draft.LessonID
			return q
		})
		created, err := im.committer.CreateQuestions(ctx, models.QuestionInput{
			LessonID:  draft.LessonID,
			GameType:  t,
			Questions: questions,
		})
		if err != nil {
			return 0, err
		}
		saved = len(created)
	} else {
		items := lo.Map(draft.Vocabulary, func(v models.Vocabulary, _ int) models.Vocabulary {
			v.LessonID = draft.LessonID
			return v
		})
		created, err := im.committer.CreateVocabularies(ctx, items)
		if err != nil {
			return 0, err
		}
		saved = len(created)
	}

	im.drafts.Delete(owner, kind)
	return saved, nil
}
