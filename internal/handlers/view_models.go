package handlers

import (
	"time"

	"lingoplay/internal/game"
	"lingoplay/internal/importer"
	"lingoplay/internal/models"
)

type LoginViewData struct {
	Page
	GoogleEnabled bool
	Error         string
	Email         string
}

type SignupViewData struct {
	Page
	GoogleEnabled bool
	Error         string
	Email         string
	Name          string
}

type ForgotPasswordViewData struct {
	Page
	Error string
	Email string
}

type VerifyOTPViewData struct {
	Page
	Error string
	Email string
}

type ResetPasswordViewData struct {
	Page
	Error string
}

type HomeViewData struct {
	Page
	Lessons    []models.Lesson
	Pagination models.Pagination
	Levels     []models.Level
	Level      string
	Search     string
}

type ProfileViewData struct {
	Page
	Profile        *models.User
	TokenExpiresAt time.Time
	Error          string
}

type LessonViewData struct {
	Page
	Lesson       *models.Lesson
	Vocabularies []models.Vocabulary
}

type LessonVideoViewData struct {
	Page
	Lesson *models.Lesson
}

// GameLink is one playable mode in the games lobby
type GameLink struct {
	Game models.Game
	URL  string
}

type GamesViewData struct {
	Page
	Lesson *models.Lesson
	Games  []GameLink
}

type QuizViewData struct {
	Page
	Lesson     *models.Lesson
	GameName   string
	ActionBase string
	ExitURL    string
	View       game.View
}

// AdminCount is one tile of the admin dashboard
type AdminCount struct {
	Label string
	Count int
	URL   string
}

// GameTypeCapView is one row of the per-mode cap settings form
type GameTypeCapView struct {
	Type models.GameType
	Cap  int
}

type AdminDashboardViewData struct {
	Page
	Counts []AdminCount
	Caps   []GameTypeCapView
}

type AdminLessonsViewData struct {
	Page
	Lessons    []models.Lesson
	Pagination models.Pagination
	Levels     []models.Level
	Search     string
	Editing    *models.Lesson
	ShowForm   bool
}

type AdminUsersViewData struct {
	Page
	Users      []models.User
	Pagination models.Pagination
	Roles      []models.Role
	Search     string
	Role       string
	Editing    *models.User
	ShowForm   bool
}

type AdminVocabulariesViewData struct {
	Page
	Vocabularies []models.Vocabulary
	Pagination   models.Pagination
	Lessons      []models.Lesson
	LessonID     string
	Search       string
	Editing      *models.Vocabulary
	ShowForm     bool
}

type AdminTopicsViewData struct {
	Page
	Topics    []models.Topic
	GameTypes []models.GameType
	Editing   *models.Topic
	ShowForm  bool
}

type AdminQuestionsViewData struct {
	Page
	Questions   []models.Question
	Pagination  models.Pagination
	GameTypes   []models.GameType
	GameType    models.GameType
	Lessons     []models.Lesson
	LessonID    string
	Editing     *models.Question
	ShowForm    bool
	OptionSlots []int
}

type AdminImportViewData struct {
	Page
	Kind        importer.Kind
	GameType    models.GameType
	ActionBase  string
	TemplateURL string
	Draft       *importer.Draft
	Lessons     []models.Lesson
	MaxSize     int64
	EditRow     int
	OptionSlots []int
}
