package handlers

import (
	"net/http"
	"net/url"

	"github.com/samber/lo"

	"lingoplay/internal/api"
	"lingoplay/internal/models"
	"lingoplay/internal/queries"
	"lingoplay/internal/views"
)

// LessonHandler serves lesson detail, its video and its games lobby
type LessonHandler struct {
	rd      *Renderer
	queries *queries.Queries
}

// NewLessonHandler creates a new lesson handler
func NewLessonHandler(rd *Renderer, q *queries.Queries) *LessonHandler {
	return &LessonHandler{rd: rd, queries: q}
}

func (h *LessonHandler) lesson(w http.ResponseWriter, r *http.Request) (*models.Lesson, bool) {
	lesson, err := h.queries.Lesson(r.Context(), r.PathValue("id"))
	if err != nil {
		h.rd.pageLoadFailed(w, r, "Failed to load lesson", err)
		return nil, false
	}
	return lesson, true
}

// ShowLesson displays the lesson content and its vocabulary
func (h *LessonHandler) ShowLesson(w http.ResponseWriter, r *http.Request) {
	lesson, ok := h.lesson(w, r)
	if !ok {
		return
	}

	vocab := lesson.Vocabularies
	if len(vocab) == 0 {
		page, err := h.queries.Vocabularies(r.Context(), api.VocabularyFilter{LessonID: lesson.ID, Limit: 100})
		if err != nil {
			h.rd.pageLoadFailed(w, r, "Failed to load vocabulary", err)
			return
		}
		vocab = page.Items
	}

	h.rd.Render(w, "lesson.tmpl", LessonViewData{
		Page:         h.rd.Page(w, r, pageTitle(lesson.Title)),
		Lesson:       lesson,
		Vocabularies: vocab,
	})
}

// ShowVideo displays the lesson video
func (h *LessonHandler) ShowVideo(w http.ResponseWriter, r *http.Request) {
	lesson, ok := h.lesson(w, r)
	if !ok {
		return
	}
	if lesson.VideoURL == "" {
		http.Redirect(w, r, "/lessons/"+url.PathEscape(lesson.ID), http.StatusSeeOther)
		return
	}

	h.rd.Render(w, "lesson_video.tmpl", LessonVideoViewData{
		Page:   h.rd.Page(w, r, pageTitle(lesson.Title)),
		Lesson: lesson,
	})
}

// ShowGames lists the playable modes of a lesson
func (h *LessonHandler) ShowGames(w http.ResponseWriter, r *http.Request) {
	lesson, ok := h.lesson(w, r)
	if !ok {
		return
	}

	games, err := h.queries.Games(r.Context(), lesson.ID)
	if err != nil {
		h.rd.pageLoadFailed(w, r, "Failed to load games", err)
		return
	}

	links := lo.FilterMap(games, func(g models.Game, _ int) (GameLink, bool) {
		return GameLink{Game: g, URL: quizPath(g.Type, g.Title, lesson.ID)}, g.Type.Valid()
	})

	h.rd.Render(w, "games.tmpl", GamesViewData{
		Page:   h.rd.Page(w, r, pageTitle(views.T(localeFrom(r), "games.title"))),
		Lesson: lesson,
		Games:  links,
	})
}

// quizPath is the URL of a quiz page
func quizPath(mode models.GameType, title, lessonID string) string {
	return "/games/" + mode.Slug() + "/" + views.Slug(title) + "/" + url.PathEscape(lessonID)
}
