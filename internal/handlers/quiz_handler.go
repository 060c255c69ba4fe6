package handlers

import (
	"errors"
	"log"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"lingoplay/internal/apiclient"
	"lingoplay/internal/game"
	"lingoplay/internal/models"
	"lingoplay/internal/queries"
	"lingoplay/internal/views"
)

// QuizHandler runs the three quiz modes. Each browser has one game session
// per mode and lesson, kept in the store between requests.
type QuizHandler struct {
	rd           *Renderer
	queries      *queries.Queries
	store        *game.Store
	advanceDelay time.Duration
	now          func() time.Time
}

// NewQuizHandler creates a new quiz handler. Games talk to the backend through
// q so answers refresh the learner's cached lesson progress.
func NewQuizHandler(rd *Renderer, q *queries.Queries, store *game.Store, advanceDelay time.Duration) *QuizHandler {
	return &QuizHandler{
		rd:           rd,
		queries:      q,
		store:        store,
		advanceDelay: advanceDelay,
		now:          time.Now,
	}
}

type quizRoute struct {
	mode     models.GameType
	gameName string
	lessonID string
	key      game.Key
}

func (q quizRoute) path() string {
	return "/games/" + q.mode.Slug() + "/" + url.PathEscape(q.gameName) + "/" + url.PathEscape(q.lessonID)
}

func (h *QuizHandler) route(w http.ResponseWriter, r *http.Request) (quizRoute, bool) {
	mode, err := models.ParseGameType(r.PathValue("mode"))
	if err != nil {
		respondWithError(w, http.StatusNotFound, "Unknown game mode", "", nil)
		return quizRoute{}, false
	}
	lessonID := r.PathValue("lessonId")
	if lessonID == "" {
		respondWithError(w, http.StatusNotFound, "Lesson not found", "", nil)
		return quizRoute{}, false
	}
	return quizRoute{
		mode:     mode,
		gameName: r.PathValue("gameName"),
		lessonID: lessonID,
		key:      game.Key{SessionID: currentSession(r.Context()).ID, Mode: mode, LessonID: lessonID},
	}, true
}

// ShowQuiz renders the current state of the game, starting it on first visit
func (h *QuizHandler) ShowQuiz(w http.ResponseWriter, r *http.Request) {
	route, ok := h.route(w, r)
	if !ok {
		return
	}
	locale := localeFrom(r)

	session, found := h.store.Get(route.key)
	if !found {
		session = game.NewSession(h.queries, route.mode, route.lessonID, game.Options{
			Locale:       locale,
			AdvanceDelay: h.advanceDelay,
		})
		h.store.Put(route.key, session)
		if err := session.Start(r.Context()); err != nil {
			log.Printf("Failed to start %s game for lesson %s: %v", route.mode, route.lessonID, err)
			if errors.Is(err, apiclient.ErrSessionExpired) {
				h.store.Delete(route.key)
				h.rd.Flash(w, r, views.ToastError, apiclient.UserMessage(err))
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}
		}
	}
	session.SetLocale(locale)
	session.Tick(h.now())

	lesson, err := h.queries.Lesson(r.Context(), route.lessonID)
	if err != nil {
		h.rd.pageLoadFailed(w, r, "Failed to load lesson", err)
		return
	}

	view := session.Snapshot()
	page := h.rd.Page(w, r, pageTitle(route.mode.Label()))
	if view.Phase == game.PhaseFeedback && view.Mode == models.GameArrange {
		page.Refresh = int(math.Ceil(view.AdvanceIn.Seconds()))
		if page.Refresh < 1 {
			page.Refresh = 1
		}
	}

	h.rd.Render(w, "quiz.tmpl", QuizViewData{
		Page:       page,
		Lesson:     lesson,
		GameName:   route.gameName,
		ActionBase: route.path(),
		ExitURL:    "/lessons/" + url.PathEscape(route.lessonID) + "/games",
		View:       view,
	})
}

// QuizAction applies one learner action and redirects back to the quiz
func (h *QuizHandler) QuizAction(w http.ResponseWriter, r *http.Request) {
	route, ok := h.route(w, r)
	if !ok {
		return
	}

	action := r.PathValue("action")
	if action == "exit" {
		h.store.Delete(route.key)
		http.Redirect(w, r, "/lessons/"+url.PathEscape(route.lessonID)+"/games", http.StatusSeeOther)
		return
	}

	session, found := h.store.Get(route.key)
	if !found {
		http.Redirect(w, r, route.path(), http.StatusSeeOther)
		return
	}

	var err error
	switch action {
	case "select":
		err = session.Choose(r.Context(), r.FormValue("option"))
	case "submit":
		if session.Snapshot().Phase == game.PhaseSubmitting {
			err = session.Retry(r.Context())
		} else {
			err = session.SubmitArrangement(r.Context())
		}
	case "move":
		var pos int
		pos, err = strconv.Atoi(r.FormValue("pos"))
		if err == nil {
			if r.FormValue("from") == "answer" {
				err = session.Unpick(pos)
			} else {
				err = session.Pick(pos)
			}
		}
		if err != nil {
			log.Printf("Ignored arrange move: %v", err)
			err = nil
		}
	case "reshuffle":
		err = session.Reshuffle()
	case "next":
		err = session.Next()
	case "restart":
		err = session.Restart(r.Context())
	default:
		respondWithError(w, http.StatusNotFound, "Unknown action", "", nil)
		return
	}

	if err != nil {
		h.actionFailed(w, r, action, err)
		if errors.Is(err, apiclient.ErrSessionExpired) {
			h.store.Delete(route.key)
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
	}
	http.Redirect(w, r, route.path(), http.StatusSeeOther)
}

func (h *QuizHandler) actionFailed(w http.ResponseWriter, r *http.Request, action string, err error) {
	switch {
	case errors.Is(err, game.ErrStaleRun):
		return
	case errors.Is(err, game.ErrSubmitInFlight):
		h.rd.Flash(w, r, views.ToastInfo, "Your answer is still being checked")
	case errors.Is(err, game.ErrEmptyAnswer):
		h.rd.Flash(w, r, views.ToastError, "Pick at least one word first")
	case errors.Is(err, game.ErrWrongPhase), errors.Is(err, game.ErrUnknownOption):
		log.Printf("Ignored quiz action %s: %v", action, err)
	default:
		log.Printf("Quiz action %s failed: %v", action, err)
		h.rd.Flash(w, r, views.ToastError, apiclient.UserMessage(err))
	}
}
