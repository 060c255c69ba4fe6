package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"lingoplay/internal/game"
	"lingoplay/internal/models"
)

func quizBackend(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/games/start":
			writeData(w, map[string]interface{}{
				"gameId":   "g1",
				"playerId": "p1",
				"questions": []map[string]interface{}{{
					"id":      "q1",
					"content": "Pick the fruit",
					"options": []map[string]interface{}{
						{"id": "o1", "text": "Apple", "isCorrect": true},
						{"id": "o2", "text": "Chair"},
					},
				}},
			})
		case "/games/submit-answer":
			var sub models.AnswerSubmission
			json.NewDecoder(r.Body).Decode(&sub)
			if sub.OptionID != "o1" || sub.GameID != "g1" {
				t.Errorf("submission = %+v", sub)
			}
			writeData(w, map[string]interface{}{"isCorrect": true, "score": 10, "isCompleted": true, "totalScore": 10, "bounus": 5})
		default:
			t.Errorf("unexpected backend call %s", r.URL.Path)
		}
	}
}

func quizMux(env *testEnv, h *QuizHandler) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /games/{mode}/{gameName}/{lessonId}/{action}", env.mw.CSRFProtect(h.QuizAction))
	return env.mw.LoadSession(mux)
}

func quizAction(t *testing.T, env *testEnv, session *models.ClientSession, path string, form url.Values) *http.Request {
	t.Helper()
	token, err := env.csrf.GenerateToken(session.ID)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	form.Set("csrf_token", token)
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return withSession(req, session)
}

func TestQuizSelectSubmitsAnswer(t *testing.T) {
	env := newTestEnv(t, quizBackend(t))
	session := env.newSession(t, "access-1")
	store := game.NewStore(time.Hour)
	h := NewQuizHandler(env.rd, env.q, store, time.Second)

	key := game.Key{SessionID: session.ID, Mode: models.GameMultipleChoice, LessonID: "l1"}
	run := game.NewSession(env.q, models.GameMultipleChoice, "l1", game.Options{Locale: "en"})
	ctx := env.auth.Bind(context.Background(), session)
	if err := run.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	store.Put(key, run)

	rec := httptest.NewRecorder()
	req := quizAction(t, env, session, "/games/multiple-choice/fruit/l1/select", url.Values{"option": {"o1"}})
	quizMux(env, h).ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != "/games/multiple-choice/fruit/l1" {
		t.Errorf("Location = %q", loc)
	}

	view := run.Snapshot()
	if view.Phase != game.PhaseCompleted && view.Phase != game.PhaseFeedback {
		t.Errorf("Phase = %v, want feedback or completed", view.Phase)
	}
	if view.Feedback == nil || !view.Feedback.Correct {
		t.Errorf("Feedback = %+v, want correct", view.Feedback)
	}
}

func TestQuizExitDropsSession(t *testing.T) {
	env := newTestEnv(t, quizBackend(t))
	session := env.newSession(t, "access-1")
	store := game.NewStore(time.Hour)
	h := NewQuizHandler(env.rd, env.q, store, time.Second)

	key := game.Key{SessionID: session.ID, Mode: models.GameArrange, LessonID: "l1"}
	store.Put(key, game.NewSession(env.q, models.GameArrange, "l1", game.Options{}))

	rec := httptest.NewRecorder()
	quizMux(env, h).ServeHTTP(rec, quizAction(t, env, session, "/games/arrange/words/l1/exit", url.Values{}))

	if loc := rec.Header().Get("Location"); loc != "/lessons/l1/games" {
		t.Errorf("Location = %q, want /lessons/l1/games", loc)
	}
	if _, ok := store.Get(key); ok {
		t.Error("exit should drop the game session")
	}
}

func TestQuizActionWithoutSessionRestarts(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected backend call %s", r.URL.Path)
	})
	session := env.newSession(t, "access-1")
	h := NewQuizHandler(env.rd, env.q, game.NewStore(time.Hour), time.Second)

	rec := httptest.NewRecorder()
	quizMux(env, h).ServeHTTP(rec, quizAction(t, env, session, "/games/listening/sounds/l2/next", url.Values{}))

	if loc := rec.Header().Get("Location"); loc != "/games/listening/sounds/l2" {
		t.Errorf("Location = %q, want the quiz page", loc)
	}
}

func TestQuizUnknownMode(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {})
	session := env.newSession(t, "access-1")
	h := NewQuizHandler(env.rd, env.q, game.NewStore(time.Hour), time.Second)

	rec := httptest.NewRecorder()
	quizMux(env, h).ServeHTTP(rec, quizAction(t, env, session, "/games/hangman/x/l1/next", url.Values{}))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}
