package queries

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"lingoplay/internal/api"
	"lingoplay/internal/apiclient"
	"lingoplay/internal/cache"
	"lingoplay/internal/models"
)

type staticTokens struct{}

func (staticTokens) AccessToken() string          { return "tok" }
func (staticTokens) RefreshToken() string         { return "" }
func (staticTokens) SetAccessToken(string) error  { return nil }
func (staticTokens) SetRefreshToken(string) error { return nil }
func (staticTokens) ClearAccessToken() error      { return nil }

// countingBackend counts requests per method+path
type countingBackend struct {
	mu     sync.Mutex
	calls  map[string]int
	failOn string
}

func (b *countingBackend) count(key string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[key]
}

func (b *countingBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key := r.Method + " " + r.URL.Path
	b.mu.Lock()
	b.calls[key]++
	b.mu.Unlock()

	if key == b.failOn {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "message": "Title is required"})
		return
	}

	var data interface{}
	switch key {
	case "GET /lessons":
		data = []map[string]interface{}{{"id": "l1", "title": "Food", "level": "beginner"}}
	case "POST /lessons":
		data = map[string]interface{}{"id": "l2", "title": "Travel"}
	case "GET /games":
		data = []map[string]interface{}{{"id": "g1", "type": "multiple-choice", "lessonId": "l1"}}
	case "POST /vocabularies":
		data = []map[string]interface{}{{"id": "v1", "word": "apple"}}
	default:
		data = map[string]interface{}{}
	}
	json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "data": data})
}

func newTestQueries(t *testing.T) (*Queries, *countingBackend, context.Context) {
	t.Helper()
	backend := &countingBackend{calls: map[string]int{}}
	server := httptest.NewServer(backend)
	t.Cleanup(server.Close)

	client := apiclient.New(server.URL, 5*time.Second)
	q := New(api.New(client), cache.NewMemory(), time.Minute)
	ctx := apiclient.WithTokens(context.Background(), staticTokens{})
	return q, backend, WithScope(ctx, "session-1")
}

func TestListIsCachedPerFilter(t *testing.T) {
	q, backend, ctx := newTestQueries(t)

	for i := 0; i < 3; i++ {
		page, err := q.Lessons(ctx, api.LessonFilter{Page: 1})
		if err != nil {
			t.Fatalf("Lessons() error = %v", err)
		}
		if len(page.Items) != 1 || page.Items[0].Title != "Food" {
			t.Fatalf("Lessons() items = %+v", page.Items)
		}
	}
	if got := backend.count("GET /lessons"); got != 1 {
		t.Errorf("GET /lessons calls = %d, want 1", got)
	}

	if _, err := q.Lessons(ctx, api.LessonFilter{Page: 2}); err != nil {
		t.Fatalf("Lessons(page 2) error = %v", err)
	}
	if got := backend.count("GET /lessons"); got != 2 {
		t.Errorf("GET /lessons calls after new filter = %d, want 2", got)
	}
}

func TestScopesDoNotShareEntries(t *testing.T) {
	q, backend, ctx := newTestQueries(t)

	q.Lessons(ctx, api.LessonFilter{})
	q.Lessons(WithScope(ctx, "session-2"), api.LessonFilter{})

	if got := backend.count("GET /lessons"); got != 2 {
		t.Errorf("GET /lessons calls = %d, want 2", got)
	}
}

func TestSuccessfulMutationInvalidates(t *testing.T) {
	q, backend, ctx := newTestQueries(t)

	q.Lessons(ctx, api.LessonFilter{})
	q.Lessons(WithScope(ctx, "session-2"), api.LessonFilter{})

	if _, err := q.CreateLesson(ctx, models.LessonInput{Title: "Travel", Level: models.LevelBeginner}); err != nil {
		t.Fatalf("CreateLesson() error = %v", err)
	}

	q.Lessons(ctx, api.LessonFilter{})
	q.Lessons(WithScope(ctx, "session-2"), api.LessonFilter{})
	if got := backend.count("GET /lessons"); got != 4 {
		t.Errorf("GET /lessons calls = %d, want 4 (both scopes refetched)", got)
	}
}

func TestFailedMutationKeepsCache(t *testing.T) {
	q, backend, ctx := newTestQueries(t)
	backend.failOn = "POST /lessons"

	q.Lessons(ctx, api.LessonFilter{})
	_, err := q.CreateLesson(ctx, models.LessonInput{})
	if err == nil {
		t.Fatal("CreateLesson() should fail")
	}
	if got := apiclient.UserMessage(err); got != "Title is required" {
		t.Errorf("UserMessage() = %q, want server message", got)
	}

	q.Lessons(ctx, api.LessonFilter{})
	if got := backend.count("GET /lessons"); got != 1 {
		t.Errorf("GET /lessons calls = %d, want 1", got)
	}
}

func TestVocabularyMutationRefreshesLessons(t *testing.T) {
	q, backend, ctx := newTestQueries(t)

	q.Lessons(ctx, api.LessonFilter{})
	if _, err := q.CreateVocabularies(ctx, []models.Vocabulary{{Word: "apple", LessonID: "l1"}}); err != nil {
		t.Fatalf("CreateVocabularies() error = %v", err)
	}
	q.Lessons(ctx, api.LessonFilter{})

	if got := backend.count("GET /lessons"); got != 2 {
		t.Errorf("GET /lessons calls = %d, want 2", got)
	}
}

func TestKey(t *testing.T) {
	got := Key(EntityLessons, "s1", api.LessonFilter{Page: 2, Level: models.LevelAdvanced}.Values())
	want := "q:lessons:s1:level=advanced&page=2"
	if got != want {
		t.Errorf("Key() = %q, want %q", got, want)
	}
}

func TestAnswerRefreshesLearnerProgress(t *testing.T) {
	q, backend, ctx := newTestQueries(t)
	other := WithScope(ctx, "session-2")

	q.Lesson(ctx, "l1")
	q.Games(ctx, "l1")
	q.Lesson(other, "l1")

	if _, err := q.SubmitAnswer(ctx, models.AnswerSubmission{GameID: "g1", QuestionID: "q1", OptionID: "o1"}); err != nil {
		t.Fatalf("SubmitAnswer() error = %v", err)
	}

	q.Lesson(ctx, "l1")
	q.Games(ctx, "l1")
	q.Lesson(other, "l1")

	if got := backend.count("GET /lessons/l1"); got != 3 {
		t.Errorf("GET /lessons/l1 calls = %d, want 3 (only the answering learner refetched)", got)
	}
	if got := backend.count("GET /games"); got != 2 {
		t.Errorf("GET /games calls = %d, want 2", got)
	}
}

func TestFailedAnswerKeepsProgress(t *testing.T) {
	q, backend, ctx := newTestQueries(t)
	backend.failOn = "POST /games/submit-answer"

	q.Lesson(ctx, "l1")
	if _, err := q.SubmitAnswer(ctx, models.AnswerSubmission{GameID: "g1"}); err == nil {
		t.Fatal("SubmitAnswer() should fail")
	}
	q.Lesson(ctx, "l1")

	if got := backend.count("GET /lessons/l1"); got != 1 {
		t.Errorf("GET /lessons/l1 calls = %d, want 1", got)
	}
}
