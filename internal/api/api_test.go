package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"lingoplay/internal/apiclient"
	"lingoplay/internal/models"
)

type staticTokens struct{ access string }

func (s *staticTokens) AccessToken() string          { return s.access }
func (s *staticTokens) RefreshToken() string         { return "" }
func (s *staticTokens) SetAccessToken(string) error  { return nil }
func (s *staticTokens) SetRefreshToken(string) error { return nil }
func (s *staticTokens) ClearAccessToken() error      { return nil }

func newTestAPI(t *testing.T, handler http.HandlerFunc) (*API, context.Context) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	ctx := apiclient.WithTokens(context.Background(), &staticTokens{access: "tok"})
	return New(apiclient.New(server.URL, 5*time.Second)), ctx
}

func writeData(w http.ResponseWriter, data interface{}) {
	json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "data": data})
}

func TestLoginCapturesRefreshCookie(t *testing.T) {
	a, ctx := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/login" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "" {
			t.Error("login must not send a bearer token")
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["email"] != "an@example.com" || body["password"] != "secret123" {
			t.Errorf("body = %v", body)
		}
		http.SetCookie(w, &http.Cookie{Name: "refreshToken", Value: "refresh-xyz", HttpOnly: true})
		writeData(w, map[string]interface{}{
			"accessToken": "access-abc",
			"user":        map[string]string{"id": "u1", "name": "An", "role": "user"},
		})
	})

	result, err := a.Login(ctx, "an@example.com", "secret123")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if result.AccessToken != "access-abc" || result.RefreshToken != "refresh-xyz" {
		t.Errorf("tokens = %q/%q", result.AccessToken, result.RefreshToken)
	}
	if result.User == nil || result.User.Role != models.RoleUser {
		t.Errorf("user = %+v", result.User)
	}
}

func TestListLessonsSendsFilter(t *testing.T) {
	a, ctx := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("level") != "beginner" || q.Get("page") != "2" || q.Get("search") != "food" {
			t.Errorf("query = %v", q)
		}
		if q.Has("limit") {
			t.Error("zero limit should be omitted")
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success":    true,
			"data":       []map[string]interface{}{{"id": "l1", "title": "Food", "level": "beginner", "progress": 40}},
			"pagination": map[string]int{"page": 2, "limit": 10, "total": 11, "totalPages": 2},
		})
	})

	page, err := a.ListLessons(ctx, LessonFilter{Page: 2, Level: models.LevelBeginner, Search: "food"})
	if err != nil {
		t.Fatalf("ListLessons() error = %v", err)
	}
	if len(page.Items) != 1 || page.Items[0].Progress != 40 {
		t.Errorf("items = %+v", page.Items)
	}
	if page.Pagination.TotalPages != 2 || page.Pagination.HasNext() {
		t.Errorf("pagination = %+v", page.Pagination)
	}
}

func TestListWithoutPaginationDefaultsToSinglePage(t *testing.T) {
	a, ctx := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		writeData(w, []map[string]string{{"id": "u1"}, {"id": "u2"}})
	})

	page, err := a.ListUsers(ctx, UserFilter{})
	if err != nil {
		t.Fatalf("ListUsers() error = %v", err)
	}
	if page.Pagination.Total != 2 || page.Pagination.TotalPages != 1 {
		t.Errorf("pagination = %+v", page.Pagination)
	}
}

func TestSubmitAnswerSendsEmptyWordArrayForChoiceModes(t *testing.T) {
	a, ctx := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		if !strings.Contains(string(raw), `"wordArray":[]`) {
			t.Errorf("body = %s, want empty wordArray", raw)
		}
		if !strings.Contains(string(raw), `"optionId":"o2"`) {
			t.Errorf("body = %s, want optionId", raw)
		}
		writeData(w, map[string]interface{}{"isCorrect": true, "score": 10, "bounus": 3})
	})

	result, err := a.SubmitAnswer(ctx, models.AnswerSubmission{
		GameID: "g1", QuestionID: "q1", PlayerID: "p1", LessonID: "l1", OptionID: "o2",
	})
	if err != nil {
		t.Fatalf("SubmitAnswer() error = %v", err)
	}
	if !result.IsCorrect || result.Score != 10 || result.Bonus != 3 {
		t.Errorf("result = %+v", result)
	}
}

func TestStartGame(t *testing.T) {
	a, ctx := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/games/start" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["gameType"] != "AS" || body["lessonId"] != "l9" {
			t.Errorf("body = %v", body)
		}
		writeData(w, map[string]interface{}{
			"gameId": "g1", "playerId": "p1", "lastAnsweredIndex": 1,
			"questions": []map[string]interface{}{{"id": "q1", "words": []string{"I", "am", "here"}}},
		})
	})

	start, err := a.StartGame(ctx, models.GameArrange, "l9")
	if err != nil {
		t.Fatalf("StartGame() error = %v", err)
	}
	if start.LastAnsweredIndex == nil || *start.LastAnsweredIndex != 1 {
		t.Errorf("LastAnsweredIndex = %v", start.LastAnsweredIndex)
	}
	if len(start.Questions) != 1 || len(start.Questions[0].Words) != 3 {
		t.Errorf("questions = %+v", start.Questions)
	}
}

func TestImportQuestionsUploadsPerMode(t *testing.T) {
	a, ctx := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/questions/import/LS" {
			t.Errorf("path = %s", r.URL.Path)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("FormFile() error = %v", err)
		}
		defer file.Close()
		if header.Filename != "listening.xlsx" {
			t.Errorf("filename = %s", header.Filename)
		}
		writeData(w, []map[string]interface{}{
			{"content": "Listen", "mediaUrl": "https://cdn/a.mp3", "options": []map[string]interface{}{{"text": "a", "isCorrect": true}}},
		})
	})

	rows, err := a.ImportQuestions(ctx, models.GameListening, "listening.xlsx", strings.NewReader("xlsx"))
	if err != nil {
		t.Fatalf("ImportQuestions() error = %v", err)
	}
	if len(rows) != 1 || rows[0].MediaURL == "" {
		t.Errorf("rows = %+v", rows)
	}
}

func TestDeleteEscapesID(t *testing.T) {
	a, ctx := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.EscapedPath() != "/topics/a%2Fb" {
			t.Errorf("%s %s", r.Method, r.URL.EscapedPath())
		}
		writeData(w, nil)
	})

	if err := a.DeleteTopic(ctx, "a/b"); err != nil {
		t.Fatalf("DeleteTopic() error = %v", err)
	}
}

func TestVerifyOTPReturnsResetToken(t *testing.T) {
	a, ctx := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		writeData(w, map[string]string{"resetToken": "reset-1"})
	})

	token, err := a.VerifyOTP(ctx, "an@example.com", "123456")
	if err != nil || token != "reset-1" {
		t.Errorf("VerifyOTP() = %q, %v", token, err)
	}
}
