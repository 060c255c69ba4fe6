package importer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"lingoplay/internal/api"
	"lingoplay/internal/apiclient"
	"lingoplay/internal/models"
)

type staticTokens struct{}

func (staticTokens) AccessToken() string          { return "tok" }
func (staticTokens) RefreshToken() string         { return "" }
func (staticTokens) SetAccessToken(string) error  { return nil }
func (staticTokens) SetRefreshToken(string) error { return nil }
func (staticTokens) ClearAccessToken() error      { return nil }

// buildMCSheet writes a multiple-choice workbook with a header row and n data rows
func buildMCSheet(t *testing.T, n int) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	header := []interface{}{"content", "option_a", "option_b", "option_c", "option_d", "correct", "explanation_en", "explanation_vi"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		t.Fatalf("SetSheetRow() error = %v", err)
	}
	for i := 0; i < n; i++ {
		row := []interface{}{"Which is a fruit?", "apple", "chair", "table", "door", "A", "Apples grow on trees", "Táo mọc trên cây"}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("SetSheetRow() error = %v", err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer() error = %v", err)
	}
	return buf.Bytes()
}

// parserBackend plays the server-side parser and records create calls
type parserBackend struct {
	creates int32
}

func (p *parserBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case strings.HasPrefix(r.URL.Path, "/questions/import/"):
		file, _, err := r.FormFile("file")
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer file.Close()
		book, err := excelize.OpenReader(file)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer book.Close()
		rows, _ := book.GetRows(book.GetSheetName(0))

		var questions []models.Question
		for _, row := range rows[1:] {
			correct := int(row[5][0] - 'A')
			q := models.Question{Content: row[0], Explanation: models.Localized{En: row[6], Vi: row[7]}}
			for i, text := range row[1:5] {
				q.Options = append(q.Options, models.Option{Text: text, IsCorrect: i == correct})
			}
			questions = append(questions, q)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "data": questions})
	case r.URL.Path == "/questions":
		atomic.AddInt32(&p.creates, 1)
		var input models.QuestionInput
		json.NewDecoder(r.Body).Decode(&input)
		json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "data": input.Questions})
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func newTestImporter(t *testing.T) (*Importer, *parserBackend, context.Context) {
	t.Helper()
	backend := &parserBackend{}
	server := httptest.NewServer(backend)
	t.Cleanup(server.Close)
	a := api.New(apiclient.New(server.URL, 5*time.Second))
	ctx := apiclient.WithTokens(context.Background(), staticTokens{})
	return New(a, a, NewStore(time.Hour), 5<<20), backend, ctx
}

func TestPreviewFiveRowSheet(t *testing.T) {
	im, backend, ctx := newTestImporter(t)
	sheet := buildMCSheet(t, 5)

	draft, err := im.Preview(ctx, "admin-1", KindMultipleChoice, "questions.xlsx", int64(len(sheet)), bytes.NewReader(sheet))
	if err != nil {
		t.Fatalf("Preview() error = %v", err)
	}
	if draft.Len() != 5 {
		t.Fatalf("Preview() rows = %d, want 5", draft.Len())
	}
	if opt, ok := draft.Questions[0].CorrectOption(); !ok || opt.Text != "apple" {
		t.Errorf("CorrectOption() = %+v, %v", opt, ok)
	}

	if _, err := im.Commit(ctx, "admin-1", KindMultipleChoice); !errors.Is(err, ErrNoLesson) {
		t.Errorf("Commit() without lesson error = %v, want ErrNoLesson", err)
	}
	if n := atomic.LoadInt32(&backend.creates); n != 0 {
		t.Errorf("create calls = %d, want 0", n)
	}
	if _, ok := im.Drafts().Get("admin-1", KindMultipleChoice); !ok {
		t.Error("draft should survive a failed save")
	}
}

func TestEditRemoveAndCommit(t *testing.T) {
	im, backend, ctx := newTestImporter(t)
	sheet := buildMCSheet(t, 3)
	if _, err := im.Preview(ctx, "admin-1", KindMultipleChoice, "q.xlsx", int64(len(sheet)), bytes.NewReader(sheet)); err != nil {
		t.Fatalf("Preview() error = %v", err)
	}

	err := im.Drafts().Update("admin-1", KindMultipleChoice, func(d *Draft) error {
		if err := d.RemoveRow(1); err != nil {
			return err
		}
		q := d.Questions[0]
		q.Content = "Pick the fruit"
		if err := d.UpdateQuestion(0, q); err != nil {
			return err
		}
		d.LessonID = "lesson-7"
		return nil
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	saved, err := im.Commit(ctx, "admin-1", KindMultipleChoice)
	if err != nil {
		t.Fatalf("Commit() error = %v", err)
	}
	if saved != 2 {
		t.Errorf("Commit() saved = %d, want 2", saved)
	}
	if atomic.LoadInt32(&backend.creates) != 1 {
		t.Errorf("create calls = %d, want 1", backend.creates)
	}
	if _, ok := im.Drafts().Get("admin-1", KindMultipleChoice); ok {
		t.Error("draft should be cleared after commit")
	}
}

func TestPreviewRejectsBadFilesWithoutRequest(t *testing.T) {
	requests := int32(0)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
	}))
	defer server.Close()
	a := api.New(apiclient.New(server.URL, 5*time.Second))
	im := New(a, a, NewStore(time.Hour), 1024)

	tests := []struct {
		name     string
		filename string
		size     int64
		wantErr  error
	}{
		{"csv", "words.csv", 10, ErrUnsupportedFile},
		{"no extension", "words", 10, ErrUnsupportedFile},
		{"too large", "words.xlsx", 4096, ErrFileTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := im.Preview(context.Background(), "admin-1", KindVocabulary, tt.filename, tt.size, strings.NewReader("x"))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Preview() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
	if n := atomic.LoadInt32(&requests); n != 0 {
		t.Errorf("requests = %d, want 0", n)
	}
}

func TestValidateUploadAcceptsLegacyFormat(t *testing.T) {
	if err := ValidateUpload("Words.XLS", 100, 1024); err != nil {
		t.Errorf("ValidateUpload(.XLS) error = %v", err)
	}
}

func TestEligibleLessons(t *testing.T) {
	lessons := []models.Lesson{
		{ID: "l1", GameTypes: []models.GameType{models.GameMultipleChoice}},
		{ID: "l2", GameTypes: []models.GameType{models.GameArrange}},
		{ID: "l3"},
	}

	got := EligibleLessons(lessons, models.GameMultipleChoice, 1)
	if len(got) != 2 || got[0].ID != "l2" || got[1].ID != "l3" {
		t.Errorf("EligibleLessons(MC, 1) = %+v", got)
	}
	if got := EligibleLessons(lessons, models.GameMultipleChoice, 2); len(got) != 3 {
		t.Errorf("EligibleLessons(MC, 2) len = %d, want 3", len(got))
	}
}

func TestDraftValidatePointsAtRow(t *testing.T) {
	d := &Draft{Kind: KindVocabulary, LessonID: "l1", Vocabulary: []models.Vocabulary{
		{Word: "apple", Meaning: models.Localized{En: "apple"}},
		{Word: "", Meaning: models.Localized{En: "pear"}},
	}}

	err := d.Validate()
	var rowErr RowError
	if !errors.As(err, &rowErr) || rowErr.Row != 1 {
		t.Errorf("Validate() error = %v, want RowError for row 1", err)
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{"multiple-choice", KindMultipleChoice, false},
		{"LS", KindListening, false},
		{"arrange", KindArrange, false},
		{"vocabulary", KindVocabulary, false},
		{"grammar", "", true},
	}

	for _, tt := range tests {
		got, err := ParseKind(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseKind(%q) = %v, %v", tt.in, got, err)
		}
	}
}
