package handlers

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"lingoplay/internal/api"
	"lingoplay/internal/models"
	"lingoplay/internal/queries"
	"lingoplay/internal/validation"
	"lingoplay/internal/views"
)

const minOptionSlots = 4

// ContentHandler handles the vocabulary and question admin screens
type ContentHandler struct {
	rd      *Renderer
	queries *queries.Queries
}

// NewContentHandler creates a new content handler
func NewContentHandler(rd *Renderer, q *queries.Queries) *ContentHandler {
	return &ContentHandler{rd: rd, queries: q}
}

// ShowVocabularies lists vocabulary with the create or edit form
func (h *ContentHandler) ShowVocabularies(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	search := strings.TrimSpace(query.Get("search"))
	lessonID := query.Get("lessonId")

	vocab, err := h.queries.Vocabularies(r.Context(), api.VocabularyFilter{
		LessonID: lessonID,
		Search:   search,
		Page:     pageParam(r),
		Limit:    adminPageSize,
	})
	if err != nil {
		h.rd.pageLoadFailed(w, r, "Failed to load vocabulary", err)
		return
	}

	data := AdminVocabulariesViewData{
		Vocabularies: vocab.Items,
		Pagination:   vocab.Pagination,
		Lessons:      lessonChoices(h.queries, r),
		LessonID:     lessonID,
		Search:       search,
	}
	if id := query.Get("edit"); id != "" {
		item, found := lo.Find(vocab.Items, func(v models.Vocabulary) bool { return v.ID == id })
		if !found {
			h.rd.Flash(w, r, views.ToastError, "Word not found on this page")
			http.Redirect(w, r, "/admin/vocabularies", http.StatusSeeOther)
			return
		}
		data.Editing = &item
		data.ShowForm = true
	} else if query.Get("new") != "" {
		data.Editing = &models.Vocabulary{LessonID: lessonID}
		data.ShowForm = true
	}

	data.Page = h.rd.Page(w, r, pageTitle("Vocabulary"))
	h.rd.Render(w, "admin_vocabularies.tmpl", data)
}

func vocabularyFromForm(r *http.Request) models.Vocabulary {
	return models.Vocabulary{
		Word: strings.TrimSpace(r.FormValue("word")),
		Meaning: models.Localized{
			En: strings.TrimSpace(r.FormValue("meaning_en")),
			Vi: strings.TrimSpace(r.FormValue("meaning_vi")),
		},
		Pronunciation: strings.TrimSpace(r.FormValue("pronunciation")),
		LessonID:      r.FormValue("lesson_id"),
	}
}

// SaveVocabulary creates a word, or updates one when the path carries an id
func (h *ContentHandler) SaveVocabulary(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	item := vocabularyFromForm(r)

	if err := validation.ValidateVocabulary(item); err != nil {
		h.rd.Flash(w, r, views.ToastError, err.Error())
		http.Redirect(w, r, editURL("/admin/vocabularies", id), http.StatusSeeOther)
		return
	}

	var err error
	if id == "" {
		_, err = h.queries.CreateVocabularies(r.Context(), []models.Vocabulary{item})
	} else {
		_, err = h.queries.UpdateVocabulary(r.Context(), id, item)
	}
	if err != nil {
		h.rd.failAndRedirect(w, r, editURL("/admin/vocabularies", id), "Failed to save vocabulary", err)
		return
	}

	h.rd.Flash(w, r, views.ToastSuccess, "Word saved")
	http.Redirect(w, r, "/admin/vocabularies", http.StatusSeeOther)
}

// DeleteVocabulary removes a word
func (h *ContentHandler) DeleteVocabulary(w http.ResponseWriter, r *http.Request) {
	if err := h.queries.DeleteVocabulary(r.Context(), r.PathValue("id")); err != nil {
		h.rd.failAndRedirect(w, r, "/admin/vocabularies", "Failed to delete vocabulary", err)
		return
	}
	h.rd.Flash(w, r, views.ToastSuccess, "Word deleted")
	http.Redirect(w, r, "/admin/vocabularies", http.StatusSeeOther)
}

// questionsURL is the question list of a mode, optionally narrowed to a lesson
func questionsURL(mode models.GameType, lessonID string, extra url.Values) string {
	v := url.Values{"mode": {mode.Slug()}}
	if lessonID != "" {
		v.Set("lessonId", lessonID)
	}
	for key, values := range extra {
		v[key] = values
	}
	return "/admin/games?" + v.Encode()
}

// ShowQuestions lists the questions of one mode with the create or edit form
func (h *ContentHandler) ShowQuestions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	mode := models.GameMultipleChoice
	if raw := query.Get("mode"); raw != "" {
		parsed, err := models.ParseGameType(raw)
		if err != nil {
			respondWithError(w, http.StatusNotFound, "Unknown game mode", "", nil)
			return
		}
		mode = parsed
	}
	lessonID := query.Get("lessonId")

	questions, err := h.queries.Questions(r.Context(), api.QuestionFilter{
		GameType: mode,
		LessonID: lessonID,
		Page:     pageParam(r),
		Limit:    adminPageSize,
	})
	if err != nil {
		h.rd.pageLoadFailed(w, r, "Failed to load questions", err)
		return
	}

	data := AdminQuestionsViewData{
		Questions:   questions.Items,
		Pagination:  questions.Pagination,
		GameTypes:   models.GameTypes,
		GameType:    mode,
		Lessons:     lessonChoices(h.queries, r),
		LessonID:    lessonID,
		OptionSlots: optionSlots(nil),
	}
	if id := query.Get("edit"); id != "" {
		q, found := lo.Find(questions.Items, func(q models.Question) bool { return q.ID == id })
		if !found {
			h.rd.Flash(w, r, views.ToastError, "Question not found on this page")
			http.Redirect(w, r, questionsURL(mode, lessonID, nil), http.StatusSeeOther)
			return
		}
		data.Editing = &q
		data.ShowForm = true
		data.OptionSlots = optionSlots(&q)
	} else if query.Get("new") != "" {
		data.Editing = &models.Question{LessonID: lessonID}
		data.ShowForm = true
	}

	data.Page = h.rd.Page(w, r, pageTitle(mode.Label()+" questions"))
	h.rd.Render(w, "admin_questions.tmpl", data)
}

// SaveQuestion creates a question for a mode, or updates one when the path
// carries an id
func (h *ContentHandler) SaveQuestion(w http.ResponseWriter, r *http.Request) {
	mode, err := models.ParseGameType(r.PathValue("mode"))
	if err != nil {
		respondWithError(w, http.StatusNotFound, "Unknown game mode", "", nil)
		return
	}
	id := r.PathValue("id")
	lessonID := r.FormValue("lesson_id")
	q := questionFromForm(r, mode)
	q.LessonID = lessonID

	back := questionsURL(mode, lessonID, url.Values{"new": {"1"}})
	if id != "" {
		back = questionsURL(mode, lessonID, url.Values{"edit": {id}})
	}

	if lessonID == "" {
		h.rd.Flash(w, r, views.ToastError, "Please select a lesson")
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}
	if err := validation.ValidateQuestion(mode, q); err != nil {
		h.rd.Flash(w, r, views.ToastError, err.Error())
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}

	if id == "" {
		_, err = h.queries.CreateQuestions(r.Context(), models.QuestionInput{
			LessonID:  lessonID,
			GameType:  mode,
			Questions: []models.Question{q},
		})
	} else {
		_, err = h.queries.UpdateQuestion(r.Context(), id, q)
	}
	if err != nil {
		h.rd.failAndRedirect(w, r, back, "Failed to save question", err)
		return
	}

	h.rd.Flash(w, r, views.ToastSuccess, "Question saved")
	http.Redirect(w, r, questionsURL(mode, lessonID, nil), http.StatusSeeOther)
}

// DeleteQuestion removes a question
func (h *ContentHandler) DeleteQuestion(w http.ResponseWriter, r *http.Request) {
	mode, err := models.ParseGameType(r.PathValue("mode"))
	if err != nil {
		respondWithError(w, http.StatusNotFound, "Unknown game mode", "", nil)
		return
	}
	back := questionsURL(mode, r.FormValue("lesson_id"), nil)
	if err := h.queries.DeleteQuestion(r.Context(), r.PathValue("id")); err != nil {
		h.rd.failAndRedirect(w, r, back, "Failed to delete question", err)
		return
	}
	h.rd.Flash(w, r, views.ToastSuccess, "Question deleted")
	http.Redirect(w, r, back, http.StatusSeeOther)
}

// questionFromForm reads the question fields shared by the question form and
// the import row editor. Options are option_N text fields; correct holds the
// index of the right one.
func questionFromForm(r *http.Request, mode models.GameType) models.Question {
	q := models.Question{
		Content:  strings.TrimSpace(r.FormValue("content")),
		MediaURL: strings.TrimSpace(r.FormValue("media_url")),
		ImageURL: strings.TrimSpace(r.FormValue("image_url")),
		Explanation: models.Localized{
			En: strings.TrimSpace(r.FormValue("explanation_en")),
			Vi: strings.TrimSpace(r.FormValue("explanation_vi")),
		},
	}

	if mode == models.GameArrange {
		q.Words = strings.Fields(r.FormValue("sentence"))
		if q.Content == "" {
			q.Content = strings.Join(q.Words, " ")
		}
		return q
	}

	correct, err := strconv.Atoi(r.FormValue("correct"))
	if err != nil {
		correct = -1
	}
	for i := 0; ; i++ {
		field := fmt.Sprintf("option_%d", i)
		if _, present := r.Form[field]; !present {
			break
		}
		text := strings.TrimSpace(r.FormValue(field))
		if text == "" {
			continue
		}
		q.Options = append(q.Options, models.Option{
			ID:        r.FormValue(fmt.Sprintf("option_id_%d", i)),
			Text:      text,
			IsCorrect: i == correct,
		})
	}
	return q
}

// optionSlots is the number of option inputs a question form shows
func optionSlots(q *models.Question) []int {
	n := minOptionSlots
	if q != nil && len(q.Options) > n {
		n = len(q.Options)
	}
	return lo.Range(n)
}
