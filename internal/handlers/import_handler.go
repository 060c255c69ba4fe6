package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"github.com/samber/lo"

	"lingoplay/internal/apiclient"
	"lingoplay/internal/importer"
	"lingoplay/internal/models"
	"lingoplay/internal/queries"
	"lingoplay/internal/views"
	"lingoplay/internal/workbook"
)

// ImportHandler handles spreadsheet import previews for questions and vocabulary
type ImportHandler struct {
	rd         *Renderer
	importer   *importer.Importer
	queries    *queries.Queries
	caps       GameTypeCaps
	defaultCap int
	maxSize    int64
}

// NewImportHandler creates a new import handler
func NewImportHandler(rd *Renderer, im *importer.Importer, q *queries.Queries, caps GameTypeCaps, defaultCap int, maxSize int64) *ImportHandler {
	return &ImportHandler{
		rd:         rd,
		importer:   im,
		queries:    q,
		caps:       caps,
		defaultCap: defaultCap,
		maxSize:    maxSize,
	}
}

// importKind reads the kind from the path. Vocabulary routes carry no mode.
func importKind(r *http.Request) (importer.Kind, error) {
	mode := r.PathValue("mode")
	if mode == "" {
		return importer.KindVocabulary, nil
	}
	kind, err := importer.ParseKind(mode)
	if err != nil || kind == importer.KindVocabulary {
		return "", importer.ErrUnknownKind
	}
	return kind, nil
}

func importBase(kind importer.Kind) string {
	if kind == importer.KindVocabulary {
		return "/admin/vocabularies/import"
	}
	return "/admin/games/import/" + string(kind)
}

func (h *ImportHandler) kind(w http.ResponseWriter, r *http.Request) (importer.Kind, bool) {
	kind, err := importKind(r)
	if err != nil {
		respondWithError(w, http.StatusNotFound, "Unknown import type", "", nil)
		return "", false
	}
	return kind, true
}

func owner(r *http.Request) string {
	return currentSession(r.Context()).ID
}

// lessons returns the lessons a draft of kind may be saved to
func (h *ImportHandler) lessons(r *http.Request, kind importer.Kind) []models.Lesson {
	lessons := lessonChoices(h.queries, r)
	if t, ok := kind.GameType(); ok {
		return importer.EligibleLessons(lessons, t, h.caps.GameTypeCap(t, h.defaultCap))
	}
	return lessons
}

// ShowImport displays the upload form and the current draft, if any
func (h *ImportHandler) ShowImport(w http.ResponseWriter, r *http.Request) {
	kind, ok := h.kind(w, r)
	if !ok {
		return
	}

	data := AdminImportViewData{
		Kind:        kind,
		ActionBase:  importBase(kind),
		TemplateURL: importBase(kind) + "/template.xlsx",
		Lessons:     h.lessons(r, kind),
		MaxSize:     h.maxSize,
		EditRow:     -1,
		OptionSlots: optionSlots(nil),
	}
	data.GameType, _ = kind.GameType()
	if draft, found := h.importer.Drafts().Get(owner(r), kind); found {
		data.Draft = draft
		if row, err := strconv.Atoi(r.URL.Query().Get("edit")); err == nil && row >= 0 && row < draft.Len() {
			data.EditRow = row
			if row < len(draft.Questions) {
				data.OptionSlots = optionSlots(&draft.Questions[row])
			}
		}
	}

	data.Page = h.rd.Page(w, r, pageTitle("Import "+kind.Label()))
	h.rd.Render(w, "admin_import.tmpl", data)
}

// Upload sends the spreadsheet to the server parser and stores the preview
func (h *ImportHandler) Upload(w http.ResponseWriter, r *http.Request) {
	kind, ok := h.kind(w, r)
	if !ok {
		return
	}
	base := importBase(kind)

	file, header, err := r.FormFile("file")
	if err != nil {
		h.rd.Flash(w, r, views.ToastError, "Please choose a file to upload")
		http.Redirect(w, r, base, http.StatusSeeOther)
		return
	}
	defer file.Close()

	draft, err := h.importer.Preview(r.Context(), owner(r), kind, header.Filename, header.Size, file)
	if err != nil {
		switch {
		case errors.Is(err, importer.ErrUnsupportedFile), errors.Is(err, importer.ErrFileTooLarge):
			h.rd.Flash(w, r, views.ToastError, uploadMessage(err, h.maxSize))
			http.Redirect(w, r, base, http.StatusSeeOther)
		default:
			h.rd.failAndRedirect(w, r, base, "Import preview failed", err)
		}
		return
	}

	h.rd.Flash(w, r, views.ToastInfo, fmt.Sprintf("%d rows ready for review", draft.Len()))
	http.Redirect(w, r, base, http.StatusSeeOther)
}

func uploadMessage(err error, maxSize int64) string {
	if errors.Is(err, importer.ErrFileTooLarge) {
		return fmt.Sprintf("File is too large (limit %d MB)", maxSize>>20)
	}
	return "Only .xlsx and .xls files can be imported"
}

// EditRow replaces one preview row
func (h *ImportHandler) EditRow(w http.ResponseWriter, r *http.Request) {
	kind, ok := h.kind(w, r)
	if !ok {
		return
	}
	base := importBase(kind)

	row, err := strconv.Atoi(r.PathValue("row"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid row", "", nil)
		return
	}

	err = h.importer.Drafts().Update(owner(r), kind, func(d *importer.Draft) error {
		if t, ok := kind.GameType(); ok {
			return d.UpdateQuestion(row, questionFromForm(r, t))
		}
		return d.UpdateVocabulary(row, vocabularyFromForm(r))
	})
	if err != nil {
		log.Printf("Failed to edit import row %d: %v", row, err)
		h.rd.Flash(w, r, views.ToastError, "That row no longer exists")
	}
	http.Redirect(w, r, base, http.StatusSeeOther)
}

// RemoveRow drops one preview row
func (h *ImportHandler) RemoveRow(w http.ResponseWriter, r *http.Request) {
	kind, ok := h.kind(w, r)
	if !ok {
		return
	}

	row, err := strconv.Atoi(r.PathValue("row"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid row", "", nil)
		return
	}
	err = h.importer.Drafts().Update(owner(r), kind, func(d *importer.Draft) error {
		return d.RemoveRow(row)
	})
	if err != nil {
		log.Printf("Failed to remove import row %d: %v", row, err)
	}
	http.Redirect(w, r, importBase(kind), http.StatusSeeOther)
}

// Commit saves the reviewed draft against the selected lesson
func (h *ImportHandler) Commit(w http.ResponseWriter, r *http.Request) {
	kind, ok := h.kind(w, r)
	if !ok {
		return
	}
	base := importBase(kind)
	lessonID := r.FormValue("lesson_id")
	if lessonID != "" && !lo.ContainsBy(h.lessons(r, kind), func(l models.Lesson) bool { return l.ID == lessonID }) {
		h.rd.Flash(w, r, views.ToastError, ErrLessonNotEligible)
		http.Redirect(w, r, base, http.StatusSeeOther)
		return
	}

	err := h.importer.Drafts().Update(owner(r), kind, func(d *importer.Draft) error {
		d.LessonID = lessonID
		return nil
	})
	if err != nil {
		h.rd.Flash(w, r, views.ToastError, "Nothing to import, upload a file first")
		http.Redirect(w, r, base, http.StatusSeeOther)
		return
	}

	saved, err := h.importer.Commit(r.Context(), owner(r), kind)
	if err != nil {
		var rowErr importer.RowError
		switch {
		case errors.Is(err, importer.ErrNoLesson):
			h.rd.Flash(w, r, views.ToastError, importer.SelectLessonMessage)
		case errors.Is(err, importer.ErrEmptyDraft):
			h.rd.Flash(w, r, views.ToastError, "Nothing to import")
		case errors.As(err, &rowErr):
			h.rd.Flash(w, r, views.ToastError, rowErr.Error())
		case errors.Is(err, apiclient.ErrSessionExpired):
			h.rd.failAndRedirect(w, r, base, "Import commit failed", err)
			return
		default:
			log.Printf("Import commit failed: %v", err)
			h.rd.Flash(w, r, views.ToastError, apiclient.UserMessage(err))
		}
		http.Redirect(w, r, base, http.StatusSeeOther)
		return
	}

	h.rd.Flash(w, r, views.ToastSuccess, fmt.Sprintf("Imported %d rows", saved))
	if t, ok := kind.GameType(); ok {
		http.Redirect(w, r, questionsURL(t, lessonID, nil), http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/admin/vocabularies?"+url.Values{"lessonId": {lessonID}}.Encode(), http.StatusSeeOther)
}

// Discard drops the current draft
func (h *ImportHandler) Discard(w http.ResponseWriter, r *http.Request) {
	kind, ok := h.kind(w, r)
	if !ok {
		return
	}
	h.importer.Drafts().Delete(owner(r), kind)
	http.Redirect(w, r, importBase(kind), http.StatusSeeOther)
}

// Template downloads the spreadsheet layout for a kind
func (h *ImportHandler) Template(w http.ResponseWriter, r *http.Request) {
	kind, ok := h.kind(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", workbook.Filename(kind)))
	if err := workbook.Write(w, kind); err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to build template", err)
	}
}
