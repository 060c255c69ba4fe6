package handlers

import (
	"fmt"
	"log"
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

// GameTypeCaps stores the per-mode limit used when choosing import lessons
type GameTypeCaps interface {
	GameTypeCap(t models.GameType, defaultCap int) int
	SetGameTypeCap(t models.GameType, limit int) error
}

// AdminHandler handles the admin dashboard and the lesson, user and topic screens
type AdminHandler struct {
	rd         *Renderer
	queries    *queries.Queries
	caps       GameTypeCaps
	defaultCap int
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(rd *Renderer, q *queries.Queries, caps GameTypeCaps, defaultCap int) *AdminHandler {
	return &AdminHandler{
		rd:         rd,
		queries:    q,
		caps:       caps,
		defaultCap: defaultCap,
	}
}

// ShowDashboard displays entity counts and the per-mode caps
func (h *AdminHandler) ShowDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	lessons, err := h.queries.Lessons(ctx, api.LessonFilter{Page: 1, Limit: 1})
	if err != nil {
		h.rd.pageLoadFailed(w, r, "Failed to count lessons", err)
		return
	}
	users, err := h.queries.Users(ctx, api.UserFilter{Page: 1, Limit: 1})
	if err != nil {
		h.rd.pageLoadFailed(w, r, "Failed to count users", err)
		return
	}
	vocab, err := h.queries.Vocabularies(ctx, api.VocabularyFilter{Page: 1, Limit: 1})
	if err != nil {
		h.rd.pageLoadFailed(w, r, "Failed to count vocabulary", err)
		return
	}
	topics, err := h.queries.Topics(ctx)
	if err != nil {
		h.rd.pageLoadFailed(w, r, "Failed to count topics", err)
		return
	}

	h.rd.Render(w, "admin_dashboard.tmpl", AdminDashboardViewData{
		Page: h.rd.Page(w, r, pageTitle("Admin")),
		Counts: []AdminCount{
			{Label: "Lessons", Count: lessons.Pagination.Total, URL: "/admin/lessons"},
			{Label: "Users", Count: users.Pagination.Total, URL: "/admin/users"},
			{Label: "Vocabulary", Count: vocab.Pagination.Total, URL: "/admin/vocabularies"},
			{Label: "Topics", Count: len(topics), URL: "/admin/topics"},
		},
		Caps: lo.Map(models.GameTypes, func(t models.GameType, _ int) GameTypeCapView {
			return GameTypeCapView{Type: t, Cap: h.caps.GameTypeCap(t, h.defaultCap)}
		}),
	})
}

// UpdateCaps saves the per-mode caps
func (h *AdminHandler) UpdateCaps(w http.ResponseWriter, r *http.Request) {
	for _, t := range models.GameTypes {
		raw := strings.TrimSpace(r.FormValue("cap_" + string(t)))
		if raw == "" {
			continue
		}
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			h.rd.Flash(w, r, views.ToastError, fmt.Sprintf("%s cap must be a positive number", t.Label()))
			http.Redirect(w, r, "/admin", http.StatusSeeOther)
			return
		}
		if err := h.caps.SetGameTypeCap(t, limit); err != nil {
			respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to save cap", err)
			return
		}
	}
	h.rd.Flash(w, r, views.ToastSuccess, "Settings saved")
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// ShowLessons lists lessons with the create or edit form
func (h *AdminHandler) ShowLessons(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	search := strings.TrimSpace(query.Get("search"))

	lessons, err := h.queries.Lessons(r.Context(), api.LessonFilter{Search: search, Page: pageParam(r), Limit: adminPageSize})
	if err != nil {
		h.rd.pageLoadFailed(w, r, "Failed to load lessons", err)
		return
	}

	data := AdminLessonsViewData{
		Lessons:    lessons.Items,
		Pagination: lessons.Pagination,
		Levels:     models.Levels,
		Search:     search,
	}
	if id := query.Get("edit"); id != "" {
		lesson, found := lo.Find(lessons.Items, func(l models.Lesson) bool { return l.ID == id })
		if !found {
			loaded, err := h.queries.Lesson(r.Context(), id)
			if err != nil {
				h.rd.pageLoadFailed(w, r, "Failed to load lesson", err)
				return
			}
			lesson = *loaded
		}
		data.Editing = &lesson
		data.ShowForm = true
	} else if query.Get("new") != "" {
		data.Editing = &models.Lesson{Level: models.LevelBeginner}
		data.ShowForm = true
	}

	data.Page = h.rd.Page(w, r, pageTitle("Lessons"))
	h.rd.Render(w, "admin_lessons.tmpl", data)
}

func lessonInputFromForm(r *http.Request) models.LessonInput {
	return models.LessonInput{
		Title:       strings.TrimSpace(r.FormValue("title")),
		Description: strings.TrimSpace(r.FormValue("description")),
		Level:       models.Level(r.FormValue("level")),
		Content:     r.FormValue("content"),
		VideoURL:    strings.TrimSpace(r.FormValue("video_url")),
	}
}

// SaveLesson creates a lesson, or updates one when the path carries an id
func (h *AdminHandler) SaveLesson(w http.ResponseWriter, r *http.Request) {
	input := lessonInputFromForm(r)
	id := r.PathValue("id")

	if err := validation.ValidateLesson(input); err != nil {
		h.rd.Flash(w, r, views.ToastError, err.Error())
		http.Redirect(w, r, editURL("/admin/lessons", id), http.StatusSeeOther)
		return
	}

	var err error
	if id == "" {
		_, err = h.queries.CreateLesson(r.Context(), input)
	} else {
		_, err = h.queries.UpdateLesson(r.Context(), id, input)
	}
	if err != nil {
		h.rd.failAndRedirect(w, r, editURL("/admin/lessons", id), "Failed to save lesson", err)
		return
	}

	h.rd.Flash(w, r, views.ToastSuccess, "Lesson saved")
	http.Redirect(w, r, "/admin/lessons", http.StatusSeeOther)
}

// DeleteLesson removes a lesson
func (h *AdminHandler) DeleteLesson(w http.ResponseWriter, r *http.Request) {
	if err := h.queries.DeleteLesson(r.Context(), r.PathValue("id")); err != nil {
		h.rd.failAndRedirect(w, r, "/admin/lessons", "Failed to delete lesson", err)
		return
	}
	h.rd.Flash(w, r, views.ToastSuccess, "Lesson deleted")
	http.Redirect(w, r, "/admin/lessons", http.StatusSeeOther)
}

// ShowUsers lists accounts with the create or edit form
func (h *AdminHandler) ShowUsers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	search := strings.TrimSpace(query.Get("search"))
	role := query.Get("role")
	if !lo.Contains([]models.Role{models.RoleUser, models.RoleAdmin}, models.Role(role)) {
		role = ""
	}

	users, err := h.queries.Users(r.Context(), api.UserFilter{
		Search: search,
		Role:   models.Role(role),
		Page:   pageParam(r),
		Limit:  adminPageSize,
	})
	if err != nil {
		h.rd.pageLoadFailed(w, r, "Failed to load users", err)
		return
	}

	data := AdminUsersViewData{
		Users:      users.Items,
		Pagination: users.Pagination,
		Roles:      []models.Role{models.RoleUser, models.RoleAdmin},
		Search:     search,
		Role:       role,
	}
	if id := query.Get("edit"); id != "" {
		user, found := lo.Find(users.Items, func(u models.User) bool { return u.ID == id })
		if !found {
			h.rd.Flash(w, r, views.ToastError, "User not found on this page")
			http.Redirect(w, r, "/admin/users", http.StatusSeeOther)
			return
		}
		data.Editing = &user
		data.ShowForm = true
	} else if query.Get("new") != "" {
		data.Editing = &models.User{Role: models.RoleUser}
		data.ShowForm = true
	}

	data.Page = h.rd.Page(w, r, pageTitle("Users"))
	h.rd.Render(w, "admin_users.tmpl", data)
}

// SaveUser creates an account, or updates one when the path carries an id
func (h *AdminHandler) SaveUser(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	input := models.UserInput{
		Name:     strings.TrimSpace(r.FormValue("name")),
		Email:    strings.TrimSpace(r.FormValue("email")),
		Role:     models.Role(r.FormValue("role")),
		Password: r.FormValue("password"),
	}
	if input.Role != models.RoleAdmin {
		input.Role = models.RoleUser
	}

	if err := validation.ValidateUserInput(input, id == ""); err != nil {
		h.rd.Flash(w, r, views.ToastError, err.Error())
		http.Redirect(w, r, editURL("/admin/users", id), http.StatusSeeOther)
		return
	}

	var err error
	if id == "" {
		_, err = h.queries.CreateUser(r.Context(), input)
	} else {
		_, err = h.queries.UpdateUser(r.Context(), id, input)
	}
	if err != nil {
		h.rd.failAndRedirect(w, r, editURL("/admin/users", id), "Failed to save user", err)
		return
	}

	h.rd.Flash(w, r, views.ToastSuccess, "User saved")
	http.Redirect(w, r, "/admin/users", http.StatusSeeOther)
}

// DeleteUser removes an account
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.queries.DeleteUser(r.Context(), r.PathValue("id")); err != nil {
		h.rd.failAndRedirect(w, r, "/admin/users", "Failed to delete user", err)
		return
	}
	h.rd.Flash(w, r, views.ToastSuccess, "User deleted")
	http.Redirect(w, r, "/admin/users", http.StatusSeeOther)
}

// ShowTopics lists topics with the create or edit form
func (h *AdminHandler) ShowTopics(w http.ResponseWriter, r *http.Request) {
	topics, err := h.queries.Topics(r.Context())
	if err != nil {
		h.rd.pageLoadFailed(w, r, "Failed to load topics", err)
		return
	}

	data := AdminTopicsViewData{
		Topics:    topics,
		GameTypes: models.GameTypes,
	}
	query := r.URL.Query()
	if id := query.Get("edit"); id != "" {
		topic, found := lo.Find(topics, func(t models.Topic) bool { return t.ID == id })
		if !found {
			respondWithError(w, http.StatusNotFound, "Topic not found", "", nil)
			return
		}
		data.Editing = &topic
		data.ShowForm = true
	} else if query.Get("new") != "" {
		data.Editing = &models.Topic{GameType: models.GameMultipleChoice}
		data.ShowForm = true
	}

	data.Page = h.rd.Page(w, r, pageTitle("Topics"))
	h.rd.Render(w, "admin_topics.tmpl", data)
}

// SaveTopic creates a topic, or updates one when the path carries an id
func (h *AdminHandler) SaveTopic(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	topic := models.Topic{
		Name:        strings.TrimSpace(r.FormValue("name")),
		Description: strings.TrimSpace(r.FormValue("description")),
		GameType:    models.GameType(r.FormValue("game_type")),
	}

	if err := validation.ValidateTopic(topic); err != nil {
		h.rd.Flash(w, r, views.ToastError, err.Error())
		http.Redirect(w, r, editURL("/admin/topics", id), http.StatusSeeOther)
		return
	}

	var err error
	if id == "" {
		_, err = h.queries.CreateTopic(r.Context(), topic)
	} else {
		_, err = h.queries.UpdateTopic(r.Context(), id, topic)
	}
	if err != nil {
		h.rd.failAndRedirect(w, r, editURL("/admin/topics", id), "Failed to save topic", err)
		return
	}

	h.rd.Flash(w, r, views.ToastSuccess, "Topic saved")
	http.Redirect(w, r, "/admin/topics", http.StatusSeeOther)
}

// DeleteTopic removes a topic
func (h *AdminHandler) DeleteTopic(w http.ResponseWriter, r *http.Request) {
	if err := h.queries.DeleteTopic(r.Context(), r.PathValue("id")); err != nil {
		h.rd.failAndRedirect(w, r, "/admin/topics", "Failed to delete topic", err)
		return
	}
	h.rd.Flash(w, r, views.ToastSuccess, "Topic deleted")
	http.Redirect(w, r, "/admin/topics", http.StatusSeeOther)
}

// editURL reopens the form a failed save came from
func editURL(base, id string) string {
	if id == "" {
		return base + "?new=1"
	}
	return base + "?" + url.Values{"edit": {id}}.Encode()
}

// lessonChoices loads the lessons offered in admin dropdowns
func lessonChoices(h *queries.Queries, r *http.Request) []models.Lesson {
	lessons, err := h.Lessons(r.Context(), api.LessonFilter{Page: 1, Limit: 100})
	if err != nil {
		log.Printf("Failed to load lesson choices: %v", err)
		return nil
	}
	return lessons.Items
}
