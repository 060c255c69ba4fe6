package main

import (
	"path/filepath"
	"testing"
)

func TestLoadTemplates(t *testing.T) {
	tmpl, err := loadTemplates(filepath.Join("..", "..", "internal", "templates"))
	if err != nil {
		t.Fatalf("loadTemplates() error = %v", err)
	}

	pages := []string{
		"login.tmpl", "signup.tmpl", "forgot_password.tmpl", "verify_otp.tmpl", "reset_password.tmpl",
		"home.tmpl", "profile.tmpl", "lesson.tmpl", "lesson_video.tmpl", "games.tmpl", "quiz.tmpl",
		"admin_dashboard.tmpl", "admin_lessons.tmpl", "admin_users.tmpl", "admin_vocabularies.tmpl",
		"admin_topics.tmpl", "admin_questions.tmpl", "admin_import.tmpl",
		"header", "footer", "admin_header", "admin_footer", "pagination", "question_fields", "vocabulary_fields",
	}
	for _, name := range pages {
		if tmpl.Lookup(name) == nil {
			t.Errorf("template %q not defined", name)
		}
	}
}
