// Package validation holds the form checks run before any request is sent.
package validation

import (
	"fmt"
	"regexp"
	"strings"

	"lingoplay/internal/models"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	otpRegex   = regexp.MustCompile(`^[0-9]{6}$`)
)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Required checks that value is not blank
func Required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return ValidationError{Field: field, Message: field + " is required"}
	}
	return nil
}

// ValidateEmail checks if an email address is valid
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ValidationError{Field: "email", Message: "email is required"}
	}
	if !emailRegex.MatchString(email) {
		return ValidationError{Field: "email", Message: "invalid email format"}
	}
	return nil
}

// ValidatePassword checks if a password meets requirements
func ValidatePassword(password string) error {
	if password == "" {
		return ValidationError{Field: "password", Message: "password is required"}
	}
	if len(password) < 8 {
		return ValidationError{Field: "password", Message: "password must be at least 8 characters"}
	}
	return nil
}

// ValidateName checks if a name is valid
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ValidationError{Field: "name", Message: "name is required"}
	}
	if len(name) < 2 {
		return ValidationError{Field: "name", Message: "name must be at least 2 characters"}
	}
	return nil
}

// ValidateOTP checks the six-digit reset code
func ValidateOTP(otp string) error {
	if !otpRegex.MatchString(strings.TrimSpace(otp)) {
		return ValidationError{Field: "otp", Message: "code must be 6 digits"}
	}
	return nil
}

// ValidateConfirmation checks that a repeated password matches
func ValidateConfirmation(password, confirm string) error {
	if password != confirm {
		return ValidationError{Field: "confirmPassword", Message: "passwords do not match"}
	}
	return nil
}

// ValidatePasswordChange checks the change-password form
func ValidatePasswordChange(change models.PasswordChange) error {
	if err := Required("currentPassword", change.CurrentPassword); err != nil {
		return err
	}
	if err := ValidatePassword(change.NewPassword); err != nil {
		return err
	}
	return ValidateConfirmation(change.NewPassword, change.ConfirmPassword)
}

// ValidateLesson checks the admin lesson form
func ValidateLesson(input models.LessonInput) error {
	if err := Required("title", input.Title); err != nil {
		return err
	}
	if !input.Level.Valid() {
		return ValidationError{Field: "level", Message: "choose a level"}
	}
	return nil
}

// ValidateUserInput checks the admin user form. Password is only required on create.
func ValidateUserInput(input models.UserInput, creating bool) error {
	if err := ValidateName(input.Name); err != nil {
		return err
	}
	if err := ValidateEmail(input.Email); err != nil {
		return err
	}
	if input.Role != models.RoleUser && input.Role != models.RoleAdmin {
		return ValidationError{Field: "role", Message: "choose a role"}
	}
	if creating || input.Password != "" {
		return ValidatePassword(input.Password)
	}
	return nil
}

// ValidateVocabulary checks one vocabulary row
func ValidateVocabulary(item models.Vocabulary) error {
	if err := Required("word", item.Word); err != nil {
		return err
	}
	if item.Meaning.IsZero() {
		return ValidationError{Field: "meaning", Message: "meaning is required"}
	}
	return nil
}

// ValidateTopic checks the admin topic form
func ValidateTopic(topic models.Topic) error {
	if err := Required("name", topic.Name); err != nil {
		return err
	}
	if !topic.GameType.Valid() {
		return ValidationError{Field: "gameType", Message: "choose a game type"}
	}
	return nil
}

// ValidateQuestion checks a question against the rules of its mode
func ValidateQuestion(gameType models.GameType, q models.Question) error {
	if gameType.IsChoice() {
		if err := Required("content", q.Content); err != nil {
			return err
		}
		if len(q.Options) < 2 {
			return ValidationError{Field: "options", Message: "at least two options are required"}
		}
		for _, opt := range q.Options {
			if strings.TrimSpace(opt.Text) == "" {
				return ValidationError{Field: "options", Message: "options cannot be blank"}
			}
		}
		if q.CorrectCount() != 1 {
			return ValidationError{Field: "options", Message: "exactly one option must be correct"}
		}
		if gameType == models.GameListening && strings.TrimSpace(q.MediaURL) == "" {
			return ValidationError{Field: "mediaUrl", Message: "audio is required"}
		}
		return nil
	}
	if len(q.Words) < 2 {
		return ValidationError{Field: "words", Message: "at least two words are required"}
	}
	return nil
}
