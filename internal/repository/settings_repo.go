package repository

import (
	"fmt"
	"strconv"

	"lingoplay/internal/database"
	"lingoplay/internal/models"
)

type SettingsRepository struct {
	db *database.DB
}

func NewSettingsRepository(db *database.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// GetSetting retrieves a setting value by name
func (r *SettingsRepository) GetSetting(name string) (string, error) {
	var value string
	query := `SELECT value FROM settings WHERE name = ?`
	err := r.db.QueryRow(query, name).Scan(&value)
	return value, err
}

// SetSetting updates or inserts a setting
func (r *SettingsRepository) SetSetting(name, value string) error {
	query := r.db.Dialect.UpsertSettings()
	_, err := r.db.Exec(query, name, value)
	return err
}

func gameTypeCapKey(t models.GameType) string {
	return "game_type_cap." + string(t)
}

// GameTypeCap returns how many games of type t a lesson may hold before it
// stops being offered as an import target.
func (r *SettingsRepository) GameTypeCap(t models.GameType, defaultCap int) int {
	value, err := r.GetSetting(gameTypeCapKey(t))
	if err != nil {
		return defaultCap
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 {
		return defaultCap
	}
	return n
}

// SetGameTypeCap overrides the per-mode cap
func (r *SettingsRepository) SetGameTypeCap(t models.GameType, limit int) error {
	if limit < 1 {
		return fmt.Errorf("game type cap must be at least 1, got %d", limit)
	}
	return r.SetSetting(gameTypeCapKey(t), strconv.Itoa(limit))
}
