package repository

import (
	"database/sql"
	"fmt"
	"time"

	"lingoplay/internal/database"
	"lingoplay/internal/models"
	"lingoplay/internal/security"
)

// ClientSessionRepository persists browser sessions. Tokens are sealed at rest.
type ClientSessionRepository struct {
	db     *database.DB
	sealer *security.Sealer
}

// NewClientSessionRepository creates a new client session repository
func NewClientSessionRepository(db *database.DB, sealer *security.Sealer) *ClientSessionRepository {
	return &ClientSessionRepository{db: db, sealer: sealer}
}

// CreateSession inserts a new session row
func (r *ClientSessionRepository) CreateSession(session *models.ClientSession) error {
	access, refresh, err := r.sealTokens(session.AccessToken, session.RefreshToken)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO client_sessions (id, access_token, refresh_token, locale, last_checkin, last_skip, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.Exec(query, session.ID, access, refresh, session.Locale,
		session.LastCheckIn, session.LastSkip, session.CreatedAt, session.ExpiresAt)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// GetSession retrieves a session by ID, or nil when none exists
func (r *ClientSessionRepository) GetSession(sessionID string) (*models.ClientSession, error) {
	query := `
		SELECT id, access_token, refresh_token, locale, last_checkin, last_skip, created_at, expires_at
		FROM client_sessions
		WHERE id = ?
	`
	session := &models.ClientSession{}
	var access, refresh string
	err := r.db.QueryRow(query, sessionID).Scan(
		&session.ID,
		&access,
		&refresh,
		&session.Locale,
		&session.LastCheckIn,
		&session.LastSkip,
		&session.CreatedAt,
		&session.ExpiresAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	// A token sealed under a rotated secret is treated as signed out
	if session.AccessToken, err = r.sealer.Open(access); err != nil {
		session.AccessToken = ""
	}
	if session.RefreshToken, err = r.sealer.Open(refresh); err != nil {
		session.RefreshToken = ""
	}

	return session, nil
}

// UpdateTokens stores a new token pair
func (r *ClientSessionRepository) UpdateTokens(sessionID, accessToken, refreshToken string) error {
	access, refresh, err := r.sealTokens(accessToken, refreshToken)
	if err != nil {
		return err
	}
	return r.exec("update tokens", "UPDATE client_sessions SET access_token = ?, refresh_token = ? WHERE id = ?",
		access, refresh, sessionID)
}

// UpdateAccessToken replaces only the access token
func (r *ClientSessionRepository) UpdateAccessToken(sessionID, accessToken string) error {
	access, err := r.sealer.Seal(accessToken)
	if err != nil {
		return fmt.Errorf("failed to seal access token: %w", err)
	}
	return r.exec("update access token", "UPDATE client_sessions SET access_token = ? WHERE id = ?", access, sessionID)
}

// ClearTokens signs the browser out while keeping its locale and stamps
func (r *ClientSessionRepository) ClearTokens(sessionID string) error {
	return r.exec("clear tokens", "UPDATE client_sessions SET access_token = '', refresh_token = '' WHERE id = ?", sessionID)
}

// SetLocale stores the locale preference
func (r *ClientSessionRepository) SetLocale(sessionID, locale string) error {
	return r.exec("set locale", "UPDATE client_sessions SET locale = ? WHERE id = ?", locale, sessionID)
}

// MarkCheckIn stamps the day of the last daily check-in
func (r *ClientSessionRepository) MarkCheckIn(sessionID, day string) error {
	return r.exec("mark check-in", "UPDATE client_sessions SET last_checkin = ? WHERE id = ?", day, sessionID)
}

// MarkSkip stamps the day the check-in prompt was dismissed
func (r *ClientSessionRepository) MarkSkip(sessionID, day string) error {
	return r.exec("mark skip", "UPDATE client_sessions SET last_skip = ? WHERE id = ?", day, sessionID)
}

// DeleteSession removes a session from the database
func (r *ClientSessionRepository) DeleteSession(sessionID string) error {
	return r.exec("delete session", "DELETE FROM client_sessions WHERE id = ?", sessionID)
}

// DeleteExpiredSessions removes all expired sessions
func (r *ClientSessionRepository) DeleteExpiredSessions() error {
	return r.exec("delete expired sessions", "DELETE FROM client_sessions WHERE expires_at < ?", time.Now())
}

func (r *ClientSessionRepository) sealTokens(accessToken, refreshToken string) (string, string, error) {
	access, err := r.sealer.Seal(accessToken)
	if err != nil {
		return "", "", fmt.Errorf("failed to seal access token: %w", err)
	}
	refresh, err := r.sealer.Seal(refreshToken)
	if err != nil {
		return "", "", fmt.Errorf("failed to seal refresh token: %w", err)
	}
	return access, refresh, nil
}

func (r *ClientSessionRepository) exec(action, query string, args ...interface{}) error {
	if _, err := r.db.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to %s: %w", action, err)
	}
	return nil
}
