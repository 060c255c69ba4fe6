package security

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
)

// CSRFFieldName is the hidden form field carrying the token
const CSRFFieldName = "csrf_token"

// CSRFHeaderName lets scripted requests send the token as a header
const CSRFHeaderName = "X-CSRF-Token"

var errMissingSession = errors.New("session ID is required")

// CSRFGenerator binds form tokens to the browser session ID with HMAC-SHA256.
// Any replica holding the same secret accepts the same tokens.
type CSRFGenerator struct {
	secret []byte
}

func NewCSRFGenerator(secret string) *CSRFGenerator {
	return &CSRFGenerator{secret: []byte("csrf:" + secret)}
}

func (g *CSRFGenerator) sum(sessionID string) []byte {
	mac := hmac.New(sha256.New, g.secret)
	mac.Write([]byte(sessionID))
	return mac.Sum(nil)
}

// GenerateToken returns the hex token rendered into forms for sessionID
func (g *CSRFGenerator) GenerateToken(sessionID string) (string, error) {
	if sessionID == "" {
		return "", errMissingSession
	}
	return hex.EncodeToString(g.sum(sessionID)), nil
}

// ValidateToken compares token against the session's token in constant time
func (g *CSRFGenerator) ValidateToken(sessionID, token string) bool {
	if sessionID == "" {
		return false
	}
	raw, err := hex.DecodeString(token)
	if err != nil || len(raw) == 0 {
		return false
	}
	return hmac.Equal(g.sum(sessionID), raw)
}

// ValidateRequest checks the token sent with r, header first, then the form.
// Multipart forms must already be parsed by the caller.
func (g *CSRFGenerator) ValidateRequest(r *http.Request, sessionID string) bool {
	token := r.Header.Get(CSRFHeaderName)
	if token == "" {
		token = r.FormValue(CSRFFieldName)
	}
	return g.ValidateToken(sessionID, token)
}
