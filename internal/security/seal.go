package security

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// ErrInvalidSealedValue is returned when a stored value cannot be opened
var ErrInvalidSealedValue = errors.New("invalid sealed value")

// Sealer encrypts API tokens before they are written to the session table.
type Sealer struct {
	aead cipher.AEAD
}

// NewSealer derives a 32-byte AES key from secret with HKDF-SHA256
func NewSealer(secret string) (*Sealer, error) {
	if secret == "" {
		return nil, errors.New("sealer secret is required")
	}

	key := make([]byte, 32)
	h := hkdf.New(sha256.New, []byte(secret), nil, []byte("lingoplay-token-seal"))
	if _, err := io.ReadFull(h, key); err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &Sealer{aead: gcm}, nil
}

// Seal encrypts plaintext as base64(nonce || ciphertext). Empty stays empty.
func (s *Sealer) Seal(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}
	nonce := make([]byte, s.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}
	ct := s.aead.Seal(nil, nonce, []byte(plaintext), nil)
	return base64.RawURLEncoding.EncodeToString(append(nonce, ct...)), nil
}

// Open reverses Seal
func (s *Sealer) Open(sealed string) (string, error) {
	if sealed == "" {
		return "", nil
	}
	blob, err := base64.RawURLEncoding.DecodeString(sealed)
	if err != nil {
		return "", ErrInvalidSealedValue
	}
	ns := s.aead.NonceSize()
	if len(blob) < ns {
		return "", ErrInvalidSealedValue
	}
	pt, err := s.aead.Open(nil, blob[:ns], blob[ns:], nil)
	if err != nil {
		return "", ErrInvalidSealedValue
	}
	return string(pt), nil
}
