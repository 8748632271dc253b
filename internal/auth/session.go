package auth

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fernet/fernet-go"

	"github.com/ndewijer/papertrade/internal/apperrors"
)

// DefaultSessionTTL is how long an issued session token stays valid.
const DefaultSessionTTL = 24 * time.Hour

// Sessions issues and verifies fernet tokens carrying an account ID.
type Sessions struct {
	key *fernet.Key
	ttl time.Duration
}

// NewSessions creates a session issuer from a base64 encoded fernet key.
func NewSessions(encodedKey string, ttl time.Duration) (*Sessions, error) {
	key, err := fernet.DecodeKey(strings.TrimSpace(encodedKey))
	if err != nil {
		return nil, fmt.Errorf("invalid session key: %w", err)
	}
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Sessions{key: key, ttl: ttl}, nil
}

// GenerateKey returns a new random fernet key in its encoded form.
func GenerateKey() (string, error) {
	var key fernet.Key
	if err := key.Generate(); err != nil {
		return "", fmt.Errorf("failed to generate session key: %w", err)
	}
	return key.Encode(), nil
}

// LoadOrCreateKey reads the encoded key stored at path, generating and
// storing a new one (mode 0600) when the file does not exist.
func LoadOrCreateKey(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		return strings.TrimSpace(string(data)), nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("failed to read session key: %w", err)
	}

	key, err := GenerateKey()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return "", fmt.Errorf("failed to create session key directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(key+"\n"), 0o600); err != nil {
		return "", fmt.Errorf("failed to write session key: %w", err)
	}
	return key, nil
}

// Issue returns a token for accountID.
func (s *Sessions) Issue(accountID string) (string, error) {
	tok, err := fernet.EncryptAndSign([]byte(accountID), s.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return string(tok), nil
}

// Verify returns the account ID carried by token.
// Expired, tampered or foreign tokens yield apperrors.ErrSessionInvalid.
func (s *Sessions) Verify(token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", apperrors.ErrSessionInvalid
	}

	msg := fernet.VerifyAndDecrypt([]byte(token), s.ttl, []*fernet.Key{s.key})
	if len(msg) == 0 {
		return "", apperrors.ErrSessionInvalid
	}
	return string(msg), nil
}
