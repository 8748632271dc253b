package validation

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode"

	"github.com/google/uuid"

	"github.com/ndewijer/papertrade/internal/apperrors"
	"github.com/ndewijer/papertrade/internal/model"
)

// Credential limits. bcrypt ignores everything past 72 bytes, so longer passwords are rejected.
const (
	MaxUsernameLength = 64
	MinPasswordLength = 4
	MaxPasswordLength = 72
	MaxLimit          = 1000
)

var symbolPattern = regexp.MustCompile(`^[A-Z0-9][A-Z0-9.\-]{0,15}$`)

// ValidateUUID checks if a string is a valid UUID
func ValidateUUID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: invalid UUID format: %s", apperrors.ErrValidation, id)
	}
	return nil
}

// NormalizeSymbol trims surrounding whitespace and upper-cases a ticker symbol.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// ValidateSymbol checks a normalized ticker symbol: 1 to 16 characters of
// letters, digits, '.' or '-', starting with a letter or digit.
func ValidateSymbol(symbol string) error {
	if !symbolPattern.MatchString(symbol) {
		return &Error{Fields: map[string]string{"symbol": fmt.Sprintf("invalid symbol: %q", symbol)}}
	}
	return nil
}

// ValidateOrder validates the inputs of a buy or sell before any store access.
//
// Rules:
//   - accountID: must not be empty
//   - symbol: see ValidateSymbol (expects a normalized symbol)
//   - quantity: must be positive
//   - price: must be a finite number >= 0
func ValidateOrder(accountID, symbol string, quantity int64, price float64) error {
	errs := make(map[string]string)

	if strings.TrimSpace(accountID) == "" {
		errs["accountId"] = "account ID is required"
	}

	if !symbolPattern.MatchString(symbol) {
		errs["symbol"] = fmt.Sprintf("invalid symbol: %q", symbol)
	}

	if quantity <= 0 {
		errs["quantity"] = "quantity must be positive"
	}

	if math.IsNaN(price) || math.IsInf(price, 0) {
		errs["price"] = "price must be a finite number"
	} else if price < 0 {
		errs["price"] = "price cannot be negative"
	}

	return result(errs)
}

// ValidateTradeKind checks that kind is buy or sell.
func ValidateTradeKind(kind model.TradeKind) error {
	if !kind.Valid() {
		return &Error{Fields: map[string]string{"type": fmt.Sprintf("invalid type: %s", kind)}}
	}
	return nil
}

// ValidateCredentials validates a signup request.
//
// Rules:
//   - username: 1 to 64 characters, no whitespace
//   - password: 4 to 72 bytes
func ValidateCredentials(username, password string) error {
	errs := make(map[string]string)

	switch {
	case username == "":
		errs["username"] = "username is required"
	case len(username) > MaxUsernameLength:
		errs["username"] = fmt.Sprintf("username cannot exceed %d characters", MaxUsernameLength)
	case strings.IndexFunc(username, unicode.IsSpace) >= 0:
		errs["username"] = "username cannot contain whitespace"
	}

	switch {
	case len(password) < MinPasswordLength:
		errs["password"] = fmt.Sprintf("password must be at least %d characters", MinPasswordLength)
	case len(password) > MaxPasswordLength:
		errs["password"] = fmt.Sprintf("password cannot exceed %d bytes", MaxPasswordLength)
	}

	return result(errs)
}

// ValidateLimit checks a list size requested by a caller. Zero means "use the default".
func ValidateLimit(limit int) error {
	if limit < 0 || limit > MaxLimit {
		return &Error{Fields: map[string]string{"limit": fmt.Sprintf("limit must be between 0 and %d", MaxLimit)}}
	}
	return nil
}
