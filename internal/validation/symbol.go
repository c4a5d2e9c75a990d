// Package validation provides input validation for API parameters.
package validation

import (
	"fmt"

	"github.com/rai-openclaw/mission-control/internal/apperrors"
)

// maxSymbolLength bounds ticker and crypto symbol parameters.
const maxSymbolLength = 20

// ValidateSymbol checks that a symbol parameter is present and uses the
// ticker alphabet (letters, digits, dot, dash).
func ValidateSymbol(symbol string) error {
	if symbol == "" {
		return apperrors.ErrSymbolRequired
	}
	if len(symbol) > maxSymbolLength {
		return fmt.Errorf("%w: longer than %d characters", apperrors.ErrInvalidSymbol, maxSymbolLength)
	}
	for _, r := range symbol {
		switch {
		case r >= 'A' && r <= 'Z':
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9':
		case r == '.' || r == '-':
		default:
			return fmt.Errorf("%w: character %q not allowed", apperrors.ErrInvalidSymbol, r)
		}
	}
	return nil
}
