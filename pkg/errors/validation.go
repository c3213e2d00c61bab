package errors

import (
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// ValidatePositive checks that an integer option is strictly positive.
// The name is used verbatim in the error message (e.g. "max_iterations").
func ValidatePositive(name string, v int) error {
	if v <= 0 {
		return New(ErrCodeInvalidOption, "%s must be positive, got %d", name, v)
	}
	return nil
}

// ValidateCapacities validates the tabu queue capacities.
//
// Validation rules:
//   - At least one queue
//   - Every capacity strictly positive
//   - At most 64 queues
func ValidateCapacities(capacities []int) error {
	if len(capacities) == 0 {
		return New(ErrCodeInvalidOption, "at least one tabu capacity is required")
	}
	if len(capacities) > 64 {
		return New(ErrCodeInvalidOption, "too many tabu queues (max 64)")
	}
	for i, c := range capacities {
		if c <= 0 {
			return New(ErrCodeInvalidOption, "tabu capacity %d must be positive, got %d", i, c)
		}
	}
	return nil
}

// ValidateRunID checks that id is a canonical UUID string.
// Run IDs reach the stores from URLs and command-line arguments, and the file
// store uses them as file names.
func ValidateRunID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "run id cannot be empty")
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return Wrap(ErrCodeInvalidInput, err, "invalid run id %q", id)
	}
	if parsed.String() != strings.ToLower(id) {
		return New(ErrCodeInvalidInput, "run id must be in canonical form: %q", id)
	}
	return nil
}

// ValidatePath validates a local input file path.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}
	return nil
}
