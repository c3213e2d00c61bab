package errors

import (
	"testing"
)

func TestValidatePositive(t *testing.T) {
	tests := []struct {
		name    string
		value   int
		wantErr bool
	}{
		{"one", 1, false},
		{"large", 1_000_000, false},
		{"zero", 0, true},
		{"negative", -5, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePositive("max_iterations", tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePositive(%d) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidOption) {
				t.Errorf("ValidatePositive(%d) code = %v, want %v", tt.value, GetCode(err), ErrCodeInvalidOption)
			}
		})
	}
}

func TestValidateCapacities(t *testing.T) {
	tests := []struct {
		name    string
		input   []int
		wantErr bool
	}{
		{"default range", []int{7, 8, 9, 10}, false},
		{"single", []int{1}, false},
		{"duplicates allowed", []int{5, 5}, false},

		{"nil", nil, true},
		{"empty", []int{}, true},
		{"zero", []int{7, 0}, true},
		{"negative", []int{-1}, true},
		{"too many", make([]int, 65), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCapacities(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCapacities(%v) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateRunID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"canonical", "6ba7b810-9dad-11d1-80b4-00c04fd430c8", false},

		{"empty", "", true},
		{"garbage", "not-a-uuid", true},
		{"path traversal", "../../etc/passwd", true},
		{"braced", "{6ba7b810-9dad-11d1-80b4-00c04fd430c8}", true},
		{"urn", "urn:uuid:6ba7b810-9dad-11d1-80b4-00c04fd430c8", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRunID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRunID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"relative", "examples/boxes.txt", false},
		{"absolute", "/tmp/boxes.txt", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 5000)), true},
		{"null byte", "boxes\x00.txt", true},
		{"newline", "boxes\n.txt", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
