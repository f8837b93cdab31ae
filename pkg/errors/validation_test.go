package errors

import (
	"strings"
	"testing"
)

func TestValidateFileID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"uuid", "3f2b8c1e-5d7a-4c2e-9b1f-0a6d4e8c2b7a", false},
		{"simple", "crackme", false},
		{"with dot", "a.out", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 129), true},
		{"dot", ".", true},
		{"dot dot", "..", true},
		{"traversal", "a..b", true},
		{"slash", "a/b", true},
		{"backslash", "a\\b", true},
		{"null byte", "a\x00b", true},
		{"newline", "a\nb", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFileID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFileID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPath) {
				t.Errorf("ValidateFileID(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidPath)
			}
		})
	}
}
