package shortid

import (
	"strings"
	"testing"
)

func TestGenerate(t *testing.T) {
	tests := []struct {
		name   string
		length int
	}{
		{"Length 6", 6},
		{"Length 8", 8},
		{"Length 10", 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Generate(tt.length)
			if err != nil {
				t.Errorf("Generate() error = %v", err)
				return
			}
			if len(result) != tt.length {
				t.Errorf("Generate() length = %v, want %v", len(result), tt.length)
			}

			for _, ch := range result {
				if !strings.ContainsRune(Alphabet, ch) {
					t.Errorf("Invalid character %c in generated code", ch)
				}
			}
		})
	}
}

func TestGenerate_Uniqueness(t *testing.T) {
	// Generate many codes and verify they're all different
	generated := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		code, err := Generate(8)
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}
		if generated[code] {
			t.Errorf("Duplicate code generated: %s", code)
		}
		generated[code] = true
	}
}
