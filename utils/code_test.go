package utils

import (
	"strings"
	"testing"
)

func TestGenerateAccessCode(t *testing.T) {
	for i := 0; i < 100; i++ {
		code := GenerateAccessCode()
		if len(code) != CodeLength {
			t.Fatalf("GenerateAccessCode() longueur = %d, attendu %d", len(code), CodeLength)
		}
		for _, c := range code {
			if !strings.ContainsRune(codeCharset, c) {
				t.Fatalf("GenerateAccessCode() caractère %q hors alphabet base36 majuscules", c)
			}
		}
	}
}

func TestGenerateAccessCodeVarie(t *testing.T) {
	// Pseudo-aléatoire, pas unique ; mais 100 tirages identiques
	// signaleraient un générateur cassé
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		seen[GenerateAccessCode()] = true
	}
	if len(seen) < 2 {
		t.Error("GenerateAccessCode() retourne toujours le même code")
	}
}

func TestNormalizeCode(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"ab12cd", "AB12CD"},
		{"  AB12CD  ", "AB12CD"},
		{"Ab12Cd", "AB12CD"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeCode(tt.in); got != tt.want {
			t.Errorf("NormalizeCode(%q) = %q, attendu %q", tt.in, got, tt.want)
		}
	}
}
