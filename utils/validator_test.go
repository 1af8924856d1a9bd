package utils

import (
	"testing"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{"email valide", "user@example.com", false},
		{"email valide avec sous-domaine", "user@mail.example.com", false},
		{"email vide", "", true},
		{"email sans @", "userexample.com", true},
		{"email sans domaine", "user@", true},
		{"email format invalide", "invalid", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateEmail(%q) error = %v, wantErr %v", tt.email, err, tt.wantErr)
			}
		})
	}
}

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		wantErr  bool
	}{
		{"username valide", "lea.martin", false},
		{"username avec underscore", "tom_92", false},
		{"username vide", "", true},
		{"username avec majuscules", "Lea", true},
		{"username trop court", "ab", true},
		{"username trop long", "abcdefghijklmnopqrstu", true},
		{"username avec espace", "lea martin", true},
		{"username avec tiret", "lea-martin", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUsername(tt.username)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateUsername(%q) error = %v, wantErr %v", tt.username, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePin(t *testing.T) {
	tests := []struct {
		name    string
		pin     string
		wantErr bool
	}{
		{"pin valide", "1234", false},
		{"pin avec zéros", "0000", false},
		{"pin vide", "", true},
		{"pin trop court", "123", true},
		{"pin trop long", "12345", true},
		{"pin avec lettres", "12ab", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePin(tt.pin)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePin(%q) error = %v, wantErr %v", tt.pin, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"mot de passe valide", "password123", false},
		{"mot de passe court valide", "123456", false},
		{"mot de passe vide", "", true},
		{"mot de passe trop court", "12345", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePassword() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateRequired(t *testing.T) {
	if err := ValidateRequired("name", "Mariage"); err != nil {
		t.Errorf("ValidateRequired() error = %v", err)
	}
	if err := ValidateRequired("name", "   "); err == nil {
		t.Error("ValidateRequired() devrait échouer sur un champ vide")
	}
}
