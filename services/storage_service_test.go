package services

import (
	"regexp"
	"strings"
	"testing"
)

func TestPhotoObjectPath(t *testing.T) {
	path := PhotoObjectPath("evt123", "jpg")

	if !strings.HasPrefix(path, "photos/evt123/") {
		t.Errorf("PhotoObjectPath() = %q, préfixe photos/evt123/ attendu", path)
	}
	if !strings.HasSuffix(path, ".jpg") {
		t.Errorf("PhotoObjectPath() = %q, extension .jpg attendue", path)
	}

	// L'identifiant unique doit être un UUID
	re := regexp.MustCompile(`^photos/evt123/[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}\.jpg$`)
	if !re.MatchString(path) {
		t.Errorf("PhotoObjectPath() = %q ne respecte pas le gabarit", path)
	}

	// Deux appels ne doivent jamais produire le même chemin
	if PhotoObjectPath("evt123", "jpg") == path {
		t.Error("PhotoObjectPath() doit produire un identifiant unique à chaque appel")
	}
}

func TestPhotoObjectPathNormaliseExtension(t *testing.T) {
	if p := PhotoObjectPath("e", ".MP4"); !strings.HasSuffix(p, ".mp4") {
		t.Errorf("PhotoObjectPath(.MP4) = %q, extension .mp4 attendue", p)
	}
	if p := PhotoObjectPath("e", ""); !strings.HasSuffix(p, ".jpg") {
		t.Errorf("PhotoObjectPath(\"\") = %q, extension .jpg par défaut attendue", p)
	}
}

func TestCoverObjectPath(t *testing.T) {
	re := regexp.MustCompile(`^covers/\d+_cover\.jpg$`)
	if path := CoverObjectPath(); !re.MatchString(path) {
		t.Errorf("CoverObjectPath() = %q ne respecte pas le gabarit covers/{timestamp}_cover.jpg", path)
	}
}

func TestProfileObjectPath(t *testing.T) {
	re := regexp.MustCompile(`^profiles/uid-42/\d+\.jpg$`)
	if path := ProfileObjectPath("uid-42"); !re.MatchString(path) {
		t.Errorf("ProfileObjectPath() = %q ne respecte pas le gabarit profiles/{uid}/{timestamp}.jpg", path)
	}
}
