package services

import (
	"testing"
)

func TestDisabledFCMService(t *testing.T) {
	s := NewDisabledFCMService()

	// Un service désactivé ne doit jamais échouer ni paniquer
	if err := s.SendToToken("token", "titre", "msg", nil); err != nil {
		t.Errorf("SendToToken() sur service désactivé: %v", err)
	}

	ok, ko, failed, err := s.SendToMultipleTokens([]string{"a", "b"}, "titre", "msg", nil)
	if err != nil {
		t.Errorf("SendToMultipleTokens() sur service désactivé: %v", err)
	}
	if ok != 0 || ko != 0 || failed != nil {
		t.Errorf("SendToMultipleTokens() = (%d, %d, %v), attendu (0, 0, nil)", ok, ko, failed)
	}

	ok, ko, failed = s.SendToAll([]string{"a"}, "titre", "msg", nil)
	if ok != 0 || ko != 0 || len(failed) != 0 {
		t.Errorf("SendToAll() = (%d, %d, %v), attendu zéros", ok, ko, failed)
	}
}
