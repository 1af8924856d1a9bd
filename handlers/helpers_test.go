package handlers

import (
	"testing"

	"pellicule-backend/models"
)

func TestPinAuthorized(t *testing.T) {
	public := &models.Event{OrganizerID: "owner1"}
	locked := &models.Event{OrganizerID: "owner1", Pin: "1234"}

	tests := []struct {
		name  string
		event *models.Event
		user  string
		pin   string
		want  bool
	}{
		{"pellicule publique sans PIN", public, "guest1", "", true},
		{"propriétaire sans PIN fourni", locked, "owner1", "", true},
		{"invité avec le bon PIN", locked, "guest1", "1234", true},
		{"invité avec un mauvais PIN", locked, "guest1", "0000", false},
		{"invité sans PIN", locked, "guest1", "", false},
		{"PIN partiel refusé", locked, "guest1", "123", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pinAuthorized(tt.event, tt.user, tt.pin); got != tt.want {
				t.Errorf("pinAuthorized() = %v, attendu %v", got, tt.want)
			}
		})
	}
}
