package models

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestShouldAutoExpire(t *testing.T) {
	created := time.Date(2025, 6, 1, 14, 0, 0, 0, time.UTC)
	event := Event{Status: StatusActive, CreatedAt: created}

	if event.ShouldAutoExpire(created.Add(RevealDelay - time.Second)) {
		t.Error("ShouldAutoExpire() ne doit pas déclencher avant le délai")
	}
	if !event.ShouldAutoExpire(created.Add(RevealDelay + time.Second)) {
		t.Error("ShouldAutoExpire() doit déclencher à T+5h+1s")
	}

	// Un événement déjà révélé ne re-déclenche jamais
	event.Status = StatusExpired
	if event.ShouldAutoExpire(created.Add(24 * time.Hour)) {
		t.Error("ShouldAutoExpire() ne doit rien faire sur un événement expired")
	}
}

func TestCanReveal(t *testing.T) {
	tests := []struct {
		name       string
		photoCount int
		want       bool
	}{
		{"sans photo", 0, false},
		{"une photo", 1, true},
		{"pleine", DefaultMaxPhotos, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := Event{Status: StatusActive, PhotoCount: tt.photoCount}
			if got := event.CanReveal(); got != tt.want {
				t.Errorf("CanReveal() avec %d photo(s) = %v, attendu %v", tt.photoCount, got, tt.want)
			}
		})
	}
}

func TestHasCapacity(t *testing.T) {
	tests := []struct {
		name       string
		photoCount int
		maxPhotos  int
		want       bool
	}{
		{"pellicule vide", 0, DefaultMaxPhotos, true},
		{"dernière pose libre", DefaultMaxPhotos - 1, DefaultMaxPhotos, true},
		{"pellicule pleine", DefaultMaxPhotos, DefaultMaxPhotos, false},
		{"au-delà de la limite", DefaultMaxPhotos + 1, DefaultMaxPhotos, false},
		{"sans limite", 500, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := Event{PhotoCount: tt.photoCount, MaxPhotos: tt.maxPhotos}
			if got := event.HasCapacity(); got != tt.want {
				t.Errorf("HasCapacity() avec %d/%d = %v, attendu %v", tt.photoCount, tt.maxPhotos, got, tt.want)
			}
		})
	}
}

func TestRootOrSelf(t *testing.T) {
	rootID := primitive.NewObjectID()

	// Événement racine : son propre id sert de racine aux clones
	root := Event{ID: rootID}
	if got := root.RootOrSelf(); got != rootID {
		t.Errorf("RootOrSelf() = %v, attendu %v", got, rootID)
	}

	// Clone : le rootId d'origine est propagé tel quel
	clone := Event{ID: primitive.NewObjectID(), RootID: rootID}
	if got := clone.RootOrSelf(); got != rootID {
		t.Errorf("RootOrSelf() = %v, attendu %v", got, rootID)
	}
}

func TestHasPinEtIsOwner(t *testing.T) {
	event := Event{OrganizerID: "uid-1", Pin: "1234"}

	if !event.HasPin() {
		t.Error("HasPin() = false, attendu true")
	}
	if !event.IsOwner("uid-1") {
		t.Error("IsOwner(uid-1) = false, attendu true")
	}
	if event.IsOwner("uid-2") {
		t.Error("IsOwner(uid-2) = true, attendu false")
	}
	if event.IsOwner("") {
		t.Error("IsOwner(\"\") doit toujours être false")
	}

	event.Pin = ""
	if event.HasPin() {
		t.Error("HasPin() = true sans PIN")
	}
}

func TestSummaryMasqueLeContenu(t *testing.T) {
	event := Event{
		ID:          primitive.NewObjectID(),
		Name:        "Mariage Léa & Tom",
		Organizer:   "Léa",
		Status:      StatusActive,
		PhotoCount:  12,
		Pin:         "4821",
		Description: "ne doit pas fuiter",
	}

	s := event.Summary()
	if !s.HasPin {
		t.Error("Summary().HasPin = false, attendu true")
	}
	if s.PhotoCount != 12 || s.Name != "Mariage Léa & Tom" {
		t.Errorf("Summary() = %+v", s)
	}
}
