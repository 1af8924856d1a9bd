package services

import (
	"testing"
	"time"

	"pellicule-backend/models"
	"pellicule-backend/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestBuildCloneHeriteDeLaRacine(t *testing.T) {
	rootID := primitive.NewObjectID()

	// Source elle-même racine : le clone pointe vers la source
	source := &models.Event{
		ID:        primitive.NewObjectID(),
		Name:      "Mariage Léa & Hugo",
		MaxPhotos: 36,
		Status:    models.StatusExpired,
	}
	clone := BuildClone(source, "user456", "Camille")
	if clone.RootID != source.ID {
		t.Errorf("rootId attendu %s (la source), obtenu %s", source.ID.Hex(), clone.RootID.Hex())
	}

	// Source déjà clonée : la racine d'origine est conservée
	source.RootID = rootID
	clone = BuildClone(source, "user456", "Camille")
	if clone.RootID != rootID {
		t.Errorf("rootId attendu %s (la racine d'origine), obtenu %s", rootID.Hex(), clone.RootID.Hex())
	}
}

func TestBuildCloneCopieLesReglages(t *testing.T) {
	source := &models.Event{
		ID:               primitive.NewObjectID(),
		Name:             "Anniversaire",
		Organizer:        "Mathias",
		OrganizerID:      "owner1",
		Date:             time.Date(2026, 6, 20, 18, 0, 0, 0, time.UTC),
		MaxPhotos:        48,
		Description:      "30 ans",
		Location:         "Lyon",
		Code:             "AB12CD",
		Pin:              "4321",
		CoverImage:       "https://cdn.example.com/cover.jpg",
		CoverStoragePath: "covers/123_cover.jpg",
		Template:         "polaroid",
		PhotoCount:       12,
		Views:            99,
		Status:           models.StatusExpired,
	}

	clone := BuildClone(source, "newowner", "Camille")

	if clone.Name != source.Name || clone.Description != source.Description || clone.Location != source.Location {
		t.Error("Le clone doit reprendre le nom, la description et le lieu de la source")
	}
	if clone.MaxPhotos != 48 || clone.Template != "polaroid" || clone.Pin != "4321" {
		t.Error("Le clone doit reprendre la capacité, le template et le PIN de la source")
	}
	if clone.CoverImage != source.CoverImage || clone.CoverStoragePath != source.CoverStoragePath {
		t.Error("Le clone doit référencer la même couverture que la source")
	}
	if clone.OrganizerID != "newowner" || clone.Organizer != "Camille" {
		t.Errorf("Le clone doit appartenir au demandeur, obtenu %s/%s", clone.OrganizerID, clone.Organizer)
	}
	if clone.PhotoCount != 0 || clone.Views != 0 {
		t.Error("Les compteurs du clone doivent repartir de zéro")
	}
	if clone.Code == source.Code {
		t.Error("Le clone doit recevoir un nouveau code d'accès")
	}
	if len(clone.Code) != utils.CodeLength {
		t.Errorf("Longueur de code attendue %d, obtenue %d", utils.CodeLength, len(clone.Code))
	}
}

func TestCopyPhotoRemetLeLikeAZero(t *testing.T) {
	clone := &models.Event{ID: primitive.NewObjectID()}
	src := models.Photo{
		ID:          primitive.NewObjectID(),
		URL:         "https://cdn.example.com/p.jpg",
		EventID:     primitive.NewObjectID(),
		UserID:      "user1",
		UserName:    "Léa",
		Timestamp:   time.Date(2026, 6, 20, 19, 30, 0, 0, time.UTC),
		Type:        models.PhotoTypeImage,
		StoragePath: "photos/abc/def.jpg",
		IsLiked:     true,
	}

	copied := copyPhoto(src, clone)

	if copied.EventID != clone.ID {
		t.Error("La copie doit être rattachée au clone")
	}
	if copied.StoragePath != src.StoragePath || copied.URL != src.URL {
		t.Error("La copie doit référencer le même blob de stockage")
	}
	if copied.UserID != src.UserID || copied.UserName != src.UserName || !copied.Timestamp.Equal(src.Timestamp) {
		t.Error("La copie doit conserver la provenance de capture")
	}
	if copied.IsLiked {
		t.Error("Le like ne doit pas être copié")
	}
}
