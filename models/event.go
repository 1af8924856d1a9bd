package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Statuts possibles d'un événement (roll)
const (
	StatusActive   = "active"   // captures en cours, photos cachées
	StatusExpired  = "expired"  // révélé, lecture seule
	StatusFinished = "finished" // archivé définitivement côté produit
)

// RevealDelay est le délai avant révélation automatique d'un roll
const RevealDelay = 5 * time.Hour

// DefaultMaxPhotos est la capacité par défaut d'un roll
const DefaultMaxPhotos = 24

// Event représente un roll : une session de photos limitée dans le temps.
// Les noms de champs (photoCount, maxPhotos, organizerId, rootId...) sont le
// contrat externe partagé avec les clients mobiles, ne pas les renommer.
type Event struct {
	ID               primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name             string             `json:"name" bson:"name"`
	Organizer        string             `json:"organizer" bson:"organizer"`     // nom affiché du propriétaire
	OrganizerID      string             `json:"organizerId" bson:"organizerId"` // uid du propriétaire
	Date             time.Time          `json:"date" bson:"date"`
	PhotoCount       int                `json:"photoCount" bson:"photoCount"`
	MaxPhotos        int                `json:"maxPhotos" bson:"maxPhotos"`
	Status           string             `json:"status" bson:"status"`
	Description      string             `json:"description,omitempty" bson:"description,omitempty"`
	Location         string             `json:"location,omitempty" bson:"location,omitempty"`
	Code             string             `json:"code" bson:"code"` // code d'accès 6 caractères, insensible à la casse
	Pin              string             `json:"pin,omitempty" bson:"pin,omitempty"`
	CoverImage       string             `json:"coverImage,omitempty" bson:"coverImage,omitempty"`
	CoverStoragePath string             `json:"coverStoragePath,omitempty" bson:"coverStoragePath,omitempty"`
	Template         string             `json:"template,omitempty" bson:"template,omitempty"`
	IsArchived       bool               `json:"isArchived" bson:"isArchived"`
	IsFavorite       bool               `json:"isFavorite" bson:"isFavorite"`
	Views            int                `json:"views" bson:"views"`
	RootID           primitive.ObjectID `json:"rootId,omitempty" bson:"rootId,omitempty"` // provenance du clone, immuable
	CreatedAt        time.Time          `json:"createdAt" bson:"createdAt"`
}

// HasPin indique si l'événement est protégé par un code PIN
func (e *Event) HasPin() bool {
	return e.Pin != ""
}

// IsOwner indique si l'uid donné est le propriétaire de l'événement
func (e *Event) IsOwner(userID string) bool {
	return userID != "" && e.OrganizerID == userID
}

// ExpiresAt retourne l'instant de révélation automatique
func (e *Event) ExpiresAt() time.Time {
	return e.CreatedAt.Add(RevealDelay)
}

// ShouldAutoExpire indique si l'événement doit basculer en "expired"
// à l'instant donné (transition one-way, jamais l'inverse)
func (e *Event) ShouldAutoExpire(now time.Time) bool {
	return e.Status == StatusActive && now.After(e.ExpiresAt())
}

// CanReveal indique si la révélation manuelle est permise :
// il faut au moins une photo capturée
func (e *Event) CanReveal() bool {
	return e.PhotoCount > 0
}

// HasCapacity indique si une capture supplémentaire est acceptée.
// Un maxPhotos nul ou négatif signifie sans limite.
func (e *Event) HasCapacity() bool {
	return e.MaxPhotos <= 0 || e.PhotoCount < e.MaxPhotos
}

// RootOrSelf retourne le rootId à propager lors d'un clonage :
// le rootId de la source, ou son propre id si elle est elle-même racine
func (e *Event) RootOrSelf() primitive.ObjectID {
	if !e.RootID.IsZero() {
		return e.RootID
	}
	return e.ID
}

// CreateEventRequest représente la requête de création d'un roll
type CreateEventRequest struct {
	Name             string     `json:"name"`
	Date             *time.Time `json:"date,omitempty"`
	Description      string     `json:"description,omitempty"`
	Location         string     `json:"location,omitempty"`
	MaxPhotos        int        `json:"maxPhotos,omitempty"`
	Template         string     `json:"template,omitempty"`
	Pin              string     `json:"pin,omitempty"`
	CoverImage       string     `json:"coverImage,omitempty"`
	CoverStoragePath string     `json:"coverStoragePath,omitempty"`
}

// UpdateEventRequest représente la requête de modification d'un roll
type UpdateEventRequest struct {
	Name             string     `json:"name,omitempty"`
	Date             *time.Time `json:"date,omitempty"`
	Description      *string    `json:"description,omitempty"`
	Location         *string    `json:"location,omitempty"`
	CoverImage       *string    `json:"coverImage,omitempty"`
	CoverStoragePath *string    `json:"coverStoragePath,omitempty"`
}

// SetPinRequest représente la requête de pose/retrait du PIN.
// Un PIN vide rend l'événement public.
type SetPinRequest struct {
	Pin string `json:"pin"`
}

// JoinEventRequest représente la requête de clonage via code d'accès
type JoinEventRequest struct {
	Code string `json:"code"`
	Pin  string `json:"pin,omitempty"`
}

// EventSummary est la vue publique d'un événement protégé par PIN :
// assez pour afficher l'écran de déverrouillage, rien de plus
type EventSummary struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Organizer  string `json:"organizer"`
	Status     string `json:"status"`
	PhotoCount int    `json:"photoCount"`
	HasPin     bool   `json:"hasPin"`
}

// Summary construit la vue publique d'un événement
func (e *Event) Summary() EventSummary {
	return EventSummary{
		ID:         e.ID.Hex(),
		Name:       e.Name,
		Organizer:  e.Organizer,
		Status:     e.Status,
		PhotoCount: e.PhotoCount,
		HasPin:     e.HasPin(),
	}
}
