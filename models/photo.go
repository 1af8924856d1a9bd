package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Types de médias acceptés
const (
	PhotoTypeImage = "image"
	PhotoTypeVideo = "video"
)

// Photo représente une capture persistée d'un événement.
// Invariant : chaque document photo correspond à exactement un +1 sur le
// photoCount de son événement (incrément atomique côté base).
type Photo struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	URL         string             `json:"url" bson:"url"`
	EventID     primitive.ObjectID `json:"eventId" bson:"eventId"`
	UserID      string             `json:"userId" bson:"userId"`
	UserName    string             `json:"userName" bson:"userName"`
	Timestamp   time.Time          `json:"timestamp" bson:"timestamp"`
	Type        string             `json:"type" bson:"type"` // "image" ou "video"
	StoragePath string             `json:"storagePath" bson:"storagePath"`
	IsLiked     bool               `json:"isLiked" bson:"isLiked"`
}

// CreatePhotoRequest représente l'enregistrement d'une capture déjà
// uploadée dans le stockage objet
type CreatePhotoRequest struct {
	URL         string `json:"url"`
	Type        string `json:"type"`
	StoragePath string `json:"storagePath"`
}

// LikePhotoRequest représente le basculement du like d'une photo
type LikePhotoRequest struct {
	IsLiked bool `json:"isLiked"`
}

// PhotosResponse représente la liste des photos d'un événement
type PhotosResponse struct {
	EventID     string  `json:"eventId"`
	TotalPhotos int     `json:"totalPhotos"`
	TotalImages int     `json:"totalImages"`
	TotalVideos int     `json:"totalVideos"`
	Photos      []Photo `json:"photos"`
}
