package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User représente un profil utilisateur.
// username est stocké en minuscules et unique (index Mongo).
// lastSummaryMonth ("2006-01") sert de marqueur d'idempotence pour la
// notification de résumé mensuel.
type User struct {
	ID               primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Username         string             `json:"username" bson:"username"`
	DisplayName      string             `json:"displayName" bson:"displayName"`
	Email            string             `json:"email" bson:"email"`
	Password         string             `json:"-" bson:"password"` // le "-" empêche la sérialisation du mot de passe
	PhotoURL         string             `json:"photoURL,omitempty" bson:"photoURL,omitempty"`
	Phone            string             `json:"phone,omitempty" bson:"phone,omitempty"`
	LastSummaryMonth string             `json:"lastSummaryMonth,omitempty" bson:"lastSummaryMonth,omitempty"`
	CreatedAt        time.Time          `json:"createdAt" bson:"createdAt"`
}

// RegisterRequest représente la requête d'inscription
type RegisterRequest struct {
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
	Phone       string `json:"phone,omitempty"`
	Password    string `json:"password"`
}

// LoginRequest représente la requête de connexion
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateProfileRequest représente la requête de modification du profil
type UpdateProfileRequest struct {
	Username    string  `json:"username,omitempty"`
	DisplayName *string `json:"displayName,omitempty"`
	PhotoURL    *string `json:"photoURL,omitempty"`
	Phone       *string `json:"phone,omitempty"`
}

// AuthResponse représente la réponse d'authentification
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// ErrorResponse représente une réponse d'erreur
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// SuccessResponse représente une réponse de succès générique
type SuccessResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}
