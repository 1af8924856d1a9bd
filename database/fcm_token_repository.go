package database

import (
	"context"
	"fmt"
	"time"

	"pellicule-backend/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// FCMTokenRepository gère les tokens FCM des appareils
type FCMTokenRepository struct {
	collection *mongo.Collection
}

// NewFCMTokenRepository crée une nouvelle instance de FCMTokenRepository
func NewFCMTokenRepository(db *mongo.Database) *FCMTokenRepository {
	return &FCMTokenRepository{
		collection: db.Collection("fcm_tokens"),
	}
}

// Upsert crée ou met à jour un token FCM (un token = un appareil)
func (r *FCMTokenRepository) Upsert(token *models.FCMToken) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	existing, err := r.FindByToken(token.Token)
	if err != nil {
		return err
	}

	if existing != nil {
		token.ID = existing.ID
		token.CreatedAt = existing.CreatedAt
		token.UpdatedAt = time.Now()

		_, err = r.collection.ReplaceOne(ctx, bson.M{"_id": existing.ID}, token)
		if err != nil {
			return fmt.Errorf("erreur lors de la mise à jour du token FCM: %w", err)
		}
		return nil
	}

	token.ID = primitive.NewObjectID()
	token.CreatedAt = time.Now()
	token.UpdatedAt = token.CreatedAt

	_, err = r.collection.InsertOne(ctx, token)
	if err != nil {
		return fmt.Errorf("erreur lors de la création du token FCM: %w", err)
	}

	return nil
}

// FindByToken recherche un token FCM par sa valeur
func (r *FCMTokenRepository) FindByToken(token string) (*models.FCMToken, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var fcmToken models.FCMToken
	err := r.collection.FindOne(ctx, bson.M{"token": token}).Decode(&fcmToken)

	if err == mongo.ErrNoDocuments {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("erreur lors de la recherche du token FCM: %w", err)
	}

	return &fcmToken, nil
}

// FindByUserID retourne tous les tokens d'un utilisateur (multi-appareils)
func (r *FCMTokenRepository) FindByUserID(userID string) ([]models.FCMToken, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("erreur lors de la recherche des tokens FCM: %w", err)
	}
	defer cursor.Close(ctx)

	var tokens []models.FCMToken
	if err = cursor.All(ctx, &tokens); err != nil {
		return nil, fmt.Errorf("erreur lors du décodage des tokens FCM: %w", err)
	}

	return tokens, nil
}

// Delete supprime un token FCM (désabonnement ou token invalide)
func (r *FCMTokenRepository) Delete(token string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := r.collection.DeleteOne(ctx, bson.M{"token": token})
	if err != nil {
		return fmt.Errorf("erreur lors de la suppression du token FCM: %w", err)
	}

	return nil
}
