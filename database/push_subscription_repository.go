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

// PushSubscriptionRepository gère les abonnements Web Push
type PushSubscriptionRepository struct {
	collection *mongo.Collection
}

// NewPushSubscriptionRepository crée une nouvelle instance
func NewPushSubscriptionRepository(db *mongo.Database) *PushSubscriptionRepository {
	return &PushSubscriptionRepository{
		collection: db.Collection("push_subscriptions"),
	}
}

// Create enregistre un abonnement. Un endpoint déjà connu est remplacé.
func (r *PushSubscriptionRepository) Create(subscription *models.PushSubscription) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Supprimer un éventuel abonnement existant sur le même endpoint
	_, _ = r.collection.DeleteOne(ctx, bson.M{"endpoint": subscription.Endpoint})

	subscription.ID = primitive.NewObjectID()
	subscription.Created = time.Now()

	_, err := r.collection.InsertOne(ctx, subscription)
	if err != nil {
		return fmt.Errorf("erreur lors de la création de l'abonnement: %w", err)
	}

	return nil
}

// FindByUserID recherche tous les abonnements d'un utilisateur
func (r *PushSubscriptionRepository) FindByUserID(userID string) ([]models.PushSubscription, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("erreur lors de la recherche des abonnements: %w", err)
	}
	defer cursor.Close(ctx)

	var subscriptions []models.PushSubscription
	if err = cursor.All(ctx, &subscriptions); err != nil {
		return nil, fmt.Errorf("erreur lors du décodage des abonnements: %w", err)
	}

	return subscriptions, nil
}

// DeleteByEndpoint supprime un abonnement par endpoint
func (r *PushSubscriptionRepository) DeleteByEndpoint(endpoint string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := r.collection.DeleteOne(ctx, bson.M{"endpoint": endpoint})
	if err != nil {
		return fmt.Errorf("erreur lors de la suppression de l'abonnement: %w", err)
	}

	return nil
}
