package database

import (
	"context"
	"fmt"
	"time"

	"pellicule-backend/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// NotificationRepository gère les notifications in-app
type NotificationRepository struct {
	collection *mongo.Collection
}

// NewNotificationRepository crée une nouvelle instance
func NewNotificationRepository(db *mongo.Database) *NotificationRepository {
	return &NotificationRepository{
		collection: db.Collection("notifications"),
	}
}

// Create crée une notification. Le serveur fixe timestamp et isRead.
func (r *NotificationRepository) Create(notification *models.Notification) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	notification.ID = primitive.NewObjectID()
	notification.Timestamp = time.Now()
	notification.IsRead = false

	_, err := r.collection.InsertOne(ctx, notification)
	if err != nil {
		return fmt.Errorf("erreur lors de la création de la notification: %w", err)
	}

	return nil
}

// FindByUser retourne les notifications d'un utilisateur, la plus
// récente en premier, limitées à limit
func (r *NotificationRepository) FindByUser(userID string, limit int64) ([]models.Notification, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("erreur lors de la recherche des notifications: %w", err)
	}
	defer cursor.Close(ctx)

	var notifications []models.Notification
	if err = cursor.All(ctx, &notifications); err != nil {
		return nil, fmt.Errorf("erreur lors du décodage des notifications: %w", err)
	}

	return notifications, nil
}

// CountUnread compte les notifications non lues d'un utilisateur
func (r *NotificationRepository) CountUnread(userID string) (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{"userId": userID, "isRead": false})
	if err != nil {
		return 0, fmt.Errorf("erreur lors du comptage des notifications: %w", err)
	}

	return count, nil
}

// MarkRead marque une notification comme lue.
// Le filtre sur userId empêche de marquer la notification d'un autre.
func (r *NotificationRepository) MarkRead(id primitive.ObjectID, userID string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id, "userId": userID},
		bson.M{"$set": bson.M{"isRead": true}},
	)
	if err != nil {
		return false, fmt.Errorf("erreur lors du marquage de la notification: %w", err)
	}

	return result.MatchedCount > 0, nil
}

// MarkAllRead marque toutes les notifications d'un utilisateur comme lues
func (r *NotificationRepository) MarkAllRead(userID string) (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := r.collection.UpdateMany(
		ctx,
		bson.M{"userId": userID, "isRead": false},
		bson.M{"$set": bson.M{"isRead": true}},
	)
	if err != nil {
		return 0, fmt.Errorf("erreur lors du marquage des notifications: %w", err)
	}

	return result.ModifiedCount, nil
}
