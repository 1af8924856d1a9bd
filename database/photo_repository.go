package database

import (
	"context"
	"fmt"
	"sort"
	"time"

	"pellicule-backend/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PhotoRepository gère les opérations sur les photos.
// Il n'écrit jamais lui-même le photoCount des événements : le compteur
// passe exclusivement par EventRepository.IncrementPhotoCount.
type PhotoRepository struct {
	collection *mongo.Collection
}

// NewPhotoRepository crée une nouvelle instance de PhotoRepository
func NewPhotoRepository(db *mongo.Database) *PhotoRepository {
	return &PhotoRepository{
		collection: db.Collection("photos"),
	}
}

// Create crée un nouveau document photo
func (r *PhotoRepository) Create(photo *models.Photo) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	photo.ID = primitive.NewObjectID()
	if photo.Timestamp.IsZero() {
		photo.Timestamp = time.Now()
	}

	_, err := r.collection.InsertOne(ctx, photo)
	if err != nil {
		return fmt.Errorf("erreur lors de la création de la photo: %w", err)
	}

	return nil
}

// FindByEvent retourne toutes les photos d'un événement, de la plus
// récente à la plus ancienne. Si la requête triée échoue (index
// composite absent), lecture non triée puis tri côté client.
func (r *PhotoRepository) FindByEvent(eventID primitive.ObjectID) ([]models.Photo, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{"eventId": eventID}

	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		// Fallback index manquant
		cursor, err = r.collection.Find(ctx, filter)
		if err != nil {
			return nil, fmt.Errorf("erreur lors de la recherche des photos: %w", err)
		}
		defer cursor.Close(ctx)

		var photos []models.Photo
		if err = cursor.All(ctx, &photos); err != nil {
			return nil, fmt.Errorf("erreur lors du décodage des photos: %w", err)
		}
		sort.Slice(photos, func(i, j int) bool {
			return photos[i].Timestamp.After(photos[j].Timestamp)
		})
		return photos, nil
	}
	defer cursor.Close(ctx)

	var photos []models.Photo
	if err = cursor.All(ctx, &photos); err != nil {
		return nil, fmt.Errorf("erreur lors du décodage des photos: %w", err)
	}

	return photos, nil
}

// FindByEventAndUser retourne les photos d'un événement capturées par
// un utilisateur donné (vue restreinte pendant la phase active)
func (r *PhotoRepository) FindByEventAndUser(eventID primitive.ObjectID, userID string) ([]models.Photo, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"eventId": eventID, "userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("erreur lors de la recherche des photos: %w", err)
	}
	defer cursor.Close(ctx)

	var photos []models.Photo
	if err = cursor.All(ctx, &photos); err != nil {
		return nil, fmt.Errorf("erreur lors du décodage des photos: %w", err)
	}

	return photos, nil
}

// FindByID recherche une photo par ID
func (r *PhotoRepository) FindByID(id primitive.ObjectID) (*models.Photo, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var photo models.Photo
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&photo)

	if err == mongo.ErrNoDocuments {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("erreur lors de la recherche de la photo: %w", err)
	}

	return &photo, nil
}

// Delete supprime un document photo
func (r *PhotoRepository) Delete(id primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("erreur lors de la suppression de la photo: %w", err)
	}

	return nil
}

// DeleteByEvent supprime tous les documents photos d'un événement.
// Utilisé par la suppression en cascade, après suppression des blobs ;
// le photoCount n'est pas décrémenté puisque l'événement disparaît.
func (r *PhotoRepository) DeleteByEvent(eventID primitive.ObjectID) (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := r.collection.DeleteMany(ctx, bson.M{"eventId": eventID})
	if err != nil {
		return 0, fmt.Errorf("erreur lors de la suppression des photos de l'événement: %w", err)
	}

	return result.DeletedCount, nil
}

// SetLiked bascule le like d'une photo
func (r *PhotoRepository) SetLiked(id primitive.ObjectID, liked bool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"isLiked": liked}})
	if err != nil {
		return fmt.Errorf("erreur lors de la mise à jour du like: %w", err)
	}

	return nil
}

// CountByEvent compte le nombre de photos d'un événement
func (r *PhotoRepository) CountByEvent(eventID primitive.ObjectID) (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{"eventId": eventID})
	if err != nil {
		return 0, fmt.Errorf("erreur lors du comptage des photos: %w", err)
	}

	return count, nil
}

// CountByUserBetween compte les photos capturées par un utilisateur sur
// une période (résumé mensuel)
func (r *PhotoRepository) CountByUserBetween(userID string, from, to time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{
		"userId":    userID,
		"timestamp": bson.M{"$gte": from, "$lt": to},
	})
	if err != nil {
		return 0, fmt.Errorf("erreur lors du comptage des photos de l'utilisateur: %w", err)
	}

	return count, nil
}
