package database

import (
	"context"
	"fmt"
	"sort"
	"time"

	"pellicule-backend/models"
	"pellicule-backend/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EventRepository gère les opérations sur les événements (rolls)
type EventRepository struct {
	collection *mongo.Collection
}

// NewEventRepository crée une nouvelle instance de EventRepository
func NewEventRepository(db *mongo.Database) *EventRepository {
	return &EventRepository{
		collection: db.Collection("events"),
	}
}

// Create crée un nouvel événement.
// Le code d'accès est normalisé en majuscules ; les compteurs partent
// de zéro et le statut de "active".
func (r *EventRepository) Create(event *models.Event) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	event.ID = primitive.NewObjectID()
	event.CreatedAt = time.Now()
	event.PhotoCount = 0
	event.Views = 0
	event.Status = models.StatusActive
	event.Code = utils.NormalizeCode(event.Code)

	if event.MaxPhotos <= 0 {
		event.MaxPhotos = models.DefaultMaxPhotos
	}

	_, err := r.collection.InsertOne(ctx, event)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("collision de code d'accès: %w", err)
		}
		return fmt.Errorf("erreur lors de la création de l'événement: %w", err)
	}

	return nil
}

// FindByID recherche un événement par ID
func (r *EventRepository) FindByID(id primitive.ObjectID) (*models.Event, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var event models.Event
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&event)

	if err == mongo.ErrNoDocuments {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("erreur lors de la recherche de l'événement: %w", err)
	}

	return &event, nil
}

// FindByCode recherche un événement par code d'accès (insensible à la casse)
func (r *EventRepository) FindByCode(code string) (*models.Event, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var event models.Event
	err := r.collection.FindOne(ctx, bson.M{"code": utils.NormalizeCode(code)}).Decode(&event)

	if err == mongo.ErrNoDocuments {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("erreur lors de la recherche par code: %w", err)
	}

	return &event, nil
}

// FindByOwner retourne les événements d'un propriétaire, du plus récent
// au plus ancien. Si la requête triée échoue (index composite absent
// sur un déploiement), on retombe sur une lecture non triée suivie
// d'un tri côté client.
func (r *EventRepository) FindByOwner(organizerID string, includeArchived bool) ([]models.Event, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{"organizerId": organizerID}
	if !includeArchived {
		filter["isArchived"] = false
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		// Fallback index manquant : lecture non triée + tri client
		cursor, err = r.collection.Find(ctx, filter)
		if err != nil {
			return nil, fmt.Errorf("erreur lors de la recherche des événements: %w", err)
		}
		defer cursor.Close(ctx)

		var events []models.Event
		if err = cursor.All(ctx, &events); err != nil {
			return nil, fmt.Errorf("erreur lors du décodage des événements: %w", err)
		}
		sort.Slice(events, func(i, j int) bool {
			return events[i].CreatedAt.After(events[j].CreatedAt)
		})
		return events, nil
	}
	defer cursor.Close(ctx)

	var events []models.Event
	if err = cursor.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("erreur lors du décodage des événements: %w", err)
	}

	return events, nil
}

// Update met à jour les champs donnés d'un événement
func (r *EventRepository) Update(id primitive.ObjectID, update bson.M) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": update},
	)

	if err != nil {
		return fmt.Errorf("erreur lors de la mise à jour de l'événement: %w", err)
	}

	return nil
}

// Unset supprime les champs donnés d'un événement (retrait du PIN)
func (r *EventRepository) Unset(id primitive.ObjectID, fields ...string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	unset := bson.M{}
	for _, f := range fields {
		unset[f] = ""
	}

	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$unset": unset})
	if err != nil {
		return fmt.Errorf("erreur lors de la suppression des champs: %w", err)
	}

	return nil
}

// MarkExpired fait passer un événement de "active" à "expired".
// Le filtre sur le statut rend la transition one-way et idempotente :
// deux clients en course ne peuvent pas violer l'invariant, le second
// ne modifie rien. Retourne true si ce writer a réalisé la transition.
func (r *EventRepository) MarkExpired(id primitive.ObjectID) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id, "status": models.StatusActive},
		bson.M{"$set": bson.M{"status": models.StatusExpired}},
	)

	if err != nil {
		return false, fmt.Errorf("erreur lors de la révélation de l'événement: %w", err)
	}

	return result.ModifiedCount > 0, nil
}

// IncrementPhotoCount incrémente atomiquement photoCount.
// Seuls les chemins de création/suppression de photo passent par ici.
// Un décrément est borné à zéro par le filtre : si le compteur est déjà
// à zéro, rien n'est modifié.
func (r *EventRepository) IncrementPhotoCount(id primitive.ObjectID, delta int) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	filter := bson.M{"_id": id}
	if delta < 0 {
		filter["photoCount"] = bson.M{"$gt": 0}
	}

	_, err := r.collection.UpdateOne(ctx, filter, bson.M{"$inc": bson.M{"photoCount": delta}})
	if err != nil {
		return fmt.Errorf("erreur lors de la mise à jour du compteur de photos: %w", err)
	}

	return nil
}

// IncrementViews incrémente atomiquement le compteur de vues
func (r *EventRepository) IncrementViews(id primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"views": 1}})
	if err != nil {
		return fmt.Errorf("erreur lors de l'incrémentation des vues: %w", err)
	}

	return nil
}

// Delete supprime un événement.
// L'appelant doit avoir supprimé les photos (documents et blobs) avant.
func (r *EventRepository) Delete(id primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("erreur lors de la suppression de l'événement: %w", err)
	}

	return nil
}

// FindOverdueActive retourne les événements encore actifs dont le délai
// de révélation automatique est dépassé. Utilisé par le balayage cron
// pour que les rolls non observés finissent quand même par expirer.
func (r *EventRepository) FindOverdueActive(now time.Time) ([]models.Event, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{
		"status":    models.StatusActive,
		"createdAt": bson.M{"$lte": now.Add(-models.RevealDelay)},
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("erreur lors de la recherche des événements à expirer: %w", err)
	}
	defer cursor.Close(ctx)

	var events []models.Event
	if err = cursor.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("erreur lors du décodage des événements: %w", err)
	}

	return events, nil
}

// CountByOwner compte les événements d'un propriétaire
func (r *EventRepository) CountByOwner(organizerID string) (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{"organizerId": organizerID})
	if err != nil {
		return 0, fmt.Errorf("erreur lors du comptage des événements: %w", err)
	}

	return count, nil
}
