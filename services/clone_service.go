package services

import (
	"fmt"
	"log"
	"sync"

	"pellicule-backend/database"
	"pellicule-backend/models"
	"pellicule-backend/utils"

	"go.mongodb.org/mongo-driver/mongo"
)

// Taille des lots de copie de photos : parallélisme borné pour ne pas
// saturer la base pendant un clonage
const cloneChunkSize = 5

// CloneService réalise le clonage d'un événement révélé : un nouvel
// événement indépendant pour le demandeur, référençant les mêmes blobs
// de stockage que la source (les binaires ne sont pas dupliqués).
//
// Le clonage n'est pas transactionnel : une erreur en cours de copie
// laisse un clone partiel, signalé à l'appelant mais jamais annulé.
type CloneService struct {
	eventRepo *database.EventRepository
	photoRepo *database.PhotoRepository
}

// NewCloneService crée une nouvelle instance de CloneService
func NewCloneService(db *mongo.Database) *CloneService {
	return &CloneService{
		eventRepo: database.NewEventRepository(db),
		photoRepo: database.NewPhotoRepository(db),
	}
}

// BuildClone construit le document du clone à partir de la source :
// mêmes nom/description/lieu/capacité/template/PIN/couverture, nouveau
// code d'accès, nouveau propriétaire, rootId hérité de la source (ou
// l'id de la source si elle est elle-même racine).
func BuildClone(source *models.Event, ownerID, ownerName string) *models.Event {
	return &models.Event{
		Name:             source.Name,
		Organizer:        ownerName,
		OrganizerID:      ownerID,
		Date:             source.Date,
		MaxPhotos:        source.MaxPhotos,
		Description:      source.Description,
		Location:         source.Location,
		Code:             utils.GenerateAccessCode(),
		Pin:              source.Pin,
		CoverImage:       source.CoverImage,
		CoverStoragePath: source.CoverStoragePath,
		Template:         source.Template,
		RootID:           source.RootOrSelf(),
	}
}

// copyPhoto construit le document photo du clone : mêmes références de
// stockage et provenance de capture, like remis à zéro
func copyPhoto(src models.Photo, event *models.Event) *models.Photo {
	return &models.Photo{
		URL:         src.URL,
		EventID:     event.ID,
		UserID:      src.UserID,
		UserName:    src.UserName,
		Timestamp:   src.Timestamp,
		Type:        src.Type,
		StoragePath: src.StoragePath,
		IsLiked:     false,
	}
}

// Clone crée le clone et copie les photos de la source par lots de 5
// en parallèle. Chaque copie passe par l'incrément atomique du
// photoCount, si bien que le compteur final du clone égale le nombre
// de photos effectivement copiées.
func (s *CloneService) Clone(source *models.Event, ownerID, ownerName string) (*models.Event, error) {
	clone := BuildClone(source, ownerID, ownerName)

	// Retenter en cas de collision de code (index unique)
	var err error
	for attempt := 0; attempt < 5; attempt++ {
		if err = s.eventRepo.Create(clone); err == nil {
			break
		}
		clone.Code = utils.GenerateAccessCode()
	}
	if err != nil {
		return nil, fmt.Errorf("erreur lors de la création du clone: %w", err)
	}

	photos, err := s.photoRepo.FindByEvent(source.ID)
	if err != nil {
		return nil, fmt.Errorf("erreur lors de la lecture des photos source: %w", err)
	}

	for start := 0; start < len(photos); start += cloneChunkSize {
		end := start + cloneChunkSize
		if end > len(photos) {
			end = len(photos)
		}

		var wg sync.WaitGroup
		var mu sync.Mutex
		var chunkErr error

		for _, photo := range photos[start:end] {
			wg.Add(1)
			go func(p models.Photo) {
				defer wg.Done()

				if err := s.photoRepo.Create(copyPhoto(p, clone)); err != nil {
					mu.Lock()
					chunkErr = err
					mu.Unlock()
					return
				}
				if err := s.eventRepo.IncrementPhotoCount(clone.ID, 1); err != nil {
					mu.Lock()
					chunkErr = err
					mu.Unlock()
				}
			}(photo)
		}
		wg.Wait()

		if chunkErr != nil {
			// Pas de rollback : le clone partiel reste en base
			log.Printf("❌ Clonage interrompu pour l'événement %s: %v", source.ID.Hex(), chunkErr)
			return clone, fmt.Errorf("erreur lors de la copie des photos: %w", chunkErr)
		}
	}

	// Relire le clone pour retourner le photoCount à jour
	updated, err := s.eventRepo.FindByID(clone.ID)
	if err != nil || updated == nil {
		return clone, nil
	}

	return updated, nil
}
