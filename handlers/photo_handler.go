package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"pellicule-backend/constants"
	"pellicule-backend/database"
	"pellicule-backend/models"
	"pellicule-backend/services"
	"pellicule-backend/utils"
	"pellicule-backend/websocket"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// PhotoHandler gère les requêtes liées aux photos d'une pellicule
type PhotoHandler struct {
	eventRepo    *database.EventRepository
	photoRepo    *database.PhotoRepository
	userRepo     *database.UserRepository
	storage      *services.StorageService
	notification *services.NotificationService
	hub          *websocket.Hub
}

// NewPhotoHandler crée une nouvelle instance de PhotoHandler
func NewPhotoHandler(db *mongo.Database, storage *services.StorageService, notification *services.NotificationService, hub *websocket.Hub) *PhotoHandler {
	return &PhotoHandler{
		eventRepo:    database.NewEventRepository(db),
		photoRepo:    database.NewPhotoRepository(db),
		userRepo:     database.NewUserRepository(db),
		storage:      storage,
		notification: notification,
		hub:          hub,
	}
}

// List retourne les photos d'une pellicule. Tant que la pellicule est
// active, chacun ne voit que ses propres captures ; la liste complète
// n'est livrée qu'après révélation.
func (h *PhotoHandler) List(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	claims, ok := RequireUser(w, r)
	if !ok {
		return
	}

	event, ok := h.loadAccessibleEvent(w, r, claims.UserID)
	if !ok {
		return
	}

	var (
		photos []models.Photo
		err    error
	)
	if event.Status == models.StatusActive {
		photos, err = h.photoRepo.FindByEventAndUser(event.ID, claims.UserID)
	} else {
		photos, err = h.photoRepo.FindByEvent(event.ID)
	}
	if err != nil {
		log.Printf("Erreur lors de la récupération des photos: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	images, videos := 0, 0
	for _, p := range photos {
		if p.Type == models.PhotoTypeVideo {
			videos++
		} else {
			images++
		}
	}

	utils.RespondJSON(w, http.StatusOK, models.PhotosResponse{
		EventID:     event.ID.Hex(),
		TotalPhotos: len(photos),
		TotalImages: images,
		TotalVideos: videos,
		Photos:      photos,
	})
}

// Create enregistre une photo capturée sur une pellicule active.
// La capacité est vérifiée avant l'incrément du compteur.
func (h *PhotoHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	claims, ok := RequireUser(w, r)
	if !ok {
		return
	}

	event, ok := h.loadAccessibleEvent(w, r, claims.UserID)
	if !ok {
		return
	}

	if event.Status != models.StatusActive {
		utils.RespondError(w, http.StatusConflict, constants.ErrEventRevealed)
		return
	}

	if !event.HasCapacity() {
		utils.RespondError(w, http.StatusConflict, constants.ErrEventFull)
		return
	}

	var req models.CreatePhotoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, constants.ErrInvalidData)
		return
	}

	if err := utils.ValidateRequired("url", req.URL); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	photoType := req.Type
	if photoType == "" {
		photoType = models.PhotoTypeImage
	}
	if photoType != models.PhotoTypeImage && photoType != models.PhotoTypeVideo {
		utils.RespondError(w, http.StatusBadRequest, "Type de photo inconnu")
		return
	}

	userName := claims.Email
	if userID, err := primitive.ObjectIDFromHex(claims.UserID); err == nil {
		if user, err := h.userRepo.FindByID(userID); err == nil && user != nil {
			userName = user.DisplayName
		}
	}

	photo := &models.Photo{
		URL:         req.URL,
		EventID:     event.ID,
		UserID:      claims.UserID,
		UserName:    userName,
		Timestamp:   time.Now(),
		Type:        photoType,
		StoragePath: req.StoragePath,
	}

	if err := h.photoRepo.Create(photo); err != nil {
		log.Printf("Erreur lors de l'enregistrement de la photo: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	if err := h.eventRepo.IncrementPhotoCount(event.ID, 1); err != nil {
		log.Printf("Erreur lors de l'incrément du compteur: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	h.hub.NotifyPhotoAdded(event.ID.Hex(), event.PhotoCount+1, claims.UserID)

	log.Printf("📷 Photo enregistrée sur %s par %s (%d/%d)", event.ID.Hex(), claims.UserID, event.PhotoCount+1, event.MaxPhotos)

	utils.RespondJSON(w, http.StatusCreated, photo)
}

// Delete supprime une photo. Autorisé à l'auteur de la photo et au
// propriétaire de la pellicule. Le compteur est décrémenté sans jamais
// passer sous zéro.
func (h *PhotoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodDelete) {
		return
	}

	claims, ok := RequireUser(w, r)
	if !ok {
		return
	}

	photoID, ok := ParseObjectIDVar(w, mux.Vars(r), "photo_id", constants.ErrInvalidPhotoID)
	if !ok {
		return
	}

	photo, err := h.photoRepo.FindByID(photoID)
	if err != nil {
		log.Printf("Erreur lors de la recherche de la photo: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}
	if photo == nil {
		utils.RespondError(w, http.StatusNotFound, constants.ErrPhotoNotFound)
		return
	}

	event, err := h.eventRepo.FindByID(photo.EventID)
	if err != nil {
		log.Printf("Erreur lors de la recherche de la pellicule: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}
	if event == nil {
		utils.RespondError(w, http.StatusNotFound, constants.ErrEventNotFound)
		return
	}

	if photo.UserID != claims.UserID && !event.IsOwner(claims.UserID) {
		utils.RespondError(w, http.StatusForbidden, "Seul l'auteur ou le propriétaire peut supprimer cette photo")
		return
	}

	// Blob retiré uniquement s'il appartient au dossier de cette
	// pellicule (les clones référencent le dossier de leur source)
	ownPrefix := "photos/" + event.ID.Hex() + "/"
	if photo.StoragePath != "" && strings.HasPrefix(photo.StoragePath, ownPrefix) {
		if err := h.storage.Delete(r.Context(), photo.StoragePath); err != nil {
			log.Printf("⚠️  Blob non supprimé (%s): %v", photo.StoragePath, err)
		}
	}

	if err := h.photoRepo.Delete(photo.ID); err != nil {
		log.Printf("Erreur lors de la suppression de la photo: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	if err := h.eventRepo.IncrementPhotoCount(event.ID, -1); err != nil {
		log.Printf("Erreur lors du décrément du compteur: %v", err)
	}

	newCount := event.PhotoCount - 1
	if newCount < 0 {
		newCount = 0
	}
	h.hub.NotifyPhotoDeleted(event.ID.Hex(), photo.ID.Hex(), newCount)

	utils.RespondSuccess(w, "Photo supprimée", map[string]interface{}{
		"photo_id": photo.ID.Hex(),
	})
}

// Like pose ou retire le like sur une photo révélée
func (h *PhotoHandler) Like(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPut) {
		return
	}

	claims, ok := RequireUser(w, r)
	if !ok {
		return
	}

	photoID, ok := ParseObjectIDVar(w, mux.Vars(r), "photo_id", constants.ErrInvalidPhotoID)
	if !ok {
		return
	}

	photo, err := h.photoRepo.FindByID(photoID)
	if err != nil {
		log.Printf("Erreur lors de la recherche de la photo: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}
	if photo == nil {
		utils.RespondError(w, http.StatusNotFound, constants.ErrPhotoNotFound)
		return
	}

	event, err := h.eventRepo.FindByID(photo.EventID)
	if err != nil || event == nil {
		utils.RespondError(w, http.StatusNotFound, constants.ErrEventNotFound)
		return
	}

	// Tant que la pellicule est active, seules ses propres photos
	// sont visibles, donc likables
	if event.Status == models.StatusActive && photo.UserID != claims.UserID {
		utils.RespondError(w, http.StatusForbidden, constants.ErrEventLocked)
		return
	}

	var req models.LikePhotoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, constants.ErrInvalidData)
		return
	}

	if err := h.photoRepo.SetLiked(photo.ID, req.IsLiked); err != nil {
		log.Printf("Erreur lors de la mise à jour du like: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	utils.RespondSuccess(w, "Like mis à jour", map[string]interface{}{
		"photo_id": photo.ID.Hex(),
		"isLiked":  req.IsLiked,
	})
}

// loadAccessibleEvent charge la pellicule de l'URL, applique la
// révélation automatique et le contrôle du PIN
func (h *PhotoHandler) loadAccessibleEvent(w http.ResponseWriter, r *http.Request, userID string) (*models.Event, bool) {
	eventID, ok := ParseEventID(w, r)
	if !ok {
		return nil, false
	}

	event, err := h.eventRepo.FindByID(eventID)
	if err != nil {
		log.Printf("Erreur lors de la recherche de la pellicule: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return nil, false
	}
	if event == nil {
		utils.RespondError(w, http.StatusNotFound, constants.ErrEventNotFound)
		return nil, false
	}

	autoExpireIfDue(h.eventRepo, h.notification, h.hub, event)

	if !pinAuthorized(event, userID, r.Header.Get(constants.HeaderEventPin)) {
		utils.RespondError(w, http.StatusForbidden, constants.ErrEventLocked)
		return nil, false
	}

	return event, true
}
