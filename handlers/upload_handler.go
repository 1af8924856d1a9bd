package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"pellicule-backend/constants"
	"pellicule-backend/database"
	"pellicule-backend/models"
	"pellicule-backend/services"
	"pellicule-backend/utils"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Taille maximale d'une photo de profil (5 Mo)
const maxProfilePhotoSize = 5 << 20

// Extensions acceptées pour les captures
var allowedExtensions = map[string]bool{
	"jpg":  true,
	"jpeg": true,
	"png":  true,
	"webp": true,
	"heic": true,
	"mp4":  true,
	"mov":  true,
}

// UploadHandler gère les URLs pré-signées et les uploads directs
type UploadHandler struct {
	eventRepo    *database.EventRepository
	photoRepo    *database.PhotoRepository
	userRepo     *database.UserRepository
	storage      *services.StorageService
	notification *services.NotificationService
}

// NewUploadHandler crée une nouvelle instance de UploadHandler
func NewUploadHandler(db *mongo.Database, storage *services.StorageService, notification *services.NotificationService) *UploadHandler {
	return &UploadHandler{
		eventRepo:    database.NewEventRepository(db),
		photoRepo:    database.NewPhotoRepository(db),
		userRepo:     database.NewUserRepository(db),
		storage:      storage,
		notification: notification,
	}
}

// PresignPhoto délivre une URL d'upload pré-signée pour une capture.
// La pellicule doit être active et non pleine ; les clients uploadent
// directement dans le stockage objet puis enregistrent la photo.
func (h *UploadHandler) PresignPhoto(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	claims, ok := RequireUser(w, r)
	if !ok {
		return
	}

	eventID, ok := ParseEventID(w, r)
	if !ok {
		return
	}

	event, err := h.eventRepo.FindByID(eventID)
	if err != nil {
		log.Printf("Erreur lors de la recherche de la pellicule: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}
	if event == nil {
		utils.RespondError(w, http.StatusNotFound, constants.ErrEventNotFound)
		return
	}

	if !pinAuthorized(event, claims.UserID, r.Header.Get(constants.HeaderEventPin)) {
		utils.RespondError(w, http.StatusForbidden, constants.ErrEventLocked)
		return
	}
	if event.ShouldAutoExpire(time.Now()) || event.Status != models.StatusActive {
		utils.RespondError(w, http.StatusConflict, constants.ErrEventRevealed)
		return
	}
	if !event.HasCapacity() {
		utils.RespondError(w, http.StatusConflict, constants.ErrEventFull)
		return
	}

	var req struct {
		Ext string `json:"ext"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, constants.ErrInvalidData)
		return
	}

	ext := strings.ToLower(strings.TrimPrefix(req.Ext, "."))
	if !allowedExtensions[ext] {
		utils.RespondError(w, http.StatusBadRequest, "Extension de fichier non supportée")
		return
	}

	objectPath := services.PhotoObjectPath(event.ID.Hex(), ext)
	uploadURL, err := h.storage.PresignedUploadURL(r.Context(), objectPath)
	if err != nil {
		log.Printf("Erreur lors de la génération de l'URL d'upload: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"uploadUrl":   uploadURL,
		"storagePath": objectPath,
		"publicUrl":   h.storage.URL(objectPath),
	})
}

// PresignCover délivre une URL d'upload pré-signée pour une image de
// couverture
func (h *UploadHandler) PresignCover(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	if _, ok := RequireUser(w, r); !ok {
		return
	}

	objectPath := services.CoverObjectPath()
	uploadURL, err := h.storage.PresignedUploadURL(r.Context(), objectPath)
	if err != nil {
		log.Printf("Erreur lors de la génération de l'URL d'upload: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"uploadUrl":   uploadURL,
		"storagePath": objectPath,
		"publicUrl":   h.storage.URL(objectPath),
	})
}

// Download délivre une URL de téléchargement pré-signée pour une
// photo. Pendant la phase active, seul l'auteur peut télécharger sa
// capture.
func (h *UploadHandler) Download(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
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
	if photo.StoragePath == "" {
		utils.RespondError(w, http.StatusNotFound, "Aucun fichier associé à cette photo")
		return
	}

	event, err := h.eventRepo.FindByID(photo.EventID)
	if err != nil || event == nil {
		utils.RespondError(w, http.StatusNotFound, constants.ErrEventNotFound)
		return
	}

	if event.Status == models.StatusActive && photo.UserID != claims.UserID && !event.IsOwner(claims.UserID) {
		utils.RespondError(w, http.StatusForbidden, constants.ErrEventLocked)
		return
	}

	downloadURL, err := h.storage.PresignedDownloadURL(r.Context(), photo.StoragePath)
	if err != nil {
		log.Printf("Erreur lors de la génération de l'URL de téléchargement: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	h.notification.NotifyBestEffort(
		claims.UserID,
		models.NotificationDownloadOK,
		"✅ Téléchargement prêt",
		"Votre photo de '"+event.Name+"' est prête à être téléchargée.",
		map[string]string{
			"action":   "download_success",
			"photo_id": photo.ID.Hex(),
			"event_id": event.ID.Hex(),
		},
	)

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"downloadUrl": downloadURL,
		"expiresIn":   "1h",
	})
}

// UploadProfilePhoto reçoit la photo de profil en multipart et la
// pousse dans le stockage objet, puis met à jour le profil
func (h *UploadHandler) UploadProfilePhoto(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	claims, ok := RequireUser(w, r)
	if !ok {
		return
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, constants.ErrInvalidData)
		return
	}

	if err := r.ParseMultipartForm(maxProfilePhotoSize); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Fichier trop volumineux (5 Mo max)")
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Champ 'photo' manquant")
		return
	}
	defer file.Close()

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(header.Filename), "."))
	if ext != "jpg" && ext != "jpeg" && ext != "png" && ext != "webp" {
		utils.RespondError(w, http.StatusBadRequest, "Format d'image non supporté")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}

	objectPath := services.ProfileObjectPath(claims.UserID)
	if err := h.storage.Upload(r.Context(), objectPath, file, header.Size, contentType); err != nil {
		log.Printf("Erreur lors de l'upload de la photo de profil: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	photoURL := h.storage.URL(objectPath)
	if err := h.userRepo.UpdateByID(userID, bson.M{"photoURL": photoURL}); err != nil {
		log.Printf("Erreur lors de la mise à jour du profil: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	log.Printf("🖼️  Photo de profil mise à jour pour %s", claims.UserID)

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"photoURL":    photoURL,
		"storagePath": objectPath,
	})
}
