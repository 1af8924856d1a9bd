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

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Nombre de tentatives de génération d'un code d'accès en cas de
// collision sur l'index unique
const codeGenerationAttempts = 5

// EventHandler gère les requêtes liées aux pellicules
type EventHandler struct {
	eventRepo    *database.EventRepository
	photoRepo    *database.PhotoRepository
	userRepo     *database.UserRepository
	storage      *services.StorageService
	notification *services.NotificationService
	hub          *websocket.Hub
}

// NewEventHandler crée une nouvelle instance de EventHandler
func NewEventHandler(db *mongo.Database, storage *services.StorageService, notification *services.NotificationService, hub *websocket.Hub) *EventHandler {
	return &EventHandler{
		eventRepo:    database.NewEventRepository(db),
		photoRepo:    database.NewPhotoRepository(db),
		userRepo:     database.NewUserRepository(db),
		storage:      storage,
		notification: notification,
		hub:          hub,
	}
}

// Create gère la création d'une pellicule
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	claims, ok := RequireUser(w, r)
	if !ok {
		return
	}

	var req models.CreateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, constants.ErrInvalidData)
		return
	}

	if err := utils.ValidateRequired("name", req.Name); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Pin != "" {
		if err := utils.ValidatePin(req.Pin); err != nil {
			utils.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	if req.MaxPhotos < 0 {
		utils.RespondError(w, http.StatusBadRequest, "maxPhotos doit être positif")
		return
	}

	date := time.Now()
	if req.Date != nil {
		date = *req.Date
	}

	organizerName := claims.Email
	if userID, err := primitive.ObjectIDFromHex(claims.UserID); err == nil {
		if user, err := h.userRepo.FindByID(userID); err == nil && user != nil {
			organizerName = user.DisplayName
		}
	}

	event := &models.Event{
		Name:             strings.TrimSpace(req.Name),
		Organizer:        organizerName,
		OrganizerID:      claims.UserID,
		Date:             date,
		MaxPhotos:        req.MaxPhotos,
		Description:      req.Description,
		Location:         req.Location,
		Pin:              req.Pin,
		CoverImage:       req.CoverImage,
		CoverStoragePath: req.CoverStoragePath,
		Template:         req.Template,
	}

	// Retenter en cas de collision de code (index unique)
	var err error
	for attempt := 0; attempt < codeGenerationAttempts; attempt++ {
		event.Code = utils.GenerateAccessCode()
		if err = h.eventRepo.Create(event); err == nil {
			break
		}
	}
	if err != nil {
		log.Printf("Erreur lors de la création de la pellicule: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	h.notification.NotifyBestEffort(
		claims.UserID,
		models.NotificationEventCreated,
		"🎞️ Pellicule créée",
		"'"+event.Name+"' est prête. Partagez le code "+event.Code+" avec vos invités !",
		map[string]string{
			"action":   "event_created",
			"event_id": event.ID.Hex(),
			"code":     event.Code,
		},
	)

	log.Printf("✓ Pellicule créée: %s (code: %s) par %s", event.Name, event.Code, claims.UserID)

	utils.RespondJSON(w, http.StatusCreated, event)
}

// GetMyEvents liste les pellicules de l'utilisateur connecté.
// ?archived=true inclut les pellicules archivées.
func (h *EventHandler) GetMyEvents(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	claims, ok := RequireUser(w, r)
	if !ok {
		return
	}

	includeArchived := r.URL.Query().Get("archived") == "true"

	events, err := h.eventRepo.FindByOwner(claims.UserID, includeArchived)
	if err != nil {
		log.Printf("Erreur lors de la récupération des pellicules: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	// Basculer à la volée les pellicules échues
	for i := range events {
		autoExpireIfDue(h.eventRepo, h.notification, h.hub, &events[i])
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"total":  len(events),
		"events": events,
	})
}

// GetEvent retourne une pellicule. La lecture déclenche la révélation
// automatique si le délai est dépassé. Les pellicules protégées par
// PIN ne livrent qu'un résumé tant que le PIN n'est pas fourni
// (en-tête X-Event-Pin), sauf au propriétaire.
func (h *EventHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
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

	autoExpireIfDue(h.eventRepo, h.notification, h.hub, event)

	if !pinAuthorized(event, claims.UserID, r.Header.Get(constants.HeaderEventPin)) {
		utils.RespondJSON(w, http.StatusForbidden, map[string]interface{}{
			"error": constants.ErrEventLocked,
			"event": event.Summary(),
		})
		return
	}

	// Compteur de consultations, best effort
	if !event.IsOwner(claims.UserID) {
		if err := h.eventRepo.IncrementViews(event.ID); err == nil {
			event.Views++
		}
	}

	utils.RespondJSON(w, http.StatusOK, event)
}

// Update modifie une pellicule active. Une pellicule révélée est en
// lecture seule.
func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPut) {
		return
	}

	claims, ok := RequireUser(w, r)
	if !ok {
		return
	}

	event, ok := h.loadOwnedEvent(w, r, claims.UserID)
	if !ok {
		return
	}

	if event.Status != models.StatusActive {
		utils.RespondError(w, http.StatusConflict, constants.ErrEventRevealed)
		return
	}

	var req models.UpdateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, constants.ErrInvalidData)
		return
	}

	update := bson.M{}
	if req.Name != "" {
		update["name"] = strings.TrimSpace(req.Name)
	}
	if req.Date != nil {
		update["date"] = *req.Date
	}
	if req.Description != nil {
		update["description"] = *req.Description
	}
	if req.Location != nil {
		update["location"] = *req.Location
	}
	if req.CoverImage != nil {
		update["coverImage"] = *req.CoverImage
	}
	if req.CoverStoragePath != nil {
		update["coverStoragePath"] = *req.CoverStoragePath
	}

	if len(update) == 0 {
		utils.RespondError(w, http.StatusBadRequest, "Aucun champ à modifier")
		return
	}

	if err := h.eventRepo.Update(event.ID, update); err != nil {
		log.Printf("Erreur lors de la mise à jour de la pellicule: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	updated, err := h.eventRepo.FindByID(event.ID)
	if err != nil || updated == nil {
		utils.RespondSuccess(w, "Pellicule mise à jour", nil)
		return
	}

	utils.RespondJSON(w, http.StatusOK, updated)
}

// Reveal révèle une pellicule avant son échéance. Propriétaire
// uniquement, et au moins une photo capturée.
func (h *EventHandler) Reveal(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	claims, ok := RequireUser(w, r)
	if !ok {
		return
	}

	event, ok := h.loadOwnedEvent(w, r, claims.UserID)
	if !ok {
		return
	}

	if !event.CanReveal() {
		utils.RespondError(w, http.StatusBadRequest, constants.ErrRevealNoPhotos)
		return
	}

	transitioned, err := h.eventRepo.MarkExpired(event.ID)
	if err != nil {
		log.Printf("Erreur lors de la révélation: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}
	if !transitioned {
		utils.RespondError(w, http.StatusConflict, constants.ErrEventRevealed)
		return
	}

	event.Status = models.StatusExpired
	notifyRevealed(h.notification, h.hub, event)

	log.Printf("📸 Pellicule révélée manuellement: %s par %s", event.ID.Hex(), claims.UserID)

	utils.RespondJSON(w, http.StatusOK, event)
}

// Archive pose ou retire le drapeau d'archivage
func (h *EventHandler) Archive(w http.ResponseWriter, r *http.Request) {
	h.setFlag(w, r, "isArchived")
}

// Favorite pose ou retire le drapeau favori
func (h *EventHandler) Favorite(w http.ResponseWriter, r *http.Request) {
	h.setFlag(w, r, "isFavorite")
}

// setFlag gère les deux drapeaux booléens du même geste : le corps
// contient {"value": bool}
func (h *EventHandler) setFlag(w http.ResponseWriter, r *http.Request, field string) {
	if !RequireMethod(w, r, http.MethodPut) {
		return
	}

	claims, ok := RequireUser(w, r)
	if !ok {
		return
	}

	event, ok := h.loadOwnedEvent(w, r, claims.UserID)
	if !ok {
		return
	}

	var req struct {
		Value bool `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, constants.ErrInvalidData)
		return
	}

	if err := h.eventRepo.Update(event.ID, bson.M{field: req.Value}); err != nil {
		log.Printf("Erreur lors de la mise à jour du drapeau %s: %v", field, err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	utils.RespondSuccess(w, "Pellicule mise à jour", map[string]interface{}{
		"event_id": event.ID.Hex(),
		field:      req.Value,
	})
}

// SetPin pose ou retire le PIN d'une pellicule. Un PIN vide rend la
// pellicule publique. Propriétaire uniquement.
func (h *EventHandler) SetPin(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPut) {
		return
	}

	claims, ok := RequireUser(w, r)
	if !ok {
		return
	}

	event, ok := h.loadOwnedEvent(w, r, claims.UserID)
	if !ok {
		return
	}

	var req models.SetPinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, constants.ErrInvalidData)
		return
	}

	if req.Pin == "" {
		if err := h.eventRepo.Unset(event.ID, "pin"); err != nil {
			log.Printf("Erreur lors du retrait du PIN: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
			return
		}
		utils.RespondSuccess(w, "PIN retiré, la pellicule est publique", nil)
		return
	}

	if err := utils.ValidatePin(req.Pin); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.eventRepo.Update(event.ID, bson.M{"pin": req.Pin}); err != nil {
		log.Printf("Erreur lors de la pose du PIN: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	utils.RespondSuccess(w, "PIN mis à jour", nil)
}

// Delete supprime une pellicule et toutes ses photos. Les blobs de
// stockage ne sont retirés que s'ils appartiennent au dossier de la
// pellicule : les photos copiées lors d'un clonage référencent le
// dossier de leur pellicule d'origine et ne doivent pas être touchées.
func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodDelete) {
		return
	}

	claims, ok := RequireUser(w, r)
	if !ok {
		return
	}

	event, ok := h.loadOwnedEvent(w, r, claims.UserID)
	if !ok {
		return
	}

	photos, err := h.photoRepo.FindByEvent(event.ID)
	if err != nil {
		log.Printf("Erreur lors de la lecture des photos: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	ownPrefix := "photos/" + event.ID.Hex() + "/"
	removedBlobs := 0
	for _, photo := range photos {
		if photo.StoragePath == "" || !strings.HasPrefix(photo.StoragePath, ownPrefix) {
			continue
		}
		if err := h.storage.Delete(r.Context(), photo.StoragePath); err != nil {
			log.Printf("⚠️  Blob non supprimé (%s): %v", photo.StoragePath, err)
			continue
		}
		removedBlobs++
	}

	// La couverture n'est retirée que pour une pellicule racine, un
	// clone partage celle de sa source
	if event.CoverStoragePath != "" && event.RootID.IsZero() {
		if err := h.storage.Delete(r.Context(), event.CoverStoragePath); err != nil {
			log.Printf("⚠️  Couverture non supprimée: %v", err)
		}
	}

	deletedPhotos, err := h.photoRepo.DeleteByEvent(event.ID)
	if err != nil {
		log.Printf("Erreur lors de la suppression des photos: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	if err := h.eventRepo.Delete(event.ID); err != nil {
		log.Printf("Erreur lors de la suppression de la pellicule: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	log.Printf("🗑️  Pellicule supprimée: %s (%d photos, %d blobs)", event.ID.Hex(), deletedPhotos, removedBlobs)

	utils.RespondSuccess(w, "Pellicule supprimée", map[string]interface{}{
		"deleted_photos": deletedPhotos,
	})
}

// loadOwnedEvent charge la pellicule de l'URL et vérifie que
// l'utilisateur en est le propriétaire
func (h *EventHandler) loadOwnedEvent(w http.ResponseWriter, r *http.Request, userID string) (*models.Event, bool) {
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
	if !event.IsOwner(userID) {
		utils.RespondError(w, http.StatusForbidden, constants.ErrOwnerOnly)
		return nil, false
	}

	return event, true
}
