package handlers

import (
	"encoding/json"
	"log"
	"net/http"

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

// JoinHandler gère l'accès par code et le clonage de pellicules
type JoinHandler struct {
	eventRepo    *database.EventRepository
	userRepo     *database.UserRepository
	cloneService *services.CloneService
	notification *services.NotificationService
	hub          *websocket.Hub
}

// NewJoinHandler crée une nouvelle instance de JoinHandler
func NewJoinHandler(db *mongo.Database, cloneService *services.CloneService, notification *services.NotificationService, hub *websocket.Hub) *JoinHandler {
	return &JoinHandler{
		eventRepo:    database.NewEventRepository(db),
		userRepo:     database.NewUserRepository(db),
		cloneService: cloneService,
		notification: notification,
		hub:          hub,
	}
}

// GetByCode retrouve une pellicule par son code d'accès. Les codes
// sont insensibles à la casse. Une pellicule protégée par PIN ne
// livre que son résumé tant que le PIN (en-tête X-Event-Pin) n'est
// pas fourni.
func (h *JoinHandler) GetByCode(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	claims, ok := RequireUser(w, r)
	if !ok {
		return
	}

	code := utils.NormalizeCode(mux.Vars(r)["code"])
	if code == "" {
		utils.RespondError(w, http.StatusBadRequest, constants.ErrInvalidData)
		return
	}

	event, err := h.eventRepo.FindByCode(code)
	if err != nil {
		log.Printf("Erreur lors de la recherche par code: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}
	if event == nil {
		utils.RespondError(w, http.StatusNotFound, constants.ErrCodeNotFound)
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

	utils.RespondJSON(w, http.StatusOK, event)
}

// Clone crée une copie indépendante d'une pellicule révélée pour
// l'utilisateur connecté. Seule une pellicule révélée est clonable.
func (h *JoinHandler) Clone(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	claims, ok := RequireUser(w, r)
	if !ok {
		return
	}

	var req models.JoinEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, constants.ErrInvalidData)
		return
	}

	code := utils.NormalizeCode(req.Code)
	if code == "" {
		utils.RespondError(w, http.StatusBadRequest, constants.ErrInvalidData)
		return
	}

	source, err := h.eventRepo.FindByCode(code)
	if err != nil {
		log.Printf("Erreur lors de la recherche par code: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}
	if source == nil {
		utils.RespondError(w, http.StatusNotFound, constants.ErrCodeNotFound)
		return
	}

	autoExpireIfDue(h.eventRepo, h.notification, h.hub, source)

	if source.Status != models.StatusExpired {
		utils.RespondError(w, http.StatusConflict, "Seule une pellicule révélée peut être clonée")
		return
	}

	if !pinAuthorized(source, claims.UserID, req.Pin) {
		if !source.HasPin() || req.Pin == "" {
			utils.RespondError(w, http.StatusForbidden, constants.ErrEventLocked)
			return
		}
		utils.RespondError(w, http.StatusForbidden, constants.ErrWrongPin)
		return
	}

	ownerName := claims.Email
	if userID, err := primitive.ObjectIDFromHex(claims.UserID); err == nil {
		if user, err := h.userRepo.FindByID(userID); err == nil && user != nil {
			ownerName = user.DisplayName
		}
	}

	clone, err := h.cloneService.Clone(source, claims.UserID, ownerName)
	if err != nil {
		log.Printf("Erreur lors du clonage de %s: %v", source.ID.Hex(), err)
		if clone != nil {
			// Clone partiel : le document existe, certaines photos manquent
			utils.RespondJSON(w, http.StatusInternalServerError, map[string]interface{}{
				"error": "Clonage incomplet, certaines photos n'ont pas été copiées",
				"event": clone,
			})
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	h.notification.NotifyBestEffort(
		claims.UserID,
		models.NotificationDownloadOK,
		"📥 Pellicule récupérée",
		"'"+clone.Name+"' a été copiée dans vos pellicules.",
		map[string]string{
			"action":   "event_cloned",
			"event_id": clone.ID.Hex(),
			"root_id":  clone.RootID.Hex(),
		},
	)

	log.Printf("🧬 Pellicule %s clonée en %s par %s", source.ID.Hex(), clone.ID.Hex(), claims.UserID)

	utils.RespondJSON(w, http.StatusCreated, clone)
}
