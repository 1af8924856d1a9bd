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

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/mongo"
)

// Nombre maximum de notifications retournées par page
const notificationsPageSize = 50

// NotificationHandler gère les notifications in-app et les abonnements Web Push
type NotificationHandler struct {
	notifRepo *database.NotificationRepository
	subRepo   *database.PushSubscriptionRepository
	webpush   *services.WebPushService
}

// NewNotificationHandler crée une nouvelle instance de NotificationHandler
func NewNotificationHandler(db *mongo.Database, webpush *services.WebPushService) *NotificationHandler {
	return &NotificationHandler{
		notifRepo: database.NewNotificationRepository(db),
		subRepo:   database.NewPushSubscriptionRepository(db),
		webpush:   webpush,
	}
}

// List retourne les notifications de l'utilisateur connecté, les plus
// récentes en premier, avec le compteur de non-lues
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	claims, ok := RequireUser(w, r)
	if !ok {
		return
	}

	notifications, err := h.notifRepo.FindByUser(claims.UserID, notificationsPageSize)
	if err != nil {
		log.Printf("Erreur lors de la récupération des notifications: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	unread, err := h.notifRepo.CountUnread(claims.UserID)
	if err != nil {
		log.Printf("Erreur lors du comptage des non-lues: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	utils.RespondJSON(w, http.StatusOK, models.NotificationsResponse{
		Total:         len(notifications),
		Unread:        int(unread),
		Notifications: notifications,
	})
}

// MarkRead marque une notification comme lue. Seul son destinataire
// peut le faire.
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPut) {
		return
	}

	claims, ok := RequireUser(w, r)
	if !ok {
		return
	}

	notifID, ok := ParseObjectIDVar(w, mux.Vars(r), "notification_id", "ID notification invalide")
	if !ok {
		return
	}

	marked, err := h.notifRepo.MarkRead(notifID, claims.UserID)
	if err != nil {
		log.Printf("Erreur lors du marquage de la notification: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}
	if !marked {
		utils.RespondError(w, http.StatusNotFound, "Notification non trouvée")
		return
	}

	utils.RespondSuccess(w, "Notification marquée comme lue", nil)
}

// MarkAllRead marque toutes les notifications de l'utilisateur comme lues
func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPut) {
		return
	}

	claims, ok := RequireUser(w, r)
	if !ok {
		return
	}

	count, err := h.notifRepo.MarkAllRead(claims.UserID)
	if err != nil {
		log.Printf("Erreur lors du marquage des notifications: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	utils.RespondSuccess(w, "Notifications marquées comme lues", map[string]interface{}{
		"marked": count,
	})
}

// VAPIDPublicKey expose la clé publique VAPID aux clients Web Push
func (h *NotificationHandler) VAPIDPublicKey(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	if !h.webpush.Enabled() {
		utils.RespondError(w, http.StatusServiceUnavailable, "Web Push non configuré")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{
		"publicKey": h.webpush.PublicKey(),
	})
}

// Subscribe enregistre un abonnement Web Push pour l'utilisateur connecté
func (h *NotificationHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	claims, ok := RequireUser(w, r)
	if !ok {
		return
	}

	var req models.SubscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, constants.ErrInvalidData)
		return
	}

	if req.Subscription.Endpoint == "" || req.Subscription.Keys.P256dh == "" || req.Subscription.Keys.Auth == "" {
		utils.RespondError(w, http.StatusBadRequest, "Abonnement incomplet")
		return
	}

	subscription := &models.PushSubscription{
		UserID:   claims.UserID,
		Endpoint: req.Subscription.Endpoint,
		Keys:     req.Subscription.Keys,
	}

	if err := h.subRepo.Create(subscription); err != nil {
		log.Printf("Erreur lors de l'enregistrement de l'abonnement: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	log.Printf("🔔 Abonnement Web Push enregistré pour %s", claims.UserID)

	utils.RespondSuccess(w, "Abonnement enregistré", nil)
}

// Unsubscribe supprime un abonnement Web Push par endpoint
func (h *NotificationHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	if _, ok := RequireUser(w, r); !ok {
		return
	}

	var req struct {
		Endpoint string `json:"endpoint"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Endpoint == "" {
		utils.RespondError(w, http.StatusBadRequest, constants.ErrInvalidData)
		return
	}

	if err := h.subRepo.DeleteByEndpoint(req.Endpoint); err != nil {
		log.Printf("Erreur lors de la suppression de l'abonnement: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	utils.RespondSuccess(w, "Abonnement supprimé", nil)
}
