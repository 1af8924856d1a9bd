package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"pellicule-backend/constants"
	"pellicule-backend/database"
	"pellicule-backend/models"
	"pellicule-backend/utils"

	"go.mongodb.org/mongo-driver/mongo"
)

// FCMHandler gère l'enregistrement des tokens Firebase Cloud Messaging
type FCMHandler struct {
	fcmTokenRepo *database.FCMTokenRepository
}

// NewFCMHandler crée une nouvelle instance de FCMHandler
func NewFCMHandler(db *mongo.Database) *FCMHandler {
	return &FCMHandler{
		fcmTokenRepo: database.NewFCMTokenRepository(db),
	}
}

// Subscribe enregistre le token FCM de l'appareil pour l'utilisateur
// connecté. Un token déjà connu est réattribué (changement de compte
// sur le même appareil).
func (h *FCMHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	claims, ok := RequireUser(w, r)
	if !ok {
		return
	}

	var req models.FCMSubscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, constants.ErrInvalidData)
		return
	}

	if req.FCMToken == "" {
		utils.RespondError(w, http.StatusBadRequest, "Token FCM manquant")
		return
	}

	token := &models.FCMToken{
		UserID:    claims.UserID,
		Token:     req.FCMToken,
		Device:    req.Device,
		UserAgent: req.UserAgent,
	}

	if err := h.fcmTokenRepo.Upsert(token); err != nil {
		log.Printf("Erreur lors de l'enregistrement du token FCM: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	log.Printf("📱 Token FCM enregistré pour %s", claims.UserID)

	utils.RespondSuccess(w, "Token FCM enregistré", nil)
}

// Unsubscribe supprime un token FCM
func (h *FCMHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	if _, ok := RequireUser(w, r); !ok {
		return
	}

	var req struct {
		FCMToken string `json:"fcm_token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.FCMToken == "" {
		utils.RespondError(w, http.StatusBadRequest, constants.ErrInvalidData)
		return
	}

	if err := h.fcmTokenRepo.Delete(req.FCMToken); err != nil {
		log.Printf("Erreur lors de la suppression du token FCM: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	utils.RespondSuccess(w, "Token FCM supprimé", nil)
}
