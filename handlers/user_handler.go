package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"pellicule-backend/constants"
	"pellicule-backend/database"
	"pellicule-backend/models"
	"pellicule-backend/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// UserHandler gère les requêtes liées au profil utilisateur
type UserHandler struct {
	userRepo *database.UserRepository
}

// NewUserHandler crée une nouvelle instance de UserHandler
func NewUserHandler(db *mongo.Database) *UserHandler {
	return &UserHandler{
		userRepo: database.NewUserRepository(db),
	}
}

// GetMe retourne le profil de l'utilisateur connecté
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
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

	user, err := h.userRepo.FindByID(userID)
	if err != nil {
		log.Printf("Erreur lors de la recherche de l'utilisateur: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}
	if user == nil {
		utils.RespondError(w, http.StatusNotFound, constants.ErrUserNotFound)
		return
	}

	utils.RespondJSON(w, http.StatusOK, user)
}

// UsernameAvailable vérifie la disponibilité d'un pseudo.
// Le pseudo courant de l'utilisateur est considéré comme disponible,
// pour que re-soumettre son propre profil ne soit pas bloquant.
func (h *UserHandler) UsernameAvailable(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	claims, ok := RequireUser(w, r)
	if !ok {
		return
	}

	username := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("username")))
	if err := utils.ValidateUsername(username); err != nil {
		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
			"username":  username,
			"available": false,
			"reason":    err.Error(),
		})
		return
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, constants.ErrInvalidData)
		return
	}

	available, err := h.userRepo.IsUsernameAvailable(username, userID)
	if err != nil {
		log.Printf("Erreur lors de la vérification du pseudo: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"username":  username,
		"available": available,
	})
}

// UpdateProfile modifie le profil de l'utilisateur connecté
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPut) {
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

	var req models.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, constants.ErrInvalidData)
		return
	}

	update := bson.M{}

	if req.Username != "" {
		username := strings.ToLower(strings.TrimSpace(req.Username))
		if err := utils.ValidateUsername(username); err != nil {
			utils.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
		available, err := h.userRepo.IsUsernameAvailable(username, userID)
		if err != nil {
			log.Printf("Erreur lors de la vérification du pseudo: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
			return
		}
		if !available {
			utils.RespondError(w, http.StatusConflict, "Ce pseudo est déjà pris")
			return
		}
		update["username"] = username
	}

	if req.DisplayName != nil {
		if err := utils.ValidateRequired("displayName", *req.DisplayName); err != nil {
			utils.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
		update["displayName"] = strings.TrimSpace(*req.DisplayName)
	}
	if req.PhotoURL != nil {
		update["photoURL"] = *req.PhotoURL
	}
	if req.Phone != nil {
		update["phone"] = *req.Phone
	}

	if len(update) == 0 {
		utils.RespondError(w, http.StatusBadRequest, "Aucun champ à modifier")
		return
	}

	if err := h.userRepo.UpdateByID(userID, update); err != nil {
		log.Printf("Erreur lors de la mise à jour du profil: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	user, err := h.userRepo.FindByID(userID)
	if err != nil || user == nil {
		utils.RespondSuccess(w, "Profil mis à jour", nil)
		return
	}

	utils.RespondJSON(w, http.StatusOK, user)
}
