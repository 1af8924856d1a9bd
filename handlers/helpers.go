package handlers

import (
	"crypto/subtle"
	"fmt"
	"log"
	"net/http"
	"time"

	"pellicule-backend/constants"
	"pellicule-backend/middleware"
	"pellicule-backend/models"
	"pellicule-backend/utils"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RequireMethod vérifie que la méthode HTTP est correcte. Retourne false et écrit l'erreur si non.
func RequireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		utils.RespondError(w, http.StatusMethodNotAllowed, constants.ErrMethodNotAllowed)
		return false
	}
	return true
}

// RequireUser extrait les claims JWT du contexte. Retourne false et écrit l'erreur si absents.
func RequireUser(w http.ResponseWriter, r *http.Request) (*utils.Claims, bool) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		utils.RespondError(w, http.StatusUnauthorized, constants.ErrNotAuthenticated)
		return nil, false
	}
	return claims, true
}

// ParseEventID extrait et valide event_id depuis les vars de l'URL.
func ParseEventID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	vars := mux.Vars(r)
	id, err := primitive.ObjectIDFromHex(vars["event_id"])
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, constants.ErrInvalidEventID)
		return primitive.NilObjectID, false
	}
	return id, true
}

// ParseObjectIDVar extrait et valide un ObjectID depuis les vars (clé configurable, msg d'erreur configurable).
func ParseObjectIDVar(w http.ResponseWriter, vars map[string]string, key, errMsg string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(vars[key])
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, errMsg)
		return primitive.NilObjectID, false
	}
	return id, true
}

// pinAuthorized vérifie l'accès à un événement protégé par PIN :
// le propriétaire passe toujours, les autres doivent fournir le bon
// PIN. La comparaison est en temps constant.
func pinAuthorized(event *models.Event, userID, providedPin string) bool {
	if !event.HasPin() {
		return true
	}
	if event.IsOwner(userID) {
		return true
	}
	if providedPin == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(event.Pin), []byte(providedPin)) == 1
}

type eventExpirer interface {
	MarkExpired(id primitive.ObjectID) (bool, error)
}

type ownerNotifier interface {
	NotifyBestEffort(userID, notifType, title, message string, data map[string]string)
}

type revealBroadcaster interface {
	NotifyEventRevealed(event *models.Event)
}

// notifyRevealed diffuse la révélation à la room WebSocket et enregistre
// la notification système du propriétaire
func notifyRevealed(notification ownerNotifier, hub revealBroadcaster, event *models.Event) {
	hub.NotifyEventRevealed(event)
	notification.NotifyBestEffort(
		event.OrganizerID,
		models.NotificationSystem,
		"📸 Pellicule révélée !",
		fmt.Sprintf("Les photos de '%s' sont maintenant visibles par tous les participants.", event.Name),
		map[string]string{
			"action":   "event_revealed",
			"event_id": event.ID.Hex(),
		},
	)
}

// autoExpireIfDue bascule une pellicule échue en "expired". La transition
// est one-shot : seul le lecteur qui la réalise diffuse et notifie, les
// lecteurs concurrents voient simplement le statut à jour.
func autoExpireIfDue(repo eventExpirer, notification ownerNotifier, hub revealBroadcaster, event *models.Event) bool {
	if !event.ShouldAutoExpire(time.Now()) {
		return false
	}

	transitioned, err := repo.MarkExpired(event.ID)
	if err != nil {
		log.Printf("❌ Erreur lors de la révélation automatique de %s: %v", event.ID.Hex(), err)
		return false
	}

	event.Status = models.StatusExpired
	if !transitioned {
		return false
	}

	notifyRevealed(notification, hub, event)
	return true
}
