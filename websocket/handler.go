package websocket

import (
	"log"
	"net/http"

	"pellicule-backend/utils"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Permettre toutes les origines pour développement
		return true
	},
}

// Handler gère les connexions WebSocket
type Handler struct {
	hub       *Hub
	jwtSecret string
}

// NewHandler crée un nouveau handler WebSocket
func NewHandler(hub *Hub, jwtSecret string) *Handler {
	return &Handler{
		hub:       hub,
		jwtSecret: jwtSecret,
	}
}

// ServeWS gère les requêtes WebSocket sur /ws/events/{event_id}.
// Le token JWT est passé en query string car les navigateurs ne
// permettent pas d'en-têtes personnalisés sur les WebSockets.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	eventID := mux.Vars(r)["event_id"]
	if eventID == "" {
		http.Error(w, "Identifiant de pellicule manquant", http.StatusBadRequest)
		return
	}

	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "Token requis", http.StatusUnauthorized)
		return
	}

	claims, err := utils.ValidateToken(token, h.jwtSecret)
	if err != nil {
		http.Error(w, "Token invalide ou expiré", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("❌ Erreur upgrade WebSocket: %v", err)
		return
	}

	client := &Client{
		hub:     h.hub,
		conn:    conn,
		send:    make(chan interface{}, 256),
		UserID:  claims.UserID,
		EventID: eventID,
	}

	// Confirmer l'abonnement avant d'entrer dans les pumps
	_ = conn.WriteJSON(map[string]interface{}{
		"type":     "subscribed",
		"event_id": eventID,
		"user_id":  client.UserID,
	})

	h.hub.register <- client

	go client.writePump()
	go client.readPump()
}
