package websocket

import (
	"log"
	"sync"

	"pellicule-backend/models"
)

// Hub gère les connexions WebSocket actives, regroupées par pellicule.
// Chaque client est abonné à une seule pellicule, celle de l'URL de
// connexion.
type Hub struct {
	// Rooms par pellicule (event_id -> clients)
	rooms map[string]map[*Client]bool

	// Mutex pour sécuriser les accès concurrents
	mu sync.RWMutex

	// Canal pour enregistrer les clients
	register chan *Client

	// Canal pour désenregistrer les clients
	unregister chan *Client

	// Canal pour diffuser les messages
	broadcast chan *Message
}

// Message représente un message WebSocket à diffuser à une pellicule
type Message struct {
	EventID       string
	ExcludeUserID string // Ne pas envoyer à cet utilisateur
	Payload       interface{}
}

// NewHub crée un nouveau hub WebSocket
func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *Message, 256),
	}
}

// Run démarre la boucle principale du hub
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.rooms[client.EventID] == nil {
				h.rooms[client.EventID] = make(map[*Client]bool)
			}
			h.rooms[client.EventID][client] = true
			count := len(h.rooms[client.EventID])
			h.mu.Unlock()
			log.Printf("🔌 Client %s connecté à la pellicule %s (%d en ligne)", client.UserID, client.EventID, count)

		case client := <-h.unregister:
			h.mu.Lock()
			if members, ok := h.rooms[client.EventID]; ok {
				if _, present := members[client]; present {
					delete(members, client)
					close(client.send)
					if len(members) == 0 {
						delete(h.rooms, client.EventID)
					}
				}
			}
			h.mu.Unlock()
			log.Printf("👋 Client %s déconnecté de la pellicule %s", client.UserID, client.EventID)

		case message := <-h.broadcast:
			h.mu.RLock()
			for client := range h.rooms[message.EventID] {
				if message.ExcludeUserID != "" && client.UserID == message.ExcludeUserID {
					continue
				}
				select {
				case client.send <- message.Payload:
				default:
					// Canal plein : le client ne suit pas, on le lâche
					close(client.send)
					delete(h.rooms[message.EventID], client)
				}
			}
			h.mu.RUnlock()
		}
	}
}

// SendToEvent diffuse un payload à tous les clients d'une pellicule
func (h *Hub) SendToEvent(eventID string, payload interface{}, excludeUserID string) {
	h.broadcast <- &Message{
		EventID:       eventID,
		ExcludeUserID: excludeUserID,
		Payload:       payload,
	}
}

// NotifyPhotoAdded informe la pellicule qu'une photo vient d'être capturée.
// Pendant la phase active le contenu reste caché : seul le compteur circule.
func (h *Hub) NotifyPhotoAdded(eventID string, photoCount int, byUserID string) {
	h.SendToEvent(eventID, map[string]interface{}{
		"type":        "photo_added",
		"event_id":    eventID,
		"photo_count": photoCount,
	}, byUserID)
}

// NotifyPhotoDeleted informe la pellicule qu'une photo a été supprimée
func (h *Hub) NotifyPhotoDeleted(eventID, photoID string, photoCount int) {
	h.SendToEvent(eventID, map[string]interface{}{
		"type":        "photo_deleted",
		"event_id":    eventID,
		"photo_id":    photoID,
		"photo_count": photoCount,
	}, "")
}

// NotifyEventRevealed informe la pellicule que les photos sont visibles
func (h *Hub) NotifyEventRevealed(event *models.Event) {
	h.SendToEvent(event.ID.Hex(), map[string]interface{}{
		"type":     "event_revealed",
		"event_id": event.ID.Hex(),
		"name":     event.Name,
		"status":   event.Status,
	}, "")
}

// OnlineCount retourne le nombre de clients connectés à une pellicule
func (h *Hub) OnlineCount(eventID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.rooms[eventID])
}

// Shutdown ferme toutes les connexions
func (h *Hub) Shutdown() {
	log.Printf("🔄 Arrêt du hub WebSocket...")

	h.mu.Lock()
	for eventID, members := range h.rooms {
		for client := range members {
			close(client.send)
			client.conn.Close()
		}
		delete(h.rooms, eventID)
	}
	h.mu.Unlock()

	log.Printf("✅ Hub WebSocket arrêté")
}
