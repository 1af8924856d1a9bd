package services

import (
	"encoding/json"
	"fmt"
	"log"

	"pellicule-backend/models"

	"github.com/SherClockHolmes/webpush-go"
)

// WebPushService envoie des notifications Web Push (VAPID) aux
// navigateurs abonnés
type WebPushService struct {
	publicKey  string
	privateKey string
	subject    string
}

// NewWebPushService crée une nouvelle instance de WebPushService
func NewWebPushService(publicKey, privateKey, subject string) *WebPushService {
	if publicKey == "" || privateKey == "" {
		log.Println("⚠️  Clés VAPID non configurées - notifications Web Push désactivées")
	}
	return &WebPushService{
		publicKey:  publicKey,
		privateKey: privateKey,
		subject:    subject,
	}
}

// Enabled indique si le service est configuré
func (s *WebPushService) Enabled() bool {
	return s.publicKey != "" && s.privateKey != ""
}

// PublicKey retourne la clé publique VAPID (exposée au frontend)
func (s *WebPushService) PublicKey() string {
	return s.publicKey
}

// Send envoie un payload à un abonnement. Retourne une erreur sur un
// abonnement expiré (410) pour que l'appelant le nettoie.
func (s *WebPushService) Send(subscription models.PushSubscription, payload models.NotificationPayload) error {
	if !s.Enabled() {
		return nil
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("erreur lors de la sérialisation du payload: %w", err)
	}

	sub := &webpush.Subscription{
		Endpoint: subscription.Endpoint,
		Keys: webpush.Keys{
			P256dh: subscription.Keys.P256dh,
			Auth:   subscription.Keys.Auth,
		},
	}

	resp, err := webpush.SendNotification(body, sub, &webpush.Options{
		Subscriber:      s.subject,
		VAPIDPublicKey:  s.publicKey,
		VAPIDPrivateKey: s.privateKey,
		TTL:             3600,
	})
	if err != nil {
		return fmt.Errorf("erreur lors de l'envoi Web Push: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == 404 || resp.StatusCode == 410 {
		return fmt.Errorf("abonnement expiré (statut %d)", resp.StatusCode)
	}

	return nil
}
