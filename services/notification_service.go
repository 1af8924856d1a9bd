package services

import (
	"log"

	"pellicule-backend/database"
	"pellicule-backend/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// NotificationService centralise la création des notifications in-app
// et leur relai en push (FCM + Web Push). Le document in-app est
// l'action principale ; les push sont best-effort et ne bloquent ni
// n'annulent jamais l'action qui les a déclenchés.
type NotificationService struct {
	notifRepo    *database.NotificationRepository
	fcmTokenRepo *database.FCMTokenRepository
	subRepo      *database.PushSubscriptionRepository
	fcm          *FCMService
	webpush      *WebPushService
}

// NewNotificationService crée une nouvelle instance
func NewNotificationService(db *mongo.Database, fcm *FCMService, webpush *WebPushService) *NotificationService {
	return &NotificationService{
		notifRepo:    database.NewNotificationRepository(db),
		fcmTokenRepo: database.NewFCMTokenRepository(db),
		subRepo:      database.NewPushSubscriptionRepository(db),
		fcm:          fcm,
		webpush:      webpush,
	}
}

// Notify enregistre une notification pour un utilisateur et la relaie
// en push sur tous ses appareils
func (s *NotificationService) Notify(userID, notifType, title, message string, data map[string]string) error {
	notification := &models.Notification{
		UserID:  userID,
		Type:    notifType,
		Title:   title,
		Message: message,
		Data:    data,
	}

	if err := s.notifRepo.Create(notification); err != nil {
		return err
	}

	go s.push(userID, title, message, data)

	return nil
}

// NotifyBestEffort enregistre une notification secondaire : un échec
// est loggé mais jamais propagé à l'action principale
func (s *NotificationService) NotifyBestEffort(userID, notifType, title, message string, data map[string]string) {
	if err := s.Notify(userID, notifType, title, message, data); err != nil {
		log.Printf("Erreur création notification %s pour %s: %v", notifType, userID, err)
	}
}

// push relaie la notification sur FCM et Web Push
func (s *NotificationService) push(userID, title, message string, data map[string]string) {
	// FCM : tous les appareils mobiles de l'utilisateur
	tokens, err := s.fcmTokenRepo.FindByUserID(userID)
	if err != nil {
		log.Printf("Erreur récupération tokens FCM: %v", err)
	} else if len(tokens) > 0 {
		values := make([]string, 0, len(tokens))
		for _, t := range tokens {
			if t.Token != "" {
				values = append(values, t.Token)
			}
		}

		_, _, failedTokens := s.fcm.SendToAll(values, title, message, data)

		// Nettoyer les tokens invalides
		for _, ft := range failedTokens {
			if err := s.fcmTokenRepo.Delete(ft); err != nil {
				log.Printf("Erreur nettoyage token FCM invalide: %v", err)
			}
		}
	}

	// Web Push : navigateurs abonnés
	subscriptions, err := s.subRepo.FindByUserID(userID)
	if err != nil {
		log.Printf("Erreur récupération abonnements Web Push: %v", err)
		return
	}

	payload := models.NotificationPayload{
		Title: title,
		Body:  message,
		Data:  data,
	}

	for _, sub := range subscriptions {
		if err := s.webpush.Send(sub, payload); err != nil {
			// Abonnement expiré ou invalide : on le supprime
			log.Printf("Abonnement Web Push invalide, suppression: %v", err)
			_ = s.subRepo.DeleteByEndpoint(sub.Endpoint)
		}
	}
}
