package services

import (
	"fmt"
	"log"
	"time"

	"pellicule-backend/database"
	"pellicule-backend/models"

	"github.com/robfig/cron/v3"
	"go.mongodb.org/mongo-driver/mongo"
)

// LifecycleCron gère les tâches planifiées du cycle de vie :
// révélation des pellicules arrivées à échéance et récapitulatif
// mensuel d'activité
type LifecycleCron struct {
	eventRepo    *database.EventRepository
	photoRepo    *database.PhotoRepository
	userRepo     *database.UserRepository
	notification *NotificationService
	cron         *cron.Cron
}

// NewLifecycleCron crée une nouvelle instance
func NewLifecycleCron(db *mongo.Database, notification *NotificationService) *LifecycleCron {
	return &LifecycleCron{
		eventRepo:    database.NewEventRepository(db),
		photoRepo:    database.NewPhotoRepository(db),
		userRepo:     database.NewUserRepository(db),
		notification: notification,
		cron:         cron.New(),
	}
}

// Start démarre les cron jobs
func (lc *LifecycleCron) Start() {
	// Filet de sécurité : révéler les pellicules échues même si
	// personne ne les consulte
	lc.cron.AddFunc("@every 1h", lc.sweepOverdueEvents)
	// Récapitulatif mensuel le 1er de chaque mois à 9h
	lc.cron.AddFunc("0 9 1 * *", lc.sendMonthlySummaries)
	lc.cron.Start()
	log.Println("✓ Cron jobs cycle de vie démarrés (balayage horaire + récap mensuel)")
}

// Stop arrête les cron jobs
func (lc *LifecycleCron) Stop() {
	lc.cron.Stop()
}

// sweepOverdueEvents révèle toutes les pellicules actives dont le délai
// de révélation est dépassé
func (lc *LifecycleCron) sweepOverdueEvents() {
	events, err := lc.eventRepo.FindOverdueActive(time.Now())
	if err != nil {
		log.Printf("Erreur recherche pellicules échues: %v", err)
		return
	}

	if len(events) == 0 {
		return // Rien à faire
	}

	log.Printf("⏰ %d pellicule(s) échue(s) à révéler", len(events))

	for _, event := range events {
		transitioned, err := lc.eventRepo.MarkExpired(event.ID)
		if err != nil {
			log.Printf("Erreur révélation de %s: %v", event.ID.Hex(), err)
			continue
		}
		if !transitioned {
			continue // Déjà révélée par une lecture concurrente
		}

		lc.notification.NotifyBestEffort(
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
}

// sendMonthlySummaries envoie à chaque utilisateur actif le bilan du
// mois écoulé. Le champ lastSummaryMonth rend l'envoi idempotent : un
// redémarrage du serveur le 1er du mois ne double pas les notifications.
func (lc *LifecycleCron) sendMonthlySummaries() {
	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	previousStart := monthStart.AddDate(0, -1, 0)
	month := previousStart.Format("2006-01")

	users, err := lc.userRepo.FindAll()
	if err != nil {
		log.Printf("Erreur récupération utilisateurs pour le récap: %v", err)
		return
	}

	sent := 0
	for _, user := range users {
		if user.LastSummaryMonth == month {
			continue // Déjà envoyé pour ce mois
		}

		count, err := lc.photoRepo.CountByUserBetween(user.ID.Hex(), previousStart, monthStart)
		if err != nil {
			log.Printf("Erreur comptage photos de %s: %v", user.ID.Hex(), err)
			continue
		}
		if count == 0 {
			// Pas d'activité, pas de notification. On marque quand même
			// le mois comme traité pour ne pas recompter au prochain passage
			lc.userRepo.SetLastSummaryMonth(user.ID, month)
			continue
		}

		lc.notification.NotifyBestEffort(
			user.ID.Hex(),
			models.NotificationMonthlySummary,
			"📅 Votre mois en photos",
			fmt.Sprintf("Vous avez capturé %d photo(s) en %s. Revivez vos pellicules !", count, previousStart.Format("January 2006")),
			map[string]string{
				"action": "monthly_summary",
				"month":  month,
			},
		)

		if err := lc.userRepo.SetLastSummaryMonth(user.ID, month); err != nil {
			log.Printf("Erreur marquage récap de %s: %v", user.ID.Hex(), err)
			continue
		}
		sent++
	}

	if sent > 0 {
		log.Printf("📧 Récapitulatif mensuel %s envoyé à %d utilisateur(s)", month, sent)
	}
}
