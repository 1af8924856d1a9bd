package handlers

import (
	"errors"
	"testing"
	"time"

	"pellicule-backend/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeExpirer struct {
	transitioned bool
	err          error
	calls        int
}

func (f *fakeExpirer) MarkExpired(id primitive.ObjectID) (bool, error) {
	f.calls++
	return f.transitioned, f.err
}

type fakeNotifier struct {
	userIDs []string
	types   []string
	data    []map[string]string
}

func (f *fakeNotifier) NotifyBestEffort(userID, notifType, title, message string, data map[string]string) {
	f.userIDs = append(f.userIDs, userID)
	f.types = append(f.types, notifType)
	f.data = append(f.data, data)
}

type fakeBroadcaster struct {
	revealed []string
}

func (f *fakeBroadcaster) NotifyEventRevealed(event *models.Event) {
	f.revealed = append(f.revealed, event.ID.Hex())
}

func overdueEvent() *models.Event {
	return &models.Event{
		ID:          primitive.NewObjectID(),
		Name:        "Soirée d'été",
		OrganizerID: "owner1",
		Status:      models.StatusActive,
		CreatedAt:   time.Now().Add(-models.RevealDelay - time.Hour),
	}
}

func TestAutoExpireIfDue(t *testing.T) {
	t.Run("transition avec notification et diffusion", func(t *testing.T) {
		event := overdueEvent()
		repo := &fakeExpirer{transitioned: true}
		notifier := &fakeNotifier{}
		hub := &fakeBroadcaster{}

		if !autoExpireIfDue(repo, notifier, hub, event) {
			t.Fatal("autoExpireIfDue() = false sur une pellicule échue")
		}
		if event.Status != models.StatusExpired {
			t.Errorf("Status = %q, attendu %q", event.Status, models.StatusExpired)
		}
		if len(hub.revealed) != 1 || hub.revealed[0] != event.ID.Hex() {
			t.Errorf("diffusion WebSocket = %v, attendu [%s]", hub.revealed, event.ID.Hex())
		}
		if len(notifier.userIDs) != 1 || notifier.userIDs[0] != "owner1" {
			t.Fatalf("notifications = %v, attendu une seule pour owner1", notifier.userIDs)
		}
		if notifier.types[0] != models.NotificationSystem {
			t.Errorf("type de notification = %q, attendu %q", notifier.types[0], models.NotificationSystem)
		}
		if notifier.data[0]["action"] != "event_revealed" {
			t.Errorf("data.action = %q, attendu event_revealed", notifier.data[0]["action"])
		}
	})

	t.Run("transition perdue face à un lecteur concurrent", func(t *testing.T) {
		event := overdueEvent()
		repo := &fakeExpirer{transitioned: false}
		notifier := &fakeNotifier{}
		hub := &fakeBroadcaster{}

		if autoExpireIfDue(repo, notifier, hub, event) {
			t.Error("autoExpireIfDue() = true alors que la transition a déjà eu lieu ailleurs")
		}
		// Le statut local reflète quand même la base
		if event.Status != models.StatusExpired {
			t.Errorf("Status = %q, attendu %q", event.Status, models.StatusExpired)
		}
		if len(notifier.userIDs) != 0 || len(hub.revealed) != 0 {
			t.Error("le perdant de la course ne doit ni notifier ni diffuser")
		}
	})

	t.Run("pellicule encore active", func(t *testing.T) {
		event := overdueEvent()
		event.CreatedAt = time.Now()
		repo := &fakeExpirer{transitioned: true}
		notifier := &fakeNotifier{}
		hub := &fakeBroadcaster{}

		if autoExpireIfDue(repo, notifier, hub, event) {
			t.Error("autoExpireIfDue() = true avant l'échéance")
		}
		if repo.calls != 0 {
			t.Errorf("MarkExpired appelé %d fois avant l'échéance", repo.calls)
		}
		if event.Status != models.StatusActive {
			t.Errorf("Status = %q, attendu %q", event.Status, models.StatusActive)
		}
	})

	t.Run("erreur base de données", func(t *testing.T) {
		event := overdueEvent()
		repo := &fakeExpirer{err: errors.New("mongo indisponible")}
		notifier := &fakeNotifier{}
		hub := &fakeBroadcaster{}

		if autoExpireIfDue(repo, notifier, hub, event) {
			t.Error("autoExpireIfDue() = true malgré l'erreur")
		}
		if len(notifier.userIDs) != 0 || len(hub.revealed) != 0 {
			t.Error("aucune notification ne doit partir en cas d'erreur")
		}
	})
}

func TestNotifyRevealed(t *testing.T) {
	event := &models.Event{
		ID:          primitive.NewObjectID(),
		Name:        "Anniversaire",
		OrganizerID: "owner2",
		Status:      models.StatusExpired,
	}
	notifier := &fakeNotifier{}
	hub := &fakeBroadcaster{}

	notifyRevealed(notifier, hub, event)

	if len(hub.revealed) != 1 {
		t.Fatalf("diffusions = %d, attendu 1", len(hub.revealed))
	}
	if len(notifier.userIDs) != 1 || notifier.userIDs[0] != "owner2" {
		t.Fatalf("notifications = %v, attendu une seule pour owner2", notifier.userIDs)
	}
	if notifier.data[0]["event_id"] != event.ID.Hex() {
		t.Errorf("data.event_id = %q, attendu %s", notifier.data[0]["event_id"], event.ID.Hex())
	}
}
