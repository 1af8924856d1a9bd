package websocket

import (
	"testing"
	"time"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition jamais atteinte")
}

func TestHubRegisterEtBroadcast(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	alice := &Client{hub: hub, send: make(chan interface{}, 8), UserID: "alice", EventID: "event1"}
	bob := &Client{hub: hub, send: make(chan interface{}, 8), UserID: "bob", EventID: "event1"}
	carol := &Client{hub: hub, send: make(chan interface{}, 8), UserID: "carol", EventID: "event2"}

	hub.register <- alice
	hub.register <- bob
	hub.register <- carol

	waitFor(t, func() bool { return hub.OnlineCount("event1") == 2 })
	if hub.OnlineCount("event2") != 1 {
		t.Errorf("OnlineCount(event2) = %d, attendu 1", hub.OnlineCount("event2"))
	}

	// alice capture une photo : bob est prévenu, pas alice (exclue),
	// pas carol (autre pellicule)
	hub.NotifyPhotoAdded("event1", 3, "alice")

	select {
	case payload := <-bob.send:
		msg, ok := payload.(map[string]interface{})
		if !ok {
			t.Fatalf("payload inattendu: %T", payload)
		}
		if msg["type"] != "photo_added" || msg["photo_count"] != 3 {
			t.Errorf("message inattendu: %+v", msg)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("bob n'a rien reçu")
	}

	select {
	case payload := <-alice.send:
		t.Errorf("alice ne devait rien recevoir, reçu %+v", payload)
	case <-time.After(50 * time.Millisecond):
	}

	select {
	case payload := <-carol.send:
		t.Errorf("carol ne devait rien recevoir, reçu %+v", payload)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubUnregisterVideLaRoom(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := &Client{hub: hub, send: make(chan interface{}, 8), UserID: "alice", EventID: "event1"}
	hub.register <- client
	waitFor(t, func() bool { return hub.OnlineCount("event1") == 1 })

	hub.unregister <- client
	waitFor(t, func() bool { return hub.OnlineCount("event1") == 0 })

	// Le canal du client est fermé par le hub
	if _, open := <-client.send; open {
		t.Error("le canal send devait être fermé")
	}
}
