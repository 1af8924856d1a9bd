package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"
)

// SlackService gère l'envoi d'alertes serveur vers Slack
type SlackService struct {
	webhookURL string
	client     *http.Client
}

// SlackMessage représente un message Slack
type SlackMessage struct {
	Text        string       `json:"text,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// Attachment représente une pièce jointe Slack
type Attachment struct {
	Color     string  `json:"color,omitempty"`
	Title     string  `json:"title,omitempty"`
	Text      string  `json:"text,omitempty"`
	Fields    []Field `json:"fields,omitempty"`
	Timestamp int64   `json:"ts,omitempty"`
	Footer    string  `json:"footer,omitempty"`
}

// Field représente un champ dans une pièce jointe Slack
type Field struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}

// NewSlackService crée une nouvelle instance de SlackService
func NewSlackService(webhookURL string) *SlackService {
	if webhookURL == "" {
		log.Println("⚠️  Slack webhook URL non configuré - alertes Slack désactivées")
	}

	return &SlackService{
		webhookURL: webhookURL,
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

// SendCriticalAlert envoie une alerte d'erreur serveur sur Slack.
// Best-effort : un échec est loggé, jamais propagé.
func (s *SlackService) SendCriticalAlert(title, text string, fields []Field) {
	if s.webhookURL == "" {
		return
	}

	message := SlackMessage{
		Attachments: []Attachment{
			{
				Color:     "#d32f2f",
				Title:     title,
				Text:      text,
				Fields:    fields,
				Timestamp: time.Now().Unix(),
				Footer:    "pellicule-backend",
			},
		},
	}

	body, err := json.Marshal(message)
	if err != nil {
		log.Printf("Erreur sérialisation message Slack: %v", err)
		return
	}

	resp, err := s.client.Post(s.webhookURL, "application/json", bytes.NewReader(body))
	if err != nil {
		log.Printf("Erreur envoi alerte Slack: %v", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("Slack a répondu %s", fmt.Sprint(resp.StatusCode))
	}
}
