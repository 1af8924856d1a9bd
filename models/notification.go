package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Types de notifications
const (
	NotificationEventCreated   = "event_created"
	NotificationDownloadOK     = "download_success"
	NotificationMonthlySummary = "monthly_summary"
	NotificationSystem         = "system"
)

// Notification représente une notification in-app d'un utilisateur.
// Le serveur fixe timestamp et isRead=false à la création.
type Notification struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID    string             `json:"userId" bson:"userId"`
	Type      string             `json:"type" bson:"type"`
	Title     string             `json:"title" bson:"title"`
	Message   string             `json:"message" bson:"message"`
	Timestamp time.Time          `json:"timestamp" bson:"timestamp"`
	IsRead    bool               `json:"isRead" bson:"isRead"`
	Data      map[string]string  `json:"data,omitempty" bson:"data,omitempty"`
}

// NotificationsResponse représente la liste des notifications d'un utilisateur
type NotificationsResponse struct {
	Total         int            `json:"total"`
	Unread        int            `json:"unread"`
	Notifications []Notification `json:"notifications"`
}
