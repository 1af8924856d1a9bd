package middleware

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"pellicule-backend/services"
)

// responseWriter wrapper pour capturer le code de statut
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{w, http.StatusOK}
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// isCriticalError détermine si une erreur doit être remontée sur Slack.
// Les erreurs serveur (5xx) le sont toujours, les erreurs client jamais.
func isCriticalError(statusCode int) bool {
	return statusCode >= http.StatusInternalServerError
}

// Logging enregistre les requêtes HTTP et envoie une alerte Slack pour les erreurs serveur
func Logging(slackService *services.SlackService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rw := newResponseWriter(w)
			next.ServeHTTP(rw, r)

			duration := time.Since(start)
			statusCode := rw.statusCode

			if statusCode >= http.StatusBadRequest {
				log.Printf(
					"⚠️ %s %s -> %d (%s)",
					r.Method,
					r.RequestURI,
					statusCode,
					duration,
				)

				if isCriticalError(statusCode) && slackService != nil {
					slackService.SendCriticalAlert(
						"🚨 Erreur serveur",
						http.StatusText(statusCode),
						[]services.Field{
							{Title: "Requête", Value: r.Method + " " + r.RequestURI, Short: false},
							{Title: "Code", Value: strconv.Itoa(statusCode), Short: true},
							{Title: "Origine", Value: r.Header.Get("Origin"), Short: true},
							{Title: "User-Agent", Value: r.Header.Get("User-Agent"), Short: false},
						},
					)
				}
			}
		})
	}
}
