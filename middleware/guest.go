package middleware

import (
	"net/http"
	"strings"

	"pellicule-backend/utils"
)

// Guest vérifie que l'utilisateur n'est PAS connecté
// Si un token valide est présent, refuse l'accès
func Guest(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")

			// Pas de header Authorization : utilisateur non connecté, continuer
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				// Format invalide, pas de token exploitable
				next.ServeHTTP(w, r)
				return
			}

			_, err := utils.ValidateToken(parts[1], jwtSecret)
			if err == nil {
				// Token valide = utilisateur déjà connecté
				utils.RespondError(w, http.StatusForbidden, "Vous êtes déjà connecté")
				return
			}

			// Token invalide ou expiré, c'est normal pour une nouvelle connexion
			next.ServeHTTP(w, r)
		})
	}
}
