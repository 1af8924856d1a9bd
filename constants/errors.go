package constants

// Messages d'erreur HTTP courants
const (
	ErrMethodNotAllowed = "Méthode non autorisée"
	ErrServerError      = "Erreur serveur"
	ErrInvalidData      = "Données invalides"
	ErrNotAuthenticated = "Non authentifié"
	ErrInvalidToken     = "Token invalide"
	ErrInvalidEventID   = "ID événement invalide"
	ErrEventNotFound    = "Événement non trouvé"
	ErrInvalidPhotoID   = "ID photo invalide"
	ErrPhotoNotFound    = "Photo non trouvée"
	ErrUserNotFound     = "Utilisateur introuvable"
	ErrOwnerOnly        = "Seul le propriétaire peut effectuer cette action"
	ErrEventLocked      = "Événement protégé par un code PIN"
	ErrWrongPin         = "Code PIN incorrect"
	ErrEventRevealed    = "Événement déjà révélé, lecture seule"
	ErrEventFull        = "Capacité maximale de photos atteinte"
	ErrRevealNoPhotos   = "Impossible de révéler un roll sans photo"
	ErrCodeNotFound     = "Aucun événement avec ce code"
	ErrInvalidJSONBody  = "Body JSON invalide"
)

// En-têtes HTTP
const (
	HeaderContentType     = "Content-Type"
	HeaderApplicationJSON = "application/json"
	HeaderEventPin        = "X-Event-Pin"
)
