package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"pellicule-backend/config"
	"pellicule-backend/database"
	"pellicule-backend/handlers"
	"pellicule-backend/middleware"
	"pellicule-backend/services"
	"pellicule-backend/websocket"

	"github.com/gorilla/mux"
)

func main() {
	// Charger la configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Erreur lors du chargement de la configuration: %v", err)
	}

	// Connexion à MongoDB
	if err := database.Connect(cfg.MongoURI, cfg.MongoDB); err != nil {
		log.Fatalf("❌ Erreur de connexion à MongoDB: %v", err)
	}
	defer database.Close()

	// Initialiser Firebase Cloud Messaging (optionnel)
	fcmService, err := services.NewFCMService(cfg.FirebaseCredentialsFile)
	if err != nil {
		log.Printf("⚠️  Erreur d'initialisation Firebase: %v", err)
		log.Println("⚠️  Le serveur démarre SANS notifications FCM")
		fcmService = services.NewDisabledFCMService()
	} else {
		log.Println("✓ Firebase Cloud Messaging initialisé")
	}

	// Initialiser le stockage objet (MinIO)
	storageService, err := services.NewStorageService(cfg)
	if err != nil {
		log.Fatalf("❌ Erreur d'initialisation du stockage objet: %v", err)
	}
	log.Printf("✓ Stockage objet prêt (bucket: %s)", cfg.MinioBucket)

	// Services transverses
	webpushService := services.NewWebPushService(cfg.VAPIDPublicKey, cfg.VAPIDPrivateKey, cfg.VAPIDSubject)
	slackService := services.NewSlackService(cfg.SlackWebhookURL)
	notificationService := services.NewNotificationService(database.DB, fcmService, webpushService)
	cloneService := services.NewCloneService(database.DB)

	// Cron du cycle de vie : balayage des pellicules échues + récap mensuel
	lifecycleCron := services.NewLifecycleCron(database.DB, notificationService)
	lifecycleCron.Start()
	defer lifecycleCron.Stop()

	// Hub WebSocket : flux temps réel par pellicule
	wsHub := websocket.NewHub()
	go wsHub.Run()
	log.Println("✅ Hub WebSocket initialisé et en cours d'exécution")

	// Créer le routeur
	router := mux.NewRouter()

	// Créer un routeur sans middleware pour WebSocket
	rawRouter := mux.NewRouter()

	// Appliquer les middlewares globaux (SAUF pour WebSocket)
	router.Use(middleware.Logging(slackService))
	router.Use(middleware.CORS(cfg.CORSOrigins))

	// Créer les handlers
	healthHandler := handlers.NewHealthHandler(cfg.Environment)
	authHandler := handlers.NewAuthHandler(database.DB, cfg.JWTSecret)
	userHandler := handlers.NewUserHandler(database.DB)
	eventHandler := handlers.NewEventHandler(database.DB, storageService, notificationService, wsHub)
	photoHandler := handlers.NewPhotoHandler(database.DB, storageService, notificationService, wsHub)
	joinHandler := handlers.NewJoinHandler(database.DB, cloneService, notificationService, wsHub)
	uploadHandler := handlers.NewUploadHandler(database.DB, storageService, notificationService)
	notificationHandler := handlers.NewNotificationHandler(database.DB, webpushService)
	fcmHandler := handlers.NewFCMHandler(database.DB)
	wsHandler := websocket.NewHandler(wsHub, cfg.JWTSecret)

	// Middleware Guest pour empêcher l'accès si déjà connecté
	guestMiddleware := middleware.Guest(cfg.JWTSecret)

	// Routes publiques
	router.Handle("/api/auth/register", guestMiddleware(http.HandlerFunc(authHandler.Register))).Methods("POST", "OPTIONS")
	router.Handle("/api/auth/login", guestMiddleware(http.HandlerFunc(authHandler.Login))).Methods("POST", "OPTIONS")
	router.HandleFunc("/api/health", healthHandler.Health).Methods("GET")
	router.HandleFunc("/api/notifications/vapid-public-key", notificationHandler.VAPIDPublicKey).Methods("GET", "OPTIONS")

	// Routes protégées
	protected := router.PathPrefix("/api").Subrouter()
	protected.Use(middleware.Auth(cfg.JWTSecret))

	// Profil
	protected.HandleFunc("/users/me", userHandler.GetMe).Methods("GET", "OPTIONS")
	protected.HandleFunc("/users/me", userHandler.UpdateProfile).Methods("PUT", "OPTIONS")
	protected.HandleFunc("/users/me/photo", uploadHandler.UploadProfilePhoto).Methods("POST", "OPTIONS")
	protected.HandleFunc("/users/username-available", userHandler.UsernameAvailable).Methods("GET", "OPTIONS")

	// Pellicules
	protected.HandleFunc("/events", eventHandler.Create).Methods("POST", "OPTIONS")
	protected.HandleFunc("/events", eventHandler.GetMyEvents).Methods("GET", "OPTIONS")
	protected.HandleFunc("/events/{event_id}", eventHandler.GetEvent).Methods("GET", "OPTIONS")
	protected.HandleFunc("/events/{event_id}", eventHandler.Update).Methods("PUT", "OPTIONS")
	protected.HandleFunc("/events/{event_id}", eventHandler.Delete).Methods("DELETE", "OPTIONS")
	protected.HandleFunc("/events/{event_id}/reveal", eventHandler.Reveal).Methods("POST", "OPTIONS")
	protected.HandleFunc("/events/{event_id}/archive", eventHandler.Archive).Methods("PUT", "OPTIONS")
	protected.HandleFunc("/events/{event_id}/favorite", eventHandler.Favorite).Methods("PUT", "OPTIONS")
	protected.HandleFunc("/events/{event_id}/pin", eventHandler.SetPin).Methods("PUT", "OPTIONS")

	// Photos
	protected.HandleFunc("/events/{event_id}/photos", photoHandler.List).Methods("GET", "OPTIONS")
	protected.HandleFunc("/events/{event_id}/photos", photoHandler.Create).Methods("POST", "OPTIONS")
	protected.HandleFunc("/events/{event_id}/photos/upload-url", uploadHandler.PresignPhoto).Methods("POST", "OPTIONS")
	protected.HandleFunc("/photos/{photo_id}", photoHandler.Delete).Methods("DELETE", "OPTIONS")
	protected.HandleFunc("/photos/{photo_id}/like", photoHandler.Like).Methods("PUT", "OPTIONS")
	protected.HandleFunc("/photos/{photo_id}/download", uploadHandler.Download).Methods("GET", "OPTIONS")

	// Uploads
	protected.HandleFunc("/uploads/cover-url", uploadHandler.PresignCover).Methods("POST", "OPTIONS")

	// Accès par code et clonage
	protected.HandleFunc("/join/{code}", joinHandler.GetByCode).Methods("GET", "OPTIONS")
	protected.HandleFunc("/join", joinHandler.Clone).Methods("POST", "OPTIONS")

	// Notifications
	protected.HandleFunc("/notifications", notificationHandler.List).Methods("GET", "OPTIONS")
	protected.HandleFunc("/notifications/{notification_id}/read", notificationHandler.MarkRead).Methods("PUT", "OPTIONS")
	protected.HandleFunc("/notifications/read-all", notificationHandler.MarkAllRead).Methods("PUT", "OPTIONS")
	protected.HandleFunc("/notifications/subscribe", notificationHandler.Subscribe).Methods("POST", "OPTIONS")
	protected.HandleFunc("/notifications/unsubscribe", notificationHandler.Unsubscribe).Methods("POST", "OPTIONS")
	protected.HandleFunc("/fcm/subscribe", fcmHandler.Subscribe).Methods("POST", "OPTIONS")
	protected.HandleFunc("/fcm/unsubscribe", fcmHandler.Unsubscribe).Methods("POST", "OPTIONS")

	// 🔌 ROUTE WEBSOCKET (SANS middleware pour éviter le wrapping du ResponseWriter)
	rawRouter.HandleFunc("/ws/events/{event_id}", wsHandler.ServeWS).Methods("GET")

	// Créer un multiplexeur qui combine les deux routers
	mainHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/ws/") {
			rawRouter.ServeHTTP(w, r)
		} else {
			router.ServeHTTP(w, r)
		}
	})

	// Démarrer le serveur
	addr := fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)
	server := &http.Server{
		Addr:    addr,
		Handler: mainHandler,
	}

	// Gérer l'arrêt gracieux du serveur
	go func() {
		log.Printf("🚀 Serveur démarré sur http://%s", addr)
		log.Printf("📝 Environnement: %s", cfg.Environment)
		log.Printf("🗄️  Base de données: MongoDB")
		log.Println("📋 Routes disponibles:")
		log.Println("   POST   /api/auth/register                  - Inscription")
		log.Println("   POST   /api/auth/login                     - Connexion")
		log.Println("   GET    /api/health                         - Health check")
		log.Println("")
		log.Println("   🎞️  Pellicules (authentifié):")
		log.Println("   POST   /api/events                         - Créer une pellicule")
		log.Println("   GET    /api/events                         - Mes pellicules (?archived=true)")
		log.Println("   GET    /api/events/{id}                    - Détails (révélation auto)")
		log.Println("   PUT    /api/events/{id}                    - Modifier (active uniquement)")
		log.Println("   DELETE /api/events/{id}                    - Supprimer (cascade)")
		log.Println("   POST   /api/events/{id}/reveal             - Révéler avant l'échéance")
		log.Println("   PUT    /api/events/{id}/archive            - Archiver/désarchiver")
		log.Println("   PUT    /api/events/{id}/favorite           - Favori")
		log.Println("   PUT    /api/events/{id}/pin                - Poser/retirer le PIN")
		log.Println("")
		log.Println("   📷 Photos :")
		log.Println("   GET    /api/events/{id}/photos             - Liste (les siennes tant qu'actif)")
		log.Println("   POST   /api/events/{id}/photos             - Enregistrer une capture")
		log.Println("   POST   /api/events/{id}/photos/upload-url  - URL d'upload pré-signée")
		log.Println("   DELETE /api/photos/{id}                    - Supprimer")
		log.Println("   PUT    /api/photos/{id}/like               - Like")
		log.Println("   GET    /api/photos/{id}/download           - URL de téléchargement")
		log.Println("")
		log.Println("   🧬 Accès par code :")
		log.Println("   GET    /api/join/{code}                    - Retrouver par code")
		log.Println("   POST   /api/join                           - Cloner une pellicule révélée")
		log.Println("")
		log.Println("   🔔 Notifications :")
		log.Println("   GET    /api/notifications                  - Liste + non-lues")
		log.Println("   PUT    /api/notifications/{id}/read        - Marquer comme lue")
		log.Println("   PUT    /api/notifications/read-all         - Tout marquer")
		log.Println("   POST   /api/notifications/subscribe        - Web Push (VAPID)")
		log.Println("   POST   /api/fcm/subscribe                  - Firebase Cloud Messaging")
		log.Println("")
		log.Println("   🔌 WebSocket :")
		log.Println("   GET    /ws/events/{id}?token=...           - Flux temps réel d'une pellicule")
		log.Println("\n✨ Le serveur est prêt à recevoir des requêtes!")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Erreur du serveur: %v", err)
		}
	}()

	// Attendre le signal d'arrêt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("\n🛑 Arrêt du serveur...")
	wsHub.Shutdown()
	if err := server.Close(); err != nil {
		log.Printf("❌ Erreur lors de l'arrêt du serveur: %v", err)
	}
	log.Println("✓ Serveur arrêté proprement")
}
