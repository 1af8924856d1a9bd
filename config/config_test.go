package config

import (
	"os"
	"testing"
)

func TestLoad(t *testing.T) {
	// Sauvegarder et restaurer l'environnement
	envKeys := []string{"PORT", "JWT_SECRET", "MONGO_DB", "CORS_ALLOWED_ORIGINS", "MINIO_BUCKET", "MINIO_USE_SSL"}
	saved := map[string]string{}
	for _, key := range envKeys {
		saved[key] = os.Getenv(key)
		os.Unsetenv(key)
	}
	defer func() {
		for key, value := range saved {
			if value == "" {
				os.Unsetenv(key)
			} else {
				os.Setenv(key, value)
			}
		}
	}()

	t.Run("erreur sans JWT_SECRET", func(t *testing.T) {
		_, err := Load()
		if err == nil {
			t.Fatal("Load() doit échouer sans JWT_SECRET")
		}
		if err.Error() != "JWT_SECRET est requis" {
			t.Errorf("erreur = %q, attendu %q", err.Error(), "JWT_SECRET est requis")
		}
	})

	t.Run("valeurs par défaut avec JWT_SECRET", func(t *testing.T) {
		os.Setenv("JWT_SECRET", "test-secret")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() erreur inattendue: %v", err)
		}
		if cfg.JWTSecret != "test-secret" {
			t.Errorf("JWTSecret = %q, attendu test-secret", cfg.JWTSecret)
		}
		if cfg.Port != "8090" {
			t.Errorf("Port = %q, attendu 8090 par défaut", cfg.Port)
		}
		if cfg.MongoDB != "pellicule_db" {
			t.Errorf("MongoDB = %q, attendu pellicule_db par défaut", cfg.MongoDB)
		}
		if cfg.MinioBucket != "pellicule-media" {
			t.Errorf("MinioBucket = %q, attendu pellicule-media par défaut", cfg.MinioBucket)
		}
		if cfg.MinioUseSSL {
			t.Error("MinioUseSSL = true, attendu false par défaut")
		}
	})

	t.Run("PORT depuis l'environnement", func(t *testing.T) {
		os.Setenv("JWT_SECRET", "test-secret")
		os.Setenv("PORT", "9999")
		defer os.Unsetenv("PORT")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() erreur inattendue: %v", err)
		}
		if cfg.Port != "9999" {
			t.Errorf("Port = %q, attendu 9999", cfg.Port)
		}
	})

	t.Run("parsing des origines CORS", func(t *testing.T) {
		os.Setenv("JWT_SECRET", "test-secret")
		os.Setenv("CORS_ALLOWED_ORIGINS", "http://a.com, http://b.com , c.com")
		defer os.Unsetenv("CORS_ALLOWED_ORIGINS")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() erreur inattendue: %v", err)
		}
		if len(cfg.CORSOrigins) != 3 {
			t.Fatalf("CORSOrigins = %v, attendu 3 éléments", cfg.CORSOrigins)
		}
		if cfg.CORSOrigins[1] != "http://b.com" {
			t.Errorf("les espaces doivent être nettoyés, obtenu %q", cfg.CORSOrigins[1])
		}
	})
}
