package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/url"
	"strings"
	"time"

	"pellicule-backend/config"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Durée de validité des URLs présignées
const (
	UploadURLExpiry   = 15 * time.Minute
	DownloadURLExpiry = 1 * time.Hour
)

// StorageService gère le stockage objet (MinIO) : URLs présignées pour
// l'upload/téléchargement côté client, suppression des blobs lors des
// suppressions en cascade. Les chemins sont déterministes :
//
//	covers/{timestamp}_cover.jpg
//	photos/{eventId}/{uniqueId}.{ext}
//	profiles/{uid}/{timestamp}.jpg
type StorageService struct {
	client         *minio.Client
	bucket         string
	publicEndpoint string
}

// NewStorageService initialise le client MinIO et crée le bucket s'il
// n'existe pas
func NewStorageService(cfg *config.Config) (*StorageService, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("erreur lors de l'initialisation de MinIO: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return nil, fmt.Errorf("erreur lors de la vérification du bucket: %w", err)
	}

	if !exists {
		if err = client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("erreur lors de la création du bucket: %w", err)
		}
		log.Printf("✓ Bucket %s créé", cfg.MinioBucket)
	}

	return &StorageService{
		client:         client,
		bucket:         cfg.MinioBucket,
		publicEndpoint: strings.TrimRight(cfg.MinioPublicEndpoint, "/"),
	}, nil
}

// PhotoObjectPath construit le chemin d'une photo d'événement
func PhotoObjectPath(eventID, ext string) string {
	ext = strings.TrimPrefix(strings.ToLower(ext), ".")
	if ext == "" {
		ext = "jpg"
	}
	return fmt.Sprintf("photos/%s/%s.%s", eventID, uuid.New().String(), ext)
}

// CoverObjectPath construit le chemin d'une image de couverture
func CoverObjectPath() string {
	return fmt.Sprintf("covers/%d_cover.jpg", time.Now().UnixMilli())
}

// ProfileObjectPath construit le chemin d'une photo de profil
func ProfileObjectPath(uid string) string {
	return fmt.Sprintf("profiles/%s/%d.jpg", uid, time.Now().UnixMilli())
}

// PresignedUploadURL retourne une URL présignée PUT pour uploader un
// objet directement depuis le client
func (s *StorageService) PresignedUploadURL(ctx context.Context, objectPath string) (string, error) {
	u, err := s.client.PresignedPutObject(ctx, s.bucket, objectPath, UploadURLExpiry)
	if err != nil {
		return "", fmt.Errorf("erreur lors de la génération de l'URL d'upload: %w", err)
	}
	return u.String(), nil
}

// PresignedDownloadURL retourne une URL présignée GET pour télécharger
// un objet
func (s *StorageService) PresignedDownloadURL(ctx context.Context, objectPath string) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucket, objectPath, DownloadURLExpiry, url.Values{})
	if err != nil {
		return "", fmt.Errorf("erreur lors de la génération de l'URL de téléchargement: %w", err)
	}
	return u.String(), nil
}

// Upload écrit un objet directement (upload de photo de profil servi
// par l'API elle-même)
func (s *StorageService) Upload(ctx context.Context, objectPath string, src io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, objectPath, src, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("erreur lors de l'upload de l'objet: %w", err)
	}
	return nil
}

// Delete supprime un objet du stockage. Un objet déjà absent n'est pas
// une erreur : la cascade de suppression doit être rejouable.
func (s *StorageService) Delete(ctx context.Context, objectPath string) error {
	if objectPath == "" {
		return nil
	}

	err := s.client.RemoveObject(ctx, s.bucket, objectPath, minio.RemoveObjectOptions{})
	if err != nil {
		var minioErr minio.ErrorResponse
		if errors.As(err, &minioErr) && minioErr.Code == "NoSuchKey" {
			return nil
		}
		return fmt.Errorf("erreur lors de la suppression de l'objet: %w", err)
	}

	return nil
}

// URL retourne l'URL publique d'un objet
func (s *StorageService) URL(objectPath string) string {
	return s.publicEndpoint + "/" + s.bucket + "/" + objectPath
}
