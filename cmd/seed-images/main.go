// Command seed-images replaces placeholder listing covers with copies hosted
// in the project's storage bucket, so demo data does not depend on a
// third-party image service staying up.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"cloud.google.com/go/storage"
	"github.com/caarlos0/env/v9"
	appcfg "github.com/campusbooks/marketplace-backend/internal/config"
	"github.com/campusbooks/marketplace-backend/internal/db"
	"github.com/campusbooks/marketplace-backend/internal/model"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

type Config struct {
	StorageBucket  string `env:"STORAGE_BUCKET,required"`
	TimeoutSeconds int    `env:"TIMEOUT_SECONDS" envDefault:"300"`
	ForceSeed      bool   `env:"FORCE_SEED" envDefault:"false"`
}

func main() {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("failed to parse env: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.TimeoutSeconds)*time.Second)
	defer cancel()

	dbCfg, err := appcfg.Load()
	if err != nil {
		log.Fatalf("failed to load db config: %v", err)
	}
	gdb, err := db.Connect(dbCfg)
	if err != nil {
		log.Fatalf("failed to connect db: %v", err)
	}

	storageClient, err := storage.NewClient(ctx)
	if err != nil {
		log.Fatalf("failed to init storage: %v", err)
	}
	defer storageClient.Close()

	if err := rehostCovers(ctx, cfg, gdb, storageClient); err != nil {
		log.Fatalf("rehost covers failed: %v", err)
	}
	log.Println("seed-images completed successfully")
}

func rehostCovers(ctx context.Context, cfg Config, gdb *gorm.DB, storageClient *storage.Client) error {
	var listings []model.Listing
	q := gdb.WithContext(ctx).Model(&model.Listing{})
	if !cfg.ForceSeed {
		q = q.Where("image_url LIKE ?", "https://picsum.photos/%")
	}
	if err := q.Find(&listings).Error; err != nil {
		return err
	}
	log.Printf("target listings=%d (force=%v)", len(listings), cfg.ForceSeed)

	for _, l := range listings {
		src := ""
		if l.ImageURL != nil {
			src = *l.ImageURL
		}
		imageBytes, err := fetchCover(ctx, src, l.ID)
		if err != nil {
			log.Printf("[listing %d] fetch failed: %v", l.ID, err)
			continue
		}

		path := fmt.Sprintf("listings/covers/%d.png", l.ID)
		publicURL, err := uploadWithToken(ctx, storageClient, cfg.StorageBucket, path, imageBytes)
		if err != nil {
			log.Printf("[listing %d] upload failed: %v", l.ID, err)
			continue
		}

		if err := gdb.WithContext(ctx).Model(&model.Listing{}).Where("id = ?", l.ID).Update("image_url", publicURL).Error; err != nil {
			log.Printf("[listing %d] db update failed: %v", l.ID, err)
			continue
		}
		log.Printf("[listing %d] done url=%s", l.ID, publicURL)
	}
	return nil
}

func fetchCover(ctx context.Context, src string, listingID uint64) ([]byte, error) {
	if src == "" {
		src = fmt.Sprintf("https://picsum.photos/seed/listing-%d/600/800", listingID)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cover status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func uploadWithToken(ctx context.Context, client *storage.Client, bucketName, objectPath string, data []byte) (string, error) {
	token := uuid.NewString()
	obj := client.Bucket(bucketName).Object(objectPath)
	w := obj.NewWriter(ctx)
	w.ContentType = "image/png"
	w.Metadata = map[string]string{
		"firebaseStorageDownloadTokens": token,
	}
	if _, err := w.Write(data); err != nil {
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}

	publicURL := fmt.Sprintf("https://firebasestorage.googleapis.com/v0/b/%s/o/%s?alt=media&token=%s",
		bucketName, url.PathEscape(objectPath), token)
	return publicURL, nil
}
