package storage

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"

	"github.com/minio/minio-go/v7"
	"github.com/segmentio/ksuid"
)

// Asset is what the store hands back after an upload: a public URL plus
// the opaque id needed to destroy the object later. Responsive holds
// derived-size poster URLs when the store produced any.
type Asset struct {
	URL        string   `json:"url"`
	AssetID    string   `json:"asset_id"`
	Responsive []string `json:"responsive,omitempty"`
}

type StorageService struct {
	client  *minio.Client
	bucket  string
	baseURL string
}

func NewStorageService(client *minio.Client, bucket, baseURL string) *StorageService {
	return &StorageService{
		client:  client,
		bucket:  bucket,
		baseURL: baseURL,
	}
}

// UploadImage stores an image under the given folder (posters/, avatars/)
// and returns its asset descriptor.
func (s *StorageService) UploadImage(ctx context.Context, file multipart.File, fileHeader *multipart.FileHeader, folder string) (*Asset, error) {
	objectName := s.objectName(folder, fileHeader.Filename)

	_, err := s.client.PutObject(
		ctx,
		s.bucket,
		objectName,
		file,
		fileHeader.Size,
		minio.PutObjectOptions{
			ContentType: fileHeader.Header.Get("Content-Type"),
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upload image to MinIO: %w", err)
	}

	return &Asset{
		URL:     s.PublicURL(objectName),
		AssetID: objectName,
	}, nil
}

// UploadVideo stores a trailer video. Transcoding and derived renditions
// are the store's concern, not ours.
func (s *StorageService) UploadVideo(ctx context.Context, file multipart.File, fileHeader *multipart.FileHeader, folder string) (*Asset, error) {
	objectName := s.objectName(folder, fileHeader.Filename)

	_, err := s.client.PutObject(
		ctx,
		s.bucket,
		objectName,
		file,
		fileHeader.Size,
		minio.PutObjectOptions{
			ContentType: fileHeader.Header.Get("Content-Type"),
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upload video to MinIO: %w", err)
	}

	return &Asset{
		URL:     s.PublicURL(objectName),
		AssetID: objectName,
	}, nil
}

// Destroy removes an object by its asset id. A missing object is an
// error: callers treat anything but "ok" as a dependency failure.
func (s *StorageService) Destroy(ctx context.Context, assetID string) error {
	if assetID == "" {
		return fmt.Errorf("empty asset id")
	}

	if _, err := s.client.StatObject(ctx, s.bucket, assetID, minio.StatObjectOptions{}); err != nil {
		return fmt.Errorf("asset %s not found: %w", assetID, err)
	}

	if err := s.client.RemoveObject(ctx, s.bucket, assetID, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove asset %s: %w", assetID, err)
	}

	return nil
}

// PublicURL builds the browser-facing URL for an object, assuming the
// bucket is public-read.
func (s *StorageService) PublicURL(objectName string) string {
	return fmt.Sprintf("%s/%s/%s", s.baseURL, s.bucket, objectName)
}

func (s *StorageService) objectName(folder, filename string) string {
	ext := filepath.Ext(filename)
	return fmt.Sprintf("%s/%s%s", folder, ksuid.New().String(), ext)
}
