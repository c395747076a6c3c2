package services

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"gotransit/internal/config"
	"gotransit/pkg/storage"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type StorageService interface {
	UploadAvatar(ctx context.Context, userID primitive.ObjectID, filename, contentType string, reader io.Reader, size int64) (string, error)
	DeleteObject(ctx context.Context, key string) error
}

type storageService struct {
	provider storage.StorageProvider
	config   *config.StorageConfig
}

func NewStorageService(provider storage.StorageProvider, config *config.StorageConfig) StorageService {
	return &storageService{
		provider: provider,
		config:   config,
	}
}

func (s *storageService) UploadAvatar(ctx context.Context, userID primitive.ObjectID, filename, contentType string, reader io.Reader, size int64) (string, error) {
	if s.config.MaxFileSize > 0 && size > s.config.MaxFileSize {
		return "", fmt.Errorf("file exceeds maximum size of %d bytes", s.config.MaxFileSize)
	}

	key := fmt.Sprintf("avatars/%s/%d%s", userID.Hex(), time.Now().UnixNano(), path.Ext(filename))

	resp, err := s.provider.Upload(ctx, &storage.UploadRequest{
		Key:         key,
		Reader:      reader,
		ContentType: contentType,
		Size:        size,
		ACL:         s.config.AvatarACL,
	})
	if err != nil {
		return "", err
	}

	return resp.URL, nil
}

func (s *storageService) DeleteObject(ctx context.Context, key string) error {
	return s.provider.Delete(ctx, key)
}
