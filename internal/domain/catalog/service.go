package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/playfriends/playfriends/pkg/errors"
)

// PhotoStorage stores activity photos in object storage.
type PhotoStorage interface {
	Put(ctx context.Context, key string, data []byte, mimeType string) error
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// Service exposes the catalog operations that go beyond plain repository
// reads: photo attachment and lookup helpers for the HTTP layer.
type Service interface {
	Activity(ctx context.Context, id string) (Activity, error)
	Categories(ctx context.Context) ([]Category, error)
	AttachPhoto(ctx context.Context, activityID string, data []byte, mimeType string) (string, error)
	PhotoURL(ctx context.Context, activityID string) (string, error)
}

type service struct {
	activities ActivityRepository
	categories CategoryRepository
	photos     PhotoStorage
	logger     *slog.Logger
}

const photoURLTTL = 15 * time.Minute

// NewService wires up the catalog domain.
func NewService(activities ActivityRepository, categories CategoryRepository, photos PhotoStorage, logger *slog.Logger) Service {
	return &service{
		activities: activities,
		categories: categories,
		photos:     photos,
		logger:     logger.With("component", "catalog.service"),
	}
}

func (s *service) Activity(ctx context.Context, id string) (Activity, error) {
	activity, found, err := s.activities.FindByID(ctx, id)
	if err != nil {
		return Activity{}, apperrors.Wrap(apperrors.CodeStorage, "activity lookup failed", err)
	}
	if !found {
		return Activity{}, apperrors.Wrap(apperrors.CodeNotFound, "activity not found", nil)
	}
	if err := activity.Validate(); err != nil {
		return Activity{}, err
	}
	return activity, nil
}

func (s *service) Categories(ctx context.Context) ([]Category, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeStorage, "category listing failed", err)
	}
	return categories, nil
}

func (s *service) AttachPhoto(ctx context.Context, activityID string, data []byte, mimeType string) (string, error) {
	if s.photos == nil {
		return "", apperrors.Wrap(apperrors.CodeInvalidState, "photo storage is not configured", nil)
	}
	if len(data) == 0 {
		return "", apperrors.Wrap(apperrors.CodeInvalidInput, "photo payload cannot be empty", nil)
	}
	if _, err := s.Activity(ctx, activityID); err != nil {
		return "", err
	}
	key := fmt.Sprintf("activities/%s/%s", activityID, uuid.NewString())
	if err := s.photos.Put(ctx, key, data, mimeType); err != nil {
		return "", apperrors.Wrap(apperrors.CodeStorage, "photo upload failed", err)
	}
	if err := s.activities.SetPhotoKey(ctx, activityID, key); err != nil {
		return "", apperrors.Wrap(apperrors.CodeStorage, "photo key persistence failed", err)
	}
	s.logger.Info("photo attached", "activity_id", activityID, "key", key)
	return key, nil
}

func (s *service) PhotoURL(ctx context.Context, activityID string) (string, error) {
	activity, err := s.Activity(ctx, activityID)
	if err != nil {
		return "", err
	}
	if activity.PhotoKey == "" {
		return "", apperrors.Wrap(apperrors.CodeNotFound, "activity has no photo", nil)
	}
	if s.photos == nil {
		return "", apperrors.Wrap(apperrors.CodeInvalidState, "photo storage is not configured", nil)
	}
	url, err := s.photos.PresignGet(ctx, activity.PhotoKey, photoURLTTL)
	if err != nil {
		return "", apperrors.Wrap(apperrors.CodeStorage, "photo url generation failed", err)
	}
	return url, nil
}
