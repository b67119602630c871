package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"alcyxob/workout-tracker/internal/catalog"
	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/repository"
	"alcyxob/workout-tracker/internal/storage"

	log "github.com/sirupsen/logrus"
)

var (
	ErrExerciseNotFound   = errors.New("exercise not found")
	ErrImageStorageAbsent = errors.New("image storage is not configured")
	ErrUploadURLError     = errors.New("failed to generate upload URL")
)

// ImageUpload is handed to an admin uploading a new exercise image. The
// client PUTs the file to UploadURL with the same Content-Type.
type ImageUpload struct {
	UploadURL   string    `json:"upload_url"`
	ObjectKey   string    `json:"object_key"`
	ContentType string    `json:"content_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// ExerciseService reads the exercise catalog. The catalog is read-only for
// regular users; admins can only replace images.
type ExerciseService interface {
	List(ctx context.Context) ([]domain.Exercise, error)
	Browse(ctx context.Context, criteria catalog.Criteria, page, pageSize int) (catalog.Page, error)
	GetByID(ctx context.Context, exerciseID string) (*domain.Exercise, error)
	GetByIDs(ctx context.Context, exerciseIDs []string) ([]domain.Exercise, error)
	AttachImage(ctx context.Context, id domain.Identity, exerciseID, contentType string) (*ImageUpload, error)
}

type exerciseService struct {
	exerciseRepo repository.ExerciseRepository
	images       imageResolver
	now          func() time.Time
	pageSize     int
}

// NewExerciseService creates a new instance of exerciseService. pageSize is
// used when Browse is called without one.
func NewExerciseService(exerciseRepo repository.ExerciseRepository, pageSize int, opts ...Option) ExerciseService {
	o := buildOptions(opts)
	if pageSize <= 0 {
		pageSize = catalog.DefaultPageSize
	}
	return &exerciseService{
		exerciseRepo: exerciseRepo,
		images:       o.images,
		now:          o.now,
		pageSize:     pageSize,
	}
}

func (s *exerciseService) List(ctx context.Context) ([]domain.Exercise, error) {
	exercises, err := s.exerciseRepo.List(ctx)
	if err != nil {
		return nil, permissionError(err)
	}
	s.images.resolveAll(ctx, exercises)
	return exercises, nil
}

// Browse filters the whole catalog and returns the requested page, clamped
// into range. Only the exercises on the returned page get presigned images.
func (s *exerciseService) Browse(ctx context.Context, criteria catalog.Criteria, page, pageSize int) (catalog.Page, error) {
	if pageSize <= 0 {
		pageSize = s.pageSize
	}
	all, err := s.exerciseRepo.List(ctx)
	if err != nil {
		return catalog.Page{}, permissionError(err)
	}
	p := catalog.Paginate(catalog.Filter(all, criteria), page, pageSize)
	s.images.resolveAll(ctx, p.Items)
	return p, nil
}

func (s *exerciseService) GetByID(ctx context.Context, exerciseID string) (*domain.Exercise, error) {
	exercise, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, permissionError(err)
	}
	s.images.resolve(ctx, exercise)
	return exercise, nil
}

// GetByIDs returns the exercises that exist among exerciseIDs. Unknown ids are
// silently absent from the result.
func (s *exerciseService) GetByIDs(ctx context.Context, exerciseIDs []string) ([]domain.Exercise, error) {
	ids := uniqueIDs(exerciseIDs)
	if len(ids) == 0 {
		return []domain.Exercise{}, nil
	}
	exercises, err := s.exerciseRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, permissionError(err)
	}
	s.images.resolveAll(ctx, exercises)
	return exercises, nil
}

// AttachImage points the exercise at a fresh bucket key and returns a
// presigned URL the admin uploads the file to.
func (s *exerciseService) AttachImage(ctx context.Context, id domain.Identity, exerciseID, contentType string) (*ImageUpload, error) {
	// 1. Only admins replace images, and only with a bucket configured
	if err := requireAdmin(id); err != nil {
		return nil, err
	}
	if s.images.fs == nil {
		return nil, ErrImageStorageAbsent
	}

	exercise, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, permissionError(err)
	}

	// 2. Generate a unique object key for S3
	key, err := storage.NewImageKey(exercise.ID, contentType)
	if err != nil {
		return nil, err
	}
	expiry := s.images.expiry
	if expiry <= 0 {
		expiry = storage.DefaultPresignedURLExpiry
	}
	// 3. Generate the pre-signed URL
	uploadURL, err := s.images.fs.GeneratePresignedUploadURL(ctx, key, contentType, expiry)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUploadURLError, err)
	}

	// 4. Point the exercise at the new key and drop the old object
	previous := exercise.ImgURL
	exercise.ImgURL = key
	if err := s.exerciseRepo.Upsert(ctx, exercise); err != nil {
		return nil, permissionError(err)
	}
	if storage.IsObjectKey(previous) {
		if err := s.images.fs.DeleteObject(ctx, previous); err != nil {
			log.WithError(err).WithField("exercise_id", exercise.ID).Warn("failed to delete replaced image")
		}
	}

	return &ImageUpload{
		UploadURL:   uploadURL,
		ObjectKey:   key,
		ContentType: contentType,
		ExpiresAt:   s.now().Add(expiry),
	}, nil
}
