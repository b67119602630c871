package service

import (
	"context"
	"errors"
	"time"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/metrics"
	"alcyxob/workout-tracker/internal/repository"
	"alcyxob/workout-tracker/internal/storage"

	log "github.com/sirupsen/logrus"
)

var (
	ErrUnauthenticated         = errors.New("authentication required")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
)

// Option configures the optional collaborators of a service.
type Option func(*options)

type options struct {
	now     func() time.Time
	metrics *metrics.Manager
	images  imageResolver
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

func WithMetrics(m *metrics.Manager) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithImageStorage presigns exercise images that are stored as bucket keys.
func WithImageStorage(fs storage.FileStorage, expiry time.Duration) Option {
	return func(o *options) {
		o.images = imageResolver{fs: fs, expiry: expiry}
	}
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func requireIdentity(id domain.Identity) error {
	if !id.Authenticated() {
		return ErrUnauthenticated
	}
	return nil
}

// permissionError turns a store-level privilege failure into the error shown
// to callers, leaving every other error untouched.
func permissionError(err error) error {
	if errors.Is(err, repository.ErrPermissionDenied) {
		return ErrInsufficientPermissions
	}
	return err
}

type imageResolver struct {
	fs     storage.FileStorage
	expiry time.Duration
}

// resolve rewrites ImgURL in place. An image that cannot be presigned is
// dropped from the response rather than failing the whole listing.
func (r imageResolver) resolve(ctx context.Context, exercises ...*domain.Exercise) {
	if r.fs == nil {
		return
	}
	for _, e := range exercises {
		if e == nil || e.ImgURL == "" {
			continue
		}
		resolved, err := storage.ResolveImageURL(ctx, r.fs, e.ImgURL, r.expiry)
		if err != nil {
			log.WithError(err).WithField("exercise_id", e.ID).Warn("presign exercise image")
			resolved = ""
		}
		e.ImgURL = resolved
	}
}

func (r imageResolver) resolveAll(ctx context.Context, exercises []domain.Exercise) {
	for i := range exercises {
		r.resolve(ctx, &exercises[i])
	}
}
