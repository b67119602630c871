package api

import (
	"errors"
	"net/http"

	"alcyxob/workout-tracker/internal/service"
	"alcyxob/workout-tracker/internal/storage"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

var (
	notFoundErrors = []error{
		service.ErrSessionNotFound,
		service.ErrSetNotFound,
		service.ErrExerciseNotFound,
		service.ErrProgramNotFound,
		service.ErrProgramExerciseNotFound,
		service.ErrShareNotFound,
		service.ErrUserNotFound,
		service.ErrRecipientNotFound,
	}
	conflictErrors = []error{
		service.ErrAlreadyShared,
		service.ErrUserAlreadyExists,
	}
	badRequestErrors = []error{
		service.ErrInvalidDate,
		service.ErrInvalidSet,
		service.ErrInvalidDuration,
		service.ErrDuplicateSetNumber,
		service.ErrExerciseRequired,
		service.ErrProgramNameRequired,
		service.ErrInvalidFocusArea,
		service.ErrInvalidLevel,
		service.ErrInvalidTargets,
		service.ErrShareWithSelf,
		service.ErrInvalidRole,
		service.ErrInvalidEmail,
		service.ErrWeakPassword,
		service.ErrCannotDemoteSelf,
		service.ErrCannotDeleteSelf,
		storage.ErrInvalidContentType,
	}
)

func isAny(err error, targets []error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}

// writeServiceError maps a service error to a status code and the
// {"error": msg} body. Unknown errors are logged and hidden behind a
// generic message.
func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUnauthenticated):
		abortWithError(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrInsufficientPermissions):
		abortWithError(c, http.StatusForbidden, service.ErrInsufficientPermissions.Error())
	case errors.Is(err, service.ErrAuthenticationFailed):
		abortWithError(c, http.StatusUnauthorized, err.Error())
	case isAny(err, notFoundErrors):
		abortWithError(c, http.StatusNotFound, err.Error())
	case isAny(err, conflictErrors):
		abortWithError(c, http.StatusConflict, err.Error())
	case isAny(err, badRequestErrors):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrImageStorageAbsent):
		abortWithError(c, http.StatusServiceUnavailable, err.Error())
	default:
		_ = c.Error(err)
		log.WithError(err).WithField("path", c.Request.URL.Path).Error("request failed")
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}
