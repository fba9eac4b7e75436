package http

import (
	"errors"
	"net/http"

	"modelhub/internal/assets"
	"modelhub/internal/logger"
	"modelhub/internal/service"
	"modelhub/internal/store"
	"modelhub/internal/utils"
	"modelhub/models"
)

var errorStatusMap = map[error]int{
	service.ErrInvalidDataProvided: http.StatusBadRequest,
	assets.ErrUnsupportedFileType:  http.StatusBadRequest,
	assets.ErrFileTooLarge:         http.StatusBadRequest,

	service.ErrWrongPassword:  http.StatusUnauthorized,
	service.ErrTokenIsExpired: http.StatusUnauthorized,

	service.ErrPermissionDenied: http.StatusForbidden,
	service.ErrForbidden:        http.StatusForbidden,

	store.ErrUserNotFound:    http.StatusNotFound,
	store.ErrModelNotFound:   http.StatusNotFound,
	store.ErrSettingNotFound: http.StatusNotFound,
	store.ErrHotspotNotFound: http.StatusNotFound,
	assets.ErrAssetNotFound:  http.StatusNotFound,

	store.ErrUsernameTaken: http.StatusConflict,
	store.ErrEmailTaken:    http.StatusConflict,

	store.ErrBuildingSQLQuery:      http.StatusInternalServerError,
	store.ErrExecutingQuery:        http.StatusInternalServerError,
	store.ErrBeginningTransaction:  http.StatusInternalServerError,
	store.ErrCommittingTransaction: http.StatusInternalServerError,
	store.ErrScanningRow:           http.StatusInternalServerError,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}

// writeError logs err and writes the mapped JSON error response. Internal
// errors are reported with a generic message so that driver details never
// reach the client.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromRequest(r)
	status := statusFromError(err)

	message := err.Error()
	if status == http.StatusInternalServerError {
		log.Err(err).Msg("request failed")
		message = http.StatusText(http.StatusInternalServerError)
	} else {
		log.Warn().Err(err).Int("status", status).Send()
	}

	utils.WriteJSON(w, models.ErrorResponse{Error: message}, status)
}
