package apierr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kamgaa/lab-reservation/internal/admission"
	"github.com/kamgaa/lab-reservation/pkg/reservation"
	"github.com/kamgaa/lab-reservation/pkg/team"
	"github.com/kamgaa/lab-reservation/pkg/timeslot"
	"github.com/kamgaa/lab-reservation/pkg/user"
	"gorm.io/gorm"
)

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	// RemainingHours is set on quota rejections only.
	RemainingHours *float64 `json:"remaining_hours,omitempty"`
}

type ErrResponse struct {
	Error APIError `json:"error"`
}

// Map keeps response codes stable while internal errors change wording.
func Map(err error) (int, APIError, bool) {
	switch {
	case errors.Is(err, admission.ErrInvalidInterval),
		errors.Is(err, timeslot.ErrInvalidTimeOfDay):
		return http.StatusBadRequest, InvalidInterval, true
	case errors.Is(err, admission.ErrPastTime):
		return http.StatusBadRequest, PastTime, true
	case errors.Is(err, timeslot.ErrInvalidDate):
		return http.StatusBadRequest, InvalidDate, true
	case errors.Is(err, user.ErrInvalidUserID):
		return http.StatusBadRequest, InvalidUserID, true
	case errors.Is(err, user.ErrInvalidName):
		return http.StatusBadRequest, InvalidName, true
	case errors.Is(err, team.ErrTeamExists):
		return http.StatusBadRequest, TeamExists, true

	case errors.Is(err, user.ErrInvalidCredentials):
		return http.StatusUnauthorized, InvalidCredentials, true

	case errors.Is(err, user.ErrUserNotFound):
		return http.StatusNotFound, UserNotFound, true
	case errors.Is(err, team.ErrTeamNotFound):
		return http.StatusNotFound, TeamNotFound, true
	case errors.Is(err, reservation.ErrReservationNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound, NotFound, true

	case errors.Is(err, admission.ErrQuotaExhausted):
		return http.StatusConflict, withRemaining(QuotaExhausted, err), true
	case errors.Is(err, admission.ErrQuotaExceeded):
		return http.StatusConflict, withRemaining(QuotaExceeded, err), true
	case errors.Is(err, admission.ErrSlotConflict):
		return http.StatusConflict, SlotConflict, true
	case errors.Is(err, admission.ErrNoTeam):
		return http.StatusConflict, NoTeam, true
	case errors.Is(err, user.ErrUserExists):
		return http.StatusConflict, UserExists, true

	case errors.Is(err, admission.ErrStorageUnavailable):
		return http.StatusServiceUnavailable, StorageUnavailable, true
	default:
		// left to the handler, it may know better
		return http.StatusInternalServerError, InternalServerError, false
	}
}

func withRemaining(apiErr APIError, err error) APIError {
	if h, ok := admission.RemainingHours(err); ok {
		apiErr.RemainingHours = &h
	}
	return apiErr
}

func Handle(c *gin.Context, err error) bool {
	if status, apiErr, ok := Map(err); ok {
		WriteApiErrJSON(c, status, apiErr)
		return true
	}

	return false
}

func WriteApiErrJSON(c *gin.Context, status int, apiErr APIError) {
	c.JSON(status, ErrResponse{
		Error: apiErr,
	})
}
