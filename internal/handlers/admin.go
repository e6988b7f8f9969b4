package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kamgaa/lab-reservation/internal/events"
	"github.com/kamgaa/lab-reservation/internal/handlers/apidto"
	"github.com/kamgaa/lab-reservation/internal/handlers/apierr"
	"github.com/kamgaa/lab-reservation/internal/metrics"
	"github.com/kamgaa/lab-reservation/pkg/reservation"
	"github.com/kamgaa/lab-reservation/pkg/user"
	"go.uber.org/zap"
)

// AdminHandler serves the admin-only routes. Deleting is the only way a
// reservation ever goes away.
type AdminHandler struct {
	store    reservation.Store
	userRepo user.UsersRepo
	notifier *events.Notifier
	logger   *zap.SugaredLogger
}

func NewAdminHandler(logger *zap.SugaredLogger, store reservation.Store, userRepo user.UsersRepo, notifier *events.Notifier) *AdminHandler {
	return &AdminHandler{
		store:    store,
		userRepo: userRepo,
		notifier: notifier,
		logger:   logger,
	}
}

func (h *AdminHandler) ListReservations(c *gin.Context) {
	rs, err := h.store.ListAll(c.Request.Context())
	if err != nil {
		h.logger.Errorw("error listing reservations", "err", err)
		apierr.WriteApiErrJSON(c, http.StatusInternalServerError, apierr.InternalServerError)
		return
	}

	c.JSON(http.StatusOK, reservationsResp{
		Reservations: apidto.FromReservations(rs),
	})
}

func (h *AdminHandler) DeleteReservation(c *gin.Context) {
	reservationID := c.Param("id")
	if reservationID == "" {
		apierr.WriteApiErrJSON(c, http.StatusBadRequest, apierr.BadRequest)
		h.logger.Warnw("no reservation id provided")
		return
	}

	removed, err := h.store.Delete(c.Request.Context(), reservationID)
	metrics.ObserveReservationOp("delete", err)
	if err != nil {
		if apierr.Handle(c, err) {
			h.logger.Warnw("mapped error deleting reservation", "reservationID", reservationID, "error", err)
			return
		}

		h.logger.Errorw("error deleting reservation", "reservationID", reservationID, "err", err)
		apierr.WriteApiErrJSON(c, http.StatusInternalServerError, apierr.InternalServerError)
		return
	}

	metrics.AddActiveReservations(-1)
	h.notifier.Cancelled(c.Request.Context(), removed)

	h.logger.Infow("reservation deleted by admin", "reservationID", removed.ID, "ownerID", removed.OwnerID)
	c.JSON(http.StatusOK, reservationResp{
		Reservation: apidto.FromReservation(removed),
	})
}

type listUsersResp struct {
	Users []apidto.User `json:"users"`
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.userRepo.ListUsers(c.Request.Context())
	if err != nil {
		h.logger.Errorw("error listing users", "err", err)
		apierr.WriteApiErrJSON(c, http.StatusInternalServerError, apierr.InternalServerError)
		return
	}

	c.JSON(http.StatusOK, listUsersResp{
		Users: apidto.FromUsers(users),
	})
}
