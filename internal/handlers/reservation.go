package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kamgaa/lab-reservation/internal/admission"
	"github.com/kamgaa/lab-reservation/internal/events"
	"github.com/kamgaa/lab-reservation/internal/handlers/apidto"
	"github.com/kamgaa/lab-reservation/internal/handlers/apierr"
	"github.com/kamgaa/lab-reservation/internal/handlers/mdlwr"
	"github.com/kamgaa/lab-reservation/internal/metrics"
	"github.com/kamgaa/lab-reservation/internal/schedule"
	"github.com/kamgaa/lab-reservation/pkg/reservation"
	"github.com/kamgaa/lab-reservation/pkg/team"
	"github.com/kamgaa/lab-reservation/pkg/timeslot"
	"go.uber.org/zap"
)

type ReservationHandler struct {
	engine   *admission.Engine
	store    reservation.Store
	teamRepo team.TeamsRepo
	notifier *events.Notifier
	logger   *zap.SugaredLogger
}

func NewReservationHandler(
	logger *zap.SugaredLogger,
	engine *admission.Engine,
	store reservation.Store,
	teamRepo team.TeamsRepo,
	notifier *events.Notifier,
) *ReservationHandler {
	return &ReservationHandler{
		engine:   engine,
		store:    store,
		teamRepo: teamRepo,
		notifier: notifier,
		logger:   logger,
	}
}

type reserveReq struct {
	Date      string `json:"date" binding:"required"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
}

type reservationResp struct {
	Reservation apidto.Reservation `json:"reservation"`
}

type reservationsResp struct {
	Reservations []apidto.Reservation `json:"reservations"`
}

func (h *ReservationHandler) Reserve(c *gin.Context) {
	id, ok := mdlwr.CurrentIdentity(c)
	if !ok {
		apierr.WriteApiErrJSON(c, http.StatusUnauthorized, apierr.Unauthorized)
		return
	}

	var req reserveReq
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.WriteApiErrJSON(c, http.StatusBadRequest, apierr.BadRequest)
		h.logger.Warnw("error parsing request", "error", err)
		return
	}

	date, err := timeslot.ParseDate(req.Date)
	if err != nil {
		h.notReserved(c, id.UserID, err)
		return
	}

	start, err := timeslot.ParseTimeOfDay(req.StartTime)
	if err != nil {
		h.notReserved(c, id.UserID, err)
		return
	}

	end, err := timeslot.ParseTimeOfDay(req.EndTime)
	if err != nil {
		h.notReserved(c, id.UserID, err)
		return
	}

	created, err := h.engine.TryReserve(c.Request.Context(), id.UserID, date, start, end)
	if err != nil {
		h.notReserved(c, id.UserID, err)
		return
	}

	metrics.AddActiveReservations(1)
	h.notifier.Confirmed(c.Request.Context(), created)

	c.JSON(http.StatusCreated, reservationResp{
		Reservation: apidto.FromReservation(created),
	})
}

func (h *ReservationHandler) notReserved(c *gin.Context, userID string, err error) {
	if apierr.Handle(c, err) {
		h.logger.Warnw("reservation not made", "userID", userID, "error", err)
		return
	}

	h.logger.Errorw("Reserve failed, couldnt map the error", "userID", userID, "err", err)
	apierr.WriteApiErrJSON(c, http.StatusInternalServerError, apierr.InternalServerError)
}

// ListByDate lists every team's reservations on ?date= (today by default).
func (h *ReservationHandler) ListByDate(c *gin.Context) {
	date, ok := dateQuery(c, h.engine)
	if !ok {
		return
	}

	rs, err := h.engine.ListByDate(c.Request.Context(), date)
	if err != nil {
		h.writeErr(c, "error listing reservations", err)
		return
	}

	c.JSON(http.StatusOK, reservationsResp{
		Reservations: apidto.FromReservations(rs),
	})
}

type scheduleResp struct {
	Schedule apidto.Schedule `json:"schedule"`
}

// Schedule returns the hourly occupancy of ?date= for drawing.
func (h *ReservationHandler) Schedule(c *gin.Context) {
	date, ok := dateQuery(c, h.engine)
	if !ok {
		return
	}

	rs, err := h.engine.ListByDate(c.Request.Context(), date)
	if err != nil {
		h.writeErr(c, "error listing reservations", err)
		return
	}

	teams, err := h.teamRepo.ListTeams(c.Request.Context())
	if err != nil {
		h.writeErr(c, "error listing teams", err)
		return
	}

	c.JSON(http.StatusOK, scheduleResp{
		Schedule: apidto.FromSchedule(schedule.Build(date, rs, apidto.TeamColors(teams))),
	})
}

func (h *ReservationHandler) Mine(c *gin.Context) {
	id, ok := mdlwr.CurrentIdentity(c)
	if !ok {
		apierr.WriteApiErrJSON(c, http.StatusUnauthorized, apierr.Unauthorized)
		return
	}

	rs, err := h.store.ListByOwner(c.Request.Context(), id.UserID)
	if err != nil {
		h.writeErr(c, "error listing own reservations", err)
		return
	}

	c.JSON(http.StatusOK, reservationsResp{
		Reservations: apidto.FromReservations(rs),
	})
}

func (h *ReservationHandler) writeErr(c *gin.Context, msg string, err error) {
	if apierr.Handle(c, err) {
		h.logger.Warnw(msg, "error", err)
		return
	}

	h.logger.Errorw(msg, "err", err)
	apierr.WriteApiErrJSON(c, http.StatusInternalServerError, apierr.InternalServerError)
}

// dateQuery reads ?date=, defaulting to the engine's today. On a bad value it
// writes the response and returns false.
func dateQuery(c *gin.Context, engine *admission.Engine) (time.Time, bool) {
	raw := c.Query("date")
	if raw == "" {
		return engine.Today(), true
	}

	date, err := timeslot.ParseDate(raw)
	if err != nil {
		apierr.WriteApiErrJSON(c, http.StatusBadRequest, apierr.InvalidDate)
		return time.Time{}, false
	}
	return date, true
}
