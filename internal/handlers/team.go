package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kamgaa/lab-reservation/internal/admission"
	"github.com/kamgaa/lab-reservation/internal/handlers/apidto"
	"github.com/kamgaa/lab-reservation/internal/handlers/apierr"
	"github.com/kamgaa/lab-reservation/pkg/team"
	"go.uber.org/zap"
)

type TeamHandler struct {
	repo   team.TeamsRepo
	engine *admission.Engine
	logger *zap.SugaredLogger
}

func NewTeamHandler(logger *zap.SugaredLogger, repo team.TeamsRepo, engine *admission.Engine) *TeamHandler {
	return &TeamHandler{
		repo:   repo,
		engine: engine,
		logger: logger,
	}
}

type listTeamsResp struct {
	Teams []apidto.Team `json:"teams"`
}

func (h *TeamHandler) ListTeams(c *gin.Context) {
	teams, err := h.repo.ListTeams(c.Request.Context())
	if err != nil {
		h.logger.Errorw("error listing teams", "err", err)
		apierr.WriteApiErrJSON(c, http.StatusInternalServerError, apierr.InternalServerError)
		return
	}

	c.JSON(http.StatusOK, listTeamsResp{
		Teams: apidto.FromTeams(teams),
	})
}

type getTeamResp struct {
	Team apidto.Team `json:"team"`
}

func (h *TeamHandler) GetTeam(c *gin.Context) {
	teamName := c.Query("team_name")
	if teamName == "" {
		apierr.WriteApiErrJSON(c, http.StatusBadRequest, apierr.BadRequest)
		h.logger.Warnw("no team name provided")
		return
	}

	teamToReturn, err := h.repo.GetTeam(c.Request.Context(), teamName)
	if err != nil {
		if apierr.Handle(c, err) {
			h.logger.Warnw("error getting team", "error", err)
			return
		}

		h.logger.Errorw("error getting team", "error", err)
		apierr.WriteApiErrJSON(c, http.StatusInternalServerError, apierr.InternalServerError)
		return
	}

	c.JSON(http.StatusOK, getTeamResp{
		Team: apidto.FromTeam(teamToReturn),
	})
}

type quotaResp struct {
	Quota apidto.Quota `json:"quota"`
}

// Quota reports used and remaining hours for the ISO week of ?date= (today by default).
func (h *TeamHandler) Quota(c *gin.Context) {
	teamName := c.Query("team_name")
	if teamName == "" {
		apierr.WriteApiErrJSON(c, http.StatusBadRequest, apierr.BadRequest)
		h.logger.Warnw("no team name provided")
		return
	}

	date, ok := dateQuery(c, h.engine)
	if !ok {
		return
	}

	if _, err := h.repo.GetTeam(c.Request.Context(), teamName); err != nil {
		if apierr.Handle(c, err) {
			h.logger.Warnw("error getting team", "error", err)
			return
		}

		h.logger.Errorw("error getting team", "error", err)
		apierr.WriteApiErrJSON(c, http.StatusInternalServerError, apierr.InternalServerError)
		return
	}

	quota, err := h.engine.TeamQuota(c.Request.Context(), teamName, date)
	if err != nil {
		if apierr.Handle(c, err) {
			h.logger.Warnw("mapped error computing quota", "error", err)
			return
		}

		h.logger.Errorw("error computing quota", "teamName", teamName, "err", err)
		apierr.WriteApiErrJSON(c, http.StatusInternalServerError, apierr.InternalServerError)
		return
	}

	c.JSON(http.StatusOK, quotaResp{
		Quota: apidto.FromQuota(quota),
	})
}
