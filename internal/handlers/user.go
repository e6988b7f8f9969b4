package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kamgaa/lab-reservation/internal/handlers/apidto"
	"github.com/kamgaa/lab-reservation/internal/handlers/apierr"
	"github.com/kamgaa/lab-reservation/internal/handlers/mdlwr"
	"github.com/kamgaa/lab-reservation/pkg/team"
	"github.com/kamgaa/lab-reservation/pkg/user"
	"go.uber.org/zap"
)

type UserHandler struct {
	userRepo user.UsersRepo
	teamRepo team.TeamsRepo
	logger   *zap.SugaredLogger
}

func NewUserHandler(logger *zap.SugaredLogger, userRepo user.UsersRepo, teamRepo team.TeamsRepo) *UserHandler {
	return &UserHandler{
		userRepo: userRepo,
		teamRepo: teamRepo,
		logger:   logger,
	}
}

type registerReq struct {
	UserID   string `json:"user_id" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required"`
	TeamName string `json:"team_name" binding:"required"`
}

type userResp struct {
	User apidto.User `json:"user"`
}

func (h *UserHandler) Register(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.WriteApiErrJSON(c, http.StatusBadRequest, apierr.BadRequest)
		h.logger.Warnw("error parsing request", "error", err)
		return
	}

	if !h.knownTeam(c, req.TeamName) {
		return
	}

	newUser, err := user.New(req.UserID, req.Name, req.Password, req.TeamName)
	if err != nil {
		if apierr.Handle(c, err) {
			h.logger.Warnw("invalid registration", "userID", req.UserID, "error", err)
			return
		}

		apierr.WriteApiErrJSON(c, http.StatusInternalServerError, apierr.InternalServerError)
		h.logger.Errorw("error preparing user", "userID", req.UserID, "err", err)
		return
	}

	created, err := h.userRepo.Create(c.Request.Context(), newUser)
	if err != nil {
		if apierr.Handle(c, err) {
			h.logger.Warnw("mapped error registering user", "error", err)
			return
		}

		apierr.WriteApiErrJSON(c, http.StatusInternalServerError, apierr.InternalServerError)
		h.logger.Errorw("error registering user", "userID", req.UserID, "err", err)
		return
	}

	c.JSON(http.StatusCreated, userResp{
		User: apidto.FromUser(created),
	})
}

func (h *UserHandler) Me(c *gin.Context) {
	id, ok := mdlwr.CurrentIdentity(c)
	if !ok {
		apierr.WriteApiErrJSON(c, http.StatusUnauthorized, apierr.Unauthorized)
		return
	}

	usr, err := h.userRepo.GetByID(c.Request.Context(), id.UserID)
	if err != nil {
		if apierr.Handle(c, err) {
			h.logger.Warnw("mapped error loading user", "error", err)
			return
		}

		apierr.WriteApiErrJSON(c, http.StatusInternalServerError, apierr.InternalServerError)
		h.logger.Errorw("error loading user", "userID", id.UserID, "err", err)
		return
	}

	c.JSON(http.StatusOK, userResp{
		User: apidto.FromUser(usr),
	})
}

type updateProfileReq struct {
	UserID   string `json:"user_id" binding:"required"`
	Name     string `json:"name" binding:"required"`
	TeamName string `json:"team_name"`
}

// UpdateProfile edits the caller. After an id change the caller has to log in
// again, the current token still names the old id.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	id, ok := mdlwr.CurrentIdentity(c)
	if !ok {
		apierr.WriteApiErrJSON(c, http.StatusUnauthorized, apierr.Unauthorized)
		return
	}

	var req updateProfileReq
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.WriteApiErrJSON(c, http.StatusBadRequest, apierr.BadRequest)
		h.logger.Warnw("error parsing request", "error", err)
		return
	}

	if req.TeamName != "" && !h.knownTeam(c, req.TeamName) {
		return
	}

	updated, err := h.userRepo.UpdateProfile(c.Request.Context(), id.UserID, user.Profile{
		UserID:   req.UserID,
		Name:     req.Name,
		TeamName: req.TeamName,
	})
	if err != nil {
		if apierr.Handle(c, err) {
			h.logger.Warnw("mapped error updating profile", "error", err)
			return
		}

		apierr.WriteApiErrJSON(c, http.StatusInternalServerError, apierr.InternalServerError)
		h.logger.Errorw("error updating profile", "userID", id.UserID, "err", err)
		return
	}

	c.JSON(http.StatusOK, userResp{
		User: apidto.FromUser(updated),
	})
}

// knownTeam writes the error response itself when it returns false.
func (h *UserHandler) knownTeam(c *gin.Context, teamName string) bool {
	_, err := h.teamRepo.GetTeam(c.Request.Context(), teamName)
	if err == nil {
		return true
	}

	if errors.Is(err, team.ErrTeamNotFound) {
		apierr.WriteApiErrJSON(c, http.StatusBadRequest, apierr.TeamNotFound)
		h.logger.Warnw("unknown team", "teamName", teamName)
		return false
	}

	apierr.WriteApiErrJSON(c, http.StatusInternalServerError, apierr.InternalServerError)
	h.logger.Errorw("error checking team", "teamName", teamName, "err", err)
	return false
}
