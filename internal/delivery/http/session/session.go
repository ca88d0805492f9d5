package http_session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	http_common "github.com/humanbelnik/kinoswap/duo/internal/delivery/http/common"
	"github.com/humanbelnik/kinoswap/duo/internal/model"
	usecase_session "github.com/humanbelnik/kinoswap/duo/internal/usecase/session"
)

//go:generate mockery --name=SessionUsecase --output=./mocks --filename=usecase.go
type SessionUsecase interface {
	CreateSession(ctx context.Context, filter model.ServiceFilter) (model.Invitation, error)
	NextCandidate(ctx context.Context, id model.SessionID, role model.Role) (model.Candidate, bool, error)
	RecordVote(ctx context.Context, id model.SessionID, role model.Role, cid model.CandidateID, liked bool) error
	Matches(ctx context.Context, id model.SessionID) ([]model.Candidate, error)
}

type Controller struct {
	usecase SessionUsecase
	logger  *slog.Logger
}

type ControllerOption func(*Controller)

func WithLogger(logger *slog.Logger) ControllerOption {
	return func(c *Controller) {
		c.logger = logger
	}
}

func New(usecase SessionUsecase, opts ...ControllerOption) *Controller {
	c := &Controller{
		usecase: usecase,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	sessions := router.Group("/sessions")
	{
		sessions.POST("", c.create)
		sessions.GET("/:session_id/matches", c.matches)
		sessions.GET("/:session_id/participants/:role/next", c.next)
		sessions.POST("/:session_id/participants/:role/votes", c.vote)
	}
}

// @Summary Create session
// @Description Opens a voting session for two participants. The caller becomes the first participant and gets a link for the second one
// @Tags Sessions
// @Accept json
// @Produce json
// @Param request body CreateSessionRequestDTO false "Streaming services to draw films from; all when omitted"
// @Success 201 {object} CreateSessionResponseDTO "Session created"
// @Failure 400 {object} http_common.ErrorResponse "Unknown service"
// @Failure 500 {object} http_common.ErrorResponse "Internal error"
// @Router /sessions [post]
func (c *Controller) create(ctx *gin.Context) {
	var req CreateSessionRequestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{
			Message: "incorrect request",
		})
		return
	}

	filter, err := model.NewServiceFilter(req.Services...)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{
			Message: err.Error(),
		})
		return
	}

	inv, err := c.usecase.CreateSession(ctx.Request.Context(), filter)
	if err != nil {
		c.writeError(ctx, "failed to create session", err)
		return
	}

	ctx.JSON(http.StatusCreated, CreateSessionResponseDTO{
		SessionID: inv.SessionID,
		Role:      string(inv.Role),
		ShareLink: inv.ShareLink,
	})
}

// @Summary Next film
// @Description Returns the next film the participant should judge, or done=true when nothing is left
// @Tags Sessions
// @Produce json
// @Param session_id path string true "Session id"
// @Param role path string true "Participant role" Enums(first, second)
// @Success 200 {object} NextCandidateResponseDTO "Next film"
// @Failure 400 {object} http_common.ErrorResponse "Unknown role"
// @Failure 404 {object} http_common.ErrorResponse "Session not found"
// @Failure 500 {object} http_common.ErrorResponse "Internal error"
// @Router /sessions/{session_id}/participants/{role}/next [get]
func (c *Controller) next(ctx *gin.Context) {
	sessionID := ctx.Param("session_id")
	role, ok := c.parseRole(ctx)
	if !ok {
		return
	}

	candidate, found, err := c.usecase.NextCandidate(ctx.Request.Context(), sessionID, role)
	if err != nil {
		c.writeError(ctx, "failed to get next candidate", err)
		return
	}

	resp := NextCandidateResponseDTO{Done: !found}
	if found {
		resp.Candidate = &candidate
	}
	ctx.JSON(http.StatusOK, resp)
}

// @Summary Vote
// @Description Records the participant's verdict on a film. Voting again overwrites the earlier verdict
// @Tags Sessions
// @Accept json
// @Produce json
// @Param session_id path string true "Session id"
// @Param role path string true "Participant role" Enums(first, second)
// @Param request body VoteRequestDTO true "Film and verdict"
// @Success 200 {object} VoteResponseDTO "Vote recorded"
// @Failure 400 {object} http_common.ErrorResponse "Incorrect request"
// @Failure 404 {object} http_common.ErrorResponse "Session not found"
// @Failure 409 {object} http_common.ErrorResponse "Too much contention, retry"
// @Failure 500 {object} http_common.ErrorResponse "Internal error"
// @Router /sessions/{session_id}/participants/{role}/votes [post]
func (c *Controller) vote(ctx *gin.Context) {
	sessionID := ctx.Param("session_id")
	role, ok := c.parseRole(ctx)
	if !ok {
		return
	}

	var req VoteRequestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil || req.FilmID == nil || req.Vote == nil {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{
			Message: "incorrect request",
		})
		return
	}

	err := c.usecase.RecordVote(ctx.Request.Context(), sessionID, role, *req.FilmID, bool(*req.Vote))
	if err != nil {
		c.writeError(ctx, "failed to record vote", err)
		return
	}

	ctx.JSON(http.StatusOK, VoteResponseDTO{Success: true})
}

// @Summary Matches
// @Description Films both participants liked, in session order
// @Tags Sessions
// @Produce json
// @Param session_id path string true "Session id"
// @Success 200 {object} MatchesResponseDTO "Current matches"
// @Failure 404 {object} http_common.ErrorResponse "Session not found"
// @Failure 500 {object} http_common.ErrorResponse "Internal error"
// @Router /sessions/{session_id}/matches [get]
func (c *Controller) matches(ctx *gin.Context) {
	sessionID := ctx.Param("session_id")

	matches, err := c.usecase.Matches(ctx.Request.Context(), sessionID)
	if err != nil {
		c.writeError(ctx, "failed to get matches", err)
		return
	}
	if matches == nil {
		matches = []model.Candidate{}
	}

	ctx.JSON(http.StatusOK, MatchesResponseDTO{Matches: matches})
}

func (c *Controller) parseRole(ctx *gin.Context) (model.Role, bool) {
	role, err := model.ParseRole(ctx.Param("role"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{
			Message: err.Error(),
		})
		return "", false
	}
	return role, true
}

func (c *Controller) writeError(ctx *gin.Context, msg string, err error) {
	switch {
	case errors.Is(err, usecase_session.ErrInvalidInput):
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{
			Message: "incorrect request",
		})
	case errors.Is(err, usecase_session.ErrResourceNotFound):
		ctx.JSON(http.StatusNotFound, http_common.ErrorResponse{
			Message: "session not found",
		})
	case errors.Is(err, usecase_session.ErrRetriesExhausted):
		c.logger.Warn(msg, slog.String("error", err.Error()))
		ctx.JSON(http.StatusConflict, http_common.ErrorResponse{
			Message: "session is busy, retry",
		})
	default:
		c.logger.Error(msg, slog.String("error", err.Error()))
		ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{
			Message: "internal error",
		})
	}
}
