package ws_session

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	http_common "github.com/humanbelnik/kinoswap/duo/internal/delivery/http/common"
	"github.com/humanbelnik/kinoswap/duo/internal/model"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

//go:generate mockery --name=SessionChecker --output=./mocks --filename=checker.go
type SessionChecker interface {
	Exists(ctx context.Context, id model.SessionID) (bool, error)
}

type Controller struct {
	sessions SessionChecker
	hub      *Hub

	logger *slog.Logger
}

type ControllerOption func(*Controller)

func WithLogger(logger *slog.Logger) ControllerOption {
	return func(c *Controller) {
		c.logger = logger
	}
}

func NewController(sessions SessionChecker,
	hub *Hub,
	opts ...ControllerOption) *Controller {
	c := &Controller{
		sessions: sessions,
		hub:      hub,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/sessions/:session_id/ws", c.join)
}

// @Summary Join session notifications
// @Description Upgrades to a websocket that receives update_matches events for the session
// @Tags Sessions
// @Param session_id path string true "Session id"
// @Success 101 "Switching protocols"
// @Failure 404 {object} http_common.ErrorResponse "Session not found"
// @Failure 500 {object} http_common.ErrorResponse "Internal error"
// @Router /sessions/{session_id}/ws [get]
func (c *Controller) join(ctx *gin.Context) {
	sessionID := ctx.Param("session_id")

	ok, err := c.sessions.Exists(ctx.Request.Context(), sessionID)
	if err != nil {
		c.logger.Error("failed to check session",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
		ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{
			Message: "internal error",
		})
		return
	}
	if !ok {
		ctx.JSON(http.StatusNotFound, http_common.ErrorResponse{
			Message: "session not found",
		})
		return
	}

	conn, err := upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		c.logger.Error("failed to upgrade to websocket",
			slog.String("error", err.Error()),
		)
		return
	}

	client := newClient(c.hub, conn, sessionID)
	if !c.hub.Join(client) {
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}
