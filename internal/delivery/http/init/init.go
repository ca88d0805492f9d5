package http_init

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	apiPrefix       = "/api/v1"
	shutdownTimeout = 10 * time.Second
)

type Controller interface {
	RegisterRoutes(router *gin.RouterGroup)
}

type ControllerPool struct {
	pool   []Controller
	rg     *gin.RouterGroup
	engine *gin.Engine
}

func NewControllerPool(middlewares ...gin.HandlerFunc) *ControllerPool {
	engine := gin.Default()
	rg := engine.Group(apiPrefix, middlewares...)
	return &ControllerPool{
		pool:   make([]Controller, 0, 10),
		rg:     rg,
		engine: engine,
	}
}

func (pool *ControllerPool) Register() {
	for _, c := range pool.pool {
		c.RegisterRoutes(pool.rg)
	}
}

// Handler exposes the engine, mostly for httptest.
func (pool *ControllerPool) Handler() http.Handler {
	return pool.engine
}

// RunAll serves until ctx is cancelled, then drains in-flight requests.
func (pool *ControllerPool) RunAll(ctx context.Context, port string) {
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: pool.engine,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("HTTP server shutdown: %v", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("failed to run HTTP server: %v", err)
	}
}

func (pool *ControllerPool) Add(c Controller) {
	pool.pool = append(pool.pool, c)
}
