package http_access_middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/ozontech/allure-go/pkg/framework/provider"
	"github.com/ozontech/allure-go/pkg/framework/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type AccessMiddlewareSuite struct {
	suite.Suite
}

func newRouter(mode string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(ReadOnlyBadGatewayMiddleware(mode))
	router.GET("/sessions/:session_id/matches", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	router.POST("/sessions", func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})
	return router
}

func (s *AccessMiddlewareSuite) TestReadOnlyMode(t provider.T) {
	testCases := []struct {
		name           string
		mode           string
		method         string
		path           string
		expectedStatus int
	}{
		{name: "RW allows writes", mode: "RW", method: http.MethodPost, path: "/sessions", expectedStatus: http.StatusCreated},
		{name: "RW allows reads", mode: "RW", method: http.MethodGet, path: "/sessions/abc/matches", expectedStatus: http.StatusOK},
		{name: "Empty mode allows writes", mode: "", method: http.MethodPost, path: "/sessions", expectedStatus: http.StatusCreated},
		{name: "RO allows reads", mode: "RO", method: http.MethodGet, path: "/sessions/abc/matches", expectedStatus: http.StatusOK},
		{name: "RO rejects writes", mode: "RO", method: http.MethodPost, path: "/sessions", expectedStatus: http.StatusBadGateway},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t provider.T) {
			router := newRouter(tc.mode)

			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tc.expectedStatus, w.Code)
		})
	}
}

func (s *AccessMiddlewareSuite) TestReadOnlyBody(t provider.T) {
	router := newRouter("RO")

	req := httptest.NewRequest(http.MethodPost, "/sessions", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "READ_ONLY_INSTANCE", body["code"])
}

func TestAccessMiddlewareSuite(t *testing.T) {
	suite.RunSuite(t, new(AccessMiddlewareSuite))
}
