package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func authTestRouter(apiKey string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(AuthMiddleware(apiKey))
	router.GET("/protected", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func doRequest(router *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	router.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	router := authTestRouter("secret")

	assert.Equal(t, http.StatusOK, doRequest(router, "Bearer secret").Code)
	assert.Equal(t, http.StatusUnauthorized, doRequest(router, "").Code)
	assert.Equal(t, http.StatusUnauthorized, doRequest(router, "Bearer wrong").Code)
	assert.Equal(t, http.StatusUnauthorized, doRequest(router, "Basic secret").Code)
	assert.Equal(t, http.StatusUnauthorized, doRequest(router, "secret").Code)
}

func TestAuthMiddlewareDisabledWithoutKey(t *testing.T) {
	router := authTestRouter("")

	assert.Equal(t, http.StatusOK, doRequest(router, "").Code)
}
