package handler

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scholara/scholara-api/internal/middleware"
	"github.com/scholara/scholara-api/internal/models"
)

func TestClassRequestHandlerDecideRejectsBadID(t *testing.T) {
	handler := NewClassRequestHandler(nil)
	c, w := newTestContext(t)
	setRequest(c, http.MethodPatch, "/class-assignment-request/abc", []byte(`{"action":"approve"}`))
	c.Params = gin.Params{{Key: "id", Value: "abc"}}
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "admin", Role: models.RoleAdmin})

	handler.Decide(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestClassRequestHandlerDecideInvalidBody(t *testing.T) {
	handler := NewClassRequestHandler(nil)
	c, w := newTestContext(t)
	setRequest(c, http.MethodPatch, "/class-assignment-request/5", []byte(`invalid`))
	c.Params = gin.Params{{Key: "id", Value: "5"}}
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "admin", Role: models.RoleAdmin})

	handler.Decide(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
