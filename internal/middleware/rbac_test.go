package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/scholara/scholara-api/internal/models"
)

func performRBAC(t *testing.T, claims *models.JWTClaims, paramID string, allowed ...string) int {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	if paramID != "" {
		c.Params = gin.Params{{Key: "id", Value: paramID}}
	}
	if claims != nil {
		c.Set(ContextUserKey, claims)
	}

	RBAC(allowed...)(c)
	if c.IsAborted() {
		return w.Code
	}
	return http.StatusOK
}

func TestRBACAllowsListedRole(t *testing.T) {
	claims := &models.JWTClaims{UserID: "t1", Role: models.RoleTeacher}
	assert.Equal(t, http.StatusOK, performRBAC(t, claims, "", string(models.RoleAdmin), string(models.RoleTeacher)))
}

func TestRBACAllowsSelf(t *testing.T) {
	claims := &models.JWTClaims{UserID: "s1", Role: models.RoleStudent}
	assert.Equal(t, http.StatusOK, performRBAC(t, claims, "s1", string(models.RoleAdmin), "SELF"))
}

func TestRBACDeniesForeignSelf(t *testing.T) {
	claims := &models.JWTClaims{UserID: "s1", Role: models.RoleStudent}
	assert.Equal(t, http.StatusForbidden, performRBAC(t, claims, "s2", string(models.RoleAdmin), "SELF"))
}

func TestRBACDeniesMissingClaims(t *testing.T) {
	assert.Equal(t, http.StatusUnauthorized, performRBAC(t, nil, "", string(models.RoleAdmin)))
}
