package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agendahub/agenda-api/internal/model"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, subject string, role string, expiresIn time.Duration) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, identityClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
		},
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func newIdentityRouter(identity *Identity, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := append([]gin.HandlerFunc{identity.Require()}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		actor, _ := ActorFrom(c)
		c.JSON(http.StatusOK, gin.H{"id": actor.ID, "role": actor.Role})
	})
	r.GET("/protected", handlers...)
	return r
}

func get(r *gin.Engine, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequire(t *testing.T) {
	identity := NewIdentity(testSecret)
	r := newIdentityRouter(identity)
	actorID := uuid.New()

	token := signToken(t, testSecret, actorID.String(), model.RoleStaff, time.Hour)
	w := get(r, "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), actorID.String())
	assert.Contains(t, w.Body.String(), model.RoleStaff)
}

func TestRequireRejections(t *testing.T) {
	identity := NewIdentity(testSecret)
	r := newIdentityRouter(identity)
	subject := uuid.NewString()

	tests := []struct {
		name          string
		authorization string
	}{
		{"missing header", ""},
		{"not a bearer token", "Basic abc123"},
		{"malformed token", "Bearer not.a.jwt"},
		{"wrong secret", "Bearer " + signToken(t, "other-secret", subject, model.RoleStaff, time.Hour)},
		{"expired token", "Bearer " + signToken(t, testSecret, subject, model.RoleStaff, -time.Hour)},
		{"non-uuid subject", "Bearer " + signToken(t, testSecret, "user-42", model.RoleStaff, time.Hour)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(r, tt.authorization)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestRequireRole(t *testing.T) {
	identity := NewIdentity(testSecret)
	r := newIdentityRouter(identity, identity.RequireRole(model.RoleAdmin, model.RoleStaff))

	staffToken := signToken(t, testSecret, uuid.NewString(), model.RoleStaff, time.Hour)
	w := get(r, "Bearer "+staffToken)
	assert.Equal(t, http.StatusOK, w.Code)

	clientToken := signToken(t, testSecret, uuid.NewString(), model.RoleClient, time.Hour)
	w = get(r, "Bearer "+clientToken)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestActorFromEmptyContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, ok := ActorFrom(c)
	assert.False(t, ok)
}
