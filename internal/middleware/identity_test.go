package middleware

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/teach-assist-api/internal/models"
)

const testSecret = "identity-secret"

type userResolverStub struct {
	users map[string]*models.User
}

func (s userResolverStub) FindByExternalAuthID(_ context.Context, id string) (*models.User, error) {
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, sql.ErrNoRows
}

func signToken(t *testing.T, secret string, claims IdentityClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func identityRouter(users userResolver) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Identity(IdentityConfig{Secret: testSecret, Fallback: models.Actor{UserID: 1, ClassID: 1, Role: models.RoleTeacher}}, users))
	r.GET("/whoami", func(c *gin.Context) {
		actor, ok := ActorFromContext(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, actor)
	})
	return r
}

func whoami(t *testing.T, r *gin.Engine, header string) (int, models.Actor) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	var actor models.Actor
	if rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &actor))
	}
	return rec.Code, actor
}

func TestIdentityFallsBackWithoutHeader(t *testing.T) {
	code, actor := whoami(t, identityRouter(nil), "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, int64(1), actor.UserID)
	assert.Equal(t, models.RoleTeacher, actor.Role)
}

func TestIdentityNumericSubject(t *testing.T) {
	token := signToken(t, testSecret, IdentityClaims{
		ClassID: 9,
		Role:    models.RoleStudent,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "42",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	code, actor := whoami(t, identityRouter(nil), "Bearer "+token)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, models.Actor{UserID: 42, ClassID: 9, Role: models.RoleStudent}, actor)
}

func TestIdentityExternalSubject(t *testing.T) {
	users := userResolverStub{users: map[string]*models.User{"auth0|abc": {ID: 12, Role: models.RoleTeacher}}}
	token := signToken(t, testSecret, IdentityClaims{RegisteredClaims: jwt.RegisteredClaims{Subject: "auth0|abc"}})

	code, actor := whoami(t, identityRouter(users), "Bearer "+token)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, int64(12), actor.UserID)
	assert.Equal(t, int64(1), actor.ClassID)

	unknown := signToken(t, testSecret, IdentityClaims{RegisteredClaims: jwt.RegisteredClaims{Subject: "auth0|zzz"}})
	code, _ = whoami(t, identityRouter(users), "Bearer "+unknown)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestIdentityRejectsBadTokens(t *testing.T) {
	r := identityRouter(nil)

	code, _ := whoami(t, r, "Token abc")
	assert.Equal(t, http.StatusUnauthorized, code)

	forged := signToken(t, "other-secret", IdentityClaims{RegisteredClaims: jwt.RegisteredClaims{Subject: "42"}})
	code, _ = whoami(t, r, "Bearer "+forged)
	assert.Equal(t, http.StatusUnauthorized, code)

	expired := signToken(t, testSecret, IdentityClaims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "42",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
	}})
	code, _ = whoami(t, r, "Bearer "+expired)
	assert.Equal(t, http.StatusUnauthorized, code)
}
