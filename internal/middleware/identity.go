package middleware

import (
	"context"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/noah-isme/teach-assist-api/internal/models"
	appErrors "github.com/noah-isme/teach-assist-api/pkg/errors"
	"github.com/noah-isme/teach-assist-api/pkg/response"
)

// ContextActorKey is the gin context key storing the resolved caller.
const ContextActorKey = "actor"

// IdentityClaims are the bearer token claims understood by Identity. The
// subject is either a numeric user id or an external auth id.
type IdentityClaims struct {
	ClassID int64           `json:"class_id,omitempty"`
	Role    models.UserRole `json:"role,omitempty"`
	jwt.RegisteredClaims
}

type userResolver interface {
	FindByExternalAuthID(ctx context.Context, externalID string) (*models.User, error)
}

// IdentityConfig configures Identity.
type IdentityConfig struct {
	Secret   string
	Fallback models.Actor
}

// Identity resolves the caller for every request. Requests without an
// Authorization header run as cfg.Fallback; a header that fails to verify
// is rejected.
func Identity(cfg IdentityConfig, users userResolver) gin.HandlerFunc {
	secret := []byte(cfg.Secret)
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Set(ContextActorKey, cfg.Fallback)
			c.Next()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid authorization header"))
			c.Abort()
			return
		}
		if len(secret) == 0 {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "bearer tokens are not enabled"))
			c.Abort()
			return
		}

		claims := &IdentityClaims{}
		_, err := jwt.ParseWithClaims(strings.TrimSpace(parts[1]), claims, func(*jwt.Token) (interface{}, error) {
			return secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token"))
			c.Abort()
			return
		}

		actor, err := resolveActor(c.Request.Context(), claims, cfg.Fallback, users)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}
		c.Set(ContextActorKey, actor)
		c.Next()
	}
}

func resolveActor(ctx context.Context, claims *IdentityClaims, fallback models.Actor, users userResolver) (models.Actor, error) {
	actor := models.Actor{ClassID: claims.ClassID, Role: claims.Role}
	if actor.ClassID == 0 {
		actor.ClassID = fallback.ClassID
	}

	subject := strings.TrimSpace(claims.Subject)
	if subject == "" {
		return models.Actor{}, appErrors.Clone(appErrors.ErrUnauthorized, "token subject missing")
	}
	if id, err := strconv.ParseInt(subject, 10, 64); err == nil && id > 0 {
		actor.UserID = id
	} else {
		if users == nil {
			return models.Actor{}, appErrors.Clone(appErrors.ErrUnauthorized, "unknown user")
		}
		user, err := users.FindByExternalAuthID(ctx, subject)
		if err != nil || user == nil {
			return models.Actor{}, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "unknown user")
		}
		actor.UserID = user.ID
		if actor.Role == "" {
			actor.Role = user.Role
		}
	}
	if actor.Role == "" {
		actor.Role = models.RoleTeacher
	}
	return actor, nil
}

// ActorFromContext returns the caller resolved by Identity.
func ActorFromContext(c *gin.Context) (models.Actor, bool) {
	value, exists := c.Get(ContextActorKey)
	if !exists {
		return models.Actor{}, false
	}
	actor, ok := value.(models.Actor)
	return actor, ok
}
