package auth

import (
	"context"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "workforce/internal/errors"
	"workforce/internal/model"
)

// ContextKeyActor is the echo context key holding the authenticated *Actor.
const ContextKeyActor = "actor"

// ContextKeyToken is the echo context key echo-jwt stores the parsed token under.
const ContextKeyToken = "user"

// Actor is the authenticated user a request acts on behalf of.
type Actor struct {
	UserID    uint
	Email     string
	Role      model.Role
	TokenID   string
	ExpiresAt time.Time
}

// ActorFromClaims builds an Actor from validated access-token claims.
func ActorFromClaims(claims *Claims) *Actor {
	actor := &Actor{
		UserID:  claims.UserID,
		Email:   claims.Email,
		Role:    claims.Role,
		TokenID: claims.ID,
	}
	if claims.ExpiresAt != nil {
		actor.ExpiresAt = claims.ExpiresAt.Time
	}
	return actor
}

// ActorFrom returns the actor attached by ActorMiddleware, or nil.
func ActorFrom(c echo.Context) *Actor {
	actor, _ := c.Get(ContextKeyActor).(*Actor)
	return actor
}

type actorCtxKey struct{}

// WithActor returns a copy of ctx carrying actor.
func WithActor(ctx context.Context, actor *Actor) context.Context {
	return context.WithValue(ctx, actorCtxKey{}, actor)
}

// ActorFromContext returns the actor stored by WithActor, or nil.
func ActorFromContext(ctx context.Context) *Actor {
	actor, _ := ctx.Value(actorCtxKey{}).(*Actor)
	return actor
}

// ActorMiddleware turns the token parsed by echo-jwt into an Actor. Refresh
// tokens and blacklisted access tokens are rejected.
func ActorMiddleware(store TokenStoreInterface, logger *zap.Logger) echo.MiddlewareFunc {
	logger = logger.Named("auth")
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := c.Get(ContextKeyToken).(*jwt.Token)
			if !ok {
				return unauthorized()
			}
			claims, ok := token.Claims.(*Claims)
			if !ok || claims.Type != TokenTypeAccess || !claims.Role.Valid() {
				return unauthorized()
			}

			ctx := c.Request().Context()
			blacklisted, err := store.IsAccessTokenBlacklisted(ctx, claims.ID)
			if err != nil {
				logger.Warn("blacklist lookup failed", zap.Error(err))
			}
			if blacklisted {
				return unauthorized()
			}

			actor := ActorFromClaims(claims)
			c.Set(ContextKeyActor, actor)
			c.SetRequest(c.Request().WithContext(WithActor(ctx, actor)))
			return next(c)
		}
	}
}

func unauthorized() error {
	return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{
		Error: apperrors.ErrUnauthorized.Error(),
		Code:  "UNAUTHORIZED",
	})
}
