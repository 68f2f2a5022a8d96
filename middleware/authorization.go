package middleware

import (
	"time"

	"horeca-compliance-backend/config"
	"horeca-compliance-backend/db/models"
	"horeca-compliance-backend/policy"
	"horeca-compliance-backend/token"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	AccessTokenTTL  = 15 * time.Minute
	RefreshTokenTTL = 7 * 24 * time.Hour
)

// ProtectedRoute verifies the access token cookie, rotating via the
// single-use refresh token in Redis when needed, then resolves the full
// actor (principal + client organization) before any handler runs. Handlers
// never observe a partially resolved identity.
func ProtectedRoute(ctx *AppContext) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accessToken := c.Cookies("access_token")
		refreshToken := c.Cookies("refresh_token")

		if accessToken != "" {
			payload, err := ctx.PasetoMaker.VerifyToken(accessToken)
			if err == nil {
				return resolveAndContinue(c, ctx, payload)
			}
			config.Logger.Debug("Invalid access token encountered", zap.Error(err))
		}

		if refreshToken == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Unauthorized",
				"error":   "Authentication required",
			})
		}

		refreshPayload, err := ctx.PasetoMaker.VerifyToken(refreshToken)
		if err != nil {
			config.Logger.Error("Invalid refresh token verification failed", zap.Error(err))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Unauthorized",
				"error":   "Session expired or invalid. Please log in again.",
			})
		}

		userID, err := ctx.RedisClient.Get(ctx.Ctx, "refresh_token:"+refreshToken).Result()
		if err == redis.Nil {
			config.Logger.Warn("Refresh token not found in Redis",
				zap.String("payload_id", refreshPayload.ID.String()),
				zap.String("email", refreshPayload.Email),
			)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Unauthorized",
				"error":   "Session invalid. Please log in again.",
			})
		} else if err != nil {
			config.Logger.Error("Error accessing Redis for refresh token validation",
				zap.String("email", refreshPayload.Email),
				zap.Error(err),
			)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Something went wrong",
				"error":   "An internal server error occurred.",
			})
		}

		// Single-use refresh: invalidate before reissuing.
		if err := ctx.RedisClient.Del(ctx.Ctx, "refresh_token:"+refreshToken).Err(); err != nil {
			config.Logger.Warn("Error deleting old refresh token from Redis",
				zap.String("user_id", userID),
				zap.Error(err),
			)
		}

		newAccessToken, err := ctx.PasetoMaker.CreateToken(
			refreshPayload.UserID, refreshPayload.Email, refreshPayload.Role, AccessTokenTTL)
		if err != nil {
			config.Logger.Error("Could not generate new access token", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Something went wrong",
				"error":   "An internal server error occurred.",
			})
		}

		newRefreshToken, err := ctx.PasetoMaker.CreateToken(
			refreshPayload.UserID, refreshPayload.Email, refreshPayload.Role, RefreshTokenTTL)
		if err != nil {
			config.Logger.Error("Could not generate new refresh token", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Something went wrong",
				"error":   "An internal server error occurred.",
			})
		}

		err = ctx.RedisClient.Set(ctx.Ctx, "refresh_token:"+newRefreshToken, userID, RefreshTokenTTL).Err()
		if err != nil {
			config.Logger.Error("Error storing new refresh token in Redis",
				zap.String("user_id", userID),
				zap.Error(err),
			)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Something went wrong",
				"error":   "An internal server error occurred.",
			})
		}

		SetSessionCookies(c, newAccessToken, newRefreshToken)

		return resolveAndContinue(c, ctx, refreshPayload)
	}
}

func resolveAndContinue(c *fiber.Ctx, ctx *AppContext, payload *token.Payload) error {
	actor, err := ctx.Resolver.Resolve(payload.Email)
	if err != nil {
		config.Logger.Warn("Identity resolution failed",
			zap.String("email", payload.Email),
			zap.Error(err))
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Unauthorized",
			"error":   "Authentication required",
		})
	}

	c.Locals("user", payload)
	c.Locals("actor", actor)
	return c.Next()
}

// ActorFromContext retrieves the resolved actor set by ProtectedRoute.
func ActorFromContext(c *fiber.Ctx) *policy.Actor {
	actor, _ := c.Locals("actor").(*policy.Actor)
	return actor
}

// RequireAdmin gates admin-only surfaces. Unauthorized attempts are written
// to the activity log and terminate the session.
func RequireAdmin(ctx *AppContext) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := ActorFromContext(c)
		if actor != nil && actor.IsAdmin() {
			return c.Next()
		}

		entry := models.ActivityLog{
			Action: models.ActionUnauthorizedAdminAccess,
			Path:   c.Path(),
		}
		if actor != nil && actor.User != nil {
			entry.ActorID = &actor.User.ID
			entry.ActorMail = actor.User.Email
		}
		if err := ctx.DB.Create(&entry).Error; err != nil {
			config.Logger.Error("Failed to write activity log entry", zap.Error(err))
		}

		TerminateSession(c, ctx)

		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"success": false,
			"message": "Forbidden",
		})
	}
}

// TerminateSession revokes the refresh token and clears session cookies.
func TerminateSession(c *fiber.Ctx, ctx *AppContext) {
	if refreshToken := c.Cookies("refresh_token"); refreshToken != "" {
		if err := ctx.RedisClient.Del(ctx.Ctx, "refresh_token:"+refreshToken).Err(); err != nil {
			config.Logger.Warn("Error revoking refresh token", zap.Error(err))
		}
	}
	ClearSessionCookies(c)
}

// SetSessionCookies writes the access and refresh token cookies.
func SetSessionCookies(c *fiber.Ctx, accessToken, refreshToken string) {
	secure := config.GetEnv("COOKIE_SECURE") == "true"
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    accessToken,
		Expires:  time.Now().Add(AccessTokenTTL),
		HTTPOnly: true,
		Secure:   secure,
		SameSite: "Lax",
		Path:     "/",
	})
	c.Cookie(&fiber.Cookie{
		Name:     "refresh_token",
		Value:    refreshToken,
		Expires:  time.Now().Add(RefreshTokenTTL),
		HTTPOnly: true,
		Secure:   secure,
		SameSite: "Lax",
		Path:     "/",
	})
}

// ClearSessionCookies expires both session cookies.
func ClearSessionCookies(c *fiber.Ctx) {
	expired := time.Now().Add(-time.Hour)
	for _, name := range []string{"access_token", "refresh_token"} {
		c.Cookie(&fiber.Cookie{
			Name:     name,
			Value:    "",
			Expires:  expired,
			HTTPOnly: true,
			Path:     "/",
		})
	}
}
