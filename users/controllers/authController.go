package controllers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"horeca-compliance-backend/config"
	"horeca-compliance-backend/middleware"
	"horeca-compliance-backend/token"
	"horeca-compliance-backend/users/repositories"
	"horeca-compliance-backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"
)

const passwordResetTTL = time.Hour

type AuthController struct {
	UserRepo    repositories.UserRepository
	TokenMaker  token.Maker
	RedisClient *redis.Client
	Ctx         context.Context
	AppCtx      *middleware.AppContext
	FrontendURL string

	limiterMu sync.Mutex
	limiters  map[string]*rate.Limiter
}

func NewAuthController(
	userRepo repositories.UserRepository,
	tokenMaker token.Maker,
	ctx context.Context,
	redisClient *redis.Client,
	appCtx *middleware.AppContext,
	frontendURL string,
) *AuthController {
	return &AuthController{
		UserRepo:    userRepo,
		TokenMaker:  tokenMaker,
		RedisClient: redisClient,
		Ctx:         ctx,
		AppCtx:      appCtx,
		FrontendURL: frontendURL,
		limiters:    make(map[string]*rate.Limiter),
	}
}

// loginLimiter allows 5 attempts per minute per email.
func (ac *AuthController) loginLimiter(email string) *rate.Limiter {
	ac.limiterMu.Lock()
	defer ac.limiterMu.Unlock()
	l, ok := ac.limiters[email]
	if !ok {
		l = rate.NewLimiter(rate.Every(12*time.Second), 5)
		ac.limiters[email] = l
	}
	return l
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates by email+password and issues the session cookie pair.
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request payload",
		})
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"success": false,
			"message": "Email and password are required",
		})
	}

	if !ac.loginLimiter(email).Allow() {
		config.Logger.Warn("Login rate limit hit", zap.String("email", email))
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"success": false,
			"message": "Too many login attempts, try again shortly",
		})
	}

	user, err := ac.UserRepo.GetUserByEmail(email)
	if err != nil || !user.Active {
		// Same response for unknown email, wrong password and inactive account.
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "Invalid credentials",
		})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "Invalid credentials",
		})
	}

	accessToken, err := ac.TokenMaker.CreateToken(user.ID, user.Email, user.Role, middleware.AccessTokenTTL)
	if err != nil {
		config.Logger.Error("Could not create access token", zap.Error(err))
		return internalError(c)
	}
	refreshToken, err := ac.TokenMaker.CreateToken(user.ID, user.Email, user.Role, middleware.RefreshTokenTTL)
	if err != nil {
		config.Logger.Error("Could not create refresh token", zap.Error(err))
		return internalError(c)
	}

	if err := ac.RedisClient.Set(ac.Ctx, "refresh_token:"+refreshToken, user.ID.String(), middleware.RefreshTokenTTL).Err(); err != nil {
		config.Logger.Error("Could not store refresh token", zap.Error(err))
		return internalError(c)
	}

	middleware.SetSessionCookies(c, accessToken, refreshToken)

	if err := ac.UserRepo.TouchLastLogin(user.ID); err != nil {
		config.Logger.Warn("Failed to update last login", zap.Error(err))
	}

	actor, err := ac.AppCtx.Resolver.Resolve(user.Email)
	if err != nil {
		config.Logger.Error("Identity resolution failed after login", zap.Error(err))
		return internalError(c)
	}

	response := fiber.Map{
		"success": true,
		"message": "Logged in",
		"data": fiber.Map{
			"user":      user,
			"is_client": actor.IsClient(),
		},
	}
	if actor.Client != nil {
		response["data"].(fiber.Map)["client_organization"] = actor.Client
	}
	return c.Status(fiber.StatusOK).JSON(response)
}

// Me returns the resolved session identity: principal plus, for client
// actors, the owning organization.
func (ac *AuthController) Me(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)
	if actor == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "Unauthorized",
		})
	}

	data := fiber.Map{
		"user":      actor.User,
		"is_client": actor.IsClient(),
	}
	if actor.Client != nil {
		data["client_organization"] = actor.Client
	}
	return c.JSON(fiber.Map{"success": true, "data": data})
}

// Logout revokes the refresh token and clears cookies.
func (ac *AuthController) Logout(c *fiber.Ctx) error {
	middleware.TerminateSession(c, ac.AppCtx)
	return c.JSON(fiber.Map{"success": true, "message": "Logged out"})
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ForgotPasswordRequestController mails a one-hour reset link. Responds
// identically whether or not the email exists.
func (ac *AuthController) ForgotPasswordRequestController(c *fiber.Ctx) error {
	var req ForgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request payload",
		})
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, err := ac.UserRepo.GetUserByEmail(email)
	if err == nil && user.Active {
		resetToken := uuid.NewString()
		if err := ac.RedisClient.Set(ac.Ctx, "password_reset:"+resetToken, user.ID.String(), passwordResetTTL).Err(); err != nil {
			config.Logger.Error("Could not store password reset token", zap.Error(err))
			return internalError(c)
		}

		link := fmt.Sprintf("%s/reset-password?token=%s", ac.FrontendURL, resetToken)
		body := fmt.Sprintf("<p>Beste %s,</p><p>Klik <a href=%q>hier</a> om uw wachtwoord opnieuw in te stellen. Deze link is één uur geldig.</p>", user.FirstName, link)
		if err := utils.SendEmail(user.Email, "Wachtwoord opnieuw instellen", body); err != nil {
			config.Logger.Error("Failed to send password reset email", zap.Error(err))
		}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "If the email is known, a reset link has been sent",
	})
}

type ResetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

func (ac *AuthController) ForgotPasswordResetController(c *fiber.Ctx) error {
	var req ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request payload",
		})
	}
	if len(req.NewPassword) < 8 {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"success": false,
			"message": "Password must be at least 8 characters",
		})
	}

	userIDStr, err := ac.RedisClient.Get(ac.Ctx, "password_reset:"+req.Token).Result()
	if errors.Is(err, redis.Nil) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "Reset link is invalid or expired",
		})
	}
	if err != nil {
		config.Logger.Error("Redis error during password reset", zap.Error(err))
		return internalError(c)
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return internalError(c)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return internalError(c)
	}

	if err := ac.UserRepo.UpdatePassword(userID, string(hash)); err != nil {
		config.Logger.Error("Failed to reset password", zap.Error(err))
		return internalError(c)
	}

	// One-shot token.
	if err := ac.RedisClient.Del(ac.Ctx, "password_reset:"+req.Token).Err(); err != nil {
		config.Logger.Warn("Failed to delete used reset token", zap.Error(err))
	}

	return c.JSON(fiber.Map{"success": true, "message": "Password updated"})
}

type UpdatePasswordRequest struct {
	NewPassword string `json:"new_password"`
}

// UpdatePasswordController changes the authenticated user's own password.
func (ac *AuthController) UpdatePasswordController(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)
	if actor == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "Unauthorized",
		})
	}

	var req UpdatePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request payload",
		})
	}
	if len(req.NewPassword) < 8 {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"success": false,
			"message": "Password must be at least 8 characters",
		})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return internalError(c)
	}

	if err := ac.UserRepo.UpdatePassword(actor.User.ID, string(hash)); err != nil {
		config.Logger.Error("Failed to update password", zap.Error(err))
		return internalError(c)
	}

	return c.JSON(fiber.Map{"success": true, "message": "Password updated"})
}

func internalError(c *fiber.Ctx) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"success": false,
		"message": "Something went wrong",
	})
}
