package middleware

import (
	"context"

	"horeca-compliance-backend/token"
	"horeca-compliance-backend/users/services"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// AppContext bundles all middleware dependencies
type AppContext struct {
	PasetoMaker token.Maker
	Ctx         context.Context
	RedisClient *redis.Client
	DB          *gorm.DB
	Resolver    services.IdentityResolver
}
