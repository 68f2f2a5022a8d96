package services

import (
	"errors"
	"fmt"

	"horeca-compliance-backend/config"
	"horeca-compliance-backend/db/models"
	"horeca-compliance-backend/policy"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrUnauthenticated means the principal itself could not be resolved. A
// missing portal account is NOT this error: most users are staff.
var ErrUnauthenticated = errors.New("unauthenticated")

type IdentityResolver interface {
	Resolve(email string) (*policy.Actor, error)
}

type identityResolver struct {
	DB *gorm.DB
}

func NewIdentityResolver(db *gorm.DB) IdentityResolver {
	return &identityResolver{DB: db}
}

// Resolve loads the user and, when present, its client organization. Both
// lookups complete before the actor is returned, so callers never act on a
// principal whose client linkage is still unknown.
func (r *identityResolver) Resolve(email string) (*policy.Actor, error) {
	var user models.User
	err := r.DB.Where("email = ? AND active = ?", email, true).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUnauthenticated
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve principal: %w", err)
	}

	var account models.PortalAccount
	err = r.DB.Preload("Client").Where("user_id = ?", user.ID).First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Staff actor: employee or admin by role.
		return &policy.Actor{User: &user}, nil
	}
	if err != nil {
		// A failed portal lookup must not silently classify the user as
		// staff; that would widen their read scope.
		config.Logger.Error("Portal account lookup failed",
			zap.String("email", email),
			zap.Error(err))
		return nil, fmt.Errorf("failed to resolve client organization: %w", err)
	}

	if account.Client == nil {
		return nil, fmt.Errorf("portal account %s has no client organization", account.ID)
	}

	return &policy.Actor{User: &user, Client: account.Client}, nil
}
