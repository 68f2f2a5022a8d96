package token

import (
	"time"

	"horeca-compliance-backend/db/models"

	"github.com/google/uuid"
)

// Maker is the interface for managing session tokens
type Maker interface {
	CreateToken(userID uuid.UUID, email string, role models.Role, duration time.Duration) (string, error)
	VerifyToken(token string) (*Payload, error)
}
