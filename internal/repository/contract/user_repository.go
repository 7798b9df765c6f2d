package contract

import (
	"context"

	"ai-travelplanner-be/internal/entity"
	"ai-travelplanner-be/internal/repository/specification"

	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	Update(ctx context.Context, user *entity.User) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error)

	UpdatePassword(ctx context.Context, userId uuid.UUID, hash string) error
	ActivateUser(ctx context.Context, userId uuid.UUID) error

	// One-time codes (register / reset). Codes are stored hashed and
	// consumed on successful verification.
	CreateAuthCode(ctx context.Context, code *entity.AuthCode) error
	FindLatestAuthCode(ctx context.Context, email, purpose string) (*entity.AuthCode, error)
	DeleteAuthCode(ctx context.Context, id uuid.UUID) error

	// OAuth providers
	SaveUserProvider(ctx context.Context, provider *entity.UserProvider) error
	FindUserProvider(ctx context.Context, providerName, providerUserId string) (*entity.UserProvider, error)
}
