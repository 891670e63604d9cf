package ports

import (
	"context"

	"github.com/itqan-cloud/service-desk/internal/core/domain"
)

// AccountRepository is the identity collaborator's storage contract.
type AccountRepository interface {
	FindByUsername(ctx context.Context, username string) (*domain.Account, error)
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)
	Count(ctx context.Context) (int64, error)
}

// MenuRepository is the read-only menu collaborator. The core only consults
// it when validating a buffet ticket's item.
type MenuRepository interface {
	ListAvailable(ctx context.Context) ([]domain.MenuItem, error)
}

// RoomRepository is the read-only room-list collaborator.
type RoomRepository interface {
	ListRooms(ctx context.Context) ([]domain.Room, error)
}
