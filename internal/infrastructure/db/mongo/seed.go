package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/itqan-cloud/service-desk/internal/core/domain"
)

type seedAccount struct {
	username string
	password string
	name     string
	role     string
	room     string
}

var defaultAccounts = []seedAccount{
	{"admin", "123", "Eng. Karim", domain.RoleAdmin, "IT Office"},
	{"ali", "123", "Ali Adel", domain.RoleEmployee, "Yellow Room"},
	{"office", "123", "Amr Office", domain.RoleOfficeBoy, "Kitchen"},
	{"it", "123", "Support Team", domain.RoleITSupport, "IT Room"},
}

var defaultMenu = []domain.MenuItem{
	{Name: "Coffee", Available: true},
	{Name: "Tea", Available: true},
	{Name: "Nescafe", Available: true},
	{Name: "Water", Available: true},
}

var defaultRooms = []domain.Room{
	{Name: "Yellow Room"},
	{Name: "Kitchen"},
	{Name: "IT Room"},
	{Name: "IT Office"},
}

// Seed inserts the default accounts, menu and room list when the respective
// collections are empty. First-run convenience only; administrative tooling
// owns this data afterwards.
func Seed(ctx context.Context, accounts *AccountRepository, refs *ReferenceRepository, log zerolog.Logger) error {
	n, err := accounts.Count(ctx)
	if err != nil {
		return fmt.Errorf("seed: count accounts: %w", err)
	}
	if n == 0 {
		for _, a := range defaultAccounts {
			hash, err := bcrypt.GenerateFromPassword([]byte(a.password), bcrypt.DefaultCost)
			if err != nil {
				return fmt.Errorf("seed: hash password: %w", err)
			}
			_, err = accounts.Create(ctx, &domain.Account{
				Username:     a.username,
				PasswordHash: string(hash),
				Name:         a.name,
				Role:         a.role,
				Room:         a.room,
				CreatedAt:    time.Now().UTC(),
			})
			if err != nil {
				return fmt.Errorf("seed: create account %s: %w", a.username, err)
			}
		}
		log.Info().Int("accounts", len(defaultAccounts)).Msg("seeded default accounts")
	}

	menuDocs := make([]interface{}, len(defaultMenu))
	for i, m := range defaultMenu {
		menuDocs[i] = m
	}
	seeded, err := seedCollection(ctx, refs.menu, menuDocs)
	if err != nil {
		return fmt.Errorf("seed menu: %w", err)
	}
	if seeded {
		log.Info().Int("items", len(defaultMenu)).Msg("seeded default menu")
	}

	roomDocs := make([]interface{}, len(defaultRooms))
	for i, r := range defaultRooms {
		roomDocs[i] = r
	}
	seeded, err = seedCollection(ctx, refs.rooms, roomDocs)
	if err != nil {
		return fmt.Errorf("seed rooms: %w", err)
	}
	if seeded {
		log.Info().Int("rooms", len(defaultRooms)).Msg("seeded default room list")
	}

	return nil
}

func seedCollection(ctx context.Context, col *mongo.Collection, docs []interface{}) (bool, error) {
	n, err := col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	_, err = col.InsertMany(ctx, docs)
	return err == nil, err
}
