package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/itqan-cloud/service-desk/internal/core/domain"
)

const (
	collectionMenu  = "menu"
	collectionRooms = "rooms"
)

// ReferenceRepository serves the read-only menu and room collaborators.
// These collections are mutated only by administrative tooling; the core
// just reads them.
type ReferenceRepository struct {
	menu  *mongo.Collection
	rooms *mongo.Collection
}

func NewReferenceRepository(db *mongo.Database) *ReferenceRepository {
	return &ReferenceRepository{
		menu:  db.Collection(collectionMenu),
		rooms: db.Collection(collectionRooms),
	}
}

// ListAvailable returns the menu items currently flagged available.
func (r *ReferenceRepository) ListAvailable(ctx context.Context) ([]domain.MenuItem, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.menu.Find(ctx, bson.M{"available": true})
	if err != nil {
		return nil, fmt.Errorf("list menu: %w", err)
	}
	defer cur.Close(ctx)

	var items []domain.MenuItem
	for cur.Next(ctx) {
		var item domain.MenuItem
		if err := cur.Decode(&item); err != nil {
			return nil, fmt.Errorf("decode menu item: %w", err)
		}
		items = append(items, item)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate menu: %w", err)
	}
	return items, nil
}

// ListRooms returns the full room list.
func (r *ReferenceRepository) ListRooms(ctx context.Context) ([]domain.Room, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.rooms.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	defer cur.Close(ctx)

	var rooms []domain.Room
	for cur.Next(ctx) {
		var room domain.Room
		if err := cur.Decode(&room); err != nil {
			return nil, fmt.Errorf("decode room: %w", err)
		}
		rooms = append(rooms, room)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate rooms: %w", err)
	}
	return rooms, nil
}
