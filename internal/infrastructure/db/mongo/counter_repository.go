package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/itqan-cloud/service-desk/internal/core/domain"
)

const collectionCups = "cups"

// CounterRepository implements the per-room cup counter on MongoDB. The
// store's $inc and $set operators give the required serialization of
// concurrent increments and resets; there is never a read-modify-write at
// this layer.
type CounterRepository struct {
	col *mongo.Collection
}

func NewCounterRepository(db *mongo.Database) *CounterRepository {
	return &CounterRepository{col: db.Collection(collectionCups)}
}

// Increment atomically adds one to the room's counter, creating the record
// when absent.
func (r *CounterRepository) Increment(ctx context.Context, room string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.UpdateOne(
		ctx,
		bson.M{"room": room},
		bson.M{"$inc": bson.M{"count": 1}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("increment counter: %w", err)
	}
	return nil
}

// Reset atomically zeroes the room's counter. The record is kept, never
// deleted.
func (r *CounterRepository) Reset(ctx context.Context, room string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.UpdateOne(
		ctx,
		bson.M{"room": room},
		bson.M{"$set": bson.M{"count": 0}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("reset counter: %w", err)
	}
	return nil
}

// ListNonZero returns the rooms that currently have cups waiting.
func (r *CounterRepository) ListNonZero(ctx context.Context) ([]domain.Counter, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"count": bson.M{"$gt": 0}})
	if err != nil {
		return nil, fmt.Errorf("list counters: %w", err)
	}
	defer cur.Close(ctx)

	var counters []domain.Counter
	for cur.Next(ctx) {
		var c domain.Counter
		if err := cur.Decode(&c); err != nil {
			return nil, fmt.Errorf("decode counter: %w", err)
		}
		counters = append(counters, c)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate counters: %w", err)
	}
	return counters, nil
}

// EnsureIndexes creates the unique room index the upserts rely on.
func (r *CounterRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "room", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
